package db

import (
	"sync"
	"testing"

	"gorm.io/gorm/schema"
)

// The hand-written migration and the model must agree on column names, or
// AutoMigrate silently grows a second set of columns that never receive data.
func TestQuestionColumnsMatchMigration(t *testing.T) {
	parsed, err := schema.Parse(&Question{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("parse schema: %v", err)
	}

	columns := []string{
		"id",
		"text",
		"answer_a",
		"answer_b",
		"hotness",
		"knowledge",
		"loses_all_points_option",
		"beheading_option",
		"plus_one_point_option",
		"invincibility_option",
		"jail_option",
		"genocide_route_option",
		"follow_up_condition_option",
		"invincibility_or_beheading_option",
		"follow_up_question_id",
		"created_at",
		"updated_at",
	}
	for _, column := range columns {
		if _, ok := parsed.FieldsByDBName[column]; !ok {
			t.Errorf("model is missing column %q", column)
		}
	}
	if len(parsed.FieldsByDBName) != len(columns) {
		t.Fatalf("model has %d columns, migration has %d", len(parsed.FieldsByDBName), len(columns))
	}
}
