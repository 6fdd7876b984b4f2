package questions

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"monarch-says/internal/db"
)

// tsvHeader is the exact first row the spreadsheet export produces, typos and
// all. A mismatch means the file is not the format we understand.
var tsvHeader = []string{
	"Id",
	"Question",
	"Answer A",
	"Answer B",
	"Hotness",
	"Knowledge",
	"Loses all points",
	"Beheading (game over)",
	"+1 point",
	"Invicibility",
	"Jail",
	"if monarch chooses said option, everyone else loses all their points (genocide route)",
	"Follow Up Question",
	"Condition for follow up",
	"50/50 chance you get invicibility or beheaded",
}

// ParseTSV parses a question spreadsheet export. Rows that fail to parse are
// logged and skipped so one bad row never aborts an import.
func ParseTSV(data string) ([]db.Question, error) {
	lines := splitRows(data)
	if len(lines) == 0 {
		return nil, errors.New("tsv is empty")
	}
	if err := checkHeader(lines[0]); err != nil {
		return nil, err
	}

	var questions []db.Question
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		question, err := parseTSVRow(line)
		if err != nil {
			log.Printf("skipping tsv row: %v", err)
			continue
		}
		questions = append(questions, question)
	}
	return questions, nil
}

func splitRows(data string) []string {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	data = strings.TrimSuffix(data, "\n")
	if data == "" {
		return nil
	}
	return strings.Split(data, "\n")
}

func checkHeader(line string) error {
	fields := strings.Split(line, "\t")
	if len(fields) != len(tsvHeader) {
		return fmt.Errorf("tsv header has %d columns, want %d", len(fields), len(tsvHeader))
	}
	for i, field := range fields {
		if strings.TrimSpace(field) != tsvHeader[i] {
			return fmt.Errorf("tsv header column %d is %q, want %q", i+1, field, tsvHeader[i])
		}
	}
	return nil
}

func parseTSVRow(line string) (db.Question, error) {
	fields := strings.Split(line, "\t")
	// Trailing empty columns are routinely dropped by the exporter.
	for len(fields) < len(tsvHeader) {
		fields = append(fields, "")
	}

	cell := func(i int) *string {
		value := strings.TrimSpace(fields[i])
		if value == "" {
			return nil
		}
		return &value
	}

	idField := cell(0)
	text := cell(1)
	answerA := cell(2)
	answerB := cell(3)
	if idField == nil || text == nil || answerA == nil || answerB == nil {
		return db.Question{}, fmt.Errorf("row %q is missing a required column", line)
	}
	id, err := strconv.ParseUint(*idField, 10, 32)
	if err != nil {
		return db.Question{}, fmt.Errorf("row id %q is not a number", *idField)
	}

	question := db.Question{
		ID:                       uint(id),
		Text:                     *text,
		AnswerA:                  *answerA,
		AnswerB:                  *answerB,
		Knowledge:                cell(5),
		LosesAllPoints:           cell(6),
		Beheading:                cell(7),
		PlusOnePoint:             cell(8),
		Invincibility:            cell(9),
		Jail:                     cell(10),
		GenocideRoute:            cell(11),
		FollowUpCondition:        cell(13),
		InvincibilityOrBeheading: cell(14),
	}
	if raw := cell(4); raw != nil {
		hotness, err := strconv.ParseFloat(*raw, 64)
		if err != nil {
			return db.Question{}, fmt.Errorf("question %d: hotness %q is not a number", id, *raw)
		}
		question.Hotness = &hotness
	}
	if raw := cell(12); raw != nil {
		followUp, err := strconv.ParseUint(*raw, 10, 32)
		if err != nil {
			return db.Question{}, fmt.Errorf("question %d: follow-up id %q is not a number", id, *raw)
		}
		value := uint(followUp)
		question.FollowUpQuestionID = &value
	}
	if err := checkOptions(question.ID,
		question.LosesAllPoints,
		question.Beheading,
		question.PlusOnePoint,
		question.Invincibility,
		question.Jail,
		question.GenocideRoute,
		question.FollowUpCondition,
		question.InvincibilityOrBeheading,
	); err != nil {
		return db.Question{}, err
	}
	return question, nil
}
