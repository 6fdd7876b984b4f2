package questions

import (
	"fmt"
	"log"

	"monarch-says/internal/db"

	"github.com/pelletier/go-toml/v2"
)

type tomlFile struct {
	Questions []questionDoc `toml:"questions"`
}

// questionDoc mirrors one [[questions]] table. Optional fields are pointers so
// an absent key decodes to nil and gets its default filled in explicitly by
// build, rather than by any schema trickery.
type questionDoc struct {
	ID                       *uint    `toml:"id"`
	Question                 *string  `toml:"question"`
	AnswerA                  *string  `toml:"answerA"`
	AnswerB                  *string  `toml:"answerB"`
	Hotness                  *float64 `toml:"hotness"`
	Knowledge                *string  `toml:"knowledge"`
	LosesAllPoints           *string  `toml:"losesAllPointsOption"`
	Beheading                *string  `toml:"beheadingOption"`
	PlusOnePoint             *string  `toml:"plus1PointOption"`
	Invincibility            *string  `toml:"invincibilityOption"`
	Jail                     *string  `toml:"jailOption"`
	GenocideRoute            *string  `toml:"genocideRouteOption"`
	FollowUpQuestionID       *uint    `toml:"followUpQuestionId"`
	FollowUpCondition        *string  `toml:"followUpConditionOption"`
	InvincibilityOrBeheading *string  `toml:"invicibilityOrBeheadingOption"`
}

func (d questionDoc) build() (db.Question, error) {
	if d.ID == nil {
		return db.Question{}, fmt.Errorf("question is missing an id")
	}
	if d.Question == nil || d.AnswerA == nil || d.AnswerB == nil {
		return db.Question{}, fmt.Errorf("question %d is missing question text or an answer label", *d.ID)
	}
	question := db.Question{
		ID:                       *d.ID,
		Text:                     *d.Question,
		AnswerA:                  *d.AnswerA,
		AnswerB:                  *d.AnswerB,
		Hotness:                  d.Hotness,
		Knowledge:                d.Knowledge,
		LosesAllPoints:           d.LosesAllPoints,
		Beheading:                d.Beheading,
		PlusOnePoint:             d.PlusOnePoint,
		Invincibility:            d.Invincibility,
		Jail:                     d.Jail,
		GenocideRoute:            d.GenocideRoute,
		FollowUpQuestionID:       d.FollowUpQuestionID,
		FollowUpCondition:        d.FollowUpCondition,
		InvincibilityOrBeheading: d.InvincibilityOrBeheading,
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

// ParseTOML parses a curated question bank file containing [[questions]]
// tables. Invalid entries are logged and skipped.
func ParseTOML(data []byte) ([]db.Question, error) {
	var file tomlFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse toml: %w", err)
	}
	var questions []db.Question
	for _, doc := range file.Questions {
		question, err := doc.build()
		if err != nil {
			log.Printf("skipping toml question: %v", err)
			continue
		}
		questions = append(questions, question)
	}
	return questions, nil
}

// ToTOML renders questions back into the curated TOML format, used by the
// importer's TSV-to-TOML conversion mode.
func ToTOML(questions []db.Question) ([]byte, error) {
	file := tomlFile{Questions: make([]questionDoc, 0, len(questions))}
	for i := range questions {
		q := questions[i]
		id := q.ID
		text := q.Text
		answerA := q.AnswerA
		answerB := q.AnswerB
		file.Questions = append(file.Questions, questionDoc{
			ID:                       &id,
			Question:                 &text,
			AnswerA:                  &answerA,
			AnswerB:                  &answerB,
			Hotness:                  q.Hotness,
			Knowledge:                q.Knowledge,
			LosesAllPoints:           q.LosesAllPoints,
			Beheading:                q.Beheading,
			PlusOnePoint:             q.PlusOnePoint,
			Invincibility:            q.Invincibility,
			Jail:                     q.Jail,
			GenocideRoute:            q.GenocideRoute,
			FollowUpQuestionID:       q.FollowUpQuestionID,
			FollowUpCondition:        q.FollowUpCondition,
			InvincibilityOrBeheading: q.InvincibilityOrBeheading,
		})
	}
	return toml.Marshal(file)
}
