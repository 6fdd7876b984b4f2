package server

import (
	"math/rand"

	"monarch-says/internal/db"
)

// seedQuestions keep a storeless server playable: when no database is
// configured, rounds draw from this built-in bank.
var seedQuestions = []Question{
	{ID: 1, Text: "Would you rather rule forever or be loved forever?", AnswerA: "Rule forever", AnswerB: "Be loved forever"},
	{ID: 2, Text: "Silk robes or a crown of iron?", AnswerA: "Silk robes", AnswerB: "Crown of iron"},
	{ID: 3, Text: "Would you rather banquet alone or fast with friends?", AnswerA: "Banquet alone", AnswerB: "Fast with friends"},
	{ID: 4, Text: "A castle with no doors or a tent with no walls?", AnswerA: "Castle, no doors", AnswerB: "Tent, no walls"},
	{ID: 5, Text: "Would you rather know every secret or keep one perfectly?", AnswerA: "Know every secret", AnswerB: "Keep one perfectly"},
	{ID: 6, Text: "Win every argument or never be argued with?", AnswerA: "Win every argument", AnswerB: "Never be argued with"},
}

// pickQuestion draws a uniform-random question for the next round: from the
// database bank when one is configured, otherwise from the seed bank.
func (s *Server) pickQuestion() (*Question, error) {
	if s.db == nil {
		question := seedQuestions[rand.Intn(len(seedQuestions))]
		return &question, nil
	}
	record, err := db.PickQuestion(s.db)
	if err != nil {
		return nil, err
	}
	return questionFromRecord(record), nil
}

func questionFromRecord(record *db.Question) *Question {
	if record == nil {
		return nil
	}
	return &Question{
		ID:      record.ID,
		Text:    record.Text,
		AnswerA: record.AnswerA,
		AnswerB: record.AnswerB,
		Hotness: record.Hotness,
	}
}
