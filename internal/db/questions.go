package db

import (
	"errors"
	"math/rand"

	"gorm.io/gorm"
)

// PickQuestion returns a uniform-random question from the bank.
func PickQuestion(conn *gorm.DB) (*Question, error) {
	if conn == nil {
		return nil, errors.New("db connection is nil")
	}
	questions, err := AllQuestions(conn)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, errors.New("question bank is empty")
	}
	question := questions[rand.Intn(len(questions))]
	return &question, nil
}

// AllQuestions returns the full question bank ordered by id.
func AllQuestions(conn *gorm.DB) ([]Question, error) {
	if conn == nil {
		return nil, errors.New("db connection is nil")
	}
	var questions []Question
	if err := conn.Order("id").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// QuestionByID looks up a single question; ok is false when absent.
func QuestionByID(conn *gorm.DB, id uint) (*Question, bool, error) {
	if conn == nil {
		return nil, false, errors.New("db connection is nil")
	}
	var question Question
	if err := conn.First(&question, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &question, true, nil
}

// UpsertQuestions replaces bank entries by id inside one transaction, so a
// partially malformed import never leaves the bank half written.
func UpsertQuestions(conn *gorm.DB, questions []Question) (int, error) {
	if conn == nil {
		return 0, errors.New("db connection is nil")
	}
	inserted := 0
	err := conn.Transaction(func(tx *gorm.DB) error {
		for i := range questions {
			if err := tx.Delete(&Question{}, "id = ?", questions[i].ID).Error; err != nil {
				return err
			}
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
