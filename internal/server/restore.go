package server

import (
	"fmt"
	"log"
	"sort"

	"monarch-says/internal/db"
)

// Restore loads every unfinished game from the database into the in-memory
// store. Called once at startup so a restart does not strand running games.
func (s *Server) Restore() error {
	if s.db == nil {
		return nil
	}
	var records []db.Game
	if err := s.db.Where("finished = ?", false).Find(&records).Error; err != nil {
		return err
	}
	restored := 0
	for _, record := range records {
		game, err := s.restoreGame(record)
		if err != nil {
			log.Printf("restore skipped game_id=%s error=%v", record.ID, err)
			continue
		}
		if err := s.store.AddGame(game); err != nil {
			log.Printf("restore skipped game_id=%s error=%v", record.ID, err)
			continue
		}
		restored++
	}
	if restored > 0 {
		log.Printf("restored games count=%d", restored)
	}
	return nil
}

func (s *Server) restoreGame(record db.Game) (*Game, error) {
	var members []db.GameMember
	if err := s.db.Where("game_id = ?", record.ID).Order("index asc").Find(&members).Error; err != nil {
		return nil, err
	}
	var answers []db.Answer
	if err := s.db.Where("game_id = ?", record.ID).Order("turn asc").Find(&answers).Error; err != nil {
		return nil, err
	}
	var question *db.Question
	if record.ActiveQuestionID != nil {
		found, ok, err := db.QuestionByID(s.db, *record.ActiveQuestionID)
		if err != nil {
			return nil, err
		}
		if ok {
			question = found
		}
	}
	names := make(map[string]string, len(members))
	for _, member := range members {
		names[member.PlayerID] = s.restorePlayerName(member.PlayerID)
	}
	return buildRestoredGame(record, members, answers, question, names)
}

// buildRestoredGame assembles the in-memory game from its rows. A started
// game whose question is gone from the bank is corrupt and refused: restoring
// it would leave a round nobody can answer or advance.
func buildRestoredGame(record db.Game, members []db.GameMember, answers []db.Answer, question *db.Question, names map[string]string) (*Game, error) {
	if record.Turn != nil && question == nil {
		return nil, fmt.Errorf("game %s has turn %d but no active question", record.ID, *record.Turn)
	}
	game := &Game{
		ID:             record.ID,
		HostID:         record.HostID,
		Hotness:        record.Hotness,
		Turn:           record.Turn,
		ActiveQuestion: questionFromRecord(question),
		Finished:       record.Finished,
		CreatedAt:      record.CreatedAt,
	}
	for _, member := range members {
		game.Members = append(game.Members, Member{
			PlayerID: member.PlayerID,
			Name:     names[member.PlayerID],
			Index:    member.Index,
			Points:   member.Points,
		})
	}
	sort.Slice(game.Members, func(i, j int) bool {
		return game.Members[i].Index < game.Members[j].Index
	})
	for _, answer := range answers {
		game.Answers = append(game.Answers, Answer{
			PlayerID:    answer.PlayerID,
			Turn:        answer.Turn,
			Value:       answer.Value,
			SubmittedAt: answer.UpdatedAt,
		})
	}
	return game, nil
}

func (s *Server) restorePlayerName(playerID string) string {
	if name, ok := s.store.PlayerName(playerID); ok {
		return name
	}
	var record db.Player
	if err := s.db.Where("id = ?", playerID).First(&record).Error; err != nil {
		return ""
	}
	s.store.RegisterPlayer(playerID, record.Name)
	return record.Name
}
