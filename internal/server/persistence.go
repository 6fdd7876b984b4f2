package server

import (
	"encoding/json"
	"errors"
	"log"

	"monarch-says/internal/db"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// The database is a best-effort mirror of the in-memory store. Apart from
// game creation, mirror failures are logged and swallowed: memory stays
// authoritative and play continues.

func (s *Server) persistGame(game *Game) error {
	if s.db == nil {
		return nil
	}
	record := db.Game{
		ID:        game.ID,
		HostID:    game.HostID,
		Hotness:   game.Hotness,
		Finished:  game.Finished,
		CreatedAt: game.CreatedAt,
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		return err
	}
	for _, member := range game.Members {
		s.persistMember(game.ID, member)
	}
	return nil
}

func (s *Server) persistMember(gameID string, member Member) {
	if s.db == nil {
		return
	}
	record := db.GameMember{
		GameID:   gameID,
		PlayerID: member.PlayerID,
		Index:    member.Index,
		Points:   member.Points,
	}
	err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&record).Error
	if err != nil && !isUniqueViolation(err) {
		log.Printf("persist member failed game_id=%s player_id=%s error=%v", gameID, member.PlayerID, err)
	}
}

func (s *Server) persistMemberRemoval(gameID, playerID string) {
	if s.db == nil {
		return
	}
	err := s.db.Where("game_id = ? AND player_id = ?", gameID, playerID).
		Delete(&db.GameMember{}).Error
	if err != nil {
		log.Printf("persist member removal failed game_id=%s player_id=%s error=%v", gameID, playerID, err)
	}
}

// persistGameState mirrors the mutable game columns plus every member's
// points from the current in-memory snapshot.
func (s *Server) persistGameState(gameID string) {
	if s.db == nil {
		return
	}
	game, err := s.store.ViewGame(gameID)
	if err != nil {
		return
	}
	updates := map[string]any{
		"turn":     game.Turn,
		"finished": game.Finished,
	}
	if game.ActiveQuestion != nil {
		updates["active_question_id"] = game.ActiveQuestion.ID
	} else {
		updates["active_question_id"] = nil
	}
	if err := s.db.Model(&db.Game{}).Where("id = ?", gameID).Updates(updates).Error; err != nil {
		log.Printf("persist game state failed game_id=%s error=%v", gameID, err)
	}
	for _, member := range game.Members {
		s.persistMember(gameID, member)
	}
}

func (s *Server) persistGameDeletion(gameID string) {
	if s.db == nil {
		return
	}
	// Members, answers and events stay for the audit trail; the game row is
	// marked finished rather than deleted.
	err := s.db.Model(&db.Game{}).Where("id = ?", gameID).Update("finished", true).Error
	if err != nil {
		log.Printf("persist game deletion failed game_id=%s error=%v", gameID, err)
	}
}

func (s *Server) persistAnswer(gameID string, answer Answer) {
	if s.db == nil {
		return
	}
	record := db.Answer{
		GameID:   gameID,
		PlayerID: answer.PlayerID,
		Turn:     answer.Turn,
		Value:    answer.Value,
	}
	err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&record).Error
	if err != nil && !isUniqueViolation(err) {
		log.Printf("persist answer failed game_id=%s player_id=%s turn=%d error=%v",
			gameID, answer.PlayerID, answer.Turn, err)
	}
}

func (s *Server) persistAnswerRemoval(gameID, playerID string, turn int) {
	if s.db == nil {
		return
	}
	err := s.db.Where("game_id = ? AND player_id = ? AND turn = ?", gameID, playerID, turn).
		Delete(&db.Answer{}).Error
	if err != nil {
		log.Printf("persist answer removal failed game_id=%s player_id=%s error=%v", gameID, playerID, err)
	}
}

func (s *Server) persistPoints(gameID string) {
	if s.db == nil {
		return
	}
	game, err := s.store.ViewGame(gameID)
	if err != nil {
		return
	}
	for _, member := range game.Members {
		err := s.db.Model(&db.GameMember{}).
			Where("game_id = ? AND player_id = ?", gameID, member.PlayerID).
			Update("points", member.Points).Error
		if err != nil {
			log.Printf("persist points failed game_id=%s player_id=%s error=%v", gameID, member.PlayerID, err)
		}
	}
}

func (s *Server) persistPlayer(playerID, name string) {
	if s.db == nil {
		return
	}
	record := db.Player{ID: playerID, Name: name}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&record).Error
	if err != nil && !isUniqueViolation(err) {
		log.Printf("persist player failed player_id=%s error=%v", playerID, err)
	}
}

// publish mirrors the event to the audit log and fans it out to live
// subscribers, in that order.
func (s *Server) publish(gameID string, event Event) {
	s.persistEvent(gameID, event)
	s.hub.Publish(gameID, event)
}

func (s *Server) persistEvent(gameID string, event Event) {
	if s.db == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("persist event failed game_id=%s type=%s error=%v", gameID, event.Event, err)
		return
	}
	record := db.Event{
		GameID:  gameID,
		Type:    event.Event,
		Payload: datatypes.JSON(data),
	}
	if event.PlayerID != "" {
		id := event.PlayerID
		record.PlayerID = &id
	}
	if err := s.db.Create(&record).Error; err != nil {
		log.Printf("persist event failed game_id=%s type=%s error=%v", gameID, event.Event, err)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
