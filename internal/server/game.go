package server

import (
	"errors"
	"log"
	"math"

	"github.com/google/uuid"
)

// Guard errors. These are expected control flow, reported to the caller and
// mapped to HTTP statuses at the boundary; they never log as server errors.
var (
	errGameFinished    = errors.New("game finished")
	errNotStarted      = errors.New("round not started")
	errAlreadyStarted  = errors.New("game already started")
	errRoundComplete   = errors.New("round already complete")
	errRoundIncomplete = errors.New("not every player has answered")
	errNotMember       = errors.New("player is not in this game")
	errNotHost         = errors.New("only the host can do that")
	errTooFewPlayers   = errors.New("need at least two players")
	errValueOutOfRange = errors.New("answer value must be between 0 and 1")
)

// CreateGame creates a lobby hosted by the player, or returns the host's
// existing unfinished game: repeated creates land in the same lobby.
func (s *Server) CreateGame(hostID, hostName string) (string, bool, error) {
	game := &Game{
		ID:        uuid.NewString(),
		HostID:    hostID,
		Hotness:   s.cfg.DefaultHotness,
		CreatedAt: timeNowUTC(),
		Members: []Member{
			{PlayerID: hostID, Name: hostName, Index: 0},
		},
	}
	if id, existing := s.store.CreateForHost(game); existing {
		return id, true, nil
	}
	if err := s.persistGame(game); err != nil {
		s.store.DeleteGame(game.ID)
		return "", false, err
	}
	log.Printf("game created game_id=%s host_id=%s", game.ID, hostID)
	return game.ID, false, nil
}

// Join adds the player while the game is in the lobby or mid round. Joining a
// game you already belong to is a no-op. A mid-round join immediately raises
// the round-completion denominator; the new player cannot be the monarch
// before the next turn begins.
func (s *Server) Join(gameID, playerID, playerName string) error {
	joined := false
	var added Member
	_, err := s.store.UpdateGame(gameID, func(game *Game) error {
		if game.Finished {
			return errGameFinished
		}
		if game.member(playerID) != nil {
			return nil
		}
		if game.started() && roundComplete(game) {
			return errRoundComplete
		}
		added = Member{PlayerID: playerID, Name: playerName, Index: game.nextIndex()}
		game.Members = append(game.Members, added)
		joined = true
		return nil
	})
	if err != nil {
		return err
	}
	if !joined {
		return nil
	}
	s.persistMember(gameID, added)
	log.Printf("player joined game_id=%s player_id=%s index=%d", gameID, playerID, added.Index)
	s.publish(gameID, Event{Event: eventPlayerJoined, PlayerID: playerID})
	return nil
}

type leaveOutcome int

const (
	leaveRemoved leaveOutcome = iota
	leaveDeleted
	leaveFinished
)

// Leave removes the player. In the lobby that just drops the membership; the
// host abandoning a lobby deletes it outright. Once a round has started there
// is no substitution, so any departure finishes the whole game.
func (s *Server) Leave(gameID, playerID string) error {
	outcome := leaveRemoved
	_, err := s.store.UpdateGame(gameID, func(game *Game) error {
		if game.Finished {
			return errGameFinished
		}
		member := game.member(playerID)
		if member == nil {
			return errNotMember
		}
		if game.started() {
			game.Finished = true
			outcome = leaveFinished
			return nil
		}
		if playerID == game.HostID {
			// Interleaved actions between here and DeleteGame fail closed.
			game.Finished = true
			outcome = leaveDeleted
			return nil
		}
		members := game.Members[:0]
		for _, m := range game.Members {
			if m.PlayerID != playerID {
				members = append(members, m)
			}
		}
		game.Members = members
		return nil
	})
	if err != nil {
		return err
	}
	switch outcome {
	case leaveDeleted:
		s.store.DeleteGame(gameID)
		s.persistGameDeletion(gameID)
		log.Printf("game deleted game_id=%s reason=host_left_lobby", gameID)
		s.hub.Publish(gameID, Event{Event: eventGameFinished})
		s.hub.DropGame(gameID)
	case leaveFinished:
		s.persistGameState(gameID)
		log.Printf("game finished game_id=%s reason=player_left player_id=%s", gameID, playerID)
		s.publish(gameID, Event{Event: eventPlayerLeft, PlayerID: playerID})
		s.publish(gameID, Event{Event: eventGameFinished})
	default:
		s.persistMemberRemoval(gameID, playerID)
		log.Printf("player left game_id=%s player_id=%s", gameID, playerID)
		s.publish(gameID, Event{Event: eventPlayerLeft, PlayerID: playerID})
	}
	return nil
}

// Start begins turn 0 with a randomly picked question. Host only, lobby only,
// and never with fewer than two members: the scoring engine needs at least
// one guesser besides the monarch.
func (s *Server) Start(gameID, playerID string) error {
	question, err := s.pickQuestion()
	if err != nil {
		return err
	}
	_, err = s.store.UpdateGame(gameID, func(game *Game) error {
		if game.Finished {
			return errGameFinished
		}
		if playerID != game.HostID {
			return errNotHost
		}
		if game.started() {
			return errAlreadyStarted
		}
		if len(game.Members) < 2 {
			return errTooFewPlayers
		}
		turn := 0
		game.Turn = &turn
		game.ActiveQuestion = question
		return nil
	})
	if err != nil {
		return err
	}
	s.persistGameState(gameID)
	log.Printf("round started game_id=%s turn=0 question_id=%d", gameID, question.ID)
	s.publish(gameID, Event{Event: eventRoundStarted})
	return nil
}

// Submit upserts the player's answer for the current turn. When the answer
// completes the round, points are awarded in the same critical section and
// exactly one roundComplete event is published, no matter how many submits
// race for the final slot.
func (s *Server) Submit(gameID, playerID string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 || value > 1 {
		return errValueOutOfRange
	}
	completed := false
	var stored Answer
	_, err := s.store.UpdateGame(gameID, func(game *Game) error {
		if game.Finished {
			return errGameFinished
		}
		if !game.started() {
			return errNotStarted
		}
		if game.member(playerID) == nil {
			return errNotMember
		}
		if roundComplete(game) {
			return errRoundComplete
		}
		stored = upsertAnswer(game, playerID, value)
		if roundComplete(game) {
			completed = true
			if err := applyRoundScores(game); err != nil {
				log.Printf("scoring skipped game_id=%s turn=%d error=%v", gameID, *game.Turn, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.persistAnswer(gameID, stored)
	if completed {
		s.persistPoints(gameID)
		log.Printf("round complete game_id=%s last_player_id=%s", gameID, playerID)
		s.publish(gameID, Event{Event: eventRoundComplete, LastPlayerID: playerID})
	}
	return nil
}

// Unsubmit withdraws the player's answer for the current turn. Forbidden once
// the round is complete, so scored answers are immutable.
func (s *Server) Unsubmit(gameID, playerID string) error {
	removed := false
	var turn int
	_, err := s.store.UpdateGame(gameID, func(game *Game) error {
		if game.Finished {
			return errGameFinished
		}
		if !game.started() {
			return errNotStarted
		}
		if game.member(playerID) == nil {
			return errNotMember
		}
		if roundComplete(game) {
			return errRoundComplete
		}
		turn = *game.Turn
		answers := game.Answers[:0]
		for _, answer := range game.Answers {
			if answer.PlayerID == playerID && answer.Turn == turn {
				removed = true
				continue
			}
			answers = append(answers, answer)
		}
		game.Answers = answers
		return nil
	})
	if err != nil {
		return err
	}
	if removed {
		s.persistAnswerRemoval(gameID, playerID, turn)
	}
	return nil
}

// Advance moves a completed round to the next turn with a fresh question.
func (s *Server) Advance(gameID, playerID string) error {
	question, err := s.pickQuestion()
	if err != nil {
		return err
	}
	_, err = s.store.UpdateGame(gameID, func(game *Game) error {
		if game.Finished {
			return errGameFinished
		}
		if playerID != game.HostID {
			return errNotHost
		}
		if !game.started() {
			return errNotStarted
		}
		if !roundComplete(game) {
			return errRoundIncomplete
		}
		turn := *game.Turn + 1
		game.Turn = &turn
		game.ActiveQuestion = question
		return nil
	})
	if err != nil {
		return err
	}
	s.persistGameState(gameID)
	log.Printf("round advanced game_id=%s question_id=%d", gameID, question.ID)
	s.publish(gameID, Event{Event: eventRoundAdvanced})
	return nil
}

// Finish ends a started game explicitly. Host only; terminal.
func (s *Server) Finish(gameID, playerID string) error {
	_, err := s.store.UpdateGame(gameID, func(game *Game) error {
		if game.Finished {
			return errGameFinished
		}
		if playerID != game.HostID {
			return errNotHost
		}
		if !game.started() {
			return errNotStarted
		}
		game.Finished = true
		return nil
	})
	if err != nil {
		return err
	}
	s.persistGameState(gameID)
	log.Printf("game finished game_id=%s reason=host_ended", gameID)
	s.publish(gameID, Event{Event: eventGameFinished})
	return nil
}

func upsertAnswer(game *Game, playerID string, value float64) Answer {
	turn := *game.Turn
	for i := range game.Answers {
		if game.Answers[i].PlayerID == playerID && game.Answers[i].Turn == turn {
			game.Answers[i].Value = value
			game.Answers[i].SubmittedAt = timeNowUTC()
			return game.Answers[i]
		}
	}
	answer := Answer{PlayerID: playerID, Turn: turn, Value: value, SubmittedAt: timeNowUTC()}
	game.Answers = append(game.Answers, answer)
	return answer
}

// applyRoundScores awards each guesser the similarity of their guess to the
// monarch's value, and the monarch the mean of those similarities.
func applyRoundScores(game *Game) error {
	ruler, err := monarch(game)
	if err != nil {
		return err
	}
	monarchAnswer, rest, err := partitionAnswers(game)
	if err != nil {
		return err
	}
	if monarchAnswer == nil {
		return errors.New("monarch has not answered")
	}
	values := make([]float64, 0, len(rest))
	for _, answer := range rest {
		values = append(values, answer.Value)
	}
	result, err := similarities(monarchAnswer.Value, values)
	if err != nil {
		return err
	}
	for i, answer := range rest {
		if member := game.member(answer.PlayerID); member != nil {
			member.Points += result.Scores[i]
		}
	}
	if member := game.member(ruler.PlayerID); member != nil {
		member.Points += result.Overall
	}
	return nil
}
