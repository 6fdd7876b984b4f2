package server

import "errors"

// monarch returns the member holding the monarch role for the current turn:
// join order rotated by turn modulo the live member count. The count is read
// at call time, so a mid-round join shifts the rotation for later turns.
func monarch(game *Game) (*Member, error) {
	if game == nil || !game.started() {
		return nil, errors.New("round not started")
	}
	if len(game.Members) == 0 {
		return nil, errors.New("game has no members")
	}
	return &game.Members[*game.Turn%len(game.Members)], nil
}

// activeAnswers filters the answer table down to the current turn.
func activeAnswers(game *Game) []Answer {
	if game == nil || !game.started() {
		return nil
	}
	var active []Answer
	for _, answer := range game.Answers {
		if answer.Turn == *game.Turn {
			active = append(active, answer)
		}
	}
	return active
}

// partitionAnswers splits the current turn's answers into the monarch's own
// answer (nil until they submit) and everyone else's.
func partitionAnswers(game *Game) (*Answer, []Answer, error) {
	ruler, err := monarch(game)
	if err != nil {
		return nil, nil, err
	}
	var monarchAnswer *Answer
	var rest []Answer
	for _, answer := range activeAnswers(game) {
		if answer.PlayerID == ruler.PlayerID {
			copied := answer
			monarchAnswer = &copied
			continue
		}
		rest = append(rest, answer)
	}
	return monarchAnswer, rest, nil
}

// roundComplete reports whether every current member has answered this turn.
// It is recomputed from the answer table on every call because membership can
// change mid-round; once the answer count reaches the member count it stays
// satisfied even if an answered player later leaves.
func roundComplete(game *Game) bool {
	if game == nil || !game.started() || len(game.Members) == 0 {
		return false
	}
	monarchAnswer, rest, err := partitionAnswers(game)
	if err != nil {
		return false
	}
	count := len(rest)
	if monarchAnswer != nil {
		count++
	}
	return count >= len(game.Members)
}
