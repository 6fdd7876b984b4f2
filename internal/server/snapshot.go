package server

// snapshot renders the authoritative view of a game for the caller. While a
// round is open only the set of players who have answered leaks out; values
// and per-player scores appear once the round is complete.
func snapshot(game *Game) map[string]any {
	members := make([]map[string]any, 0, len(game.Members))
	for _, member := range game.Members {
		members = append(members, map[string]any{
			"playerId": member.PlayerID,
			"name":     member.Name,
			"index":    member.Index,
			"points":   member.Points,
		})
	}

	payload := map[string]any{
		"id":       game.ID,
		"hostId":   game.HostID,
		"hotness":  game.Hotness,
		"finished": game.Finished,
		"started":  game.started(),
		"players":  members,
	}

	if !game.started() {
		return payload
	}

	payload["turn"] = *game.Turn
	if ruler, err := monarch(game); err == nil {
		payload["monarchId"] = ruler.PlayerID
	}
	if game.ActiveQuestion != nil {
		question := map[string]any{
			"id":      game.ActiveQuestion.ID,
			"text":    game.ActiveQuestion.Text,
			"answerA": game.ActiveQuestion.AnswerA,
			"answerB": game.ActiveQuestion.AnswerB,
		}
		if game.ActiveQuestion.Hotness != nil {
			question["hotness"] = *game.ActiveQuestion.Hotness
		}
		payload["question"] = question
	}

	complete := roundComplete(game)
	payload["roundComplete"] = complete

	active := activeAnswers(game)
	answeredIDs := make([]string, 0, len(active))
	for _, answer := range active {
		answeredIDs = append(answeredIDs, answer.PlayerID)
	}
	payload["answeredPlayerIds"] = answeredIDs

	if complete {
		payload["answers"] = revealAnswers(game)
	}
	return payload
}

// revealAnswers exposes every active answer's value together with the round
// score it earned. The monarch's row carries the overall similarity.
func revealAnswers(game *Game) []map[string]any {
	monarchAnswer, rest, err := partitionAnswers(game)
	if err != nil || monarchAnswer == nil {
		return nil
	}
	values := make([]float64, 0, len(rest))
	for _, answer := range rest {
		values = append(values, answer.Value)
	}
	result, err := similarities(monarchAnswer.Value, values)
	if err != nil {
		return nil
	}

	rows := make([]map[string]any, 0, len(rest)+1)
	rows = append(rows, map[string]any{
		"playerId": monarchAnswer.PlayerID,
		"value":    monarchAnswer.Value,
		"score":    result.Overall,
		"monarch":  true,
	})
	for i, answer := range rest {
		rows = append(rows, map[string]any{
			"playerId": answer.PlayerID,
			"value":    answer.Value,
			"score":    result.Scores[i],
		})
	}
	return rows
}
