package server

import (
	"errors"
	"math"
)

// similarityExponent sharpens the falloff for distant guesses relative to
// plain linear distance.
const similarityExponent = 1.5

// similarity scores how close a guess landed to the monarch's value. Both
// inputs live in [0,1]; an exact match scores 1, maximum distance scores 0.
func similarity(monarchValue, otherValue float64) float64 {
	return math.Pow(1-math.Abs(monarchValue-otherValue), similarityExponent)
}

// SimilarityResult aggregates one completed round: per-guesser scores in input
// order, their arithmetic mean, and the mean of the raw guess values.
type SimilarityResult struct {
	Overall      float64
	Scores       []float64
	AverageValue float64
}

// similarities scores every guess against the monarch's value. A round with
// no guessers has no defined mean, so callers must never get here with an
// empty slice; the error keeps that failure loud instead of producing NaN.
func similarities(monarchValue float64, otherValues []float64) (SimilarityResult, error) {
	if len(otherValues) == 0 {
		return SimilarityResult{}, errors.New("no answers to score")
	}
	result := SimilarityResult{Scores: make([]float64, 0, len(otherValues))}
	scoreSum := 0.0
	valueSum := 0.0
	for _, value := range otherValues {
		score := similarity(monarchValue, value)
		result.Scores = append(result.Scores, score)
		scoreSum += score
		valueSum += value
	}
	result.Overall = scoreSum / float64(len(otherValues))
	result.AverageValue = valueSum / float64(len(otherValues))
	return result, nil
}
