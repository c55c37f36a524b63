package tokenizer

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	heuristicCounterName = "heuristic"
	wordTokenMultiplier  = 1.3
	charactersPerToken   = 4
)

// EstimateTokens approximates the token count of text without a model
// vocabulary. The result is the larger of a word-based estimate and a
// character-based estimate, so whitespace-separated prose and dense
// unspaced content both land near real tokenizer output.
func EstimateTokens(text string) int {
	wordCount := len(strings.Fields(text))
	characterCount := utf8.RuneCountInString(text)
	wordEstimate := int(math.Ceil(float64(wordCount) * wordTokenMultiplier))
	characterEstimate := int(math.Ceil(float64(characterCount) / charactersPerToken))
	if wordEstimate > characterEstimate {
		return wordEstimate
	}
	return characterEstimate
}

type heuristicCounter struct{}

func (counter heuristicCounter) Name() string {
	return heuristicCounterName
}

func (counter heuristicCounter) CountString(input string) (int, error) {
	return EstimateTokens(input), nil
}
