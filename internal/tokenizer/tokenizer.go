package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters provided by the CLI.
type Config struct {
	Model string
}

const defaultEncodingName = "cl100k_base"

// NewCounter returns a Counter implementation for the requested model along
// with the resolved counter name. OpenAI model names select a tiktoken
// vocabulary; every other name, including the empty string, selects the
// built-in heuristic.
func NewCounter(cfg Config) (Counter, string, error) {
	model := strings.TrimSpace(cfg.Model)
	lowerModel := strings.ToLower(model)

	if isOpenAIModel(lowerModel) {
		encoding, err := tiktoken.EncodingForModel(lowerModel)
		if err == nil && encoding != nil {
			return vocabularyCounter{vocabularyName: lowerModel, encoding: encoding}, model, nil
		}
		fallback, fallbackErr := tiktoken.GetEncoding(defaultEncodingName)
		if fallbackErr != nil {
			return nil, "", fmt.Errorf("initialize fallback tokenizer: %w", fallbackErr)
		}
		return vocabularyCounter{vocabularyName: defaultEncodingName, encoding: fallback}, defaultEncodingName, nil
	}

	return heuristicCounter{}, heuristicCounterName, nil
}
