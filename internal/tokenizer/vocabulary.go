package tokenizer

import (
	"errors"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// openAIModelPrefixes marks model families that ship a published tiktoken
// vocabulary.
var openAIModelPrefixes = []string{
	"gpt-",
	"text-embedding",
	"davinci",
	"curie",
	"babbage",
	"ada",
	"code-",
}

func isOpenAIModel(model string) bool {
	for _, prefix := range openAIModelPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

// vocabularyCounter counts tokens against a tiktoken BPE vocabulary.
type vocabularyCounter struct {
	vocabularyName string
	encoding       *tiktoken.Tiktoken
}

func (counter vocabularyCounter) Name() string {
	return counter.vocabularyName
}

func (counter vocabularyCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("tokenizer vocabulary is not initialized")
	}
	return len(counter.encoding.Encode(input, nil, nil)), nil
}
