package tokenizer

import (
	"strings"
	"testing"
)

func TestEstimateTokens(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected int
	}{
		{name: "empty text", text: "", expected: 0},
		{name: "single word", text: "hello", expected: 2},
		{name: "two words", text: "hello world", expected: 3},
		{name: "prose picks the word estimate", text: "one two three four five six seven eight nine ten", expected: 13},
		{name: "unspaced content picks the character estimate", text: strings.Repeat("a", 100), expected: 25},
		{name: "characters counted as runes", text: "日本語のテキスト", expected: 2},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			estimated := EstimateTokens(testCase.text)
			if estimated != testCase.expected {
				t.Fatalf("expected %d tokens, got %d", testCase.expected, estimated)
			}
		})
	}
}

func TestEstimateTokensGrowsWithContent(t *testing.T) {
	shorter := EstimateTokens(strings.Repeat("word ", 5))
	longer := EstimateTokens(strings.Repeat("word ", 50))
	if longer <= shorter {
		t.Fatalf("expected estimate to grow with content, got %d then %d", shorter, longer)
	}
}
