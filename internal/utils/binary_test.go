package utils_test

import (
	"testing"

	"github.com/temirov/gitscribe/internal/utils"
)

func TestIsBinary(t *testing.T) {
	testCases := []struct {
		name     string
		data     []byte
		expected bool
	}{
		{name: "empty", data: nil, expected: false},
		{name: "plain text", data: []byte("package main\n"), expected: false},
		{name: "multibyte text", data: []byte("日本語のテキスト"), expected: false},
		{name: "nul byte", data: []byte{'a', 0, 'b'}, expected: true},
		{name: "invalid utf8", data: []byte{0xff, 0xfe, 0xfd}, expected: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.IsBinary(testCase.data)
			if result != testCase.expected {
				t.Fatalf("expected %v, got %v", testCase.expected, result)
			}
		})
	}
}
