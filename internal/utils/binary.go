// Package utils provides shared helpers: logger construction, binary
// sniffing, size formatting and application version retrieval.
package utils

import "unicode/utf8"

// IsBinary reports whether the provided byte slice appears to contain binary
// data. Decoded repository payloads that fail this check are treated as
// undecodable rather than packed verbatim.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	for _, byteValue := range data {
		if byteValue == 0 {
			return true
		}
	}
	return false
}
