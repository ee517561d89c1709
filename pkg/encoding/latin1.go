// Package encoding provides text encoding utilities for Clonk game files.
package encoding

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Latin1ToUTF8 converts ISO-8859-1 encoded bytes to a UTF-8 string.
// Returns the original bytes as a string if conversion fails.
func Latin1ToUTF8(data []byte) string {
	// Plain ASCII needs no conversion.
	if isASCII(data) {
		return string(data)
	}

	decoder := charmap.ISO8859_1.NewDecoder()
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// UTF8ToLatin1 converts a UTF-8 string to ISO-8859-1 bytes.
// Runes outside Latin-1 are replaced with '?'.
func UTF8ToLatin1(s string) []byte {
	if isASCII([]byte(s)) {
		return []byte(s)
	}

	encoder := charmap.ISO8859_1.NewEncoder()
	result, _, err := transform.Bytes(encoder, []byte(replaceUnmappable(s)))
	if err != nil {
		return []byte(s)
	}
	return result
}

// NormalizeNewlines converts CRLF and CR line endings to LF.
// Definition files written on Windows use CRLF.
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func replaceUnmappable(s string) string {
	return strings.Map(func(r rune) rune {
		if r == utf8.RuneError || r > 0xFF {
			return '?'
		}
		return r
	}, s)
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b > 127 {
			return false
		}
	}
	return true
}
