// Package kvtext reads and writes the line-based key-value text used by
// Clonk definition files, with optional [Section] headers.
package kvtext

import (
	"strings"

	"github.com/Faultbox/c4studio/pkg/kvdoc"
)

// DefaultSeparator is used when no separator is given or detected.
const DefaultSeparator = "="

// Separators lists candidate separators in detection priority order.
var Separators = []string{"=", ":", "|", " "}

// Field is one key-value line. Info is a derived annotation; nil means
// the key is undocumented, not that it is invalid.
type Field struct {
	Key   string
	Value string
	Info  *kvdoc.FieldDocumentation
}

// Decode splits text into fields. Blank lines and lines without sep are
// dropped. Each line is split at the first sep; the value keeps any
// further separators. Keys and values are trimmed. A line consisting of
// exactly sep is an empty field, even when sep is whitespace.
func Decode(text, sep string) []Field {
	if sep == "" {
		sep = DefaultSeparator
	}

	var fields []Field
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" && line != sep {
			continue
		}
		if field, ok := decodeLine(line, sep); ok {
			fields = append(fields, field)
		}
	}
	return fields
}

// Encode joins fields as key<sep>value lines, without a trailing newline.
func Encode(fields []Field, sep string) string {
	if sep == "" {
		sep = DefaultSeparator
	}

	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = f.Key + sep + f.Value
	}
	return strings.Join(lines, "\n")
}

func decodeLine(line, sep string) (Field, bool) {
	key, value, ok := strings.Cut(line, sep)
	if !ok {
		return Field{}, false
	}
	return Field{
		Key:   strings.TrimSpace(key),
		Value: strings.TrimSpace(value),
	}, true
}
