// Package kvdoc provides field documentation for Clonk key-value files
// (DefCore.txt, ActMap.txt, ...) and heuristics that guess which schema a
// piece of text belongs to.
package kvdoc

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownType is returned when a documentation type name is not recognized.
var ErrUnknownType = errors.New("unknown documentation type")

// Type identifies a documentation schema.
type Type string

// Known documentation types, in detection order.
const (
	DefCore  Type = "defcore"
	ActMap   Type = "actmap"
	Script   Type = "script"
	Material Type = "material"
	Custom   Type = "custom"
)

// FieldDocumentation describes one recognized field.
type FieldDocumentation struct {
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description" json:"description"`
}

// SectionDocumentation describes one section and its fields.
type SectionDocumentation struct {
	Title       string                        `yaml:"title" json:"title"`
	Description string                        `yaml:"description" json:"description"`
	Fields      map[string]FieldDocumentation `yaml:"fields" json:"fields"`
}

// DocumentationSet is the full schema for one documentation type.
type DocumentationSet struct {
	Sections map[string]SectionDocumentation `yaml:"sections" json:"sections"`
}

// emptySet returns a set with no sections.
func emptySet() DocumentationSet {
	return DocumentationSet{Sections: map[string]SectionDocumentation{}}
}

// ParseType converts a user-supplied name ("DefCore", "actmap") to a Type.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, cfg := range configs {
		if string(cfg.Type) == name {
			return cfg.Type, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// String returns the display name of the type.
func (t Type) String() string {
	if cfg, ok := lookupConfig(t); ok {
		return cfg.Name
	}
	return string(t)
}
