package kvtext

import (
	"strings"

	"github.com/Faultbox/c4studio/pkg/kvdoc"
)

// GeneralGroup names the group holding fields that precede any header.
const GeneralGroup = "General"

// fallbackSection is used for the General group when the detector has no answer.
const fallbackSection = "DefCore"

// Group is one section's worth of fields.
type Group struct {
	Name    string // header label
	Fields  []Field
	Section string     // schema section used for documentation lookups
	Type    kvdoc.Type // documentation type the group was parsed under
}

// SectionDetector resolves the schema section of headerless content.
type SectionDetector interface {
	DetectSection(content string, t kvdoc.Type) (string, bool)
}

// SectionDetectorFunc adapts a function to SectionDetector.
type SectionDetectorFunc func(content string, t kvdoc.Type) (string, bool)

// DetectSection calls f.
func (f SectionDetectorFunc) DetectSection(content string, t kvdoc.Type) (string, bool) {
	return f(content, t)
}

// Parser turns sectioned key-value text into groups.
type Parser struct {
	Separator string
	Type      kvdoc.Type
	// Sections resolves the section of the General group.
	// Defaults to kvdoc.DetectSection.
	Sections SectionDetector
}

// NewParser returns a parser for the given separator and documentation type.
func NewParser(sep string, t kvdoc.Type) *Parser {
	return &Parser{Separator: sep, Type: t}
}

// Detect returns a parser configured from content: the documentation type
// comes from kvdoc.DetectDocumentationType, the separator from DetectSeparator.
func Detect(content string) *Parser {
	return NewParser(DetectSeparator(content), kvdoc.DetectDocumentationType(content))
}

// Parse splits content into groups. Fields before the first header form a
// "General" group. Groups without fields are dropped, including headers
// immediately followed by another header.
func (p *Parser) Parse(content string) []Group {
	if content == "" {
		return nil
	}

	sep := p.separator()
	var (
		groups    []Group
		current   *Group
		ungrouped []Field
	)

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if name, ok := kvdoc.HeaderName(trimmed); ok {
			if len(ungrouped) > 0 && current == nil {
				groups = append(groups, p.general(content, ungrouped))
				ungrouped = nil
			}
			if current != nil && len(current.Fields) > 0 {
				groups = append(groups, *current)
			}
			current = &Group{
				Name:    name,
				Section: name,
				Type:    p.Type,
			}
			continue
		}

		field, ok := decodeLine(trimmed, sep)
		if !ok {
			continue
		}
		if current != nil {
			current.Fields = append(current.Fields, field)
		} else {
			ungrouped = append(ungrouped, field)
		}
	}

	if current != nil && len(current.Fields) > 0 {
		groups = append(groups, *current)
	} else if len(ungrouped) > 0 {
		groups = append(groups, p.general(content, ungrouped))
	}

	return groups
}

// Serialize writes groups back to text using the parser's separator.
func (p *Parser) Serialize(groups []Group) string {
	return Serialize(groups, p.separator())
}

func (p *Parser) general(content string, fields []Field) Group {
	detector := p.Sections
	if detector == nil {
		detector = SectionDetectorFunc(kvdoc.DetectSection)
	}
	section, ok := detector.DetectSection(content, p.Type)
	if !ok || section == "" {
		section = fallbackSection
	}
	return Group{
		Name:    GeneralGroup,
		Fields:  fields,
		Section: section,
		Type:    p.Type,
	}
}

func (p *Parser) separator() string {
	if p.Separator == "" {
		return DefaultSeparator
	}
	return p.Separator
}

// Parse is a convenience for NewParser(sep, kvdoc.DefCore).Parse(content).
func Parse(content, sep string) []Group {
	return NewParser(sep, kvdoc.DefCore).Parse(content)
}

// Serialize writes groups as text. Every group except "General" gets a
// [Name] header, preceded by a blank line unless it is the first line.
// Fields whose key and value are both blank are skipped.
func Serialize(groups []Group, sep string) string {
	if sep == "" {
		sep = DefaultSeparator
	}

	var lines []string
	for _, g := range groups {
		if g.Name != GeneralGroup {
			if len(lines) > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, "["+g.Name+"]")
		}
		for _, f := range g.Fields {
			if strings.TrimSpace(f.Key) == "" && strings.TrimSpace(f.Value) == "" {
				continue
			}
			lines = append(lines, f.Key+sep+f.Value)
		}
	}
	return strings.Join(lines, "\n")
}

// DetectSeparator picks the first candidate in Separators that appears on a
// non-blank line which does not look like a section header. It returns
// DefaultSeparator when none match.
func DetectSeparator(content string) string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	for _, sep := range Separators {
		for _, line := range lines {
			if strings.HasPrefix(line, "[") || strings.HasSuffix(line, "]") {
				continue
			}
			if strings.Contains(line, sep) {
				return sep
			}
		}
	}
	return DefaultSeparator
}
