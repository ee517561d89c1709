package kvdoc

import "strings"

// HeaderName returns the section name of a "[Name]" line.
func HeaderName(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 2 || trimmed[0] != '[' || trimmed[len(trimmed)-1] != ']' {
		return "", false
	}
	return trimmed[1 : len(trimmed)-1], true
}

// DetectDocumentationType guesses the documentation type of content.
// Section headers are checked first, in text order; then field names are
// matched against each type's detection fields. Falls back to DefCore.
func DetectDocumentationType(content string) Type {
	lines := strings.Split(content, "\n")

	for _, line := range lines {
		name, ok := HeaderName(line)
		if !ok {
			continue
		}
		for _, cfg := range configs {
			if cfg.hasSection(name) {
				return cfg.Type
			}
		}
	}

	keys := fieldKeys(lines)
	for _, cfg := range configs {
		if _, ok := matchRule(cfg.DetectionFields, keys); ok {
			return cfg.Type
		}
	}

	return DefCore
}

// DetectSection guesses which of t's sections content belongs to.
// It reports false only when t declares no sections at all.
func DetectSection(content string, t Type) (string, bool) {
	cfg := ConfigFor(t)
	lines := strings.Split(content, "\n")

	for _, line := range lines {
		if name, ok := HeaderName(line); ok && cfg.hasSection(name) {
			return name, true
		}
	}

	if section, ok := matchRule(cfg.DetectionFields, fieldKeys(lines)); ok {
		return section, true
	}

	if len(cfg.Sections) > 0 {
		return cfg.Sections[0], true
	}
	return "", false
}

// fieldKeys collects the trimmed text left of the first '=' on every line
// that has one. Detection always uses '=', whatever the file's separator.
func fieldKeys(lines []string) map[string]struct{} {
	keys := make(map[string]struct{})
	for _, line := range lines {
		key, _, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		keys[strings.TrimSpace(key)] = struct{}{}
	}
	return keys
}

func matchRule(rules []DetectionRule, keys map[string]struct{}) (string, bool) {
	for _, rule := range rules {
		for _, field := range rule.Fields {
			if _, ok := keys[field]; ok {
				return rule.Section, true
			}
		}
	}
	return "", false
}
