// Package c4group wraps the Clonk engine and its c4group archiving tool:
// group file rules, engine command lines and process launching.
package c4group

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrNotPackable is returned when a path is not a packable group file.
var ErrNotPackable = errors.New("not a packable group file (.c4d, .c4s, .c4g, .c4f or .c4p)")

// PackableExtensions are the group file types c4group can pack and unpack.
var PackableExtensions = []string{".c4d", ".c4s", ".c4g", ".c4f", ".c4p"}

// EngineExtensions are all file types owned by the engine.
var EngineExtensions = []string{
	"c4d", "c4f", "c4g", "c4m", "c4i", "c4l", "c4p", "c4s", "c4t", "c4u", "c4v", "c4z",
}

// CanPack reports whether path names a group file c4group can pack.
func CanPack(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range PackableExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// IsScenario reports whether path names a scenario (.c4s).
func IsScenario(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".c4s")
}
