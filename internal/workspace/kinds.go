package workspace

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/Faultbox/c4studio/pkg/c4group"
)

// Kind classifies files for filtering and display.
type Kind int

const (
	KindOther Kind = iota
	KindEngine
	KindImage
	KindAudio
	KindText
)

var (
	imageExtensions = []string{"jpg", "jpeg", "png", "gif", "bmp"}
	audioExtensions = []string{"mp3", "wav", "wma", "ogg", "flac", "aac"}
	textExtensions  = []string{"txt", "rtf", "c"}
)

// extensionOrder ranks extensions in listings; unknown extensions sort last.
var extensionOrder = []string{"c4p", "c4f", "c4s", "c4g", "txt", "rtf", "png", "jpg", "bmp", "c", "c4d"}

// Ext returns the lower-case extension of name without the dot.
func Ext(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// KindOf classifies name by its extension.
func KindOf(name string) Kind {
	ext := Ext(name)
	switch {
	case contains(c4group.EngineExtensions, ext):
		return KindEngine
	case contains(imageExtensions, ext):
		return KindImage
	case contains(audioExtensions, ext):
		return KindAudio
	case contains(textExtensions, ext):
		return KindText
	default:
		return KindOther
	}
}

// Allowed reports whether name has an extension the browser shows by default.
func Allowed(name string) bool {
	return KindOf(name) == KindEngine || KindOf(name) == KindImage || KindOf(name) == KindAudio
}

// Icon returns a short text icon for a file based on its extension.
func Icon(name string) string {
	switch Ext(name) {
	case "c4d":
		return "[DEF]"
	case "c4s":
		return "[SCN]"
	case "c4f":
		return "[FLD]"
	case "c4g":
		return "[GRP]"
	case "c4p":
		return "[PLR]"
	case "c":
		return "[SCR]"
	case "txt", "rtf":
		return "[TXT]"
	}
	switch KindOf(name) {
	case KindImage:
		return "[IMG]"
	case KindAudio:
		return "[SND]"
	case KindEngine:
		return "[C4]"
	default:
		return "[?]"
	}
}

// SortNodes orders nodes by extension rank. Nodes with unranked extensions
// keep their relative order after all ranked ones.
func SortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return rank(nodes[i].Ext) < rank(nodes[j].Ext)
	})
}

func rank(ext string) int {
	for i, e := range extensionOrder {
		if e == ext {
			return i
		}
	}
	return len(extensionOrder)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
