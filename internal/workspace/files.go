package workspace

import (
	"fmt"
	"os"

	"github.com/Faultbox/c4studio/pkg/encoding"
)

// ReadText reads a Latin-1 game text file as UTF-8 with LF line endings.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return encoding.NormalizeNewlines(encoding.Latin1ToUTF8(data)), nil
}

// WriteText writes text to path in Latin-1, keeping the file mode if the
// file already exists.
func WriteText(path, text string) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, encoding.UTF8ToLatin1(text), mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
