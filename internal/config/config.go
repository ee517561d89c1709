// Package config handles c4studio configuration loading and management.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/multierr"

	"github.com/Faultbox/c4studio/pkg/kvdoc"
	"github.com/Faultbox/c4studio/pkg/kvtext"
)

// Config holds all settings.
type Config struct {
	Clonk         ClonkConfig         `yaml:"clonk"`
	Documentation DocumentationConfig `yaml:"documentation"`
	Editor        EditorConfig        `yaml:"editor"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ClonkConfig locates the game installation and its tools.
type ClonkConfig struct {
	Folder     string `yaml:"folder"`      // Clonk folder holding the game's groups
	EnginePath string `yaml:"engine_path"` // relative paths resolve against Folder
	GroupPath  string `yaml:"group_path"`  // c4group executable
	EngineLine string `yaml:"engine_line"` // default engine command line
}

// DocumentationConfig holds field documentation settings.
type DocumentationConfig struct {
	SchemaDir   string `yaml:"schema_dir"`   // overrides bundled schemas when set
	DefaultType string `yaml:"default_type"` // empty means auto-detect
}

// EditorConfig holds editing behavior.
type EditorConfig struct {
	Debounce        time.Duration `yaml:"debounce"`
	SuggestionDelay time.Duration `yaml:"suggestion_delay"`
	SuggestionLimit int           `yaml:"suggestion_limit"`
	Separator       string        `yaml:"separator"` // empty means auto-detect
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Clonk: ClonkConfig{
			Folder:     "./clonkFolder",
			EnginePath: "Clonk.app/Contents/MacOS/clonk",
			GroupPath:  "c4group",
			EngineLine: "Clonk.app /console /nonetwork",
		},
		Documentation: DocumentationConfig{
			SchemaDir:   "",
			DefaultType: "",
		},
		Editor: EditorConfig{
			Debounce:        300 * time.Millisecond,
			SuggestionDelay: 100 * time.Millisecond,
			SuggestionLimit: 10,
			Separator:       "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// EngineExecutable returns the engine path, resolved against the Clonk folder.
func (c *Config) EngineExecutable() string {
	return c.resolve(c.Clonk.EnginePath)
}

// GroupExecutable returns the c4group path, resolved against the Clonk folder.
func (c *Config) GroupExecutable() string {
	return c.resolve(c.Clonk.GroupPath)
}

// DocumentationType returns the pinned documentation type, if any.
func (c *Config) DocumentationType() (kvdoc.Type, bool) {
	if c.Documentation.DefaultType == "" {
		return "", false
	}
	t, err := kvdoc.ParseType(c.Documentation.DefaultType)
	if err != nil {
		return "", false
	}
	return t, true
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs error
	if c.Clonk.Folder == "" {
		errs = multierr.Append(errs, fmt.Errorf("clonk.folder must be set"))
	}
	if c.Documentation.DefaultType != "" {
		if _, err := kvdoc.ParseType(c.Documentation.DefaultType); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("documentation.default_type: %w", err))
		}
	}
	if c.Editor.Debounce < 0 {
		errs = multierr.Append(errs, fmt.Errorf("editor.debounce must not be negative"))
	}
	if c.Editor.SuggestionDelay < 0 {
		errs = multierr.Append(errs, fmt.Errorf("editor.suggestion_delay must not be negative"))
	}
	if c.Editor.SuggestionLimit < 0 {
		errs = multierr.Append(errs, fmt.Errorf("editor.suggestion_limit must not be negative"))
	}
	if sep := c.Editor.Separator; sep != "" && !validSeparator(sep) {
		errs = multierr.Append(errs, fmt.Errorf("editor.separator %q is not one of = : | or space", sep))
	}
	return errs
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Clonk.Folder, path)
}

func validSeparator(sep string) bool {
	for _, s := range kvtext.Separators {
		if s == sep {
			return true
		}
	}
	return false
}
