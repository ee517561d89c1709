package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/c4studio/pkg/kvdoc"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Clonk.Folder != "./clonkFolder" {
		t.Errorf("expected folder ./clonkFolder, got %s", cfg.Clonk.Folder)
	}
	if cfg.Clonk.GroupPath != "c4group" {
		t.Errorf("expected group path c4group, got %s", cfg.Clonk.GroupPath)
	}
	if cfg.Clonk.EngineLine != "Clonk.app /console /nonetwork" {
		t.Errorf("unexpected engine line %q", cfg.Clonk.EngineLine)
	}

	if cfg.Editor.Debounce != 300*time.Millisecond {
		t.Errorf("expected debounce 300ms, got %v", cfg.Editor.Debounce)
	}
	if cfg.Editor.SuggestionDelay != 100*time.Millisecond {
		t.Errorf("expected suggestion delay 100ms, got %v", cfg.Editor.SuggestionDelay)
	}
	if cfg.Editor.SuggestionLimit != 10 {
		t.Errorf("expected suggestion limit 10, got %d", cfg.Editor.SuggestionLimit)
	}
	if cfg.Editor.Separator != "" {
		t.Errorf("expected auto-detected separator, got %q", cfg.Editor.Separator)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if _, ok := cfg.DocumentationType(); ok {
		t.Error("expected no pinned documentation type")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
clonk:
  folder: /games/clonk
  group_path: tools/c4group
documentation:
  default_type: actmap
editor:
  debounce: 1s
  separator: ":"
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Clonk.Folder != "/games/clonk" {
		t.Errorf("expected folder /games/clonk, got %s", cfg.Clonk.Folder)
	}
	if got := cfg.GroupExecutable(); got != filepath.Join("/games/clonk", "tools/c4group") {
		t.Errorf("unexpected group executable %s", got)
	}
	if typ, ok := cfg.DocumentationType(); !ok || typ != kvdoc.ActMap {
		t.Errorf("expected ActMap, got %s (%v)", typ, ok)
	}
	if cfg.Editor.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %v", cfg.Editor.Debounce)
	}
	if cfg.Editor.Separator != ":" {
		t.Errorf("expected separator ':', got %q", cfg.Editor.Separator)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}

	// Values absent from the file keep their defaults.
	if cfg.Editor.SuggestionLimit != 10 {
		t.Errorf("expected default suggestion limit, got %d", cfg.Editor.SuggestionLimit)
	}
	if cfg.Clonk.EnginePath != "Clonk.app/Contents/MacOS/clonk" {
		t.Errorf("expected default engine path, got %s", cfg.Clonk.EnginePath)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "clonk:\n  folder: [unclosed"},
		{"unknown key", "clonk:\n  foldr: /typo\n"},
		{"bad duration", "editor:\n  debounce: soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if err := loadFromFile(Default(), path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("empty file should load: %v", err)
	}
	if cfg.Clonk.Folder != "./clonkFolder" {
		t.Errorf("expected defaults to survive, got %s", cfg.Clonk.Folder)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Fatal("expected non-empty config dir")
	}
	if !strings.Contains(strings.ToLower(dir), "c4studio") {
		t.Errorf("expected config dir to name c4studio, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); strings.HasPrefix(path, "./") {
		t.Errorf("expected no local config, got %s", path)
	}

	if err := os.WriteFile("config.yaml", []byte("clonk:\n  folder: x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if path := findConfigFile(); path != "./config.yaml" {
		t.Errorf("expected ./config.yaml, got %s", path)
	}

	// The project-named file wins over the generic one.
	if err := os.WriteFile("c4studio.yaml", []byte("clonk:\n  folder: y\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if path := findConfigFile(); path != "./c4studio.yaml" {
		t.Errorf("expected ./c4studio.yaml, got %s", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name  string
		setup func()
		check func(*testing.T, *Config)
		reset func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			check: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected debug level, got %s", cfg.Logging.Level)
				}
			},
			reset: func() { *flagDebug = false },
		},
		{
			name:  "folder flag",
			setup: func() { *flagFolder = "/opt/clonk" },
			check: func(t *testing.T, cfg *Config) {
				if cfg.Clonk.Folder != "/opt/clonk" {
					t.Errorf("expected /opt/clonk, got %s", cfg.Clonk.Folder)
				}
				if got := cfg.EngineExecutable(); got != filepath.Join("/opt/clonk", "Clonk.app/Contents/MacOS/clonk") {
					t.Errorf("unexpected engine executable %s", got)
				}
			},
			reset: func() { *flagFolder = "" },
		},
		{
			name: "type and separator flags",
			setup: func() {
				*flagType = "script"
				*flagSep = "|"
			},
			check: func(t *testing.T, cfg *Config) {
				if typ, ok := cfg.DocumentationType(); !ok || typ != kvdoc.Script {
					t.Errorf("expected Script, got %s", typ)
				}
				if cfg.Editor.Separator != "|" {
					t.Errorf("expected '|', got %q", cfg.Editor.Separator)
				}
			},
			reset: func() {
				*flagType = ""
				*flagSep = ""
			},
		},
		{
			name: "schema and log flags",
			setup: func() {
				*flagSchemas = "/etc/schemas"
				*flagLogFile = "/tmp/c4studio.log"
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Documentation.SchemaDir != "/etc/schemas" {
					t.Errorf("expected schema dir, got %s", cfg.Documentation.SchemaDir)
				}
				if cfg.Logging.LogFile != "/tmp/c4studio.log" {
					t.Errorf("expected log file, got %s", cfg.Logging.LogFile)
				}
			},
			reset: func() {
				*flagSchemas = ""
				*flagLogFile = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.reset()

			cfg := Default()
			applyFlags(cfg)
			tt.check(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
clonk:
  folder: /from/file
editor:
  suggestion_limit: 5
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagFolder = "/from/flag"
	defer func() {
		*flagConfig = ""
		*flagFolder = ""
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Clonk.Folder != "/from/flag" {
		t.Errorf("expected folder from flag, got %s", cfg.Clonk.Folder)
	}
	if cfg.Editor.SuggestionLimit != 5 {
		t.Errorf("expected suggestion limit 5 from file, got %d", cfg.Editor.SuggestionLimit)
	}
	if cfg.Editor.Debounce != 300*time.Millisecond {
		t.Errorf("expected default debounce, got %v", cfg.Editor.Debounce)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(configPath, []byte("clonk:\n  folder: /from/env\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Clonk.Folder != "/from/env" {
		t.Errorf("expected folder from env config, got %s", cfg.Clonk.Folder)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	*flagType = "bogus"
	defer func() { *flagType = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected invalid documentation type to fail")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Clonk.Folder = ""
	cfg.Documentation.DefaultType = "nope"
	cfg.Editor.Debounce = -time.Second
	cfg.Editor.SuggestionLimit = -1
	cfg.Editor.Separator = ";"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"clonk.folder", "default_type", "debounce", "suggestion_limit", "separator"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestResolveAbsolute(t *testing.T) {
	cfg := Default()
	cfg.Clonk.GroupPath = "/usr/local/bin/c4group"
	if got := cfg.GroupExecutable(); got != "/usr/local/bin/c4group" {
		t.Errorf("absolute path must be kept, got %s", got)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Clonk.Folder = "/saved"
	cfg.Editor.Debounce = 2 * time.Second
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Clonk.Folder != "/saved" || loaded.Editor.Debounce != 2*time.Second {
		t.Errorf("unexpected reloaded config %+v", loaded)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only config.yaml, found %d entries", len(entries))
	}
}
