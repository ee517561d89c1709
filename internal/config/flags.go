package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagFolder  = flag.String("folder", "", "Clonk folder")
	flagType    = flag.String("type", "", "Documentation type (defcore, actmap, script, material, custom)")
	flagSep     = flag.String("sep", "", "Key-value separator (=, :, |)")
	flagSchemas = flag.String("schemas", "", "Directory with schema documents overriding the bundled ones")
	flagLogFile = flag.String("log", "", "Log file path")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments: the command and its arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagFolder != "" {
		cfg.Clonk.Folder = *flagFolder
	}
	if *flagType != "" {
		cfg.Documentation.DefaultType = *flagType
	}
	if *flagSep != "" {
		cfg.Editor.Separator = *flagSep
	}
	if *flagSchemas != "" {
		cfg.Documentation.SchemaDir = *flagSchemas
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
