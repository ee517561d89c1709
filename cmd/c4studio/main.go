// c4studio is a command-line editor for Clonk key-value files and groups.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/Faultbox/c4studio/internal/config"
	"github.com/Faultbox/c4studio/internal/logger"
	"github.com/Faultbox/c4studio/internal/workspace"
	"github.com/Faultbox/c4studio/pkg/c4group"
	"github.com/Faultbox/c4studio/pkg/kvdoc"
)

// errUsage marks a command invoked with bad arguments.
var errUsage = errors.New("usage")

func main() {
	flag.Usage = func() { printUsage(os.Stderr) }
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := config.Args()
	if len(args) < 1 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp(cfg, os.Stdout)
	err = a.run(ctx, args[0], args[1:])
	hits, fetches := a.store.Stats()
	logger.Debug("documentation cache", zap.Int("hits", hits), zap.Int("fetches", fetches))
	if err != nil {
		stop()
		logger.Sync()
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		logger.Debug("command failed", zap.String("command", args[0]), zap.Error(err))
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds what every command needs.
type app struct {
	cfg    *config.Config
	out    io.Writer
	store  *kvdoc.Store
	loader *workspace.Loader
	runner *c4group.Runner
}

func newApp(cfg *config.Config, out io.Writer) *app {
	var source kvdoc.Source = kvdoc.EmbeddedSource()
	if dir := cfg.Documentation.SchemaDir; dir != "" {
		source = kvdoc.FallbackSource{kvdoc.DirSource(dir), source}
	}

	store := kvdoc.NewStore(source, kvdoc.WithLogger(logger.Named("kvdoc")))
	if t, ok := cfg.DocumentationType(); ok {
		store.SetCurrent(t)
	}

	return &app{
		cfg:    cfg,
		out:    out,
		store:  store,
		loader: workspace.NewLoader(logger.Named("workspace")),
		runner: c4group.NewRunner(
			cfg.EngineExecutable(),
			cfg.GroupExecutable(),
			cfg.Clonk.Folder,
			c4group.WithLogger(logger.Named("c4group")),
		),
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "tree", "ls":
		return a.cmdTree(args)
	case "show", "cat":
		return a.cmdShow(ctx, args)
	case "detect":
		return a.cmdDetect(ctx, args)
	case "fields":
		return a.cmdFields(ctx, args)
	case "doc":
		return a.cmdDoc(ctx, args)
	case "fmt":
		return a.cmdFmt(ctx, args)
	case "set":
		return a.cmdSet(ctx, args)
	case "unpack":
		return a.cmdUnpack(ctx, args)
	case "pack":
		return a.cmdPack(ctx, args)
	case "run":
		return a.cmdRun(ctx, args)
	case "engine":
		return a.cmdEngine(ctx, args)
	case "config":
		return a.cmdConfig(args)
	case "help", "-h", "--help":
		printUsage(a.out)
		return nil
	default:
		printUsage(os.Stderr)
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func usage(line string) error {
	return fmt.Errorf("%w: c4studio %s", errUsage, line)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `c4studio - Clonk key-value file and group utility

Usage:
  c4studio [global options] <command> [options]

Global options:
  -config <file>   Config file
  -folder <dir>    Clonk folder
  -type <type>     Documentation type (defcore, actmap, script, material, custom)
  -sep <sep>       Key-value separator
  -schemas <dir>   Schema directory overriding the bundled schemas
  -debug           Enable debug logging
  -log <file>      Log file

Commands:
  tree [-filter] [pattern]             Show the Clonk folder (optional filter)
  show <file>                          Show a file's groups with documentation
  detect <file>                        Detect documentation type, separator and section
  fields <type> [section [query]]      List sections or documented fields
  doc <type> <section> <key>           Show documentation for one field
  fmt [-d] [-w] <file>                 Normalize a file (diff or write back)
  set <file> <section> <key> <value>   Set a field, adding it if missing
  unpack <group>                       Unpack a group with c4group
  pack <group>                         Pack a folder with c4group
  run <scenario>                       Start a scenario in the engine
  engine [line]                        Run the engine with a command line
  config [-save] [-o file]             Print or save the effective configuration

Examples:
  c4studio tree "*.c4d"
  c4studio show Objects.c4d/Clonk.c4d/DefCore.txt
  c4studio fields defcore Physical
  c4studio set DefCore.txt DefCore Width 12
  c4studio run Worlds.c4f/Tutorial.c4s`)
}
