package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/multierr"

	"github.com/Faultbox/c4studio/internal/workspace"
	"github.com/Faultbox/c4studio/pkg/c4group"
)

func (a *app) cmdTree(args []string) error {
	fs := flag.NewFlagSet("tree", flag.ContinueOnError)
	depth := fs.Int("depth", 2, "Levels to show (deeper levels are expanded on demand)")
	filter := fs.Bool("filter", false, "Show only game, image and audio files")
	if err := fs.Parse(args); err != nil {
		return usage("tree [-depth N] [-filter] [pattern]")
	}

	root, err := a.loader.Load(a.cfg.Clonk.Folder)
	if root == nil {
		return err
	}
	for _, e := range multierr.Errors(err) {
		color.New(color.FgYellow).Fprintf(a.out, "warning: %v\n", e)
	}

	if fs.NArg() > 0 {
		a.expandAll(root, -1)
		found := workspace.Find(root, fs.Arg(0))
		for _, n := range found {
			rel, _ := filepath.Rel(root.Path, n.Path)
			fmt.Fprintf(a.out, "%s %s\n", workspace.Icon(n.Name), rel)
		}
		fmt.Fprintf(a.out, "\nFound %d entries matching %q\n", len(found), fs.Arg(0))
		return nil
	}

	a.expandAll(root, *depth)
	if *filter {
		prune(root)
	}
	fmt.Fprintf(a.out, "%s\n", root.Path)
	a.printNode(root, "")
	return nil
}

// expandAll loads folders down to depth levels; a negative depth means all.
func (a *app) expandAll(n *workspace.Node, depth int) {
	if depth == 0 {
		return
	}
	for _, c := range n.Children {
		if !c.IsDir {
			continue
		}
		if err := a.loader.Expand(c); err != nil {
			color.New(color.FgYellow).Fprintf(a.out, "warning: %v\n", err)
		}
		a.expandAll(c, depth-1)
	}
}

// prune drops files the browser hides by default. Folders are kept.
func prune(n *workspace.Node) {
	kept := n.Children[:0]
	for _, c := range n.Children {
		if c.IsDir || workspace.Allowed(c.Name) {
			prune(c)
			kept = append(kept, c)
		}
	}
	n.Children = kept
}

func (a *app) printNode(n *workspace.Node, indent string) {
	dir := color.New(color.FgBlue, color.Bold)
	for i, c := range n.Children {
		branch, next := "├── ", "│   "
		if i == len(n.Children)-1 {
			branch, next = "└── ", "    "
		}
		name := c.Name
		if c.IsDir {
			name = dir.Sprint(c.Name)
		}
		line := fmt.Sprintf("%s%s%s %s", indent, branch, workspace.Icon(c.Name), name)
		if c.PreviewPath != "" {
			line += color.New(color.Faint).Sprintf("  (preview %s)", filepath.Base(c.PreviewPath))
		}
		fmt.Fprintln(a.out, line)
		a.printNode(c, indent+next)
	}
}

func (a *app) cmdUnpack(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("unpack <group>")
	}
	out, err := a.runner.Unpack(ctx, args[0])
	if err != nil {
		return err
	}
	a.printToolOutput(out)
	color.New(color.FgGreen).Fprintf(a.out, "Unpacked %s\n", args[0])
	return nil
}

func (a *app) cmdPack(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("pack <group>")
	}
	out, err := a.runner.Pack(ctx, args[0])
	if err != nil {
		return err
	}
	a.printToolOutput(out)
	color.New(color.FgGreen).Fprintf(a.out, "Packed %s\n", args[0])
	return nil
}

func (a *app) cmdRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	line := fs.String("line", "", "Engine command line (default from config)")
	if err := fs.Parse(args); err != nil || fs.NArg() < 1 {
		return usage("run [-line engine-line] <scenario.c4s>")
	}

	scenario := fs.Arg(0)
	if !c4group.IsScenario(scenario) {
		return fmt.Errorf("%s is not a scenario (.c4s)", scenario)
	}
	base := a.cfg.Clonk.EngineLine
	if *line != "" {
		base = *line
	}

	engineLine := c4group.WithScenario(base, scenario)
	fmt.Fprintf(a.out, "Starting %s\n", color.New(color.Bold).Sprint(engineLine))
	out, err := a.runner.Engine(ctx, engineLine)
	if err != nil {
		return err
	}
	a.printToolOutput(out)
	return nil
}

func (a *app) cmdEngine(ctx context.Context, args []string) error {
	line := a.cfg.Clonk.EngineLine
	if len(args) > 0 {
		line = strings.Join(args, " ")
	}

	split := c4group.SplitEngineString(line)
	normalized := c4group.FormatEngineString(split)
	fmt.Fprintf(a.out, "Commands:   %s\n", strings.Join(split.Commands, " "))
	fmt.Fprintf(a.out, "Parameters: %s\n", strings.Join(split.Parameters, " "))

	out, err := a.runner.Engine(ctx, normalized)
	if err != nil {
		return err
	}
	a.printToolOutput(out)
	return nil
}

func (a *app) printToolOutput(out string) {
	if out = strings.TrimSpace(out); out != "" {
		fmt.Fprintln(a.out, out)
	}
}
