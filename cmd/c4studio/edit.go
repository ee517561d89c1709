package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/Faultbox/c4studio/internal/editor"
	"github.com/Faultbox/c4studio/internal/logger"
	"github.com/Faultbox/c4studio/internal/workspace"
	"github.com/Faultbox/c4studio/pkg/kvtext"
)

func (a *app) cmdShow(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("show <file>")
	}

	sess, err := a.openSession(ctx, args[0])
	if err != nil {
		return err
	}
	defer sess.Close()

	var (
		header  = color.New(color.FgCyan, color.Bold)
		known   = color.New(color.FgGreen)
		unknown = color.New(color.FgRed)
		faint   = color.New(color.Faint)
	)

	fmt.Fprintf(a.out, "%s  %s, separator %q\n\n", args[0], sess.Type(), sess.Separator())
	for i, g := range sess.Groups() {
		if i > 0 {
			fmt.Fprintln(a.out)
		}
		if sess.HasMultipleGroups() || g.Name != kvtext.GeneralGroup {
			header.Fprintf(a.out, "[%s]", g.Name)
		} else {
			header.Fprint(a.out, g.Name)
		}
		if g.Section != g.Name {
			faint.Fprintf(a.out, "  as %s", g.Section)
		}
		fmt.Fprintln(a.out)

		for _, f := range g.Fields {
			key := unknown.Sprint(f.Key)
			if sess.IsFieldValid(f) {
				key = known.Sprint(f.Key)
			}
			fmt.Fprintf(a.out, "  %s%s%s", key, sess.Separator(), f.Value)
			if f.Info != nil {
				faint.Fprintf(a.out, "  # %s", f.Info.Type)
			}
			fmt.Fprintln(a.out)
		}
	}
	return nil
}

func (a *app) cmdFmt(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	showDiff := fs.Bool("d", false, "Print a diff instead of the formatted file")
	write := fs.Bool("w", false, "Write the result back to the file")
	if err := fs.Parse(args); err != nil || fs.NArg() < 1 {
		return usage("fmt [-d] [-w] <file>")
	}

	path := fs.Arg(0)
	content, err := workspace.ReadText(path)
	if err != nil {
		return err
	}

	p := a.parser(content)
	formatted := withTrailingNewline(p.Serialize(p.Parse(content)), strings.HasSuffix(content, "\n"))

	switch {
	case *showDiff:
		writeDiff(a.out, content, formatted)
	case !*write:
		fmt.Fprint(a.out, withTrailingNewline(formatted, true))
	}

	if *write && formatted != content {
		if err := workspace.WriteText(path, formatted); err != nil {
			return err
		}
		logger.Info("formatted file", zap.String("path", path))
	}
	return nil
}

func (a *app) cmdSet(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return usage("set <file> <section> <key> <value>")
	}
	path, section, key, value := args[0], args[1], args[2], args[3]

	sess, err := a.openSession(ctx, path)
	if err != nil {
		return err
	}
	defer sess.Close()

	var changes atomic.Int32
	sess.Subscribe(func(editor.Change) { changes.Add(1) })

	group, err := findOrAddGroup(ctx, sess, section)
	if err != nil {
		return err
	}

	index := fieldIndex(sess.Groups()[group], key)
	if index < 0 {
		index, err = addField(ctx, sess, group, key)
		if err != nil {
			return err
		}
	}
	if err := sess.SetFieldValue(group, index, value); err != nil {
		return err
	}
	sess.Flush()

	if changes.Load() == 0 {
		fmt.Fprintf(a.out, "%s already has %s=%s\n", path, key, value)
		return nil
	}
	if err := workspace.WriteText(path, withTrailingNewline(sess.Content(), true)); err != nil {
		return err
	}

	f := sess.Groups()[group].Fields[index]
	if !sess.IsFieldValid(f) {
		color.New(color.FgYellow).Fprintf(a.out, "warning: %s is not documented for section %s\n", key, section)
	}
	color.New(color.FgGreen).Fprintf(a.out, "Set %s.%s = %s\n", section, key, value)
	return nil
}

// openSession reads path into a new editing session.
func (a *app) openSession(ctx context.Context, path string) (*editor.Session, error) {
	content, err := workspace.ReadText(path)
	if err != nil {
		return nil, err
	}

	opts := []editor.Option{
		editor.WithDebounce(a.cfg.Editor.Debounce),
		editor.WithSeparator(a.cfg.Editor.Separator),
		editor.WithLogger(logger.Named("editor")),
	}
	if t, ok := a.cfg.DocumentationType(); ok {
		opts = append(opts, editor.WithType(t))
	}

	sess := editor.NewSession(a.store, opts...)
	sess.SetContent(ctx, content)
	return sess, nil
}

func findOrAddGroup(ctx context.Context, sess *editor.Session, name string) (int, error) {
	groups := sess.Groups()
	for i, g := range groups {
		if g.Name == name {
			return i, nil
		}
	}
	// A headerless file has a single General group standing for the detected section.
	if len(groups) == 1 && groups[0].Name == kvtext.GeneralGroup && groups[0].Section == name {
		return 0, nil
	}

	sess.AddGroup()
	group := len(sess.Groups()) - 1
	if err := sess.RenameGroup(ctx, group, name); err != nil {
		return 0, err
	}
	return group, nil
}

func fieldIndex(g kvtext.Group, key string) int {
	for i, f := range g.Fields {
		if f.Key == key {
			return i
		}
	}
	return -1
}

// addField adds key to group, reusing the empty field of a new group.
func addField(ctx context.Context, sess *editor.Session, group int, key string) (int, error) {
	fields := sess.Groups()[group].Fields
	index := len(fields)
	if index == 1 && fields[0].Key == "" && fields[0].Value == "" {
		index = 0
	} else if err := sess.AddField(group); err != nil {
		return 0, err
	}
	if _, err := sess.SelectSuggestion(ctx, group, index, key); err != nil {
		return 0, err
	}
	return index, nil
}

func withTrailingNewline(s string, want bool) string {
	if want && !strings.HasSuffix(s, "\n") {
		return s + "\n"
	}
	return s
}
