package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/Faultbox/c4studio/internal/editor"
	"github.com/Faultbox/c4studio/internal/workspace"
	"github.com/Faultbox/c4studio/pkg/kvdoc"
	"github.com/Faultbox/c4studio/pkg/kvtext"
)

func (a *app) cmdDetect(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("detect <file>")
	}

	content, err := workspace.ReadText(args[0])
	if err != nil {
		return err
	}

	p := a.parser(content)
	groups := p.Parse(content)

	fmt.Fprintf(a.out, "File:      %s\n", args[0])
	fmt.Fprintf(a.out, "Type:      %s (%s)\n", p.Type, string(p.Type))
	fmt.Fprintf(a.out, "Separator: %q\n", p.Separator)
	if section, ok := a.store.DetectSection(content, p.Type); ok {
		fmt.Fprintf(a.out, "Section:   %s\n", section)
	}
	fmt.Fprintf(a.out, "Groups:    %d\n", len(groups))
	for _, g := range groups {
		fmt.Fprintf(a.out, "  [%s] %d fields\n", g.Name, len(g.Fields))
	}
	return nil
}

func (a *app) cmdFields(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("fields <type> [section [query]]")
	}
	t, err := kvdoc.ParseType(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	if len(args) < 2 {
		for _, section := range a.store.AvailableSections(t) {
			fields := a.store.FieldSuggestions(ctx, t, section)
			fmt.Fprintf(w, "%s\t%d fields\t%s\n",
				color.New(color.Bold).Sprint(section), len(fields),
				a.store.SectionDescription(ctx, t, section))
		}
		return nil
	}

	section := args[1]
	sug := editor.NewSuggester(ctx, a.store, t, section,
		editor.WithLimit(a.cfg.Editor.SuggestionLimit),
		editor.WithInputDelay(a.cfg.Editor.SuggestionDelay))
	defer sug.Close()

	names := sug.All()
	if len(names) == 0 {
		return fmt.Errorf("no documented fields for %s section %s", t, section)
	}
	if len(args) > 2 {
		names = sug.Filter(args[2])
	}
	if len(names) == 0 {
		return fmt.Errorf("no %s field in section %s matches %q", t, section, args[2])
	}
	for _, name := range names {
		doc := sug.Select(ctx, name)
		fmt.Fprintf(w, "%s\t%s\t%s\n", color.GreenString(name), doc.Type, doc.Description)
	}
	return nil
}

func (a *app) cmdDoc(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return usage("doc <type> <section> <key>")
	}
	t, err := kvdoc.ParseType(args[0])
	if err != nil {
		return err
	}

	section, key := args[1], args[2]
	doc := a.store.FieldDocumentation(ctx, t, section, key)
	if doc == nil {
		return fmt.Errorf("%s is not documented in %s section %s", key, t, section)
	}

	fmt.Fprintf(a.out, "%s.%s\n", section, color.New(color.Bold).Sprint(key))
	fmt.Fprintf(a.out, "Type: %s\n", doc.Type)
	if desc := a.store.SectionDescription(ctx, t, section); desc != "" {
		fmt.Fprintf(a.out, "Section: %s\n", desc)
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, doc.Description)
	return nil
}

// parser returns a parser for content, honoring a configured type or
// separator and detecting the rest.
func (a *app) parser(content string) *kvtext.Parser {
	p := kvtext.Detect(content)
	if t, ok := a.cfg.DocumentationType(); ok {
		p.Type = t
	}
	if sep := a.cfg.Editor.Separator; sep != "" {
		p.Separator = sep
	}
	p.Sections = a.store
	return p
}
