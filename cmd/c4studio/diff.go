package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// writeDiff prints a line diff from before to after.
func writeDiff(w io.Writer, before, after string) {
	if before == after {
		fmt.Fprintln(w, "no changes")
		return
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var (
		added   = color.New(color.FgGreen)
		removed = color.New(color.FgRed)
	)
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				added.Fprintf(w, "+%s\n", line)
			case diffmatchpatch.DiffDelete:
				removed.Fprintf(w, "-%s\n", line)
			default:
				fmt.Fprintf(w, " %s\n", line)
			}
		}
	}
}

func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
