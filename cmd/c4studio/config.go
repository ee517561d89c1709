package main

import (
	"flag"
	"fmt"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

func (a *app) cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	save := fs.Bool("save", false, "Save to the user config directory")
	output := fs.String("o", "", "Save to this file instead")
	if err := fs.Parse(args); err != nil {
		return usage("config [-save] [-o file]")
	}

	switch {
	case *output != "":
		if err := a.cfg.SaveTo(*output); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(a.out, "Saved %s\n", *output)
	case *save:
		if err := a.cfg.Save(); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintln(a.out, "Saved user configuration")
	default:
		data, err := yaml.Marshal(a.cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		fmt.Fprint(a.out, string(data))
	}
	return nil
}
