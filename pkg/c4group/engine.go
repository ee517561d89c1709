package c4group

import "strings"

// EngineApp is the executable name shown at the start of an engine line.
const EngineApp = "Clonk.app"

// EngineSplit is an engine command line split into switches and parameters.
type EngineSplit struct {
	Commands   []string // tokens starting with '/', e.g. /console
	Parameters []string // everything else: scenario names, the app name
}

// SplitEngineString splits an engine line on single spaces. Tokens starting
// with '/' are commands, all others parameters.
func SplitEngineString(line string) EngineSplit {
	var split EngineSplit
	for _, token := range strings.Split(line, " ") {
		if strings.HasPrefix(token, "/") {
			split.Commands = append(split.Commands, token)
		} else {
			split.Parameters = append(split.Parameters, token)
		}
	}
	return split
}

// FormatEngineString joins split into "Clonk.app [commands] [parameters]".
// An app name among the parameters is dropped; it is always placed first.
func FormatEngineString(split EngineSplit) string {
	var commands []string
	for _, c := range split.Commands {
		if c = strings.TrimSpace(c); c != "" {
			commands = append(commands, c)
		}
	}

	var params []string
	for _, p := range split.Parameters {
		if strings.EqualFold(p, EngineApp) {
			continue
		}
		if p = strings.TrimSpace(p); p != "" {
			params = append(params, p)
		}
	}

	parts := []string{EngineApp}
	parts = append(parts, commands...)
	parts = append(parts, params...)
	return strings.Join(parts, " ")
}

// WithScenario puts scenario into line, replacing the first parameter
// that names a scenario or appending it when there is none.
func WithScenario(line, scenario string) string {
	split := SplitEngineString(line)

	found := false
	for i, p := range split.Parameters {
		if strings.Contains(p, ".c4s") {
			split.Parameters[i] = scenario
			found = true
			break
		}
	}
	if !found {
		split.Parameters = append(split.Parameters, scenario)
	}

	return FormatEngineString(split)
}

// CleanCommand strips the executable names a user may have typed in front
// of a command, since the runner supplies the executable itself.
func CleanCommand(cmd string) string {
	for _, name := range []string{"Clonk.app", "c4group", "clonk.app"} {
		cmd = strings.Replace(cmd, name, "", 1)
	}
	return cmd
}
