package c4group

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// ExecFunc runs name with args in dir and returns its output streams.
type ExecFunc func(ctx context.Context, dir, name string, args ...string) (stdout, stderr []byte, err error)

// ToolError reports a tool that wrote to stderr.
type ToolError struct {
	Tool   string
	Stderr string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Tool, strings.TrimSpace(e.Stderr))
}

// Runner launches the engine and c4group.
type Runner struct {
	EnginePath string // engine executable
	GroupPath  string // c4group executable
	Dir        string // working directory, usually the Clonk folder

	log  *zap.Logger
	exec ExecFunc
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(log *zap.Logger) RunnerOption {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

// WithExec replaces process execution, mainly for tests.
func WithExec(fn ExecFunc) RunnerOption {
	return func(r *Runner) {
		r.exec = fn
	}
}

// NewRunner creates a runner for the given executables.
func NewRunner(enginePath, groupPath, dir string, opts ...RunnerOption) *Runner {
	r := &Runner{
		EnginePath: enginePath,
		GroupPath:  groupPath,
		Dir:        dir,
		log:        zap.NewNop(),
		exec:       execCommand,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Engine starts the engine with an engine line such as
// "Clonk.app /console /nonetwork Goldmine.c4s".
func (r *Runner) Engine(ctx context.Context, line string) (string, error) {
	return r.run(ctx, r.EnginePath, line)
}

// StartScenario starts the engine on a single scenario.
func (r *Runner) StartScenario(ctx context.Context, scenario string) (string, error) {
	return r.Engine(ctx, scenario)
}

// Group runs c4group with the given command.
func (r *Runner) Group(ctx context.Context, cmd string) (string, error) {
	return r.run(ctx, r.GroupPath, cmd)
}

// Unpack explodes a packed group file into a folder of the same name.
func (r *Runner) Unpack(ctx context.Context, path string) (string, error) {
	if !CanPack(path) {
		return "", fmt.Errorf("unpacking %s: %w", path, ErrNotPackable)
	}
	r.log.Info("unpacking group", zap.String("path", path))
	return r.runArgs(ctx, r.GroupPath, path, "-u")
}

// Pack packs an unpacked group folder back into a group file.
func (r *Runner) Pack(ctx context.Context, path string) (string, error) {
	if !CanPack(path) {
		return "", fmt.Errorf("packing %s: %w", path, ErrNotPackable)
	}
	r.log.Info("packing group", zap.String("path", path))
	return r.runArgs(ctx, r.GroupPath, path, "-p")
}

// run executes a user-typed command line: executable names are stripped
// and the rest is split on whitespace.
func (r *Runner) run(ctx context.Context, tool, cmd string) (string, error) {
	return r.runArgs(ctx, tool, strings.Fields(CleanCommand(cmd))...)
}

// runArgs executes tool with args passed through unchanged.
func (r *Runner) runArgs(ctx context.Context, tool string, args ...string) (string, error) {
	if tool == "" {
		return "", fmt.Errorf("no executable configured")
	}

	r.log.Debug("running tool", zap.String("tool", tool), zap.Strings("args", args))

	stdout, stderr, err := r.exec(ctx, r.Dir, tool, args...)
	if err != nil {
		r.log.Error("tool failed", zap.String("tool", tool), zap.Error(err))
		return string(stdout), fmt.Errorf("running %s: %w", tool, err)
	}
	if len(bytes.TrimSpace(stderr)) > 0 {
		r.log.Warn("tool wrote to stderr", zap.String("tool", tool), zap.ByteString("stderr", stderr))
		return string(stdout), &ToolError{Tool: tool, Stderr: string(stderr)}
	}

	r.log.Debug("tool finished", zap.String("tool", tool), zap.Int("output_bytes", len(stdout)))
	return string(stdout), nil
}

func execCommand(ctx context.Context, dir, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
