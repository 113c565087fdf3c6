// Package postproc runs the external tools that turn a written WAD into
// something playable: a node builder, then the game itself.
package postproc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/redmars/wadc"
	"github.com/redmars/wadc/pkg/prefs"
)

// Step is the outcome of one subprocess
type Step struct {
	Args   []string
	OK     bool
	Err    error
	Output string
}

// Runner starts a command and waits for it. Tests substitute their own.
type Runner func(ctx context.Context, name string, args ...string) (output string, err error)

// ExecRunner runs commands with os/exec, capturing stdout and stderr
func ExecRunner(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}

// BspArgs is the node builder command line for wadfile
func BspArgs(p *prefs.Prefs, wadfile string) []string {
	return []string{p.BspCmd, wadfile, "-o", wadfile}
}

// DoomArgs is the game command line for wadfile; empty entries are left out
func DoomArgs(p *prefs.Prefs, wadfile string) []string {
	args := []string{p.DoomExe}
	args = append(args, p.Args()...)
	args = append(args, p.ResourceWads()...)
	return append(args, wadfile)
}

// Launcher invokes the post-processing chain
type Launcher struct {
	Prefs  *prefs.Prefs
	Logger *wadc.Logger
	Run    Runner
}

// New creates a launcher using os/exec
func New(p *prefs.Prefs, logger *wadc.Logger) *Launcher {
	return &Launcher{Prefs: p, Logger: logger, Run: ExecRunner}
}

func (l *Launcher) step(ctx context.Context, args []string) Step {
	l.Logger.NoticeCat(wadc.CatTool, "launching: %s", strings.Join(args, " "))
	out, err := l.Run(ctx, args[0], args[1:]...)
	s := Step{Args: args, OK: err == nil, Err: err, Output: out}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		l.Logger.WarnCat(wadc.CatTool, "%s cmd failed? (exit status %d)", args[0], exitErr.ExitCode())
	case ctx.Err() != nil:
		l.Logger.WarnCat(wadc.CatTool, "%s command interrupted!", args[0])
	default:
		l.Logger.WarnCat(wadc.CatTool, "%s: %v", args[0], err)
	}
	return s
}

// Bsp runs the node builder over wadfile
func (l *Launcher) Bsp(ctx context.Context, wadfile string) Step {
	return l.step(ctx, BspArgs(l.Prefs, wadfile))
}

// Doom starts the game on wadfile
func (l *Launcher) Doom(ctx context.Context, wadfile string) Step {
	return l.step(ctx, DoomArgs(l.Prefs, wadfile))
}

// Launch runs the node builder and then the game. A failing builder is
// reported but the game still starts; the WAD is never touched on failure.
func (l *Launcher) Launch(ctx context.Context, wadfile string) ([]Step, error) {
	if wadfile == "" {
		return nil, fmt.Errorf("no wad file to launch")
	}
	steps := []Step{l.Bsp(ctx, wadfile)}
	if ctx.Err() != nil {
		return steps, ctx.Err()
	}
	steps = append(steps, l.Doom(ctx, wadfile))
	return steps, nil
}
