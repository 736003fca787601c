// Package packager drives the project's package manager after the manifest
// has been written: dependency installation and the formatting pass.
package packager

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Manager is a Node package manager.
type Manager string

const (
	Yarn Manager = "yarn"
	Npm  Manager = "npm"
)

// ParseManager accepts "npm" or "yarn" (case-insensitive). Empty means Yarn.
func ParseManager(s string) (Manager, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yarn":
		return Yarn, nil
	case "npm":
		return Npm, nil
	default:
		return "", fmt.Errorf("unknown package manager %q (want npm or yarn)", s)
	}
}

func (m Manager) String() string { return string(m) }

// RunScript returns the command line that runs a package.json script.
func (m Manager) RunScript(script string, args ...string) string {
	return strings.Join(append([]string{string(m), "run", script}, args...), " ")
}

// InstallArgs returns the argv of the dependency installation command.
func (m Manager) InstallArgs() []string {
	if m == Npm {
		return []string{"npm", "i"}
	}
	return []string{"yarn", "install"}
}

// FormatArgs returns the argv of the formatting pass (`lint --fix`).
func (m Manager) FormatArgs() []string {
	return []string{string(m), "run", "lint", "--fix"}
}

// RunFunc executes argv in dir.
type RunFunc func(ctx context.Context, dir string, argv []string) error

// Runner executes package manager commands in a project directory.
type Runner struct {
	Manager Manager
	Dir     string
	Stdout  io.Writer // defaults to os.Stdout
	Stderr  io.Writer // defaults to os.Stderr
	Run     RunFunc   // defaults to os/exec
}

// Install runs `npm i` or `yarn install`.
func (r *Runner) Install(ctx context.Context) error {
	return r.exec(ctx, r.Manager.InstallArgs())
}

// Format runs `<manager> run lint --fix`.
func (r *Runner) Format(ctx context.Context) error {
	return r.exec(ctx, r.Manager.FormatArgs())
}

func (r *Runner) exec(ctx context.Context, argv []string) error {
	run := r.Run
	if run == nil {
		run = r.command
	}
	if err := run(ctx, r.Dir, argv); err != nil {
		return fmt.Errorf("%s: %w", strings.Join(argv, " "), err)
	}
	return nil
}

func (r *Runner) command(ctx context.Context, dir string, argv []string) error {
	bin, err := exec.LookPath(argv[0])
	if err != nil {
		return fmt.Errorf("%s is not installed: %w", argv[0], err)
	}
	cmd := exec.CommandContext(ctx, bin, argv[1:]...)
	cmd.Dir = dir
	cmd.Stdout = orDefault(r.Stdout, os.Stdout)
	cmd.Stderr = orDefault(r.Stderr, os.Stderr)
	return cmd.Run()
}

func orDefault(w, def io.Writer) io.Writer {
	if w == nil {
		return def
	}
	return w
}
