// Package harness runs an external test command inside a preset lifecycle:
// a fresh preset tree is prepared, its roots are exported to the child, and
// the tree is removed when the child exits, whatever its outcome.
package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"go.dot.industries/beamsim/internal/preset"
)

// Environment variables carrying preset roots to the child process.
const (
	EnvHutch = "BEAMSIM_HUTCH_PRESETS"
	EnvUser  = "BEAMSIM_USER_PRESETS"
)

// ErrTeardown marks a failure to remove the preset tree after the command
// exited. It is joined with the command's own error, if any.
var ErrTeardown = errors.New("preset teardown")

// Runner runs commands under a prepared preset tree.
type Runner struct {
	base   string
	log    zerolog.Logger
	remove func(base string, opts ...preset.Option) error
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger for lifecycle steps.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Runner) {
		r.log = l
	}
}

// New creates a Runner that prepares presets under base.
func New(base string, opts ...Option) *Runner {
	r := &Runner{base: base, log: zerolog.Nop(), remove: preset.RemoveTree}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run prepares the preset tree, runs command with the roots exported, and
// removes the tree afterwards. A teardown failure is joined to the command's
// own error rather than replacing it.
func (r *Runner) Run(ctx context.Context, command []string) (err error) {
	if len(command) == 0 {
		return fmt.Errorf("command must not be empty")
	}

	roots, err := preset.Prepare(r.base, preset.WithLogger(r.log))
	if err != nil {
		return err
	}

	defer func() {
		if rmErr := r.remove(r.base, preset.WithLogger(r.log)); rmErr != nil {
			err = errors.Join(err, fmt.Errorf("%w: %w", ErrTeardown, rmErr))
		}
	}()

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Env = withPresetEnv(os.Environ(), roots)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	r.log.Debug().Strs("command", command).Str("hutch", roots.Hutch).Str("user", roots.User).Msg("running under presets")

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting command %q: %w", command[0], err)
	}

	stop := ForwardSignals(ctx, cmd.Process, r.log)
	defer stop()

	return cmd.Wait()
}

// ExitCode extracts the child's exit code from an error returned by Run.
// Returns 0 for nil and 1 for errors that carry no exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return 1
}

// PresetEnv returns the variables that export roots to a child process.
func PresetEnv(roots preset.Roots) map[string]string {
	return map[string]string{
		EnvHutch: roots.Hutch,
		EnvUser:  roots.User,
	}
}

// RootsFromEnv reads preset roots exported by Run. ok is false unless both
// variables are set.
func RootsFromEnv() (preset.Roots, bool) {
	hutch, hok := os.LookupEnv(EnvHutch)
	user, uok := os.LookupEnv(EnvUser)
	if !hok || !uok {
		return preset.Roots{}, false
	}
	return preset.Roots{Hutch: hutch, User: user}, true
}

// withPresetEnv returns current with the preset variables set, replacing any
// inherited values. current is not mutated.
func withPresetEnv(current []string, roots preset.Roots) []string {
	extra := PresetEnv(roots)

	out := make([]string, 0, len(current)+len(extra))
	for _, entry := range current {
		key, _, _ := strings.Cut(entry, "=")
		if _, ok := extra[key]; ok {
			continue
		}
		out = append(out, entry)
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		out = append(out, k+"="+extra[k])
	}

	return out
}
