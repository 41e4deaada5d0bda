// Package preset manages the hutch and user preset roots. The roots are held
// by an explicit Paths value handed to whatever needs them, never by package
// state.
package preset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const (
	// TreeName is the directory created under the base dir by Prepare.
	TreeName = "test_presets"

	hutchDir = "hutch"
	userDir  = "user"
	dirPerms = 0o755
)

// Roots is the pair of directories presets are stored under. Hutch presets
// are shared by everyone at an instrument; user presets are personal.
type Roots struct {
	Hutch string
	User  string
}

// Option configures Prepare and RemoveTree.
type Option func(*options)

type options struct {
	log zerolog.Logger
}

// WithLogger logs directory lifecycle steps to l.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

func collect(opts []Option) options {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// mkdirAll is swapped in tests to fail part way through Prepare.
var mkdirAll = os.MkdirAll

// TreePath returns the preset tree location under base.
func TreePath(base string) string {
	return filepath.Join(base, TreeName)
}

// Prepare creates a fresh base/test_presets tree holding empty hutch and user
// directories. A tree left behind by an earlier run is removed first, so
// Prepare can be called repeatedly.
func Prepare(base string, opts ...Option) (Roots, error) {
	o := collect(opts)
	tree := TreePath(base)

	if _, err := os.Stat(tree); err == nil {
		o.log.Debug().Str("path", tree).Msg("removing stale preset tree")
		if err := os.RemoveAll(tree); err != nil {
			return Roots{}, fmt.Errorf("removing stale preset tree %s: %w", tree, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Roots{}, fmt.Errorf("checking preset tree %s: %w", tree, err)
	}

	roots := Roots{
		Hutch: filepath.Join(tree, hutchDir),
		User:  filepath.Join(tree, userDir),
	}

	for _, dir := range []string{roots.Hutch, roots.User} {
		if err := mkdirAll(dir, dirPerms); err != nil {
			err = fmt.Errorf("creating preset dir %s: %w", dir, err)
			if rmErr := os.RemoveAll(tree); rmErr != nil {
				err = errors.Join(err, fmt.Errorf("removing partial preset tree %s: %w", tree, rmErr))
			}
			return Roots{}, err
		}
	}

	o.log.Debug().Str("hutch", roots.Hutch).Str("user", roots.User).Msg("preset tree prepared")

	return roots, nil
}

// RemoveTree deletes base/test_presets and everything in it. A missing tree
// is not an error.
func RemoveTree(base string, opts ...Option) error {
	o := collect(opts)
	tree := TreePath(base)

	if err := os.RemoveAll(tree); err != nil {
		return fmt.Errorf("removing preset tree %s: %w", tree, err)
	}

	o.log.Debug().Str("path", tree).Msg("preset tree removed")

	return nil
}

// Validate checks that both roots are set and are existing directories.
func (r Roots) Validate() error {
	if r.Hutch == "" {
		return fmt.Errorf("hutch preset root is required")
	}
	if r.User == "" {
		return fmt.Errorf("user preset root is required")
	}

	for _, dir := range []string{r.Hutch, r.User} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("preset root %s: %w", dir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("preset root %s is not a directory", dir)
		}
	}

	return nil
}
