package attenuator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"go.dot.industries/beamsim/internal/signal"
)

const defaultMaxConcurrency = 4

// Spec names one attenuator to build.
type Spec struct {
	Name    string
	Prefix  string
	Filters int
}

// BuildAll builds one attenuator per spec with at most jobs constructions in
// flight, running seed on each as it is built when seed is non-nil. Results
// keep the order of specs. The first error cancels the remaining work.
func BuildAll(
	ctx context.Context,
	f signal.Factory,
	specs []Spec,
	jobs int,
	seed func(*Attenuator) error,
	opts ...Option,
) ([]*Attenuator, error) {
	if jobs < 1 {
		jobs = defaultMaxConcurrency
	}

	results := make([]*Attenuator, len(specs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			att, err := New(f, spec.Prefix, spec.Filters, spec.Name, opts...)
			if err != nil {
				return err
			}

			if seed != nil {
				if err := seed(att); err != nil {
					return fmt.Errorf("seeding attenuator: %w", err)
				}
			}

			results[i] = att
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build attenuators: %w", err)
	}

	return results, nil
}
