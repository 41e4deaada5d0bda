package preset

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnregistered is returned when preset roots are read before Register.
var ErrUnregistered = errors.New("preset paths not registered")

// Paths holds the active preset roots. The zero value is unregistered and
// ready to use.
type Paths struct {
	mu    sync.RWMutex
	roots *Roots
}

// NewPaths returns Paths already registered to roots.
func NewPaths(roots Roots) (*Paths, error) {
	p := &Paths{}
	if err := p.Register(roots); err != nil {
		return nil, err
	}
	return p, nil
}

// Register validates roots and makes them active, replacing any earlier
// registration.
func (p *Paths) Register(roots Roots) error {
	if err := roots.Validate(); err != nil {
		return fmt.Errorf("register preset paths: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.roots = &roots
	return nil
}

// Reset returns p to the unregistered state.
func (p *Paths) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.roots = nil
}

// Roots returns the active roots and whether any are registered.
func (p *Paths) Roots() (Roots, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.roots == nil {
		return Roots{}, false
	}
	return *p.roots, true
}

// Registered reports whether roots are active.
func (p *Paths) Registered() bool {
	_, ok := p.Roots()
	return ok
}

// Hutch returns the shared preset root.
func (p *Paths) Hutch() (string, error) {
	r, ok := p.Roots()
	if !ok {
		return "", ErrUnregistered
	}
	return r.Hutch, nil
}

// User returns the personal preset root.
func (p *Paths) User() (string, error) {
	r, ok := p.Roots()
	if !ok {
		return "", ErrUnregistered
	}
	return r.User, nil
}
