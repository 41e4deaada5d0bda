// Package signal provides process-variable stand-ins for beamline devices.
// Devices never construct signals directly; they ask a Factory, so tests can
// swap real channels for simulated ones without touching device code.
package signal

import (
	"errors"
)

var (
	// ErrInvalidValue is returned when a value may not be written to a PV.
	ErrInvalidValue = errors.New("invalid value")

	// ErrNotConnected is returned by signals that have no backing channel.
	ErrNotConnected = errors.New("not connected")
)

// Signal is a single readable and writable process variable.
type Signal interface {
	Name() string
	PV() string
	Get(opts ...GetOption) (any, error)
	Put(value any) error
	Subscribe(fn func(value any)) (unsubscribe func())
}

// Simulated is implemented by signals whose state can be driven from tests.
type Simulated interface {
	Signal
	SimPut(value any)
}

// Enumerated is a simulated signal carrying an enum string table.
type Enumerated interface {
	Simulated
	EnumStrs() []string
	SimSetEnumStrs(enums []string)
}

// GetOption tunes a single Get call.
type GetOption func(*getOptions)

type getOptions struct {
	asString *bool
}

// AsString overrides the signal's default string rendering for one Get.
func AsString(v bool) GetOption {
	return func(o *getOptions) {
		o.asString = &v
	}
}

func collectGetOptions(opts []GetOption) getOptions {
	var o getOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a signal at construction.
type Option func(*config)

type config struct {
	read     string
	name     string
	writePV  string
	asString bool
	enums    []string
	initial  any
}

// WithName sets the signal's display name. Defaults to the read PV.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithWritePV sets a setpoint PV distinct from the readback PV.
func WithWritePV(pv string) Option {
	return func(c *config) {
		c.writePV = pv
	}
}

// WithStringDefault makes Get render values as strings unless overridden.
func WithStringDefault(v bool) Option {
	return func(c *config) {
		c.asString = v
	}
}

// WithEnumStrs seeds the enumeration table of a simulated signal.
func WithEnumStrs(enums ...string) Option {
	return func(c *config) {
		c.enums = enums
	}
}

// WithInitialValue seeds the stored value of a simulated signal.
func WithInitialValue(v any) Option {
	return func(c *config) {
		c.initial = v
	}
}

func newConfig(read string, opts []Option) config {
	c := config{read: read, name: read}
	for _, opt := range opts {
		opt(&c)
	}
	if c.writePV == "" {
		c.writePV = read
	}
	return c
}

var (
	_ Simulated  = (*FakeSignal)(nil)
	_ Enumerated = (*EnumSignal)(nil)
)
