package signal

import (
	"fmt"
)

// Factory builds the signals a device is made of. Devices take a Factory
// instead of picking concrete signal types, which is how simulated devices
// are produced.
type Factory interface {
	NewSignal(read string, opts ...Option) Signal
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(read string, opts ...Option) Signal

// NewSignal calls f.
func (f FactoryFunc) NewSignal(read string, opts ...Option) Signal {
	return f(read, opts...)
}

// Backend names accepted by ForBackend.
const (
	BackendSim = "sim"
	BackendCA  = "ca"
)

// Sim builds in-memory EnumSignals.
var Sim Factory = FactoryFunc(func(read string, opts ...Option) Signal {
	return NewEnumSignal(read, opts...)
})

// Unavailable builds signals for a hardware backend this module does not
// talk to. Every read and write fails with ErrNotConnected.
var Unavailable Factory = FactoryFunc(func(read string, opts ...Option) Signal {
	return &disconnected{cfg: newConfig(read, opts)}
})

// ForBackend returns the factory registered for name. An empty name selects
// the simulated backend.
func ForBackend(name string) (Factory, error) {
	switch name {
	case "", BackendSim:
		return Sim, nil
	case BackendCA:
		return Unavailable, nil
	default:
		return nil, fmt.Errorf("unknown signal backend %q", name)
	}
}

type disconnected struct {
	cfg config
}

func (d *disconnected) Name() string {
	return d.cfg.name
}

func (d *disconnected) PV() string {
	return d.cfg.read
}

func (d *disconnected) Get(_ ...GetOption) (any, error) {
	return nil, fmt.Errorf("get %s: %w", d.cfg.read, ErrNotConnected)
}

func (d *disconnected) Put(_ any) error {
	return fmt.Errorf("put %s: %w", d.cfg.writePV, ErrNotConnected)
}

func (d *disconnected) Subscribe(_ func(any)) func() {
	return func() {}
}
