// Package attenuator models a multi-filter solid attenuator. Each filter is a
// blade that is either IN or OUT of the beam and has a thickness. The
// transmission calculation itself runs in the IOC; this package only exposes
// the PVs around it.
package attenuator

import (
	"fmt"

	"github.com/rs/zerolog"

	"go.dot.industries/beamsim/internal/signal"
)

// MaxFilters is the largest number of filters an attenuator IOC supports.
const MaxFilters = 12

// Filter states as published by the filter STATE PV.
const (
	StateUnknown = "Unknown"
	StateIn      = "IN"
	StateOut     = "OUT"
)

var stateEnums = []string{StateUnknown, StateIn, StateOut}

// Option configures an Attenuator.
type Option func(*Attenuator)

// WithLogger sets the logger used for construction and filter moves.
func WithLogger(l zerolog.Logger) Option {
	return func(a *Attenuator) {
		a.log = l
	}
}

// Attenuator is a set of filters plus the IOC's transmission status PVs.
type Attenuator struct {
	prefix string
	name   string
	log    zerolog.Logger

	Readback signal.Signal
	Setpoint signal.Signal
	Done     signal.Signal
	CalcPend signal.Signal

	filters []*Filter
}

// New builds an attenuator with numFilters filters under prefix. Signals come
// from f, so passing signal.Sim produces a fully simulated device.
func New(f signal.Factory, prefix string, numFilters int, name string, opts ...Option) (*Attenuator, error) {
	if f == nil {
		return nil, fmt.Errorf("attenuator %s: signal factory is required", name)
	}
	if numFilters < 1 || numFilters > MaxFilters {
		return nil, fmt.Errorf("attenuator %s: filter count %d outside [1, %d]", name, numFilters, MaxFilters)
	}

	a := &Attenuator{
		prefix: prefix,
		name:   name,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.Readback = f.NewSignal(prefix+":R_CUR", signal.WithName(name+"_readback"))
	a.Setpoint = f.NewSignal(prefix+":R_DES", signal.WithName(name+"_setpoint"))
	a.Done = f.NewSignal(prefix+":STATUS", signal.WithName(name+"_done"))
	a.CalcPend = f.NewSignal(prefix+":CALCP", signal.WithName(name+"_calcpend"))

	a.filters = make([]*Filter, 0, numFilters)
	for i := 1; i <= numFilters; i++ {
		a.filters = append(a.filters, newFilter(f, prefix, name, i))
	}

	a.log.Debug().
		Str("prefix", prefix).
		Str("name", name).
		Int("filters", numFilters).
		Msg("attenuator built")

	return a, nil
}

// Name returns the device name.
func (a *Attenuator) Name() string {
	return a.name
}

// Prefix returns the PV prefix.
func (a *Attenuator) Prefix() string {
	return a.prefix
}

// Filters returns the filters in blade order.
func (a *Attenuator) Filters() []*Filter {
	out := make([]*Filter, len(a.filters))
	copy(out, a.filters)
	return out
}

// Filter returns the filter with the given 1-based blade number.
func (a *Attenuator) Filter(number int) (*Filter, error) {
	if number < 1 || number > len(a.filters) {
		return nil, fmt.Errorf("attenuator %s: no filter %d", a.name, number)
	}
	return a.filters[number-1], nil
}

// Inserted returns the blade numbers of every filter currently IN.
func (a *Attenuator) Inserted() ([]int, error) {
	var in []int
	for _, filt := range a.filters {
		ok, err := filt.IsInserted()
		if err != nil {
			return nil, err
		}
		if ok {
			in = append(in, filt.Number)
		}
	}
	return in, nil
}

// FilterSnapshot is a point-in-time reading of one filter.
type FilterSnapshot struct {
	Number    int
	State     string
	Thickness float64
}

// Snapshot reads every filter's state and thickness.
func (a *Attenuator) Snapshot() ([]FilterSnapshot, error) {
	out := make([]FilterSnapshot, 0, len(a.filters))
	for _, filt := range a.filters {
		state, err := filt.StateString()
		if err != nil {
			return nil, err
		}
		thick, err := filt.ThicknessValue()
		if err != nil {
			return nil, err
		}
		out = append(out, FilterSnapshot{
			Number:    filt.Number,
			State:     state,
			Thickness: thick,
		})
	}
	return out, nil
}
