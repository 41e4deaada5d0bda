// Package lcls holds accelerator-side devices that beamline code reads:
// pulse energy statistics and the BYKIK beam kicker.
package lcls

import (
	"fmt"

	"go.dot.industries/beamsim/internal/signal"
)

// Reading is one signal value as returned by Read and ReadConfiguration.
type Reading struct {
	Value any
}

// Kicker enum strings of the BYKIK abort PV.
const (
	KickerDisable = "Disable"
	KickerEnable  = "Enable"
)

// LCLS exposes the BYKIK kicker controls.
type LCLS struct {
	name string

	BykikAbort  signal.Signal
	BykikPeriod signal.Signal
}

// NewLCLS builds the LCLS device from f.
func NewLCLS(f signal.Factory, name string) *LCLS {
	if name == "" {
		name = "lcls"
	}
	return &LCLS{
		name: name,
		BykikAbort: f.NewSignal("IOC:IN20:EV01:BYKIK_ABTACT",
			signal.WithName(name+"_bykik_abort"),
			signal.WithStringDefault(true),
			signal.WithEnumStrs(KickerDisable, KickerEnable),
		),
		BykikPeriod: f.NewSignal("IOC:IN20:EV01:BYKIK_ABTPRD",
			signal.WithName(name+"_bykik_period"),
		),
	}
}

// Name returns the device name.
func (l *LCLS) Name() string {
	return l.name
}

// BykikStatus returns the kicker state string.
func (l *LCLS) BykikStatus() (string, error) {
	v, err := l.BykikAbort.Get(signal.AsString(true))
	if err != nil {
		return "", fmt.Errorf("bykik status: %w", err)
	}
	return fmt.Sprint(v), nil
}

// BykikEnable turns the kicker on.
func (l *LCLS) BykikEnable() error {
	if err := l.BykikAbort.Put(KickerEnable); err != nil {
		return fmt.Errorf("bykik enable: %w", err)
	}
	return nil
}

// BykikDisable turns the kicker off.
func (l *LCLS) BykikDisable() error {
	if err := l.BykikAbort.Put(KickerDisable); err != nil {
		return fmt.Errorf("bykik disable: %w", err)
	}
	return nil
}

// BykikGetPeriod returns the kicker period in beam pulses.
func (l *LCLS) BykikGetPeriod() (int, error) {
	v, err := l.BykikPeriod.Get()
	if err != nil {
		return 0, fmt.Errorf("bykik period: %w", err)
	}
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("bykik period: unexpected %T", v)
	}
	return n, nil
}

// BykikSetPeriod sets the kicker period in beam pulses.
func (l *LCLS) BykikSetPeriod(n int) error {
	if err := l.BykikPeriod.Put(n); err != nil {
		return fmt.Errorf("bykik set period: %w", err)
	}
	return nil
}

// Read returns the current value of every kicker signal.
func (l *LCLS) Read() (map[string]Reading, error) {
	return readAll(l.BykikAbort, l.BykikPeriod)
}

func readAll(sigs ...signal.Signal) (map[string]Reading, error) {
	out := make(map[string]Reading, len(sigs))
	for _, s := range sigs {
		v, err := s.Get()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", s.Name(), err)
		}
		out[s.Name()] = Reading{Value: v}
	}
	return out, nil
}
