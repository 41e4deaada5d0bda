package attenuator

import (
	"fmt"

	"go.dot.industries/beamsim/internal/signal"
)

// Filter is a single attenuator blade.
type Filter struct {
	Number int

	State     signal.Signal
	Thickness signal.Signal
}

func newFilter(f signal.Factory, prefix, attName string, number int) *Filter {
	base := fmt.Sprintf("%s:%02d", prefix, number)
	name := fmt.Sprintf("%s_filter%d", attName, number)

	return &Filter{
		Number: number,
		State: f.NewSignal(base+":STATE",
			signal.WithWritePV(base+":GO"),
			signal.WithName(name+"_state"),
			signal.WithEnumStrs(stateEnums...),
		),
		Thickness: f.NewSignal(base+":THICK", signal.WithName(name+"_thickness")),
	}
}

// Insert requests the filter move IN.
func (f *Filter) Insert() error {
	if err := f.State.Put(StateIn); err != nil {
		return fmt.Errorf("insert filter %d: %w", f.Number, err)
	}
	return nil
}

// Remove requests the filter move OUT.
func (f *Filter) Remove() error {
	if err := f.State.Put(StateOut); err != nil {
		return fmt.Errorf("remove filter %d: %w", f.Number, err)
	}
	return nil
}

// StateString reads the filter state as its enum string.
func (f *Filter) StateString() (string, error) {
	v, err := f.State.Get(signal.AsString(true))
	if err != nil {
		return "", fmt.Errorf("read filter %d state: %w", f.Number, err)
	}
	if v == nil {
		return StateUnknown, nil
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprint(v), nil
	}
	return s, nil
}

// IsInserted reports whether the filter reads IN.
func (f *Filter) IsInserted() (bool, error) {
	s, err := f.StateString()
	if err != nil {
		return false, err
	}
	return s == StateIn, nil
}

// IsRemoved reports whether the filter reads OUT.
func (f *Filter) IsRemoved() (bool, error) {
	s, err := f.StateString()
	if err != nil {
		return false, err
	}
	return s == StateOut, nil
}

// ThicknessValue reads the filter thickness as a float. An unset thickness
// reads as zero.
func (f *Filter) ThicknessValue() (float64, error) {
	v, err := f.Thickness.Get()
	if err != nil {
		return 0, fmt.Errorf("read filter %d thickness: %w", f.Number, err)
	}
	if v == nil {
		return 0, nil
	}

	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("read filter %d thickness: unexpected %T", f.Number, v)
	}
}
