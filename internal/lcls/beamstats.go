package lcls

import (
	"fmt"
	"sync"

	"go.dot.industries/beamsim/internal/signal"
)

const defaultBufferSize = 120

// BeamStats tracks gas detector pulse energy and a rolling average of it.
type BeamStats struct {
	name string

	MJ           signal.Signal
	MJBufferSize *signal.FakeSignal
	MJAvg        *signal.FakeSignal

	mu     sync.Mutex
	size   int
	values []float64
}

// NewBeamStats builds a BeamStats device. The average and buffer size are
// computed locally from MJ updates and always live in memory.
func NewBeamStats(f signal.Factory, name string) *BeamStats {
	if name == "" {
		name = "beam_stats"
	}

	b := &BeamStats{
		name: name,
		MJ:   f.NewSignal("GDET:FEE1:241:ENRC", signal.WithName(name+"_mj")),
		MJBufferSize: signal.NewFakeSignal(name+"_mj_buffersize",
			signal.WithInitialValue(defaultBufferSize),
		),
		MJAvg: signal.NewFakeSignal(name+"_mj_avg"),
		size:  defaultBufferSize,
	}

	b.MJ.Subscribe(b.addValue)
	b.MJBufferSize.Subscribe(b.resize)

	return b
}

// Name returns the device name.
func (b *BeamStats) Name() string {
	return b.name
}

// addValue appends an MJ update to the rolling buffer and republishes the
// average. Non-numeric updates are ignored.
func (b *BeamStats) addValue(v any) {
	f, ok := asFloat(v)
	if !ok {
		return
	}

	b.mu.Lock()
	b.values = append(b.values, f)
	b.trim()
	avg := b.mean()
	b.mu.Unlock()

	b.MJAvg.SimPut(avg)
}

// resize changes the buffer length, keeping the newest values.
func (b *BeamStats) resize(v any) {
	n, ok := v.(int)
	if !ok || n < 1 {
		return
	}

	b.mu.Lock()
	b.size = n
	b.trim()
	avg := b.mean()
	empty := len(b.values) == 0
	b.mu.Unlock()

	if !empty {
		b.MJAvg.SimPut(avg)
	}
}

func (b *BeamStats) trim() {
	if extra := len(b.values) - b.size; extra > 0 {
		b.values = append([]float64(nil), b.values[extra:]...)
	}
}

func (b *BeamStats) mean() float64 {
	if len(b.values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range b.values {
		sum += v
	}
	return sum / float64(len(b.values))
}

// Configure applies configuration values. Only mj_buffersize is recognised.
func (b *BeamStats) Configure(cfg map[string]any) error {
	for key, val := range cfg {
		switch key {
		case "mj_buffersize":
			n, ok := val.(int)
			if !ok || n < 1 {
				return fmt.Errorf("configure %s: mj_buffersize must be a positive int, got %v", b.name, val)
			}
			if err := b.MJBufferSize.Put(n); err != nil {
				return fmt.Errorf("configure %s: %w", b.name, err)
			}
		default:
			return fmt.Errorf("configure %s: unknown key %q", b.name, key)
		}
	}
	return nil
}

// Read returns the pulse energy and its average.
func (b *BeamStats) Read() (map[string]Reading, error) {
	return readAll(b.MJ, b.MJAvg)
}

// ReadConfiguration returns the configuration signals.
func (b *BeamStats) ReadConfiguration() (map[string]Reading, error) {
	return readAll(b.MJBufferSize)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
