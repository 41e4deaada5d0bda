package signal

import (
	"fmt"
	"math"
	"sync"
)

// FakeSignal is an in-memory signal. It stores whatever it is given and
// notifies subscribers on every write.
type FakeSignal struct {
	name    string
	readPV  string
	writePV string

	mu     sync.RWMutex
	value  any
	limits *limits

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(any)
}

type limits struct {
	low, high float64
}

// NewFakeSignal creates a FakeSignal for the given readback PV.
func NewFakeSignal(read string, opts ...Option) *FakeSignal {
	c := newConfig(read, opts)
	return newFakeSignal(c)
}

func newFakeSignal(c config) *FakeSignal {
	return &FakeSignal{
		name:    c.name,
		readPV:  c.read,
		writePV: c.writePV,
		value:   c.initial,
		subs:    make(map[int]func(any)),
	}
}

// Name returns the signal's display name.
func (s *FakeSignal) Name() string {
	return s.name
}

// PV returns the readback PV.
func (s *FakeSignal) PV() string {
	return s.readPV
}

// WritePV returns the setpoint PV.
func (s *FakeSignal) WritePV() string {
	return s.writePV
}

// Get returns the stored value unchanged.
func (s *FakeSignal) Get(_ ...GetOption) (any, error) {
	return s.load(), nil
}

// Put validates value with CheckValue and stores it.
func (s *FakeSignal) Put(value any) error {
	if err := s.CheckValue(value); err != nil {
		return err
	}
	s.store(value)
	return nil
}

// SimPut stores value without any validation, as a readback update would.
func (s *FakeSignal) SimPut(value any) {
	s.store(value)
}

// SetLimits bounds the numeric values accepted by Put.
func (s *FakeSignal) SetLimits(low, high float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.limits = &limits{low: low, high: high}
}

// ClearLimits removes any configured limits.
func (s *FakeSignal) ClearLimits() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.limits = nil
}

// CheckValue rejects numeric values outside the configured limits. Any other
// value is accepted.
func (s *FakeSignal) CheckValue(value any) error {
	s.mu.RLock()
	lim := s.limits
	s.mu.RUnlock()

	if lim == nil || lim.low == lim.high {
		return nil
	}

	f, ok := toFloat(value)
	if !ok {
		return nil
	}

	if f < lim.low || f > lim.high {
		return fmt.Errorf("%s: %v outside limits [%v, %v]: %w", s.name, value, lim.low, lim.high, ErrInvalidValue)
	}

	return nil
}

// Subscribe registers fn to run after every write. The returned function
// removes the subscription.
func (s *FakeSignal) Subscribe(fn func(value any)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *FakeSignal) load() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.value
}

func (s *FakeSignal) store(value any) {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()

	s.notify(value)
}

// notify runs subscribers outside of the value lock so callbacks may read
// the signal again.
func (s *FakeSignal) notify(value any) {
	s.subMu.Lock()
	fns := make([]func(any), 0, len(s.subs))
	for i := 0; i < s.nextID; i++ {
		if fn, ok := s.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(value)
	}
}

// toFloat converts any Go numeric value to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		if i, ok := toIndex(v); ok {
			return float64(i), true
		}
		return 0, false
	}
}

// toIndex converts any Go integer value to int. Values that do not fit in an
// int are reported as not an index.
func toIndex(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		if n < math.MinInt || n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		if uint64(n) > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
