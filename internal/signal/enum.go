package signal

import (
	"fmt"
	"slices"
	"strconv"
	"sync"
)

// EnumSignal is a simulated EPICS PV that understands enum strings. Puts of
// a known enum string store the string's index, and gets can render the
// stored index back as its string.
type EnumSignal struct {
	*FakeSignal

	enumMu   sync.RWMutex
	enums    []string
	asString bool
}

// NewEnumSignal creates a simulated PV for the given readback PV.
func NewEnumSignal(read string, opts ...Option) *EnumSignal {
	c := newConfig(read, opts)

	s := &EnumSignal{
		FakeSignal: newFakeSignal(c),
		asString:   c.asString,
	}
	if c.enums != nil {
		s.enums = slices.Clone(c.enums)
	}

	return s
}

// EnumStrs returns a copy of the enum table, or nil if the PV is not
// enumerated.
func (s *EnumSignal) EnumStrs() []string {
	s.enumMu.RLock()
	defer s.enumMu.RUnlock()

	if s.enums == nil {
		return nil
	}
	return slices.Clone(s.enums)
}

// SimSetEnumStrs replaces the enum table. Enum i maps to stored index i.
// Passing nil makes the PV non-enumerated again.
func (s *EnumSignal) SimSetEnumStrs(enums []string) {
	s.enumMu.Lock()
	defer s.enumMu.Unlock()

	if enums == nil {
		s.enums = nil
		return
	}
	s.enums = slices.Clone(enums)
}

// Get returns the stored value. When rendering as a string (the construction
// default, or the AsString option) an enumerated PV returns the enum string
// for an integer index and the printed form of anything else.
func (s *EnumSignal) Get(opts ...GetOption) (any, error) {
	o := collectGetOptions(opts)

	asString := s.asString
	if o.asString != nil {
		asString = *o.asString
	}

	value := s.load()
	if !asString || value == nil {
		return value, nil
	}

	enums := s.EnumStrs()
	if enums == nil {
		return value, nil
	}

	if idx, ok := toIndex(value); ok {
		if idx >= 0 && idx < len(enums) {
			return enums[idx], nil
		}
		return strconv.Itoa(idx), nil
	}

	return fmt.Sprint(value), nil
}

// Put stores value, translating known enum strings to their index first.
// Unknown strings are stored as given.
func (s *EnumSignal) Put(value any) error {
	if str, ok := value.(string); ok {
		if idx := slices.Index(s.EnumStrs(), str); idx >= 0 {
			value = idx
		}
	}

	if err := s.CheckValue(value); err != nil {
		return err
	}

	s.store(value)
	return nil
}

// CheckValue applies the base checks and then refuses nil, which can never
// be written to an EPICS PV.
func (s *EnumSignal) CheckValue(value any) error {
	if err := s.FakeSignal.CheckValue(value); err != nil {
		return err
	}

	if value == nil {
		return fmt.Errorf("%s: cannot write nil to epics PVs: %w", s.Name(), ErrInvalidValue)
	}

	return nil
}
