package attenuator

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.dot.industries/beamsim/internal/signal"
)

func TestNew(t *testing.T) {
	att, err := New(signal.Sim, "TST:ATT", 3, "att")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if att.Name() != "att" || att.Prefix() != "TST:ATT" {
		t.Errorf("identity = (%q, %q), want (%q, %q)", att.Name(), att.Prefix(), "att", "TST:ATT")
	}
	if got := len(att.Filters()); got != 3 {
		t.Fatalf("len(Filters()) = %d, want 3", got)
	}

	if att.Readback.PV() != "TST:ATT:R_CUR" {
		t.Errorf("Readback.PV() = %q, want %q", att.Readback.PV(), "TST:ATT:R_CUR")
	}
	if att.CalcPend.Name() != "att_calcpend" {
		t.Errorf("CalcPend.Name() = %q, want %q", att.CalcPend.Name(), "att_calcpend")
	}

	filt, err := att.Filter(2)
	if err != nil {
		t.Fatalf("Filter(2) error = %v", err)
	}
	if filt.State.PV() != "TST:ATT:02:STATE" {
		t.Errorf("State.PV() = %q, want %q", filt.State.PV(), "TST:ATT:02:STATE")
	}
	if filt.Thickness.Name() != "att_filter2_thickness" {
		t.Errorf("Thickness.Name() = %q, want %q", filt.Thickness.Name(), "att_filter2_thickness")
	}
}

func TestNew_FilterCount(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		wantErr bool
	}{
		{name: "zero", count: 0, wantErr: true},
		{name: "one", count: 1},
		{name: "max", count: MaxFilters},
		{name: "over max", count: MaxFilters + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(signal.Sim, "TST:ATT", tt.count, "att")
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%d) error = %v, wantErr %v", tt.count, err, tt.wantErr)
			}
		})
	}
}

func TestNew_NilFactory(t *testing.T) {
	if _, err := New(nil, "TST:ATT", 1, "att"); err == nil {
		t.Fatal("New() expected error for nil factory")
	}
}

func TestFilter_NotFound(t *testing.T) {
	att, _ := New(signal.Sim, "TST:ATT", 2, "att")

	for _, n := range []int{0, 3} {
		if _, err := att.Filter(n); err == nil {
			t.Errorf("Filter(%d) expected error", n)
		}
	}
}

func TestFilter_InsertRemove(t *testing.T) {
	att, _ := New(signal.Sim, "TST:ATT", 4, "att")
	filters := att.Filters()

	for _, filt := range filters {
		if err := filt.Remove(); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
	}
	if err := filters[1].Insert(); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := filters[3].Insert(); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	in, err := att.Inserted()
	if err != nil {
		t.Fatalf("Inserted() error = %v", err)
	}
	if diff := cmp.Diff([]int{2, 4}, in); diff != "" {
		t.Errorf("Inserted() mismatch (-want +got):\n%s", diff)
	}

	removed, err := filters[0].IsRemoved()
	if err != nil || !removed {
		t.Errorf("IsRemoved() = %v, %v, want true, nil", removed, err)
	}

	raw, _ := filters[1].State.Get()
	if raw != 1 {
		t.Errorf("raw state = %v, want enum index 1", raw)
	}
}

func TestSnapshot(t *testing.T) {
	att, _ := New(signal.Sim, "TST:ATT", 2, "att")
	filters := att.Filters()

	if err := filters[0].Insert(); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := filters[0].Thickness.Put(0.5); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := filters[1].Thickness.Put(3); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := att.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	want := []FilterSnapshot{
		{Number: 1, State: StateIn, Thickness: 0.5},
		{Number: 2, State: StateUnknown, Thickness: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
}

func TestThicknessValue_Unexpected(t *testing.T) {
	att, _ := New(signal.Sim, "TST:ATT", 1, "att")
	filt, _ := att.Filter(1)

	if err := filt.Thickness.Put("thick"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, err := filt.ThicknessValue(); err == nil {
		t.Error("ThicknessValue() expected error for string thickness")
	}
}

func TestUnavailableBackend(t *testing.T) {
	att, err := New(signal.Unavailable, "TST:ATT", 1, "att")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	filt, _ := att.Filter(1)
	if err := filt.Insert(); !errors.Is(err, signal.ErrNotConnected) {
		t.Errorf("Insert() error = %v, want ErrNotConnected", err)
	}
	if _, err := att.Snapshot(); !errors.Is(err, signal.ErrNotConnected) {
		t.Errorf("Snapshot() error = %v, want ErrNotConnected", err)
	}
}
