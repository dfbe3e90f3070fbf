// sim/simulation_test.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"errors"
	"testing"
	"time"
)

// testAircraft doubles its input variable into its output variable each
// tick and records how it was driven.
type testAircraft struct {
	inID  VariableIdentifier
	outID VariableIdentifier

	in     float64
	order  []string
	deltas []time.Duration
	times  []time.Duration
	update func(ctx *UpdateContext)
}

func makeTestAircraft(ic *InitContext) *testAircraft {
	return &testAircraft{
		inID:  ic.GetIdentifier("TEST_IN"),
		outID: ic.InitVariable("TEST_OUT", 1),
	}
}

func (a *testAircraft) Type() string { return "TEST" }

func (a *testAircraft) Read(r *Reader) {
	a.in = r.Float(a.inID)
	a.order = append(a.order, "read")
}

func (a *testAircraft) Update(ctx *UpdateContext) {
	a.order = append(a.order, "update")
	a.deltas = append(a.deltas, ctx.Delta)
	a.times = append(a.times, ctx.SimTime)
	if a.update != nil {
		a.update(ctx)
	}
}

func (a *testAircraft) Write(w *Writer) {
	a.order = append(a.order, "write")
	w.Write(a.outID, 2*a.in)
}

func TestVariables(t *testing.T) {
	v := NewVariables()

	a := v.Register("PAX_A")
	if b := v.Register("PAX_A"); a != b {
		t.Errorf("re-registering returned a different identifier: %d vs %d", a, b)
	}

	v.Set(a, 36)
	if got := v.Get(a); got != 36 {
		t.Errorf("got %f, expected 36", got)
	}

	if _, ok := v.Lookup("NOPE"); ok {
		t.Errorf("Lookup returned ok for an unregistered name")
	}
	if _, err := v.GetByName("NOPE"); !errors.Is(err, ErrUnknownVariable) {
		t.Errorf("GetByName: expected ErrUnknownVariable, got %v", err)
	}
	if err := v.SetByName("NOPE", 1); !errors.Is(err, ErrUnknownVariable) {
		t.Errorf("SetByName: expected ErrUnknownVariable, got %v", err)
	}

	// All returns a copy.
	m := v.All()
	m["PAX_A"] = 0
	if got := v.Get(a); got != 36 {
		t.Errorf("mutating All()'s result changed the store: got %f", got)
	}

	v.SetAll(map[string]float64{"PAX_A": 12, "PAX_B": 6})
	if got, _ := v.GetByName("PAX_A"); got != 12 {
		t.Errorf("SetAll: PAX_A %f, expected 12", got)
	}
	if got, _ := v.GetByName("PAX_B"); got != 6 {
		t.Errorf("SetAll: PAX_B %f, expected 6; should have been registered", got)
	}
}

func TestTickReadUpdateWrite(t *testing.T) {
	tb := NewTestBed(makeTestAircraft)

	// InitVariable seeds the value before the first tick runs.
	if got := tb.ReadByName("TEST_OUT"); got != 1 {
		t.Errorf("TEST_OUT %f before first tick, expected initial 1", got)
	}

	tb.WriteByName("TEST_IN", 21)
	tb.Run()

	if got := tb.ReadByName("TEST_OUT"); got != 42 {
		t.Errorf("TEST_OUT %f, expected 42", got)
	}

	want := []string{"read", "update", "write"}
	if len(tb.Aircraft.order) != len(want) {
		t.Fatalf("got %d phases, expected %d", len(tb.Aircraft.order), len(want))
	}
	for i, ph := range want {
		if tb.Aircraft.order[i] != ph {
			t.Errorf("phase %d: got %s, expected %s", i, tb.Aircraft.order[i], ph)
		}
	}
}

func TestRunForQuanta(t *testing.T) {
	tb := NewTestBed(makeTestAircraft)

	tb.RunFor(2500 * time.Millisecond)
	if n := len(tb.Aircraft.deltas); n != 2 {
		t.Errorf("got %d ticks for 2.5s, expected 2", n)
	}
	for i, d := range tb.Aircraft.deltas {
		if d != time.Second {
			t.Errorf("tick %d: delta %s, expected 1s", i, d)
		}
	}

	// The 500ms remainder is carried over: 500ms + 600ms gives one more
	// tick with 100ms left.
	tb.RunFor(600 * time.Millisecond)
	if n := len(tb.Aircraft.deltas); n != 3 {
		t.Errorf("got %d total ticks, expected 3", n)
	}

	if st := tb.Simulation().SimTime(); st != 3*time.Second {
		t.Errorf("sim time %s, expected 3s", st)
	}

	for i, st := range tb.Aircraft.times {
		if want := time.Duration(i+1) * time.Second; st != want {
			t.Errorf("tick %d: sim time %s, expected %s", i, st, want)
		}
	}
}

func TestSetVariablesAtomic(t *testing.T) {
	tb := NewTestBed(makeTestAircraft)
	s := tb.Simulation()

	tb.WriteByName("TEST_IN", 5)
	err := s.SetVariables(map[string]float64{"TEST_IN": 10, "NOPE": 1})
	if !errors.Is(err, ErrUnknownVariable) {
		t.Errorf("expected ErrUnknownVariable, got %v", err)
	}
	if got := tb.ReadByName("TEST_IN"); got != 5 {
		t.Errorf("TEST_IN %f; a failed SetVariables should write nothing", got)
	}

	if err := s.SetVariables(map[string]float64{"TEST_IN": 10, "TEST_OUT": 3}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if got := tb.ReadByName("TEST_IN"); got != 10 {
		t.Errorf("TEST_IN %f, expected 10", got)
	}
}
