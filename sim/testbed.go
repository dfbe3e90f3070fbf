// sim/testbed.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"time"

	"github.com/mmp/jetway/util"
)

// TestBed wraps a Simulation around a single aircraft model for tests:
// variables can be poked and inspected by name between ticks, mimicking
// an external tool editing the store out of band, and time is advanced
// tick by tick. It is exported so that aircraft model packages can write
// their tests against it.
type TestBed[A Aircraft] struct {
	// Aircraft is the model under test, available for white-box checks.
	Aircraft A

	sim *Simulation
}

func NewTestBed[A Aircraft](makeAircraft func(*InitContext) A) *TestBed[A] {
	tb := &TestBed[A]{}
	tb.sim = New(func(ic *InitContext) Aircraft {
		tb.Aircraft = makeAircraft(ic)
		return tb.Aircraft
	}, nil)
	return tb
}

func (tb *TestBed[A]) Simulation() *Simulation { return tb.sim }

// Run advances the simulation by a single one second tick.
func (tb *TestBed[A]) Run() {
	tb.sim.Tick(1 * time.Second)
}

// RunWithDelta advances the simulation by a single tick covering d of
// simulated time.
func (tb *TestBed[A]) RunWithDelta(d time.Duration) {
	tb.sim.Tick(d)
}

// RunFor advances the simulation by d of simulated time in one second
// ticks.
func (tb *TestBed[A]) RunFor(d time.Duration) {
	tb.sim.RunFor(d)
}

// WriteByName sets the named variable, registering it first if necessary.
func (tb *TestBed[A]) WriteByName(name string, value float64) {
	id := tb.sim.vars.Register(name)
	tb.sim.vars.Set(id, value)
}

func (tb *TestBed[A]) WriteBoolByName(name string, value bool) {
	tb.WriteByName(name, util.Select(value, 1.0, 0.0))
}

// ReadByName returns the value of the named variable; unlike the
// Simulation accessors it panics on unknown names since that is always a
// test bug.
func (tb *TestBed[A]) ReadByName(name string) float64 {
	v, err := tb.sim.vars.GetByName(name)
	if err != nil {
		panic(fmt.Sprintf("TestBed.ReadByName: %v", err))
	}
	return v
}

func (tb *TestBed[A]) ReadBoolByName(name string) bool {
	return tb.ReadByName(name) != 0
}

// ContainsVariable reports whether the named variable has been
// registered.
func (tb *TestBed[A]) ContainsVariable(name string) bool {
	return tb.sim.vars.Contains(name)
}
