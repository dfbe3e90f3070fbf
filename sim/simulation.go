// sim/simulation.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mmp/jetway/log"
	"github.com/mmp/jetway/util"
)

// Simulation owns an aircraft model and the variable store and advances
// them in discrete ticks. External interfaces (the HTTP API, scenario
// application, state save and restore) go through Simulation methods,
// which serialize with the tick loop so that edits always land between
// ticks and are absorbed by the model's next synchronization pass.
type Simulation struct {
	mu util.LoggingMutex

	vars     *Variables
	aircraft Aircraft
	events   *EventStream

	simTime  time.Duration
	timeSlop time.Duration

	lg *log.Logger
}

// New creates a Simulation around the aircraft returned by makeAircraft,
// which is called with an InitContext for registering the variables the
// model uses.
func New(makeAircraft func(*InitContext) Aircraft, lg *log.Logger) *Simulation {
	s := &Simulation{
		vars:   NewVariables(),
		events: NewEventStream(lg),
		lg:     lg,
	}
	s.aircraft = makeAircraft(&InitContext{vars: s.vars, events: s.events})
	return s
}

func (s *Simulation) Events() *EventStream { return s.events }

// Tick advances the simulation by exactly delta of simulated time,
// running one read/update/write cycle of the aircraft model.
func (s *Simulation) Tick(delta time.Duration) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	s.tick(delta)
}

func (s *Simulation) tick(delta time.Duration) {
	startTick := time.Now()
	defer func() {
		if d := time.Since(startTick); d > 100*time.Millisecond && !util.DebuggerIsRunning() {
			s.lg.Warn("unexpectedly long Simulation tick", slog.Duration("duration", d),
				slog.Duration("delta", delta), slog.Duration("sim_time", s.simTime))
		}
	}()

	s.simTime += delta
	ctx := &UpdateContext{Delta: delta, SimTime: s.simTime}

	// All variables are read before the model updates and written back
	// after it has finished, so the model sees a consistent snapshot of
	// the store for the whole tick.
	s.aircraft.Read(&Reader{vars: s.vars})
	s.aircraft.Update(ctx)
	s.aircraft.Write(&Writer{vars: s.vars})
}

// RunFor advances the simulation by d of simulated time, stepping in one
// second ticks; a remainder shorter than one tick is carried over and
// credited to the next RunFor call.
func (s *Simulation) RunFor(d time.Duration) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	d += s.timeSlop
	ns := int(d.Truncate(time.Second).Seconds())
	for i := 0; i < ns; i++ {
		s.tick(1 * time.Second)
	}
	s.timeSlop = d - d.Truncate(time.Second)
}

// SimTime returns the total simulated time advanced so far.
func (s *Simulation) SimTime() time.Duration {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	return s.simTime
}

// ContainsVariable reports whether the named variable exists.
func (s *Simulation) ContainsVariable(name string) bool {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	return s.vars.Contains(name)
}

// Variable returns the current value of the named variable.
func (s *Simulation) Variable(name string) (float64, error) {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	return s.vars.GetByName(name)
}

// SetVariable sets the named variable; the write lands between ticks and
// is picked up by the model at its next read phase.
func (s *Simulation) SetVariable(name string, value float64) error {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	return s.vars.SetByName(name, value)
}

// SetVariables applies all of the given writes in a single critical
// section so that a multi-variable edit is never interleaved with a tick.
// All names are validated before anything is written.
func (s *Simulation) SetVariables(values map[string]float64) error {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	for name := range values {
		if !s.vars.Contains(name) {
			return fmt.Errorf("%s: %w", name, ErrUnknownVariable)
		}
	}
	for name, value := range values {
		if err := s.vars.SetByName(name, value); err != nil {
			return err
		}
	}
	return nil
}

// VariableValues returns a copy of all variables and their current
// values.
func (s *Simulation) VariableValues() map[string]float64 {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	return s.vars.All()
}
