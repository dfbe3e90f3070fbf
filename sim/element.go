// sim/element.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"time"
)

// InitContext is passed to aircraft models at construction time; it is
// how they register the variables they use and get access to the event
// stream.
type InitContext struct {
	vars   *Variables
	events *EventStream
}

// GetIdentifier registers the named variable and returns its identifier.
func (ic *InitContext) GetIdentifier(name string) VariableIdentifier {
	return ic.vars.Register(name)
}

// InitVariable registers the named variable and gives it an initial
// value; it is for variables that must start at something other than
// zero, like the default per-passenger weight.
func (ic *InitContext) InitVariable(name string, value float64) VariableIdentifier {
	id := ic.vars.Register(name)
	ic.vars.Set(id, value)
	return id
}

func (ic *InitContext) EventStream() *EventStream {
	return ic.events
}

// UpdateContext carries per-tick timing information to element Update
// methods.
type UpdateContext struct {
	// Delta is the amount of simulated time this tick covers.
	Delta time.Duration
	// SimTime is the total simulated time advanced so far, including this
	// tick.
	SimTime time.Duration
}

// Element is anything that participates in the tick cycle. All of an
// aircraft's variables are read before any element updates and written
// back after all elements have updated, so elements observe a consistent
// snapshot of the store regardless of the order they update in.
type Element interface {
	Read(r *Reader)
	Update(ctx *UpdateContext)
	Write(w *Writer)
}

// Aircraft is a complete aircraft model that the simulation drives.
type Aircraft interface {
	Element

	// Type returns a short identifier for the aircraft model, e.g. "A320".
	Type() string
}
