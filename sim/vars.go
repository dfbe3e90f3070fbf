// sim/vars.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"sync"

	"github.com/mmp/jetway/util"
)

// VariableIdentifier is an opaque handle to a named variable; elements
// resolve names to identifiers once at initialization and then use the
// identifier for all per-tick reads and writes.
type VariableIdentifier int

// Variables is the store that holds the externally-visible simulation
// state: every named variable that the aircraft model reads or writes, as
// well as any that external tools (scenario files, the HTTP API) have
// created. All values are float64; Booleans are stored as 0/1 and counts
// as whole numbers, matching how simulator variable stores represent
// them.
type Variables struct {
	mu     sync.Mutex
	ids    map[string]VariableIdentifier
	names  []string // indexed by VariableIdentifier
	values []float64
}

func NewVariables() *Variables {
	return &Variables{ids: make(map[string]VariableIdentifier)}
}

// Register returns the identifier for the named variable, creating it
// with value zero if it does not yet exist. Registering the same name
// repeatedly returns the same identifier.
func (v *Variables) Register(name string) VariableIdentifier {
	v.mu.Lock()
	defer v.mu.Unlock()

	if id, ok := v.ids[name]; ok {
		return id
	}

	id := VariableIdentifier(len(v.names))
	v.ids[name] = id
	v.names = append(v.names, name)
	v.values = append(v.values, 0)
	return id
}

// Lookup returns the identifier for the named variable, if it has been
// registered.
func (v *Variables) Lookup(name string) (VariableIdentifier, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	id, ok := v.ids[name]
	return id, ok
}

// Contains reports whether the named variable has been registered.
func (v *Variables) Contains(name string) bool {
	_, ok := v.Lookup(name)
	return ok
}

func (v *Variables) Get(id VariableIdentifier) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.values[id]
}

func (v *Variables) Set(id VariableIdentifier, value float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.values[id] = value
}

// GetByName returns the value of the named variable; it is how external
// interfaces read state without holding identifiers.
func (v *Variables) GetByName(name string) (float64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	id, ok := v.ids[name]
	if !ok {
		return 0, fmt.Errorf("%s: %w", name, ErrUnknownVariable)
	}
	return v.values[id], nil
}

// SetByName sets the value of the named variable, which must have been
// registered previously; writes to unknown names are an error so that
// misspellings in scenario files and API requests are caught rather than
// silently creating orphan variables.
func (v *Variables) SetByName(name string, value float64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	id, ok := v.ids[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownVariable)
	}
	v.values[id] = value
	return nil
}

// All returns a copy of the store as a name to value map.
func (v *Variables) All() map[string]float64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	m := make(map[string]float64, len(v.names))
	for name, id := range v.ids {
		m[name] = v.values[id]
	}
	return m
}

// SetAll writes all of the given values, registering any names that are
// not yet known; it is used when restoring saved state.
func (v *Variables) SetAll(values map[string]float64) {
	for _, name := range util.SortedMapKeys(values) {
		id := v.Register(name)
		v.Set(id, values[name])
	}
}

// Names returns the registered variable names in registration order.
func (v *Variables) Names() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return append([]string(nil), v.names...)
}

///////////////////////////////////////////////////////////////////////////
// Reader / Writer

// Reader provides elements read access to the variable store during the
// read phase of a tick.
type Reader struct {
	vars *Variables
}

func (r *Reader) Float(id VariableIdentifier) float64 {
	return r.vars.Get(id)
}

func (r *Reader) Int(id VariableIdentifier) int {
	return int(r.vars.Get(id))
}

func (r *Reader) Bool(id VariableIdentifier) bool {
	return r.vars.Get(id) != 0
}

// Writer provides elements write access to the variable store during the
// write phase of a tick.
type Writer struct {
	vars *Variables
}

func (w *Writer) Write(id VariableIdentifier, value float64) {
	w.vars.Set(id, value)
}

func (w *Writer) WriteInt(id VariableIdentifier, value int) {
	w.vars.Set(id, float64(value))
}

func (w *Writer) WriteBool(id VariableIdentifier, value bool) {
	w.vars.Set(id, util.Select(value, 1.0, 0.0))
}
