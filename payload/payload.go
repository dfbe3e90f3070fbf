// payload/payload.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package payload provides the building blocks for aircraft boarding and
// cargo loading: stations with current values, targets, and
// externally-persisted copies, plus the rates that gate how quickly they
// move.
package payload

import (
	"strings"
	"time"
)

// DesiredSuffix is appended to a station's variable name to form the
// variable that carries its target value.
const DesiredSuffix = "_DESIRED"

///////////////////////////////////////////////////////////////////////////
// BoardingRate

type BoardingRate int

const (
	Instant BoardingRate = iota
	Fast
	Real
)

func (r BoardingRate) String() string {
	return []string{"instant", "fast", "real"}[r]
}

// StepDelay returns how much simulated time must accumulate before
// stations advance one boarding step at this rate.
func (r BoardingRate) StepDelay() time.Duration {
	switch r {
	case Fast:
		return 1000 * time.Millisecond
	case Real:
		return 5000 * time.Millisecond
	default:
		return 0
	}
}

// Value returns the encoding used in the boarding rate variable.
func (r BoardingRate) Value() float64 {
	return float64(r)
}

// BoardingRateFromValue decodes the boarding rate variable; unrecognized
// values fall back to Instant.
func BoardingRateFromValue(v float64) BoardingRate {
	switch v {
	case 1:
		return Fast
	case 2:
		return Real
	default:
		return Instant
	}
}

// ParseBoardingRate parses the rate names used in scenario files and the
// HTTP API.
func ParseBoardingRate(s string) (BoardingRate, bool) {
	switch strings.ToLower(s) {
	case "instant":
		return Instant, true
	case "fast":
		return Fast, true
	case "real":
		return Real, true
	default:
		return Instant, false
	}
}

///////////////////////////////////////////////////////////////////////////
// MassCell

// MassReader provides read access to a mass owned by another component.
type MassReader interface {
	Mass() Mass
}

// MassCell is a mutable mass shared between components: the owner
// mutates it through Set and collaborators hold it as a MassReader. The
// boarding orchestrator owns the per-passenger weight cell; each
// passenger zone reads it when computing its payload.
type MassCell struct {
	m Mass
}

func NewMassCell(m Mass) *MassCell { return &MassCell{m: m} }

func (c *MassCell) Mass() Mass { return c.m }

func (c *MassCell) Set(m Mass) { c.m = m }

///////////////////////////////////////////////////////////////////////////
// Station

// Station is a passenger zone or cargo hold as seen by the boarding
// orchestrator: something with a current value, a target, and an
// externally-persisted copy that outside tools may edit between ticks.
type Station interface {
	// Name returns the name of the variable that persists the station's
	// current value.
	Name() string

	// AtTarget reports whether the station's current value has reached
	// its target.
	AtTarget() bool

	// IsSynced reports whether the externally-persisted value matches
	// the station's internal current value.
	IsSynced() bool

	// ForceSync overwrites the station's internal current value with the
	// externally-persisted one, absorbing an out-of-band edit.
	ForceSync()

	// MoveOne advances the current value one boarding step toward the
	// target.
	MoveOne()

	// MoveAll drives the current value all the way to the target.
	MoveAll()
}

// PaxInfo describes a passenger zone: its seating capacity, the variable
// that persists its occupant count, and the payload request variable the
// weight-and-balance model watches.
type PaxInfo struct {
	MaxPax    int
	ID        string
	PayloadID string
}

func NewPaxInfo(maxPax int, id, payloadID string) PaxInfo {
	return PaxInfo{MaxPax: maxPax, ID: id, PayloadID: payloadID}
}

// CargoInfo describes a cargo hold.
type CargoInfo struct {
	MaxCargo  Mass
	ID        string
	PayloadID string
}

func NewCargoInfo(maxCargo Mass, id, payloadID string) CargoInfo {
	return CargoInfo{MaxCargo: maxCargo, ID: id, PayloadID: payloadID}
}
