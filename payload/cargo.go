// payload/cargo.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package payload

import (
	"github.com/mmp/jetway/sim"
	"github.com/mmp/jetway/util"
)

// CargoStep is how much cargo moves in one boarding step.
const CargoStep = Mass(60)

// Cargo is a cargo hold. Loads are in kilograms; the hold's payload
// request variable is written in pounds like the passenger ones.
type Cargo struct {
	info CargoInfo

	loadID    sim.VariableIdentifier
	targetID  sim.VariableIdentifier
	payloadID sim.VariableIdentifier

	load          Mass
	target        Mass
	authoritative Mass
	dirty         bool
}

func NewCargo(ctx *sim.InitContext, info CargoInfo) *Cargo {
	return &Cargo{
		info:      info,
		loadID:    ctx.GetIdentifier(info.ID),
		targetID:  ctx.GetIdentifier(info.ID + DesiredSuffix),
		payloadID: ctx.GetIdentifier(info.PayloadID),
	}
}

// Read caches the externally-persisted load and the target, clamped to
// [0, max load].
func (c *Cargo) Read(r *sim.Reader) {
	c.authoritative = util.Clamp(Mass(r.Float(c.loadID)), 0, c.info.MaxCargo)
	c.target = util.Clamp(Mass(r.Float(c.targetID)), 0, c.info.MaxCargo)
}

func (c *Cargo) Name() string { return c.info.ID }

// Load returns the hold load the orchestrator is tracking.
func (c *Cargo) Load() Mass { return c.load }

func (c *Cargo) TargetLoad() Mass { return c.target }

func (c *Cargo) AtTarget() bool { return c.load == c.target }

func (c *Cargo) IsSynced() bool { return c.load == c.authoritative }

func (c *Cargo) ForceSync() { c.load = c.authoritative }

// MoveOne moves one step of cargo toward the target, stopping exactly on
// it rather than overshooting.
func (c *Cargo) MoveOne() {
	switch {
	case c.load < c.target:
		c.load = min(c.load+CargoStep, c.target)
		c.dirty = true
	case c.load > c.target:
		c.load = max(c.load-CargoStep, c.target)
		c.dirty = true
	}
}

func (c *Cargo) MoveAll() {
	if c.load != c.target {
		c.load = c.target
		c.dirty = true
	}
}

func (c *Cargo) Write(w *sim.Writer) {
	if c.dirty {
		w.Write(c.loadID, c.load.Kilograms())
		c.authoritative = c.load
		c.dirty = false
	}
	w.Write(c.payloadID, c.load.Pounds())
}
