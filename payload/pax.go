// payload/pax.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package payload

import (
	"github.com/mmp/jetway/sim"
	"github.com/mmp/jetway/util"
)

// Pax is a passenger zone. It tracks an internal occupant count that the
// orchestrator moves toward the zone's target and reconciles against the
// externally-persisted count, which flight planning tools may overwrite
// between ticks.
type Pax struct {
	info PaxInfo

	numID     sim.VariableIdentifier
	targetID  sim.VariableIdentifier
	payloadID sim.VariableIdentifier

	perPaxWeight MassReader

	num           int
	target        int
	authoritative int
	dirty         bool
}

func NewPax(ctx *sim.InitContext, info PaxInfo, perPaxWeight MassReader) *Pax {
	return &Pax{
		info:         info,
		numID:        ctx.GetIdentifier(info.ID),
		targetID:     ctx.GetIdentifier(info.ID + DesiredSuffix),
		payloadID:    ctx.GetIdentifier(info.PayloadID),
		perPaxWeight: perPaxWeight,
	}
}

// Read caches the externally-persisted occupant count and the target.
// Both are clamped to [0, capacity] so that an out-of-range external
// edit can never leave the zone in an unreachable state.
func (p *Pax) Read(r *sim.Reader) {
	p.authoritative = util.Clamp(r.Int(p.numID), 0, p.info.MaxPax)
	p.target = util.Clamp(r.Int(p.targetID), 0, p.info.MaxPax)
}

func (p *Pax) Name() string { return p.info.ID }

// Num returns the occupant count the orchestrator is tracking.
func (p *Pax) Num() int { return p.num }

func (p *Pax) TargetNum() int { return p.target }

// Payload returns the total mass of the occupants on board.
func (p *Pax) Payload() Mass {
	return p.perPaxWeight.Mass().Times(float64(p.num))
}

func (p *Pax) AtTarget() bool { return p.num == p.target }

func (p *Pax) IsSynced() bool { return p.num == p.authoritative }

func (p *Pax) ForceSync() { p.num = p.authoritative }

func (p *Pax) MoveOne() {
	if p.num < p.target {
		p.num++
		p.dirty = true
	} else if p.num > p.target {
		p.num--
		p.dirty = true
	}
}

func (p *Pax) MoveAll() {
	if p.num != p.target {
		p.num = p.target
		p.dirty = true
	}
}

// Write persists the occupant count if this tick moved it and always
// refreshes the payload request for the weight-and-balance model. Ticks
// that move nothing leave the count variable alone so that manual writes
// made under developer override survive.
func (p *Pax) Write(w *sim.Writer) {
	if p.dirty {
		w.WriteInt(p.numID, p.num)
		p.authoritative = p.num
		p.dirty = false
	}
	w.Write(p.payloadID, p.Payload().Pounds())
}
