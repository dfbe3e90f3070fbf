// a320/a320.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package a320 models the A320 payload systems: the passenger zones and
// cargo holds, the boarding orchestrator that moves them, and the cabin
// sound cues that loading drives.
package a320

import (
	"github.com/mmp/jetway/log"
	"github.com/mmp/jetway/sim"
)

// A320 is the aircraft model the simulation ticks. Payload is its only
// system for now.
type A320 struct {
	Payload *Payload
}

func New(ctx *sim.InitContext, lg *log.Logger) *A320 {
	return &A320{Payload: NewPayload(ctx, lg)}
}

func (a *A320) Type() string { return "A320" }

func (a *A320) Read(r *sim.Reader) { a.Payload.Read(r) }

func (a *A320) Update(ctx *sim.UpdateContext) { a.Payload.Update(ctx) }

func (a *A320) Write(w *sim.Writer) { a.Payload.Write(w) }
