// a320/sounds.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package a320

import (
	"github.com/mmp/jetway/sim"
)

// Variable names of the cabin sound cues the orchestrator drives.
const (
	SoundBoardingVar   = "SOUND_PAX_BOARDING"
	SoundDeboardingVar = "SOUND_PAX_DEBOARDING"
	SoundCompleteVar   = "SOUND_BOARDING_COMPLETE"
	SoundAmbienceVar   = "SOUND_PAX_AMBIENCE"
)

// SoundState is the set of sound cue flags the cabin model exposes to
// the sound pack.
type SoundState struct {
	Boarding   bool
	Deboarding bool
	Complete   bool
	Ambience   bool
}

// BoardingSounds owns the four sound cue flags. The orchestrator derives
// them each tick; they are plain state here and are persisted during the
// write phase.
type BoardingSounds struct {
	boardingID   sim.VariableIdentifier
	deboardingID sim.VariableIdentifier
	completeID   sim.VariableIdentifier
	ambienceID   sim.VariableIdentifier

	state SoundState
}

func NewBoardingSounds(ctx *sim.InitContext) *BoardingSounds {
	return &BoardingSounds{
		boardingID:   ctx.GetIdentifier(SoundBoardingVar),
		deboardingID: ctx.GetIdentifier(SoundDeboardingVar),
		completeID:   ctx.GetIdentifier(SoundCompleteVar),
		ambienceID:   ctx.GetIdentifier(SoundAmbienceVar),
	}
}

func (s *BoardingSounds) SetBoarding(on bool)   { s.state.Boarding = on }
func (s *BoardingSounds) SetDeboarding(on bool) { s.state.Deboarding = on }
func (s *BoardingSounds) SetComplete(on bool)   { s.state.Complete = on }
func (s *BoardingSounds) SetAmbience(on bool)   { s.state.Ambience = on }

// StopBoardingSounds clears the three transient cues but leaves cabin
// ambience alone; it runs on idle ticks, where ambience still tracks
// whether anyone is aboard.
func (s *BoardingSounds) StopBoardingSounds() {
	s.state.Boarding = false
	s.state.Deboarding = false
	s.state.Complete = false
}

// StopAll silences everything, ambience included; the ground service
// path uses it since the external system owns all cabin cues then.
func (s *BoardingSounds) StopAll() {
	s.state = SoundState{}
}

func (s *BoardingSounds) State() SoundState { return s.state }

func (s *BoardingSounds) Write(w *sim.Writer) {
	w.WriteBool(s.boardingID, s.state.Boarding)
	w.WriteBool(s.deboardingID, s.state.Deboarding)
	w.WriteBool(s.completeID, s.state.Complete)
	w.WriteBool(s.ambienceID, s.state.Ambience)
}
