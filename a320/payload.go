// a320/payload.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package a320

import (
	"log/slog"
	"strings"
	"time"

	"github.com/mmp/jetway/log"
	"github.com/mmp/jetway/payload"
	"github.com/mmp/jetway/sim"
	"github.com/mmp/jetway/util"
)

// Variable names of the orchestrator's control inputs.
const (
	DeveloperStateVar  = "DEVELOPER_STATE"
	BoardingStartedVar = "BOARDING_STARTED_BY_USR"
	GroundServiceVar   = "GSX_PAYLOAD_SYNC_ENABLED"
	BoardingRateVar    = "BOARDING_RATE"
	PerPaxWeightVar    = "WB_PER_PAX_WEIGHT"
)

// DefaultPerPaxWeight is assumed until the weight-and-balance tool
// provides a per-passenger weight.
const DefaultPerPaxWeight = payload.Mass(84)

///////////////////////////////////////////////////////////////////////////
// Stations

type PaxZone int

const (
	PaxZoneA PaxZone = iota
	PaxZoneB
	PaxZoneC
	PaxZoneD
	NumPaxZones
)

var paxZones = [NumPaxZones]payload.PaxInfo{
	PaxZoneA: payload.NewPaxInfo(36, "PAX_A", "PAYLOAD_STATION_1_REQ"),
	PaxZoneB: payload.NewPaxInfo(42, "PAX_B", "PAYLOAD_STATION_2_REQ"),
	PaxZoneC: payload.NewPaxInfo(48, "PAX_C", "PAYLOAD_STATION_3_REQ"),
	PaxZoneD: payload.NewPaxInfo(48, "PAX_D", "PAYLOAD_STATION_4_REQ"),
}

func (z PaxZone) String() string { return []string{"A", "B", "C", "D"}[z] }

// Capacity returns the zone's seat count.
func (z PaxZone) Capacity() int { return paxZones[z].MaxPax }

// Variable returns the name of the variable that persists the zone's
// occupant count.
func (z PaxZone) Variable() string { return paxZones[z].ID }

func PaxZoneFromName(s string) (PaxZone, bool) {
	for z := PaxZoneA; z < NumPaxZones; z++ {
		if strings.EqualFold(s, z.String()) {
			return z, true
		}
	}
	return 0, false
}

type CargoHold int

const (
	FwdBaggage CargoHold = iota
	AftContainer
	AftBaggage
	AftBulkLoose
	NumCargoHolds
)

var cargoHolds = [NumCargoHolds]payload.CargoInfo{
	FwdBaggage:   payload.NewCargoInfo(3402, "CARGO_FWD_BAGGAGE_CONTAINER", "PAYLOAD_STATION_5_REQ"),
	AftContainer: payload.NewCargoInfo(2426, "CARGO_AFT_CONTAINER", "PAYLOAD_STATION_6_REQ"),
	AftBaggage:   payload.NewCargoInfo(2110, "CARGO_AFT_BAGGAGE", "PAYLOAD_STATION_7_REQ"),
	AftBulkLoose: payload.NewCargoInfo(1497, "CARGO_AFT_BULK_LOOSE", "PAYLOAD_STATION_8_REQ"),
}

func (h CargoHold) String() string {
	return []string{"fwd_baggage", "aft_container", "aft_baggage", "aft_bulk"}[h]
}

// MaxLoad returns the hold's maximum cargo load.
func (h CargoHold) MaxLoad() payload.Mass { return cargoHolds[h].MaxCargo }

// Variable returns the name of the variable that persists the hold's
// load.
func (h CargoHold) Variable() string { return cargoHolds[h].ID }

func CargoHoldFromName(s string) (CargoHold, bool) {
	for h := FwdBaggage; h < NumCargoHolds; h++ {
		if strings.EqualFold(s, h.String()) {
			return h, true
		}
	}
	return 0, false
}

///////////////////////////////////////////////////////////////////////////
// Payload

// Payload orchestrates boarding, deboarding, and cargo loading: each
// tick it reconciles the stations against external edits, moves them
// toward their targets at the configured rate, and derives the cabin
// sound cues from what happened.
type Payload struct {
	developerStateID sim.VariableIdentifier
	boardingID       sim.VariableIdentifier
	groundServiceID  sim.VariableIdentifier
	rateID           sim.VariableIdentifier
	perPaxWeightID   sim.VariableIdentifier

	developerState int
	boarding       bool
	prevBoarding   bool
	groundService  bool
	rate           payload.BoardingRate
	perPaxWeight   *payload.MassCell

	pax      [NumPaxZones]*payload.Pax
	cargo    [NumCargoHolds]*payload.Cargo
	stations []payload.Station

	sounds  *BoardingSounds
	elapsed time.Duration

	events *sim.EventStream
	lg     *log.Logger
}

func NewPayload(ctx *sim.InitContext, lg *log.Logger) *Payload {
	p := &Payload{
		developerStateID: ctx.GetIdentifier(DeveloperStateVar),
		boardingID:       ctx.GetIdentifier(BoardingStartedVar),
		groundServiceID:  ctx.GetIdentifier(GroundServiceVar),
		rateID:           ctx.GetIdentifier(BoardingRateVar),
		perPaxWeightID:   ctx.InitVariable(PerPaxWeightVar, DefaultPerPaxWeight.Kilograms()),
		perPaxWeight:     payload.NewMassCell(DefaultPerPaxWeight),
		sounds:           NewBoardingSounds(ctx),
		events:           ctx.EventStream(),
		lg:               lg,
	}

	for z := PaxZoneA; z < NumPaxZones; z++ {
		p.pax[z] = payload.NewPax(ctx, paxZones[z], p.perPaxWeight)
		p.stations = append(p.stations, p.pax[z])
	}
	for h := FwdBaggage; h < NumCargoHolds; h++ {
		p.cargo[h] = payload.NewCargo(ctx, cargoHolds[h])
		p.stations = append(p.stations, p.cargo[h])
	}

	return p
}

// PaxNum returns the occupant count the orchestrator is tracking for the
// zone.
func (p *Payload) PaxNum(z PaxZone) int { return p.pax[z].Num() }

// CargoLoad returns the load the orchestrator is tracking for the hold.
func (p *Payload) CargoLoad(h CargoHold) payload.Mass { return p.cargo[h].Load() }

func (p *Payload) Sounds() SoundState { return p.sounds.State() }

func (p *Payload) IsBoarding() bool { return p.boarding }

func (p *Payload) Rate() payload.BoardingRate { return p.rate }

func (p *Payload) PerPaxWeight() payload.Mass { return p.perPaxWeight.Mass() }

///////////////////////////////////////////////////////////////////////////
// Tick plan

type tickDriver int

const (
	driveAutonomous tickDriver = iota
	driveGroundService
)

// tickPlan says what a tick must do given the control inputs: whether to
// reconcile stations against their externally-persisted values, and
// which driver advances loading.
type tickPlan struct {
	sync   bool
	driver tickDriver
}

// planTick is the mode dispatch for one tick. Developer override
// disables reconciliation only: movement still runs, so loading keeps
// progressing while a developer pokes at station values directly.
func planTick(developerOverride, groundService bool) tickPlan {
	return tickPlan{
		sync:   !developerOverride,
		driver: util.Select(groundService, driveGroundService, driveAutonomous),
	}
}

///////////////////////////////////////////////////////////////////////////
// Tick cycle

func (p *Payload) Read(r *sim.Reader) {
	p.developerState = r.Int(p.developerStateID)
	p.boarding = r.Bool(p.boardingID)
	p.rate = payload.BoardingRateFromValue(r.Float(p.rateID))
	p.groundService = r.Bool(p.groundServiceID)
	p.perPaxWeight.Set(payload.Mass(r.Float(p.perPaxWeightID)))

	for _, pax := range p.pax {
		pax.Read(r)
	}
	for _, cargo := range p.cargo {
		cargo.Read(r)
	}
}

func (p *Payload) Update(ctx *sim.UpdateContext) {
	if p.boarding && !p.prevBoarding {
		p.prevBoarding = true
		p.events.Post(sim.Event{Type: sim.BoardingStartedEvent, Message: p.rate.String()})
	}

	plan := planTick(p.developerState > 0, p.groundService)
	if plan.sync {
		p.syncStations()
	}

	switch plan.driver {
	case driveGroundService:
		p.stopBoarding()
		p.sounds.StopAll()
		p.updateGroundService(ctx)
	case driveAutonomous:
		p.updateAutonomous(ctx)
	}

	// A boarding flag that went false without completing means the stop
	// came from outside: the user toggled it off or ground service took
	// over.
	if !p.boarding && p.prevBoarding {
		p.prevBoarding = false
		p.events.Post(sim.Event{Type: sim.BoardingStoppedEvent})
	}
}

// Write persists the orchestrator's own state: the boarding flag is
// echoed back so external tools see forced stops, and the per-passenger
// weight echo lets them confirm what the loadsheet is using. Stations
// and sounds persist their own variables.
func (p *Payload) Write(w *sim.Writer) {
	w.WriteBool(p.boardingID, p.boarding)
	w.Write(p.perPaxWeightID, p.perPaxWeight.Mass().Kilograms())

	for _, pax := range p.pax {
		pax.Write(w)
	}
	for _, cargo := range p.cargo {
		cargo.Write(w)
	}
	p.sounds.Write(w)
}

///////////////////////////////////////////////////////////////////////////
// Synchronization

// syncStations absorbs out-of-band edits to the station variables before
// any movement is computed, so progress this tick starts from what
// external tools believe is on board.
func (p *Payload) syncStations() {
	for _, st := range p.stations {
		if !st.IsSynced() {
			st.ForceSync()
			p.lg.Debug("station absorbed external edit", slog.String("station", st.Name()))
			p.events.Post(sim.Event{Type: sim.PayloadSyncedEvent, Station: st.Name()})
		}
	}
}

///////////////////////////////////////////////////////////////////////////
// Ground service

// updateGroundService defers loading to the external ground service
// while it owns the turnaround.
// TODO: adopt progress reports once the ground service publishes its
// coupler variables.
func (p *Payload) updateGroundService(ctx *sim.UpdateContext) {
}

///////////////////////////////////////////////////////////////////////////
// Autonomous loading

func (p *Payload) updateAutonomous(ctx *sim.UpdateContext) {
	if !p.boarding {
		p.elapsed = 0
		p.sounds.StopBoardingSounds()
		p.updateAmbience()
		return
	}

	p.elapsed += ctx.Delta
	if p.elapsed > p.rate.StepDelay() {
		p.elapsed = 0
		p.movePax()
		p.moveCargo()
	}

	// Sounds are derived from post-movement state, before the boarding
	// flag can flip below, so that the completion cue overlaps the final
	// active tick.
	p.updateAmbience()
	p.updateBoardingSounds()
	p.updateBoardingStatus()
}

// movePax advances passenger zones in order. At Instant every
// out-of-target zone jumps to its target; at the gated rates only the
// first out-of-target zone moves, one occupant per step.
func (p *Payload) movePax() {
	for _, pax := range p.pax {
		if pax.AtTarget() {
			continue
		}
		if p.rate == payload.Instant {
			pax.MoveAll()
		} else {
			pax.MoveOne()
			break
		}
	}
}

func (p *Payload) moveCargo() {
	for _, cargo := range p.cargo {
		if cargo.AtTarget() {
			continue
		}
		if p.rate == payload.Instant {
			cargo.MoveAll()
		} else {
			cargo.MoveOne()
			break
		}
	}
}

func (p *Payload) updateBoardingSounds() {
	p.sounds.SetBoarding(p.isPaxBoarding())
	p.sounds.SetDeboarding(p.isPaxDeboarding())
	p.sounds.SetComplete(p.isPaxLoaded() && p.boarding)
}

// updateAmbience keeps cabin ambience on whenever anyone is aboard,
// whether or not a boarding is running.
func (p *Payload) updateAmbience() {
	p.sounds.SetAmbience(p.hasAnyPax())
}

func (p *Payload) updateBoardingStatus() {
	if p.isFullyLoaded() && p.boarding {
		p.boarding = false
		p.prevBoarding = false
		p.lg.Info("boarding complete")
		p.events.Post(sim.Event{Type: sim.BoardingCompleteEvent})
	}
}

func (p *Payload) stopBoarding() {
	p.boarding = false
	p.elapsed = 0
}

///////////////////////////////////////////////////////////////////////////
// Predicates

func (p *Payload) isPaxBoarding() bool {
	for _, pax := range p.pax {
		if pax.Num() < pax.TargetNum() && p.boarding {
			return true
		}
	}
	return false
}

func (p *Payload) isPaxDeboarding() bool {
	for _, pax := range p.pax {
		if pax.Num() > pax.TargetNum() && p.boarding {
			return true
		}
	}
	return false
}

func (p *Payload) isPaxLoaded() bool {
	for _, pax := range p.pax {
		if !pax.AtTarget() {
			return false
		}
	}
	return true
}

func (p *Payload) isCargoLoaded() bool {
	for _, cargo := range p.cargo {
		if !cargo.AtTarget() {
			return false
		}
	}
	return true
}

func (p *Payload) isFullyLoaded() bool {
	return p.isPaxLoaded() && p.isCargoLoaded()
}

func (p *Payload) hasAnyPax() bool {
	for _, pax := range p.pax {
		if pax.Num() > 0 {
			return true
		}
	}
	return false
}
