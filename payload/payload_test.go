// payload/payload_test.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package payload

import (
	"math"
	"testing"
	"time"

	"github.com/mmp/jetway/sim"
)

func TestBoardingRate(t *testing.T) {
	for _, tc := range []struct {
		rate  BoardingRate
		delay time.Duration
		value float64
		name  string
	}{
		{Instant, 0, 0, "instant"},
		{Fast, time.Second, 1, "fast"},
		{Real, 5 * time.Second, 2, "real"},
	} {
		if d := tc.rate.StepDelay(); d != tc.delay {
			t.Errorf("%s: step delay %s, expected %s", tc.name, d, tc.delay)
		}
		if v := tc.rate.Value(); v != tc.value {
			t.Errorf("%s: value %f, expected %f", tc.name, v, tc.value)
		}
		if s := tc.rate.String(); s != tc.name {
			t.Errorf("String() %q, expected %q", s, tc.name)
		}
		if r := BoardingRateFromValue(tc.value); r != tc.rate {
			t.Errorf("%s: FromValue(%f) gave %s", tc.name, tc.value, r)
		}
		if r, ok := ParseBoardingRate(tc.name); !ok || r != tc.rate {
			t.Errorf("ParseBoardingRate(%q) = %s, %v", tc.name, r, ok)
		}
	}

	// Unrecognized encodings fall back to Instant.
	if r := BoardingRateFromValue(7.5); r != Instant {
		t.Errorf("FromValue(7.5) = %s, expected instant", r)
	}
	if r, ok := ParseBoardingRate("REAL"); !ok || r != Real {
		t.Errorf("ParseBoardingRate is expected to be case-insensitive; got %s, %v", r, ok)
	}
	if _, ok := ParseBoardingRate("warp"); ok {
		t.Errorf("ParseBoardingRate accepted a bogus rate")
	}
}

func TestMass(t *testing.T) {
	near := func(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

	if kg := FromPounds(1000).Kilograms(); !near(kg, 453.59237) {
		t.Errorf("1000lb = %f kg", kg)
	}
	if lb := Mass(1).Pounds(); !near(FromPounds(lb).Kilograms(), 1) {
		t.Errorf("pound conversion doesn't round trip: %f", lb)
	}
	if m := Mass(84).Times(2); m != 168 {
		t.Errorf("84kg x 2 = %s", m)
	}
}

func TestMassCell(t *testing.T) {
	cell := NewMassCell(84)

	var r MassReader = cell
	if r.Mass() != 84 {
		t.Errorf("got %s, expected 84kg", r.Mass())
	}

	cell.Set(104)
	if r.Mass() != 104 {
		t.Errorf("reader did not observe Set: %s", r.Mass())
	}
}

// stationHarness wraps stations in a minimal aircraft so tests can drive
// their mutations between the read and write phases of a tick.
type stationHarness struct {
	pax    *Pax
	cargo  *Cargo
	update func()
}

func (h *stationHarness) Type() string { return "HARNESS" }

func (h *stationHarness) Read(r *sim.Reader) {
	if h.pax != nil {
		h.pax.Read(r)
	}
	if h.cargo != nil {
		h.cargo.Read(r)
	}
}

func (h *stationHarness) Update(ctx *sim.UpdateContext) {
	if h.update != nil {
		h.update()
	}
}

func (h *stationHarness) Write(w *sim.Writer) {
	if h.pax != nil {
		h.pax.Write(w)
	}
	if h.cargo != nil {
		h.cargo.Write(w)
	}
}

func TestPaxStation(t *testing.T) {
	cell := NewMassCell(84)
	tb := sim.NewTestBed(func(ic *sim.InitContext) *stationHarness {
		return &stationHarness{
			pax: NewPax(ic, NewPaxInfo(36, "PAX_A", "PAYLOAD_STATION_1_REQ"), cell),
		}
	})
	pax := tb.Aircraft.pax

	for _, name := range []string{"PAX_A", "PAX_A_DESIRED", "PAYLOAD_STATION_1_REQ"} {
		if !tb.ContainsVariable(name) {
			t.Fatalf("%s was not registered", name)
		}
	}

	// An external edit is visible as out-of-sync but is not adopted
	// until ForceSync.
	tb.WriteByName("PAX_A", 12)
	tb.Run()
	if pax.Num() != 0 {
		t.Errorf("num %d; an external edit must not be adopted without ForceSync", pax.Num())
	}
	if pax.IsSynced() {
		t.Errorf("IsSynced with external 12 vs internal 0")
	}
	if got := tb.ReadByName("PAX_A"); got != 12 {
		t.Errorf("PAX_A %f; a no-movement tick must not write the count back", got)
	}

	tb.Aircraft.update = pax.ForceSync
	tb.Run()
	if pax.Num() != 12 || !pax.IsSynced() {
		t.Errorf("num %d synced %v after ForceSync, expected 12/true", pax.Num(), pax.IsSynced())
	}
	if lb := math.Floor(tb.ReadByName("PAYLOAD_STATION_1_REQ")); lb != 2222 {
		t.Errorf("payload request %f lb, expected 2222", lb)
	}

	// MoveOne walks toward the target one occupant per tick, persisting
	// each step.
	tb.WriteByName("PAX_A_DESIRED", 14)
	tb.Aircraft.update = pax.MoveOne
	tb.Run()
	if pax.Num() != 13 || pax.AtTarget() {
		t.Errorf("num %d atTarget %v, expected 13/false", pax.Num(), pax.AtTarget())
	}
	if got := tb.ReadByName("PAX_A"); got != 13 {
		t.Errorf("PAX_A %f, expected the moved count 13 to be written back", got)
	}
	tb.Run()
	if pax.Num() != 14 || !pax.AtTarget() {
		t.Errorf("num %d atTarget %v, expected 14/true", pax.Num(), pax.AtTarget())
	}
	tb.Run() // at target; nothing to move
	if got := tb.ReadByName("PAX_A"); got != 14 {
		t.Errorf("PAX_A %f, expected 14", got)
	}

	// Deboarding decrements.
	tb.WriteByName("PAX_A_DESIRED", 0)
	tb.Run()
	if pax.Num() != 13 {
		t.Errorf("num %d, expected 13", pax.Num())
	}

	// MoveAll drives straight to the target.
	tb.Aircraft.update = pax.MoveAll
	tb.Run()
	if pax.Num() != 0 {
		t.Errorf("num %d after MoveAll, expected 0", pax.Num())
	}
	if got := tb.ReadByName("PAX_A"); got != 0 {
		t.Errorf("PAX_A %f, expected 0", got)
	}

	// Out-of-range external edits are clamped to the zone's capacity.
	tb.WriteByName("PAX_A", 99)
	tb.WriteByName("PAX_A_DESIRED", -5)
	tb.Aircraft.update = pax.ForceSync
	tb.Run()
	if pax.Num() != 36 {
		t.Errorf("num %d, expected the capacity clamp 36", pax.Num())
	}
	if pax.TargetNum() != 0 {
		t.Errorf("target %d, expected the clamp to 0", pax.TargetNum())
	}
}

func TestCargoStation(t *testing.T) {
	tb := sim.NewTestBed(func(ic *sim.InitContext) *stationHarness {
		return &stationHarness{
			cargo: NewCargo(ic, NewCargoInfo(3402, "CARGO_FWD_BAGGAGE_CONTAINER", "PAYLOAD_STATION_5_REQ")),
		}
	})
	cargo := tb.Aircraft.cargo

	// MoveOne loads in CargoStep increments and lands exactly on the
	// target.
	tb.WriteByName("CARGO_FWD_BAGGAGE_CONTAINER_DESIRED", 150)
	tb.Aircraft.update = cargo.MoveOne
	for i, want := range []Mass{60, 120, 150, 150} {
		tb.Run()
		if cargo.Load() != want {
			t.Errorf("tick %d: load %s, expected %s", i, cargo.Load(), want)
		}
	}
	if got := tb.ReadByName("CARGO_FWD_BAGGAGE_CONTAINER"); got != 150 {
		t.Errorf("CARGO_FWD_BAGGAGE_CONTAINER %f, expected 150", got)
	}
	if lb := math.Floor(tb.ReadByName("PAYLOAD_STATION_5_REQ")); lb != 330 {
		t.Errorf("payload request %f lb, expected 330", lb)
	}

	// Unloading steps down without crossing zero.
	tb.WriteByName("CARGO_FWD_BAGGAGE_CONTAINER_DESIRED", 0)
	for i, want := range []Mass{90, 30, 0} {
		tb.Run()
		if cargo.Load() != want {
			t.Errorf("tick %d: load %s, expected %s", i, cargo.Load(), want)
		}
	}

	// MoveAll loads the full target in one tick.
	tb.WriteByName("CARGO_FWD_BAGGAGE_CONTAINER_DESIRED", 1213)
	tb.Aircraft.update = cargo.MoveAll
	tb.Run()
	if cargo.Load() != 1213 || !cargo.AtTarget() {
		t.Errorf("load %s atTarget %v, expected 1213/true", cargo.Load(), cargo.AtTarget())
	}

	// External edits clamp to the hold's maximum.
	tb.WriteByName("CARGO_FWD_BAGGAGE_CONTAINER", 5000)
	tb.Aircraft.update = cargo.ForceSync
	tb.Run()
	if cargo.Load() != 3402 {
		t.Errorf("load %s, expected the max load clamp 3402", cargo.Load())
	}
}
