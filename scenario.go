// scenario.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"fmt"
	"os"

	"github.com/mmp/jetway/a320"
	"github.com/mmp/jetway/payload"
	"github.com/mmp/jetway/sim"
	"github.com/mmp/jetway/util"
)

// Scenario describes an initial loading situation: what is already
// aboard, what the turnaround should load, and how fast boarding runs.
// Zone and hold names match the station tables; masses are kilograms.
type Scenario struct {
	Name           string  `json:"name"`
	Rate           string  `json:"rate,omitempty"`
	PerPaxWeightKg float64 `json:"per_pax_weight_kg,omitempty"`
	StartBoarding  bool    `json:"start_boarding,omitempty"`

	Pax   map[string]PaxLoad   `json:"pax,omitempty"`
	Cargo map[string]CargoLoad `json:"cargo,omitempty"`
}

type PaxLoad struct {
	Onboard int `json:"onboard,omitempty"`
	Target  int `json:"target,omitempty"`
}

type CargoLoad struct {
	LoadedKg float64 `json:"loaded_kg,omitempty"`
	TargetKg float64 `json:"target_kg,omitempty"`
}

func LoadScenario(path string, e *util.ErrorLogger) *Scenario {
	e.Push("File " + path)
	defer e.Pop()

	contents, err := os.ReadFile(path)
	if err != nil {
		e.Error(err)
		return nil
	}

	for _, dup := range util.FindDuplicateJSONKeys(contents) {
		if dup.Path == "" {
			e.ErrorString("duplicate JSON key %q", dup.Key)
		} else {
			e.ErrorString("%s: duplicate JSON key %q", dup.Path, dup.Key)
		}
	}

	util.CheckJSON[Scenario](contents, e)
	if e.HaveErrors() {
		return nil
	}

	var s Scenario
	if err := util.UnmarshalJSONBytes(contents, &s); err != nil {
		e.Error(err)
		return nil
	}

	s.Validate(e)
	if e.HaveErrors() {
		return nil
	}
	return &s
}

func (s *Scenario) Validate(e *util.ErrorLogger) {
	if s.Name == "" {
		e.ErrorString("scenario is missing \"name\"")
	}
	if s.Rate != "" {
		if _, ok := payload.ParseBoardingRate(s.Rate); !ok {
			e.ErrorString("%q: unknown boarding rate; must be \"instant\", \"fast\", or \"real\"", s.Rate)
		}
	}
	if s.PerPaxWeightKg < 0 {
		e.ErrorString("\"per_pax_weight_kg\" cannot be negative")
	}

	for name, p := range s.Pax {
		e.Push("Pax zone " + name)
		if z, ok := a320.PaxZoneFromName(name); !ok {
			e.ErrorString("unknown zone; must be one of A, B, C, D")
		} else {
			if p.Onboard < 0 || p.Onboard > z.Capacity() {
				e.ErrorString("\"onboard\" %d is outside 0-%d", p.Onboard, z.Capacity())
			}
			if p.Target < 0 || p.Target > z.Capacity() {
				e.ErrorString("\"target\" %d is outside 0-%d", p.Target, z.Capacity())
			}
		}
		e.Pop()
	}

	for name, c := range s.Cargo {
		e.Push("Cargo hold " + name)
		if h, ok := a320.CargoHoldFromName(name); !ok {
			e.ErrorString("unknown hold; must be one of fwd_baggage, aft_container, aft_baggage, aft_bulk")
		} else {
			max := h.MaxLoad().Kilograms()
			if c.LoadedKg < 0 || c.LoadedKg > max {
				e.ErrorString("\"loaded_kg\" %v is outside 0-%v", c.LoadedKg, max)
			}
			if c.TargetKg < 0 || c.TargetKg > max {
				e.ErrorString("\"target_kg\" %v is outside 0-%v", c.TargetKg, max)
			}
		}
		e.Pop()
	}
}

// Apply writes the scenario into the simulation's variable store as a
// single edit; the model absorbs the station counts on its next
// synchronization pass.
func (s *Scenario) Apply(sm *sim.Simulation) error {
	values := make(map[string]float64)

	if s.Rate != "" {
		rate, _ := payload.ParseBoardingRate(s.Rate)
		values[a320.BoardingRateVar] = rate.Value()
	}
	if s.PerPaxWeightKg > 0 {
		values[a320.PerPaxWeightVar] = s.PerPaxWeightKg
	}
	for name, p := range s.Pax {
		z, ok := a320.PaxZoneFromName(name)
		if !ok {
			return fmt.Errorf("unknown pax zone %q", name)
		}
		values[z.Variable()] = float64(p.Onboard)
		values[z.Variable()+payload.DesiredSuffix] = float64(p.Target)
	}
	for name, c := range s.Cargo {
		h, ok := a320.CargoHoldFromName(name)
		if !ok {
			return fmt.Errorf("unknown cargo hold %q", name)
		}
		values[h.Variable()] = c.LoadedKg
		values[h.Variable()+payload.DesiredSuffix] = c.TargetKg
	}
	values[a320.BoardingStartedVar] = util.Select(s.StartBoarding, 1.0, 0.0)

	return sm.SetVariables(values)
}
