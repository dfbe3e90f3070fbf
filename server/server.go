// server/server.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package server exposes a running simulation over HTTP: state
// inspection, target edits, boarding control, and raw variable access
// for external tools that speak the variable contract directly.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mmp/jetway/a320"
	"github.com/mmp/jetway/log"
	"github.com/mmp/jetway/payload"
	"github.com/mmp/jetway/sim"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ErrNoScenario is returned by the reset callback when the process was
// started without a scenario to reset to.
var ErrNoScenario = errors.New("no scenario loaded")

type Server struct {
	sim       *sim.Simulation
	reset     func() error
	startTime time.Time
	lg        *log.Logger
}

// New builds the HTTP API around the simulation. reset reapplies the
// scenario the process was started with; pass nil if there is none.
func New(sm *sim.Simulation, reset func() error, lg *log.Logger) http.Handler {
	s := &Server{sim: sm, reset: reset, startTime: time.Now(), lg: lg}

	r := chi.NewRouter()
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/sup", s.handleStatus)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Put("/targets", s.handleTargets)
		r.Put("/rate", s.handleRate)
		r.Put("/weight", s.handleWeight)
		r.Post("/boarding/start", s.handleBoardingStart)
		r.Post("/boarding/stop", s.handleBoardingStop)
		r.Post("/reset", s.handleReset)
		r.Get("/vars/{name}", s.handleGetVar)
		r.Put("/vars/{name}", s.handleSetVar)
	})

	r.Mount("/debug", middleware.Profiler())

	return r
}

///////////////////////////////////////////////////////////////////////////
// State

type PaxZoneState struct {
	Onboard  int `json:"onboard"`
	Target   int `json:"target"`
	Capacity int `json:"capacity"`
}

type CargoHoldState struct {
	LoadedKg float64 `json:"loaded_kg"`
	TargetKg float64 `json:"target_kg"`
	MaxKg    float64 `json:"max_kg"`
}

type SoundsState struct {
	Boarding   bool `json:"boarding"`
	Deboarding bool `json:"deboarding"`
	Complete   bool `json:"complete"`
	Ambience   bool `json:"ambience"`
}

// State is the API's snapshot of the payload situation, assembled from
// the simulation's variable store.
type State struct {
	SimTime        string                    `json:"sim_time"`
	Boarding       bool                      `json:"boarding"`
	Rate           string                    `json:"rate"`
	PerPaxWeightKg float64                   `json:"per_pax_weight_kg"`
	TotalPax       int                       `json:"total_pax"`
	TotalCargoKg   float64                   `json:"total_cargo_kg"`
	Pax            map[string]PaxZoneState   `json:"pax"`
	Cargo          map[string]CargoHoldState `json:"cargo"`
	Sounds         SoundsState               `json:"sounds"`
}

func (s *Server) currentState() State {
	vars := s.sim.VariableValues()

	st := State{
		SimTime:        s.sim.SimTime().String(),
		Boarding:       vars[a320.BoardingStartedVar] != 0,
		Rate:           payload.BoardingRateFromValue(vars[a320.BoardingRateVar]).String(),
		PerPaxWeightKg: vars[a320.PerPaxWeightVar],
		Pax:            make(map[string]PaxZoneState),
		Cargo:          make(map[string]CargoHoldState),
		Sounds: SoundsState{
			Boarding:   vars[a320.SoundBoardingVar] != 0,
			Deboarding: vars[a320.SoundDeboardingVar] != 0,
			Complete:   vars[a320.SoundCompleteVar] != 0,
			Ambience:   vars[a320.SoundAmbienceVar] != 0,
		},
	}

	for z := a320.PaxZoneA; z < a320.NumPaxZones; z++ {
		n := int(vars[z.Variable()])
		st.Pax[z.String()] = PaxZoneState{
			Onboard:  n,
			Target:   int(vars[z.Variable()+payload.DesiredSuffix]),
			Capacity: z.Capacity(),
		}
		st.TotalPax += n
	}
	for h := a320.FwdBaggage; h < a320.NumCargoHolds; h++ {
		kg := vars[h.Variable()]
		st.Cargo[h.String()] = CargoHoldState{
			LoadedKg: kg,
			TargetKg: vars[h.Variable()+payload.DesiredSuffix],
			MaxKg:    h.MaxLoad().Kilograms(),
		}
		st.TotalCargoKg += kg
	}
	return st
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.currentState())
}

///////////////////////////////////////////////////////////////////////////
// Edits

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Pax   map[string]int     `json:"pax"`
		Cargo map[string]float64 `json:"cargo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}

	values := make(map[string]float64)
	for name, target := range req.Pax {
		z, ok := a320.PaxZoneFromName(name)
		if !ok {
			writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("unknown pax zone %q", name))
			return
		}
		if target < 0 || target > z.Capacity() {
			writeJSONError(w, http.StatusBadRequest,
				fmt.Sprintf("zone %s: target %d is outside 0-%d", z, target, z.Capacity()))
			return
		}
		values[z.Variable()+payload.DesiredSuffix] = float64(target)
	}
	for name, kg := range req.Cargo {
		h, ok := a320.CargoHoldFromName(name)
		if !ok {
			writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("unknown cargo hold %q", name))
			return
		}
		if kg < 0 || kg > h.MaxLoad().Kilograms() {
			writeJSONError(w, http.StatusBadRequest,
				fmt.Sprintf("hold %s: %v kg is outside 0-%v", h, kg, h.MaxLoad().Kilograms()))
			return
		}
		values[h.Variable()+payload.DesiredSuffix] = kg
	}
	if len(values) == 0 {
		writeJSONError(w, http.StatusBadRequest, "no targets given")
		return
	}

	if err := s.sim.SetVariables(values); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.lg.Info("targets updated", "targets", values)
	writeJSON(w, s.currentState())
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rate string `json:"rate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	rate, ok := payload.ParseBoardingRate(req.Rate)
	if !ok {
		writeJSONError(w, http.StatusBadRequest,
			fmt.Sprintf("%q: unknown boarding rate; must be \"instant\", \"fast\", or \"real\"", req.Rate))
		return
	}
	if err := s.sim.SetVariable(a320.BoardingRateVar, rate.Value()); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, s.currentState())
}

func (s *Server) handleWeight(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PerPaxWeightKg float64 `json:"per_pax_weight_kg"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	if req.PerPaxWeightKg <= 0 {
		writeJSONError(w, http.StatusBadRequest, "\"per_pax_weight_kg\" must be positive")
		return
	}
	if err := s.sim.SetVariable(a320.PerPaxWeightVar, req.PerPaxWeightKg); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, s.currentState())
}

func (s *Server) handleBoardingStart(w http.ResponseWriter, r *http.Request) {
	if err := s.sim.SetVariable(a320.BoardingStartedVar, 1); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.lg.Infof("boarding started via API")
	writeJSON(w, s.currentState())
}

func (s *Server) handleBoardingStop(w http.ResponseWriter, r *http.Request) {
	if err := s.sim.SetVariable(a320.BoardingStartedVar, 0); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.lg.Infof("boarding stopped via API")
	writeJSON(w, s.currentState())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if s.reset == nil {
		writeJSONError(w, http.StatusConflict, ErrNoScenario.Error())
		return
	}
	if err := s.reset(); err != nil {
		if errors.Is(err, ErrNoScenario) {
			writeJSONError(w, http.StatusConflict, err.Error())
		} else {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	s.sim.Events().Post(sim.Event{Type: sim.StatusMessageEvent, Message: "scenario reset"})
	writeJSON(w, s.currentState())
}

///////////////////////////////////////////////////////////////////////////
// Raw variable access

func (s *Server) handleGetVar(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	v, err := s.sim.Variable(name)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, map[string]any{"name": name, "value": v})
}

func (s *Server) handleSetVar(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req struct {
		Value float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	if err := s.sim.SetVariable(name, req.Value); err != nil {
		if errors.Is(err, sim.ErrUnknownVariable) {
			writeJSONError(w, http.StatusNotFound, err.Error())
		} else {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	s.lg.Info("variable set via API", "name", name, "value", req.Value)
	writeJSON(w, map[string]any{"name": name, "value": req.Value})
}

///////////////////////////////////////////////////////////////////////////
// Helpers

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
