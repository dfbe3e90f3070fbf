// server/server_test.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mmp/jetway/a320"
	"github.com/mmp/jetway/sim"
)

func newTestServer(reset func() error) (http.Handler, *sim.Simulation) {
	sm := sim.New(func(ic *sim.InitContext) sim.Aircraft { return a320.New(ic, nil) }, nil)
	return New(sm, reset, nil), sm
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) State {
	t.Helper()
	var st State
	if err := json.NewDecoder(w.Body).Decode(&st); err != nil {
		t.Fatalf("decoding state: %v", err)
	}
	return st
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(nil)
	w := doRequest(t, h, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("status: got %d, expected 200", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Errorf("body: got %q, expected \"ok\"", w.Body.String())
	}
}

func TestStateEndpoint(t *testing.T) {
	h, _ := newTestServer(nil)
	w := doRequest(t, h, "GET", "/api/state", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, expected 200", w.Code)
	}

	st := decodeState(t, w)
	if len(st.Pax) != 4 || len(st.Cargo) != 4 {
		t.Errorf("got %d zones and %d holds, expected 4 and 4", len(st.Pax), len(st.Cargo))
	}
	if st.Pax["B"].Capacity != 42 {
		t.Errorf("zone B capacity: got %d, expected 42", st.Pax["B"].Capacity)
	}
	if st.Cargo["aft_bulk"].MaxKg != 1497 {
		t.Errorf("aft bulk max: got %v, expected 1497", st.Cargo["aft_bulk"].MaxKg)
	}
	if st.Rate != "instant" {
		t.Errorf("default rate: got %q, expected \"instant\"", st.Rate)
	}
	if st.PerPaxWeightKg != 84 {
		t.Errorf("default per-pax weight: got %v, expected 84", st.PerPaxWeightKg)
	}
}

func TestTargetsEndpoint(t *testing.T) {
	h, sm := newTestServer(nil)

	w := doRequest(t, h, "PUT", "/api/targets", `{"pax": {"A": 10}, "cargo": {"aft_bulk": 240}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, expected 200: %s", w.Code, w.Body.String())
	}
	if v, err := sm.Variable("PAX_A_DESIRED"); err != nil || v != 10 {
		t.Errorf("PAX_A_DESIRED: got %v, %v", v, err)
	}
	if v, err := sm.Variable("CARGO_AFT_BULK_LOOSE_DESIRED"); err != nil || v != 240 {
		t.Errorf("CARGO_AFT_BULK_LOOSE_DESIRED: got %v, %v", v, err)
	}

	for _, tc := range []struct {
		name string
		body string
	}{
		{"unknown zone", `{"pax": {"E": 1}}`},
		{"over capacity", `{"pax": {"A": 99}}`},
		{"negative target", `{"pax": {"A": -1}}`},
		{"unknown hold", `{"cargo": {"hat_rack": 10}}`},
		{"over max load", `{"cargo": {"aft_bulk": 9000}}`},
		{"empty", `{}`},
		{"malformed", `{"pax": `},
	} {
		if w := doRequest(t, h, "PUT", "/api/targets", tc.body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: got status %d, expected 400", tc.name, w.Code)
		}
	}
}

func TestBoardingEndpoints(t *testing.T) {
	h, sm := newTestServer(nil)

	doRequest(t, h, "PUT", "/api/targets", `{"pax": {"A": 10}}`)
	if w := doRequest(t, h, "POST", "/api/boarding/start", ""); w.Code != http.StatusOK {
		t.Fatalf("start: got status %d", w.Code)
	}

	sm.Tick(1 * time.Second) // instant rate loads everything at once

	st := decodeState(t, doRequest(t, h, "GET", "/api/state", ""))
	if st.TotalPax != 10 {
		t.Errorf("total pax: got %d, expected 10", st.TotalPax)
	}
	if st.Pax["A"].Onboard != 10 {
		t.Errorf("zone A onboard: got %d, expected 10", st.Pax["A"].Onboard)
	}
	if !st.Sounds.Complete {
		t.Errorf("completion cue not set")
	}
	if st.Boarding {
		t.Errorf("boarding still active after instant load")
	}

	if w := doRequest(t, h, "POST", "/api/boarding/stop", ""); w.Code != http.StatusOK {
		t.Errorf("stop: got status %d", w.Code)
	}
	if v, _ := sm.Variable(a320.BoardingStartedVar); v != 0 {
		t.Errorf("boarding flag: got %v, expected 0", v)
	}
}

func TestRateEndpoint(t *testing.T) {
	h, _ := newTestServer(nil)

	w := doRequest(t, h, "PUT", "/api/rate", `{"rate": "real"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, expected 200", w.Code)
	}
	if st := decodeState(t, w); st.Rate != "real" {
		t.Errorf("rate: got %q, expected \"real\"", st.Rate)
	}

	if w := doRequest(t, h, "PUT", "/api/rate", `{"rate": "warp"}`); w.Code != http.StatusBadRequest {
		t.Errorf("bad rate: got status %d, expected 400", w.Code)
	}
}

func TestWeightEndpoint(t *testing.T) {
	h, _ := newTestServer(nil)

	w := doRequest(t, h, "PUT", "/api/weight", `{"per_pax_weight_kg": 90}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, expected 200", w.Code)
	}
	if st := decodeState(t, w); st.PerPaxWeightKg != 90 {
		t.Errorf("per-pax weight: got %v, expected 90", st.PerPaxWeightKg)
	}

	if w := doRequest(t, h, "PUT", "/api/weight", `{"per_pax_weight_kg": -1}`); w.Code != http.StatusBadRequest {
		t.Errorf("negative weight: got status %d, expected 400", w.Code)
	}
}

func TestVarsEndpoints(t *testing.T) {
	h, sm := newTestServer(nil)

	w := doRequest(t, h, "GET", "/api/vars/PAX_A", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, expected 200", w.Code)
	}
	if w := doRequest(t, h, "GET", "/api/vars/NO_SUCH_VAR", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown variable: got status %d, expected 404", w.Code)
	}

	if w := doRequest(t, h, "PUT", "/api/vars/PAX_A", `{"value": 12}`); w.Code != http.StatusOK {
		t.Errorf("set: got status %d, expected 200", w.Code)
	}
	if v, _ := sm.Variable("PAX_A"); v != 12 {
		t.Errorf("PAX_A: got %v, expected 12", v)
	}
	if w := doRequest(t, h, "PUT", "/api/vars/NO_SUCH_VAR", `{"value": 1}`); w.Code != http.StatusNotFound {
		t.Errorf("set unknown: got status %d, expected 404", w.Code)
	}
}

func TestResetEndpoint(t *testing.T) {
	h, _ := newTestServer(nil)
	if w := doRequest(t, h, "POST", "/api/reset", ""); w.Code != http.StatusConflict {
		t.Errorf("reset without scenario: got status %d, expected 409", w.Code)
	}

	called := false
	h, sm := newTestServer(func() error { called = true; return nil })
	sub := sm.Events().Subscribe()
	if w := doRequest(t, h, "POST", "/api/reset", ""); w.Code != http.StatusOK {
		t.Errorf("reset: got status %d, expected 200", w.Code)
	}
	if !called {
		t.Errorf("reset callback not invoked")
	}
	events := sub.Get()
	if len(events) != 1 || events[0].Type != sim.StatusMessageEvent {
		t.Errorf("expected a status message event, got %v", events)
	}

	h, _ = newTestServer(func() error { return ErrNoScenario })
	if w := doRequest(t, h, "POST", "/api/reset", ""); w.Code != http.StatusConflict {
		t.Errorf("reset returning ErrNoScenario: got status %d, expected 409", w.Code)
	}
}

func TestStatusPage(t *testing.T) {
	h, _ := newTestServer(nil)
	w := doRequest(t, h, "GET", "/sup", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, expected 200", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Server Status", "Payload Status", "aft_bulk", "1497"} {
		if !strings.Contains(body, want) {
			t.Errorf("status page missing %q", want)
		}
	}
}
