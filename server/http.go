// server/http.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package server

import (
	"net/http"
	"runtime"
	"text/template"
	"time"
)

///////////////////////////////////////////////////////////////////////////
// Status via HTTP...

type serverStats struct {
	Uptime           time.Duration
	AllocMemory      uint64
	TotalAllocMemory uint64
	SysMemory        uint64
	NumGC            uint32
	NumGoRoutines    int

	State State
}

var statsTemplate = template.Must(template.New("").Parse(`
<!DOCTYPE html>
<html>
<head>
<title>jetway status</title>
</head>
<style>
table {
  border-collapse: collapse;
  width: 100%;
}

th, td {
  border: 1px solid #dddddd;
  padding: 8px;
  text-align: left;
}

tr:nth-child(even) {
  background-color: #f2f2f2;
}
</style>
<body>
<h1>Server Status</h1>
<ul>
  <li>Uptime: {{.Uptime}}</li>
  <li>Allocated memory: {{.AllocMemory}} MB</li>
  <li>Total allocated memory: {{.TotalAllocMemory}} MB</li>
  <li>System memory: {{.SysMemory}} MB</li>
  <li>Garbage collection passes: {{.NumGC}}</li>
  <li>Running goroutines: {{.NumGoRoutines}}</li>
</ul>

<h1>Payload Status</h1>
<ul>
  <li>Sim time: {{.State.SimTime}}</li>
  <li>Boarding: {{.State.Boarding}}</li>
  <li>Rate: {{.State.Rate}}</li>
  <li>Per-pax weight: {{.State.PerPaxWeightKg}} kg</li>
  <li>Total pax: {{.State.TotalPax}}</li>
  <li>Total cargo: {{.State.TotalCargoKg}} kg</li>
</ul>

<table>
  <tr>
  <th>Zone</th>
  <th>Onboard</th>
  <th>Target</th>
  <th>Capacity</th>
{{range $name, $zone := .State.Pax}}
  </tr>
  <td>{{$name}}</td>
  <td>{{$zone.Onboard}}</td>
  <td>{{$zone.Target}}</td>
  <td>{{$zone.Capacity}}</td>
</tr>
{{end}}
</table>

<table>
  <tr>
  <th>Hold</th>
  <th>Loaded (kg)</th>
  <th>Target (kg)</th>
  <th>Max (kg)</th>
{{range $name, $hold := .State.Cargo}}
  </tr>
  <td>{{$name}}</td>
  <td>{{$hold.LoadedKg}}</td>
  <td>{{$hold.TargetKg}}</td>
  <td>{{$hold.MaxKg}}</td>
</tr>
{{end}}
</table>

</body>
</html>
`))

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := serverStats{
		Uptime:           time.Since(s.startTime).Round(time.Second),
		AllocMemory:      m.Alloc / (1024 * 1024),
		TotalAllocMemory: m.TotalAlloc / (1024 * 1024),
		SysMemory:        m.Sys / (1024 * 1024),
		NumGC:            m.NumGC,
		NumGoRoutines:    runtime.NumGoroutine(),

		State: s.currentState(),
	}

	statsTemplate.Execute(w, stats)
	s.lg.Infof("%s: served status request", r.URL.String())
}
