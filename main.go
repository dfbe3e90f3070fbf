// main.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// This file contains the implementation of the main() function, which
// initializes the simulation and then runs the tick loop and the HTTP
// API until the process is signaled to exit.

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/mmp/jetway/a320"
	"github.com/mmp/jetway/log"
	"github.com/mmp/jetway/server"
	"github.com/mmp/jetway/sim"
	"github.com/mmp/jetway/util"

	"github.com/brunoga/deep"
	"golang.org/x/sync/errgroup"
)

var (
	logLevel         = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	logDir           = flag.String("logdir", "", "log file directory")
	scenarioFilename = flag.String("scenario", "", "filename of JSON file with a scenario definition")
	lintScenario     = flag.Bool("lint", false, "check the validity of the given scenario and exit")
	serverPort       = flag.Int("port", 8320, "port for the HTTP API to listen on")
	simRate          = flag.Float64("simrate", 1, "simulation rate multiplier")
	resume           = flag.Bool("resume", false, "resume from the saved simulation state")
)

func main() {
	flag.Parse()

	// Initialize the logging system first and foremost.
	lg := log.New(*logLevel, *logDir)
	defer lg.CatchAndLogCrash()

	if *lintScenario {
		if *scenarioFilename == "" {
			fmt.Fprintln(os.Stderr, "-lint requires -scenario")
			os.Exit(1)
		}
		var e util.ErrorLogger
		LoadScenario(*scenarioFilename, &e)
		if e.HaveErrors() {
			e.PrintErrors(nil)
			os.Exit(1)
		}
		fmt.Printf("%s: scenario is valid\n", *scenarioFilename)
		os.Exit(0)
	}

	if *simRate <= 0 {
		fmt.Fprintln(os.Stderr, "-simrate must be positive")
		os.Exit(1)
	}

	sm := sim.New(func(ic *sim.InitContext) sim.Aircraft { return a320.New(ic, lg) }, lg)

	if *resume {
		if snap, err := sim.LoadSnapshot(stateFilePath()); err != nil {
			lg.Warnf("%s: unable to resume: %v", stateFilePath(), err)
		} else if err := sm.Restore(snap); err != nil {
			lg.Warnf("%s: unable to resume: %v", stateFilePath(), err)
		} else {
			lg.Info("resumed simulation state", slog.String("path", stateFilePath()),
				slog.Time("saved_at", snap.SavedAt))
		}
	}

	// The scenario is applied after any resumed state so that it wins for
	// the variables it specifies.
	var scenario *Scenario
	if *scenarioFilename != "" {
		var e util.ErrorLogger
		scenario = LoadScenario(*scenarioFilename, &e)
		if e.HaveErrors() {
			e.PrintErrors(lg)
			os.Exit(1)
		}
		if err := scenario.Apply(sm); err != nil {
			lg.Errorf("%s: %v", *scenarioFilename, err)
			os.Exit(1)
		}
		lg.Infof("applied scenario %q", scenario.Name)
	}

	if err := runDaemon(sm, makeReset(sm, scenario), lg); err != nil {
		lg.Errorf("%v", err)
		os.Exit(1)
	}
}

// makeReset returns the callback the HTTP API uses to restore the
// scenario the process was started with; each reset applies a copy so
// the pristine scenario can never be corrupted across resets.
func makeReset(sm *sim.Simulation, scenario *Scenario) func() error {
	if scenario == nil {
		return nil
	}
	pristine := *scenario
	return func() error {
		s := deep.MustCopy(pristine)
		return s.Apply(sm)
	}
}

func stateFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "Jetway", "state.msgpack.zst")
}

// runDaemon runs the tick loop and the HTTP API until the context is
// canceled by a signal, then saves the simulation state for a later
// -resume.
func runDaemon(sm *sim.Simulation, reset func() error, lg *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:    net.JoinHostPort("", strconv.Itoa(*serverPort)),
		Handler: server.New(sm, reset, lg),
	}

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		fmt.Printf("Launching HTTP server on port %d\n", *serverPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	eg.Go(func() error {
		// Advance simulated time by scaled wall-clock time once a second;
		// RunFor carries any sub-tick remainder to the next iteration.
		sub := sm.Events().Subscribe()
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()

		last := time.Now()
		for {
			select {
			case <-ctx.Done():
				return nil
			case now := <-ticker.C:
				sm.RunFor(time.Duration(float64(now.Sub(last)) * *simRate))
				last = now

				for _, ev := range sub.Get() {
					lg.Info("event", slog.Any("event", ev))
					fmt.Println(ev.String())
				}
			}
		}
	})

	err := eg.Wait()

	if serr := sim.SaveSnapshot(stateFilePath(), sm.Snapshot()); serr != nil {
		lg.Errorf("%s: unable to save state: %v", stateFilePath(), serr)
	} else {
		lg.Info("saved simulation state", slog.String("path", stateFilePath()))
	}
	return err
}
