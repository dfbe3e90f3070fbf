// sim/snapshot.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

const snapshotVersion = 1

// Snapshot captures everything needed to recreate a Simulation's state:
// the full variable store plus timing. The on-disk format is a
// msgpack-encoded Snapshot, compressed with zstd.
type Snapshot struct {
	Version   int
	Aircraft  string
	SavedAt   time.Time
	SimTime   time.Duration
	Variables map[string]float64
}

// Snapshot returns a copy of the simulation's current state.
func (s *Simulation) Snapshot() *Snapshot {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	return &Snapshot{
		Version:   snapshotVersion,
		Aircraft:  s.aircraft.Type(),
		SavedAt:   time.Now(),
		SimTime:   s.simTime,
		Variables: s.vars.All(),
	}
}

// Restore overwrites the simulation's state with the snapshot's. Station
// values restored this way look to the model like any other external
// edit and are absorbed by its next synchronization pass.
func (s *Simulation) Restore(snap *Snapshot) error {
	s.mu.Lock(s.lg)
	defer s.mu.Unlock(s.lg)

	if snap.Aircraft != s.aircraft.Type() {
		return fmt.Errorf("%s: %w", snap.Aircraft, ErrInvalidAircraftType)
	}

	s.simTime = snap.SimTime
	s.timeSlop = 0
	s.vars.SetAll(snap.Variables)
	return nil
}

// WriteSnapshot writes the snapshot to w in the standard format (msgpack
// + zstd compression).
func WriteSnapshot(w io.Writer, snap *Snapshot) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	defer zw.Close()

	if err := msgpack.NewEncoder(zw).Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}

	return nil
}

// ReadSnapshot reads a snapshot from r.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var snap Snapshot
	if err := msgpack.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	if snap.Version > snapshotVersion {
		return nil, fmt.Errorf("version %d: %w", snap.Version, ErrSnapshotVersion)
	}

	return &snap, nil
}

// SaveSnapshot writes the snapshot to the named file, creating any
// missing directories along the way.
func SaveSnapshot(path string, snap *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSnapshot(f, snap); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadSnapshot reads a snapshot from the named file.
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadSnapshot(f)
}
