// sim/errors.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package sim

import (
	"errors"
)

var (
	ErrInvalidAircraftType = errors.New("Snapshot was saved for a different aircraft type")
	ErrSnapshotVersion     = errors.New("Snapshot was written by a newer version")
	ErrUnknownVariable     = errors.New("Unknown simulation variable")
)
