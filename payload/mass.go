// payload/mass.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package payload

import "fmt"

const kilogramsPerPound = 0.45359237

// Mass is a mass in kilograms. Station loads and capacities are carried
// in kilograms internally; the weight-and-balance payload request
// variables are written in pounds.
type Mass float64

// FromPounds returns the Mass corresponding to lb pounds.
func FromPounds(lb float64) Mass {
	return Mass(lb * kilogramsPerPound)
}

func (m Mass) Kilograms() float64 { return float64(m) }

func (m Mass) Pounds() float64 { return float64(m) / kilogramsPerPound }

// Times returns the mass scaled by x; it is how a per-passenger weight
// becomes a station payload.
func (m Mass) Times(x float64) Mass { return Mass(float64(m) * x) }

func (m Mass) String() string { return fmt.Sprintf("%.1fkg", float64(m)) }
