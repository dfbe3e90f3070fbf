// util/generic_test.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"slices"
	"testing"
)

func TestSelect(t *testing.T) {
	if Select(true, 1, 2) != 1 {
		t.Errorf("Select true failed")
	}
	if Select(false, 1, 2) != 2 {
		t.Errorf("Select false failed")
	}
}

func TestSortedMapKeys(t *testing.T) {
	m := map[string]int{"PAX_C": 3, "PAX_A": 1, "PAX_B": 2}
	keys := SortedMapKeys(m)
	if !slices.Equal(keys, []string{"PAX_A", "PAX_B", "PAX_C"}) {
		t.Errorf("SortedMapKeys returned %v", keys)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 {
		t.Errorf("Clamp above range failed")
	}
	if Clamp(-1, 0, 3) != 0 {
		t.Errorf("Clamp below range failed")
	}
	if Clamp(2, 0, 3) != 2 {
		t.Errorf("Clamp in range failed")
	}
}

func TestMapSlice(t *testing.T) {
	doubled := MapSlice([]int{1, 2, 3}, func(v int) int { return 2 * v })
	if !slices.Equal(doubled, []int{2, 4, 6}) {
		t.Errorf("MapSlice returned %v", doubled)
	}
}

func TestFilterSlice(t *testing.T) {
	even := FilterSlice([]int{1, 2, 3, 4, 5}, func(v int) bool { return v%2 == 0 })
	if !slices.Equal(even, []int{2, 4}) {
		t.Errorf("FilterSlice returned %v", even)
	}

	if FilterSlice(nil, func(v int) bool { return true }) != nil {
		t.Errorf("FilterSlice of nil slice returned non-nil")
	}
}

func TestErrorLogger(t *testing.T) {
	var e ErrorLogger
	if e.HaveErrors() {
		t.Errorf("fresh ErrorLogger reports errors")
	}

	e.Push("scenario")
	e.Push("pax zone A")
	e.ErrorString("target %d exceeds capacity %d", 40, 36)
	e.Pop()
	e.Pop()

	if !e.HaveErrors() {
		t.Errorf("ErrorLogger did not record error")
	}
	want := "scenario / pax zone A: target 40 exceeds capacity 36"
	if e.String() != want {
		t.Errorf("got %q, want %q", e.String(), want)
	}
}
