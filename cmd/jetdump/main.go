// cmd/jetdump/main.go
// Copyright(c) 2025 jetway contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// jetdump prints the contents of saved simulation state files.
// Usage: jetdump [-vars] <state.msgpack.zst...>
//
// Loads each snapshot the way the daemon does at -resume and dumps its
// contents, followed by a sorted table of the variables it carries.

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mmp/jetway/sim"
	"github.com/mmp/jetway/util"

	"github.com/goforj/godump"
)

var varsOnly = flag.Bool("vars", false, "print only the variable table")

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: jetdump [-vars] <state.msgpack.zst...>")
		os.Exit(1)
	}

	for _, path := range flag.Args() {
		if err := dumpSnapshot(path); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			os.Exit(1)
		}
	}
}

func dumpSnapshot(path string) error {
	snap, err := sim.LoadSnapshot(path)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== %s ===\n", path)
	if !*varsOnly {
		godump.Dump(snap)
	}

	fmt.Printf("%-40s %s\n", "Variable", "Value")
	for _, name := range util.SortedMapKeys(snap.Variables) {
		fmt.Printf("%-40s %g\n", name, snap.Variables[name])
	}
	return nil
}
