// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package harness drives the up8 execution engine: clock and reset
// sequencing, cycle-indexed memory pre-seeding, and per-cycle trace capture.
// The engine itself performs no I/O; everything cycle-scheduled lives here.
package harness

import (
	"iter"
	"maps"

	"github.com/ezrec/up8/internal"
	"github.com/ezrec/up8/proc"
)

var _harness_defines = map[string]string{}

// Harness state. Engine + stimulus program + trace sink.
type Harness struct {
	Verbose    bool          // If set, enables verbose logging.
	*proc.Proc               // Reference to the execution engine.
	Program    *proc.Program // Reference to the current stimulus listing.

	Trace Trace // Optional per-cycle trace sink.

	cycle int
}

// NewHarness creates a new harness around a fresh engine.
func NewHarness() (har *Harness) {
	har = &Harness{
		Proc:    proc.NewProc(),
		Program: &proc.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (har *Harness) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_harness_defines),
		har.Proc.Defines(),
	)
}

// Cycle returns the number of clock edges driven since the last Reset.
func (har *Harness) Cycle() int {
	return har.cycle
}

// LineNo returns the source line number for the current cycle's stimulus.
func (har *Harness) LineNo() int {
	st := har.Program.Debug(har.cycle)
	if st == nil {
		return 0
	}

	return st.LineNo
}

// Reset rewinds the stimulus and drives a reset edge on the engine.
func (har *Harness) Reset() (err error) {
	har.Proc.Verbose = har.Verbose

	har.cycle = 0
	har.Proc.Reset()

	return
}

// Tick drives a single clock edge: apply the current cycle's pokes, then
// either hold reset or step the engine, then capture the trace line.
func (har *Harness) Tick() (done bool, err error) {
	// Set engine verbosity
	har.Proc.Verbose = har.Verbose

	st := har.Program.Debug(har.cycle)
	if st == nil {
		done = true
		return
	}

	defer func() {
		if err != nil {
			err = &ErrRuntime{Cycle: har.cycle, LineNo: st.LineNo, Err: err}
		}
	}()

	for _, poke := range st.Pokes {
		har.Proc.Memory[poke.Cell] = poke.Value
	}

	if st.Reset {
		har.Proc.Reset()
	} else {
		har.Proc.Step(st.Code)
	}

	err = har.Trace.Capture(har.cycle, st, har.Proc)
	if err != nil {
		return
	}

	har.cycle += 1

	return
}

// Run drives the stimulus program to completion.
func (har *Harness) Run() (err error) {
	for {
		var done bool
		done, err = har.Tick()
		if done || err != nil {
			return
		}
	}
}
