package proc

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"math/bits"
)

var _proc_defines = map[string]string{
	"OP_LOAD":  fmt.Sprintf("%d", OP_LOAD),
	"OP_STORE": fmt.Sprintf("%d", OP_STORE),
	"OP_ADD":   fmt.Sprintf("%d", OP_ADD),
	"OP_SUB":   fmt.Sprintf("%d", OP_SUB),
}

// Proc is the simulation context for the up8 execution engine.
//
// The zero value is identical to the post-reset state and is ready to use.
// Each Proc owns its register file and memory exclusively, so independent
// processors can be simulated without shared state.
type Proc struct {
	Verbose bool // Set to enable verbose logging.

	Register [8]uint8 // Register file.
	Memory   [8]uint8 // Memory cells.
	Pc       Addr     // Program counter. Advanced every step, never decoded.
	Result   uint8    // Most recent step result. Retained between steps.

	Power int // Power (bits flipped) counter.
	Ticks int // Clock edge counter.

	// Observe, if set, is invoked after every step with the executed
	// instruction and its result.
	Observe func(code Instruction, result uint8)
}

// NewProc creates a new execution engine in the all-zero state.
func NewProc() (proc *Proc) {
	proc = &Proc{}

	return
}

// Defines for the engine.
func (proc *Proc) Defines() iter.Seq2[string, string] {
	return maps.All(_proc_defines)
}

// String returns the current engine state as a string.
func (proc *Proc) String() (text string) {
	text = fmt.Sprintf("   pc: %d\n  res: %02X\n", proc.Pc, proc.Result)
	for n, val := range proc.Register {
		text += fmt.Sprintf("   r%d: %02X\n", n, val)
	}
	for n, val := range proc.Memory {
		text += fmt.Sprintf("   m%d: %02X\n", n, val)
	}

	return
}

// Reset the engine state.
// - Clears the register file, memory, program counter, and result.
// - Zeros statistics counters.
//
// Reset is idempotent: repeated calls yield the same all-zero state.
func (proc *Proc) Reset() {
	if proc.Verbose {
		log.Printf("proc: reset")
	}

	clear(proc.Register[:])
	clear(proc.Memory[:])
	proc.Pc = 0
	proc.Result = 0
	proc.Ticks = 0
	proc.Power = 0
}

// Step executes a single clock edge: decode the instruction, dispatch it,
// and advance the program counter.
//
// Exactly one register write (LOAD/ADD/SUB) or one memory write (STORE)
// occurs per call. ADD and SUB wrap modulo 256; the program counter wraps
// modulo 8. There is no error path: every field of the instruction word is
// structurally bounded by its bit width.
func (proc *Proc) Step(code Instruction) (result uint8) {
	op, reg, mem := code.Decode()

	if proc.Verbose {
		log.Printf("%d: %v", proc.Pc, code)
	}

	// Prior value of the written cell, for the power counter.
	var prior uint8

	switch op {
	case OP_LOAD:
		prior = proc.Register[reg]
		result = proc.Memory[mem]
		proc.Register[reg] = result
	case OP_STORE:
		prior = proc.Memory[mem]
		result = proc.Register[reg]
		proc.Memory[mem] = result
	case OP_ADD:
		prior = proc.Register[reg]
		result = prior + proc.Register[mem]
		proc.Register[reg] = result
	case OP_SUB:
		prior = proc.Register[reg]
		result = prior - proc.Register[mem]
		proc.Register[reg] = result
	}

	proc.Result = result
	proc.Pc = proc.Pc.Next()

	proc.Ticks += 1
	proc.Power += bits.OnesCount8(prior ^ result)

	if proc.Observe != nil {
		proc.Observe(code, result)
	}

	return
}
