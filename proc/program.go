package proc

import (
	"iter"
)

// Poke is a memory pre-seed applied before a cycle's clock edge.
type Poke struct {
	Cell  Addr
	Value uint8
}

// Stimulus is one clock cycle of external stimulus: zero or more memory
// pre-seeds, then either a synchronous reset or an instruction edge.
type Stimulus struct {
	LineNo int      // Source line of the cycle.
	Words  []string // Source words, after equate and macro expansion.
	Pokes  []Poke   // Memory pre-seeds applied before the edge.
	Reset  bool     // Reset cycle; Code is ignored.
	Code   Instruction
}

// Program is an assembled stimulus listing, one entry per clock cycle.
type Program struct {
	Stimuli []Stimulus
}

// Cycles returns the number of clock cycles in the program.
func (prog *Program) Cycles() int {
	return len(prog.Stimuli)
}

// Debug returns the stimulus scheduled for a cycle, or nil past the end.
func (prog *Program) Debug(cycle int) (st *Stimulus) {
	if cycle < 0 || cycle >= len(prog.Stimuli) {
		return
	}

	st = &prog.Stimuli[cycle]
	return
}

// Codes iterates the instruction-bearing cycles of the program.
func (prog *Program) Codes() iter.Seq2[int, Instruction] {
	return func(yield func(cycle int, code Instruction) bool) {
		for n, st := range prog.Stimuli {
			if st.Reset {
				continue
			}
			if !yield(n, st.Code) {
				return
			}
		}
	}
}
