// Package proc implements the execution engine and assembler for the up8 processor.
//
// The processor consists of eight 8-bit general-purpose registers (r0-r7),
// eight 8-bit memory cells (m0-m7), a 3-bit program counter, and a result
// register. Each clock edge executes exactly one fixed-width instruction:
// LOAD, STORE, ADD, or SUB. All arithmetic wraps modulo 256, and the program
// counter wraps modulo 8, matching the fixed hardware widths.
//
// The assembler provides the stimulus language for the up8 harness,
// supporting mnemonics, raw instruction bytes, memory pre-seed and reset
// directives, macros, equates, and compile-time expression evaluation.
package proc
