package proc

import (
	"fmt"
)

// Op is the 2-bit opcode field.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_LOAD  = Op(0) // load
	OP_STORE = Op(1) // store
	OP_ADD   = Op(2) // add
	OP_SUB   = Op(3) // sub
)

// Addr is a 3-bit register or memory address. Every value that reaches an
// Addr comes through MakeAddr or a field decode, so it is always in [0,7]
// and can index the register file or memory without a bounds check.
type Addr uint8

// MakeAddr truncates a value to the 3-bit address width.
func MakeAddr(value uint8) Addr {
	return Addr(value & 7)
}

// Next returns the address advanced by one, wrapping modulo 8.
func (a Addr) Next() Addr {
	return MakeAddr(uint8(a) + 1)
}

// Instruction is a single 8-bit instruction word.
//
//	bits 7:6  opcode
//	bits 5:3  register address
//	bits 2:0  memory address (register address for ADD/SUB)
type Instruction uint8

// MakeInstruction builds an instruction word from its three fields.
func MakeInstruction(op Op, reg Addr, mem Addr) Instruction {
	return Instruction((uint8(op)&3)<<6 | uint8(reg)<<3 | uint8(mem))
}

// ParseInstruction converts an externally supplied numeric value into an
// Instruction. Values wider than 8 bits are rejected, never truncated.
func ParseInstruction(value uint64) (code Instruction, err error) {
	if value > 0xff {
		err = ErrInstructionRange
		return
	}

	code = Instruction(value)
	return
}

// Decode splits the instruction word into its three fields.
func (code Instruction) Decode() (op Op, reg Addr, mem Addr) {
	op = Op((code >> 6) & 3)
	reg = Addr((code >> 3) & 7)
	mem = Addr((code >> 0) & 7)
	return
}

// Op returns the opcode field of the instruction word.
func (code Instruction) Op() Op {
	return Op((code >> 6) & 3)
}

// String returns the assembly language representation of this instruction.
func (code Instruction) String() (out string) {
	op, reg, mem := code.Decode()

	switch op {
	case OP_ADD, OP_SUB:
		// Second operand indexes the register file.
		out = fmt.Sprintf("%v r%d r%d", op, reg, mem)
	default:
		out = fmt.Sprintf("%v r%d m%d", op, reg, mem)
	}

	return
}
