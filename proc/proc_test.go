package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReset(t *testing.T) {
	assert := assert.New(t)

	proc := NewProc()

	for n := range proc.Register {
		proc.Register[n] = uint8(0x11 * (n + 1))
	}
	for n := range proc.Memory {
		proc.Memory[n] = uint8(0x22 * (n + 1))
	}
	proc.Pc = MakeAddr(5)
	proc.Result = 0x99
	proc.Ticks = 12
	proc.Power = 34

	proc.Reset()

	assert.Equal([8]uint8{}, proc.Register)
	assert.Equal([8]uint8{}, proc.Memory)
	assert.Equal(Addr(0), proc.Pc)
	assert.Equal(uint8(0), proc.Result)
	assert.Equal(0, proc.Ticks)
	assert.Equal(0, proc.Power)

	// Idempotent: a second reset changes nothing.
	proc.Reset()
	assert.Equal(&Proc{}, proc)
}

func TestZeroValueIsReset(t *testing.T) {
	assert := assert.New(t)

	proc := NewProc()
	proc.Reset()

	assert.Equal(&Proc{}, proc)
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	for reg := range Addr(8) {
		for mem := range Addr(8) {
			for _, value := range []uint8{0x00, 0x01, 0x5a, 0xff} {
				proc := NewProc()
				proc.Memory[mem] = value

				result := proc.Step(MakeInstruction(OP_LOAD, reg, mem))

				assert.Equal(value, result)
				assert.Equal(value, proc.Result)
				assert.Equal(value, proc.Register[reg])
			}
		}
	}
}

func TestStore(t *testing.T) {
	assert := assert.New(t)

	for reg := range Addr(8) {
		for mem := range Addr(8) {
			for _, value := range []uint8{0x00, 0x01, 0x3c, 0xff} {
				proc := NewProc()
				proc.Register[reg] = value

				result := proc.Step(MakeInstruction(OP_STORE, reg, mem))

				assert.Equal(value, result)
				assert.Equal(value, proc.Result)
				assert.Equal(value, proc.Memory[mem])
			}
		}
	}
}

func TestAddWraparound(t *testing.T) {
	assert := assert.New(t)

	proc := NewProc()
	proc.Register[2] = 250
	proc.Register[5] = 10

	result := proc.Step(MakeInstruction(OP_ADD, 2, 5))

	assert.Equal(uint8(4), result)
	assert.Equal(uint8(4), proc.Register[2])
	assert.Equal(uint8(10), proc.Register[5])
}

func TestSubUnderflow(t *testing.T) {
	assert := assert.New(t)

	proc := NewProc()
	proc.Register[3] = 5
	proc.Register[4] = 10

	result := proc.Step(MakeInstruction(OP_SUB, 3, 4))

	assert.Equal(uint8(251), result)
	assert.Equal(uint8(251), proc.Register[3])
	assert.Equal(uint8(10), proc.Register[4])
}

func TestAddSelf(t *testing.T) {
	assert := assert.New(t)

	proc := NewProc()
	proc.Register[1] = 0x81

	result := proc.Step(MakeInstruction(OP_ADD, 1, 1))

	assert.Equal(uint8(0x02), result)
	assert.Equal(uint8(0x02), proc.Register[1])
}

func TestPcWraparound(t *testing.T) {
	assert := assert.New(t)

	proc := NewProc()

	for n := range 8 {
		assert.Equal(MakeAddr(uint8(n)), proc.Pc)
		proc.Step(MakeInstruction(OP_LOAD, 0, 0))
	}

	assert.Equal(Addr(0), proc.Pc)
	assert.Equal(8, proc.Ticks)
}

func TestPcVestigial(t *testing.T) {
	assert := assert.New(t)

	// The program counter advances every cycle but is never consulted
	// by decode: the same instruction behaves identically at any pc.
	for pc := range uint8(8) {
		proc := NewProc()
		proc.Pc = MakeAddr(pc)
		proc.Memory[1] = 0x5a

		result := proc.Step(MakeInstruction(OP_LOAD, 0, 1))

		assert.Equal(uint8(0x5a), result)
		assert.Equal(uint8(0x5a), proc.Register[0])
		assert.Equal(MakeAddr(pc+1), proc.Pc)
	}
}

func TestResultRetention(t *testing.T) {
	assert := assert.New(t)

	proc := NewProc()
	proc.Memory[1] = 0x5a

	proc.Step(MakeInstruction(OP_LOAD, 0, 1))
	assert.Equal(uint8(0x5a), proc.Result)

	// A LOAD of a zero cell still overwrites the result.
	proc.Step(MakeInstruction(OP_LOAD, 1, 2))
	assert.Equal(uint8(0x00), proc.Result)
}

func TestObserve(t *testing.T) {
	assert := assert.New(t)

	proc := NewProc()
	proc.Memory[3] = 0x42

	var seen []Instruction
	var results []uint8
	proc.Observe = func(code Instruction, result uint8) {
		seen = append(seen, code)
		results = append(results, result)
	}

	code := MakeInstruction(OP_LOAD, 2, 3)
	proc.Step(code)

	assert.Equal([]Instruction{code}, seen)
	assert.Equal([]uint8{0x42}, results)
}

func TestParseInstruction(t *testing.T) {
	assert := assert.New(t)

	code, err := ParseInstruction(0xff)
	assert.NoError(err)
	assert.Equal(Instruction(0xff), code)

	// Out-of-range values are rejected at the boundary, never truncated.
	_, err = ParseInstruction(0x100)
	assert.ErrorIs(err, ErrInstructionRange)

	_, err = ParseInstruction(0x15a)
	assert.ErrorIs(err, ErrInstructionRange)
}

func TestInstructionDecode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code Instruction
		op   Op
		reg  Addr
		mem  Addr
	}){
		{0x00, OP_LOAD, 0, 0},
		{0x01, OP_LOAD, 0, 1},
		{0x53, OP_STORE, 2, 3},
		{0x90, OP_ADD, 2, 0},
		{0xd9, OP_SUB, 3, 1},
		{0xff, OP_SUB, 7, 7},
	}

	for _, entry := range table {
		op, reg, mem := entry.code.Decode()
		assert.Equal(entry.op, op)
		assert.Equal(entry.reg, reg)
		assert.Equal(entry.mem, mem)
		assert.Equal(entry.code, MakeInstruction(op, reg, mem))
	}
}

func TestInstructionString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("load r0 m1", MakeInstruction(OP_LOAD, 0, 1).String())
	assert.Equal("store r2 m3", MakeInstruction(OP_STORE, 2, 3).String())
	assert.Equal("add r2 r0", MakeInstruction(OP_ADD, 2, 0).String())
	assert.Equal("sub r3 r1", MakeInstruction(OP_SUB, 3, 1).String())
}
