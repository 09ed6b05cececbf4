package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Stimuli: []Stimulus{
			{LineNo: 1, Words: []string{".reset"}, Reset: true},
			{LineNo: 2, Words: []string{"load", "r0", "m1"},
				Pokes: []Poke{{Cell: 1, Value: 0x5a}},
				Code:  MakeInstruction(OP_LOAD, 0, 1)},
			{LineNo: 3, Words: []string{"add", "r2", "r0"},
				Code: MakeInstruction(OP_ADD, 2, 0)},
		},
	}

	assert.Equal(3, prog.Cycles())

	st := prog.Debug(0)
	assert.NotNil(st)
	assert.Equal(1, st.LineNo)
	assert.True(st.Reset)

	st = prog.Debug(1)
	assert.NotNil(st)
	assert.Equal(2, st.LineNo)
	assert.Equal(Instruction(0x01), st.Code)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Stimuli: []Stimulus{
			{LineNo: 1, Words: []string{"load", "r0", "m0"}},
		},
	}

	assert.Nil(prog.Debug(-1))
	assert.Nil(prog.Debug(10))
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Stimuli: []Stimulus{
			{LineNo: 1, Words: []string{".reset"}, Reset: true},
			{LineNo: 2, Words: []string{"load", "r0", "m1"},
				Code: MakeInstruction(OP_LOAD, 0, 1)},
			{LineNo: 3, Words: []string{"store", "r0", "m2"},
				Code: MakeInstruction(OP_STORE, 0, 2)},
		},
	}

	cycles := []int{}
	codes := []Instruction{}
	for cycle, code := range prog.Codes() {
		cycles = append(cycles, cycle)
		codes = append(codes, code)
	}

	// Reset cycles carry no instruction.
	assert.Equal([]int{1, 2}, cycles)
	assert.Equal([]Instruction{0x01, 0x42}, codes)
}
