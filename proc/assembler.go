// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package proc

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the stimulus language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler for the up8 stimulus language.
// Each assembled line is one clock cycle of stimulus.
type Assembler struct {
	Verbose  bool       // If set, verbosely logs the assembler actions.
	Stimulus []Stimulus // List of generated stimulus cycles.

	predefine map[string]string   // Predefines
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	pending []Poke // Pokes waiting for the next cycle.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names to addresses.
var regMap = map[string]Addr{
	"r0": Addr(0),
	"r1": Addr(1),
	"r2": Addr(2),
	"r3": Addr(3),
	"r4": Addr(4),
	"r5": Addr(5),
	"r6": Addr(6),
	"r7": Addr(7),
}

// memMap is a map of memory cell names to addresses.
var memMap = map[string]Addr{
	"m0": Addr(0),
	"m1": Addr(1),
	"m2": Addr(2),
	"m3": Addr(3),
	"m4": Addr(4),
	"m5": Addr(5),
	"m6": Addr(6),
	"m7": Addr(7),
}

// opMap is a map of mnemonics to opcodes.
var opMap = map[string]Op{
	"load":  OP_LOAD,
	"store": OP_STORE,
	"add":   OP_ADD,
	"sub":   OP_SUB,
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	v64, err := strconv.ParseInt(word, 0, 33)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 < 0 {
		// 8-bit two's complement
		v64 += 0x100
	}
	if v64 < 0 {
		err = ErrValueRange
		return
	}

	value = uint32(v64)
	if invert {
		value = ^value & 0xff
	}

	return
}

// parseByte returns an 8-bit value for a word, rejecting wider values.
func (asm *Assembler) parseByte(word string) (value uint8, err error) {
	v32, err := asm.valueOf(word)
	if err != nil {
		return
	}
	if v32 > 0xff {
		err = ErrValueRange
		return
	}

	value = uint8(v32)
	return
}

// getRegister gets the register address for a word.
func (asm *Assembler) getRegister(word string) (reg Addr, err error) {
	reg, ok := regMap[word]
	if ok {
		return
	}
	value, err := asm.valueOf(word)
	if err != nil {
		err = ErrRegisterInvalid
		return
	}

	if value > 7 {
		err = ErrRegisterInvalid
		return
	}

	reg = Addr(value)

	return
}

// getMemory gets the memory cell address for a word.
func (asm *Assembler) getMemory(word string) (mem Addr, err error) {
	mem, ok := memMap[word]
	if ok {
		return
	}
	value, err := asm.valueOf(word)
	if err != nil {
		err = ErrMemoryInvalid
		return
	}

	if value > 7 {
		err = ErrMemoryInvalid
		return
	}

	mem = Addr(value)

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// parseLine parses a single line as a stimulus cycle.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		if len(word) == 0 {
			continue
		}

		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// emit appends a stimulus cycle, attaching any pending pokes.
func (asm *Assembler) emit(st Stimulus) {
	st.Pokes = asm.pending
	asm.pending = nil
	asm.Stimulus = append(asm.Stimulus, st)
}

// parseWords evaluates the words in a line of stimulus text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	switch words[0] {
	case ".reset":
		if len(words) != 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		asm.emit(Stimulus{LineNo: lineno, Words: words, Reset: true})
		return
	case ".poke":
		// .poke CELL VALUE - pre-seed memory before the next cycle's edge.
		if len(words) != 3 {
			err = ErrPokeSyntax
			return
		}
		var cell Addr
		cell, err = asm.getMemory(words[1])
		if err != nil {
			return
		}
		var value uint8
		value, err = asm.parseByte(words[2])
		if err != nil {
			return
		}
		asm.pending = append(asm.pending, Poke{Cell: cell, Value: value})
		return
	}

	op, is_op := opMap[words[0]]
	if !is_op {
		// A bare numeric word assembles the instruction byte directly.
		if len(words) != 1 {
			err = ErrOpcodeInvalid
			return
		}
		var value uint32
		value, err = asm.valueOf(words[0])
		if err != nil {
			return
		}
		var code Instruction
		code, err = ParseInstruction(uint64(value))
		if err != nil {
			return
		}
		asm.emit(Stimulus{LineNo: lineno, Words: words, Code: code})
		return
	}

	if len(words) < 3 {
		err = ErrOpcodeMissing
		return
	}
	if len(words) > 3 {
		err = ErrOpcodeExtraArgs
		return
	}

	var reg Addr
	reg, err = asm.getRegister(words[1])
	if err != nil {
		return
	}

	var mem Addr
	switch op {
	case OP_ADD, OP_SUB:
		// Second operand indexes the register file.
		mem, err = asm.getRegister(words[2])
	default:
		mem, err = asm.getMemory(words[2])
	}
	if err != nil {
		return
	}

	asm.emit(Stimulus{LineNo: lineno, Words: words, Code: MakeInstruction(op, reg, mem)})

	return
}

// Parse parses an input stream into a Program containing stimulus cycles.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Stimulus = asm.Stimulus[:0]
	asm.pending = nil
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		all_words := strings.Split(line, " ")

		var words []string
		for _, single := range all_words {
			if len(single) > 0 {
				words = append(words, single)
			}
		}

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	if len(asm.pending) != 0 {
		err = ErrPokeDangling
		return
	}

	prog = &Program{
		Stimuli: slices.Clone(asm.Stimulus),
	}

	return
}
