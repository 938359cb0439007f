// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

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

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = func() map[string]string {
	equ := maps.Clone(_cpu_defines)
	equ["LINENO"] = "0"
	return equ
}()

// Assembler is a single pass macro assembler for the LS-8.
type Assembler struct {
	Verbose   bool        // If set, verbosely logs the assembler actions.
	Statement []Statement // List of generated statements.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	origin     int // Address set by the last .org
	expansions int // Macro expansions so far, for '@' local labels.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names to register numbers.
var regMap = map[string]byte{
	"R0": 0,
	"R1": 1,
	"R2": 2,
	"R3": 3,
	"R4": 4,
	"R5": REG_IM,
	"R6": REG_IS,
	"R7": REG_SP,
	"IM": REG_IM,
	"IS": REG_IS,
	"SP": REG_SP,
}

// valueOf returns the byte value of a numeric word.
// Negative values down to -128 are stored in two's complement.
func (asm *Assembler) valueOf(word string) (value byte, err error) {
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}

	v64, err := strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 < -0x80 || v64 > 0xff {
		err = ErrValueRange
		return
	}

	value = byte(v64)
	if invert {
		value = ^value
	}

	return
}

// isLabel is true if the word could name a label.
func isLabel(word string) bool {
	return labelRe.MatchString(word)
}

var labelRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, address := range asm.Label {
		pred[key] = starlark.MakeInt(address)
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
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var (
	dsRe    = regexp.MustCompile(`(?i)^((?:\S+:\s*)*)DS(?:\s+(.*))?$`)
	charRe  = regexp.MustCompile(`'\\?[^']'`)
	parenRe = regexp.MustCompile(`\$\([^\$]*\)`)
)

// splitWords splits a line on spaces and commas.
func splitWords(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
}

// parseLine parses a single line into words, handling equates, labels and
// macro expansion.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// DS keeps its text verbatim; only its labels are parsed.
	if m := dsRe.FindStringSubmatch(line); m != nil {
		words, err = asm.parseLine(m[1], lineno)
		if err != nil {
			return
		}
		if len(words) != 0 {
			err = ErrInstructionInvalid
			return
		}
		words = []string{"DS", m[2]}
		return
	}

	// Do 'x' evaluations
	line = charRe.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "t":
				str = "\t"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = splitWords(line)

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
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !isLabel(label) {
			err = ErrLabelMissing(label)
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.currentAddress()
		words = words[1:]
		if len(words) == 0 {
			return
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

		asm.expansions++
		local := fmt.Sprintf("%v_%v_", name, asm.expansions)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
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

// currentAddress gets the address of the next statement.
func (asm *Assembler) currentAddress() int {
	if len(asm.Statement) == 0 {
		return asm.origin
	}

	last := asm.Statement[len(asm.Statement)-1]

	return max(asm.origin, last.Address+len(last.Bytes))
}

// Parse parses an input stream into a Program.
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

	asm.Label = make(map[string]int, 16)
	asm.Statement = asm.Statement[:0]
	asm.origin = 0
	asm.expansions = 0
	asm.Macro = make(map[string](*Macro))
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

		line, _, _ = strings.Cut(text, ";")
		line = strings.TrimSpace(line)
		words := splitWords(line)

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

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Statement {
		st := &asm.Statement[n]

		for _, link := range st.Links {
			address, ok := asm.Label[link.Label]
			if !ok {
				lineno = st.LineNo
				line = strings.Join(st.Words, " ")
				err = ErrLabelMissing(link.Label)
				return
			}
			if address >= MEMORY_SIZE {
				lineno = st.LineNo
				line = strings.Join(st.Words, " ")
				err = ErrValueRange
				return
			}
			st.Bytes[link.Index] = byte(address)
		}
	}

	prog = &Program{
		Statements: slices.Clone(asm.Statement),
	}

	if prog.Size() > MEMORY_SIZE {
		err = ErrTooLarge
		return
	}

	return
}

// register decodes a register operand.
func (asm *Assembler) register(word string) (reg byte, err error) {
	reg, ok := regMap[strings.ToUpper(word)]
	if !ok {
		err = ErrRegisterInvalid
		return
	}
	return
}

// immediate decodes a numeric operand, or records a link to a label.
func (asm *Assembler) immediate(word string, index int, links []Link) (value byte, out []Link, err error) {
	out = links
	value, err = asm.valueOf(word)
	if err == nil {
		return
	}

	if !isLabel(word) {
		return
	}

	err = nil
	out = append(out, Link{Index: index, Label: word})
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []byte
	var links []Link

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || len(codes) == 0 {
			return
		}
		st := Statement{LineNo: lineno, Address: asm.currentAddress(), Words: initial_words, Bytes: codes, Links: links}
		asm.Statement = append(asm.Statement, st)
	}()

	switch strings.ToUpper(words[0]) {
	case ".ORG":
		if len(words) != 2 {
			err = ErrOpcodeMissing
			return
		}
		var origin int64
		origin, err = strconv.ParseInt(words[1], 0, 64)
		if err != nil {
			err = ErrParseNumber(words[1])
			return
		}
		if origin < int64(asm.currentAddress()) || origin > MEMORY_SIZE {
			err = ErrValueRange
			return
		}
		asm.origin = int(origin)
		return
	case "DB":
		if len(words) < 2 {
			err = ErrOpcodeMissing
			return
		}
		for n, word := range words[1:] {
			var value byte
			value, links, err = asm.immediate(word, n, links)
			if err != nil {
				return
			}
			codes = append(codes, value)
		}
		return
	case "DS":
		text := words[1]
		if unquoted, uerr := strconv.Unquote(text); uerr == nil {
			text = unquoted
		}
		codes = []byte(text)
		return
	}

	op, ok := Lookup(words[0])
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	args := words[1:]
	if len(args) < op.Operands() {
		err = ErrOpcodeMissing
		return
	}
	if len(args) > op.Operands() {
		err = ErrOpcodeExtraArgs
		return
	}

	codes = append(codes, byte(op))
	for n, arg := range args {
		var value byte
		switch op.OperandKind(n) {
		case OPERAND_IMMEDIATE:
			value, links, err = asm.immediate(arg, 1+n, links)
		default:
			value, err = asm.register(arg)
		}
		if err != nil {
			codes = nil
			return
		}
		codes = append(codes, value)
	}

	return
}
