package cpu

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// ParseBinary reads the plain-text program format: one byte per line as
// eight binary digits, with '#' starting a comment. Blank lines are skipped.
func ParseBinary(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	prog = &Program{}
	address := 0

	for scanner.Scan() {
		text := scanner.Text()
		lineno++

		line, _, _ = strings.Cut(text, "#")
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		if len(line) != 8 || strings.Trim(line, "01") != "" {
			err = ErrParseBinary
			return
		}

		var value uint64
		value, err = strconv.ParseUint(line, 2, 8)
		if err != nil {
			err = ErrParseBinary
			return
		}

		if address >= MEMORY_SIZE {
			err = ErrTooLarge
			return
		}

		prog.Statements = append(prog.Statements, Statement{
			LineNo:  lineno,
			Address: address,
			Words:   []string{line},
			Bytes:   []byte{byte(value)},
		})
		address++
	}

	err = scanner.Err()
	return
}
