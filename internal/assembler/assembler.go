// Package assembler translates source text into the binary instruction stream.
package assembler

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/resh-hvh/uvm/internal/isa"
	"github.com/retroenv/retrogolib/log"
)

// CommentPrefix starts a line that is ignored by the assembler.
const CommentPrefix = "#"

// TraceEntry records a single encoded instruction.
type TraceEntry struct {
	Mnemonic string
	Operand  int64
	Binary   []byte
}

// Program is the output of an assembler run.
type Program struct {
	Code  []byte       // concatenated binary records
	Trace []TraceEntry // one entry per encoded instruction, in source order
}

// Assembler encodes instructions and keeps a trace of everything it encoded.
// An Assembler is meant to be used for a single run.
type Assembler struct {
	logger *log.Logger
	code   []byte
	trace  []TraceEntry
}

// New returns a new assembler. The logger is optional.
func New(logger *log.Logger) *Assembler {
	return &Assembler{
		logger: logger,
	}
}

// AssembleInstruction encodes a single instruction, appends it to the
// trace and returns its binary record.
func (a *Assembler) AssembleInstruction(mnemonic string, operand int64) ([]byte, error) {
	op, err := isa.LookupMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}
	if operand < 0 {
		return nil, fmt.Errorf("%w: %s operand %d is negative", isa.ErrOperandOverflow, mnemonic, operand)
	}

	ins := isa.Instruction{Opcode: op, Operand: uint64(operand)}
	record, err := ins.Encode()
	if err != nil {
		return nil, err
	}

	a.code = append(a.code, record...)
	a.trace = append(a.trace, TraceEntry{
		Mnemonic: mnemonic,
		Operand:  operand,
		Binary:   record,
	})

	if a.logger != nil {
		a.logger.Debug("Encoded instruction",
			log.String("mnemonic", mnemonic),
			log.Int("operand", int(operand)),
			log.String("binary", fmt.Sprintf("% X", record)))
	}
	return record, nil
}

// Assemble encodes all source lines and returns the resulting program.
// Errors are returned as *LineError identifying the offending line.
func (a *Assembler) Assemble(lines []string) (*Program, error) {
	for i, line := range lines {
		if err := a.assembleLine(line); err != nil {
			return nil, &LineError{Line: i + 1, Text: strings.TrimSpace(line), Err: err}
		}
	}
	return a.Program(), nil
}

// AssembleReader reads source lines from reader and assembles them.
func (a *Assembler) AssembleReader(reader io.Reader) (*Program, error) {
	lines, err := ReadLines(reader)
	if err != nil {
		return nil, err
	}
	return a.Assemble(lines)
}

// ReadLines splits the source text of reader into lines.
func ReadLines(reader io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	return lines, nil
}

// Program returns the code and trace encoded so far.
func (a *Assembler) Program() *Program {
	code := make([]byte, len(a.code))
	copy(code, a.code)
	trace := make([]TraceEntry, len(a.trace))
	copy(trace, a.trace)

	return &Program{
		Code:  code,
		Trace: trace,
	}
}

func (a *Assembler) assembleLine(line string) error {
	mnemonic, operand, ok, err := parseLine(line)
	if err != nil || !ok {
		return err
	}
	_, err = a.AssembleInstruction(mnemonic, operand)
	return err
}

// parseLine splits a source line into mnemonic and operand. The returned
// bool is false for lines that carry no instruction.
func parseLine(line string) (string, int64, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, CommentPrefix) {
		return "", 0, false, nil
	}

	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", 0, false, fmt.Errorf("%w: expected 2 tokens, found %d", isa.ErrMalformedInstruction, len(fields))
	}

	operand, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return "", 0, false, fmt.Errorf("%w: invalid operand '%s'", isa.ErrMalformedInstruction, fields[1])
	}
	return fields[0], operand, true, nil
}

// Assemble is a helper that assembles the lines using a new assembler.
func Assemble(lines []string) (*Program, error) {
	return New(nil).Assemble(lines)
}
