// Package disasm decodes a binary instruction stream back into instructions
// and writes them as source text that the assembler accepts again.
package disasm

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/resh-hvh/uvm/internal/isa"
	"github.com/resh-hvh/uvm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// Offset is a decoded record of the binary stream.
type Offset struct {
	Offset      int // byte offset of the opcode in the stream
	Instruction isa.Instruction
	Data        []byte // raw record bytes
}

// Disasm implements a disassembler.
type Disasm struct {
	logger  *log.Logger
	options options.Disassembler

	pc int // program counter
}

// New creates a new disassembler.
func New(logger *log.Logger, options options.Disassembler) *Disasm {
	return &Disasm{
		logger:  logger,
		options: options,
	}
}

// Process decodes the code and writes the listing to the writer.
func (dis *Disasm) Process(ctx context.Context, code []byte, writer io.Writer) ([]Offset, error) {
	offsets, err := dis.decode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := dis.writeListing(writer, offsets); err != nil {
		return nil, err
	}

	dis.logger.Debug("Disassembled binary",
		log.Int("bytes", len(code)),
		log.Int("instructions", len(offsets)))
	return offsets, nil
}

func (dis *Disasm) decode(ctx context.Context, code []byte) ([]Offset, error) {
	var offsets []Offset

	for dis.pc = 0; dis.pc < len(code); {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("decoding at offset %d: %w", dis.pc, err)
		}

		ins, err := isa.Decode(code, dis.pc)
		if err != nil {
			return nil, fmt.Errorf("decoding: %w", err)
		}

		size := ins.Opcode.RecordSize()
		offsets = append(offsets, Offset{
			Offset:      dis.pc,
			Instruction: ins,
			Data:        code[dis.pc : dis.pc+size],
		})
		dis.pc += size
	}
	return offsets, nil
}

func (dis *Disasm) writeListing(writer io.Writer, offsets []Offset) error {
	for _, offset := range offsets {
		if comment := dis.comment(offset); comment != "" {
			if _, err := fmt.Fprintf(writer, "# %s\n", comment); err != nil {
				return fmt.Errorf("writing comment: %w", err)
			}
		}
		if _, err := fmt.Fprintln(writer, offset.Instruction.String()); err != nil {
			return fmt.Errorf("writing instruction: %w", err)
		}
	}
	return nil
}

// comment returns the offset and hex bytes comment of an offset. Comments
// are written on their own line as the source format has no inline comments.
func (dis *Disasm) comment(offset Offset) string {
	var parts []string
	if dis.options.OffsetComments {
		parts = append(parts, fmt.Sprintf("$%04X", offset.Offset))
	}
	if dis.options.HexComments {
		parts = append(parts, fmt.Sprintf("% X", offset.Data))
	}
	return strings.Join(parts, " ")
}

// Disassemble decodes all records of code into instructions.
func Disassemble(code []byte) ([]isa.Instruction, error) {
	var instructions []isa.Instruction
	for pc := 0; pc < len(code); {
		ins, err := isa.Decode(code, pc)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, ins)
		pc += ins.Opcode.RecordSize()
	}
	return instructions, nil
}
