package disasm

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/resh-hvh/uvm/internal/assembler"
	"github.com/resh-hvh/uvm/internal/isa"
	"github.com/resh-hvh/uvm/internal/options"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

var testCode = []byte{
	181, 5, 0, 0, 0, 0, 0, 0, 0, // LOAD_CONST 5
	92, 10, 0, // WRITE_MEM 10
	120, 10, 0, // READ_MEM 10
	119, 0xff, 0x03, // UNARY_SGN 1023
}

var expectedDefault = `# $0000 B5 05 00 00 00 00 00 00 00
LOAD_CONST 5
# $0009 5C 0A 00
WRITE_MEM 10
# $000C 78 0A 00
READ_MEM 10
# $000F 77 FF 03
UNARY_SGN 1023
`

var expectedNoOffsetNoHex = `LOAD_CONST 5
WRITE_MEM 10
READ_MEM 10
UNARY_SGN 1023
`

func TestDisasm(t *testing.T) {
	tests := []struct {
		name     string
		options  options.Disassembler
		expected string
	}{
		{"default options", options.NewDisassembler(), expectedDefault},
		{"no comments", options.Disassembler{}, expectedNoOffsetNoHex},
		{"offsets only", options.Disassembler{OffsetComments: true}, "# $0000\nLOAD_CONST 5\n# $0009\nWRITE_MEM 10\n# $000C\nREAD_MEM 10\n# $000F\nUNARY_SGN 1023\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dis := New(log.NewTestLogger(t), tt.options)

			var buf bytes.Buffer
			offsets, err := dis.Process(context.Background(), testCode, &buf)
			assert.NoError(t, err)
			assert.Len(t, offsets, 4)
			assert.Equal(t, 15, offsets[3].Offset)
			assert.Equal(t, []byte{119, 0xff, 0x03}, offsets[3].Data)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestDisasm_ListingReassembles(t *testing.T) {
	dis := New(log.NewTestLogger(t), options.NewDisassembler())

	var buf bytes.Buffer
	_, err := dis.Process(context.Background(), testCode, &buf)
	assert.NoError(t, err)

	program, err := assembler.New(nil).AssembleReader(&buf)
	assert.NoError(t, err)
	assert.Equal(t, testCode, program.Code)
}

func TestDisasm_Errors(t *testing.T) {
	dis := New(log.NewTestLogger(t), options.NewDisassembler())

	var buf bytes.Buffer
	_, err := dis.Process(context.Background(), []byte{92, 0, 0, 181, 0}, &buf)
	assert.True(t, errors.Is(err, isa.ErrTruncatedStream))
	assert.Equal(t, "", buf.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = dis.Process(ctx, testCode, &buf)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDisassemble_RoundTrip(t *testing.T) {
	program, err := assembler.Assemble([]string{
		"LOAD_CONST 536870911",
		"LOAD_CONST 0",
		"WRITE_MEM 65535",
		"READ_MEM 0",
		"UNARY_SGN 12",
	})
	assert.NoError(t, err)

	instructions, err := Disassemble(program.Code)
	assert.NoError(t, err)
	assert.Len(t, instructions, len(program.Trace))
	for i, entry := range program.Trace {
		assert.Equal(t, entry.Mnemonic, instructions[i].Opcode.Name())
		assert.Equal(t, uint64(entry.Operand), instructions[i].Operand)
	}
}

func TestDisassemble_UnknownOpcode(t *testing.T) {
	_, err := Disassemble([]byte{92, 0, 0, 42})

	var decodeErr *isa.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, 3, decodeErr.Offset)
	assert.Equal(t, byte(42), decodeErr.Opcode)
	assert.True(t, errors.Is(err, isa.ErrUnknownOpcode))
}
