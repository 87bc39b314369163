package interpreter

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/resh-hvh/uvm/internal/assembler"
	"github.com/resh-hvh/uvm/internal/isa"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func assemble(t *testing.T, source string) []byte {
	t.Helper()

	program, err := assembler.Assemble(strings.Split(source, "\n"))
	assert.NoError(t, err)
	return program.Code
}

func TestRun_LoadAndWrite(t *testing.T) {
	code := []byte{181, 5, 0, 0, 0, 0, 0, 0, 0, 92, 10, 0}

	result, err := Run(code, 10, 11)
	assert.NoError(t, err)
	assert.Equal(t, []int64{5}, result)
}

func TestRun_SignOfZero(t *testing.T) {
	code := assemble(t, "LOAD_CONST 0\nUNARY_SGN 0\n")

	result, err := Run(code, 0, 1)
	assert.NoError(t, err)
	assert.Equal(t, []int64{0}, result)
}

func TestRun_ReadMem(t *testing.T) {
	code := assemble(t, `LOAD_CONST 123
WRITE_MEM 1023
READ_MEM 1023
WRITE_MEM 0
READ_MEM 5
UNARY_SGN 1
READ_MEM 0
UNARY_SGN 2`)

	m := New(WithLogger(log.NewTestLogger(t)))
	assert.NoError(t, m.Execute(code))

	result, err := m.Memory(0, 3)
	assert.NoError(t, err)
	assert.Equal(t, []int64{123, 0, 1}, result)

	last, err := m.Memory(1023, 1024)
	assert.NoError(t, err)
	assert.Equal(t, []int64{123}, last)
	assert.Equal(t, 0, m.Stack().Len())
}

func TestRun_EmptyProgram(t *testing.T) {
	result, err := Run(nil, 0, 4)
	assert.NoError(t, err)
	assert.Equal(t, []int64{0, 0, 0, 0}, result)
}

func TestRun_LeavesUnpoppedValues(t *testing.T) {
	m := New()
	assert.NoError(t, m.Execute(assemble(t, "LOAD_CONST 1\nLOAD_CONST 2")))

	v, err := m.Stack().Peek()
	assert.NoError(t, err)
	assert.Equal(t, int64(2), v)
	assert.Equal(t, 2, m.Stack().Len())
}

func TestSign(t *testing.T) {
	tests := []struct {
		value    int64
		expected int64
	}{
		{math.MinInt64, -1},
		{-5, -1},
		{-1, -1},
		{0, 0},
		{1, 1},
		{1<<29 - 1, 1},
		{math.MaxInt64, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, sign(tt.value))
	}
}

func TestUnarySgn_FromMemory(t *testing.T) {
	m := New()
	m.memory[7] = -42
	m.stack.Push(-42)

	assert.NoError(t, m.Execute([]byte{119, 8, 0}))
	result, err := m.Memory(7, 9)
	assert.NoError(t, err)
	assert.Equal(t, []int64{-42, -1}, result)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name   string
		code   []byte
		offset int
		err    error
	}{
		{
			name:   "write with empty stack",
			code:   []byte{92, 0, 0},
			offset: 0,
			err:    isa.ErrEmptyStack,
		},
		{
			name:   "sign with empty stack",
			code:   []byte{181, 1, 0, 0, 0, 0, 0, 0, 0, 92, 0, 0, 119, 0, 0},
			offset: 12,
			err:    isa.ErrEmptyStack,
		},
		{
			name:   "dangling load const",
			code:   []byte{181, 1, 0, 0},
			offset: 0,
			err:    isa.ErrTruncatedStream,
		},
		{
			name:   "dangling write mem",
			code:   []byte{181, 1, 0, 0, 0, 0, 0, 0, 0, 92, 1},
			offset: 9,
			err:    isa.ErrTruncatedStream,
		},
		{
			name:   "unknown opcode",
			code:   []byte{181, 1, 0, 0, 0, 0, 0, 0, 0, 0xff},
			offset: 9,
			err:    isa.ErrUnknownOpcode,
		},
		{
			name:   "read out of range",
			code:   []byte{120, 0x00, 0x04},
			offset: 0,
			err:    isa.ErrOutOfRangeMemoryAccess,
		},
		{
			name:   "write out of range",
			code:   []byte{181, 1, 0, 0, 0, 0, 0, 0, 0, 92, 0xff, 0xff},
			offset: 9,
			err:    isa.ErrOutOfRangeMemoryAccess,
		},
		{
			name:   "sign out of range",
			code:   []byte{181, 1, 0, 0, 0, 0, 0, 0, 0, 119, 0x00, 0x04},
			offset: 9,
			err:    isa.ErrOutOfRangeMemoryAccess,
		},
		{
			name:   "wide operand overflow",
			code:   []byte{181, 0, 0, 0, 0x20, 0, 0, 0, 0},
			offset: 0,
			err:    isa.ErrOperandOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Run(tt.code, 0, 1)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, tt.err))

			var decodeErr *isa.DecodeError
			assert.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, tt.offset, decodeErr.Offset)
			assert.Equal(t, tt.code[tt.offset], decodeErr.Opcode)
		})
	}
}

func TestMemory_Range(t *testing.T) {
	m := New()

	tests := []struct {
		name  string
		start int
		end   int
		valid bool
	}{
		{"full memory", 0, 1024, true},
		{"empty range", 5, 5, true},
		{"empty at end", 1024, 1024, true},
		{"negative start", -1, 2, false},
		{"end past memory", 1000, 1025, false},
		{"start after end", 10, 9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := m.Memory(tt.start, tt.end)
			if tt.valid {
				assert.NoError(t, err)
				assert.Len(t, result, tt.end-tt.start)
				return
			}
			assert.True(t, errors.Is(err, isa.ErrRange))
		})
	}
}

func TestMemory_ReturnsCopy(t *testing.T) {
	m := New()
	result, err := m.Memory(0, 1)
	assert.NoError(t, err)
	result[0] = 99
	assert.Equal(t, int64(0), m.memory[0])
}

func TestRun_IndependentMachines(t *testing.T) {
	code := assemble(t, "LOAD_CONST 9\nWRITE_MEM 3")

	first, err := Run(code, 3, 4)
	assert.NoError(t, err)
	second, err := Run(nil, 3, 4)
	assert.NoError(t, err)

	assert.Equal(t, []int64{9}, first)
	assert.Equal(t, []int64{0}, second)
}
