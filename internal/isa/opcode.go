// Package isa defines the instruction set shared by the assembler and the interpreter.
package isa

import "fmt"

// Opcode is the single byte tag that starts every binary record.
type Opcode byte

const (
	LoadConst Opcode = 181 // push operand: LOAD_CONST <value:u64, 29 bits significant>
	ReadMem   Opcode = 120 // push memory[address]: READ_MEM <address:u16>
	WriteMem  Opcode = 92  // pop, store to memory[address]: WRITE_MEM <address:u16>
	UnarySgn  Opcode = 119 // pop, store sign to memory[address]: UNARY_SGN <address:u16>
)

// MemorySize is the number of memory cells of the machine.
const MemorySize = 1024

// Operand bit widths.
const (
	WideOperandBits   = 29
	NarrowOperandBits = 16
)

// Operand field sizes in bytes.
const (
	wideOperandSize   = 8
	narrowOperandSize = 2
)

// OpcodeInfo describes the record layout of an opcode.
type OpcodeInfo struct {
	Name        string // mnemonic as written in source text
	OperandSize int    // operand field size in bytes
	OperandBits int    // number of significant operand bits
}

// Opcodes maps all valid opcode bytes to their record layout.
var Opcodes = map[Opcode]OpcodeInfo{
	LoadConst: {Name: "LOAD_CONST", OperandSize: wideOperandSize, OperandBits: WideOperandBits},
	ReadMem:   {Name: "READ_MEM", OperandSize: narrowOperandSize, OperandBits: NarrowOperandBits},
	WriteMem:  {Name: "WRITE_MEM", OperandSize: narrowOperandSize, OperandBits: NarrowOperandBits},
	UnarySgn:  {Name: "UNARY_SGN", OperandSize: narrowOperandSize, OperandBits: NarrowOperandBits},
}

// Mnemonics maps the source text mnemonics to their opcode.
var Mnemonics = map[string]Opcode{}

func init() {
	for op, info := range Opcodes {
		Mnemonics[info.Name] = op
	}
}

// LookupMnemonic returns the opcode for the given mnemonic.
// Mnemonics are case sensitive.
func LookupMnemonic(mnemonic string) (Opcode, error) {
	op, ok := Mnemonics[mnemonic]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownInstruction, mnemonic)
	}
	return op, nil
}

// LookupOpcode converts a raw byte into a known opcode.
func LookupOpcode(b byte) (Opcode, error) {
	op := Opcode(b)
	if !op.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownOpcode, b)
	}
	return op, nil
}

// Valid returns whether the opcode is part of the instruction set.
func (o Opcode) Valid() bool {
	_, ok := Opcodes[o]
	return ok
}

// Name returns the mnemonic of the opcode or an empty string for unknown opcodes.
func (o Opcode) Name() string {
	return Opcodes[o].Name
}

// OperandSize returns the size of the operand field in bytes.
func (o Opcode) OperandSize() int {
	return Opcodes[o].OperandSize
}

// OperandBits returns the number of significant operand bits.
func (o Opcode) OperandBits() int {
	return Opcodes[o].OperandBits
}

// RecordSize returns the total size of a binary record for this opcode.
func (o Opcode) RecordSize() int {
	return 1 + o.OperandSize()
}

// MaxOperand returns the highest operand value that the opcode can carry.
func (o Opcode) MaxOperand() uint64 {
	return 1<<o.OperandBits() - 1
}

func (o Opcode) String() string {
	if name := o.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("Opcode(%d)", byte(o))
}
