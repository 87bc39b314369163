package isa

import (
	"encoding/binary"
	"fmt"
)

// Instruction is a decoded opcode together with its operand.
type Instruction struct {
	Opcode  Opcode
	Operand uint64
}

// Validate checks that the opcode is known and that the operand fits
// into the bit width of the opcode.
func (i Instruction) Validate() error {
	if !i.Opcode.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownOpcode, byte(i.Opcode))
	}
	if i.Operand > i.Opcode.MaxOperand() {
		return fmt.Errorf("%w: %s operand %d exceeds %d bits",
			ErrOperandOverflow, i.Opcode, i.Operand, i.Opcode.OperandBits())
	}
	return nil
}

// Encode returns the binary record of the instruction.
func (i Instruction) Encode() ([]byte, error) {
	return i.AppendTo(make([]byte, 0, i.Opcode.RecordSize()))
}

// AppendTo appends the binary record of the instruction to buf.
func (i Instruction) AppendTo(buf []byte) ([]byte, error) {
	if err := i.Validate(); err != nil {
		return buf, err
	}

	buf = append(buf, byte(i.Opcode))
	switch i.Opcode {
	case LoadConst:
		buf = binary.LittleEndian.AppendUint64(buf, i.Operand)
	case ReadMem, WriteMem, UnarySgn:
		buf = binary.LittleEndian.AppendUint16(buf, uint16(i.Operand))
	default:
		return buf[:len(buf)-1], fmt.Errorf("%w: %d", ErrUnknownOpcode, byte(i.Opcode))
	}
	return buf, nil
}

// String returns the instruction in source text form.
func (i Instruction) String() string {
	return fmt.Sprintf("%s %d", i.Opcode, i.Operand)
}

// Decode decodes the binary record starting at offset of code.
// Errors are returned as *DecodeError carrying the offset and opcode byte.
func Decode(code []byte, offset int) (Instruction, error) {
	if offset < 0 || offset >= len(code) {
		return Instruction{}, &DecodeError{Offset: offset, Err: ErrTruncatedStream}
	}

	b := code[offset]
	op, err := LookupOpcode(b)
	if err != nil {
		return Instruction{}, &DecodeError{Offset: offset, Opcode: b, Err: err}
	}

	start := offset + 1
	end := start + op.OperandSize()
	if end > len(code) {
		return Instruction{}, &DecodeError{
			Offset: offset,
			Opcode: b,
			Err: fmt.Errorf("%w: %s needs %d operand bytes, %d remaining",
				ErrTruncatedStream, op, op.OperandSize(), len(code)-start),
		}
	}

	ins := Instruction{Opcode: op}
	switch op {
	case LoadConst:
		ins.Operand = binary.LittleEndian.Uint64(code[start:end])
	case ReadMem, WriteMem, UnarySgn:
		ins.Operand = uint64(binary.LittleEndian.Uint16(code[start:end]))
	default:
		return Instruction{}, &DecodeError{Offset: offset, Opcode: b, Err: ErrUnknownOpcode}
	}

	if err := ins.Validate(); err != nil {
		return Instruction{}, &DecodeError{Offset: offset, Opcode: b, Err: err}
	}
	return ins, nil
}
