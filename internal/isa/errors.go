package isa

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownInstruction     = errors.New("unknown instruction")
	ErrMalformedInstruction   = errors.New("malformed instruction")
	ErrUnknownOpcode          = errors.New("unknown opcode")
	ErrTruncatedStream        = errors.New("truncated stream")
	ErrOperandOverflow        = errors.New("operand overflow")
	ErrOutOfRangeMemoryAccess = errors.New("out of range memory access")
	ErrRange                  = errors.New("invalid memory range")
	ErrEmptyStack             = errors.New("pop from empty stack")
)

// DecodeError reports a failure while decoding or executing the record
// that starts at Offset.
type DecodeError struct {
	Offset int
	Opcode byte
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("offset %d, opcode %d: %v", e.Offset, e.Opcode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
