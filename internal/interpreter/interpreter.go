// Package interpreter executes a binary instruction stream against a stack
// and a fixed size memory.
package interpreter

import (
	"fmt"

	"github.com/resh-hvh/uvm/internal/isa"
	"github.com/retroenv/retrogolib/log"
)

// Machine holds the state of a single execution run.
type Machine struct {
	logger *log.Logger
	stack  Stack
	memory [isa.MemorySize]int64
	pc     int
}

// Option configures a machine.
type Option func(*Machine)

// WithLogger enables debug logging of every executed instruction.
func WithLogger(logger *log.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// New returns a machine with an empty stack and zeroed memory.
func New(opts ...Option) *Machine {
	m := &Machine{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Execute decodes and executes all records of code in a single pass.
// Any failure aborts the run and is returned as *isa.DecodeError.
func (m *Machine) Execute(code []byte) error {
	for m.pc = 0; m.pc < len(code); {
		ins, err := isa.Decode(code, m.pc)
		if err != nil {
			return err
		}

		if m.logger != nil {
			m.logger.Debug("Executing instruction",
				log.Int("pc", m.pc),
				log.String("instruction", ins.String()),
				log.Int("stack", m.stack.Len()))
		}

		if err := m.step(ins); err != nil {
			return &isa.DecodeError{Offset: m.pc, Opcode: byte(ins.Opcode), Err: err}
		}
		m.pc += ins.Opcode.RecordSize()
	}
	return nil
}

func (m *Machine) step(ins isa.Instruction) error {
	switch ins.Opcode {
	case isa.LoadConst:
		m.stack.Push(int64(ins.Operand))
		return nil
	case isa.ReadMem:
		return m.readMem(ins.Operand)
	case isa.WriteMem:
		return m.writeMem(ins.Operand)
	case isa.UnarySgn:
		return m.unarySgn(ins.Operand)
	default:
		return fmt.Errorf("%w: %d", isa.ErrUnknownOpcode, byte(ins.Opcode))
	}
}

func (m *Machine) readMem(address uint64) error {
	if err := checkAddress(address); err != nil {
		return err
	}
	m.stack.Push(m.memory[address])
	return nil
}

func (m *Machine) writeMem(address uint64) error {
	if err := checkAddress(address); err != nil {
		return err
	}
	v, err := m.stack.Pop()
	if err != nil {
		return err
	}
	m.memory[address] = v
	return nil
}

func (m *Machine) unarySgn(address uint64) error {
	if err := checkAddress(address); err != nil {
		return err
	}
	v, err := m.stack.Pop()
	if err != nil {
		return err
	}
	m.memory[address] = sign(v)
	return nil
}

func checkAddress(address uint64) error {
	if address >= isa.MemorySize {
		return fmt.Errorf("%w: address %d, memory size %d", isa.ErrOutOfRangeMemoryAccess, address, isa.MemorySize)
	}
	return nil
}

func sign(v int64) int64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Memory returns a copy of the memory cells in the half open range [start, end).
func (m *Machine) Memory(start, end int) ([]int64, error) {
	if start < 0 || end > isa.MemorySize || start > end {
		return nil, fmt.Errorf("%w: [%d, %d) not within [0, %d]", isa.ErrRange, start, end, isa.MemorySize)
	}
	result := make([]int64, end-start)
	copy(result, m.memory[start:end])
	return result, nil
}

// Stack returns the value stack of the machine.
func (m *Machine) Stack() *Stack {
	return &m.stack
}

// Run executes code on a new machine and returns the memory range [start, end).
func Run(code []byte, start, end int, opts ...Option) ([]int64, error) {
	m := New(opts...)
	if err := m.Execute(code); err != nil {
		return nil, err
	}
	return m.Memory(start, end)
}
