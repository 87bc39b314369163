package interpreter

import "github.com/resh-hvh/uvm/internal/isa"

// Stack is the LIFO value stack of a machine.
type Stack struct {
	data []int64
}

// Push adds a value on top of the stack.
func (s *Stack) Push(v int64) {
	s.data = append(s.data, v)
}

// Pop removes and returns the top value of the stack.
func (s *Stack) Pop() (int64, error) {
	if len(s.data) == 0 {
		return 0, isa.ErrEmptyStack
	}
	v := s.data[len(s.data)-1]
	s.data = s.data[:len(s.data)-1]
	return v, nil
}

// Peek returns the top value of the stack without removing it.
func (s *Stack) Peek() (int64, error) {
	if len(s.data) == 0 {
		return 0, isa.ErrEmptyStack
	}
	return s.data[len(s.data)-1], nil
}

// Len returns the number of values on the stack.
func (s *Stack) Len() int {
	return len(s.data)
}
