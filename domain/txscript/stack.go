package txscript

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// asBool gets the boolean value of the byte array. Any non-zero byte is true.
func asBool(t []byte) bool {
	for _, b := range t {
		if b != 0 {
			return true
		}
	}
	return false
}

// fromBool converts a boolean into the appropriate byte array.
func fromBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return nil
}

// stack represents a stack of immutable objects to be used with scripts.
// Objects may be shared, therefore in usage if a value is to be changed it
// *must* be deep-copied first to avoid changing other values on the stack.
type stack struct {
	stk [][]byte
}

// Depth returns the number of items on the stack.
func (s *stack) Depth() int {
	return len(s.stk)
}

// PushByteArray adds the given back array to the top of the stack.
//
// Stack transformation: [... x1 x2] -> [... x1 x2 data]
func (s *stack) PushByteArray(data []byte) error {
	if len(data) > MaxElementSize {
		str := fmt.Sprintf("element size %d exceeds max allowed size %d", len(data), MaxElementSize)
		return scriptError(ErrElementTooBig, str)
	}
	if len(s.stk) >= MaxStackSize {
		str := fmt.Sprintf("stack would exceed max allowed size %d", MaxStackSize)
		return scriptError(ErrStackOverflow, str)
	}
	s.stk = append(s.stk, append([]byte(nil), data...))
	return nil
}

// PushBool converts the provided boolean to a suitable byte array then pushes
// it onto the top of the stack.
//
// Stack transformation: [... x1 x2] -> [... x1 x2 bool]
func (s *stack) PushBool(val bool) error {
	return s.PushByteArray(fromBool(val))
}

// PopByteArray pops the value off the top of the stack and returns it.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2]
func (s *stack) PopByteArray() ([]byte, error) {
	return s.nipN(0)
}

// PopBool pops the value off the top of the stack, converts it into a bool, and
// returns it.
//
// Stack transformation: [... x1 x2 x3] -> [... x1 x2]
func (s *stack) PopBool() (bool, error) {
	so, err := s.PopByteArray()
	if err != nil {
		return false, err
	}
	return asBool(so), nil
}

// PeekByteArray returns the Nth item on the stack without removing it.
func (s *stack) PeekByteArray(idx int) ([]byte, error) {
	sz := len(s.stk)
	if idx < 0 || idx >= sz {
		str := fmt.Sprintf("index %d is invalid for stack size %d", idx, sz)
		return nil, scriptError(ErrInvalidStackOperation, str)
	}
	return s.stk[sz-idx-1], nil
}

// nipN is an internal function that removes the nth item on the stack and
// returns it.
//
// Stack transformation:
// nipN(0): [... x1 x2 x3] -> [... x1 x2]
// nipN(1): [... x1 x2 x3] -> [... x1 x3]
// nipN(2): [... x1 x2 x3] -> [... x2 x3]
func (s *stack) nipN(idx int) ([]byte, error) {
	sz := len(s.stk)
	if idx < 0 || idx > sz-1 {
		str := fmt.Sprintf("index %d is invalid for stack size %d", idx, sz)
		return nil, scriptError(ErrInvalidStackOperation, str)
	}

	so := s.stk[sz-idx-1]
	if idx == 0 {
		s.stk = s.stk[:sz-1]
	} else if idx == sz-1 {
		s.stk = s.stk[1:]
	} else {
		s1 := s.stk[sz-idx : sz]
		s.stk = s.stk[:sz-idx-1]
		s.stk = append(s.stk, s1...)
	}
	return so, nil
}

// RemoveN removes the Nth item on the stack.
//
// Stack transformation:
// RemoveN(1): [... x1 x2 x3] -> [... x1 x3]
func (s *stack) RemoveN(idx int) error {
	_, err := s.nipN(idx)
	return err
}

// CopyN pushes a copy of the Nth item on the stack. CopyN(0) duplicates the
// top item.
//
// Stack transformation:
// CopyN(1): [... x1 x2 x3] -> [... x1 x2 x3 x2]
func (s *stack) CopyN(idx int) error {
	so, err := s.PeekByteArray(idx)
	if err != nil {
		return err
	}
	return s.PushByteArray(so)
}

// Swap swaps the top two items on the stack.
//
// Stack transformation: [... x1 x2] -> [... x2 x1]
func (s *stack) Swap() error {
	sz := len(s.stk)
	if sz < 2 {
		str := fmt.Sprintf("attempt to swap with stack size %d", sz)
		return scriptError(ErrInvalidStackOperation, str)
	}
	s.stk[sz-1], s.stk[sz-2] = s.stk[sz-2], s.stk[sz-1]
	return nil
}

// String returns the stack in a readable format.
func (s *stack) String() string {
	var result strings.Builder
	for _, stack := range s.stk {
		if len(stack) == 0 {
			result.WriteString("00000000  <empty>\n")
		}
		result.WriteString(hex.Dump(stack))
	}
	return result.String()
}
