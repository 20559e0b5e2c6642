package externalapi

import (
	"encoding/json"

	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/pkg/errors"
)

// ByteArray is a byte string whose JSON form is an array of numbers, e.g.
// [53, 1, 144]. Lock scripts, unlock scripts and lock parameters use it.
type ByteArray []byte

// MarshalJSON renders b as an array of numbers. A nil ByteArray renders as [].
func (b ByteArray) MarshalJSON() ([]byte, error) {
	numbers := make([]uint16, len(b))
	for i, v := range b {
		numbers[i] = uint16(v)
	}
	return json.Marshal(numbers)
}

// UnmarshalJSON parses an array of numbers in the 0-255 range.
func (b *ByteArray) UnmarshalJSON(data []byte) error {
	var numbers []int
	err := json.Unmarshal(data, &numbers)
	if err != nil {
		return ruleerrors.Wrap(ruleerrors.ErrMalformedInput, err)
	}
	out := make(ByteArray, len(numbers))
	for i, n := range numbers {
		if n < 0 || n > 0xff {
			return errors.Wrapf(ruleerrors.ErrMalformedInput, "byte value %d out of range", n)
		}
		out[i] = byte(n)
	}
	*b = out
	return nil
}

// CloneByteArrays returns a deep copy of the given byte strings.
func CloneByteArrays(arrays []ByteArray) []ByteArray {
	if arrays == nil {
		return nil
	}
	clone := make([]ByteArray, len(arrays))
	for i, array := range arrays {
		clone[i] = append(ByteArray{}, array...)
	}
	return clone
}

// ByteArraysEqual returns whether the given byte string slices are equal.
func ByteArraysEqual(a, b []ByteArray) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if string(a[i]) != string(b[i]) {
			return false
		}
	}
	return true
}
