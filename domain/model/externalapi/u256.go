package externalapi

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/pkg/errors"
)

// U256 is an unsigned 256-bit integer used for nonces, fees and payment
// amounts. The zero value is 0.
type U256 struct {
	value uint256.Int
}

// NewU256 returns a U256 holding v.
func NewU256(v uint64) U256 {
	var u U256
	u.value.SetUint64(v)
	return u
}

// NewU256FromBytes interprets b as a big-endian unsigned integer of at most
// 32 bytes.
func NewU256FromBytes(b []byte) (U256, error) {
	if len(b) > H256Size {
		return U256{}, errors.Wrapf(ruleerrors.ErrMalformedInput,
			"U256 can hold at most %d bytes, got %d", H256Size, len(b))
	}
	var u U256
	u.value.SetBytes(b)
	return u, nil
}

// NewU256FromString parses a decimal string, or a hex string when prefixed with 0x.
func NewU256FromString(s string) (U256, error) {
	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		digits = s[2:]
	}
	bigValue, ok := new(big.Int).SetString(digits, base)
	if !ok || digits == "" || strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
		return U256{}, errors.Wrapf(ruleerrors.ErrMalformedInput, "invalid U256 string %q", s)
	}
	value, overflow := uint256.FromBig(bigValue)
	if overflow {
		return U256{}, errors.Wrapf(ruleerrors.ErrMalformedInput, "U256 overflow: %s", s)
	}
	return U256{value: *value}, nil
}

// Bytes returns the minimal big-endian representation. Zero is the empty slice.
func (u U256) Bytes() []byte {
	return u.value.Bytes()
}

// Uint64 returns the value as uint64 and whether it fits.
func (u U256) Uint64() (uint64, bool) {
	return u.value.Uint64(), u.value.IsUint64()
}

// IsZero returns whether u is 0.
func (u U256) IsZero() bool {
	return u.value.IsZero()
}

// Cmp compares u and other and returns -1, 0 or +1.
func (u U256) Cmp(other U256) int {
	return u.value.Cmp(&other.value)
}

// Equal returns whether u equals to other.
func (u U256) Equal(other U256) bool {
	return u.value.Eq(&other.value)
}

// String returns the decimal representation.
func (u U256) String() string {
	return u.value.ToBig().String()
}

// MarshalJSON renders the value as a decimal string.
func (u U256) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON accepts a decimal or 0x-hex string, or a plain JSON number.
func (u *U256) UnmarshalJSON(data []byte) error {
	var s string
	if len(data) > 0 && data[0] == '"' {
		err := json.Unmarshal(data, &s)
		if err != nil {
			return ruleerrors.Wrap(ruleerrors.ErrMalformedInput, err)
		}
	} else {
		s = string(data)
	}
	parsed, err := NewU256FromString(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
