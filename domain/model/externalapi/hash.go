package externalapi

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/pkg/errors"
)

// Sizes of the fixed-width values.
const (
	H160Size = 20
	H256Size = 32
	H512Size = 64
)

// H160 is a 20-byte value. It is used for account ids.
type H160 [H160Size]byte

// H256 is a 32-byte value. It is used for content hashes, asset types,
// lock script hashes and private keys.
type H256 [H256Size]byte

// H512 is a 64-byte value. It is used for secp256k1 public keys in their
// uncompressed form without the leading 0x04 marker.
type H512 [H512Size]byte

// AccountID identifies a key holder. It is ripemd160(blake256(publicKey)).
type AccountID = H160

// AssetType identifies a fungible asset class.
type AssetType = H256

// decodeFixedHex decodes a hex string with an optional 0x prefix into dst,
// requiring exactly len(dst) bytes.
func decodeFixedHex(dst []byte, s string) error {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != len(dst)*2 {
		return errors.Wrapf(ruleerrors.ErrMalformedInput,
			"hex string length is %d, while it should be %d", len(s), len(dst)*2)
	}
	_, err := hex.Decode(dst, []byte(s))
	if err != nil {
		return ruleerrors.Wrap(ruleerrors.ErrMalformedInput, err)
	}
	return nil
}

func copyFixed(dst []byte, src []byte) error {
	if len(src) != len(dst) {
		return errors.Wrapf(ruleerrors.ErrMalformedInput,
			"invalid size. Want: %d, got: %d", len(dst), len(src))
	}
	copy(dst, src)
	return nil
}

func marshalHexJSON(b []byte) ([]byte, error) {
	out := make([]byte, 0, len(b)*2+4)
	out = append(out, `"0x`...)
	out = append(out, hex.EncodeToString(b)...)
	out = append(out, '"')
	return out, nil
}

func unmarshalHexJSON(dst []byte, data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.Wrapf(ruleerrors.ErrMalformedInput, "expected a JSON string, got %s", data)
	}
	return decodeFixedHex(dst, string(data[1:len(data)-1]))
}

// NewH160FromSlice returns an H160 holding a copy of b.
func NewH160FromSlice(b []byte) (H160, error) {
	var h H160
	err := copyFixed(h[:], b)
	return h, err
}

// NewH160FromString parses a 40-character hex string with an optional 0x prefix.
func NewH160FromString(s string) (H160, error) {
	var h H160
	err := decodeFixedHex(h[:], s)
	return h, err
}

// String returns the hash as a lowercase hex string without prefix.
func (h H160) String() string { return hex.EncodeToString(h[:]) }

// Hex returns the 0x-prefixed hex form.
func (h H160) Hex() string { return "0x" + h.String() }

// Bytes returns a copy of the value as a slice.
func (h H160) Bytes() []byte { return append([]byte(nil), h[:]...) }

// Equal returns whether h equals to other.
func (h H160) Equal(other H160) bool { return h == other }

// MarshalJSON renders the value as a 0x-prefixed hex string.
func (h H160) MarshalJSON() ([]byte, error) { return marshalHexJSON(h[:]) }

// UnmarshalJSON parses a 0x-prefixed hex string.
func (h *H160) UnmarshalJSON(data []byte) error { return unmarshalHexJSON(h[:], data) }

// NewH256FromSlice returns an H256 holding a copy of b.
func NewH256FromSlice(b []byte) (H256, error) {
	var h H256
	err := copyFixed(h[:], b)
	return h, err
}

// NewH256FromString parses a 64-character hex string with an optional 0x prefix.
func NewH256FromString(s string) (H256, error) {
	var h H256
	err := decodeFixedHex(h[:], s)
	return h, err
}

// MustH256FromString is like NewH256FromString but panics on error. It is meant
// for constants in source code.
func MustH256FromString(s string) H256 {
	h, err := NewH256FromString(s)
	if err != nil {
		panic(err)
	}
	return h
}

// String returns the hash as a lowercase hex string without prefix.
func (h H256) String() string { return hex.EncodeToString(h[:]) }

// Hex returns the 0x-prefixed hex form.
func (h H256) Hex() string { return "0x" + h.String() }

// Bytes returns a copy of the value as a slice.
func (h H256) Bytes() []byte { return append([]byte(nil), h[:]...) }

// Equal returns whether h equals to other.
func (h H256) Equal(other H256) bool { return h == other }

// IsZero returns whether every byte of h is zero.
func (h H256) IsZero() bool { return h == H256{} }

// Less returns whether h sorts before other.
func (h H256) Less(other H256) bool { return bytes.Compare(h[:], other[:]) < 0 }

// MarshalJSON renders the value as a 0x-prefixed hex string.
func (h H256) MarshalJSON() ([]byte, error) { return marshalHexJSON(h[:]) }

// UnmarshalJSON parses a 0x-prefixed hex string.
func (h *H256) UnmarshalJSON(data []byte) error { return unmarshalHexJSON(h[:], data) }

// NewH512FromSlice returns an H512 holding a copy of b.
func NewH512FromSlice(b []byte) (H512, error) {
	var h H512
	err := copyFixed(h[:], b)
	return h, err
}

// NewH512FromString parses a 128-character hex string with an optional 0x prefix.
func NewH512FromString(s string) (H512, error) {
	var h H512
	err := decodeFixedHex(h[:], s)
	return h, err
}

// String returns the value as a lowercase hex string without prefix.
func (h H512) String() string { return hex.EncodeToString(h[:]) }

// Hex returns the 0x-prefixed hex form.
func (h H512) Hex() string { return "0x" + h.String() }

// Bytes returns a copy of the value as a slice.
func (h H512) Bytes() []byte { return append([]byte(nil), h[:]...) }

// Equal returns whether h equals to other.
func (h H512) Equal(other H512) bool { return h == other }

// MarshalJSON renders the value as a 0x-prefixed hex string.
func (h H512) MarshalJSON() ([]byte, error) { return marshalHexJSON(h[:]) }

// UnmarshalJSON parses a 0x-prefixed hex string.
func (h *H512) UnmarshalJSON(data []byte) error { return unmarshalHexJSON(h[:], data) }
