package rlp

import (
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/pkg/errors"
)

// Item is a node of a canonical encoding tree: either Bytes or List.
type Item interface {
	isItem()
}

// Bytes is a byte string item.
type Bytes []byte

// List is an ordered list of items.
type List []Item

func (Bytes) isItem() {}
func (List) isItem()  {}

// Uint returns the minimal big-endian byte string of v. Zero is the empty string.
func Uint(v uint64) Bytes {
	var buf [8]byte
	for i := 7; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	return BigBytes(buf[:])
}

// BigBytes returns b as a byte string item without leading zero bytes.
func BigBytes(b []byte) Bytes {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return Bytes(append([]byte{}, b...))
}

// String returns s as a byte string item.
func String(s string) Bytes {
	return Bytes(s)
}

// Encode returns the canonical encoding of item.
func Encode(item Item) ([]byte, error) {
	value, err := toEncodable(item)
	if err != nil {
		return nil, err
	}
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return encoded, nil
}

func toEncodable(item Item) (interface{}, error) {
	switch item := item.(type) {
	case Bytes:
		return []byte(item), nil
	case List:
		values := make([]interface{}, len(item))
		for i, element := range item {
			value, err := toEncodable(element)
			if err != nil {
				return nil, err
			}
			values[i] = value
		}
		return values, nil
	default:
		return nil, errors.Errorf("there's no encoding for item type %T", item)
	}
}

// Decode parses a canonical encoding of exactly one item. Non-canonical size
// prefixes and trailing bytes are rejected.
func Decode(encoded []byte) (Item, error) {
	item, rest, err := decodeItem(encoded)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedInput, "%d trailing bytes after item", len(rest))
	}
	return item, nil
}

func decodeItem(encoded []byte) (Item, []byte, error) {
	kind, content, rest, err := rlp.Split(encoded)
	if err != nil {
		return nil, nil, ruleerrors.Wrap(ruleerrors.ErrMalformedInput, err)
	}
	switch kind {
	case rlp.Byte, rlp.String:
		return Bytes(append([]byte{}, content...)), rest, nil
	case rlp.List:
		list := List{}
		for len(content) > 0 {
			var element Item
			element, content, err = decodeItem(content)
			if err != nil {
				return nil, nil, err
			}
			list = append(list, element)
		}
		return list, rest, nil
	default:
		return nil, nil, errors.Wrapf(ruleerrors.ErrMalformedInput, "unknown item kind %s", kind)
	}
}

// AsBytes returns item as a byte string.
func AsBytes(item Item) ([]byte, error) {
	b, ok := item.(Bytes)
	if !ok {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedInput, "expected a byte string, got %T", item)
	}
	return b, nil
}

// AsFixedBytes returns item as a byte string of exactly size bytes.
func AsFixedBytes(item Item, size int) ([]byte, error) {
	b, err := AsBytes(item)
	if err != nil {
		return nil, err
	}
	if len(b) != size {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedInput, "expected %d bytes, got %d", size, len(b))
	}
	return b, nil
}

// AsList returns item as a list. If length is not negative the list must have
// exactly length elements.
func AsList(item Item, length int) (List, error) {
	list, ok := item.(List)
	if !ok {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedInput, "expected a list, got %T", item)
	}
	if length >= 0 && len(list) != length {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedInput, "expected a list of %d items, got %d", length, len(list))
	}
	return list, nil
}

// AsUint64 returns item as an integer. Leading zero bytes are not canonical.
func AsUint64(item Item) (uint64, error) {
	b, err := AsBytes(item)
	if err != nil {
		return 0, err
	}
	if len(b) > 8 {
		return 0, errors.Wrapf(ruleerrors.ErrMalformedInput, "integer of %d bytes overflows uint64", len(b))
	}
	if len(b) > 0 && b[0] == 0 {
		return 0, errors.Wrap(ruleerrors.ErrMalformedInput, "integer with leading zero bytes")
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v, nil
}

// AsBigBytes returns item as the minimal big-endian bytes of an integer.
func AsBigBytes(item Item) ([]byte, error) {
	b, err := AsBytes(item)
	if err != nil {
		return nil, err
	}
	if len(b) > 0 && b[0] == 0 {
		return nil, errors.Wrap(ruleerrors.ErrMalformedInput, "integer with leading zero bytes")
	}
	return b, nil
}

// AsString returns item as a UTF-8 string.
func AsString(item Item) (string, error) {
	b, err := AsBytes(item)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.Wrap(ruleerrors.ErrMalformedInput, "string is not valid UTF-8")
	}
	return string(b), nil
}
