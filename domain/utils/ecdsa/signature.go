package ecdsa

import (
	"encoding/hex"
	"strings"

	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/pkg/errors"
)

// SignatureSize is the size of a serialized signature: r (32) ‖ s (32) ‖ v (1).
const SignatureSize = 65

const scalarSize = 32

// Signature is a recoverable secp256k1 ECDSA signature. V is the recovery id
// (0 or 1).
type Signature struct {
	R externalapi.H256
	S externalapi.H256
	V byte
}

// Serialize returns r ‖ s ‖ v.
func (sig *Signature) Serialize() [SignatureSize]byte {
	var serialized [SignatureSize]byte
	copy(serialized[:scalarSize], sig.R[:])
	copy(serialized[scalarSize:2*scalarSize], sig.S[:])
	serialized[2*scalarSize] = sig.V
	return serialized
}

// String returns the 0x-prefixed hex of the serialized signature.
func (sig *Signature) String() string {
	serialized := sig.Serialize()
	return "0x" + hex.EncodeToString(serialized[:])
}

// Equal returns whether sig equals to other.
func (sig *Signature) Equal(other *Signature) bool {
	if sig == nil || other == nil {
		return sig == other
	}
	return *sig == *other
}

// ParseSignature parses a 65-byte r ‖ s ‖ v signature.
func ParseSignature(serialized []byte) (*Signature, error) {
	if len(serialized) != SignatureSize {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedInput,
			"signature must be %d bytes, got %d", SignatureSize, len(serialized))
	}
	sig := &Signature{V: serialized[2*scalarSize]}
	copy(sig.R[:], serialized[:scalarSize])
	copy(sig.S[:], serialized[scalarSize:2*scalarSize])
	return sig, nil
}

// ParseSignatureString parses the 0x-prefixed hex form returned by String.
func ParseSignatureString(signature string) (*Signature, error) {
	r, s, v, err := ConvertSignatureStringToRSV(signature)
	if err != nil {
		return nil, err
	}
	sig := &Signature{V: v}
	copy(sig.R[:], r)
	copy(sig.S[:], s)
	return sig, nil
}

// PadLeft returns b left-padded with zeros to width bytes. It fails when b is
// wider than width after stripping leading zeros.
func PadLeft(b []byte, width int) ([]byte, error) {
	for len(b) > width && b[0] == 0 {
		b = b[1:]
	}
	if len(b) > width {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedInput,
			"value of %d bytes does not fit in %d bytes", len(b), width)
	}
	padded := make([]byte, width)
	copy(padded[width-len(b):], b)
	return padded, nil
}

// ConvertRSVToSignatureString renders r, s and v as the 65-byte signature
// string: r and s are zero-padded to 32 bytes each and v takes one byte.
func ConvertRSVToSignatureString(r, s []byte, v byte) (string, error) {
	paddedR, err := PadLeft(r, scalarSize)
	if err != nil {
		return "", err
	}
	paddedS, err := PadLeft(s, scalarSize)
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	builder.Grow(2 + 2*SignatureSize)
	builder.WriteString("0x")
	builder.WriteString(hex.EncodeToString(paddedR))
	builder.WriteString(hex.EncodeToString(paddedS))
	builder.WriteString(hex.EncodeToString([]byte{v}))
	return builder.String(), nil
}

// ConvertSignatureStringToRSV splits a signature string into its 32-byte r,
// 32-byte s and the recovery id v. The string must hold exactly 65 bytes.
func ConvertSignatureStringToRSV(signature string) (r, s []byte, v byte, err error) {
	trimmed := strings.TrimPrefix(signature, "0x")
	if len(trimmed) != 2*SignatureSize {
		return nil, nil, 0, errors.Wrapf(ruleerrors.ErrMalformedInput,
			"signature string must hold %d bytes, got %d hex characters", SignatureSize, len(trimmed))
	}
	raw, decodeErr := hex.DecodeString(trimmed)
	if decodeErr != nil {
		return nil, nil, 0, ruleerrors.Wrap(ruleerrors.ErrMalformedInput, decodeErr)
	}
	return raw[:scalarSize], raw[scalarSize : 2*scalarSize], raw[2*scalarSize], nil
}
