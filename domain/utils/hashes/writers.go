package hashes

import (
	"hash"

	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// HashWriter is used to incrementally hash data without concatenating all of the data to a single buffer
// it exposes an io.Writer api and a Finalize function to get the resulting hash.
// The used hash function is blake2b-256.
type HashWriter struct {
	hash.Hash
}

// NewBlake256Writer returns an unkeyed blake2b-256 HashWriter.
func NewBlake256Writer() HashWriter {
	blake, err := blake2b.New256(nil)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. unkeyed blake2b must not fail"))
	}
	return HashWriter{blake}
}

// NewBlake256WriterWithKey returns a keyed blake2b-256 HashWriter.
func NewBlake256WriterWithKey(key []byte) (HashWriter, error) {
	blake, err := blake2b.New256(key)
	if err != nil {
		return HashWriter{}, errors.WithStack(err)
	}
	return HashWriter{blake}, nil
}

// InfallibleWrite is just like write but doesn't return anything
func (h HashWriter) InfallibleWrite(p []byte) {
	// This write can never return an error, this is part of the hash.Hash interface contract.
	_, err := h.Write(p)
	if err != nil {
		panic(errors.Wrap(err, "this should never happen. hash.Hash interface promises to not return errors."))
	}
}

// Finalize returns the resulting hash
func (h HashWriter) Finalize() externalapi.H256 {
	var sum externalapi.H256
	copy(sum[:], h.Sum(sum[:0]))
	return sum
}
