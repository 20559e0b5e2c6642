package hashes

import (
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160"
)

// Blake256 returns the blake2b-256 digest of data. It is the content hash of
// every parcel and transaction.
func Blake256(data []byte) externalapi.H256 {
	return blake2b.Sum256(data)
}

// Blake256WithKey returns the keyed blake2b-256 digest of data. The key
// separates hash domains from plain content hashes and must be at most 64 bytes.
func Blake256WithKey(data []byte, key []byte) (externalapi.H256, error) {
	if len(key) > blake2b.Size {
		return externalapi.H256{}, errors.Wrapf(ruleerrors.ErrMalformedInput,
			"blake2b key can be at most %d bytes, got %d", blake2b.Size, len(key))
	}
	writer, err := NewBlake256WriterWithKey(key)
	if err != nil {
		return externalapi.H256{}, err
	}
	writer.InfallibleWrite(data)
	return writer.Finalize(), nil
}

// Ripemd160 returns the ripemd160 digest of data.
func Ripemd160(data []byte) externalapi.H160 {
	hasher := ripemd160.New()
	// hash.Hash writes never fail.
	_, _ = hasher.Write(data)
	var sum externalapi.H160
	copy(sum[:], hasher.Sum(nil))
	return sum
}

// Hash160 compresses a content hash into 20 bytes.
func Hash160(data []byte) externalapi.H160 {
	return Ripemd160(data)
}

// AccountIDFromPublicKey derives the account id ripemd160(blake256(publicKey)).
func AccountIDFromPublicKey(publicKey externalapi.H512) externalapi.AccountID {
	contentHash := Blake256(publicKey[:])
	return Hash160(contentHash[:])
}

// PublicKeyHash returns blake256(publicKey), the parameter of the standard
// pay-to-public-key-hash lock scripts.
func PublicKeyHash(publicKey externalapi.H512) externalapi.H256 {
	return Blake256(publicKey[:])
}
