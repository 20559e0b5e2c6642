package keystore

import (
	"context"

	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/utils/ecdsa"
)

// KeyStore holds secret keys and signs with them on behalf of callers that
// only know public keys. Implementations must be safe for concurrent use.
type KeyStore interface {
	// CreateKey generates and stores a new key and returns its public key.
	CreateKey(ctx context.Context) (externalapi.H512, error)

	// Sign signs message with the secret behind publicKey. It fails with
	// ruleerrors.ErrKeyNotFound if the key is not held by the store.
	Sign(ctx context.Context, publicKey externalapi.H512, message externalapi.H256) (*ecdsa.Signature, error)

	// GetPublicKey resolves a public key hash previously recorded by AddPKH.
	GetPublicKey(ctx context.Context, publicKeyHash externalapi.H256) (externalapi.H512, bool, error)

	// AddPKH records the hash of publicKey so it can be resolved later, and
	// returns the hash.
	AddPKH(ctx context.Context, publicKey externalapi.H512) (externalapi.H256, error)
}
