package keystore

import (
	"context"

	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/kaspanet/parcelsdk/domain/utils/ecdsa"
	"github.com/kaspanet/parcelsdk/domain/utils/hashes"
	"github.com/kaspanet/parcelsdk/infrastructure/db/ldb"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

var (
	// privateKeysBucket maps public keys to their secrets.
	privateKeysBucket = ldb.MakeBucket([]byte("private-keys"))

	// publicKeyHashesBucket maps public key hashes to public keys.
	publicKeyHashesBucket = ldb.MakeBucket([]byte("public-key-hashes"))
)

// LocalKeyStore is a KeyStore that keeps secrets in a LevelDB database,
// either on disk or in memory.
type LocalKeyStore struct {
	db *ldb.LevelDB
}

// NewLocalKeyStore opens, or creates, the key store at path.
func NewLocalKeyStore(path string) (*LocalKeyStore, error) {
	db, err := ldb.NewLevelDB(path)
	if err != nil {
		return nil, err
	}
	log.Debugf("Opened key store at %s", path)
	return &LocalKeyStore{db: db}, nil
}

// NewMemoryKeyStore returns a key store that lives in memory only.
func NewMemoryKeyStore() (*LocalKeyStore, error) {
	db, err := ldb.NewMemoryLevelDB()
	if err != nil {
		return nil, err
	}
	return &LocalKeyStore{db: db}, nil
}

// Close closes the underlying database.
func (ks *LocalKeyStore) Close() error {
	return ks.db.Close()
}

// CreateKey generates and stores a new key and returns its public key.
func (ks *LocalKeyStore) CreateKey(ctx context.Context) (externalapi.H512, error) {
	if err := ctx.Err(); err != nil {
		return externalapi.H512{}, errors.WithStack(err)
	}
	privateKey, err := ecdsa.GeneratePrivateKey()
	if err != nil {
		return externalapi.H512{}, err
	}
	return ks.ImportRaw(ctx, privateKey)
}

// ImportRaw stores privateKey and returns its public key. Importing a key
// that is already stored is not an error.
func (ks *LocalKeyStore) ImportRaw(ctx context.Context, privateKey externalapi.H256) (externalapi.H512, error) {
	if err := ctx.Err(); err != nil {
		return externalapi.H512{}, errors.WithStack(err)
	}
	publicKey, err := ecdsa.PublicKeyFromPrivate(privateKey)
	if err != nil {
		return externalapi.H512{}, err
	}
	err = ks.db.Put(privateKeysBucket.Key(publicKey[:]), privateKey[:])
	if err != nil {
		return externalapi.H512{}, err
	}
	log.Debugf("Stored key for public key %s", publicKey)
	return publicKey, nil
}

// ImportMnemonic stores the key derived from a BIP-39 mnemonic and returns
// its public key. The secret is the first 32 bytes of the mnemonic's seed.
func (ks *LocalKeyStore) ImportMnemonic(ctx context.Context, mnemonic string, passphrase string) (externalapi.H512, error) {
	privateKey, err := PrivateKeyFromMnemonic(mnemonic, passphrase)
	if err != nil {
		return externalapi.H512{}, err
	}
	return ks.ImportRaw(ctx, privateKey)
}

// CreateMnemonic returns a new random 24-word BIP-39 mnemonic.
func CreateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", errors.WithStack(err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return mnemonic, nil
}

// PrivateKeyFromMnemonic returns the secret ImportMnemonic would store for
// mnemonic and passphrase.
func PrivateKeyFromMnemonic(mnemonic string, passphrase string) (externalapi.H256, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return externalapi.H256{}, ruleerrors.Wrap(ruleerrors.ErrMalformedInput, err)
	}
	return externalapi.NewH256FromSlice(seed[:externalapi.H256Size])
}

// Sign signs message with the secret behind publicKey.
func (ks *LocalKeyStore) Sign(ctx context.Context, publicKey externalapi.H512,
	message externalapi.H256) (*ecdsa.Signature, error) {

	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	serialized, err := ks.db.Get(privateKeysBucket.Key(publicKey[:]))
	if ldb.IsNotFoundError(err) {
		return nil, errors.Wrapf(ruleerrors.ErrKeyNotFound, "no key for public key %s", publicKey)
	}
	if err != nil {
		return nil, err
	}
	privateKey, err := externalapi.NewH256FromSlice(serialized)
	if err != nil {
		return nil, errors.Wrapf(err, "corrupt key for public key %s", publicKey)
	}
	log.Tracef("Signing %s with public key %s", message, publicKey)
	return ecdsa.Sign(message, privateKey)
}

// GetPublicKey resolves a public key hash previously recorded by AddPKH.
func (ks *LocalKeyStore) GetPublicKey(ctx context.Context,
	publicKeyHash externalapi.H256) (externalapi.H512, bool, error) {

	if err := ctx.Err(); err != nil {
		return externalapi.H512{}, false, errors.WithStack(err)
	}
	serialized, err := ks.db.Get(publicKeyHashesBucket.Key(publicKeyHash[:]))
	if ldb.IsNotFoundError(err) {
		return externalapi.H512{}, false, nil
	}
	if err != nil {
		return externalapi.H512{}, false, err
	}
	publicKey, err := externalapi.NewH512FromSlice(serialized)
	if err != nil {
		return externalapi.H512{}, false, errors.Wrapf(err, "corrupt public key for hash %s", publicKeyHash)
	}
	return publicKey, true, nil
}

// AddPKH records the hash of publicKey so it can be resolved by GetPublicKey.
func (ks *LocalKeyStore) AddPKH(ctx context.Context, publicKey externalapi.H512) (externalapi.H256, error) {
	if err := ctx.Err(); err != nil {
		return externalapi.H256{}, errors.WithStack(err)
	}
	publicKeyHash := hashes.PublicKeyHash(publicKey)
	err := ks.db.Put(publicKeyHashesBucket.Key(publicKeyHash[:]), publicKey[:])
	if err != nil {
		return externalapi.H256{}, err
	}
	log.Debugf("Recorded public key hash %s", publicKeyHash)
	return publicKeyHash, nil
}

// PublicKeys returns the public keys of all stored keys.
func (ks *LocalKeyStore) PublicKeys(ctx context.Context) ([]externalapi.H512, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	var publicKeys []externalapi.H512
	err := ks.db.ForEach(privateKeysBucket, func(key []byte, _ []byte) error {
		publicKey, err := externalapi.NewH512FromSlice(key)
		if err != nil {
			return err
		}
		publicKeys = append(publicKeys, publicKey)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return publicKeys, nil
}

// RemoveKey deletes the secret behind publicKey together with its recorded
// public key hash. It returns false if no such key is stored.
func (ks *LocalKeyStore) RemoveKey(ctx context.Context, publicKey externalapi.H512) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, errors.WithStack(err)
	}
	dbTx, err := ks.db.Begin()
	if err != nil {
		return false, err
	}
	defer dbTx.RollbackUnlessClosed()

	privateKeyKey := privateKeysBucket.Key(publicKey[:])
	exists, err := dbTx.Has(privateKeyKey)
	if err != nil || !exists {
		return false, err
	}
	err = dbTx.Delete(privateKeyKey)
	if err != nil {
		return false, err
	}
	publicKeyHash := hashes.PublicKeyHash(publicKey)
	err = dbTx.Delete(publicKeyHashesBucket.Key(publicKeyHash[:]))
	if err != nil {
		return false, err
	}
	err = dbTx.Commit()
	if err != nil {
		return false, err
	}
	log.Debugf("Removed key for public key %s", publicKey)
	return true, nil
}
