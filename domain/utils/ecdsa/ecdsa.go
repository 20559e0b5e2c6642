package ecdsa

import (
	"math/big"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/kaspanet/parcelsdk/domain/utils/hashes"
	"github.com/pkg/errors"
)

// GeneratePrivateKey returns a new random secp256k1 secret.
func GeneratePrivateKey() (externalapi.H256, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return externalapi.H256{}, errors.WithStack(err)
	}
	var privateKey externalapi.H256
	copy(privateKey[:], crypto.FromECDSA(key))
	return privateKey, nil
}

// PublicKeyFromPrivate returns the 64-byte public key of privateKey.
func PublicKeyFromPrivate(privateKey externalapi.H256) (externalapi.H512, error) {
	key, err := crypto.ToECDSA(privateKey[:])
	if err != nil {
		return externalapi.H512{}, ruleerrors.Wrap(ruleerrors.ErrMalformedInput, err)
	}
	return externalapi.NewH512FromSlice(crypto.FromECDSAPub(&key.PublicKey)[1:])
}

// AccountIDFromPrivate returns the account id controlled by privateKey.
func AccountIDFromPrivate(privateKey externalapi.H256) (externalapi.AccountID, error) {
	publicKey, err := PublicKeyFromPrivate(privateKey)
	if err != nil {
		return externalapi.AccountID{}, err
	}
	return hashes.AccountIDFromPublicKey(publicKey), nil
}

// Sign signs hash with privateKey. The nonce is derived deterministically
// (RFC6979), so signing the same hash twice gives the same signature.
func Sign(hash externalapi.H256, privateKey externalapi.H256) (*Signature, error) {
	key, err := crypto.ToECDSA(privateKey[:])
	if err != nil {
		return nil, ruleerrors.Wrap(ruleerrors.ErrMalformedInput, err)
	}
	serialized, err := crypto.Sign(hash[:], key)
	if err != nil {
		return nil, errors.Wrap(err, "cannot sign hash")
	}
	return ParseSignature(serialized)
}

// Verify returns whether sig is a canonical signature of hash by publicKey.
// The recovery id takes part in verification: a signature whose V recovers a
// different key does not verify.
func Verify(hash externalapi.H256, sig *Signature, publicKey externalapi.H512) bool {
	recovered, err := Recover(hash, sig)
	if err != nil {
		return false
	}
	return recovered == publicKey
}

// Recover returns the public key that produced sig over hash.
func Recover(hash externalapi.H256, sig *Signature) (externalapi.H512, error) {
	if sig == nil || !isCanonical(sig) {
		return externalapi.H512{}, errors.Wrap(ruleerrors.ErrMalformedInput, "invalid signature values")
	}
	serialized := sig.Serialize()
	publicKey, err := crypto.Ecrecover(hash[:], serialized[:])
	if err != nil {
		return externalapi.H512{}, ruleerrors.Wrap(ruleerrors.ErrMalformedInput, err)
	}
	return externalapi.NewH512FromSlice(publicKey[1:])
}

// RecoverAccountID recovers the signer's public key and derives its account id.
func RecoverAccountID(hash externalapi.H256, sig *Signature) (externalapi.AccountID, error) {
	publicKey, err := Recover(hash, sig)
	if err != nil {
		return externalapi.AccountID{}, err
	}
	return hashes.AccountIDFromPublicKey(publicKey), nil
}

// IsValidPublicKey returns whether publicKey is a point on the curve.
func IsValidPublicKey(publicKey externalapi.H512) bool {
	_, err := crypto.UnmarshalPubkey(uncompressed(publicKey))
	return err == nil
}

func isCanonical(sig *Signature) bool {
	r := new(big.Int).SetBytes(sig.R[:])
	s := new(big.Int).SetBytes(sig.S[:])
	return crypto.ValidateSignatureValues(sig.V, r, s, true)
}

func uncompressed(publicKey externalapi.H512) []byte {
	return append([]byte{0x04}, publicKey[:]...)
}
