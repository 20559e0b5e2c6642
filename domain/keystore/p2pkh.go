package keystore

import (
	"context"

	"github.com/kaspanet/parcelsdk/domain/address"
	"github.com/kaspanet/parcelsdk/domain/asset"
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/kaspanet/parcelsdk/domain/txscript"
	"github.com/pkg/errors"
)

// P2PKH creates pay-to-public-key-hash addresses and unlocks the inputs that
// spend them, using keys held by a KeyStore.
type P2PKH struct {
	keyStore  KeyStore
	networkID string
}

// NewP2PKH returns a P2PKH signer over keyStore for networkID.
func NewP2PKH(keyStore KeyStore, networkID string) *P2PKH {
	return &P2PKH{keyStore: keyStore, networkID: networkID}
}

// CreateAddress creates a new key and returns its P2PKH address.
func (p *P2PKH) CreateAddress(ctx context.Context) (*address.AssetTransferAddress, error) {
	return createAddress(ctx, p.keyStore, address.P2PKHType, p.networkID)
}

// SignInput populates the lock and unlock scripts of input index of tx.
func (p *P2PKH) SignInput(ctx context.Context, tx *asset.AssetTransferTransaction, index int) error {
	if index < 0 || index >= len(tx.Inputs) {
		return errors.Wrapf(ruleerrors.ErrMalformedInput,
			"input index %d out of range, transaction has %d inputs", index, len(tx.Inputs))
	}
	return signSpend(ctx, p.keyStore, tx, tx.Inputs[index],
		txscript.P2PKHLockScriptHash, txscript.P2PKHLockScript())
}

// P2PKHBurn creates burn addresses and unlocks the burns that spend them,
// using keys held by a KeyStore.
type P2PKHBurn struct {
	keyStore  KeyStore
	networkID string
}

// NewP2PKHBurn returns a P2PKHBurn signer over keyStore for networkID.
func NewP2PKHBurn(keyStore KeyStore, networkID string) *P2PKHBurn {
	return &P2PKHBurn{keyStore: keyStore, networkID: networkID}
}

// CreateAddress creates a new key and returns its burn address.
func (p *P2PKHBurn) CreateAddress(ctx context.Context) (*address.AssetTransferAddress, error) {
	return createAddress(ctx, p.keyStore, address.P2PKHBurnType, p.networkID)
}

// SignBurn populates the lock and unlock scripts of burn index of tx.
func (p *P2PKHBurn) SignBurn(ctx context.Context, tx *asset.AssetTransferTransaction, index int) error {
	if index < 0 || index >= len(tx.Burns) {
		return errors.Wrapf(ruleerrors.ErrMalformedInput,
			"burn index %d out of range, transaction has %d burns", index, len(tx.Burns))
	}
	return signSpend(ctx, p.keyStore, tx, tx.Burns[index],
		txscript.P2PKHBurnLockScriptHash, txscript.P2PKHBurnLockScript())
}

func createAddress(ctx context.Context, keyStore KeyStore, addressType address.AssetAddressType,
	networkID string) (*address.AssetTransferAddress, error) {

	publicKey, err := keyStore.CreateKey(ctx)
	if err != nil {
		return nil, err
	}
	publicKeyHash, err := keyStore.AddPKH(ctx, publicKey)
	if err != nil {
		return nil, err
	}
	return address.NewAssetTransferAddress(addressType, publicKeyHash, networkID)
}

// signSpend checks that input spends an output locked by lockScriptHash to a
// single public key hash, then signs tx with the matching key and populates
// the input's scripts. The input is left untouched on failure.
func signSpend(ctx context.Context, keyStore KeyStore, tx *asset.AssetTransferTransaction,
	input *asset.AssetTransferInput, lockScriptHash externalapi.H256, lockScript []byte) error {

	prevOut := input.PrevOut
	if prevOut == nil || prevOut.LockScriptHash == nil {
		return errors.Wrap(ruleerrors.ErrMalformedInput, "the spent output has no lock script hash")
	}
	if *prevOut.LockScriptHash != lockScriptHash {
		return errors.Wrapf(ruleerrors.ErrMalformedInput,
			"unexpected lock script hash %s, expected %s", prevOut.LockScriptHash, lockScriptHash)
	}
	if len(prevOut.Parameters) != 1 {
		return errors.Wrapf(ruleerrors.ErrMalformedInput,
			"expected a single parameter, got %d", len(prevOut.Parameters))
	}
	publicKeyHash, err := externalapi.NewH256FromSlice(prevOut.Parameters[0])
	if err != nil {
		return err
	}
	publicKey, found, err := keyStore.GetPublicKey(ctx, publicKeyHash)
	if err != nil {
		return err
	}
	if !found {
		return errors.Wrapf(ruleerrors.ErrKeyNotFound, "no public key for hash %s", publicKeyHash)
	}
	if len(input.LockScript) != 0 || len(input.UnlockScript) != 0 {
		return errors.Wrap(ruleerrors.ErrMalformedInput, "input scripts are already set")
	}

	txHash := tx.HashWithoutScript()
	signature, err := keyStore.Sign(ctx, publicKey, txHash)
	if err != nil {
		return err
	}
	err = input.SetLockScript(lockScript)
	if err != nil {
		return err
	}
	err = input.SetUnlockScript(txscript.P2PKHUnlockScript(signature, publicKey))
	if err != nil {
		return err
	}
	log.Debugf("Signed spend of %s:%d in transaction %s", prevOut.TransactionHash, prevOut.Index, txHash)
	return nil
}
