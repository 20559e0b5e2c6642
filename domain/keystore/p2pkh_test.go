package keystore

import (
	"context"
	"testing"

	"github.com/kaspanet/parcelsdk/domain/address"
	"github.com/kaspanet/parcelsdk/domain/asset"
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/kaspanet/parcelsdk/domain/txscript"
	"github.com/pkg/errors"
)

var testAssetType = externalapi.MustH256FromString(
	"5300010200000000e29d353b5a1da5b3005a2b36001aa334ffd1ed9d82aeb7d3")

// spendingTransaction returns a transaction that spends, as an input or as a
// burn, an output locked to encodedAddress.
func spendingTransaction(t *testing.T, encodedAddress string, burn bool) *asset.AssetTransferTransaction {
	lockScriptHash, parameters, err := address.Resolve(encodedAddress, "tc")
	if err != nil {
		t.Fatalf("Resolve: %s", err)
	}
	prevOut := &asset.AssetOutPoint{
		TransactionHash: externalapi.H256{0x11},
		Index:           1,
		AssetType:       testAssetType,
		Amount:          100,
		LockScriptHash:  &lockScriptHash,
		Parameters:      asset.FromByteSlices(parameters),
	}
	tx := asset.NewAssetTransferTransaction("tc", 0)
	if burn {
		return tx.AddBurns(prevOut)
	}
	tx.AddInputs(prevOut)
	return tx.AddOutputs(&asset.AssetTransferOutput{
		LockScriptHash: lockScriptHash,
		Parameters:     asset.FromByteSlices(parameters),
		AssetType:      testAssetType,
		Amount:         100,
	})
}

func TestP2PKHSignInput(t *testing.T) {
	ctx := context.Background()
	signer := NewP2PKH(newTestKeyStore(t), "tc")

	p2pkhAddress, err := signer.CreateAddress(ctx)
	if err != nil {
		t.Fatalf("CreateAddress: %s", err)
	}
	if p2pkhAddress.Type() != address.P2PKHType {
		t.Fatalf("unexpected address type %s", p2pkhAddress.Type())
	}

	tx := spendingTransaction(t, p2pkhAddress.String(), false)
	hashBefore := tx.HashWithoutScript()
	err = signer.SignInput(ctx, tx, 0)
	if err != nil {
		t.Fatalf("SignInput: %s", err)
	}
	if tx.HashWithoutScript() != hashBefore {
		t.Fatalf("signing changed the hash without scripts")
	}
	if string(tx.Inputs[0].LockScript) != string(txscript.P2PKHLockScript()) {
		t.Fatalf("unexpected lock script %x", tx.Inputs[0].LockScript)
	}
	err = tx.AuthorizeInput(0)
	if err != nil {
		t.Fatalf("AuthorizeInput: %s", err)
	}

	err = signer.SignInput(ctx, tx, 0)
	if !errors.Is(err, ruleerrors.ErrMalformedInput) {
		t.Fatalf("signing a signed input: expected ErrMalformedInput, got %v", err)
	}
	err = signer.SignInput(ctx, tx, 1)
	if !errors.Is(err, ruleerrors.ErrMalformedInput) {
		t.Fatalf("signing a missing input: expected ErrMalformedInput, got %v", err)
	}
}

func TestP2PKHSignInputErrors(t *testing.T) {
	ctx := context.Background()
	keyStore := newTestKeyStore(t)
	signer := NewP2PKH(keyStore, "tc")
	p2pkhAddress, err := signer.CreateAddress(ctx)
	if err != nil {
		t.Fatalf("CreateAddress: %s", err)
	}

	tests := []struct {
		name     string
		modify   func(prevOut *asset.AssetOutPoint)
		expected error
	}{
		{
			name: "missing lock script hash",
			modify: func(prevOut *asset.AssetOutPoint) {
				prevOut.LockScriptHash = nil
			},
			expected: ruleerrors.ErrMalformedInput,
		},
		{
			name: "burn lock script hash",
			modify: func(prevOut *asset.AssetOutPoint) {
				lockScriptHash := txscript.P2PKHBurnLockScriptHash
				prevOut.LockScriptHash = &lockScriptHash
			},
			expected: ruleerrors.ErrMalformedInput,
		},
		{
			name: "two parameters",
			modify: func(prevOut *asset.AssetOutPoint) {
				prevOut.Parameters = append(prevOut.Parameters, externalapi.ByteArray{1})
			},
			expected: ruleerrors.ErrMalformedInput,
		},
		{
			name: "unknown public key hash",
			modify: func(prevOut *asset.AssetOutPoint) {
				prevOut.Parameters = []externalapi.ByteArray{make(externalapi.ByteArray, externalapi.H256Size)}
			},
			expected: ruleerrors.ErrKeyNotFound,
		},
	}
	for _, test := range tests {
		tx := spendingTransaction(t, p2pkhAddress.String(), false)
		test.modify(tx.Inputs[0].PrevOut)
		err := signer.SignInput(ctx, tx, 0)
		if !errors.Is(err, test.expected) {
			t.Errorf("%s: expected %v, got %v", test.name, test.expected, err)
		}
		if len(tx.Inputs[0].LockScript) != 0 || len(tx.Inputs[0].UnlockScript) != 0 {
			t.Errorf("%s: a failed signing populated the input scripts", test.name)
		}
	}
}

func TestP2PKHBurnSignBurn(t *testing.T) {
	ctx := context.Background()
	signer := NewP2PKHBurn(newTestKeyStore(t), "tc")

	burnAddress, err := signer.CreateAddress(ctx)
	if err != nil {
		t.Fatalf("CreateAddress: %s", err)
	}
	if burnAddress.Type() != address.P2PKHBurnType {
		t.Fatalf("unexpected address type %s", burnAddress.Type())
	}

	tx := spendingTransaction(t, burnAddress.String(), true)
	err = signer.SignBurn(ctx, tx, 0)
	if err != nil {
		t.Fatalf("SignBurn: %s", err)
	}
	if string(tx.Burns[0].LockScript) != string(txscript.P2PKHBurnLockScript()) {
		t.Fatalf("unexpected lock script %x", tx.Burns[0].LockScript)
	}
	err = tx.AuthorizeBurn(0)
	if err != nil {
		t.Fatalf("AuthorizeBurn: %s", err)
	}

	inputTx := spendingTransaction(t, burnAddress.String(), false)
	err = NewP2PKH(signer.keyStore, "tc").SignInput(ctx, inputTx, 0)
	if !errors.Is(err, ruleerrors.ErrMalformedInput) {
		t.Fatalf("signing a burn output as a P2PKH input: expected ErrMalformedInput, got %v", err)
	}
}
