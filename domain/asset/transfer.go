package asset

import (
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/kaspanet/parcelsdk/domain/txscript"
	"github.com/kaspanet/parcelsdk/domain/utils/rlp"
	"github.com/pkg/errors"
)

// These are the encoding tags of asset transactions.
const (
	assetMintTag     = 3
	assetTransferTag = 4
)

// AssetTransferTransaction spends Inputs into Outputs and destroys Burns. The
// order of each list is part of the signed payload.
type AssetTransferTransaction struct {
	Burns     []*AssetTransferInput  `json:"burns"`
	Inputs    []*AssetTransferInput  `json:"inputs"`
	Outputs   []*AssetTransferOutput `json:"outputs"`
	NetworkID string                 `json:"networkId"`
	Nonce     uint64                 `json:"nonce"`
}

// NewAssetTransferTransaction returns an empty transfer on networkID.
func NewAssetTransferTransaction(networkID string, nonce uint64) *AssetTransferTransaction {
	return &AssetTransferTransaction{
		Burns:     []*AssetTransferInput{},
		Inputs:    []*AssetTransferInput{},
		Outputs:   []*AssetTransferOutput{},
		NetworkID: networkID,
		Nonce:     nonce,
	}
}

// EncodeObject returns [4, networkId, burns, inputs, outputs, nonce].
func (tx *AssetTransferTransaction) EncodeObject() rlp.Item {
	burns := make(rlp.List, len(tx.Burns))
	for i, burn := range tx.Burns {
		burns[i] = burn.EncodeObject()
	}
	inputs := make(rlp.List, len(tx.Inputs))
	for i, input := range tx.Inputs {
		inputs[i] = input.EncodeObject()
	}
	outputs := make(rlp.List, len(tx.Outputs))
	for i, output := range tx.Outputs {
		outputs[i] = output.EncodeObject()
	}
	return rlp.List{
		rlp.Uint(assetTransferTag),
		rlp.String(tx.NetworkID),
		burns,
		inputs,
		outputs,
		rlp.Uint(tx.Nonce),
	}
}

// RLPBytes returns the canonical encoding of tx.
func (tx *AssetTransferTransaction) RLPBytes() []byte {
	return mustEncode(tx.EncodeObject())
}

// Hash returns the blake256 hash of the canonical encoding of tx.
func (tx *AssetTransferTransaction) Hash() externalapi.H256 {
	return hashItem(tx.EncodeObject())
}

// HashWithoutScript returns the hash of tx with the scripts of every input
// and burn blanked. This is the message unlock scripts sign, so signing one
// input never invalidates the signature of another.
func (tx *AssetTransferTransaction) HashWithoutScript() externalapi.H256 {
	stripped := &AssetTransferTransaction{
		Burns:     make([]*AssetTransferInput, len(tx.Burns)),
		Inputs:    make([]*AssetTransferInput, len(tx.Inputs)),
		Outputs:   tx.Outputs,
		NetworkID: tx.NetworkID,
		Nonce:     tx.Nonce,
	}
	for i, burn := range tx.Burns {
		stripped.Burns[i] = burn.WithoutScript()
	}
	for i, input := range tx.Inputs {
		stripped.Inputs[i] = input.WithoutScript()
	}
	return stripped.Hash()
}

// AddInputs appends inputs spending each of the given out points.
func (tx *AssetTransferTransaction) AddInputs(prevOuts ...*AssetOutPoint) *AssetTransferTransaction {
	for _, prevOut := range prevOuts {
		tx.Inputs = append(tx.Inputs, NewAssetTransferInput(prevOut))
	}
	return tx
}

// AddBurns appends burns of each of the given out points.
func (tx *AssetTransferTransaction) AddBurns(prevOuts ...*AssetOutPoint) *AssetTransferTransaction {
	for _, prevOut := range prevOuts {
		tx.Burns = append(tx.Burns, NewAssetTransferInput(prevOut))
	}
	return tx
}

// AddOutputs appends the given outputs.
func (tx *AssetTransferTransaction) AddOutputs(outputs ...*AssetTransferOutput) *AssetTransferTransaction {
	tx.Outputs = append(tx.Outputs, outputs...)
	return tx
}

// TransferredAsset returns the asset the output at index creates once tx is
// executed.
func (tx *AssetTransferTransaction) TransferredAsset(index int) (*Asset, error) {
	if index < 0 || index >= len(tx.Outputs) {
		return nil, malformedf("output index %d out of range [0, %d)", index, len(tx.Outputs))
	}
	output := tx.Outputs[index]
	return NewAsset(&AssetData{
		AssetType:              output.AssetType,
		LockScriptHash:         output.LockScriptHash,
		Parameters:             output.Parameters,
		Amount:                 output.Amount,
		TransactionHash:        tx.Hash(),
		TransactionOutputIndex: uint32(index),
	})
}

// TransferredAssets returns the assets every output creates.
func (tx *AssetTransferTransaction) TransferredAssets() ([]*Asset, error) {
	assets := make([]*Asset, len(tx.Outputs))
	for i := range tx.Outputs {
		asset, err := tx.TransferredAsset(i)
		if err != nil {
			return nil, err
		}
		assets[i] = asset
	}
	return assets, nil
}

// AuthorizeInput checks that the scripts of the input at index unlock the
// output it spends.
func (tx *AssetTransferTransaction) AuthorizeInput(index int) error {
	if index < 0 || index >= len(tx.Inputs) {
		return malformedf("input index %d out of range [0, %d)", index, len(tx.Inputs))
	}
	return tx.authorize(tx.Inputs[index], false)
}

// AuthorizeBurn checks that the scripts of the burn at index allow burning
// the output it references.
func (tx *AssetTransferTransaction) AuthorizeBurn(index int) error {
	if index < 0 || index >= len(tx.Burns) {
		return malformedf("burn index %d out of range [0, %d)", index, len(tx.Burns))
	}
	return tx.authorize(tx.Burns[index], true)
}

func (tx *AssetTransferTransaction) authorize(input *AssetTransferInput, burn bool) error {
	if input.PrevOut.LockScriptHash == nil {
		return errors.Wrap(ruleerrors.ErrMalformedInput, "the lock condition of the spent output is unknown")
	}
	return txscript.Authorize(&txscript.SpendInput{
		LockScriptHash: *input.PrevOut.LockScriptHash,
		Parameters:     ToByteSlices(input.PrevOut.Parameters),
		LockScript:     input.LockScript,
		UnlockScript:   input.UnlockScript,
	}, tx.HashWithoutScript(), burn)
}

// Clone returns a deep copy of tx.
func (tx *AssetTransferTransaction) Clone() *AssetTransferTransaction {
	clone := &AssetTransferTransaction{
		Burns:     make([]*AssetTransferInput, len(tx.Burns)),
		Inputs:    make([]*AssetTransferInput, len(tx.Inputs)),
		Outputs:   make([]*AssetTransferOutput, len(tx.Outputs)),
		NetworkID: tx.NetworkID,
		Nonce:     tx.Nonce,
	}
	for i, burn := range tx.Burns {
		clone.Burns[i] = burn.Clone()
	}
	for i, input := range tx.Inputs {
		clone.Inputs[i] = input.Clone()
	}
	for i, output := range tx.Outputs {
		clone.Outputs[i] = output.Clone()
	}
	return clone
}

// Equal returns whether tx and other are the same transaction.
func (tx *AssetTransferTransaction) Equal(other *AssetTransferTransaction) bool {
	if tx.NetworkID != other.NetworkID || tx.Nonce != other.Nonce ||
		len(tx.Burns) != len(other.Burns) || len(tx.Inputs) != len(other.Inputs) ||
		len(tx.Outputs) != len(other.Outputs) {
		return false
	}
	for i := range tx.Burns {
		if !tx.Burns[i].Equal(other.Burns[i]) {
			return false
		}
	}
	for i := range tx.Inputs {
		if !tx.Inputs[i].Equal(other.Inputs[i]) {
			return false
		}
	}
	for i := range tx.Outputs {
		if !tx.Outputs[i].Equal(other.Outputs[i]) {
			return false
		}
	}
	return true
}

func decodeAssetTransferTransaction(fields rlp.List) (*AssetTransferTransaction, error) {
	if len(fields) != 6 {
		return nil, malformedf("transfer transaction has %d fields, expected 6", len(fields))
	}
	networkID, err := rlp.AsString(fields[1])
	if err != nil {
		return nil, err
	}
	burns, err := decodeInputList(fields[2])
	if err != nil {
		return nil, err
	}
	inputs, err := decodeInputList(fields[3])
	if err != nil {
		return nil, err
	}
	outputItems, err := rlp.AsList(fields[4], -1)
	if err != nil {
		return nil, err
	}
	outputs := make([]*AssetTransferOutput, len(outputItems))
	for i, item := range outputItems {
		outputs[i], err = decodeAssetTransferOutput(item)
		if err != nil {
			return nil, err
		}
	}
	nonce, err := rlp.AsUint64(fields[5])
	if err != nil {
		return nil, err
	}
	return &AssetTransferTransaction{
		Burns:     burns,
		Inputs:    inputs,
		Outputs:   outputs,
		NetworkID: networkID,
		Nonce:     nonce,
	}, nil
}

func decodeInputList(item rlp.Item) ([]*AssetTransferInput, error) {
	items, err := rlp.AsList(item, -1)
	if err != nil {
		return nil, err
	}
	inputs := make([]*AssetTransferInput, len(items))
	for i, item := range items {
		inputs[i], err = decodeAssetTransferInput(item)
		if err != nil {
			return nil, err
		}
	}
	return inputs, nil
}
