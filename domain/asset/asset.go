package asset

import (
	"encoding/json"

	"github.com/kaspanet/parcelsdk/domain/address"
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/pkg/errors"
)

// AssetData holds the fields an Asset is built from.
type AssetData struct {
	AssetType              externalapi.AssetType
	LockScriptHash         externalapi.H256
	Parameters             []externalapi.ByteArray
	Amount                 uint64
	TransactionHash        externalapi.H256
	TransactionOutputIndex uint32
}

// Asset is an output created by an executed mint or transfer transaction.
// It is spent whole: a transfer consumes its entire Amount.
type Asset struct {
	AssetType      externalapi.AssetType
	LockScriptHash externalapi.H256
	Parameters     []externalapi.ByteArray
	Amount         uint64
	OutPoint       *AssetOutPoint
}

// NewAsset builds an asset from data. The amount must be positive.
func NewAsset(data *AssetData) (*Asset, error) {
	if data.Amount == 0 {
		return nil, errors.Wrap(ruleerrors.ErrMalformedInput, "asset amount must be positive")
	}
	lockScriptHash := data.LockScriptHash
	parameters := externalapi.CloneByteArrays(data.Parameters)
	if parameters == nil {
		parameters = []externalapi.ByteArray{}
	}
	return &Asset{
		AssetType:      data.AssetType,
		LockScriptHash: data.LockScriptHash,
		Parameters:     parameters,
		Amount:         data.Amount,
		OutPoint: &AssetOutPoint{
			TransactionHash: data.TransactionHash,
			Index:           data.TransactionOutputIndex,
			AssetType:       data.AssetType,
			Amount:          data.Amount,
			LockScriptHash:  &lockScriptHash,
			Parameters:      externalapi.CloneByteArrays(parameters),
		},
	}, nil
}

// assetJSON is the legacy JSON layout of an asset. Its field names must be
// kept as they are for interoperability.
type assetJSON struct {
	AssetType              externalapi.AssetType   `json:"asset_type"`
	LockScriptHash         externalapi.H256        `json:"lock_script_hash"`
	Parameters             []externalapi.ByteArray `json:"parameters"`
	Amount                 uint64                  `json:"amount"`
	TransactionHash        externalapi.H256        `json:"transactionHash"`
	TransactionOutputIndex uint32                  `json:"transactionOutputIndex"`
}

// MarshalJSON renders the asset in its legacy JSON layout.
func (a *Asset) MarshalJSON() ([]byte, error) {
	return json.Marshal(&assetJSON{
		AssetType:              a.AssetType,
		LockScriptHash:         a.LockScriptHash,
		Parameters:             a.Parameters,
		Amount:                 a.Amount,
		TransactionHash:        a.OutPoint.TransactionHash,
		TransactionOutputIndex: a.OutPoint.Index,
	})
}

// UnmarshalJSON parses the legacy JSON layout of an asset.
func (a *Asset) UnmarshalJSON(data []byte) error {
	var parsed assetJSON
	err := json.Unmarshal(data, &parsed)
	if err != nil {
		return ruleerrors.Wrap(ruleerrors.ErrMalformedInput, err)
	}
	asset, err := NewAsset(&AssetData{
		AssetType:              parsed.AssetType,
		LockScriptHash:         parsed.LockScriptHash,
		Parameters:             parsed.Parameters,
		Amount:                 parsed.Amount,
		TransactionHash:        parsed.TransactionHash,
		TransactionOutputIndex: parsed.TransactionOutputIndex,
	})
	if err != nil {
		return err
	}
	*a = *asset
	return nil
}

// Equal returns whether a and other are the same asset.
func (a *Asset) Equal(other *Asset) bool {
	return a.AssetType == other.AssetType &&
		a.LockScriptHash == other.LockScriptHash &&
		externalapi.ByteArraysEqual(a.Parameters, other.Parameters) &&
		a.Amount == other.Amount &&
		a.OutPoint.Equal(other.OutPoint)
}

// CreateTransferInput returns an input spending the asset with empty scripts.
func (a *Asset) CreateTransferInput() *AssetTransferInput {
	return NewAssetTransferInput(a.OutPoint.Clone())
}

// Recipient is one output of a transfer built by CreateTransferTransaction.
type Recipient struct {
	Address string
	Amount  uint64
}

// CreateTransferTransaction returns a transfer on networkID with one input
// spending the asset and one output per recipient, locked with the condition
// the recipient's asset transfer address stands for.
func (a *Asset) CreateTransferTransaction(recipients []Recipient, networkID string,
	nonce uint64) (*AssetTransferTransaction, error) {

	tx := NewAssetTransferTransaction(networkID, nonce)
	tx.Inputs = append(tx.Inputs, a.CreateTransferInput())
	for _, recipient := range recipients {
		lockScriptHash, parameters, err := address.Resolve(recipient.Address, networkID)
		if err != nil {
			return nil, err
		}
		tx.AddOutputs(&AssetTransferOutput{
			LockScriptHash: lockScriptHash,
			Parameters:     FromByteSlices(parameters),
			AssetType:      a.AssetType,
			Amount:         recipient.Amount,
		})
	}
	return tx, nil
}
