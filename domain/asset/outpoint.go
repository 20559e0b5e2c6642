package asset

import (
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/utils/rlp"
)

// AssetOutPoint references one output of a previous transaction by value.
// LockScriptHash and Parameters are what the referenced output was locked
// with. They are not part of the encoding and are only needed to sign or
// authorize the input; a nil LockScriptHash means they are unknown.
type AssetOutPoint struct {
	TransactionHash externalapi.H256        `json:"transactionHash"`
	Index           uint32                  `json:"index"`
	AssetType       externalapi.AssetType   `json:"assetType"`
	Amount          uint64                  `json:"amount"`
	LockScriptHash  *externalapi.H256       `json:"lockScriptHash,omitempty"`
	Parameters      []externalapi.ByteArray `json:"parameters,omitempty"`
}

// EncodeObject returns [transactionHash, index, assetType, amount].
func (op *AssetOutPoint) EncodeObject() rlp.Item {
	return rlp.List{
		rlp.Bytes(op.TransactionHash.Bytes()),
		rlp.Uint(uint64(op.Index)),
		rlp.Bytes(op.AssetType.Bytes()),
		rlp.Uint(op.Amount),
	}
}

// Clone returns a deep copy of op.
func (op *AssetOutPoint) Clone() *AssetOutPoint {
	clone := *op
	if op.LockScriptHash != nil {
		lockScriptHash := *op.LockScriptHash
		clone.LockScriptHash = &lockScriptHash
	}
	clone.Parameters = externalapi.CloneByteArrays(op.Parameters)
	return &clone
}

// Equal returns whether op and other reference the same output with the same
// recorded lock condition.
func (op *AssetOutPoint) Equal(other *AssetOutPoint) bool {
	if op.TransactionHash != other.TransactionHash || op.Index != other.Index ||
		op.AssetType != other.AssetType || op.Amount != other.Amount {
		return false
	}
	if (op.LockScriptHash == nil) != (other.LockScriptHash == nil) {
		return false
	}
	if op.LockScriptHash != nil && *op.LockScriptHash != *other.LockScriptHash {
		return false
	}
	return externalapi.ByteArraysEqual(op.Parameters, other.Parameters)
}

func decodeAssetOutPoint(item rlp.Item) (*AssetOutPoint, error) {
	fields, err := rlp.AsList(item, 4)
	if err != nil {
		return nil, err
	}
	transactionHash, err := decodeH256(fields[0])
	if err != nil {
		return nil, err
	}
	index, err := rlp.AsUint64(fields[1])
	if err != nil {
		return nil, err
	}
	if index > uint64(^uint32(0)) {
		return nil, malformedf("output index %d overflows uint32", index)
	}
	assetType, err := decodeH256(fields[2])
	if err != nil {
		return nil, err
	}
	amount, err := rlp.AsUint64(fields[3])
	if err != nil {
		return nil, err
	}
	return &AssetOutPoint{
		TransactionHash: transactionHash,
		Index:           uint32(index),
		AssetType:       assetType,
		Amount:          amount,
	}, nil
}
