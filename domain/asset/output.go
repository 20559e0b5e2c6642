package asset

import (
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/utils/rlp"
)

// AssetTransferOutput locks Amount units of AssetType with a new condition.
type AssetTransferOutput struct {
	LockScriptHash externalapi.H256        `json:"lockScriptHash"`
	Parameters     []externalapi.ByteArray `json:"parameters"`
	AssetType      externalapi.AssetType   `json:"assetType"`
	Amount         uint64                  `json:"amount"`
}

// EncodeObject returns [lockScriptHash, parameters, assetType, amount].
func (out *AssetTransferOutput) EncodeObject() rlp.Item {
	return rlp.List{
		rlp.Bytes(out.LockScriptHash.Bytes()),
		encodeByteArrays(out.Parameters),
		rlp.Bytes(out.AssetType.Bytes()),
		rlp.Uint(out.Amount),
	}
}

// ShardID returns the shard of the output's asset type.
func (out *AssetTransferOutput) ShardID() uint16 {
	return ShardID(out.AssetType)
}

// Clone returns a deep copy of out.
func (out *AssetTransferOutput) Clone() *AssetTransferOutput {
	clone := *out
	clone.Parameters = externalapi.CloneByteArrays(out.Parameters)
	return &clone
}

// Equal returns whether out and other are the same output.
func (out *AssetTransferOutput) Equal(other *AssetTransferOutput) bool {
	return out.LockScriptHash == other.LockScriptHash &&
		externalapi.ByteArraysEqual(out.Parameters, other.Parameters) &&
		out.AssetType == other.AssetType &&
		out.Amount == other.Amount
}

func decodeAssetTransferOutput(item rlp.Item) (*AssetTransferOutput, error) {
	fields, err := rlp.AsList(item, 4)
	if err != nil {
		return nil, err
	}
	lockScriptHash, err := decodeH256(fields[0])
	if err != nil {
		return nil, err
	}
	parameters, err := decodeByteArrays(fields[1])
	if err != nil {
		return nil, err
	}
	assetType, err := decodeH256(fields[2])
	if err != nil {
		return nil, err
	}
	amount, err := rlp.AsUint64(fields[3])
	if err != nil {
		return nil, err
	}
	return &AssetTransferOutput{
		LockScriptHash: lockScriptHash,
		Parameters:     parameters,
		AssetType:      assetType,
		Amount:         amount,
	}, nil
}
