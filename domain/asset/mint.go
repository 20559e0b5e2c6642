package asset

import (
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/utils/rlp"
)

// AssetMintTransaction creates a new asset type on a shard and locks its whole
// supply with one condition. A nil Amount mints the maximum supply, and a nil
// Registrar mints an asset without a registrar.
type AssetMintTransaction struct {
	NetworkID      string                  `json:"networkId"`
	ShardID        uint16                  `json:"shardId"`
	Metadata       string                  `json:"metadata"`
	Registrar      *externalapi.AccountID  `json:"registrar"`
	LockScriptHash externalapi.H256        `json:"lockScriptHash"`
	Parameters     []externalapi.ByteArray `json:"parameters"`
	Amount         *uint64                 `json:"amount"`
	Nonce          uint64                  `json:"nonce"`
}

// MaxMintAmount is the supply minted when no amount is given.
const MaxMintAmount = ^uint64(0)

// EncodeObject returns
// [3, networkId, shardId, metadata, [registrar]?, lockScriptHash, parameters, [amount]?, nonce],
// where an absent optional field is an empty list.
func (tx *AssetMintTransaction) EncodeObject() rlp.Item {
	registrar := rlp.List{}
	if tx.Registrar != nil {
		registrar = rlp.List{rlp.Bytes(tx.Registrar.Bytes())}
	}
	amount := rlp.List{}
	if tx.Amount != nil {
		amount = rlp.List{rlp.Uint(*tx.Amount)}
	}
	return rlp.List{
		rlp.Uint(assetMintTag),
		rlp.String(tx.NetworkID),
		rlp.Uint(uint64(tx.ShardID)),
		rlp.String(tx.Metadata),
		registrar,
		rlp.Bytes(tx.LockScriptHash.Bytes()),
		encodeByteArrays(tx.Parameters),
		amount,
		rlp.Uint(tx.Nonce),
	}
}

// RLPBytes returns the canonical encoding of tx.
func (tx *AssetMintTransaction) RLPBytes() []byte {
	return mustEncode(tx.EncodeObject())
}

// Hash returns the blake256 hash of the canonical encoding of tx.
func (tx *AssetMintTransaction) Hash() externalapi.H256 {
	return hashItem(tx.EncodeObject())
}

// AssetType returns the type of the asset tx mints.
func (tx *AssetMintTransaction) AssetType() externalapi.AssetType {
	return MintedAssetType(tx.ShardID, tx.Hash())
}

// MintedAmount returns the amount tx mints.
func (tx *AssetMintTransaction) MintedAmount() uint64 {
	if tx.Amount == nil {
		return MaxMintAmount
	}
	return *tx.Amount
}

// MintedAsset returns the asset tx creates once executed. It is the output
// at index 0 of tx.
func (tx *AssetMintTransaction) MintedAsset() (*Asset, error) {
	return NewAsset(&AssetData{
		AssetType:              tx.AssetType(),
		LockScriptHash:         tx.LockScriptHash,
		Parameters:             tx.Parameters,
		Amount:                 tx.MintedAmount(),
		TransactionHash:        tx.Hash(),
		TransactionOutputIndex: 0,
	})
}

// Equal returns whether tx and other are the same transaction.
func (tx *AssetMintTransaction) Equal(other *AssetMintTransaction) bool {
	if tx.NetworkID != other.NetworkID || tx.ShardID != other.ShardID || tx.Metadata != other.Metadata ||
		tx.LockScriptHash != other.LockScriptHash || tx.Nonce != other.Nonce ||
		!externalapi.ByteArraysEqual(tx.Parameters, other.Parameters) {
		return false
	}
	if (tx.Registrar == nil) != (other.Registrar == nil) || (tx.Registrar != nil && *tx.Registrar != *other.Registrar) {
		return false
	}
	if (tx.Amount == nil) != (other.Amount == nil) || (tx.Amount != nil && *tx.Amount != *other.Amount) {
		return false
	}
	return true
}

func decodeAssetMintTransaction(fields rlp.List) (*AssetMintTransaction, error) {
	if len(fields) != 9 {
		return nil, malformedf("mint transaction has %d fields, expected 9", len(fields))
	}
	networkID, err := rlp.AsString(fields[1])
	if err != nil {
		return nil, err
	}
	shardID, err := rlp.AsUint64(fields[2])
	if err != nil {
		return nil, err
	}
	if shardID > 0xffff {
		return nil, malformedf("shard id %d overflows uint16", shardID)
	}
	metadata, err := rlp.AsString(fields[3])
	if err != nil {
		return nil, err
	}
	registrarItem, err := decodeOptional(fields[4])
	if err != nil {
		return nil, err
	}
	var registrar *externalapi.AccountID
	if registrarItem != nil {
		b, err := rlp.AsFixedBytes(registrarItem, externalapi.H160Size)
		if err != nil {
			return nil, err
		}
		accountID, err := externalapi.NewH160FromSlice(b)
		if err != nil {
			return nil, err
		}
		registrar = &accountID
	}
	lockScriptHash, err := decodeH256(fields[5])
	if err != nil {
		return nil, err
	}
	parameters, err := decodeByteArrays(fields[6])
	if err != nil {
		return nil, err
	}
	amountItem, err := decodeOptional(fields[7])
	if err != nil {
		return nil, err
	}
	var amount *uint64
	if amountItem != nil {
		value, err := rlp.AsUint64(amountItem)
		if err != nil {
			return nil, err
		}
		amount = &value
	}
	nonce, err := rlp.AsUint64(fields[8])
	if err != nil {
		return nil, err
	}
	return &AssetMintTransaction{
		NetworkID:      networkID,
		ShardID:        uint16(shardID),
		Metadata:       metadata,
		Registrar:      registrar,
		LockScriptHash: lockScriptHash,
		Parameters:     parameters,
		Amount:         amount,
		Nonce:          nonce,
	}, nil
}

// decodeOptional returns the single element of an optional field, or nil
// when the field is an empty list.
func decodeOptional(item rlp.Item) (rlp.Item, error) {
	list, err := rlp.AsList(item, -1)
	if err != nil {
		return nil, err
	}
	switch len(list) {
	case 0:
		return nil, nil
	case 1:
		return list[0], nil
	}
	return nil, malformedf("optional field has %d elements", len(list))
}
