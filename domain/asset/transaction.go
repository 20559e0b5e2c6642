package asset

import (
	"encoding/json"

	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/kaspanet/parcelsdk/domain/utils/rlp"
	"github.com/pkg/errors"
)

// Transaction is an asset transaction carried by a parcel. It is implemented
// only by *AssetMintTransaction and *AssetTransferTransaction.
type Transaction interface {
	EncodeObject() rlp.Item
	RLPBytes() []byte
	Hash() externalapi.H256
	isTransaction()
}

func (*AssetMintTransaction) isTransaction()     {}
func (*AssetTransferTransaction) isTransaction() {}

// These are the type names of transactions in their JSON form.
const (
	assetMintJSONType     = "assetMint"
	assetTransferJSONType = "assetTransfer"
)

// DecodeTransaction decodes a transaction from its canonical encoding tree.
func DecodeTransaction(item rlp.Item) (Transaction, error) {
	fields, err := rlp.AsList(item, -1)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errors.Wrap(ruleerrors.ErrMalformedInput, "transaction has no tag")
	}
	tag, err := rlp.AsUint64(fields[0])
	if err != nil {
		return nil, err
	}
	switch tag {
	case assetMintTag:
		return decodeAssetMintTransaction(fields)
	case assetTransferTag:
		return decodeAssetTransferTransaction(fields)
	}
	return nil, errors.Wrapf(ruleerrors.ErrMalformedInput, "unknown transaction tag %d", tag)
}

// TransactionFromRLP decodes a transaction from its canonical encoding.
func TransactionFromRLP(encoded []byte) (Transaction, error) {
	item, err := rlp.Decode(encoded)
	if err != nil {
		return nil, err
	}
	return DecodeTransaction(item)
}

// TransactionJSON is the JSON form of a transaction:
// {"type": "assetMint"|"assetTransfer", "data": {...}}.
type TransactionJSON struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// NewTransactionJSON returns the JSON form of tx.
func NewTransactionJSON(tx Transaction) (*TransactionJSON, error) {
	var transactionType string
	switch tx.(type) {
	case *AssetMintTransaction:
		transactionType = assetMintJSONType
	case *AssetTransferTransaction:
		transactionType = assetTransferJSONType
	default:
		return nil, errors.Errorf("unknown transaction type %T", tx)
	}
	data, err := json.Marshal(tx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &TransactionJSON{Type: transactionType, Data: data}, nil
}

// TransactionFromJSON parses the JSON form of a transaction.
func TransactionFromJSON(transactionJSON *TransactionJSON) (Transaction, error) {
	var tx Transaction
	switch transactionJSON.Type {
	case assetMintJSONType:
		tx = &AssetMintTransaction{}
	case assetTransferJSONType:
		tx = &AssetTransferTransaction{}
	default:
		return nil, errors.Wrapf(ruleerrors.ErrMalformedInput, "unknown transaction type %q", transactionJSON.Type)
	}
	err := json.Unmarshal(transactionJSON.Data, tx)
	if err != nil {
		return nil, ruleerrors.Wrap(ruleerrors.ErrMalformedInput, err)
	}
	return tx, nil
}

// TransactionsEqual returns whether a and b are the same transaction.
func TransactionsEqual(a, b Transaction) bool {
	switch a := a.(type) {
	case *AssetMintTransaction:
		b, ok := b.(*AssetMintTransaction)
		return ok && a.Equal(b)
	case *AssetTransferTransaction:
		b, ok := b.(*AssetTransferTransaction)
		return ok && a.Equal(b)
	}
	return false
}
