package parcel

import (
	"github.com/kaspanet/parcelsdk/domain/asset"
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/kaspanet/parcelsdk/domain/utils/rlp"
	"github.com/pkg/errors"
)

// These are the tags that lead the canonical encoding of each action.
const (
	changeShardStateTag = 1
	paymentTag          = 2
	setRegularKeyTag    = 3
	createShardTag      = 4
	setShardOwnersTag   = 5
	setShardUsersTag    = 6
)

// Action is the payload of a parcel. Exactly one action is carried by a
// parcel. It is implemented only by the action types of this package.
type Action interface {
	EncodeObject() rlp.Item
	isAction()
}

// ChangeShardState applies asset transactions to shard state.
type ChangeShardState struct {
	Transactions []asset.Transaction
}

// Payment moves Amount from the signer's account to Receiver.
type Payment struct {
	Receiver externalapi.AccountID
	Amount   externalapi.U256
}

// SetRegularKey registers Key as the regular key of the signer's account.
type SetRegularKey struct {
	Key externalapi.H512
}

// CreateShard creates a new shard owned by the signer.
type CreateShard struct{}

// SetShardOwners replaces the owners of a shard.
type SetShardOwners struct {
	ShardID uint16
	Owners  []externalapi.AccountID
}

// SetShardUsers replaces the users of a shard.
type SetShardUsers struct {
	ShardID uint16
	Users   []externalapi.AccountID
}

func (*ChangeShardState) isAction() {}
func (*Payment) isAction()          {}
func (*SetRegularKey) isAction()    {}
func (*CreateShard) isAction()      {}
func (*SetShardOwners) isAction()   {}
func (*SetShardUsers) isAction()    {}

// EncodeObject returns [1, [transaction...]].
func (a *ChangeShardState) EncodeObject() rlp.Item {
	transactions := make(rlp.List, len(a.Transactions))
	for i, tx := range a.Transactions {
		transactions[i] = tx.EncodeObject()
	}
	return rlp.List{rlp.Uint(changeShardStateTag), transactions}
}

// EncodeObject returns [2, receiver, amount].
func (a *Payment) EncodeObject() rlp.Item {
	return rlp.List{rlp.Uint(paymentTag), rlp.Bytes(a.Receiver[:]), rlp.BigBytes(a.Amount.Bytes())}
}

// EncodeObject returns [3, key].
func (a *SetRegularKey) EncodeObject() rlp.Item {
	return rlp.List{rlp.Uint(setRegularKeyTag), rlp.Bytes(a.Key[:])}
}

// EncodeObject returns [4].
func (a *CreateShard) EncodeObject() rlp.Item {
	return rlp.List{rlp.Uint(createShardTag)}
}

// EncodeObject returns [5, shardId, [owner...]].
func (a *SetShardOwners) EncodeObject() rlp.Item {
	return rlp.List{rlp.Uint(setShardOwnersTag), rlp.Uint(uint64(a.ShardID)), encodeAccountIDs(a.Owners)}
}

// EncodeObject returns [6, shardId, [user...]].
func (a *SetShardUsers) EncodeObject() rlp.Item {
	return rlp.List{rlp.Uint(setShardUsersTag), rlp.Uint(uint64(a.ShardID)), encodeAccountIDs(a.Users)}
}

func encodeAccountIDs(accountIDs []externalapi.AccountID) rlp.List {
	list := make(rlp.List, len(accountIDs))
	for i, accountID := range accountIDs {
		list[i] = rlp.Bytes(accountID[:])
	}
	return list
}

func decodeAccountIDs(item rlp.Item) ([]externalapi.AccountID, error) {
	list, err := rlp.AsList(item, -1)
	if err != nil {
		return nil, err
	}
	accountIDs := make([]externalapi.AccountID, len(list))
	for i, element := range list {
		b, err := rlp.AsFixedBytes(element, externalapi.H160Size)
		if err != nil {
			return nil, err
		}
		copy(accountIDs[i][:], b)
	}
	return accountIDs, nil
}

func decodeShardID(item rlp.Item) (uint16, error) {
	shardID, err := rlp.AsUint64(item)
	if err != nil {
		return 0, err
	}
	if shardID > 0xffff {
		return 0, errors.Wrapf(ruleerrors.ErrMalformedInput, "shard id %d out of range", shardID)
	}
	return uint16(shardID), nil
}

// DecodeAction decodes an action from its canonical encoding tree.
func DecodeAction(item rlp.Item) (Action, error) {
	fields, err := rlp.AsList(item, -1)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errors.Wrap(ruleerrors.ErrMalformedInput, "action has no tag")
	}
	tag, err := rlp.AsUint64(fields[0])
	if err != nil {
		return nil, err
	}

	expectedLength := map[uint64]int{
		changeShardStateTag: 2,
		paymentTag:          3,
		setRegularKeyTag:    2,
		createShardTag:      1,
		setShardOwnersTag:   3,
		setShardUsersTag:    3,
	}
	length, ok := expectedLength[tag]
	if !ok {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedInput, "unknown action tag %d", tag)
	}
	if len(fields) != length {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedInput,
			"action %d has %d fields, expected %d", tag, len(fields), length)
	}

	switch tag {
	case changeShardStateTag:
		list, err := rlp.AsList(fields[1], -1)
		if err != nil {
			return nil, err
		}
		transactions := make([]asset.Transaction, len(list))
		for i, element := range list {
			transactions[i], err = asset.DecodeTransaction(element)
			if err != nil {
				return nil, err
			}
		}
		return &ChangeShardState{Transactions: transactions}, nil

	case paymentTag:
		receiver, err := rlp.AsFixedBytes(fields[1], externalapi.H160Size)
		if err != nil {
			return nil, err
		}
		amountBytes, err := rlp.AsBigBytes(fields[2])
		if err != nil {
			return nil, err
		}
		amount, err := externalapi.NewU256FromBytes(amountBytes)
		if err != nil {
			return nil, err
		}
		payment := &Payment{Amount: amount}
		copy(payment.Receiver[:], receiver)
		return payment, nil

	case setRegularKeyTag:
		key, err := rlp.AsFixedBytes(fields[1], externalapi.H512Size)
		if err != nil {
			return nil, err
		}
		action := &SetRegularKey{}
		copy(action.Key[:], key)
		return action, nil

	case createShardTag:
		return &CreateShard{}, nil

	case setShardOwnersTag, setShardUsersTag:
		shardID, err := decodeShardID(fields[1])
		if err != nil {
			return nil, err
		}
		accountIDs, err := decodeAccountIDs(fields[2])
		if err != nil {
			return nil, err
		}
		if tag == setShardOwnersTag {
			return &SetShardOwners{ShardID: shardID, Owners: accountIDs}, nil
		}
		return &SetShardUsers{ShardID: shardID, Users: accountIDs}, nil
	}
	return nil, errors.Errorf("unhandled action tag %d", tag)
}

// ActionsEqual returns whether a and b are the same action.
func ActionsEqual(a, b Action) bool {
	switch a := a.(type) {
	case *ChangeShardState:
		b, ok := b.(*ChangeShardState)
		if !ok || len(a.Transactions) != len(b.Transactions) {
			return false
		}
		for i := range a.Transactions {
			if !asset.TransactionsEqual(a.Transactions[i], b.Transactions[i]) {
				return false
			}
		}
		return true
	case *Payment:
		b, ok := b.(*Payment)
		return ok && a.Receiver == b.Receiver && a.Amount.Equal(b.Amount)
	case *SetRegularKey:
		b, ok := b.(*SetRegularKey)
		return ok && a.Key == b.Key
	case *CreateShard:
		_, ok := b.(*CreateShard)
		return ok
	case *SetShardOwners:
		b, ok := b.(*SetShardOwners)
		return ok && a.ShardID == b.ShardID && accountIDsEqual(a.Owners, b.Owners)
	case *SetShardUsers:
		b, ok := b.(*SetShardUsers)
		return ok && a.ShardID == b.ShardID && accountIDsEqual(a.Users, b.Users)
	}
	return false
}

func accountIDsEqual(a, b []externalapi.AccountID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
