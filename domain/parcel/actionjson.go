package parcel

import (
	"github.com/kaspanet/parcelsdk/domain/address"
	"github.com/kaspanet/parcelsdk/domain/asset"
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/pkg/errors"
)

// These are the action names of the JSON form.
const (
	changeShardStateJSONName = "changeShardState"
	paymentJSONName          = "payment"
	setRegularKeyJSONName    = "setRegularKey"
	createShardJSONName      = "createShard"
	setShardOwnersJSONName   = "setShardOwners"
	setShardUsersJSONName    = "setShardUsers"
)

// ActionJSON is the JSON form of an action. Account ids are rendered as
// platform addresses of the parcel's network.
type ActionJSON struct {
	Action       string                   `json:"action"`
	Transactions []*asset.TransactionJSON `json:"transactions,omitempty"`
	Receiver     string                   `json:"receiver,omitempty"`
	Amount       *externalapi.U256        `json:"amount,omitempty"`
	Key          *externalapi.H512        `json:"key,omitempty"`
	ShardID      *uint16                  `json:"shardId,omitempty"`
	Owners       []string                 `json:"owners,omitempty"`
	Users        []string                 `json:"users,omitempty"`
}

// NewActionJSON returns the JSON form of action on networkID.
func NewActionJSON(action Action, networkID string) (*ActionJSON, error) {
	switch action := action.(type) {
	case *ChangeShardState:
		transactions := make([]*asset.TransactionJSON, len(action.Transactions))
		for i, tx := range action.Transactions {
			transactionJSON, err := asset.NewTransactionJSON(tx)
			if err != nil {
				return nil, err
			}
			transactions[i] = transactionJSON
		}
		return &ActionJSON{Action: changeShardStateJSONName, Transactions: transactions}, nil

	case *Payment:
		receiver, err := address.NewPlatformAddress(action.Receiver, networkID)
		if err != nil {
			return nil, err
		}
		amount := action.Amount
		return &ActionJSON{Action: paymentJSONName, Receiver: receiver.String(), Amount: &amount}, nil

	case *SetRegularKey:
		key := action.Key
		return &ActionJSON{Action: setRegularKeyJSONName, Key: &key}, nil

	case *CreateShard:
		return &ActionJSON{Action: createShardJSONName}, nil

	case *SetShardOwners:
		owners, err := formatAccountIDs(action.Owners, networkID)
		if err != nil {
			return nil, err
		}
		shardID := action.ShardID
		return &ActionJSON{Action: setShardOwnersJSONName, ShardID: &shardID, Owners: owners}, nil

	case *SetShardUsers:
		users, err := formatAccountIDs(action.Users, networkID)
		if err != nil {
			return nil, err
		}
		shardID := action.ShardID
		return &ActionJSON{Action: setShardUsersJSONName, ShardID: &shardID, Users: users}, nil
	}
	return nil, errors.Errorf("unknown action type %T", action)
}

// ActionFromJSON parses the JSON form of an action on networkID.
func ActionFromJSON(actionJSON *ActionJSON, networkID string) (Action, error) {
	switch actionJSON.Action {
	case changeShardStateJSONName:
		transactions := make([]asset.Transaction, len(actionJSON.Transactions))
		for i, transactionJSON := range actionJSON.Transactions {
			if transactionJSON == nil {
				return nil, errors.Wrapf(ruleerrors.ErrMalformedInput, "transaction %d is null", i)
			}
			tx, err := asset.TransactionFromJSON(transactionJSON)
			if err != nil {
				return nil, err
			}
			transactions[i] = tx
		}
		return &ChangeShardState{Transactions: transactions}, nil

	case paymentJSONName:
		if actionJSON.Amount == nil {
			return nil, errors.Wrap(ruleerrors.ErrMalformedInput, "payment has no amount")
		}
		receiver, err := address.DecodePlatformAddress(actionJSON.Receiver, networkID)
		if err != nil {
			return nil, err
		}
		return &Payment{Receiver: receiver.AccountID(), Amount: *actionJSON.Amount}, nil

	case setRegularKeyJSONName:
		if actionJSON.Key == nil {
			return nil, errors.Wrap(ruleerrors.ErrMalformedInput, "setRegularKey has no key")
		}
		return &SetRegularKey{Key: *actionJSON.Key}, nil

	case createShardJSONName:
		return &CreateShard{}, nil

	case setShardOwnersJSONName:
		if actionJSON.ShardID == nil {
			return nil, errors.Wrap(ruleerrors.ErrMalformedInput, "setShardOwners has no shard id")
		}
		owners, err := parseAccountIDs(actionJSON.Owners, networkID)
		if err != nil {
			return nil, err
		}
		return &SetShardOwners{ShardID: *actionJSON.ShardID, Owners: owners}, nil

	case setShardUsersJSONName:
		if actionJSON.ShardID == nil {
			return nil, errors.Wrap(ruleerrors.ErrMalformedInput, "setShardUsers has no shard id")
		}
		users, err := parseAccountIDs(actionJSON.Users, networkID)
		if err != nil {
			return nil, err
		}
		return &SetShardUsers{ShardID: *actionJSON.ShardID, Users: users}, nil
	}
	return nil, errors.Wrapf(ruleerrors.ErrMalformedInput, "unknown action %q", actionJSON.Action)
}

func formatAccountIDs(accountIDs []externalapi.AccountID, networkID string) ([]string, error) {
	addresses := make([]string, len(accountIDs))
	for i, accountID := range accountIDs {
		platformAddress, err := address.NewPlatformAddress(accountID, networkID)
		if err != nil {
			return nil, err
		}
		addresses[i] = platformAddress.String()
	}
	return addresses, nil
}

func parseAccountIDs(addresses []string, networkID string) ([]externalapi.AccountID, error) {
	accountIDs := make([]externalapi.AccountID, len(addresses))
	for i, encoded := range addresses {
		platformAddress, err := address.DecodePlatformAddress(encoded, networkID)
		if err != nil {
			return nil, err
		}
		accountIDs[i] = platformAddress.AccountID()
	}
	return accountIDs, nil
}
