package address

import (
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/pkg/errors"
)

// PlatformAddress is the bech32 form of an account id on a network.
type PlatformAddress struct {
	accountID externalapi.AccountID
	networkID string
	value     string
}

// NewPlatformAddress returns the platform address of accountID on networkID.
func NewPlatformAddress(accountID externalapi.AccountID, networkID string) (*PlatformAddress, error) {
	value, err := encodeBech32(networkID, platformKind, append([]byte{addressVersion}, accountID[:]...))
	if err != nil {
		return nil, err
	}
	return &PlatformAddress{accountID: accountID, networkID: networkID, value: value}, nil
}

// DecodePlatformAddress parses a platform address that must belong to
// networkID.
func DecodePlatformAddress(encoded string, networkID string) (*PlatformAddress, error) {
	payload, err := decodeBech32(encoded, networkID, platformKind)
	if err != nil {
		return nil, err
	}
	if len(payload) != externalapi.H160Size {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedInput,
			"platform address payload is %d bytes, expected %d", len(payload), externalapi.H160Size)
	}
	var accountID externalapi.AccountID
	copy(accountID[:], payload)
	log.Tracef("Decoded platform address %s to account %s", encoded, accountID)
	return NewPlatformAddress(accountID, networkID)
}

// AccountID returns the account id the address encodes.
func (a *PlatformAddress) AccountID() externalapi.AccountID {
	return a.accountID
}

// NetworkID returns the network the address belongs to.
func (a *PlatformAddress) NetworkID() string {
	return a.networkID
}

func (a *PlatformAddress) String() string {
	return a.value
}

// Equal returns whether a and other encode the same account on the same network.
func (a *PlatformAddress) Equal(other *PlatformAddress) bool {
	return a.accountID == other.accountID && a.networkID == other.networkID
}
