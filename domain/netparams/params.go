package netparams

import (
	"github.com/pkg/errors"
)

// NetworkIDSize is the length of a network id.
const NetworkIDSize = 2

// Params defines a network by its parameters. These parameters may be used
// by applications to differentiate networks as well as addresses and keys
// for one network from those intended for use on another network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// NetworkID is the two character network identifier. It is part of every
	// parcel and transaction encoding and the prefix of every address.
	NetworkID string

	// MinParcelFee is the smallest fee the signing tools accept without
	// a warning.
	MinParcelFee uint64
}

// PlatformAddressPrefix returns the human-readable prefix of platform
// addresses on this network.
func (p *Params) PlatformAddressPrefix() string {
	return p.NetworkID + "c"
}

// AssetAddressPrefix returns the human-readable prefix of asset transfer
// addresses on this network.
func (p *Params) AssetAddressPrefix() string {
	return p.NetworkID + "a"
}

// MainnetParams defines the network parameters for the main network.
var MainnetParams = Params{
	Name:         "mainnet",
	NetworkID:    "cc",
	MinParcelFee: 10,
}

// TestnetParams defines the network parameters for the test network.
var TestnetParams = Params{
	Name:         "testnet",
	NetworkID:    "tc",
	MinParcelFee: 10,
}

var (
	// ErrDuplicateNet describes an error where the parameters for a network
	// could not be set due to the network already being a standard network
	// or previously-registered into this package.
	ErrDuplicateNet = errors.New("duplicate network")

	// ErrUnknownNet describes an error where no parameters are registered
	// for a network id.
	ErrUnknownNet = errors.New("unknown network")

	// ErrInvalidNetworkID describes a network id that is not exactly
	// NetworkIDSize lowercase letters.
	ErrInvalidNetworkID = errors.New("invalid network id")
)

var registeredNets = make(map[string]*Params)

// ValidateNetworkID returns ErrInvalidNetworkID unless networkID is exactly
// NetworkIDSize lowercase ASCII letters.
func ValidateNetworkID(networkID string) error {
	if len(networkID) != NetworkIDSize {
		return errors.Wrapf(ErrInvalidNetworkID, "%q has %d characters", networkID, len(networkID))
	}
	for _, c := range networkID {
		if c < 'a' || c > 'z' {
			return errors.Wrapf(ErrInvalidNetworkID, "%q contains %q", networkID, c)
		}
	}
	return nil
}

// Register registers the network parameters for a network. This may error
// with ErrDuplicateNet if the network is already registered (either due to a
// previous Register call, or the network being one of the default networks).
//
// Network parameters should be registered into this package by a main package
// as early as possible. Then, library packages may lookup networks or network
// parameters based on inputs and work regardless of the network being standard
// or not.
func Register(params *Params) error {
	err := ValidateNetworkID(params.NetworkID)
	if err != nil {
		return err
	}
	if _, ok := registeredNets[params.NetworkID]; ok {
		return errors.Wrapf(ErrDuplicateNet, "network id %s", params.NetworkID)
	}
	registeredNets[params.NetworkID] = params
	return nil
}

// ParamsForNetworkID returns the registered parameters of networkID.
func ParamsForNetworkID(networkID string) (*Params, error) {
	params, ok := registeredNets[networkID]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownNet, "network id %s", networkID)
	}
	return params, nil
}

// mustRegister performs the same function as Register except it panics if there
// is an error. This should only be called from package init functions.
func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

func init() {
	// Register all default networks when the package is initialized.
	mustRegister(&MainnetParams)
	mustRegister(&TestnetParams)
}
