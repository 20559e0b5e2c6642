package config

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/parcelsdk/domain/netparams"
	"github.com/pkg/errors"
)

// NetworkFlags holds the network configuration, that is which network is selected.
type NetworkFlags struct {
	Testnet   bool   `long:"testnet" description:"Use the test network (default)"`
	Mainnet   bool   `long:"mainnet" description:"Use the main network"`
	NetworkID string `long:"network-id" description:"Use the network with the given two-letter id"`

	ActiveNetParams *netparams.Params
}

// ResolveNetwork parses the network command line argument and sets ActiveNetParams accordingly.
// It returns error if more than one network was selected, nil otherwise.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	// default net is test net
	networkFlags.ActiveNetParams = &netparams.TestnetParams
	// Multiple networks can't be selected simultaneously.
	numNets := 0
	if networkFlags.Testnet {
		numNets++
		networkFlags.ActiveNetParams = &netparams.TestnetParams
	}
	if networkFlags.Mainnet {
		numNets++
		networkFlags.ActiveNetParams = &netparams.MainnetParams
	}
	if networkFlags.NetworkID != "" {
		numNets++
		params, err := paramsForNetworkID(networkFlags.NetworkID)
		if err != nil {
			return err
		}
		networkFlags.ActiveNetParams = params
	}
	if numNets > 1 {
		message := "Multiple networks parameters (testnet, mainnet, network-id) cannot be used " +
			"together. Please choose only one network"
		err := errors.Errorf(message)
		if parser != nil {
			fmt.Fprintln(os.Stderr, err)
			parser.WriteHelp(os.Stderr)
		}
		return err
	}

	return nil
}

// paramsForNetworkID returns the registered parameters for networkID, or
// registers parameters for it when the network is not a known one.
func paramsForNetworkID(networkID string) (*netparams.Params, error) {
	params, err := netparams.ParamsForNetworkID(networkID)
	if err == nil {
		return params, nil
	}
	if !errors.Is(err, netparams.ErrUnknownNet) {
		return nil, err
	}
	params = &netparams.Params{
		Name:         "custom-" + networkID,
		NetworkID:    networkID,
		MinParcelFee: netparams.TestnetParams.MinParcelFee,
	}
	err = netparams.Register(params)
	if err != nil {
		return nil, err
	}
	return params, nil
}

// NetParams returns the ActiveNetParams
func (networkFlags *NetworkFlags) NetParams() *netparams.Params {
	return networkFlags.ActiveNetParams
}
