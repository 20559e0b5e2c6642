package main

import (
	"fmt"
	"os"

	"github.com/kaspanet/parcelsdk/domain/address"
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/utils/ecdsa"
	"github.com/kaspanet/parcelsdk/domain/utils/hashes"
	"github.com/pkg/errors"
)

func main() {
	cfg, err := parseConfig()
	if err != nil {
		printErrorAndExit(err, "Failed to parse arguments")
	}

	publicKey, err := externalapi.NewH512FromString(cfg.PublicKey)
	if err != nil {
		printErrorAndExit(err, "Failed to decode public key")
	}
	if !ecdsa.IsValidPublicKey(publicKey) {
		printErrorAndExit(errors.New("not a point on secp256k1"), "Invalid public key")
	}

	encoded, err := addressForPublicKey(publicKey, cfg.AddressType, cfg.NetParams().NetworkID)
	if err != nil {
		printErrorAndExit(err, "Failed to create address")
	}
	log.Debugf("Created %s address for public key %s", cfg.AddressType, publicKey)
	fmt.Println(encoded)
}

func addressForPublicKey(publicKey externalapi.H512, addressType string, networkID string) (fmt.Stringer, error) {
	switch addressType {
	case platformAddressType:
		return address.NewPlatformAddress(hashes.AccountIDFromPublicKey(publicKey), networkID)
	case p2pkhAddressType:
		return address.NewAssetTransferAddress(address.P2PKHType, hashes.PublicKeyHash(publicKey), networkID)
	case p2pkhBurnAddressType:
		return address.NewAssetTransferAddress(address.P2PKHBurnType, hashes.PublicKeyHash(publicKey), networkID)
	}
	return nil, errors.Errorf("unknown address type %s", addressType)
}

func printErrorAndExit(err error, message string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", message, err)
	os.Exit(1)
}
