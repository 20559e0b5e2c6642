package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kaspanet/parcelsdk/domain/keystore"
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/netparams"
	"github.com/kaspanet/parcelsdk/domain/parcel"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/pkg/errors"
)

func main() {
	cfg, err := parseConfig()
	if err != nil {
		printErrorAndExit(err, "Failed to parse arguments")
	}

	unsigned, err := parseParcel(cfg.Parcel, cfg.NetParams())
	if err != nil {
		printErrorAndExit(err, "Failed to decode parcel")
	}

	signed, err := signParcel(cfg, unsigned)
	if err != nil {
		printErrorAndExit(err, "Failed to sign parcel")
	}

	serialized, err := signed.RLPBytes()
	if err != nil {
		printErrorAndExit(err, "Failed to serialize parcel")
	}
	hash, err := signed.Hash()
	if err != nil {
		printErrorAndExit(err, "Failed to hash parcel")
	}
	signedJSON, err := json.MarshalIndent(signed, "", "  ")
	if err != nil {
		printErrorAndExit(err, "Failed to render parcel")
	}

	fmt.Printf("Signed parcel (hex): %s\n", hex.EncodeToString(serialized))
	fmt.Printf("Parcel hash: %s\n", hash.Hex())
	fmt.Printf("%s\n", signedJSON)
}

func parseParcel(parcelHex string, params *netparams.Params) (*parcel.Parcel, error) {
	serialized, err := hex.DecodeString(strings.TrimPrefix(parcelHex, "0x"))
	if err != nil {
		return nil, ruleerrors.Wrap(ruleerrors.ErrMalformedInput, err)
	}
	unsigned, err := parcel.ParcelFromRLP(serialized)
	if err != nil {
		return nil, err
	}
	if unsigned.NetworkID != params.NetworkID {
		return nil, errors.Wrapf(ruleerrors.ErrNetworkMismatch,
			"parcel is for network %s, signing for %s", unsigned.NetworkID, params.NetworkID)
	}
	if unsigned.Fee.Cmp(externalapi.NewU256(params.MinParcelFee)) < 0 {
		log.Warnf("Parcel fee %s is below the minimum of %d on %s and will not be processed",
			unsigned.Fee, params.MinParcelFee, params.Name)
	}
	return unsigned, nil
}

func signParcel(cfg *configFlags, unsigned *parcel.Parcel) (*parcel.SignedParcel, error) {
	if cfg.KeyStore != "" {
		return signWithKeyStore(cfg.KeyStore, cfg.PublicKey, unsigned)
	}

	privateKeyHex := cfg.PrivateKey
	if privateKeyHex == "" {
		secret, err := readSecret("Private key (hex): ")
		if err != nil {
			return nil, err
		}
		privateKeyHex = strings.TrimSpace(string(secret))
	}
	privateKey, err := externalapi.NewH256FromString(privateKeyHex)
	if err != nil {
		return nil, err
	}
	return unsigned.Sign(privateKey)
}

func signWithKeyStore(path string, publicKeyHex string, unsigned *parcel.Parcel) (*parcel.SignedParcel, error) {
	publicKey, err := externalapi.NewH512FromString(publicKeyHex)
	if err != nil {
		return nil, err
	}
	keyStore, err := keystore.NewLocalKeyStore(path)
	if err != nil {
		return nil, err
	}
	defer keyStore.Close()

	return unsigned.SignWith(context.Background(), keyStore, publicKey)
}

func printErrorAndExit(err error, message string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", message, err)
	os.Exit(1)
}
