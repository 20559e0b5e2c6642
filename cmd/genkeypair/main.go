package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kaspanet/parcelsdk/domain/address"
	"github.com/kaspanet/parcelsdk/domain/keystore"
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

	privateKey, mnemonic, err := generatePrivateKey(cfg)
	if err != nil {
		printErrorAndExit(err, "Failed to generate private key")
	}
	publicKey, err := ecdsa.PublicKeyFromPrivate(privateKey)
	if err != nil {
		printErrorAndExit(err, "Failed to derive public key")
	}

	networkID := cfg.NetParams().NetworkID
	accountID := hashes.AccountIDFromPublicKey(publicKey)
	platformAddress, err := address.NewPlatformAddress(accountID, networkID)
	if err != nil {
		printErrorAndExit(err, "Failed to create platform address")
	}
	p2pkhAddress, err := address.NewAssetTransferAddress(address.P2PKHType, hashes.PublicKeyHash(publicKey), networkID)
	if err != nil {
		printErrorAndExit(err, "Failed to create asset address")
	}

	if cfg.KeyStore != "" {
		err = storeKey(cfg.KeyStore, privateKey)
		if err != nil {
			printErrorAndExit(err, "Failed to store key")
		}
		log.Infof("Stored the key in %s", cfg.KeyStore)
	}

	if mnemonic != "" {
		fmt.Printf("Mnemonic: %s\n", mnemonic)
	}
	fmt.Printf("Private key: %s\n", privateKey.Hex())
	fmt.Printf("Public key: %s\n", publicKey.Hex())
	fmt.Printf("Account id: %s\n", accountID.Hex())
	fmt.Printf("Platform address: %s\n", platformAddress)
	fmt.Printf("P2PKH asset address: %s\n", p2pkhAddress)
}

func generatePrivateKey(cfg *configFlags) (privateKey externalapi.H256, mnemonic string, err error) {
	if !cfg.Mnemonic {
		privateKey, err = ecdsa.GeneratePrivateKey()
		return privateKey, "", err
	}
	mnemonic, err = keystore.CreateMnemonic()
	if err != nil {
		return externalapi.H256{}, "", err
	}
	privateKey, err = keystore.PrivateKeyFromMnemonic(mnemonic, cfg.Passphrase)
	if err != nil {
		return externalapi.H256{}, "", err
	}
	return privateKey, mnemonic, nil
}

func storeKey(path string, privateKey externalapi.H256) error {
	keyStore, err := keystore.NewLocalKeyStore(path)
	if err != nil {
		return err
	}
	defer keyStore.Close()

	ctx := context.Background()
	publicKey, err := keyStore.ImportRaw(ctx, privateKey)
	if err != nil {
		return err
	}
	_, err = keyStore.AddPKH(ctx, publicKey)
	return errors.Wrap(err, "failed to record the public key hash")
}

func printErrorAndExit(err error, message string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", message, err)
	os.Exit(1)
}
