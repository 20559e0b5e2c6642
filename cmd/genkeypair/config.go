package main

import (
	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/parcelsdk/infrastructure/config"
)

type configFlags struct {
	Mnemonic   bool   `long:"mnemonic" description:"Derive the key from a new BIP-39 mnemonic and print the mnemonic"`
	Passphrase string `long:"passphrase" description:"BIP-39 passphrase used with --mnemonic"`
	KeyStore   string `long:"keystore" description:"Store the generated key in the key store at this directory"`
	config.ToolFlags
}

func parseConfig() (*configFlags, error) {
	cfg := &configFlags{}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	_, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	err = cfg.Resolve("genkeypair", parser)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
