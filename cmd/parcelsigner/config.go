package main

import (
	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/parcelsdk/infrastructure/config"
	"github.com/pkg/errors"
)

type configFlags struct {
	Parcel     string `long:"parcel" short:"p" description:"Unsigned parcel in HEX format" required:"true"`
	PrivateKey string `long:"private-key" description:"Private key in HEX format. Prompted for when neither this nor --keystore is given"`
	KeyStore   string `long:"keystore" description:"Sign with a key held by the key store at this directory"`
	PublicKey  string `long:"public-key" description:"Public key of the key store key to sign with"`
	config.ToolFlags
}

func parseConfig() (*configFlags, error) {
	cfg := &configFlags{}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	_, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	err = cfg.Resolve("parcelsigner", parser)
	if err != nil {
		return nil, err
	}

	if cfg.KeyStore != "" && cfg.PrivateKey != "" {
		return nil, errors.New("--keystore and --private-key cannot be used together")
	}
	if (cfg.KeyStore == "") != (cfg.PublicKey == "") {
		return nil, errors.New("--keystore and --public-key must be used together")
	}

	return cfg, nil
}
