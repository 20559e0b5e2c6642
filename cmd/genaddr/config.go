package main

import (
	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/parcelsdk/infrastructure/config"
)

const (
	platformAddressType  = "platform"
	p2pkhAddressType     = "p2pkh"
	p2pkhBurnAddressType = "p2pkhburn"
)

type configFlags struct {
	PublicKey   string `long:"public-key" short:"k" description:"Public key in hex (64 bytes)" required:"true"`
	AddressType string `long:"type" short:"t" description:"Address type" choice:"platform" choice:"p2pkh" choice:"p2pkhburn" default:"platform"`
	config.ToolFlags
}

func parseConfig() (*configFlags, error) {
	cfg := &configFlags{}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	_, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	err = cfg.Resolve("genaddr", parser)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
