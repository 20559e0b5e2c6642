package config

import (
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/parcelsdk/domain/netparams"
	"github.com/pkg/errors"
)

type testConfig struct {
	NetworkFlags
	LogFlags
}

func parseTestArgs(args []string) (*testConfig, error) {
	cfg := &testConfig{}
	parser := flags.NewParser(cfg, flags.HelpFlag)
	_, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}
	err = cfg.ResolveNetwork(nil)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func TestResolveNetwork(t *testing.T) {
	tests := []struct {
		args              []string
		expectedNetworkID string
	}{
		{args: nil, expectedNetworkID: "tc"},
		{args: []string{"--testnet"}, expectedNetworkID: "tc"},
		{args: []string{"--mainnet"}, expectedNetworkID: "cc"},
		{args: []string{"--network-id", "cc"}, expectedNetworkID: "cc"},
		{args: []string{"--network-id", "zz"}, expectedNetworkID: "zz"},
	}
	for _, test := range tests {
		cfg, err := parseTestArgs(test.args)
		if err != nil {
			t.Fatalf("%v: unexpected error: %s", test.args, err)
		}
		if cfg.NetParams().NetworkID != test.expectedNetworkID {
			t.Errorf("%v: got network %s, want %s", test.args, cfg.NetParams().NetworkID, test.expectedNetworkID)
		}
	}

	// A custom network is registered once and reused afterwards.
	cfg, err := parseTestArgs([]string{"--network-id", "zz"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	registered, err := netparams.ParamsForNetworkID("zz")
	if err != nil {
		t.Fatalf("ParamsForNetworkID: %s", err)
	}
	if cfg.NetParams() != registered {
		t.Fatalf("custom network parameters were registered twice")
	}
}

func TestResolveNetworkErrors(t *testing.T) {
	_, err := parseTestArgs([]string{"--testnet", "--mainnet"})
	if err == nil {
		t.Fatalf("selecting two networks unexpectedly succeeded")
	}
	_, err = parseTestArgs([]string{"--network-id", "TC"})
	if !errors.Is(err, netparams.ErrInvalidNetworkID) {
		t.Fatalf("expected ErrInvalidNetworkID, got %v", err)
	}
}
