package address

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/kaspanet/parcelsdk/domain/netparams"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/pkg/errors"
)

// addressVersion is the only supported address payload version.
const addressVersion = 0

// prefixSize is the length of the human-readable part of an address: the
// network id followed by one kind character.
const prefixSize = netparams.NetworkIDSize + 1

const bech32Separator = '1'

// These are the kind characters that follow the network id in the
// human-readable part of an address.
const (
	platformKind = 'c'
	assetKind    = 'a'
)

func encodeBech32(networkID string, kind byte, payload []byte) (string, error) {
	err := netparams.ValidateNetworkID(networkID)
	if err != nil {
		return "", ruleerrors.Wrap(ruleerrors.ErrMalformedInput, err)
	}
	converted, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(err, "failed to convert address payload")
	}
	encoded, err := bech32.Encode(networkID+string(kind), converted)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode address")
	}
	// Addresses are written without the separator: the prefix always has
	// prefixSize characters, so it can be reinserted when decoding.
	return encoded[:prefixSize] + encoded[prefixSize+1:], nil
}

// withSeparator returns encoded in standard bech32 form, inserting the
// separator after the fixed size prefix when it is missing.
func withSeparator(encoded string) string {
	if len(encoded) <= prefixSize || encoded[prefixSize] == bech32Separator {
		return encoded
	}
	return encoded[:prefixSize] + string(bech32Separator) + encoded[prefixSize:]
}

// decodeBech32 decodes an address of the given kind on networkID and returns
// its payload. Mismatched kinds are reported as ErrUnknownAddressType and
// mismatched networks as ErrNetworkMismatch.
func decodeBech32(encoded string, networkID string, kind byte) ([]byte, error) {
	hrp, data, err := bech32.Decode(withSeparator(encoded))
	if err != nil {
		return nil, ruleerrors.Wrap(ruleerrors.ErrMalformedInput, err)
	}
	if len(hrp) != prefixSize {
		return nil, errors.Wrapf(ruleerrors.ErrUnknownAddressType, "unexpected address prefix %q", hrp)
	}
	if hrp[netparams.NetworkIDSize] != kind {
		return nil, errors.Wrapf(ruleerrors.ErrUnknownAddressType,
			"address prefix %q is not of kind %q", hrp, kind)
	}
	if hrp[:netparams.NetworkIDSize] != networkID {
		return nil, errors.Wrapf(ruleerrors.ErrNetworkMismatch,
			"address belongs to network %q, expected %q", hrp[:netparams.NetworkIDSize], networkID)
	}
	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, ruleerrors.Wrap(ruleerrors.ErrMalformedInput, err)
	}
	if len(payload) == 0 {
		return nil, errors.Wrap(ruleerrors.ErrMalformedInput, "empty address payload")
	}
	if payload[0] != addressVersion {
		return nil, errors.Wrapf(ruleerrors.ErrUnknownAddressType, "unknown address version %d", payload[0])
	}
	return payload[1:], nil
}
