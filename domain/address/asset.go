package address

import (
	"fmt"

	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/kaspanet/parcelsdk/domain/txscript"
	"github.com/pkg/errors"
)

// AssetAddressType tells how an asset transfer address payload maps to a lock
// script hash and parameters.
type AssetAddressType byte

// These are the asset transfer address types.
const (
	// LockScriptHashType addresses carry the lock script hash itself and no
	// parameters.
	LockScriptHashType AssetAddressType = 0

	// P2PKType is reserved. There is no standard P2PK lock script, so
	// addresses of this type are rejected.
	P2PKType AssetAddressType = 1

	// P2PKHType addresses carry the public key hash parameter of the
	// standard P2PKH lock script.
	P2PKHType AssetAddressType = 2

	// P2PKHBurnType addresses carry the public key hash parameter of the
	// standard P2PKHBurn lock script.
	P2PKHBurnType AssetAddressType = 3
)

var assetAddressTypeStrings = map[AssetAddressType]string{
	LockScriptHashType: "LockScriptHash",
	P2PKType:           "P2PK",
	P2PKHType:          "P2PKH",
	P2PKHBurnType:      "P2PKHBurn",
}

func (t AssetAddressType) String() string {
	if s, ok := assetAddressTypeStrings[t]; ok {
		return s
	}
	return fmt.Sprintf("Unknown AssetAddressType (%d)", byte(t))
}

func (t AssetAddressType) isSupported() bool {
	return t == LockScriptHashType || t == P2PKHType || t == P2PKHBurnType
}

// AssetTransferAddress is the bech32 form of a lock condition on a network.
type AssetTransferAddress struct {
	addressType AssetAddressType
	payload     externalapi.H256
	networkID   string
	value       string
}

// NewAssetTransferAddress returns the asset transfer address of the given type
// and payload on networkID.
func NewAssetTransferAddress(addressType AssetAddressType, payload externalapi.H256,
	networkID string) (*AssetTransferAddress, error) {

	if !addressType.isSupported() {
		return nil, errors.Wrapf(ruleerrors.ErrUnknownAddressType, "asset address type %s", addressType)
	}
	raw := append([]byte{addressVersion, byte(addressType)}, payload[:]...)
	value, err := encodeBech32(networkID, assetKind, raw)
	if err != nil {
		return nil, err
	}
	return &AssetTransferAddress{
		addressType: addressType,
		payload:     payload,
		networkID:   networkID,
		value:       value,
	}, nil
}

// DecodeAssetTransferAddress parses an asset transfer address that must
// belong to networkID.
func DecodeAssetTransferAddress(encoded string, networkID string) (*AssetTransferAddress, error) {
	payload, err := decodeBech32(encoded, networkID, assetKind)
	if err != nil {
		return nil, err
	}
	if len(payload) != 1+externalapi.H256Size {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedInput,
			"asset address payload is %d bytes, expected %d", len(payload), 1+externalapi.H256Size)
	}
	addressType := AssetAddressType(payload[0])
	if !addressType.isSupported() {
		return nil, errors.Wrapf(ruleerrors.ErrUnknownAddressType, "asset address type %s", addressType)
	}
	var addressPayload externalapi.H256
	copy(addressPayload[:], payload[1:])
	log.Tracef("Decoded %s asset address %s", addressType, encoded)
	return NewAssetTransferAddress(addressType, addressPayload, networkID)
}

// Type returns the address type.
func (a *AssetTransferAddress) Type() AssetAddressType {
	return a.addressType
}

// Payload returns the lock script hash or public key hash the address carries.
func (a *AssetTransferAddress) Payload() externalapi.H256 {
	return a.payload
}

// NetworkID returns the network the address belongs to.
func (a *AssetTransferAddress) NetworkID() string {
	return a.networkID
}

func (a *AssetTransferAddress) String() string {
	return a.value
}

// LockScriptHashAndParameters returns the lock condition the address stands for.
func (a *AssetTransferAddress) LockScriptHashAndParameters() (externalapi.H256, [][]byte) {
	switch a.addressType {
	case P2PKHType:
		return txscript.P2PKHLockScriptHash, [][]byte{a.payload.Bytes()}
	case P2PKHBurnType:
		return txscript.P2PKHBurnLockScriptHash, [][]byte{a.payload.Bytes()}
	default:
		return a.payload, [][]byte{}
	}
}

// Resolve decodes an asset transfer address and returns the lock script hash
// and parameters an output paying to it must carry.
func Resolve(encoded string, networkID string) (externalapi.H256, [][]byte, error) {
	address, err := DecodeAssetTransferAddress(encoded, networkID)
	if err != nil {
		return externalapi.H256{}, nil, err
	}
	lockScriptHash, parameters := address.LockScriptHashAndParameters()
	return lockScriptHash, parameters, nil
}

// FromLockScriptHashAndParameters returns the address that stands for an
// output's lock condition. Standard P2PKH conditions become P2PKH and
// P2PKHBurn addresses, and any lock script hash without parameters becomes a
// LockScriptHash address. Other conditions have no address form.
func FromLockScriptHashAndParameters(lockScriptHash externalapi.H256, parameters [][]byte,
	networkID string) (*AssetTransferAddress, error) {

	isPublicKeyHash := len(parameters) == 1 && len(parameters[0]) == externalapi.H256Size
	switch {
	case lockScriptHash == txscript.P2PKHLockScriptHash && isPublicKeyHash:
		payload, _ := externalapi.NewH256FromSlice(parameters[0])
		return NewAssetTransferAddress(P2PKHType, payload, networkID)
	case lockScriptHash == txscript.P2PKHBurnLockScriptHash && isPublicKeyHash:
		payload, _ := externalapi.NewH256FromSlice(parameters[0])
		return NewAssetTransferAddress(P2PKHBurnType, payload, networkID)
	case len(parameters) == 0:
		return NewAssetTransferAddress(LockScriptHashType, lockScriptHash, networkID)
	}
	return nil, errors.Wrapf(ruleerrors.ErrMalformedInput,
		"lock script hash %s with %d parameters has no address form", lockScriptHash, len(parameters))
}

// Format is the inverse of Resolve.
func Format(lockScriptHash externalapi.H256, parameters [][]byte, networkID string) (string, error) {
	address, err := FromLockScriptHashAndParameters(lockScriptHash, parameters, networkID)
	if err != nil {
		return "", err
	}
	return address.String(), nil
}
