package parcel

import (
	"encoding/json"

	"github.com/kaspanet/parcelsdk/domain/address"
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/kaspanet/parcelsdk/domain/utils/ecdsa"
	"github.com/kaspanet/parcelsdk/domain/utils/hashes"
	"github.com/kaspanet/parcelsdk/domain/utils/rlp"
	"github.com/pkg/errors"
)

// Placement locates a parcel inside the chain. It is assigned by the chain
// once the parcel is included in a block and is not covered by the signature.
type Placement struct {
	BlockNumber uint64
	BlockHash   externalapi.H256
	ParcelIndex uint32
}

// SignedParcel is a parcel together with the recoverable signature of its
// signer.
type SignedParcel struct {
	Unsigned  *Parcel
	V         byte
	R         externalapi.H256
	S         externalapi.H256
	Placement *Placement
}

// NewSignedParcel returns unsigned signed by the 65-byte hex signature string
// sig. placement may be nil.
func NewSignedParcel(unsigned *Parcel, sig string, placement *Placement) (*SignedParcel, error) {
	err := unsigned.checkRequiredFields()
	if err != nil {
		return nil, err
	}
	signature, err := ecdsa.ParseSignatureString(sig)
	if err != nil {
		return nil, err
	}
	return newSignedParcel(unsigned, signature, placement), nil
}

func newSignedParcel(unsigned *Parcel, sig *ecdsa.Signature, placement *Placement) *SignedParcel {
	signedParcel := &SignedParcel{
		Unsigned: unsigned.Clone(),
		V:        sig.V,
		R:        sig.R,
		S:        sig.S,
	}
	if placement != nil {
		placementCopy := *placement
		signedParcel.Placement = &placementCopy
	}
	return signedParcel
}

// Signature returns the signature of the parcel.
func (sp *SignedParcel) Signature() *ecdsa.Signature {
	return &ecdsa.Signature{R: sp.R, S: sp.S, V: sp.V}
}

// EncodeObject returns [nonce, fee, networkId, action, sig].
func (sp *SignedParcel) EncodeObject() (rlp.Item, error) {
	item, err := sp.Unsigned.EncodeObject()
	if err != nil {
		return nil, err
	}
	serialized := sp.Signature().Serialize()
	return append(item.(rlp.List), rlp.Bytes(serialized[:])), nil
}

// RLPBytes returns the canonical encoding of the signed parcel, as sent to
// the chain.
func (sp *SignedParcel) RLPBytes() ([]byte, error) {
	item, err := sp.EncodeObject()
	if err != nil {
		return nil, err
	}
	return rlp.Encode(item)
}

// Hash returns the blake256 hash of the canonical encoding of the signed
// parcel. It identifies the parcel on the chain.
func (sp *SignedParcel) Hash() (externalapi.H256, error) {
	encoded, err := sp.RLPBytes()
	if err != nil {
		return externalapi.H256{}, err
	}
	return hashes.Blake256(encoded), nil
}

// SignerPublicKey recovers the public key that signed the parcel.
func (sp *SignedParcel) SignerPublicKey() (externalapi.H512, error) {
	hash, err := sp.Unsigned.Hash()
	if err != nil {
		return externalapi.H512{}, err
	}
	return ecdsa.Recover(hash, sp.Signature())
}

// SignerAccountID recovers the account id of the signer.
func (sp *SignedParcel) SignerAccountID() (externalapi.AccountID, error) {
	publicKey, err := sp.SignerPublicKey()
	if err != nil {
		return externalapi.AccountID{}, err
	}
	return hashes.AccountIDFromPublicKey(publicKey), nil
}

// SignerAddress returns the platform address of the signer on the parcel's
// network.
func (sp *SignedParcel) SignerAddress() (*address.PlatformAddress, error) {
	accountID, err := sp.SignerAccountID()
	if err != nil {
		return nil, err
	}
	return address.NewPlatformAddress(accountID, sp.Unsigned.NetworkID)
}

// Equal returns whether sp equals to other, placement included.
func (sp *SignedParcel) Equal(other *SignedParcel) bool {
	if sp == nil || other == nil {
		return sp == other
	}
	if (sp.Placement == nil) != (other.Placement == nil) {
		return false
	}
	if sp.Placement != nil && *sp.Placement != *other.Placement {
		return false
	}
	return sp.V == other.V && sp.R == other.R && sp.S == other.S && sp.Unsigned.Equal(other.Unsigned)
}

// SignedParcelFromRLP decodes a signed parcel from its canonical encoding.
// The result has no placement.
func SignedParcelFromRLP(encoded []byte) (*SignedParcel, error) {
	item, err := rlp.Decode(encoded)
	if err != nil {
		return nil, err
	}
	fields, err := rlp.AsList(item, 5)
	if err != nil {
		return nil, err
	}
	unsigned, err := decodeParcelFields(fields[:4])
	if err != nil {
		return nil, err
	}
	serialized, err := rlp.AsFixedBytes(fields[4], ecdsa.SignatureSize)
	if err != nil {
		return nil, err
	}
	sig, err := ecdsa.ParseSignature(serialized)
	if err != nil {
		return nil, err
	}
	return newSignedParcel(unsigned, sig, nil), nil
}

// SignedParcelJSON is the JSON form of a signed parcel.
type SignedParcelJSON struct {
	BlockNumber *uint64           `json:"blockNumber"`
	BlockHash   *externalapi.H256 `json:"blockHash"`
	ParcelIndex *uint32           `json:"parcelIndex"`
	Nonce       externalapi.U256  `json:"nonce"`
	Fee         externalapi.U256  `json:"fee"`
	NetworkID   string            `json:"networkId"`
	Action      *ActionJSON       `json:"action"`
	Sig         string            `json:"sig"`
	Hash        externalapi.H256  `json:"hash"`
}

// ToJSON returns the JSON form of the signed parcel.
func (sp *SignedParcel) ToJSON() (*SignedParcelJSON, error) {
	hash, err := sp.Hash()
	if err != nil {
		return nil, err
	}
	action, err := NewActionJSON(sp.Unsigned.Action, sp.Unsigned.NetworkID)
	if err != nil {
		return nil, err
	}
	sig, err := ecdsa.ConvertRSVToSignatureString(sp.R[:], sp.S[:], sp.V)
	if err != nil {
		return nil, err
	}
	signedParcelJSON := &SignedParcelJSON{
		Nonce:     *sp.Unsigned.Nonce,
		Fee:       *sp.Unsigned.Fee,
		NetworkID: sp.Unsigned.NetworkID,
		Action:    action,
		Sig:       sig,
		Hash:      hash,
	}
	if sp.Placement != nil {
		blockNumber := sp.Placement.BlockNumber
		blockHash := sp.Placement.BlockHash
		parcelIndex := sp.Placement.ParcelIndex
		signedParcelJSON.BlockNumber = &blockNumber
		signedParcelJSON.BlockHash = &blockHash
		signedParcelJSON.ParcelIndex = &parcelIndex
	}
	return signedParcelJSON, nil
}

// SignedParcelFromJSON parses the JSON form of a signed parcel. The
// placement is taken only when blockNumber is set, and the hash field must
// match the hash of the decoded parcel.
func SignedParcelFromJSON(signedParcelJSON *SignedParcelJSON) (*SignedParcel, error) {
	if signedParcelJSON.Action == nil {
		return nil, errors.Wrap(ruleerrors.ErrMissingRequiredField, "signed parcel has no action")
	}
	action, err := ActionFromJSON(signedParcelJSON.Action, signedParcelJSON.NetworkID)
	if err != nil {
		return nil, err
	}
	unsigned := NewParcel(signedParcelJSON.Nonce, signedParcelJSON.Fee, signedParcelJSON.NetworkID, action)

	var placement *Placement
	if signedParcelJSON.BlockNumber != nil {
		placement = &Placement{BlockNumber: *signedParcelJSON.BlockNumber}
		if signedParcelJSON.BlockHash != nil {
			placement.BlockHash = *signedParcelJSON.BlockHash
		}
		if signedParcelJSON.ParcelIndex != nil {
			placement.ParcelIndex = *signedParcelJSON.ParcelIndex
		}
	}

	signedParcel, err := NewSignedParcel(unsigned, signedParcelJSON.Sig, placement)
	if err != nil {
		return nil, err
	}
	hash, err := signedParcel.Hash()
	if err != nil {
		return nil, err
	}
	if hash != signedParcelJSON.Hash {
		return nil, errors.Wrapf(ruleerrors.ErrMalformedInput,
			"signed parcel hash is %s, JSON claims %s", hash, signedParcelJSON.Hash)
	}
	return signedParcel, nil
}

// MarshalJSON implements json.Marshaler.
func (sp *SignedParcel) MarshalJSON() ([]byte, error) {
	signedParcelJSON, err := sp.ToJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(signedParcelJSON)
}

// UnmarshalJSON implements json.Unmarshaler.
func (sp *SignedParcel) UnmarshalJSON(data []byte) error {
	signedParcelJSON := &SignedParcelJSON{}
	err := json.Unmarshal(data, signedParcelJSON)
	if err != nil {
		return ruleerrors.Wrap(ruleerrors.ErrMalformedInput, err)
	}
	signedParcel, err := SignedParcelFromJSON(signedParcelJSON)
	if err != nil {
		return err
	}
	*sp = *signedParcel
	return nil
}
