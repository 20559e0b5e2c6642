package parcel

import (
	"context"

	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/kaspanet/parcelsdk/domain/utils/ecdsa"
	"github.com/kaspanet/parcelsdk/domain/utils/hashes"
	"github.com/kaspanet/parcelsdk/domain/utils/rlp"
	"github.com/pkg/errors"
)

// Parcel is an unsigned account-level envelope carrying one action. Nonce and
// Fee must be set before the parcel can be encoded, hashed or signed.
type Parcel struct {
	Nonce     *externalapi.U256
	Fee       *externalapi.U256
	NetworkID string
	Action    Action
}

// Signer signs message hashes with the secret behind a public key. Key stores
// implement it.
type Signer interface {
	Sign(ctx context.Context, publicKey externalapi.H512, message externalapi.H256) (*ecdsa.Signature, error)
}

// NewParcel returns a parcel with all of its fields set.
func NewParcel(nonce, fee externalapi.U256, networkID string, action Action) *Parcel {
	return &Parcel{
		Nonce:     &nonce,
		Fee:       &fee,
		NetworkID: networkID,
		Action:    action,
	}
}

// NewPaymentParcel returns a parcel paying amount to receiver.
func NewPaymentParcel(nonce, fee externalapi.U256, networkID string,
	receiver externalapi.AccountID, amount externalapi.U256) *Parcel {

	return NewParcel(nonce, fee, networkID, &Payment{Receiver: receiver, Amount: amount})
}

func (p *Parcel) checkRequiredFields() error {
	if p.Nonce == nil {
		return errors.Wrap(ruleerrors.ErrMissingRequiredField, "parcel has no nonce")
	}
	if p.Fee == nil {
		return errors.Wrap(ruleerrors.ErrMissingRequiredField, "parcel has no fee")
	}
	if p.Action == nil {
		return errors.Wrap(ruleerrors.ErrMissingRequiredField, "parcel has no action")
	}
	return nil
}

// EncodeObject returns [nonce, fee, networkId, action].
func (p *Parcel) EncodeObject() (rlp.Item, error) {
	err := p.checkRequiredFields()
	if err != nil {
		return nil, err
	}
	return rlp.List{
		rlp.BigBytes(p.Nonce.Bytes()),
		rlp.BigBytes(p.Fee.Bytes()),
		rlp.String(p.NetworkID),
		p.Action.EncodeObject(),
	}, nil
}

// RLPBytes returns the canonical encoding of the parcel.
func (p *Parcel) RLPBytes() ([]byte, error) {
	item, err := p.EncodeObject()
	if err != nil {
		return nil, err
	}
	return rlp.Encode(item)
}

// Hash returns the blake256 hash of the canonical encoding. This is the
// message a parcel signature covers.
func (p *Parcel) Hash() (externalapi.H256, error) {
	encoded, err := p.RLPBytes()
	if err != nil {
		return externalapi.H256{}, err
	}
	return hashes.Blake256(encoded), nil
}

// Sign signs the parcel with privateKey.
func (p *Parcel) Sign(privateKey externalapi.H256) (*SignedParcel, error) {
	hash, err := p.Hash()
	if err != nil {
		return nil, err
	}
	sig, err := ecdsa.Sign(hash, privateKey)
	if err != nil {
		return nil, err
	}
	log.Debugf("Signed parcel %s", hash)
	return newSignedParcel(p, sig, nil), nil
}

// SignWith signs the parcel through signer with the secret behind publicKey.
// The returned signature is checked against publicKey before it is accepted.
func (p *Parcel) SignWith(ctx context.Context, signer Signer, publicKey externalapi.H512) (*SignedParcel, error) {
	hash, err := p.Hash()
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(ctx, publicKey, hash)
	if err != nil {
		return nil, err
	}
	if !ecdsa.Verify(hash, sig, publicKey) {
		return nil, errors.Errorf("signer returned an invalid signature for parcel %s", hash)
	}
	log.Debugf("Signed parcel %s with public key %s", hash, publicKey)
	return newSignedParcel(p, sig, nil), nil
}

// Clone returns a deep copy of the parcel. The action is shared.
func (p *Parcel) Clone() *Parcel {
	clone := &Parcel{NetworkID: p.NetworkID, Action: p.Action}
	if p.Nonce != nil {
		nonce := *p.Nonce
		clone.Nonce = &nonce
	}
	if p.Fee != nil {
		fee := *p.Fee
		clone.Fee = &fee
	}
	return clone
}

// Equal returns whether p equals to other.
func (p *Parcel) Equal(other *Parcel) bool {
	if p == nil || other == nil {
		return p == other
	}
	return optionalU256Equal(p.Nonce, other.Nonce) &&
		optionalU256Equal(p.Fee, other.Fee) &&
		p.NetworkID == other.NetworkID &&
		ActionsEqual(p.Action, other.Action)
}

func optionalU256Equal(a, b *externalapi.U256) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func decodeU256(item rlp.Item) (externalapi.U256, error) {
	b, err := rlp.AsBigBytes(item)
	if err != nil {
		return externalapi.U256{}, err
	}
	return externalapi.NewU256FromBytes(b)
}

// decodeParcelFields decodes the leading [nonce, fee, networkId, action]
// fields shared by the unsigned and signed encodings.
func decodeParcelFields(fields rlp.List) (*Parcel, error) {
	nonce, err := decodeU256(fields[0])
	if err != nil {
		return nil, err
	}
	fee, err := decodeU256(fields[1])
	if err != nil {
		return nil, err
	}
	networkID, err := rlp.AsString(fields[2])
	if err != nil {
		return nil, err
	}
	action, err := DecodeAction(fields[3])
	if err != nil {
		return nil, err
	}
	return NewParcel(nonce, fee, networkID, action), nil
}

// ParcelFromRLP decodes an unsigned parcel from its canonical encoding.
func ParcelFromRLP(encoded []byte) (*Parcel, error) {
	item, err := rlp.Decode(encoded)
	if err != nil {
		return nil, err
	}
	fields, err := rlp.AsList(item, 4)
	if err != nil {
		return nil, err
	}
	return decodeParcelFields(fields)
}
