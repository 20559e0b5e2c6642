package asset

import (
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/kaspanet/parcelsdk/domain/utils/rlp"
	"github.com/pkg/errors"
)

// AssetTransferInput spends or burns the output PrevOut references.
type AssetTransferInput struct {
	PrevOut      *AssetOutPoint        `json:"prevOut"`
	LockScript   externalapi.ByteArray `json:"lockScript"`
	UnlockScript externalapi.ByteArray `json:"unlockScript"`
}

// NewAssetTransferInput returns an input spending prevOut with empty scripts.
func NewAssetTransferInput(prevOut *AssetOutPoint) *AssetTransferInput {
	return &AssetTransferInput{
		PrevOut:      prevOut,
		LockScript:   externalapi.ByteArray{},
		UnlockScript: externalapi.ByteArray{},
	}
}

// EncodeObject returns [prevOut, lockScript, unlockScript].
func (in *AssetTransferInput) EncodeObject() rlp.Item {
	return rlp.List{
		in.PrevOut.EncodeObject(),
		rlp.Bytes(in.LockScript),
		rlp.Bytes(in.UnlockScript),
	}
}

// WithoutScript returns a copy of in with both scripts blanked.
func (in *AssetTransferInput) WithoutScript() *AssetTransferInput {
	return NewAssetTransferInput(in.PrevOut.Clone())
}

// Clone returns a deep copy of in.
func (in *AssetTransferInput) Clone() *AssetTransferInput {
	return &AssetTransferInput{
		PrevOut:      in.PrevOut.Clone(),
		LockScript:   append(externalapi.ByteArray{}, in.LockScript...),
		UnlockScript: append(externalapi.ByteArray{}, in.UnlockScript...),
	}
}

// SetLockScript sets the lock script of an input that has none yet.
func (in *AssetTransferInput) SetLockScript(lockScript []byte) error {
	if len(in.LockScript) != 0 {
		return errors.Wrap(ruleerrors.ErrMalformedInput, "lock script is already set")
	}
	in.LockScript = append(externalapi.ByteArray{}, lockScript...)
	return nil
}

// SetUnlockScript sets the unlock script of an input that has none yet.
func (in *AssetTransferInput) SetUnlockScript(unlockScript []byte) error {
	if len(in.UnlockScript) != 0 {
		return errors.Wrap(ruleerrors.ErrMalformedInput, "unlock script is already set")
	}
	in.UnlockScript = append(externalapi.ByteArray{}, unlockScript...)
	return nil
}

// Equal returns whether in and other are the same input.
func (in *AssetTransferInput) Equal(other *AssetTransferInput) bool {
	return in.PrevOut.Equal(other.PrevOut) &&
		string(in.LockScript) == string(other.LockScript) &&
		string(in.UnlockScript) == string(other.UnlockScript)
}

func decodeAssetTransferInput(item rlp.Item) (*AssetTransferInput, error) {
	fields, err := rlp.AsList(item, 3)
	if err != nil {
		return nil, err
	}
	prevOut, err := decodeAssetOutPoint(fields[0])
	if err != nil {
		return nil, err
	}
	lockScript, err := rlp.AsBytes(fields[1])
	if err != nil {
		return nil, err
	}
	unlockScript, err := rlp.AsBytes(fields[2])
	if err != nil {
		return nil, err
	}
	return &AssetTransferInput{
		PrevOut:      prevOut,
		LockScript:   externalapi.ByteArray(lockScript),
		UnlockScript: externalapi.ByteArray(unlockScript),
	}, nil
}

func malformedf(format string, args ...interface{}) error {
	return errors.Wrapf(ruleerrors.ErrMalformedInput, format, args...)
}
