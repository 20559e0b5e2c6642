package txscript

import (
	"fmt"

	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/kaspanet/parcelsdk/domain/utils/ecdsa"
	"github.com/kaspanet/parcelsdk/domain/utils/hashes"
	"github.com/pkg/errors"
)

// P2PKHLockScriptHash is the hash of the standard pay-to-public-key-hash lock
// script.
var P2PKHLockScriptHash = externalapi.MustH256FromString(
	"f42a65ea518ba236c08b261c34af0521fa3cd1aa505e1c18980919cb8945f8f3")

// P2PKHBurnLockScriptHash is the hash of the standard lock script that can
// only be satisfied by burning the asset.
var P2PKHBurnLockScriptHash = externalapi.MustH256FromString(
	"41a872156efc1dbd45a85b49896e9349a4e8f3fb1b8f3ed38d5e13ef675bcd5a")

// P2PKHLockScript returns the standard lock script:
// COPY 0x01 BLAKE256 EQ JZ 0xff CHKSIG
// It expects the stack [signature, publicKey, publicKeyHash].
func P2PKHLockScript() []byte {
	return []byte{OpCopy, 0x01, OpBlake256, OpEq, OpJz, 0xff, OpChkSig}
}

// P2PKHBurnLockScript returns P2PKHLockScript followed by JZ 0xff BURN.
func P2PKHBurnLockScript() []byte {
	return append(P2PKHLockScript(), OpJz, 0xff, OpBurn)
}

// P2PKHUnlockScript returns PUSHB 65 <signature> PUSHB 64 <publicKey>.
func P2PKHUnlockScript(signature *ecdsa.Signature, publicKey externalapi.H512) []byte {
	serialized := signature.Serialize()
	script, err := NewScriptBuilder().AddData(serialized[:]).AddData(publicKey[:]).Script()
	if err != nil {
		// Both pushes are below the PUSHB size limit.
		panic(err)
	}
	return script
}

// P2PKHParameters returns the output parameters that lock an output with
// P2PKHLockScript or P2PKHBurnLockScript to publicKey.
func P2PKHParameters(publicKey externalapi.H512) [][]byte {
	publicKeyHash := hashes.PublicKeyHash(publicKey)
	return [][]byte{publicKeyHash[:]}
}

// SpendInput is everything needed to authorize spending or burning one
// output: the lock script hash and parameters recorded in the spent output and
// the scripts supplied by the spending input.
type SpendInput struct {
	LockScriptHash externalapi.H256
	Parameters     [][]byte
	LockScript     []byte
	UnlockScript   []byte
}

// Authorize checks that input may be spent by the transaction whose hash,
// computed with every input script blanked, is txHash. Regular inputs must
// evaluate to ResultUnlocked and burns to ResultBurnt. Every failure is
// wrapped in ruleerrors.ErrAuthorizationFailure. Outputs locked by a standard
// script must carry exactly one parameter.
func Authorize(input *SpendInput, txHash externalapi.H256, burn bool) error {
	lockScriptHash := hashes.Blake256(input.LockScript)
	if lockScriptHash != input.LockScriptHash {
		str := fmt.Sprintf("lock script hashes to %s, expected %s", lockScriptHash, input.LockScriptHash)
		return ruleerrors.Wrap(ruleerrors.ErrAuthorizationFailure, scriptError(ErrLockScriptHashMismatch, str))
	}
	if IsStandardLockScriptHash(input.LockScriptHash) && len(input.Parameters) != 1 {
		str := fmt.Sprintf("standard lock script %s expects 1 parameter, got %d",
			input.LockScriptHash, len(input.Parameters))
		return ruleerrors.Wrap(ruleerrors.ErrAuthorizationFailure, scriptError(ErrInvalidParameterCount, str))
	}

	result, err := NewEngine(txHash).Execute(input.UnlockScript, input.Parameters, input.LockScript)
	if err != nil {
		return ruleerrors.Wrap(ruleerrors.ErrAuthorizationFailure, err)
	}

	expected := ResultUnlocked
	if burn {
		expected = ResultBurnt
	}
	log.Debugf("Evaluated input locked by %s: %s (expected %s)", input.LockScriptHash, result, expected)
	if result != expected {
		str := fmt.Sprintf("script evaluated to %s, expected %s", result, expected)
		return ruleerrors.Wrap(ruleerrors.ErrAuthorizationFailure, scriptError(ErrUnexpectedResult, str))
	}
	return nil
}

// IsStandardLockScriptHash reports whether lockScriptHash is one of the
// standard scripts whose body can be supplied by LockScriptForHash.
func IsStandardLockScriptHash(lockScriptHash externalapi.H256) bool {
	return lockScriptHash == P2PKHLockScriptHash || lockScriptHash == P2PKHBurnLockScriptHash
}

// LockScriptForHash returns the standard lock script whose hash is
// lockScriptHash.
func LockScriptForHash(lockScriptHash externalapi.H256) ([]byte, error) {
	switch lockScriptHash {
	case P2PKHLockScriptHash:
		return P2PKHLockScript(), nil
	case P2PKHBurnLockScriptHash:
		return P2PKHBurnLockScript(), nil
	}
	return nil, errors.Wrapf(ruleerrors.ErrMalformedInput, "%s is not a standard lock script hash", lockScriptHash)
}
