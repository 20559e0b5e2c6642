package ecdsa

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/kaspanet/parcelsdk/domain/utils/hashes"
	"github.com/pkg/errors"
)

const testSecret = "ede1d4ccb4ec9a8bbbae9a13db3f4a7b56ea04189be86ac3a6a439d9a0a1addd"

func TestPublicKeyAndAccountIDFromPrivate(t *testing.T) {
	tests := []struct {
		secret    string
		publicKey string
		accountID string
	}{
		{
			secret: testSecret,
			publicKey: "55f2c44106dc980941313e0a0a8b7313ca70da62484fdae17087ef3ee318a72d" +
				"155541a183824a002b02b3855e9d223f18ba803dc62370a07852ba6df4a8b9a6",
			accountID: "a6594b7196808d161b6fb137e781abbc251385d9",
		},
		{
			secret: "0000000000000000000000000000000000000000000000000000000000000001",
			publicKey: "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798" +
				"483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8",
			accountID: "84137e7a75043bed32e4458a45da7549a8169b4d",
		},
	}
	for _, test := range tests {
		privateKey := externalapi.MustH256FromString(test.secret)
		publicKey, err := PublicKeyFromPrivate(privateKey)
		if err != nil {
			t.Fatalf("PublicKeyFromPrivate: %s", err)
		}
		if publicKey.String() != test.publicKey {
			t.Errorf("public key of %s: got %s, want %s", test.secret, publicKey, test.publicKey)
		}
		accountID, err := AccountIDFromPrivate(privateKey)
		if err != nil {
			t.Fatalf("AccountIDFromPrivate: %s", err)
		}
		if accountID.String() != test.accountID {
			t.Errorf("account id of %s: got %s, want %s", test.secret, accountID, test.accountID)
		}
		if accountID != hashes.AccountIDFromPublicKey(publicKey) {
			t.Errorf("account id must equal hash160(hash256(publicKey))")
		}
	}

	if _, err := PublicKeyFromPrivate(externalapi.H256{}); !errors.Is(err, ruleerrors.ErrMalformedInput) {
		t.Fatalf("zero secret: expected ErrMalformedInput, got %v", err)
	}
}

func TestSignRecoverVerify(t *testing.T) {
	for i := 0; i < 16; i++ {
		privateKey, err := GeneratePrivateKey()
		if err != nil {
			t.Fatalf("GeneratePrivateKey: %s", err)
		}
		publicKey, err := PublicKeyFromPrivate(privateKey)
		if err != nil {
			t.Fatalf("PublicKeyFromPrivate: %s", err)
		}
		hash := hashes.Blake256([]byte{byte(i), 0xca, 0xfe})

		sig, err := Sign(hash, privateKey)
		if err != nil {
			t.Fatalf("Sign: %s", err)
		}
		if sig.V > 1 {
			t.Fatalf("recovery id must be 0 or 1, got %d", sig.V)
		}
		again, err := Sign(hash, privateKey)
		if err != nil {
			t.Fatalf("Sign: %s", err)
		}
		if !again.Equal(sig) {
			t.Fatalf("signing is not deterministic")
		}

		recovered, err := Recover(hash, sig)
		if err != nil {
			t.Fatalf("Recover: %s", err)
		}
		if recovered != publicKey {
			t.Fatalf("recovered %s, want %s", recovered, publicKey)
		}
		if !Verify(hash, sig, publicKey) {
			t.Fatalf("valid signature failed verification")
		}

		otherHash := hashes.Blake256([]byte{byte(i), 0xbe, 0xef})
		if Verify(otherHash, sig, publicKey) {
			t.Fatalf("signature verified against a different hash")
		}

		flipped := *sig
		flipped.V ^= 1
		if Verify(hash, &flipped, publicKey) {
			t.Fatalf("signature with a flipped recovery id verified")
		}
	}
}

// TestHighSIsRejected pins the malleability policy: the curve-order complement
// of a valid signature must neither verify nor recover.
func TestHighSIsRejected(t *testing.T) {
	privateKey := externalapi.MustH256FromString(testSecret)
	publicKey, err := PublicKeyFromPrivate(privateKey)
	if err != nil {
		t.Fatalf("PublicKeyFromPrivate: %s", err)
	}
	hash := hashes.Blake256([]byte("malleability"))
	sig, err := Sign(hash, privateKey)
	if err != nil {
		t.Fatalf("Sign: %s", err)
	}

	n := crypto.S256().Params().N
	halfN := new(big.Int).Rsh(n, 1)
	s := new(big.Int).SetBytes(sig.S[:])
	if s.Cmp(halfN) > 0 {
		t.Fatalf("Sign produced a high s value")
	}

	complementS, err := PadLeft(new(big.Int).Sub(n, s).Bytes(), 32)
	if err != nil {
		t.Fatalf("PadLeft: %s", err)
	}
	complement := &Signature{R: sig.R, V: sig.V ^ 1}
	copy(complement.S[:], complementS)

	if Verify(hash, complement, publicKey) {
		t.Fatalf("high-s complement verified")
	}
	if _, err := Recover(hash, complement); !errors.Is(err, ruleerrors.ErrMalformedInput) {
		t.Fatalf("high-s complement: expected ErrMalformedInput, got %v", err)
	}

	badRecoveryID := *sig
	badRecoveryID.V = 2
	if _, err := Recover(hash, &badRecoveryID); !errors.Is(err, ruleerrors.ErrMalformedInput) {
		t.Fatalf("v=2: expected ErrMalformedInput, got %v", err)
	}
}

func TestSignatureString(t *testing.T) {
	sigString, err := ConvertRSVToSignatureString([]byte{0x01, 0x02}, []byte{0xff}, 1)
	if err != nil {
		t.Fatalf("ConvertRSVToSignatureString: %s", err)
	}
	expected := "0x" +
		"0000000000000000000000000000000000000000000000000000000000000102" +
		"00000000000000000000000000000000000000000000000000000000000000ff" +
		"01"
	if sigString != expected {
		t.Fatalf("got %s, want %s", sigString, expected)
	}

	r, s, v, err := ConvertSignatureStringToRSV(sigString)
	if err != nil {
		t.Fatalf("ConvertSignatureStringToRSV: %s", err)
	}
	if len(r) != 32 || len(s) != 32 || r[31] != 0x02 || r[30] != 0x01 || s[31] != 0xff || v != 1 {
		t.Fatalf("unexpected split r=%x s=%x v=%d", r, s, v)
	}

	sig, err := ParseSignatureString(sigString)
	if err != nil {
		t.Fatalf("ParseSignatureString: %s", err)
	}
	if sig.String() != sigString {
		t.Fatalf("String() round trip mismatch: %s", sig)
	}

	for _, invalid := range []string{"0x", sigString[:len(sigString)-2], sigString + "00", "0x" + string(make([]byte, 130))} {
		if _, _, _, err := ConvertSignatureStringToRSV(invalid); !errors.Is(err, ruleerrors.ErrMalformedInput) {
			t.Errorf("%q: expected ErrMalformedInput, got %v", invalid, err)
		}
	}
	if _, err := ConvertRSVToSignatureString(make([]byte, 33), []byte{1}, 0); err != nil {
		t.Fatalf("a 33-byte r with a leading zero must fit: %s", err)
	}
	if _, err := ConvertRSVToSignatureString(append([]byte{1}, make([]byte, 32)...), []byte{1}, 0); !errors.Is(err, ruleerrors.ErrMalformedInput) {
		t.Fatalf("a 33-byte r must not fit, got %v", err)
	}
	if _, err := ParseSignature(make([]byte, 64)); !errors.Is(err, ruleerrors.ErrMalformedInput) {
		t.Fatalf("64-byte signature: expected ErrMalformedInput, got %v", err)
	}
}
