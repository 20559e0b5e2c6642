package parcel

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/kaspanet/parcelsdk/domain/asset"
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/ruleerrors"
	"github.com/kaspanet/parcelsdk/domain/txscript"
	"github.com/kaspanet/parcelsdk/domain/utils/ecdsa"
	"github.com/pkg/errors"
)

var (
	testPrivateKey = externalapi.MustH256FromString(
		"ede1d4ccb4ec9a8bbbae9a13db3f4a7b56ea04189be86ac3a6a439d9a0a1addd")
	testAccountID = externalapi.AccountID{
		0xa6, 0x59, 0x4b, 0x71, 0x96, 0x80, 0x8d, 0x16, 0x1b, 0x6f,
		0xb1, 0x37, 0xe7, 0x81, 0xab, 0xbc, 0x25, 0x13, 0x85, 0xd9,
	}
)

const testAccountAddress = "tccqzn9jjm3j6qg69smd7cn0eup4w7z2yu9my9a2k78"

func newTestPayment() *Parcel {
	return NewPaymentParcel(externalapi.NewU256(11), externalapi.NewU256(44), "tc",
		externalapi.AccountID{}, externalapi.NewU256(33))
}

func TestPaymentEncoding(t *testing.T) {
	encoded, err := newTestPayment().RLPBytes()
	if err != nil {
		t.Fatalf("RLPBytes: %s", err)
	}
	expected := "dd0b2c827463d70294000000000000000000000000000000000000000021"
	if hex.EncodeToString(encoded) != expected {
		t.Fatalf("unexpected encoding %x, expected %s", encoded, expected)
	}
	hash, err := newTestPayment().Hash()
	if err != nil {
		t.Fatalf("Hash: %s", err)
	}
	expectedHash := "b54f3037e66096ef0f2f9c3061c9b7390e46e0fd003c65458319132c3e9f11b2"
	if hash.String() != expectedHash {
		t.Fatalf("unexpected hash %s, expected %s", hash, expectedHash)
	}

	decoded, err := ParcelFromRLP(encoded)
	if err != nil {
		t.Fatalf("ParcelFromRLP: %s", err)
	}
	if !decoded.Equal(newTestPayment()) {
		t.Fatalf("decoded parcel differs: %s", spew.Sdump(decoded))
	}
}

func TestMissingRequiredField(t *testing.T) {
	tests := []struct {
		name   string
		parcel *Parcel
	}{
		{
			name:   "no nonce",
			parcel: &Parcel{Fee: newU256(44), NetworkID: "tc", Action: &CreateShard{}},
		},
		{
			name:   "no fee",
			parcel: &Parcel{Nonce: newU256(11), NetworkID: "tc", Action: &CreateShard{}},
		},
		{
			name:   "no action",
			parcel: &Parcel{Nonce: newU256(11), Fee: newU256(44), NetworkID: "tc"},
		},
	}
	for _, test := range tests {
		_, err := test.parcel.RLPBytes()
		if !errors.Is(err, ruleerrors.ErrMissingRequiredField) {
			t.Errorf("%s: RLPBytes: expected ErrMissingRequiredField, got %v", test.name, err)
		}
		_, err = test.parcel.Hash()
		if !errors.Is(err, ruleerrors.ErrMissingRequiredField) {
			t.Errorf("%s: Hash: expected ErrMissingRequiredField, got %v", test.name, err)
		}
		_, err = test.parcel.Sign(testPrivateKey)
		if !errors.Is(err, ruleerrors.ErrMissingRequiredField) {
			t.Errorf("%s: Sign: expected ErrMissingRequiredField, got %v", test.name, err)
		}
		_, err = NewSignedParcel(test.parcel, "0x"+hex.EncodeToString(make([]byte, ecdsa.SignatureSize)), nil)
		if !errors.Is(err, ruleerrors.ErrMissingRequiredField) {
			t.Errorf("%s: NewSignedParcel: expected ErrMissingRequiredField, got %v", test.name, err)
		}
	}
}

func TestSignPayment(t *testing.T) {
	signed, err := newTestPayment().Sign(testPrivateKey)
	if err != nil {
		t.Fatalf("Sign: %s", err)
	}

	signer, err := signed.SignerAccountID()
	if err != nil {
		t.Fatalf("SignerAccountID: %s", err)
	}
	if signer != testAccountID {
		t.Fatalf("recovered signer %s, expected %s", signer, testAccountID)
	}
	signerAddress, err := signed.SignerAddress()
	if err != nil {
		t.Fatalf("SignerAddress: %s", err)
	}
	if signerAddress.String() != testAccountAddress {
		t.Fatalf("unexpected signer address %s", signerAddress)
	}

	again, err := newTestPayment().Sign(testPrivateKey)
	if err != nil {
		t.Fatalf("Sign: %s", err)
	}
	if !again.Equal(signed) {
		t.Fatalf("signing twice gave different parcels")
	}

	encodedJSON, err := json.Marshal(signed)
	if err != nil {
		t.Fatalf("json.Marshal: %s", err)
	}
	decoded := &SignedParcel{}
	err = json.Unmarshal(encodedJSON, decoded)
	if err != nil {
		t.Fatalf("json.Unmarshal: %s", err)
	}
	if !decoded.Equal(signed) {
		t.Fatalf("JSON round trip differs: %s", spew.Sdump(decoded))
	}
}

func TestSignedParcelJSONShape(t *testing.T) {
	signed, err := newTestPayment().Sign(testPrivateKey)
	if err != nil {
		t.Fatalf("Sign: %s", err)
	}
	encodedJSON, err := json.Marshal(signed)
	if err != nil {
		t.Fatalf("json.Marshal: %s", err)
	}
	var fields map[string]interface{}
	err = json.Unmarshal(encodedJSON, &fields)
	if err != nil {
		t.Fatalf("json.Unmarshal: %s", err)
	}

	for _, name := range []string{"blockNumber", "blockHash", "parcelIndex"} {
		value, ok := fields[name]
		if !ok || value != nil {
			t.Errorf("expected %s to be null, got %v", name, value)
		}
	}
	if fields["nonce"] != "11" || fields["fee"] != "44" || fields["networkId"] != "tc" {
		t.Errorf("unexpected parcel fields %s", encodedJSON)
	}
	sig, ok := fields["sig"].(string)
	if !ok || len(sig) != 2+2*ecdsa.SignatureSize {
		t.Errorf("unexpected sig %v", fields["sig"])
	}
	action, ok := fields["action"].(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected action %v", fields["action"])
	}
	if action["action"] != "payment" || action["amount"] != "33" ||
		action["receiver"] != "tccqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqj5aqu5" {

		t.Errorf("unexpected action %v", action)
	}
	hash, err := signed.Hash()
	if err != nil {
		t.Fatalf("Hash: %s", err)
	}
	if fields["hash"] != hash.Hex() {
		t.Errorf("unexpected hash %v, expected %s", fields["hash"], hash.Hex())
	}
}

func TestSignedParcelJSONHashMismatch(t *testing.T) {
	signed, err := newTestPayment().Sign(testPrivateKey)
	if err != nil {
		t.Fatalf("Sign: %s", err)
	}
	signedParcelJSON, err := signed.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %s", err)
	}
	signedParcelJSON.Hash[0] ^= 1
	_, err = SignedParcelFromJSON(signedParcelJSON)
	if !errors.Is(err, ruleerrors.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestSignedParcelPlacement(t *testing.T) {
	signed, err := newTestPayment().Sign(testPrivateKey)
	if err != nil {
		t.Fatalf("Sign: %s", err)
	}
	sig := signed.Signature().String()
	placement := &Placement{
		BlockNumber: 7,
		BlockHash:   externalapi.H256{1, 2, 3},
		ParcelIndex: 2,
	}
	placed, err := NewSignedParcel(newTestPayment(), sig, placement)
	if err != nil {
		t.Fatalf("NewSignedParcel: %s", err)
	}
	placedHash, err := placed.Hash()
	if err != nil {
		t.Fatalf("Hash: %s", err)
	}
	signedHash, err := signed.Hash()
	if err != nil {
		t.Fatalf("Hash: %s", err)
	}
	if placedHash != signedHash {
		t.Fatalf("placement changed the parcel hash")
	}
	if placed.Equal(signed) {
		t.Fatalf("parcels with different placements compare equal")
	}

	encodedJSON, err := json.Marshal(placed)
	if err != nil {
		t.Fatalf("json.Marshal: %s", err)
	}
	decoded := &SignedParcel{}
	err = json.Unmarshal(encodedJSON, decoded)
	if err != nil {
		t.Fatalf("json.Unmarshal: %s", err)
	}
	if !decoded.Equal(placed) {
		t.Fatalf("JSON round trip with placement differs: %s", spew.Sdump(decoded))
	}
}

func TestSignedParcelFromRLP(t *testing.T) {
	signed, err := newTestPayment().Sign(testPrivateKey)
	if err != nil {
		t.Fatalf("Sign: %s", err)
	}
	encoded, err := signed.RLPBytes()
	if err != nil {
		t.Fatalf("RLPBytes: %s", err)
	}
	decoded, err := SignedParcelFromRLP(encoded)
	if err != nil {
		t.Fatalf("SignedParcelFromRLP: %s", err)
	}
	if !decoded.Equal(signed) {
		t.Fatalf("decoded signed parcel differs: %s", spew.Sdump(decoded))
	}

	unsigned, err := newTestPayment().RLPBytes()
	if err != nil {
		t.Fatalf("RLPBytes: %s", err)
	}
	_, err = SignedParcelFromRLP(unsigned)
	if !errors.Is(err, ruleerrors.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput for an unsigned parcel, got %v", err)
	}
}

func TestTamperedSignature(t *testing.T) {
	signed, err := newTestPayment().Sign(testPrivateKey)
	if err != nil {
		t.Fatalf("Sign: %s", err)
	}
	tampered := *signed
	tampered.V ^= 1
	signer, err := tampered.SignerAccountID()
	if err == nil && signer == testAccountID {
		t.Fatalf("a flipped recovery id still recovers the signer")
	}
}

type testSigner struct {
	privateKey externalapi.H256
}

func (s *testSigner) Sign(_ context.Context, _ externalapi.H512, message externalapi.H256) (*ecdsa.Signature, error) {
	return ecdsa.Sign(message, s.privateKey)
}

func TestSignWith(t *testing.T) {
	publicKey, err := ecdsa.PublicKeyFromPrivate(testPrivateKey)
	if err != nil {
		t.Fatalf("PublicKeyFromPrivate: %s", err)
	}
	signed, err := newTestPayment().SignWith(context.Background(), &testSigner{privateKey: testPrivateKey}, publicKey)
	if err != nil {
		t.Fatalf("SignWith: %s", err)
	}
	direct, err := newTestPayment().Sign(testPrivateKey)
	if err != nil {
		t.Fatalf("Sign: %s", err)
	}
	if !signed.Equal(direct) {
		t.Fatalf("SignWith and Sign gave different parcels")
	}

	otherKey := testPrivateKey
	otherKey[31] ^= 1
	_, err = newTestPayment().SignWith(context.Background(), &testSigner{privateKey: otherKey}, publicKey)
	if err == nil {
		t.Fatalf("SignWith accepted a signature by another key")
	}
}

func TestActionEncoding(t *testing.T) {
	tests := []struct {
		name     string
		action   Action
		expected string
	}{
		{
			name:     "create shard",
			action:   &CreateShard{},
			expected: "c104",
		},
		{
			name:     "set shard owners",
			action:   &SetShardOwners{ShardID: 1, Owners: []externalapi.AccountID{testAccountID}},
			expected: "d80501d594a6594b7196808d161b6fb137e781abbc251385d9",
		},
		{
			name:     "set shard users",
			action:   &SetShardUsers{ShardID: 1, Users: []externalapi.AccountID{testAccountID}},
			expected: "d80601d594a6594b7196808d161b6fb137e781abbc251385d9",
		},
		{
			name:     "empty shard state change",
			action:   &ChangeShardState{},
			expected: "c201c0",
		},
	}
	for _, test := range tests {
		parcel := NewParcel(externalapi.NewU256(0), externalapi.NewU256(10), "tc", test.action)
		encoded, err := parcel.RLPBytes()
		if err != nil {
			t.Fatalf("%s: RLPBytes: %s", test.name, err)
		}
		if !hasHexSuffix(encoded, test.expected) {
			t.Errorf("%s: encoding %x does not end with %s", test.name, encoded, test.expected)
		}
		decoded, err := ParcelFromRLP(encoded)
		if err != nil {
			t.Fatalf("%s: ParcelFromRLP: %s", test.name, err)
		}
		if !ActionsEqual(decoded.Action, test.action) {
			t.Errorf("%s: decoded action differs: %s", test.name, spew.Sdump(decoded.Action))
		}
	}
}

func hasHexSuffix(encoded []byte, suffix string) bool {
	full := hex.EncodeToString(encoded)
	return len(full) >= len(suffix) && full[len(full)-len(suffix):] == suffix
}

func TestActionJSON(t *testing.T) {
	transfer := asset.NewAssetTransferTransaction("tc", 0)
	transfer.AddOutputs(&asset.AssetTransferOutput{
		LockScriptHash: txscript.P2PKHLockScriptHash,
		Parameters:     []externalapi.ByteArray{{1, 2, 3}},
		AssetType:      externalapi.H256{0x53},
		Amount:         10,
	})
	tests := []struct {
		name   string
		action Action
	}{
		{"change shard state", &ChangeShardState{Transactions: []asset.Transaction{transfer}}},
		{"payment", &Payment{Receiver: testAccountID, Amount: externalapi.NewU256(33)}},
		{"set regular key", &SetRegularKey{Key: externalapi.H512{1, 2, 3}}},
		{"create shard", &CreateShard{}},
		{"set shard owners", &SetShardOwners{ShardID: 3, Owners: []externalapi.AccountID{testAccountID}}},
		{"set shard users", &SetShardUsers{ShardID: 4, Users: []externalapi.AccountID{testAccountID, {}}}},
	}
	for _, test := range tests {
		actionJSON, err := NewActionJSON(test.action, "tc")
		if err != nil {
			t.Fatalf("%s: NewActionJSON: %s", test.name, err)
		}
		encoded, err := json.Marshal(actionJSON)
		if err != nil {
			t.Fatalf("%s: json.Marshal: %s", test.name, err)
		}
		parsedJSON := &ActionJSON{}
		err = json.Unmarshal(encoded, parsedJSON)
		if err != nil {
			t.Fatalf("%s: json.Unmarshal: %s", test.name, err)
		}
		decoded, err := ActionFromJSON(parsedJSON, "tc")
		if err != nil {
			t.Fatalf("%s: ActionFromJSON: %s", test.name, err)
		}
		if !ActionsEqual(decoded, test.action) {
			t.Errorf("%s: JSON round trip differs: %s", test.name, spew.Sdump(decoded))
		}
	}

	owners, err := NewActionJSON(&SetShardOwners{ShardID: 3, Owners: []externalapi.AccountID{testAccountID}}, "tc")
	if err != nil {
		t.Fatalf("NewActionJSON: %s", err)
	}
	if len(owners.Owners) != 1 || owners.Owners[0] != testAccountAddress {
		t.Fatalf("owners are not rendered as platform addresses: %v", owners.Owners)
	}
	_, err = ActionFromJSON(owners, "cc")
	if !errors.Is(err, ruleerrors.ErrNetworkMismatch) {
		t.Fatalf("expected ErrNetworkMismatch, got %v", err)
	}
}

func TestDecodeActionErrors(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"not a list", "04"},
		{"no tag", "c0"},
		{"unknown tag", "c107"},
		{"create shard with a field", "c20401"},
		{"short receiver", "c50282012121"},
		{"shard id overflow", "c60583010000c0"},
	}
	for _, test := range tests {
		full, err := hex.DecodeString(wrapParcelHex(test.encoded))
		if err != nil {
			t.Fatalf("%s: bad test vector: %s", test.name, err)
		}
		_, err = ParcelFromRLP(full)
		if !errors.Is(err, ruleerrors.ErrMalformedInput) {
			t.Errorf("%s: expected ErrMalformedInput, got %v", test.name, err)
		}
	}
}

// wrapParcelHex builds [10, 10, "tc", action] around a raw action encoding.
func wrapParcelHex(action string) string {
	body := "0a" + "0a" + "827463" + action
	return hex.EncodeToString([]byte{byte(0xc0 + len(body)/2)}) + body
}

func newU256(v uint64) *externalapi.U256 {
	u := externalapi.NewU256(v)
	return &u
}
