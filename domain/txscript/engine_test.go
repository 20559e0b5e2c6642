package txscript

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/utils/hashes"
)

func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

func TestExecute(t *testing.T) {
	t.Parallel()

	abc := []byte("abc")
	blakeABC := hashes.Blake256(abc)
	ripemdABC := hashes.Ripemd160(abc)
	push := func(data []byte) []byte {
		return append([]byte{OpPushB, byte(len(data))}, data...)
	}

	tests := []struct {
		name       string
		unlock     []byte
		parameters [][]byte
		lock       []byte
		expected   ScriptResult
	}{
		{"empty scripts", nil, nil, nil, ResultFail},
		{"success", nil, nil, []byte{OpSuccess}, ResultUnlocked},
		{"fail", []byte{OpPush, 1}, nil, []byte{OpFail}, ResultFail},
		{"burn", nil, nil, []byte{OpBurn}, ResultBurnt},
		{"success stops evaluation", nil, nil, []byte{OpSuccess, OpFail}, ResultUnlocked},
		{"true on top", []byte{OpPush, 1}, nil, nil, ResultUnlocked},
		{"any non-zero byte is true", push([]byte{0, 0, 2}), nil, nil, ResultUnlocked},
		{"zero bytes are false", push([]byte{0, 0}), nil, nil, ResultFail},
		{"not", []byte{OpPush, 0}, nil, []byte{OpNot}, ResultUnlocked},
		{"eq", append(push([]byte{0xaa, 0xbb}), push([]byte{0xaa, 0xbb})...), nil, []byte{OpEq}, ResultUnlocked},
		{"eq mismatch", append(push([]byte{0xaa}), push([]byte{0xab})...), nil, []byte{OpEq}, ResultFail},
		{"jmp skips an instruction", nil, nil, []byte{OpJmp, 1, OpFail, OpSuccess}, ResultUnlocked},
		{"jmp past the end fails", []byte{OpPush, 1}, nil, []byte{OpJmp, 5}, ResultFail},
		{"jmp to the end fails", []byte{OpPush, 1}, nil, []byte{OpJmp, 0}, ResultFail},
		{"jnz taken", []byte{OpPush, 1}, nil, []byte{OpJnz, 1, OpFail, OpSuccess}, ResultUnlocked},
		{"jnz not taken", []byte{OpPush, 0}, nil, []byte{OpJnz, 1, OpSuccess, OpFail}, ResultUnlocked},
		{"jz taken", []byte{OpPush, 0}, nil, []byte{OpJz, 1, OpFail, OpSuccess}, ResultUnlocked},
		{"jz not taken", []byte{OpPush, 1}, nil, []byte{OpJz, 1, OpSuccess, OpFail}, ResultUnlocked},
		{"swap", []byte{OpPush, 0, OpPush, 1}, nil, []byte{OpSwap}, ResultFail},
		{"dup", []byte{OpPush, 7}, nil, []byte{OpDup, OpEq}, ResultUnlocked},
		{"copy", []byte{OpPush, 1, OpPush, 0}, nil, []byte{OpCopy, 1}, ResultUnlocked},
		{"drop top", []byte{OpPush, 1, OpPush, 0}, nil, []byte{OpDrop, 0}, ResultUnlocked},
		{"drop below top", []byte{OpPush, 1, OpPush, 0}, nil, []byte{OpDrop, 1}, ResultFail},
		{"pop in unlock script", []byte{OpPush, 1, OpPush, 0, OpPop}, nil, nil, ResultUnlocked},
		{"nop", []byte{OpNop, OpPush, 1}, nil, []byte{OpNop}, ResultUnlocked},
		{"parameters pushed after unlock", []byte{OpPush, 1}, [][]byte{{0}}, nil, ResultFail},
		{"parameters on top", []byte{OpPush, 0}, [][]byte{{1}}, nil, ResultUnlocked},
		{"blake256", push(abc), [][]byte{blakeABC[:]}, []byte{OpSwap, OpBlake256, OpEq}, ResultUnlocked},
		{"sha256", push(abc),
			[][]byte{hexToBytes("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad")},
			[]byte{OpSwap, OpSha256, OpEq}, ResultUnlocked},
		{"ripemd160", push(abc), [][]byte{ripemdABC[:]}, []byte{OpSwap, OpRipemd160, OpEq}, ResultUnlocked},
		{"keccak256", push(abc),
			[][]byte{hexToBytes("4e03657aea45a94fc7d47ba826c8d667c0d1e6e33a64a036ec44f58fa12d6c45")},
			[]byte{OpSwap, OpKeccak256, OpEq}, ResultUnlocked},
		{"chksig with malformed key pushes false", push(make([]byte, 65)), [][]byte{{1}}, []byte{OpChkSig}, ResultFail},
	}

	for _, test := range tests {
		result, err := NewEngine(externalapi.H256{}).Execute(test.unlock, test.parameters, test.lock)
		if err != nil {
			t.Errorf("%s: unexpected error: %s", test.name, err)
			continue
		}
		if result != test.expected {
			t.Errorf("%s: got %s, want %s", test.name, result, test.expected)
		}
	}
}

func TestExecuteErrors(t *testing.T) {
	t.Parallel()

	tooManyItems := make([][]byte, MaxStackSize+1)
	tests := []struct {
		name       string
		unlock     []byte
		parameters [][]byte
		lock       []byte
		expected   ErrorCode
	}{
		{"invalid opcode", nil, nil, []byte{0x04}, ErrInvalidOpcode},
		{"invalid opcode in unlock", []byte{0xff}, nil, nil, ErrInvalidOpcode},
		{"truncated pushb", nil, nil, []byte{OpPushB, 5, 1, 2}, ErrMalformedPush},
		{"pushb without length", nil, nil, []byte{OpPushB}, ErrMalformedPush},
		{"jmp without operand", nil, nil, []byte{OpJmp}, ErrMalformedPush},
		{"unlock script is not push only", []byte{OpSuccess}, nil, nil, ErrNotPushOnly},
		{"unlock script with a hash", []byte{OpPush, 1, OpBlake256}, nil, nil, ErrNotPushOnly},
		{"eq underflow", nil, nil, []byte{OpEq}, ErrInvalidStackOperation},
		{"pop underflow", []byte{OpPop}, nil, nil, ErrInvalidStackOperation},
		{"swap underflow", []byte{OpPush, 1}, nil, []byte{OpSwap}, ErrInvalidStackOperation},
		{"copy out of range", []byte{OpPush, 1}, nil, []byte{OpCopy, 1}, ErrInvalidStackOperation},
		{"drop out of range", nil, nil, []byte{OpDrop, 0}, ErrInvalidStackOperation},
		{"chksig underflow", []byte{OpPush, 1}, nil, []byte{OpChkSig}, ErrInvalidStackOperation},
		{"step limit", nil, nil, bytes.Repeat([]byte{OpNop}, MaxSteps+1), ErrStepLimit},
		{"script too big", nil, nil, bytes.Repeat([]byte{OpNop}, MaxScriptSize+1), ErrScriptTooBig},
		{"element too big", nil, [][]byte{make([]byte, MaxElementSize+1)}, nil, ErrElementTooBig},
		{"stack overflow", nil, tooManyItems, nil, ErrStackOverflow},
	}

	for _, test := range tests {
		result, err := NewEngine(externalapi.H256{}).Execute(test.unlock, test.parameters, test.lock)
		if !IsErrorCode(err, test.expected) {
			t.Errorf("%s: expected error code %s, got %v", test.name, test.expected, err)
			continue
		}
		if result != ResultFail {
			t.Errorf("%s: failed evaluation returned %s", test.name, result)
		}
	}
}

func TestStepLimitBoundary(t *testing.T) {
	t.Parallel()

	lock := append(bytes.Repeat([]byte{OpNop}, MaxSteps-2), OpPush, 1, OpNop)
	result, err := NewEngine(externalapi.H256{}).Execute(nil, nil, lock)
	if err != nil {
		t.Fatalf("Execute: %s", err)
	}
	if result != ResultUnlocked {
		t.Fatalf("got %s, want %s", result, ResultUnlocked)
	}
}

func TestDisasmString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		script   []byte
		expected string
	}{
		{P2PKHLockScript(), "COPY 0x01 BLAKE256 EQ JZ 0xff CHKSIG"},
		{P2PKHBurnLockScript(), "COPY 0x01 BLAKE256 EQ JZ 0xff CHKSIG JZ 0xff BURN"},
		{[]byte{OpPushB, 2, 0xaa, 0xbb, OpPush, 7}, "PUSHB 0xaabb PUSH 0x07"},
		{nil, ""},
	}
	for _, test := range tests {
		disasm, err := DisasmString(test.script)
		if err != nil {
			t.Errorf("DisasmString(%x): %s", test.script, err)
			continue
		}
		if disasm != test.expected {
			t.Errorf("DisasmString(%x): got %q, want %q", test.script, disasm, test.expected)
		}
	}

	if _, err := DisasmString([]byte{0x04}); !IsErrorCode(err, ErrInvalidOpcode) {
		t.Errorf("DisasmString of an invalid opcode: got %v", err)
	}
}

func TestErrorCodeStringer(t *testing.T) {
	t.Parallel()

	for c := ErrInternal; c < numErrorCodes; c++ {
		if _, ok := errorCodeStrings[c]; !ok {
			t.Errorf("error code %d has no string", int(c))
		}
	}
	if ErrorCode(0xffff).String() != "Unknown ErrorCode (65535)" {
		t.Errorf("unexpected string for an unknown code: %s", ErrorCode(0xffff))
	}
}

func TestKeccak256Opcode(t *testing.T) {
	t.Parallel()

	lock := append([]byte{OpPushB, 0x00, OpKeccak256, OpPushB, 0x20},
		hexToBytes("c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")...)
	lock = append(lock, OpEq)
	result, err := NewEngine(externalapi.H256{}).Execute(nil, nil, lock)
	if err != nil {
		t.Fatalf("Execute: %s", err)
	}
	if result != ResultUnlocked {
		t.Fatalf("keccak256 of the empty string did not match: %s", result)
	}
}
