package txscript

import (
	"bytes"
	"testing"
)

func TestScriptBuilder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		build    func(*ScriptBuilder) *ScriptBuilder
		expected []byte
	}{
		{
			name: "P2PKH lock script",
			build: func(b *ScriptBuilder) *ScriptBuilder {
				return b.AddOpWithOperand(OpCopy, 1).AddOps([]byte{OpBlake256, OpEq}).
					AddOpWithOperand(OpJz, 0xff).AddOp(OpChkSig)
			},
			expected: P2PKHLockScript(),
		},
		{
			name: "data push",
			build: func(b *ScriptBuilder) *ScriptBuilder {
				return b.AddData([]byte{1, 2, 3}).AddData(nil)
			},
			expected: []byte{OpPushB, 3, 1, 2, 3, OpPushB, 0},
		},
	}
	for _, test := range tests {
		script, err := test.build(NewScriptBuilder()).Script()
		if err != nil {
			t.Errorf("%s: %s", test.name, err)
			continue
		}
		if !bytes.Equal(script, test.expected) {
			t.Errorf("%s: got %x, want %x", test.name, script, test.expected)
		}
	}
}

func TestScriptBuilderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func(*ScriptBuilder) *ScriptBuilder
	}{
		{"opcode missing its operand", func(b *ScriptBuilder) *ScriptBuilder { return b.AddOp(OpJmp) }},
		{"operand on a bare opcode", func(b *ScriptBuilder) *ScriptBuilder { return b.AddOpWithOperand(OpEq, 1) }},
		{"unknown opcode", func(b *ScriptBuilder) *ScriptBuilder { return b.AddOp(0x04) }},
		{"oversized push", func(b *ScriptBuilder) *ScriptBuilder { return b.AddData(make([]byte, 256)) }},
		{"script too big", func(b *ScriptBuilder) *ScriptBuilder {
			return b.AddOps(bytes.Repeat([]byte{OpNop}, MaxScriptSize+1))
		}},
	}
	for _, test := range tests {
		builder := test.build(NewScriptBuilder().AddOp(OpNop))
		script, err := builder.Script()
		if _, ok := err.(ErrScriptNotCanonical); !ok {
			t.Errorf("%s: expected ErrScriptNotCanonical, got %v", test.name, err)
		}
		if len(script) == 0 || len(script) > MaxScriptSize {
			t.Errorf("%s: unexpected partial script length %d", test.name, len(script))
		}
		if _, err := builder.Reset().AddOp(OpSuccess).Script(); err != nil {
			t.Errorf("%s: builder unusable after Reset: %s", test.name, err)
		}
	}
}
