package txscript

import (
	"fmt"
)

// ErrScriptNotCanonical identifies a non-canonical script. The caller can use
// a type assertion to detect this error type.
type ErrScriptNotCanonical string

// Error implements the error interface.
func (e ErrScriptNotCanonical) Error() string {
	return string(e)
}

// ScriptBuilder provides a facility for building custom scripts. It allows
// you to push opcodes and data while respecting the operand layout of each
// opcode.
//
// For example, the following would build a script that succeeds when the two
// topmost stack items are equal:
// 	builder := txscript.NewScriptBuilder()
// 	builder.AddOp(txscript.OpEq).AddOpWithOperand(txscript.OpJz, 0xff)
// 	builder.AddOp(txscript.OpSuccess)
// 	script, err := builder.Script()
// 	if err != nil {
// 		// Handle the error.
// 		return
// 	}
// 	fmt.Printf("Final script: %x\n", script)
type ScriptBuilder struct {
	script []byte
	err    error
}

// AddOp pushes the passed opcode to the end of the script. The script will not
// be modified if pushing the opcode would cause the script to exceed the
// maximum allowed script size, or if the opcode needs an operand.
func (b *ScriptBuilder) AddOp(opcode byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	if err := b.checkOpcode(opcode, 1); err != nil {
		b.err = err
		return b
	}
	return b.appendBytes(opcode)
}

// AddOps pushes the passed opcodes to the end of the script.
func (b *ScriptBuilder) AddOps(opcodes []byte) *ScriptBuilder {
	for _, opcode := range opcodes {
		b.AddOp(opcode)
	}
	return b
}

// AddOpWithOperand pushes an opcode that takes a one byte operand, such as
// PUSH, COPY, DROP or a jump.
func (b *ScriptBuilder) AddOpWithOperand(opcode byte, operand byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	if err := b.checkOpcode(opcode, 2); err != nil {
		b.err = err
		return b
	}
	return b.appendBytes(opcode, operand)
}

// AddData pushes the passed data to the end of the script with PUSHB.
func (b *ScriptBuilder) AddData(data []byte) *ScriptBuilder {
	if b.err != nil {
		return b
	}
	if len(data) > 0xff {
		str := fmt.Sprintf("adding a data element of %d bytes exceeds the "+
			"maximum allowed PUSHB size of %d", len(data), 0xff)
		b.err = ErrScriptNotCanonical(str)
		return b
	}
	return b.appendBytes(append([]byte{OpPushB, byte(len(data))}, data...)...)
}

func (b *ScriptBuilder) checkOpcode(opcode byte, length int) error {
	op := &opcodeArray[opcode]
	if op.opfunc == nil {
		return ErrScriptNotCanonical(fmt.Sprintf("unknown opcode 0x%02x", opcode))
	}
	if op.length != length {
		return ErrScriptNotCanonical(fmt.Sprintf("opcode %s does not take %d operand bytes", op.name, length-1))
	}
	return nil
}

func (b *ScriptBuilder) appendBytes(data ...byte) *ScriptBuilder {
	if len(b.script)+len(data) > MaxScriptSize {
		str := fmt.Sprintf("adding %d bytes would exceed the maximum "+
			"allowed canonical script length of %d", len(data), MaxScriptSize)
		b.err = ErrScriptNotCanonical(str)
		return b
	}
	b.script = append(b.script, data...)
	return b
}

// Reset resets the script so it has no content.
func (b *ScriptBuilder) Reset() *ScriptBuilder {
	b.script = b.script[0:0]
	b.err = nil
	return b
}

// Script returns the currently built script. When any errors occurred while
// building the script, the script will be returned up the point of the first
// error along with the error.
func (b *ScriptBuilder) Script() ([]byte, error) {
	return b.script, b.err
}

// NewScriptBuilder returns a new instance of a script builder. See
// ScriptBuilder for details.
func NewScriptBuilder() *ScriptBuilder {
	return &ScriptBuilder{
		script: make([]byte, 0, 128),
	}
}
