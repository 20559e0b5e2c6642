package txscript

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/domain/utils/ecdsa"
	"github.com/kaspanet/parcelsdk/domain/utils/hashes"
)

// These are the opcodes of the lock script language.
const (
	OpNop       = 0x00
	OpBurn      = 0x01
	OpSuccess   = 0x02
	OpFail      = 0x03
	OpNot       = 0x10
	OpEq        = 0x11
	OpJmp       = 0x20
	OpJnz       = 0x21
	OpJz        = 0x22
	OpPush      = 0x30
	OpPop       = 0x31
	OpPushB     = 0x32
	OpDup       = 0x33
	OpSwap      = 0x34
	OpCopy      = 0x35
	OpDrop      = 0x36
	OpChkSig    = 0x80
	OpBlake256  = 0x90
	OpSha256    = 0x91
	OpRipemd160 = 0x92
	OpKeccak256 = 0x93
)

// An opcode defines the information related to a script opcode. length is
// the encoded size of the instruction: 1 for a bare opcode, 2 for an opcode
// followed by a one byte operand, and -1 for PUSHB, whose operand is a length
// byte followed by that many bytes of data.
type opcode struct {
	value  byte
	name   string
	length int
	opfunc func(*parsedOpcode, *Engine) error
}

var opcodeDefinitions = []opcode{
	{OpNop, "NOP", 1, opcodeNop},
	{OpBurn, "BURN", 1, opcodeBurn},
	{OpSuccess, "SUCCESS", 1, opcodeSuccess},
	{OpFail, "FAIL", 1, opcodeFail},
	{OpNot, "NOT", 1, opcodeNot},
	{OpEq, "EQ", 1, opcodeEq},
	{OpJmp, "JMP", 2, opcodeJmp},
	{OpJnz, "JNZ", 2, opcodeJnz},
	{OpJz, "JZ", 2, opcodeJz},
	{OpPush, "PUSH", 2, opcodePush},
	{OpPop, "POP", 1, opcodePop},
	{OpPushB, "PUSHB", -1, opcodePushB},
	{OpDup, "DUP", 1, opcodeDup},
	{OpSwap, "SWAP", 1, opcodeSwap},
	{OpCopy, "COPY", 2, opcodeCopy},
	{OpDrop, "DROP", 2, opcodeDrop},
	{OpChkSig, "CHKSIG", 1, opcodeChkSig},
	{OpBlake256, "BLAKE256", 1, opcodeBlake256},
	{OpSha256, "SHA256", 1, opcodeSha256},
	{OpRipemd160, "RIPEMD160", 1, opcodeRipemd160},
	{OpKeccak256, "KECCAK256", 1, opcodeKeccak256},
}

// opcodeArray holds details about all possible opcodes indexed by value.
// Entries with a nil opfunc are invalid opcodes.
var opcodeArray [256]opcode

func init() {
	for _, definition := range opcodeDefinitions {
		opcodeArray[definition.value] = definition
	}
}

// parsedOpcode represents an opcode that has been parsed and includes any
// potential data associated with it.
type parsedOpcode struct {
	opcode *opcode
	data   []byte
}

// isPushOnly reports whether the instruction may appear in an unlock script.
func (pop *parsedOpcode) isPushOnly() bool {
	switch pop.opcode.value {
	case OpPush, OpPushB, OpPop, OpNop:
		return true
	}
	return false
}

// operand returns the one byte operand of a fixed length instruction.
func (pop *parsedOpcode) operand() byte {
	return pop.data[0]
}

func (pop *parsedOpcode) print() string {
	switch pop.opcode.length {
	case 2:
		return fmt.Sprintf("%s 0x%02x", pop.opcode.name, pop.data[0])
	case -1:
		return fmt.Sprintf("%s 0x%s", pop.opcode.name, hex.EncodeToString(pop.data))
	}
	return pop.opcode.name
}

// parseScript decodes the whole script into instructions. Unknown opcodes and
// truncated operands are rejected before anything runs.
func parseScript(script []byte) ([]parsedOpcode, error) {
	if len(script) > MaxScriptSize {
		str := fmt.Sprintf("script size %d is larger than max allowed size %d", len(script), MaxScriptSize)
		return nil, scriptError(ErrScriptTooBig, str)
	}

	retScript := make([]parsedOpcode, 0, len(script))
	for i := 0; i < len(script); {
		op := &opcodeArray[script[i]]
		if op.opfunc == nil {
			str := fmt.Sprintf("invalid opcode 0x%02x at offset %d", script[i], i)
			return nil, scriptError(ErrInvalidOpcode, str)
		}
		pop := parsedOpcode{opcode: op}

		switch op.length {
		case 1:
			i++
		case 2:
			if i+1 >= len(script) {
				str := fmt.Sprintf("%s at offset %d is missing its operand", op.name, i)
				return nil, scriptError(ErrMalformedPush, str)
			}
			pop.data = script[i+1 : i+2]
			i += 2
		case -1:
			if i+1 >= len(script) {
				str := fmt.Sprintf("%s at offset %d is missing its length", op.name, i)
				return nil, scriptError(ErrMalformedPush, str)
			}
			dataLen := int(script[i+1])
			start := i + 2
			if start+dataLen > len(script) {
				str := fmt.Sprintf("%s at offset %d pushes %d bytes but only %d remain",
					op.name, i, dataLen, len(script)-start)
				return nil, scriptError(ErrMalformedPush, str)
			}
			pop.data = script[start : start+dataLen]
			i = start + dataLen
		default:
			str := fmt.Sprintf("opcode %s has invalid length %d", op.name, op.length)
			return nil, scriptError(ErrInternal, str)
		}

		retScript = append(retScript, pop)
	}
	return retScript, nil
}

// DisasmString formats a disassembled script for one line printing. When the
// script fails to parse, the returned string will contain the disassembled
// script up to the point the failure occurred along with the string '[error]'
// appended. In addition, the reason the script failed to parse is returned.
func DisasmString(script []byte) (string, error) {
	pops, err := parseScript(script)
	if err != nil {
		return "[error]", err
	}
	parts := make([]string, len(pops))
	for i := range pops {
		parts[i] = pops[i].print()
	}
	return strings.Join(parts, " "), nil
}

func opcodeNop(op *parsedOpcode, vm *Engine) error {
	return nil
}

func opcodeBurn(op *parsedOpcode, vm *Engine) error {
	vm.terminate(ResultBurnt)
	return nil
}

func opcodeSuccess(op *parsedOpcode, vm *Engine) error {
	vm.terminate(ResultUnlocked)
	return nil
}

func opcodeFail(op *parsedOpcode, vm *Engine) error {
	vm.terminate(ResultFail)
	return nil
}

func opcodeNot(op *parsedOpcode, vm *Engine) error {
	v, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}
	return vm.dstack.PushBool(!v)
}

func opcodeEq(op *parsedOpcode, vm *Engine) error {
	a, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	b, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	return vm.dstack.PushBool(bytes.Equal(a, b))
}

func opcodeJmp(op *parsedOpcode, vm *Engine) error {
	vm.jump(op.operand())
	return nil
}

func opcodeJnz(op *parsedOpcode, vm *Engine) error {
	v, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}
	if v {
		vm.jump(op.operand())
	}
	return nil
}

func opcodeJz(op *parsedOpcode, vm *Engine) error {
	v, err := vm.dstack.PopBool()
	if err != nil {
		return err
	}
	if !v {
		vm.jump(op.operand())
	}
	return nil
}

func opcodePush(op *parsedOpcode, vm *Engine) error {
	return vm.dstack.PushByteArray([]byte{op.operand()})
}

func opcodePop(op *parsedOpcode, vm *Engine) error {
	_, err := vm.dstack.PopByteArray()
	return err
}

func opcodePushB(op *parsedOpcode, vm *Engine) error {
	return vm.dstack.PushByteArray(op.data)
}

func opcodeDup(op *parsedOpcode, vm *Engine) error {
	return vm.dstack.CopyN(0)
}

func opcodeSwap(op *parsedOpcode, vm *Engine) error {
	return vm.dstack.Swap()
}

func opcodeCopy(op *parsedOpcode, vm *Engine) error {
	return vm.dstack.CopyN(int(op.operand()))
}

func opcodeDrop(op *parsedOpcode, vm *Engine) error {
	return vm.dstack.RemoveN(int(op.operand()))
}

// opcodeChkSig pops a public key and then a signature and pushes whether the
// signature signs the transaction hash under that key. Keys and signatures of
// the wrong size push false rather than failing evaluation.
func opcodeChkSig(op *parsedOpcode, vm *Engine) error {
	pkBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	sigBytes, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}

	publicKey, err := externalapi.NewH512FromSlice(pkBytes)
	if err != nil {
		log.Tracef("CHKSIG: malformed public key of %d bytes", len(pkBytes))
		return vm.dstack.PushBool(false)
	}
	sig, err := ecdsa.ParseSignature(sigBytes)
	if err != nil {
		log.Tracef("CHKSIG: malformed signature of %d bytes", len(sigBytes))
		return vm.dstack.PushBool(false)
	}
	valid := ecdsa.Verify(vm.txHash, sig, publicKey)
	log.Tracef("CHKSIG: signature %s by %s valid: %t", sig, publicKey, valid)
	return vm.dstack.PushBool(valid)
}

func hashTop(vm *Engine, hash func([]byte) []byte) error {
	data, err := vm.dstack.PopByteArray()
	if err != nil {
		return err
	}
	return vm.dstack.PushByteArray(hash(data))
}

func opcodeBlake256(op *parsedOpcode, vm *Engine) error {
	return hashTop(vm, func(data []byte) []byte {
		digest := hashes.Blake256(data)
		return digest[:]
	})
}

func opcodeSha256(op *parsedOpcode, vm *Engine) error {
	return hashTop(vm, func(data []byte) []byte {
		digest := sha256.Sum256(data)
		return digest[:]
	})
}

func opcodeRipemd160(op *parsedOpcode, vm *Engine) error {
	return hashTop(vm, func(data []byte) []byte {
		digest := hashes.Ripemd160(data)
		return digest[:]
	})
}

func opcodeKeccak256(op *parsedOpcode, vm *Engine) error {
	return hashTop(vm, func(data []byte) []byte {
		return crypto.Keccak256(data)
	})
}
