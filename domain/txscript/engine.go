package txscript

import (
	"fmt"

	"github.com/kaspanet/parcelsdk/domain/model/externalapi"
	"github.com/kaspanet/parcelsdk/infrastructure/logger"
)

// These are the limits imposed on script evaluation.
const (
	MaxScriptSize  = 1024 // Max size in bytes of a lock or unlock script.
	MaxStackSize   = 1024 // Max number of items on the stack.
	MaxElementSize = 1024 // Max bytes pushable to the stack.
	MaxSteps       = 1000 // Max number of instructions executed per evaluation.
)

// ScriptResult is the outcome of a finished evaluation.
type ScriptResult byte

// These are the possible evaluation outcomes.
const (
	ResultFail ScriptResult = iota
	ResultUnlocked
	ResultBurnt
)

var scriptResultStrings = map[ScriptResult]string{
	ResultFail:     "Fail",
	ResultUnlocked: "Unlocked",
	ResultBurnt:    "Burnt",
}

func (r ScriptResult) String() string {
	if s, ok := scriptResultStrings[r]; ok {
		return s
	}
	return fmt.Sprintf("Unknown ScriptResult (%d)", byte(r))
}

// Engine is the virtual machine that evaluates an unlock script, the output
// parameters and a lock script against a single data stack.
type Engine struct {
	txHash     externalapi.H256
	dstack     stack
	script     []parsedOpcode
	scriptName string
	pc         int
	steps      int
	done       bool
	result     ScriptResult
}

// NewEngine returns an engine that checks signatures against txHash, which is
// the transaction hash computed with every input script blanked.
func NewEngine(txHash externalapi.H256) *Engine {
	return &Engine{txHash: txHash}
}

// Execute evaluates the unlock script, then pushes parameters in order, then
// evaluates the lock script. A returned error means the scripts are invalid
// or evaluation broke a limit; a clean failure is reported as ResultFail.
// Every call starts from an empty stack.
func (vm *Engine) Execute(unlockScript []byte, parameters [][]byte, lockScript []byte) (ScriptResult, error) {
	vm.reset()
	unlockPops, err := parseScript(unlockScript)
	if err != nil {
		return ResultFail, err
	}
	for i := range unlockPops {
		if !unlockPops[i].isPushOnly() {
			str := fmt.Sprintf("unlock script contains %s", unlockPops[i].opcode.name)
			return ResultFail, scriptError(ErrNotPushOnly, str)
		}
	}
	lockPops, err := parseScript(lockScript)
	if err != nil {
		return ResultFail, err
	}

	err = vm.run("unlock", unlockPops)
	if err != nil {
		return ResultFail, err
	}
	for _, parameter := range parameters {
		err := vm.dstack.PushByteArray(parameter)
		if err != nil {
			return ResultFail, err
		}
	}
	err = vm.run("lock", lockPops)
	if err != nil {
		return ResultFail, err
	}
	if vm.done {
		return vm.result, nil
	}

	if vm.dstack.Depth() == 0 {
		log.Tracef("stack empty at end of lock script")
		return ResultFail, nil
	}
	top, err := vm.dstack.PopBool()
	if err != nil {
		return ResultFail, err
	}
	if top {
		return ResultUnlocked, nil
	}
	return ResultFail, nil
}

func (vm *Engine) reset() {
	*vm = Engine{txHash: vm.txHash}
}

func (vm *Engine) run(scriptName string, script []parsedOpcode) error {
	vm.script, vm.scriptName, vm.pc = script, scriptName, 0
	for vm.pc < len(vm.script) && !vm.done {
		vm.steps++
		if vm.steps > MaxSteps {
			str := fmt.Sprintf("exceeded max step limit of %d", MaxSteps)
			return scriptError(ErrStepLimit, str)
		}

		pop := &vm.script[vm.pc]
		log.Tracef("%s", logger.NewLogClosure(func() string {
			return fmt.Sprintf("stepping %s:%04d: %s", vm.scriptName, vm.pc, pop.print())
		}))
		vm.pc++

		err := pop.opcode.opfunc(pop, vm)
		if err != nil {
			return err
		}
		log.Tracef("%s", logger.NewLogClosure(func() string {
			return fmt.Sprintf("stack:\n%s", vm.dstack.String())
		}))
	}
	return nil
}

// jump moves the program counter offset instructions past the one following
// the current instruction. Jumping beyond the last instruction fails
// evaluation.
func (vm *Engine) jump(offset byte) {
	target := vm.pc + int(offset)
	if target >= len(vm.script) {
		log.Tracef("jump to %d is past the end of the %s script", target, vm.scriptName)
		vm.terminate(ResultFail)
		return
	}
	vm.pc = target
}

func (vm *Engine) terminate(result ScriptResult) {
	vm.done = true
	vm.result = result
}
