package grunt

// Status is the terminal outcome of a VM run, plus the internal
// continue-dispatching sentinel used only inside step. The zero value is
// that sentinel so a freshly zeroed Status never accidentally looks like
// a public result.
type Status uint8

const (
	running Status = iota

	// HaltTrue and HaltFalse are the two normal ways a program finishes:
	// it executed HALT with a Bool(true) or Bool(false) on top of the
	// argument stack.
	HaltTrue
	HaltFalse

	// InterpreterBug means the VM's own invariants were violated in a
	// way a well-formed program cannot trigger (e.g. the argument and
	// control stacks crossing). It indicates a bug in this package, not
	// in the program being run.
	InterpreterBug

	// InvalidArgument means an instruction popped a value of the wrong
	// Kind for what it needed (e.g. NOT applied to a Num).
	InvalidArgument

	// InvalidLiteral means an instruction's Rep or Lit field did not
	// satisfy that instruction's own constraints (e.g. ROLL with a
	// repeat count below 2).
	InvalidLiteral

	// InvalidOpcode means a program slot held an Opcode value outside
	// the known set.
	InvalidOpcode

	// NoLoops means a CALL targeted an address that is not strictly
	// after the CALL instruction itself.
	NoLoops

	// NoProgram means the program counter ran past the end of the
	// instruction array, or a taken JMPIF's forward offset would
	// overflow the 16-bit address space.
	NoProgram

	// OutOfBounds covers every other resource limit: stack overflow or
	// underflow, input window underrun, output line overflow, and
	// arithmetic overflow/underflow.
	OutOfBounds
)

func (s Status) String() string {
	switch s {
	case HaltTrue:
		return "HaltTrue"
	case HaltFalse:
		return "HaltFalse"
	case InterpreterBug:
		return "InterpreterBug"
	case InvalidArgument:
		return "InvalidArgument"
	case InvalidLiteral:
		return "InvalidLiteral"
	case InvalidOpcode:
		return "InvalidOpcode"
	case NoLoops:
		return "NoLoops"
	case NoProgram:
		return "NoProgram"
	case OutOfBounds:
		return "OutOfBounds"
	default:
		return "running"
	}
}

// Halted reports whether s is one of the two normal termination codes.
func (s Status) Halted() bool { return s == HaltTrue || s == HaltFalse }

// VM holds all interpreter state for a single run. There is no state
// shared across runs; Run always constructs a fresh VM.
type VM struct {
	pc    int
	stack dualStack
	in    *inputWindow
	out   *outputQueue
	strs  []string
	sink  EventSink
}

// Run executes program against image (the table under validation, or any
// other byte buffer a program wants to read) with strTable backing any
// PUSHS literals, sending finished output lines to sink. It always
// terminates: every instruction other than RETURN either advances pc,
// which is bounded by NoProgram once it runs off the end, or returns one
// of the terminal Status values directly; RETURN only goes back to just
// after a CALL that itself jumped strictly forward.
func Run(program []Instruction, image []byte, strTable []string, sink EventSink) Status {
	vm := &VM{
		in:   newInputWindow(image),
		out:  newOutputQueue(),
		strs: strTable,
		sink: sink,
	}

	for {
		if vm.pc < 0 || vm.pc >= len(program) {
			return NoProgram
		}
		selfPC := vm.pc
		vm.pc++
		if status := vm.step(selfPC, program[selfPC]); status != running {
			return status
		}
	}
}

// step executes one instruction. selfPC is the address of ins itself
// (recorded before pc was advanced past it), used by CALL's loop-freedom
// check; the return address CALL pushes is the advanced pc, selfPC+1.
func (vm *VM) step(selfPC int, ins Instruction) Status {
	switch ins.Op {

	case OpPushB:
		if ins.Lit.Kind() != KindBool {
			return InvalidLiteral
		}
		if !vm.stack.pushArg(ins.Lit) {
			return OutOfBounds
		}

	case OpPushN:
		if ins.Lit.Kind() != KindNum {
			return InvalidLiteral
		}
		if !vm.stack.pushArg(ins.Lit) {
			return OutOfBounds
		}

	case OpPushS:
		if ins.Lit.Kind() != KindStr {
			return InvalidLiteral
		}
		if !vm.stack.pushArg(ins.Lit) {
			return OutOfBounds
		}

	case OpPop:
		if ins.Rep < 1 {
			return InvalidLiteral
		}
		if _, ok := vm.stack.popN(int(ins.Rep)); !ok {
			return OutOfBounds
		}

	case OpDup:
		if ins.Rep < 1 {
			return InvalidLiteral
		}
		if !vm.stack.dupN(int(ins.Rep)) {
			return OutOfBounds
		}

	case OpRoll:
		if ins.Rep < 2 {
			return InvalidLiteral
		}
		if !vm.stack.rollN(int(ins.Rep)) {
			return OutOfBounds
		}

	case OpInput:
		if ins.Rep != 1 && ins.Rep != 2 && ins.Rep != 4 {
			return InvalidLiteral
		}
		n, ok := vm.in.read(int(ins.Rep))
		if !ok {
			return OutOfBounds
		}
		if !vm.stack.pushArg(Num(n)) {
			return OutOfBounds
		}

	case OpRewind:
		if !vm.in.rewind(int(ins.Rep)) {
			return OutOfBounds
		}

	case OpOutput:
		v, ok := vm.stack.popArg()
		if !ok {
			return OutOfBounds
		}
		if v.Kind() == KindPC {
			return InvalidArgument
		}
		if !vm.out.appendValue(v, vm.strs) {
			return OutOfBounds
		}

	case OpFlush:
		eventID, sevOK := vm.stack.popArg()
		if !sevOK || eventID.Kind() != KindNum {
			return InvalidArgument
		}
		severity, ok := vm.stack.popArg()
		if !ok || severity.Kind() != KindNum {
			return InvalidArgument
		}
		vm.out.flush(severity.AsNum(), eventID.AsNum(), vm.sink)

	case OpAdd:
		b, a, ok := vm.popNumPair()
		if !ok {
			return InvalidArgument
		}
		sum := a + b
		if sum < a {
			return OutOfBounds
		}
		if !vm.stack.pushArg(Num(sum)) {
			return OutOfBounds
		}

	case OpSub:
		b, a, ok := vm.popNumPair()
		if !ok {
			return InvalidArgument
		}
		if a < b {
			return OutOfBounds
		}
		if !vm.stack.pushArg(Num(a - b)) {
			return OutOfBounds
		}

	case OpEq:
		if ins.Rep < 2 {
			return InvalidLiteral
		}
		vals, ok := vm.stack.popN(int(ins.Rep))
		if !ok {
			return OutOfBounds
		}
		eq := true
		for _, v := range vals {
			if v.Kind() != KindNum {
				return InvalidArgument
			}
		}
		for i := 1; i < len(vals); i++ {
			if vals[i].AsNum() != vals[0].AsNum() {
				eq = false
				break
			}
		}
		if !vm.stack.pushArg(Bool(eq)) {
			return OutOfBounds
		}

	case OpLt:
		b, a, ok := vm.popNumPair()
		if !ok {
			return InvalidArgument
		}
		if !vm.stack.pushArg(Bool(a < b)) {
			return OutOfBounds
		}

	case OpGt:
		b, a, ok := vm.popNumPair()
		if !ok {
			return InvalidArgument
		}
		if !vm.stack.pushArg(Bool(a > b)) {
			return OutOfBounds
		}

	case OpAnd:
		if ins.Rep < 2 {
			return InvalidLiteral
		}
		vals, ok := vm.stack.popN(int(ins.Rep))
		if !ok {
			return OutOfBounds
		}
		result := true
		for _, v := range vals {
			if v.Kind() != KindBool {
				return InvalidArgument
			}
			result = result && v.AsBool()
		}
		if !vm.stack.pushArg(Bool(result)) {
			return OutOfBounds
		}

	case OpOr:
		if ins.Rep < 2 {
			return InvalidLiteral
		}
		vals, ok := vm.stack.popN(int(ins.Rep))
		if !ok {
			return OutOfBounds
		}
		result := false
		for _, v := range vals {
			if v.Kind() != KindBool {
				return InvalidArgument
			}
			result = result || v.AsBool()
		}
		if !vm.stack.pushArg(Bool(result)) {
			return OutOfBounds
		}

	case OpNot:
		v, ok := vm.stack.popArg()
		if !ok {
			return OutOfBounds
		}
		if v.Kind() != KindBool {
			return InvalidArgument
		}
		if !vm.stack.pushArg(Bool(!v.AsBool())) {
			return OutOfBounds
		}

	case OpCall:
		if ins.Lit.Kind() != KindPC {
			return InvalidLiteral
		}
		target := int(ins.Lit.AsPC())
		if target <= selfPC {
			return NoLoops
		}
		if !vm.stack.pushCtl(PC(uint32(vm.pc))) {
			return OutOfBounds
		}
		vm.pc = target

	case OpReturn:
		addr, ok := vm.stack.popCtl()
		if !ok {
			return OutOfBounds
		}
		vm.pc = int(addr.AsPC())

	case OpJmpIf:
		if ins.Lit.Kind() != KindPC || ins.Lit.AsPC() < 2 {
			return InvalidLiteral
		}
		cond, ok := vm.stack.popArg()
		if !ok {
			return OutOfBounds
		}
		if cond.Kind() != KindBool {
			return InvalidArgument
		}
		if cond.AsBool() {
			offset := ins.Lit.AsPC()
			if offset > PCMax-uint32(vm.pc) {
				return NoProgram
			}
			vm.pc = vm.pc + int(offset-1)
		}

	case OpHalt:
		v, ok := vm.stack.popArg()
		if !ok {
			return OutOfBounds
		}
		if v.Kind() != KindBool {
			return InvalidArgument
		}
		if v.AsBool() {
			return HaltTrue
		}
		return HaltFalse

	default:
		return InvalidOpcode
	}

	return running
}

// popNumPair pops the top two argument-stack values as Nums, returning
// (b, a) where a was pushed first (deeper) and b second (the former top),
// matching the "a b -- result" notation used by ADD/SUB/LT/GT.
func (vm *VM) popNumPair() (b, a uint32, ok bool) {
	bv, ok1 := vm.stack.popArg()
	av, ok2 := vm.stack.popArg()
	if !ok1 || !ok2 || bv.Kind() != KindNum || av.Kind() != KindNum {
		return 0, 0, false
	}
	return bv.AsNum(), av.AsNum(), true
}
