package grunt

import (
	"strings"
	"testing"
)

// recordingSink captures emitted lines for assertions.
type recordingSink struct {
	lines []string
}

func (r *recordingSink) Emit(severity, eventID uint32, line string) {
	r.lines = append(r.lines, line)
}

func assertStatus(t *testing.T, got, want Status) {
	t.Helper()
	if got != want {
		t.Fatalf("got status %s, want %s", got, want)
	}
}

func TestHaltTrueAndFalse(t *testing.T) {
	prog, err := NewBuilder().PushB(true).Halt().Build()
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, Run(prog, nil, nil, nil), HaltTrue)

	prog, err = NewBuilder().PushB(false).Halt().Build()
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, Run(prog, nil, nil, nil), HaltFalse)
}

func TestNoProgramOnEmpty(t *testing.T) {
	assertStatus(t, Run(nil, nil, nil, nil), NoProgram)
}

func TestNoProgramFallingOffEnd(t *testing.T) {
	prog, err := NewBuilder().PushN(1).Build()
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, Run(prog, nil, nil, nil), NoProgram)
}

func TestArithmetic(t *testing.T) {
	prog, err := NewBuilder().
		PushN(2).
		PushN(3).
		Add().     // 5
		PushN(4).
		Sub().     // 1
		PushN(1).
		Eq(2).
		Halt().
		Build()
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, Run(prog, nil, nil, nil), HaltTrue)
}

func TestAddOverflowIsOutOfBounds(t *testing.T) {
	prog, err := NewBuilder().
		PushN(NumMax).
		PushN(1).
		Add().
		PushB(true).
		Halt().
		Build()
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, Run(prog, nil, nil, nil), OutOfBounds)
}

func TestSubUnderflowIsOutOfBounds(t *testing.T) {
	prog, err := NewBuilder().
		PushN(1).
		PushN(2).
		Sub().
		PushB(true).
		Halt().
		Build()
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, Run(prog, nil, nil, nil), OutOfBounds)
}

func TestRollRotatesTopWindow(t *testing.T) {
	prog, err := NewBuilder().
		PushN(10). // w (untouched, below the window)
		PushN(1).  // x
		PushN(2).  // y
		PushN(3).  // z (top)
		Roll(3).   // -> w z x y
		PushN(2).
		Eq(2). // top after the roll is y (2)
		Halt().
		Build()
	if err != nil {
		t.Fatal(err)
	}
	// After Roll(3) on [x=1,y=2,z=3] the window becomes [z,x,y] = [3,1,2],
	// so top is y=2; comparing against the literal 2 should halt true.
	assertStatus(t, Run(prog, nil, nil, nil), HaltTrue)
}

func TestDupDuplicatesPreservingOrder(t *testing.T) {
	prog, err := NewBuilder().
		PushN(7).
		PushN(9).
		Dup(2). // stack: 7 9 7 9
		Eq(2).  // compares the two 9s? no: Eq pops top2 = (7,9) in push order
		Halt().
		Build()
	if err != nil {
		t.Fatal(err)
	}
	// top two after Dup(2) are a fresh copy of [7,9]; EQ(2) compares them
	// for equality against each other, which is false (7 != 9).
	assertStatus(t, Run(prog, nil, nil, nil), HaltFalse)
}

func TestCallMustBeForward(t *testing.T) {
	b := NewBuilder()
	b.Label("start")
	b.Call("start") // targets itself: not strictly forward
	b.PushB(true)
	b.Halt()
	_, err := b.Build()
	if err == nil {
		t.Fatal("expected Build to reject a non-forward CALL")
	}
}

func TestCallAndReturn(t *testing.T) {
	b := NewBuilder()
	b.PushN(1)
	b.Call("addOne")
	b.PushN(2)
	b.Eq(2)
	b.Halt()
	b.Label("addOne")
	b.PushN(1)
	b.Add()
	b.Return()
	prog, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, Run(prog, nil, nil, nil), HaltTrue)
}

func TestJmpIfSkipsForward(t *testing.T) {
	b := NewBuilder()
	b.PushB(true)
	b.JmpIf("after")
	b.PushB(false)
	b.Halt() // skipped when the jump is taken
	b.Label("after")
	b.PushB(true)
	b.Halt()
	prog, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, Run(prog, nil, nil, nil), HaltTrue)
}

func TestStackOverflow(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < stackSize+1; i++ {
		b.PushN(uint32(i))
	}
	b.Halt()
	prog, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, Run(prog, nil, nil, nil), OutOfBounds)
}

func TestPopUnderflow(t *testing.T) {
	prog, err := NewBuilder().Pop(1).Build()
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, Run(prog, nil, nil, nil), OutOfBounds)
}

func TestInvalidLiteralRollBelowTwo(t *testing.T) {
	prog, err := NewBuilder().PushN(1).PushN(2).
		emitRawRoll(1).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, Run(prog, nil, nil, nil), InvalidLiteral)
}

// emitRawRoll bypasses the Roll helper's natural call site (which always
// emits a legal repeat count in this package's own code) to construct an
// instruction a hostile or buggy program assembler might produce.
func (b *Builder) emitRawRoll(n uint32) *Builder {
	return b.emit(Instruction{Op: OpRoll, Rep: n})
}

func TestInputReadsNativeEndianAndRewinds(t *testing.T) {
	image := []byte{0x2A, 0x00, 0x00, 0x00}
	prog, err := NewBuilder().
		Input(4).
		Rewind(4).
		Input(4). // re-reads the same four bytes
		PushN(42).
		Eq(3).
		Halt().
		Build()
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, Run(prog, image, nil, nil), HaltTrue)
}

func TestInputPastEndIsOutOfBounds(t *testing.T) {
	prog, err := NewBuilder().Input(4).PushB(true).Halt().Build()
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, Run(prog, []byte{1, 2}, nil, nil), OutOfBounds)
}

func TestRewindPastStartIsOutOfBounds(t *testing.T) {
	prog, err := NewBuilder().Input(1).Rewind(2).PushB(true).Halt().Build()
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, Run(prog, []byte{1, 2, 3}, nil, nil), OutOfBounds)
}

func TestOutputAndFlushEmitLine(t *testing.T) {
	strs := []string{"hello "}
	sink := &recordingSink{}
	prog, err := NewBuilder().
		PushS(0).
		Output().
		PushN(7).
		Output().
		PushN(0x08).
		PushN(0x2001).
		Flush().
		PushB(true).
		Halt().
		Build()
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, Run(prog, nil, strs, sink), HaltTrue)
	if len(sink.lines) != 1 || sink.lines[0] != "hello 7" {
		t.Fatalf("unexpected emitted lines: %v", sink.lines)
	}
}

func TestOutputReservesOneByteForTerminator(t *testing.T) {
	exact := strings.Repeat("a", outputLineCapacity-1)
	strs := []string{exact, "b"}
	sink := &recordingSink{}
	prog, err := NewBuilder().
		PushS(0).
		Output().
		PushN(0x08).
		PushN(0x2001).
		Flush().
		PushB(true).
		Halt().
		Build()
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, Run(prog, nil, strs, sink), HaltTrue)
	if len(sink.lines) != 1 || sink.lines[0] != exact {
		t.Fatalf("unexpected emitted lines: %v", sink.lines)
	}

	prog, err = NewBuilder().
		PushS(0).
		Output().
		PushS(1).
		Output().
		PushB(true).
		Halt().
		Build()
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, Run(prog, nil, strs, nil), OutOfBounds)
}

func TestOutputOnEmptyArgStackIsOutOfBounds(t *testing.T) {
	b := NewBuilder()
	b.Call("target")
	b.PushB(true)
	b.Halt()
	b.Label("target")
	// A CALL's return address sits on the control stack, never the
	// argument stack, so there is no legitimate way for OUTPUT to see a
	// PC value; this program instead checks that OUTPUT on an empty
	// argument stack reports OutOfBounds rather than crashing.
	b.Output()
	b.PushB(true)
	b.Halt()
	prog, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	assertStatus(t, Run(prog, nil, nil, nil), OutOfBounds)
}
