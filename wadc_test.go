package wadc

import (
	"errors"
	"io"
	"testing"
)

func newTestWadC() *WadC {
	config := DefaultConfig()
	config.Seed = 1
	w := New(config)
	w.Logger().SetOutput(io.Discard, io.Discard)
	return w
}

func compile(t *testing.T, w *WadC, src string) *Result {
	t.Helper()
	res, err := w.Compile("test.wl", src)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return res
}

func expectKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	var werr *Error
	if !errors.As(err, &werr) {
		t.Fatalf("expected *Error of kind %s, got %v", kind, err)
	}
	if werr.Kind != kind {
		t.Fatalf("expected %s error, got %s: %v", kind, werr.Kind, werr)
	}
}

func TestEvalArithmetic(t *testing.T) {
	w := newTestWadC()
	tests := []struct {
		src  string
		want Value
	}{
		{`main { add(2, 3) }`, IntVal(5)},
		{`main { sub(2, 3) }`, IntVal(-1)},
		{`main { mul(4, -3) }`, IntVal(-12)},
		{`main { div(7, 2) }`, IntVal(3)},
		{`main { mod(7, 2) }`, IntVal(1)},
		{`main { neg(4) }`, IntVal(-4)},
		{`main { eq("a", "a") }`, IntVal(1)},
		{`main { lessthan(3, 2) }`, IntVal(0)},
		{`main { concat("BROWN", "1") }`, StrVal("BROWN1")},
		{`main { str(42) }`, StrVal("42")},
		{`main { 1 2 3 }`, IntVal(3)},
		{`main { 0 ? 1 : 2 }`, IntVal(2)},
		{`main { "" ? 1 : 2 }`, IntVal(2)},
		{`main { "x" ? 1 : 2 }`, IntVal(1)},
		{`main { 0x10 }`, IntVal(16)},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			res := compile(t, w, tt.src)
			if !res.Value.Equal(tt.want) {
				t.Errorf("expected %#v, got %#v", tt.want, res.Value)
			}
		})
	}
}

func TestUserFunctionsAndRecursion(t *testing.T) {
	w := newTestWadC()
	res := compile(t, w, `
		fact(n) { lessthan(n, 2) ? 1 : mul(n, fact(sub(n, 1))) }
		main { fact(5) }
	`)
	if !res.Value.Equal(IntVal(120)) {
		t.Errorf("expected 120, got %v", res.Value)
	}
}

func TestNoClosures(t *testing.T) {
	w := newTestWadC()
	_, err := w.Compile("", `
		inner { x }
		outer(x) { inner }
		main { outer(1) }
	`)
	expectKind(t, err, ErrUndefined)
}

func TestChoiceCoversAllAlternatives(t *testing.T) {
	seen := map[int]bool{}
	for seed := uint64(1); seed <= 200 && len(seen) < 3; seed++ {
		config := DefaultConfig()
		config.Seed = seed
		w := New(config)
		res, err := w.Compile("", `main { 1 | 2 | 3 }`)
		if err != nil {
			t.Fatal(err)
		}
		n, err := res.Value.AsInt(Position{})
		if err != nil {
			t.Fatal(err)
		}
		if n < 1 || n > 3 {
			t.Fatalf("value %d is not one of the alternatives", n)
		}
		seen[n] = true
	}
	if len(seen) != 3 {
		t.Errorf("expected all of 1, 2, 3 to be chosen, saw %v", seen)
	}
}

func TestChoiceIsReproducibleWithSeed(t *testing.T) {
	src := `pick { 1 | 2 | 3 | 4 | 5 } main { add(mul(pick, 10), pick) }`
	a := compile(t, newTestWadC(), src)
	b := compile(t, newTestWadC(), src)
	if !a.Value.Equal(b.Value) {
		t.Errorf("same seed gave %v and %v", a.Value, b.Value)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	w := newTestWadC()
	res := compile(t, w, `main { !x 5 ^x }`)
	if !res.Value.Equal(IntVal(5)) {
		t.Errorf("expected 5, got %v", res.Value)
	}
}

func TestSetGetRestoresCursor(t *testing.T) {
	w := newTestWadC()
	res := compile(t, w, `main { !start straight(128) rotright straight(64) ^start }`)
	if res.Turtle.X != 0 || res.Turtle.Y != 0 || res.Turtle.Heading != 0 {
		t.Errorf("expected cursor back at origin facing north, got %+v", res.Turtle.Cursor())
	}
	if len(res.Geometry.Lines) != 2 {
		t.Errorf("expected 2 lines, got %d", len(res.Geometry.Lines))
	}
}

func TestGetBeforeSet(t *testing.T) {
	_, err := newTestWadC().Compile("", `main { ^nowhere }`)
	expectKind(t, err, ErrUndefined)
}

func TestSetAndGetBuiltins(t *testing.T) {
	res := compile(t, newTestWadC(), `main { set("n", 3) get("n") }`)
	if !res.Value.Equal(IntVal(3)) {
		t.Errorf("expected 3, got %v", res.Value)
	}
}

func TestTagNumbers(t *testing.T) {
	w := newTestWadC()
	res := compile(t, w, `main { $first $second add($first, 0) }`)
	if !res.Value.Equal(IntVal(10)) {
		t.Errorf("expected 10, got %v", res.Value)
	}
	if n, _ := res.Program.Tags.Lookup("second"); n != 11 {
		t.Errorf("expected 11, got %d", n)
	}
	again := compile(t, w, `main { $second }`)
	if !again.Value.Equal(IntVal(10)) {
		t.Errorf("expected tags to restart at 10, got %v", again.Value)
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		src  string
		kind ErrorKind
	}{
		{`main { nothing }`, ErrUndefined},
		{`main { nothing(1) }`, ErrUndefined},
		{`f(a) { a } main { f(1, 2) }`, ErrArity},
		{`main { straight(1, 2) }`, ErrArity},
		{`main { add("a", 1) }`, ErrType},
		{`main { concat(1, "a") }`, ErrType},
		{`main { eq(1, "a") }`, ErrType},
		{`main { eq(rotleft, rotleft) }`, ErrType},
		{`main { rotleft ? 1 : 2 }`, ErrType},
		{`main { curve(64, 64, 0) }`, ErrRuntime},
		{`main { curve(64, 64, 1000000000) }`, ErrRuntime},
		{`main { div(1, 0) }`, ErrRuntime},
		{`main { die("stop") }`, ErrRuntime},
		{`loop { loop } main { loop }`, ErrRuntime},
		{`f { 1 }`, ErrUndefined},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			config := DefaultConfig()
			config.Seed = 1
			config.MaxDepth = 200
			_, err := New(config).Compile("", tt.src)
			expectKind(t, err, tt.kind)
		})
	}
}

func TestExecutorCall(t *testing.T) {
	w := newTestWadC()
	prog, err := w.Parse("test.wl", `twice(n) { add(n, n) } main { 0 }`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	s := NewExecutionState(prog, 1, "MAP01")
	v, err := w.executor.Call(s, "twice", []Value{IntVal(21)}, Position{})
	if err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if v != IntVal(42) {
		t.Errorf("expected 42, got %v", v)
	}

	_, err = w.executor.Call(s, "thrice", nil, Position{})
	expectKind(t, err, ErrUndefined)
	_, err = w.executor.Call(s, "twice", nil, Position{})
	expectKind(t, err, ErrArity)
}

func TestErrorFormat(t *testing.T) {
	_, err := newTestWadC().Compile("room.wl", "main {\n  nothing\n}")
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := err.Error(); got != "eval [room.wl:2]: undefined variable nothing" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestFailedRunLeavesNoResult(t *testing.T) {
	w := newTestWadC()
	sess := NewSession(w, "room.wl", `main { straight(64) rightsector(0, 128, 160) }`)
	if _, err := sess.Run(); err != nil {
		t.Fatal(err)
	}
	good := sess.Result()

	sess.SetSource(`main { straight(64) undefined_thing }`)
	if _, err := sess.Run(); err == nil {
		t.Fatal("expected the second run to fail")
	}
	if sess.Result() != good {
		t.Error("a failed run must keep the previous result")
	}
}

func TestRegisterBuiltin(t *testing.T) {
	w := newTestWadC()
	var got []Value
	w.RegisterBuiltin("probe", -1, func(ctx *Context) (Value, error) {
		got = ctx.Args
		return IntVal(len(ctx.Args)), nil
	})
	res := compile(t, w, `main { probe(1, "two", add(1, 2)) }`)
	if !res.Value.Equal(IntVal(3)) {
		t.Errorf("expected 3, got %v", res.Value)
	}
	if len(got) != 3 || !got[1].Equal(StrVal("two")) || !got[2].Equal(IntVal(3)) {
		t.Errorf("unexpected args %v", got)
	}
}

func TestPrintGoesToSink(t *testing.T) {
	var sink LineBuffer
	config := DefaultConfig()
	config.Sink = &sink
	w := New(config)
	w.Logger().SetOutput(io.Discard, io.Discard)
	if _, err := w.Compile("", `main { print("hello", 3) }`); err != nil {
		t.Fatal(err)
	}
	lines := sink.Lines()
	if len(lines) == 0 || lines[len(lines)-1] != "hello 3" {
		t.Errorf("expected 'hello 3' in sink, got %v", lines)
	}
}
