package wadc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func parseString(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Parse("test.wl", src, ParseOptions{})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return prog
}

func TestParseFunctions(t *testing.T) {
	prog := parseString(t, `
		square(n) { mul(n, n) }
		main { square(3) }
	`)
	if len(prog.Funs) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(prog.Funs))
	}
	f, ok := prog.Fun("square")
	if !ok {
		t.Fatal("square not defined")
	}
	if len(f.Params) != 1 || f.Params[0] != "n" {
		t.Errorf("unexpected params %v", f.Params)
	}
	if got := f.Body.String(); got != "mul(n, n)" {
		t.Errorf("unexpected body %q", got)
	}
}

func TestParseMainWithoutParens(t *testing.T) {
	prog := parseString(t, `main { 1 }`)
	if _, ok := prog.Fun("main"); !ok {
		t.Fatal("main not defined")
	}
}

func TestParseStructure(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`main { a b c }`, "a b c"},
		{`main { 1 | 2 | 3 }`, "{ 1 | 2 | 3 }"},
		{`main { eq(1, 1) ? "y" : "n" }`, `{ eq(1, 1) ? "y" : "n" }`},
		{`main { !x 5 ^x }`, "!x 5 ^x"},
		{`main { { a | b } c }`, "{ a | b } c"},
		{`main { f() }`, "f()"},
		{`main { $door }`, "$door"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog := parseString(t, tt.src)
			main, _ := prog.Fun("main")
			if got := main.Body.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSeqIsRightAssociative(t *testing.T) {
	prog := parseString(t, `main { a b c }`)
	main, _ := prog.Fun("main")
	seq, ok := main.Body.(*Seq)
	if !ok {
		t.Fatalf("expected *Seq, got %T", main.Body)
	}
	if _, ok := seq.First.(*Id); !ok {
		t.Errorf("expected first to be an identifier, got %T", seq.First)
	}
	if _, ok := seq.Rest.(*Seq); !ok {
		t.Errorf("expected rest to be a sequence, got %T", seq.Rest)
	}
}

func TestBareReferenceVersusEmptyCall(t *testing.T) {
	prog := parseString(t, `main { a b() }`)
	main, _ := prog.Fun("main")
	seq := main.Body.(*Seq)
	if seq.First.(*Id).Args != nil {
		t.Error("bare reference must have nil Args")
	}
	if args := seq.Rest.(*Id).Args; args == nil || len(args) != 0 {
		t.Errorf("empty call must have empty non-nil Args, got %#v", args)
	}
}

func TestParseIsReferentiallyTransparent(t *testing.T) {
	src := `f(a, b) { a | b ? 1 : 2 } main { !p f(1, "s") ^p $t }`
	p1 := parseString(t, src)
	p2 := parseString(t, src)
	for _, name := range p1.FunNames() {
		f2, ok := p2.Fun(name)
		if !ok {
			t.Fatalf("%s missing from second parse", name)
		}
		f1, _ := p1.Fun(name)
		if f1.String() != f2.String() {
			t.Errorf("%s differs: %q vs %q", name, f1, f2)
		}
	}
}

func TestDuplicateFunction(t *testing.T) {
	_, err := Parse("", `main(){a} main(){b}`, ParseOptions{})
	var werr *Error
	if !errors.As(err, &werr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if werr.Kind != ErrDuplicate {
		t.Errorf("expected duplicate error, got %v", werr.Kind)
	}
	if !strings.Contains(werr.Msg, "defined twice") {
		t.Errorf("unexpected message %q", werr.Msg)
	}
}

func TestReservedBuiltinName(t *testing.T) {
	_, err := Parse("", `straight(x) { x } main { 1 }`, ParseOptions{
		Reserved: func(name string) bool { return name == "straight" },
	})
	var werr *Error
	if !errors.As(err, &werr) || werr.Kind != ErrDuplicate {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestSyntaxErrors(t *testing.T) {
	tests := []string{
		`main { `,
		`main { f(1, }`,
		`main { ! }`,
		`main { 1 ? 2 }`,
		`(x) { 1 }`,
		`main { ) }`,
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			_, err := Parse("", src, ParseOptions{})
			var werr *Error
			if !errors.As(err, &werr) || werr.Kind != ErrSyntax {
				t.Fatalf("expected syntax error, got %v", err)
			}
			if werr.Pos.Line != 1 {
				t.Errorf("expected line 1, got %d", werr.Pos.Line)
			}
		})
	}
}

func TestTagsAllocatedInOrder(t *testing.T) {
	prog := parseString(t, `main { $a $b $a $c }`)
	for name, want := range map[string]int{"a": 10, "b": 11, "c": 12} {
		got, ok := prog.Tags.Lookup(name)
		if !ok || got != want {
			t.Errorf("tag %s: expected %d, got %d", name, want, got)
		}
	}
	// a fresh parse starts again at 10
	again := parseString(t, `main { $c }`)
	if got, _ := again.Tags.Lookup("c"); got != 10 {
		t.Errorf("expected re-parse to restart at 10, got %d", got)
	}
}

func TestInsertPos(t *testing.T) {
	src := "main {\n  straight(64)\n}\n"
	prog := parseString(t, src)
	if prog.InsertPos != strings.LastIndex(src, "}") {
		t.Errorf("expected insert position %d, got %d", strings.LastIndex(src, "}"), prog.InsertPos)
	}

	noMain := parseString(t, `f { 1 }`)
	if noMain.InsertPos != -1 {
		t.Errorf("expected -1 without main, got %d", noMain.InsertPos)
	}
}

func TestIncludeMergedOnce(t *testing.T) {
	lib := fstest.MapFS{
		"lib.h": {Data: []byte(`helper { 7 }`)},
	}
	inc := NewIncluder("", lib, NewLogger(false))
	prog, err := Parse("", `#"lib.h" #"lib.h" main { helper }`, ParseOptions{Includer: inc})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, ok := prog.Fun("helper"); !ok {
		t.Error("helper not merged")
	}
	if len(prog.Includes) != 1 || prog.Includes[0] != "lib.h" {
		t.Errorf("unexpected includes %v", prog.Includes)
	}
}

func TestIncludePrefersLocalFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "lib.h"), []byte(`which { "local" }`), 0644); err != nil {
		t.Fatal(err)
	}
	lib := fstest.MapFS{"lib.h": {Data: []byte(`which { "bundled" }`)}}
	inc := NewIncluder(dir, lib, NewLogger(false))
	prog, err := Parse("", `#"lib.h" main { which }`, ParseOptions{Includer: inc})
	if err != nil {
		t.Fatal(err)
	}
	f, _ := prog.Fun("which")
	if f.Body.String() != `"local"` {
		t.Errorf("expected local include, got %s", f.Body)
	}
}

func TestMissingIncludeIsNotFatal(t *testing.T) {
	var sink LineBuffer
	logger := NewLogger(false)
	logger.SetOutput(&strings.Builder{}, &strings.Builder{})
	logger.SetSink(&sink)
	inc := NewIncluder(t.TempDir(), nil, logger)
	_, err := Parse("", `#"nowhere.h" main { 1 }`, ParseOptions{Includer: inc, Logger: logger})
	if err != nil {
		t.Fatalf("missing include must not be fatal: %v", err)
	}
	if !strings.Contains(sink.String(), "nowhere.h") {
		t.Errorf("expected a diagnostic naming the file, got %q", sink.String())
	}
}

func TestIncludeDoesNotMoveInsertPos(t *testing.T) {
	lib := fstest.MapFS{"lib.h": {Data: []byte("pad { 1 }\n\n\n\n")}}
	src := `#"lib.h" main { pad }`
	inc := NewIncluder("", lib, NewLogger(false))
	prog, err := Parse("", src, ParseOptions{Includer: inc})
	if err != nil {
		t.Fatal(err)
	}
	if prog.InsertPos != strings.LastIndex(src, "}") {
		t.Errorf("expected %d, got %d", strings.LastIndex(src, "}"), prog.InsertPos)
	}
}

func TestBundledStandardLibrary(t *testing.T) {
	inc := NewIncluder(t.TempDir(), BundledIncludes(), NewLogger(false))
	prog, err := Parse("", `#"standard.h" main { 1 }`, ParseOptions{Includer: inc})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := prog.Fun("box"); !ok {
		t.Error("expected box from standard.h")
	}
}
