package wadc

import (
	"fmt"
	"io/fs"
)

// Position tracks a location in a source buffer for diagnostics.
// Offset is the byte offset into the file named by File; the host uses it
// to place the editing cursor.
type Position struct {
	File   string
	Line   int
	Offset int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// ErrorKind classifies a fatal language error
type ErrorKind int

const (
	ErrLex       ErrorKind = iota // Unterminated comment, malformed number
	ErrSyntax                     // Unexpected token, missing identifier, unclosed brace
	ErrDuplicate                  // Function defined twice
	ErrUndefined                  // Unknown identifier or unset global slot
	ErrArity                      // Wrong number of arguments
	ErrType                       // Int used as string or vice versa
	ErrRuntime                    // Builtin failure, recursion limit
)

// ErrorClass is the coarse taxonomy reported to hosts
type ErrorClass string

const (
	ClassLex      ErrorClass = "LexError"
	ClassSyntax   ErrorClass = "SyntaxError"
	ClassSemantic ErrorClass = "SemanticError"
)

// Class maps an error kind onto the lex/syntax/semantic taxonomy.
func (k ErrorKind) Class() ErrorClass {
	switch k {
	case ErrLex:
		return ClassLex
	case ErrSyntax:
		return ClassSyntax
	default:
		return ClassSemantic
	}
}

func (k ErrorKind) String() string {
	switch k {
	case ErrLex:
		return "lex"
	case ErrSyntax:
		return "syntax"
	case ErrDuplicate:
		return "duplicate"
	case ErrUndefined:
		return "undefined"
	case ErrArity:
		return "arity"
	case ErrType:
		return "type"
	case ErrRuntime:
		return "runtime"
	default:
		return "unknown"
	}
}

// Error is the single error-result type of the pipeline. Every fatal
// condition from lexing through evaluation is reported as an *Error.
type Error struct {
	Kind ErrorKind
	Msg  string
	Pos  Position
}

func (e *Error) Error() string {
	stage := "parser"
	if e.Kind.Class() == ClassSemantic && e.Kind != ErrDuplicate {
		stage = "eval"
	}
	return fmt.Sprintf("%s [%s]: %s", stage, e.Pos, e.Msg)
}

func newError(kind ErrorKind, pos Position, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Pos: pos}
}

// Config holds configuration for a WadC instance
type Config struct {
	Debug    bool
	Seed     uint64 // Choice seed, 0 seeds from the clock
	MaxDepth int    // Call depth limit before a run fails
	Grid     int    // Snap grid for interactive steps
	MapName  string
	// IncludeFS is the bundled read-only include library used when an
	// include is not found next to the source file.
	IncludeFS fs.FS
	Sink      Sink
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Debug:     false,
		Seed:      0,
		MaxDepth:  20000,
		Grid:      8,
		MapName:   "MAP01",
		IncludeFS: BundledIncludes(),
	}
}
