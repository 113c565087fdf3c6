package wadc

import (
	"fmt"
	"strconv"
)

// ValueKind discriminates the Value union
type ValueKind int

const (
	VoidValue ValueKind = iota // produced by drawing builtins
	IntValue
	StringValue
)

func (k ValueKind) String() string {
	switch k {
	case IntValue:
		return "int"
	case StringValue:
		return "string"
	default:
		return "void"
	}
}

// Value is what every expression evaluates to: an int, a string, or
// nothing. Conversions are checked; an int is never silently used as a
// string or the other way round.
type Value struct {
	Kind ValueKind
	i    int
	s    string
}

// Void is the value of expressions evaluated only for their effects
var Void = Value{}

// IntVal wraps an integer
func IntVal(i int) Value { return Value{Kind: IntValue, i: i} }

// StrVal wraps a string
func StrVal(s string) Value { return Value{Kind: StringValue, s: s} }

// BoolVal maps a Go bool onto 1/0
func BoolVal(b bool) Value {
	if b {
		return IntVal(1)
	}
	return IntVal(0)
}

// Truthy reports whether v selects the then-branch of a conditional
func (v Value) Truthy() bool {
	switch v.Kind {
	case IntValue:
		return v.i != 0
	case StringValue:
		return v.s != ""
	default:
		return false
	}
}

// AsInt returns the integer payload or a type error at pos
func (v Value) AsInt(pos Position) (int, error) {
	if v.Kind != IntValue {
		return 0, newError(ErrType, pos, "integer expected, got %s", v.Kind)
	}
	return v.i, nil
}

// AsString returns the string payload or a type error at pos
func (v Value) AsString(pos Position) (string, error) {
	if v.Kind != StringValue {
		return "", newError(ErrType, pos, "string expected, got %s", v.Kind)
	}
	return v.s, nil
}

// Equal compares two values of the same kind
func (v Value) Equal(o Value) bool {
	return v.Kind == o.Kind && v.i == o.i && v.s == o.s
}

func (v Value) String() string {
	switch v.Kind {
	case IntValue:
		return strconv.Itoa(v.i)
	case StringValue:
		return v.s
	default:
		return "<void>"
	}
}

// GoString shows strings quoted, for diagnostics
func (v Value) GoString() string {
	if v.Kind == StringValue {
		return strconv.Quote(v.s)
	}
	return fmt.Sprint(v)
}
