package wadc

import (
	"fmt"
	"strconv"
	"strings"
)

// Exp is an immutable expression node. Nodes are built once by the parser
// and never modified afterwards.
type Exp interface {
	Position() Position
	String() string
	exp()
}

// Int is an integer literal
type Int struct {
	Value int
	Pos   Position
}

// Str is a string literal
type Str struct {
	Value string
	Pos   Position
}

// Id is a bare reference (Args == nil) or a call
type Id struct {
	Name string
	Args []Exp
	Pos  Position
}

// Seq evaluates First for its effects, then yields Rest
type Seq struct {
	First Exp
	Rest  Exp
}

// Choice picks exactly one alternative per evaluation
type Choice struct {
	Alts []Exp
	Pos  Position
}

// If selects Then or Else by the truthiness of Cond
type If struct {
	Cond Exp
	Then Exp
	Else Exp
}

// SetGet is !name (Set) or ^name
type SetGet struct {
	Name string
	Set  bool
	Pos  Position
}

// TagRef is $name; the number is fixed when the program is parsed
type TagRef struct {
	Name  string
	Value int
	Pos   Position
}

func (*Int) exp()    {}
func (*Str) exp()    {}
func (*Id) exp()     {}
func (*Seq) exp()    {}
func (*Choice) exp() {}
func (*If) exp()     {}
func (*SetGet) exp() {}
func (*TagRef) exp() {}

func (e *Int) Position() Position    { return e.Pos }
func (e *Str) Position() Position    { return e.Pos }
func (e *Id) Position() Position     { return e.Pos }
func (e *Seq) Position() Position    { return e.First.Position() }
func (e *Choice) Position() Position { return e.Pos }
func (e *If) Position() Position     { return e.Cond.Position() }
func (e *SetGet) Position() Position { return e.Pos }
func (e *TagRef) Position() Position { return e.Pos }

func (e *Int) String() string { return strconv.Itoa(e.Value) }
func (e *Str) String() string { return `"` + e.Value + `"` }

func (e *Id) String() string {
	if e.Args == nil {
		return e.Name
	}
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return e.Name + "(" + strings.Join(parts, ", ") + ")"
}

func (e *Seq) String() string { return e.First.String() + " " + e.Rest.String() }

func (e *Choice) String() string {
	parts := make([]string, len(e.Alts))
	for i, a := range e.Alts {
		parts[i] = a.String()
	}
	return "{ " + strings.Join(parts, " | ") + " }"
}

func (e *If) String() string {
	return fmt.Sprintf("{ %s ? %s : %s }", e.Cond, e.Then, e.Else)
}

func (e *SetGet) String() string {
	if e.Set {
		return "!" + e.Name
	}
	return "^" + e.Name
}

func (e *TagRef) String() string { return "$" + e.Name }

// Fun is a named function definition
type Fun struct {
	Name   string
	Params []string
	Body   Exp
	Pos    Position
}

func (f *Fun) String() string {
	return fmt.Sprintf("%s(%s) { %s }", f.Name, strings.Join(f.Params, ", "), f.Body)
}
