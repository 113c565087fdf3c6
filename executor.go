package wadc

import (
	"sort"
	"sync"
)

// Builtin is the function signature for builtin handlers
type Builtin func(ctx *Context) (Value, error)

// builtinDef is a registered builtin. Arity -1 accepts any argument count.
type builtinDef struct {
	name  string
	arity int
	fn    Builtin
}

// Context is passed to builtin handlers during evaluation
type Context struct {
	Name     string
	Args     []Value
	Position Position
	state    *ExecutionState
	logger   *Logger
}

// Int returns argument i as an integer
func (c *Context) Int(i int) (int, error) {
	return c.Args[i].AsInt(c.Position)
}

// String returns argument i as a string
func (c *Context) String(i int) (string, error) {
	return c.Args[i].AsString(c.Position)
}

// Ints converts every argument to an integer
func (c *Context) Ints() ([]int, error) {
	out := make([]int, len(c.Args))
	for i := range c.Args {
		n, err := c.Int(i)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// State returns the run being evaluated
func (c *Context) State() *ExecutionState {
	return c.state
}

// Turtle returns the drawing cursor of the run
func (c *Context) Turtle() *Turtle {
	return &c.state.Turtle
}

// Geometry returns the geometry graph of the run
func (c *Context) Geometry() *Geometry {
	return c.state.Geometry
}

// Logger returns the instance logger
func (c *Context) Logger() *Logger {
	return c.logger
}

// Fail builds a runtime error positioned at the call
func (c *Context) Fail(format string, args ...interface{}) error {
	return newError(ErrRuntime, c.Position, c.Name+": "+format, args...)
}

// Executor evaluates programs against a catalog of builtins
type Executor struct {
	mu       sync.RWMutex
	builtins map[string]*builtinDef
	logger   *Logger
	maxDepth int
}

// NewExecutor creates an executor with an empty builtin catalog
func NewExecutor(logger *Logger, maxDepth int) *Executor {
	return &Executor{
		builtins: make(map[string]*builtinDef),
		logger:   logger,
		maxDepth: maxDepth,
	}
}

// RegisterBuiltin adds or replaces a builtin
func (e *Executor) RegisterBuiltin(name string, arity int, fn Builtin) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.builtins[name] = &builtinDef{name: name, arity: arity, fn: fn}
}

// IsBuiltin reports whether name is in the catalog
func (e *Executor) IsBuiltin(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.builtins[name]
	return ok
}

// BuiltinNames lists the catalog in sorted order
func (e *Executor) BuiltinNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.builtins))
	for name := range e.builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Executor) builtin(name string) (*builtinDef, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b, ok := e.builtins[name]
	return b, ok
}

// Call invokes the user function name with already evaluated arguments
func (e *Executor) Call(s *ExecutionState, name string, args []Value, pos Position) (Value, error) {
	f, ok := s.prog.Fun(name)
	if !ok {
		return Void, newError(ErrUndefined, pos, "undefined function %s", name)
	}
	return e.call(s, f, args, pos)
}

func (e *Executor) call(s *ExecutionState, f *Fun, args []Value, pos Position) (Value, error) {
	if len(args) != len(f.Params) {
		return Void, newError(ErrArity, pos, "%s expects %d arguments, got %d", f.Name, len(f.Params), len(args))
	}
	if e.maxDepth > 0 && s.depth >= e.maxDepth {
		return Void, newError(ErrRuntime, pos, "recursion deeper than %d calls in %s", e.maxDepth, f.Name)
	}
	s.push(&frame{fun: f, args: args})
	defer s.pop()
	return e.eval(s, f.Body)
}

func (e *Executor) eval(s *ExecutionState, x Exp) (Value, error) {
	switch x := x.(type) {
	case *Int:
		return s.produce(IntVal(x.Value)), nil
	case *Str:
		return s.produce(StrVal(x.Value)), nil
	case *TagRef:
		return s.produce(IntVal(x.Value)), nil
	case *Seq:
		if _, err := e.eval(s, x.First); err != nil {
			return Void, err
		}
		return e.eval(s, x.Rest)
	case *Choice:
		return e.eval(s, x.Alts[s.pick(len(x.Alts))])
	case *If:
		c, err := e.eval(s, x.Cond)
		if err != nil {
			return Void, err
		}
		if c.Kind == VoidValue {
			return Void, newError(ErrType, x.Cond.Position(), "condition has no value")
		}
		if c.Truthy() {
			return e.eval(s, x.Then)
		}
		return e.eval(s, x.Else)
	case *SetGet:
		return e.setGet(s, x)
	case *Id:
		v, err := e.evalID(s, x)
		if err != nil {
			return Void, err
		}
		return s.produce(v), nil
	}
	return Void, newError(ErrRuntime, x.Position(), "cannot evaluate %s", x)
}

// produce records v as the most recent value and passes it through
func (s *ExecutionState) produce(v Value) Value {
	if v.Kind != VoidValue {
		s.last = v
	}
	return v
}

func (e *Executor) setGet(s *ExecutionState, x *SetGet) (Value, error) {
	if x.Set {
		s.Store(x.Name)
		return s.last, nil
	}
	slot, ok := s.Slot(x.Name)
	if !ok || !slot.HasCursor {
		return Void, newError(ErrUndefined, x.Pos, "^%s used before !%s", x.Name, x.Name)
	}
	s.Turtle.Restore(slot.Cursor)
	return s.last, nil
}

func (e *Executor) evalArgs(s *ExecutionState, args []Exp) ([]Value, error) {
	vals := make([]Value, len(args))
	for i, a := range args {
		v, err := e.eval(s, a)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// evalID resolves a name: parameter, user function, builtin, then global
// slot.
func (e *Executor) evalID(s *ExecutionState, x *Id) (Value, error) {
	if x.Args == nil {
		if v, ok := s.top().lookup(x.Name); ok {
			return v, nil
		}
	}
	if f, ok := s.prog.Fun(x.Name); ok {
		args, err := e.evalArgs(s, x.Args)
		if err != nil {
			return Void, err
		}
		return e.call(s, f, args, x.Pos)
	}
	if b, ok := e.builtin(x.Name); ok {
		args, err := e.evalArgs(s, x.Args)
		if err != nil {
			return Void, err
		}
		if b.arity >= 0 && len(args) != b.arity {
			return Void, newError(ErrArity, x.Pos, "%s expects %d arguments, got %d", b.name, b.arity, len(args))
		}
		ctx := &Context{Name: b.name, Args: args, Position: x.Pos, state: s, logger: e.logger}
		e.logger.TraceCat(CatEval, "%s%v", b.name, args)
		return b.fn(ctx)
	}
	if x.Args == nil {
		if slot, ok := s.Slot(x.Name); ok {
			return slot.Value, nil
		}
		return Void, newError(ErrUndefined, x.Pos, "undefined variable %s", x.Name)
	}
	return Void, newError(ErrUndefined, x.Pos, "undefined function %s", x.Name)
}
