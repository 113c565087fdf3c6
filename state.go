package wadc

import (
	"math/rand/v2"
	"sort"
)

// Slot is a global !name / set() cell. Cursor is only meaningful when
// HasCursor is set; slots written by set() hold just a value.
type Slot struct {
	Value     Value
	Cursor    Cursor
	HasCursor bool
}

// frame holds the parameters bound by one user-function call. Frames are
// never shared: a body sees only its own parameters.
type frame struct {
	fun  *Fun
	args []Value
}

func (f *frame) lookup(name string) (Value, bool) {
	if f == nil {
		return Void, false
	}
	for i, p := range f.fun.Params {
		if p == name {
			return f.args[i], true
		}
	}
	return Void, false
}

// ExecutionState is the mutable state of a single run. A new state is
// created for every run so a failed run leaves nothing behind.
type ExecutionState struct {
	prog   *Program
	frames []*frame
	depth  int

	// last is the most recently produced non-void value
	last  Value
	slots map[string]*Slot

	Turtle   Turtle
	Geometry *Geometry
	Textures *TextureTable
	MapName  string

	rng *rand.Rand
}

// NewExecutionState prepares a fresh run of prog
func NewExecutionState(prog *Program, seed uint64, mapName string) *ExecutionState {
	return &ExecutionState{
		prog:     prog,
		slots:    make(map[string]*Slot),
		Turtle:   NewTurtle(),
		Geometry: NewGeometry(),
		Textures: NewTextureTable(),
		MapName:  mapName,
		rng:      newRand(seed),
	}
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Reseed restarts the choice generator
func (s *ExecutionState) Reseed(seed uint64) {
	s.rng = newRand(seed)
}

// pick returns a uniformly distributed index in [0,n)
func (s *ExecutionState) pick(n int) int {
	return s.rng.IntN(n)
}

func (s *ExecutionState) top() *frame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func (s *ExecutionState) push(f *frame) {
	s.frames = append(s.frames, f)
	s.depth++
}

func (s *ExecutionState) pop() {
	s.frames = s.frames[:len(s.frames)-1]
	s.depth--
}

// Last returns the most recently produced value
func (s *ExecutionState) Last() Value {
	return s.last
}

// Store snapshots the turtle and the current value into slot name
func (s *ExecutionState) Store(name string) {
	s.slots[name] = &Slot{Value: s.last, Cursor: s.Turtle.Cursor(), HasCursor: true}
}

// SetValue writes a plain value into slot name, keeping any cursor
func (s *ExecutionState) SetValue(name string, v Value) {
	if slot, ok := s.slots[name]; ok {
		slot.Value = v
		return
	}
	s.slots[name] = &Slot{Value: v}
}

// Slot returns the global slot for name
func (s *ExecutionState) Slot(name string) (*Slot, bool) {
	slot, ok := s.slots[name]
	return slot, ok
}

// SlotNames returns the names of all written slots, sorted
func (s *ExecutionState) SlotNames() []string {
	names := make([]string, 0, len(s.slots))
	for name := range s.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
