// Package wadc implements the WadC level-description language: a small
// functional language whose evaluation drives a turtle that draws Doom
// map geometry.
//
// Basic usage:
//
//	w := wadc.New(nil)
//	res, err := w.Compile("room.wl", `main { straight(256) rightsector(0, 128, 160) }`)
//	if err != nil {
//		return err
//	}
//	data, err := res.WadBytes()
package wadc

import (
	"path/filepath"
	"time"
)

// WadC is the main interpreter instance
type WadC struct {
	config   *Config
	logger   *Logger
	executor *Executor
}

// New creates a new WadC instance with the standard builtins registered
func New(config *Config) *WadC {
	if config == nil {
		config = DefaultConfig()
	}
	logger := NewLogger(config.Debug)
	if config.Sink != nil {
		logger.SetSink(config.Sink)
	}
	if config.Debug {
		logger.EnableAllCategories()
	}
	w := &WadC{
		config:   config,
		logger:   logger,
		executor: NewExecutor(logger, config.MaxDepth),
	}
	w.RegisterStandardLibrary()
	return w
}

// Config returns the instance configuration
func (w *WadC) Config() *Config {
	return w.config
}

// Logger returns the instance logger
func (w *WadC) Logger() *Logger {
	return w.logger
}

// RegisterBuiltin adds a builtin callable from programs. Arity -1 accepts
// any number of arguments.
func (w *WadC) RegisterBuiltin(name string, arity int, fn Builtin) {
	w.executor.RegisterBuiltin(name, arity, fn)
}

// Builtins lists the registered builtin names
func (w *WadC) Builtins() []string {
	return w.executor.BuiltinNames()
}

// Parse parses src, resolving includes next to file and then in the
// bundled library. Every parse gets a fresh tag table.
func (w *WadC) Parse(file, src string) (*Program, error) {
	dir := ""
	if file != "" {
		dir = filepath.Dir(file)
	}
	prog, err := Parse(file, src, ParseOptions{
		Includer: NewIncluder(dir, w.config.IncludeFS, w.logger),
		Logger:   w.logger,
		Reserved: w.executor.IsBuiltin,
	})
	if err != nil {
		return nil, err
	}
	w.logger.DebugCat(CatParse, "parsed %s: %d functions, %d tags", file, len(prog.Funs), prog.Tags.Len())
	return prog, nil
}

// Result is the outcome of a successful run
type Result struct {
	Program  *Program
	Value    Value
	Geometry *Geometry
	Textures *TextureTable
	// Turtle is the cursor state after main returned
	Turtle  Turtle
	MapName string
	Slots   map[string]Slot
	Seed    uint64
}

// Run evaluates main() of prog. On error nothing of the run is kept.
func (w *WadC) Run(prog *Program) (*Result, error) {
	main, ok := prog.Fun("main")
	if !ok {
		return nil, newError(ErrUndefined, Position{File: prog.File, Line: 1}, "no main function")
	}
	seed := w.config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	mapName := w.config.MapName
	if mapName == "" {
		mapName = "MAP01"
	}
	s := NewExecutionState(prog, seed, mapName)
	v, err := w.executor.Call(s, "main", nil, main.Pos)
	if err != nil {
		return nil, err
	}
	if n := s.Geometry.Pending(); n > 0 {
		w.logger.WarnCat(CatGeometry, "%d lines drawn without a sector", n)
	}
	slots := make(map[string]Slot, len(s.slots))
	for name, slot := range s.slots {
		slots[name] = *slot
	}
	w.logger.DebugCat(CatEval, "run finished: %d vertices, %d lines, %d sectors, %d things",
		len(s.Geometry.Vertices), len(s.Geometry.Lines), len(s.Geometry.Sectors), len(s.Geometry.Things))
	return &Result{
		Program:  prog,
		Value:    v,
		Geometry: s.Geometry,
		Textures: s.Textures,
		Turtle:   s.Turtle,
		MapName:  s.MapName,
		Slots:    slots,
		Seed:     seed,
	}, nil
}

// Compile parses and runs src in one step
func (w *WadC) Compile(file, src string) (*Result, error) {
	prog, err := w.Parse(file, src)
	if err != nil {
		return nil, err
	}
	return w.Run(prog)
}
