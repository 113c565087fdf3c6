package wadc

import "sort"

// firstTag is the number handed to the first $name of a parse
const firstTag = 10

// TagTable assigns small integers to tag names. Numbers are handed out
// in first-seen order and never reused within one table.
type TagTable struct {
	ids   map[string]int
	order []string
	next  int
}

// NewTagTable creates an empty table whose first tag is 10
func NewTagTable() *TagTable {
	return &TagTable{ids: make(map[string]int), next: firstTag}
}

// Ref returns the number for name, allocating the next free one on first use
func (t *TagTable) Ref(name string) int {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := t.next
	t.next++
	t.ids[name] = id
	t.order = append(t.order, name)
	return id
}

// Lookup returns the number for name without allocating
func (t *TagTable) Lookup(name string) (int, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// Names returns tag names in allocation order
func (t *TagTable) Names() []string {
	return append([]string(nil), t.order...)
}

// Len returns the number of allocated tags
func (t *TagTable) Len() int {
	return len(t.order)
}

// Program is the immutable result of a successful parse
type Program struct {
	File     string
	Source   string
	Funs     map[string]*Fun
	Tags     *TagTable
	Includes []string
	// InsertPos is the offset in Source just before main's closing brace,
	// or -1 when the root file defines no main.
	InsertPos int
}

// Fun looks up a function definition by name
func (p *Program) Fun(name string) (*Fun, bool) {
	f, ok := p.Funs[name]
	return f, ok
}

// FunNames returns the defined function names in sorted order
func (p *Program) FunNames() []string {
	names := make([]string, 0, len(p.Funs))
	for name := range p.Funs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parser is a recursive-descent parser with one token of lookahead
type Parser struct {
	lx        *Lexer
	tok       Token
	inc       *Includer
	logger    *Logger
	reserved  func(name string) bool
	tags      *TagTable
	funs      map[string]*Fun
	insertPos int
}

// ParseOptions carries the collaborators of a parse
type ParseOptions struct {
	Includer *Includer
	Logger   *Logger
	// Reserved reports names that may not be defined by the program
	// (the builtin catalog).
	Reserved func(name string) bool
}

// Parse parses a complete WL program. Any error aborts the whole parse.
func Parse(file, src string, opts ParseOptions) (*Program, error) {
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(false)
	}
	inc := opts.Includer
	if inc == nil {
		inc = NewIncluder("", nil, logger)
	}
	p := &Parser{
		lx:        NewLexer(file, src),
		inc:       inc,
		logger:    logger,
		reserved:  opts.Reserved,
		tags:      NewTagTable(),
		funs:      make(map[string]*Fun),
		insertPos: -1,
	}
	p.lx.warn = func(pos Position, msg string) {
		logger.WarnCat(CatLex, "parser [%s]: %s", pos, msg)
	}

	if err := p.parseProgram(); err != nil {
		return nil, err
	}
	return &Program{
		File:      file,
		Source:    src,
		Funs:      p.funs,
		Tags:      p.tags,
		Includes:  inc.Included(),
		InsertPos: p.insertPos,
	}, nil
}

func (p *Parser) next() error {
	tok, err := p.lx.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *Parser) expect(c rune) error {
	if !p.tok.Is(c) {
		return newError(ErrSyntax, p.tok.Pos, "%q expected, got %s", c, describe(p.tok))
	}
	return p.next()
}

func (p *Parser) expectID() (string, error) {
	if p.tok.Kind != TokIdent {
		return "", newError(ErrSyntax, p.tok.Pos, "identifier expected, got %s", describe(p.tok))
	}
	name := p.tok.Text
	return name, p.next()
}

func (p *Parser) parseProgram() error {
	if err := p.next(); err != nil {
		return err
	}
	for p.tok.Kind != TokEOF {
		if p.tok.Is('#') {
			if err := p.parseInclude(); err != nil {
				return err
			}
			continue
		}
		f, err := p.parseFun()
		if err != nil {
			return err
		}
		if _, dup := p.funs[f.Name]; dup || (p.reserved != nil && p.reserved(f.Name)) {
			return newError(ErrDuplicate, f.Pos, "function %s defined twice", f.Name)
		}
		p.funs[f.Name] = f
	}
	return nil
}

// parseInclude handles #"file". The file's tokens are spliced in ahead of
// the rest of the current buffer.
func (p *Parser) parseInclude() error {
	pos := p.tok.Pos
	if err := p.next(); err != nil {
		return err
	}
	if p.tok.Kind != TokString {
		return newError(ErrSyntax, pos, "filename expected after #")
	}
	name := p.tok.Text
	if content, ok := p.inc.Include(name); ok {
		p.lx.Push(name, content)
	}
	return p.next()
}

func (p *Parser) parseFun() (*Fun, error) {
	pos := p.tok.Pos
	name, err := p.expectID()
	if err != nil {
		return nil, err
	}
	f := &Fun{Name: name, Pos: pos}
	if p.tok.Is('(') {
		if err := p.next(); err != nil {
			return nil, err
		}
		for !p.tok.Is(')') {
			param, err := p.expectID()
			if err != nil {
				return nil, err
			}
			f.Params = append(f.Params, param)
			if !p.tok.Is(')') {
				if err := p.expect(','); err != nil {
					return nil, err
				}
			}
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	}
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	body, err := p.parseExp()
	if err != nil {
		return nil, err
	}
	f.Body = body
	// the lexer pops finished buffers lazily, so depth 1 here means the
	// brace came from the root file
	if name == "main" && p.tok.Is('}') && p.lx.Depth() == 1 {
		p.insertPos = p.tok.Pos.Offset
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	return f, nil
}

// expr := choice ('?' choice ':' choice)?
func (p *Parser) parseExp() (Exp, error) {
	e, err := p.parseChoice()
	if err != nil {
		return nil, err
	}
	if !p.tok.Is('?') {
		return e, nil
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	then, err := p.parseChoice()
	if err != nil {
		return nil, err
	}
	if err := p.expect(':'); err != nil {
		return nil, err
	}
	els, err := p.parseChoice()
	if err != nil {
		return nil, err
	}
	return &If{Cond: e, Then: then, Else: els}, nil
}

// choice := seq ('|' seq)*
func (p *Parser) parseChoice() (Exp, error) {
	pos := p.tok.Pos
	e, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	if !p.tok.Is('|') {
		return e, nil
	}
	c := &Choice{Alts: []Exp{e}, Pos: pos}
	for p.tok.Is('|') {
		if err := p.next(); err != nil {
			return nil, err
		}
		alt, err := p.parseSeq()
		if err != nil {
			return nil, err
		}
		c.Alts = append(c.Alts, alt)
	}
	return c, nil
}

// endsSeq reports tokens that terminate a juxtaposition sequence
func (p *Parser) endsSeq() bool {
	if p.tok.Kind != TokPunct {
		return false
	}
	switch p.tok.Punct {
	case '?', ':', '}', ')', ',', '|':
		return true
	}
	return false
}

// seq := fact seq?
func (p *Parser) parseSeq() (Exp, error) {
	e, err := p.parseFact()
	if err != nil {
		return nil, err
	}
	if p.endsSeq() {
		return e, nil
	}
	rest, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	return &Seq{First: e, Rest: rest}, nil
}

func (p *Parser) parseFact() (Exp, error) {
	tok := p.tok
	switch tok.Kind {
	case TokInt:
		return &Int{Value: tok.Int, Pos: tok.Pos}, p.next()
	case TokString:
		return &Str{Value: tok.Text, Pos: tok.Pos}, p.next()
	case TokIdent:
		return p.parseID()
	case TokPunct:
		switch tok.Punct {
		case '!', '^':
			if err := p.next(); err != nil {
				return nil, err
			}
			name, err := p.expectID()
			if err != nil {
				return nil, err
			}
			return &SetGet{Name: name, Set: tok.Punct == '!', Pos: tok.Pos}, nil
		case '$':
			if err := p.next(); err != nil {
				return nil, err
			}
			name, err := p.expectID()
			if err != nil {
				return nil, err
			}
			return &TagRef{Name: name, Value: p.tags.Ref(name), Pos: tok.Pos}, nil
		case '{':
			if err := p.next(); err != nil {
				return nil, err
			}
			e, err := p.parseExp()
			if err != nil {
				return nil, err
			}
			if err := p.expect('}'); err != nil {
				return nil, err
			}
			return e, nil
		}
	}
	return nil, newError(ErrSyntax, tok.Pos, "expression expected, got %s", describe(tok))
}

// id ('(' (expr (',' expr)*)? ')')?
func (p *Parser) parseID() (Exp, error) {
	id := &Id{Name: p.tok.Text, Pos: p.tok.Pos}
	if err := p.next(); err != nil {
		return nil, err
	}
	if !p.tok.Is('(') {
		return id, nil
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	id.Args = []Exp{}
	for !p.tok.Is(')') {
		arg, err := p.parseExp()
		if err != nil {
			return nil, err
		}
		id.Args = append(id.Args, arg)
		if !p.tok.Is(')') {
			if err := p.expect(','); err != nil {
				return nil, err
			}
		}
	}
	return id, p.next()
}
