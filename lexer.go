package wadc

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// TokenKind identifies the lexical class of a token
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokIdent
	TokInt
	TokString
	TokPunct
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "end of input"
	case TokIdent:
		return "identifier"
	case TokInt:
		return "integer"
	case TokString:
		return "string"
	default:
		return "punctuation"
	}
}

// Token is the unified lexical unit used by lexer and parser.
type Token struct {
	Kind  TokenKind
	Text  string // identifier or string contents
	Int   int
	Punct rune
	Pos   Position
}

func (t Token) String() string {
	switch t.Kind {
	case TokIdent:
		return t.Text
	case TokInt:
		return strconv.Itoa(t.Int)
	case TokString:
		return strconv.Quote(t.Text)
	case TokPunct:
		return string(t.Punct)
	default:
		return t.Kind.String()
	}
}

// Is reports whether t is the punctuation character c
func (t Token) Is(c rune) bool {
	return t.Kind == TokPunct && t.Punct == c
}

// source is one buffer on the lexer's input stack
type source struct {
	name string
	buf  string
	pos  int
	line int
}

// Lexer turns a stack of source buffers into tokens. Pushing a buffer
// splices its contents in at the current scan position: its tokens are
// produced next, and scanning resumes in the outer buffer when it runs out.
type Lexer struct {
	stack []*source
	// warn receives non-fatal lexical conditions
	warn func(pos Position, msg string)
}

// NewLexer creates a lexer over the root source buffer
func NewLexer(name, src string) *Lexer {
	return &Lexer{stack: []*source{{name: name, buf: src, line: 1}}}
}

// Push splices src into the input at the current position
func (l *Lexer) Push(name, src string) {
	l.stack = append(l.stack, &source{name: name, buf: src, line: 1})
}

// Depth returns how many buffers are currently open
func (l *Lexer) Depth() int {
	return len(l.stack)
}

func (s *source) position() Position {
	return Position{File: s.name, Line: s.line, Offset: s.pos}
}

func (s *source) peekByte(ahead int) byte {
	if s.pos+ahead < len(s.buf) {
		return s.buf[s.pos+ahead]
	}
	return 0
}

// Next returns the next token. The only errors are an unterminated block
// comment and malformed numeric literals.
func (l *Lexer) Next() (Token, error) {
	for {
		s := l.stack[len(l.stack)-1]
		if s.pos >= len(s.buf) {
			if len(l.stack) > 1 {
				l.stack = l.stack[:len(l.stack)-1]
				continue
			}
			return Token{Kind: TokEOF, Pos: s.position()}, nil
		}

		start := s.position()
		c := s.buf[s.pos]
		switch {
		case c == '\n':
			s.line++
			s.pos++
			continue
		case c == ' ' || c == '\t' || c == '\r':
			s.pos++
			continue
		case c == '"':
			s.pos++
			end := s.pos
			for end < len(s.buf) && s.buf[end] != '"' {
				if s.buf[end] == '\n' {
					s.line++
				}
				end++
			}
			if end >= len(s.buf) {
				// unterminated: the rest of this buffer is dropped
				s.pos = end
				if l.warn != nil {
					l.warn(start, "string not closed before end of input")
				}
				continue
			}
			text := s.buf[s.pos:end]
			s.pos = end + 1
			return Token{Kind: TokString, Text: text, Pos: start}, nil
		case c == '-' && s.peekByte(1) == '-':
			for s.pos < len(s.buf) && s.buf[s.pos] != '\n' {
				s.pos++
			}
			continue
		case c == '-':
			s.pos++
			return l.number(s, start, "-", 10)
		case c == '/' && s.peekByte(1) == '*':
			s.pos += 2
			for {
				if s.pos+1 >= len(s.buf) {
					s.pos = len(s.buf)
					return Token{}, newError(ErrLex, start, "multiline comment not closed")
				}
				if s.buf[s.pos] == '*' && s.buf[s.pos+1] == '/' {
					s.pos += 2
					break
				}
				if s.buf[s.pos] == '\n' {
					s.line++
				}
				s.pos++
			}
			continue
		case c == '0' && s.peekByte(1) == 'x':
			s.pos += 2
			return l.number(s, start, "", 16)
		case c >= '0' && c <= '9':
			return l.number(s, start, "", 10)
		}

		r, width := utf8.DecodeRuneInString(s.buf[s.pos:])
		if unicode.IsLetter(r) || r == '_' {
			end := s.pos + width
			for end < len(s.buf) {
				r2, w2 := utf8.DecodeRuneInString(s.buf[end:])
				if !unicode.IsLetter(r2) && !unicode.IsDigit(r2) && r2 != '_' {
					break
				}
				end += w2
			}
			text := s.buf[s.pos:end]
			s.pos = end
			return Token{Kind: TokIdent, Text: text, Pos: start}, nil
		}

		s.pos += width
		return Token{Kind: TokPunct, Punct: r, Pos: start}, nil
	}
}

func isDigitIn(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && c >= 'a' && c <= 'f':
		return true
	case base == 16 && c >= 'A' && c <= 'F':
		return true
	}
	return false
}

// number scans the digits of an integer literal whose prefix has already
// been consumed.
func (l *Lexer) number(s *source, start Position, prefix string, base int) (Token, error) {
	digitsStart := s.pos
	for s.pos < len(s.buf) && isDigitIn(s.buf[s.pos], base) {
		s.pos++
	}
	digits := s.buf[digitsStart:s.pos]
	if digits == "" {
		return Token{}, newError(ErrLex, start, "malformed number %q", s.buf[start.Offset:s.pos])
	}
	v, err := strconv.ParseInt(prefix+digits, base, 32)
	if err != nil {
		return Token{}, newError(ErrLex, start, "integer %s out of range", prefix+digits)
	}
	return Token{Kind: TokInt, Int: int(v), Pos: start}, nil
}

// Tokenize lexes a complete buffer without include processing. Used by
// tools that only want the token stream.
func Tokenize(name, src string) ([]Token, error) {
	lx := NewLexer(name, src)
	var toks []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokEOF {
			return toks, nil
		}
	}
}

// describe renders a token for "expected X, got Y" messages
func describe(t Token) string {
	if t.Kind == TokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.String())
}
