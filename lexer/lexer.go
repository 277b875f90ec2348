package lexer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/toyc"
)

// ErrorKind classifies lexical errors.
type ErrorKind int

// Kinds of lexical errors.
const (
	UnrecognizedCharacter ErrorKind = iota // no token may start with this character
	UnterminatedString                     // string literal without closing quote
)

func (k ErrorKind) String() string {
	switch k {
	case UnrecognizedCharacter:
		return "unrecognized character"
	case UnterminatedString:
		return "unterminated string"
	}
	return "lexical error"
}

// ErrLexical is the error all lexical errors unwrap to.
var ErrLexical = errors.New("lexical error")

// Error is a lexical error. Line and Offset denote the offending character,
// or the start of an unfinished string literal. Lexers stripping whitespace
// report zero for both, as they do for tokens.
type Error struct {
	Kind   ErrorKind
	Char   rune
	Line   int
	Offset int
}

func (e *Error) Error() string {
	if e.Kind == UnrecognizedCharacter {
		return fmt.Sprintf("%d:%d: %s %q", e.Line, e.Offset, e.Kind, e.Char)
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Offset, e.Kind)
}

// Unwrap makes errors.Is(err, ErrLexical) hold for every lexical error.
func (e *Error) Unwrap() error {
	return ErrLexical
}

// ---------------------------------------------------------------------------

// toyAutomaton is shared between lexers. It is never modified after creation.
var toyAutomaton = newAutomaton(Keywords, Operators)

// Lexer is a tokenizer for the toy language. Lexers do not carry state between
// calls of Tokenize and may be re-used.
type Lexer struct {
	dfa      *automaton
	strip    bool
	sentinel bool
}

// Option configures a lexer.
type Option func(*Lexer)

// StripWhitespace removes all whitespace from the input before scanning. Tokens
// and lexical errors will carry no position information. Whitespace inside
// string literals is removed as well.
func StripWhitespace(b bool) Option {
	return func(lx *Lexer) {
		lx.strip = b
	}
}

// AppendSentinel instructs the lexer to append an end-of-input token "$".
func AppendSentinel(b bool) Option {
	return func(lx *Lexer) {
		lx.sentinel = b
	}
}

// New creates a lexer. Without options, it keeps positions and does not append
// an end marker.
func New(opts ...Option) *Lexer {
	lx := &Lexer{dfa: toyAutomaton}
	for _, opt := range opts {
		opt(lx)
	}
	return lx
}

// Tokenize tokenizes a source string with a default lexer.
func Tokenize(source string) ([]toyc.Token, error) {
	return New().Tokenize(source)
}

// Tokenize converts source text into a sequence of tokens. It returns a
// *lexer.Error if a character cannot start a token or if the input ends within
// a token.
func (lx *Lexer) Tokenize(source string) ([]toyc.Token, error) {
	if lx.strip {
		source = strings.Join(strings.Fields(source), "")
	}
	tokens := make([]toyc.Token, 0, len(source)/2+1)
	state := Start
	line, tokline, tokstart := 1, 1, 0
	pos := 0
	for pos < len(source) {
		r, w := utf8.DecodeRuneInString(source[pos:])
		if next, ok := lx.dfa.step(state, r); ok {
			if state == Start {
				tokstart, tokline = pos, line
			}
			state = next
			pos += w
			continue
		}
		if state != Start { // emit and retry r from the start state
			tok, err := lx.emit(state, source[tokstart:pos], tokline, tokstart, pos)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			state = Start
			continue
		}
		if unicode.IsSpace(r) {
			if r == '\n' {
				line++
			}
			pos += w
			continue
		}
		tracer().Errorf("cannot start a token with %q at %d:%d", r, line, pos)
		return nil, lx.lexError(&Error{Kind: UnrecognizedCharacter, Char: r, Line: line, Offset: pos})
	}
	if state != Start {
		tok, err := lx.emit(state, source[tokstart:pos], tokline, tokstart, pos)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	if lx.sentinel {
		tokens = append(tokens, toyc.Sentinel())
	}
	tracer().Debugf("tokenized input into %d tokens", len(tokens))
	return tokens, nil
}

func (lx *Lexer) emit(s State, lexeme string, line, start, end int) (toyc.Token, error) {
	kind := lx.dfa.Emits(s)
	if kind == "" {
		return toyc.Token{}, lx.lexError(&Error{
			Kind:   lx.dfa.states[s].failure,
			Line:   line,
			Offset: start,
		})
	}
	if lx.strip {
		line, start, end = 0, 0, 0
	}
	tok := toyc.MakeToken(kind, lexeme, line, start, end)
	tracer().Debugf("token %v", tok)
	return tok, nil
}

// lexError clears the position of an error if positions refer to stripped text.
func (lx *Lexer) lexError(e *Error) *Error {
	if lx.strip {
		e.Line, e.Offset = 0, 0
	}
	return e
}
