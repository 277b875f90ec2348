package lexmach

import (
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/toyc"
	"github.com/npillmayer/toyc/lexer"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// tracer traces with key 'toyc.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("toyc.lexer")
}

// Lexer is a toy-language tokenizer driven by a lexmachine DFA.
type Lexer struct {
	lm       *lexmachine.Lexer
	sentinel bool
}

// Option configures a lexer.
type Option func(*Lexer)

// AppendSentinel instructs the lexer to append an end-of-input token "$".
func AppendSentinel(b bool) Option {
	return func(lx *Lexer) {
		lx.sentinel = b
	}
}

// New creates a lexer for the toy language. It receives the keyword and
// operator lists from package lexer, thus both lexers share their vocabulary.
//
// New will return an error if compiling the DFA failed.
func New(opts ...Option) (*Lexer, error) {
	lx := &Lexer{}
	for _, opt := range opts {
		opt(lx)
	}
	lx.lm = lexmachine.NewLexer()
	// keywords first: lexmachine prefers earlier patterns for matches of equal length
	for _, kw := range lexer.Keywords {
		lx.lm.Add([]byte(kw.Text), MakeToken(kw.Kind))
	}
	for _, op := range lexer.Operators {
		r := "\\" + strings.Join(strings.Split(op.Text, ""), "\\")
		lx.lm.Add([]byte(r), MakeToken(op.Kind))
	}
	lx.lm.Add([]byte(`([a-z]|[A-Z]|_)([a-z]|[A-Z]|[0-9]|_)*`), MakeToken(toyc.VARIABLE))
	lx.lm.Add([]byte(`[0-9]+`), MakeToken(toyc.NUMBER))
	lx.lm.Add([]byte(`\"[^"\n]*\"`), MakeToken(toyc.STRING))
	lx.lm.Add([]byte(`( |\t|\n|\r)+`), Skip)
	if err := lx.lm.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return lx, nil
}

// Tokenize converts source text into a sequence of tokens, carrying line
// numbers and byte offsets. Input which cannot be matched results in a
// *lexer.Error.
func (lx *Lexer) Tokenize(source string) ([]toyc.Token, error) {
	scanner, err := lx.lm.Scanner([]byte(source))
	if err != nil {
		return nil, err
	}
	tokens := make([]toyc.Token, 0, len(source)/2+1)
	for tok, err, eof := scanner.Next(); !eof; tok, err, eof = scanner.Next() {
		if err != nil {
			tracer().Errorf("scanner error: %v", err)
			if ui, is := err.(*machines.UnconsumedInput); is {
				return nil, unconsumed(source, ui)
			}
			return nil, err
		}
		token := tok.(*lexmachine.Token)
		t := toyc.MakeToken(
			token.Value.(string),
			string(token.Lexeme),
			token.StartLine,
			token.TC,
			token.TC+len(token.Lexeme),
		)
		tracer().Debugf("token %v", t)
		tokens = append(tokens, t)
	}
	if lx.sentinel {
		tokens = append(tokens, toyc.Sentinel())
	}
	return tokens, nil
}

// unconsumed translates a lexmachine failure into a lexical error.
func unconsumed(source string, ui *machines.UnconsumedInput) error {
	at := ui.StartTC
	e := &lexer.Error{
		Kind:   lexer.UnrecognizedCharacter,
		Line:   ui.StartLine,
		Offset: at,
	}
	if at < len(source) {
		e.Char = []rune(source[at:])[0]
		if e.Char == '"' {
			e.Kind = lexer.UnterminatedString
		}
	}
	return e
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
// The token's value is the terminal kind.
func MakeToken(kind string) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(0, kind, m), nil
	}
}
