/*
Package frontend runs the toy language compiler front end: source text is
tokenized, parsed and analyzed.

    fe, err := frontend.New(frontend.WithTablePath("toy.json"))
    result, err := fe.Compile(source)

The pipeline fails fast. A lexical error is returned as an error and nothing
is parsed. A rejected input results in Result.Accepted being false, and the
syntax tree is not analyzed. A semantic error is reported as
Result.Diagnostic. Errors are returned for lexical errors and for unusable
parsing tables only.

Tables loaded from files are held in a cache shared by all front ends, and
are re-loaded only if the file changes. Without a table file the generated
table of the toy grammar is used.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package frontend

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/toyc"
	"github.com/npillmayer/toyc/lexer"
	"github.com/npillmayer/toyc/lexer/lexmach"
	"github.com/npillmayer/toyc/lr/slr"
	"github.com/npillmayer/toyc/semantic"
	"github.com/npillmayer/toyc/toylang"
	"github.com/npillmayer/toyc/tree"
)

// tracer traces with key 'toyc.frontend'.
func tracer() tracing.Trace {
	return tracing.Select("toyc.frontend")
}

// Tokenizer splits source text into tokens.
type Tokenizer interface {
	Tokenize(source string) ([]toyc.Token, error)
}

// Result is the outcome of compiling a source text.
type Result struct {
	Tokens     []toyc.Token     `json:"tokens"`
	Accepted   bool             `json:"accepted"`
	Tree       []*tree.Node     `json:"tree,omitempty"`
	Diagnostic *toyc.Diagnostic `json:"diagnostic,omitempty"`
}

// OK is true if the source text has been accepted and passed semantic
// analysis.
func (r *Result) OK() bool {
	return r.Accepted && r.Diagnostic == nil
}

var tableCache = slr.NewTableCache(slr.WithVocabulary(toylang.Terminals...))

// Frontend is a configured compiler front end. A Frontend is safe for
// concurrent use if its tokenizer is.
type Frontend struct {
	tokenizer Tokenizer
	table     *slr.Table
	tablePath string
	regex     bool
	strip     bool
	sentinel  bool
}

// Option configures a front end.
type Option func(*Frontend)

// WithTablePath sets a parsing table file to use.
func WithTablePath(path string) Option {
	return func(fe *Frontend) {
		fe.tablePath = path
	}
}

// WithTable sets a compiled parsing table to use. It takes precedence over a
// table path.
func WithTable(table *slr.Table) Option {
	return func(fe *Frontend) {
		fe.table = table
	}
}

// WithTokenizer sets a custom tokenizer.
func WithTokenizer(tokenizer Tokenizer) Option {
	return func(fe *Frontend) {
		fe.tokenizer = tokenizer
	}
}

// WithRegexLexer selects the lexmachine based lexer instead of the default
// automaton lexer.
func WithRegexLexer(b bool) Option {
	return func(fe *Frontend) {
		fe.regex = b
	}
}

// WithStripWhitespace lets the automaton lexer remove all whitespace before
// tokenizing. Tokens will not carry positions.
func WithStripWhitespace(b bool) Option {
	return func(fe *Frontend) {
		fe.strip = b
	}
}

// WithSentinel lets the lexer append an end marker token "$".
func WithSentinel(b bool) Option {
	return func(fe *Frontend) {
		fe.sentinel = b
	}
}

// New creates a front end.
func New(opts ...Option) (*Frontend, error) {
	fe := &Frontend{}
	for _, opt := range opts {
		opt(fe)
	}
	if fe.tokenizer == nil {
		if fe.regex {
			lm, err := lexmach.New(lexmach.AppendSentinel(fe.sentinel))
			if err != nil {
				return nil, err
			}
			fe.tokenizer = lm
		} else {
			fe.tokenizer = lexer.New(lexer.StripWhitespace(fe.strip), lexer.AppendSentinel(fe.sentinel))
		}
	}
	if _, err := fe.parsingTable(); err != nil {
		return nil, err
	}
	return fe, nil
}

// parsingTable returns the table to use for the next parse.
func (fe *Frontend) parsingTable() (*slr.Table, error) {
	if fe.table != nil {
		return fe.table, nil
	}
	if fe.tablePath != "" {
		return tableCache.Get(fe.tablePath)
	}
	return toylang.Table()
}

// Tokenize splits source text into tokens.
func (fe *Frontend) Tokenize(source string) ([]toyc.Token, error) {
	return fe.tokenizer.Tokenize(source)
}

// Parse runs the SLR parser over a token sequence.
func (fe *Frontend) Parse(tokens []toyc.Token) (bool, []*tree.Node, error) {
	table, err := fe.parsingTable()
	if err != nil {
		return false, nil, err
	}
	return slr.NewParser(table).Parse(tokens)
}

// Analyze checks a syntax forest.
func (fe *Frontend) Analyze(forest []*tree.Node) error {
	return semantic.Analyze(forest)
}

// Compile runs the complete front end on a source text.
func (fe *Frontend) Compile(source string) (*Result, error) {
	tokens, err := fe.Tokenize(source)
	if err != nil {
		tracer().Infof("lexical error: %v", err)
		return nil, err
	}
	tracer().Debugf("%d tokens", len(tokens))
	result := &Result{Tokens: tokens}
	accepted, forest, err := fe.Parse(tokens)
	if err != nil {
		return result, err
	}
	if !accepted {
		tracer().Infof("input rejected by parser")
		return result, nil
	}
	result.Accepted, result.Tree = true, forest
	if err = fe.Analyze(forest); err != nil {
		var serr *semantic.Error
		if !errors.As(err, &serr) {
			return result, err
		}
		d := serr.Diagnostic()
		result.Diagnostic = &d
		tracer().Infof("semantic error: %v", d)
	}
	return result, nil
}
