package toyc

import "fmt"

// --- Terminal kinds --------------------------------------------------------

// Terminal kinds of the toy language. The kind of a token is a string, as
// parsing tables are keyed by terminal names.
const (
	FN_PROGRAM            = "FN_PROGRAM"
	MAIN_PROGRAM          = "MAIN_PROGRAM"
	IF                    = "IF"
	FOR                   = "FOR"
	WHILE                 = "WHILE"
	PRINT                 = "PRINT"
	INTEGER_TYPE          = "INTEGER_TYPE"
	STRING_TYPE           = "STRING_TYPE"
	VARIABLE              = "VARIABLE"
	NUMBER                = "NUMBER"
	STRING                = "STRING"
	LEFT_PARENTHESIS      = "LEFT_PARENTHESIS"
	RIGHT_PARENTHESIS     = "RIGHT_PARENTHESIS"
	LEFT_SQUARE_BRACKET   = "LEFT_SQUARE_BRACKET"
	RIGHT_SQUARE_BRACKET  = "RIGHT_SQUARE_BRACKET"
	LEFT_CURLY_BRACE      = "LEFT_CURLY_BRACE"
	RIGHT_CURLY_BRACE     = "RIGHT_CURLY_BRACE"
	PLUS                  = "PLUS"
	SUBTRACT              = "SUBTRACT"
	MULTIPLY              = "MULTIPLY"
	DIVIDE                = "DIVIDE"
	MODULUS               = "MODULUS"
	EXPONENT              = "EXPONENT"
	GREATER_THAN          = "GREATER_THAN"
	LESS_THAN             = "LESS_THAN"
	GREATER_THAN_OR_EQUAL = "GREATER_THAN_OR_EQUAL"
	LESS_THAN_OR_EQUAL    = "LESS_THAN_OR_EQUAL"
	EQUAL                 = "EQUAL"
	EQUAL_EQUAL           = "EQUAL_EQUAL"
	SEMICOLON             = "SEMICOLON"
)

// EndMarker is the kind (and lexeme) of the end-of-input sentinel.
const EndMarker = "$"

// Any is the wildcard lookahead key of parsing tables.
const Any = "ANY"

// --- Tokens ----------------------------------------------------------------

// Token is a classified lexeme. Tokens are values and compare by value.
//
// Line is 1-based, Start and End are byte offsets into the source text, End
// being exclusive. Lexers running in whitespace-stripping mode report zero
// for all three.
//
// Syntax tree nodes for non-terminals carry a synthetic token as well, with the
// non-terminal's label as its kind and an empty lexeme.
type Token struct {
	Kind   string `json:"kind"`
	Lexeme string `json:"lexeme"`
	Line   int    `json:"line"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// MakeToken creates a token from its components.
func MakeToken(kind, lexeme string, line, start, end int) Token {
	return Token{Kind: kind, Lexeme: lexeme, Line: line, Start: start, End: end}
}

// Sentinel returns an end-of-input token.
func Sentinel() Token {
	return Token{Kind: EndMarker, Lexeme: EndMarker}
}

// Span returns the input span of a token.
func (t Token) Span() Span {
	return Span{t.Start, t.End}
}

func (t Token) String() string {
	if t.Lexeme == "" {
		return fmt.Sprintf("<%s>", t.Kind)
	}
	return fmt.Sprintf("<%s %q @%d:%d>", t.Kind, t.Lexeme, t.Line, t.Start)
}

// --- Spans -----------------------------------------------------------------

// Span is a small type for capturing a length of input run. For every
// terminal and non-terminal, a syntax tree will track which input positions
// this symbol covers. A span denotes a start position and the position just
// behind the end.
type Span [2]int // (x…y)

// From returns the start value of a span.
func (s Span) From() int {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() int {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() int {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns the smallest span covering s and other. A null span does not
// contribute.
func (s Span) Extend(other Span) Span {
	if s.IsNull() {
		return other
	}
	if other.IsNull() {
		return s
	}
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}

// --- Diagnostics -----------------------------------------------------------

// Diagnostic is the externally visible form of a semantic error, to be
// consumed by presentation layers.
type Diagnostic struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Start, d.Message)
}
