/*
Package lexer turns toy-language source text into tokens.

The lexer is an explicit finite automaton. Every state is tagged with the
terminal kind it emits when no transition applies to the next character
(maximal munch). After emitting, the automaton restarts in its start state and
retries the character it could not consume. Keywords are recognized by chains
of literal transitions branching off the start state; every state of such a
chain falls back to the identifier state on letters and digits, thus
"while" is a keyword while "whilex" is an identifier.

Transitions are looked up in a fixed order: first the literal character, then
the class of letters (ASCII letters and '_'), then the class of decimal
digits, then the class of any character except newline (only used within
string literals).

Usage

	tokens, err := lexer.Tokenize("fn main(){int x; x = 10;}")

Tokenize keeps the source text intact and reports line numbers and byte
offsets for every token. Clients needing the historic behaviour of stripping
all whitespace before scanning may create a lexer with option StripWhitespace;
tokens will then carry zero positions.

	lx := lexer.New(lexer.StripWhitespace(true), lexer.AppendSentinel(true))
	tokens, err = lx.Tokenize(input)

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexer

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'toyc.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("toyc.lexer")
}
