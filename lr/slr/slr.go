/*
Package slr provides an SLR(1)-parser. The parser is driven by an externally
supplied parsing table, a JSON document mapping state IDs to ACTION and GOTO
entries. Tables may be hand-written or created with the tools of package lr
(see Export and command slrgen).

This parser is intended for small to moderate grammars, e.g. for configuration
input or small domain-specific languages. It is *not* intended for full-fledged
programming languages.

Table Documents

A table document looks like this:

    {
      "0": { "ACTION": { "LEFT_PARENTHESIS": "S 2", "ANY": "R 0 S" },
             "GOTO":   { "S": { "ANY": "1" } } },
      "1": { "ACTION": { "$": "ACC" }, "GOTO": {} },
      …
    }

Actions are either shifts ("S <state>"), reductions ("R <count> <non-terminal>")
or "ACC". Lookups for a token kind fall back to the wildcard key "ANY".
Documents are compiled into a Table once, validating every entry:

    table, err := slr.LoadFile("toy.json")
    if errors.Is(err, slr.ErrMalformedTable) { … }

Usage

    p := slr.NewParser(table)
    accepted, forest, err := p.Parse(tokens)

The parser returns true if the input string has been accepted, together with
the syntax tree(s) built during the parse. A rejected input results in
(false, nil, nil); there is no error recovery.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package slr

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/toyc"
	"github.com/npillmayer/toyc/tree"
)

// tracer traces with key 'toyc.lr'.
func tracer() tracing.Trace {
	return tracing.Select("toyc.lr")
}

// ErrInconsistentTable is returned by a parse if the table demands a reduce
// with more symbols than present on the stack, or lacks a GOTO entry after a
// reduce.
var ErrInconsistentTable = errors.New("inconsistent parsing table")

// Parser is an SLR(1)-parser type. Create and initialize one with slr.NewParser(...)
//
// A parser keeps no state between calls of Parse and may be shared between
// goroutines.
type Parser struct {
	table      *Table
	synthesize bool
}

// We store pairs of state-IDs and tree nodes on the parse stack. The bottom
// entry carries no node.
type stackitem struct {
	stateID int
	node    *tree.Node
}

// Option configures a parser.
type Option func(p *Parser)

// SynthesizeEnd lets the parser present an end marker token "$" to the table
// when the input runs out without one. This is the default. If set to false,
// input without a trailing sentinel will be rejected.
func SynthesizeEnd(b bool) Option {
	return func(p *Parser) {
		p.synthesize = b
	}
}

// NewParser creates an SLR(1) parser for a compiled table.
func NewParser(table *Table, opts ...Option) *Parser {
	parser := &Parser{
		table:      table,
		synthesize: true,
	}
	for _, opt := range opts {
		opt(parser)
	}
	return parser
}

// Parse runs the parser over a token sequence. It returns true if the input
// has been accepted, together with the nodes remaining on the parse stack,
// usually a single syntax tree.
//
// A rejected input returns (false, nil, nil). Errors are returned only for
// tables which are inconsistent with respect to the parse.
func (p *Parser) Parse(tokens []toyc.Token) (bool, []*tree.Node, error) {
	tracer().Debugf("~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~")
	stack := make([]stackitem, 1, 64)
	stack[0] = stackitem{stateID: StartState} // push S0
	pos := 0
	var err error
	for {
		token, ok := p.lookahead(tokens, pos)
		if !ok {
			tracer().Infof("input exhausted without end marker")
			return false, nil, nil
		}
		state := stack[len(stack)-1] // TOS
		action, ok := p.table.Action(state.stateID, token.Kind)
		if !ok {
			tracer().Infof("syntax error at %v in state %d", token, state.stateID)
			return false, nil, nil
		}
		tracer().Debugf("action(%d,%s) = %s", state.stateID, token.Kind, action)
		switch action.Kind {
		case Accept:
			forest := make([]*tree.Node, 0, len(stack)-1)
			for _, item := range stack[1:] {
				forest = append(forest, item.node)
			}
			tracer().Infof("input accepted")
			return true, forest, nil
		case Shift:
			tracer().Debugf("shifting %v, next state = %d", token, action.State)
			stack = append(stack, stackitem{action.State, tree.NewLeaf(token)})
			pos++
		case Reduce:
			if stack, err = p.reduce(stack, action, token); err != nil {
				return false, nil, err
			}
		default:
			return false, nil, ErrInconsistentTable
		}
	}
}

// lookahead returns the token at pos, or a synthetic end marker if the input
// is exhausted and the parser is configured to synthesize one.
func (p *Parser) lookahead(tokens []toyc.Token, pos int) (toyc.Token, bool) {
	if pos < len(tokens) {
		return tokens[pos], true
	}
	if !p.synthesize {
		return toyc.Token{}, false
	}
	end := toyc.Sentinel()
	if len(tokens) > 0 {
		last := tokens[len(tokens)-1]
		if last.Kind == toyc.EndMarker {
			return toyc.Token{}, false // sentinel already consumed
		}
		end.Line, end.Start, end.End = last.Line, last.End, last.End
	}
	return end, true
}

// reduce performs a reduce action for a rule
//
//    LHS --> X1 ... Xn   (with X being terminals or non-terminals)
//
// Symbols X1 to Xn are represented on the stack as states with nodes
//
//    [TOS]  Sn(Xn) ... S1(X1)  ...
//
// They are popped and become the children of a new node for LHS, in order.
// reduce returns the modified stack.
func (p *Parser) reduce(stack []stackitem, action Action, lookahead toyc.Token) ([]stackitem, error) {
	tracer().Debugf("reduce %d symbols to %s", action.Count, action.Nonterminal)
	if action.Count > len(stack)-1 {
		tracer().Errorf("cannot pop %d symbols from stack of height %d", action.Count, len(stack)-1)
		return stack, ErrInconsistentTable
	}
	handle := stack[len(stack)-action.Count:]
	children := make([]*tree.Node, len(handle))
	for i, item := range handle {
		children[i] = item.node
	}
	stack = stack[:len(stack)-action.Count]
	node := tree.NewInternal(action.Nonterminal, children, lookahead)
	state := stack[len(stack)-1] // TOS
	nextstate, ok := p.table.Goto(state.stateID, action.Nonterminal, lookahead.Kind)
	if !ok {
		tracer().Errorf("no GOTO(%d,%s) for lookahead %s", state.stateID, action.Nonterminal, lookahead.Kind)
		return stack, ErrInconsistentTable
	}
	tracer().Debugf("reduced to next state = %d", nextstate)
	return append(stack, stackitem{nextstate, node}), nil // push a non-terminal state
}
