/*
Package toylang defines the grammar of the toy language and provides its
SLR(1) parsing table.

The grammar is

    program-nt      ➞ FN_PROGRAM name-nt ( ) { command-list-nt }
    name-nt         ➞ VARIABLE | MAIN_PROGRAM | ε
    command-list-nt ➞ command-list-nt command-nt | ε
    command-nt      ➞ declare-nt ; | assign-nt ; | PRINT ( exp-nt ) ;
                    | WHILE ( exp-nt ) { command-list-nt }
                    | IF ( exp-nt ) { command-list-nt }
                    | FOR ( assign-nt ; exp-nt ; assign-nt ) { command-list-nt }
                    | { command-list-nt }
    declare-nt      ➞ INTEGER_TYPE variable-nt | STRING_TYPE variable-nt
    assign-nt       ➞ variable-nt = exp-nt
    exp-nt          ➞ exp-nt operator-nt exp1-nt | exp1-nt
    exp1-nt         ➞ ( exp-nt ) | exp2-nt
    exp2-nt         ➞ NUMBER | STRING | variable-nt
    variable-nt     ➞ VARIABLE
    operator-nt     ➞ + | - | * | / | % | ^ | > | < | >= | <= | ==

The table is generated on first use and shared afterwards.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package toylang

import (
	"fmt"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/toyc"
	"github.com/npillmayer/toyc/lr"
	"github.com/npillmayer/toyc/lr/slr"
)

// tracer traces with key 'toyc.lr'.
func tracer() tracing.Trace {
	return tracing.Select("toyc.lr")
}

// Non-terminal labels of the toy grammar. Syntax tree nodes for
// non-terminals carry these labels as token kinds.
const (
	Program     = "program-nt"
	Name        = "name-nt"
	CommandList = "command-list-nt"
	Command     = "command-nt"
	Declare     = "declare-nt"
	Assign      = "assign-nt"
	Exp         = "exp-nt"
	Exp1        = "exp1-nt"
	Exp2        = "exp2-nt"
	Variable    = "variable-nt"
	Operator    = "operator-nt"
)

// Operators lists the terminals of operator-nt.
var Operators = []string{
	toyc.PLUS, toyc.SUBTRACT, toyc.MULTIPLY, toyc.DIVIDE, toyc.MODULUS, toyc.EXPONENT,
	toyc.GREATER_THAN, toyc.LESS_THAN, toyc.GREATER_THAN_OR_EQUAL,
	toyc.LESS_THAN_OR_EQUAL, toyc.EQUAL_EQUAL,
}

// Terminals lists all token kinds produced by the toy language lexers.
var Terminals = append([]string{
	toyc.FN_PROGRAM, toyc.MAIN_PROGRAM, toyc.IF, toyc.FOR, toyc.WHILE, toyc.PRINT,
	toyc.INTEGER_TYPE, toyc.STRING_TYPE, toyc.VARIABLE, toyc.NUMBER, toyc.STRING,
	toyc.LEFT_PARENTHESIS, toyc.RIGHT_PARENTHESIS, toyc.LEFT_SQUARE_BRACKET,
	toyc.RIGHT_SQUARE_BRACKET, toyc.LEFT_CURLY_BRACE, toyc.RIGHT_CURLY_BRACE,
	toyc.EQUAL, toyc.SEMICOLON,
}, Operators...)

// block appends "{ command-list-nt }" to a rule.
func block(rb *lr.RuleBuilder) *lr.RuleBuilder {
	return rb.T(toyc.LEFT_CURLY_BRACE).N(CommandList).T(toyc.RIGHT_CURLY_BRACE)
}

// condition appends "( exp-nt )" to a rule.
func condition(rb *lr.RuleBuilder) *lr.RuleBuilder {
	return rb.T(toyc.LEFT_PARENTHESIS).N(Exp).T(toyc.RIGHT_PARENTHESIS)
}

// Grammar creates a new instance of the toy grammar.
func Grammar() (*lr.Grammar, error) {
	b := lr.NewGrammarBuilder("toy")
	block(b.LHS(Program).T(toyc.FN_PROGRAM).N(Name).
		T(toyc.LEFT_PARENTHESIS).T(toyc.RIGHT_PARENTHESIS)).End()
	b.LHS(Name).T(toyc.VARIABLE).End()
	b.LHS(Name).T(toyc.MAIN_PROGRAM).End()
	b.LHS(Name).Epsilon()
	b.LHS(CommandList).N(CommandList).N(Command).End()
	b.LHS(CommandList).Epsilon()
	b.LHS(Command).N(Declare).T(toyc.SEMICOLON).End()
	b.LHS(Command).N(Assign).T(toyc.SEMICOLON).End()
	condition(b.LHS(Command).T(toyc.PRINT)).T(toyc.SEMICOLON).End()
	block(condition(b.LHS(Command).T(toyc.WHILE))).End()
	block(condition(b.LHS(Command).T(toyc.IF))).End()
	block(b.LHS(Command).T(toyc.FOR).T(toyc.LEFT_PARENTHESIS).
		N(Assign).T(toyc.SEMICOLON).N(Exp).T(toyc.SEMICOLON).N(Assign).
		T(toyc.RIGHT_PARENTHESIS)).End()
	block(b.LHS(Command)).End()
	b.LHS(Declare).T(toyc.INTEGER_TYPE).N(Variable).End()
	b.LHS(Declare).T(toyc.STRING_TYPE).N(Variable).End()
	b.LHS(Assign).N(Variable).T(toyc.EQUAL).N(Exp).End()
	b.LHS(Exp).N(Exp).N(Operator).N(Exp1).End()
	b.LHS(Exp).N(Exp1).End()
	condition(b.LHS(Exp1)).End()
	b.LHS(Exp1).N(Exp2).End()
	b.LHS(Exp2).T(toyc.NUMBER).End()
	b.LHS(Exp2).T(toyc.STRING).End()
	b.LHS(Exp2).N(Variable).End()
	b.LHS(Variable).T(toyc.VARIABLE).End()
	for _, op := range Operators {
		b.LHS(Operator).T(op).End()
	}
	return b.Grammar()
}

// Generator creates a table generator for the toy grammar, with tables
// already created.
func Generator() (*lr.TableGenerator, error) {
	g, err := Grammar()
	if err != nil {
		return nil, err
	}
	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	lrgen.CreateTables()
	return lrgen, nil
}

var generated struct {
	once  sync.Once
	doc   slr.Document
	table *slr.Table
	err   error
}

func generate() {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelError)
	defer tracer().SetTraceLevel(level)
	lrgen, err := Generator()
	if err != nil {
		generated.err = err
		return
	}
	if generated.doc, err = slr.Export(lrgen); err != nil {
		generated.err = err
		return
	}
	generated.table, generated.err = slr.Compile(generated.doc, slr.WithVocabulary(Terminals...))
	if generated.err != nil {
		generated.err = fmt.Errorf("toy grammar table: %w", generated.err)
	}
}

// Document returns the table document for the toy grammar.
// Clients must not modify it.
func Document() (slr.Document, error) {
	generated.once.Do(generate)
	return generated.doc, generated.err
}

// Table returns the compiled parsing table for the toy grammar.
func Table() (*slr.Table, error) {
	generated.once.Do(generate)
	return generated.table, generated.err
}
