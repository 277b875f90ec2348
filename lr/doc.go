/*
Package lr implements prerequisites for LR parsing: grammars, grammar analysis
and the generation of SLR(1) parser tables. The tables are consumed by the
parser in package slr, usually after being exported to a JSON document.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add
rules, consisting of non-terminal symbols and terminals. Terminals are named
by the token kind they match. Grammars may contain epsilon-productions.

Example:

    b := lr.NewGrammarBuilder("G")
    b.LHS("S").T("LEFT_PARENTHESIS").N("S").T("RIGHT_PARENTHESIS").End()
    b.LHS("S").Epsilon()

This results in the following trivial grammar:

   g, _ := b.Grammar()
   g.Dump()

   0: S' ➞ S
   1: S ➞ LEFT_PARENTHESIS S RIGHT_PARENTHESIS
   2: S ➞ ε

Rule 0 is added by the builder. The parser accepts if it is able to reduce
rule 0 with the end marker "$" as lookahead.

Grammars may also be read from EBNF, see FromEBNF.

Static Grammar Analysis

After the grammar is complete, it has to be analysed. For this end, the
grammar is subjected to an LRAnalysis object, which computes FIRST and
FOLLOW sets for the grammar and determines all epsilon-derivable rules.

    ga := lr.Analysis(g)
    ga.Grammar().EachNonTerminal(func(A *lr.Symbol) interface{} {
        fmt.Printf("FOLLOW(%s) = %v\n", A, ga.Follow(A))
        return nil
    })

Parser Construction

Using grammar analysis as input, a bottom-up parser can be constructed.
First a characteristic finite state machine (CFSM) is built from the
grammar. The CFSM will then be transformed into a GOTO table (LR(0)-table)
and an ACTION table for a SLR(1) parser. The CFSM will not be thrown away,
but is made available to the client. This is intended
for debugging purposes. It can be exported to Graphviz's Dot-format.

Example:

    lrgen := lr.NewTableGenerator(ga)  // ga is a GrammarAnalysis, see above
    lrgen.CreateTables()               // construct LR parser tables
    if lrgen.HasConflicts {
        // grammar is not SLR(1), see lrgen.Conflicts()
    }

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'toyc.lr'.
func tracer() tracing.Trace {
	return tracing.Select("toyc.lr")
}
