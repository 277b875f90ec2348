/*
Package toyc is a table-driven compiler front end for a small imperative
toy language.

The front end consists of three stages, each usable on its own:

■ lexer: Package lexer turns source text into tokens, using an explicit
maximal-munch automaton. Sub-package lexmach provides a variant backed by
lexmachine.

■ lr/slr: Package slr loads an SLR(1) ACTION/GOTO table from a JSON document
and runs a shift/reduce parser over a token sequence, producing a syntax tree.
Package lr contains a grammar builder and a table generator to create such
documents.

■ semantic: Package semantic walks the syntax tree with a stack of scopes,
checking declarations and assignment types.

Package frontend chains the stages. The base package contains data types which
are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package toyc
