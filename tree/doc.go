/*
Package tree implements the syntax trees produced by the SLR parser.

A syntax tree consists of owned nodes. Leaves wrap the tokens shifted by the
parser; internal nodes are created on reductions and wrap a synthetic token,
whose kind is the non-terminal of the reduced rule and whose lexeme is empty.
The synthetic token spans the input covered by the node's children. Nodes
resulting from an epsilon-production are given a zero-width span right in
front of the lookahead token.

A parse results in a forest (a slice of root nodes), which usually will
contain exactly one tree. Clients walk a forest top-down with a Listener:

    err := tree.Walk(forest, myListener)

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree
