/*
Package scope implements symbol tables and scopes for static analysis.

Scopes are named and may contain tag definitions. Every scope links back to
its parent scope, forming a tree. During analysis, the tree is treated as a
stack: a new scope is pushed when entering a block and popped when leaving it.
The outermost scope holds global symbols and is never popped.

For a thorough discussion of symbol tables and scopes, refer to
"Language Implementation Patterns" by Terence Parr.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scope

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'toyc.semantic'.
func tracer() tracing.Trace {
	return tracing.Select("toyc.semantic")
}
