/*
Package semantic implements static checks for toy language syntax trees.

The analyzer walks a syntax tree depth-first with a stack of scopes. Blocks
open and close scopes, declarations define variables in the innermost scope,
and assignments are checked against the declared type of their target.
Analysis stops at the first violation, which is returned as an *Error.

Identifiers are resolved in the nearest enclosing scope which declares them.
This holds for the check whether a variable is declared at all, as well as
for looking up its type.

Configuration

If the global configuration flag "panic-on-unbalanced-scopes" is set, the
analyzer panics when a tree leaves residual scopes on the stack. Otherwise
this is traced as an error.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package semantic

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'toyc.semantic'.
func tracer() tracing.Trace {
	return tracing.Select("toyc.semantic")
}
