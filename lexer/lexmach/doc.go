/*
Package lexmach provides a toy-language lexer backed by the lexmachine scanner
generator.

For more information on lexmachine, see e.g.
https://hackthology.com/how-to-tokenize-complex-strings-with-lexmachine.html

The lexer is set up from the keyword and operator lists of package lexer, plus
regular expressions for identifiers, numbers and string literals. Keywords are
added before the identifier pattern, so matches of equal length resolve to the
keyword, while longer matches ("ifx") resolve to identifiers.

	lx, err := lexmach.New()
	if err != nil {
		// do error handling
	}
	tokens, err := lx.Tokenize("fn main(){int x;}")

Tokens carry the same kinds, lexemes and byte offsets as the ones produced by
package lexer in its default mode. Identifiers are restricted to ASCII letters.

________________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexmach
