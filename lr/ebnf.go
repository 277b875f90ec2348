package lr

import (
	"fmt"
	"io"
	"sort"

	"golang.org/x/exp/ebnf"
)

// FromEBNF reads a grammar in EBNF notation, as accepted by package
// golang.org/x/exp/ebnf, and creates a grammar with start symbol start.
//
// Names with a production become non-terminals; names without a production as
// well as quoted tokens become terminals, named by the identifier or the token
// text. Options, repetitions and groups are desugared into helper
// non-terminals:
//
//    S = [ X ] .       ➞   S ➞ X | ε
//    A = B { C } .     ➞   A ➞ B A_1 ;  A_1 ➞ A_1 C | ε
//    A = ( B | C ) D . ➞   A ➞ A_1 D ;  A_1 ➞ B | C
//
// Ranges ("a" … "z") are not supported.
func FromEBNF(name string, r io.Reader, start string) (*Grammar, error) {
	egrammar, err := ebnf.Parse(name, r)
	if err != nil {
		return nil, err
	}
	if _, ok := egrammar[start]; !ok {
		return nil, fmt.Errorf("EBNF grammar %s has no production for start symbol %s", name, start)
	}
	conv := &ebnfConverter{
		b:       NewGrammarBuilder(name),
		grammar: egrammar,
		serials: make(map[string]int),
	}
	names := make([]string, 0, len(egrammar))
	for n := range egrammar {
		if n != start {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	names = append([]string{start}, names...)
	for _, n := range names {
		if err := conv.production(n, egrammar[n].Expr); err != nil {
			return nil, err
		}
	}
	return conv.b.Grammar()
}

type ebnfConverter struct {
	b       *GrammarBuilder
	grammar ebnf.Grammar
	serials map[string]int // counters for helper non-terminals
}

// production adds the rules for lhs ➞ expr.
func (conv *ebnfConverter) production(lhs string, expr ebnf.Expression) error {
	switch x := expr.(type) {
	case nil:
		conv.b.LHS(lhs).Epsilon()
		return nil
	case ebnf.Alternative:
		for _, alt := range x {
			if err := conv.production(lhs, alt); err != nil {
				return err
			}
		}
		return nil
	case *ebnf.Option:
		conv.b.LHS(lhs).Epsilon()
		return conv.production(lhs, x.Body)
	case *ebnf.Group:
		return conv.production(lhs, x.Body)
	}
	rb := conv.b.LHS(lhs)
	if err := conv.sequence(lhs, rb, expr); err != nil {
		return err
	}
	rb.End()
	return nil
}

// sequence appends the symbols of expr to a rule's right hand side.
func (conv *ebnfConverter) sequence(lhs string, rb *RuleBuilder, expr ebnf.Expression) error {
	switch x := expr.(type) {
	case ebnf.Sequence:
		for _, item := range x {
			if err := conv.sequence(lhs, rb, item); err != nil {
				return err
			}
		}
	case *ebnf.Name:
		if _, ok := conv.grammar[x.String]; ok {
			rb.N(x.String)
		} else {
			rb.T(x.String)
		}
	case *ebnf.Token:
		rb.T(x.String)
	case *ebnf.Group:
		if _, isAlt := x.Body.(ebnf.Alternative); !isAlt {
			return conv.sequence(lhs, rb, x.Body)
		}
		helper := conv.helper(lhs)
		rb.N(helper)
		return conv.production(helper, x.Body)
	case *ebnf.Option:
		helper := conv.helper(lhs)
		rb.N(helper)
		return conv.production(helper, x)
	case *ebnf.Repetition:
		helper := conv.helper(lhs)
		rb.N(helper)
		conv.b.LHS(helper).Epsilon()
		rep := conv.b.LHS(helper).N(helper)
		if err := conv.sequence(helper, rep, x.Body); err != nil {
			return err
		}
		rep.End()
	case ebnf.Alternative:
		helper := conv.helper(lhs)
		rb.N(helper)
		return conv.production(helper, x)
	case *ebnf.Range:
		return fmt.Errorf("EBNF ranges are not supported (production %s)", lhs)
	default:
		return fmt.Errorf("unsupported EBNF expression %T in production %s", expr, lhs)
	}
	return nil
}

func (conv *ebnfConverter) helper(lhs string) string {
	for {
		conv.serials[lhs]++
		name := fmt.Sprintf("%s_%d", lhs, conv.serials[lhs])
		if _, clash := conv.grammar[name]; !clash {
			return name
		}
	}
}
