package lr

import (
	"reflect"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func parensGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("Parens")
	b.LHS("S").T("LEFT_PARENTHESIS").N("S").T("RIGHT_PARENTHESIS").End()
	b.LHS("S").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestGrammarBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.lr")
	defer teardown()
	//
	g := parensGrammar(t)
	g.Dump()
	if g.Size() != 3 {
		t.Errorf("expected 3 rules (including start rule), have %d", g.Size())
	}
	if g.Start().Name != "S'" || g.Rule(0).RHS()[0].Name != "S" {
		t.Errorf("unexpected start rule %v", g.Rule(0))
	}
	if !g.Rule(2).IsEps() {
		t.Errorf("rule 2 should be an epsilon rule: %v", g.Rule(2))
	}
	if A := g.SymbolByName("LEFT_PARENTHESIS"); A == nil || !A.IsTerminal() {
		t.Errorf("LEFT_PARENTHESIS should be a terminal")
	}
	if g.EOF == nil || g.EOF.Name != "$" {
		t.Errorf("grammar should have an end marker")
	}
	var terms []string
	g.EachTerminal(func(A *Symbol) interface{} {
		terms = append(terms, A.Name)
		return nil
	})
	if !reflect.DeepEqual(terms, []string{"$", "LEFT_PARENTHESIS", "RIGHT_PARENTHESIS"}) {
		t.Errorf("unexpected terminals %v", terms)
	}
}

func TestGrammarBuilderErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("Undefined")
	b.LHS("S").N("A").End()
	if _, err := b.Grammar(); err == nil {
		t.Errorf("expected error for non-terminal without rules")
	}
	b = NewGrammarBuilder("Mixed")
	b.LHS("S").T("A").End()
	b.LHS("A").T("x").End()
	if _, err := b.Grammar(); err == nil {
		t.Errorf("expected error for symbol used as terminal and non-terminal")
	}
	if _, err := NewGrammarBuilder("Empty").Grammar(); err == nil {
		t.Errorf("expected error for empty grammar")
	}
}

func TestAnalysis(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("S").N("A").T("a").End()
	b.LHS("A").N("B").N("D").End()
	b.LHS("B").T("b").End()
	b.LHS("B").Epsilon()
	b.LHS("D").T("d").End()
	b.LHS("D").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	ga := Analysis(g)
	check := func(what string, syms []*Symbol, expected ...string) {
		if names := symbolNames(syms); !reflect.DeepEqual(names, expected) {
			t.Errorf("%s: expected %v, have %v", what, expected, names)
		}
	}
	S, A, B, D := g.SymbolByName("S"), g.SymbolByName("A"), g.SymbolByName("B"), g.SymbolByName("D")
	check("FIRST(S)", ga.First(S), "a", "b", "d")
	check("FIRST(A)", ga.First(A), "b", "d")
	check("FOLLOW(S)", ga.Follow(S), "$")
	check("FOLLOW(A)", ga.Follow(A), "a")
	check("FOLLOW(B)", ga.Follow(B), "a", "d")
	check("FOLLOW(D)", ga.Follow(D), "a")
	if !ga.DerivesEpsilon(A) || ga.DerivesEpsilon(S) {
		t.Errorf("A should derive epsilon, S should not")
	}
}
