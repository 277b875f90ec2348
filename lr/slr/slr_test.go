package slr

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/toyc"
	"github.com/npillmayer/toyc/lr"
	"github.com/npillmayer/toyc/tree"
)

// Table for
//
//    S ➞ ( S ) | ε
//
const parensTable = `{
  "0": { "ACTION": { "LEFT_PARENTHESIS": "S 2", "ANY": "R 0 S" },
         "GOTO":   { "S": { "ANY": 1 } } },
  "1": { "ACTION": { "$": "ACC" }, "GOTO": {} },
  "2": { "ACTION": { "LEFT_PARENTHESIS": "S 2", "RIGHT_PARENTHESIS": "R 0 S", "$": "R 0 S" },
         "GOTO":   { "S": { "ANY": "3" } } },
  "3": { "ACTION": { "RIGHT_PARENTHESIS": "S 4" }, "GOTO": {} },
  "4": { "ACTION": { "RIGHT_PARENTHESIS": "R 3 S", "$": "R 3 S" }, "GOTO": {} }
}`

func loadParens(t *testing.T) *Table {
	table, err := Load(strings.NewReader(parensTable))
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func parens(open, close int) []toyc.Token {
	var tokens []toyc.Token
	pos := 0
	for i := 0; i < open; i++ {
		tokens = append(tokens, toyc.MakeToken(toyc.LEFT_PARENTHESIS, "(", 1, pos, pos+1))
		pos++
	}
	for i := 0; i < close; i++ {
		tokens = append(tokens, toyc.MakeToken(toyc.RIGHT_PARENTHESIS, ")", 1, pos, pos+1))
		pos++
	}
	return tokens
}

func countLabel(forest []*tree.Node, label string) int {
	n := 0
	for _, root := range forest {
		tree.Each(root, func(node *tree.Node) {
			if node.Label() == label {
				n++
			}
		})
	}
	return n
}

func TestParseBalanced(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.lr")
	defer teardown()
	//
	p := NewParser(loadParens(t))
	for n := 0; n <= 4; n++ {
		accepted, forest, err := p.Parse(parens(n, n))
		if err != nil {
			t.Fatal(err)
		}
		if !accepted {
			t.Errorf("expected %d nested pairs to be accepted", n)
			continue
		}
		if len(forest) != 1 || forest[0].Label() != "S" {
			t.Errorf("expected a single tree with root S, have %v", forest)
			continue
		}
		if c := countLabel(forest, "S"); c != n+1 {
			t.Errorf("expected %d S-nodes for %d pairs, have %d", n+1, n, c)
		}
		t.Logf("%s", forest[0])
	}
}

func TestParseRejects(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.lr")
	defer teardown()
	//
	p := NewParser(loadParens(t))
	inputs := [][]toyc.Token{
		parens(1, 2),
		parens(2, 1),
		parens(0, 1),
		{toyc.MakeToken(toyc.VARIABLE, "x", 1, 0, 1)},
	}
	for i, input := range inputs {
		accepted, forest, err := p.Parse(input)
		if err != nil {
			t.Fatal(err)
		}
		if accepted || forest != nil {
			t.Errorf("input #%d should have been rejected without a tree", i)
		}
	}
}

func TestSynthesizeEnd(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.lr")
	defer teardown()
	//
	table := loadParens(t)
	p := NewParser(table, SynthesizeEnd(false))
	if accepted, _, _ := p.Parse(parens(1, 1)); accepted {
		t.Errorf("expected rejection of input without end marker")
	}
	input := append(parens(1, 1), toyc.Sentinel())
	if accepted, _, _ := p.Parse(input); !accepted {
		t.Errorf("expected acceptance of input with end marker")
	}
	p = NewParser(table)
	if accepted, _, _ := p.Parse(input); !accepted {
		t.Errorf("expected acceptance of input with explicit end marker")
	}
}

func TestTreeSpans(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.lr")
	defer teardown()
	//
	p := NewParser(loadParens(t))
	accepted, forest, err := p.Parse(parens(2, 2))
	if err != nil || !accepted {
		t.Fatalf("expected (()) to be accepted")
	}
	root := forest[0]
	if root.Span() != (toyc.Span{0, 4}) {
		t.Errorf("expected root to span (0…4), is %v", root.Span())
	}
	if len(root.Children) != 3 || root.Children[0].Token.Lexeme != "(" {
		t.Fatalf("expected children ( S ), have %v", root)
	}
	inner := root.Children[1]
	if inner.Span() != (toyc.Span{1, 3}) {
		t.Errorf("expected inner S to span (1…3), is %v", inner.Span())
	}
	eps := inner.Children[1]
	if len(eps.Children) != 0 || eps.Span() != (toyc.Span{2, 2}) {
		t.Errorf("expected empty S at (2…2), is %v %v", eps, eps.Span())
	}
	if root.String() != "(S ( (S ( (S) )) ))" {
		t.Errorf("unexpected tree %s", root)
	}
}

func TestAnyFallback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.lr")
	defer teardown()
	//
	table := loadParens(t)
	if a, ok := table.Action(0, "WHATEVER"); !ok || a.Kind != Reduce || a.Nonterminal != "S" {
		t.Errorf("expected ANY fallback to reduce, have %v", a)
	}
	if a, ok := table.Action(0, toyc.LEFT_PARENTHESIS); !ok || a.Kind != Shift || a.State != 2 {
		t.Errorf("expected exact entry to win over ANY, have %v", a)
	}
	if _, ok := table.Action(3, toyc.EndMarker); ok {
		t.Errorf("expected no entry for ACTION(3,$)")
	}
	if s, ok := table.Goto(2, "S", toyc.RIGHT_PARENTHESIS); !ok || s != 3 {
		t.Errorf("expected GOTO(2,S) = 3, have %d", s)
	}
	if _, ok := table.Goto(1, "S", toyc.EndMarker); ok {
		t.Errorf("expected no GOTO(1,S)")
	}
}

func TestParseAction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.lr")
	defer teardown()
	//
	for _, s := range []string{"S 4", "R 3 exp-nt", "R 0 name-nt", "ACC"} {
		a, err := ParseAction(s)
		if err != nil {
			t.Errorf("cannot parse %q: %v", s, err)
			continue
		}
		if a.String() != s {
			t.Errorf("expected %q, have %q", s, a)
		}
	}
	for _, s := range []string{"", "S", "S x", "S -1", "R 3", "R -1 A", "ACC 1", "X 1"} {
		if _, err := ParseAction(s); err == nil {
			t.Errorf("expected error for action %q", s)
		}
	}
}

func TestMalformedTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.lr")
	defer teardown()
	//
	docs := []string{
		`{ "x": { "ACTION": {}, "GOTO": {} } }`,
		`{ "1": { "ACTION": {}, "GOTO": {} } }`,
		`{ "0": { "ACTION": { "A": "S 7" }, "GOTO": {} } }`,
		`{ "0": { "ACTION": { "A": "R 1 T" }, "GOTO": {} } }`,
		`{ "0": { "ACTION": { "A": "shift" }, "GOTO": {} } }`,
		`{ "0": { "ACTION": {}, "GOTO": { "T": { "ANY": 9 } } } }`,
		`{ "0": { "ACTION": {}, "GOTO": { "T": { "ANY": "zero" } } } }`,
		`[ 1, 2, 3 ]`,
	}
	for i, doc := range docs {
		_, err := Load(strings.NewReader(doc))
		if err == nil {
			t.Errorf("expected table #%d to be rejected", i)
			continue
		}
		if !errors.Is(err, ErrMalformedTable) {
			t.Errorf("expected table #%d to be a malformed table error, is %v", i, err)
		}
		t.Logf("#%d: %v", i, err)
	}
	var terr *TableError
	if _, err := Load(strings.NewReader(docs[2])); !errors.As(err, &terr) || terr.State != "0" || terr.Key != "A" {
		t.Errorf("expected table error for state 0 and key A, have %v", err)
	}
	_, err := Load(strings.NewReader(parensTable), WithVocabulary(toyc.LEFT_PARENTHESIS))
	if !errors.Is(err, ErrMalformedTable) {
		t.Errorf("expected vocabulary check to reject RIGHT_PARENTHESIS")
	}
	_, err = Load(strings.NewReader(parensTable),
		WithVocabulary(toyc.LEFT_PARENTHESIS, toyc.RIGHT_PARENTHESIS))
	if err != nil {
		t.Errorf("expected vocabulary check to pass, have %v", err)
	}
}

func TestInconsistentTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.lr")
	defer teardown()
	//
	docs := []string{
		`{ "0": { "ACTION": { "ANY": "R 2 S" }, "GOTO": { "S": { "ANY": 0 } } } }`,
		`{ "0": { "ACTION": { "ANY": "R 0 T" }, "GOTO": {} },
		   "1": { "ACTION": {}, "GOTO": { "T": { "ANY": 0 } } } }`,
	}
	for i, doc := range docs {
		table, err := Load(strings.NewReader(doc))
		if err != nil {
			t.Fatal(err)
		}
		accepted, forest, err := NewParser(table).Parse(parens(1, 1))
		if accepted || forest != nil || !errors.Is(err, ErrInconsistentTable) {
			t.Errorf("expected table #%d to be inconsistent, have %v", i, err)
		}
	}
}

func TestExport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Parens")
	b.LHS("S").T(toyc.LEFT_PARENTHESIS).N("S").T(toyc.RIGHT_PARENTHESIS).End()
	b.LHS("S").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	lrgen.CreateTables()
	doc, err := Export(lrgen)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc) != 5 || doc["1"].Action[toyc.EndMarker] != "ACC" {
		t.Errorf("unexpected exported document %v", doc)
	}
	generated, err := Compile(doc)
	if err != nil {
		t.Fatal(err)
	}
	hand := loadParens(t)
	inputs := [][]toyc.Token{parens(0, 0), parens(3, 3), parens(1, 2), parens(2, 1)}
	for i, input := range inputs {
		acc1, _, _ := NewParser(hand).Parse(input)
		acc2, _, _ := NewParser(generated).Parse(input)
		if acc1 != acc2 {
			t.Errorf("generated and hand-written tables disagree for input #%d", i)
		}
	}
}

func TestExportConflicts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Ambiguous")
	b.LHS("E").N("E").T(toyc.PLUS).N("E").End()
	b.LHS("E").T(toyc.NUMBER).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	lrgen.CreateTables()
	if _, err = Export(lrgen); err == nil {
		t.Errorf("expected export of ambiguous grammar to fail")
	}
}

func TestExportIgnoringConflicts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.lr")
	defer teardown()
	//
	b := lr.NewGrammarBuilder("Ambiguous")
	b.LHS("E").N("E").T(toyc.PLUS).N("E").End()
	b.LHS("E").T(toyc.NUMBER).End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	lrgen := lr.NewTableGenerator(lr.Analysis(g))
	lrgen.CreateTables()
	doc, err := Export(lrgen, IgnoreConflicts())
	if err != nil {
		t.Fatal(err)
	}
	table, err := Compile(doc)
	if err != nil {
		t.Fatal(err)
	}
	input := []toyc.Token{
		toyc.MakeToken(toyc.NUMBER, "1", 1, 0, 1),
		toyc.MakeToken(toyc.PLUS, "+", 1, 1, 2),
		toyc.MakeToken(toyc.NUMBER, "2", 1, 2, 3),
		toyc.MakeToken(toyc.PLUS, "+", 1, 3, 4),
		toyc.MakeToken(toyc.NUMBER, "3", 1, 4, 5),
	}
	if accepted, _, err := NewParser(table).Parse(input); !accepted || err != nil {
		t.Errorf("expected 1+2+3 to be accepted with either resolution of the conflict")
	}
}

func TestSharedParser(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.lr")
	defer teardown()
	//
	p := NewParser(loadParens(t))
	if accepted, _, _ := p.Parse(parens(3, 1)); accepted {
		t.Fatalf("expected unbalanced input to be rejected")
	}
	accepted, forest, err := p.Parse(parens(2, 2))
	if err != nil || !accepted || len(forest) != 1 {
		t.Fatalf("expected a rejected parse not to affect the next one, have %v, %v", forest, err)
	}
	tracing.Select("toyc.lr").SetTraceLevel(tracing.LevelError) // testing tracers are not goroutine-safe
	var wg sync.WaitGroup
	results := make([]bool, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n := i % 4
			ok, forest, err := p.Parse(parens(n, n))
			results[i] = ok && err == nil && countLabel(forest, "S") == n+1
		}(i)
	}
	wg.Wait()
	for i, ok := range results {
		if !ok {
			t.Errorf("concurrent parse #%d failed", i)
		}
	}
}
