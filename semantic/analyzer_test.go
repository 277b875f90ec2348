package semantic

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/toyc"
	"github.com/npillmayer/toyc/lexer"
	"github.com/npillmayer/toyc/lr/slr"
	"github.com/npillmayer/toyc/scope"
	"github.com/npillmayer/toyc/toylang"
	"github.com/npillmayer/toyc/tree"
)

func parse(t *testing.T, source string) []*tree.Node {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		t.Fatal(err)
	}
	table, err := toylang.Table()
	if err != nil {
		t.Fatal(err)
	}
	accepted, forest, err := slr.NewParser(table).Parse(tokens)
	if err != nil || !accepted {
		t.Fatalf("cannot parse %q", source)
	}
	return forest
}

func semanticError(t *testing.T, err error) *Error {
	var serr *Error
	if !errors.As(err, &serr) {
		t.Fatalf("expected semantic error, have %v", err)
	}
	if !errors.Is(err, ErrSemantic) {
		t.Errorf("expected error to unwrap to ErrSemantic")
	}
	return serr
}

func TestWellFormed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.semantic")
	defer teardown()
	//
	programs := []string{
		"fn main() { }",
		"fn p() { int x; x = 1 + 2 * 3; print(x); }",
		`fn p() { string s; s = "a" + "b"; }`,
		`fn p() { int x; { string x; x = "s"; } x = 1; }`,
		"fn p() { int x; { { x = 1; } } }",
		"fn p() { int x; int y; y = 7; x = y; x = (y + 1); }",
		"fn p() { int i; for (i = 0; i < 10; i = i + 1) { int j; j = i; } }",
		"fn p() { int x; while (x < 10) { x = x + 1; } if (x == 10) { int x; } }",
	}
	for i, program := range programs {
		a := NewAnalyzer()
		if err := a.Analyze(parse(t, program)); err != nil {
			t.Errorf("program #%d: unexpected error %v", i, err)
		}
		if a.Depth() != 1 {
			t.Errorf("program #%d: expected scope depth 1, have %d", i, a.Depth())
		}
	}
}

func TestNotDeclared(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.semantic")
	defer teardown()
	//
	err := Analyze(parse(t, "fn program(){while(x<=10){x=10;print(x);}}"))
	e := semanticError(t, err)
	if e.Kind != NotDeclared || e.Identifier != "x" {
		t.Fatalf("expected x to be not declared, have %v", e)
	}
	if e.Line != 1 || e.Start != 26 || e.End != 27 {
		t.Errorf("expected error at 1:26-27, have %d:%d-%d", e.Line, e.Start, e.End)
	}
	d := e.Diagnostic()
	if d.Message != "variable x not declared" || d.Start != 26 {
		t.Errorf("unexpected diagnostic %v", d)
	}
	err = Analyze(parse(t, "fn p() { { int x; } x = 1; }"))
	if e = semanticError(t, err); e.Kind != NotDeclared {
		t.Errorf("expected x to be out of scope, have %v", e)
	}
	err = Analyze(parse(t, "fn p() { int x; y = 1; }"))
	if e = semanticError(t, err); e.Kind != NotDeclared || e.Identifier != "y" {
		t.Errorf("expected y to be not declared, have %v", e)
	}
}

func TestAlreadyDeclared(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.semantic")
	defer teardown()
	//
	err := Analyze(parse(t, "fn p() {\n  int x;\n  string x;\n}"))
	e := semanticError(t, err)
	if e.Kind != AlreadyDeclared || e.Identifier != "x" || e.Line != 3 {
		t.Errorf("expected x to be already declared in line 3, have %v in line %d", e, e.Line)
	}
}

func TestTypeMismatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.semantic")
	defer teardown()
	//
	err := Analyze(parse(t, `fn p() { int x; x = "ten"; }`))
	e := semanticError(t, err)
	if e.Kind != TypeMismatch || e.Identifier != "x" || e.Expected != scope.Integer || e.Found != scope.String {
		t.Errorf("expected type mismatch {x, Integer, String}, have %#v", e)
	}
	err = Analyze(parse(t, `fn p() { string s; { s = 10; } }`))
	if e = semanticError(t, err); e.Kind != TypeMismatch || e.Expected != scope.String {
		t.Errorf("expected type mismatch for outer s, have %v", e)
	}
}

func TestExpressionTypeMismatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.semantic")
	defer teardown()
	//
	source := `fn p() { int x; x = 1 + "one"; }`
	err := Analyze(parse(t, source))
	e := semanticError(t, err)
	if e.Kind != ExpressionTypeMismatch {
		t.Fatalf("expected expression type mismatch, have %v", e)
	}
	if source[e.Start:e.End] != `1 + "one"` {
		t.Errorf("expected error to span the expression, spans %q", source[e.Start:e.End])
	}
}

func TestUnsupportedType(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.semantic")
	defer teardown()
	//
	at := toyc.MakeToken(toyc.SEMICOLON, ";", 1, 20, 21)
	leaf := func(kind, lexeme string) *tree.Node {
		return tree.NewLeaf(toyc.MakeToken(kind, lexeme, 1, 0, len(lexeme)))
	}
	variable := tree.NewInternal(toylang.Variable, []*tree.Node{leaf(toyc.VARIABLE, "x")}, at)
	declare := tree.NewInternal(toylang.Declare, []*tree.Node{leaf(toyc.PRINT, "print"), variable}, at)
	program := tree.NewInternal(toylang.Program, []*tree.Node{declare}, at)
	e := semanticError(t, Analyze([]*tree.Node{program}))
	if e.Kind != UnsupportedType || e.Detail != toyc.PRINT {
		t.Errorf("expected unsupported type PRINT, have %v", e)
	}
	//
	declare = tree.NewInternal(toylang.Declare, []*tree.Node{leaf(toyc.INTEGER_TYPE, "int"), variable}, at)
	exp := tree.NewInternal(toylang.Exp, []*tree.Node{leaf(toyc.MAIN_PROGRAM, "main")}, at)
	assign := tree.NewInternal(toylang.Assign, []*tree.Node{variable, leaf(toyc.EQUAL, "="), exp}, at)
	program = tree.NewInternal(toylang.Program, []*tree.Node{declare, assign}, at)
	e = semanticError(t, Analyze([]*tree.Node{program}))
	if e.Kind != UnsupportedType || e.Detail != toyc.MAIN_PROGRAM {
		t.Errorf("expected unsupported operand type MAIN_PROGRAM, have %v", e)
	}
}

func TestScopeBalance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.semantic")
	defer teardown()
	//
	at := toyc.MakeToken(toyc.SEMICOLON, ";", 1, 0, 1)
	open := tree.NewLeaf(toyc.MakeToken(toyc.LEFT_CURLY_BRACE, "{", 1, 0, 1))
	close := tree.NewLeaf(toyc.MakeToken(toyc.RIGHT_CURLY_BRACE, "}", 1, 1, 2))
	program := tree.NewInternal(toylang.Program, []*tree.Node{open, close, close}, at)
	e := semanticError(t, Analyze([]*tree.Node{program}))
	if e.Kind != UnbalancedBlock || e.Start != 1 {
		t.Errorf("expected unbalanced block error at the closing brace, have %v", e)
	}
	program = tree.NewInternal(toylang.Program, []*tree.Node{open, open, close}, at)
	a := NewAnalyzer()
	if err := a.Analyze([]*tree.Node{program}); err != nil {
		t.Fatal(err)
	}
	if a.Depth() != 2 {
		t.Errorf("expected one residual scope, depth is %d", a.Depth())
	}
}

func TestBlockTokensWithoutLexemes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.semantic")
	defer teardown()
	//
	at := toyc.MakeToken(toyc.SEMICOLON, "", 1, 0, 1)
	open := tree.NewLeaf(toyc.MakeToken(toyc.LEFT_CURLY_BRACE, "", 1, 0, 1))
	close := tree.NewLeaf(toyc.MakeToken(toyc.RIGHT_CURLY_BRACE, "", 1, 1, 2))
	a := NewAnalyzer()
	if err := a.Analyze([]*tree.Node{tree.NewInternal(toylang.Program, []*tree.Node{open}, at)}); err != nil {
		t.Fatal(err)
	}
	if a.Depth() != 2 {
		t.Errorf("expected a scope to be pushed for an opening brace without lexeme, depth is %d", a.Depth())
	}
	program := tree.NewInternal(toylang.Program, []*tree.Node{open, close, close}, at)
	e := semanticError(t, Analyze([]*tree.Node{program}))
	if e.Kind != UnbalancedBlock {
		t.Errorf("expected unbalanced block error, have %v", e)
	}
}

func TestCollectTerminals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "toyc.semantic")
	defer teardown()
	//
	forest := parse(t, "fn p() { x = (1 + y) * 2; }")
	var assign *tree.Node
	tree.Each(forest[0], func(n *tree.Node) {
		if n.Label() == toylang.Assign {
			assign = n
		}
	})
	if assign == nil {
		t.Fatal("no assignment found")
	}
	tokens := collectTerminals(assign, DefaultLabels.ExpressionPass, DefaultLabels.ExpressionSkip)
	if operandKinds(tokens) != "NUMBER NUMBER" {
		t.Errorf("expected two number operands, have %v", tokens)
	}
	tokens = collectTerminals(assign, DefaultLabels.TargetPass, DefaultLabels.TargetSkip)
	if len(tokens) == 0 || tokens[0].Lexeme != "x" {
		t.Errorf("expected target x first, have %v", tokens)
	}
}
