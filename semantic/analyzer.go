package semantic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/toyc"
	"github.com/npillmayer/toyc/scope"
	"github.com/npillmayer/toyc/toylang"
	"github.com/npillmayer/toyc/tree"
)

// Labels tells the analyzer which syntax tree nodes to act on.
//
// For declarations, assignment targets and expressions, terminals are
// collected from the node's subtree: children labeled with a Skip label are
// ignored, children labeled with a Pass label are descended into, and
// all other children contribute their token.
type Labels struct {
	Declaration string
	Assignment  string
	Wrappers    []string // nodes descended into
	OpenBlock   string
	CloseBlock  string

	DeclarationPass, DeclarationSkip []string
	TargetPass, TargetSkip           []string
	ExpressionPass, ExpressionSkip   []string
}

// DefaultLabels are the labels of the toy grammar.
var DefaultLabels = Labels{
	Declaration:     toylang.Declare,
	Assignment:      toylang.Assign,
	Wrappers:        []string{toylang.Program, toylang.Command, toylang.CommandList},
	OpenBlock:       toyc.LEFT_CURLY_BRACE,
	CloseBlock:      toyc.RIGHT_CURLY_BRACE,
	DeclarationPass: []string{toylang.Variable, toylang.Exp1, toylang.Exp2},
	DeclarationSkip: []string{toylang.Operator},
	TargetPass:      []string{toylang.Exp1, toylang.Exp2, toylang.Variable},
	TargetSkip:      []string{toylang.Operator},
	ExpressionPass:  []string{toylang.Exp, toylang.Exp1, toylang.Exp2},
	ExpressionSkip: []string{toylang.Operator, toyc.EQUAL, toylang.Variable,
		toyc.LEFT_PARENTHESIS, toyc.RIGHT_PARENTHESIS},
}

// Option configures an analyzer.
type Option func(*Analyzer)

// WithLabels sets the node labels an analyzer acts on.
func WithLabels(labels Labels) Option {
	return func(a *Analyzer) {
		a.labels = labels
	}
}

// Analyzer checks syntax trees. An analyzer may be re-used, but not
// concurrently.
type Analyzer struct {
	labels Labels
	stack  *scope.Stack
	depth  int
}

// NewAnalyzer creates an analyzer, by default for the toy grammar.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{labels: DefaultLabels}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze checks a syntax forest with a fresh analyzer.
func Analyze(forest []*tree.Node, opts ...Option) error {
	return NewAnalyzer(opts...).Analyze(forest)
}

// Analyze checks a syntax forest. It returns nil or an *Error for the first
// violation found.
func (a *Analyzer) Analyze(forest []*tree.Node) error {
	tracer().Debugf("starting semantic analysis")
	a.stack = scope.NewStack("global")
	err := tree.Walk(forest, a)
	a.depth = a.stack.Depth()
	if err != nil {
		tracer().Infof("semantic analysis: %v", err)
		return err
	}
	if a.depth != 1 {
		tracer().Errorf("semantic analysis left %d open scopes", a.depth-1)
		if gconf.GetBool("panic-on-unbalanced-scopes") {
			panic(fmt.Sprintf("unbalanced scopes after analysis: depth %d", a.depth))
		}
	}
	tracer().Debugf("semantic analysis completed")
	return nil
}

// Depth returns the depth of the scope stack after the most recent analysis.
// For well-formed trees this is 1, i.e. only the global scope remains.
func (a *Analyzer) Depth() int {
	return a.depth
}

// --- Tree listener ---------------------------------------------------------

// Enter is part of the tree.Listener interface.
func (a *Analyzer) Enter(n *tree.Node, level int) (bool, error) {
	switch label := n.Label(); {
	case label == a.labels.Declaration:
		return false, a.declare(n)
	case label == a.labels.Assignment:
		return false, a.assign(n)
	case contains(a.labels.Wrappers, label):
		return true, nil
	}
	return false, nil
}

// Exit is part of the tree.Listener interface.
func (a *Analyzer) Exit(n *tree.Node, level int) error {
	return nil
}

// Terminal is part of the tree.Listener interface.
func (a *Analyzer) Terminal(n *tree.Node, level int) error {
	switch n.Label() {
	case a.labels.OpenBlock:
		a.stack.PushNewScope(fmt.Sprintf("block@%d:%d", n.Token.Line, n.Token.Start))
	case a.labels.CloseBlock:
		if _, err := a.stack.PopScope(); errors.Is(err, scope.ErrGlobalScope) {
			return newError(UnbalancedBlock, n.Token)
		}
	}
	return nil
}

// --- Checks ----------------------------------------------------------------

func (a *Analyzer) declare(n *tree.Node) error {
	tracer().Debugf("declaration %v", n.Token)
	tokens := collectTerminals(n, a.labels.DeclarationPass, a.labels.DeclarationSkip)
	variable, ok := find(tokens, func(t toyc.Token) bool { return t.Kind == toyc.VARIABLE })
	if !ok {
		e := newError(UnsupportedType, n.Token)
		e.Detail = "declaration without variable"
		return e
	}
	keyword, ok := find(tokens, func(t toyc.Token) bool { return t.Kind != toyc.VARIABLE })
	if !ok {
		e := newError(UnsupportedType, variable)
		e.Identifier, e.Detail = variable.Lexeme, "declaration without type"
		return e
	}
	current := a.stack.Current()
	if current.ResolveLocal(variable.Lexeme) != nil {
		e := newError(AlreadyDeclared, variable)
		e.Identifier = variable.Lexeme
		return e
	}
	var typ scope.Type
	switch keyword.Kind {
	case toyc.INTEGER_TYPE:
		typ = scope.Integer
	case toyc.STRING_TYPE:
		typ = scope.String
	default:
		e := newError(UnsupportedType, keyword)
		e.Identifier, e.Detail = variable.Lexeme, keyword.Kind
		return e
	}
	current.DefineTag(variable.Lexeme, typ)
	tracer().Debugf("declared %s : %s in %v", variable.Lexeme, typ, current)
	return nil
}

func (a *Analyzer) assign(n *tree.Node) error {
	tracer().Debugf("assignment %v", n.Token)
	tokens := collectTerminals(n, a.labels.TargetPass, a.labels.TargetSkip)
	target, ok := find(tokens, func(t toyc.Token) bool { return t.Kind == toyc.VARIABLE })
	if !ok {
		e := newError(UnsupportedType, n.Token)
		e.Detail = "assignment without target"
		return e
	}
	tag, _ := a.stack.Current().ResolveTag(target.Lexeme)
	if tag == nil {
		e := newError(NotDeclared, target)
		e.Identifier = target.Lexeme
		return e
	}
	found, ok, err := a.inferType(n)
	if err != nil || !ok {
		return err
	}
	if found != tag.Typ {
		e := newError(TypeMismatch, target)
		e.Identifier, e.Expected, e.Found = target.Lexeme, tag.Typ, found
		return e
	}
	return nil
}

// inferType determines the type of the right hand side of an assignment from
// its literal operands. Variables do not contribute. An expression without
// any literal operands does not constrain the type.
func (a *Analyzer) inferType(n *tree.Node) (scope.Type, bool, error) {
	operands := collectTerminals(n, a.labels.ExpressionPass, a.labels.ExpressionSkip)
	if len(operands) == 0 {
		return scope.Undefined, false, nil
	}
	kind := operands[0].Kind
	for _, op := range operands[1:] {
		if op.Kind != kind {
			e := newError(ExpressionTypeMismatch, a.expression(n).Token)
			e.Detail = operandKinds(operands)
			return scope.Undefined, false, e
		}
	}
	switch kind {
	case toyc.NUMBER:
		return scope.Integer, true, nil
	case toyc.STRING:
		return scope.String, true, nil
	}
	e := newError(UnsupportedType, operands[0])
	e.Detail = kind
	return scope.Undefined, false, e
}

// expression finds the expression child of an assignment node.
func (a *Analyzer) expression(n *tree.Node) *tree.Node {
	for _, ch := range n.Children {
		if contains(a.labels.ExpressionPass, ch.Label()) {
			return ch
		}
	}
	return n
}

// collectTerminals collects the tokens reachable from a node, descending
// into children labeled with a pass label and ignoring children labeled with
// a skip label. Skipping takes precedence.
func collectTerminals(n *tree.Node, pass, skip []string) []toyc.Token {
	var tokens []toyc.Token
	var collect func(*tree.Node)
	collect = func(n *tree.Node) {
		for _, ch := range n.Children {
			switch label := ch.Label(); {
			case contains(skip, label):
			case contains(pass, label):
				collect(ch)
			default:
				tokens = append(tokens, ch.Token)
			}
		}
	}
	collect(n)
	return tokens
}

func find(tokens []toyc.Token, pred func(toyc.Token) bool) (toyc.Token, bool) {
	for _, t := range tokens {
		if pred(t) {
			return t, true
		}
	}
	return toyc.Token{}, false
}

func contains(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

func operandKinds(tokens []toyc.Token) string {
	kinds := make([]string, len(tokens))
	for i, t := range tokens {
		kinds[i] = t.Kind
	}
	return strings.Join(kinds, " ")
}
