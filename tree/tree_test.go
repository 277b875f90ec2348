package tree

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/toyc"
)

func sample() *Node {
	// (assign-nt (variable-nt x) = (exp-nt 1))
	x := NewLeaf(toyc.MakeToken(toyc.VARIABLE, "x", 2, 10, 11))
	eq := NewLeaf(toyc.MakeToken(toyc.EQUAL, "=", 2, 12, 13))
	one := NewLeaf(toyc.MakeToken(toyc.NUMBER, "1", 2, 14, 15))
	semi := toyc.MakeToken(toyc.SEMICOLON, ";", 2, 15, 16)
	v := NewInternal("variable-nt", []*Node{x}, eq.Token)
	e := NewInternal("exp-nt", []*Node{one}, semi)
	return NewInternal("assign-nt", []*Node{v, eq, e}, semi)
}

func TestInternalNodes(t *testing.T) {
	root := sample()
	if root.IsLeaf() || root.Token.Lexeme != "" || root.Label() != "assign-nt" {
		t.Errorf("unexpected root token %v", root.Token)
	}
	if root.Span() != (toyc.Span{10, 15}) || root.Token.Line != 2 {
		t.Errorf("expected root at line 2 spanning (10…15), is %v", root.Span())
	}
	if s := root.String(); s != "(assign-nt (variable-nt x) = (exp-nt 1))" {
		t.Errorf("unexpected s-expr %s", s)
	}
	eps := NewInternal("name-nt", nil, toyc.MakeToken(toyc.LEFT_PARENTHESIS, "(", 1, 7, 8))
	if eps.IsLeaf() || eps.Span() != (toyc.Span{7, 7}) || eps.String() != "(name-nt)" {
		t.Errorf("unexpected epsilon node %v at %v", eps, eps.Span())
	}
}

type recorder struct {
	labels []string
	skip   string
	fail   string
}

func (r *recorder) Enter(n *Node, level int) (bool, error) {
	r.labels = append(r.labels, "+"+n.Label())
	return n.Label() != r.skip, nil
}

func (r *recorder) Exit(n *Node, level int) error {
	r.labels = append(r.labels, "-"+n.Label())
	return nil
}

func (r *recorder) Terminal(n *Node, level int) error {
	if n.Token.Lexeme == r.fail {
		return errors.New("failed")
	}
	r.labels = append(r.labels, n.Token.Lexeme)
	return nil
}

func TestWalk(t *testing.T) {
	r := &recorder{}
	if err := Walk([]*Node{sample()}, r); err != nil {
		t.Fatal(err)
	}
	expected := "+assign-nt +variable-nt x -variable-nt = +exp-nt 1 -exp-nt -assign-nt"
	if s := strings.Join(r.labels, " "); s != expected {
		t.Errorf("expected walk %q, have %q", expected, s)
	}
	r = &recorder{skip: "exp-nt"}
	Walk([]*Node{sample()}, r)
	if s := strings.Join(r.labels, " "); s != "+assign-nt +variable-nt x -variable-nt = +exp-nt -exp-nt -assign-nt" {
		t.Errorf("expected exp-nt not to be descended, have %q", s)
	}
	r = &recorder{fail: "="}
	if err := Walk([]*Node{sample()}, r); err == nil {
		t.Errorf("expected error to abort the walk")
	}
}

func TestLeveled(t *testing.T) {
	ll := Leveled([]*Node{sample()})
	if len(ll) != 6 {
		t.Fatalf("expected 6 items, have %d", len(ll))
	}
	if ll[0].Level != 0 || ll[2].Level != 2 || ll[2].Text != "x" || ll[3].Text != "=" {
		t.Errorf("unexpected leveled list %v", ll)
	}
}

func TestLeafWithoutLexeme(t *testing.T) {
	brace := NewLeaf(toyc.MakeToken(toyc.LEFT_CURLY_BRACE, "", 1, 3, 4))
	if !brace.IsLeaf() {
		t.Fatalf("a node created by NewLeaf must be a leaf, regardless of its lexeme")
	}
	eps := NewInternal("command-list-nt", nil, brace.Token)
	root := NewInternal("program-nt", []*Node{brace, eps}, brace.Token)
	r := &recorder{}
	if err := Walk([]*Node{root}, r); err != nil {
		t.Fatal(err)
	}
	expected := "+program-nt  +command-list-nt -command-list-nt -program-nt"
	if s := strings.Join(r.labels, " "); s != expected {
		t.Errorf("expected walk %q, have %q", expected, s)
	}
	if ll := Leveled([]*Node{root}); len(ll) != 3 || ll[1].Level != 1 {
		t.Errorf("unexpected leveled list %v", ll)
	}
}
