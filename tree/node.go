package tree

import (
	"strings"

	"github.com/npillmayer/toyc"
)

// Node is a node of a syntax tree. A node owns its children.
type Node struct {
	Token    toyc.Token `json:"token"`
	Children []*Node    `json:"children,omitempty"`
	leaf     bool
}

// NewLeaf creates a leaf node for a token. A leaf stays a leaf whatever the
// token's lexeme is.
func NewLeaf(tok toyc.Token) *Node {
	return &Node{Token: tok, leaf: true}
}

// NewInternal creates a node for a reduced non-terminal. The node's span
// covers the spans of all children. If the children do not cover any input,
// the node is given an empty span in front of token at, which usually is the
// lookahead of the parser.
func NewInternal(label string, children []*Node, at toyc.Token) *Node {
	var span toyc.Span
	for _, ch := range children {
		span = span.Extend(ch.Span())
	}
	line := at.Line
	if span.IsNull() {
		span = toyc.Span{at.Start, at.Start}
	} else if len(children) > 0 {
		line = children[0].Token.Line
	}
	return &Node{
		Token: toyc.Token{
			Kind:  label,
			Line:  line,
			Start: span.From(),
			End:   span.To(),
		},
		Children: children,
	}
}

// Label returns the kind of the node's token, i.e. either a terminal kind or
// the name of a non-terminal.
func (n *Node) Label() string {
	return n.Token.Kind
}

// IsLeaf is true for nodes wrapping shifted tokens, i.e. nodes created with
// NewLeaf. Nodes of epsilon-productions have no children, but are not leaves.
func (n *Node) IsLeaf() bool {
	return n.leaf
}

// Span returns the input span of a node.
func (n *Node) Span() toyc.Span {
	return n.Token.Span()
}

// String returns an s-expression for a (sub-)tree.
func (n *Node) String() string {
	var b strings.Builder
	n.sexpr(&b)
	return b.String()
}

func (n *Node) sexpr(b *strings.Builder) {
	if len(n.Children) == 0 {
		if n.leaf {
			b.WriteString(n.Token.Lexeme)
		} else {
			b.WriteString("(" + n.Label() + ")")
		}
		return
	}
	b.WriteString("(" + n.Label())
	for _, ch := range n.Children {
		b.WriteByte(' ')
		ch.sexpr(b)
	}
	b.WriteByte(')')
}
