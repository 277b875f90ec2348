package tree

// Listener is a type for walking a syntax tree.
//
// Enter is called for every internal node before its children are visited.
// It returns a boolean value indicating if the walk should continue to the
// children of the node. Exit is called after the children have been visited
// (and not at all if Enter returned an error). Terminal is called for leaves.
// Any error aborts the walk.
//
// Enter will be called for nodes of epsilon-productions, too, which are
// internal nodes without children.
type Listener interface {
	Enter(n *Node, level int) (bool, error)
	Exit(n *Node, level int) error
	Terminal(n *Node, level int) error
}

// Walk traverses a forest top-down and left-to-right, calling listener
// methods for all nodes encountered.
func Walk(forest []*Node, listener Listener) error {
	for _, root := range forest {
		if err := walk(root, listener, 0); err != nil {
			return err
		}
	}
	return nil
}

func walk(n *Node, listener Listener, level int) error {
	if n.IsLeaf() {
		return listener.Terminal(n, level)
	}
	descend, err := listener.Enter(n, level)
	if err != nil {
		return err
	}
	if descend {
		for _, ch := range n.Children {
			if err = walk(ch, listener, level+1); err != nil {
				return err
			}
		}
	}
	return listener.Exit(n, level)
}

// LeveledItem is a node label together with its nesting level.
type LeveledItem struct {
	Level int
	Text  string
}

// Leveled flattens a forest into a pre-order list of labels with their
// nesting levels. Leaves are represented by their lexemes. The result is
// suited for rendering a tree on a terminal.
func Leveled(forest []*Node) []LeveledItem {
	var ll []LeveledItem
	for _, root := range forest {
		ll = leveled(root, ll, 0)
	}
	return ll
}

func leveled(n *Node, ll []LeveledItem, level int) []LeveledItem {
	text := n.Label()
	if n.IsLeaf() {
		text = n.Token.Lexeme
	}
	ll = append(ll, LeveledItem{Level: level, Text: text})
	for _, ch := range n.Children {
		ll = leveled(ch, ll, level+1)
	}
	return ll
}

// Each calls f for every node of a tree in pre-order.
func Each(n *Node, f func(*Node)) {
	f(n)
	for _, ch := range n.Children {
		Each(ch, f)
	}
}
