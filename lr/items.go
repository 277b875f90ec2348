package lr

import (
	"bytes"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// Item is an LR(0) item, i.e. a rule with a dot position.
//
//    A ➞ B • c D
//
type Item struct {
	rule *Rule
	dot  int
}

// StartItem returns the item with the dot at the start of the rule's RHS,
// together with the symbol after the dot (nil for epsilon-rules).
func StartItem(r *Rule) (Item, *Symbol) {
	i := Item{rule: r}
	return i, i.PeekSymbol()
}

// Rule returns the rule of an item.
func (i Item) Rule() *Rule {
	return i.rule
}

// PeekSymbol returns the symbol after the dot, or nil if the dot is at the end.
func (i Item) PeekSymbol() *Symbol {
	if i.dot >= len(i.rule.rhs) {
		return nil
	}
	return i.rule.rhs[i.dot]
}

// Advance moves the dot over the next symbol.
func (i Item) Advance() Item {
	if i.dot < len(i.rule.rhs) {
		i.dot++
	}
	return i
}

// Prefix returns the symbols before the dot.
func (i Item) Prefix() []*Symbol {
	return i.rule.rhs[:i.dot]
}

func (i Item) String() string {
	var b strings.Builder
	b.WriteString(i.rule.LHS.Name)
	b.WriteString(" ➞")
	for k, A := range i.rule.rhs {
		if k == i.dot {
			b.WriteString(" •")
		}
		b.WriteString(" ")
		b.WriteString(A.Name)
	}
	if i.dot >= len(i.rule.rhs) {
		b.WriteString(" •")
	}
	return b.String()
}

// --- Item sets -------------------------------------------------------------

// itemComparator orders items by rule number, then by dot position.
func itemComparator(i1, i2 interface{}) int {
	a, b := asItem(i1), asItem(i2)
	if c := utils.IntComparator(a.rule.Serial, b.rule.Serial); c != 0 {
		return c
	}
	return utils.IntComparator(a.dot, b.dot)
}

func asItem(x interface{}) Item {
	return x.(Item)
}

func newItemSet() *treeset.Set {
	return treeset.NewWith(itemComparator)
}

func itemSetsEqual(s1, s2 *treeset.Set) bool {
	return s1.Size() == s2.Size() && s1.Contains(s2.Values()...)
}

// Dump is a debugging helper for item sets.
func Dump(iset *treeset.Set) {
	for _, x := range iset.Values() {
		tracer().Debugf("   %s", asItem(x))
	}
}

func itemSetString(S *treeset.Set) string {
	var b bytes.Buffer
	b.WriteString("{")
	for k, x := range S.Values() {
		if k == 0 {
			b.WriteString(" ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(asItem(x).String())
	}
	b.WriteString(" }")
	return b.String()
}

// forGraphviz formats an item set as a record label.
func forGraphviz(S *treeset.Set) string {
	var b bytes.Buffer
	r := strings.NewReplacer(`"`, `\"`, "{", `\{`, "}", `\}`, "|", `\|`, "<", `\<`, ">", `\>`)
	for k, x := range S.Values() {
		if k > 0 {
			b.WriteString(`\l`)
		}
		b.WriteString(r.Replace(asItem(x).String()))
	}
	b.WriteString(`\l`)
	return b.String()
}
