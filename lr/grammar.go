package lr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/toyc"
)

// --- Symbols ---------------------------------------------------------------

// Symbol is a grammar symbol, i.e. a terminal or a non-terminal. Terminals are
// named by the token kind they match.
type Symbol struct {
	Name     string
	Value    int // serial number of the symbol, used as column index in tables
	terminal bool
}

// IsTerminal returns true if this symbol represents a terminal.
func (s *Symbol) IsTerminal() bool {
	return s.terminal
}

func (s *Symbol) String() string {
	return s.Name
}

// --- Rules -----------------------------------------------------------------

// Rule is a type for rules of a grammar. Rules cannot be shared between grammars.
type Rule struct {
	Serial int       // order number of this rule within a grammar
	LHS    *Symbol   // symbol of left hand side
	rhs    []*Symbol // right hand side
}

// RHS returns the right hand side of a rule.
func (r *Rule) RHS() []*Symbol {
	return r.rhs
}

// IsEps returns true for epsilon-productions.
func (r *Rule) IsEps() bool {
	return len(r.rhs) == 0
}

func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString(r.LHS.Name)
	b.WriteString(" ➞")
	for _, A := range r.rhs {
		b.WriteString(" ")
		b.WriteString(A.Name)
	}
	if r.IsEps() {
		b.WriteString(" ε")
	}
	return b.String()
}

// --- Grammar ---------------------------------------------------------------

// Grammar is a type for a context-free grammar. Rule number 0 is the augmented
// start rule S' ➞ S, with S being the left hand side of the first rule given
// to the grammar builder.
type Grammar struct {
	Name         string
	rules        []*Rule
	symbols      []*Symbol // indexed by symbol value
	terminals    map[string]*Symbol
	nonterminals map[string]*Symbol
	EOF          *Symbol // end-of-input terminal
}

// Rule gets a grammar rule.
func (g *Grammar) Rule(no int) *Rule {
	if no < 0 || no >= len(g.rules) {
		return nil
	}
	return g.rules[no]
}

// Size returns the number of rules in the grammar.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// SymbolCount returns the number of symbols in the grammar.
func (g *Grammar) SymbolCount() int {
	return len(g.symbols)
}

// Start returns the augmented start symbol S'.
func (g *Grammar) Start() *Symbol {
	return g.rules[0].LHS
}

// SymbolByName gets a symbol for a given name, or nil.
func (g *Grammar) SymbolByName(name string) *Symbol {
	if A, ok := g.terminals[name]; ok {
		return A
	}
	return g.nonterminals[name]
}

// EachSymbol iterates over all symbols of the grammar, in order of their
// values. Return values of the mapper function are collected and returned.
func (g *Grammar) EachSymbol(mapper func(*Symbol) interface{}) []interface{} {
	var r []interface{}
	for _, A := range g.symbols {
		r = append(r, mapper(A))
	}
	return r
}

// EachTerminal iterates over all terminals of the grammar, in order of their
// values.
func (g *Grammar) EachTerminal(mapper func(*Symbol) interface{}) []interface{} {
	var r []interface{}
	for _, A := range g.symbols {
		if A.IsTerminal() {
			r = append(r, mapper(A))
		}
	}
	return r
}

// EachNonTerminal iterates over all non-terminals of the grammar, in order of
// their values.
func (g *Grammar) EachNonTerminal(mapper func(*Symbol) interface{}) []interface{} {
	var r []interface{}
	for _, A := range g.symbols {
		if !A.IsTerminal() {
			r = append(r, mapper(A))
		}
	}
	return r
}

// FindNonTermRules returns all rules with left hand side A.
func (g *Grammar) FindNonTermRules(A *Symbol) []*Rule {
	var rules []*Rule
	for _, r := range g.rules {
		if r.LHS == A {
			rules = append(rules, r)
		}
	}
	return rules
}

// Dump is a debugging helper.
func (g *Grammar) Dump() {
	tracer().Debugf("--- %s --------------------------------------------", g.Name)
	for _, r := range g.rules {
		tracer().Debugf("%3d: %s", r.Serial, r)
	}
	tracer().Debugf("-------------------------------------------------------")
}

// --- Grammar Builder -------------------------------------------------------

// GrammarBuilder is a builder type for grammars. Create one with
// NewGrammarBuilder. Example:
//
//    b := lr.NewGrammarBuilder("G")
//    b.LHS("S").T("LEFT_PARENTHESIS").N("S").T("RIGHT_PARENTHESIS").End()
//    b.LHS("S").Epsilon()
//    g, err := b.Grammar()
//
type GrammarBuilder struct {
	name  string
	rules []*ruleDraft
}

// RuleBuilder is a builder for a single rule.
type RuleBuilder struct {
	gb    *GrammarBuilder
	draft *ruleDraft
}

type ruleDraft struct {
	lhs string
	rhs []draftSymbol
}

type draftSymbol struct {
	name     string
	terminal bool
}

// NewGrammarBuilder gets a new grammar builder, given the name of the grammar
// to build.
func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{name: name}
}

// LHS starts a rule given the left hand side symbol (non-terminal).
func (gb *GrammarBuilder) LHS(name string) *RuleBuilder {
	d := &ruleDraft{lhs: name}
	gb.rules = append(gb.rules, d)
	return &RuleBuilder{gb: gb, draft: d}
}

// N appends a non-terminal to the right hand side of the rule.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.draft.rhs = append(rb.draft.rhs, draftSymbol{name: name})
	return rb
}

// T appends a terminal to the right hand side of the rule.
func (rb *RuleBuilder) T(name string) *RuleBuilder {
	rb.draft.rhs = append(rb.draft.rhs, draftSymbol{name: name, terminal: true})
	return rb
}

// End ends a rule.
func (rb *RuleBuilder) End() *GrammarBuilder {
	return rb.gb
}

// Epsilon sets epsilon as the right hand side of a rule. Symbols given before
// are discarded.
func (rb *RuleBuilder) Epsilon() *GrammarBuilder {
	rb.draft.rhs = nil
	return rb.gb
}

// Grammar returns the grammar built by this builder. It is an error to use a
// name for both a terminal and a non-terminal, or to reference a non-terminal
// without rules.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	if len(gb.rules) == 0 {
		return nil, fmt.Errorf("grammar %s has no rules", gb.name)
	}
	g := &Grammar{
		Name:         gb.name,
		terminals:    make(map[string]*Symbol),
		nonterminals: make(map[string]*Symbol),
	}
	lhs := make(map[string]bool)
	for _, d := range gb.rules {
		lhs[d.lhs] = true
	}
	start := gb.rules[0].lhs
	augmented := start + "'"
	if lhs[augmented] {
		return nil, fmt.Errorf("grammar %s: name %q is reserved for the start rule", gb.name, augmented)
	}
	g.EOF = g.symbol(toyc.EndMarker, true)
	S := g.symbol(augmented, false)
	g.rules = append(g.rules, &Rule{Serial: 0, LHS: S, rhs: []*Symbol{g.symbol(start, false)}})
	for _, d := range gb.rules {
		if _, isT := g.terminals[d.lhs]; isT {
			return nil, fmt.Errorf("grammar %s: %q used as terminal and non-terminal", gb.name, d.lhs)
		}
		r := &Rule{Serial: len(g.rules), LHS: g.symbol(d.lhs, false)}
		for _, ds := range d.rhs {
			if ds.terminal && lhs[ds.name] || !ds.terminal && !lhs[ds.name] {
				return nil, fmt.Errorf("grammar %s: %q is not a valid %s in rule %d",
					gb.name, ds.name, kindName(ds.terminal), r.Serial)
			}
			if ds.name == toyc.EndMarker {
				return nil, fmt.Errorf("grammar %s: end marker may not be used in rules", gb.name)
			}
			r.rhs = append(r.rhs, g.symbol(ds.name, ds.terminal))
		}
		g.rules = append(g.rules, r)
	}
	return g, nil
}

func (g *Grammar) symbol(name string, terminal bool) *Symbol {
	m := g.nonterminals
	if terminal {
		m = g.terminals
	}
	if A, ok := m[name]; ok {
		return A
	}
	A := &Symbol{Name: name, Value: len(g.symbols), terminal: terminal}
	g.symbols = append(g.symbols, A)
	m[name] = A
	return A
}

func kindName(terminal bool) string {
	if terminal {
		return "terminal"
	}
	return "non-terminal"
}

// symbolNames returns the sorted names of a list of symbols.
func symbolNames(syms []*Symbol) []string {
	names := make([]string, len(syms))
	for i, A := range syms {
		names[i] = A.Name
	}
	sort.Strings(names)
	return names
}
