package lr

import (
	"fmt"
	"io"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/toyc/lr/sparse"
)

// Actions for parser action tables.
const (
	ShiftAction  = -1
	AcceptAction = -2
)

// === Closure and Goto-Set Operations =======================================

// Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.
// Section 6.2.1 LR(0) Parsing

// Compute the closure of an item.
func (ga *LRAnalysis) closure(i Item, A *Symbol) *treeset.Set {
	S := newItemSet()
	S.Add(i)
	return ga.closureSet(S)
}

// Compute the closure of an item set.
func (ga *LRAnalysis) closureSet(S *treeset.Set) *treeset.Set {
	C := newItemSet()
	C.Add(S.Values()...)
	work := S.Values()
	for len(work) > 0 {
		item := asItem(work[len(work)-1])
		work = work[:len(work)-1]
		A := item.PeekSymbol()           // get symbol A after dot
		if A != nil && !A.IsTerminal() { // A is non-terminal
			for _, r := range ga.g.FindNonTermRules(A) {
				i, _ := StartItem(r)
				if !C.Contains(i) {
					C.Add(i)
					work = append(work, i)
				}
			}
		}
	}
	return C
}

func (ga *LRAnalysis) gotoSet(closure *treeset.Set, A *Symbol) (*treeset.Set, *Symbol) {
	// for every item in closure C
	// if item in C:  N -> ... *A ...
	//     advance N -> ... A * ...
	gotoset := newItemSet()
	for _, x := range closure.Values() {
		i := asItem(x)
		if i.PeekSymbol() == A {
			ii := i.Advance()
			tracer().Debugf("goto(%s) -%s-> %s", i, A, ii)
			gotoset.Add(ii)
		}
	}
	return gotoset, A
}

func (ga *LRAnalysis) gotoSetClosure(i *treeset.Set, A *Symbol) (*treeset.Set, *Symbol) {
	gotoset, _ := ga.gotoSet(i, A)
	gclosure := ga.closureSet(gotoset)
	tracer().Debugf("goto(%s) --%s--> %s", itemSetString(i), A, itemSetString(gclosure))
	return gclosure, A
}

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID     int          // serial ID of this state
	items  *treeset.Set // configuration items within this state
	Accept bool         // is this an accepting state?
}

// CFSM edge between 2 states, directed and with a terminal
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label *Symbol
}

// Dump is a debugging helper
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	Dump(s.items)
	tracer().Debugf("-------------------------")
}

// Items returns the LR(0) items of a state.
func (s *CFSMState) Items() []Item {
	items := make([]Item, 0, s.items.Size())
	for _, x := range s.items.Values() {
		items = append(items, asItem(x))
	}
	return items
}

// Create a state from an item set
func state(id int, iset *treeset.Set) *CFSMState {
	s := &CFSMState{ID: id}
	if iset == nil {
		s.items = newItemSet()
	} else {
		s.items = iset
	}
	return s
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.Size())
}

func (s *CFSMState) containsCompletedStartRule() bool {
	for _, x := range s.items.Values() {
		i := asItem(x)
		if i.rule.Serial == 0 && i.PeekSymbol() == nil {
			return true
		}
	}
	return false
}

// Create an edge
func edge(from, to *CFSMState, label *Symbol) *cfsmEdge {
	return &cfsmEdge{
		from:  from,
		to:    to,
		label: label,
	}
}

// We need this for the set of states. It sorts states by serial ID.
func stateComparator(s1, s2 interface{}) int {
	c1 := s1.(*CFSMState)
	c2 := s2.(*CFSMState)
	return utils.IntComparator(c1.ID, c2.ID)
}

// Add a state to the CFSM. Checks first if state is present.
func (c *CFSM) addState(iset *treeset.Set) *CFSMState {
	s := c.findStateByItems(iset)
	if s == nil {
		s = state(c.cfsmIds, iset)
		c.cfsmIds++
	}
	c.states.Add(s)
	return s
}

// Find a CFSM state by the contained item set.
func (c *CFSM) findStateByItems(iset *treeset.Set) *CFSMState {
	it := c.states.Iterator()
	for it.Next() {
		s := it.Value().(*CFSMState)
		if itemSetsEqual(s.items, iset) {
			return s
		}
	}
	return nil
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, sym *Symbol) *cfsmEdge {
	e := edge(s0, s1, sym)
	c.edges.Add(e)
	return e
}

func (c *CFSM) allEdges(s *CFSMState) []*cfsmEdge {
	it := c.edges.Iterator()
	r := make([]*cfsmEdge, 0, 2)
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		if e.from == s {
			r = append(r, e)
		}
	}
	return r
}

// CFSM is the characteristic finite state machine for a LR grammar, i.e. the
// LR(0) state diagram. Will be constructed by a TableGenerator.
// Clients normally do not use it directly. Nevertheless, there are some methods
// defined on it, e.g, for debugging purposes, or even to
// compute your own tables from it.
type CFSM struct {
	g       *Grammar        // this CFSM is for Grammar g
	states  *treeset.Set    // all the states
	edges   *arraylist.List // all the edges between states
	S0      *CFSMState      // start state
	cfsmIds int             // serial IDs for CFSM states
}

// create an empty (initial) CFSM automata.
func emptyCFSM(g *Grammar) *CFSM {
	c := &CFSM{g: g}
	c.states = treeset.NewWith(stateComparator)
	c.edges = arraylist.New()
	return c
}

// States returns all states of the CFSM, ordered by ID.
func (c *CFSM) States() []*CFSMState {
	states := make([]*CFSMState, 0, c.states.Size())
	for _, x := range c.states.Values() {
		states = append(states, x.(*CFSMState))
	}
	return states
}

// TableGenerator is a generator object to construct LR parser tables.
// Clients usually create a Grammar G, then a LRAnalysis-object for G,
// and then a table generator. TableGenerator.CreateTables() constructs
// the CFSM and parser tables for an LR-parser recognizing grammar G.
type TableGenerator struct {
	g            *Grammar
	ga           *LRAnalysis
	dfa          *CFSM
	gototable    *Table
	actiontable  *Table
	conflicts    []Conflict
	HasConflicts bool
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed) grammar.
func NewTableGenerator(ga *LRAnalysis) *TableGenerator {
	lrgen := &TableGenerator{}
	lrgen.g = ga.Grammar()
	lrgen.ga = ga
	return lrgen
}

// Grammar returns the grammar the tables are generated for.
func (lrgen *TableGenerator) Grammar() *Grammar {
	return lrgen.g
}

// CFSM returns the characteristic finite state machine (CFSM) for a grammar.
// Usually clients call lrgen.CreateTables() beforehand, but it is possible
// to call lrgen.CFSM() directly. The CFSM will be created, if it has not
// been constructed previously.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		lrgen.dfa = lrgen.buildCFSM()
	}
	return lrgen.dfa
}

// GotoTable returns the GOTO table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously.
func (lrgen *TableGenerator) GotoTable() *Table {
	if lrgen.gototable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.gototable
}

// ActionTable returns the ACTION table for LR-parsing a grammar. The tables have to be
// built by calling CreateTables() previously.
func (lrgen *TableGenerator) ActionTable() *Table {
	if lrgen.actiontable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.actiontable
}

// Conflicts returns the table cells with more than one action.
func (lrgen *TableGenerator) Conflicts() []Conflict {
	return lrgen.conflicts
}

// CreateTables creates the necessary data structures for an SLR parser.
func (lrgen *TableGenerator) CreateTables() {
	lrgen.dfa = lrgen.buildCFSM()
	lrgen.gototable = lrgen.BuildGotoTable()
	lrgen.actiontable, lrgen.HasConflicts = lrgen.BuildSLR1ActionTable()
}

// Construct the characteristic finite state machine CFSM for a grammar.
func (lrgen *TableGenerator) buildCFSM() *CFSM {
	tracer().Debugf("=== build CFSM ==================================================")
	G := lrgen.g
	cfsm := emptyCFSM(G)
	closure0 := lrgen.ga.closure(StartItem(G.rules[0]))
	cfsm.S0 = cfsm.addState(closure0)
	cfsm.S0.Dump()
	S := treeset.NewWith(stateComparator)
	S.Add(cfsm.S0)
	for S.Size() > 0 {
		s := S.Values()[0].(*CFSMState)
		S.Remove(s)
		G.EachSymbol(func(A *Symbol) interface{} {
			gotoset, _ := lrgen.ga.gotoSetClosure(s.items, A)
			if gotoset.Empty() {
				return nil
			}
			snew := cfsm.findStateByItems(gotoset)
			if snew == nil {
				snew = cfsm.addState(gotoset)
				S.Add(snew)
				if snew.containsCompletedStartRule() {
					snew.Accept = true
				}
				snew.Dump()
			}
			cfsm.addEdge(s, snew, A)
			return nil
		})
	}
	tracer().Infof("CFSM for %s has %d states", G.Name, cfsm.states.Size())
	return cfsm
}

// CFSM2GraphViz exports a CFSM to the Graphviz Dot format.
func (c *CFSM) CFSM2GraphViz(w io.Writer) error {
	_, err := io.WriteString(w, `digraph {
graph [splines=true, fontname=Helvetica, fontsize=10];
node [shape=Mrecord, style=filled, fontname=Helvetica, fontsize=10];
edge [fontname=Helvetica, fontsize=10];

`)
	if err != nil {
		return err
	}
	for _, x := range c.states.Values() {
		s := x.(*CFSMState)
		fmt.Fprintf(w, "s%03d [fillcolor=%s label=\"{%03d | %s}\"]\n",
			s.ID, nodecolor(s), s.ID, forGraphviz(s.items))
	}
	it := c.edges.Iterator()
	for it.Next() {
		edge := it.Value().(*cfsmEdge)
		fmt.Fprintf(w, "s%03d -> s%03d [label=\"%s\"]\n", edge.from.ID, edge.to.ID, edge.label)
	}
	_, err = io.WriteString(w, "}\n")
	return err
}

func nodecolor(state *CFSMState) string {
	if state.Accept {
		return "lightgray"
	}
	return "white"
}

// ===========================================================================

// BuildGotoTable builds the GOTO table. This is normally not called directly, but rather
// via CreateTables(). Edges on terminals double as shift targets.
func (lrgen *TableGenerator) BuildGotoTable() *Table {
	statescnt := lrgen.dfa.states.Size()
	extent := lrgen.g.SymbolCount()
	tracer().Infof("GOTO table of size %d x %d", statescnt, extent)
	gototable := &Table{
		matrix: sparse.NewIntMatrix(statescnt, extent, sparse.DefaultNullValue),
	}
	states := lrgen.dfa.states.Iterator()
	for states.Next() {
		state := states.Value().(*CFSMState)
		for _, e := range lrgen.dfa.allEdges(state) {
			gototable.set(state.ID, e.label, int32(e.to.ID))
		}
	}
	return gototable
}

// GotoTableAsHTML exports a GOTO-table in HTML-format.
func GotoTableAsHTML(lrgen *TableGenerator, w io.Writer) {
	if lrgen.gototable == nil {
		tracer().Errorf("GOTO table not yet created, cannot export to HTML")
		return
	}
	parserTableAsHTML(lrgen, "GOTO", lrgen.gototable, w)
}

// ActionTableAsHTML exports the SLR(1) ACTION-table in HTML-format.
func ActionTableAsHTML(lrgen *TableGenerator, w io.Writer) {
	if lrgen.actiontable == nil {
		tracer().Errorf("ACTION table not yet created, cannot export to HTML")
		return
	}
	parserTableAsHTML(lrgen, "ACTION", lrgen.actiontable, w)
}

func parserTableAsHTML(lrgen *TableGenerator, tname string, table *Table, w io.Writer) {
	io.WriteString(w, "<html><body>\n")
	io.WriteString(w, fmt.Sprintf("%s table of size = %d<p>", tname, table.matrix.ValueCount()))
	io.WriteString(w, "<table border=1 cellspacing=0 cellpadding=5>\n")
	io.WriteString(w, "<tr bgcolor=#cccccc><td></td>\n")
	lrgen.g.EachSymbol(func(A *Symbol) interface{} {
		io.WriteString(w, fmt.Sprintf("<td>%s</td>", A))
		return nil
	})
	io.WriteString(w, "</tr>\n")
	var td string // table cell
	for _, state := range lrgen.dfa.States() {
		io.WriteString(w, fmt.Sprintf("<tr><td>state %d</td>\n", state.ID))
		for _, A := range lrgen.g.symbols {
			v1, v2 := table.Values(state.ID, A)
			if v1 == table.NullValue() {
				td = "&nbsp;"
			} else if v2 == table.NullValue() {
				td = valstring(v1, table)
			} else {
				td = valstring(v1, table) + "/" + valstring(v2, table)
			}
			io.WriteString(w, "<td>")
			io.WriteString(w, td)
			io.WriteString(w, "</td>\n")
		}
		io.WriteString(w, "</tr>\n")
	}
	io.WriteString(w, "</table></body></html>\n")
}

// ===========================================================================

// BuildSLR1ActionTable constructs the SLR(1) Action table. This method is normally not called
// by clients, but rather via CreateTables(). It builds an action table including
// lookahead (using the FOLLOW-set created by the grammar analyzer).
func (lrgen *TableGenerator) BuildSLR1ActionTable() (*Table, bool) {
	statescnt := lrgen.dfa.states.Size()
	extent := lrgen.g.SymbolCount()
	tracer().Infof("ACTION.1 table of size %d x %d", statescnt, extent)
	actions := &Table{
		matrix: sparse.NewIntMatrix(statescnt, extent, sparse.DefaultNullValue),
	}
	return lrgen.buildActionTable(actions)
}

// For building an ACTION table we iterate over all the states of the CFSM.
// An inner loop iterates over all the items within a CFSM-state.
// If an item has a terminal immediately after the dot, we produce a shift
// entry. If an item's dot is behind the complete RHS of a rule,
// we produce a reduce-entry for the rule for each terminal from FOLLOW(LHS).
// A completed start rule produces an accept entry for the end marker.
//
// The table is returned as a sparse matrix, where every entry may consist of up
// to 2 entries, thus allowing for shift/reduce- or reduce/reduce-conflicts.
//
// Shift entries are represented as -1, accept as -2. Reduce entries are encoded
// as the ordinal no. of the grammar rule to reduce.
func (lrgen *TableGenerator) buildActionTable(actions *Table) (*Table, bool) {
	hasConflicts := false
	lrgen.conflicts = nil
	for _, state := range lrgen.dfa.States() {
		tracer().Debugf("--- state %d --------------------------------", state.ID)
		for _, v := range state.items.Values() {
			i := asItem(v)
			A := i.PeekSymbol()
			if A != nil && A.IsTerminal() { // create a shift entry
				a1 := actions.Value(state.ID, A)
				if a1 == ShiftAction {
					tracer().Debugf("    relax, double shift")
					continue
				}
				actions.add(state.ID, A, ShiftAction)
				if a1 != actions.NullValue() {
					hasConflicts = true
					lrgen.conflict(actions, state, A)
				}
				tracer().Debugf(actionEntry(state.ID, A, actions))
			}
			if A == nil { // we are at the end of a rule
				if i.rule.Serial == 0 {
					actions.add(state.ID, lrgen.g.EOF, AcceptAction)
					continue
				}
				lookaheads := lrgen.ga.Follow(i.rule.LHS)
				tracer().Debugf("    Follow(%v) = %v", i.rule.LHS, lookaheads)
				for _, la := range lookaheads {
					a1 := actions.Value(state.ID, la)
					actions.add(state.ID, la, int32(i.rule.Serial)) // reduce rule
					if a1 != actions.NullValue() {
						tracer().Debugf("    %s is 2nd action", valstring(int32(i.rule.Serial), actions))
						hasConflicts = true
						lrgen.conflict(actions, state, la)
					}
					tracer().Debugf("    creating reduce_%d action entry @ %v for %v", i.rule.Serial, la, i.rule)
				}
			}
		}
	}
	return actions, hasConflicts
}

// Conflict is an ACTION table cell with two actions.
type Conflict struct {
	State    int
	Terminal *Symbol
	Actions  [2]int32
}

func (c Conflict) String() string {
	return fmt.Sprintf("conflict in state %d on %s: %s vs. %s", c.State, c.Terminal,
		valstring(c.Actions[0], nil), valstring(c.Actions[1], nil))
}

func (lrgen *TableGenerator) conflict(actions *Table, state *CFSMState, A *Symbol) {
	a1, a2 := actions.Values(state.ID, A)
	for _, c := range lrgen.conflicts {
		if c.State == state.ID && c.Terminal == A {
			return
		}
	}
	c := Conflict{State: state.ID, Terminal: A, Actions: [2]int32{a1, a2}}
	tracer().Infof("%v", c)
	lrgen.conflicts = append(lrgen.conflicts, c)
}

// ---------------------------------------------------------------------------

// Table is a parser table, indexed by CFSM state and grammar symbol.
type Table struct {
	matrix *sparse.IntMatrix
}

func (t *Table) add(state int, A *Symbol, val int32) {
	t.matrix.Add(state, A.Value, val)
}

func (t *Table) set(state int, A *Symbol, val int32) {
	t.matrix.Set(state, A.Value, val)
}

// NullValue is the value of empty cells.
func (t *Table) NullValue() int32 {
	return t.matrix.NullValue()
}

// Value returns the primary entry for (state, A).
func (t *Table) Value(state int, A *Symbol) int32 {
	return t.matrix.Value(state, A.Value)
}

// Values returns both entries for (state, A).
func (t *Table) Values(state int, A *Symbol) (int32, int32) {
	return t.matrix.Values(state, A.Value)
}

// ----------------------------------------------------------------------

func actionEntry(stateID int, la *Symbol, aT *Table) string {
	a1, a2 := aT.Values(stateID, la)
	return fmt.Sprintf("Action(%s,%s)", valstring(a1, aT), valstring(a2, aT))
}

// valstring is a short helper to stringify an action table entry.
func valstring(v int32, m *Table) string {
	if v == sparse.DefaultNullValue || m != nil && v == m.NullValue() {
		return "<none>"
	} else if v == AcceptAction {
		return "<accept>"
	} else if v == ShiftAction {
		return "<shift>"
	}
	return fmt.Sprintf("<reduce %d>", v)
}
