package slr

import (
	"fmt"
	"strconv"

	"github.com/npillmayer/toyc"
	"github.com/npillmayer/toyc/lr"
)

// ExportOption configures the export of generated tables.
type ExportOption func(*exportConfig)

type exportConfig struct {
	ignoreConflicts bool
}

// IgnoreConflicts lets Export write tables for grammars which are not SLR(1).
// For conflicting cells, the action entered first by the table generator is
// written.
func IgnoreConflicts() ExportOption {
	return func(c *exportConfig) {
		c.ignoreConflicts = true
	}
}

// Export converts the tables of a table generator into a table document.
// CreateTables must have been called on the generator. Grammars which are not
// SLR(1) cannot be exported, unless option IgnoreConflicts is given.
//
// Reductions are written with the length of the rule's right hand side and
// the rule's left hand side. GOTO entries are written with the wildcard
// lookahead "ANY", as SLR(1) GOTO entries do not depend on the lookahead.
func Export(lrgen *lr.TableGenerator, opts ...ExportOption) (Document, error) {
	conf := &exportConfig{}
	for _, opt := range opts {
		opt(conf)
	}
	if lrgen.HasConflicts && !conf.ignoreConflicts {
		return nil, fmt.Errorf("grammar %s is not SLR(1): %v", lrgen.Grammar().Name, lrgen.Conflicts())
	}
	g := lrgen.Grammar()
	actions, gotos := lrgen.ActionTable(), lrgen.GotoTable()
	if actions == nil || gotos == nil {
		return nil, fmt.Errorf("tables for grammar %s not yet created", g.Name)
	}
	doc := make(Document)
	for _, state := range lrgen.CFSM().States() {
		entry := StateEntry{
			Action: make(map[string]string),
			Goto:   make(map[string]map[string]StateRef),
		}
		g.EachTerminal(func(A *lr.Symbol) interface{} {
			a := actions.Value(state.ID, A)
			switch {
			case a == actions.NullValue():
			case a == lr.AcceptAction:
				entry.Action[A.Name] = Action{Kind: Accept}.String()
			case a == lr.ShiftAction:
				target := int(gotos.Value(state.ID, A))
				entry.Action[A.Name] = Action{Kind: Shift, State: target}.String()
			default:
				r := g.Rule(int(a))
				entry.Action[A.Name] = Action{
					Kind:        Reduce,
					Count:       len(r.RHS()),
					Nonterminal: r.LHS.Name,
				}.String()
			}
			return nil
		})
		g.EachNonTerminal(func(A *lr.Symbol) interface{} {
			if A == g.Start() {
				return nil
			}
			if target := gotos.Value(state.ID, A); target != gotos.NullValue() {
				entry.Goto[A.Name] = map[string]StateRef{
					toyc.Any: StateRef(strconv.Itoa(int(target))),
				}
			}
			return nil
		})
		doc[strconv.Itoa(state.ID)] = entry
	}
	tracer().Infof("exported table for grammar %s with %d states", g.Name, len(doc))
	return doc, nil
}
