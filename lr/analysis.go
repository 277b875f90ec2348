package lr

import (
	"github.com/emirpasic/gods/sets/treeset"
)

// LRAnalysis is an object for grammar analysis (compute FIRST and FOLLOW sets
// and the set of epsilon-deriving non-terminals).
type LRAnalysis struct {
	g          *Grammar
	derivesEps map[*Symbol]bool
	firstSets  map[*Symbol]*treeset.Set // sets of symbol values
	followSets map[*Symbol]*treeset.Set
}

// Analysis creates an analyser for a grammar. The analyser immediately
// starts its work and computes FIRST and FOLLOW.
func Analysis(g *Grammar) *LRAnalysis {
	ga := &LRAnalysis{
		g:          g,
		derivesEps: make(map[*Symbol]bool),
		firstSets:  make(map[*Symbol]*treeset.Set),
		followSets: make(map[*Symbol]*treeset.Set),
	}
	g.EachNonTerminal(func(A *Symbol) interface{} {
		ga.firstSets[A] = treeset.NewWithIntComparator()
		ga.followSets[A] = treeset.NewWithIntComparator()
		return nil
	})
	ga.markEps()
	ga.initFirstSets()
	ga.initFollowSets()
	return ga
}

// Grammar returns the grammar this analyser operates on.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

// DerivesEpsilon returns true if there are rules in the grammar which let
// non-terminal A derive epsilon.
func (ga *LRAnalysis) DerivesEpsilon(A *Symbol) bool {
	return ga.derivesEps[A]
}

// First returns FIRST(A), ordered by symbol value. FIRST of a terminal is the
// terminal itself. Epsilon is not part of the set, use DerivesEpsilon.
func (ga *LRAnalysis) First(A *Symbol) []*Symbol {
	if A.IsTerminal() {
		return []*Symbol{A}
	}
	return ga.symbolsOf(ga.firstSets[A])
}

// Follow returns FOLLOW(A), ordered by symbol value.
func (ga *LRAnalysis) Follow(A *Symbol) []*Symbol {
	if A.IsTerminal() {
		return nil
	}
	return ga.symbolsOf(ga.followSets[A])
}

func (ga *LRAnalysis) symbolsOf(set *treeset.Set) []*Symbol {
	syms := make([]*Symbol, 0, set.Size())
	for _, v := range set.Values() {
		syms = append(syms, ga.g.symbols[v.(int)])
	}
	return syms
}

func (ga *LRAnalysis) markEps() {
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			if ga.derivesEps[r.LHS] {
				continue
			}
			eps := true
			for _, A := range r.rhs {
				if A.IsTerminal() || !ga.derivesEps[A] {
					eps = false
					break
				}
			}
			if eps {
				tracer().Debugf("%s derives epsilon", r.LHS)
				ga.derivesEps[r.LHS] = true
				changed = true
			}
		}
	}
}

func (ga *LRAnalysis) initFirstSets() {
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			first := ga.firstSets[r.LHS]
			size := first.Size()
			ga.addFirstOfSequence(first, r.rhs)
			if first.Size() > size {
				changed = true
			}
		}
	}
}

// addFirstOfSequence adds FIRST(X1 … Xn) to set and returns true if the
// sequence derives epsilon.
func (ga *LRAnalysis) addFirstOfSequence(set *treeset.Set, seq []*Symbol) bool {
	for _, A := range seq {
		if A.IsTerminal() {
			set.Add(A.Value)
			return false
		}
		set.Add(ga.firstSets[A].Values()...)
		if !ga.derivesEps[A] {
			return false
		}
	}
	return true
}

func (ga *LRAnalysis) initFollowSets() {
	ga.followSets[ga.g.Start()].Add(ga.g.EOF.Value)
	for changed := true; changed; {
		changed = false
		for _, r := range ga.g.rules {
			for i, A := range r.rhs {
				if A.IsTerminal() {
					continue
				}
				follow := ga.followSets[A]
				size := follow.Size()
				if ga.addFirstOfSequence(follow, r.rhs[i+1:]) {
					follow.Add(ga.followSets[r.LHS].Values()...)
				}
				if follow.Size() > size {
					changed = true
				}
			}
		}
	}
	ga.g.EachNonTerminal(func(A *Symbol) interface{} {
		tracer().Debugf("FOLLOW(%s) = %v", A, symbolNames(ga.Follow(A)))
		return nil
	})
}
