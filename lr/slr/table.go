package slr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/toyc"
)

// --- Table documents -------------------------------------------------------

// Document is the serialized form of a parsing table:
//
//    { "<state>": { "ACTION": { "<terminal>|ANY": "S 4" | "R 3 exp-nt" | "ACC" },
//                   "GOTO":   { "<non-terminal>": { "<terminal>|ANY": "<state>" } } } }
//
type Document map[string]StateEntry

// StateEntry holds the ACTION and GOTO cells of one state.
type StateEntry struct {
	Action map[string]string              `json:"ACTION"`
	Goto   map[string]map[string]StateRef `json:"GOTO"`
}

// StateRef is a GOTO target. It is written as a string, but may be read from
// a JSON string or number.
type StateRef string

// UnmarshalJSON accepts "4" as well as 4.
func (ref *StateRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*ref = StateRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("GOTO target must be a string or number: %s", data)
	}
	*ref = StateRef(n.String())
	return nil
}

// --- Actions ---------------------------------------------------------------

// ActionKind is the type of a parser action.
type ActionKind uint8

// Parser actions
const (
	Shift ActionKind = iota + 1
	Reduce
	Accept
)

func (k ActionKind) String() string {
	switch k {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	}
	return "<none>"
}

// Action is a typed ACTION table cell.
type Action struct {
	Kind        ActionKind
	State       int    // target state for Shift
	Count       int    // number of symbols to pop for Reduce
	Nonterminal string // left hand side for Reduce
}

// ParseAction decodes an action string of a table document.
func ParseAction(s string) (Action, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Action{}, fmt.Errorf("empty action")
	}
	switch fields[0] {
	case "S":
		if len(fields) != 2 {
			return Action{}, fmt.Errorf("malformed shift action %q", s)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 0 {
			return Action{}, fmt.Errorf("malformed shift target in %q", s)
		}
		return Action{Kind: Shift, State: n}, nil
	case "R":
		if len(fields) != 3 {
			return Action{}, fmt.Errorf("malformed reduce action %q", s)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 0 {
			return Action{}, fmt.Errorf("malformed reduce count in %q", s)
		}
		return Action{Kind: Reduce, Count: n, Nonterminal: fields[2]}, nil
	case "ACC":
		if len(fields) != 1 {
			return Action{}, fmt.Errorf("malformed accept action %q", s)
		}
		return Action{Kind: Accept}, nil
	}
	return Action{}, fmt.Errorf("unknown action %q", s)
}

// String encodes an action in table document syntax.
func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("S %d", a.State)
	case Reduce:
		return fmt.Sprintf("R %d %s", a.Count, a.Nonterminal)
	case Accept:
		return "ACC"
	}
	return "<none>"
}

// --- Compiled tables -------------------------------------------------------

// ErrMalformedTable is the error all table validation errors unwrap to.
var ErrMalformedTable = errors.New("malformed parsing table")

// TableError reports a malformed cell of a table document.
type TableError struct {
	State string // state key
	Key   string // ACTION lookahead or GOTO non-terminal, if any
	Err   error
}

func (e *TableError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%v: state %q: %v", ErrMalformedTable, e.State, e.Err)
	}
	return fmt.Sprintf("%v: state %q, %q: %v", ErrMalformedTable, e.State, e.Key, e.Err)
}

// Unwrap makes errors.Is(err, ErrMalformedTable) hold.
func (e *TableError) Unwrap() error {
	return ErrMalformedTable
}

type row struct {
	actions map[string]Action
	gotos   map[string]map[string]int
}

// Table is a compiled parsing table. All cells are decoded and validated when
// the table is compiled; a Table is immutable and may be shared between parsers.
type Table struct {
	rows         map[int]*row
	nonterminals map[string]bool
}

// StartState is the state a parse starts in.
const StartState = 0

type compileConfig struct {
	vocabulary map[string]bool
}

// CompileOption configures table compilation.
type CompileOption func(*compileConfig)

// WithVocabulary restricts the lookahead keys of a table to the given terminal
// kinds (plus "ANY" and the end marker).
func WithVocabulary(terminals ...string) CompileOption {
	return func(c *compileConfig) {
		c.vocabulary = map[string]bool{toyc.Any: true, toyc.EndMarker: true}
		for _, t := range terminals {
			c.vocabulary[t] = true
		}
	}
}

// Compile decodes and validates a table document.
func Compile(doc Document, opts ...CompileOption) (*Table, error) {
	conf := &compileConfig{}
	for _, opt := range opts {
		opt(conf)
	}
	t := &Table{
		rows:         make(map[int]*row, len(doc)),
		nonterminals: make(map[string]bool),
	}
	for key, entry := range doc {
		id, err := strconv.Atoi(key)
		if err != nil || id < 0 {
			return nil, &TableError{State: key, Err: fmt.Errorf("state ID must be a non-negative integer")}
		}
		r := &row{
			actions: make(map[string]Action, len(entry.Action)),
			gotos:   make(map[string]map[string]int, len(entry.Goto)),
		}
		for la, cell := range entry.Action {
			if conf.vocabulary != nil && !conf.vocabulary[la] {
				return nil, &TableError{State: key, Key: la, Err: fmt.Errorf("unknown terminal")}
			}
			a, err := ParseAction(cell)
			if err != nil {
				return nil, &TableError{State: key, Key: la, Err: err}
			}
			r.actions[la] = a
		}
		for nt, cells := range entry.Goto {
			t.nonterminals[nt] = true
			r.gotos[nt] = make(map[string]int, len(cells))
			for la, ref := range cells {
				if conf.vocabulary != nil && !conf.vocabulary[la] {
					return nil, &TableError{State: key, Key: nt, Err: fmt.Errorf("unknown terminal %q", la)}
				}
				target, err := strconv.Atoi(string(ref))
				if err != nil {
					return nil, &TableError{State: key, Key: nt, Err: fmt.Errorf("malformed GOTO target %q", ref)}
				}
				r.gotos[nt][la] = target
			}
		}
		t.rows[id] = r
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	tracer().Debugf("compiled parsing table with %d states", len(t.rows))
	return t, nil
}

// validate checks the cross-references within a table.
func (t *Table) validate() error {
	if _, ok := t.rows[StartState]; !ok {
		return &TableError{State: strconv.Itoa(StartState), Err: fmt.Errorf("start state missing")}
	}
	for id, r := range t.rows {
		key := strconv.Itoa(id)
		for la, a := range r.actions {
			if a.Kind == Shift && t.rows[a.State] == nil {
				return &TableError{State: key, Key: la, Err: fmt.Errorf("shift to unknown state %d", a.State)}
			}
			if a.Kind == Reduce && !t.nonterminals[a.Nonterminal] {
				return &TableError{State: key, Key: la, Err: fmt.Errorf("reduce to %q without GOTO entries", a.Nonterminal)}
			}
		}
		for nt, cells := range r.gotos {
			for _, target := range cells {
				if t.rows[target] == nil {
					return &TableError{State: key, Key: nt, Err: fmt.Errorf("GOTO to unknown state %d", target)}
				}
			}
		}
	}
	return nil
}

// Load reads a JSON table document and compiles it.
func Load(r io.Reader, opts ...CompileOption) (*Table, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	return Compile(doc, opts...)
}

// LoadFile reads and compiles a JSON table document from a file.
func LoadFile(path string, opts ...CompileOption) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, opts...)
}

// lookup finds the cell for a token kind, falling back to the wildcard key.
func lookup[V any](cells map[string]V, kind string) (V, bool) {
	if v, ok := cells[kind]; ok {
		return v, true
	}
	v, ok := cells[toyc.Any]
	return v, ok
}

// Action returns the action for a state and a lookahead token kind.
func (t *Table) Action(state int, kind string) (Action, bool) {
	r, ok := t.rows[state]
	if !ok {
		return Action{}, false
	}
	return lookup(r.actions, kind)
}

// Goto returns the successor state after reducing to a non-terminal, given the
// lookahead token kind.
func (t *Table) Goto(state int, nonterminal, kind string) (int, bool) {
	r, ok := t.rows[state]
	if !ok {
		return 0, false
	}
	cells, ok := r.gotos[nonterminal]
	if !ok {
		return 0, false
	}
	return lookup(cells, kind)
}

// Size returns the number of states of a table.
func (t *Table) Size() int {
	return len(t.rows)
}

// Document converts a compiled table back into its serialized form.
func (t *Table) Document() Document {
	doc := make(Document, len(t.rows))
	ids := make([]int, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		r := t.rows[id]
		entry := StateEntry{
			Action: make(map[string]string, len(r.actions)),
			Goto:   make(map[string]map[string]StateRef, len(r.gotos)),
		}
		for la, a := range r.actions {
			entry.Action[la] = a.String()
		}
		for nt, cells := range r.gotos {
			entry.Goto[nt] = make(map[string]StateRef, len(cells))
			for la, target := range cells {
				entry.Goto[nt][la] = StateRef(strconv.Itoa(target))
			}
		}
		doc[strconv.Itoa(id)] = entry
	}
	return doc
}
