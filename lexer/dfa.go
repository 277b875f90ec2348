package lexer

import (
	"fmt"

	"github.com/npillmayer/toyc"
)

// Lexeme pairs a fixed input text with the terminal kind it produces.
type Lexeme struct {
	Text string
	Kind string
}

// Keywords of the toy language. Keywords take precedence over identifiers of
// the same length.
var Keywords = []Lexeme{
	{"fn", toyc.FN_PROGRAM},
	{"main", toyc.MAIN_PROGRAM},
	{"if", toyc.IF},
	{"for", toyc.FOR},
	{"while", toyc.WHILE},
	{"print", toyc.PRINT},
	{"int", toyc.INTEGER_TYPE},
	{"string", toyc.STRING_TYPE},
}

// Operators and punctuation of the toy language.
var Operators = []Lexeme{
	{"(", toyc.LEFT_PARENTHESIS},
	{")", toyc.RIGHT_PARENTHESIS},
	{"[", toyc.LEFT_SQUARE_BRACKET},
	{"]", toyc.RIGHT_SQUARE_BRACKET},
	{"{", toyc.LEFT_CURLY_BRACE},
	{"}", toyc.RIGHT_CURLY_BRACE},
	{"+", toyc.PLUS},
	{"-", toyc.SUBTRACT},
	{"*", toyc.MULTIPLY},
	{"/", toyc.DIVIDE},
	{"%", toyc.MODULUS},
	{"^", toyc.EXPONENT},
	{">", toyc.GREATER_THAN},
	{">=", toyc.GREATER_THAN_OR_EQUAL},
	{"<", toyc.LESS_THAN},
	{"<=", toyc.LESS_THAN_OR_EQUAL},
	{"=", toyc.EQUAL},
	{"==", toyc.EQUAL_EQUAL},
	{";", toyc.SEMICOLON},
}

// State is a state of the lexer automaton.
type State int

// Start is the initial state of the automaton.
const Start State = 0

const noState State = -1

// stateInfo holds the transitions of a state and the terminal it emits.
// Transitions are tried in the order literal, letter, number, any.
type stateInfo struct {
	emits   string         // terminal kind to emit, empty for non-final states
	failure ErrorKind      // error to report if no transition applies while not final
	literal map[rune]State // transitions on specific characters
	letter  State          // transition on ASCII letters and '_'
	number  State          // transition on decimal digits
	any     State          // transition on anything but newline
}

// automaton is a deterministic finite automaton. States are indices into
// states, with Start being the first one.
type automaton struct {
	states []stateInfo
}

func (a *automaton) add(emits string) State {
	a.states = append(a.states, stateInfo{
		emits:   emits,
		failure: UnrecognizedCharacter,
		literal: make(map[rune]State),
		letter:  noState,
		number:  noState,
		any:     noState,
	})
	return State(len(a.states) - 1)
}

// step returns the successor of state s on input r.
func (a *automaton) step(s State, r rune) (State, bool) {
	info := &a.states[s]
	if next, ok := info.literal[r]; ok {
		return next, true
	}
	if info.letter != noState && isLetter(r) {
		return info.letter, true
	}
	if info.number != noState && isDigit(r) {
		return info.number, true
	}
	if info.any != noState && r != '\n' {
		return info.any, true
	}
	return noState, false
}

// Emits returns the terminal kind emitted by state s, or "" if s is not final.
func (a *automaton) Emits(s State) string {
	return a.states[s].emits
}

// chain adds literal transitions for text, starting from Start and re-using
// existing transitions. New intermediate states emit fallbackKind and branch
// to fallback on letters and digits, if fallback is a valid state. The last
// state of the chain emits kind.
func (a *automaton) chain(text, kind string, fallback State, fallbackKind string) {
	s := Start
	for _, r := range text {
		if next, ok := a.states[s].literal[r]; ok {
			s = next
			continue
		}
		next := a.add(fallbackKind)
		a.states[next].letter = fallback
		a.states[next].number = fallback
		a.states[s].literal[r] = next
		s = next
	}
	a.states[s].emits = kind
}

func (a *automaton) String() string {
	return fmt.Sprintf("<automaton with %d states>", len(a.states))
}

// newAutomaton builds the automaton for a set of keywords and operators.
// Identifiers, numbers and double-quoted string literals are built in.
func newAutomaton(keywords, operators []Lexeme) *automaton {
	a := &automaton{}
	start := a.add("")
	ident := a.add(toyc.VARIABLE)
	number := a.add(toyc.NUMBER)
	a.states[start].letter = ident
	a.states[start].number = number
	a.states[ident].letter = ident
	a.states[ident].number = ident
	a.states[number].number = number
	for _, kw := range keywords {
		a.chain(kw.Text, kw.Kind, ident, toyc.VARIABLE)
	}
	for _, op := range operators {
		a.chain(op.Text, op.Kind, noState, "")
	}
	body := a.add("")
	a.states[body].failure = UnterminatedString
	a.states[body].any = body
	str := a.add(toyc.STRING)
	a.states[start].literal['"'] = body
	a.states[body].literal['"'] = str
	return a
}

func isLetter(r rune) bool {
	return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
