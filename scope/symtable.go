package scope

import (
	"errors"
	"fmt"
)

// --- Types -----------------------------------------------------------------

// Type is the static type of a declared variable.
type Type int8

// Types of the toy language.
const (
	Undefined Type = iota
	Integer
	String
)

func (t Type) String() string {
	switch t {
	case Integer:
		return "Integer"
	case String:
		return "String"
	}
	return "Undefined"
}

// --- Tags ------------------------------------------------------------------

// Tag is the symbols type to be stored into symbol tables. It is not called
// 'Symbol' because grammars consist of symbols, too. Symbols are used in the
// scope of the grammar, tags are used for the variables of the program
// being analyzed.
type Tag struct {
	name string
	Typ  Type
}

// NewTag creates a new tag.
func NewTag(nm string) *Tag {
	return &Tag{name: nm}
}

// WithType sets the initial type of a tag. Use as
//
//    tag := NewTag("myTag").WithType(Integer)
//
func (s *Tag) WithType(t Type) *Tag {
	s.Typ = t
	return s
}

// Name gets the tag's name.
func (s *Tag) Name() string {
	return s.name
}

// String is a debug Stringer for tags.
func (s *Tag) String() string {
	return fmt.Sprintf("<tag '%s':%s>", s.Name(), s.Typ)
}

// === Symbol Tables =========================================================

// SymbolTable is a symbol table to store tags (map-like semantics).
type SymbolTable struct {
	table map[string]*Tag
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{table: make(map[string]*Tag)}
}

// ResolveTag checks for a tag in the symbol table.
// Returns a tag or nil.
func (t *SymbolTable) ResolveTag(tagname string) *Tag {
	return t.table[tagname]
}

// DefineTag creates a new tag to store into the symbol table.
// The tag's name may not be empty.
// Overwrites an existing tag with this name, if any.
// Returns the new tag and the previously stored tag (or nil).
func (t *SymbolTable) DefineTag(tagname string, typ Type) (*Tag, *Tag) {
	if len(tagname) == 0 {
		return nil, nil
	}
	tag := NewTag(tagname).WithType(typ)
	old := t.table[tagname]
	t.table[tagname] = tag
	return tag, old
}

// Size counts the tags in a symbol table.
func (t *SymbolTable) Size() int {
	return len(t.table)
}

// Each iterates over each tag in the table, executing a mapper function.
func (t *SymbolTable) Each(mapper func(string, *Tag)) {
	for k, v := range t.table {
		mapper(k, v)
	}
}

// === Scopes ================================================================

// Scope is a named scope, which may contain tag definitions. Scopes link back to a
// parent scope, forming a tree.
type Scope struct {
	Name   string
	Parent *Scope
	symtab *SymbolTable
}

// NewScope creates a new scope.
func NewScope(nm string, parent *Scope) *Scope {
	return &Scope{
		Name:   nm,
		Parent: parent,
		symtab: NewSymbolTable(),
	}
}

func (s *Scope) String() string {
	return fmt.Sprintf("<scope %s>", s.Name)
}

// Tags returns the symbol table of a scope.
func (s *Scope) Tags() *SymbolTable {
	return s.symtab
}

// DefineTag defines a tag in the scope. Returns the new tag and the previously
// stored tag under this key, if any.
func (s *Scope) DefineTag(tagname string, typ Type) (*Tag, *Tag) {
	return s.symtab.DefineTag(tagname, typ)
}

// ResolveLocal finds a tag in this scope only.
func (s *Scope) ResolveLocal(tagname string) *Tag {
	return s.symtab.ResolveTag(tagname)
}

// ResolveTag finds a tag. Returns the tag (or nil) and a scope. The scope is
// the scope (of a scope-tree-path) the tag was found in, i.e. the nearest
// enclosing scope defining the tag.
func (s *Scope) ResolveTag(tagname string) (*Tag, *Scope) {
	for ; s != nil; s = s.Parent {
		if tag := s.symtab.ResolveTag(tagname); tag != nil {
			return tag, s
		}
	}
	return nil, nil
}

// ---------------------------------------------------------------------------

// ErrGlobalScope is returned when trying to pop the outermost scope.
var ErrGlobalScope = errors.New("cannot pop global scope")

// Stack is a stack of scopes. Scopes pushed onto the stack build a tree, as
// every new scope is linked to its predecessor on the stack. A stack always
// contains at least the global scope.
type Stack struct {
	base *Scope
	tos  *Scope
}

// NewStack creates a stack holding the global scope.
func NewStack(globalName string) *Stack {
	global := NewScope(globalName, nil)
	return &Stack{base: global, tos: global}
}

// Current gets the current scope of a stack (TOS).
func (st *Stack) Current() *Scope {
	return st.tos
}

// Globals gets the outermost scope, containing global symbols.
func (st *Stack) Globals() *Scope {
	return st.base
}

// PushNewScope pushes a scope onto the stack of scopes. A scope is constructed,
// including a symbol table for variable declarations.
func (st *Stack) PushNewScope(nm string) *Scope {
	sc := NewScope(nm, st.tos)
	st.tos = sc
	tracer().Debugf("pushing new scope [%s]", sc.Name)
	return sc
}

// PopScope pops the top-most (recent) scope. The global scope cannot be popped.
func (st *Stack) PopScope() (*Scope, error) {
	if st.tos == st.base {
		return nil, ErrGlobalScope
	}
	sc := st.tos
	tracer().Debugf("popping scope [%s]", sc.Name)
	st.tos = sc.Parent
	return sc, nil
}

// Depth returns the number of scopes on the stack, counting the global scope.
func (st *Stack) Depth() int {
	d := 0
	for sc := st.tos; sc != nil; sc = sc.Parent {
		d++
	}
	return d
}
