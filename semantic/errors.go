package semantic

import (
	"errors"
	"fmt"

	"github.com/npillmayer/toyc"
	"github.com/npillmayer/toyc/scope"
)

// ErrorKind classifies semantic errors.
type ErrorKind int

// Kinds of semantic errors
const (
	AlreadyDeclared ErrorKind = iota + 1
	NotDeclared
	TypeMismatch
	ExpressionTypeMismatch
	UnsupportedType
	UnbalancedBlock
)

func (k ErrorKind) String() string {
	switch k {
	case AlreadyDeclared:
		return "AlreadyDeclared"
	case NotDeclared:
		return "NotDeclared"
	case TypeMismatch:
		return "TypeMismatch"
	case ExpressionTypeMismatch:
		return "ExpressionTypeMismatch"
	case UnsupportedType:
		return "UnsupportedType"
	case UnbalancedBlock:
		return "UnbalancedBlock"
	}
	return "<unknown>"
}

// ErrSemantic is the error all semantic errors unwrap to.
var ErrSemantic = errors.New("semantic error")

// Error is a semantic error at a position of the source text.
type Error struct {
	Kind       ErrorKind
	Identifier string     // variable in question, if any
	Expected   scope.Type // declared type, for TypeMismatch
	Found      scope.Type // inferred type, for TypeMismatch
	Detail     string     // offending token kind, if any
	Line       int
	Start      int
	End        int
}

func newError(kind ErrorKind, at toyc.Token) *Error {
	return &Error{Kind: kind, Line: at.Line, Start: at.Start, End: at.End}
}

func (e *Error) Error() string {
	switch e.Kind {
	case AlreadyDeclared:
		return fmt.Sprintf("variable %s already declared", e.Identifier)
	case NotDeclared:
		return fmt.Sprintf("variable %s not declared", e.Identifier)
	case TypeMismatch:
		return fmt.Sprintf("variable %s of type %s assigned wrong type %s",
			e.Identifier, e.Expected, e.Found)
	case ExpressionTypeMismatch:
		return fmt.Sprintf("operands of mixed types in expression: %s", e.Detail)
	case UnsupportedType:
		return fmt.Sprintf("unsupported type %s", e.Detail)
	case UnbalancedBlock:
		return "closing brace without matching block"
	}
	return ErrSemantic.Error()
}

// Unwrap makes errors.Is(err, ErrSemantic) hold.
func (e *Error) Unwrap() error {
	return ErrSemantic
}

// Diagnostic converts an error to its externally visible form.
func (e *Error) Diagnostic() toyc.Diagnostic {
	return toyc.Diagnostic{
		Message: e.Error(),
		Line:    e.Line,
		Start:   e.Start,
		End:     e.End,
	}
}
