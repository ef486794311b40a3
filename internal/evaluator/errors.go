package evaluator

import (
    "fmt"

    "skald-lang/impl/internal/symbol"
)

// UndefinedError reports a variable that no enclosing frame binds.
type UndefinedError struct{ Name symbol.Symbol }

func (e *UndefinedError) Error() string {
    return fmt.Sprintf("Identifier can not be found: %s", e.Name.Name())
}

// NotApplicativeError reports a call whose callee is not a Function.
type NotApplicativeError struct{ Found Value }

func (e *NotApplicativeError) Error() string {
    return fmt.Sprintf("Expected a Function, found: %s", typeName(e.Found))
}

// ArityError is returned by lambdas on a parameter/argument count mismatch,
// and by primitives checking their own arity.
type ArityError struct {
    Expected int
    Found    int
}

func (e *ArityError) Error() string {
    return fmt.Sprintf("Unexpected number of arguments: expected %d, found %d", e.Expected, e.Found)
}

// TypeMismatchError is raised by primitives. Position is zero-based.
type TypeMismatchError struct {
    Position int
    Expected string
    Found    Value
}

func (e *TypeMismatchError) Error() string {
    return fmt.Sprintf("Unexpected argument %d: expected %s, found %s", e.Position, e.Expected, typeName(e.Found))
}

// UnmatchedPatternError carries the subject no match clause accepted.
type UnmatchedPatternError struct{ Value Value }

func (e *UnmatchedPatternError) Error() string {
    return fmt.Sprintf("No pattern matched: %s", Format(e.Value))
}

// DepthError reports evaluation that nested deeper than the limit passed to
// EvalLimit, usually unbounded recursion.
type DepthError struct{ Limit int }

func (e *DepthError) Error() string {
    return fmt.Sprintf("Maximum evaluation depth exceeded: %d", e.Limit)
}
