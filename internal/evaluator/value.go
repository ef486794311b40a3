package evaluator

import "strings"

// Value system. Values are immutable once constructed, so copying one only
// copies a reference for the compound shapes.
type Value interface{ repr() string }

type (
    Bool  struct{ V bool }
    Atom  struct{ Name string }
    Tuple struct{ Items []Value }
)

func (v Bool) repr() string { if v.V { return "true" }; return "false" }
func (v Atom) repr() string { return ":" + v.Name }
func (v Tuple) repr() string {
    var b strings.Builder
    b.WriteByte('[')
    for i, it := range v.Items {
        if i > 0 { b.WriteByte(' ') }
        b.WriteString(Format(it))
    }
    b.WriteByte(']')
    return b.String()
}

// NewTuple wraps items without copying them; callers must not mutate the
// slice afterwards.
func NewTuple(items ...Value) Tuple { return Tuple{Items: items} }

// Len is the tuple's arity.
func (v Tuple) Len() int { return len(v.Items) }

// Format produces the canonical printed representation for a value
func Format(v Value) string {
    if v == nil { return "<nil>" }
    return v.repr()
}

// Equal is structural equality over primitives and tuples. Tuples of
// different length are never equal. Functions never compare equal, not even
// to themselves.
func Equal(a, b Value) bool {
    switch x := a.(type) {
    case Bool:
        y, ok := b.(Bool)
        return ok && x.V == y.V
    case Atom:
        y, ok := b.(Atom)
        return ok && x.Name == y.Name
    case Tuple:
        y, ok := b.(Tuple)
        if !ok || len(x.Items) != len(y.Items) { return false }
        for i := range x.Items {
            if !Equal(x.Items[i], y.Items[i]) { return false }
        }
        return true
    default:
        return false
    }
}

func typeName(v Value) string {
    switch v.(type) {
    case Bool: return "Boolean"
    case Atom: return "Atom"
    case Tuple: return "Tuple"
    case Function: return "Function"
    default: return "Unknown"
    }
}
