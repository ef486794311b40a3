package evaluator

import (
    "fmt"

    "skald-lang/impl/internal/symbol"
)

// Function is any applicative value: a user closure or a native procedure.
type Function interface {
    Value
    Apply(args []Value) (Value, error)
}

// Lambda is a closure over the environment it was defined in.
type Lambda struct {
    Params  []symbol.Symbol
    Body    Expr
    Closure *Env
}

func (f *Lambda) repr() string { return fmt.Sprintf("#<lambda/%d>", len(f.Params)) }

// Apply requires exactly one argument per parameter. Parameters are bound in
// a single fresh frame over the closure; a repeated parameter name takes the
// rightmost argument.
func (f *Lambda) Apply(args []Value) (Value, error) {
    env, err := f.bind(args)
    if err != nil { return nil, err }
    return Eval(f.Body, env)
}

func (f *Lambda) bind(args []Value) (*Env, error) {
    if len(args) != len(f.Params) {
        return nil, &ArityError{Expected: len(f.Params), Found: len(args)}
    }
    b := Extend(f.Closure)
    for i, name := range f.Params { b.Bind(name, args[i]) }
    return b.Finish(), nil
}

// NativeFunc validates its own arity and argument shapes.
type NativeFunc func(args []Value) (Value, error)

// Primitive is a procedure implemented in Go.
type Primitive struct {
    Name string
    Fn   NativeFunc
}

func NewPrimitive(name string, fn NativeFunc) *Primitive {
    return &Primitive{Name: name, Fn: fn}
}

func (p *Primitive) repr() string { return fmt.Sprintf("#<primitive %s>", p.Name) }

// Apply hands args straight to the native procedure; its errors pass
// through untouched.
func (p *Primitive) Apply(args []Value) (Value, error) { return p.Fn(args) }
