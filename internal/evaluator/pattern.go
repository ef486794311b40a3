package evaluator

import "skald-lang/impl/internal/symbol"

// Pattern destructures the shapes a Value can take.
type Pattern interface{ isPattern() }

type PConstant struct{ Value Value }
func (PConstant) isPattern() {}

type PVariable struct{ Name symbol.Symbol }
func (PVariable) isPattern() {}

type PTuple struct{ Items []Pattern }
func (PTuple) isPattern() {}

// Binding is one name produced by a successful match.
type Binding struct {
    Name  symbol.Symbol
    Value Value
}

// Match tests p against v. On success it returns the bindings in
// left-to-right order; a name bound twice appears twice. Match never fails
// with an error, only with ok == false.
func Match(p Pattern, v Value) (bindings []Binding, ok bool) {
    if !collect(p, v, &bindings) { return nil, false }
    return bindings, true
}

func collect(p Pattern, v Value, out *[]Binding) bool {
    switch pt := p.(type) {
    case PConstant:
        return Equal(pt.Value, v)
    case PVariable:
        *out = append(*out, Binding{Name: pt.Name, Value: v})
        return true
    case PTuple:
        tv, ok := v.(Tuple)
        if !ok || len(tv.Items) != len(pt.Items) { return false }
        for i, sub := range pt.Items {
            if !collect(sub, tv.Items[i], out) { return false }
        }
        return true
    default:
        return false
    }
}
