package evaluator

import "skald-lang/impl/internal/symbol"

// Primitives is the native procedure registry installed by Prelude.
func Primitives() []*Primitive {
    return []*Primitive{
        NewPrimitive("and", func(args []Value) (Value, error) {
            xs, err := boolArgs(args, 2); if err != nil { return nil, err }
            return Bool{V: xs[0] && xs[1]}, nil
        }),
        NewPrimitive("or", func(args []Value) (Value, error) {
            xs, err := boolArgs(args, 2); if err != nil { return nil, err }
            return Bool{V: xs[0] || xs[1]}, nil
        }),
        NewPrimitive("xor", func(args []Value) (Value, error) {
            xs, err := boolArgs(args, 2); if err != nil { return nil, err }
            return Bool{V: xs[0] != xs[1]}, nil
        }),
        NewPrimitive("not", func(args []Value) (Value, error) {
            xs, err := boolArgs(args, 1); if err != nil { return nil, err }
            return Bool{V: !xs[0]}, nil
        }),
        NewPrimitive("eq?", func(args []Value) (Value, error) {
            if len(args) != 2 { return nil, &ArityError{Expected: 2, Found: len(args)} }
            return Bool{V: Equal(args[0], args[1])}, nil
        }),
        NewPrimitive("fst", func(args []Value) (Value, error) {
            pair, err := pairArg(args); if err != nil { return nil, err }
            return pair.Items[0], nil
        }),
        NewPrimitive("snd", func(args []Value) (Value, error) {
            pair, err := pairArg(args); if err != nil { return nil, err }
            return pair.Items[1], nil
        }),
    }
}

// Prelude builds a root frame holding every primitive. The frame is frozen,
// so one Prelude can back any number of concurrent evaluations.
func Prelude(names *symbol.Interner) *Env {
    b := Root()
    for _, p := range Primitives() { b.Bind(names.Intern(p.Name), p) }
    return b.Finish()
}

// boolArgs reports the leftmost non-boolean argument.
func boolArgs(args []Value, n int) ([]bool, error) {
    if len(args) != n { return nil, &ArityError{Expected: n, Found: len(args)} }
    out := make([]bool, n)
    for i, a := range args {
        b, ok := a.(Bool)
        if !ok { return nil, &TypeMismatchError{Position: i, Expected: "Boolean", Found: a} }
        out[i] = b.V
    }
    return out, nil
}

func pairArg(args []Value) (Tuple, error) {
    if len(args) != 1 { return Tuple{}, &ArityError{Expected: 1, Found: len(args)} }
    t, ok := args[0].(Tuple)
    if !ok || len(t.Items) != 2 {
        return Tuple{}, &TypeMismatchError{Position: 0, Expected: "2-Tuple", Found: args[0]}
    }
    return t, nil
}
