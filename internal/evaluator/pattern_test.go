package evaluator

import (
    "testing"

    "skald-lang/impl/internal/symbol"
)

func TestMatchTuplePattern(t *testing.T) {
    in := symbol.NewInterner()
    x := in.Intern("x")
    p := PTuple{Items: []Pattern{PConstant{Value: Bool{V: true}}, PVariable{Name: x}}}

    bindings, ok := Match(p, NewTuple(Bool{V: true}, Bool{V: false}))
    if !ok || len(bindings) != 1 || bindings[0].Name != x || !Equal(bindings[0].Value, Bool{V: false}) {
        t.Fatalf("Match = %v, %v; want [x=false]", bindings, ok)
    }

    if bindings, ok := Match(p, NewTuple(Bool{V: false}, Bool{V: false})); ok {
        t.Fatalf("Match = %v, want no match", bindings)
    }
}

func TestVariablePatternProducesBinding(t *testing.T) {
    in := symbol.NewInterner()
    x := in.Intern("x")
    tup := NewTuple(Atom{Name: "a"}, Bool{V: true})
    bindings, ok := Match(PVariable{Name: x}, tup)
    if !ok || len(bindings) != 1 || !Equal(bindings[0].Value, tup) {
        t.Fatalf("Match = %v, %v", bindings, ok)
    }
}

func TestConstantPattern(t *testing.T) {
    if bindings, ok := Match(PConstant{Value: Bool{V: false}}, Bool{V: false}); !ok || len(bindings) != 0 {
        t.Errorf("equal constant: Match = %v, %v; want empty, true", bindings, ok)
    }
    if _, ok := Match(PConstant{Value: Bool{V: false}}, Bool{V: true}); ok {
        t.Errorf("different constant matched")
    }
    if _, ok := Match(PConstant{Value: Atom{Name: "a"}}, Bool{V: true}); ok {
        t.Errorf("atom constant matched a boolean")
    }
}

func TestConstantNeverMatchesFunction(t *testing.T) {
    fn := NewPrimitive("id", func(args []Value) (Value, error) { return args[0], nil })
    if _, ok := Match(PConstant{Value: fn}, fn); ok {
        t.Fatalf("function constant matched itself")
    }
}

func TestMatchIsTotal(t *testing.T) {
    in := symbol.NewInterner()
    x := in.Intern("x")
    fn := NewPrimitive("id", func(args []Value) (Value, error) { return args[0], nil })
    patterns := []Pattern{
        PConstant{Value: Bool{V: true}},
        PVariable{Name: x},
        PTuple{},
        PTuple{Items: []Pattern{PVariable{Name: x}}},
        PTuple{Items: []Pattern{PVariable{Name: x}, PTuple{Items: []Pattern{PConstant{Value: Atom{Name: "k"}}}}}},
    }
    values := []Value{
        Bool{V: true},
        Atom{Name: "k"},
        NewTuple(),
        NewTuple(Bool{V: true}),
        NewTuple(Bool{V: true}, NewTuple(Atom{Name: "k"})),
        fn,
    }
    for _, p := range patterns {
        for _, v := range values {
            bindings, ok := Match(p, v)
            if !ok && bindings != nil {
                t.Errorf("Match(%T, %s) failed but returned bindings", p, Format(v))
            }
        }
    }
}

func TestTuplePatternArityMismatch(t *testing.T) {
    in := symbol.NewInterner()
    x, y := in.Intern("x"), in.Intern("y")
    p := PTuple{Items: []Pattern{PVariable{Name: x}, PVariable{Name: y}}}
    for _, v := range []Value{NewTuple(Bool{}), NewTuple(Bool{}, Bool{}, Bool{}), Bool{V: true}} {
        if _, ok := Match(p, v); ok {
            t.Errorf("2-tuple pattern matched %s", Format(v))
        }
    }
}

func TestDuplicatePatternVariablesLastWins(t *testing.T) {
    in := symbol.NewInterner()
    x := in.Intern("x")
    p := PTuple{Items: []Pattern{PVariable{Name: x}, PVariable{Name: x}}}
    bindings, ok := Match(p, NewTuple(Atom{Name: "left"}, Atom{Name: "right"}))
    if !ok || len(bindings) != 2 {
        t.Fatalf("Match = %v, %v; want two bindings", bindings, ok)
    }
    env := Root().BindAll(bindings).Finish()
    if v, _ := env.Lookup(x); !Equal(v, Atom{Name: "right"}) {
        t.Fatalf("folded x = %s, want :right", Format(v))
    }
}

func TestNestedBindingsLeftToRight(t *testing.T) {
    in := symbol.NewInterner()
    a, b, c := in.Intern("a"), in.Intern("b"), in.Intern("c")
    p := PTuple{Items: []Pattern{
        PVariable{Name: a},
        PTuple{Items: []Pattern{PVariable{Name: b}, PVariable{Name: c}}},
    }}
    v := NewTuple(Atom{Name: "1"}, NewTuple(Atom{Name: "2"}, Atom{Name: "3"}))
    bindings, ok := Match(p, v)
    if !ok || len(bindings) != 3 {
        t.Fatalf("Match = %v, %v", bindings, ok)
    }
    want := []symbol.Symbol{a, b, c}
    for i, bd := range bindings {
        if bd.Name != want[i] {
            t.Errorf("binding %d = %s, want %s", i, bd.Name, want[i])
        }
    }
}
