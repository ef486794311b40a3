package evaluator

import "fmt"

// Eval reduces e to a value in env. Sequences (tuple items, call arguments)
// are evaluated left to right and the first error stops the sequence.
func Eval(e Expr, env *Env) (Value, error) { return (&machine{}).eval(e, env) }

// EvalLimit is Eval with a cap on how deeply expressions and lambda bodies
// may nest. Exceeding it returns a *DepthError instead of growing the stack
// further. A limit <= 0 means no cap.
func EvalLimit(e Expr, env *Env, limit int) (Value, error) {
    return (&machine{limit: limit}).eval(e, env)
}

type machine struct {
    depth int
    limit int
}

func (m *machine) eval(e Expr, env *Env) (Value, error) {
    if m.limit > 0 {
        if m.depth >= m.limit { return nil, &DepthError{Limit: m.limit} }
        m.depth++
        defer func() { m.depth-- }()
    }
    switch ex := e.(type) {
    case Constant:
        return ex.Value, nil
    case Variable:
        v, ok := env.Lookup(ex.Name)
        if !ok { return nil, &UndefinedError{Name: ex.Name} }
        return v, nil
    case TupleExpr:
        items, err := m.evalList(ex.Items, env)
        if err != nil { return nil, err }
        return Tuple{Items: items}, nil
    case CallExpr:
        fn, err := m.eval(ex.Callee, env)
        if err != nil { return nil, err }
        f, ok := fn.(Function)
        if !ok { return nil, &NotApplicativeError{Found: fn} }
        args, err := m.evalList(ex.Args, env)
        if err != nil { return nil, err }
        return m.apply(f, args)
    case LambdaExpr:
        // the body runs later, in a child of this exact frame
        return &Lambda{Params: ex.Params, Body: ex.Body, Closure: env}, nil
    case MatchExpr:
        subject, err := m.eval(ex.Subject, env)
        if err != nil { return nil, err }
        for _, cl := range ex.Clauses {
            bindings, ok := Match(cl.Pattern, subject)
            if !ok { continue }
            return m.eval(cl.Body, Extend(env).BindAll(bindings).Finish())
        }
        return nil, &UnmatchedPatternError{Value: subject}
    default:
        return nil, fmt.Errorf("Unsupported expression: %T", e)
    }
}

// apply keeps lambda bodies on this machine so they count against the limit.
func (m *machine) apply(f Function, args []Value) (Value, error) {
    lam, ok := f.(*Lambda)
    if !ok { return f.Apply(args) }
    env, err := lam.bind(args)
    if err != nil { return nil, err }
    return m.eval(lam.Body, env)
}

func (m *machine) evalList(exprs []Expr, env *Env) ([]Value, error) {
    out := make([]Value, 0, len(exprs))
    for _, it := range exprs {
        v, err := m.eval(it, env)
        if err != nil { return nil, err }
        out = append(out, v)
    }
    return out, nil
}
