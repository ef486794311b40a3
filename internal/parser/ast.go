package parser

import (
    "fmt"

    "skald-lang/impl/internal/evaluator"
    "skald-lang/impl/internal/symbol"
)

// Program is the root node: top-level forms in source order.
type Program struct {
    Forms    []Form
    Warnings []Warning
}

// Form is a marker interface for top-level forms.
type Form interface{ isForm() }

// ExpressionForm is a bare expression evaluated for its value.
type ExpressionForm struct{ Value evaluator.Expr }
func (ExpressionForm) isForm() {}

// Define binds Name to the value of Value for the rest of the program.
type Define struct {
    Name  symbol.Symbol
    Value evaluator.Expr
}
func (Define) isForm() {}

type Comment struct{ Text string }
func (Comment) isForm() {}

// Warning flags code the evaluator accepts but that is probably a mistake.
type Warning struct {
    Line, Col int
    Msg       string
}

func (w Warning) String() string { return fmt.Sprintf("%d:%d: %s", w.Line, w.Col, w.Msg) }

// Dump converts a program into plain maps and slices for JSON encoding.
func Dump(prog Program) map[string]any {
    forms := make([]any, 0, len(prog.Forms))
    for _, f := range prog.Forms { forms = append(forms, dumpForm(f)) }
    return map[string]any{"type": "Program", "forms": forms}
}

func dumpForm(f Form) map[string]any {
    switch x := f.(type) {
    case ExpressionForm:
        return map[string]any{"type": "Expression", "value": dumpExpr(x.Value)}
    case Define:
        return map[string]any{"type": "Define", "name": x.Name.Name(), "value": dumpExpr(x.Value)}
    case Comment:
        return map[string]any{"type": "Comment", "value": x.Text}
    default:
        return map[string]any{"type": "Unknown"}
    }
}

func dumpExpr(e evaluator.Expr) map[string]any {
    switch x := e.(type) {
    case evaluator.Constant:
        return map[string]any{"type": "Constant", "value": evaluator.Format(x.Value)}
    case evaluator.Variable:
        return map[string]any{"type": "Variable", "name": x.Name.Name()}
    case evaluator.TupleExpr:
        return map[string]any{"type": "TupleConstructor", "items": dumpExprs(x.Items)}
    case evaluator.CallExpr:
        return map[string]any{"type": "Application", "callee": dumpExpr(x.Callee), "args": dumpExprs(x.Args)}
    case evaluator.LambdaExpr:
        params := make([]string, len(x.Params))
        for i, p := range x.Params { params[i] = p.Name() }
        return map[string]any{"type": "Abstraction", "params": params, "body": dumpExpr(x.Body)}
    case evaluator.MatchExpr:
        clauses := make([]any, 0, len(x.Clauses))
        for _, cl := range x.Clauses {
            clauses = append(clauses, map[string]any{"pattern": dumpPattern(cl.Pattern), "body": dumpExpr(cl.Body)})
        }
        return map[string]any{"type": "Match", "subject": dumpExpr(x.Subject), "clauses": clauses}
    default:
        return map[string]any{"type": "Unknown"}
    }
}

func dumpExprs(es []evaluator.Expr) []any {
    out := make([]any, 0, len(es))
    for _, e := range es { out = append(out, dumpExpr(e)) }
    return out
}

func dumpPattern(p evaluator.Pattern) map[string]any {
    switch x := p.(type) {
    case evaluator.PConstant:
        return map[string]any{"type": "PConstant", "value": evaluator.Format(x.Value)}
    case evaluator.PVariable:
        return map[string]any{"type": "PVariable", "name": x.Name.Name()}
    case evaluator.PTuple:
        items := make([]any, 0, len(x.Items))
        for _, it := range x.Items { items = append(items, dumpPattern(it)) }
        return map[string]any{"type": "PTuple", "items": items}
    default:
        return map[string]any{"type": "Unknown"}
    }
}
