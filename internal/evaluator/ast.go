package evaluator

import "skald-lang/impl/internal/symbol"

// Expr is a marker interface for expressions. Trees are built once by the
// parser and never modified during evaluation.
type Expr interface{ isExpr() }

type Constant struct{ Value Value }
func (Constant) isExpr() {}

type Variable struct{ Name symbol.Symbol }
func (Variable) isExpr() {}

type TupleExpr struct{ Items []Expr }
func (TupleExpr) isExpr() {}

type CallExpr struct {
    Callee Expr
    Args   []Expr
}
func (CallExpr) isExpr() {}

type LambdaExpr struct {
    Params []symbol.Symbol
    Body   Expr
}
func (LambdaExpr) isExpr() {}

// Clause is one `pattern -> body` arm of a match.
type Clause struct {
    Pattern Pattern
    Body    Expr
}

type MatchExpr struct {
    Subject Expr
    Clauses []Clause
}
func (MatchExpr) isExpr() {}
