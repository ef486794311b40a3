package parser

import (
    "fmt"

    "github.com/ahrtr/gocontainer/set"

    "skald-lang/impl/internal/evaluator"
    "skald-lang/impl/internal/lexer"
    "skald-lang/impl/internal/symbol"
)

// Error is a syntax error at a 1-based line and column.
type Error struct {
    Line, Col int
    Msg       string
}

func (e *Error) Error() string { return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg) }

type Parser struct {
    toks     []lexer.Token
    i        int
    names    *symbol.Interner
    warnings []Warning
    depth    int
    maxDepth int
}

// New parses toks, interning every identifier through names.
func New(toks []lexer.Token, names *symbol.Interner) *Parser {
    return &Parser{toks: toks, names: names}
}

// SetMaxDepth makes expressions and patterns nested deeper than n a syntax
// error. Zero, the default, allows any depth.
func (p *Parser) SetMaxDepth(n int) *Parser {
    p.maxDepth = n
    return p
}

// Parse lexes and parses src in one step.
func Parse(src string, names *symbol.Interner) (Program, error) {
    toks, err := lexer.Lex(src)
    if err != nil { return Program{}, err }
    return New(toks, names).ParseProgram()
}

// cur skips comments; only ParseProgram looks at them.
func (p *Parser) cur() lexer.Token {
    for p.i < len(p.toks) && p.toks[p.i].Type == "CMT" { p.i++ }
    if p.i >= len(p.toks) {
        eof := lexer.Token{Type: "EOF"}
        if n := len(p.toks); n > 0 { eof.Line, eof.Col = p.toks[n-1].Line, p.toks[n-1].Col+len(p.toks[n-1].Lit) }
        return eof
    }
    return p.toks[p.i]
}

// peek is the token after cur, also skipping comments.
func (p *Parser) peek() lexer.Token {
    p.cur()
    j := p.i + 1
    for j < len(p.toks) && p.toks[j].Type == "CMT" { j++ }
    if j >= len(p.toks) { return lexer.Token{Type: "EOF"} }
    return p.toks[j]
}

func (p *Parser) next() lexer.Token {
    t := p.cur()
    if p.i < len(p.toks) { p.i++ }
    return t
}

func (p *Parser) match(typ string) bool {
    if p.cur().Type == typ { p.i++; return true }
    return false
}

func (p *Parser) expect(typ string) lexer.Token {
    t := p.cur()
    if t.Type != typ { p.fail(t, "expected %s, found %s", typ, describe(t)) }
    p.i++
    return t
}

func (p *Parser) fail(t lexer.Token, format string, args ...any) {
    panic(&Error{Line: t.Line, Col: t.Col, Msg: fmt.Sprintf(format, args...)})
}

func (p *Parser) enter(t lexer.Token) {
    p.depth++
    if p.maxDepth > 0 && p.depth > p.maxDepth { p.fail(t, "nesting deeper than %d", p.maxDepth) }
}

func (p *Parser) leave() { p.depth-- }

func (p *Parser) warn(t lexer.Token, format string, args ...any) {
    p.warnings = append(p.warnings, Warning{Line: t.Line, Col: t.Col, Msg: fmt.Sprintf(format, args...)})
}

// ParseProgram parses every top-level form. Syntax errors come back as
// *Error; anything else that panics is not ours and keeps unwinding.
func (p *Parser) ParseProgram() (prog Program, err error) {
    defer func() {
        if r := recover(); r != nil {
            pe, ok := r.(*Error)
            if !ok { panic(r) }
            prog, err = Program{}, pe
        }
    }()
    var forms []Form
    for {
        if p.i < len(p.toks) && p.toks[p.i].Type == "CMT" {
            forms = append(forms, Comment{Text: p.toks[p.i].Lit})
            p.i++
            continue
        }
        if p.cur().Type == "EOF" { break }
        forms = append(forms, p.parseForm())
    }
    return Program{Forms: forms, Warnings: p.warnings}, nil
}

func (p *Parser) parseForm() Form {
    if p.cur().Type == "(" && p.peek().Type == "DEFINE" {
        p.next()
        p.next()
        name := p.expect("ID")
        value := p.parseExpression()
        p.expect(")")
        return Define{Name: p.names.Intern(name.Lit), Value: value}
    }
    return ExpressionForm{Value: p.parseExpression()}
}

func (p *Parser) parseExpression() evaluator.Expr {
    t := p.next()
    p.enter(t)
    defer p.leave()
    switch t.Type {
    case "TRUE":
        return evaluator.Constant{Value: evaluator.Bool{V: true}}
    case "FALSE":
        return evaluator.Constant{Value: evaluator.Bool{V: false}}
    case "ATOM":
        return evaluator.Constant{Value: evaluator.Atom{Name: t.Lit}}
    case "ID":
        return evaluator.Variable{Name: p.names.Intern(t.Lit)}
    case "[":
        items := make([]evaluator.Expr, 0)
        for !p.match("]") { items = append(items, p.parseExpression()) }
        return evaluator.TupleExpr{Items: items}
    case "(":
        return p.parseList(t)
    default:
        p.fail(t, "unexpected %s", describe(t))
        return nil
    }
}

// parseList handles everything that starts with '('. The opening paren has
// been consumed.
func (p *Parser) parseList(open lexer.Token) evaluator.Expr {
    switch p.cur().Type {
    case ")":
        p.fail(open, "empty application")
    case "LAMBDA":
        p.next()
        params := p.parseParams()
        body := p.parseExpression()
        p.expect(")")
        return evaluator.LambdaExpr{Params: params, Body: body}
    case "MATCH":
        p.next()
        subject := p.parseExpression()
        var clauses []evaluator.Clause
        for !p.match(")") {
            p.expect("(")
            at := p.cur()
            pat := p.parsePattern()
            p.checkPatternVars(at, pat)
            body := p.parseExpression()
            p.expect(")")
            clauses = append(clauses, evaluator.Clause{Pattern: pat, Body: body})
        }
        return evaluator.MatchExpr{Subject: subject, Clauses: clauses}
    case "LET":
        return p.parseLet()
    case "DEFINE":
        p.fail(p.cur(), "define is only allowed at top level")
    }
    callee := p.parseExpression()
    args := make([]evaluator.Expr, 0)
    for !p.match(")") { args = append(args, p.parseExpression()) }
    return evaluator.CallExpr{Callee: callee, Args: args}
}

func (p *Parser) parseParams() []symbol.Symbol {
    p.expect("(")
    seen := set.New()
    params := make([]symbol.Symbol, 0)
    for !p.match(")") {
        t := p.expect("ID")
        if seen.Contains(t.Lit) { p.warn(t, "duplicate parameter %q; the last one wins", t.Lit) }
        seen.Add(t.Lit)
        params = append(params, p.names.Intern(t.Lit))
    }
    return params
}

// (let ((x e) ...) body) is ((lambda (x ...) body) e ...).
func (p *Parser) parseLet() evaluator.Expr {
    p.expect("LET")
    p.expect("(")
    seen := set.New()
    var params []symbol.Symbol
    var args []evaluator.Expr
    for !p.match(")") {
        p.expect("(")
        t := p.expect("ID")
        if seen.Contains(t.Lit) { p.warn(t, "duplicate let binding %q; the last one wins", t.Lit) }
        seen.Add(t.Lit)
        params = append(params, p.names.Intern(t.Lit))
        args = append(args, p.parseExpression())
        p.expect(")")
    }
    body := p.parseExpression()
    p.expect(")")
    return evaluator.CallExpr{Callee: evaluator.LambdaExpr{Params: params, Body: body}, Args: args}
}

func (p *Parser) parsePattern() evaluator.Pattern {
    t := p.next()
    p.enter(t)
    defer p.leave()
    switch t.Type {
    case "TRUE":
        return evaluator.PConstant{Value: evaluator.Bool{V: true}}
    case "FALSE":
        return evaluator.PConstant{Value: evaluator.Bool{V: false}}
    case "ATOM":
        return evaluator.PConstant{Value: evaluator.Atom{Name: t.Lit}}
    case "ID":
        return evaluator.PVariable{Name: p.names.Intern(t.Lit)}
    case "[":
        items := make([]evaluator.Pattern, 0)
        for !p.match("]") { items = append(items, p.parsePattern()) }
        return evaluator.PTuple{Items: items}
    default:
        p.fail(t, "unexpected %s in pattern", describe(t))
        return nil
    }
}

func (p *Parser) checkPatternVars(at lexer.Token, pat evaluator.Pattern) {
    seen := set.New()
    var walk func(evaluator.Pattern)
    walk = func(pt evaluator.Pattern) {
        switch x := pt.(type) {
        case evaluator.PVariable:
            name := x.Name.Name()
            if seen.Contains(name) { p.warn(at, "pattern binds %q more than once; the last one wins", name) }
            seen.Add(name)
        case evaluator.PTuple:
            for _, it := range x.Items { walk(it) }
        }
    }
    walk(pat)
}

func describe(t lexer.Token) string {
    switch t.Type {
    case "EOF": return "end of input"
    case "ID", "ATOM": return fmt.Sprintf("%s %q", t.Type, t.Lit)
    default: return fmt.Sprintf("%q", t.Lit)
    }
}
