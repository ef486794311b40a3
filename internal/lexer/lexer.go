package lexer

import (
    "fmt"

    "github.com/edwingeng/deque"
)

type Token struct {
    Type string
    Lit  string
    Line int
    Col  int
}

// Error is a lexical error at a 1-based line and column.
type Error struct {
    Line, Col int
    Msg       string
}

func (e *Error) Error() string { return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg) }

// Lex converts source into a flat token stream. Comments run from ';' to end
// of line and are kept as CMT tokens so the ast dump can show them.
func Lex(src string) ([]Token, error) {
    var out []Token
    i, n := 0, len(src)
    line, col := 1, 1

    advance := func() {
        if src[i] == '\n' { line++; col = 1 } else { col++ }
        i++
    }
    emit := func(typ, lit string, l, c int) { out = append(out, Token{Type: typ, Lit: lit, Line: l, Col: c}) }

    for i < n {
        ch := src[i]
        l, c := line, col

        if isSpace(ch) { advance(); continue }

        if ch == ';' {
            start := i
            for i < n && src[i] != '\n' { advance() }
            emit("CMT", src[start:i], l, c)
            continue
        }

        switch ch {
        case '(', ')', '[', ']':
            emit(string(ch), string(ch), l, c)
            advance()
            continue
        }

        // Atoms: ':' followed by a name
        if ch == ':' {
            advance()
            start := i
            for i < n && isNamePart(src[i]) { advance() }
            if i == start { return nil, &Error{Line: l, Col: c, Msg: "expected a name after ':'"} }
            emit("ATOM", src[start:i], l, c)
            continue
        }

        // Identifiers / keywords / literals true/false
        if isNamePart(ch) {
            start := i
            for i < n && isNamePart(src[i]) { advance() }
            word := src[start:i]
            switch word {
            case "lambda": emit("LAMBDA", word, l, c)
            case "match": emit("MATCH", word, l, c)
            case "let": emit("LET", word, l, c)
            case "define": emit("DEFINE", word, l, c)
            case "true": emit("TRUE", word, l, c)
            case "false": emit("FALSE", word, l, c)
            default:
                emit("ID", word, l, c)
            }
            continue
        }

        return nil, &Error{Line: l, Col: c, Msg: fmt.Sprintf("unexpected character %q", ch)}
    }

    return out, nil
}

// Balance reports how many brackets are still open at the end of toks. ok is
// false when a closer does not match the innermost opener; callers should
// then hand the tokens to the parser for a proper error.
func Balance(toks []Token) (depth int, ok bool) {
    open := deque.NewDeque()
    for _, t := range toks {
        switch t.Type {
        case "(", "[":
            open.PushBack(t.Type)
        case ")", "]":
            if open.Empty() { return 0, false }
            want := "("
            if t.Type == "]" { want = "[" }
            if open.PopBack().(string) != want { return open.Len(), false }
        }
    }
    return open.Len(), true
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

func isNamePart(b byte) bool {
    switch b {
    case '(', ')', '[', ']', ';', ':', '"', '\'':
        return false
    }
    return b > ' ' && b != 0x7f
}
