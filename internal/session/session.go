// Package session runs whole programs: a sequence of top-level forms where
// each define publishes a new frame over the previous one.
package session

import (
    "github.com/ahrtr/gocontainer/set"

    "skald-lang/impl/internal/evaluator"
    "skald-lang/impl/internal/parser"
    "skald-lang/impl/internal/symbol"
)

// Session holds the current top-level environment. It is not safe for
// concurrent use; run one session per goroutine over a shared root.
type Session struct {
    names    *symbol.Interner
    root     *evaluator.Env
    env      *evaluator.Env
    maxDepth int
}

// New starts a session over root. Identifiers are interned through names,
// which must be the interner root was built with.
func New(names *symbol.Interner, root *evaluator.Env) *Session {
    return &Session{names: names, root: root, env: root}
}

// NewWithPrelude starts a session over a fresh prelude.
func NewWithPrelude() *Session {
    names := symbol.NewInterner()
    return New(names, evaluator.Prelude(names))
}

func (s *Session) Names() *symbol.Interner { return s.names }

// SetMaxDepth caps evaluation nesting for every later Run; forms that go
// deeper fail with *evaluator.DepthError. Zero removes the cap.
func (s *Session) SetMaxDepth(n int) { s.maxDepth = n }

// Env is the current top-level frame.
func (s *Session) Env() *evaluator.Env { return s.env }

// Reset drops every definition made since the session started.
func (s *Session) Reset() { s.env = s.root }

// Defined lists the names introduced by define, newest first. Each define
// adds one frame, so this walks back to the root; a redefined name is
// listed once, for its newest frame.
func (s *Session) Defined() []symbol.Symbol {
    var out []symbol.Symbol
    seen := set.New()
    for e := s.env; e != nil && e != s.root; e = e.Parent() {
        for _, name := range e.Names() {
            if seen.Contains(name) { continue }
            seen.Add(name)
            out = append(out, name)
        }
    }
    return out
}

// Run evaluates prog's forms in order and returns the value of the last
// expression or definition. On error the session keeps the definitions made
// by earlier forms.
func (s *Session) Run(prog parser.Program) (evaluator.Value, error) {
    var last evaluator.Value = evaluator.NewTuple()
    for _, f := range prog.Forms {
        switch form := f.(type) {
        case parser.Comment:
            continue
        case parser.Define:
            v, err := evaluator.EvalLimit(form.Value, s.env, s.maxDepth)
            if err != nil { return nil, err }
            s.env = evaluator.Extend(s.env).Bind(form.Name, v).Finish()
            last = v
        case parser.ExpressionForm:
            v, err := evaluator.EvalLimit(form.Value, s.env, s.maxDepth)
            if err != nil { return nil, err }
            last = v
        }
    }
    return last, nil
}

// RunSource parses src with the session's interner and runs it.
func (s *Session) RunSource(src string) (evaluator.Value, error) {
    prog, err := parser.Parse(src, s.names)
    if err != nil { return nil, err }
    return s.Run(prog)
}
