package evaluator

import (
    "sort"

    "skald-lang/impl/internal/symbol"
)

// Env is one lexical frame plus a link to its parent. A frame is never
// written after Finish hands it out, so any number of closures and
// goroutines may share it without locking.
type Env struct {
    vars   map[symbol.Symbol]Value
    parent *Env
}

// Lookup searches this frame, then each ancestor in turn.
func (e *Env) Lookup(name symbol.Symbol) (Value, bool) {
    for cur := e; cur != nil; cur = cur.parent {
        if v, ok := cur.vars[name]; ok { return v, true }
    }
    return nil, false
}

// Parent is nil for a root frame.
func (e *Env) Parent() *Env { return e.parent }

// Names lists the identifiers bound in this frame only, sorted by name.
func (e *Env) Names() []symbol.Symbol {
    out := make([]symbol.Symbol, 0, len(e.vars))
    for k := range e.vars { out = append(out, k) }
    sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
    return out
}

// Builder stages the bindings of a frame that has not been published yet.
type Builder struct {
    env *Env
}

// Root begins a frame with no parent.
func Root() *Builder { return Extend(nil) }

// Extend begins a child frame of parent.
func Extend(parent *Env) *Builder {
    return &Builder{env: &Env{parent: parent}}
}

// Bind stages name = v. Binding the same name twice keeps the later value.
func (b *Builder) Bind(name symbol.Symbol, v Value) *Builder {
    e := b.live()
    if e.vars == nil { e.vars = make(map[symbol.Symbol]Value) }
    e.vars[name] = v
    return b
}

// BindAll stages bindings in order, so later duplicates win.
func (b *Builder) BindAll(bindings []Binding) *Builder {
    for _, bd := range bindings { b.Bind(bd.Name, bd.Value) }
    return b
}

// Finish publishes the frame. The builder cannot be used afterwards.
func (b *Builder) Finish() *Env {
    e := b.live()
    b.env = nil
    return e
}

func (b *Builder) live() *Env {
    if b.env == nil { panic("evaluator: Builder used after Finish") }
    return b.env
}
