package symbol

import "sync"

// Symbol is an interned identifier. Two symbols issued by the same Interner
// are equal iff they name the same string. The zero Symbol names nothing.
type Symbol struct {
    in *Interner
    id uint32
}

// Name returns the interned string, or "" for the zero Symbol.
func (s Symbol) Name() string {
    if s.in == nil { return "" }
    return s.in.lookup(s.id)
}

func (s Symbol) String() string { return s.Name() }

// Valid reports whether s was issued by an Interner.
func (s Symbol) Valid() bool { return s.in != nil }

// Interner maps names to symbols. Names live in an arena indexed by the
// symbol id; the dictionary only ever grows. Safe for concurrent use.
type Interner struct {
    mu    sync.RWMutex
    names []string
    index map[string]uint32
}

func NewInterner() *Interner {
    return &Interner{index: map[string]uint32{}}
}

// Intern returns the canonical symbol for name, allocating it on first use.
func (in *Interner) Intern(name string) Symbol {
    in.mu.RLock()
    id, ok := in.index[name]
    in.mu.RUnlock()
    if ok { return Symbol{in: in, id: id} }

    in.mu.Lock()
    defer in.mu.Unlock()
    // another writer may have won the race
    if id, ok := in.index[name]; ok { return Symbol{in: in, id: id} }
    id = uint32(len(in.names))
    in.names = append(in.names, name)
    in.index[name] = id
    return Symbol{in: in, id: id}
}

// Lookup returns the symbol for name without interning it.
func (in *Interner) Lookup(name string) (Symbol, bool) {
    in.mu.RLock()
    defer in.mu.RUnlock()
    id, ok := in.index[name]
    if !ok { return Symbol{}, false }
    return Symbol{in: in, id: id}, true
}

// Len is the number of distinct names interned so far.
func (in *Interner) Len() int {
    in.mu.RLock()
    defer in.mu.RUnlock()
    return len(in.names)
}

func (in *Interner) lookup(id uint32) string {
    in.mu.RLock()
    defer in.mu.RUnlock()
    return in.names[id]
}
