// Package server evaluates programs over HTTP. Every request is an
// independent evaluation in its own session. A program's identifiers are
// interned per parse, so an interner lives exactly as long as the request
// or the cache entry that owns it.
package server

import (
    "encoding/json"
    "expvar"
    "log"
    "sync"
    "time"

    "github.com/ahrtr/gocontainer/map/linkedmap"
    "github.com/tevino/abool/v2"
    "github.com/valyala/fasthttp"
    "github.com/valyala/fasthttp/expvarhandler"
    "github.com/zeebo/blake3"

    "skald-lang/impl/internal/evaluator"
    "skald-lang/impl/internal/lexer"
    "skald-lang/impl/internal/parser"
    "skald-lang/impl/internal/session"
    "skald-lang/impl/internal/symbol"
)

var (
    evalCount  = expvar.NewInt("skaldEvaluations")
    evalErrors = expvar.NewInt("skaldEvaluationErrors")
    cacheHits  = expvar.NewInt("skaldParseCacheHits")
)

type Config struct {
    Addr         string
    CacheSize    int
    MaxBodySize  int
    // MaxDepth bounds both source nesting and evaluation depth.
    MaxDepth     int
    ReadTimeout  time.Duration
    WriteTimeout time.Duration
}

func DefaultConfig() Config {
    return Config{
        Addr:         ":8080",
        CacheSize:    1024,
        MaxBodySize:  1 << 20,
        MaxDepth:     10000,
        ReadTimeout:  30 * time.Second,
        WriteTimeout: 30 * time.Second,
    }
}

// Response is the JSON body of every /eval reply.
type Response struct {
    Value    string   `json:"value,omitempty"`
    Error    string   `json:"error,omitempty"`
    Warnings []string `json:"warnings,omitempty"`
}

// compiled is a parsed program together with the interner its symbols came
// from and a prelude built on that same interner.
type compiled struct {
    prog    parser.Program
    names   *symbol.Interner
    prelude *evaluator.Env
}

type Server struct {
    cfg      Config
    draining *abool.AtomicBool
    srv      *fasthttp.Server

    // cache maps source digests to *compiled, least recently used first.
    // Get reorders the list, so every access takes the full lock.
    mu    sync.Mutex
    cache linkedmap.Interface
}

func New(cfg Config) *Server {
    s := &Server{
        cfg:      cfg,
        draining: abool.New(),
        cache:    linkedmap.New().WithAccessOrder(true),
    }
    s.srv = &fasthttp.Server{
        Handler:            s.Handle,
        ReadTimeout:        cfg.ReadTimeout,
        WriteTimeout:       cfg.WriteTimeout,
        MaxRequestBodySize: cfg.MaxBodySize,
    }
    return s
}

func (s *Server) ListenAndServe() error {
    log.Printf("Starting HTTP server on %q", s.cfg.Addr)
    return s.srv.ListenAndServe(s.cfg.Addr)
}

// Shutdown refuses new evaluations and waits for running ones.
func (s *Server) Shutdown() error {
    s.draining.Set()
    log.Printf("Shutting down HTTP server")
    return s.srv.Shutdown()
}

func (s *Server) Handle(ctx *fasthttp.RequestCtx) {
    switch string(ctx.Path()) {
    case "/stats":
        expvarhandler.ExpvarHandler(ctx)
    case "/eval":
        s.handleEval(ctx)
    default:
        ctx.Error("not found", fasthttp.StatusNotFound)
    }
}

func (s *Server) handleEval(ctx *fasthttp.RequestCtx) {
    if s.draining.IsSet() {
        ctx.Error("server is shutting down", fasthttp.StatusServiceUnavailable)
        return
    }
    if !ctx.IsPost() {
        ctx.Error("use POST", fasthttp.StatusMethodNotAllowed)
        return
    }
    evalCount.Add(1)

    c, err := s.compile(ctx.PostBody())
    if err != nil {
        evalErrors.Add(1)
        writeJSON(ctx, fasthttp.StatusBadRequest, Response{Error: err.Error()})
        return
    }
    var resp Response
    for _, w := range c.prog.Warnings {
        resp.Warnings = append(resp.Warnings, w.String())
    }
    sess := session.New(c.names, c.prelude)
    sess.SetMaxDepth(s.cfg.MaxDepth)
    v, err := sess.Run(c.prog)
    if err != nil {
        evalErrors.Add(1)
        resp.Error = err.Error()
        writeJSON(ctx, fasthttp.StatusUnprocessableEntity, resp)
        return
    }
    resp.Value = evaluator.Format(v)
    writeJSON(ctx, fasthttp.StatusOK, resp)
}

// compile parses src with a fresh interner, or returns the cached result
// for the same source. Cached programs and preludes are immutable, so
// concurrent requests can evaluate the same entry.
func (s *Server) compile(src []byte) (*compiled, error) {
    key := blake3.Sum256(src)
    if s.cfg.CacheSize > 0 {
        s.mu.Lock()
        hit, _ := s.cache.Get(key).(*compiled)
        s.mu.Unlock()
        if hit != nil {
            cacheHits.Add(1)
            return hit, nil
        }
    }

    names := symbol.NewInterner()
    toks, err := lexer.Lex(string(src))
    if err != nil { return nil, err }
    prog, err := parser.New(toks, names).SetMaxDepth(s.cfg.MaxDepth).ParseProgram()
    if err != nil { return nil, err }
    c := &compiled{prog: prog, names: names, prelude: evaluator.Prelude(names)}
    if s.cfg.CacheSize <= 0 { return c, nil }

    s.mu.Lock()
    s.cache.Put(key, c)
    for s.cache.Size() > s.cfg.CacheSize { s.cache.RemoveFirstElement() }
    s.mu.Unlock()
    return c, nil
}

// CacheLen is the number of cached programs.
func (s *Server) CacheLen() int {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.cache.Size()
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, resp Response) {
    data, err := json.Marshal(resp)
    if err != nil {
        log.Printf("encoding response: %v", err)
        ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
        return
    }
    ctx.SetStatusCode(status)
    ctx.SetContentType("application/json")
    ctx.SetBody(data)
}
