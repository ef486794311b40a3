package server

import (
    "encoding/json"
    "fmt"
    "runtime/debug"
    "strings"
    "sync"
    "testing"

    "github.com/valyala/fasthttp"
    "github.com/zeebo/blake3"

    "skald-lang/impl/internal/evaluator"
)

func do(t *testing.T, s *Server, method, path, body string) (int, Response) {
    t.Helper()
    var ctx fasthttp.RequestCtx
    ctx.Request.Header.SetMethod(method)
    ctx.Request.SetRequestURI(path)
    ctx.Request.SetBodyString(body)
    s.Handle(&ctx)
    var resp Response
    if ct := string(ctx.Response.Header.ContentType()); ct == "application/json" {
        if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
            t.Fatalf("bad JSON %q: %v", ctx.Response.Body(), err)
        }
    }
    return ctx.Response.StatusCode(), resp
}

func TestEvalOK(t *testing.T) {
    s := New(DefaultConfig())
    code, resp := do(t, s, "POST", "/eval", "((lambda (x y) (and x y)) false true)")
    if code != fasthttp.StatusOK || resp.Value != "false" || resp.Error != "" {
        t.Fatalf("got %d %+v", code, resp)
    }
}

func TestEvalRuntimeError(t *testing.T) {
    s := New(DefaultConfig())
    code, resp := do(t, s, "POST", "/eval", "(match true (false true))")
    if code != fasthttp.StatusUnprocessableEntity || resp.Error != "No pattern matched: true" {
        t.Fatalf("got %d %+v", code, resp)
    }
}

func TestEvalParseError(t *testing.T) {
    s := New(DefaultConfig())
    code, resp := do(t, s, "POST", "/eval", "(f x")
    if code != fasthttp.StatusBadRequest || resp.Error == "" {
        t.Fatalf("got %d %+v", code, resp)
    }
}

func TestEvalWarnings(t *testing.T) {
    s := New(DefaultConfig())
    code, resp := do(t, s, "POST", "/eval", "((lambda (x x) x) :a :b)")
    if code != fasthttp.StatusOK || resp.Value != ":b" || len(resp.Warnings) != 1 {
        t.Fatalf("got %d %+v", code, resp)
    }
}

func TestRequestsDoNotShareDefinitions(t *testing.T) {
    s := New(DefaultConfig())
    if code, _ := do(t, s, "POST", "/eval", "(define secret :x) secret"); code != fasthttp.StatusOK {
        t.Fatalf("define request failed with %d", code)
    }
    code, resp := do(t, s, "POST", "/eval", "secret")
    if code != fasthttp.StatusUnprocessableEntity || resp.Error == "" {
        t.Fatalf("second request saw the first one's define: %d %+v", code, resp)
    }
}

func TestMethodAndPath(t *testing.T) {
    s := New(DefaultConfig())
    if code, _ := do(t, s, "GET", "/eval", ""); code != fasthttp.StatusMethodNotAllowed {
        t.Errorf("GET /eval = %d", code)
    }
    if code, _ := do(t, s, "POST", "/nope", ""); code != fasthttp.StatusNotFound {
        t.Errorf("POST /nope = %d", code)
    }
    if code, _ := do(t, s, "GET", "/stats", ""); code != fasthttp.StatusOK {
        t.Errorf("GET /stats = %d", code)
    }
}

func TestDraining(t *testing.T) {
    s := New(DefaultConfig())
    s.draining.Set()
    if code, _ := do(t, s, "POST", "/eval", "true"); code != fasthttp.StatusServiceUnavailable {
        t.Fatalf("draining server answered %d", code)
    }
}

func cached(s *Server, src string) bool {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.cache.ContainsKey(blake3.Sum256([]byte(src)))
}

func TestParseCache(t *testing.T) {
    cfg := DefaultConfig()
    cfg.CacheSize = 2
    s := New(cfg)
    do(t, s, "POST", "/eval", "true")
    do(t, s, "POST", "/eval", "true")
    if s.CacheLen() != 1 {
        t.Fatalf("CacheLen() = %d after a repeated program, want 1", s.CacheLen())
    }
    do(t, s, "POST", "/eval", "false")
    // touch "true" so "false" becomes the least recently used entry
    do(t, s, "POST", "/eval", "true")
    do(t, s, "POST", "/eval", ":third")
    if s.CacheLen() != cfg.CacheSize {
        t.Fatalf("CacheLen() = %d, want %d", s.CacheLen(), cfg.CacheSize)
    }
    if !cached(s, "true") || !cached(s, ":third") || cached(s, "false") {
        t.Fatalf("eviction did not drop the least recently used program")
    }

    cfg.CacheSize = 0
    off := New(cfg)
    do(t, off, "POST", "/eval", "true")
    if off.CacheLen() != 0 {
        t.Fatalf("disabled cache stored a program")
    }
}

func TestInternedNamesStayBounded(t *testing.T) {
    cfg := DefaultConfig()
    cfg.CacheSize = 1
    s := New(cfg)
    for i := 0; i < 500; i++ {
        if code, _ := do(t, s, "POST", "/eval", fmt.Sprintf("(lambda (x%d) true)", i)); code != fasthttp.StatusOK {
            t.Fatalf("request %d answered %d", i, code)
        }
    }
    s.mu.Lock()
    _, v, ok := s.cache.GetFirstElement()
    s.mu.Unlock()
    if !ok || s.CacheLen() != 1 {
        t.Fatalf("CacheLen() = %d, want 1", s.CacheLen())
    }
    // the prelude primitives plus the one parameter name
    want := len(evaluator.Primitives()) + 1
    if got := v.(*compiled).names.Len(); got != want {
        t.Fatalf("cached interner holds %d names, want %d", got, want)
    }
}

func TestRunawayRecursionIsAnError(t *testing.T) {
    cfg := DefaultConfig()
    cfg.MaxDepth = 2000
    s := New(cfg)
    code, resp := do(t, s, "POST", "/eval", "((lambda (f) (f f)) (lambda (f) (f f)))")
    if code != fasthttp.StatusUnprocessableEntity || !strings.Contains(resp.Error, "Maximum evaluation depth exceeded") {
        t.Fatalf("got %d %+v", code, resp)
    }
    // the server keeps answering afterwards
    if code, resp := do(t, s, "POST", "/eval", "(not false)"); code != fasthttp.StatusOK || resp.Value != "true" {
        t.Fatalf("follow-up request got %d %+v", code, resp)
    }
}

func TestRunawayRecursionWithDefaultLimit(t *testing.T) {
    saved := debug.SetMaxStack(64 << 20)
    defer debug.SetMaxStack(saved)
    s := New(DefaultConfig())
    code, _ := do(t, s, "POST", "/eval", "((lambda (f) (f f)) (lambda (f) (f f)))")
    if code != fasthttp.StatusUnprocessableEntity {
        t.Fatalf("got %d, want 422", code)
    }
}

func TestDeepNestingIsAParseError(t *testing.T) {
    cfg := DefaultConfig()
    cfg.MaxDepth = 100
    s := New(cfg)
    src := strings.Repeat("[", 500) + strings.Repeat("]", 500)
    if code, resp := do(t, s, "POST", "/eval", src); code != fasthttp.StatusBadRequest || resp.Error == "" {
        t.Fatalf("got %d %+v", code, resp)
    }
}

func TestConcurrentRequests(t *testing.T) {
    s := New(DefaultConfig())
    src := `
(define xor2 (lambda (x y)
  (match [x y] ([true false] true) ([false true] true) (_ false))))
(xor2 %v %v)`
    var wg sync.WaitGroup
    errs := make(chan string, 32)
    for w := 0; w < 32; w++ {
        wg.Add(1)
        go func(w int) {
            defer wg.Done()
            a, b := w%2 == 0, w%4 < 2
            var ctx fasthttp.RequestCtx
            ctx.Request.Header.SetMethod("POST")
            ctx.Request.SetRequestURI("/eval")
            ctx.Request.SetBodyString(fmt.Sprintf(src, a, b))
            s.Handle(&ctx)
            var resp Response
            if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
                errs <- err.Error()
                return
            }
            if want := fmt.Sprint(a != b); resp.Value != want {
                errs <- fmt.Sprintf("xor2 %v %v = %q, want %s (%s)", a, b, resp.Value, want, resp.Error)
            }
        }(w)
    }
    wg.Wait()
    close(errs)
    for e := range errs {
        t.Error(e)
    }
}
