package main

import (
    "bufio"
    "encoding/json"
    "fmt"
    "io"
    "log"
    "os"
    "os/signal"
    "path/filepath"
    "strconv"
    "syscall"

    "git.sr.ht/~sircmpwn/getopt"
    "github.com/fatih/color"

    "skald-lang/impl/internal/evaluator"
    "skald-lang/impl/internal/lexer"
    "skald-lang/impl/internal/parser"
    "skald-lang/impl/internal/repl"
    "skald-lang/impl/internal/server"
    "skald-lang/impl/internal/session"
)

type tokenOut struct {
    Type  string `json:"type"`
    Value string `json:"value"`
    Line  int    `json:"line"`
    Col   int    `json:"col"`
}

type options struct {
    expr   string
    server server.Config
}

var errorColor = color.New(color.FgRed)

func reportError(err error) { errorColor.Fprintln(os.Stdout, "[Error]", err) }

func printTokens(out io.Writer, src string) error {
    toks, err := lexer.Lex(src)
    if err != nil { return err }
    enc := json.NewEncoder(out)
    enc.SetEscapeHTML(false)
    for _, t := range toks {
        if err := enc.Encode(tokenOut{Type: t.Type, Value: t.Lit, Line: t.Line, Col: t.Col}); err != nil {
            return err
        }
    }
    return nil
}

func printAST(out io.Writer, src string) error {
    sess := session.NewWithPrelude()
    prog, err := parser.Parse(src, sess.Names())
    if err != nil { return err }
    w := bufio.NewWriter(out)
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    enc.SetIndent("", "  ")
    if err := enc.Encode(parser.Dump(prog)); err != nil { return err }
    return w.Flush()
}

func runProgram(out io.Writer, src string) error {
    sess := session.NewWithPrelude()
    prog, err := parser.Parse(src, sess.Names())
    if err != nil { return err }
    for _, w := range prog.Warnings {
        color.New(color.FgYellow).Fprintln(os.Stderr, "[Warning]", w)
    }
    val, err := sess.Run(prog)
    if err != nil { return err }
    // Print only the value of the last top-level form
    fmt.Fprintln(out, evaluator.Format(val))
    return nil
}

func serve(cfg server.Config) error {
    srv := server.New(cfg)
    sigs := make(chan os.Signal, 1)
    signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
    go func() {
        <-sigs
        if err := srv.Shutdown(); err != nil { log.Printf("shutdown: %v", err) }
    }()
    return srv.ListenAndServe()
}

func readSource(path string) (string, error) {
    var data []byte
    var err error
    if path == "-" {
        data, err = io.ReadAll(os.Stdin)
    } else {
        data, err = os.ReadFile(path)
    }
    if err != nil { return "", fmt.Errorf("reading %s: %w", path, err) }
    return string(data), nil
}

func usage(prog string) {
    name := filepath.Base(prog)
    fmt.Fprintf(os.Stdout, "Usage: %s [-n] [-e expr] [tokens|ast|run] <file>\n", name)
    fmt.Fprintf(os.Stdout, "       %s [-n] repl\n", name)
    fmt.Fprintf(os.Stdout, "       %s [-a addr] [-c cache-size] serve\n", name)
}

// parseFlags returns the remaining arguments, or ok == false when the
// program should exit.
func parseFlags(args []string, o *options) (rest []string, ok bool) {
    opts, optind, err := getopt.Getopts(args, "e:na:c:h")
    if err != nil {
        reportError(err)
        usage(args[0])
        return nil, false
    }
    for _, opt := range opts {
        switch opt.Option {
        case 'e':
            o.expr = opt.Value
        case 'n':
            color.NoColor = true
        case 'a':
            o.server.Addr = opt.Value
        case 'c':
            n, err := strconv.Atoi(opt.Value)
            if err != nil || n < 0 {
                reportError(fmt.Errorf("invalid -c parameter %q", opt.Value))
                return nil, false
            }
            o.server.CacheSize = n
        case 'h':
            usage(args[0])
            return nil, false
        }
    }
    return args[optind:], true
}

func main() {
    o := options{server: server.DefaultConfig()}
    if os.Getenv("NO_COLOR") != "" { color.NoColor = true }
    args, ok := parseFlags(os.Args, &o)
    if !ok { os.Exit(2) }

    if o.expr != "" {
        if err := runProgram(os.Stdout, o.expr); err != nil { reportError(err); os.Exit(1) }
        return
    }
    if len(args) < 1 {
        usage(os.Args[0])
        return
    }

    var err error
    switch args[0] {
    case "repl":
        err = repl.New(session.NewWithPrelude(), os.Stdout).Run()
    case "serve":
        err = serve(o.server)
    case "tokens", "ast", "run":
        if len(args) < 2 {
            usage(os.Args[0])
            return
        }
        var src string
        if src, err = readSource(args[1]); err == nil {
            switch args[0] {
            case "tokens": err = printTokens(os.Stdout, src)
            case "ast": err = printAST(os.Stdout, src)
            default: err = runProgram(os.Stdout, src)
            }
        }
    default:
        // Default: run program
        var src string
        if src, err = readSource(args[0]); err == nil { err = runProgram(os.Stdout, src) }
    }
    if err != nil {
        reportError(err)
        os.Exit(1)
    }
}
