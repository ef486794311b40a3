// Package repl is the interactive driver: a persistent session with line
// editing, history and multi-line input.
package repl

import (
    "errors"
    "fmt"
    "io"
    "os"
    "path/filepath"
    "strings"

    "github.com/fatih/color"
    "github.com/peterh/liner"

    "skald-lang/impl/internal/evaluator"
    "skald-lang/impl/internal/lexer"
    "skald-lang/impl/internal/parser"
    "skald-lang/impl/internal/session"
)

const (
    banner      = "skald repl. :help for commands, Ctrl+D to exit."
    promptMain  = "skald> "
    promptCont  = "  ...> "
    historyFile = ".skald_history"
)

var (
    valueColor = color.New(color.FgBlue)
    errorColor = color.New(color.FgRed)
    warnColor  = color.New(color.FgYellow)
)

type REPL struct {
    sess *session.Session
    out  io.Writer
}

func New(sess *session.Session, out io.Writer) *REPL {
    return &REPL{sess: sess, out: out}
}

// Run reads from the terminal until EOF or :quit.
func (r *REPL) Run() error {
    fmt.Fprintln(r.out, banner)

    ln := liner.NewLiner()
    defer ln.Close()
    ln.SetCtrlCAborts(true)

    home, _ := os.UserHomeDir()
    histPath := filepath.Join(home, historyFile)
    if f, err := os.Open(histPath); err == nil {
        _, _ = ln.ReadHistory(f)
        _ = f.Close()
    }

    for {
        code, ok := readForm(ln)
        if !ok {
            fmt.Fprintln(r.out)
            break
        }
        if strings.TrimSpace(code) == "" { continue }
        ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
        if r.Handle(code) { break }
    }

    if f, err := os.Create(histPath); err == nil {
        _, _ = ln.WriteHistory(f)
        _ = f.Close()
    }
    return nil
}

// readForm keeps prompting while brackets are still open. ok is false on
// Ctrl+D or Ctrl+C.
func readForm(ln *liner.State) (string, bool) {
    var lines []string
    prompt := promptMain
    for {
        line, err := ln.Prompt(prompt)
        if err != nil {
            if errors.Is(err, liner.ErrPromptAborted) && len(lines) > 0 { return "", true }
            return "", false
        }
        lines = append(lines, line)
        code := strings.Join(lines, "\n")
        toks, err := lexer.Lex(code)
        if err != nil { return code, true }
        if depth, ok := lexer.Balance(toks); !ok || depth == 0 { return code, true }
        prompt = promptCont
    }
}

// Handle evaluates one complete chunk of input, or runs a :command. It
// reports whether the user asked to quit.
func (r *REPL) Handle(code string) (exit bool) {
    trimmed := strings.TrimSpace(code)
    if strings.HasPrefix(trimmed, ":") { return r.command(trimmed) }

    prog, err := parser.Parse(code, r.sess.Names())
    if err != nil {
        errorColor.Fprintln(r.out, "[Error]", err)
        return false
    }
    for _, w := range prog.Warnings {
        warnColor.Fprintln(r.out, "[Warning]", w)
    }
    v, err := r.sess.Run(prog)
    if err != nil {
        errorColor.Fprintln(r.out, "[Error]", err)
        return false
    }
    valueColor.Fprintln(r.out, evaluator.Format(v))
    return false
}

func (r *REPL) command(line string) bool {
    fields := strings.Fields(line)
    switch fields[0] {
    case ":quit", ":q":
        return true
    case ":reset":
        r.sess.Reset()
        fmt.Fprintln(r.out, "session reset")
    case ":env":
        for _, name := range r.sess.Defined() {
            v, _ := r.sess.Env().Lookup(name)
            fmt.Fprintf(r.out, "%s = %s\n", name.Name(), evaluator.Format(v))
        }
    case ":help":
        fmt.Fprintln(r.out, ":quit   leave the repl")
        fmt.Fprintln(r.out, ":reset  forget every define")
        fmt.Fprintln(r.out, ":env    list session definitions")
    default:
        errorColor.Fprintf(r.out, "[Error] unknown command %s\n", fields[0])
    }
    return false
}
