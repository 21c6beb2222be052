// Package cli implements the lamb command line: it evaluates a program given
// as a file path or as literal source text and prints the normal form.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/lamb/internal/config"
	lamb "github.com/funvibe/lamb/pkg/embed"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 1
	ExitParse    = 2
	ExitEval     = 3
	ExitInternal = 4
)

const (
	colorMagenta = "\033[95m"
	colorReset   = "\033[0m"
)

const usage = `usage: lamb <file | program>

Evaluates an untyped lambda-calculus program and prints its normal form.
The argument is read as a file when it names one, otherwise as source text.

  -v, --version   print the version and exit
  -h, --help      print this help and exit

Settings are read from $LAMB_CONFIG or ./lamb.yaml.`

// Run is the entry point used by cmd/lamb.
func Run() {
	log.SetFlags(0)
	os.Exit(Main(os.Args[1:], os.Stdout, os.Stderr))
}

// Main runs the command with args (program name excluded) and returns the
// process exit code.
func Main(args []string, stdout, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv(config.EnvDebug) == "1" {
				panic(r)
			}
			fmt.Fprintf(stderr, "Internal error: %v\n", r)
			fmt.Fprintln(stderr, "This is a bug. Please report it.")
			code = ExitInternal
		}
	}()

	if len(args) != 1 {
		fmt.Fprintln(stderr, usage)
		return ExitUsage
	}
	switch args[0] {
	case "-v", "--version":
		fmt.Fprintf(stdout, "lamb %s\n", config.Version)
		return ExitOK
	case "-h", "--help":
		fmt.Fprintln(stdout, usage)
		return ExitOK
	}

	settings, err := config.Discover()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return ExitUsage
	}

	source, file, err := readInput(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return ExitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []lamb.Option{lamb.WithBackend(settings.Backend)}
	if file != "" {
		opts = append(opts, lamb.WithFile(file))
	}
	if settings.Trace {
		opts = append(opts, lamb.WithTrace(log.New(stderr, "", 0)))
	}
	if settings.DumpAST {
		opts = append(opts, lamb.WithASTDump(stderr))
	}

	res, err := lamb.Interpret(ctx, source, opts...)
	if err != nil {
		return reportError(stderr, err)
	}

	if useColor(settings.Color, stdout) {
		fmt.Fprintf(stdout, "%s%s%s\n", colorMagenta, res.Text, colorReset)
	} else {
		fmt.Fprintln(stdout, res.Text)
	}
	return ExitOK
}

// readInput returns the program text for arg and, when arg is a file, its path.
// An argument with a source file extension must name a readable file.
func readInput(arg string) (string, string, error) {
	info, err := os.Stat(arg)
	if err != nil || !info.Mode().IsRegular() {
		if config.HasSourceExt(arg) {
			if err == nil {
				err = fmt.Errorf("not a regular file")
			}
			return "", "", fmt.Errorf("reading %s: %w", arg, err)
		}
		return arg, "", nil
	}
	content, err := os.ReadFile(arg)
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", arg, err)
	}
	return string(content), arg, nil
}

func reportError(stderr io.Writer, err error) int {
	var lerr *lamb.Error
	if !errors.As(err, &lerr) {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return ExitUsage
	}
	for _, d := range lerr.Diagnostics {
		fmt.Fprintln(stderr, d.Error())
	}
	return exitCode(lerr)
}

func exitCode(err *lamb.Error) int {
	switch {
	case err.IsParse():
		return ExitParse
	case err.IsInternal():
		return ExitInternal
	default:
		return ExitEval
	}
}

// useColor decides whether the result is highlighted. In auto mode color is
// used only on a terminal and only when NO_COLOR is unset.
func useColor(mode string, out io.Writer) bool {
	switch strings.ToLower(mode) {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if _, ok := os.LookupEnv(config.EnvNoColor); ok {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
