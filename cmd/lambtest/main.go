package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/funvibe/lamb/internal/batch"
	"github.com/funvibe/lamb/internal/config"
)

func main() {
	workers := flag.Int("workers", -1, "concurrent cases (overrides batch.workers; 0 = GOMAXPROCS)")
	backend := flag.String("backend", "", "evaluator backend (overrides backend)")
	verbose := flag.Bool("v", false, "print every case, not only failures")
	flag.Parse()

	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: lambtest [options] <suite.yaml>...")
		flag.PrintDefaults()
		os.Exit(1)
	}

	settings, err := config.Discover()
	if err != nil {
		log.Fatalf("lambtest: %v", err)
	}
	opts := batch.Options{Workers: settings.Batch.Workers, Backend: settings.Backend}
	if *workers >= 0 {
		opts.Workers = *workers
	}
	if *backend != "" {
		opts.Backend = *backend
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	failed := false
	for _, path := range flag.Args() {
		suite, err := batch.Load(path)
		if err != nil {
			log.Fatalf("lambtest: %v", err)
		}
		report, err := batch.Run(ctx, suite, opts)
		if err != nil {
			log.Fatalf("lambtest: %s: %v", path, err)
		}
		log.Printf("run %s: %s", report.RunID, report.Suite)
		for _, r := range report.Results {
			switch {
			case !r.Passed:
				log.Printf("  FAIL %s: %s", r.Case, r.Reason)
			case *verbose:
				log.Printf("  ok   %s (%d steps, %s)", r.Case, r.Steps, r.Elapsed)
			}
		}
		log.Printf("%d passed, %d failed", report.Passed, report.Failed)
		if !report.OK() {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}
