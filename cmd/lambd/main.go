package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/funvibe/lamb/internal/config"
	"github.com/funvibe/lamb/internal/server"
)

func main() {
	addr := flag.String("addr", "", "listen address (overrides server.addr)")
	configPath := flag.String("config", "", "settings file (default $LAMB_CONFIG or ./lamb.yaml)")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.SetOutput(os.Stderr)

	var settings *config.Settings
	var err error
	if *configPath != "" {
		settings, err = config.LoadSettings(*configPath)
	} else {
		settings, err = config.Discover()
	}
	if err != nil {
		log.Fatalf("lambd: %v", err)
	}
	if *addr != "" {
		settings.Server.Addr = *addr
	}

	srv, err := server.New(server.Options{
		Backend: settings.Backend,
		Logger:  log.Default(),
	})
	if err != nil {
		log.Fatalf("lambd: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.ListenAndServe(ctx, settings.Server.Addr); err != nil {
		log.Fatalf("lambd: %v", err)
	}
}
