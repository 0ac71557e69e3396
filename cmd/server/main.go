package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/webtop-os/webtop/internal/infrastructure/config"
	"github.com/webtop-os/webtop/internal/infrastructure/server"
)

func main() {
	// Flags override the environment for local runs
	port := flag.String("port", "", "HTTP port (overrides PORT)")
	stateDir := flag.String("state", "", "state directory (overrides STATE_DIR)")
	dev := flag.Bool("dev", false, "development mode: colored logs at debug level")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *stateDir != "" {
		cfg.Storage.StateDir = *stateDir
	}
	if *dev {
		cfg.Logging.Development = true
		cfg.Logging.Level = "debug"
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("server: %v", err)
	}

	errc := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errc <- err
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigc:
		log.Printf("caught %v, shutting down", sig)
		if err := srv.Close(); err != nil {
			log.Printf("shutdown: %v", err)
		}
	case err := <-errc:
		log.Fatalf("server: %v", err)
	}
}
