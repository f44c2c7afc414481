package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/selensince1817/resume-mcp/internal/config"
	"github.com/selensince1817/resume-mcp/internal/server"
)

func main() {
	transport := flag.String("transport", "stdio", "mcp transport: stdio or sse")
	port := flag.String("port", "", "listen address for sse (overrides $PORT)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != "" {
		cfg.Addr = *port
		if !strings.HasPrefix(cfg.Addr, ":") {
			cfg.Addr = ":" + cfg.Addr
		}
	}

	a, err := server.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer a.Close()

	switch *transport {
	case "stdio":
		if err := a.ServeStdio(); err != nil {
			log.Printf("Server error: %v", err)
		}

	case "sse":
		go func() {
			if err := a.StartHTTP(); err != nil {
				log.Printf("Server error: %v", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := a.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}

		log.Println("Server exiting")

	default:
		log.Fatalf("Unknown transport %q (want stdio or sse)", *transport)
	}
}
