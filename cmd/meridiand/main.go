package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"meridian/internal/config"
	"meridian/internal/daemon"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: MERIDIAN_CONFIG, then ~/.config/meridian)")
	logLevel := flag.String("log-level", "", "override configured log level (debug, info, warn, error)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := daemon.Run(ctx, cfg, daemon.Options{LogLevel: *logLevel}); err != nil {
		log.Fatalf("meridiand: %v", err)
	}
}
