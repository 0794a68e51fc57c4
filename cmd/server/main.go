package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"website-assistant/internal/app"
	"website-assistant/internal/config"
	"website-assistant/internal/server"
	"website-assistant/pkg/logger"
)

func main() {
	cfgPath := flag.String("config", "", "path to the YAML config file")
	addr := flag.String("addr", "", "listen address (default from config)")
	flag.Parse()

	boot := logger.New(os.Stderr, "info", "text")
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		boot.Errorf("load config: %v", err)
		os.Exit(1)
	}
	l := logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	a, err := app.Build(cfg, l.Logger)
	if err != nil {
		l.Errorf("start: %v", err)
		os.Exit(1)
	}
	defer a.Close()

	if *addr == "" {
		*addr = cfg.Server.Addr
	}

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := server.New(a).ListenAndServe(ctx, *addr); err != nil {
		l.Errorf("server error: %v", err)
		os.Exit(1)
	}
}
