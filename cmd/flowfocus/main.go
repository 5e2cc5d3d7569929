package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claude/flowfocus/internal/achievements"
	"github.com/claude/flowfocus/internal/analytics"
	"github.com/claude/flowfocus/internal/config"
	"github.com/claude/flowfocus/internal/ingest"
	"github.com/claude/flowfocus/internal/notify"
	"github.com/claude/flowfocus/internal/server"
	"github.com/claude/flowfocus/internal/storage"
	"github.com/claude/flowfocus/internal/timer"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("FlowFocus starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Run migrations
	dsn := cfg.Database.DSN()
	if err := storage.RunMigrations(dsn, "migrations"); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied")

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	// Connect database
	ctx := context.Background()
	db, err := storage.New(ctx, dsn)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("database connected")

	// Change notifications and the write path
	notifier := notify.New()
	defer notifier.Close()
	provider := ingest.NewProvider(db, notifier, log)

	// Timer engine. Stored settings win over config; config wins over the
	// built-in defaults.
	settings, err := db.GetTimerSettings(ctx, 1, cfg.Timer.Settings())
	if err != nil {
		log.Error("failed to load timer settings", "error", err)
		os.Exit(1)
	}
	engine := timer.New(1, settings, provider, timer.Options{}, log)
	engine.Run()
	defer engine.Stop()
	log.Info("timer engine running", "focus_sec", settings.FocusSec)

	// Mirror engine transitions into the log. The channel closes on Stop.
	events := engine.Subscribe(16)
	go func() {
		for ev := range events {
			if ev.Type == timer.EventProgress {
				continue
			}
			log.Info("timer event", "type", ev.Type, "state", ev.State, "message", ev.Message)
		}
	}()

	// Read-side computation
	evaluator := achievements.NewEvaluator(achievements.Catalog, time.Local)
	agg := analytics.NewAggregator(time.Local)

	// Create server
	srv := server.New(db, provider, engine, evaluator, agg, notifier, cfg.Auth.APIKey, log)

	// Start server — tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
