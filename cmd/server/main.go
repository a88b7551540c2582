package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/baditaflorin/go_slot_normalizer/internal/adapters/logger"
	"github.com/baditaflorin/go_slot_normalizer/internal/adapters/mapping"
	"github.com/baditaflorin/go_slot_normalizer/internal/app"
	"github.com/baditaflorin/go_slot_normalizer/internal/config"
	"github.com/baditaflorin/go_slot_normalizer/internal/ports"
	"github.com/baditaflorin/go_slot_normalizer/internal/warmup"
	"github.com/valyala/fasthttp"
)

func main() {
	// Parse command-line flags; non-zero values override the config file
	configPath := flag.String("config", "", "YAML config file (empty = defaults and environment)")
	port := flag.Int("port", 0, "HTTP server port")
	logFile := flag.String("log-file", "", "Log file path (empty = stdout)")
	noWarmUp := flag.Bool("no-warm-up", false, "Skip the correction table check on startup")
	flag.Parse()

	cfg, err := config.Load(nil, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	if *noWarmUp {
		cfg.Server.WarmUp = false
	}

	// Set up logger
	lg, err := app.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Close()

	baseDir := ""
	if *configPath != "" {
		baseDir = filepath.Dir(*configPath)
	}
	m, err := app.LoadMapping(cfg, baseDir)
	if err != nil {
		lg.Error("Failed to load slot mapping", "error", err)
		os.Exit(1)
	}

	n, err := app.NewNormalizer(cfg, m, lg)
	if err != nil {
		lg.Error("Failed to initialize normalizer", "error", err)
		os.Exit(1)
	}
	bp, err := app.NewBatchProcessor(cfg, m, lg)
	if err != nil {
		lg.Error("Failed to initialize batch processor", "error", err)
		os.Exit(1)
	}

	lg.Info("Starting slot normalizer HTTP server",
		"port", cfg.Server.Port,
		"read_timeout", cfg.Server.ReadTimeout,
		"write_timeout", cfg.Server.WriteTimeout,
		"max_request_size", cfg.Server.MaxRequestSize,
		"concurrency", cfg.Server.Concurrency,
		"not_mentioned", cfg.NotMentioned,
		"slot_names", len(m.SlotNames),
		"substitutions", len(m.Substitutions),
	)

	if cfg.Server.WarmUp {
		wm := warmup.NewManager(logger.FromExisting(lg), warmup.DefaultWarmupConfig())
		wm.RegisterNormalizer(ports.NormalizerFunc(n.NormalizeWith))
		wm.RegisterCanonicalizer(n)
		wm.WarmUp(context.Background())
	}

	h := newHandler(n, bp, lg, cfg.Server.WriteTimeout)

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if cfg.Server.WatchMapping && cfg.MappingFile != "" {
		err := mapping.Watch(watchCtx, app.MappingPath(cfg, baseDir), logger.FromExisting(lg), func(f *mapping.File) {
			merged := app.MergeMapping(cfg, f)
			n, err := app.NewNormalizer(cfg, merged, lg)
			if err != nil {
				lg.Error("Failed to rebuild normalizer", "error", err)
				return
			}
			bp, err := app.NewBatchProcessor(cfg, merged, lg)
			if err != nil {
				lg.Error("Failed to rebuild batch processor", "error", err)
				return
			}
			h.swap(n, bp)
		})
		if err != nil {
			lg.Warn("Mapping file will not be reloaded", "error", err)
		}
	}

	// Create HTTP server with fasthttp
	server := &fasthttp.Server{
		Handler:               h.ServeHTTP,
		Name:                  "SlotNormalizer",
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		MaxRequestBodySize:    cfg.Server.MaxRequestSize,
		Concurrency:           cfg.Server.Concurrency,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxIdleWorkerDuration: 10 * time.Second,
	}

	// Set up graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lg.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			lg.Error("Error during server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	lg.Info("Server listening", "address", addr, "cpus", runtime.NumCPU())
	if err := server.ListenAndServe(addr); err != nil {
		lg.Error("Server error", "error", err)
		return
	}

	<-idleConnsClosed
	lg.Info("Server stopped")
}
