package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/CTAG07/fabulist/pkg/chain"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "./config.json", "path to the JSON config file")
	input := flag.String("input", "", "corpus file to ingest (overrides the config)")
	port := flag.Int("port", 0, "HTTP port to serve on (overrides the config; 0 follows the config)")
	debug := flag.Bool("debug", false, "enable debug logging and startup diagnostics")
	flag.Parse()

	config, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *input != "" {
		config.CorpusPath = *input
	}
	if *port > 0 {
		config.ServerAddr = fmt.Sprintf(":%d", *port)
	}
	if *debug {
		config.LogLevel = "debug"
	}

	var logLevel slog.Level
	switch strings.ToLower(config.LogLevel) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	logger.Info("Starting fabulist", "version", Version, "commit", Commit, "build_date", BuildDate)

	if err := run(config, logger); err != nil {
		logger.Error("Fatal error", "error", err)
		os.Exit(1)
	}
	logger.Info("fabulist has shut down.")
}

// run builds the chain from the corpus and hosts either the HTTP server or
// the REPL until it finishes.
func run(config *Config, logger *slog.Logger) error {
	markov := chain.New()
	markov.SetLogger(logger)

	// The model is rebuilt from the corpus on every run; a corpus that
	// fails to load is a setup error, not a per-request condition.
	corpus, err := os.Open(config.CorpusPath)
	if err != nil {
		return fmt.Errorf("failed to open corpus %q: %w", config.CorpusPath, err)
	}
	if err = markov.Feed(corpus); err != nil {
		_ = corpus.Close()
		return fmt.Errorf("failed to ingest corpus %q: %w", config.CorpusPath, err)
	}
	if err = corpus.Close(); err != nil {
		return fmt.Errorf("failed to close corpus: %w", err)
	}

	sizes := markov.Sizes()
	logger.Debug("Chain built",
		slog.Int("dictionary", sizes.Dictionary),
		slog.Int("contexts", sizes.Contexts),
		slog.Int("entries", sizes.Entries),
	)

	worker := NewChainWorker(markov, logger)
	go worker.Run()
	defer worker.Close()

	if config.ServerAddr == "" {
		runREPL(worker, config.DefaultTarget, os.Stdin, os.Stdout)
		return nil
	}
	return serve(config, logger, worker)
}

// serve hosts the HTTP API until SIGINT or SIGTERM.
func serve(config *Config, logger *slog.Logger, worker *ChainWorker) error {
	db, err := initDB(config.StatsDatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open stats database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close stats database", "error", err)
		}
	}()
	if err = setupStatsSchema(db); err != nil {
		return fmt.Errorf("failed to set up stats schema: %w", err)
	}

	server := NewServer(config, logger, worker, db)
	httpServer := &http.Server{Addr: config.ServerAddr, Handler: server.mux}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting fabulist server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server failed: %w", err)
	case <-signalChan:
		logger.Info("OS signal received, initiating shutdown.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("HTTP server stopped.")
	return nil
}
