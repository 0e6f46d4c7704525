// connpool is a diagnostic client for pooled transport connections.
//
// It builds the dialer/lifecycle/pool stack from a TOML configuration file,
// fires request round-trips against the target, and reports pool statistics.
//
// Usage:
//
//	connpool [flags]
//
// Flags:
//
//	-config string
//	    Path to configuration file
//	-target string
//	    Remote address (overrides config)
//	-i2p
//	    Dial over I2P instead of TCP (overrides config)
//	-n int
//	    Number of request round-trips to fire (default 1)
//	-payload string
//	    Request payload (default "ping")
//	-metrics string
//	    Address to serve Prometheus metrics on (e.g. "127.0.0.1:9090")
//	-v
//	    Enable verbose logging
//	-version
//	    Print version and exit
//
// See https://github.com/go-i2p/connpool for more information.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-i2p/connpool/lib/metrics"
	"github.com/go-i2p/connpool/lib/pool"
	"github.com/go-i2p/connpool/lib/transport"
	"github.com/go-i2p/connpool/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "Path to configuration file")
	target := flag.String("target", "", "Remote address (overrides config)")
	useI2P := flag.Bool("i2p", false, "Dial over I2P instead of TCP (overrides config)")
	count := flag.Int("n", 1, "Number of request round-trips to fire")
	payload := flag.String("payload", "ping", "Request payload")
	metricsAddr := flag.String("metrics", "", "Address to serve Prometheus metrics on")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "connpool - pooled transport diagnostic client\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  connpool [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Printf("connpool version %s\n", version.Full())
		return 0
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg := transport.DefaultConfig()
	if *configPath != "" {
		loaded, err := transport.LoadConfig(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			return 1
		}
		cfg = loaded
	}
	if *target != "" {
		cfg.Target = *target
	}
	if *useI2P {
		cfg.I2P.Enabled = true
	}

	client, err := transport.NewClient(cfg)
	if err != nil {
		logger.Error("failed to create client", "error", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			logger.Info("serving metrics", "addr", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	logger.Info("connpool started", "target", cfg.Target, "version", version.Full())

	var wg sync.WaitGroup
	var mu sync.Mutex
	failures := 0
	for i := 0; i < *count; i++ {
		wg.Add(1)
		go func(seq int) {
			defer wg.Done()
			resp, err := client.Do(ctx, []byte(*payload))
			if err != nil {
				logger.Error("request failed", "seq", seq, "error", err)
				mu.Lock()
				failures++
				mu.Unlock()
				return
			}
			logger.Info("response", "seq", seq, "body", string(resp))
		}(i)
	}
	wg.Wait()

	stats := client.Stats()
	pool.UpdateMetrics(stats)
	logger.Info("pool statistics",
		"size", stats.PoolSize,
		"idle", stats.IdleCount,
		"outstanding", stats.OutstandingCount,
		"created", stats.TotalCreated,
		"destroyed", stats.TotalDestroyed,
		"createErrors", stats.CreateErrors)

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer closeCancel()
	if err := client.Close(closeCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
		return 1
	}

	if failures > 0 {
		return 1
	}
	return 0
}
