package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"

	"github.com/cdrlens/cdrlens/pkg/api"
	"github.com/cdrlens/cdrlens/pkg/graph"
	"github.com/cdrlens/cdrlens/pkg/logging"
	"github.com/cdrlens/cdrlens/pkg/metrics"
	"github.com/cdrlens/cdrlens/pkg/session"
)

func main() {
	port := flag.Int("port", 0, "HTTP server port (default 8080, or set PORT)")
	configPath := flag.String("config", "", "Engine config file (YAML)")
	flag.Parse()

	// Get port from env if not provided
	if *port == 0 {
		if envPort := os.Getenv("PORT"); envPort != "" {
			if p, err := strconv.Atoi(envPort); err == nil {
				*port = p
			} else {
				*port = 8080
			}
		} else {
			*port = 8080
		}
	}

	// Structured logging for the process itself; the engine logs through
	// its own JSON logger.
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := graph.DefaultConfig()
	if *configPath != "" {
		loaded, err := graph.LoadConfig(*configPath)
		if err != nil {
			slogger.Error("failed to load config", "path", *configPath, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	slogger.Info("cdrlens server starting",
		"port", *port,
		"record_cap", cfg.RecordCap,
		"hub_multiplier", cfg.HubMultiplier,
	)

	logger := logging.NewDefaultLogger()
	sessions, err := session.NewManager(cfg, logger)
	if err != nil {
		slogger.Error("failed to create session manager", "error", err)
		os.Exit(1)
	}

	server := api.NewServer(sessions, metrics.DefaultRegistry(), logger, *port)
	if err := server.Start(); err != nil {
		slogger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
