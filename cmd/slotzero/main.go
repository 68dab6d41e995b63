package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/Architecto0r/SlotZero/config"
	"github.com/Architecto0r/SlotZero/facade"
	"github.com/Architecto0r/SlotZero/httpapi"
	"github.com/Architecto0r/SlotZero/observability/logging"
	"github.com/Architecto0r/SlotZero/observability/metrics"
)

const version = "v0.1.0"

func main() {
	scenarioPath := flag.String("scenario", "", "Path to scenario.yaml (defaults used if empty)")
	listenAddr := flag.String("listen-addr", ":8080", "HTTP control-surface listen address")
	metricsPort := flag.Int("metrics-port", 0, "Prometheus metrics port (0 = disabled)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	logging.Init(parseLevel(*logLevel))
	logger := logging.NewComponentLogger(logging.CompEngine)

	logging.Banner(version)

	cfg, err := config.LoadScenario(*scenarioPath)
	if err != nil {
		logger.Error("failed to load scenario", "err", err)
		os.Exit(1)
	}
	logger.Info("scenario loaded",
		"num_validators", cfg.NumValidators,
		"slots_per_epoch", cfg.SlotsPerEpoch,
		"quorum_ratio", cfg.QuorumRatio,
	)

	f, err := facade.New(cfg)
	if err != nil {
		logger.Error("failed to initialize engine", "err", err)
		os.Exit(1)
	}

	if *metricsPort != 0 {
		metrics.Serve(*metricsPort)
		logger.Info("metrics server started", "port", *metricsPort)
	}

	srv := httpapi.NewServer(f)
	logger.Info("http control surface listening", "addr", *listenAddr)
	if err := http.ListenAndServe(*listenAddr, srv); err != nil {
		logger.Error("http server exited with error", "err", err)
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

