package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scorecard/internal/configuration"
	"scorecard/internal/logging"
	"scorecard/internal/metrics"
	"scorecard/internal/score"
	"scorecard/internal/score/rule"
	"scorecard/internal/scorecard"
	"scorecard/internal/scorecard/source"
	"scorecard/internal/server"
)

// newSource picks the artifact source configured for the scorecard.
func newSource(config configuration.ScorecardConfig) (source.Source, error) {
	if config.URL != "" {
		return source.NewRemoteSource(config.URL, config.Timeout, config.Format)
	}
	return source.NewFileSource(config.Model, config.Format)
}

// loadIndex reads the scorecard artifact and builds the index served for the process lifetime.
func loadIndex(ctx context.Context, config configuration.ScorecardConfig) (*scorecard.Index, error) {
	src, err := newSource(config)
	if err != nil {
		return nil, err
	}

	table, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	index, err := scorecard.Build(table)
	if err != nil {
		return nil, err
	}
	if index.Len() == 0 {
		slog.Warn("Scorecard has no variables, every evaluation will fail")
	}
	return index, nil
}

func loadRules(path string) (rule.Set, error) {
	if path == "" {
		return rule.Defaults(), nil
	}
	return rule.Load(path)
}

// Any error while loading the configuration, the scorecard or the rules
// terminates the process with exit code 1.
func main() {
	configPath := flag.String("config", "/etc/scorecard/config.yaml", "configuration file")
	flag.Parse()
	config, err := configuration.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Unable to load configuration", "error", err)
		os.Exit(1)
	}
	_, logCloser := logging.Setup(logging.Options{
		Level:      config.Logger.Level,
		Format:     config.Logger.Format,
		File:       config.Logger.File,
		MaxSize:    config.Logger.MaxSize,
		MaxBackups: config.Logger.MaxBackups,
	}, os.Stdout)
	defer logCloser.Close()

	appCtx, appCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer appCancel()

	index, err := loadIndex(appCtx, config.Scorecard)
	if err != nil {
		slog.Error("Unable to load scorecard", "error", err)
		os.Exit(1)
	}
	slog.Info("Scorecard loaded", "variables", index.Len())

	rules, err := loadRules(config.Rules)
	if err != nil {
		slog.Error("Unable to load rules", "error", err)
		os.Exit(1)
	}

	evaluator := score.NewEvaluator(index, rules, config.Decision.Policy())
	srv := server.NewServer(
		config.Server.Address,
		server.CORSOptions{
			AllowedOrigins: config.Server.CORS.AllowedOrigins,
			MaxAge:         config.Server.CORS.MaxAge,
		},
		evaluator,
		metrics.NewRecorder(),
	)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			appCancel()
		}
	}()
	slog.Info("Server listening " + config.Server.Address)
	<-appCtx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second*10)
	defer shutdownCancel()

	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		slog.Error("Server shutdown", "error", err)
	}
	slog.Info("Server stopped")
}
