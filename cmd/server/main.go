// Package main provides the entry point for the odds aggregation server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ktoiv/epistemo-hippodrome/internal/bookmaker"
	"github.com/ktoiv/epistemo-hippodrome/internal/cache"
	"github.com/ktoiv/epistemo-hippodrome/internal/config"
	"github.com/ktoiv/epistemo-hippodrome/internal/database"
	"github.com/ktoiv/epistemo-hippodrome/internal/form"
	"github.com/ktoiv/epistemo-hippodrome/internal/health"
	"github.com/ktoiv/epistemo-hippodrome/internal/logger"
	"github.com/ktoiv/epistemo-hippodrome/internal/metrics"
	"github.com/ktoiv/epistemo-hippodrome/internal/racing"
	"github.com/ktoiv/epistemo-hippodrome/internal/repository"
	"github.com/ktoiv/epistemo-hippodrome/internal/scheduler"
	"github.com/ktoiv/epistemo-hippodrome/internal/server"
	"github.com/ktoiv/epistemo-hippodrome/internal/service"
	"github.com/ktoiv/epistemo-hippodrome/internal/transport"
)

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "epistemo-server",
	Short: "Horse-race odds aggregation and staking recommendation server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.IsProduction())
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Odds aggregation server starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing or dead performance store degrades form scores to zero,
	// it must not keep the odds surface down
	var perfRepo repository.PerformanceRepository
	var db *database.DB
	if cfg.Database.Host == "" {
		appLog.Warn("Performance store not configured, form scores degrade to zero")
		perfRepo = repository.NewUnavailableRepository(errors.New("performance store not configured"))
	} else if db, err = database.NewDB(ctx, &cfg.Database); err != nil {
		appLog.WithError(err).Warn("Performance store unavailable, form scores degrade to zero")
		perfRepo = repository.NewUnavailableRepository(err)
	} else {
		defer db.Close()
		perfRepo = repository.NewPostgresPerformanceRepository(db)
		appLog.Info("Performance store connection established")
	}

	racingHTTP := transport.NewClient(providerClientConfig(cfg.Racing.TimeoutSeconds, cfg.Racing.RateLimit), appLog)
	bookmakerHTTP := transport.NewClient(providerClientConfig(cfg.Bookmaker.TimeoutSeconds, cfg.Bookmaker.RateLimit), appLog)
	defer racingHTTP.Close()
	defer bookmakerHTTP.Close()

	racingClient := racing.NewClient(racingHTTP, cache.NewStore("racing", cfg.RacingCacheTTL()), racing.Options{
		BaseURL:      cfg.Racing.BaseURL,
		CountryCode:  cfg.Racing.CountryCode,
		CacheTTL:     cfg.RacingCacheTTL(),
		OddsCacheTTL: cfg.RacingOddsCacheTTL(),
	}, appLog)

	bookmakerClient := bookmaker.NewClient(bookmakerHTTP, cache.NewStore("bookmaker", cfg.BookmakerCacheTTL()), bookmaker.Options{
		BaseURL:  cfg.Bookmaker.BaseURL,
		CacheTTL: cfg.BookmakerCacheTTL(),
	}, appLog)

	scorer := form.NewScorer(perfRepo, cache.NewStore("form", cfg.FormCacheTTL()), cfg.FormCacheTTL(), appLog)

	svc := service.NewRaceViewService(racingClient, bookmakerClient, scorer, appLog)

	var pinger health.StorePinger
	if db != nil {
		pinger = db
	}
	healthServer := health.NewServer(cfg.App.Name, os.Getenv("HEALTH_PORT"), pinger, appLog)
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, metrics.Handler())
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			appLog.WithField("addr", addr).Info("Metrics server starting")
			if err := http.ListenAndServe(addr, mux); err != nil {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	if cfg.Scheduler.PrewarmEnabled {
		sched := scheduler.NewScheduler(svc, appLog)
		if err := sched.SchedulePrewarm(cfg.Scheduler.PrewarmSchedule); err != nil {
			return fmt.Errorf("failed to schedule card prewarm: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	return server.NewServer(svc, &cfg.Server, appLog).Start(ctx)
}

func providerClientConfig(timeoutSeconds int, rateLimit float64) transport.ClientConfig {
	clientCfg := transport.DefaultClientConfig()
	clientCfg.Timeout = time.Duration(timeoutSeconds) * time.Second
	clientCfg.RateLimit = rateLimit
	return clientCfg
}
