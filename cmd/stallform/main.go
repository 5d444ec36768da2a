// Package main provides an ad-hoc CLI for inspecting trainer form scores.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/ktoiv/epistemo-hippodrome/internal/cache"
	"github.com/ktoiv/epistemo-hippodrome/internal/config"
	"github.com/ktoiv/epistemo-hippodrome/internal/database"
	"github.com/ktoiv/epistemo-hippodrome/internal/form"
	"github.com/ktoiv/epistemo-hippodrome/internal/logger"
	"github.com/ktoiv/epistemo-hippodrome/internal/repository"
)

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "stallform TRAINER",
	Short: "Compute the form score for one trainer",
	Long:  `Queries the historical-performance store and prints the trainer's form score: trailing 30-day win rate minus all-time win rate, in percentage points.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run(trainer string) error {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.IsProduction())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to performance store: %w", err)
	}
	defer db.Close()

	repo := repository.NewPostgresPerformanceRepository(db)
	scorer := form.NewScorer(repo, cache.NewStore("form", cfg.FormCacheTTL()), cfg.FormCacheTTL(), appLog)

	score := scorer.Score(ctx, trainer)
	fmt.Printf("%s: %+.2f\n", trainer, score)
	return nil
}
