package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/softservesoftware/stig-bee/pkg/metrics"
	"github.com/softservesoftware/stig-bee/pkg/runtime/logging"
	"github.com/softservesoftware/stig-bee/pkg/server"
	"github.com/softservesoftware/stig-bee/pkg/services/config"
	"github.com/softservesoftware/stig-bee/pkg/services/review"
	"github.com/softservesoftware/stig-bee/pkg/store/duckdb"
	"github.com/softservesoftware/stig-bee/pkg/store/duckdb/annotation"
	"github.com/softservesoftware/stig-bee/pkg/store/duckdb/assessment"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for stig-bee",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the config file (default is ./stig-bee.yaml)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Log, os.Stdout)
	ctx := logger.WithContext(cmd.Context())

	dbPath := cfg.Storage.Path
	if dbPath == "" {
		dbPath = duckdb.InMemory
	}
	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath:  dbPath,
		Threads: cfg.Storage.Threads,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	defer db.Close()

	assessmentStore, err := assessment.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create assessment store: %w", err)
	}
	annotationStore, err := annotation.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create annotation store: %w", err)
	}

	recorder := metrics.NewRecorder()
	reviews, err := review.NewService(review.Dependencies{
		DB:          db,
		Assessments: assessmentStore,
		Annotations: annotationStore,
		Metrics:     recorder,
	})
	if err != nil {
		return fmt.Errorf("failed to create review service: %w", err)
	}

	sweeper := review.NewSweeper(reviews, assessmentStore, review.SweeperConfig{
		TTL:      cfg.Session.TTL,
		Interval: cfg.Session.SweepInterval,
	})
	sweepCtx, stopSweeper := context.WithCancel(ctx)
	go sweeper.Run(sweepCtx)
	defer func() {
		stopSweeper()
		<-sweeper.Done()
	}()

	var profiles config.Registry
	if cfg.Profiles.Path != "" {
		profiles, err = config.NewRegistry(cfg.Profiles.Path)
		if err != nil {
			return fmt.Errorf("failed to create asset profile registry: %w", err)
		}

		logger.Info().Msgf("Asset profiles at `%s` successfully loaded.", cfg.Profiles.Path)
		found, _ := profiles.GetProfiles(ctx)
		for _, profile := range found {
			logger.Info().Msgf("Profile: `%s`", profile)
		}
	}

	api := server.NewWebAPI(server.Config{
		Addr:            net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MaxUploadBytes:  cfg.Upload.MaxBytes,
		Dependencies: server.Dependencies{
			Reviews:  reviews,
			Profiles: profiles,
			Metrics:  recorder,
			Logger:   logger,
		},
	})

	return api.Start()
}
