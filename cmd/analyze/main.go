package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/analytics"
	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/config"
	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/domain"
	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/generator"
	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/logging"
	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/store"
)

func main() {
	var (
		input       = flag.String("input", "", "local record set to analyze (.json or .csv)")
		fromStore   = flag.String("from-store", "", "object name to fetch from the configured store instead of a local file")
		resultsDir  = flag.String("results-dir", "analysis_results", "directory receiving the report CSV files")
		topN        = flag.Int("top", 5, "number of merchants in the volume ranking")
		saveResults = flag.Bool("save-results", false, "persist the report to RESULTS_DATABASE_URL")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "analyze")

	if *input == "" && *fromStore == "" {
		logger.Error("either -input or -from-store is required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	transactions, err := loadTransactions(ctx, cfg, *input, *fromStore)
	if err != nil {
		logger.Error("failed to load record set", "error", err)
		os.Exit(1)
	}
	if len(transactions) == 0 {
		logger.Error("record set is empty")
		os.Exit(1)
	}

	start := time.Now()
	report := analytics.BuildReport(transactions, *topN)
	logger.Info("aggregations computed",
		"transactions", report.Summary.Transactions,
		"users", report.Summary.UniqueUsers,
		"merchants", report.Summary.UniqueMerchants,
		"failure_rate", fmt.Sprintf("%.4f", report.Summary.FailureRate),
		"duration", time.Since(start).String(),
	)

	if err := analytics.WriteCSVReports(report, *resultsDir); err != nil {
		logger.Error("failed to write report files", "error", err)
		os.Exit(1)
	}
	logger.Info("report files written", "dir", *resultsDir)

	if *saveResults {
		if err := persistReport(ctx, cfg, report); err != nil {
			logger.Error("failed to persist report", "error", err)
			os.Exit(1)
		}
		logger.Info("report persisted to results database")
	}
}

func loadTransactions(ctx context.Context, cfg config.Config, input, fromStore string) ([]domain.Transaction, error) {
	if input != "" {
		file, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", input, err)
		}
		defer file.Close()
		return decodeByExtension(file, filepath.Ext(input))
	}

	objectStore, err := store.NewMinioStore(store.Options{
		Endpoint:  cfg.Store.Endpoint,
		AccessKey: cfg.Store.AccessKey,
		SecretKey: cfg.Store.SecretKey,
		UseSSL:    cfg.Store.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	object, err := objectStore.Get(ctx, cfg.Store.Bucket, fromStore)
	if err != nil {
		return nil, fmt.Errorf("fetch %s/%s: %w", cfg.Store.Bucket, fromStore, err)
	}
	defer object.Close()
	return decodeByExtension(object, filepath.Ext(fromStore))
}

func decodeByExtension(r io.Reader, ext string) ([]domain.Transaction, error) {
	switch strings.ToLower(ext) {
	case ".csv":
		return generator.DecodeCSV(r)
	case ".json":
		return generator.DecodeJSON(r)
	default:
		return nil, fmt.Errorf("unsupported record set extension %q", ext)
	}
}

func persistReport(ctx context.Context, cfg config.Config, report analytics.Report) error {
	if cfg.Results.DatabaseURL == "" {
		return fmt.Errorf("RESULTS_DATABASE_URL is required for -save-results")
	}

	pool, err := pgxpool.New(ctx, cfg.Results.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect results database: %w", err)
	}
	defer pool.Close()

	results := analytics.NewResultStore(pool)
	if err := results.Init(ctx); err != nil {
		return err
	}
	return results.SaveReport(ctx, uuid.NewString(), report)
}
