package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/analytics"
	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/config"
	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/domain"
	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/generator"
	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/logging"
	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/server"
	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/store"
)

func main() {
	var (
		input     = flag.String("input", "", "local record set backing the report endpoints (.json or .csv)")
		fromStore = flag.String("from-store", "transactions.json", "object fetched from the store when -input is empty")
		topN      = flag.Int("top", 5, "number of merchants in the volume ranking")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	ctx := context.Background()

	var objectStore store.ObjectStore
	if cfg.Store.Endpoint != "" {
		minioStore, err := store.NewMinioStore(store.Options{
			Endpoint:  cfg.Store.Endpoint,
			AccessKey: cfg.Store.AccessKey,
			SecretKey: cfg.Store.SecretKey,
			UseSSL:    cfg.Store.UseSSL,
		})
		if err != nil {
			logger.Error("failed to create object store client", "error", err)
			os.Exit(1)
		}
		objectStore = minioStore
	}

	transactions, err := loadTransactions(ctx, cfg, objectStore, *input, *fromStore)
	if err != nil {
		logger.Error("failed to load record set", "error", err)
		os.Exit(1)
	}

	report := analytics.BuildReport(transactions, *topN)
	logger.Info("report computed",
		"transactions", report.Summary.Transactions,
		"users", report.Summary.UniqueUsers,
		"merchants", report.Summary.UniqueMerchants,
	)

	handlers := server.NewReportHandlers(logger, server.StaticReportProvider{Data: report})

	var metrics *server.Metrics
	if cfg.HTTP.MetricsEnabled {
		metrics = server.NewMetrics()
	}

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.StoreHealthService{Store: objectStore},
		Reports:          handlers,
		Metrics:          metrics,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func loadTransactions(ctx context.Context, cfg config.Config, objectStore store.ObjectStore, input, fromStore string) ([]domain.Transaction, error) {
	if input != "" {
		file, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", input, err)
		}
		defer file.Close()
		if strings.EqualFold(filepath.Ext(input), ".csv") {
			return generator.DecodeCSV(file)
		}
		return generator.DecodeJSON(file)
	}

	if objectStore == nil {
		return nil, fmt.Errorf("no -input given and STORE_ENDPOINT is not configured")
	}
	object, err := objectStore.Get(ctx, cfg.Store.Bucket, fromStore)
	if err != nil {
		return nil, fmt.Errorf("fetch %s/%s: %w", cfg.Store.Bucket, fromStore, err)
	}
	defer object.Close()
	if strings.EqualFold(filepath.Ext(fromStore), ".csv") {
		return generator.DecodeCSV(object)
	}
	return generator.DecodeJSON(object)
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	var origins []string
	for _, part := range strings.Split(csv, ",") {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
