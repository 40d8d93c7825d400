package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/config"
	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/logging"
	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/store"
)

var errMissingDataset = errors.New("dataset not found")

func main() {
	var (
		datasetDir = flag.String("dataset-dir", "data", "directory containing transactions.json and transactions.csv")
		bucket     = flag.String("bucket", "", "destination bucket (overrides STORE_BUCKET)")
		workers    = flag.Int("workers", 0, "number of concurrent uploads (overrides STORE_UPLOAD_WORKERS)")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "upload")

	if *bucket == "" {
		*bucket = cfg.Store.Bucket
	}
	if *workers <= 0 {
		*workers = cfg.Store.UploadWorkers
	}

	artifacts, err := loadArtifacts(*datasetDir)
	if err != nil {
		logger.Error("dataset resolution failed", "error", err, "dir", *datasetDir)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	objectStore, err := store.NewMinioStore(store.Options{
		Endpoint:  cfg.Store.Endpoint,
		AccessKey: cfg.Store.AccessKey,
		SecretKey: cfg.Store.SecretKey,
		UseSSL:    cfg.Store.UseSSL,
	})
	if err != nil {
		logger.Error("failed to create object store client", "error", err)
		os.Exit(1)
	}

	if err := objectStore.EnsureBucket(ctx, *bucket); err != nil {
		logger.Error("failed to ensure bucket", "error", err, "bucket", *bucket)
		os.Exit(1)
	}

	uploader := store.NewUploader(objectStore, *bucket, *workers)

	start := time.Now()
	logger.Info("uploading dataset", "artifacts", len(artifacts), "bucket", *bucket, "workers", *workers)
	if err := uploader.Upload(ctx, artifacts); err != nil {
		logger.Error("upload failed", "error", err)
		os.Exit(1)
	}
	logger.Info("upload complete", "duration", time.Since(start).String(), "artifacts", len(artifacts))
}

func loadArtifacts(dir string) ([]store.Artifact, error) {
	files := []struct {
		name        string
		contentType string
	}{
		{"transactions.json", "application/json"},
		{"transactions.csv", "text/csv"},
	}

	var artifacts []store.Artifact
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		payload, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", errMissingDataset, path)
			}
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		artifacts = append(artifacts, store.Artifact{
			Object:      f.name,
			ContentType: f.contentType,
			Payload:     payload,
		})
	}
	return artifacts, nil
}
