package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/analytics"
	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		count         = flag.Int("count", cfg.Count, "number of transactions to generate")
		users         = flag.Int("users", cfg.UserPoolSize, "size of the synthetic user pool")
		merchants     = flag.Int("merchants", cfg.MerchantPoolSize, "size of the synthetic merchant pool")
		amountMin     = flag.Float64("amount-min", cfg.AmountMin, "minimum transaction amount")
		amountMax     = flag.Float64("amount-max", cfg.AmountMax, "maximum transaction amount")
		failureRate   = flag.Float64("failure-rate", cfg.FailureRate, "base probability of a failed transaction")
		merchantRates = flag.String("merchant-failure-rates", "", "per-merchant overrides, e.g. MERCH-001=0.4,MERCH-007=0.9")
		cityRates     = flag.String("city-failure-rates", "", "per-city overrides, e.g. Mumbai=0.3")
		windowStart   = flag.String("window-start", cfg.WindowStart.Format(time.RFC3339), "start of the timestamp window (RFC 3339)")
		windowEnd     = flag.String("window-end", cfg.WindowEnd.Format(time.RFC3339), "end of the timestamp window (RFC 3339)")
		seed          = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation (0 uses the wall clock)")
		outputDir     = flag.String("output-dir", "data", "directory to write transactions.json and transactions.csv")
		writeStdout   = flag.Bool("stdout", false, "write the JSON record set to stdout instead of files")
	)
	flag.Parse()

	genCfg := generator.Config{
		Count:            *count,
		UserPoolSize:     *users,
		MerchantPoolSize: *merchants,
		AmountMin:        *amountMin,
		AmountMax:        *amountMax,
		FailureRate:      *failureRate,
		Seed:             *seed,
	}

	var err error
	if genCfg.WindowStart, err = time.Parse(time.RFC3339, *windowStart); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -window-start: %v\n", err)
		os.Exit(1)
	}
	if genCfg.WindowEnd, err = time.Parse(time.RFC3339, *windowEnd); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -window-end: %v\n", err)
		os.Exit(1)
	}
	if genCfg.MerchantFailureRates, err = parseRateOverrides(*merchantRates); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -merchant-failure-rates: %v\n", err)
		os.Exit(1)
	}
	if genCfg.CityFailureRates, err = parseRateOverrides(*cityRates); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -city-failure-rates: %v\n", err)
		os.Exit(1)
	}

	gen, err := generator.New(genCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration rejected: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	dataset, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	if *writeStdout {
		if err := generator.EncodeJSON(os.Stdout, dataset.Transactions); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write record set to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(dataset, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	summary := analytics.Summarize(dataset.Transactions)
	fmt.Fprintf(os.Stdout, "Generated %d transactions in %s into %s\n", summary.Transactions, elapsed.Round(time.Millisecond), *outputDir)
	fmt.Fprintf(os.Stdout, "  unique users: %d, unique merchants: %d\n", summary.UniqueUsers, summary.UniqueMerchants)
	fmt.Fprintf(os.Stdout, "  success rate: %.1f%%, average amount: %.2f\n", (1-summary.FailureRate)*100, summary.AverageAmount)
}

// parseRateOverrides parses "KEY=rate,KEY=rate" lists from the command line.
func parseRateOverrides(csv string) (map[string]float64, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, nil
	}
	overrides := make(map[string]float64)
	for _, pair := range strings.Split(csv, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found || key == "" {
			return nil, fmt.Errorf("malformed override %q", pair)
		}
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed rate in %q: %w", pair, err)
		}
		overrides[key] = rate
	}
	return overrides, nil
}
