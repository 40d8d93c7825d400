package analytics

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Report artifact names match the files the dashboard import job expects.
const (
	TopMerchantsFile = "top_merchants.csv"
	FailureRatesFile = "failure_rate_per_merchant.csv"
	UserAveragesFile = "avg_transaction_per_user.csv"
)

// WriteCSVReports emits the three report tables as CSV files under dir.
func WriteCSVReports(report Report, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	files := []struct {
		name string
		rows [][]string
	}{
		{TopMerchantsFile, topMerchantRows(report)},
		{FailureRatesFile, failureRateRows(report)},
		{UserAveragesFile, userAverageRows(report)},
	}

	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := writeCSVFile(path, f.rows); err != nil {
			return err
		}
	}
	return nil
}

func topMerchantRows(report Report) [][]string {
	rows := [][]string{{"merchant_id", "merchant_name", "txn_count"}}
	for _, m := range report.TopMerchants {
		rows = append(rows, []string{m.MerchantID, m.MerchantName, strconv.FormatInt(m.Count, 10)})
	}
	return rows
}

func failureRateRows(report Report) [][]string {
	rows := [][]string{{"merchant_id", "total_txns", "failed_txns", "failure_rate"}}
	for _, r := range report.MerchantFailures {
		rows = append(rows, []string{
			r.MerchantID,
			strconv.FormatInt(r.Total, 10),
			strconv.FormatInt(r.Failed, 10),
			strconv.FormatFloat(r.FailureRate, 'f', 4, 64),
		})
	}
	return rows
}

func userAverageRows(report Report) [][]string {
	rows := [][]string{{"user_id", "txn_count", "avg_transaction"}}
	for _, u := range report.UserAverages {
		rows = append(rows, []string{
			u.UserID,
			strconv.FormatInt(u.Count, 10),
			strconv.FormatFloat(u.Average, 'f', 2, 64),
		})
	}
	return rows
}

func writeCSVFile(path string, rows [][]string) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("encode csv for %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
