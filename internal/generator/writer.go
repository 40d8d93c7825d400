package generator

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/domain"
)

// SerializationError indicates the record set could not be encoded. It is
// fatal; callers must not keep partial output.
type SerializationError struct {
	Format string
	Err    error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize %s: %v", e.Format, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

var csvHeader = []string{"transaction_id", "user_id", "merchant_id", "merchant_name", "city", "amount", "status", "timestamp"}

// EncodeJSON writes the transactions as an indented JSON array with the wire
// field names preserved.
func EncodeJSON(w io.Writer, transactions []domain.Transaction) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(transactions); err != nil {
		return &SerializationError{Format: "json", Err: err}
	}
	return nil
}

// DecodeJSON reads a record set previously produced by EncodeJSON.
func DecodeJSON(r io.Reader) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	if err := json.NewDecoder(r).Decode(&transactions); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return transactions, nil
}

// EncodeCSV writes a header row followed by one row per transaction. Amounts
// are formatted with two decimals, timestamps as RFC 3339.
func EncodeCSV(w io.Writer, transactions []domain.Transaction) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return &SerializationError{Format: "csv", Err: err}
	}
	for _, tx := range transactions {
		row := []string{
			tx.ID,
			tx.UserID,
			tx.MerchantID,
			tx.MerchantName,
			tx.City,
			strconv.FormatFloat(tx.Amount, 'f', 2, 64),
			tx.Status,
			tx.Timestamp.UTC().Format(time.RFC3339Nano),
		}
		if err := writer.Write(row); err != nil {
			return &SerializationError{Format: "csv", Err: err}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return &SerializationError{Format: "csv", Err: err}
	}
	return nil
}

// DecodeCSV reads a record set previously produced by EncodeCSV.
func DecodeCSV(r io.Reader) ([]domain.Transaction, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("decode csv: missing header row")
	}
	if len(rows[0]) != len(csvHeader) {
		return nil, fmt.Errorf("decode csv: expected %d columns, got %d", len(csvHeader), len(rows[0]))
	}

	transactions := make([]domain.Transaction, 0, len(rows)-1)
	for i, row := range rows[1:] {
		amount, err := strconv.ParseFloat(row[5], 64)
		if err != nil {
			return nil, fmt.Errorf("decode csv row %d: amount: %w", i+1, err)
		}
		ts, err := time.Parse(time.RFC3339Nano, row[7])
		if err != nil {
			return nil, fmt.Errorf("decode csv row %d: timestamp: %w", i+1, err)
		}
		transactions = append(transactions, domain.Transaction{
			ID:           row[0],
			UserID:       row[1],
			MerchantID:   row[2],
			MerchantName: row[3],
			City:         row[4],
			Amount:       amount,
			Status:       row[6],
			Timestamp:    ts,
		})
	}
	return transactions, nil
}

// WriteDataset serializes the transactions into transactions.json and
// transactions.csv under the provided directory. Each file is encoded fully
// in memory first so an encoding failure leaves nothing on disk.
func WriteDataset(dataset Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var jsonBuf bytes.Buffer
	if err := EncodeJSON(&jsonBuf, dataset.Transactions); err != nil {
		return err
	}
	jsonPath := filepath.Join(dir, "transactions.json")
	if err := os.WriteFile(jsonPath, jsonBuf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", jsonPath, err)
	}

	var csvBuf bytes.Buffer
	if err := EncodeCSV(&csvBuf, dataset.Transactions); err != nil {
		return err
	}
	csvPath := filepath.Join(dir, "transactions.csv")
	if err := os.WriteFile(csvPath, csvBuf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", csvPath, err)
	}

	return nil
}
