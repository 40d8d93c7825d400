package generator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func generateFixture(t *testing.T) Dataset {
	t.Helper()
	gen, err := New(testConfig())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	dataset, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	return dataset
}

func TestJSONRoundTrip(t *testing.T) {
	dataset := generateFixture(t)

	var buf bytes.Buffer
	if err := EncodeJSON(&buf, dataset.Transactions); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := DecodeJSON(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !reflect.DeepEqual(dataset.Transactions, decoded) {
		t.Fatal("json round trip altered the record set")
	}
}

func TestCSVRoundTrip(t *testing.T) {
	dataset := generateFixture(t)

	var buf bytes.Buffer
	if err := EncodeCSV(&buf, dataset.Transactions); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := DecodeCSV(&buf)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded) != len(dataset.Transactions) {
		t.Fatalf("expected %d records, got %d", len(dataset.Transactions), len(decoded))
	}
	for i, tx := range dataset.Transactions {
		got := decoded[i]
		if got.ID != tx.ID || got.UserID != tx.UserID || got.MerchantID != tx.MerchantID ||
			got.MerchantName != tx.MerchantName || got.City != tx.City || got.Status != tx.Status {
			t.Fatalf("row %d mismatch: want %+v got %+v", i, tx, got)
		}
		// CSV carries amounts at two decimals; generated amounts already are.
		if got.Amount != tx.Amount {
			t.Fatalf("row %d amount mismatch: want %f got %f", i, tx.Amount, got.Amount)
		}
		if !got.Timestamp.Equal(tx.Timestamp) {
			t.Fatalf("row %d timestamp mismatch: want %s got %s", i, tx.Timestamp, got.Timestamp)
		}
	}
}

func TestDecodeCSVRejectsMalformedInput(t *testing.T) {
	if _, err := DecodeCSV(bytes.NewReader(nil)); err == nil {
		t.Fatal("expected error for empty input")
	}

	bad := "transaction_id,user_id\nTX-1,USER-0001\n"
	if _, err := DecodeCSV(bytes.NewReader([]byte(bad))); err == nil {
		t.Fatal("expected error for truncated header")
	}
}

func TestWriteDataset(t *testing.T) {
	dataset := generateFixture(t)
	dir := t.TempDir()

	if err := WriteDataset(dataset, dir); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	jsonFile, err := os.Open(filepath.Join(dir, "transactions.json"))
	if err != nil {
		t.Fatalf("missing transactions.json: %v", err)
	}
	defer jsonFile.Close()
	fromJSON, err := DecodeJSON(jsonFile)
	if err != nil {
		t.Fatalf("decode written json: %v", err)
	}
	if !reflect.DeepEqual(dataset.Transactions, fromJSON) {
		t.Fatal("written json does not match generated records")
	}

	csvFile, err := os.Open(filepath.Join(dir, "transactions.csv"))
	if err != nil {
		t.Fatalf("missing transactions.csv: %v", err)
	}
	defer csvFile.Close()
	fromCSV, err := DecodeCSV(csvFile)
	if err != nil {
		t.Fatalf("decode written csv: %v", err)
	}
	if len(fromCSV) != len(dataset.Transactions) {
		t.Fatalf("expected %d csv records, got %d", len(dataset.Transactions), len(fromCSV))
	}
}
