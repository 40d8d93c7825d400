package generator

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/domain"
)

func testConfig() Config {
	return Config{
		Count:            500,
		UserPoolSize:     100,
		MerchantPoolSize: 20,
		AmountMin:        10,
		AmountMax:        1000,
		FailureRate:      0.15,
		WindowStart:      time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		WindowEnd:        time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
		Seed:             42,
	}
}

func TestGenerateCountAndUniqueIDs(t *testing.T) {
	gen, err := New(testConfig())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	dataset, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	if len(dataset.Transactions) != 500 {
		t.Fatalf("expected 500 transactions, got %d", len(dataset.Transactions))
	}

	seen := make(map[string]struct{}, len(dataset.Transactions))
	for _, tx := range dataset.Transactions {
		if tx.ID == "" {
			t.Fatal("transaction with empty id")
		}
		if _, dup := seen[tx.ID]; dup {
			t.Fatalf("duplicate transaction id %s", tx.ID)
		}
		seen[tx.ID] = struct{}{}
	}
}

func TestGenerateInvariants(t *testing.T) {
	cfg := testConfig()
	gen, err := New(cfg)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	dataset, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	users := make(map[string]struct{}, len(dataset.Users))
	for _, u := range dataset.Users {
		users[u.ID] = struct{}{}
	}
	merchants := make(map[string]domain.Merchant, len(dataset.Merchants))
	for _, m := range dataset.Merchants {
		merchants[m.ID] = m
	}
	if len(users) != cfg.UserPoolSize {
		t.Fatalf("expected %d users in pool, got %d", cfg.UserPoolSize, len(users))
	}
	if len(merchants) != cfg.MerchantPoolSize {
		t.Fatalf("expected %d merchants in pool, got %d", cfg.MerchantPoolSize, len(merchants))
	}

	for _, tx := range dataset.Transactions {
		if tx.Amount <= 0 {
			t.Fatalf("non-positive amount %f on %s", tx.Amount, tx.ID)
		}
		if tx.Amount < cfg.AmountMin || tx.Amount > cfg.AmountMax {
			t.Fatalf("amount %f outside configured range on %s", tx.Amount, tx.ID)
		}
		if tx.Status != domain.StatusSuccess && tx.Status != domain.StatusFailed {
			t.Fatalf("unexpected status %q on %s", tx.Status, tx.ID)
		}
		if tx.Timestamp.Before(cfg.WindowStart) || !tx.Timestamp.Before(cfg.WindowEnd) {
			t.Fatalf("timestamp %s outside window on %s", tx.Timestamp, tx.ID)
		}
		if _, ok := users[tx.UserID]; !ok {
			t.Fatalf("transaction %s references unknown user %s", tx.ID, tx.UserID)
		}
		merchant, ok := merchants[tx.MerchantID]
		if !ok {
			t.Fatalf("transaction %s references unknown merchant %s", tx.ID, tx.MerchantID)
		}
		if tx.MerchantName != merchant.Name {
			t.Fatalf("merchant name mismatch on %s: want %q got %q", tx.ID, merchant.Name, tx.MerchantName)
		}
		if tx.City != merchant.City {
			t.Fatalf("city %q does not match merchant home city %q on %s", tx.City, merchant.City, tx.ID)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := testConfig()

	first, err := New(cfg)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := New(cfg)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	a, err := first.Generate(context.Background())
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	b, err := second.Generate(context.Background())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical seeds produced different datasets")
	}
}

func TestGenerateContextCancelled(t *testing.T) {
	gen, err := New(testConfig())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := gen.Generate(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero count", func(c *Config) { c.Count = 0 }, "count"},
		{"negative count", func(c *Config) { c.Count = -3 }, "count"},
		{"zero user pool", func(c *Config) { c.UserPoolSize = 0 }, "user_pool_size"},
		{"zero merchant pool", func(c *Config) { c.MerchantPoolSize = 0 }, "merchant_pool_size"},
		{"inverted amount range", func(c *Config) { c.AmountMin, c.AmountMax = 10, 1 }, "amount_range"},
		{"non-positive minimum", func(c *Config) { c.AmountMin = 0 }, "amount_range"},
		{"failure rate above one", func(c *Config) { c.FailureRate = 1.5 }, "failure_rate"},
		{"negative failure rate", func(c *Config) { c.FailureRate = -0.1 }, "failure_rate"},
		{"bad merchant override", func(c *Config) { c.MerchantFailureRates = map[string]float64{"MERCH-001": 2} }, "merchant_failure_rates"},
		{"bad city override", func(c *Config) { c.CityFailureRates = map[string]float64{"Mumbai": -1} }, "city_failure_rates"},
		{"inverted window", func(c *Config) { c.WindowStart, c.WindowEnd = c.WindowEnd, c.WindowStart }, "time_window"},
		{"zero window", func(c *Config) { c.WindowStart, c.WindowEnd = time.Time{}, time.Time{} }, "time_window"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)

			_, err := New(cfg)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			var invalid *InvalidConfigError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected *InvalidConfigError, got %T", err)
			}
			if invalid.Field != tc.field {
				t.Fatalf("expected offending field %q, got %q", tc.field, invalid.Field)
			}
		})
	}
}

func TestFailureRateConvergence(t *testing.T) {
	cfg := testConfig()
	cfg.Count = 100000
	cfg.FailureRate = 0.1

	gen, err := New(cfg)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	dataset, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	failed := 0
	for _, tx := range dataset.Transactions {
		if tx.Status == domain.StatusFailed {
			failed++
		}
	}
	observed := float64(failed) / float64(len(dataset.Transactions))
	if math.Abs(observed-0.1) > 0.01 {
		t.Fatalf("observed failure rate %.4f outside 0.1±0.01", observed)
	}
}

func TestMerchantAndCityOverrides(t *testing.T) {
	cfg := testConfig()
	cfg.Count = 2000
	cfg.FailureRate = 0
	cfg.MerchantFailureRates = map[string]float64{"MERCH-001": 1}

	gen, err := New(cfg)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	dataset, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	sawOverride := false
	for _, tx := range dataset.Transactions {
		if tx.MerchantID == "MERCH-001" {
			sawOverride = true
			if tx.Status != domain.StatusFailed {
				t.Fatalf("transaction %s for hotspot merchant has status %q", tx.ID, tx.Status)
			}
			continue
		}
		if tx.Status != domain.StatusSuccess {
			t.Fatalf("transaction %s outside hotspot has status %q", tx.ID, tx.Status)
		}
	}
	if !sawOverride {
		t.Fatal("no transactions hit the override merchant")
	}

	cfg = testConfig()
	cfg.Count = 2000
	cfg.FailureRate = 0
	cfg.CityFailureRates = map[string]float64{"Mumbai": 1}

	gen, err = New(cfg)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	dataset, err = gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	for _, tx := range dataset.Transactions {
		want := domain.StatusSuccess
		if tx.City == "Mumbai" {
			want = domain.StatusFailed
		}
		if tx.Status != want {
			t.Fatalf("transaction %s in %s has status %q, want %q", tx.ID, tx.City, tx.Status, want)
		}
	}
}

func TestScenarioSmallPools(t *testing.T) {
	cfg := Config{
		Count:            5,
		UserPoolSize:     3,
		MerchantPoolSize: 2,
		AmountMin:        1,
		AmountMax:        100,
		FailureRate:      0,
		WindowStart:      time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		WindowEnd:        time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		Seed:             42,
	}

	gen, err := New(cfg)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	dataset, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	if len(dataset.Transactions) != 5 {
		t.Fatalf("expected 5 transactions, got %d", len(dataset.Transactions))
	}

	validUsers := map[string]struct{}{"USER-0001": {}, "USER-0002": {}, "USER-0003": {}}
	validMerchants := map[string]struct{}{"MERCH-001": {}, "MERCH-002": {}}

	for _, tx := range dataset.Transactions {
		if tx.Status != domain.StatusSuccess {
			t.Fatalf("expected all-success run, got %q on %s", tx.Status, tx.ID)
		}
		if tx.Amount < 1 || tx.Amount > 100 {
			t.Fatalf("amount %f outside [1,100] on %s", tx.Amount, tx.ID)
		}
		if _, ok := validUsers[tx.UserID]; !ok {
			t.Fatalf("user %s outside the 3-element pool", tx.UserID)
		}
		if _, ok := validMerchants[tx.MerchantID]; !ok {
			t.Fatalf("merchant %s outside the 2-element pool", tx.MerchantID)
		}
	}
}
