package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/domain"
)

// Dataset contains the entity pools and the generated transaction sequence.
type Dataset struct {
	Users        []domain.User        `json:"users"`
	Merchants    []domain.Merchant    `json:"merchants"`
	Transactions []domain.Transaction `json:"transactions"`
}

// Generator produces synthetic banking transactions from fixed entity pools.
// Both pools are built once in New and held immutable for the run; every draw
// comes from a single seeded source so a fixed seed reproduces the full
// sequence bit-for-bit.
type Generator struct {
	cfg       Config
	rand      *rand.Rand
	fragments nameFragments
	users     []domain.User
	merchants []domain.Merchant
	seenIDs   map[string]struct{}
}

// New validates cfg, builds the entity pools and returns a ready Generator.
// A zero Seed falls back to the wall clock.
func New(cfg Config) (*Generator, error) {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Generator{
		cfg:       cfg,
		rand:      rand.New(rand.NewSource(cfg.Seed)),
		fragments: defaultNameFragments(),
		seenIDs:   make(map[string]struct{}, cfg.Count),
	}
	g.users = g.buildUserPool()
	g.merchants = g.buildMerchantPool()
	return g, nil
}

// Generate synthesises exactly cfg.Count transactions. It respects context
// cancellation between records and never emits a partial dataset.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	transactions := make([]domain.Transaction, g.cfg.Count)
	for i := range transactions {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		transactions[i] = g.nextTransaction()
	}
	return Dataset{Users: g.users, Merchants: g.merchants, Transactions: transactions}, nil
}

func (g *Generator) nextTransaction() domain.Transaction {
	user := g.users[g.rand.Intn(len(g.users))]
	merchant := g.merchants[g.rand.Intn(len(g.merchants))]

	status := domain.StatusSuccess
	if g.rand.Float64() < g.failureRateFor(merchant) {
		status = domain.StatusFailed
	}

	return domain.Transaction{
		ID:           g.uniqueID(),
		UserID:       user.ID,
		MerchantID:   merchant.ID,
		MerchantName: merchant.Name,
		City:         merchant.City,
		Amount:       g.randomAmount(),
		Status:       status,
		Timestamp:    g.randomTimestamp(),
	}
}

// uniqueID draws UUIDs from the seeded stream until an unused one appears.
// rand.Rand.Read never fails, so the only way around the loop is a collision.
func (g *Generator) uniqueID() string {
	for {
		id, err := uuid.NewRandomFromReader(g.rand)
		if err != nil {
			continue
		}
		key := id.String()
		if _, dup := g.seenIDs[key]; dup {
			continue
		}
		g.seenIDs[key] = struct{}{}
		return key
	}
}

func (g *Generator) failureRateFor(m domain.Merchant) float64 {
	if rate, ok := g.cfg.MerchantFailureRates[m.ID]; ok {
		return rate
	}
	if rate, ok := g.cfg.CityFailureRates[m.City]; ok {
		return rate
	}
	return g.cfg.FailureRate
}

// randomAmount draws uniformly within the configured range, rounded to cents.
// Rounding can nudge a draw past a bound, so the result is clamped back.
func (g *Generator) randomAmount() float64 {
	v := g.cfg.AmountMin + g.rand.Float64()*(g.cfg.AmountMax-g.cfg.AmountMin)
	v = math.Round(v*100) / 100
	if v < g.cfg.AmountMin {
		v = g.cfg.AmountMin
	}
	if v > g.cfg.AmountMax {
		v = g.cfg.AmountMax
	}
	return v
}

func (g *Generator) randomTimestamp() time.Time {
	start := g.cfg.WindowStart.UTC()
	span := g.cfg.WindowEnd.Sub(g.cfg.WindowStart)
	return start.Add(time.Duration(g.rand.Int63n(int64(span))))
}

func (g *Generator) buildUserPool() []domain.User {
	users := make([]domain.User, g.cfg.UserPoolSize)
	for i := range users {
		first := g.fragments.first[g.rand.Intn(len(g.fragments.first))]
		last := g.fragments.last[g.rand.Intn(len(g.fragments.last))]
		domainName := g.fragments.domains[g.rand.Intn(len(g.fragments.domains))]
		users[i] = domain.User{
			ID:    fmt.Sprintf("USER-%04d", i+1),
			Name:  fmt.Sprintf("%s %s", first, last),
			Email: fmt.Sprintf("%s.%s%d@%s", first, last, i+1, domainName),
		}
	}
	return users
}

func (g *Generator) buildMerchantPool() []domain.Merchant {
	merchants := make([]domain.Merchant, g.cfg.MerchantPoolSize)
	for i := range merchants {
		stem := g.fragments.merchantStems[g.rand.Intn(len(g.fragments.merchantStems))]
		suffix := g.fragments.merchantSuffixes[g.rand.Intn(len(g.fragments.merchantSuffixes))]
		merchants[i] = domain.Merchant{
			ID:       fmt.Sprintf("MERCH-%03d", i+1),
			Name:     fmt.Sprintf("%s %s", stem, suffix),
			Category: g.fragments.categories[g.rand.Intn(len(g.fragments.categories))],
			City:     g.fragments.cities[g.rand.Intn(len(g.fragments.cities))],
		}
	}
	return merchants
}

type nameFragments struct {
	first            []string
	last             []string
	domains          []string
	merchantStems    []string
	merchantSuffixes []string
	categories       []string
	cities           []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		first:            []string{"Jane", "John", "Alex", "Priya", "Liu", "Maria", "Omar", "Sofia", "Noah", "Emma", "Lucas", "Mia", "Ava", "Ethan", "Zara"},
		last:             []string{"Doe", "Smith", "Chen", "Patel", "Garcia", "Khan", "Kim", "Ivanov", "Nguyen", "Silva", "Brown", "Lee"},
		domains:          []string{"example.com", "mail.com", "payments.net", "securepay.org"},
		merchantStems:    []string{"Apex", "Blue Lotus", "Cedar", "Delta", "Evergreen", "Falcon", "Golden Gate", "Horizon", "Indigo", "Juniper", "Koral", "Lakeside", "Meridian", "Northwind", "Orchid"},
		merchantSuffixes: []string{"Traders", "Retail", "Stores", "Foods", "Electronics", "Logistics", "Services", "Market"},
		categories:       []string{"GROCERY", "ELECTRONICS", "FUEL", "DINING", "TRAVEL", "UTILITIES", "ENTERTAINMENT", "HEALTHCARE"},
		cities:           []string{"Mumbai", "Delhi", "Kolkata", "Bangalore", "Hyderabad", "Chennai"},
	}
}
