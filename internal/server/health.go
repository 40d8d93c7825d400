package server

import (
	"context"

	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/store"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// StoreHealthService verifies object store connectivity as part of health checks.
type StoreHealthService struct {
	Store store.ObjectStore
}

// Probe implements the HealthService interface.
func (s StoreHealthService) Probe(ctx context.Context) error {
	if s.Store == nil {
		return nil
	}
	return s.Store.Probe(ctx)
}
