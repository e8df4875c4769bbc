package cache

import (
	"context"
	"time"

	"piecesitos/backend/internal/domain"
)

// SummaryCache holds the computed ledger summary between reads. Recording or
// deleting a sale invalidates it; a stale entry otherwise expires on its TTL.
type SummaryCache interface {
	Get(ctx context.Context, key string) (*domain.LedgerSummary, bool, error)
	Set(ctx context.Context, key string, value *domain.LedgerSummary, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

type NoopSummaryCache struct{}

func (NoopSummaryCache) Get(_ context.Context, _ string) (*domain.LedgerSummary, bool, error) {
	return nil, false, nil
}

func (NoopSummaryCache) Set(_ context.Context, _ string, _ *domain.LedgerSummary, _ time.Duration) error {
	return nil
}

func (NoopSummaryCache) Invalidate(_ context.Context, _ string) error {
	return nil
}
