// Package service implements the catalog, inventory, and ledger rules on top
// of the Repository. It is the only writer, so every persisted profit value
// went through the pricing calculator on its way in.
package service

import (
	"time"

	"piecesitos/backend/internal/cache"
	"piecesitos/backend/internal/store"
)

const summaryCacheKey = "ledger:summary"

// TrendWindow is the number of most recent sales shown in the trend bars.
const TrendWindow = 7

type Service struct {
	repo       store.Repository
	summaries  cache.SummaryCache
	summaryTTL time.Duration
}

func New(repo store.Repository, summaries cache.SummaryCache, summaryTTL time.Duration) *Service {
	if summaries == nil {
		summaries = cache.NoopSummaryCache{}
	}
	if summaryTTL <= 0 {
		summaryTTL = 30 * time.Second
	}

	return &Service{
		repo:       repo,
		summaries:  summaries,
		summaryTTL: summaryTTL,
	}
}
