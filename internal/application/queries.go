package application

import (
	"time"

	"github.com/bnema/spendshred/internal/domain"
)

// Snapshot is the last committed view of the portfolio. Seq orders
// snapshots; Stale is set once a mutation has gone through since FetchedAt.
type Snapshot struct {
	Seq           uint64
	Subscriptions []domain.Subscription
	Stats         domain.PortfolioStats
	FetchedAt     time.Time
	Stale         bool
}

func (s Snapshot) View(opts domain.ViewOptions) []domain.Subscription {
	return domain.ApplyView(s.Subscriptions, opts)
}
