package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/spendshred/internal/domain"
	"github.com/bnema/spendshred/internal/ports"
)

// ErrStaleSnapshot is returned by Refresh when a newer refresh committed
// while this one was in flight. The returned snapshot is the newer one.
var ErrStaleSnapshot = errors.New("stale portfolio snapshot discarded")

// Portfolio owns the single current view of the collection and its
// statistics. Concurrent refreshes are ordered by sequence number and only
// the most recent one wins.
type Portfolio struct {
	store ports.SubscriptionStore
	clock ports.Clock

	mu       sync.Mutex
	issued   uint64
	snapshot Snapshot
}

func NewPortfolio(store ports.SubscriptionStore, clock ports.Clock) *Portfolio {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Portfolio{
		store:    store,
		clock:    clock,
		snapshot: Snapshot{Stale: true, Stats: domain.Aggregate(nil)},
	}
}

func (p *Portfolio) Refresh(ctx context.Context) (Snapshot, error) {
	p.mu.Lock()
	p.issued++
	seq := p.issued
	p.mu.Unlock()

	subscriptions, err := p.store.List(ctx)
	if err != nil {
		return p.Current(), fmt.Errorf("list subscriptions: %w", err)
	}
	stats := domain.Aggregate(subscriptions)

	p.mu.Lock()
	defer p.mu.Unlock()

	if seq < p.snapshot.Seq {
		return p.snapshot, ErrStaleSnapshot
	}

	p.snapshot = Snapshot{
		Seq:           seq,
		Subscriptions: subscriptions,
		Stats:         stats,
		FetchedAt:     p.clock.Now(),
	}

	return p.snapshot, nil
}

func (p *Portfolio) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.snapshot.Stale = true
}

func (p *Portfolio) Current() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.snapshot
}
