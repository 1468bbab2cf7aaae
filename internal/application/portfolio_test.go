package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bnema/spendshred/internal/domain"
	"github.com/bnema/spendshred/internal/ports/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioDiscardsOutOfOrderResponse(t *testing.T) {
	store := mocks.NewMockSubscriptionStore(t)
	clock := mocks.NewMockClock(t)
	portfolio := NewPortfolio(store, clock)

	old := []domain.Subscription{{ID: "old", Name: "Old", Amount: decimal.NewFromInt(10), SeatsTotal: 1, Status: domain.StatusActive}}
	fresh := []domain.Subscription{{ID: "new", Name: "New", Amount: decimal.NewFromInt(20), SeatsTotal: 1, Status: domain.StatusActive}}

	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	store.EXPECT().List(mockAnyContext()).RunAndReturn(func(context.Context) ([]domain.Subscription, error) {
		close(firstStarted)
		<-releaseFirst
		return old, nil
	}).Once()
	store.EXPECT().List(mockAnyContext()).Return(fresh, nil).Once()
	clock.EXPECT().Now().Return(time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)).Once()

	var (
		wg       sync.WaitGroup
		firstErr error
		firstOut Snapshot
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstOut, firstErr = portfolio.Refresh(context.Background())
	}()

	<-firstStarted
	second, err := portfolio.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.Seq)

	close(releaseFirst)
	wg.Wait()

	require.ErrorIs(t, firstErr, ErrStaleSnapshot)
	assert.Equal(t, fresh, firstOut.Subscriptions)
	assert.Equal(t, fresh, portfolio.Current().Subscriptions)
	assert.True(t, decimal.NewFromInt(20).Equal(portfolio.Current().Stats.TotalSpend))
}

func TestPortfolioInvalidateMarksSnapshotStale(t *testing.T) {
	store := mocks.NewMockSubscriptionStore(t)
	clock := mocks.NewMockClock(t)
	portfolio := NewPortfolio(store, clock)

	assert.True(t, portfolio.Current().Stale)

	store.EXPECT().List(mockAnyContext()).Return(nil, nil).Once()
	clock.EXPECT().Now().Return(time.Unix(0, 0)).Once()

	snapshot, err := portfolio.Refresh(context.Background())
	require.NoError(t, err)
	assert.False(t, snapshot.Stale)
	assert.Equal(t, 100, snapshot.Stats.HealthScore)

	portfolio.Invalidate()
	assert.True(t, portfolio.Current().Stale)
	assert.Equal(t, snapshot.Seq, portfolio.Current().Seq)
}
