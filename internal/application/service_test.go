package application

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tomlrepo "github.com/bnema/spendshred/internal/adapters/repo/toml"
	"github.com/bnema/spendshred/internal/domain"
	"github.com/bnema/spendshred/internal/ports/mocks"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func figma() domain.Subscription {
	return domain.Subscription{
		ID:          "sub-figma",
		Name:        "Figma",
		Team:        "Design",
		Amount:      decimal.NewFromInt(450),
		SeatsTotal:  10,
		SeatsUnused: 3,
		Status:      domain.StatusZombie,
		LastUsed:    "3mo ago",
	}
}

func TestServiceCreateClassifiesBeforeStoring(t *testing.T) {
	store := mocks.NewMockSubscriptionStore(t)
	service := NewService(store, mocks.NewMockClock(t), nil)

	store.EXPECT().Create(mockAnyContext(), domain.SubscriptionDraft{
		Name:        "Slack",
		Team:        domain.DefaultTeam,
		Amount:      decimal.NewFromInt(90),
		SeatsTotal:  9,
		SeatsUnused: 2,
		Status:      domain.StatusZombie,
		LastUsed:    domain.AddedLastUsed,
	}).RunAndReturn(func(_ context.Context, draft domain.SubscriptionDraft) (domain.Subscription, error) {
		return draft.WithID("sub-1"), nil
	})

	created, err := service.Create(context.Background(), domain.SubscriptionDraft{
		Name:        " Slack ",
		Amount:      decimal.NewFromInt(90),
		SeatsTotal:  9,
		SeatsUnused: 2,
		Status:      domain.StatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionID("sub-1"), created.ID)
	assert.Equal(t, domain.StatusZombie, created.Status)
	assert.True(t, service.Portfolio().Current().Stale)
}

func TestServiceCreateRejectsInvalidDraftWithoutStoreCall(t *testing.T) {
	tests := []struct {
		name  string
		draft domain.SubscriptionDraft
	}{
		{name: "unused above total", draft: domain.SubscriptionDraft{Name: "X", Amount: decimal.NewFromInt(1), SeatsTotal: 2, SeatsUnused: 3}},
		{name: "zero seats", draft: domain.SubscriptionDraft{Name: "X", Amount: decimal.NewFromInt(1)}},
		{name: "blank name", draft: domain.SubscriptionDraft{Name: " ", Amount: decimal.NewFromInt(1), SeatsTotal: 1}},
		{name: "negative amount", draft: domain.SubscriptionDraft{Name: "X", Amount: decimal.NewFromInt(-3), SeatsTotal: 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := mocks.NewMockSubscriptionStore(t)
			service := NewService(store, nil, nil)

			_, err := service.Create(context.Background(), tc.draft)
			require.ErrorIs(t, err, domain.ErrValidation)
			store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestServiceCreateWrapsStoreError(t *testing.T) {
	store := mocks.NewMockSubscriptionStore(t)
	service := NewService(store, nil, nil)

	transportErr := &domain.TransportError{Op: "create", StatusCode: 503}
	store.EXPECT().Create(mockAnyContext(), mock.Anything).Return(domain.Subscription{}, transportErr)

	_, err := service.Create(context.Background(), domain.SubscriptionDraft{Name: "X", Amount: decimal.NewFromInt(1), SeatsTotal: 1})
	require.ErrorIs(t, err, domain.ErrTransport)
	assert.ErrorContains(t, err, "create subscription")
}

func TestServiceCancelSendsCancellationPatch(t *testing.T) {
	store := mocks.NewMockSubscriptionStore(t)
	service := NewService(store, nil, nil)

	current := figma()
	cancelled := current
	cancelled.Status = domain.StatusCancelled
	cancelled.SeatsUnused = 0

	store.EXPECT().List(mockAnyContext()).Return([]domain.Subscription{current}, nil).Once()
	store.EXPECT().Update(mockAnyContext(), domain.SubscriptionID("sub-figma"), domain.CancellationPatch()).Return(cancelled, nil).Once()

	got, err := service.Cancel(context.Background(), "sub-figma")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	assert.Equal(t, 0, got.SeatsUnused)
}

func TestServiceCancelAlreadyCancelledIsNoop(t *testing.T) {
	store := mocks.NewMockSubscriptionStore(t)
	service := NewService(store, nil, nil)

	current := figma()
	current.Status = domain.StatusCancelled
	current.SeatsUnused = 0
	store.EXPECT().List(mockAnyContext()).Return([]domain.Subscription{current}, nil).Once()

	got, err := service.Cancel(context.Background(), "sub-figma")
	require.NoError(t, err)
	assert.Equal(t, current, got)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestServiceCancelUnknownIDReturnsNotFound(t *testing.T) {
	store := mocks.NewMockSubscriptionStore(t)
	service := NewService(store, nil, nil)

	store.EXPECT().List(mockAnyContext()).Return([]domain.Subscription{figma()}, nil).Once()

	_, err := service.Cancel(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrSubscriptionNotFound)

	var notFound *domain.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, domain.SubscriptionID("missing"), notFound.ID)
}

func TestServiceEditReclassifiesFromMergedSeats(t *testing.T) {
	store := mocks.NewMockSubscriptionStore(t)
	service := NewService(store, nil, nil)

	store.EXPECT().List(mockAnyContext()).Return([]domain.Subscription{figma()}, nil).Once()
	store.EXPECT().Update(mockAnyContext(), domain.SubscriptionID("sub-figma"), mock.MatchedBy(func(patch domain.SubscriptionPatch) bool {
		return patch.Status != nil && *patch.Status == domain.StatusActive &&
			patch.SeatsUnused != nil && *patch.SeatsUnused == 0 &&
			patch.SeatsTotal != nil && *patch.SeatsTotal == 10 &&
			patch.Name != nil && *patch.Name == "Figma" &&
			patch.Amount != nil && patch.Amount.Equal(decimal.NewFromInt(450))
	})).RunAndReturn(func(_ context.Context, id domain.SubscriptionID, patch domain.SubscriptionPatch) (domain.Subscription, error) {
		return figma().Apply(patch), nil
	}).Once()

	unused := 0
	got, err := service.Edit(context.Background(), "sub-figma", domain.SubscriptionPatch{SeatsUnused: &unused})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, got.Status)
}

func TestServiceEditKeepsCancelledTerminal(t *testing.T) {
	store := mocks.NewMockSubscriptionStore(t)
	service := NewService(store, nil, nil)

	current := figma()
	current.Status = domain.StatusCancelled
	current.SeatsUnused = 0

	store.EXPECT().List(mockAnyContext()).Return([]domain.Subscription{current}, nil).Once()
	store.EXPECT().Update(mockAnyContext(), domain.SubscriptionID("sub-figma"), mock.MatchedBy(func(patch domain.SubscriptionPatch) bool {
		return *patch.Status == domain.StatusCancelled && *patch.SeatsUnused == 0 && patch.Amount.Equal(decimal.NewFromInt(500))
	})).RunAndReturn(func(_ context.Context, _ domain.SubscriptionID, patch domain.SubscriptionPatch) (domain.Subscription, error) {
		return current.Apply(patch), nil
	}).Once()

	amount := decimal.NewFromInt(500)
	unused := 4
	got, err := service.Edit(context.Background(), "sub-figma", domain.SubscriptionPatch{Amount: &amount, SeatsUnused: &unused})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	assert.Equal(t, 0, got.SeatsUnused)
}

func TestServiceEditRejectsInvalidMergeWithoutUpdate(t *testing.T) {
	store := mocks.NewMockSubscriptionStore(t)
	service := NewService(store, nil, nil)

	store.EXPECT().List(mockAnyContext()).Return([]domain.Subscription{figma()}, nil).Once()

	total := 2
	_, err := service.Edit(context.Background(), "sub-figma", domain.SubscriptionPatch{SeatsTotal: &total})
	require.ErrorIs(t, err, domain.ErrValidation)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestServiceImportSettlesSuppliedStatus(t *testing.T) {
	store := mocks.NewMockSubscriptionStore(t)
	service := NewService(store, nil, nil)

	store.EXPECT().Create(mockAnyContext(), mock.MatchedBy(func(draft domain.SubscriptionDraft) bool {
		return draft.Status == domain.StatusZombie && draft.LastUsed == domain.DefaultLastUsed
	})).RunAndReturn(func(_ context.Context, draft domain.SubscriptionDraft) (domain.Subscription, error) {
		return draft.WithID("sub-slack"), nil
	}).Once()

	got, err := service.Import(context.Background(), domain.SubscriptionDraft{
		Name: "Slack", Amount: decimal.NewFromInt(90), SeatsTotal: 5, SeatsUnused: 3, Status: domain.StatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusZombie, got.Status)

	_, err = service.Import(context.Background(), domain.SubscriptionDraft{
		Name: "Slack", Amount: decimal.NewFromInt(90), SeatsTotal: 5, SeatsUnused: 3, Status: domain.StatusCancelled,
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestServicePatchHonoursCancellation(t *testing.T) {
	store := mocks.NewMockSubscriptionStore(t)
	service := NewService(store, nil, nil)

	store.EXPECT().List(mockAnyContext()).Return([]domain.Subscription{figma()}, nil).Once()
	store.EXPECT().Update(mockAnyContext(), domain.SubscriptionID("sub-figma"), mock.MatchedBy(func(patch domain.SubscriptionPatch) bool {
		return *patch.Status == domain.StatusCancelled && *patch.SeatsUnused == 0
	})).RunAndReturn(func(_ context.Context, _ domain.SubscriptionID, patch domain.SubscriptionPatch) (domain.Subscription, error) {
		return figma().Apply(patch), nil
	}).Once()

	got, err := service.Patch(context.Background(), "sub-figma", domain.CancellationPatch())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
}

func TestServicePatchRejectsLeavingCancelled(t *testing.T) {
	store := mocks.NewMockSubscriptionStore(t)
	service := NewService(store, nil, nil)

	current := figma()
	current.Status = domain.StatusCancelled
	current.SeatsUnused = 0
	store.EXPECT().List(mockAnyContext()).Return([]domain.Subscription{current}, nil).Once()

	status := domain.StatusActive
	unused := 4
	_, err := service.Patch(context.Background(), "sub-figma", domain.SubscriptionPatch{Status: &status, SeatsUnused: &unused})
	require.ErrorIs(t, err, domain.ErrValidation)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestServiceEditUnknownIDReturnsNotFound(t *testing.T) {
	store := mocks.NewMockSubscriptionStore(t)
	service := NewService(store, nil, nil)

	store.EXPECT().List(mockAnyContext()).Return(nil, nil).Once()

	name := "renamed"
	_, err := service.Edit(context.Background(), "missing", domain.SubscriptionPatch{Name: &name})
	require.ErrorIs(t, err, domain.ErrSubscriptionNotFound)
}

func TestServiceStatsAndViewUseSnapshot(t *testing.T) {
	store := mocks.NewMockSubscriptionStore(t)
	clock := mocks.NewMockClock(t)
	service := NewService(store, clock, nil)

	now := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	subs := []domain.Subscription{
		figma(),
		{ID: "sub-notion", Name: "Notion", Team: "Engineering", Amount: decimal.NewFromInt(120), SeatsTotal: 12, Status: domain.StatusActive},
	}
	store.EXPECT().List(mockAnyContext()).Return(subs, nil).Twice()
	clock.EXPECT().Now().Return(now).Twice()

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ActiveSubs)
	assert.Equal(t, 1, stats.ZombieCount)
	assert.True(t, decimal.NewFromInt(570).Equal(stats.TotalSpend))

	view, err := service.View(context.Background(), domain.ViewOptions{Filter: domain.FilterActive, Sort: domain.SortCostDesc})
	require.NoError(t, err)
	require.Len(t, view, 1)
	assert.Equal(t, domain.SubscriptionID("sub-notion"), view[0].ID)

	snapshot := service.Portfolio().Current()
	assert.False(t, snapshot.Stale)
	assert.Equal(t, uint64(2), snapshot.Seq)
	assert.True(t, snapshot.FetchedAt.Equal(now))
}

func TestServiceStatsFailureKeepsPreviousSnapshot(t *testing.T) {
	store := mocks.NewMockSubscriptionStore(t)
	service := NewService(store, mocks.NewMockClock(t), nil)

	listErr := &domain.TransportError{Op: "list", Err: errors.New("connection refused")}
	store.EXPECT().List(mockAnyContext()).Return(nil, listErr).Once()

	before := service.Portfolio().Current()
	_, err := service.Stats(context.Background())
	require.ErrorIs(t, err, domain.ErrTransport)
	assert.Equal(t, before, service.Portfolio().Current())
}

func TestServiceSeedOnlyWhenEmpty(t *testing.T) {
	store := mocks.NewMockSubscriptionStore(t)
	service := NewService(store, nil, nil)

	store.EXPECT().List(mockAnyContext()).Return(nil, nil).Once()
	store.EXPECT().Create(mockAnyContext(), mock.Anything).RunAndReturn(func(_ context.Context, draft domain.SubscriptionDraft) (domain.Subscription, error) {
		return draft.WithID(domain.SubscriptionID(draft.Name)), nil
	}).Times(len(SeedDrafts()))

	created, err := service.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, created)

	store.EXPECT().List(mockAnyContext()).Return([]domain.Subscription{figma()}, nil).Once()
	created, err = service.Seed(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestServiceCreateAndCancelPersistAcrossServiceInstances(t *testing.T) {
	t.Parallel()

	cfg := viper.New()
	cfg.Set("store.path", filepath.Join(t.TempDir(), "subscriptions.toml"))

	repo, err := tomlrepo.NewRepository(cfg)
	require.NoError(t, err)

	serviceA := NewService(repo, nil, nil)
	created, err := serviceA.Create(context.Background(), domain.SubscriptionDraft{
		Name:        "Miro",
		Team:        "Product",
		Amount:      decimal.RequireFromString("49.50"),
		SeatsTotal:  4,
		SeatsUnused: 1,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	_, err = serviceA.Cancel(context.Background(), created.ID)
	require.NoError(t, err)

	serviceB := NewService(repo, nil, nil)
	all, err := serviceB.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.StatusCancelled, all[0].Status)
	assert.Equal(t, 0, all[0].SeatsUnused)
	assert.True(t, decimal.RequireFromString("49.5").Equal(all[0].Amount))
	assert.Equal(t, domain.AddedLastUsed, all[0].LastUsed)
}

func mockAnyContext() interface{} {
	return mock.Anything
}
