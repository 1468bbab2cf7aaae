package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/spendshred/internal/domain"
	"github.com/bnema/spendshred/internal/ports"
	"go.uber.org/zap"
)

type Service struct {
	store     ports.SubscriptionStore
	portfolio *Portfolio
	logger    *zap.Logger
}

func NewService(store ports.SubscriptionStore, clock ports.Clock, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		store:     store,
		portfolio: NewPortfolio(store, clock),
		logger:    logger,
	}
}

func (s *Service) Portfolio() *Portfolio {
	return s.portfolio
}

// Snapshot refreshes the portfolio view. A refresh overtaken by a newer one
// yields the newer snapshot.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	snapshot, err := s.portfolio.Refresh(ctx)
	if err != nil {
		if errors.Is(err, ErrStaleSnapshot) {
			s.logger.Debug("discarded stale portfolio refresh", zap.Uint64("seq", snapshot.Seq))
			return snapshot, nil
		}
		return Snapshot{}, fmt.Errorf("refresh portfolio: %w", err)
	}

	return snapshot, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Subscription, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return snapshot.Subscriptions, nil
}

func (s *Service) View(ctx context.Context, opts domain.ViewOptions) ([]domain.Subscription, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return snapshot.View(opts), nil
}

func (s *Service) Stats(ctx context.Context) (domain.PortfolioStats, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return domain.PortfolioStats{}, err
	}

	return snapshot.Stats, nil
}

// Find looks a subscription up by listing the whole collection; the store
// has no lookup by id.
func (s *Service) Find(ctx context.Context, id domain.SubscriptionID) (domain.Subscription, error) {
	subscriptions, err := s.store.List(ctx)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("list subscriptions: %w", err)
	}

	for _, sub := range subscriptions {
		if sub.ID == id {
			return sub, nil
		}
	}

	return domain.Subscription{}, &domain.NotFoundError{ID: id}
}

// Create classifies and validates the draft before it reaches the store.
// The status carried by the draft is ignored.
func (s *Service) Create(ctx context.Context, draft domain.SubscriptionDraft) (domain.Subscription, error) {
	if strings.TrimSpace(draft.LastUsed) == "" {
		draft.LastUsed = domain.AddedLastUsed
	}
	draft.Normalize()

	status, err := domain.Classify(draft.SeatsTotal, draft.SeatsUnused)
	if err != nil {
		return domain.Subscription{}, err
	}
	draft.Status = status

	if err := draft.Validate(); err != nil {
		return domain.Subscription{}, err
	}

	created, err := s.store.Create(ctx, draft)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("create subscription: %w", err)
	}
	s.portfolio.Invalidate()

	s.logger.Info("subscription created",
		zap.String("id", string(created.ID)),
		zap.String("name", created.Name),
		zap.String("status", string(created.Status)),
	)

	return created, nil
}

// Edit merges the patch into the stored record, reclassifies it and writes
// the merged fields back. A cancelled subscription stays cancelled.
func (s *Service) Edit(ctx context.Context, id domain.SubscriptionID, patch domain.SubscriptionPatch) (domain.Subscription, error) {
	current, err := s.Find(ctx, id)
	if err != nil {
		return domain.Subscription{}, err
	}

	merged := current.Apply(patch)
	draft := merged.Draft()
	draft.Normalize()

	status, err := domain.Reclassify(current.Status, draft.SeatsTotal, draft.SeatsUnused)
	if err != nil {
		return domain.Subscription{}, err
	}
	draft.Status = status
	if status == domain.StatusCancelled {
		draft.SeatsUnused = 0
	}

	if err := draft.Validate(); err != nil {
		return domain.Subscription{}, err
	}

	updated, err := s.store.Update(ctx, id, fullPatch(draft))
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("update subscription: %w", err)
	}
	s.portfolio.Invalidate()

	s.logger.Info("subscription edited",
		zap.String("id", string(updated.ID)),
		zap.String("status", string(updated.Status)),
	)

	return updated, nil
}

// Cancel moves the subscription to its terminal state. Cancelling a
// cancelled subscription returns it without touching the store.
func (s *Service) Cancel(ctx context.Context, id domain.SubscriptionID) (domain.Subscription, error) {
	current, err := s.Find(ctx, id)
	if err != nil {
		return domain.Subscription{}, err
	}

	if current.Status == domain.StatusCancelled {
		return current, nil
	}

	cancelled, err := s.store.Update(ctx, id, domain.CancellationPatch())
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("cancel subscription: %w", err)
	}
	s.portfolio.Invalidate()

	s.logger.Info("subscription cancelled",
		zap.String("id", string(cancelled.ID)),
		zap.String("name", cancelled.Name),
		zap.String("monthly_saving", current.Amount.StringFixed(2)),
	)

	return cancelled, nil
}

// Import stores a draft that may carry its own status. The status is
// settled against the seat data before the store sees it.
func (s *Service) Import(ctx context.Context, draft domain.SubscriptionDraft) (domain.Subscription, error) {
	draft.Normalize()

	status, err := domain.ResolveStatus(draft.Status, draft.SeatsTotal, draft.SeatsUnused)
	if err != nil {
		return domain.Subscription{}, err
	}
	draft.Status = status

	if err := draft.Validate(); err != nil {
		return domain.Subscription{}, err
	}

	created, err := s.store.Create(ctx, draft)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("create subscription: %w", err)
	}
	s.portfolio.Invalidate()

	s.logger.Info("subscription imported",
		zap.String("id", string(created.ID)),
		zap.String("status", string(created.Status)),
	)

	return created, nil
}

// Patch merges the patch into the stored record. Unlike Edit it honours an
// explicit status, so a remote cancellation lands, but a cancelled record
// never leaves that state.
func (s *Service) Patch(ctx context.Context, id domain.SubscriptionID, patch domain.SubscriptionPatch) (domain.Subscription, error) {
	current, err := s.Find(ctx, id)
	if err != nil {
		return domain.Subscription{}, err
	}

	var requested domain.Status
	if patch.Status != nil {
		requested = *patch.Status
	}

	draft := current.Apply(patch).Draft()
	draft.Normalize()

	status, unused, err := domain.TransitionStatus(current.Status, requested, draft.SeatsTotal, draft.SeatsUnused)
	if err != nil {
		return domain.Subscription{}, err
	}
	draft.Status = status
	draft.SeatsUnused = unused

	if err := draft.Validate(); err != nil {
		return domain.Subscription{}, err
	}

	updated, err := s.store.Update(ctx, id, fullPatch(draft))
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("update subscription: %w", err)
	}
	s.portfolio.Invalidate()

	s.logger.Info("subscription patched",
		zap.String("id", string(updated.ID)),
		zap.String("status", string(updated.Status)),
	)

	return updated, nil
}

// Seed writes the demo portfolio when the store is empty and reports how many
// records were created. Seed records keep their own statuses.
func (s *Service) Seed(ctx context.Context) (int, error) {
	existing, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list subscriptions: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	created := 0
	for _, draft := range SeedDrafts() {
		draft.Normalize()
		status, err := domain.ResolveStatus(draft.Status, draft.SeatsTotal, draft.SeatsUnused)
		if err != nil {
			return created, err
		}
		draft.Status = status
		if err := draft.Validate(); err != nil {
			return created, err
		}
		if _, err := s.store.Create(ctx, draft); err != nil {
			return created, fmt.Errorf("create seed subscription %q: %w", draft.Name, err)
		}
		created++
	}
	if created > 0 {
		s.portfolio.Invalidate()
	}

	s.logger.Info("seeded subscriptions", zap.Int("count", created))

	return created, nil
}

func fullPatch(draft domain.SubscriptionDraft) domain.SubscriptionPatch {
	return domain.SubscriptionPatch{
		Name:        &draft.Name,
		Team:        &draft.Team,
		Amount:      &draft.Amount,
		SeatsTotal:  &draft.SeatsTotal,
		SeatsUnused: &draft.SeatsUnused,
		Status:      &draft.Status,
		LastUsed:    &draft.LastUsed,
	}
}
