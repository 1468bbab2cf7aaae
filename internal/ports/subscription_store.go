package ports

import (
	"context"

	"github.com/bnema/spendshred/internal/domain"
)

// SubscriptionStore is the system of record for subscriptions. Create and
// Update return the stored record as the store sees it after the write.
type SubscriptionStore interface {
	List(ctx context.Context) ([]domain.Subscription, error)
	Create(ctx context.Context, draft domain.SubscriptionDraft) (domain.Subscription, error)
	Update(ctx context.Context, id domain.SubscriptionID, patch domain.SubscriptionPatch) (domain.Subscription, error)
}
