package application

import (
	"github.com/bnema/spendshred/internal/domain"
	"github.com/shopspring/decimal"
)

// SeedDrafts is the demo portfolio written into an empty store.
func SeedDrafts() []domain.SubscriptionDraft {
	return []domain.SubscriptionDraft{
		{Name: "Notion", Team: "Engineering", Amount: decimal.NewFromInt(120), SeatsTotal: 12, SeatsUnused: 0, Status: domain.StatusActive, LastUsed: "2h ago"},
		{Name: "Figma", Team: "Design", Amount: decimal.NewFromInt(450), SeatsTotal: 10, SeatsUnused: 3, Status: domain.StatusZombie, LastUsed: "3mo ago"},
		{Name: "ChatGPT Plus", Team: "Marketing", Amount: decimal.NewFromInt(200), SeatsTotal: 10, SeatsUnused: 8, Status: domain.StatusCritical, LastUsed: domain.DefaultLastUsed},
		{Name: "Linear", Team: "Product", Amount: decimal.NewFromInt(80), SeatsTotal: 8, SeatsUnused: 0, Status: domain.StatusActive, LastUsed: "1d ago"},
		{Name: "Adobe CC", Team: "Design", Amount: decimal.NewFromInt(600), SeatsTotal: 5, SeatsUnused: 1, Status: domain.StatusZombie, LastUsed: "4mo ago"},
	}
}
