package application

import (
	"github.com/bnema/spendshred/internal/domain"
	"github.com/shopspring/decimal"
)

// AddCommand carries the raw text of the add workflow. Numeric fields are
// parsed here so malformed input never reaches classification.
type AddCommand struct {
	Name        string
	Team        string
	Amount      string
	SeatsTotal  string
	SeatsUnused string
	LastUsed    string
}

func (c AddCommand) Draft() (domain.SubscriptionDraft, error) {
	amount, err := domain.ParseAmount(c.Amount)
	if err != nil {
		return domain.SubscriptionDraft{}, err
	}

	seatsTotal, err := domain.ParseSeats("seats_total", c.SeatsTotal)
	if err != nil {
		return domain.SubscriptionDraft{}, err
	}

	seatsUnused := 0
	if c.SeatsUnused != "" {
		seatsUnused, err = domain.ParseSeats("seats_unused", c.SeatsUnused)
		if err != nil {
			return domain.SubscriptionDraft{}, err
		}
	}

	return domain.SubscriptionDraft{
		Name:        c.Name,
		Team:        c.Team,
		Amount:      amount,
		SeatsTotal:  seatsTotal,
		SeatsUnused: seatsUnused,
		LastUsed:    c.LastUsed,
	}, nil
}

// EditCommand carries the raw text of the edit workflow. Nil fields are left
// unchanged.
type EditCommand struct {
	ID          domain.SubscriptionID
	Name        *string
	Team        *string
	Amount      *string
	SeatsTotal  *string
	SeatsUnused *string
	LastUsed    *string
}

func (c EditCommand) Patch() (domain.SubscriptionPatch, error) {
	patch := domain.SubscriptionPatch{
		Name:     c.Name,
		Team:     c.Team,
		LastUsed: c.LastUsed,
	}

	if c.Amount != nil {
		amount, err := domain.ParseAmount(*c.Amount)
		if err != nil {
			return domain.SubscriptionPatch{}, err
		}
		patch.Amount = decimalPtr(amount)
	}
	if c.SeatsTotal != nil {
		seats, err := domain.ParseSeats("seats_total", *c.SeatsTotal)
		if err != nil {
			return domain.SubscriptionPatch{}, err
		}
		patch.SeatsTotal = &seats
	}
	if c.SeatsUnused != nil {
		seats, err := domain.ParseSeats("seats_unused", *c.SeatsUnused)
		if err != nil {
			return domain.SubscriptionPatch{}, err
		}
		patch.SeatsUnused = &seats
	}

	return patch, nil
}

func decimalPtr(v decimal.Decimal) *decimal.Decimal {
	return &v
}
