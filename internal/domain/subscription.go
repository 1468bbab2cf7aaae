package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type SubscriptionID string

type Status string

const (
	StatusActive    Status = "active"
	StatusZombie    Status = "zombie"
	StatusCritical  Status = "critical"
	StatusCancelled Status = "cancelled"
)

const (
	DefaultTeam     = "Unassigned"
	DefaultLastUsed = "Unknown"
	AddedLastUsed   = "Just now"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusZombie, StatusCritical, StatusCancelled:
		return true
	default:
		return false
	}
}

// Wasteful reports whether the status marks a subscription as a zombie for
// filtering and counting purposes.
func (s Status) Wasteful() bool {
	return s == StatusZombie || s == StatusCritical
}

type Subscription struct {
	ID          SubscriptionID
	Name        string
	Team        string
	Amount      decimal.Decimal
	SeatsTotal  int
	SeatsUnused int
	Status      Status
	LastUsed    string
}

// SubscriptionDraft is a subscription that has not been assigned an ID yet.
type SubscriptionDraft struct {
	Name        string
	Team        string
	Amount      decimal.Decimal
	SeatsTotal  int
	SeatsUnused int
	Status      Status
	LastUsed    string
}

// SubscriptionPatch carries a partial update. Nil fields are left unchanged.
type SubscriptionPatch struct {
	Name        *string
	Team        *string
	Amount      *decimal.Decimal
	SeatsTotal  *int
	SeatsUnused *int
	Status      *Status
	LastUsed    *string
}

func (p SubscriptionPatch) IsEmpty() bool {
	return p.Name == nil && p.Team == nil && p.Amount == nil && p.SeatsTotal == nil &&
		p.SeatsUnused == nil && p.Status == nil && p.LastUsed == nil
}

// CancellationPatch is the partial update that moves a subscription to its
// terminal state.
func CancellationPatch() SubscriptionPatch {
	status := StatusCancelled
	unused := 0
	return SubscriptionPatch{Status: &status, SeatsUnused: &unused}
}

func (s Subscription) Draft() SubscriptionDraft {
	return SubscriptionDraft{
		Name:        s.Name,
		Team:        s.Team,
		Amount:      s.Amount,
		SeatsTotal:  s.SeatsTotal,
		SeatsUnused: s.SeatsUnused,
		Status:      s.Status,
		LastUsed:    s.LastUsed,
	}
}

func (d SubscriptionDraft) WithID(id SubscriptionID) Subscription {
	return Subscription{
		ID:          id,
		Name:        d.Name,
		Team:        d.Team,
		Amount:      d.Amount,
		SeatsTotal:  d.SeatsTotal,
		SeatsUnused: d.SeatsUnused,
		Status:      d.Status,
		LastUsed:    d.LastUsed,
	}
}

// Apply returns a copy of s with the non-nil patch fields written over it.
func (s Subscription) Apply(patch SubscriptionPatch) Subscription {
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Team != nil {
		s.Team = *patch.Team
	}
	if patch.Amount != nil {
		s.Amount = *patch.Amount
	}
	if patch.SeatsTotal != nil {
		s.SeatsTotal = *patch.SeatsTotal
	}
	if patch.SeatsUnused != nil {
		s.SeatsUnused = *patch.SeatsUnused
	}
	if patch.Status != nil {
		s.Status = *patch.Status
	}
	if patch.LastUsed != nil {
		s.LastUsed = *patch.LastUsed
	}

	return s
}

func (d *SubscriptionDraft) Normalize() {
	if d == nil {
		return
	}

	d.Name = strings.TrimSpace(d.Name)
	d.Team = NormalizeTeam(d.Team)
	if strings.TrimSpace(d.LastUsed) == "" {
		d.LastUsed = DefaultLastUsed
	}
}

func NormalizeTeam(team string) string {
	trimmed := strings.TrimSpace(team)
	if trimmed == "" {
		return DefaultTeam
	}
	return trimmed
}

func (d SubscriptionDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return NewValidationError("name", "is required")
	}
	if d.Amount.IsNegative() {
		return NewValidationError("amount", fmt.Sprintf("must be non-negative, got %s", d.Amount))
	}
	if err := ValidateSeats(d.SeatsTotal, d.SeatsUnused); err != nil {
		return err
	}
	if !d.Status.Valid() {
		return NewValidationError("status", fmt.Sprintf("unsupported value %q", d.Status))
	}

	return nil
}

func (s Subscription) Validate() error {
	if strings.TrimSpace(string(s.ID)) == "" {
		return NewValidationError("id", "is required")
	}

	return s.Draft().Validate()
}

// SeatsUsed is the number of assigned seats.
func (s Subscription) SeatsUsed() int {
	return s.SeatsTotal - s.SeatsUnused
}

// WastedAmount is the proportional cost of unused seats. Cancelled
// subscriptions waste nothing.
func (s Subscription) WastedAmount() decimal.Decimal {
	if s.Status == StatusCancelled || s.SeatsTotal < 1 || s.SeatsUnused <= 0 {
		return decimal.Zero
	}

	return s.Amount.Mul(decimal.NewFromInt(int64(s.SeatsUnused))).Div(decimal.NewFromInt(int64(s.SeatsTotal)))
}
