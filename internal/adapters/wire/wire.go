// Package wire holds the JSON shapes exchanged with the subscription store
// gateway. Amounts travel as JSON numbers and are decoded without going
// through float64.
package wire

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bnema/spendshred/internal/domain"
	"github.com/shopspring/decimal"
)

type Subscription struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Team        string      `json:"team"`
	Amount      json.Number `json:"amount"`
	SeatsTotal  int         `json:"seats_total"`
	SeatsUnused int         `json:"seats_unused"`
	Status      string      `json:"status"`
	LastUsed    string      `json:"last_used,omitempty"`
}

type Draft struct {
	Name        string      `json:"name"`
	Team        string      `json:"team,omitempty"`
	Amount      json.Number `json:"amount"`
	SeatsTotal  int         `json:"seats_total"`
	SeatsUnused int         `json:"seats_unused"`
	Status      string      `json:"status,omitempty"`
	LastUsed    string      `json:"last_used,omitempty"`
}

type Patch struct {
	Name        *string      `json:"name,omitempty"`
	Team        *string      `json:"team,omitempty"`
	Amount      *json.Number `json:"amount,omitempty"`
	SeatsTotal  *int         `json:"seats_total,omitempty"`
	SeatsUnused *int         `json:"seats_unused,omitempty"`
	Status      *string      `json:"status,omitempty"`
	LastUsed    *string      `json:"last_used,omitempty"`
}

type TeamSpend struct {
	Team   string      `json:"team"`
	Amount json.Number `json:"amount"`
}

type Distribution struct {
	ZombiePct int `json:"zombie_pct"`
	WastePct  int `json:"waste_pct"`
	ActivePct int `json:"active_pct"`
}

type Stats struct {
	TotalSpend      json.Number  `json:"total_spend"`
	WastedSpend     json.Number  `json:"wasted_spend"`
	ActiveSubs      int          `json:"active_subs"`
	ActiveFullyUsed int          `json:"active_fully_used"`
	ActiveWithWaste int          `json:"active_with_waste"`
	ZombieCount     int          `json:"zombie_count"`
	HealthScore     int          `json:"health_score"`
	SpendByTeam     []TeamSpend  `json:"spend_by_team"`
	Distribution    Distribution `json:"distribution"`
}

type Error struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func Number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func ParseNumber(field string, n json.Number) (decimal.Decimal, error) {
	raw := strings.TrimSpace(n.String())
	if raw == "" {
		return decimal.Zero, domain.NewValidationError(field, "is required")
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.NewValidationError(field, fmt.Sprintf("must be a number, got %q", raw))
	}

	return d, nil
}

func FromSubscription(sub domain.Subscription) Subscription {
	return Subscription{
		ID:          string(sub.ID),
		Name:        sub.Name,
		Team:        sub.Team,
		Amount:      Number(sub.Amount),
		SeatsTotal:  sub.SeatsTotal,
		SeatsUnused: sub.SeatsUnused,
		Status:      string(sub.Status),
		LastUsed:    sub.LastUsed,
	}
}

func FromSubscriptions(subs []domain.Subscription) []Subscription {
	out := make([]Subscription, 0, len(subs))
	for _, sub := range subs {
		out = append(out, FromSubscription(sub))
	}
	return out
}

// ToSubscription decodes a wire record, applying the wire defaults for team
// and last_used.
func (s Subscription) ToSubscription() (domain.Subscription, error) {
	amount, err := ParseNumber("amount", s.Amount)
	if err != nil {
		return domain.Subscription{}, err
	}

	lastUsed := s.LastUsed
	if strings.TrimSpace(lastUsed) == "" {
		lastUsed = domain.DefaultLastUsed
	}

	return domain.Subscription{
		ID:          domain.SubscriptionID(s.ID),
		Name:        s.Name,
		Team:        domain.NormalizeTeam(s.Team),
		Amount:      amount,
		SeatsTotal:  s.SeatsTotal,
		SeatsUnused: s.SeatsUnused,
		Status:      domain.Status(s.Status),
		LastUsed:    lastUsed,
	}, nil
}

func FromDraft(draft domain.SubscriptionDraft) Draft {
	return Draft{
		Name:        draft.Name,
		Team:        draft.Team,
		Amount:      Number(draft.Amount),
		SeatsTotal:  draft.SeatsTotal,
		SeatsUnused: draft.SeatsUnused,
		Status:      string(draft.Status),
		LastUsed:    draft.LastUsed,
	}
}

func (d Draft) ToDraft() (domain.SubscriptionDraft, error) {
	amount, err := ParseNumber("amount", d.Amount)
	if err != nil {
		return domain.SubscriptionDraft{}, err
	}

	var status domain.Status
	if strings.TrimSpace(d.Status) != "" {
		if status, err = domain.ParseStatus(d.Status); err != nil {
			return domain.SubscriptionDraft{}, err
		}
	}

	return domain.SubscriptionDraft{
		Name:        d.Name,
		Team:        d.Team,
		Amount:      amount,
		SeatsTotal:  d.SeatsTotal,
		SeatsUnused: d.SeatsUnused,
		Status:      status,
		LastUsed:    d.LastUsed,
	}, nil
}

func FromPatch(patch domain.SubscriptionPatch) Patch {
	out := Patch{
		Name:        patch.Name,
		Team:        patch.Team,
		SeatsTotal:  patch.SeatsTotal,
		SeatsUnused: patch.SeatsUnused,
		LastUsed:    patch.LastUsed,
	}
	if patch.Amount != nil {
		amount := Number(*patch.Amount)
		out.Amount = &amount
	}
	if patch.Status != nil {
		status := string(*patch.Status)
		out.Status = &status
	}
	return out
}

func (p Patch) ToPatch() (domain.SubscriptionPatch, error) {
	out := domain.SubscriptionPatch{
		Name:        p.Name,
		Team:        p.Team,
		SeatsTotal:  p.SeatsTotal,
		SeatsUnused: p.SeatsUnused,
		LastUsed:    p.LastUsed,
	}
	if p.Amount != nil {
		amount, err := ParseNumber("amount", *p.Amount)
		if err != nil {
			return domain.SubscriptionPatch{}, err
		}
		out.Amount = &amount
	}
	if p.Status != nil {
		status, err := domain.ParseStatus(*p.Status)
		if err != nil {
			return domain.SubscriptionPatch{}, err
		}
		out.Status = &status
	}
	return out, nil
}

func FromStats(stats domain.PortfolioStats) Stats {
	teams := make([]TeamSpend, 0, len(stats.SpendByTeam))
	for _, ts := range stats.SpendByTeam {
		teams = append(teams, TeamSpend{Team: ts.Team, Amount: Number(ts.Amount)})
	}

	return Stats{
		TotalSpend:      Number(stats.TotalSpend),
		WastedSpend:     Number(stats.WastedSpend.Round(2)),
		ActiveSubs:      stats.ActiveSubs,
		ActiveFullyUsed: stats.ActiveFullyUsed,
		ActiveWithWaste: stats.ActiveWithWaste,
		ZombieCount:     stats.ZombieCount,
		HealthScore:     stats.HealthScore,
		SpendByTeam:     teams,
		Distribution: Distribution{
			ZombiePct: stats.Distribution.ZombiePct,
			WastePct:  stats.Distribution.WastePct,
			ActivePct: stats.Distribution.ActivePct,
		},
	}
}
