package domain

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

type TeamSpend struct {
	Team   string
	Amount decimal.Decimal
}

// WasteDistribution splits the counted subscriptions into three percentage
// buckets that always sum to 100.
type WasteDistribution struct {
	ZombiePct int
	WastePct  int
	ActivePct int
}

type PortfolioStats struct {
	TotalSpend      decimal.Decimal
	WastedSpend     decimal.Decimal
	ActiveSubs      int
	ZombieCount     int
	ActiveFullyUsed int
	ActiveWithWaste int
	HealthScore     int
	SpendByTeam     []TeamSpend
	Distribution    WasteDistribution
}

var hundred = decimal.NewFromInt(100)

// Aggregate folds the collection into portfolio statistics. Cancelled
// subscriptions count towards nothing.
func Aggregate(subscriptions []Subscription) PortfolioStats {
	stats := PortfolioStats{
		TotalSpend:  decimal.Zero,
		WastedSpend: decimal.Zero,
	}

	teamTotals := make(map[string]decimal.Decimal)
	for _, sub := range subscriptions {
		switch {
		case sub.Status == StatusCancelled:
			continue
		case sub.Status == StatusActive:
			stats.ActiveSubs++
			if sub.SeatsUnused > 0 {
				stats.ActiveWithWaste++
			} else {
				stats.ActiveFullyUsed++
			}
		case sub.Status.Wasteful():
			stats.ZombieCount++
		}

		stats.TotalSpend = stats.TotalSpend.Add(sub.Amount)
		stats.WastedSpend = stats.WastedSpend.Add(sub.WastedAmount())

		team := NormalizeTeam(sub.Team)
		teamTotals[team] = teamTotals[team].Add(sub.Amount)
	}

	stats.SpendByTeam = sortTeamSpend(teamTotals)
	stats.HealthScore = HealthScore(stats.TotalSpend, stats.WastedSpend)
	stats.Distribution = Distribution(stats.ActiveFullyUsed, stats.ActiveWithWaste, stats.ZombieCount)

	return stats
}

func sortTeamSpend(totals map[string]decimal.Decimal) []TeamSpend {
	teams := make([]TeamSpend, 0, len(totals))
	for team, amount := range totals {
		teams = append(teams, TeamSpend{Team: team, Amount: amount})
	}

	slices.SortFunc(teams, func(a, b TeamSpend) int {
		if cmp := b.Amount.Cmp(a.Amount); cmp != 0 {
			return cmp
		}
		return strings.Compare(a.Team, b.Team)
	})

	return teams
}

// HealthScore maps the waste ratio to 0..100: 100 - round(100*wasted/total),
// clamped. An empty portfolio scores 100.
func HealthScore(totalSpend, wastedSpend decimal.Decimal) int {
	if !totalSpend.IsPositive() {
		return 100
	}

	wastePct := wastedSpend.Mul(hundred).Div(totalSpend).Round(0).IntPart()
	return clampInt(100-int(wastePct), 0, 100)
}

// Distribution computes the waste-distribution percentages. Zombie and
// waste buckets are rounded independently and the active bucket takes the
// remainder; overflow from rounding is taken back from the waste bucket.
func Distribution(activeFullyUsed, activeWithWaste, zombieCount int) WasteDistribution {
	total := activeFullyUsed + activeWithWaste + zombieCount
	if total == 0 {
		total = 1
	}

	zombiePct := roundPercent(zombieCount, total)
	wastePct := roundPercent(activeWithWaste, total)
	activePct := 100 - zombiePct - wastePct
	if activePct < 0 {
		wastePct += activePct
		activePct = 0
	}

	return WasteDistribution{
		ZombiePct: zombiePct,
		WastePct:  wastePct,
		ActivePct: activePct,
	}
}

func roundPercent(part, total int) int {
	return int(decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(total))).Round(0).IntPart())
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
