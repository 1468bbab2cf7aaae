package portfolio

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/spendshred/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const (
	nameWidth     = 20
	teamWidth     = 14
	costWidth     = 12
	seatsWidth    = 20
	statusWidth   = 10
	lastUsedWidth = 12
	healthWidth   = 24
	shareWidth    = 30
	teamBarWidth  = 20
)

type RenderOptions struct {
	View      domain.ViewOptions
	Total     int
	FetchedAt time.Time
	Stale     bool
}

// RenderSubscriptions draws the subscription table for an already filtered
// and sorted view. opts.Total is the size of the unfiltered collection.
func RenderSubscriptions(subscriptions []domain.Subscription, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return renderTable(subscriptions, opts, s)
	})
}

func RenderStats(stats domain.PortfolioStats, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return renderDashboard(stats, opts, s)
	})
}

func renderTable(subscriptions []domain.Subscription, opts RenderOptions, s styles) string {
	total := opts.Total
	if total < len(subscriptions) {
		total = len(subscriptions)
	}

	lines := []string{
		titleLine("Subscriptions", opts, s),
		s.header.Render(fmt.Sprintf("showing %d of %d · filter: %s · sort: %s", len(subscriptions), total, filterLabel(opts.View.Filter), sortLabel(opts.View.Sort))),
	}

	if len(subscriptions) == 0 {
		lines = append(lines, s.empty.Render("No subscriptions match this view."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	rows := []string{
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.header.Render(cell("NAME", nameWidth)),
			s.header.Render(cell("TEAM", teamWidth)),
			s.header.Render(cell("COST", costWidth)),
			s.header.Render(cell("SEATS", seatsWidth)),
			s.header.Render(cell("STATUS", statusWidth)),
			s.header.Render(cell("LAST USED", lastUsedWidth)),
			s.header.Render("ACTION"),
		),
	}
	for _, sub := range subscriptions {
		rows = append(rows, renderRow(sub, s))
	}

	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderRow(sub domain.Subscription, s styles) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.name.Render(cell(sub.Name, nameWidth)),
		s.detail.Render(cell(sub.Team, teamWidth)),
		s.detail.Render(cell(formatMoney(sub.Amount), costWidth)),
		cell(seatsLabel(sub, s), seatsWidth),
		statusStyle(sub.Status, s).Render(cell(string(sub.Status), statusWidth)),
		s.meta.Render(cell(sub.LastUsed, lastUsedWidth)),
		actionLabel(sub, s),
	)
}

func seatsLabel(sub domain.Subscription, s styles) string {
	used := sub.SeatsTotal - sub.SeatsUnused
	percent := 100.0
	if sub.SeatsTotal > 0 {
		percent = 100 * float64(used) / float64(sub.SeatsTotal)
	}

	return renderProgressBar(percent, 8, s) + " " + fmt.Sprintf("%d/%d", used, sub.SeatsTotal)
}

// actionLabel is the per-row hint: how many seats can be removed, or whether
// the subscription needs no action.
func actionLabel(sub domain.Subscription, s styles) string {
	switch {
	case sub.Status == domain.StatusCancelled:
		return s.cancelled.Render("cancelled")
	case sub.SeatsUnused > 0:
		return s.kill.Render(fmt.Sprintf("kill %d", sub.SeatsUnused))
	default:
		return s.safe.Render("safe")
	}
}

func statusStyle(status domain.Status, s styles) lipgloss.Style {
	switch status {
	case domain.StatusActive:
		return s.active
	case domain.StatusZombie:
		return s.zombie
	case domain.StatusCritical:
		return s.critical
	default:
		return s.cancelled
	}
}

func renderDashboard(stats domain.PortfolioStats, opts RenderOptions, s styles) string {
	lines := []string{
		titleLine("Portfolio", opts, s),
		keyValue("total spend", formatMoney(stats.TotalSpend), s),
		keyValue("wasted spend", s.warning.Render(formatMoney(stats.WastedSpend.Round(2))), s),
		keyValue("active subs", fmt.Sprintf("%d (%d fully used, %d with waste)", stats.ActiveSubs, stats.ActiveFullyUsed, stats.ActiveWithWaste), s),
		keyValue("zombies", fmt.Sprintf("%d", stats.ZombieCount), s),
		healthLine(stats.HealthScore, s),
	}

	lines = append(lines, s.section.Render(distributionBlock(stats.Distribution, s)))
	lines = append(lines, s.section.Render(teamBlock(stats.SpendByTeam, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func healthLine(score int, s styles) string {
	scoreStyle := lipgloss.NewStyle().Foreground(interpolateColor(float64(score), 0, 100))
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.key.Render(cell("health", 14)),
		renderProgressBar(float64(score), healthWidth, s),
		" ",
		scoreStyle.Render(fmt.Sprintf("%d/100", score)),
	)
}

func distributionBlock(dist domain.WasteDistribution, s styles) string {
	zombie := segmentWidth(dist.ZombiePct, shareWidth)
	waste := segmentWidth(dist.WastePct, shareWidth)
	if zombie+waste > shareWidth {
		waste = shareWidth - zombie
	}
	active := shareWidth - zombie - waste

	bar := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.critical.Render(strings.Repeat("#", zombie)),
		s.zombie.Render(strings.Repeat("~", waste)),
		s.active.Render(strings.Repeat("=", active)),
		s.barBracket.Render("]"),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		s.title.Render("Waste distribution"),
		bar,
		s.meta.Render(fmt.Sprintf("zombie %d%% · waste %d%% · active %d%%", dist.ZombiePct, dist.WastePct, dist.ActivePct)),
	)
}

func teamBlock(teams []domain.TeamSpend, s styles) string {
	lines := []string{s.title.Render("Spend by team")}
	if len(teams) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, s.empty.Render("No spend recorded."))...)
	}

	top := teams[0].Amount
	for _, team := range teams {
		width := 0
		if top.IsPositive() {
			width = int(team.Amount.Div(top).Mul(decimal.NewFromInt(teamBarWidth)).Round(0).IntPart())
		}
		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.detail.Render(cell(team.Team, teamWidth)),
			s.barFill.Render(cell(strings.Repeat("█", width), teamBarWidth+1)),
			s.detail.Render(formatMoney(team.Amount)),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func titleLine(title string, opts RenderOptions, s styles) string {
	line := s.title.Render(title)
	if !opts.FetchedAt.IsZero() {
		line += " " + s.header.Render("as of "+opts.FetchedAt.Format("15:04:05"))
	}
	if opts.Stale {
		line += " " + s.warning.Render("[stale]")
	}
	return line
}

func keyValue(key, value string, s styles) string {
	return s.key.Render(cell(key, 14)) + value
}

func filterLabel(filter domain.Filter) string {
	if filter == "" {
		return string(domain.FilterAll)
	}
	return string(filter)
}

func sortLabel(order domain.SortOrder) string {
	if order == "" {
		return "store"
	}
	return string(order)
}

func formatMoney(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

func segmentWidth(percent, width int) int {
	return int(math.Round(float64(width) * clampPercent(float64(percent)) / 100))
}

// cell pads or truncates text to exactly width terminal cells.
func cell(text string, width int) string {
	if lipgloss.Width(text) > width-1 {
		runes := []rune(text)
		for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width-1 {
			runes = runes[:len(runes)-1]
		}
		text = strings.TrimRight(string(runes), " ") + "…"
	}

	return lipgloss.NewStyle().Width(width).Render(text)
}

func renderProgressBar(filledPercent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(filledPercent) / 100))
	if filled > width {
		filled = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// interpolateColor fades from grey 240 at min to white 255 at max.
func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	return lipgloss.Color(fmt.Sprintf("%d", int(240+15*normalized)))
}
