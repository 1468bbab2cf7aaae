package portfolio

import (
	"strings"
	"testing"
	"time"

	"github.com/bnema/spendshred/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSubscriptions() []domain.Subscription {
	return []domain.Subscription{
		{ID: "1", Name: "Figma", Team: "Design", Amount: decimal.NewFromInt(450), SeatsTotal: 10, SeatsUnused: 3, Status: domain.StatusZombie, LastUsed: "3mo ago"},
		{ID: "2", Name: "Notion", Team: "Engineering", Amount: decimal.RequireFromString("120.5"), SeatsTotal: 12, Status: domain.StatusActive, LastUsed: "2h ago"},
		{ID: "3", Name: "Jira", Team: "Engineering", Amount: decimal.NewFromInt(300), SeatsTotal: 15, Status: domain.StatusCancelled, LastUsed: "1w ago"},
	}
}

func TestRenderSubscriptionsTable(t *testing.T) {
	fetchedAt := time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC)

	output, err := RenderSubscriptions(sampleSubscriptions(), RenderOptions{
		View:      domain.DefaultViewOptions(),
		Total:     5,
		FetchedAt: fetchedAt,
	})

	require.NoError(t, err)
	assert.Contains(t, output, "Subscriptions")
	assert.Contains(t, output, "as of 11:00:00")
	assert.Contains(t, output, "showing 3 of 5 · filter: all · sort: cost-desc")
	assert.Contains(t, output, "Figma")
	assert.Contains(t, output, "$450.00")
	assert.Contains(t, output, "$120.50")
	assert.Contains(t, output, "7/10")
	assert.Contains(t, output, "kill 3")
	assert.Contains(t, output, "safe")
	assert.Contains(t, output, "cancelled")
	assert.NotContains(t, output, "stale")
}

func TestRenderSubscriptionsKeepsRowOrder(t *testing.T) {
	output, err := RenderSubscriptions(sampleSubscriptions(), RenderOptions{})
	require.NoError(t, err)

	figma := strings.Index(output, "Figma")
	notion := strings.Index(output, "Notion")
	jira := strings.Index(output, "Jira")
	require.True(t, figma >= 0 && notion >= 0 && jira >= 0)
	assert.Less(t, figma, notion)
	assert.Less(t, notion, jira)
	assert.Contains(t, output, "sort: store")
}

func TestRenderSubscriptionsEmptyView(t *testing.T) {
	output, err := RenderSubscriptions(nil, RenderOptions{View: domain.ViewOptions{Filter: domain.FilterZombie}, Total: 4, Stale: true})

	require.NoError(t, err)
	assert.Contains(t, output, "showing 0 of 4 · filter: zombie")
	assert.Contains(t, output, "No subscriptions match this view.")
	assert.Contains(t, output, "[stale]")
}

func TestRenderSubscriptionsTruncatesLongNames(t *testing.T) {
	output, err := RenderSubscriptions([]domain.Subscription{
		{ID: "1", Name: "An Extremely Long Subscription Name", Team: "Ops", Amount: decimal.NewFromInt(1), SeatsTotal: 1, Status: domain.StatusActive, LastUsed: "now"},
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "An Extremely Long…")
	assert.NotContains(t, output, "Subscription Name")
}

func TestRenderStatsDashboard(t *testing.T) {
	stats := domain.Aggregate(sampleSubscriptions())

	output, err := RenderStats(stats, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "Portfolio")
	assert.Contains(t, output, "$570.50")
	assert.Contains(t, output, "$135.00")
	assert.Contains(t, output, "1 (1 fully used, 0 with waste)")
	assert.Contains(t, output, "76/100")
	assert.Contains(t, output, "zombie 50% · waste 0% · active 50%")
	assert.Contains(t, output, "Spend by team")
	assert.Less(t, strings.Index(output, "Design"), strings.Index(output, "Engineering"))
	assert.NotContains(t, output, "Jira")
}

func TestRenderStatsEmptyPortfolio(t *testing.T) {
	output, err := RenderStats(domain.Aggregate(nil), RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "100/100")
	assert.Contains(t, output, "zombie 0% · waste 0% · active 100%")
	assert.Contains(t, output, "No spend recorded.")
}

func TestRenderProgressBar(t *testing.T) {
	s := newStyles()

	tests := []struct {
		name    string
		percent float64
		want    string
	}{
		{name: "empty", percent: 0, want: "[----]"},
		{name: "half", percent: 50, want: "[==--]"},
		{name: "full", percent: 100, want: "[====]"},
		{name: "clamped", percent: 140, want: "[====]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, renderProgressBar(tc.percent, 4, s))
		})
	}
}

func TestInterpolateColor(t *testing.T) {
	assert.Equal(t, "240", string(interpolateColor(0, 0, 100)))
	assert.Equal(t, "255", string(interpolateColor(100, 0, 100)))
	assert.Equal(t, "255", string(interpolateColor(5, 5, 5)))
	assert.Equal(t, "240", string(interpolateColor(-20, 0, 100)))
}
