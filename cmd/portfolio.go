package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	portfolioview "github.com/bnema/spendshred/internal/adapters/render/portfolio"
	"github.com/bnema/spendshred/internal/adapters/wire"
	"github.com/bnema/spendshred/internal/application"
	"github.com/bnema/spendshred/internal/domain"
	"github.com/spf13/cobra"
)

func newListCmd(app *app) *cobra.Command {
	var filter string
	var sortOrder string
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List subscriptions",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := parseViewOptions(filter, sortOrder)
			if err != nil {
				return err
			}

			snapshot, err := loadSnapshot(cmd, app, asJSON)
			if err != nil {
				return err
			}

			subscriptions := snapshot.View(opts)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), wire.FromSubscriptions(subscriptions))
			}

			rendered, err := app.renderSubscriptions(subscriptions, portfolioview.RenderOptions{
				View:      opts,
				Total:     len(snapshot.Subscriptions),
				FetchedAt: snapshot.FetchedAt,
				Stale:     snapshot.Stale,
			})
			if err != nil {
				return fmt.Errorf("render subscriptions: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&filter, "filter", string(domain.FilterAll), "Filter (all|zombie|active)")
	cmd.Flags().StringVar(&sortOrder, "sort", string(domain.SortCostDesc), "Sort order (cost-desc|cost-asc|name-asc)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newStatsCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show spend, waste and portfolio health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot, err := loadSnapshot(cmd, app, asJSON)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), wire.FromStats(snapshot.Stats))
			}

			rendered, err := app.renderStats(snapshot.Stats, portfolioview.RenderOptions{
				FetchedAt: snapshot.FetchedAt,
				Stale:     snapshot.Stale,
			})
			if err != nil {
				return fmt.Errorf("render stats: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func parseViewOptions(filter, sortOrder string) (domain.ViewOptions, error) {
	parsedFilter, err := domain.ParseFilter(filter)
	if err != nil {
		return domain.ViewOptions{}, err
	}

	parsedSort, err := domain.ParseSortOrder(sortOrder)
	if err != nil {
		return domain.ViewOptions{}, err
	}

	return domain.ViewOptions{Filter: parsedFilter, Sort: parsedSort}, nil
}

// loadSnapshot refreshes the portfolio, behind a spinner on stderr unless the
// output is machine readable.
func loadSnapshot(cmd *cobra.Command, app *app, quiet bool) (application.Snapshot, error) {
	var snapshot application.Snapshot
	refresh := func(ctx context.Context) error {
		var err error
		snapshot, err = app.service.Snapshot(ctx)
		return err
	}

	if quiet {
		if err := refresh(cmd.Context()); err != nil {
			return application.Snapshot{}, err
		}
		return snapshot, nil
	}

	if err := runRefreshSpinner(cmd.Context(), cmd.ErrOrStderr(), "Loading subscriptions...", refresh); err != nil {
		return application.Snapshot{}, err
	}

	return snapshot, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
