package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo portfolio into an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := app.service.Seed(cmd.Context())
			if err != nil {
				return err
			}

			if created == 0 {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "Store already has subscriptions; nothing seeded")
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d subscriptions\n", created)
			return err
		},
	}
}
