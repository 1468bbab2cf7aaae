package cmd

import "github.com/spf13/cobra"

func Execute() error {
	rootCmd, closeApp := buildRootCmd()
	defer func() { _ = closeApp() }()

	return rootCmd.Execute()
}

func buildRootCmd() (*cobra.Command, func() error) {
	rootCmd := &cobra.Command{
		Use:           "shred",
		Short:         "SpendShred (shred): find and cancel wasted SaaS seats",
		Long:          "shred tracks team software subscriptions, classifies them by seat usage, reports wasted spend and a portfolio health score, and drafts cancellation requests.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd, func() error { return nil }
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newListCmd(app),
		newStatsCmd(app),
		newAddCmd(app),
		newEditCmd(app),
		newCancelCmd(app),
		newExportCmd(app),
		newSeedCmd(app),
		newServeCmd(app),
		newTokenCmd(app),
	)

	return rootCmd, app.close
}
