package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	exportcsv "github.com/bnema/spendshred/internal/adapters/export/csv"
	"github.com/bnema/spendshred/internal/domain"
	"github.com/spf13/cobra"
)

func newExportCmd(app *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export subscriptions as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			subscriptions, err := app.service.List(cmd.Context())
			if err != nil {
				return err
			}

			if output == "-" {
				if err := exportcsv.Write(cmd.OutOrStdout(), subscriptions); err != nil {
					return fmt.Errorf("export subscriptions: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout())
				return err
			}

			if err := writeExportFile(output, subscriptions); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d subscriptions to %s\n", len(subscriptions), output)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", exportcsv.DefaultFileName, "Destination file, or - for stdout")

	return cmd
}

func writeExportFile(path string, subscriptions []domain.Subscription) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close export file: %w", closeErr)
		}
	}()

	if err := exportcsv.Write(file, subscriptions); err != nil {
		return fmt.Errorf("export subscriptions: %w", err)
	}

	return nil
}
