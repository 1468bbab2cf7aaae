package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newTokenCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage bearer tokens referenced by store.token_ref and server.token_ref",
	}

	cmd.AddCommand(
		newTokenSetCmd(app),
		newTokenRemoveCmd(app),
	)

	return cmd
}

func newTokenSetCmd(app *app) *cobra.Command {
	var ref string
	var value string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store a token (read from stdin unless --value is given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("value") {
				read, err := readToken(cmd.InOrStdin())
				if err != nil {
					return err
				}
				value = read
			}
			if strings.TrimSpace(value) == "" {
				return errors.New("token value is empty")
			}

			if err := app.secretStore.Put(cmd.Context(), ref, value); err != nil {
				return fmt.Errorf("store token %q: %w", ref, err)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Stored token %q\n", ref)
			return err
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "Token reference")
	cmd.Flags().StringVar(&value, "value", "", "Token value")
	_ = cmd.MarkFlagRequired("ref")

	return cmd
}

func newTokenRemoveCmd(app *app) *cobra.Command {
	var ref string

	cmd := &cobra.Command{
		Use:     "rm",
		Aliases: []string{"remove"},
		Short:   "Remove a stored token",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.secretStore.Delete(cmd.Context(), ref); err != nil {
				return fmt.Errorf("remove token %q: %w", ref, err)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Removed token %q\n", ref)
			return err
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "Token reference")
	_ = cmd.MarkFlagRequired("ref")

	return cmd
}

func readToken(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read token: %w", err)
	}

	return strings.TrimSpace(line), nil
}
