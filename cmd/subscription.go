package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bnema/spendshred/internal/application"
	"github.com/bnema/spendshred/internal/domain"
	"github.com/spf13/cobra"
)

var errNothingToUpdate = errors.New("nothing to update: pass at least one field flag")

func newAddCmd(app *app) *cobra.Command {
	var add application.AddCommand

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a subscription; its status is derived from seat usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			draft, err := add.Draft()
			if err != nil {
				return err
			}

			created, err := app.service.Create(cmd.Context(), draft)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) as %s\n", created.Name, created.ID, created.Status)
			return err
		},
	}

	cmd.Flags().StringVar(&add.Name, "name", "", "Subscription name")
	cmd.Flags().StringVar(&add.Team, "team", "", "Owning team (default: Unassigned)")
	cmd.Flags().StringVar(&add.Amount, "amount", "", "Monthly cost")
	cmd.Flags().StringVar(&add.SeatsTotal, "seats-total", "", "Purchased seats")
	cmd.Flags().StringVar(&add.SeatsUnused, "seats-unused", "", "Seats nobody uses (default: 0)")
	cmd.Flags().StringVar(&add.LastUsed, "last-used", "", "Last activity label (default: Just now)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("seats-total")

	return cmd
}

func newEditCmd(app *app) *cobra.Command {
	var id string
	var name, team, amount, seatsTotal, seatsUnused, lastUsed string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a subscription and reclassify it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			changed := func(flag string, value *string) *string {
				if !flags.Changed(flag) {
					return nil
				}
				return value
			}

			patch, err := application.EditCommand{
				ID:          domain.SubscriptionID(id),
				Name:        changed("name", &name),
				Team:        changed("team", &team),
				Amount:      changed("amount", &amount),
				SeatsTotal:  changed("seats-total", &seatsTotal),
				SeatsUnused: changed("seats-unused", &seatsUnused),
				LastUsed:    changed("last-used", &lastUsed),
			}.Patch()
			if err != nil {
				return err
			}
			if patch.IsEmpty() {
				return errNothingToUpdate
			}

			updated, err := app.service.Edit(cmd.Context(), domain.SubscriptionID(id), patch)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s): %s\n", updated.Name, updated.ID, updated.Status)
			return err
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Subscription ID")
	cmd.Flags().StringVar(&name, "name", "", "Subscription name")
	cmd.Flags().StringVar(&team, "team", "", "Owning team")
	cmd.Flags().StringVar(&amount, "amount", "", "Monthly cost")
	cmd.Flags().StringVar(&seatsTotal, "seats-total", "", "Purchased seats")
	cmd.Flags().StringVar(&seatsUnused, "seats-unused", "", "Seats nobody uses")
	cmd.Flags().StringVar(&lastUsed, "last-used", "", "Last activity label")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newCancelCmd(app *app) *cobra.Command {
	var id string
	var yes bool
	var template bool

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel a subscription, optionally drafting the vendor email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			sub, err := app.service.Find(cmd.Context(), domain.SubscriptionID(id))
			if err != nil {
				return err
			}

			if template {
				request := domain.NewCancellationRequest(sub, app.cfg.User.Email)
				_, _ = fmt.Fprintf(out, "%s\n\nCompose in Gmail: %s\n\n", request.Text(), request.GmailURL())
			}

			if sub.Status == domain.StatusCancelled {
				_, err = fmt.Fprintf(out, "%s is already cancelled\n", sub.Name)
				return err
			}

			if !yes {
				confirmed, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Cancel %s ($%s/mo)? [y/N]: ", sub.Name, sub.Amount.StringFixed(2)))
				if err != nil {
					return err
				}
				if !confirmed {
					_, err = fmt.Fprintln(out, "Aborted")
					return err
				}
			}

			cancelled, err := app.service.Cancel(cmd.Context(), sub.ID)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(out, "Cancelled %s: saving $%s/mo\n", cancelled.Name, sub.Amount.StringFixed(2))
			return err
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Subscription ID")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&template, "template", false, "Print the cancellation email and Gmail compose link")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := fmt.Fprint(out, prompt); err != nil {
		return false, err
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
