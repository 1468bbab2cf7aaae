// Package csv writes the subscription collection as a spreadsheet export.
// Text columns are always quoted and numeric columns never are, which
// encoding/csv cannot express, so rows are assembled by hand.
package csv

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bnema/spendshred/internal/domain"
)

const DefaultFileName = "spendshred_export.csv"

var header = []string{"Name", "Team", "Cost", "Seats Total", "Seats Unused", "Status", "Last Active"}

// Write serializes every subscription in the given order. Rows are joined by
// "\n" with no trailing newline after the last row.
func Write(w io.Writer, subscriptions []domain.Subscription) error {
	buf := bufio.NewWriter(w)

	if _, err := buf.WriteString(strings.Join(header, ",")); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}

	for _, sub := range subscriptions {
		row := []string{
			quote(sub.Name),
			quote(sub.Team),
			sub.Amount.String(),
			strconv.Itoa(sub.SeatsTotal),
			strconv.Itoa(sub.SeatsUnused),
			string(sub.Status),
			quote(sub.LastUsed),
		}
		if _, err := buf.WriteString("\n" + strings.Join(row, ",")); err != nil {
			return fmt.Errorf("write export row %s: %w", sub.ID, err)
		}
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}

	return nil
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
