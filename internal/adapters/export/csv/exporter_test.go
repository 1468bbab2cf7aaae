package csv

import (
	"bytes"
	stdcsv "encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/bnema/spendshred/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteHeaderAndRows(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := Write(&out, []domain.Subscription{
		{ID: "1", Name: "Notion", Team: "Engineering", Amount: decimal.NewFromInt(120), SeatsTotal: 12, Status: domain.StatusActive, LastUsed: "2h ago"},
		{ID: "2", Name: "Adobe, CC", Team: "Design", Amount: decimal.RequireFromString("599.99"), SeatsTotal: 5, SeatsUnused: 1, Status: domain.StatusZombie, LastUsed: `the "old" one`},
	})
	require.NoError(t, err)

	want := strings.Join([]string{
		"Name,Team,Cost,Seats Total,Seats Unused,Status,Last Active",
		`"Notion","Engineering",120,12,0,active,"2h ago"`,
		`"Adobe, CC","Design",599.99,5,1,zombie,"the ""old"" one"`,
	}, "\n")
	assert.Equal(t, want, out.String())

	records, err := stdcsv.NewReader(strings.NewReader(out.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Adobe, CC", records[2][0])
	assert.Equal(t, `the "old" one`, records[2][6])
}

func TestWriteEmptyCollectionIsHeaderOnly(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, Write(&out, nil))
	assert.Equal(t, "Name,Team,Cost,Seats Total,Seats Unused,Status,Last Active", out.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWritePropagatesWriterError(t *testing.T) {
	t.Parallel()

	err := Write(failingWriter{}, []domain.Subscription{{ID: "1", Name: "X"}})
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
}
