package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/spendshred/internal/domain"
	"github.com/bnema/spendshred/internal/ports"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const createTableSQL = `CREATE TABLE IF NOT EXISTS subscriptions (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	team         TEXT NOT NULL DEFAULT 'Unassigned',
	amount       TEXT NOT NULL,
	seats_total  INTEGER NOT NULL CHECK (seats_total >= 1),
	seats_unused INTEGER NOT NULL CHECK (seats_unused >= 0 AND seats_unused <= seats_total),
	status       TEXT NOT NULL,
	last_used    TEXT NOT NULL DEFAULT 'Unknown'
)`

const selectColumns = `id, name, team, amount, seats_total, seats_unused, status, last_used`

// Repository is a SubscriptionStore backed by a local SQLite database.
type Repository struct {
	db    *sql.DB
	newID func() string
}

var _ ports.SubscriptionStore = (*Repository)(nil)

// NewRepository opens the database at dbPath and creates the subscriptions
// table if it does not already exist.
func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createTableSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create subscriptions table: %w", err)
	}

	return &Repository{db: db, newID: uuid.NewString}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) List(ctx context.Context) ([]domain.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM subscriptions ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	subscriptions := make([]domain.Subscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subscriptions = append(subscriptions, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}

	return subscriptions, nil
}

func (r *Repository) Create(ctx context.Context, draft domain.SubscriptionDraft) (domain.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return domain.Subscription{}, err
	}

	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return domain.Subscription{}, err
	}

	created := draft.WithID(domain.SubscriptionID(r.newID()))
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subscriptions (`+selectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(created.ID), created.Name, created.Team, created.Amount.String(),
		created.SeatsTotal, created.SeatsUnused, string(created.Status), created.LastUsed,
	)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("insert subscription: %w", err)
	}

	return created, nil
}

func (r *Repository) Update(ctx context.Context, id domain.SubscriptionID, patch domain.SubscriptionPatch) (domain.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return domain.Subscription{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM subscriptions WHERE id = ?`, string(id))
	current, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Subscription{}, &domain.NotFoundError{ID: id}
		}
		return domain.Subscription{}, err
	}

	updated := current.Apply(patch)
	updated.Team = domain.NormalizeTeam(updated.Team)
	if err := updated.Validate(); err != nil {
		return domain.Subscription{}, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE subscriptions
		 SET name = ?, team = ?, amount = ?, seats_total = ?, seats_unused = ?, status = ?, last_used = ?
		 WHERE id = ?`,
		updated.Name, updated.Team, updated.Amount.String(), updated.SeatsTotal,
		updated.SeatsUnused, string(updated.Status), updated.LastUsed, string(id),
	)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("update subscription: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Subscription{}, fmt.Errorf("commit update: %w", err)
	}

	return updated, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (domain.Subscription, error) {
	var (
		id, name, team, amountText, status, lastUsed string
		seatsTotal, seatsUnused                      int
	)
	if err := row.Scan(&id, &name, &team, &amountText, &seatsTotal, &seatsUnused, &status, &lastUsed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Subscription{}, err
		}
		return domain.Subscription{}, fmt.Errorf("scan subscription: %w", err)
	}

	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("decode subscription %s amount: %w", id, err)
	}

	return domain.Subscription{
		ID:          domain.SubscriptionID(id),
		Name:        name,
		Team:        team,
		Amount:      amount,
		SeatsTotal:  seatsTotal,
		SeatsUnused: seatsUnused,
		Status:      domain.Status(status),
		LastUsed:    lastUsed,
	}, nil
}
