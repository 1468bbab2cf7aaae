package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/spendshred/internal/domain"
	"github.com/bnema/spendshred/internal/ports"
	"github.com/google/uuid"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	storePathKey      = "store.path"
	storeFileMode     = 0o600
	storeDirMode      = 0o700
	storeConfigDir    = ".spendshred"
	storeConfigFile   = "subscriptions.toml"
	tempFilePattern   = ".subscriptions-*.toml.tmp"
	defaultStatusText = string(domain.StatusActive)
)

type Repository struct {
	path  string
	mu    *sync.RWMutex
	newID func() string
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SubscriptionStore = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetDefault(storePathKey, filepath.Join(homeDir, storeConfigDir, storeConfigFile))

	path := cfg.GetString(storePathKey)
	if path == "" {
		return nil, errors.New("subscriptions path is empty")
	}
	path, err = normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &Repository{path: path, mu: lockForPath(path), newID: uuid.NewString}, nil
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) List(ctx context.Context) ([]domain.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	subscriptions := make([]domain.Subscription, 0, len(file.Subscriptions))
	for _, entry := range file.Subscriptions {
		sub, err := fromSchema(entry)
		if err != nil {
			return nil, err
		}
		subscriptions = append(subscriptions, sub)
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

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Subscription{}, err
	}

	created := draft.WithID(domain.SubscriptionID(r.newID()))
	file.Subscriptions = append(file.Subscriptions, toSchema(created))

	if err := ctx.Err(); err != nil {
		return domain.Subscription{}, err
	}

	if err := r.writeSchema(file); err != nil {
		return domain.Subscription{}, err
	}

	return created, nil
}

func (r *Repository) Update(ctx context.Context, id domain.SubscriptionID, patch domain.SubscriptionPatch) (domain.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return domain.Subscription{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Subscription{}, err
	}

	for i := range file.Subscriptions {
		if file.Subscriptions[i].ID != string(id) {
			continue
		}

		current, err := fromSchema(file.Subscriptions[i])
		if err != nil {
			return domain.Subscription{}, err
		}

		updated := current.Apply(patch)
		updated.Team = domain.NormalizeTeam(updated.Team)
		if err := updated.Validate(); err != nil {
			return domain.Subscription{}, err
		}
		file.Subscriptions[i] = toSchema(updated)

		if err := ctx.Err(); err != nil {
			return domain.Subscription{}, err
		}

		if err := r.writeSchema(file); err != nil {
			return domain.Subscription{}, err
		}

		return updated, nil
	}

	return domain.Subscription{}, &domain.NotFoundError{ID: id}
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{Version: currentSchemaVersion}, nil
		}
		return fileSchema{}, fmt.Errorf("read subscriptions file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode subscriptions file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve subscriptions path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.path), storeDirMode); err != nil {
		return fmt.Errorf("create subscriptions directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode subscriptions file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp subscriptions file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp subscriptions file: %w", err)
	}

	if err := tempFile.Chmod(storeFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp subscriptions file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp subscriptions file: %w", err)
	}

	if err := os.Rename(tempName, r.path); err != nil {
		return fmt.Errorf("replace subscriptions file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(r.path, storeFileMode); err != nil {
		return fmt.Errorf("chmod subscriptions file: %w", err)
	}

	return nil
}

func toSchema(sub domain.Subscription) subscriptionSchema {
	return subscriptionSchema{
		ID:          string(sub.ID),
		Name:        sub.Name,
		Team:        sub.Team,
		Amount:      sub.Amount.String(),
		SeatsTotal:  sub.SeatsTotal,
		SeatsUnused: sub.SeatsUnused,
		Status:      string(sub.Status),
		LastUsed:    sub.LastUsed,
	}
}

func fromSchema(entry subscriptionSchema) (domain.Subscription, error) {
	amount := decimal.Zero
	if entry.Amount != "" {
		parsed, err := decimal.NewFromString(entry.Amount)
		if err != nil {
			return domain.Subscription{}, fmt.Errorf("decode subscription %s amount: %w", entry.ID, err)
		}
		amount = parsed
	}

	status := entry.Status
	if status == "" {
		status = defaultStatusText
	}

	lastUsed := entry.LastUsed
	if lastUsed == "" {
		lastUsed = domain.DefaultLastUsed
	}

	return domain.Subscription{
		ID:          domain.SubscriptionID(entry.ID),
		Name:        entry.Name,
		Team:        domain.NormalizeTeam(entry.Team),
		Amount:      amount,
		SeatsTotal:  entry.SeatsTotal,
		SeatsUnused: entry.SeatsUnused,
		Status:      domain.Status(status),
		LastUsed:    lastUsed,
	}, nil
}
