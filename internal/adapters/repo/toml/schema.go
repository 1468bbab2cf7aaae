package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version       int                  `toml:"version"`
	Subscriptions []subscriptionSchema `toml:"subscriptions"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported subscriptions schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

// Amounts are kept as decimal text so that cents survive a round trip.
type subscriptionSchema struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Team        string `toml:"team"`
	Amount      string `toml:"amount"`
	SeatsTotal  int    `toml:"seats_total"`
	SeatsUnused int    `toml:"seats_unused"`
	Status      string `toml:"status"`
	LastUsed    string `toml:"last_used,omitempty"`
}
