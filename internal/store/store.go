// Package store persists the normalized rule catalog between sessions.
// Catalog replacement is transactional: readers see either the fully-old or
// fully-new rule set, matching the in-memory snapshot semantics.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/andestravel/feerules/internal/model"
)

// ImportRecord is one catalog replacement, kept for provenance display.
type ImportRecord struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	RuleCount  int       `json:"rule_count"`
	ImportedAt time.Time `json:"imported_at"`
}

// Store defines the persistence interface for the fee rule catalog.
type Store interface {
	// ReplaceRules swaps the whole persisted catalog in one transaction and
	// records an import audit row.
	ReplaceRules(ctx context.Context, rules []model.Rule, source string) error

	// LoadRules returns the persisted catalog in original file order.
	LoadRules(ctx context.Context) ([]model.Rule, error)

	// ListImports returns the most recent catalog replacements, newest first.
	ListImports(ctx context.Context, limit int) ([]ImportRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a store for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}
