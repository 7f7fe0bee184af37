package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/andestravel/feerules/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses, small enough for
// pgxmock to stand in during tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool; used by tests.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS rules (
	pos             BIGSERIAL PRIMARY KEY,
	rule_id         TEXT NOT NULL,
	name            TEXT NOT NULL DEFAULT '',
	airline         TEXT NOT NULL,
	route_scope     TEXT NOT NULL,
	provider        TEXT NOT NULL,
	fare_type       TEXT NOT NULL,
	"group"         TEXT NOT NULL DEFAULT '',
	fee_type        TEXT NOT NULL,
	fee_value       DOUBLE PRECISION NOT NULL,
	currency        TEXT NOT NULL,
	excludes_groups JSONB NOT NULL DEFAULT '[]',
	trip_kind       TEXT NOT NULL DEFAULT '',
	notes           TEXT NOT NULL DEFAULT '',
	priority        INTEGER NOT NULL,
	priority_manual INTEGER NOT NULL DEFAULT 0,
	source_tab      TEXT NOT NULL,
	source_row      INTEGER,
	status          TEXT NOT NULL DEFAULT 'ok'
);

CREATE TABLE IF NOT EXISTS imports (
	id          TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	rule_count  INTEGER NOT NULL,
	imported_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_rules_rule_id ON rules(rule_id);
CREATE INDEX IF NOT EXISTS idx_rules_status ON rules(status);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const postgresInsertRule = `
INSERT INTO rules (
	rule_id, name, airline, route_scope, provider, fare_type, "group",
	fee_type, fee_value, currency, excludes_groups, trip_kind, notes,
	priority, priority_manual, source_tab, source_row, status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

func (s *PostgresStore) ReplaceRules(ctx context.Context, rules []model.Rule, source string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin replace")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM rules`); err != nil {
		return eris.Wrap(err, "postgres: clear rules")
	}

	for _, r := range rules {
		excludes, err := json.Marshal(r.ExcludesGroups)
		if err != nil {
			return eris.Wrapf(err, "postgres: marshal excludes for %s", r.RuleID)
		}
		_, err = tx.Exec(ctx, postgresInsertRule,
			r.RuleID, r.Name, r.Airline, string(r.RouteScope), string(r.Provider),
			string(r.FareType), r.Group, string(r.FeeType), r.FeeValue,
			string(r.Currency), string(excludes), string(r.TripKind), r.Notes,
			r.Priority, r.PriorityManual, r.SourceTab, r.SourceRow, r.Status,
		)
		if err != nil {
			return eris.Wrapf(err, "postgres: insert rule %s", r.RuleID)
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO imports (id, source, rule_count, imported_at) VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), source, len(rules), time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrap(err, "postgres: record import")
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit replace")
}

const postgresSelectRules = `
SELECT rule_id, name, airline, route_scope, provider, fare_type, "group",
	fee_type, fee_value, currency, excludes_groups, trip_kind, notes,
	priority, priority_manual, source_tab, source_row, status
FROM rules ORDER BY pos`

func (s *PostgresStore) LoadRules(ctx context.Context) ([]model.Rule, error) {
	rows, err := s.pool.Query(ctx, postgresSelectRules)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load rules")
	}
	defer rows.Close()

	var rules []model.Rule
	for rows.Next() {
		var (
			r         model.Rule
			excludes  []byte
			sourceRow *int
		)
		err := rows.Scan(
			&r.RuleID, &r.Name, &r.Airline, &r.RouteScope, &r.Provider,
			&r.FareType, &r.Group, &r.FeeType, &r.FeeValue, &r.Currency,
			&excludes, &r.TripKind, &r.Notes, &r.Priority, &r.PriorityManual,
			&r.SourceTab, &sourceRow, &r.Status,
		)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan rule")
		}
		if err := json.Unmarshal(excludes, &r.ExcludesGroups); err != nil {
			return nil, eris.Wrapf(err, "postgres: unmarshal excludes for %s", r.RuleID)
		}
		if r.ExcludesGroups == nil {
			r.ExcludesGroups = []string{}
		}
		r.SourceRow = sourceRow
		rules = append(rules, r)
	}
	return rules, eris.Wrap(rows.Err(), "postgres: load rules iterate")
}

func (s *PostgresStore) ListImports(ctx context.Context, limit int) ([]ImportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, source, rule_count, imported_at FROM imports ORDER BY imported_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list imports")
	}
	defer rows.Close()

	var imports []ImportRecord
	for rows.Next() {
		var rec ImportRecord
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.RuleCount, &rec.ImportedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan import")
		}
		imports = append(imports, rec)
	}
	return imports, eris.Wrap(rows.Err(), "postgres: list imports iterate")
}
