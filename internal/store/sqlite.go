package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/andestravel/feerules/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS rules (
	pos             INTEGER PRIMARY KEY AUTOINCREMENT,
	rule_id         TEXT NOT NULL,
	name            TEXT NOT NULL DEFAULT '',
	airline         TEXT NOT NULL,
	route_scope     TEXT NOT NULL,
	provider        TEXT NOT NULL,
	fare_type       TEXT NOT NULL,
	"group"         TEXT NOT NULL DEFAULT '',
	fee_type        TEXT NOT NULL,
	fee_value       REAL NOT NULL,
	currency        TEXT NOT NULL,
	excludes_groups TEXT NOT NULL DEFAULT '[]',
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
	imported_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_rules_rule_id ON rules(rule_id);
CREATE INDEX IF NOT EXISTS idx_rules_status ON rules(status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const sqliteInsertRule = `
INSERT INTO rules (
	rule_id, name, airline, route_scope, provider, fare_type, "group",
	fee_type, fee_value, currency, excludes_groups, trip_kind, notes,
	priority, priority_manual, source_tab, source_row, status
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (s *SQLiteStore) ReplaceRules(ctx context.Context, rules []model.Rule, source string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin replace")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rules`); err != nil {
		return eris.Wrap(err, "sqlite: clear rules")
	}

	stmt, err := tx.PrepareContext(ctx, sqliteInsertRule)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert rule")
	}
	defer stmt.Close()

	for _, r := range rules {
		excludes, err := json.Marshal(r.ExcludesGroups)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal excludes for %s", r.RuleID)
		}
		_, err = stmt.ExecContext(ctx,
			r.RuleID, r.Name, r.Airline, string(r.RouteScope), string(r.Provider),
			string(r.FareType), r.Group, string(r.FeeType), r.FeeValue,
			string(r.Currency), string(excludes), string(r.TripKind), r.Notes,
			r.Priority, r.PriorityManual, r.SourceTab, r.SourceRow, r.Status,
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: insert rule %s", r.RuleID)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO imports (id, source, rule_count, imported_at) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), source, len(rules), time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: record import")
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit replace")
}

const sqliteSelectRules = `
SELECT rule_id, name, airline, route_scope, provider, fare_type, "group",
	fee_type, fee_value, currency, excludes_groups, trip_kind, notes,
	priority, priority_manual, source_tab, source_row, status
FROM rules ORDER BY pos`

func (s *SQLiteStore) LoadRules(ctx context.Context) ([]model.Rule, error) {
	rows, err := s.db.QueryContext(ctx, sqliteSelectRules)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load rules")
	}
	defer rows.Close()

	var rules []model.Rule
	for rows.Next() {
		var (
			r         model.Rule
			excludes  string
			sourceRow sql.NullInt64
		)
		err := rows.Scan(
			&r.RuleID, &r.Name, &r.Airline, &r.RouteScope, &r.Provider,
			&r.FareType, &r.Group, &r.FeeType, &r.FeeValue, &r.Currency,
			&excludes, &r.TripKind, &r.Notes, &r.Priority, &r.PriorityManual,
			&r.SourceTab, &sourceRow, &r.Status,
		)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan rule")
		}
		if err := json.Unmarshal([]byte(excludes), &r.ExcludesGroups); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal excludes for %s", r.RuleID)
		}
		if r.ExcludesGroups == nil {
			r.ExcludesGroups = []string{}
		}
		if sourceRow.Valid {
			n := int(sourceRow.Int64)
			r.SourceRow = &n
		}
		rules = append(rules, r)
	}
	return rules, eris.Wrap(rows.Err(), "sqlite: load rules iterate")
}

func (s *SQLiteStore) ListImports(ctx context.Context, limit int) ([]ImportRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, rule_count, imported_at FROM imports ORDER BY imported_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list imports")
	}
	defer rows.Close()

	var imports []ImportRecord
	for rows.Next() {
		var rec ImportRecord
		if err := rows.Scan(&rec.ID, &rec.Source, &rec.RuleCount, &rec.ImportedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan import")
		}
		imports = append(imports, rec)
	}
	return imports, eris.Wrap(rows.Err(), "sqlite: list imports iterate")
}
