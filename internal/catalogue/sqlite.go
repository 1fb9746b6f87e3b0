package catalogue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"outlineflow/internal/ctxlog"
	"outlineflow/internal/workflow"
)

// SQLiteStore is a [Store] backed by an SQLite database.
//
// Each definition is one row. The body column holds the definition as a YAML
// document; id, name and fingerprint are kept alongside for lookups. Rows
// keep their rowid on update, so [SQLiteStore.List] preserves the order in
// which ids were first stored.
type SQLiteStore struct {
	db    *sql.DB
	owned bool
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database file at path using the
// modernc.org/sqlite driver.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalogue database: %w", err)
	}

	s, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	s.owned = true
	return s, nil
}

// NewSQLiteStore initializes the schema in db and returns a store using it.
// The caller keeps ownership of db.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize catalogue schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS workflows (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			body TEXT NOT NULL
		);`,
	)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS workflows_fingerprint ON workflows (fingerprint);`)
	return err
}

// List returns every stored definition in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]workflow.Definition, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM workflows ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	defer rows.Close()

	defs := []workflow.Definition{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to list workflows: %w", err)
		}
		def, err := decodeBody(body)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	ctxlog.FromContext(ctx).Debug("catalogue loaded", "driver", DriverSQLite, "workflows", len(defs))
	return defs, nil
}

// Get returns the definition with id, or [ErrNotFound].
func (s *SQLiteStore) Get(ctx context.Context, id string) (workflow.Definition, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM workflows WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return workflow.Definition{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return workflow.Definition{}, fmt.Errorf("failed to get workflow %s: %w", id, err)
	}
	return decodeBody(body)
}

// Put inserts def or updates the row with the same id.
func (s *SQLiteStore) Put(ctx context.Context, def workflow.Definition) error {
	if def.ID == "" {
		return fmt.Errorf("workflow has no id")
	}

	body, err := yaml.Marshal(&def)
	if err != nil {
		return fmt.Errorf("failed to marshal workflow %s: %w", def.ID, err)
	}
	fp, err := workflow.Fingerprint(def)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workflows (id, name, fingerprint, body)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET name = excluded.name, fingerprint = excluded.fingerprint, body = excluded.body`,
		def.ID,
		def.Name,
		fp,
		string(body),
	)
	if err != nil {
		return fmt.Errorf("failed to store workflow %s: %w", def.ID, err)
	}

	ctxlog.FromContext(ctx).Debug("workflow stored", "driver", DriverSQLite, "id", def.ID, "fingerprint", fp)
	return nil
}

// IDsByFingerprint returns the ids of stored definitions sharing fp, in
// insertion order.
func (s *SQLiteStore) IDsByFingerprint(ctx context.Context, fp string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM workflows WHERE fingerprint = ? ORDER BY rowid`, fp)
	if err != nil {
		return nil, fmt.Errorf("failed to query fingerprint: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to query fingerprint: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database when the store opened it itself.
func (s *SQLiteStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}

func decodeBody(body string) (workflow.Definition, error) {
	var def workflow.Definition
	if err := yaml.Unmarshal([]byte(body), &def); err != nil {
		return workflow.Definition{}, fmt.Errorf("failed to parse stored workflow: %w", err)
	}
	return def, nil
}
