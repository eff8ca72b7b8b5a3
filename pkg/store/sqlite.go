package store

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/structboard/pkg/document"
	"github.com/matzehuels/structboard/pkg/errors"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS diagrams (
  name TEXT PRIMARY KEY,
  body TEXT NOT NULL,
  elements INTEGER NOT NULL,
  updated_at TEXT NOT NULL
)`

// SQLiteStore keeps diagrams in one table of a SQLite database. The body
// column holds the JSON record array.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens the database at dsn and creates the table if needed.
// ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "sqlite store: no database path")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, wrapBackend(BackendSQLite, "open", err)
	}
	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, wrapBackend(BackendSQLite, "open", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, name string, records []document.Record) (err error) {
	start := time.Now()
	defer func() { err = observe(ctx, BackendSQLite, "put", name, start, err) }()
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	if records == nil {
		records = []document.Record{}
	}
	body, err := json.Marshal(records)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO diagrams (name, body, elements, updated_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET body = excluded.body, elements = excluded.elements, updated_at = excluded.updated_at`,
		name, string(body), countRecords(records), s.now().UTC().Format(time.RFC3339Nano))
	return wrapBackend(BackendSQLite, "put", err)
}

func (s *SQLiteStore) Get(ctx context.Context, name string) (records []document.Record, err error) {
	start := time.Now()
	defer func() { err = observe(ctx, BackendSQLite, "get", name, start, err) }()
	if err := errors.ValidateName(name); err != nil {
		return nil, err
	}

	var body string
	err = s.db.QueryRowContext(ctx, "SELECT body FROM diagrams WHERE name = ?", name).Scan(&body)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, wrapBackend(BackendSQLite, "get", err)
	}
	if err := json.Unmarshal([]byte(body), &records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "diagram %q", name)
	}
	return records, nil
}

func (s *SQLiteStore) List(ctx context.Context) (infos []Info, err error) {
	start := time.Now()
	defer func() { err = observe(ctx, BackendSQLite, "list", "", start, err) }()

	rows, err := s.db.QueryContext(ctx, "SELECT name, elements, updated_at FROM diagrams ORDER BY name")
	if err != nil {
		return nil, wrapBackend(BackendSQLite, "list", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			info    Info
			updated string
		)
		if err := rows.Scan(&info.Name, &info.Elements, &updated); err != nil {
			return nil, wrapBackend(BackendSQLite, "list", err)
		}
		info.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		infos = append(infos, info)
	}
	return infos, wrapBackend(BackendSQLite, "list", rows.Err())
}

func (s *SQLiteStore) Delete(ctx context.Context, name string) (err error) {
	start := time.Now()
	defer func() { err = observe(ctx, BackendSQLite, "delete", name, start, err) }()
	if err := errors.ValidateName(name); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM diagrams WHERE name = ?", name)
	if err != nil {
		return wrapBackend(BackendSQLite, "delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(name)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
