package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// JournalFile is the journal's file name inside the config dir.
const JournalFile = "journal.sqlite"

type Action string

const (
	ActionCreate Action = "create"
	ActionDelete Action = "delete"
)

type Outcome string

const (
	OutcomeOK        Outcome = "ok"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// Entry is one create or delete attempt. It records what was tried and how it ended; it never
// holds the record itself.
type Entry struct {
	ID       string    `json:"id"`
	At       time.Time `json:"at"`
	Resource string    `json:"resource"`
	Action   Action    `json:"action"`
	RecordID string    `json:"recordId,omitempty"`
	URL      string    `json:"url,omitempty"`
	Outcome  Outcome   `json:"outcome"`
	Status   int       `json:"status,omitempty"`
	Detail   string    `json:"detail,omitempty"`
}

// Journal is the local action log.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// OpenJournal opens (creating if needed) dir/journal.sqlite.
func OpenJournal(ctx context.Context, dir string) (*Journal, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("journal: empty dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite registers as "sqlite".
	db, err := sql.Open("sqlite", filepath.Join(dir, JournalFile))
	if err != nil {
		return nil, err
	}
	// WAL plus busy_timeout lets a TUI and a CLI invocation write at the same time.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateJournal(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db, now: time.Now}, nil
}

func migrateJournal(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS actions (
			id TEXT PRIMARY KEY,
			at_unixms INTEGER NOT NULL,
			resource TEXT NOT NULL,
			action TEXT NOT NULL,
			record_id TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			outcome TEXT NOT NULL,
			status INTEGER NOT NULL DEFAULT 0,
			detail TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE INDEX IF NOT EXISTS idx_actions_at ON actions(at_unixms);`,
		`CREATE INDEX IF NOT EXISTS idx_actions_resource ON actions(resource, at_unixms);`,
		`INSERT OR IGNORE INTO meta(k, v) VALUES('schema_version', '1');`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("migrate journal: %w", err)
		}
	}
	return nil
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Append stores e. ID and At are filled when unset.
func (j *Journal) Append(ctx context.Context, e Entry) error {
	if strings.TrimSpace(e.Resource) == "" || e.Action == "" || e.Outcome == "" {
		return errors.New("journal: resource, action and outcome are required")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = j.now()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO actions(id, at_unixms, resource, action, record_id, url, outcome, status, detail)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.At.UnixMilli(), e.Resource, string(e.Action), e.RecordID, e.URL, string(e.Outcome), e.Status, e.Detail,
	)
	return err
}

type ListOptions struct {
	// Resource limits the listing to one resource; empty means all.
	Resource string
	// Limit caps the number of rows; <= 0 means 50.
	Limit int
}

// List returns entries newest first.
func (j *Journal) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT id, at_unixms, resource, action, record_id, url, outcome, status, detail FROM actions`
	args := []any{}
	if r := strings.TrimSpace(opts.Resource); r != "" {
		q += ` WHERE resource = ?`
		args = append(args, r)
	}
	q += ` ORDER BY at_unixms DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var (
			e              Entry
			atMS           int64
			action, result string
		)
		if err := rows.Scan(&e.ID, &atMS, &e.Resource, &action, &e.RecordID, &e.URL, &result, &e.Status, &e.Detail); err != nil {
			return nil, err
		}
		e.At = time.UnixMilli(atMS).UTC()
		e.Action = Action(action)
		e.Outcome = Outcome(result)
		out = append(out, e)
	}
	return out, rows.Err()
}
