// internal/importer/history.go
package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmunix/plexrename/internal/migrations"
	_ "modernc.org/sqlite"
)

// Entry statuses.
const (
	StatusApplied = "applied"
	StatusFailed  = "failed"
)

// Batch summarizes one apply run.
type Batch struct {
	ID        string    `json:"id"`
	Mode      Mode      `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
	Total     int       `json:"total"`
	Applied   int       `json:"applied"`
	Undone    int       `json:"undone"`
}

// HistoryEntry is one journaled plan execution.
type HistoryEntry struct {
	ID        int64      `json:"id"`
	BatchID   string     `json:"batch_id"`
	Source    string     `json:"source"`
	Target    string     `json:"target"`
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UndoneAt  *time.Time `json:"undone_at,omitempty"`
}

// HistoryStore persists the rename journal.
type HistoryStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewHistoryStore creates a history store on an open database and applies
// the schema.
func NewHistoryStore(db *sql.DB) (*HistoryStore, error) {
	if _, err := db.Exec(migrations.HistorySQL); err != nil {
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &HistoryStore{db: db, now: func() time.Time { return time.Now().UTC() }}, nil
}

// OpenHistory opens (creating if needed) the SQLite journal at path.
func OpenHistory(path string) (*HistoryStore, *sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, nil, fmt.Errorf("open history %s: %w", path, err)
	}
	store, err := NewHistoryStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store, db, nil
}

// NewBatch registers a batch and returns its ID.
func (s *HistoryStore) NewBatch(ctx context.Context, mode Mode) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO batches (id, mode, created_at) VALUES (?, ?, ?)`,
		id, string(mode), s.now(),
	)
	if err != nil {
		return "", fmt.Errorf("insert batch: %w", err)
	}
	return id, nil
}

// Add inserts h and fills in its ID and CreatedAt.
func (s *HistoryStore) Add(ctx context.Context, h *HistoryEntry) error {
	now := s.now()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO renames (batch_id, source, target, status, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		h.BatchID, h.Source, h.Target, h.Status, h.Error, now,
	)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	h.ID = id
	h.CreatedAt = now
	return nil
}

// Batches lists batches, most recent first. limit <= 0 means all.
func (s *HistoryStore) Batches(ctx context.Context, limit int) ([]Batch, error) {
	query := `
		SELECT b.id, b.mode, b.created_at,
			(SELECT COUNT(*) FROM renames r WHERE r.batch_id = b.id),
			(SELECT COUNT(*) FROM renames r WHERE r.batch_id = b.id AND r.status = 'applied'),
			(SELECT COUNT(*) FROM renames r WHERE r.batch_id = b.id AND r.undone_at IS NOT NULL)
		FROM batches b
		ORDER BY b.rowid DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Batch
	for rows.Next() {
		var b Batch
		var mode string
		if err := rows.Scan(&b.ID, &mode, &b.CreatedAt, &b.Total, &b.Applied, &b.Undone); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		b.Mode = Mode(mode)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}
	return out, nil
}

// Batch returns one batch and its entries in execution order.
func (s *HistoryStore) Batch(ctx context.Context, id string) (*Batch, []HistoryEntry, error) {
	var b Batch
	var mode string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, mode, created_at FROM batches WHERE id = ?`, id,
	).Scan(&b.ID, &mode, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get batch: %w", err)
	}
	b.Mode = Mode(mode)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, batch_id, source, target, status, error, created_at, undone_at
		FROM renames WHERE batch_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("list entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		var undone sql.NullTime
		if err := rows.Scan(&h.ID, &h.BatchID, &h.Source, &h.Target, &h.Status, &h.Error, &h.CreatedAt, &undone); err != nil {
			return nil, nil, fmt.Errorf("scan entry: %w", err)
		}
		if undone.Valid {
			t := undone.Time
			h.UndoneAt = &t
		}
		b.Total++
		if h.Status == StatusApplied {
			b.Applied++
		}
		if h.UndoneAt != nil {
			b.Undone++
		}
		entries = append(entries, h)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate entries: %w", err)
	}
	return &b, entries, nil
}

// MarkUndone stamps an entry as reverted.
func (s *HistoryStore) MarkUndone(ctx context.Context, entryID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE renames SET undone_at = ? WHERE id = ? AND undone_at IS NULL`, s.now(), entryID)
	if err != nil {
		return fmt.Errorf("mark undone: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("entry %d already undone or missing", entryID)
	}
	return nil
}
