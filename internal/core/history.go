package core

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RunStore records generation runs for the history endpoint.
type RunStore interface {
	Record(ctx context.Context, run Run) error
	Recent(ctx context.Context, limit int) ([]Run, error)
}

// MemoryRunStore keeps the most recent runs in a fixed-size ring.
type MemoryRunStore struct {
	mu   sync.Mutex
	runs []Run
	next int
	full bool
}

// NewMemoryRunStore creates a store holding at most capacity runs.
func NewMemoryRunStore(capacity int) *MemoryRunStore {
	if capacity <= 0 {
		capacity = 1
	}
	return &MemoryRunStore{runs: make([]Run, capacity)}
}

// Record stores run, evicting the oldest entry when full.
func (m *MemoryRunStore) Record(_ context.Context, run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.runs[m.next] = run
	m.next = (m.next + 1) % len(m.runs)
	if m.next == 0 {
		m.full = true
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (m *MemoryRunStore) Recent(_ context.Context, limit int) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.next
	if m.full {
		n = len(m.runs)
	}
	if limit <= 0 || limit > n {
		limit = n
	}

	result := make([]Run, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (m.next - i + len(m.runs)) % len(m.runs)
		result = append(result, m.runs[idx])
	}
	return result, nil
}

// PostgresRunStore persists runs in the barcode_runs table.
type PostgresRunStore struct {
	db DBTX
}

// NewPostgresRunStore wraps a pool or transaction.
func NewPostgresRunStore(db DBTX) *PostgresRunStore {
	return &PostgresRunStore{db: db}
}

const createRunsTable = `
CREATE TABLE IF NOT EXISTS barcode_runs (
	id          UUID PRIMARY KEY,
	symbology   TEXT NOT NULL,
	file_name   TEXT NOT NULL DEFAULT '',
	row_count   INTEGER NOT NULL DEFAULT 0,
	generated   INTEGER NOT NULL DEFAULT 0,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	client_ip   TEXT NOT NULL DEFAULT '',
	duration_ms BIGINT NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the runs table if it does not exist.
func (p *PostgresRunStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, createRunsTable); err != nil {
		return fmt.Errorf("create barcode_runs: %w", err)
	}
	return nil
}

// Record inserts run.
func (p *PostgresRunStore) Record(ctx context.Context, run Run) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO barcode_runs (id, symbology, file_name, row_count, generated, status, error, client_ip, duration_ms, created_at)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		run.ID, run.Symbology, run.FileName, run.Rows, run.Generated,
		string(run.Status), run.Error, run.ClientIP, run.Duration, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (p *PostgresRunStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	rows, err := p.db.Query(ctx, `
		SELECT id::text, symbology, file_name, row_count, generated, status, error, client_ip, duration_ms, created_at
		FROM barcode_runs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r      Run
			status string
		)
		if err := rows.Scan(&r.ID, &r.Symbology, &r.FileName, &r.Rows, &r.Generated,
			&status, &r.Error, &r.ClientIP, &r.Duration, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Status = RunStatus(status)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// recordTimeout bounds history writes so a slow database cannot stall a response.
const recordTimeout = 5 * time.Second
