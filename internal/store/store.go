// Package store keeps a history of tool results and exports, in postgres when
// a DSN is configured and in memory otherwise.
package store

import (
	"context"
	"database/sql"
	errs "errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrNoChange   = errs.New("no change")
	ErrMissingDSN = errs.New("missing DSN")
)

// DB wraps gorm.DB for repositories and exposes Close.
type DB struct {
	gorm *gorm.DB
	sql  *sql.DB
}

func (d *DB) Close() error { return d.sql.Close() }

// Open connects to postgres and pings it.
func Open(ctx context.Context, dsn string) (*DB, error) {
	if dsn == "" {
		return nil, ErrMissingDSN
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, wrap(err, "open postgres")
	}
	sdb, err := gdb.DB()
	if err != nil {
		return nil, wrap(err, "sql handle")
	}
	sdb.SetConnMaxLifetime(30 * time.Minute)
	sdb.SetMaxOpenConns(10)
	sdb.SetMaxIdleConns(5)
	if err := sdb.PingContext(ctx); err != nil {
		_ = sdb.Close()
		return nil, wrap(err, "ping postgres")
	}
	return &DB{gorm: gdb, sql: sdb}, nil
}

// WithTx executes fn within a database transaction.
func (d *DB) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.gorm.WithContext(ctx).Transaction(fn)
}

// Result is one recorded outcome of a decision tool.
type Result struct {
	ID        uuid.UUID
	Tool      string
	Input     string
	Result    string
	Seed      string
	CreatedAt time.Time
}

// History records tool results.
type History interface {
	Record(ctx context.Context, r Result) (Result, error)
	Recent(ctx context.Context, n int) ([]Result, error)
}

// DefaultRetention bounds decision_results; older rows are pruned on insert.
const DefaultRetention = 10000

// ResultRepo persists results in decision_results.
type ResultRepo struct {
	db *DB
	// Keep is how many rows survive a prune. Zero keeps everything.
	Keep int
}

func NewResultRepo(db *DB) *ResultRepo { return &ResultRepo{db: db, Keep: DefaultRetention} }

func (r *ResultRepo) Insert(ctx context.Context, tool, input, result, seed string) (Result, error) {
	return r.insert(ctx, Result{Tool: tool, Input: input, Result: result, Seed: seed})
}

// insert writes rec and prunes beyond Keep in one transaction. A zero
// CreatedAt is stamped with the current time.
func (r *ResultRepo) insert(ctx context.Context, rec Result) (Result, error) {
	rec.ID = uuid.New()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	err := r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Exec(`INSERT INTO decision_results(id, tool, input, result, seed, created_at) VALUES (?,?,?,?,?,?)`,
			rec.ID, rec.Tool, rec.Input, rec.Result, rec.Seed, rec.CreatedAt).Error; err != nil {
			return wrap(err, "insert decision result")
		}
		if r.Keep <= 0 {
			return nil
		}
		return wrap(tx.Exec(`DELETE FROM decision_results WHERE id NOT IN (SELECT id FROM decision_results ORDER BY created_at DESC LIMIT ?)`, r.Keep).Error, "prune decision results")
	})
	if err != nil {
		return Result{}, err
	}
	return rec, nil
}

// ListRecent returns up to n results, newest first.
func (r *ResultRepo) ListRecent(ctx context.Context, n int) ([]Result, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := r.db.gorm.WithContext(ctx).Raw(`SELECT id, tool, input, result, seed, created_at FROM decision_results ORDER BY created_at DESC LIMIT ?`, n).Rows()
	if err != nil {
		return nil, wrap(err, "list decision results")
	}
	defer rows.Close()
	var out []Result
	for rows.Next() {
		var rec Result
		if err := rows.Scan(&rec.ID, &rec.Tool, &rec.Input, &rec.Result, &rec.Seed, &rec.CreatedAt); err != nil {
			return nil, wrap(err, "scan decision result")
		}
		out = append(out, rec)
	}
	return out, wrap(rows.Err(), "iterate decision results")
}

// Record keeps the caller's CreatedAt so both histories share one clock.
func (r *ResultRepo) Record(ctx context.Context, rec Result) (Result, error) {
	return r.insert(ctx, rec)
}

func (r *ResultRepo) Recent(ctx context.Context, n int) ([]Result, error) { return r.ListRecent(ctx, n) }

// ExportRepo logs written export files.
type ExportRepo struct{ db *DB }

func NewExportRepo(db *DB) *ExportRepo { return &ExportRepo{db: db} }

func (e *ExportRepo) Insert(ctx context.Context, kind, path string, size int) (uuid.UUID, error) {
	id := uuid.New()
	if err := e.db.gorm.WithContext(ctx).Exec(`INSERT INTO exports(id, kind, path, bytes) VALUES (?,?,?,?)`, id, kind, path, size).Error; err != nil {
		return uuid.Nil, wrap(err, "insert export")
	}
	return id, nil
}

// DefaultHistorySize bounds the in-memory history.
const DefaultHistorySize = 100

// MemoryHistory is a fixed-size ring of results.
type MemoryHistory struct {
	mu    sync.Mutex
	clock clockwork.Clock
	buf   []Result
	next  int
	full  bool
}

func NewMemoryHistory(size int, clock clockwork.Clock) *MemoryHistory {
	if size <= 0 {
		size = DefaultHistorySize
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryHistory{clock: clock, buf: make([]Result, size)}
}

func (m *MemoryHistory) Record(_ context.Context, r Result) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = m.clock.Now().UTC()
	}
	m.buf[m.next] = r
	m.next = (m.next + 1) % len(m.buf)
	if m.next == 0 {
		m.full = true
	}
	return r, nil
}

// Recent returns up to n results, newest first.
func (m *MemoryHistory) Recent(_ context.Context, n int) ([]Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := m.next
	if m.full {
		count = len(m.buf)
	}
	if n > count {
		n = count
	}
	out := make([]Result, 0, max(n, 0))
	for i := 0; i < n; i++ {
		idx := (m.next - 1 - i + len(m.buf)) % len(m.buf)
		out = append(out, m.buf[idx])
	}
	return out, nil
}

func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}

// ExportLog records written export files.
type ExportLog interface {
	Insert(ctx context.Context, kind, path string, size int) (uuid.UUID, error)
}
