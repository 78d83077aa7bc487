package scorecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"wobble/internal/annotations"
	"wobble/internal/config"
)

var (
	// ErrDisabled is returned when the configuration has no score cache path.
	ErrDisabled = errors.New("score cache disabled")
	// ErrCacheLocked is returned when another writer holds the cache.
	ErrCacheLocked = errors.New("score cache locked by another writer")
)

const lockRetryDelay = 25 * time.Millisecond

// Score is the difference between a frame and the neighbour it was compared
// against, in [0, 1].
type Score struct {
	Frame    int
	Neighbor int
	Score    float64
}

// Validate rejects negative indices and scores outside [0, 1].
func (s Score) Validate() error {
	if s.Frame < 0 || s.Neighbor < 0 {
		return annotations.NewValidationError(annotations.KindNegativeFrameIndex, "score", s.Frame, "frame %d neighbor %d", s.Frame, s.Neighbor)
	}
	if math.IsNaN(s.Score) || s.Score < 0 || s.Score > 1 {
		return annotations.NewValidationError(annotations.KindInvalidRange, "score", s.Frame, "%v is outside [0, 1]", s.Score)
	}
	return nil
}

// SourceSummary counts the scores stored for one source.
type SourceSummary struct {
	Source     string
	Count      int
	RecordedAt time.Time
}

// Store is a SQLite-backed score cache.
type Store struct {
	db   *sql.DB
	path string
	// mu serializes writers in this process; lock serializes processes.
	mu   sync.Mutex
	lock *flock.Flock
}

// Open creates or opens the cache at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrDisabled
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create score cache directory: %w", err)
	}
	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	store := &Store{db: db, path: path, lock: flock.New(path + ".lock")}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// OpenFromConfig opens the cache named by paths.score_cache.
func OpenFromConfig(cfg *config.Config) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	return Open(cfg.Paths.ScoreCache)
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put stores scores for source, replacing existing entries with the same
// frame and neighbour. Every score is validated before anything is written.
func (s *Store) Put(ctx context.Context, source string, scores []Score) error {
	ctx = ensureContext(ctx)
	source = strings.TrimSpace(source)
	if source == "" {
		return annotations.NewValidationError(annotations.KindMissingField, "source", -1, "score source is required")
	}
	for _, score := range scores {
		if err := score.Validate(); err != nil {
			return err
		}
	}
	if len(scores) == 0 {
		return nil
	}

	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin scores tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO scores (source, frame, neighbor, score, recorded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (source, frame, neighbor) DO UPDATE SET score = excluded.score, recorded_at = excluded.recorded_at`)
	if err != nil {
		return fmt.Errorf("prepare score insert: %w", err)
	}
	defer stmt.Close()

	recorded := time.Now().UTC().Format(time.RFC3339)
	for _, score := range scores {
		if _, err := stmt.ExecContext(ctx, source, score.Frame, score.Neighbor, score.Score, recorded); err != nil {
			return fmt.Errorf("insert score %d/%d: %w", score.Frame, score.Neighbor, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit scores: %w", err)
	}
	return nil
}

// Get looks up one score. The boolean is false when it was never stored.
func (s *Store) Get(ctx context.Context, source string, frame, neighbor int) (float64, bool, error) {
	ctx = ensureContext(ctx)
	var score float64
	err := s.db.QueryRowContext(ctx,
		"SELECT score FROM scores WHERE source = ? AND frame = ? AND neighbor = ?",
		source, frame, neighbor,
	).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query score: %w", err)
	}
	return score, true, nil
}

// List returns the scores of source ordered by frame then neighbour.
func (s *Store) List(ctx context.Context, source string) ([]Score, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT frame, neighbor, score FROM scores WHERE source = ? ORDER BY frame, neighbor",
		source,
	)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var out []Score
	for rows.Next() {
		var score Score
		if err := rows.Scan(&score.Frame, &score.Neighbor, &score.Score); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		out = append(out, score)
	}
	return out, rows.Err()
}

// Sources summarizes every source in the cache, ordered by name.
func (s *Store) Sources(ctx context.Context) ([]SourceSummary, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT source, COUNT(1), MAX(recorded_at) FROM scores GROUP BY source ORDER BY source",
	)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var out []SourceSummary
	for rows.Next() {
		var (
			summary  SourceSummary
			recorded string
		)
		if err := rows.Scan(&summary.Source, &summary.Count, &recorded); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, recorded); err == nil {
			summary.RecordedAt = ts
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

// Delete removes every score of source and returns how many were removed.
func (s *Store) Delete(ctx context.Context, source string) (int64, error) {
	ctx = ensureContext(ctx)
	unlock, err := s.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM scores WHERE source = ?", source)
	if err != nil {
		return 0, fmt.Errorf("delete scores: %w", err)
	}
	return res.RowsAffected()
}

// acquire takes the writer lock, waiting until ctx is done.
func (s *Store) acquire(ctx context.Context) (func(), error) {
	s.mu.Lock()
	ok, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		s.mu.Unlock()
		return nil, fmt.Errorf("acquire score cache lock: %w", err)
	}
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrCacheLocked, s.lock.Path())
	}
	return func() {
		_ = s.lock.Unlock()
		s.mu.Unlock()
	}, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
