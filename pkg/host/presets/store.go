// Package presets persists state blobs in a SQLite database.
//
// Writers serialize on a lock file next to the database so several host
// processes can share one preset library.
package presets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"github.com/justyntemme/nativeplug/pkg/framework/state"
)

var (
	ErrNotFound    = errors.New("presets: not found")
	ErrEmptyName   = errors.New("presets: empty name")
	ErrWrongPlugin = errors.New("presets: blob belongs to another plugin")
	ErrLocked      = errors.New("presets: store is locked by another process")
)

const lockRetry = 25 * time.Millisecond

// Preset is one stored blob.
type Preset struct {
	Plugin    string
	Name      string
	Data      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store manages presets backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open creates or opens the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create preset directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	s := &Store{db: db, path: path, lock: flock.New(path + ".lock")}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
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

// Save stores data as preset name of plugin, replacing an existing one.
// The blob must be a state blob saved by that plugin.
func (s *Store) Save(ctx context.Context, plugin, name string, data []byte) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	env, err := state.Decode(data)
	if err != nil {
		return err
	}
	if env.Label != plugin {
		return fmt.Errorf("%w: %q is not %q", ErrWrongPlugin, env.Label, plugin)
	}

	return s.withLock(ctx, func() error {
		now := time.Now().UTC().Format(time.RFC3339Nano)
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO presets (plugin, name, data, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?)
             ON CONFLICT(plugin, name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
			plugin, name, data, now, now,
		)
		if err != nil {
			return fmt.Errorf("save preset: %w", err)
		}
		return nil
	})
}

// Load returns one preset.
func (s *Store) Load(ctx context.Context, plugin, name string) (*Preset, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT plugin, name, data, created_at, updated_at FROM presets WHERE plugin = ? AND name = ?`,
		plugin, strings.TrimSpace(name),
	)
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, plugin, name)
	}
	return p, err
}

// List returns the presets of plugin ordered by name, or of every plugin
// when plugin is empty.
func (s *Store) List(ctx context.Context, plugin string) ([]Preset, error) {
	query := `SELECT plugin, name, data, created_at, updated_at FROM presets`
	var args []any
	if plugin != "" {
		query += ` WHERE plugin = ?`
		args = append(args, plugin)
	}
	query += ` ORDER BY plugin, name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	var out []Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Delete removes one preset.
func (s *Store) Delete(ctx context.Context, plugin, name string) error {
	return s.withLock(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE plugin = ? AND name = ?`, plugin, name)
		if err != nil {
			return fmt.Errorf("delete preset: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: %s/%s", ErrNotFound, plugin, name)
		}
		return nil
	})
}

func (s *Store) withLock(ctx context.Context, fn func() error) error {
	ok, err := s.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", ErrLocked, ctx.Err())
		}
		return fmt.Errorf("acquire preset lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	defer func() { _ = s.lock.Unlock() }()
	return fn()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(row scanner) (*Preset, error) {
	var (
		p                  Preset
		created, updated string
	)
	if err := row.Scan(&p.Plugin, &p.Name, &p.Data, &created, &updated); err != nil {
		return nil, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	p.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &p, nil
}
