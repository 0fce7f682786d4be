package savegame

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const fileExt = ".sqlite"

var (
	ErrInvalidProfile = errors.New("invalid save game profile name")
	ErrInvalidKey     = errors.New("save game key is required")
	ErrClosed         = errors.New("save game is closed")
)

// SaveGame is the persistent key/value store of one player profile. Values
// are stored as JSON.
type SaveGame struct {
	profile string
	path    string
	db      *sql.DB
}

// Open creates or opens "<dir>/<profile>.sqlite".
func Open(ctx context.Context, dir, profile string) (*SaveGame, error) {
	profile = strings.TrimSpace(profile)
	if profile == "" || strings.ContainsAny(profile, `/\:`) || strings.Contains(profile, "..") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProfile, profile)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create saves dir: %w", err)
	}

	path := filepath.Join(dir, profile+fileExt)
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS save_entries (
		entry_key  TEXT PRIMARY KEY,
		value_json BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create save_entries: %w", err)
	}

	return &SaveGame{profile: profile, path: path, db: db}, nil
}

func (s *SaveGame) Profile() string { return s.profile }

// Path is the sqlite file of the profile.
func (s *SaveGame) Path() string { return s.path }

func (s *SaveGame) check(key string) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	return nil
}

// Put stores value under key, replacing any previous value.
func (s *SaveGame) Put(ctx context.Context, key string, value any) error {
	if err := s.check(key); err != nil {
		return err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO save_entries (entry_key, value_json, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(entry_key) DO UPDATE SET value_json = excluded.value_json, updated_at = excluded.updated_at`,
		key, payload, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Get decodes the value under key into out and reports whether it existed.
func (s *SaveGame) Get(ctx context.Context, key string, out any) (bool, error) {
	if err := s.check(key); err != nil {
		return false, err
	}
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT value_json FROM save_entries WHERE entry_key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *SaveGame) Delete(ctx context.Context, key string) error {
	if err := s.check(key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM save_entries WHERE entry_key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Keys lists stored keys in lexical order.
func (s *SaveGame) Keys(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `SELECT entry_key FROM save_entries ORDER BY entry_key`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (s *SaveGame) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
