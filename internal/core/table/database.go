package table

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/hexaengine/hexa/internal/core/observability/log"
	"github.com/hexaengine/hexa/pkg/concurrent"
)

type Option func(*Database)

func WithLogger(logger log.Log) Option {
	return func(db *Database) { db.logger = logger.Named("Database") }
}

// WithCreatable reports whether tables may be created now. The game passes
// a check for its Initialization stage.
func WithCreatable(fn func() bool) Option {
	return func(db *Database) { db.creatable = fn }
}

// WithWorkers bounds the number of table files decoded at once.
func WithWorkers(n int) Option {
	return func(db *Database) { db.workers = n }
}

// Database holds every table of a game by name.
type Database struct {
	logger    log.Log
	creatable func() bool
	workers   int

	mu     sync.RWMutex
	tables map[string]TableBase
	order  []string
}

func NewDatabase(opts ...Option) *Database {
	db := &Database{
		logger:  log.Provide().Named("Database"),
		workers: 4,
		tables:  make(map[string]TableBase),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Register adds a table built elsewhere.
func (db *Database) Register(t TableBase) error {
	if db.creatable != nil && !db.creatable() {
		return fmt.Errorf("%w: %s", ErrWrongStage, t.Name())
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.tables[t.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrTableExists, t.Name())
	}
	db.tables[t.Name()] = t
	db.order = append(db.order, t.Name())
	return nil
}

// Create makes and registers a table of T records.
func Create[T any](db *Database, name string) (*Table[T], error) {
	t := New[T](name)
	if err := db.Register(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns the table registered under name when it holds T records.
func Get[T any](db *Database, name string) (*Table[T], error) {
	base, ok := db.Table(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	t, ok := base.(*Table[T])
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableType, name)
	}
	return t, nil
}

func (db *Database) Table(name string) (TableBase, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	t, ok := db.tables[name]
	return t, ok
}

// Names lists tables in creation order.
func (db *Database) Names() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return append([]string(nil), db.order...)
}

func (db *Database) each(fn func(TableBase)) {
	for _, name := range db.Names() {
		if t, ok := db.Table(name); ok {
			fn(t)
		}
	}
}

// SearchFiles walks root for ".db" and ".bdb" files in lexical order.
// A missing root yields nothing.
func SearchFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) && path == root {
				return fs.SkipAll
			}
			return err
		}
		if d.Type().IsRegular() && IsTableFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("searching table files in %s: %w", root, err)
	}
	return files, nil
}

type decoded struct {
	file    File
	skipped []string
}

// LoadFiles decodes paths in parallel and applies them in path order. Keys
// without a module part belong to module. Broken files and unknown table
// names are logged and skipped; the returned error joins record failures.
func (db *Database) LoadFiles(ctx context.Context, module string, paths []string) error {
	results := concurrent.Settle(ctx, paths, db.workers, func(ctx context.Context, path string) (decoded, error) {
		if err := ctx.Err(); err != nil {
			return decoded{}, err
		}
		file, skipped, err := ReadFile(path)
		return decoded{file: file, skipped: skipped}, err
	})

	var errs []error
	for i, res := range results {
		path := paths[i]
		if res.Err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			db.logger.Error("failed loading table file", log.Path(path), log.Error(res.Err))
			continue
		}
		for _, name := range res.Value.skipped {
			db.logger.Warn("table entry is not an object", log.String("table", name), log.Path(path))
		}
		for _, name := range res.Value.file.Tables() {
			t, ok := db.Table(name)
			if !ok {
				db.logger.Error("table is not registered", log.String("table", name), log.Path(path))
				continue
			}
			if err := t.AddRecordCompounds(module, res.Value.file[name], false); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (db *Database) PostLoad() {
	db.each(func(t TableBase) { t.PostLoad() })
}

// InitAssets runs every table's asset pass; failures are logged per table.
func (db *Database) InitAssets() {
	db.each(func(t TableBase) {
		if err := t.InitAssets(); err != nil {
			db.logger.Error("failed initializing table assets", log.String("table", t.Name()), log.Error(err))
		}
	})
}

func (db *Database) Clear() {
	db.each(func(t TableBase) { t.Clear() })
}
