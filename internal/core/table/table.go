package table

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/hexaengine/hexa/internal/core/asset"
)

// TableBase is the type-erased view of a table the Database works with.
type TableBase interface {
	Name() string
	AddRecordCompound(key asset.ID, raw json.RawMessage, forceReplace bool) error
	AddRecordCompounds(module string, object map[string]json.RawMessage, forceReplace bool) error
	PostLoad()
	InitAssets() error
	Clear()
}

// PostLoader is implemented by records that need a pass once every table
// file has been applied.
type PostLoader interface {
	PostLoad(key asset.ID)
}

// AssetIniter is implemented by records that resolve textures, materials or
// meshes after loading.
type AssetIniter interface {
	InitAssets(key asset.ID) error
}

// Table is an append-only store of T records keyed by asset id.
type Table[T any] struct {
	name string

	mu      sync.RWMutex
	records map[asset.ID]*T
	keys    []asset.ID
}

var _ TableBase = (*Table[struct{}])(nil)

func New[T any](name string) *Table[T] {
	return &Table[T]{
		name:    name,
		records: make(map[asset.ID]*T),
	}
}

func (t *Table[T]) Name() string { return t.name }

// AddRecordCompound decodes raw into a new record. An existing key is
// rejected unless forceReplace is set; a replaced key keeps its position.
func (t *Table[T]) AddRecordCompound(key asset.ID, raw json.RawMessage, forceReplace bool) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q in table %s", ErrInvalidKey, key.String(), t.name)
	}

	record := new(T)
	if err := json.Unmarshal(raw, record); err != nil {
		return fmt.Errorf("%w: %s in table %s: %v", ErrDecodeRecord, key, t.name, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.records[key]; ok {
		if !forceReplace {
			return fmt.Errorf("%w: %s in table %s", ErrDuplicateRecord, key, t.name)
		}
	} else {
		t.keys = append(t.keys, key)
	}
	t.records[key] = record
	return nil
}

// AddRecordCompounds adds every entry of object. Keys without a module part
// belong to module. Entries are applied in key order and failures are joined.
func (t *Table[T]) AddRecordCompounds(module string, object map[string]json.RawMessage, forceReplace bool) error {
	var errs []error
	for _, name := range slices.Sorted(maps.Keys(object)) {
		key := asset.ParseID(name, module)
		if err := t.AddRecordCompound(key, object[name], forceReplace); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Add stores an already built record.
func (t *Table[T]) Add(key asset.ID, record *T, forceReplace bool) error {
	if !key.Valid() {
		return fmt.Errorf("%w: %q in table %s", ErrInvalidKey, key.String(), t.name)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.records[key]; ok {
		if !forceReplace {
			return fmt.Errorf("%w: %s in table %s", ErrDuplicateRecord, key, t.name)
		}
	} else {
		t.keys = append(t.keys, key)
	}
	t.records[key] = record
	return nil
}

func (t *Table[T]) Get(key asset.ID) (*T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.records[key]
	return r, ok
}

func (t *Table[T]) GetByName(module, name string) (*T, bool) {
	return t.Get(asset.NewID(module, name))
}

func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.keys)
}

// Keys returns record keys in insertion order.
func (t *Table[T]) Keys() []asset.ID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.keys)
}

// Each visits records in insertion order until fn returns false.
func (t *Table[T]) Each(fn func(key asset.ID, record *T) bool) {
	for _, key := range t.Keys() {
		record, ok := t.Get(key)
		if !ok {
			continue
		}
		if !fn(key, record) {
			return
		}
	}
}

func (t *Table[T]) PostLoad() {
	t.Each(func(key asset.ID, record *T) bool {
		if p, ok := any(record).(PostLoader); ok {
			p.PostLoad(key)
		}
		return true
	})
}

func (t *Table[T]) InitAssets() error {
	var errs []error
	t.Each(func(key asset.ID, record *T) bool {
		if i, ok := any(record).(AssetIniter); ok {
			if err := i.InitAssets(key); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
			}
		}
		return true
	})
	return errors.Join(errs...)
}

func (t *Table[T]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.records)
	t.keys = nil
}
