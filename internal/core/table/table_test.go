package table

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hexaengine/hexa/internal/core/asset"
	"github.com/hexaengine/hexa/internal/core/observability/log"
)

type tile struct {
	Texture string `json:"texture"`
	Height  int    `json:"height"`

	postLoaded bool
	resolved   bool
}

func (t *tile) PostLoad(asset.ID) { t.postLoaded = true }

func (t *tile) InitAssets(key asset.ID) error {
	if t.Texture == "" {
		return errors.New("missing texture")
	}
	t.resolved = true
	return nil
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestTableRecords(t *testing.T) {
	tiles := New[tile]("tiles")
	require.Equal(t, "tiles", tiles.Name())

	grass := asset.NewID("game", "grass")
	require.NoError(t, tiles.AddRecordCompound(grass, json.RawMessage(`{"texture":"grass","height":1}`), false))
	require.ErrorIs(t, tiles.AddRecordCompound(grass, json.RawMessage(`{"height":2}`), false), ErrDuplicateRecord)

	rec, ok := tiles.GetByName("game", "grass")
	require.True(t, ok)
	require.Equal(t, 1, rec.Height)

	require.NoError(t, tiles.AddRecordCompound(grass, json.RawMessage(`{"texture":"grass","height":2}`), true))
	rec, _ = tiles.Get(grass)
	require.Equal(t, 2, rec.Height)
	require.Equal(t, 1, tiles.Len())

	require.ErrorIs(t, tiles.AddRecordCompound(asset.NewID("game", ""), json.RawMessage(`{}`), false), ErrInvalidKey)
	require.ErrorIs(t, tiles.AddRecordCompound(asset.NewID("game", "bad"), json.RawMessage(`[1]`), false), ErrDecodeRecord)
}

func TestTableAddRecordCompoundsKeepsOrderAndModule(t *testing.T) {
	tiles := New[tile]("tiles")
	err := tiles.AddRecordCompounds("extra", map[string]json.RawMessage{
		"water":      json.RawMessage(`{"texture":"water"}`),
		"game:stone": json.RawMessage(`{"texture":"stone"}`),
		"sand":       json.RawMessage(`{"texture":"sand"}`),
	}, false)
	require.NoError(t, err)

	require.Equal(t, []asset.ID{
		asset.NewID("game", "stone"),
		asset.NewID("extra", "sand"),
		asset.NewID("extra", "water"),
	}, tiles.Keys())

	var visited []string
	tiles.Each(func(key asset.ID, record *tile) bool {
		visited = append(visited, record.Texture)
		return len(visited) < 2
	})
	require.Equal(t, []string{"stone", "sand"}, visited)

	tiles.Clear()
	require.Zero(t, tiles.Len())
	require.Empty(t, tiles.Keys())
}

func TestTablePostLoadAndInitAssets(t *testing.T) {
	tiles := New[tile]("tiles")
	require.NoError(t, tiles.AddRecordCompounds("game", map[string]json.RawMessage{
		"grass": json.RawMessage(`{"texture":"grass"}`),
		"void":  json.RawMessage(`{}`),
	}, false))

	tiles.PostLoad()
	err := tiles.InitAssets()
	require.ErrorContains(t, err, "game:void")

	grass, _ := tiles.GetByName("game", "grass")
	require.True(t, grass.postLoaded)
	require.True(t, grass.resolved)
}

func TestDatabaseCreate(t *testing.T) {
	initialization := true
	db := NewDatabase(WithCreatable(func() bool { return initialization }), WithLogger(log.NewNop()))

	tiles, err := Create[tile](db, "tiles")
	require.NoError(t, err)

	_, err = Create[tile](db, "tiles")
	require.ErrorIs(t, err, ErrTableExists)

	got, err := Get[tile](db, "tiles")
	require.NoError(t, err)
	require.Same(t, tiles, got)

	_, err = Get[struct{ Name string }](db, "tiles")
	require.ErrorIs(t, err, ErrTableType)
	_, err = Get[tile](db, "items")
	require.ErrorIs(t, err, ErrTableNotFound)

	initialization = false
	_, err = Create[tile](db, "items")
	require.ErrorIs(t, err, ErrWrongStage)
	require.Equal(t, []string{"tiles"}, db.Names())
}

func TestSearchFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.db"), []byte(`{}`))
	writeFile(t, filepath.Join(root, "nested", "a.bdb"), nil)
	writeFile(t, filepath.Join(root, "notes.txt"), nil)

	files, err := SearchFiles(root)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "b.db"), filepath.Join(root, "nested", "a.bdb")}, files)

	files, err = SearchFiles(filepath.Join(root, "absent"))
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestBinaryRoundTripThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles.bdb")
	file := File{"tiles": {"grass": json.RawMessage(`{"texture":"grass"}`)}}
	require.NoError(t, WriteBinaryFile(path, file))

	got, skipped, err := ReadFile(path)
	require.NoError(t, err)
	require.Empty(t, skipped)
	require.JSONEq(t, `{"texture":"grass"}`, string(got["tiles"]["grass"]))

	_, _, err = ReadFile(filepath.Join(t.TempDir(), "tiles.csv"))
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDecodeTextSkipsNonObjects(t *testing.T) {
	file, skipped, err := DecodeText(bytes.NewReader([]byte(`{"tiles":{"grass":{}},"version":3}`)))
	require.NoError(t, err)
	require.Equal(t, []string{"tiles"}, file.Tables())
	require.Equal(t, []string{"version"}, skipped)
}

func TestDatabaseLoadFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.db"), []byte(`{
		"tiles": {"grass": {"texture": "grass", "height": 1}},
		"monsters": {"slime": {}}
	}`))
	writeFile(t, filepath.Join(root, "b.db"), []byte(`{"tiles": {"grass": {"height": 9}, "sand": {"texture": "sand"}}}`))
	writeFile(t, filepath.Join(root, "broken.db"), []byte(`{"tiles": `))
	require.NoError(t, WriteBinaryFile(filepath.Join(root, "c.bdb"), File{
		"tiles": {"core:stone": json.RawMessage(`{"texture":"stone"}`)},
	}))

	core, logs := observer.New(zapcore.DebugLevel)
	db := NewDatabase(WithLogger(log.NewWithCore(core)), WithWorkers(2))
	tiles, err := Create[tile](db, "tiles")
	require.NoError(t, err)

	files, err := SearchFiles(root)
	require.NoError(t, err)
	err = db.LoadFiles(context.Background(), "game", files)
	require.ErrorIs(t, err, ErrDuplicateRecord)

	require.Equal(t, []asset.ID{
		asset.NewID("game", "grass"),
		asset.NewID("game", "sand"),
		asset.NewID("core", "stone"),
	}, tiles.Keys())
	grass, _ := tiles.GetByName("game", "grass")
	require.Equal(t, 1, grass.Height)

	require.Equal(t, 1, logs.FilterMessage("table is not registered").Len())
	require.Equal(t, 1, logs.FilterMessage("failed loading table file").Len())
	require.Equal(t, "Database", logs.All()[0].LoggerName)

	db.PostLoad()
	db.InitAssets()
	require.True(t, grass.postLoaded)
	require.True(t, grass.resolved)

	db.Clear()
	require.Zero(t, tiles.Len())
}

func TestDatabaseLoadFilesStopsOnCancel(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.db"), []byte(`{}`))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	db := NewDatabase(WithLogger(log.NewNop()))
	err := db.LoadFiles(ctx, "game", []string{filepath.Join(root, "a.db")})
	require.ErrorIs(t, err, context.Canceled)
}
