package mod

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hexaengine/hexa/internal/core/events/bus"
	"github.com/hexaengine/hexa/internal/core/observability/log"
)

type extraMod struct {
	Base
	loaded  bool
	started bus.EventBus
}

func (e *extraMod) OnLoadingStage() error {
	e.loaded = true
	return nil
}

func (e *extraMod) OnStart(b bus.EventBus) error {
	e.started = b
	return nil
}

func (e *extraMod) OnAddResourceDirectories() (local, global []string) {
	return []string{"textures/items"}, nil
}

func writeMeta(t *testing.T, modsDir, name, body string) string {
	t.Helper()
	dir := filepath.Join(modsDir, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".meta"), []byte(body), 0o644))
	return dir
}

func TestParseInfo(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		info, err := ParseInfo([]byte("name: extra\ndisplay_name: Extra Content\nmod_version: 1.2.0\ntarget_game_version: 0.3.0\n"))
		require.NoError(t, err)
		require.Equal(t, "Extra Content (extra) v1.2.0", info.FullDisplayName())
		require.True(t, info.Matches(semver.MustParse("0.3.4")))
		require.False(t, info.Matches(semver.MustParse("0.4.0")))
	})

	t.Run("json", func(t *testing.T) {
		info, err := ParseInfo([]byte(`{"name":"extra","mod_version":"2.0.0","target_game_version":">=1.0.0, <2.0.0"}`))
		require.NoError(t, err)
		require.Equal(t, "extra (extra) v2.0.0", info.FullDisplayName())
		require.True(t, info.Matches(semver.MustParse("1.9.0")))
		require.False(t, info.Matches(semver.MustParse("2.0.0")))
	})

	t.Run("missing target matches anything", func(t *testing.T) {
		info, err := ParseInfo([]byte("name: extra\n"))
		require.NoError(t, err)
		require.True(t, info.Matches(semver.MustParse("7.1.0")))
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseInfo([]byte("display_name: nameless\n"))
		require.ErrorIs(t, err, ErrInvalidInfo)

		_, err = ParseInfo([]byte("name: extra\nmod_version: banana\n"))
		require.ErrorIs(t, err, ErrInvalidInfo)
	})
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	factory := func(*Mod) (Behavior, error) { return Base{}, nil }

	require.NoError(t, r.Register("extra", factory))
	require.ErrorIs(t, r.Register("extra", factory), ErrFactoryExists)
	require.Error(t, r.Register("broken", nil))

	_, ok := r.Lookup("extra")
	require.True(t, ok)
	require.Equal(t, []string{"extra"}, r.Names())
}

func TestScan(t *testing.T) {
	modsDir := t.TempDir()
	writeMeta(t, modsDir, "b", "name: b\n")
	writeMeta(t, modsDir, "a", "name: a\n")
	require.NoError(t, os.MkdirAll(filepath.Join(modsDir, "unsigned"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(modsDir, "loose.meta"), nil, 0o644))

	paths, err := Scan(modsDir)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(modsDir, "a"), filepath.Join(modsDir, "b")}, paths)

	paths, err = Scan(filepath.Join(modsDir, "absent"))
	require.NoError(t, err)
	require.Empty(t, paths)
}

func TestLoaderLoadsMatchingMods(t *testing.T) {
	modsDir := t.TempDir()
	dir := writeMeta(t, modsDir, "extra", "name: extra\nmod_version: 1.0.0\ntarget_game_version: \"0.3\"\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "resources", "textures", "items"), 0o755))

	core, logs := observer.New(zapcore.DebugLevel)
	logger := log.NewWithCore(core)

	behavior := &extraMod{}
	r := NewRegistry()
	require.NoError(t, r.Register("extra", func(m *Mod) (Behavior, error) {
		require.Equal(t, "extra", m.Info().Name)
		return behavior, nil
	}))

	loader := NewLoader(semver.MustParse("0.3.1"), WithRegistry(r), WithLogger(logger))
	mods, err := loader.LoadDir(modsDir)
	require.NoError(t, err)
	require.Len(t, mods, 1)

	m := mods[0]
	require.Equal(t, "extra", m.Name())
	require.Equal(t, dir, m.Dir())
	require.Equal(t, filepath.Join(dir, "resources"), m.ResourcesPath())
	require.Equal(t, []string{"textures/items"}, m.LocalDirectories())

	eventBus := bus.New()
	require.NoError(t, m.OnLoadingStage())
	require.NoError(t, m.OnStart(eventBus))
	require.True(t, behavior.loaded)
	require.Equal(t, eventBus, behavior.started)

	initialized := logs.FilterMessage("Initialized mod").All()
	require.Len(t, initialized, 1)
	require.Equal(t, "Mod Loader", initialized[0].LoggerName)
}

func TestLoaderSkipsMismatchedAndUnregistered(t *testing.T) {
	modsDir := t.TempDir()
	writeMeta(t, modsDir, "old", "name: old\ntarget_game_version: \"0.1\"\n")
	writeMeta(t, modsDir, "orphan", "name: orphan\n")
	writeMeta(t, modsDir, "failing", "name: failing\n")

	core, logs := observer.New(zapcore.DebugLevel)
	r := NewRegistry()
	require.NoError(t, r.Register("old", func(*Mod) (Behavior, error) { return Base{}, nil }))
	require.NoError(t, r.Register("failing", func(*Mod) (Behavior, error) { return nil, errors.New("boom") }))

	loader := NewLoader(semver.MustParse("0.3.0"), WithRegistry(r), WithLogger(log.NewWithCore(core)))
	mods, err := loader.LoadDir(modsDir)
	require.NoError(t, err)
	require.Empty(t, mods)

	skipped := logs.FilterMessage("skipping mod").All()
	require.Len(t, skipped, 3)
	for _, entry := range skipped {
		require.Equal(t, zapcore.ErrorLevel, entry.Level)
	}

	_, err = loader.Load(filepath.Join(modsDir, "old"))
	require.ErrorIs(t, err, ErrVersionMismatch)
	_, err = loader.Load(filepath.Join(modsDir, "orphan"))
	require.ErrorIs(t, err, ErrNoFactory)
	_, err = loader.Load(filepath.Join(modsDir, "missing"))
	require.ErrorIs(t, err, ErrMissingSignature)
}

func TestModWithoutBehaviorHooksAreNoops(t *testing.T) {
	m := &Mod{}
	require.NoError(t, m.OnLoadingStage())
	require.NoError(t, m.OnStart(nil))
	local, global := m.OnAddResourceDirectories()
	require.Nil(t, local)
	require.Nil(t, global)
}
