package savegame

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type progress struct {
	Level int      `json:"level"`
	Items []string `json:"items"`
}

func TestSaveGameRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "saves")

	sg, err := Open(ctx, dir, "soft fur dragon")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "soft fur dragon.sqlite"), sg.Path())
	require.Equal(t, "soft fur dragon", sg.Profile())

	require.NoError(t, sg.Put(ctx, "progress", progress{Level: 2, Items: []string{"sword"}}))
	require.NoError(t, sg.Put(ctx, "progress", progress{Level: 3}))
	require.NoError(t, sg.Put(ctx, "coins", 40))

	var p progress
	ok, err := sg.Get(ctx, "progress", &p)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, progress{Level: 3}, p)

	keys, err := sg.Keys(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"coins", "progress"}, keys)

	require.NoError(t, sg.Delete(ctx, "coins"))
	var coins int
	ok, err = sg.Get(ctx, "coins", &coins)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, sg.Close())
	require.NoError(t, sg.Close())
	require.ErrorIs(t, sg.Put(ctx, "progress", 1), ErrClosed)

	reopened, err := Open(ctx, dir, "soft fur dragon")
	require.NoError(t, err)
	defer reopened.Close()
	ok, err = reopened.Get(ctx, "progress", &p)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 3, p.Level)
}

func TestSaveGameValidation(t *testing.T) {
	ctx := context.Background()
	for _, profile := range []string{"", "  ", "../escape", "a/b"} {
		_, err := Open(ctx, t.TempDir(), profile)
		require.ErrorIs(t, err, ErrInvalidProfile, profile)
	}

	sg, err := Open(ctx, t.TempDir(), "player")
	require.NoError(t, err)
	defer sg.Close()
	require.ErrorIs(t, sg.Put(ctx, " ", 1), ErrInvalidKey)
}
