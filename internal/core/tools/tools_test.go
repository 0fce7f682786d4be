package tools

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hexaengine/hexa/internal/core/table"
)

func TestDispatch(t *testing.T) {
	set := Defaults()
	require.Equal(t, []string{"comp", "help"}, set.Names())
	require.ErrorIs(t, set.Register(NewComp()), ErrToolExists)

	var out bytes.Buffer
	handled, err := set.Dispatch(context.Background(), []string{"game", "help"}, &out)
	require.True(t, handled)
	require.NoError(t, err)
	require.Equal(t, "Available commands:\ncomp convert a json, yaml or toml table source to .bdb\nhelp List all available commands\n", out.String())

	handled, err = set.Dispatch(context.Background(), []string{"game", "--windowed"}, &out)
	require.False(t, handled)
	require.NoError(t, err)

	handled, _ = set.Dispatch(context.Background(), []string{"game"}, &out)
	require.False(t, handled)
}

func TestHelpWithoutTools(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, NewHelp(NewSet()).Execute(context.Background(), nil, &out))
	require.Equal(t, "No available commands!\n", out.String())
}

func TestConvertFormats(t *testing.T) {
	sources := map[string]string{
		"json": `{"tiles": {"grass": {"height": 1}}}`,
		"yaml": "tiles:\n  grass:\n    height: 1\n",
		"toml": "[tiles.grass]\nheight = 1\n",
	}
	for format, src := range sources {
		t.Run(format, func(t *testing.T) {
			file, err := Convert(format, []byte(src))
			require.NoError(t, err)
			require.JSONEq(t, `{"height":1}`, string(file["tiles"]["grass"]))
		})
	}

	_, err := Convert("xml", nil)
	require.ErrorIs(t, err, ErrUsage)
	_, err = Convert("json", []byte(`{"tiles": 3}`))
	require.Error(t, err)
}

func TestCompWritesBinaryTable(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tiles.yaml")
	require.NoError(t, os.WriteFile(src, []byte("tiles:\n  grass:\n    texture: grass\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, NewComp().Execute(context.Background(), []string{"yaml", src}, &out))
	require.True(t, strings.HasPrefix(out.String(), "Conversion done!"))

	file, _, err := table.ReadFile(filepath.Join(dir, "tiles.bdb"))
	require.NoError(t, err)
	require.JSONEq(t, `{"texture":"grass"}`, string(file["tiles"]["grass"]))

	custom := filepath.Join(dir, "custom.bdb")
	require.NoError(t, NewComp().Execute(context.Background(), []string{"YAML", src, custom}, &out))
	_, err = os.Stat(custom)
	require.NoError(t, err)

	require.ErrorIs(t, NewComp().Execute(context.Background(), nil, &out), ErrUsage)
	require.ErrorIs(t, NewComp().Execute(context.Background(), []string{"json"}, &out), ErrUsage)
	require.Error(t, NewComp().Execute(context.Background(), []string{"json", filepath.Join(dir, "absent.json")}, &out))
}
