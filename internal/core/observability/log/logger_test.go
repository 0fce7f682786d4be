package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"verbose": LevelDebug,
		"":        LevelInfo,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"fatal":   LevelFatal,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestLevelUnmarshalText(t *testing.T) {
	var lvl Level
	require.NoError(t, lvl.UnmarshalText([]byte("warn")))
	require.Equal(t, LevelWarn, lvl)
	require.Equal(t, "warn", lvl.String())
}

func TestNamedLoggerCarriesCategoryAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithCore(core)

	logger.Named("Mod Loader").With(String("mod", "extra")).Warn("target version mismatch",
		Int("attempt", 1),
		Error(errors.New("boom")),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "Mod Loader", entries[0].LoggerName)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)

	ctx := entries[0].ContextMap()
	require.Equal(t, "extra", ctx["mod"])
	require.EqualValues(t, 1, ctx["attempt"])
	require.Equal(t, "boom", ctx["error"])
}

func TestSetLevelFiltersLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithCore(core)
	logger.SetLevel(LevelError)

	logger.Log(LevelInfo, "dropped")
	logger.Log(LevelError, "kept")

	require.Equal(t, LevelError, logger.GetLevel())
	require.Equal(t, 1, logs.Len())
	require.Equal(t, "kept", logs.All()[0].Message)
}
