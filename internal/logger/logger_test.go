package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Modes(t *testing.T) {
	t.Parallel()

	for _, mode := range []string{"dev", "prod", "PRODUCTION", ""} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		require.NotNil(t, l.SugaredLogger)
	}
}

func TestWith_CarriesFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("carrier", "carrier1").Warn("quote dropped", "reason", "timeout")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "quote dropped", entries[0].Message)
	fields := entries[0].ContextMap()
	require.Equal(t, "carrier1", fields["carrier"])
	require.Equal(t, "timeout", fields["reason"])
}
