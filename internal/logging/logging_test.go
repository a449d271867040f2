package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	require.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	require.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	require.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
}

func TestNewLoggerWithOutput_FiltersBelowLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewLoggerWithOutput("warn", &buf)

	l.Info().Msg("hidden")
	l.Warn().Str("symbol", "AAPL").Msg("shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"symbol":"AAPL"`)
}

func TestOrSilent(t *testing.T) {
	t.Parallel()

	require.NotNil(t, OrSilent(nil))
	l := NewSilentLogger()
	require.Same(t, l, OrSilent(l))
}
