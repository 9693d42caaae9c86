package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger_Level(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	l := NewLoggerWithWriter(buf, WARNING)

	l.Infof("hidden %d", 1)
	require.Empty(t, buf.String())

	l.Warnf("shown %d", 2)
	require.Contains(t, buf.String(), "shown 2")
	require.Contains(t, buf.String(), `"level":"warn"`)
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, DEBUG, ParseLevel("DEBUG"))
	require.Equal(t, WARNING, ParseLevel("warn"))
	require.Equal(t, SILENCE, ParseLevel("silence"))
	require.Equal(t, INFO, ParseLevel("unknown"))
}
