package log

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("SOLVER", "", &buf)
	require.NoError(t, err)

	l.Info("solved game")
	l.Warning("slow answer")
	l.Error("solver down")

	out := buf.String()
	assert.Contains(t, out, "[SOLVER] solved game")
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "ERR")

	buf.Reset()
	l.WithLevel(zerolog.ErrorLevel).Info("hidden")
	assert.Empty(t, buf.String())

	_, err = New("", "", &buf)
	assert.Error(t, err)
}
