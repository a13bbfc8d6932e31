package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLogger_WritesJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapLoggerTo(&buf, "debug")
	ctx := context.Background()

	log.With("component", "session").Warn(ctx, "token purged", "reason", "expired")
	require.NoError(t, log.Sync())

	out := buf.String()
	for _, s := range []string{`"level":"warn"`, `"message":"token purged"`, `"component":"session"`, `"reason":"expired"`} {
		assert.Contains(t, out, s)
	}
}

func TestZapLogger_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapLoggerTo(&buf, "bogus")

	log.Debug(context.Background(), "hidden")
	log.Info(context.Background(), "shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestNew_Formats(t *testing.T) {
	for _, format := range []string{"", FormatText, FormatJSON, FormatZap} {
		var buf bytes.Buffer
		log, err := New(format, "info", &buf)
		require.NoError(t, err, format)
		log.Info(context.Background(), "hello", "k", "v")
		assert.Contains(t, buf.String(), "hello", format)
	}

	_, err := New("xml", "info", &bytes.Buffer{})
	require.Error(t, err)
}

func TestNew_JSONLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(FormatJSON, "warn", &buf)
	require.NoError(t, err)

	log.Info(context.Background(), "quiet")
	log.Error(context.Background(), "loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), `"msg":"loud"`)
}
