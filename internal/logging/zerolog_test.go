package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZerologLogger_LevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", "two")
	log.Warn(ctx, "wrn")
	log.Error(ctx, "err", "dangling")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 4)

	assert.Equal(t, "debug", lines[0]["level"])
	assert.Equal(t, "dbg", lines[0]["message"])
	assert.EqualValues(t, 1, lines[0]["a"])
	assert.Equal(t, "two", lines[1]["b"])
	assert.Equal(t, "warn", lines[2]["level"])
	assert.Equal(t, "dangling", lines[3]["!BADKEY"])
}

func TestZerologLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(zerolog.New(&buf)).With("component", "api")
	log.Info(context.Background(), "hello", "k", "v")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "api", lines[0]["component"])
	assert.Equal(t, "v", lines[0]["k"])
}

func TestZerologLogger_DisabledLevelIsSilent(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(zerolog.New(&buf).Level(zerolog.InfoLevel))
	log.Debug(context.Background(), "hidden")
	assert.Empty(t, buf.String())
}

func TestNew_SelectsBackend(t *testing.T) {
	var text, js, zl bytes.Buffer
	ctx := context.Background()

	New(FormatText, &text, false).Info(ctx, "t")
	New(FormatJSON, &js, false).Info(ctx, "j")
	New(FormatZerolog, &zl, false).Info(ctx, "z")

	assert.Contains(t, text.String(), "msg=t")
	assert.Contains(t, js.String(), `"msg":"j"`)
	assert.Contains(t, zl.String(), `"message":"z"`)

	var quiet bytes.Buffer
	New(FormatText, &quiet, false).Debug(ctx, "nope")
	assert.Empty(t, quiet.String())
}

func TestNop(t *testing.T) {
	Nop().Error(context.Background(), "ignored", "k", "v")
}

func TestZerologLogger_RequestIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerologLogger(zerolog.New(&buf))

	log.Warn(WithRequestID(context.Background(), "req-9"), "slow", "ms", 1200)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "req-9", lines[0]["request_id"])
	assert.Equal(t, float64(1200), lines[0]["ms"])
}
