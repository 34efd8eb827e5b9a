package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	prev := Logger()
	defer setLogger(prev)

	for _, level := range []string{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		require.NoError(t, Init(level, "stderr"))
		require.Equal(t, level, Level())
	}
	require.Error(t, Init("verbose", "stderr"))
}

func TestInitFile(t *testing.T) {
	prev := Logger()
	defer setLogger(prev)

	require.NoError(t, Init(LevelInfo, filepath.Join(t.TempDir(), "kzg.log")))
	require.Error(t, Init(LevelInfo, filepath.Join(t.TempDir(), "missing", "kzg.log")))
}

func TestStructuredHelpers(t *testing.T) {
	prev := Logger()
	defer setLogger(prev)

	var buf bytes.Buffer
	InitWriter(zerolog.InfoLevel, &buf)

	Debugw("hidden", "k", 1)
	Infow("trusted setup loaded", "path", "/tmp/setup.txt", "precompute", 8)
	Errorw(errors.New("boom"), "call failed")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	require.Equal(t, "info", entry["level"])
	require.Equal(t, "/tmp/setup.txt", entry["path"])
	require.EqualValues(t, 8, entry["precompute"])

	require.NoError(t, json.Unmarshal(lines[1], &entry))
	require.Equal(t, "boom", entry["error"])
}
