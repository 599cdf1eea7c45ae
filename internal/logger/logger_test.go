package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestDetailHandler_DetailedRecordsSkipStdout(t *testing.T) {
	var out, file bytes.Buffer
	log := slog.New(&detailHandler{
		out:  jsonHandler(&out, slog.LevelInfo),
		file: jsonHandler(&file, slog.LevelInfo),
	})

	log.Warn("Attempt failed for", "model", "model-a")
	detailed := context.WithValue(context.Background(), DefaultDetailedCookie, true)
	log.WarnContext(detailed, "Attempt failed for", "payload", `{"error":{"message":"busy"}}`)

	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("\n")))
	assert.NotContains(t, out.String(), "payload")
	assert.Equal(t, 2, bytes.Count(file.Bytes(), []byte("\n")))
	assert.Contains(t, file.String(), "payload")
}

func TestDetailHandler_WithoutFileDropsDetailed(t *testing.T) {
	var out bytes.Buffer
	log := slog.New(&detailHandler{out: jsonHandler(&out, slog.LevelInfo)}).With("request_id", "abc")

	detailed := context.WithValue(context.Background(), DefaultDetailedCookie, true)
	log.WarnContext(detailed, "payload only")
	log.Info("visible")

	assert.NotContains(t, out.String(), "payload only")
	assert.Equal(t, "abc", gjson.Get(out.String(), "request_id").String())
	assert.Equal(t, "visible", gjson.Get(out.String(), "msg").String())
}

func TestDetailHandler_LevelFiltering(t *testing.T) {
	var out, file bytes.Buffer
	h := &detailHandler{
		out:  jsonHandler(&out, slog.LevelWarn),
		file: jsonHandler(&file, slog.LevelDebug),
	}

	assert.True(t, h.Enabled(context.Background(), slog.LevelDebug))
	slog.New(h).Debug("file only")

	assert.Empty(t, out.String())
	assert.Contains(t, file.String(), "file only")
}

func TestFlattenAttr(t *testing.T) {
	var out bytes.Buffer
	slog.New(jsonHandler(&out, slog.LevelInfo)).Info("styled",
		"model", "\x1b[36mmodel-a\x1b[0m",
		"failures", map[string]int{"timeout": 2})

	line := out.String()
	assert.Equal(t, "model-a", gjson.Get(line, "model").String())
	assert.Equal(t, "map[timeout:2]", gjson.Get(line, "failures").String())
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`, gjson.Get(line, "timestamp").String())
	assert.False(t, gjson.Get(line, "time").Exists())
}

func TestNew_FileOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	log, cleanup, err := New(&Config{Level: "info", LogDir: dir, FileOutput: true, MaxSize: 1})
	require.NoError(t, err)

	log.Info("written to file")
	cleanup()

	data, err := os.ReadFile(filepath.Join(dir, DefaultLogOutputName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
