package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	dec := json.NewDecoder(buf)
	for dec.More() {
		var m map[string]interface{}
		require.NoError(t, dec.Decode(&m))
		out = append(out, m)
	}
	return out
}

func TestLogger_KeyValueAndPrintf(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Format: "json", Output: &buf})

	log.WithComponent("romanizer").Info("romanized", "words", 3, "mode", "smart")
	log.Warning("reloaded %d entries from %s", 12, "dict.txt")
	log.Debug("plain")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 3)

	assert.Equal(t, "romanized", lines[0]["msg"])
	assert.Equal(t, "romanizer", lines[0]["component"])
	assert.Equal(t, float64(3), lines[0]["words"])
	assert.Equal(t, "smart", lines[0]["mode"])

	assert.Equal(t, "reloaded 12 entries from dict.txt", lines[1]["msg"])
	assert.Equal(t, "warning", lines[1]["level"])
	assert.Equal(t, "plain", lines[2]["msg"])
}

func TestLogger_PrintfWithStringArgs(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Format: "json", Output: &buf})

	log.Info("loaded %s from %s", "dict.txt", "/data")
	log.Info("ratio 100%% of %s", "entries")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "loaded dict.txt from /data", lines[0]["msg"])
	assert.NotContains(t, lines[0], "loaded %s from %s")
	assert.Nil(t, lines[0]["dict.txt"])
	assert.Equal(t, "ratio 100% of entries", lines[1]["msg"])
}

func TestLogger_WithFieldsDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := New(Options{Format: "json", Output: &buf})
	base.WithField("user_id", "7").Info("scoped")
	base.Info("unscoped")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "7", lines[0]["user_id"])
	assert.NotContains(t, lines[1], "user_id")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Format: "json", Output: &buf})
	log.Info("hidden")
	log.Error("shown")
	assert.Len(t, decodeLines(t, &buf), 1)

	require.NoError(t, log.SetLogLevel("info"))
	log.Info("now visible")
	assert.Len(t, decodeLines(t, &buf), 1)

	assert.Error(t, log.SetLogLevel("loud"))
}

func TestLogger_FileRotationTarget(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "baakh.log")
	var buf bytes.Buffer
	log := New(Options{File: file, Output: &buf, MaxSize: 1})
	log.Info("to file")
	require.NoError(t, log.Close())

	assert.FileExists(t, file)
	assert.Contains(t, buf.String(), "to file")
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	log := New(Options{Format: "json", Output: &buf})

	r := gin.New()
	r.Use(log.RequestLogger())
	r.GET("/ping", func(c *gin.Context) {
		GetLoggerFromContext(c).Info("inside")
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, w.Body.String())

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, id, lines[0]["request_id"])

	// A client supplied uuid is propagated, garbage is replaced.
	given := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, given)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, given, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
}
