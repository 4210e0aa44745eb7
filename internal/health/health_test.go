package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lpbot/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticCounter int

func (c staticCounter) Len() int { return int(c) }

type staticStats worker.Stats

func (s staticStats) Stats() worker.Stats { return worker.Stats(s) }

func get(t *testing.T, handler http.Handler, path string) (int, Response) {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))

	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
	var response Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Timestamp)
	return recorder.Code, response
}

func TestServer_Endpoints(t *testing.T) {
	server := NewServer("0", staticCounter(3), staticStats{Workers: 4, ProcessedJobs: 10, DroppedJobs: 1}, zap.NewNop())
	handler := server.Handler()

	code, response := get(t, handler, "/live")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alive", response.Status)

	code, response = get(t, handler, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not ready", response.Status)

	code, response = get(t, handler, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "starting", response.Status)

	server.SetReady(true)

	code, response = get(t, handler, "/ready")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", response.Status)

	code, response = get(t, handler, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", response.Status)
	require.NotNil(t, response.Parties)
	assert.Equal(t, 3, *response.Parties)
	require.NotNil(t, response.Workers)
	assert.Equal(t, int64(10), response.Workers.ProcessedJobs)
	assert.Equal(t, int64(1), response.Workers.DroppedJobs)
}

func TestServer_WithoutCounters(t *testing.T) {
	server := NewServer("0", nil, nil, zap.NewNop())
	server.SetReady(true)

	code, response := get(t, server.Handler(), "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Nil(t, response.Parties)
	assert.Nil(t, response.Workers)
}
