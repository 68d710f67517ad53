package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postboard/internal/platform/logger"
)

// capturedRecords runs a request through RequestLogger with a JSON slog handler
// writing into a buffer, and returns the decoded log records in emit order.
func capturedRecords(t *testing.T, req *http.Request, inner http.Handler) ([]map[string]interface{}, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	testLogger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// The router installs the context logger before the logging hooks run.
	injectLogger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(logger.WithLogger(r.Context(), testLogger)))
		})
	}

	rr := httptest.NewRecorder()
	injectLogger(RequestLogger(inner)).ServeHTTP(rr, req)

	var records []map[string]interface{}
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var record map[string]interface{}
		require.NoError(t, dec.Decode(&record))
		records = append(records, record)
	}
	return records, rr
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestLoggerEmitsRequestAndResponse(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/posts?page=2&sort=asc",
		strings.NewReader(`{"title": "hello", "userId": 3}`))

	records, _ := capturedRecords(t, req, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	require.Len(t, records, 2)

	request := records[0]
	assert.Equal(t, "request", request["event"])
	assert.Equal(t, "POST", request["method"])
	assert.Equal(t, "/posts", request["path"])
	assert.Equal(t, map[string]interface{}{"page": "2", "sort": "asc"}, request["args"])
	assert.Equal(t, map[string]interface{}{"title": "hello", "userId": float64(3)}, request["json"])

	response := records[1]
	assert.Equal(t, "response", response["event"])
	assert.Equal(t, float64(http.StatusCreated), response["status"])
	assert.Equal(t, "/posts", response["path"])

	duration, ok := response["duration_s"].(float64)
	require.True(t, ok, "duration_s should be a number, got %T", response["duration_s"])
	assert.GreaterOrEqual(t, duration, 0.0)
}

func TestRequestLoggerUnparseableBodyLogsNull(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"broken`))

	var seenBody string
	records, _ := capturedRecords(t, req, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seenBody = string(raw)
		w.WriteHeader(http.StatusBadRequest)
	}))
	require.Len(t, records, 2)

	request := records[0]
	assert.Equal(t, "request", request["event"])
	assert.Nil(t, request["json"])

	// The hook must hand the handler the body it buffered, byte for byte.
	assert.Equal(t, `{"broken`, seenBody)
}

func TestRequestLoggerNoBodyLogsNull(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)

	records, _ := capturedRecords(t, req, okHandler())
	require.Len(t, records, 2)

	request := records[0]
	assert.Nil(t, request["json"])
	assert.Equal(t, map[string]interface{}{}, request["args"])
}

func TestRequestLoggerDefaultsUnwrittenStatusTo200(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	// Handler that never calls WriteHeader.
	records, _ := capturedRecords(t, req, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	require.Len(t, records, 2)

	response := records[1]
	assert.Equal(t, float64(http.StatusOK), response["status"])
}

func TestRequestLoggerEmitsResponseOnPanic(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	var buf bytes.Buffer
	testLogger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := RequestLogger(panicking)
	rr := httptest.NewRecorder()
	hreq := req.WithContext(logger.WithLogger(req.Context(), testLogger))

	assert.Panics(t, func() {
		handler.ServeHTTP(rr, hreq)
	})

	// The response hook runs on every exit path, panics included, and logs
	// the 500 the recoverer upstream will answer with.
	var records []map[string]interface{}
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var record map[string]interface{}
		require.NoError(t, dec.Decode(&record))
		records = append(records, record)
	}
	require.Len(t, records, 2)
	assert.Equal(t, "response", records[1]["event"])
	assert.Equal(t, float64(http.StatusInternalServerError), records[1]["status"])
}
