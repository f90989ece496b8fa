package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondJSON_EncodeFailureLogsWithRequestID(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	handler := middleware.RequestID(LoggerMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, http.StatusOK, map[string]interface{}{"bad": make(chan int)})
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var encodeLine map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["message"] == "failed to encode response" {
			encodeLine = entry
		}
	}
	require.NotNil(t, encodeLine)
	assert.Equal(t, "error", encodeLine["level"])
	assert.NotEmpty(t, encodeLine["request_id"])
}

func TestRespondError_Body(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(rec, req, http.StatusBadRequest, "invalid_request", "bad quantity")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":false,"error":"bad quantity","code":"invalid_request"}`, rec.Body.String())
}
