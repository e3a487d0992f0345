package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, checks map[string]Check, path string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	RegisterRoutes(router, router.Group("/api/v1"), "1.2.3", checks)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var resp Response
	if path == "/health" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}

	return w, resp
}

func TestHandler_Healthy(t *testing.T) {
	w, resp := get(t, map[string]Check{"redis": func(context.Context) error { return nil }}, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "forge", resp.Service)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, map[string]string{"redis": "ok"}, resp.Checks)
}

func TestHandler_Degraded(t *testing.T) {
	w, resp := get(t, map[string]Check{"redis": func(context.Context) error { return errors.New("connection refused") }}, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unavailable", resp.Checks["redis"])
}

func TestPingHandler(t *testing.T) {
	w, _ := get(t, nil, "/api/v1/ping")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "pong"}`, w.Body.String())
}
