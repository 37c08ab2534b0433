package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) Ping(context.Context) error {
	return p.err
}

func setupHealthTestRouter(handler *HealthHandler) *gin.Engine {
	router := gin.New()
	handler.RegisterRoutes(router)
	return router
}

func TestHealthHandler_Health(t *testing.T) {
	// No pool configured: the probe reports it but stays healthy, so a
	// partially wired dev setup still boots.
	handler := NewHealthHandler(nil, nil, "1.0.0", "2026-08-24")
	router := setupHealthTestRouter(handler)

	w := performJSON(router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "1.0.0", response.Version)
	assert.Equal(t, "not configured", response.Checks["database"])
	assert.NotEmpty(t, response.Uptime)
}

func TestHealthHandler_Live(t *testing.T) {
	handler := NewHealthHandler(nil, nil, "1.0.0", "")
	router := setupHealthTestRouter(handler)

	w := performJSON(router, http.MethodGet, "/live", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alive")
}

func TestHealthHandler_Ready(t *testing.T) {
	t.Run("RedisHealthy", func(t *testing.T) {
		handler := NewHealthHandler(nil, &fakePinger{}, "1.0.0", "")
		router := setupHealthTestRouter(handler)

		w := performJSON(router, http.MethodGet, "/ready", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var response ReadinessResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response.Ready)
		assert.Equal(t, "healthy", response.Checks["redis"])
	})

	t.Run("RedisDown", func(t *testing.T) {
		handler := NewHealthHandler(nil, &fakePinger{err: errors.New("connection refused")}, "1.0.0", "")
		router := setupHealthTestRouter(handler)

		w := performJSON(router, http.MethodGet, "/ready", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var response ReadinessResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.False(t, response.Ready)
		assert.Contains(t, response.Checks["redis"], "unhealthy")
	})

	t.Run("RedisDisabled", func(t *testing.T) {
		handler := NewHealthHandler(nil, nil, "1.0.0", "")
		router := setupHealthTestRouter(handler)

		w := performJSON(router, http.MethodGet, "/ready", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var response ReadinessResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "not configured", response.Checks["redis"])
	})
}
