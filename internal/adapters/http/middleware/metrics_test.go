package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_PassesThrough(t *testing.T) {
	r := newRouter(Metrics())

	w := perform(r, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestMetrics_SkipsMetricsEndpoint(t *testing.T) {
	r := newRouter(Metrics())
	r.GET("/metrics", func(c *gin.Context) {
		c.String(http.StatusOK, "metrics")
	})

	w := perform(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecordProposalOutcome_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordProposalOutcome("completed")
		RecordProposalOutcome("error")
		RecordHoldCreated("usd")
	})
}
