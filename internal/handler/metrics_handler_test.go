package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-scheduler-api/internal/service"
)

type pingerStub struct {
	err error
}

func (p pingerStub) PingContext(context.Context) error { return p.err }

func newMetricsRouter(h *MetricsHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/metrics", h.Prometheus)
	router.GET("/metrics/summary", h.Summary)
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	return router
}

func TestMetricsHandlerEndpoints(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.ObserveSchedulingRun("teacher_priority", true, 0, 1, 0, 0)
	router := newMetricsRouter(NewMetricsHandler(metrics, pingerStub{}))

	w := perform(router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "scheduling_runs_total")

	w = perform(router, http.MethodGet, "/metrics/summary", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"succeeded":1`)

	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/ready", nil).Code)
}

func TestMetricsHandlerNotReadyWhenDatabaseDown(t *testing.T) {
	router := newMetricsRouter(NewMetricsHandler(nil, pingerStub{err: errors.New("connection refused")}))

	assert.Equal(t, http.StatusServiceUnavailable, perform(router, http.MethodGet, "/ready", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, perform(router, http.MethodGet, "/metrics", nil).Code)
}
