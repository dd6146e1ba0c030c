package handlers

import (
	"context"
	"net/http"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/OldiBike/mototrip-planner-sub000/types"
	"github.com/gin-gonic/gin"
)

// HealthChecker builds the console health report.
type HealthChecker interface {
	CheckHealth(ctx context.Context) types.HealthCheck
}

// UploadPoolState tells whether photo uploads are still accepted.
type UploadPoolState interface {
	IsRunning() bool
}

// HealthHandler serves the process probes. The console is ready while the
// trip backend answers and the upload pool takes jobs; a lost toast store
// only degrades it.
type HealthHandler struct {
	checker HealthChecker
	uploads UploadPoolState
}

// NewHealthHandler wires the probes. uploads may be nil.
func NewHealthHandler(checker HealthChecker, uploads UploadPoolState) *HealthHandler {
	return &HealthHandler{checker: checker, uploads: uploads}
}

type readinessReport struct {
	Ready       bool               `json:"ready"`
	Status      types.HealthStatus `json:"status"`
	Reasons     []string           `json:"reasons,omitempty"`
	Workspaces  int                `json:"workspaces"`
	UploadQueue int                `json:"upload_queue"`
}

// LivenessCheck only tells the process is serving; it never calls out.
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, gin.H{"status": types.HealthStatusUp})
}

// ReadinessCheck answers 503 while the backend is down or uploads are
// refused because the pool is draining.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	health := h.checker.CheckHealth(c.Request.Context())

	report := readinessReport{
		Ready:       true,
		Status:      health.Status,
		Workspaces:  health.Workspaces,
		UploadQueue: health.UploadQueue,
	}
	if backend, ok := health.Components["backend"]; ok && backend.Status == types.HealthStatusDown {
		report.Reasons = append(report.Reasons, "backend unreachable")
	}
	if h.uploads != nil && !h.uploads.IsRunning() {
		report.Reasons = append(report.Reasons, "upload pool stopped")
	}

	c.Header("Cache-Control", "no-store")
	if len(report.Reasons) > 0 {
		report.Ready = false
		c.JSON(http.StatusServiceUnavailable, report)
		return
	}
	c.JSON(http.StatusOK, report)
}

// DetailedHealth reports every component with 200. ?component=backend
// narrows the body to one of them.
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	health := h.checker.CheckHealth(c.Request.Context())
	c.Header("Cache-Control", "no-store")

	if name := c.Query("component"); name != "" {
		component, ok := health.Components[name]
		if !ok {
			_ = c.Error(apperrors.NotFound("Composant", name))
			return
		}
		c.JSON(http.StatusOK, component)
		return
	}
	c.JSON(http.StatusOK, health)
}
