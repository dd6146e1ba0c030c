package services

import (
	"context"
	"time"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/OldiBike/mototrip-planner-sub000/logger"
	"github.com/OldiBike/mototrip-planner-sub000/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BackendPinger is the part of the admin API client the health check needs.
type BackendPinger interface {
	Ping(ctx context.Context) error
}

type HealthService struct {
	backend     BackendPinger
	redisClient *redis.Client
	version     string
	log         *zap.SugaredLogger
	startTime   time.Time
	workspaces  func() int
	uploadQueue func() int
}

// NewHealthService builds the health checker. redisClient may be nil when
// toasts are kept in memory.
func NewHealthService(backend BackendPinger, redisClient *redis.Client, version string) *HealthService {
	return &HealthService{
		backend:     backend,
		redisClient: redisClient,
		version:     version,
		log:         logger.GetLogger(),
		startTime:   time.Now(),
	}
}

// SetWorkspaceCounter reports the number of live console sessions.
func (h *HealthService) SetWorkspaceCounter(count func() int) {
	h.workspaces = count
}

// SetUploadQueue reports the number of photo uploads waiting for a worker.
func (h *HealthService) SetUploadQueue(depth func() int) {
	h.uploadQueue = depth
}

func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent)
	overallStatus := types.HealthStatusUp

	// Check backend
	backendStatus := h.checkBackend(ctx)
	components["backend"] = backendStatus
	if backendStatus.Status == types.HealthStatusDown {
		overallStatus = types.HealthStatusDown
	} else if backendStatus.Status == types.HealthStatusDegraded {
		overallStatus = types.HealthStatusDegraded
	}

	// Check Redis; toasts are lost while it is down, but actions still work
	redisStatus := h.checkRedis(ctx)
	components["redis"] = redisStatus
	if redisStatus.Status == types.HealthStatusDown && overallStatus == types.HealthStatusUp {
		overallStatus = types.HealthStatusDegraded
	}

	check := types.HealthCheck{
		Status:     overallStatus,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.workspaces != nil {
		check.Workspaces = h.workspaces()
	}
	if h.uploadQueue != nil {
		check.UploadQueue = h.uploadQueue()
	}
	return check
}

func (h *HealthService) checkBackend(ctx context.Context) types.HealthComponent {
	start := time.Now()
	err := h.backend.Ping(ctx)
	latency := time.Since(start).Milliseconds()
	if err == nil {
		return types.HealthComponent{Status: types.HealthStatusUp, LatencyMs: latency}
	}

	h.log.Errorw("Backend health check failed", "error", err)
	if apperrors.IsType(err, apperrors.TransportError) {
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Backend unreachable",
		}
	}
	return types.HealthComponent{
		Status:    types.HealthStatusDegraded,
		Details:   "Backend answers with server errors",
		LatencyMs: latency,
	}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	if h.redisClient == nil {
		return types.HealthComponent{Status: types.HealthStatusDisabled}
	}
	start := time.Now()
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis connection failed",
		}
	}

	return types.HealthComponent{
		Status:    types.HealthStatusUp,
		LatencyMs: time.Since(start).Milliseconds(),
	}
}
