package types

type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "UP"
	HealthStatusDown     HealthStatus = "DOWN"
	HealthStatusDegraded HealthStatus = "DEGRADED"
	// HealthStatusDisabled marks an optional component that is not configured.
	HealthStatusDisabled HealthStatus = "DISABLED"
)

// HealthComponent is the state of one dependency. LatencyMs is the round
// trip of the probe, when one was sent.
type HealthComponent struct {
	Status    HealthStatus `json:"status"`
	Details   string       `json:"details,omitempty"`
	LatencyMs int64        `json:"latency_ms,omitempty"`
}

// HealthCheck is the body of the health endpoints. UploadQueue counts
// photo uploads waiting for a worker.
type HealthCheck struct {
	Status      HealthStatus               `json:"status"`
	Components  map[string]HealthComponent `json:"components"`
	Workspaces  int                        `json:"workspaces"`
	UploadQueue int                        `json:"upload_queue"`
	Version     string                     `json:"version"`
	Timestamp   string                     `json:"timestamp"`
	Uptime      string                     `json:"uptime"`
}
