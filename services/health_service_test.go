package services

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "github.com/OldiBike/mototrip-planner-sub000/errors"
	"github.com/OldiBike/mototrip-planner-sub000/logger"
	"github.com/OldiBike/mototrip-planner-sub000/types"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

type mockPinger struct {
	mock.Mock
}

func (m *mockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestNewHealthService(t *testing.T) {
	service := NewHealthService(&mockPinger{}, nil, "1.0.0")

	assert.NotNil(t, service)
	assert.Equal(t, "1.0.0", service.version)
	assert.NotNil(t, service.log)
	assert.True(t, time.Since(service.startTime) < time.Second)
}

func TestHealthService_CheckHealth(t *testing.T) {
	tests := []struct {
		name        string
		backendErr  error
		redisErr    error
		withRedis   bool
		wantOverall types.HealthStatus
		wantBackend types.HealthStatus
		wantRedis   types.HealthStatus
	}{
		{
			name:        "all up",
			withRedis:   true,
			wantOverall: types.HealthStatusUp,
			wantBackend: types.HealthStatusUp,
			wantRedis:   types.HealthStatusUp,
		},
		{
			name:        "memory toasts",
			wantOverall: types.HealthStatusUp,
			wantBackend: types.HealthStatusUp,
			wantRedis:   types.HealthStatusDisabled,
		},
		{
			name:        "backend unreachable",
			backendErr:  apperrors.Transport(errors.New("connection refused")),
			withRedis:   true,
			wantOverall: types.HealthStatusDown,
			wantBackend: types.HealthStatusDown,
			wantRedis:   types.HealthStatusUp,
		},
		{
			name:        "backend failing",
			backendErr:  apperrors.Upstream("", 503),
			wantOverall: types.HealthStatusDegraded,
			wantBackend: types.HealthStatusDegraded,
			wantRedis:   types.HealthStatusDisabled,
		},
		{
			name:        "redis down",
			redisErr:    errors.New("redis: connection refused"),
			withRedis:   true,
			wantOverall: types.HealthStatusDegraded,
			wantBackend: types.HealthStatusUp,
			wantRedis:   types.HealthStatusDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pinger := &mockPinger{}
			pinger.On("Ping", mock.Anything).Return(tt.backendErr)

			service := NewHealthService(pinger, nil, "1.0.0")
			var redisMock redismock.ClientMock
			if tt.withRedis {
				client, m := redismock.NewClientMock()
				redisMock = m
				if tt.redisErr != nil {
					m.ExpectPing().SetErr(tt.redisErr)
				} else {
					m.ExpectPing().SetVal("PONG")
				}
				service.redisClient = client
			}
			service.SetWorkspaceCounter(func() int { return 3 })

			health := service.CheckHealth(context.Background())

			assert.Equal(t, tt.wantOverall, health.Status)
			assert.Equal(t, tt.wantBackend, health.Components["backend"].Status)
			assert.Equal(t, tt.wantRedis, health.Components["redis"].Status)
			assert.Equal(t, 3, health.Workspaces)
			assert.Equal(t, "1.0.0", health.Version)
			_, err := time.Parse(time.RFC3339, health.Timestamp)
			require.NoError(t, err)

			pinger.AssertExpectations(t)
			if redisMock != nil {
				assert.NoError(t, redisMock.ExpectationsWereMet())
			}
		})
	}
}
