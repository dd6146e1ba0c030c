// Package notify carries flash toasts from the action that produced them to
// the next page rendered for the same console session.
package notify

import (
	"context"
	"strings"

	"github.com/OldiBike/mototrip-planner-sub000/logger"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

// Toast is one transient message.
type Toast struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Store keeps pending toasts per session until they are drained.
type Store interface {
	Append(ctx context.Context, sessionID string, toast Toast) error
	Take(ctx context.Context, sessionID string) ([]Toast, error)
}

// Service is the toast API used by the handlers. Store failures are logged
// and swallowed: a lost toast never fails the user action.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Push queues a toast. Empty messages are dropped.
func (s *Service) Push(ctx context.Context, sessionID string, toast Toast) {
	if strings.TrimSpace(toast.Message) == "" {
		return
	}
	if toast.Level == "" {
		toast.Level = LevelInfo
	}
	if err := s.store.Append(ctx, sessionID, toast); err != nil {
		logger.GetLogger().Warnw("Failed to store toast", "sessionID", sessionID, "error", err)
	}
}

func (s *Service) Success(ctx context.Context, sessionID, message string) {
	s.Push(ctx, sessionID, Toast{Level: LevelSuccess, Message: message})
}

func (s *Service) Error(ctx context.Context, sessionID, message string) {
	s.Push(ctx, sessionID, Toast{Level: LevelError, Message: message})
}

func (s *Service) Warning(ctx context.Context, sessionID, message string) {
	s.Push(ctx, sessionID, Toast{Level: LevelWarning, Message: message})
}

// Drain returns and forgets every pending toast of the session, oldest first.
func (s *Service) Drain(ctx context.Context, sessionID string) []Toast {
	toasts, err := s.store.Take(ctx, sessionID)
	if err != nil {
		logger.GetLogger().Warnw("Failed to read toasts", "sessionID", sessionID, "error", err)
		return nil
	}
	return toasts
}
