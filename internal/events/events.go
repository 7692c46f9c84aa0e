package events

import (
	"log/slog"

	"eventreg/internal/events/handler"
	"eventreg/internal/events/service"
)

// Service exposes the permission-gated event operations.
type Service = service.Service

// Handler wires HTTP endpoints to the events service.
type Handler = handler.Handler

// NewService constructs the events service with required dependencies.
func NewService(store service.Store, oracle service.PermissionOracle, bodies service.BodyRegistry, opts ...service.Option) (*Service, error) {
	return service.New(store, oracle, bodies, opts...)
}

// NewHandler constructs the HTTP handler for the events routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
