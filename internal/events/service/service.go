// Package service holds the permission-gated rules for events, applications,
// members lists and pax limits.
//
// Every operation follows the same shape: resolve the target, ask the
// permission oracle, validate, then mutate through the store's locked
// Execute path. Nothing is written before all checks pass.
package service

import (
	"errors"
	"log/slog"

	"eventreg/internal/events/metrics"
)

type Service struct {
	store   Store
	oracle  PermissionOracle
	bodies  BodyRegistry
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service. All three collaborators are required.
func New(store Store, oracle PermissionOracle, bodies BodyRegistry, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if oracle == nil {
		return nil, errors.New("permission oracle is required")
	}
	if bodies == nil {
		return nil, errors.New("body registry is required")
	}
	s := &Service{
		store:  store,
		oracle: oracle,
		bodies: bodies,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}
