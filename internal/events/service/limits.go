package service

import (
	"context"
	"errors"

	"eventreg/internal/events/models"
	"eventreg/pkg/domain"
	dErrors "eventreg/pkg/domain-errors"
	"eventreg/pkg/platform/sentinel"
	"eventreg/pkg/requestcontext"
)

// ResolveLimit returns the configured pax limit for the body at this event
// type, or the default for the body's type when none is configured. The body
// is always looked up in the registry first; a registry failure fails the
// request.
func (s *Service) ResolveLimit(ctx context.Context, actor domain.Actor, rawEventType, rawBodyID string) (*models.PaxLimit, error) {
	eventType, err := models.ParseEventType(rawEventType)
	if err != nil {
		return nil, err
	}
	bodyID, err := domain.ParseBodyID(rawBodyID)
	if err != nil {
		return nil, err
	}

	body, err := s.bodies.Body(ctx, actor.Token, bodyID)
	if err != nil {
		return nil, dependencyErr(err, "failed to fetch body")
	}

	limit, err := s.store.FindPaxLimit(ctx, eventType, bodyID)
	switch {
	case err == nil:
		limit.Default = false
		return limit, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return &models.PaxLimit{
			BodyID:    bodyID,
			EventType: eventType,
			Limits:    models.DefaultLimits(eventType, body.Type),
			Default:   true,
		}, nil
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load pax limit")
	}
}

// SetLimit configures the pax limit for a body at an event type. Only
// global manage may do this, and the body must exist in the registry.
func (s *Service) SetLimit(ctx context.Context, actor domain.Actor, rawEventType, rawBodyID string, req models.SetLimitRequest) (*models.PaxLimit, error) {
	eventType, err := models.ParseEventType(rawEventType)
	if err != nil {
		return nil, err
	}
	bodyID, err := domain.ParseBodyID(rawBodyID)
	if err != nil {
		return nil, err
	}

	set, err := s.capabilities(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !set.HasGlobal(managePaxLimits) {
		return nil, errNoPermission
	}

	limits, err := req.Validate()
	if err != nil {
		return nil, err
	}
	if _, err := s.bodies.Body(ctx, actor.Token, bodyID); err != nil {
		return nil, dependencyErr(err, "failed to fetch body")
	}

	now := requestcontext.Now(ctx)
	limit := &models.PaxLimit{
		BodyID:    bodyID,
		EventType: eventType,
		Limits:    limits,
		UpdatedAt: now,
	}
	if err := s.store.UpsertPaxLimit(ctx, limit); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save pax limit")
	}

	if s.metrics != nil {
		s.metrics.IncrementLimitUpdates()
	}
	s.logger.InfoContext(ctx, "pax limit configured",
		"body_id", bodyID,
		"event_type", eventType,
		"user_id", actor.UserID,
	)
	return limit, nil
}
