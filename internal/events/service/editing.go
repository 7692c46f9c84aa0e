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

// EditEvent applies the whitelisted fields of req. Only global manage may
// edit; type and status cannot be changed this way.
func (s *Service) EditEvent(ctx context.Context, actor domain.Actor, ref models.EventRef, req models.EditEventRequest) (*models.Event, error) {
	event, err := s.findEvent(ctx, ref)
	if err != nil {
		return nil, err
	}

	set, err := s.capabilities(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !set.HasGlobal(manageEvent) {
		s.logger.WarnContext(ctx, "event edit forbidden",
			"event_id", event.ID,
			"user_id", actor.UserID,
		)
		return nil, errNoPermission
	}

	if err := req.Validate(*event); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	updated, err := s.store.ExecuteEvent(ctx, event.ID,
		func(current *models.Event) error {
			return req.Validate(*current)
		},
		func(current *models.Event) {
			req.ApplyEdit(current, now)
		},
	)
	if errors.Is(err, sentinel.ErrConflict) {
		fields := dErrors.FieldErrors{}
		fields.Add("url", "url is already taken")
		return nil, dErrors.Validation("event is invalid", fields)
	}
	if err != nil {
		return nil, storeErr(err, errEventNotFound, "failed to update event")
	}

	if s.metrics != nil {
		s.metrics.IncrementEventEdits()
	}
	s.logger.InfoContext(ctx, "event edited",
		"event_id", updated.ID,
		"user_id", actor.UserID,
	)
	return updated, nil
}
