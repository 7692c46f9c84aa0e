package service

import (
	"context"

	"eventreg/internal/events/models"
	"eventreg/pkg/domain"
	dErrors "eventreg/pkg/domain-errors"
	"eventreg/pkg/requestcontext"
)

var errApplicationNotFound = dErrors.New(dErrors.CodeNotFound, "application is not found")

// SetAttendance marks whether the applicant attended the event.
//
// Checks run in a fixed order and stop at the first failure: event exists,
// application exists within it, caller is permitted, value is a boolean,
// application is confirmed. An explicit id needs manage rights for the
// application's body; "me" accepts any manage or approve right.
func (s *Service) SetAttendance(ctx context.Context, actor domain.Actor, ref models.EventRef, selector models.ApplicationSelector, req models.AttendanceRequest) (*models.Application, error) {
	event, err := s.findEvent(ctx, ref)
	if err != nil {
		return nil, err
	}

	var app *models.Application
	if selector.Self {
		app, err = s.store.FindApplicationByUser(ctx, event.ID, actor.UserID)
	} else {
		app, err = s.store.FindApplication(ctx, event.ID, selector.ID)
	}
	if err != nil {
		return nil, storeErr(err, errApplicationNotFound, "failed to load application")
	}

	set, err := s.capabilities(ctx, actor, app.BodyID)
	if err != nil {
		return nil, err
	}
	required := applicationManagers
	if selector.Self {
		required = applicationReviewers
	}
	if !allowed(set, app.BodyID, required) {
		s.logger.WarnContext(ctx, "attendance update forbidden",
			"event_id", event.ID,
			"application", selector.String(),
			"user_id", actor.UserID,
		)
		return nil, errNoPermission
	}

	attended, ok := req.Attended.(bool)
	if !ok {
		fields := dErrors.FieldErrors{}
		fields.Add("attended", "attended must be a boolean")
		return nil, dErrors.Validation("attended is invalid", fields)
	}
	if err := app.CanSetAttended(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	updated, err := s.store.ExecuteApplication(ctx, event.ID, app.ID,
		func(a *models.Application) error {
			return a.CanSetAttended()
		},
		func(a *models.Application) {
			a.ApplySetAttended(attended, now)
		},
	)
	if err != nil {
		return nil, storeErr(err, errApplicationNotFound, "failed to update application")
	}

	if s.metrics != nil {
		s.metrics.IncrementAttendanceUpdates()
	}
	s.logger.InfoContext(ctx, "attendance updated",
		"event_id", event.ID,
		"application_id", updated.ID,
		"attended", attended,
		"user_id", actor.UserID,
	)
	return updated, nil
}
