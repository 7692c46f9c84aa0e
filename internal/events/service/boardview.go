package service

import (
	"context"

	"eventreg/internal/events/models"
	"eventreg/pkg/domain"
)

// BoardView lists the applications a body's board sees for an event, in
// board order. Needs manage or approve, globally or for that body.
func (s *Service) BoardView(ctx context.Context, actor domain.Actor, ref models.EventRef, rawBodyID string) ([]*models.Application, error) {
	bodyID, err := domain.ParseBodyID(rawBodyID)
	if err != nil {
		return nil, err
	}
	event, err := s.findEvent(ctx, ref)
	if err != nil {
		return nil, err
	}

	set, err := s.capabilities(ctx, actor, bodyID)
	if err != nil {
		return nil, err
	}
	if !allowed(set, bodyID, applicationReviewers) {
		return nil, errNoPermission
	}

	apps, err := s.store.ListApplications(ctx, event.ID, models.ApplicationFilter{BodyID: &bodyID})
	if err != nil {
		return nil, storeErr(err, errEventNotFound, "failed to list applications")
	}
	sortForBoard(apps)
	return apps, nil
}
