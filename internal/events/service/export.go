package service

import (
	"bytes"
	"context"
	"encoding/csv"

	"eventreg/internal/events/models"
	"eventreg/pkg/domain"
	dErrors "eventreg/pkg/domain-errors"
)

var openSlidesHeader = []string{"first_name", "last_name", "structure_level", "participant_type", "email", "user_id"}

// ExportOpenSlides renders the accepted, non-cancelled applications as an
// OpenSlides participant import. The output always starts with the header
// line, so an event without qualifying applications exports one line.
func (s *Service) ExportOpenSlides(ctx context.Context, actor domain.Actor, ref models.EventRef) ([]byte, error) {
	event, err := s.findEvent(ctx, ref)
	if err != nil {
		return nil, err
	}

	set, err := s.capabilities(ctx, actor, event.BodyID)
	if err != nil {
		return nil, err
	}
	if !allowed(set, event.BodyID, applicationReviewers) {
		return nil, errNoPermission
	}

	notCancelled := false
	accepted := models.ApplicationAccepted
	apps, err := s.store.ListApplications(ctx, event.ID, models.ApplicationFilter{
		Cancelled: &notCancelled,
		Status:    &accepted,
	})
	if err != nil {
		return nil, storeErr(err, errEventNotFound, "failed to list applications")
	}
	sortForBoard(apps)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(openSlidesHeader); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render export")
	}
	for _, app := range apps {
		if !app.IsExportable() {
			continue
		}
		structure := app.BodyName
		if structure == "" {
			structure = app.BodyID.String()
		}
		record := []string{
			app.FirstName,
			app.LastName,
			structure,
			string(app.ParticipantType),
			app.Email,
			app.UserID.String(),
		}
		if err := w.Write(record); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render export")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render export")
	}
	return buf.Bytes(), nil
}
