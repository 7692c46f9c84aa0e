package service

import (
	"time"

	"eventreg/internal/core"
	"eventreg/internal/events/models"
	dErrors "eventreg/pkg/domain-errors"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func strPtr(v string) *string { return &v }

func (s *ServiceSuite) TestEditEvent() {
	ref := models.EventRef{ID: s.agora.ID}

	s.Run("global manage edits whitelisted fields", func() {
		s.expectScopes(globalGrant(manageEvent), core.GlobalScope())
		fee := 55.0

		updated, err := s.service.EditEvent(s.ctx, s.actor, ref, models.EditEventRequest{
			Name: strPtr("Agora Spring"),
			URL:  strPtr("agora-spring-2026"),
			Fee:  &fee,
		})
		s.Require().NoError(err)
		s.Equal("Agora Spring", updated.Name)
		s.Equal("agora-spring-2026", updated.URL)
		s.Equal(55.0, updated.Fee)
		s.Equal(models.EventTypeAgora, updated.Type)
		s.Equal(models.EventStatusDraft, updated.Status)
		s.Equal(s.now, updated.UpdatedAt)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.EventEdits))

		stored, err := s.store.FindEvent(s.ctx, models.EventRef{URL: "agora-spring-2026"})
		s.Require().NoError(err)
		s.Equal(s.agora.ID, stored.ID)
	})

	s.Run("local manage does not allow editing", func() {
		s.expectScopes(localGrant(hostBody, manageEvent), core.GlobalScope())

		_, err := s.service.EditEvent(s.ctx, s.actor, ref, models.EditEventRequest{Name: strPtr("x")})
		s.requireCode(err, dErrors.CodeForbidden)
	})

	s.Run("global approve does not allow editing", func() {
		s.expectScopes(globalGrant(core.ActionApprove.On(core.ObjectEvent)), core.GlobalScope())

		_, err := s.service.EditEvent(s.ctx, s.actor, ref, models.EditEventRequest{Name: strPtr("x")})
		s.requireCode(err, dErrors.CodeForbidden)
	})

	s.Run("invalid dates are rejected without writing", func() {
		s.expectScopes(globalGrant(manageEvent), core.GlobalScope())
		before := s.now.Add(-24 * 365 * time.Hour)

		_, err := s.service.EditEvent(s.ctx, s.actor, ref, models.EditEventRequest{
			Name: strPtr("Should not stick"),
			Ends: &before,
		})
		s.requireField(err, "ends")

		stored, err := s.store.FindEvent(s.ctx, ref)
		s.Require().NoError(err)
		s.NotEqual("Should not stick", stored.Name)
	})

	s.Run("taken url", func() {
		s.expectScopes(globalGrant(manageEvent), core.GlobalScope())

		_, err := s.service.EditEvent(s.ctx, s.actor, ref, models.EditEventRequest{URL: strPtr(s.epm.URL)})
		s.requireField(err, "url")
	})

	s.Run("unknown event", func() {
		_, err := s.service.EditEvent(s.ctx, s.actor, models.EventRef{ID: 404}, models.EditEventRequest{})
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("oracle unavailable", func() {
		s.expectOracleDown()

		_, err := s.service.EditEvent(s.ctx, s.actor, ref, models.EditEventRequest{})
		s.requireCode(err, dErrors.CodeDependency)
	})
}
