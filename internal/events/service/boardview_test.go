package service

import (
	"eventreg/internal/core"
	"eventreg/internal/events/models"
	"eventreg/pkg/domain"
	dErrors "eventreg/pkg/domain-errors"
)

func intPtr(v int) *int { return &v }

func (s *ServiceSuite) TestBoardView() {
	ref := models.EventRef{ID: s.agora.ID}
	unassigned := s.createApplication(models.Application{UserID: 1, BodyID: homeBody})
	visitor := s.createApplication(models.Application{UserID: 2, BodyID: homeBody, ParticipantType: models.ParticipantVisitor, ParticipantOrder: intPtr(1)})
	delegateUnordered := s.createApplication(models.Application{UserID: 3, BodyID: homeBody, ParticipantType: models.ParticipantDelegate})
	delegateSecond := s.createApplication(models.Application{UserID: 4, BodyID: homeBody, ParticipantType: models.ParticipantDelegate, ParticipantOrder: intPtr(2)})
	delegateFirst := s.createApplication(models.Application{UserID: 5, BodyID: homeBody, ParticipantType: models.ParticipantDelegate, ParticipantOrder: intPtr(1)})
	s.createApplication(models.Application{UserID: 6, BodyID: otherBody, ParticipantType: models.ParticipantDelegate})

	s.Run("board order for the body's applications", func() {
		s.expectScopes(localGrant(homeBody, approveApplication), core.GlobalScope(), core.BodyScope(homeBody))

		apps, err := s.service.BoardView(s.ctx, s.actor, ref, homeBody.String())
		s.Require().NoError(err)
		ids := make([]domain.ApplicationID, 0, len(apps))
		for _, a := range apps {
			ids = append(ids, a.ID)
		}
		s.Equal([]domain.ApplicationID{delegateFirst.ID, delegateSecond.ID, delegateUnordered.ID, visitor.ID, unassigned.ID}, ids)
	})

	s.Run("global approve covers any body", func() {
		s.expectScopes(globalGrant(approveApplication), core.GlobalScope())

		apps, err := s.service.BoardView(s.ctx, s.actor, ref, otherBody.String())
		s.Require().NoError(err)
		s.Len(apps, 1)
	})

	s.Run("body without applications", func() {
		s.expectScopes(globalGrant(manageApplication), core.GlobalScope())

		apps, err := s.service.BoardView(s.ctx, s.actor, ref, "99")
		s.Require().NoError(err)
		s.Empty(apps)
	})

	s.Run("local rights of another body do not apply", func() {
		s.expectScopes(core.CapabilitySet{}, core.GlobalScope())

		_, err := s.service.BoardView(s.ctx, s.actor, ref, otherBody.String())
		s.requireCode(err, dErrors.CodeForbidden)
	})

	s.Run("malformed body id", func() {
		_, err := s.service.BoardView(s.ctx, s.actor, ref, "abc")
		s.requireCode(err, dErrors.CodeBadRequest)
	})

	s.Run("malformed body id is reported before a missing event", func() {
		_, err := s.service.BoardView(s.ctx, s.actor, models.EventRef{URL: "missing"}, "-1")
		s.requireCode(err, dErrors.CodeBadRequest)
	})

	s.Run("unknown event", func() {
		_, err := s.service.BoardView(s.ctx, s.actor, models.EventRef{ID: 999}, homeBody.String())
		s.requireCode(err, dErrors.CodeNotFound)
	})
}
