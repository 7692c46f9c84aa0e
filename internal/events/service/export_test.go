package service

import (
	"strings"

	"eventreg/internal/core"
	"eventreg/internal/events/models"
	dErrors "eventreg/pkg/domain-errors"
)

const exportHeader = "first_name,last_name,structure_level,participant_type,email,user_id"

func (s *ServiceSuite) TestExportOpenSlides() {
	ref := models.EventRef{ID: s.agora.ID}

	s.Run("no qualifying applications exports only the header", func() {
		s.createApplication(models.Application{UserID: 1, BodyID: homeBody, Status: models.ApplicationPending})
		s.expectScopes(globalGrant(approveApplication), core.GlobalScope())

		out, err := s.service.ExportOpenSlides(s.ctx, s.actor, ref)
		s.Require().NoError(err)
		s.Equal(exportHeader+"\n", string(out))
	})

	s.Run("accepted non-cancelled applications in board order", func() {
		s.createApplication(models.Application{
			UserID: 2, BodyID: homeBody, BodyName: "AEGEE-Delft",
			FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.org",
			ParticipantType: models.ParticipantVisitor, Status: models.ApplicationAccepted,
		})
		s.createApplication(models.Application{
			UserID: 3, BodyID: otherBody,
			FirstName: "Grace", LastName: "Hopper", Email: "grace@example.org",
			ParticipantType: models.ParticipantDelegate, Status: models.ApplicationAccepted,
		})
		s.createApplication(models.Application{
			UserID: 4, BodyID: homeBody, FirstName: "Gone",
			ParticipantType: models.ParticipantDelegate, Status: models.ApplicationAccepted, Cancelled: true,
		})
		s.createApplication(models.Application{
			UserID: 5, BodyID: homeBody, FirstName: "Rejected", Status: models.ApplicationRejected,
		})
		s.expectScopes(globalGrant(manageApplication), core.GlobalScope())

		out, err := s.service.ExportOpenSlides(s.ctx, s.actor, ref)
		s.Require().NoError(err)
		lines := strings.Split(strings.TrimSuffix(string(out), "\n"), "\n")
		s.Equal([]string{
			exportHeader,
			"Grace,Hopper,30,delegate,grace@example.org,3",
			"Ada,Lovelace,AEGEE-Delft,visitor,ada@example.org,2",
		}, lines)
	})

	s.Run("rights are checked against the organizing body", func() {
		s.expectScopes(localGrant(homeBody, manageApplication), core.GlobalScope())

		_, err := s.service.ExportOpenSlides(s.ctx, s.actor, ref)
		s.requireCode(err, dErrors.CodeForbidden)
	})

	s.Run("unknown event", func() {
		_, err := s.service.ExportOpenSlides(s.ctx, s.actor, models.EventRef{URL: "nope"})
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("oracle unavailable", func() {
		s.expectOracleDown()

		_, err := s.service.ExportOpenSlides(s.ctx, s.actor, ref)
		s.requireCode(err, dErrors.CodeDependency)
	})
}
