package service

import (
	"eventreg/internal/core"
	"eventreg/internal/events/models"
	"eventreg/pkg/domain"
	dErrors "eventreg/pkg/domain-errors"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"
)

func (s *ServiceSuite) confirmedApplication(userID domain.UserID, body domain.BodyID) *models.Application {
	return s.createApplication(models.Application{
		UserID:    userID,
		BodyID:    body,
		FirstName: "Grace",
		LastName:  "Hopper",
		Confirmed: true,
	})
}

func (s *ServiceSuite) TestSetAttendance_ByID() {
	ref := models.EventRef{ID: s.agora.ID}
	attend := models.AttendanceRequest{Attended: true}

	s.Run("global manage marks attendance", func() {
		app := s.confirmedApplication(100, otherBody)
		s.expectScopes(globalGrant(manageApplication), core.GlobalScope())

		updated, err := s.service.SetAttendance(s.ctx, s.actor, ref, models.ApplicationSelector{ID: app.ID}, attend)
		s.Require().NoError(err)
		s.True(updated.Attended)
		s.Equal(s.now, updated.UpdatedAt)

		stored, err := s.store.FindApplication(s.ctx, s.agora.ID, app.ID)
		s.Require().NoError(err)
		s.True(stored.Attended)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.AttendanceUpdates))
	})

	s.Run("local manage on the application's body is enough", func() {
		app := s.confirmedApplication(101, homeBody)
		s.expectScopes(localGrant(homeBody, manageApplication), core.GlobalScope(), core.BodyScope(homeBody))

		updated, err := s.service.SetAttendance(s.ctx, s.actor, ref, models.ApplicationSelector{ID: app.ID}, attend)
		s.Require().NoError(err)
		s.True(updated.Attended)
	})

	s.Run("approve alone is not enough for an explicit id", func() {
		app := s.confirmedApplication(102, homeBody)
		s.expectScopes(globalGrant(approveApplication), core.GlobalScope(), core.BodyScope(homeBody))

		_, err := s.service.SetAttendance(s.ctx, s.actor, ref, models.ApplicationSelector{ID: app.ID}, attend)
		s.requireCode(err, dErrors.CodeForbidden)

		stored, err := s.store.FindApplication(s.ctx, s.agora.ID, app.ID)
		s.Require().NoError(err)
		s.False(stored.Attended)
	})

	s.Run("manage on another object is not enough", func() {
		app := s.confirmedApplication(106, homeBody)
		s.expectScopes(globalGrant(manageEvent, managePaxLimits), core.GlobalScope(), core.BodyScope(homeBody))

		_, err := s.service.SetAttendance(s.ctx, s.actor, ref, models.ApplicationSelector{ID: app.ID}, attend)
		s.requireCode(err, dErrors.CodeForbidden)
	})

	s.Run("non-member bodies are never queried", func() {
		app := s.confirmedApplication(103, otherBody)
		s.expectScopes(core.CapabilitySet{}, core.GlobalScope())

		_, err := s.service.SetAttendance(s.ctx, s.actor, ref, models.ApplicationSelector{ID: app.ID}, attend)
		s.requireCode(err, dErrors.CodeForbidden)
	})
}

func (s *ServiceSuite) TestSetAttendance_Self() {
	ref := models.EventRef{URL: s.agora.URL}
	own := s.confirmedApplication(s.actor.UserID, homeBody)

	s.Run("local approve suffices for the caller's own application", func() {
		s.expectScopes(localGrant(homeBody, approveApplication), core.GlobalScope(), core.BodyScope(homeBody))

		updated, err := s.service.SetAttendance(s.ctx, s.actor, ref, models.ApplicationSelector{Self: true}, models.AttendanceRequest{Attended: true})
		s.Require().NoError(err)
		s.Equal(own.ID, updated.ID)
		s.True(updated.Attended)
	})

	s.Run("attendance can be cleared again", func() {
		s.expectScopes(globalGrant(manageApplication), core.GlobalScope(), core.BodyScope(homeBody))

		updated, err := s.service.SetAttendance(s.ctx, s.actor, ref, models.ApplicationSelector{Self: true}, models.AttendanceRequest{Attended: false})
		s.Require().NoError(err)
		s.False(updated.Attended)
	})

	s.Run("no permissions at all", func() {
		s.expectScopes(core.CapabilitySet{}, core.GlobalScope(), core.BodyScope(homeBody))

		_, err := s.service.SetAttendance(s.ctx, s.actor, ref, models.ApplicationSelector{Self: true}, models.AttendanceRequest{Attended: true})
		s.requireCode(err, dErrors.CodeForbidden)
	})
}

func (s *ServiceSuite) TestSetAttendance_Failures() {
	ref := models.EventRef{ID: s.agora.ID}

	s.Run("unknown event", func() {
		_, err := s.service.SetAttendance(s.ctx, s.actor, models.EventRef{URL: "missing"}, models.ApplicationSelector{ID: 1}, models.AttendanceRequest{Attended: true})
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("unknown application", func() {
		_, err := s.service.SetAttendance(s.ctx, s.actor, ref, models.ApplicationSelector{ID: 999}, models.AttendanceRequest{Attended: true})
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("caller has no application for me", func() {
		_, err := s.service.SetAttendance(s.ctx, s.actor, ref, models.ApplicationSelector{Self: true}, models.AttendanceRequest{Attended: true})
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("application of another event", func() {
		app := s.createApplication(models.Application{EventID: s.epm.ID, UserID: 200, BodyID: homeBody, Confirmed: true})
		_, err := s.service.SetAttendance(s.ctx, s.actor, ref, models.ApplicationSelector{ID: app.ID}, models.AttendanceRequest{Attended: true})
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("non boolean value", func() {
		app := s.confirmedApplication(201, homeBody)
		s.expectScopes(globalGrant(manageApplication), core.GlobalScope(), core.BodyScope(homeBody))

		_, err := s.service.SetAttendance(s.ctx, s.actor, ref, models.ApplicationSelector{ID: app.ID}, models.AttendanceRequest{Attended: "yes"})
		s.requireField(err, "attended")
	})

	s.Run("missing value", func() {
		app := s.confirmedApplication(202, homeBody)
		s.expectScopes(globalGrant(manageApplication), core.GlobalScope(), core.BodyScope(homeBody))

		_, err := s.service.SetAttendance(s.ctx, s.actor, ref, models.ApplicationSelector{ID: app.ID}, models.AttendanceRequest{})
		s.requireField(err, "attended")
	})

	s.Run("unconfirmed application", func() {
		app := s.createApplication(models.Application{UserID: 203, BodyID: homeBody})
		s.expectScopes(globalGrant(manageApplication), core.GlobalScope(), core.BodyScope(homeBody))

		_, err := s.service.SetAttendance(s.ctx, s.actor, ref, models.ApplicationSelector{ID: app.ID}, models.AttendanceRequest{Attended: true})
		s.requireField(err, "attended")

		stored, err := s.store.FindApplication(s.ctx, s.agora.ID, app.ID)
		s.Require().NoError(err)
		s.False(stored.Attended)
	})

	s.Run("oracle unavailable", func() {
		app := s.confirmedApplication(204, homeBody)
		s.expectOracleDown()

		_, err := s.service.SetAttendance(s.ctx, s.actor, ref, models.ApplicationSelector{ID: app.ID}, models.AttendanceRequest{Attended: true})
		s.requireCode(err, dErrors.CodeDependency)
	})

	s.Run("permission failure is checked before the value", func() {
		app := s.confirmedApplication(205, homeBody)
		s.oracle.EXPECT().Resolve(gomock.Any(), testToken, gomock.Any()).Return(core.CapabilitySet{}, nil)

		_, err := s.service.SetAttendance(s.ctx, s.actor, ref, models.ApplicationSelector{ID: app.ID}, models.AttendanceRequest{Attended: 42})
		s.requireCode(err, dErrors.CodeForbidden)
	})
}
