package service

import (
	"errors"

	"eventreg/internal/core"
	"eventreg/internal/events/models"
	"eventreg/pkg/domain"
	dErrors "eventreg/pkg/domain-errors"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"
)

func limitRequest(d, e, v, o int) models.SetLimitRequest {
	return models.SetLimitRequest{Delegate: &d, Envoy: &e, Visitor: &v, Observer: &o}
}

func (s *ServiceSuite) expectBody(body *core.Body) {
	s.bodies.EXPECT().Body(gomock.Any(), testToken, body.ID).Return(body, nil)
}

func (s *ServiceSuite) TestResolveLimit() {
	antenna := &core.Body{ID: homeBody, Name: "AEGEE-Delft", Type: models.BodyTypeAntenna}

	s.Run("defaults by body type when nothing is configured", func() {
		s.expectBody(antenna)

		limit, err := s.service.ResolveLimit(s.ctx, s.actor, "agora", homeBody.String())
		s.Require().NoError(err)
		s.True(limit.Default)
		s.Equal(models.Limits{Delegate: 3, Envoy: 1, Visitor: 3, Observer: 0}, limit.Limits)
		s.Equal(models.EventTypeAgora, limit.EventType)
		s.Equal(homeBody, limit.BodyID)
	})

	s.Run("configured limit wins", func() {
		s.Require().NoError(s.store.UpsertPaxLimit(s.ctx, &models.PaxLimit{
			BodyID: homeBody, EventType: models.EventTypeEPM,
			Limits: models.Limits{Delegate: 5, Envoy: 0, Visitor: 1, Observer: 1},
		}))
		s.expectBody(antenna)

		limit, err := s.service.ResolveLimit(s.ctx, s.actor, "epm", homeBody.String())
		s.Require().NoError(err)
		s.False(limit.Default)
		s.Equal(5, limit.Delegate)
	})

	s.Run("registry failure fails even with a configured limit", func() {
		s.bodies.EXPECT().Body(gomock.Any(), testToken, homeBody).Return(nil, errors.New("core down"))

		_, err := s.service.ResolveLimit(s.ctx, s.actor, "epm", homeBody.String())
		s.requireCode(err, dErrors.CodeDependency)
	})

	s.Run("unknown event type", func() {
		_, err := s.service.ResolveLimit(s.ctx, s.actor, "summer-university", homeBody.String())
		s.requireCode(err, dErrors.CodeBadRequest)
	})

	s.Run("malformed body id", func() {
		_, err := s.service.ResolveLimit(s.ctx, s.actor, "agora", "twenty")
		s.requireCode(err, dErrors.CodeBadRequest)
	})
}

func (s *ServiceSuite) TestSetLimit() {
	body := &core.Body{ID: otherBody, Name: "AEGEE-Zagreb", Type: models.BodyTypeContact}

	s.Run("global manage configures the limit", func() {
		s.expectScopes(globalGrant(managePaxLimits), core.GlobalScope())
		s.expectBody(body)

		limit, err := s.service.SetLimit(s.ctx, s.actor, "agora", otherBody.String(), limitRequest(2, 1, 0, 4))
		s.Require().NoError(err)
		s.False(limit.Default)
		s.Equal(models.Limits{Delegate: 2, Envoy: 1, Visitor: 0, Observer: 4}, limit.Limits)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.LimitUpdates))

		stored, err := s.store.FindPaxLimit(s.ctx, models.EventTypeAgora, otherBody)
		s.Require().NoError(err)
		s.Equal(4, stored.Observer)
	})

	s.Run("approve is not enough", func() {
		s.expectScopes(globalGrant(core.ActionApprove.On(core.ObjectPaxLimits)), core.GlobalScope())

		_, err := s.service.SetLimit(s.ctx, s.actor, "agora", otherBody.String(), limitRequest(1, 1, 1, 1))
		s.requireCode(err, dErrors.CodeForbidden)
	})

	s.Run("invalid counts", func() {
		s.expectScopes(globalGrant(managePaxLimits), core.GlobalScope())
		req := limitRequest(1, -1, 1, 1)
		req.Observer = nil

		_, err := s.service.SetLimit(s.ctx, s.actor, "agora", otherBody.String(), req)
		s.requireField(err, "envoy")
		s.requireField(err, "observer")
	})

	s.Run("unknown body in the registry", func() {
		s.expectScopes(globalGrant(managePaxLimits), core.GlobalScope())
		s.bodies.EXPECT().Body(gomock.Any(), testToken, domain.BodyID(77)).
			Return(nil, dErrors.New(dErrors.CodeDependency, "core service body failed"))

		_, err := s.service.SetLimit(s.ctx, s.actor, "epm", "77", limitRequest(1, 1, 1, 1))
		s.requireCode(err, dErrors.CodeDependency)

		_, err = s.store.FindPaxLimit(s.ctx, models.EventTypeEPM, 77)
		s.Error(err)
	})

	s.Run("unknown event type", func() {
		_, err := s.service.SetLimit(s.ctx, s.actor, "nope", otherBody.String(), limitRequest(1, 1, 1, 1))
		s.requireCode(err, dErrors.CodeBadRequest)
	})
}
