package service

import (
	"eventreg/internal/core"
	"eventreg/internal/events/models"
	"eventreg/pkg/domain"
	dErrors "eventreg/pkg/domain-errors"
)

func (s *ServiceSuite) createMembersList(eventID domain.EventID, body domain.BodyID) *models.MembersList {
	l := &models.MembersList{
		EventID:  eventID,
		BodyID:   body,
		UserID:   s.actor.UserID,
		Currency: "EUR",
		Members:  []models.Member{{UserID: 1, FirstName: "Ada", LastName: "Lovelace", Fee: 12.5}},
	}
	s.Require().NoError(s.store.CreateMembersList(s.ctx, l))
	return l
}

func (s *ServiceSuite) TestMembersList() {
	ref := models.EventRef{ID: s.agora.ID}
	own := s.createMembersList(s.agora.ID, homeBody)

	s.Run("local approve reads the body's list", func() {
		s.expectScopes(localGrant(homeBody, approveMembersList), core.GlobalScope(), core.BodyScope(homeBody))

		list, err := s.service.MembersList(s.ctx, s.actor, ref, homeBody.String())
		s.Require().NoError(err)
		s.Equal(own.ID, list.ID)
		s.Len(list.Members, 1)
	})

	s.Run("missing list", func() {
		s.expectScopes(globalGrant(manageMembersList), core.GlobalScope())

		_, err := s.service.MembersList(s.ctx, s.actor, ref, otherBody.String())
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("permission is checked before existence", func() {
		s.expectScopes(core.CapabilitySet{}, core.GlobalScope())

		_, err := s.service.MembersList(s.ctx, s.actor, ref, otherBody.String())
		s.requireCode(err, dErrors.CodeForbidden)
	})

	s.Run("non Agora events have no lists", func() {
		_, err := s.service.MembersList(s.ctx, s.actor, models.EventRef{ID: s.epm.ID}, homeBody.String())
		s.requireCode(err, dErrors.CodeBadRequest)
	})

	s.Run("malformed body id", func() {
		_, err := s.service.MembersList(s.ctx, s.actor, ref, "0")
		s.requireCode(err, dErrors.CodeBadRequest)
	})

	s.Run("unknown event", func() {
		_, err := s.service.MembersList(s.ctx, s.actor, models.EventRef{URL: "nope"}, homeBody.String())
		s.requireCode(err, dErrors.CodeNotFound)
	})
}

func (s *ServiceSuite) TestMembersLists() {
	ref := models.EventRef{URL: s.agora.URL}
	s.createMembersList(s.agora.ID, otherBody)
	s.createMembersList(s.agora.ID, homeBody)
	s.createMembersList(s.epm.ID, homeBody)

	s.Run("global approve lists every body ordered by body", func() {
		s.expectScopes(globalGrant(approveMembersList), core.GlobalScope())

		lists, err := s.service.MembersLists(s.ctx, s.actor, ref)
		s.Require().NoError(err)
		s.Require().Len(lists, 2)
		s.Equal(homeBody, lists[0].BodyID)
		s.Equal(otherBody, lists[1].BodyID)
	})

	s.Run("local rights do not cover the aggregate", func() {
		s.expectScopes(localGrant(homeBody, manageMembersList), core.GlobalScope())

		_, err := s.service.MembersLists(s.ctx, s.actor, ref)
		s.requireCode(err, dErrors.CodeForbidden)
	})

	s.Run("non Agora events have no lists", func() {
		_, err := s.service.MembersLists(s.ctx, s.actor, models.EventRef{ID: s.epm.ID})
		s.requireCode(err, dErrors.CodeBadRequest)
	})

	s.Run("oracle unavailable", func() {
		s.expectOracleDown()

		_, err := s.service.MembersLists(s.ctx, s.actor, ref)
		s.requireCode(err, dErrors.CodeDependency)
	})
}
