package service

import (
	"context"

	"eventreg/internal/events/models"
	"eventreg/pkg/domain"
	dErrors "eventreg/pkg/domain-errors"
)

var (
	errNotAgora            = dErrors.New(dErrors.CodeBadRequest, "event must be Agora type")
	errMembersListNotFound = dErrors.New(dErrors.CodeNotFound, "members list is not found")
)

// MembersList returns one body's members list for an Agora. Needs manage or
// approve, globally or for that body.
func (s *Service) MembersList(ctx context.Context, actor domain.Actor, ref models.EventRef, rawBodyID string) (*models.MembersList, error) {
	event, err := s.findEvent(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !event.IsAgora() {
		return nil, errNotAgora
	}
	bodyID, err := domain.ParseBodyID(rawBodyID)
	if err != nil {
		return nil, err
	}

	set, err := s.capabilities(ctx, actor, bodyID)
	if err != nil {
		return nil, err
	}
	if !allowed(set, bodyID, membersListReviewers) {
		return nil, errNoPermission
	}

	list, err := s.store.FindMembersList(ctx, event.ID, bodyID)
	if err != nil {
		return nil, storeErr(err, errMembersListNotFound, "failed to load members list")
	}
	return list, nil
}

// MembersLists returns every members list of an Agora. Body-local rights do
// not cover the aggregate; only global manage or approve does.
func (s *Service) MembersLists(ctx context.Context, actor domain.Actor, ref models.EventRef) ([]*models.MembersList, error) {
	event, err := s.findEvent(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !event.IsAgora() {
		return nil, errNotAgora
	}

	set, err := s.capabilities(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !set.HasGlobal(membersListReviewers...) {
		return nil, errNoPermission
	}

	lists, err := s.store.ListMembersLists(ctx, event.ID)
	if err != nil {
		return nil, storeErr(err, errEventNotFound, "failed to list members lists")
	}
	return lists, nil
}
