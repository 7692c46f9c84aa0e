package service

import (
	"context"
	"errors"

	"eventreg/internal/core"
	"eventreg/internal/events/models"
	"eventreg/pkg/domain"
	dErrors "eventreg/pkg/domain-errors"
	"eventreg/pkg/platform/sentinel"
)

var (
	manageApplication  = core.ActionManage.On(core.ObjectApplication)
	approveApplication = core.ActionApprove.On(core.ObjectApplication)
	manageMembersList  = core.ActionManage.On(core.ObjectMembersList)
	approveMembersList = core.ActionApprove.On(core.ObjectMembersList)
	manageEvent        = core.ActionManage.On(core.ObjectEvent)
	managePaxLimits    = core.ActionManage.On(core.ObjectPaxLimits)

	applicationManagers  = []core.Capability{manageApplication}
	applicationReviewers = []core.Capability{manageApplication, approveApplication}
	membersListReviewers = []core.Capability{manageMembersList, approveMembersList}
)

var (
	errNoPermission  = dErrors.New(dErrors.CodeForbidden, "you are not allowed to perform this action")
	errEventNotFound = dErrors.New(dErrors.CodeNotFound, "event is not found")
)

// capabilities resolves the global scope plus the scope of every listed body
// the actor is a member of. Bodies the actor does not belong to are never
// queried: body-local permissions cannot apply there.
func (s *Service) capabilities(ctx context.Context, actor domain.Actor, bodies ...domain.BodyID) (core.CapabilitySet, error) {
	scopes := []core.Scope{core.GlobalScope()}
	for _, body := range bodies {
		if actor.MemberOf(body) {
			scopes = append(scopes, core.BodyScope(body))
		}
	}
	set, err := s.oracle.Resolve(ctx, actor.Token, scopes)
	if err != nil {
		return core.CapabilitySet{}, dependencyErr(err, "failed to fetch permissions")
	}
	return set, nil
}

// allowed reports whether set grants any of caps globally or within body.
func allowed(set core.CapabilitySet, body domain.BodyID, caps []core.Capability) bool {
	return set.HasGlobal(caps...) || set.HasLocal(body, caps...)
}

func (s *Service) findEvent(ctx context.Context, ref models.EventRef) (*models.Event, error) {
	event, err := s.store.FindEvent(ctx, ref)
	if err != nil {
		return nil, storeErr(err, errEventNotFound, "failed to load event")
	}
	return event, nil
}

// dependencyErr keeps already classified errors and marks anything else as
// a dependency failure.
func dependencyErr(err error, message string) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeDependency, message)
}

// storeErr maps sentinel.ErrNotFound to notFound and hides everything else
// behind an internal error.
func storeErr(err error, notFound error, message string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return notFound
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, message)
}
