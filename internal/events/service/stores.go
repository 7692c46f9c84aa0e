package service

import (
	"context"

	"eventreg/internal/events/models"
	"eventreg/pkg/domain"
)

type EventStore interface {
	FindEvent(ctx context.Context, ref models.EventRef) (*models.Event, error)
	ExecuteEvent(ctx context.Context, id domain.EventID, validate func(*models.Event) error, mutate func(*models.Event)) (*models.Event, error)
}

type ApplicationStore interface {
	FindApplication(ctx context.Context, eventID domain.EventID, id domain.ApplicationID) (*models.Application, error)
	FindApplicationByUser(ctx context.Context, eventID domain.EventID, userID domain.UserID) (*models.Application, error)
	ListApplications(ctx context.Context, eventID domain.EventID, filter models.ApplicationFilter) ([]*models.Application, error)
	ExecuteApplication(ctx context.Context, eventID domain.EventID, id domain.ApplicationID, validate func(*models.Application) error, mutate func(*models.Application)) (*models.Application, error)
}

type MembersListStore interface {
	FindMembersList(ctx context.Context, eventID domain.EventID, bodyID domain.BodyID) (*models.MembersList, error)
	ListMembersLists(ctx context.Context, eventID domain.EventID) ([]*models.MembersList, error)
}

type PaxLimitStore interface {
	FindPaxLimit(ctx context.Context, eventType models.EventType, bodyID domain.BodyID) (*models.PaxLimit, error)
	UpsertPaxLimit(ctx context.Context, limit *models.PaxLimit) error
}

// Store is implemented by both the in-memory and the PostgreSQL store.
type Store interface {
	EventStore
	ApplicationStore
	MembersListStore
	PaxLimitStore
}
