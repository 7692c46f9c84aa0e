package service

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks PermissionOracle,BodyRegistry

import (
	"context"

	"eventreg/internal/core"
	"eventreg/pkg/domain"
)

// PermissionOracle answers which capabilities a token holds. Scopes are
// resolved together and merged into one set.
type PermissionOracle interface {
	Resolve(ctx context.Context, token string, scopes []core.Scope) (core.CapabilitySet, error)
}

// BodyRegistry looks up bodies. Any failure, including an unknown body, is a
// dependency failure.
type BodyRegistry interface {
	Body(ctx context.Context, token string, id domain.BodyID) (*core.Body, error)
}
