package core

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"eventreg/pkg/domain"
	dErrors "eventreg/pkg/domain-errors"
)

type memberPayload struct {
	ID        domain.UserID `json:"id"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Email     string        `json:"email"`
	Bodies    []struct {
		ID domain.BodyID `json:"id"`
	} `json:"bodies"`
}

type permissionPayload struct {
	Combined string `json:"combined"`
}

// Me resolves the token into the calling member. A token the core rejects
// yields an Unauthorized error; anything else that goes wrong is a
// dependency failure.
func (c *Client) Me(ctx context.Context, token string) (actor domain.Actor, err error) {
	ctx, finish := c.begin(ctx, "me")
	outcome := ""
	defer func() { finish(outcome, err) }()

	resp, err := c.do(ctx, "me", http.MethodGet, "/members/me", token, nil)
	if err != nil {
		return domain.Actor{}, err
	}
	if resp.status == http.StatusUnauthorized || resp.status == http.StatusForbidden {
		outcome = "denied"
		return domain.Actor{}, dErrors.New(dErrors.CodeUnauthorized, "token is not valid")
	}
	if !resp.ok() {
		return domain.Actor{}, statusError("me", resp.status)
	}

	var member memberPayload
	if err := decodeData("me", resp, &member); err != nil {
		return domain.Actor{}, err
	}
	if member.ID <= 0 {
		return domain.Actor{}, newCallError(ErrorBadData, "me", resp.status, "member has no id", nil)
	}

	actor = domain.Actor{
		UserID:    member.ID,
		FirstName: member.FirstName,
		LastName:  member.LastName,
		Email:     member.Email,
		Bodies:    make([]domain.BodyID, 0, len(member.Bodies)),
	}
	for _, b := range member.Bodies {
		actor.Bodies = append(actor.Bodies, b.ID)
	}
	return actor, nil
}

// Capabilities asks the core what the caller may do within scope. A core
// that refuses to list permissions (401/403) grants nothing rather than
// failing.
func (c *Client) Capabilities(ctx context.Context, token string, scope Scope) (set CapabilitySet, err error) {
	ctx, finish := c.begin(ctx, "capabilities", attribute.String("core.scope", scope.String()))
	outcome := ""
	defer func() { finish(outcome, err) }()

	var resp response
	if scope.IsGlobal() {
		resp, err = c.do(ctx, "capabilities", http.MethodGet, "/my_permissions", token, nil)
	} else {
		resp, err = c.do(ctx, "capabilities", http.MethodPost, "/my_permissions", token,
			map[string]domain.BodyID{"body_id": scope.Body()})
	}
	if err != nil {
		return CapabilitySet{}, err
	}
	if resp.status == http.StatusUnauthorized || resp.status == http.StatusForbidden {
		outcome = "denied"
		return CapabilitySet{}, nil
	}
	if !resp.ok() {
		return CapabilitySet{}, statusError("capabilities", resp.status)
	}

	var perms []permissionPayload
	if err := decodeData("capabilities", resp, &perms); err != nil {
		return CapabilitySet{}, err
	}
	combined := make([]string, 0, len(perms))
	for _, p := range perms {
		combined = append(combined, p.Combined)
	}
	return capabilitiesFrom(scope, combined), nil
}

// Resolve fetches every scope concurrently and merges the results. The first
// failure cancels the remaining lookups.
func (c *Client) Resolve(ctx context.Context, token string, scopes []Scope) (CapabilitySet, error) {
	if len(scopes) == 1 {
		return c.Capabilities(ctx, token, scopes[0])
	}

	results := make([]CapabilitySet, len(scopes))
	g, gctx := errgroup.WithContext(ctx)
	for i, scope := range scopes {
		g.Go(func() error {
			set, err := c.Capabilities(gctx, token, scope)
			if err != nil {
				return err
			}
			results[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return CapabilitySet{}, err
	}

	var merged CapabilitySet
	for _, set := range results {
		merged = merged.Merge(set)
	}
	return merged, nil
}
