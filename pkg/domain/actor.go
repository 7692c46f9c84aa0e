package domain

import "slices"

// Actor is the authenticated caller as reported by the core service.
// Token is forwarded verbatim on every capability check.
type Actor struct {
	UserID    UserID   `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Bodies    []BodyID `json:"bodies"`
	Token     string   `json:"-"`
}

// MemberOf reports whether the actor belongs to body.
func (a Actor) MemberOf(body BodyID) bool {
	return slices.Contains(a.Bodies, body)
}
