package testutil

import (
	"net/http"
	"time"

	"eventreg/pkg/domain"
	"eventreg/pkg/requestcontext"
)

// WithActor attaches the caller the auth middleware would resolve.
func WithActor(req *http.Request, actor domain.Actor) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}

// WithRequestTime pins the request clock.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
