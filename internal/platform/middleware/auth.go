package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"eventreg/pkg/domain"
	dErrors "eventreg/pkg/domain-errors"
	"eventreg/pkg/platform/httputil"
	"eventreg/pkg/requestcontext"
)

// TokenHeader carries the caller's core session token.
const TokenHeader = "X-Auth-Token"

// ActorResolver exchanges a session token for the caller's identity.
type ActorResolver interface {
	Me(ctx context.Context, token string) (domain.Actor, error)
}

// RequireActor rejects requests without a resolvable token and stores the
// caller in the request context for the handlers below.
func RequireActor(resolver ActorResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := strings.TrimSpace(r.Header.Get(TokenHeader))
			if token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing "+TokenHeader+" header"))
				return
			}

			actor, err := resolver.Me(ctx, token)
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
					logger.WarnContext(ctx, "unauthorized access - token rejected by core",
						"request_id", requestcontext.RequestID(ctx),
					)
				} else {
					logger.ErrorContext(ctx, "failed to resolve actor",
						"error", err,
						"request_id", requestcontext.RequestID(ctx),
					)
				}
				httputil.WriteError(w, err)
				return
			}
			actor.Token = token

			next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(ctx, actor)))
		})
	}
}
