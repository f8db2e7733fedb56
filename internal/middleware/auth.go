package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pulsepost-dev/pulsepost/internal/domain"
	"github.com/pulsepost-dev/pulsepost/internal/service"
	"github.com/pulsepost-dev/pulsepost/internal/utils"
)

// key to store the resolved actor in the request context
type key int

// ActorKey is exported so handler tests can inject an authenticated user.
const ActorKey key = 0

type Auth struct {
	auth service.AuthService
}

func NewAuth(auth service.AuthService) *Auth {
	return &Auth{auth}
}

// NeedAuth enforces a valid bearer token and stores the resolved actor in
// the request context. Every mutating handler reads the actor from there,
// never from request fields.
func (m *Auth) NeedAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				http.Error(w, "Authorization required", http.StatusUnauthorized)
				return
			}

			actor, err := m.auth.ResolveActor(token)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ActorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// GetActorFromContext returns the authenticated user, or nil outside
// NeedAuth-protected routes.
func GetActorFromContext(r *http.Request) *domain.User {
	actor, ok := r.Context().Value(ActorKey).(*domain.User)
	if !ok {
		return nil
	}
	return actor
}
