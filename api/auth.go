/*
auth.go - Bearer-token verification and actor extraction

PURPOSE:
  Authentication is external to the core: tokens are HS256 JWTs carrying
  the employee id in "sub" and the role in "role". This file verifies them
  and turns the claims into a generic.Actor that handlers pass explicitly
  to every domain operation.

MIDDLEWARE:
  jwtauth.Verifier:  Parses the Authorization header into the context
  Authenticate:      401 when the token is missing/invalid, else stores Actor
  RequireAdminOrHR:  403 unless the actor's role is ADMIN or HR

SEE ALSO:
  - server.go: Where the middleware is mounted
  - cmd/server/token.go: Issues development tokens
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dayflow/hr-engine/generic"
	"github.com/dayflow/hr-engine/logging"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Auth issues and verifies tokens.
type Auth struct {
	ja  *jwtauth.JWTAuth
	ttl time.Duration
}

func NewAuth(secret string, ttl time.Duration) *Auth {
	return &Auth{
		ja:  jwtauth.New("HS256", []byte(secret), nil, jwt.WithAcceptableSkew(30*time.Second)),
		ttl: ttl,
	}
}

func (a *Auth) JWTAuth() *jwtauth.JWTAuth {
	return a.ja
}

// IssueToken returns a signed token for the employee and role.
func (a *Auth) IssueToken(employeeID generic.EmployeeID, role generic.Role) (string, time.Time, error) {
	expiresAt := time.Now().Add(a.ttl)
	claims := map[string]interface{}{
		"sub":  string(employeeID),
		"role": string(role),
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiry(claims, expiresAt)

	_, token, err := a.ja.Encode(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// =============================================================================
// ACTOR CONTEXT
// =============================================================================

type actorKey struct{}

func withActor(ctx context.Context, actor generic.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// actorFrom returns the authenticated actor. Only valid behind Authenticate.
func actorFrom(r *http.Request) generic.Actor {
	actor, _ := r.Context().Value(actorKey{}).(generic.Actor)
	return actor
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

// Authenticate requires a verified token and stores the Actor in context.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing or invalid bearer token", nil)
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "token has no subject", nil)
			return
		}
		role, _ := claims["role"].(string)

		actor := generic.Actor{EmployeeID: generic.EmployeeID(sub), Role: generic.ParseRole(role)}
		ctx := withActor(r.Context(), actor)
		ctx = logging.With(ctx, "actor", sub, "role", string(actor.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdminOrHR rejects actors that cannot administer.
func RequireAdminOrHR(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !actorFrom(r).CanAdminister() {
			writeError(w, http.StatusForbidden, CodeForbidden, "ADMIN or HR role required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects everyone but ADMIN.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actorFrom(r).Role != generic.RoleAdmin {
			writeError(w, http.StatusForbidden, CodeForbidden, "ADMIN role required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
