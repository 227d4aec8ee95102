// Package middleware carries the session-cookie authentication middleware.
package middleware

import (
	"context"
	"net/http"

	"github.com/nafaymotors/inventory/internal/apierror"
	"github.com/nafaymotors/inventory/internal/auth"
	"github.com/nafaymotors/inventory/internal/http/response"
	"github.com/nafaymotors/inventory/internal/user"
)

// CookieName is the session cookie holding the signed token.
const CookieName = "token"

type userKey struct{}

// UserFrom returns the authenticated user attached to the request context,
// or nil when the request is unauthenticated.
func UserFrom(ctx context.Context) *user.User {
	u, _ := ctx.Value(userKey{}).(*user.User)
	return u
}

type Auth struct {
	tokens *auth.TokenManager
	users  *user.Service
}

func NewAuth(tokens *auth.TokenManager, users *user.Service) *Auth {
	return &Auth{tokens: tokens, users: users}
}

// Require rejects requests without a valid session whose user still exists.
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := a.authenticate(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, u)))
	})
}

// Optional attaches the user when a valid session is present and continues
// without one otherwise. Operations behind it stamp audit identity only when
// available.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, err := a.authenticate(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), userKey{}, u))
		}

		next.ServeHTTP(w, r)
	})
}

func (a *Auth) authenticate(r *http.Request) (*user.User, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, apierror.Unauthorized("No authentication data found")
	}

	userID, err := a.tokens.Verify(cookie.Value)
	if err != nil {
		return nil, apierror.Unauthorized("Invalid session")
	}

	u, err := a.users.Get(r.Context(), userID)
	if err != nil {
		return nil, apierror.Unauthorized("User not found")
	}

	return u, nil
}
