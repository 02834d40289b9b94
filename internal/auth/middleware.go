package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/modernmaestros/maestro/internal/platform/httpx"
)

// Guard wires authentication and authorization middleware for HTTP routes.
type Guard struct {
	Issuer *Issuer
	Logger *slog.Logger
}

// Authenticate extracts and verifies a bearer token when one is present.
// Requests without an Authorization header proceed anonymously; a header
// carrying an invalid or expired token is rejected outright.
func (g Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := g.Issuer.Verify(token)
		if err != nil {
			if g.Logger != nil {
				g.Logger.Warn("token rejected", slog.String("path", r.URL.Path), slog.Any("error", err))
			}
			httpx.Error(w, http.StatusUnauthorized, verifyMessage(err))
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// RequireLogin rejects anonymous requests.
func (g Guard) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ClaimsFromContext(r.Context()) == nil {
			httpx.Error(w, http.StatusUnauthorized, "login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose principal lacks the elevated flag.
// The flag is trusted as embedded in the token: a revoked admin's existing
// token remains privileged until expiry.
func (g Guard) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil {
			httpx.Error(w, http.StatusUnauthorized, "login required")
			return
		}
		if !claims.IsAdmin {
			httpx.Error(w, http.StatusForbidden, "admin required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityResolver maps a username path parameter to the current user_id row.
type IdentityResolver func(r *http.Request, username string) (int64, error)

// RequireSelfOrAdmin ensures the principal targets its own user record or
// holds the elevated flag. The target is re-resolved to a numeric id at
// request time so a username change cannot desynchronize the check.
func (g Guard) RequireSelfOrAdmin(param string, resolve IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				httpx.Error(w, http.StatusUnauthorized, "login required")
				return
			}
			if claims.IsAdmin {
				next.ServeHTTP(w, r)
				return
			}
			username := chi.URLParam(r, param)
			targetID, err := resolve(r, username)
			if err != nil {
				if errors.Is(err, httpx.ErrNotFound) {
					httpx.Error(w, http.StatusNotFound, "user not found")
					return
				}
				if g.Logger != nil {
					g.Logger.Error("resolve target identity", slog.String("username", username), slog.Any("error", err))
				}
				httpx.Error(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if targetID != claims.UserID {
				httpx.Error(w, http.StatusForbidden, "insufficient privileges")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}

func verifyMessage(err error) string {
	if errors.Is(err, ErrExpiredToken) {
		return "token expired"
	}
	return "invalid token"
}
