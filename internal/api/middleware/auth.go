package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ecotracker/ecotracker/internal/api/models"
	"github.com/ecotracker/ecotracker/internal/auth"
)

// TokenValidator resolves a bearer token to a user ID.
type TokenValidator interface {
	ValidateAccessToken(token string) (string, error)
}

// userIDKey is the context key for the authenticated user ID.
type userIDKey struct{}

// Auth creates authentication middleware that requires a valid bearer token
// and stores the caller's user ID on the request context.
func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, detail := bearerToken(r)
			if detail != "" {
				writeUnauthorized(w, r, detail)
				return
			}

			userID, err := validator.ValidateAccessToken(token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrAccessTokenExpired):
					writeUnauthorized(w, r, "access token has expired")
				case errors.Is(err, auth.ErrInvalidAccessToken):
					writeUnauthorized(w, r, "invalid access token")
				default:
					writeUnauthorized(w, r, "authentication failed")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// bearerToken extracts the token from the Authorization header. A non-empty
// detail describes why the header was rejected.
func bearerToken(r *http.Request) (token, detail string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", "missing authorization header"
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", "invalid authorization header format"
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", "missing bearer token"
	}
	return token, ""
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="ecotracker"`)
	writeProblem(w, r, models.NewUnauthorized(GetRequestID(r.Context()), detail))
}

// WithUserID returns a copy of ctx carrying the authenticated user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// GetUserID retrieves the authenticated user ID from the context.
// Returns an empty string if not authenticated.
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok {
		return id
	}
	return ""
}
