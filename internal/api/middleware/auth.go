package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nkoopman/dividend-tracker-backend/internal/api/response"
	"github.com/nkoopman/dividend-tracker-backend/internal/auth"
)

type contextKey string

// ownerIDKey is the request context key under which the verified owner ID is
// stored.
const ownerIDKey contextKey = "ownerID"

// NewAuth returns a middleware that verifies the bearer credential on every
// request and stores the resulting owner ID in the request context. Requests
// without a valid credential are rejected with 401 before any handler,
// storage, or upstream work happens.
func NewAuth(verifier *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")

			credential := ""
			if strings.HasPrefix(header, "Bearer ") {
				credential = strings.TrimPrefix(header, "Bearer ")
			}

			ownerID, err := verifier.Authorize(credential)
			if err != nil {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), ownerIDKey, ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerID returns the verified owner ID stored by NewAuth. The empty string
// means the request never passed through the auth middleware.
func OwnerID(r *http.Request) string {
	ownerID, _ := r.Context().Value(ownerIDKey).(string)
	return ownerID
}

// WithOwnerID returns a copy of the request carrying the owner ID in its
// context. Intended for handler tests that bypass the middleware.
func WithOwnerID(r *http.Request, ownerID string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ownerIDKey, ownerID))
}
