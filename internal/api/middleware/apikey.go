package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"os"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/nkoopman/dividend-tracker-backend/internal/api/response"
)

// timeTokenTTL is how long a generated time token stays valid. Tokens are
// single-purpose and short-lived so a captured request cannot be replayed
// much later.
const timeTokenTTL = 60 * time.Second

// fernetKey derives a fernet key from the shared API key. Hashing gives the
// fixed 32-byte key size fernet requires regardless of the configured key's
// length.
func fernetKey(apiKey string) *fernet.Key {
	sum := sha256.Sum256([]byte(apiKey))
	key := fernet.Key(sum)
	return &key
}

// GenerateTimeToken creates a short-lived token proving the caller holds the
// shared API key at the current time. Used by internal callers alongside the
// X-API-Key header.
func GenerateTimeToken(apiKey string) string {
	token, err := fernet.EncryptAndSign([]byte(time.Now().UTC().Format(time.RFC3339)), fernetKey(apiKey))
	if err != nil {
		return ""
	}
	return string(token)
}

// APIKeyMiddleware guards internal endpoints with a shared API key plus a
// short-lived time token. The key is read from INTERNAL_API_KEY per request
// so a missing configuration surfaces as 500 instead of silently rejecting
// every caller as unauthorized.
func APIKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expectedKey := os.Getenv("INTERNAL_API_KEY")
		if expectedKey == "" {
			response.RespondError(w, http.StatusInternalServerError, "internal error", "Authentication not loaded")
			return
		}

		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
			return
		}
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(expectedKey)) != 1 {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
			return
		}

		timeToken := r.Header.Get("X-Time-Token")
		if timeToken == "" {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing Time token")
			return
		}
		if fernet.VerifyAndDecrypt([]byte(timeToken), timeTokenTTL, []*fernet.Key{fernetKey(expectedKey)}) == nil {
			response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Time token is invalid or expired")
			return
		}

		next.ServeHTTP(w, r)
	})
}
