// Package auth verifies bearer credentials and extracts the owner identity
// that scopes all holding operations.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nkoopman/dividend-tracker-backend/internal/apperrors"
)

// Verifier validates HS256-signed bearer tokens against a shared secret and
// yields the owner ID from the token subject. No other claim is trusted as
// an identity source.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a Verifier for the given shared secret. An empty
// secret is a deployment error, not a per-request condition, and is
// rejected up front so the process can refuse to start.
func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, apperrors.ErrSecretNotConfigured
	}
	return &Verifier{secret: []byte(secret)}, nil
}

// Authorize verifies a raw bearer credential and returns the owner ID it
// asserts. Error contract:
//   - apperrors.ErrMissingCredential when the credential is empty
//   - apperrors.ErrInvalidCredential when signature, structure, or expiry
//     verification fails, or the token carries no subject
func (v *Verifier) Authorize(credential string) (string, error) {
	if credential == "" {
		return "", apperrors.ErrMissingCredential
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", apperrors.ErrInvalidCredential
	}

	if claims.Subject == "" {
		return "", apperrors.ErrInvalidCredential
	}

	return claims.Subject, nil
}
