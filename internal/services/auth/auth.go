// Package auth verifies bearer credentials on incoming requests.
// Token issuance lives with the identity provider; this side only checks
// signatures and maps a valid token onto a caller identity.
package auth

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	perr "petmis/internal/platform/errors"
)

// minSecretLen guards against trivially brute-forceable HMAC keys
const minSecretLen = 32

// Verifier checks HS256 bearer tokens against a shared secret.
// It satisfies the middleware AuthPort seam.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier builds a Verifier from the shared signing secret
func NewVerifier(secret string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if len(secret) < minSecretLen {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument,
			"auth secret must be at least %d bytes", minSecretLen)
	}
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(0),
		),
	}, nil
}

// Parse extracts and verifies the request credential, returning the subject.
// The token rides the Authorization header; download links from a browser
// cannot set headers, so an auth_token query param is accepted as fallback.
func (v *Verifier) Parse(r *http.Request) (string, error) {
	raw, err := extractToken(r)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{}
	tok, err := v.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil || !tok.Valid {
		return "", perr.Wrap(err, perr.ErrorCodeUnauthorized, "invalid or expired token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		// older tokens carry the identity in the email claim only
		sub, _ = claims["email"].(string)
	}
	if sub == "" {
		return "", perr.New(perr.ErrorCodeUnauthorized, "token has no subject")
	}
	return sub, nil
}

func extractToken(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, rest, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return "", perr.New(perr.ErrorCodeUnauthorized, "authentication credentials were not provided")
		}
		return strings.TrimSpace(rest), nil
	}
	if t := strings.TrimSpace(r.URL.Query().Get("auth_token")); t != "" {
		return t, nil
	}
	return "", perr.New(perr.ErrorCodeUnauthorized, "authentication credentials were not provided")
}
