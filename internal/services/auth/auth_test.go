package auth

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func verifier(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	return v
}

func TestNewVerifierRejectsShortSecret(t *testing.T) {
	if _, err := NewVerifier("tooshort"); err == nil {
		t.Fatal("short secret accepted")
	}
	if _, err := NewVerifier(strings.Repeat(" ", 40)); err == nil {
		t.Fatal("whitespace secret accepted")
	}
}

func TestParseValidBearer(t *testing.T) {
	v := verifier(t)
	raw := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	r := httptest.NewRequest("GET", "/reports/quote_summary", nil)
	r.Header.Set("Authorization", "Bearer "+raw)

	uid, err := v.Parse(r)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if uid != "user-42" {
		t.Fatalf("uid = %q", uid)
	}
}

func TestParseQueryParamFallback(t *testing.T) {
	v := verifier(t)
	raw := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	// CSV download links cannot set headers
	r := httptest.NewRequest("GET", "/reports/quote_data?download=true&auth_token="+raw, nil)
	uid, err := v.Parse(r)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if uid != "user-42" {
		t.Fatalf("uid = %q", uid)
	}
}

func TestParseEmailFallback(t *testing.T) {
	v := verifier(t)
	raw := signToken(t, testSecret, jwt.MapClaims{
		"email": "pat@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+raw)

	uid, err := v.Parse(r)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if uid != "pat@example.com" {
		t.Fatalf("uid = %q", uid)
	}
}

func TestParseRejects(t *testing.T) {
	v := verifier(t)
	expired := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, strings.Repeat("x", 32), jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	noExpiry := signToken(t, testSecret, jwt.MapClaims{"sub": "user-42"})
	noSubject := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name   string
		header string
	}{
		{"missing credentials", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
		{"no expiry claim", "Bearer " + noExpiry},
		{"no subject", "Bearer " + noSubject},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			if _, err := v.Parse(r); err == nil {
				t.Fatal("accepted")
			}
		})
	}
}
