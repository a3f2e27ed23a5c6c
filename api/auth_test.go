package api

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var testSecret = []byte("test-secret")

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub": "venue-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
}

func TestTenantFromAuthHeader(t *testing.T) {
	auth := NewTestAuth(testSecret)
	token := mintToken(t, validClaims())

	tenant, err := auth.TenantFromAuthHeader("Bearer " + token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tenant != "venue-42" {
		t.Fatalf("unexpected tenant: %q", tenant)
	}
}

func TestTenantFromAuthHeaderRejectsBadHeaders(t *testing.T) {
	auth := NewTestAuth(testSecret)
	token := mintToken(t, validClaims())

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"empty", "", errMissingAuthorization},
		{"whitespace", "   ", errMissingAuthorization},
		{"no scheme", token, errBadAuthorization},
		{"wrong scheme", "Basic " + token, errBadAuthorization},
		{"empty token", "Bearer ", errBadAuthorization},
		{"not a jwt", "Bearer abc", errBadAuthorization},
	}
	for _, tc := range cases {
		_, err := auth.TenantFromAuthHeader(tc.header)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestTenantFromAuthHeaderRejectsBadTokens(t *testing.T) {
	auth := NewTestAuth(testSecret)

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	future := validClaims()
	future["nbf"] = time.Now().Add(time.Hour).Unix()

	noSub := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}

	noExp := jwt.MapClaims{"sub": "venue-42"}

	wrongKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims()).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	cases := []struct {
		name  string
		token string
	}{
		{"expired", mintToken(t, expired)},
		{"not yet valid", mintToken(t, future)},
		{"missing sub", mintToken(t, noSub)},
		{"missing exp", mintToken(t, noExp)},
		{"wrong key", wrongKey},
	}
	for _, tc := range cases {
		if _, err := auth.TenantFromAuthHeader("Bearer " + tc.token); err == nil {
			t.Fatalf("%s: expected rejection", tc.name)
		}
	}
}

func TestTenantFromAuthHeaderChecksAudienceAndIssuer(t *testing.T) {
	auth := NewTestAuth(testSecret)
	auth.Audience = "backstage"
	auth.Issuer = "https://id.example.com/"

	good := validClaims()
	good["aud"] = "backstage"
	good["iss"] = "https://id.example.com/"
	if _, err := auth.TenantFromAuthHeader("Bearer " + mintToken(t, good)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	badAud := validClaims()
	badAud["aud"] = "other-api"
	badAud["iss"] = "https://id.example.com/"
	if _, err := auth.TenantFromAuthHeader("Bearer " + mintToken(t, badAud)); err == nil {
		t.Fatal("expected audience rejection")
	}

	badIss := validClaims()
	badIss["aud"] = "backstage"
	badIss["iss"] = "https://attacker.example.com/"
	if _, err := auth.TenantFromAuthHeader("Bearer " + mintToken(t, badIss)); err == nil {
		t.Fatal("expected issuer rejection")
	}
}

func TestTenantFromAuthHeaderRejectsUnsignedToken(t *testing.T) {
	auth := NewTestAuth(testSecret)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims()).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := auth.TenantFromAuthHeader("Bearer " + unsigned); err == nil {
		t.Fatal("expected rejection of alg=none token")
	}
}
