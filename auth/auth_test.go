package auth

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"disabled needs nothing", Config{}, ""},
		{"enabled valid", Config{Enabled: true, Secret: testSecret}, ""},
		{"missing secret", Config{Enabled: true}, "auth.secret is required"},
		{"short secret", Config{Enabled: true, Secret: "short"}, "at least 32 bytes"},
		{"bad method", Config{Enabled: true, Secret: testSecret, Method: "RS256"}, "auth.method"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.ApplyDefaults()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestIssueAndParse(t *testing.T) {
	v, err := NewVerifier(Config{Secret: testSecret, Issuer: "ytranscript", Audience: "api"})
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	token, err := v.Issue("ingest-worker", time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := v.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "ingest-worker" || claims.Issuer != "ytranscript" {
		t.Errorf("unexpected claims %+v", claims)
	}

	got, err := v.ValidatorFunc()(token)
	if err != nil || got["subject"] != "ingest-worker" {
		t.Errorf("ValidatorFunc = %v, %v", got, err)
	}
}

func TestParseRejects(t *testing.T) {
	v, _ := NewVerifier(Config{Secret: testSecret, TokenTTL: time.Minute, Audience: "api"})
	other, _ := NewVerifier(Config{Secret: strings.Repeat("x", 32), Audience: "api"})
	wrongAud, _ := NewVerifier(Config{Secret: testSecret, Audience: "admin"})

	expired, _ := v.Issue("a", time.Now().Add(-time.Hour))
	foreign, _ := other.Issue("a", time.Now())
	aud, _ := wrongAud.Issue("a", time.Now())
	none, _ := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{Subject: "a"}).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	hs512, _ := gojwt.NewWithClaims(gojwt.SigningMethodHS512, Claims{Subject: "a"}).SignedString([]byte(testSecret))

	for name, token := range map[string]string{
		"expired":        expired,
		"wrong secret":   foreign,
		"wrong audience": aud,
		"alg none":       none,
		"other alg":      hs512,
		"garbage":        "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := v.Parse(token); err == nil {
				t.Error("expected token to be rejected")
			}
		})
	}
}

func TestNewVerifierRequiresSecret(t *testing.T) {
	if _, err := NewVerifier(Config{}); err == nil {
		t.Fatal("expected error without secret")
	}
}
