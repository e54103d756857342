// Package auth issues and verifies the HMAC-signed JWT bearer tokens that
// guard the transcript endpoint when auth is enabled.
package auth

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Claims are the registered JWT claims; the subject names the caller.
type Claims = gojwt.RegisteredClaims

// Verifier signs and parses tokens for one Config.
type Verifier struct {
	cfg Config
}

// NewVerifier validates cfg and returns a Verifier. cfg.Enabled is not
// consulted so the CLI can mint tokens for a disabled deployment.
func NewVerifier(cfg Config) (*Verifier, error) {
	cfg.ApplyDefaults()
	enabled := cfg.Enabled
	cfg.Enabled = true
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Enabled = enabled
	return &Verifier{cfg: cfg}, nil
}

// Issue mints a token for subject valid for the configured TTL.
func (v *Verifier) Issue(subject string, now time.Time) (string, error) {
	claims := Claims{
		Subject:   subject,
		Issuer:    v.cfg.Issuer,
		IssuedAt:  gojwt.NewNumericDate(now),
		NotBefore: gojwt.NewNumericDate(now),
	}
	if v.cfg.TokenTTL > 0 {
		claims.ExpiresAt = gojwt.NewNumericDate(now.Add(v.cfg.TokenTTL))
	}
	if v.cfg.Audience != "" {
		claims.Audience = gojwt.ClaimStrings{v.cfg.Audience}
	}
	signed, err := gojwt.NewWithClaims(v.cfg.signingMethod(), claims).SignedString([]byte(v.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature, algorithm, time claims and, when
// configured, issuer and audience.
func (v *Verifier) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := gojwt.ParseWithClaims(token, claims, v.keyFunc, v.parserOptions()...)
	if err != nil {
		return nil, fmt.Errorf("auth: parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("auth: invalid token")
	}
	return claims, nil
}

// ValidatorFunc adapts Parse to the middleware's token validator, exposing
// the subject as a claim.
func (v *Verifier) ValidatorFunc() func(string) (map[string]interface{}, error) {
	return func(token string) (map[string]interface{}, error) {
		claims, err := v.Parse(token)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"subject": claims.Subject}, nil
	}
}

func (v *Verifier) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != v.cfg.signingMethod().Alg() {
		return nil, fmt.Errorf("auth: unexpected signing method: %s", token.Method.Alg())
	}
	return []byte(v.cfg.Secret), nil
}

func (v *Verifier) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{v.cfg.signingMethod().Alg()}),
		gojwt.WithIssuedAt(),
	}
	if v.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.Audience != "" {
		opts = append(opts, gojwt.WithAudience(v.cfg.Audience))
	}
	return opts
}
