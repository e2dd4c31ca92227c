// SPDX-FileCopyrightText: Copyright 2023 Prasad Tengse
// SPDX-License-Identifier: MIT

package githubapp

import (
	"bytes"
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tprasadtp/gh-app-token/internal/api"
)

var (
	_ jwtMinter = (*jwtRS256)(nil)
)

// JWT is JWT token used to authenticate as app.
type JWT struct {
	// JWT token.
	Token string `json:"token" yaml:"token"`

	// JWT issuer. This is either GitHub app ID or client ID.
	Issuer string `json:"iss,omitempty" yaml:"iss,omitempty"`

	// Token exp time.
	Exp time.Time `json:"exp,omitempty" yaml:"exp,omitempty"`

	// Token issue time.
	IssuedAt time.Time `json:"iat,omitempty" yaml:"iat,omitempty"`
}

// Fields returns [logrus.Fields] describing the token. Token itself is redacted.
func (t JWT) Fields() logrus.Fields {
	return logrus.Fields{
		"iss":   t.Issuer,
		"iat":   t.IssuedAt,
		"exp":   t.Exp,
		"token": "REDACTED",
	}
}

// IsValid checks if [JWT] is valid for at-least 60 seconds.
func (t JWT) IsValid() bool {
	now := time.Now()
	return t.Token != "" && !t.IssuedAt.After(now) && t.Exp.After(now.Add(time.Minute))
}

// contextSigner is similar to [crypto.Signer] but is context-aware.
type contextSigner interface {
	SignContext(ctx context.Context, rand io.Reader, digest []byte, opt crypto.SignerOpts) ([]byte, error)
}

// jwtMinter mints GitHub app JWT.
type jwtMinter interface {
	MintJWT(ctx context.Context, iss string, now time.Time) (JWT, error)
}

// jwtRS256 mints JWT tokens using RS256.
type jwtRS256 struct {
	internal crypto.Signer
}

// MintJWT mints new JWT token. Token is issued at now and
// expires [api.JWTLifetime] seconds later.
func (s *jwtRS256) MintJWT(ctx context.Context, iss string, now time.Time) (JWT, error) {
	// GitHub rejects timestamps that are not an integer.
	iat := now.Truncate(time.Second)
	exp := iat.Add(api.JWTLifetime * time.Second)

	buf := bytes.NewBuffer(make([]byte, 0, 1024))
	encoder := base64.NewEncoder(base64.RawURLEncoding, buf)

	// Header is always the same.
	_, _ = buf.WriteString(api.EncodedJWTHeader)

	// Write separator.
	_ = buf.WriteByte('.')

	// Encode JWT Payload.
	payload, err := json.Marshal(&api.JWTPayload{
		Issuer:   iss,
		Exp:      exp.Unix(),
		IssuedAt: iat.Unix(),
	})
	if err != nil {
		return JWT{}, fmt.Errorf("githubapp(jwt): failed to encode JWT payload: %w", err)
	}
	_, _ = encoder.Write(payload)
	_ = encoder.Close()

	// Sign JWT header and payload.
	hasher := sha256.New()
	_, _ = hasher.Write(buf.Bytes())

	var signature []byte

	// Try to check if we can use context aware signer, fallback to default.
	if cs, ok := s.internal.(contextSigner); ok {
		if ctx == nil {
			ctx = context.Background()
		}
		signature, err = cs.SignContext(ctx, rand.Reader, hasher.Sum(nil), crypto.SHA256)
	} else {
		signature, err = s.internal.Sign(rand.Reader, hasher.Sum(nil), crypto.SHA256)
	}

	if err != nil {
		return JWT{}, fmt.Errorf("githubapp(jwt): failed to sign JWT: %w", err)
	}

	// Write separator.
	_ = buf.WriteByte('.')

	// Encode signature.
	_, _ = encoder.Write(signature)
	_ = encoder.Close()

	return JWT{Token: buf.String(), Exp: exp, IssuedAt: iat, Issuer: iss}, nil
}

// newMinter returns a jwtMinter for the signer. Only RSA keys of at least
// 2048 bits are supported.
func newMinter(signer crypto.Signer) (jwtMinter, error) {
	switch v := signer.Public().(type) {
	case *rsa.PublicKey:
		if v.N.BitLen() < minRSAKeyBits {
			return nil, fmt.Errorf("rsa keys size(%d) < %d bits", v.N.BitLen(), minRSAKeyBits)
		}
		return &jwtRS256{internal: signer}, nil
	default:
		return nil, fmt.Errorf("unsupported key type: %T", v)
	}
}

// validateIssuer checks app id or client id used as JWT issuer.
func validateIssuer(iss string) error {
	if strings.TrimSpace(iss) == "" {
		return errors.New("app id cannot be empty")
	}
	if strings.ContainsAny(iss, " \t\r\n") {
		return fmt.Errorf("app id contains whitespace: %q", iss)
	}
	if iss == "0" {
		return errors.New("app id cannot be zero")
	}
	return nil
}

// NewJWT returns new JWT bearer token signed by the signer.
//
// Returned JWT is valid for 10 minutes from now. Ensure that your
// machine's clock is accurate.
//
//   - Issuer can be numeric app ID or app's client ID.
//   - RSA keys of length less than 2048 bits are not supported.
//   - Only RSA keys are supported. Using ECDSA, ED25519 or other keys will return error.
func NewJWT(ctx context.Context, issuer string, signer crypto.Signer) (JWT, error) {
	var err error
	if signer == nil {
		err = errors.Join(err, errors.New("no signer provided"))
	}

	err = errors.Join(err, validateIssuer(issuer))
	if err != nil {
		return JWT{}, fmt.Errorf("githubapp(jwt): failed to mint JWT: %w", err)
	}

	minter, err := newMinter(signer)
	if err != nil {
		return JWT{}, fmt.Errorf("githubapp(jwt): %w", err)
	}
	return minter.MintJWT(ctx, issuer, time.Now())
}
