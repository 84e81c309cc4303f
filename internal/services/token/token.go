// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package token issues and verifies compact signed session tokens.
//
// The wire format is two padding-less base64url segments joined by a
// dot: the JSON payload and an HMAC-SHA256 signature. The signature is
// computed over the encoded payload segment, not the raw payload bytes,
// and verification re-derives that encoding from the decoded payload.
// A token that spells the same payload in any other base64 form
// therefore fails the signature check.
package token

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"codeberg.org/oliverandrich/pollster/internal/services/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMalformed          = errors.New("token is malformed")
	ErrInvalidSignature   = errors.New("token signature mismatch")
	ErrExpired            = errors.New("token expired")
)

// DefaultValidity is the validity window applied when none is configured.
const DefaultValidity = 6 * time.Hour

var encoding = base64.RawURLEncoding

// Identity is the verified result of a token: who it was issued to.
type Identity struct {
	UserID   int64
	UserName string
}

// payload is the signed token content. Field order is fixed; the JSON
// encoding is canonical because the signature covers the whole segment.
type payload struct {
	UserID      int64     `json:"user_id"`
	UserName    string    `json:"user_name"`
	ValidBefore time.Time `json:"valid_before"`
}

// Service issues and verifies tokens. The secret key is process-wide
// configuration, set once at startup.
type Service struct {
	secret   []byte
	users    *user.Service
	validity time.Duration
	now      func() time.Time
}

// NewService creates a token service. The validity window is used as
// given; a zero or negative window yields tokens that are already
// expired when issued.
func NewService(secret []byte, users *user.Service, validity time.Duration) *Service {
	return &Service{
		secret:   secret,
		users:    users,
		validity: validity,
		now:      time.Now,
	}
}

// Issue validates credentials and returns a signed token bound to the
// user. Every credential failure is reported as ErrInvalidCredentials
// without distinguishing the cause.
func (s *Service) Issue(ctx context.Context, ref user.Ref, plaintext string) (string, error) {
	u, err := s.users.Login(ctx, ref, plaintext)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) || errors.Is(err, user.ErrWrongCredentials) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to validate credentials: %w", err)
	}

	raw, err := json.Marshal(payload{
		UserID:      u.ID,
		UserName:    u.Name,
		ValidBefore: s.now().UTC().Add(s.validity),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	return s.sign(raw), nil
}

// Verify checks a token and returns the identity it carries.
func (s *Service) Verify(token string) (Identity, error) {
	segments := strings.Split(token, ".")
	if len(segments) != 2 || segments[0] == "" || segments[1] == "" {
		return Identity{}, ErrMalformed
	}

	raw, err := encoding.DecodeString(segments[0])
	if err != nil {
		return Identity{}, ErrMalformed
	}
	signature, err := encoding.DecodeString(segments[1])
	if err != nil {
		return Identity{}, ErrMalformed
	}

	// Recompute the MAC over the re-derived encoding of the decoded
	// payload rather than the segment as received.
	if !hmac.Equal(signature, s.mac(encoding.EncodeToString(raw))) {
		return Identity{}, ErrInvalidSignature
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Identity{}, ErrMalformed
	}

	if !p.ValidBefore.After(s.now().UTC()) {
		return Identity{}, ErrExpired
	}

	return Identity{UserID: p.UserID, UserName: p.UserName}, nil
}

func (s *Service) sign(raw []byte) string {
	segment := encoding.EncodeToString(raw)
	return segment + "." + encoding.EncodeToString(s.mac(segment))
}

func (s *Service) mac(segment string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(segment))
	return h.Sum(nil)
}
