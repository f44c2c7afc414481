// Package token mints and verifies the bearer tokens that guard the
// HTTP transport. A token is a CBOR-encoded claims payload followed by
// a 64-byte Ed25519 signature, carried over the wire as base64url.
package token

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
)

const (
	// DefaultAudience scopes tokens to this server.
	DefaultAudience = "resume-mcp-server"

	// DefaultTTL matches the month-long tokens the CLI hands out.
	DefaultTTL = 31 * 24 * time.Hour

	signatureSize = ed25519.SignatureSize
)

// Claims is the CBOR-encoded payload of an access token.
type Claims struct {
	// Subject names the client the token was issued to. Informational.
	Subject string `cbor:"1,keyasint,omitempty"`

	// Audience is the service this token is scoped to. A token minted
	// for another service must be rejected.
	Audience string `cbor:"2,keyasint"`

	// ID is a unique token identifier (hex string).
	ID string `cbor:"3,keyasint"`

	// IssuedAt is a Unix timestamp (seconds).
	IssuedAt int64 `cbor:"4,keyasint"`

	// ExpiresAt is a Unix timestamp (seconds) after which the token is
	// no longer valid.
	ExpiresAt int64 `cbor:"5,keyasint"`
}

// Errors returned by Verify and related functions.
var (
	ErrTokenTooShort    = errors.New("token: too short for signature")
	ErrInvalidSignature = errors.New("token: invalid Ed25519 signature")
	ErrTokenExpired     = errors.New("token: expired")
	ErrAudienceMismatch = errors.New("token: audience does not match")
)

// NewClaims fills a claims payload with a random ID and the given
// lifetime. A non-positive ttl falls back to DefaultTTL; an empty
// audience falls back to DefaultAudience.
func NewClaims(subject, audience string, ttl time.Duration, now time.Time) (*Claims, error) {
	if audience == "" {
		audience = DefaultAudience
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	idBytes := make([]byte, 16)
	if _, err := rand.Read(idBytes); err != nil {
		return nil, fmt.Errorf("token: generating id: %w", err)
	}
	return &Claims{
		Subject:   subject,
		Audience:  audience,
		ID:        hex.EncodeToString(idBytes),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}, nil
}

// Mint signs the claims and returns the raw wire bytes: CBOR payload
// followed by the Ed25519 signature.
func Mint(privateKey ed25519.PrivateKey, claims *Claims) ([]byte, error) {
	payload, err := cbor.Marshal(claims)
	if err != nil {
		return nil, fmt.Errorf("token: encoding claims: %w", err)
	}
	signature := ed25519.Sign(privateKey, payload)

	out := make([]byte, len(payload)+signatureSize)
	copy(out, payload)
	copy(out[len(payload):], signature)
	return out, nil
}

// MintString mints and base64url-encodes a token for HTTP transport.
func MintString(privateKey ed25519.PrivateKey, claims *Claims) (string, error) {
	raw, err := Mint(privateKey, claims)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Verify checks the signature and expiry of raw token bytes.
func Verify(publicKey ed25519.PublicKey, tokenBytes []byte) (*Claims, error) {
	return VerifyAt(publicKey, tokenBytes, time.Now())
}

// VerifyAt is like Verify but takes an explicit time, for deterministic
// tests.
func VerifyAt(publicKey ed25519.PublicKey, tokenBytes []byte, now time.Time) (*Claims, error) {
	if len(tokenBytes) <= signatureSize {
		return nil, ErrTokenTooShort
	}
	split := len(tokenBytes) - signatureSize
	payload := tokenBytes[:split]
	signature := tokenBytes[split:]

	if !ed25519.Verify(publicKey, payload, signature) {
		return nil, ErrInvalidSignature
	}
	var claims Claims
	if err := cbor.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("token: decoding claims: %w", err)
	}
	if now.Unix() >= claims.ExpiresAt {
		return nil, ErrTokenExpired
	}
	return &claims, nil
}

// VerifyString decodes a base64url token and verifies it against the
// expected audience. This is the standard path for the HTTP transport.
func VerifyString(publicKey ed25519.PublicKey, token, audience string) (*Claims, error) {
	return VerifyStringAt(publicKey, token, audience, time.Now())
}

// VerifyStringAt is like VerifyString but takes an explicit time.
func VerifyStringAt(publicKey ed25519.PublicKey, token, audience string, now time.Time) (*Claims, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("token: decoding base64: %w", err)
	}
	claims, err := VerifyAt(publicKey, raw, now)
	if err != nil {
		return nil, err
	}
	if claims.Audience != audience {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrAudienceMismatch, claims.Audience, audience)
	}
	return claims, nil
}
