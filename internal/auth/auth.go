// Package auth hashes credentials and issues the bearer tokens that carry a
// principal between requests.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fernet/fernet-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/model"
)

// HashPassword returns the bcrypt hash of password at the given cost.
// A cost of 0 selects bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type claims struct {
	UserID string     `json:"uid"`
	Role   model.Role `json:"role"`
}

// TokenIssuer signs and verifies fernet tokens.
type TokenIssuer struct {
	key *fernet.Key
	ttl time.Duration
}

// NewTokenIssuer decodes a base64 fernet key. An empty key generates a random one,
// which invalidates all tokens on restart.
func NewTokenIssuer(encodedKey string, ttl time.Duration) (*TokenIssuer, error) {
	if encodedKey == "" {
		var k fernet.Key
		if err := k.Generate(); err != nil {
			return nil, fmt.Errorf("failed to generate token key: %w", err)
		}
		return &TokenIssuer{key: &k, ttl: ttl}, nil
	}

	k, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("invalid token key: %w", err)
	}
	return &TokenIssuer{key: k, ttl: ttl}, nil
}

// TTL is how long issued tokens stay valid.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue returns a signed token for p.
func (i *TokenIssuer) Issue(p model.Principal) (string, error) {
	payload, err := json.Marshal(claims{UserID: p.UserID, Role: p.Role})
	if err != nil {
		return "", fmt.Errorf("failed to encode token: %w", err)
	}

	tok, err := fernet.EncryptAndSign(payload, i.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return string(tok), nil
}

// Verify returns the principal in token. Expired, tampered or malformed tokens yield ErrUnauthorized.
func (i *TokenIssuer) Verify(token string) (model.Principal, error) {
	payload := fernet.VerifyAndDecrypt([]byte(token), i.ttl, []*fernet.Key{i.key})
	if payload == nil {
		return model.Principal{}, apperrors.ErrUnauthorized
	}

	var c claims
	if err := json.Unmarshal(payload, &c); err != nil || c.UserID == "" || !c.Role.Valid() {
		return model.Principal{}, apperrors.ErrUnauthorized
	}
	return model.Principal{UserID: c.UserID, Role: c.Role}, nil
}

type principalKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored in ctx, if any.
func PrincipalFrom(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(model.Principal)
	return p, ok
}
