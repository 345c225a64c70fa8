// Package auth issues and verifies the JWTs used for session cookies,
// email verification links, and password-reset links.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Purpose restricts where a token is accepted. A verification token can
// never be replayed as a session token and vice versa.
type Purpose string

const (
	PurposeAccess        Purpose = "access"
	PurposeVerifyEmail   Purpose = "verify_email"
	PurposePasswordReset Purpose = "password_reset"
)

// Claims is the JWT claims structure shared by all token purposes.
type Claims struct {
	UserID  uuid.UUID `json:"user_id"`
	Email   string    `json:"email"`
	Purpose Purpose   `json:"purpose"`
	jwt.RegisteredClaims
}

// Manager signs and parses tokens with a single HMAC secret.
type Manager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	verifyTTL  time.Duration
	resetTTL   time.Duration
}

// NewManager constructs a Manager. Zero TTLs fall back to defaults:
// 24h access, 48h email verification, 1h password reset.
func NewManager(secret, issuer string, accessTTL, verifyTTL, resetTTL time.Duration) *Manager {
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	if verifyTTL <= 0 {
		verifyTTL = 48 * time.Hour
	}
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &Manager{
		secret:    []byte(secret),
		issuer:    issuer,
		accessTTL: accessTTL,
		verifyTTL: verifyTTL,
		resetTTL:  resetTTL,
	}
}

// AccessTTL returns the session token lifetime, used for cookie Max-Age.
func (m *Manager) AccessTTL() time.Duration {
	return m.accessTTL
}

// Generate signs a token for the given user and purpose.
func (m *Manager) Generate(userID uuid.UUID, email string, purpose Purpose) (string, error) {
	var ttl time.Duration
	switch purpose {
	case PurposeAccess:
		ttl = m.accessTTL
	case PurposeVerifyEmail:
		ttl = m.verifyTTL
	case PurposePasswordReset:
		ttl = m.resetTTL
	default:
		return "", fmt.Errorf("auth.Manager.Generate: unknown purpose %q", purpose)
	}

	now := time.Now()
	claims := Claims{
		UserID:  userID,
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   userID.String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth.Manager.Generate: sign: %w", err)
	}
	return signed, nil
}

// Parse verifies the token signature, expiry, and purpose, returning the
// claims. A valid token presented for the wrong purpose is rejected.
func (m *Manager) Parse(tokenString string, purpose Purpose) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("auth.Manager.Parse: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth.Manager.Parse: invalid token")
	}
	if claims.Purpose != purpose {
		return nil, fmt.Errorf("auth.Manager.Parse: token purpose %q, want %q", claims.Purpose, purpose)
	}
	return claims, nil
}
