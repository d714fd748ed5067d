package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/EmmanuelKeifala/LMS-SERVER/internal/domain"
)

const issuer = "lms-server"

// AccessClaims represents the JWT claims for an access token.
type AccessClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// RefreshClaims represents the JWT claims for a refresh token.
type RefreshClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// ActivationClaims carries a pending registration and its one-time code.
// The token is self-verifying: no server-side state exists until activation.
type ActivationClaims struct {
	User domain.PendingRegistration `json:"user"`
	Code string                     `json:"activation_code"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates the three token kinds. Access, refresh,
// and activation tokens are signed with distinct secrets, so a token of one
// kind can never pass validation as another.
type TokenManager struct {
	accessSecret     []byte
	refreshSecret    []byte
	activationSecret []byte
	accessTTL        time.Duration
	refreshTTL       time.Duration
	activationTTL    time.Duration
}

// NewTokenManager creates a token manager with per-kind secrets and TTLs.
func NewTokenManager(accessSecret, refreshSecret, activationSecret string, accessTTL, refreshTTL, activationTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:     []byte(accessSecret),
		refreshSecret:    []byte(refreshSecret),
		activationSecret: []byte(activationSecret),
		accessTTL:        accessTTL,
		refreshTTL:       refreshTTL,
		activationTTL:    activationTTL,
	}
}

// AccessTTL returns the configured access token lifetime.
func (m *TokenManager) AccessTTL() time.Duration { return m.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (m *TokenManager) RefreshTTL() time.Duration { return m.refreshTTL }

// IssueAccessToken creates a signed access token carrying the user ID.
func (m *TokenManager) IssueAccessToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := &AccessClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// IssueRefreshToken creates a signed refresh token carrying the user ID.
func (m *TokenManager) IssueRefreshToken(userID string) (string, error) {
	now := time.Now().UTC()
	claims := &RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.refreshTTL)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return signed, nil
}

// IssuePair mints a fresh access+refresh token pair for the user.
func (m *TokenManager) IssuePair(userID string) (domain.TokenPair, error) {
	access, err := m.IssueAccessToken(userID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := m.IssueRefreshToken(userID)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueActivationToken embeds the pending registration and a random 4-digit
// one-time code in a signed token. It returns the token and the code; the
// caller delivers the code out of band.
func (m *TokenManager) IssueActivationToken(pending domain.PendingRegistration) (token, code string, err error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", "", fmt.Errorf("generate activation code: %w", err)
	}
	code = fmt.Sprintf("%04d", n.Int64()+1000)

	now := time.Now().UTC()
	claims := &ActivationClaims{
		User: pending,
		Code: code,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   pending.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.activationTTL)),
			Issuer:    issuer,
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString(m.activationSecret)
	if err != nil {
		return "", "", fmt.Errorf("sign activation token: %w", err)
	}
	return token, code, nil
}

// ValidateAccessToken parses and validates an access token, returning the claims.
func (m *TokenManager) ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.accessSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid access token claims")
	}
	return claims, nil
}

// ValidateRefreshToken parses and validates a refresh token, returning the claims.
func (m *TokenManager) ValidateRefreshToken(tokenString string) (*RefreshClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &RefreshClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.refreshSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse refresh token: %w", err)
	}

	claims, ok := token.Claims.(*RefreshClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid refresh token claims")
	}
	return claims, nil
}

// ValidateActivationToken parses and validates an activation token, returning
// the embedded pending registration and one-time code.
func (m *TokenManager) ValidateActivationToken(tokenString string) (*ActivationClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActivationClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.activationSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse activation token: %w", err)
	}

	claims, ok := token.Claims.(*ActivationClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid activation token claims")
	}
	return claims, nil
}
