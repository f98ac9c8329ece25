package auth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"circles/internal/pkg/jwt"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenManager issues, persists, validates and rotates access/refresh
// token pairs. The two tokens are signed with distinct secrets and
// distinct expiry policies. It keeps no state between calls; every
// validation is re-derived from the store.
type TokenManager struct {
	access     *jwt.Service
	refresh    *jwt.Service
	refreshTTL time.Duration
	tokens     RefreshTokenRepository
}

func NewTokenManager(accessSecret, refreshSecret, accessExpiresIn, refreshExpiresIn string, tokens RefreshTokenRepository) (*TokenManager, error) {
	accessTTL, err := ParseExpiresIn(accessExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("access token expiry: %w", err)
	}
	refreshTTL, err := ParseExpiresIn(refreshExpiresIn)
	if err != nil {
		return nil, fmt.Errorf("refresh token expiry: %w", err)
	}

	return &TokenManager{
		access:     jwt.New(accessSecret, accessTTL),
		refresh:    jwt.New(refreshSecret, refreshTTL),
		refreshTTL: refreshTTL,
		tokens:     tokens,
	}, nil
}

// IssuePair signs {userID} into an access and a refresh token.
// Pure with respect to the store.
func (m *TokenManager) IssuePair(userID int64) (*TokenPair, error) {
	accessToken, err := m.access.GenerateToken(userID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := m.refresh.GenerateToken(userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// PersistRefreshToken stores the token with an absolute expiry computed
// from the configured refresh duration.
func (m *TokenManager) PersistRefreshToken(ctx context.Context, userID int64, token string) error {
	return m.tokens.Create(ctx, &RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(m.refreshTTL),
	})
}

// ValidateRefreshToken resolves the stored record by exact token string
// and returns the signed claims. Missing record, stored expiry in the
// past, a failed signature/expiry check, and a user id mismatch between
// payload and record all collapse into ErrInvalidRefreshToken.
func (m *TokenManager) ValidateRefreshToken(ctx context.Context, raw string) (*jwt.Claims, error) {
	row, err := m.tokens.GetByToken(ctx, raw)
	if err != nil {
		return nil, err
	}

	if row.IsExpired(time.Now()) {
		return nil, ErrInvalidRefreshToken
	}

	claims, err := m.refresh.ValidateToken(raw)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	// Defends against token/record desync: a structurally valid token
	// must still belong to the row that stored it.
	if claims.UserID != row.UserID {
		return nil, ErrInvalidRefreshToken
	}

	return claims, nil
}

// Rotate deletes any existing refresh-token rows for the user, issues a
// fresh pair and persists the new refresh token. Refresh tokens are
// single-use: once rotated, the old token no longer resolves to a row.
func (m *TokenManager) Rotate(ctx context.Context, userID int64) (*TokenPair, error) {
	if err := m.tokens.DeleteByUserID(ctx, userID); err != nil {
		return nil, err
	}

	pair, err := m.IssuePair(userID)
	if err != nil {
		return nil, err
	}

	if err := m.PersistRefreshToken(ctx, userID, pair.RefreshToken); err != nil {
		return nil, err
	}
	return pair, nil
}

// Revoke deletes the user's refresh-token rows; no-op when none exist.
func (m *TokenManager) Revoke(ctx context.Context, userID int64) error {
	return m.tokens.DeleteByUserID(ctx, userID)
}

// ParseExpiresIn converts durations like "7d", "12h", "30m" to a
// time.Duration; a bare number is taken as seconds. Malformed values are
// a startup concern and surface here, never per-request.
func ParseExpiresIn(expiresIn string) (time.Duration, error) {
	s := strings.TrimSpace(expiresIn)
	unit := time.Second
	switch {
	case strings.HasSuffix(s, "d"):
		unit = 24 * time.Hour
		s = strings.TrimSuffix(s, "d")
	case strings.HasSuffix(s, "h"):
		unit = time.Hour
		s = strings.TrimSuffix(s, "h")
	case strings.HasSuffix(s, "m"):
		unit = time.Minute
		s = strings.TrimSuffix(s, "m")
	}

	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid expiry duration %q", expiresIn)
	}
	return time.Duration(n) * unit, nil
}
