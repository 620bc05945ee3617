package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oksasatya/vital-identity/pkg/apperr"
)

const DefaultRefreshMultiplier = 30

// JWTManager handles generation and validation of JWT tokens
type JWTManager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// NewJWTManager derives the refresh lifetime from the access lifetime.
func NewJWTManager(accessSecret, refreshSecret string, accessTTL time.Duration, refreshMultiplier int) *JWTManager {
	if refreshMultiplier <= 0 {
		refreshMultiplier = DefaultRefreshMultiplier
	}
	return &JWTManager{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    accessTTL * time.Duration(refreshMultiplier),
	}
}

// Subject identifies the token holder.
type Subject struct {
	ID    string
	Email string
	Role  string
}

type RefreshClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AccessClaims embeds the refresh token the access token was issued against.
type AccessClaims struct {
	UserID       string `json:"uid"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	RefreshToken string `json:"refresh_token"`
	jwt.RegisteredClaims
}

func (c *AccessClaims) Subject() Subject {
	return Subject{ID: c.UserID, Email: c.Email, Role: c.Role}
}

func (m *JWTManager) IssueRefreshToken(sub Subject) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.RefreshTTL)
	claims := &RefreshClaims{
		UserID:           sub.ID,
		Email:            sub.Email,
		Role:             sub.Role,
		RegisteredClaims: registered(sub.ID, now, exp),
	}
	return sign(claims, m.RefreshSecret, exp)
}

func (m *JWTManager) IssueAccessToken(sub Subject, refreshToken string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(m.AccessTTL)
	claims := &AccessClaims{
		UserID:           sub.ID,
		Email:            sub.Email,
		Role:             sub.Role,
		RefreshToken:     refreshToken,
		RegisteredClaims: registered(sub.ID, now, exp),
	}
	return sign(claims, m.AccessSecret, exp)
}

// VerifyAccessToken fails with Unauthenticated on a bad signature, algorithm or expiry.
func (m *JWTManager) VerifyAccessToken(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := parseToken(tokenStr, m.AccessSecret, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (m *JWTManager) ParseRefreshToken(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := parseToken(tokenStr, m.RefreshSecret, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func registered(subject string, now, exp time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
	}
}

func sign(claims jwt.Claims, secret []byte, exp time.Time) (string, time.Time, error) {
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, apperr.Wrap(err, apperr.Internal, "sign token")
	}
	return s, exp, nil
}

func parseToken(tokenStr string, secret []byte, claims jwt.Claims) error {
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return apperr.New(apperr.Unauthenticated, "token expired")
		}
		return apperr.New(apperr.Unauthenticated, "invalid token")
	}
	if !tkn.Valid {
		return apperr.New(apperr.Unauthenticated, "invalid token")
	}
	return nil
}

// RefreshExpiry reads the expiry of a stored refresh token without validating it, so an
// expired token still reports when it lapsed.
func (m *JWTManager) RefreshExpiry(tokenStr string) time.Time {
	claims := &RefreshClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
