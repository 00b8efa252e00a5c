package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "civiclens-api"

// TokenKind separates short-lived access tokens from long-lived refresh
// tokens; a token of one kind never validates as the other.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongKind    = errors.New("wrong token kind")
)

// SessionClaims is the payload carried by every token the API issues. The
// email is informational; authorization decisions key off UserID.
type SessionClaims struct {
	UserID uint      `json:"uid"`
	Email  string    `json:"email,omitempty"`
	Kind   TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// NewAccessToken signs a short-lived token for API requests.
func NewAccessToken(userID uint, email, secret string, ttl time.Duration) (string, error) {
	return issue(userID, email, secret, KindAccess, ttl)
}

// NewRefreshToken signs a long-lived token accepted only by the refresh
// endpoint.
func NewRefreshToken(userID uint, email, secret string, ttl time.Duration) (string, error) {
	return issue(userID, email, secret, KindRefresh, ttl)
}

// NewSessionPair issues the access/refresh pair returned on signup, login,
// and refresh.
func NewSessionPair(userID uint, email, secret string, accessTTL, refreshTTL time.Duration) (access, refresh string, err error) {
	if access, err = NewAccessToken(userID, email, secret, accessTTL); err != nil {
		return "", "", err
	}
	if refresh, err = NewRefreshToken(userID, email, secret, refreshTTL); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func issue(userID uint, email, secret string, kind TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID: userID,
		Email:  email,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseAccess validates an access token and returns its claims.
func ParseAccess(token, secret string) (*SessionClaims, error) {
	return parse(token, secret, KindAccess)
}

// ParseRefresh validates a refresh token and returns its claims.
func ParseRefresh(token, secret string) (*SessionClaims, error) {
	return parse(token, secret, KindRefresh)
}

func parse(token, secret string, kind TokenKind) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{},
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrWrongKind
	}
	return claims, nil
}
