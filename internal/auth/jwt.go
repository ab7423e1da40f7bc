package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType separates short-lived access tokens from refresh tokens, so a
// refresh token can never be presented as a bearer token and vice versa.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the validated content of a token.
type Claims struct {
	UserID    int64
	ID        string // jti, the revocation handle
	Type      TokenType
	ExpiresAt time.Time
}

// TokenPair is returned on signup, login and refresh.
type TokenPair struct {
	Access           string    `json:"access"`
	Refresh          string    `json:"refresh"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// TokenManager signs and validates HS256 tokens with one secret.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssuePair creates a fresh access and refresh token for the user.
func (m *TokenManager) IssuePair(userID int64) (*TokenPair, error) {
	access, accessExp, err := m.issue(userID, AccessToken, m.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := m.issue(userID, RefreshToken, m.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		Access:           access,
		Refresh:          refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (m *TokenManager) issue(userID int64, typ TokenType, ttl time.Duration) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
		"iat": now.Unix(),
		"jti": uuid.NewString(),
		"typ": string(typ),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return tokenString, time.Unix(exp.Unix(), 0), nil
}

// Validate parses a token and checks its signature, expiry and type.
func (m *TokenManager) Validate(tokenString string, want TokenType) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	// JSON numbers decode as float64.
	sub, ok := mapClaims["sub"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: invalid subject claim", ErrInvalidToken)
	}
	jti, _ := mapClaims["jti"].(string)
	typ, _ := mapClaims["typ"].(string)
	if jti == "" {
		return nil, fmt.Errorf("%w: missing token id", ErrInvalidToken)
	}
	if TokenType(typ) != want {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrInvalidToken, want, typ)
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: invalid expiry", ErrInvalidToken)
	}

	return &Claims{
		UserID:    int64(sub),
		ID:        jti,
		Type:      TokenType(typ),
		ExpiresAt: exp.Time,
	}, nil
}
