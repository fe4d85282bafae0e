package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/vaultkeeper/internal/model"
)

// Claims represents JWT claims with token type and user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"user_id"`
	TokenType string    `json:"typ"`
}

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

const (
	defaultTTL  = 12 * time.Hour
	typeSession = "session"
	issuer      = "vaultkeeper"
)

// NewJWT creates a new JWT token manager. Tokens expire after ttl; zero
// selects twelve hours.
func NewJWT(secretKey string, ttl time.Duration) model.TokenManager {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &JWT{secretKey: secretKey, ttl: ttl, now: time.Now}
}

// GenerateSessionToken creates a session token for the user.
func (j *JWT) GenerateSessionToken(userID uuid.UUID) (string, error) {
	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
		UserID:    userID,
		TokenType: typeSession,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ParseSessionToken validates the token and extracts the user ID.
func (j *JWT) ParseSessionToken(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(j.now))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse session token: %w", err)
	}
	if !token.Valid {
		return uuid.Nil, fmt.Errorf("session token is invalid")
	}
	if claims.TokenType != typeSession {
		return uuid.Nil, fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("session token has no user")
	}
	return claims.UserID, nil
}
