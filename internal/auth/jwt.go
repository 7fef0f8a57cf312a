package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the JWT token claims for payout API callers
type Claims struct {
	jwt.RegisteredClaims
	Role       string `json:"role"`                  // "PROVIDER" | "ADMIN"
	ProviderID string `json:"provider_id,omitempty"` // providers only
}

// JWTManager handles token generation and validation with an HMAC secret
type JWTManager struct {
	secret []byte
	issuer string
	expiry time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret []byte, issuer string, expiry time.Duration) (*JWTManager, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("jwt secret is required")
	}
	return &JWTManager{secret: secret, issuer: issuer, expiry: expiry}, nil
}

// GenerateToken generates a signed token for the given actor
func (jm *JWTManager) GenerateToken(role Role, subject, providerID string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jm.issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(jm.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		Role:       string(role),
		ProviderID: providerID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jm.secret)
}

// ValidateToken validates a token string and returns its claims
func (jm *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	switch Role(claims.Role) {
	case RoleProvider:
		if claims.ProviderID == "" {
			return nil, fmt.Errorf("provider token missing provider_id")
		}
	case RoleAdmin:
	default:
		return nil, fmt.Errorf("unknown role %q", claims.Role)
	}

	return claims, nil
}

// ActorFromClaims builds the request actor from validated claims
func ActorFromClaims(claims *Claims) *Actor {
	return &Actor{
		Role:       Role(claims.Role),
		ProviderID: claims.ProviderID,
		Subject:    claims.Subject,
	}
}
