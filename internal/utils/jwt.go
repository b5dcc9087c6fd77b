package utils

import (
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// JWT Claims: the registered subject carries the user id, plus a custom
// email claim so the bearer path can rebuild the identity without a store
// lookup.
type Claims struct {
	Email                string `json:"email"` // Custom claim for user email
	jwt.RegisteredClaims        // Standard JWT claims (sub, iat, exp)
}

// GenerateJWT signs a claim set for the given user with HS256.
func GenerateJWT(userID, email, secret string, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email, // Custom claim for user email
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,                              // User id as subject
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)), // Token expiry
			IssuedAt:  jwt.NewNumericDate(now),             // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a JWT token string. Signature, expiry, and
// signing method are all checked; unverified claims are never returned.
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err // Invalid signature, expired, or malformed
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil // Return claims if valid
	}
	return nil, jwt.ErrSignatureInvalid
}
