package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NewAdminToken issues a short-lived HS256 session token after a successful
// password check.
func NewAdminToken(secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}

	return signed, nil
}

// VerifyAdminToken checks signature, expiry and the admin role claim.
func VerifyAdminToken(secret, tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return fmt.Errorf("parse admin token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return fmt.Errorf("invalid admin token")
	}

	if role, _ := claims["role"].(string); role != "admin" {
		return fmt.Errorf("missing admin role")
	}

	return nil
}
