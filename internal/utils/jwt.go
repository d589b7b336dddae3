package utils

import (
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type jwtCustomClaims struct {
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed HS256 JWT for the provided user ID.
func GenerateToken(secret, userID string, ttl time.Duration) (string, error) {
	claims := &jwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// TokenParser verifies identity tokens issued by the auth provider, either with a shared
// HMAC secret or with the provider's RSA public key.
type TokenParser struct {
	secret    []byte
	publicKey *rsa.PublicKey
}

// NewTokenParser builds a TokenParser. publicKeyPEM may be nil when only HS256 is used.
func NewTokenParser(secret string, publicKeyPEM []byte) (*TokenParser, error) {
	p := &TokenParser{}
	if secret != "" {
		p.secret = []byte(secret)
	}
	if len(publicKeyPEM) > 0 {
		key, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
		if err != nil {
			return nil, err
		}
		p.publicKey = key
	}
	if p.secret == nil && p.publicKey == nil {
		return nil, errors.New("no token verification key configured")
	}
	return p, nil
}

// Parse validates the token and returns the embedded user ID.
func (p *TokenParser) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			if p.secret != nil {
				return p.secret, nil
			}
		case *jwt.SigningMethodRSA:
			if p.publicKey != nil {
				return p.publicKey, nil
			}
		}
		return nil, jwt.ErrTokenUnverifiable
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	if claims.Subject != "" {
		return claims.Subject, nil
	}
	if claims.UserID != "" {
		return claims.UserID, nil
	}
	return "", jwt.ErrTokenInvalidClaims
}
