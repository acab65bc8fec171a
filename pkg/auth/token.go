package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by tokens this service issues.
type Claims struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 session tokens. RS256 tokens from an
// external identity provider are verified through the optional JWKS provider.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	jwks   *Provider
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration, jwks *Provider) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		jwks:   jwks,
		now:    time.Now,
	}
}

// Issue returns a signed token for the given user and its expiry time.
func (i *Issuer) Issue(userID, username, email string) (string, time.Time, error) {
	if len(i.secret) == 0 {
		return "", time.Time{}, errors.New("JWT_SECRET is not configured")
	}

	now := i.now()
	exp := now.Add(i.ttl)
	claims := Claims{
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies tokenString and returns its claims.
func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
			if len(i.secret) == 0 {
				return nil, errors.New("HS256 token received but JWT_SECRET is not configured")
			}
			return i.secret, nil
		}

		if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
			return i.jwks.KeyFunc(token)
		}

		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}
