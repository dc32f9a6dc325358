package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/prathmeshnaik91/skinet/pkg/middleware"
)

// Claims carries the user's email and display name. The display name uses
// the OIDC given_name claim.
type Claims struct {
	Email       string `json:"email"`
	DisplayName string `json:"given_name"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS512 access tokens.
type TokenService struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

func NewTokenService(secret, issuer string, expiry time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), issuer: issuer, expiry: expiry, now: time.Now}
}

// CreateToken signs a token for the user.
func (s *TokenService) CreateToken(email, displayName string) (string, error) {
	now := s.now().UTC()
	claims := &Claims{
		Email:       email,
		DisplayName: displayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses a token and checks signature, issuer and lifetime.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// Validator adapts Validate to the auth middleware.
func (s *TokenService) Validator() middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		c, err := s.Validate(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{Email: c.Email, DisplayName: c.DisplayName}, nil
	}
}
