// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/mthijssen/livevote/models"
)

var (
	ErrInvalidToken  = errors.New("invalid bearer token")
	ErrMissingClaims = errors.New("bearer token is missing identity claims")
)

// Claims are the identity claims embedded in an API bearer token.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Role      string  `json:"role"`
	Image     *string `json:"image,omitempty"`
}

// CreateAccessToken mints a signed bearer token carrying the user's
// identity, valid for the given lifetime.
func CreateAccessToken(user models.User, secret string, lifetime time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
		},
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		Image:     user.Image,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// UserFromToken verifies a bearer token and reconstructs the user identity
// from its claims. Verification fails when the signature is invalid, the
// token has expired, or identity claims are missing. Safe for concurrent use.
func UserFromToken(token, secret string) (models.User, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return models.User{}, ErrInvalidToken
	}

	// Expiry is checked by the parser, but only when the claim is present.
	if claims.ExpiresAt == nil {
		return models.User{}, fmt.Errorf("%w: no expiry", ErrMissingClaims)
	}
	if claims.UserID == 0 || claims.Role == "" {
		return models.User{}, ErrMissingClaims
	}

	return models.User{
		ID:        claims.UserID,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Role:      claims.Role,
		Image:     claims.Image,
	}, nil
}
