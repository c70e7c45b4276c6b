package jwtware

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the concrete claims type used when the middleware validates
// tokens itself via a key function.
type Claims struct {
	jwt.RegisteredClaims
	Use string `json:"use,omitempty"`
}

var _ AuthClaims = (*Claims)(nil)

func (c *Claims) Subject() string { return c.RegisteredClaims.Subject }

func (c *Claims) Username() string { return c.Subject() }

func (c *Claims) TokenUse() string {
	if c.Use == "" {
		return "access"
	}
	return c.Use
}

func (c *Claims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

func (c *Claims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// KeyfuncValidator validates tokens with a jwt.Keyfunc, covering static
// signing keys, key sets, and JWKS-backed keys alike.
type KeyfuncValidator struct {
	keyFunc jwt.Keyfunc
}

func NewKeyfuncValidator(keyFunc jwt.Keyfunc) *KeyfuncValidator {
	return &KeyfuncValidator{keyFunc: keyFunc}
}

// Validate satisfies the TokenValidator interface.
func (v *KeyfuncValidator) Validate(tokenString string) (AuthClaims, error) {
	if v.keyFunc == nil {
		return nil, errors.New("jwtware: no key function configured")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, v.keyFunc)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrJWTMissingOrMalformed
	}

	return claims, nil
}
