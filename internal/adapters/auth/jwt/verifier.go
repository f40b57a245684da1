package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dairy-herd-manager/internal/ports/auth"

	gojwt "github.com/golang-jwt/jwt/v5"
)

var (
	ErrSecretRequired = errors.New("jwt secret required")
	ErrMissingClaims  = errors.New("token missing user_id or farm_id")
)

// Claims es el payload que firmamos/verificamos (HS256).
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	FarmID string `json:"farm_id"`
	Role   string `json:"role,omitempty"`
	gojwt.RegisteredClaims
}

// Verifier implementa auth.AuthVerifier con un secreto compartido.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSecretRequired
	}
	return &Verifier{secret: []byte(secret), issuer: strings.TrimSpace(issuer)}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, gojwt.ErrTokenMalformed
	}

	opts := []gojwt.ParserOption{gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(v.issuer))
	}

	var c Claims
	_, err := gojwt.ParseWithClaims(token, &c, func(t *gojwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return auth.Claims{}, err
	}

	c.UserID = strings.TrimSpace(c.UserID)
	c.FarmID = strings.TrimSpace(c.FarmID)
	if c.UserID == "" || c.FarmID == "" {
		return auth.Claims{}, ErrMissingClaims
	}

	return auth.Claims{
		UserID: c.UserID,
		Email:  strings.TrimSpace(c.Email),
		FarmID: c.FarmID,
		Role:   strings.ToLower(strings.TrimSpace(c.Role)),
	}, nil
}

// Sign genera un token. Lo usan tests y herramientas de dev; en producción
// los tokens los emite el servicio de identidad.
func (v *Verifier) Sign(c auth.Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: c.UserID,
		Email:  c.Email,
		FarmID: c.FarmID,
		Role:   c.Role,
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    v.issuer,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
		},
	}
	s, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return s, nil
}
