// Package identity turns a sign-in credential into a user identity.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidCredential = errors.New("invalid credential")

type Identity struct {
	Subject     string
	DisplayName string
	Email       string
}

type Provider interface {
	SignIn(ctx context.Context, credential string) (Identity, error)
}

// Claims of an ID token.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// JWTProvider accepts HS256 ID tokens signed with a shared secret.
type JWTProvider struct {
	secret []byte
	issuer string
}

// NewJWTProvider returns a provider; an empty issuer disables the issuer
// check.
func NewJWTProvider(secret []byte, issuer string) *JWTProvider {
	return &JWTProvider{secret: secret, issuer: issuer}
}

func (p *JWTProvider) SignIn(_ context.Context, credential string) (Identity, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(credential, claims, func(t *jwt.Token) (any, error) {
		return p.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, common.ErrTokenExpired
		}
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if !token.Valid || claims.Subject == "" {
		return Identity{}, ErrInvalidCredential
	}

	return Identity{Subject: claims.Subject, DisplayName: claims.Name, Email: claims.Email}, nil
}

// Issue signs an ID token for id, valid for ttl.
func (p *JWTProvider) Issue(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name:  id.DisplayName,
		Email: id.Email,
	})
	return token.SignedString(p.secret)
}
