package auth

import (
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"stayhub/internal/domain"
)

const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

type Claims struct {
	Kind  string `json:"kind"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies the access/refresh token pair. The secret is
// injected from config; nothing here reads the environment.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

type Pair struct {
	Access         string
	Refresh        string
	AccessExpires  time.Time
	RefreshExpires time.Time
}

func (i *Issuer) IssuePair(userID, email string) (Pair, error) {
	now := time.Now()
	access, err := i.sign(userID, email, KindAccess, now.Add(i.accessTTL))
	if err != nil {
		return Pair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := i.sign(userID, email, KindRefresh, now.Add(i.refreshTTL))
	if err != nil {
		return Pair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return Pair{
		Access:         access,
		Refresh:        refresh,
		AccessExpires:  now.Add(i.accessTTL),
		RefreshExpires: now.Add(i.refreshTTL),
	}, nil
}

func (i *Issuer) sign(userID, email, kind string, exp time.Time) (string, error) {
	claims := Claims{
		Kind:  kind,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify parses tokenStr and checks it is a live token of the wanted kind.
// Any failure maps to ErrUnauthorized so callers need only one check.
func (i *Issuer) Verify(tokenStr, kind string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", domain.ErrUnauthorized)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.Kind != kind {
		return nil, fmt.Errorf("wrong token kind: %w", domain.ErrUnauthorized)
	}
	return c, nil
}
