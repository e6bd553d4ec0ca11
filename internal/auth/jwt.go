package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultIssuer = "dutch-auction"

// Claims identify the account acting on the API. The account id is the JWT subject.
type Claims struct {
	jwt.RegisteredClaims
}

func (c Claims) Account() string {
	return strings.TrimSpace(c.Subject)
}

type JWT struct {
	Secret   []byte
	TokenTTL time.Duration
	Issuer   string
}

// Mint signs a token for account.
func (j JWT) Mint(account string) (token string, expiresAt time.Time, err error) {
	account = strings.TrimSpace(account)
	if account == "" {
		return "", time.Time{}, errors.New("account required")
	}
	return j.Sign(Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: account}})
}

func (j JWT) Sign(claims Claims) (token string, expiresAt time.Time, err error) {
	if len(j.Secret) == 0 {
		return "", time.Time{}, errors.New("jwt secret required")
	}
	now := time.Now().UTC()
	if claims.IssuedAt == nil {
		claims.IssuedAt = jwt.NewNumericDate(now)
	}
	if claims.NotBefore == nil {
		claims.NotBefore = jwt.NewNumericDate(now.Add(-5 * time.Second))
	}
	if claims.ExpiresAt == nil {
		ttl := j.TokenTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		expiresAt = now.Add(ttl)
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	} else {
		expiresAt = claims.ExpiresAt.Time
	}
	if claims.Issuer == "" {
		claims.Issuer = j.issuer()
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, expiresAt, nil
}

func (j JWT) Verify(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.issuer()))
	if err != nil {
		return Claims{}, err
	}
	c, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if c.Account() == "" {
		return Claims{}, errors.New("token has no subject")
	}
	return *c, nil
}

func (j JWT) issuer() string {
	if j.Issuer != "" {
		return j.Issuer
	}
	return DefaultIssuer
}
