package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrUnexpectedSignMethod = errors.New("unexpected sign method")

type SessionClaims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issuer signs stateless session tokens. Nothing is persisted; a token is
// valid until it expires.
type Issuer struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{Secret: secret, TTL: ttl, Now: time.Now}
}

func (i *Issuer) Sign(userID, role, email string) (string, time.Time, error) {
	now := i.Now().UTC()
	exp := now.Add(i.TTL)

	claims := SessionClaims{
		Role:  role,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

func (i *Issuer) Parse(tokenStr string) (*SessionClaims, error) {
	return SessionClaimsFromToken(tokenStr, i.Secret)
}

func SessionClaimsFromToken(tokenStr string, secret []byte) (*SessionClaims, error) {
	var claims SessionClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, KeyFunc(secret))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return &claims, nil
}

// KeyFunc pins HS256 so tokens signed with any other algorithm are rejected.
func KeyFunc(secret []byte) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrUnexpectedSignMethod
		}
		return secret, nil
	}
}
