package auth

import (
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dinehall/dinehall/internal/domain/account"
)

// ErrInvalidToken covers expired, malformed, and badly signed tokens.
// Callers get no further detail; the reason is logged server-side only.
var ErrInvalidToken = errors.New("invalid token")

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 access tokens. The subject claim is the
// account id; the role claim lets the middleware rebuild an Identity without
// a database round trip.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens creates a token codec with the given signing secret and lifetime.
func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	return &Tokens{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs an access token for the given account.
func (t *Tokens) Issue(a *account.Account) (string, error) {
	now := t.now()
	c := claims{
		Role: string(a.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(a.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// Verify parses and validates a token, returning the identity it encodes.
func (t *Tokens) Verify(token string) (Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", tok.Method.Alg())
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}

	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	role := account.Role(c.Role)
	if role != account.RoleCustomer && role != account.RoleAdmin {
		return Identity{}, ErrInvalidToken
	}

	return Identity{AccountID: id, Role: role}, nil
}
