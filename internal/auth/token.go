package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const bearerPrefix = "Bearer "

// Claims is the token payload the gate consumes. The subject identifier is
// the only claim the pipeline trusts; the principal's role is always resolved
// from the directories, never read from the token.
type Claims struct {
	jwt.RegisteredClaims
}

// Codec verifies and issues signed bearer tokens. The signing secret is
// injected once at construction; nothing in the verification path reads
// global or environment state.
type Codec struct {
	secret []byte
	expiry time.Duration
	issuer string
}

func NewCodec(secret string, expiry time.Duration, issuer string) *Codec {
	return &Codec{
		secret: []byte(secret),
		expiry: expiry,
		issuer: issuer,
	}
}

// Issue creates a signed token for the given subject identifier. Used by the
// login flows and the developer token tool.
func (c *Codec) Issue(subjectID string) (string, error) {
	if strings.TrimSpace(subjectID) == "" {
		return "", fmt.Errorf("issue token: empty subject")
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Expiry reports the configured token lifetime.
func (c *Codec) Expiry() time.Duration {
	return c.expiry
}

// Verify checks a raw token's signature and expiry and returns its claims.
// Returns ErrTokenExpired for time failures and ErrTokenMalformed for
// everything else (bad signature, wrong algorithm, garbage input, missing
// subject). Pure function of the token, the secret, and the clock.
func (c *Codec) Verify(raw string) (*Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrTokenMalformed
	}

	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// BearerToken extracts the credential from an Authorization header value.
// The "Bearer " prefix is matched case-sensitively; a missing header or
// prefix is ErrNoCredential, not a verification failure.
func BearerToken(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrNoCredential
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", ErrNoCredential
	}
	return token, nil
}
