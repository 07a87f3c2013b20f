package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the decoded payload of every issued token: subject is the
// user id, the single audience entry is the tenant id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) TenantID() string {
	if len(c.Audience) == 0 {
		return ""
	}
	return c.Audience[0]
}

// Issuer signs and verifies tokens with one process-wide secret.
// The refresh store, not a second secret, is what gates refresh.
type Issuer struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (i *Issuer) IssueAccess(userID, tenantID, role string) (string, error) {
	return i.sign(userID, tenantID, role, i.AccessTTL, "")
}

// IssueRefresh adds a jti so every refresh token string is unique even
// when two are issued within the same second.
func (i *Issuer) IssueRefresh(userID, tenantID, role string) (string, error) {
	return i.sign(userID, tenantID, role, i.RefreshTTL, uuid.NewString())
}

func (i *Issuer) sign(userID, tenantID, role string, ttl time.Duration, jti string) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{tenantID},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.Secret)
}

// Parse rejects bad signatures, wrong algorithms, malformed tokens and
// expired tokens alike; callers treat any failure as Unauthorized.
func (i *Issuer) Parse(tokenStr string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return i.Secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
