package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is the only verification error callers see. Structural,
// signature, expiry and revocation failures all collapse into it so the
// response layer cannot become an oracle for which check failed.
var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID int64    `json:"userId"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
	JTI    string   `json:"jti"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret  []byte
	ttl     time.Duration
	revoked *RevocationList
}

func NewManager(secret string, ttl time.Duration, revoked *RevocationList) *Manager {
	return &Manager{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: revoked,
	}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue mints a signed claims token for the given identity. The role list is
// whatever the caller loaded at issuance time; it is not re-checked until the
// token is re-issued.
func (m *Manager) Issue(userID int64, email string, roles []string) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		UserID: userID,
		Email:  email,
		Roles:  roles,
		JTI:    uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			Subject:   strconv.FormatInt(userID, 10),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks structure, signature and expiry, in that order, then the
// revocation list. The concrete reason is returned only for internal logging;
// compare against ErrInvalidToken before surfacing anything to a client.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256
		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if m.revoked != nil && m.revoked.Contains(claims.JTI) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Revoke blocks the token's JTI until its natural expiry. Verification of an
// unexpired token stops succeeding the moment this returns.
func (m *Manager) Revoke(claims *Claims) {
	if m.revoked == nil || claims == nil {
		return
	}

	exp := time.Now().UTC().Add(m.ttl)

	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	m.revoked.Add(claims.JTI, exp)
}

// Authorize reports whether the claims' role set intersects the required set.
// An empty required set means any authenticated identity passes.
func Authorize(claims *Claims, required ...string) bool {
	if claims == nil {
		return false
	}

	if len(required) == 0 {
		return true
	}

	for _, want := range required {
		for _, have := range claims.Roles {
			if have == want {
				return true
			}
		}
	}

	return false
}
