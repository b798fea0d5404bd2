package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuerName = "lusoconnect-onboarding"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// Claims are carried by member access tokens.
type Claims struct {
	MemberID string `json:"member_id"`
	Plan     string `json:"plan"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 access tokens handed out at registration.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer builds an Issuer. A non-positive ttl falls back to 15 minutes.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL reports how long issued tokens stay valid.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue returns a signed token for the member.
func (i *Issuer) Issue(memberID, plan string) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		MemberID: memberID,
		Plan:     plan,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   memberID,
			Issuer:    issuerName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(i.secret)
}

// Verify checks the signature and expiry and returns the claims.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return i.secret, nil
	},
		jwt.WithIssuer(issuerName),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.MemberID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
