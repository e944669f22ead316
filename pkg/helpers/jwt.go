package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frontfolio/frontfolio-api/internal/domain/entity"
)

var (
	// ErrTokenExpired means the signature checked out but the token is past its
	// expiration; callers surface this separately so clients can re-authenticate.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid covers every other validation failure: bad signature,
	// wrong issuer or audience, unexpected signing method, garbage input.
	ErrTokenInvalid = errors.New("token invalid")
)

// JWTManager issues and validates HS256 tokens. Issuer, audience and the
// signing key are fixed at construction and never mutated, so concurrent use
// needs no synchronization. There is no revocation list: a leaked access token
// stays valid for its full lifetime, which is why reset tokens get ResetTTL.
type JWTManager struct {
	Secret    []byte
	Issuer    string
	Audience  string
	AccessTTL time.Duration
	ResetTTL  time.Duration
}

var defaultManager *JWTManager

func NewJWTManager(secret, issuer, audience string, accessTTL, resetTTL time.Duration) *JWTManager {
	m := &JWTManager{
		Secret:    []byte(secret),
		Issuer:    issuer,
		Audience:  audience,
		AccessTTL: accessTTL,
		ResetTTL:  resetTTL,
	}
	defaultManager = m
	return m
}

// DefaultJWT returns the last constructed JWTManager (used for auto-wiring routes)
func DefaultJWT() *JWTManager { return defaultManager }

// Claims is the typed claim set embedded in every token. Subject (the user id),
// issuer, audience and expiry live in RegisteredClaims. Verified is a pointer
// because reset tokens carry no verified claim at all.
type Claims struct {
	Role     entity.Role `json:"role"`
	Email    string      `json:"email"`
	Verified *bool       `json:"verified,omitempty"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs a 72-hour (AccessTTL) token carrying the user's
// role, email and verified flag.
func (m *JWTManager) GenerateAccessToken(u *entity.User) (string, time.Time, error) {
	verified := u.IsVerified
	return m.sign(u, m.AccessTTL, &verified)
}

// GenerateResetToken signs a short-lived password-reset token. It omits the
// verified claim: proving OTP receipt says nothing about verification state.
func (m *JWTManager) GenerateResetToken(u *entity.User) (string, time.Time, error) {
	return m.sign(u, m.ResetTTL, nil)
}

func (m *JWTManager) sign(u *entity.User, ttl time.Duration, verified *bool) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := &Claims{
		Role:     u.Role,
		Email:    u.Email,
		Verified: verified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    m.Issuer,
			Audience:  jwt.ClaimStrings{m.Audience},
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Parse verifies the signature, issuer, audience and expiration of tokenStr and
// returns its claim set. Expired-but-authentic tokens fail with ErrTokenExpired;
// everything else fails with ErrTokenInvalid.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return m.Secret, nil
		},
		jwt.WithIssuer(m.Issuer),
		jwt.WithAudience(m.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tkn.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
