package subscription

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/investperdiem/perdiem/pkg/domain"
	domerr "github.com/investperdiem/perdiem/pkg/domain/errors"
)

// DefaultTokenTTL is how long unsubscribe links work.
const DefaultTokenTTL = 48 * time.Hour

type unsubscribeClaims struct {
	Kind domain.SubscriptionKind `json:"kind"`
	jwt.RegisteredClaims
}

// signToken issues HS256 JWS of the claims: the user as subject, and kind.
func signToken(key []byte, userId int64, kind domain.SubscriptionKind, issuedAt time.Time, ttl time.Duration) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, unsubscribeClaims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userId, 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	})
	return tok.SignedString(key)
}

// verifyToken returns the user and kind in the token.
//
// Any malformed, forged or expired token is ErrInvalidToken.
func verifyToken(key []byte, token string, now time.Time) (int64, domain.SubscriptionKind, error) {
	claims := &unsubscribeClaims{}
	_, err := jwt.ParseWithClaims(
		token, claims,
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return 0, "", errors.Join(domerr.ErrInvalidToken, err)
	}

	userId, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("%w: subject: %w", domerr.ErrInvalidToken, err)
	}
	kind, err := domain.ParseSubscriptionKind(string(claims.Kind))
	if err != nil {
		return 0, "", fmt.Errorf("%w: %w", domerr.ErrInvalidToken, err)
	}
	return userId, kind, nil
}
