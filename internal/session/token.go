package session

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var errBadToken = errors.New("session: invalid token")

// TokenSigner signs and verifies the persisted session snapshot. A snapshot
// that fails verification is treated as garbage, not as an attack to report:
// restore simply clears it.
type TokenSigner struct {
	secret []byte
}

func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret)}
}

func (t *TokenSigner) Sign(userID int) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.Itoa(userID),
		"jti": uuid.NewString(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse returns the user id carried by a signed snapshot.
func (t *TokenSigner) Parse(raw string) (int, error) {
	token, err := jwt.Parse(raw, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errBadToken
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, errBadToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errBadToken
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, errBadToken
	}
	id, err := strconv.Atoi(sub)
	if err != nil {
		return 0, errBadToken
	}
	return id, nil
}
