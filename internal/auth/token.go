package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenTTL is how long issued bearer tokens stay valid.
const TokenTTL = 12 * time.Hour

// Claims is the JWT payload carried by API bearer tokens.
type Claims struct {
	UserID       uint   `json:"uid"`
	RestaurantID uint   `json:"rid"`
	Role         string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies API bearer tokens.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret)}
}

// Issue creates a signed token for the identity.
func (t *TokenIssuer) Issue(id Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:       id.UserID,
		RestaurantID: id.RestaurantID,
		Role:         id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", id.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.secret)
}

var errBadToken = errors.New("invalid token")

// Verify parses and validates a signed token string.
func (t *TokenIssuer) Verify(tokenString string) (Identity, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !tok.Valid {
		return Identity{}, errBadToken
	}
	return Identity{
		UserID:       claims.UserID,
		RestaurantID: claims.RestaurantID,
		Role:         claims.Role,
	}, nil
}

// BearerToken extracts the token from an Authorization header, empty when
// absent or malformed.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
