package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long an issued admin session stays valid.
const SessionTTL = 24 * time.Hour

// ErrMissingSecret signals that the server has no admin passcode configured.
var ErrMissingSecret = errors.New("admin passcode is not configured")

type JWTAuthenticator struct {
	secret string
	iss    string
}

func NewJWTAuthenticator(secret, iss string) *JWTAuthenticator {
	return &JWTAuthenticator{secret: secret, iss: iss}
}

// IssueSessionToken signs a token carrying the single admin role claim,
// valid for SessionTTL from now. A verified token asserts only that the
// bearer knew the shared passcode at issuance time.
func (a *JWTAuthenticator) IssueSessionToken() (string, error) {
	if a.secret == "" {
		return "", ErrMissingSecret
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  now.Add(SessionTTL).Unix(),
		"iss":  a.iss,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.secret))
}

// VerifySessionToken reports whether tokenString is a currently valid admin
// session token. It fails closed: missing token, malformed token, signature
// mismatch, expiry, a wrong role claim or a missing secret all yield false.
func (a *JWTAuthenticator) VerifySessionToken(tokenString string) bool {
	if a.secret == "" || tokenString == "" {
		return false
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(a.secret), nil
	}, jwt.WithExpirationRequired(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !token.Valid {
		return false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	role, _ := claims["role"].(string)
	return role == "admin"
}
