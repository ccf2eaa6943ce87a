package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/manforhire/contractor-api/internal/config"
)

// Identity kinds carried in the token. The kind claim is always checked by
// the guard; it is never inferred from the route being hit.
const (
	KindAdmin = "admin"
	KindUser  = "user"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is what a verified token binds: who, which identity class, and
// the display name used by handlers.
type Identity struct {
	Subject  string
	Kind     string
	Role     string
	Username string
}

func IssueToken(cfg *config.Config, id Identity) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      id.Subject,
		"kind":     id.Kind,
		"role":     id.Role,
		"username": id.Username,
		"exp":      now.Add(cfg.JWTExpiresIn).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

func VerifyToken(cfg *config.Config, tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	kind, _ := claims["kind"].(string)
	role, _ := claims["role"].(string)
	username, _ := claims["username"].(string)
	if sub == "" || (kind != KindAdmin && kind != KindUser) {
		return nil, ErrInvalidToken
	}

	return &Identity{
		Subject:  sub,
		Kind:     kind,
		Role:     role,
		Username: username,
	}, nil
}
