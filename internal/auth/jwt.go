package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var errInvalidToken = errors.New("invalid token")

// Claims is the identity carried by a session token.
type Claims struct {
	User      string
	UserLevel int
}

func GenerateToken(secret []byte, ttl time.Duration, user string, level int) (string, error) {
	claims := jwt.MapClaims{
		"user":       user,
		"user_level": level,
		"jti":        uuid.NewString(),
		"exp":        time.Now().Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

func ParseToken(secret []byte, raw string) (Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, errInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errInvalidToken
	}

	user, _ := mc["user"].(string)
	if strings.TrimSpace(user) == "" {
		return Claims{}, errInvalidToken
	}

	level := 0
	if f, ok := mc["user_level"].(float64); ok {
		level = int(f)
	}

	return Claims{User: user, UserLevel: level}, nil
}
