package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// di-override dari ENV JWT_SECRET saat startup
var Secret = []byte("dfresto-rahasia")

// TokenTTL: umur token; login ulang menerbitkan token baru.
const TokenTTL = 72 * time.Hour

func GenerateToken(userID uint, nama string, role string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"nama":    nama,
		"role":    role,
		"iat":     jwt.NewNumericDate(now),
		"exp":     jwt.NewNumericDate(now.Add(TokenTTL)),
	})
	return token.SignedString(Secret)
}

func VerifyToken(tokenString string) (jwt.MapClaims, error) {
	token, _ := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return Secret, nil
	})
	if token == nil {
		return nil, errors.New("token tidak valid")
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("token tidak valid")
}
