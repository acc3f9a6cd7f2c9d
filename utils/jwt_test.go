package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenCarriesExpiry(t *testing.T) {
	tok, err := GenerateToken(7, "Stokis Tujuh", "STOKIS")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := VerifyToken(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		t.Fatalf("token tanpa exp: %v", err)
	}
	if exp.Before(time.Now().Add(time.Hour)) {
		t.Errorf("exp terlalu dekat: %v", exp)
	}
	if claims["role"] != "STOKIS" {
		t.Errorf("role claim: %v", claims["role"])
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 7,
		"role":    "STOKIS",
		"exp":     jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	signed, err := token.SignedString(Secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := VerifyToken(signed); err == nil {
		t.Error("token kedaluwarsa harus ditolak")
	}
	if _, err := VerifyToken("bukan.token.jwt"); err == nil {
		t.Error("token rusak harus ditolak")
	}
}
