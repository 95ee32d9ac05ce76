package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	const secret = "s3cret"
	at, err := NewAccessToken(secret, 123, 10)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	tok, err := jwt.Parse(at.Token, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse failed: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if sub, ok := claims["sub"].(float64); !ok || uint64(sub) != 123 {
		t.Fatalf("sub = %v, want 123", claims["sub"])
	}
}

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !VerifyPassword(hash, "hunter22") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "hunter23") {
		t.Fatal("wrong password accepted")
	}
}

func TestHashPasswordClampsBadCost(t *testing.T) {
	hash, err := HashPassword("hunter22", 99)
	if err != nil {
		t.Fatalf("HashPassword with out-of-range cost: %v", err)
	}
	if !VerifyPassword(hash, "hunter22") {
		t.Fatal("hash from clamped cost does not verify")
	}
}

func TestRefreshTokenHashIsStable(t *testing.T) {
	rt, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if len(rt.Raw) != 96 {
		t.Fatalf("raw length = %d, want 96 hex chars", len(rt.Raw))
	}
	if HashRefreshRaw(rt.Raw) != HashRefreshRaw(rt.Raw) {
		t.Fatal("hash not deterministic")
	}
	other, _ := NewRefreshToken(7)
	if HashRefreshRaw(rt.Raw) == HashRefreshRaw(other.Raw) {
		t.Fatal("distinct tokens hashed equal")
	}
}
