package jwt

import (
	"errors"
	"testing"
	"time"

	"room_chat_server/pkg/errorx"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParseToken(t *testing.T) {
	Init("test-secret", 24)

	token, err := GenerateToken("alice")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Username != "alice" {
		t.Fatalf("username = %q", claims.Username)
	}
	if d := time.Until(claims.ExpiresAt.Time); d < 23*time.Hour || d > 24*time.Hour {
		t.Fatalf("expiry in %v, want about 24h", d)
	}
}

func TestParseTokenRejects(t *testing.T) {
	Init("test-secret", 24)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			Subject:   tokenSubject,
		},
	})
	expiredToken, _ := expired.SignedString([]byte("test-secret"))

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: "mallory",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Subject:   tokenSubject,
		},
	})
	forgedToken, _ := forged.SignedString([]byte("other-secret"))

	nameless := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: "  ",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Subject:   tokenSubject,
		},
	})
	namelessToken, _ := nameless.SignedString([]byte("test-secret"))

	for name, token := range map[string]string{
		"empty":    "",
		"garbage":  "not.a.token",
		"expired":  expiredToken,
		"forged":   forgedToken,
		"nameless": namelessToken,
	} {
		if _, err := ParseToken(token); !errors.Is(err, errorx.ErrUnauthorized) {
			t.Fatalf("%s: err = %v, want unauthorized", name, err)
		}
	}
}

func TestBearerToken(t *testing.T) {
	if token, ok := BearerToken("Bearer abc"); !ok || token != "abc" {
		t.Fatalf("token = %q, ok = %v", token, ok)
	}
	for _, header := range []string{"", "Bearer", "Bearer ", "Basic abc", "abc"} {
		if _, ok := BearerToken(header); ok {
			t.Fatalf("%q accepted", header)
		}
	}
}
