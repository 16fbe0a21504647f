package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestActorTokenRoundTrip(t *testing.T) {
	raw, err := SignActorToken("secret", 42, "STAFF", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ParseActorToken("secret", raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	id, _ := claims.UserID()
	if id != 42 || claims.Role != "STAFF" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseActorTokenRejects(t *testing.T) {
	expired, _ := SignActorToken("secret", 1, "STAFF", -time.Minute)
	wrongKey, _ := SignActorToken("other", 1, "STAFF", time.Minute)
	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, ActorClaims{Role: "STAFF"}).SignedString([]byte("secret"))

	tests := []struct {
		name string
		raw  string
	}{
		{"expired", expired},
		{"wrong key", wrongKey},
		{"no subject", noSubject},
		{"garbage", "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseActorToken("secret", tt.raw); err == nil {
				t.Fatalf("expected %s token to be rejected", tt.name)
			}
		})
	}
}
