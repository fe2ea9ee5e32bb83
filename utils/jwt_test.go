package utils

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("manager-7", "manager", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	sub, err := ExtractIDFromToken(token)
	if err != nil || sub != "manager-7" {
		t.Fatalf("ExtractIDFromToken = %q, %v", sub, err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateToken("manager-7", "manager", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ExtractIDFromToken(token); err == nil {
		t.Fatal("expired token accepted")
	}
}
