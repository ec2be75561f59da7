package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/arlomendez/techstore-backend/pkg/config"
	"github.com/arlomendez/techstore-backend/pkg/enums"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "techstore",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()

	payload := AccessTokenPayload{
		UserID: "user-42",
		Email:  "shopper@example.com",
		Role:   enums.UserRoleCustomer,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != "user-42" {
		t.Fatalf("expected user_id user-42, got %s", claims.UserID)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestMintValidatesInputs(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "techstore", ExpirationMinutes: 30}
	now := time.Now()

	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{Role: enums.UserRoleCustomer}); err == nil {
		t.Fatal("expected error for missing user id")
	}
	if _, err := MintAccessToken(cfg, now, AccessTokenPayload{UserID: "u", Role: "ghost"}); err == nil {
		t.Fatal("expected error for unknown role")
	}
	noSecret := cfg
	noSecret.Secret = ""
	if _, err := MintAccessToken(noSecret, now, AccessTokenPayload{UserID: "u", Role: enums.UserRoleCustomer}); err == nil {
		t.Fatal("expected error for missing secret")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "techstore", ExpirationMinutes: 30}
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: "u", Role: enums.UserRoleAdmin})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "techstore", ExpirationMinutes: 30}
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: "u", Role: enums.UserRoleCustomer})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	tampered := strings.TrimSuffix(token, string(token[len(token)-1])) + "x"
	if _, err := ParseAccessToken(cfg, tampered); err == nil {
		t.Fatal("expected signature validation to fail")
	}
}
