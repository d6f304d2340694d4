package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/basketwise/basketwise-backend/pkg/config"
	"github.com/basketwise/basketwise-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-do-not-use",
		Issuer:            "basketwise-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()
	storeID := uuid.New()

	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID:        userID,
		ActiveStoreID: &storeID,
		Role:          enums.UserRoleMerchant,
		JTI:           "session-123",
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("UserID = %s, want %s", claims.UserID, userID)
	}
	if claims.ActiveStoreID == nil || *claims.ActiveStoreID != storeID {
		t.Fatalf("ActiveStoreID = %v, want %s", claims.ActiveStoreID, storeID)
	}
	if claims.Role != enums.UserRoleMerchant {
		t.Fatalf("Role = %s", claims.Role)
	}
	if claims.ID != "session-123" {
		t.Fatalf("jti = %q, want session-123", claims.ID)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("Issuer = %q", claims.Issuer)
	}
}

func TestMintGeneratesJTIWhenMissing(t *testing.T) {
	cfg := testJWTConfig()

	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleShopper,
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("minted token must carry a jti")
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		t.Fatalf("generated jti is not a uuid: %q", claims.ID)
	}
}

func TestMintRejectsInvalidInputs(t *testing.T) {
	valid := AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleShopper}

	cfg := testJWTConfig()
	cfg.Secret = ""
	if _, err := MintAccessToken(cfg, time.Now(), valid); err == nil {
		t.Fatal("missing secret must be rejected")
	}

	cfg = testJWTConfig()
	cfg.Issuer = ""
	if _, err := MintAccessToken(cfg, time.Now(), valid); err == nil {
		t.Fatal("missing issuer must be rejected")
	}

	cfg = testJWTConfig()
	cfg.ExpirationMinutes = 0
	if _, err := MintAccessToken(cfg, time.Now(), valid); err == nil {
		t.Fatal("zero expiration must be rejected")
	}

	if _, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRole("superuser"),
	}); err == nil {
		t.Fatal("invalid role must be rejected")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleShopper,
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	other := cfg
	other.Secret = "a-different-secret"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("token signed with another secret must not parse")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleShopper,
		JTI:    "expired-session",
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expired token must not validate")
	}

	// Refresh needs the jti even after expiry.
	claims, err := ParseAccessTokenAllowExpired(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessTokenAllowExpired: %v", err)
	}
	if claims.ID != "expired-session" {
		t.Fatalf("jti = %q", claims.ID)
	}
}
