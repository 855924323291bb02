package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matrknhash/marketplace-backend/pkg/config"
	"github.com/matrknhash/marketplace-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "marketplace-test",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		UserID: userID,
		Name:   "Nadia",
		Role:   enums.UserRoleVendor,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.Role != enums.UserRoleVendor {
		t.Errorf("role = %s, want vendor", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Errorf("issuer = %s, want %s", claims.Issuer, cfg.Issuer)
	}
	if claims.ID == "" {
		t.Error("expected generated jti")
	}
}

func TestMintAccessTokenKeepsJTI(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
		JTI:    "fixed-jti",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ID != "fixed-jti" {
		t.Errorf("jti = %q, want fixed-jti", claims.ID)
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	base := testJWTConfig()

	tests := []struct {
		name    string
		cfg     config.JWTConfig
		payload AccessTokenPayload
		wantErr string
	}{
		{
			name:    "missing secret",
			cfg:     config.JWTConfig{Issuer: base.Issuer, ExpirationMinutes: 30},
			payload: AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleCustomer},
			wantErr: "secret",
		},
		{
			name:    "missing issuer",
			cfg:     config.JWTConfig{Secret: base.Secret, ExpirationMinutes: 30},
			payload: AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleCustomer},
			wantErr: "issuer",
		},
		{
			name:    "invalid role",
			cfg:     base,
			payload: AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRole("superuser")},
			wantErr: "role",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MintAccessToken(tt.cfg, time.Now(), tt.payload)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	past := time.Now().Add(-2 * time.Hour)
	token, err := MintAccessToken(cfg, past, AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected issuer mismatch error")
	}
}

func TestParseAccessTokenRejectsTampering(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Secret = "different-secret"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature error")
	}
}
