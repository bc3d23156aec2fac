package jwt

import (
	"dishcovery/domain"
	"testing"
	"time"
)

func testService() *jwtService {
	return &jwtService{secretKey: "test-secret", issuer: "DISHCOVERY"}
}

func TestUserTokenRoundTrip(t *testing.T) {
	service := testService()

	token := service.GenerateTokenUser("user-123", domain.RoleUser)
	if token == "" {
		t.Fatalf("expected a signed token")
	}

	userID, role, err := service.GetUserIDByToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != "user-123" || role != domain.RoleUser {
		t.Fatalf("unexpected claims: %s/%s", userID, role)
	}
}

func TestTokenSignedWithOtherSecretIsRejected(t *testing.T) {
	other := &jwtService{secretKey: "other-secret", issuer: "DISHCOVERY"}
	token := other.GenerateTokenUser("user-123", domain.RoleUser)

	if _, _, err := testService().GetUserIDByToken(token); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestGarbageTokenIsRejected(t *testing.T) {
	if _, _, err := testService().GetUserIDByToken("not.a.token"); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestMailTokenRoundTrip(t *testing.T) {
	service := testService()

	token, err := service.GenerateMailToken(map[string]any{"user_id": "user-123"}, time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := service.ValidateMailToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims["user_id"] != "user-123" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestExpiredMailTokenIsRejected(t *testing.T) {
	service := testService()

	token, err := service.GenerateMailToken(map[string]any{"user_id": "user-123"}, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := service.ValidateMailToken(token); err != domain.ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
