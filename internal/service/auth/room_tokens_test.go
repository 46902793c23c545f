package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/mocks"
)

func newTestService() *RoomTokenService {
	return NewRoomTokenService("test-secret", "concierge", time.Hour, mocks.NewMockCache(), zap.NewNop())
}

func TestRoomToken_IssueValidate(t *testing.T) {
	// Arrange
	svc := newTestService()

	// Act
	token, err := svc.Issue("204")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	claims, err := svc.Validate(context.Background(), token)

	// Assert
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.Room != "204" || claims.Issuer != "concierge" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestRoomToken_WrongSecret(t *testing.T) {
	token, _ := newTestService().Issue("204")
	other := NewRoomTokenService("other-secret", "concierge", time.Hour, nil, zap.NewNop())

	if _, err := other.Validate(context.Background(), token); err == nil {
		t.Error("expected signature error")
	}
}

func TestRoomToken_Expired(t *testing.T) {
	svc := newTestService()
	claims := RoomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "concierge",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		Room: "204",
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))

	if _, err := svc.Validate(context.Background(), token); err == nil {
		t.Error("expected expired token to fail")
	}
}

func TestRoomToken_MissingRoom(t *testing.T) {
	svc := newTestService()
	claims := RoomClaims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "concierge",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))

	if _, err := svc.Validate(context.Background(), token); err == nil {
		t.Error("expected token without room to fail")
	}
}

func TestRoomToken_Revoke(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	token, _ := svc.Issue("204")
	claims, _ := svc.Validate(ctx, token)

	if err := svc.Revoke(ctx, claims.ID); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	if _, err := svc.Validate(ctx, token); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("expected ErrTokenRevoked, got %v", err)
	}
}
