package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/ports"
)

var ErrTokenRevoked = errors.New("token revoked")

// RoomClaims binds a guest device to one hotel room.
type RoomClaims struct {
	jwt.RegisteredClaims
	Room string `json:"room"`
}

// RoomTokenService issues and validates HS256 room tokens.
type RoomTokenService struct {
	secret string
	issuer string
	ttl    time.Duration
	cache  ports.Cache
	log    *zap.Logger
}

// NewRoomTokenService creates a token service. cache may be nil, in which
// case revocation is unavailable.
func NewRoomTokenService(secret, issuer string, ttl time.Duration, cache ports.Cache, log *zap.Logger) *RoomTokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	log.Info("Room token service initialized",
		zap.String("issuer", issuer),
		zap.Duration("ttl", ttl),
	)
	return &RoomTokenService{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		cache:  cache,
		log:    log,
	}
}

// Issue signs a token for room, valid for the configured ttl.
func (s *RoomTokenService) Issue(room string) (string, error) {
	now := time.Now()
	claims := RoomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   room,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		Room: room,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign room token: %w", err)
	}
	s.log.Debug("room token issued", zap.String("room", room), zap.String("jti", claims.ID))
	return signed, nil
}

// Validate parses tokenString and returns its claims. Tokens without a room
// claim and revoked tokens are rejected.
func (s *RoomTokenService) Validate(ctx context.Context, tokenString string) (*RoomClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &RoomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.secret), nil
	}, opts...)
	if err != nil {
		s.log.Debug("room token validation failed", zap.Error(err))
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*RoomClaims)
	if !ok || !token.Valid || claims.Room == "" {
		return nil, fmt.Errorf("invalid token claims")
	}
	if s.isRevoked(ctx, claims.ID) {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke blacklists a token id until it would have expired anyway.
func (s *RoomTokenService) Revoke(ctx context.Context, tokenID string) error {
	if s.cache == nil {
		return fmt.Errorf("revocation requires a cache")
	}
	if err := s.cache.Set(ctx, revokedKey(tokenID), "revoked", s.ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.log.Info("room token revoked", zap.String("jti", tokenID))
	return nil
}

func (s *RoomTokenService) isRevoked(ctx context.Context, tokenID string) bool {
	if s.cache == nil || tokenID == "" {
		return false
	}
	val, err := s.cache.Get(ctx, revokedKey(tokenID))
	if err != nil {
		// a cache outage must not lock guests out
		return false
	}
	return val == "revoked"
}

func revokedKey(tokenID string) string {
	return "revoked_token:" + tokenID
}
