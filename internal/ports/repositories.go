package ports

import (
	"context"
	"errors"
	"time"

	"github.com/seu-repo/voice-concierge/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}

type CommandRepository interface {
	Save(ctx context.Context, record *domain.CommandRecord) error
	FindBySession(ctx context.Context, sessionID string, limit int) ([]domain.CommandRecord, error)
	FindRecent(ctx context.Context, limit int) ([]domain.CommandRecord, error)
}
