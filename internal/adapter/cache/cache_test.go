package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/ports"
)

func TestLocalCache_SetGetDelete(t *testing.T) {
	c := NewLocalCache(time.Minute, zap.NewNop())
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "translation:zh:开灯", "turn on the light", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, err := c.Get(ctx, "translation:zh:开灯")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "turn on the light" {
		t.Errorf("unexpected value '%s'", val)
	}

	c.Delete(ctx, "translation:zh:开灯")
	if _, err := c.Get(ctx, "translation:zh:开灯"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("expected cache miss after delete, got %v", err)
	}
}

func TestLocalCache_Expiry(t *testing.T) {
	c := NewLocalCache(time.Minute, zap.NewNop())
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "k", "v", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("expected expired entry to miss, got %v", err)
	}

	c.cleanup()
	c.mu.RLock()
	n := len(c.data)
	c.mu.RUnlock()
	if n != 0 {
		t.Errorf("expected cleanup to drop expired entry, %d left", n)
	}
}

func TestLocalCache_CloseTwice(t *testing.T) {
	c := NewLocalCache(time.Minute, zap.NewNop())
	c.Close()
	c.Close()
}

func TestRedisCache_Container(t *testing.T) {
	if os.Getenv("INTEGRATION") != "1" {
		t.Skip("set INTEGRATION=1 to run container tests")
	}
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	defer container.Terminate(ctx)

	url, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	c, err := NewRedisCache(url, zap.NewNop())
	if err != nil {
		t.Fatalf("NewRedisCache failed: %v", err)
	}
	defer c.Close()

	if _, err := c.Get(ctx, "absent"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("expected cache miss, got %v", err)
	}
	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if val, err := c.Get(ctx, "k"); err != nil || val != "v" {
		t.Errorf("expected 'v', got '%s' (%v)", val, err)
	}
}
