package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/domain"
)

func TestCommandRepository_PostgresContainer(t *testing.T) {
	if os.Getenv("INTEGRATION") != "1" {
		t.Skip("set INTEGRATION=1 to run container tests")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("concierge_test"),
		tcpostgres.WithUsername("concierge"),
		tcpostgres.WithPassword("concierge_test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}
	defer container.Terminate(ctx)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	db, err := NewConnection(ConnectionConfig{Driver: "postgres", URL: dsn}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewConnection failed: %v", err)
	}
	defer Close(db)

	if err := RunMigrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo := NewCommandRepository(db, zap.NewNop())
	rec := &domain.CommandRecord{SessionID: "pg", Transcript: "open the curtains", Intent: "ControlCurtain", Success: true}
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	records, err := repo.FindBySession(ctx, "pg", 5)
	if err != nil {
		t.Fatalf("FindBySession failed: %v", err)
	}
	if len(records) != 1 || records[0].Intent != "ControlCurtain" {
		t.Errorf("unexpected records %+v", records)
	}
}
