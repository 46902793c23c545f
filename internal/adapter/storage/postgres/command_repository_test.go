package postgres

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/voice-concierge/internal/domain"
)

func newTestRepository(t *testing.T) *CommandRepository {
	t.Helper()
	db, err := NewConnection(ConnectionConfig{
		Driver: "sqlite",
		URL:    filepath.Join(t.TempDir(), "history", "concierge.db"),
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { Close(db) })

	if err := RunMigrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewCommandRepository(db, zap.NewNop()).(*CommandRepository)
}

func TestCommandRepository_SaveAndFind(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	for i, rec := range []domain.CommandRecord{
		{SessionID: "s1", Transcript: "开灯", Intent: "ControlLight", Success: true, CreatedAt: base},
		{SessionID: "s2", Transcript: "sleep mode", Intent: "ControlScene", Success: true, CreatedAt: base.Add(time.Minute)},
		{SessionID: "s1", Transcript: "关灯", Intent: "ControlLight", Success: false, CreatedAt: base.Add(2 * time.Minute)},
	} {
		rec := rec
		if err := repo.Save(ctx, &rec); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		if rec.ID == 0 {
			t.Errorf("record %d: expected generated id", i)
		}
	}

	records, err := repo.FindBySession(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("FindBySession: %v", err)
	}
	if len(records) != 2 || records[0].Transcript != "关灯" {
		t.Errorf("expected newest s1 record first, got %+v", records)
	}

	recent, err := repo.FindRecent(ctx, 2)
	if err != nil {
		t.Fatalf("FindRecent: %v", err)
	}
	if len(recent) != 2 || recent[1].SessionID != "s2" {
		t.Errorf("unexpected recent records %+v", recent)
	}
}

func TestNewConnection_UnsupportedDriver(t *testing.T) {
	if _, err := NewConnection(ConnectionConfig{Driver: "mysql", URL: "x"}, zap.NewNop()); err == nil {
		t.Error("expected unsupported driver error")
	}
	if _, err := NewConnection(ConnectionConfig{Driver: "postgres"}, zap.NewNop()); err == nil {
		t.Error("expected missing url error")
	}
}
