package mocks

import (
	"context"
	"sync"

	"github.com/seu-repo/voice-concierge/internal/domain"
)

// MockCommandRepository keeps records in memory and lists them newest first.
type MockCommandRepository struct {
	mu       sync.Mutex
	Records  []domain.CommandRecord
	SaveFunc func(ctx context.Context, record *domain.CommandRecord) error
}

func (m *MockCommandRepository) Save(ctx context.Context, record *domain.CommandRecord) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	record.ID = uint(len(m.Records) + 1)
	m.Records = append(m.Records, *record)
	return nil
}

func (m *MockCommandRepository) FindBySession(ctx context.Context, sessionID string, limit int) ([]domain.CommandRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.CommandRecord
	for i := len(m.Records) - 1; i >= 0; i-- {
		if m.Records[i].SessionID == sessionID {
			out = append(out, m.Records[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MockCommandRepository) FindRecent(ctx context.Context, limit int) ([]domain.CommandRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CommandRecord, 0, len(m.Records))
	for i := len(m.Records) - 1; i >= 0; i-- {
		out = append(out, m.Records[i])
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
