package postgres

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/voice-concierge/internal/domain"
	"github.com/seu-repo/voice-concierge/internal/ports"
)

type CommandRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCommandRepository(db *gorm.DB, log *zap.Logger) ports.CommandRepository {
	return &CommandRepository{
		db:  db,
		log: log,
	}
}

func (r *CommandRepository) Save(ctx context.Context, record *domain.CommandRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindBySession returns a session's commands, newest first.
func (r *CommandRepository) FindBySession(ctx context.Context, sessionID string, limit int) ([]domain.CommandRecord, error) {
	var records []domain.CommandRecord
	q := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Order("created_at desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&records).Error
	return records, err
}

func (r *CommandRepository) FindRecent(ctx context.Context, limit int) ([]domain.CommandRecord, error) {
	var records []domain.CommandRecord
	q := r.db.WithContext(ctx).Order("created_at desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&records).Error
	return records, err
}
