package implementation

import (
	"context"

	"gorm.io/gorm"

	"security-training-be/internal/entity"
	"security-training-be/internal/model"
	"security-training-be/internal/repository/contract"
)

type TranscriptRepositoryImpl struct {
	db *gorm.DB
}

func NewTranscriptRepository(db *gorm.DB) contract.TranscriptRepository {
	return &TranscriptRepositoryImpl{db: db}
}

func (r *TranscriptRepositoryImpl) Append(ctx context.Context, e *entity.TranscriptEntry) error {
	m := &model.TranscriptEntry{
		Id:        e.Id,
		SessionId: e.SessionId,
		Role:      e.Role,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	e.Id = m.Id
	e.CreatedAt = m.CreatedAt
	return nil
}

func (r *TranscriptRepositoryImpl) FindBySession(ctx context.Context, sessionId string) ([]*entity.TranscriptEntry, error) {
	var models []*model.TranscriptEntry
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*entity.TranscriptEntry, len(models))
	for i, m := range models {
		entries[i] = &entity.TranscriptEntry{
			Id:        m.Id,
			SessionId: m.SessionId,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
	}
	return entries, nil
}
