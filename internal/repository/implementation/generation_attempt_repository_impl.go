package implementation

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"security-training-be/internal/entity"
	"security-training-be/internal/model"
	"security-training-be/internal/repository/contract"
)

type GenerationAttemptRepositoryImpl struct {
	db *gorm.DB
}

func NewGenerationAttemptRepository(db *gorm.DB) contract.GenerationAttemptRepository {
	return &GenerationAttemptRepositoryImpl{db: db}
}

func (r *GenerationAttemptRepositoryImpl) Create(ctx context.Context, attempt *entity.GenerationAttempt) error {
	m := &model.GenerationAttempt{
		Id:        attempt.Id,
		SessionId: attempt.SessionId,
		Snapshot:  datatypes.JSON(attempt.Snapshot),
		Output:    attempt.Output,
		Success:   attempt.Success,
		CreatedAt: attempt.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	attempt.Id = m.Id
	attempt.CreatedAt = m.CreatedAt
	return nil
}

func (r *GenerationAttemptRepositoryImpl) FindBySession(ctx context.Context, sessionId string) ([]*entity.GenerationAttempt, error) {
	var models []*model.GenerationAttempt
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	attempts := make([]*entity.GenerationAttempt, len(models))
	for i, m := range models {
		attempts[i] = &entity.GenerationAttempt{
			Id:        m.Id,
			SessionId: m.SessionId,
			Snapshot:  []byte(m.Snapshot),
			Output:    m.Output,
			Success:   m.Success,
			CreatedAt: m.CreatedAt,
		}
	}
	return attempts, nil
}
