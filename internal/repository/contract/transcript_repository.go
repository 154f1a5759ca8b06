package contract

import (
	"context"

	"security-training-be/internal/entity"
)

type TranscriptRepository interface {
	Append(ctx context.Context, e *entity.TranscriptEntry) error
	FindBySession(ctx context.Context, sessionId string) ([]*entity.TranscriptEntry, error)
}

type GenerationAttemptRepository interface {
	Create(ctx context.Context, attempt *entity.GenerationAttempt) error
	FindBySession(ctx context.Context, sessionId string) ([]*entity.GenerationAttempt, error)
}
