package service

import (
	"context"

	"security-training-be/internal/dto"
	"security-training-be/internal/repository/contract"
)

type IKnowledgeService interface {
	Ingest(ctx context.Context, req *dto.IngestBatchRequest) (*dto.IngestQueuedResponse, error)
	Count(ctx context.Context, collection string) (*dto.KnowledgeCountResponse, error)
}

// knowledgeService accepts documents for the knowledge base. Embedding and
// storage happen asynchronously in the consumer, so ingestion returns as
// soon as the batch is queued.
type knowledgeService struct {
	publisher     IPublisherService
	knowledgeRepo contract.KnowledgeRepository
}

func NewKnowledgeService(publisher IPublisherService, knowledgeRepo contract.KnowledgeRepository) IKnowledgeService {
	return &knowledgeService{
		publisher:     publisher,
		knowledgeRepo: knowledgeRepo,
	}
}

func (s *knowledgeService) Ingest(ctx context.Context, req *dto.IngestBatchRequest) (*dto.IngestQueuedResponse, error) {
	if err := s.publisher.PublishIngest(req.Documents); err != nil {
		return nil, err
	}
	return &dto.IngestQueuedResponse{Queued: len(req.Documents)}, nil
}

func (s *knowledgeService) Count(ctx context.Context, collection string) (*dto.KnowledgeCountResponse, error) {
	count, err := s.knowledgeRepo.CountByCollection(ctx, collection)
	if err != nil {
		return nil, err
	}
	return &dto.KnowledgeCountResponse{Collection: collection, Count: count}, nil
}
