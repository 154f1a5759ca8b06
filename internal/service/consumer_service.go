package service

import (
	"context"
	"encoding/json"
	"time"

	"security-training-be/internal/dto"
	"security-training-be/internal/entity"
	"security-training-be/internal/pkg/logger"
	"security-training-be/internal/repository/contract"
	"security-training-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	knowledgeRepo     contract.KnowledgeRepository
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	knowledgeRepo contract.KnowledgeRepository,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		knowledgeRepo:     knowledgeRepo,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("consumer", "failed to unmarshal ingest message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	docs := make([]*entity.KnowledgeDocument, 0, len(payload.Documents))
	for i, doc := range payload.Documents {
		res, err := cs.embeddingProvider.Generate(doc.Content, "RETRIEVAL_DOCUMENT")
		if err != nil {
			cs.logger.Error("consumer", "embedding generation failed", map[string]interface{}{
				"index": i,
				"title": doc.Title,
				"error": err.Error(),
			})
			msg.Nack() // Nack for retriable errors
			return
		}

		docs = append(docs, &entity.KnowledgeDocument{
			Id:         uuid.New(),
			Collection: doc.Collection,
			Title:      doc.Title,
			Content:    doc.Content,
			Source:     doc.Source,
			DocType:    doc.DocType,
			ThreatType: doc.ThreatType,
			Embedding:  res.Embedding.Values,
			CreatedAt:  time.Now(),
		})
	}

	if len(docs) > 0 {
		if err := cs.knowledgeRepo.CreateBulk(ctx, docs); err != nil {
			cs.logger.Error("consumer", "failed to store knowledge documents", map[string]interface{}{
				"count": len(docs),
				"error": err.Error(),
			})
			msg.Nack()
			return
		}
	}

	cs.logger.Info("consumer", "ingest batch stored", map[string]interface{}{
		"count": len(docs),
	})
	msg.Ack()
}
