package service

import (
	"encoding/json"

	"security-training-be/internal/dto"
	"security-training-be/internal/pkg/logger"
	"security-training-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPublisherService interface {
	PublishIngest(docs []dto.IngestDocumentRequest) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
	logger    logger.ILogger
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
		logger:    log,
	}
}

func (ps *publisherService) PublishIngest(docs []dto.IngestDocumentRequest) error {
	payload, err := json.Marshal(dto.PublishIngestMessage{Documents: docs})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)

	event := events.NewKnowledgeIngestRequested(collectionOf(docs), len(docs))
	msg.Metadata.Set("event_type", event.EventType())

	if err := ps.pubSub.Publish(ps.topicName, msg); err != nil {
		return err
	}

	ps.logger.Info("publisher", "ingest batch queued", event.Payload())
	return nil
}

// collectionOf labels the batch for logging. Mixed batches are legal; the
// label then reflects only the first document.
func collectionOf(docs []dto.IngestDocumentRequest) string {
	if len(docs) == 0 {
		return ""
	}
	return docs[0].Collection
}
