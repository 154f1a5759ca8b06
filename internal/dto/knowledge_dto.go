package dto

type IngestDocumentRequest struct {
	Collection string `json:"collection" validate:"required,oneof=papers templates threats"`
	Title      string `json:"title" validate:"required"`
	Content    string `json:"content" validate:"required"`
	Source     string `json:"source,omitempty"`
	DocType    string `json:"doc_type,omitempty"`
	ThreatType string `json:"threat_type,omitempty"`
}

type IngestBatchRequest struct {
	Documents []IngestDocumentRequest `json:"documents" validate:"required,min=1,dive"`
}

type IngestQueuedResponse struct {
	Queued int `json:"queued"`
}

type KnowledgeCountResponse struct {
	Collection string `json:"collection"`
	Count      int64  `json:"count"`
}

// PublishIngestMessage is the watermill payload for the async embedding
// pipeline.
type PublishIngestMessage struct {
	Documents []IngestDocumentRequest `json:"documents"`
}
