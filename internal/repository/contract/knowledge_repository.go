package contract

import (
	"context"

	"security-training-be/internal/entity"
)

// SearchFilter narrows a similarity search by document metadata. Empty
// fields match everything.
type SearchFilter struct {
	DocType    string
	ThreatType string
}

// ScoredKnowledgeDocument pairs a document with its cosine similarity to
// the query vector.
type ScoredKnowledgeDocument struct {
	Document   *entity.KnowledgeDocument
	Similarity float64
}

type KnowledgeRepository interface {
	Create(ctx context.Context, doc *entity.KnowledgeDocument) error
	CreateBulk(ctx context.Context, docs []*entity.KnowledgeDocument) error
	SearchSimilarWithScore(ctx context.Context, collection string, embedding []float32, filter SearchFilter, limit int) ([]*ScoredKnowledgeDocument, error)
	CountByCollection(ctx context.Context, collection string) (int64, error)
}
