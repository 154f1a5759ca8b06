package search

import (
	"context"
	"fmt"

	"security-training-be/internal/pkg/logger"
	"security-training-be/internal/repository/contract"
	"security-training-be/pkg/embedding"
	"security-training-be/pkg/store"
)

// The three logical knowledge collections.
const (
	CollectionPapers    = "papers"
	CollectionTemplates = "templates"
	CollectionThreats   = "threats"
)

// Collections returns all collection names in their canonical order.
func Collections() []string {
	return []string{CollectionPapers, CollectionTemplates, CollectionThreats}
}

// Filter narrows a search by document metadata.
type Filter struct {
	DocType    string
	ThreatType string
}

// Searcher is the retrieval contract the generation pipeline depends on.
type Searcher interface {
	Search(ctx context.Context, collection, query string, filter Filter, limit int) ([]store.Document, error)
	SearchAll(ctx context.Context, query string, limitPerCollection int) (map[string][]store.Document, error)
}

// Gateway embeds the query text and runs cosine-similarity search against
// the pgvector-backed knowledge store.
type Gateway struct {
	embeddingProvider embedding.EmbeddingProvider
	knowledgeRepo     contract.KnowledgeRepository
	logger            logger.ILogger
}

var _ Searcher = &Gateway{}

func NewGateway(embeddingProvider embedding.EmbeddingProvider, knowledgeRepo contract.KnowledgeRepository, log logger.ILogger) *Gateway {
	return &Gateway{
		embeddingProvider: embeddingProvider,
		knowledgeRepo:     knowledgeRepo,
		logger:            log,
	}
}

func (g *Gateway) Search(ctx context.Context, collection, query string, filter Filter, limit int) ([]store.Document, error) {
	embeddingRes, err := g.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	scored, err := g.knowledgeRepo.SearchSimilarWithScore(
		ctx,
		collection,
		embeddingRes.Embedding.Values,
		contract.SearchFilter{DocType: filter.DocType, ThreatType: filter.ThreatType},
		limit,
	)
	if err != nil {
		g.logger.Error("search", "vector search failed", map[string]interface{}{
			"collection": collection,
			"error":      err.Error(),
		})
		return nil, err
	}

	docs := make([]store.Document, 0, len(scored))
	for _, res := range scored {
		docs = append(docs, store.Document{
			ID:         res.Document.Id.String(),
			Title:      res.Document.Title,
			Content:    res.Document.Content,
			Source:     res.Document.Source,
			Collection: res.Document.Collection,
			ThreatType: res.Document.ThreatType,
			Similarity: res.Similarity,
		})
	}

	g.logger.Debug("search", "collection searched", map[string]interface{}{
		"collection": collection,
		"results":    len(docs),
	})
	return docs, nil
}

// SearchAll queries every collection with the same text. A failing
// collection yields an empty slice instead of failing the whole lookup.
func (g *Gateway) SearchAll(ctx context.Context, query string, limitPerCollection int) (map[string][]store.Document, error) {
	results := make(map[string][]store.Document, 3)
	for _, collection := range Collections() {
		docs, err := g.Search(ctx, collection, query, Filter{}, limitPerCollection)
		if err != nil {
			g.logger.Warn("search", "collection skipped", map[string]interface{}{
				"collection": collection,
				"error":      err.Error(),
			})
			results[collection] = nil
			continue
		}
		results[collection] = docs
	}
	return results, nil
}
