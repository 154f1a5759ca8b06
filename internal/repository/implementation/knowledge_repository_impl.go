package implementation

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"security-training-be/internal/entity"
	"security-training-be/internal/model"
	"security-training-be/internal/repository/contract"
)

type KnowledgeRepositoryImpl struct {
	db *gorm.DB
}

func NewKnowledgeRepository(db *gorm.DB) contract.KnowledgeRepository {
	return &KnowledgeRepositoryImpl{db: db}
}

func toKnowledgeModel(e *entity.KnowledgeDocument) *model.KnowledgeDocument {
	return &model.KnowledgeDocument{
		Id:         e.Id,
		Collection: e.Collection,
		Title:      e.Title,
		Content:    e.Content,
		Source:     e.Source,
		DocType:    e.DocType,
		ThreatType: e.ThreatType,
		Embedding:  pgvector.NewVector(e.Embedding),
		CreatedAt:  e.CreatedAt,
	}
}

func toKnowledgeEntity(m *model.KnowledgeDocument) *entity.KnowledgeDocument {
	return &entity.KnowledgeDocument{
		Id:         m.Id,
		Collection: m.Collection,
		Title:      m.Title,
		Content:    m.Content,
		Source:     m.Source,
		DocType:    m.DocType,
		ThreatType: m.ThreatType,
		Embedding:  m.Embedding.Slice(),
		CreatedAt:  m.CreatedAt,
	}
}

func (r *KnowledgeRepositoryImpl) Create(ctx context.Context, doc *entity.KnowledgeDocument) error {
	m := toKnowledgeModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *toKnowledgeEntity(m)
	return nil
}

func (r *KnowledgeRepositoryImpl) CreateBulk(ctx context.Context, docs []*entity.KnowledgeDocument) error {
	if len(docs) == 0 {
		return nil
	}
	models := make([]*model.KnowledgeDocument, len(docs))
	for i, d := range docs {
		models[i] = toKnowledgeModel(d)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*docs[i] = *toKnowledgeEntity(m)
	}
	return nil
}

// SearchSimilarWithScore ranks one collection by cosine similarity.
// pgvector's <=> operator is cosine distance, so similarity is
// 1 - (embedding <=> query).
func (r *KnowledgeRepositoryImpl) SearchSimilarWithScore(ctx context.Context, collection string, embedding []float32, filter contract.SearchFilter, limit int) ([]*contract.ScoredKnowledgeDocument, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.KnowledgeDocument
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("knowledge_documents").
		Select("knowledge_documents.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("collection = ?", collection)

	if filter.DocType != "" {
		query = query.Where("doc_type = ?", filter.DocType)
	}
	if filter.ThreatType != "" {
		query = query.Where("threat_type = ?", filter.ThreatType)
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredKnowledgeDocument, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredKnowledgeDocument{
			Document:   toKnowledgeEntity(&res.KnowledgeDocument),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *KnowledgeRepositoryImpl) CountByCollection(ctx context.Context, collection string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.KnowledgeDocument{}).
		Where("collection = ?", collection).
		Count(&count).Error
	return count, err
}
