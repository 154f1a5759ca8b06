package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type KnowledgeDocument struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Collection string          `gorm:"type:varchar(64);not null;index"`
	Title      string          `gorm:"type:text"`
	Content    string          `gorm:"type:text"`
	Source     string          `gorm:"type:text"`
	DocType    string          `gorm:"type:varchar(64);index"`
	ThreatType string          `gorm:"type:varchar(64);index"`
	Embedding  pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text uses 768 dimensions
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
}

func (KnowledgeDocument) TableName() string {
	return "knowledge_documents"
}
