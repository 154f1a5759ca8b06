package entity

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeDocument is one retrievable snippet of the knowledge base. The
// Collection groups documents into the three logical stores: papers,
// templates, threats.
type KnowledgeDocument struct {
	Id         uuid.UUID
	Collection string
	Title      string
	Content    string
	Source     string
	DocType    string
	ThreatType string
	Embedding  []float32
	CreatedAt  time.Time
}
