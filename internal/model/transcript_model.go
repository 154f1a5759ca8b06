package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TranscriptEntry struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId string    `gorm:"type:varchar(64);not null;index"`
	Role      string    `gorm:"type:varchar(16);not null"`
	Content   string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (TranscriptEntry) TableName() string {
	return "transcript_entries"
}

type GenerationAttempt struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId string         `gorm:"type:varchar(64);not null;index"`
	Snapshot  datatypes.JSON `gorm:"type:jsonb"`
	Output    string         `gorm:"type:text"`
	Success   bool           `gorm:"not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (GenerationAttempt) TableName() string {
	return "generation_attempts"
}
