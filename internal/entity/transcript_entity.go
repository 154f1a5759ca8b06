package entity

import (
	"time"

	"github.com/google/uuid"
)

// TranscriptEntry is one persisted chat message of a wizard session.
type TranscriptEntry struct {
	Id        uuid.UUID
	SessionId string
	Role      string
	Content   string
	CreatedAt time.Time
}

// GenerationAttempt records one script generation with its full input
// snapshot so failed or disputed outputs can be audited.
type GenerationAttempt struct {
	Id        uuid.UUID
	SessionId string
	Snapshot  []byte // JSON: answers, retrieved context, prompt
	Output    string
	Success   bool
	CreatedAt time.Time
}
