package store

import (
	"time"

	"security-training-be/pkg/script"
)

// Dialogue stages. Forward-only, one terminal state.
const (
	StageIntroduction      = "introduction"
	StageContextQuestions  = "context_questions"
	StageTemplateQuestions = "template_questions"
	StageSummary           = "summary"
	StageComplete          = "complete"
)

// Message is one entry of a session transcript.
type Message struct {
	Role      string    `json:"role"` // "user" | "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Document represents a retrieved knowledge snippet in a provider-agnostic
// shape, scored by similarity (higher = more relevant).
type Document struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	Source     string  `json:"source"`
	Collection string  `json:"collection"`
	ThreatType string  `json:"threat_type,omitempty"`
	Similarity float64 `json:"similarity"`
}

// SourceRef ties generated output back to one contributing document.
type SourceRef struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Source     string  `json:"source"`
	Type       string  `json:"type"`
	Subtype    string  `json:"subtype,omitempty"`
	Similarity float64 `json:"similarity"`
}

// DialogueState tracks one session's progress through the question stages.
// The question id list and section key list are frozen at session start so
// catalog changes never shift an in-flight dialogue.
type DialogueState struct {
	Stage        string            `json:"stage"`
	StepIndex    int               `json:"step_index"`
	SectionIndex int               `json:"section_index"`
	QuestionIDs  []string          `json:"question_ids"`
	SectionKeys  []string          `json:"section_keys"`
	Answers      map[string]string `json:"answers"`
	LastUpdated  time.Time         `json:"last_updated"`
}

// GenerationRecord is the snapshot kept after a successful generation for
// audit and section customization.
type GenerationRecord struct {
	Answers          map[string]string `json:"answers"`
	RetrievedContext string            `json:"retrieved_context"`
	Prompt           string            `json:"prompt"`
	Sources          []SourceRef       `json:"sources"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

// Session is the in-memory state of one wizard interaction.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Messages []Message     `json:"messages"`
	Dialogue DialogueState `json:"dialogue"`

	// Set only after a generation attempt succeeds.
	Script     *script.Document  `json:"script,omitempty"`
	Generation *GenerationRecord `json:"generation,omitempty"`
}
