package dto

import (
	"time"

	"security-training-be/pkg/script"
	"security-training-be/pkg/store"
)

type CreateSessionResponse struct {
	SessionId string `json:"session_id"`
	Reply     string `json:"reply"`
	Stage     string `json:"stage"`
}

type SendMessageRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Message   string `json:"message" validate:"required"`
}

type SendMessageResponse struct {
	SessionId   string `json:"session_id"`
	Reply       string `json:"reply"`
	Stage       string `json:"stage"`
	ScriptReady bool   `json:"script_ready"`
}

type ChatMessageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type GetHistoryResponse struct {
	SessionId string                `json:"session_id"`
	Stage     string                `json:"stage"`
	Messages  []ChatMessageResponse `json:"messages"`
}

type SummaryEntryResponse struct {
	QuestionId string `json:"question_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

type GetSummaryResponse struct {
	SessionId string                 `json:"session_id"`
	Stage     string                 `json:"stage"`
	Answered  int                    `json:"answered"`
	Entries   []SummaryEntryResponse `json:"entries"`
}

type CustomizeSectionRequest struct {
	SessionId  string `json:"session_id" validate:"required"`
	SectionKey string `json:"section_key" validate:"required"`
	Request    string `json:"request" validate:"required"`
}

type CustomizeSectionResponse struct {
	SessionId  string `json:"session_id"`
	SectionKey string `json:"section_key"`
	Reply      string `json:"reply"`
}

type GetScriptResponse struct {
	SessionId string `json:"session_id"`
	Text      string `json:"text"`
}

type ExportScriptResponse struct {
	SessionId string            `json:"session_id"`
	Script    script.Export     `json:"script"`
	Sources   []store.SourceRef `json:"sources,omitempty"`
}
