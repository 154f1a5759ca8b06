package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"security-training-be/internal/constant"
	"security-training-be/internal/dto"
	"security-training-be/internal/entity"
	"security-training-be/internal/pkg/logger"
	"security-training-be/internal/repository/contract"
	"security-training-be/internal/repository/memory"
	"security-training-be/pkg/dialogue"
	"security-training-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	confirmationRe = regexp.MustCompile(constant.WizardConfirmationPattern)
	showScriptRe   = regexp.MustCompile(constant.WizardShowScriptPattern)
)

// scriptGenerator is the slice of the generation orchestrator the wizard
// needs.
type scriptGenerator interface {
	Generate(ctx context.Context, session *store.Session) error
	CustomizeSection(ctx context.Context, session *store.Session, sectionKey, request string) error
}

type IWizardService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetHistory(ctx context.Context, sessionId string) (*dto.GetHistoryResponse, error)
	GetSummary(ctx context.Context, sessionId string) (*dto.GetSummaryResponse, error)
	GetScript(ctx context.Context, sessionId string) (*dto.GetScriptResponse, error)
	ExportScript(ctx context.Context, sessionId string) (*dto.ExportScriptResponse, error)
	CustomizeSection(ctx context.Context, req *dto.CustomizeSectionRequest) (*dto.CustomizeSectionResponse, error)
	DeleteSession(ctx context.Context, sessionId string) error
	ExpireSessions(maxAge time.Duration) int
}

type wizardService struct {
	sessions       *memory.SessionRepository
	generator      scriptGenerator
	transcriptRepo contract.TranscriptRepository
	attemptRepo    contract.GenerationAttemptRepository
	logger         logger.ILogger
	chatLogger     logger.ILogger
}

func NewWizardService(
	sessions *memory.SessionRepository,
	generator scriptGenerator,
	transcriptRepo contract.TranscriptRepository,
	attemptRepo contract.GenerationAttemptRepository,
	sysLogger logger.ILogger,
	chatLogger logger.ILogger,
) IWizardService {
	return &wizardService{
		sessions:       sessions,
		generator:      generator,
		transcriptRepo: transcriptRepo,
		attemptRepo:    attemptRepo,
		logger:         sysLogger,
		chatLogger:     chatLogger,
	}
}

// CreateSession starts a new wizard dialogue. The greeting and the first
// context question go out together so the client renders one opening turn.
func (s *wizardService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	session := &store.Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Dialogue:  dialogue.Start(),
	}
	dialogue.Advance(&session.Dialogue)

	reply := constant.WizardIntroduction
	if q := dialogue.NextQuestion(&session.Dialogue); q != nil {
		reply += "\n\n" + q.Prompt
	}
	s.appendMessage(ctx, session, constant.MessageRoleAssistant, reply)

	s.sessions.Save(session)
	s.logger.Info("wizard", "session created", map[string]interface{}{
		"session_id": session.ID,
	})

	return &dto.CreateSessionResponse{
		SessionId: session.ID,
		Reply:     reply,
		Stage:     session.Dialogue.Stage,
	}, nil
}

// SendMessage runs one dialogue turn. An unknown session id is answered
// with a notice instead of an error so the client can surface it verbatim.
func (s *wizardService) SendMessage(ctx context.Context, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	defer s.sessions.Lock(req.SessionId)()

	session, ok := s.sessions.Get(req.SessionId)
	if !ok {
		return &dto.SendMessageResponse{
			SessionId: req.SessionId,
			Reply:     constant.WizardInvalidSessionNotice,
		}, nil
	}

	s.appendMessage(ctx, session, constant.MessageRoleUser, req.Message)
	reply := s.handleStage(ctx, session, req.Message)
	s.appendMessage(ctx, session, constant.MessageRoleAssistant, reply)

	s.sessions.Save(session)

	return &dto.SendMessageResponse{
		SessionId:   session.ID,
		Reply:       reply,
		Stage:       session.Dialogue.Stage,
		ScriptReady: session.Script != nil,
	}, nil
}

func (s *wizardService) handleStage(ctx context.Context, session *store.Session, message string) string {
	st := &session.Dialogue

	switch st.Stage {
	case store.StageIntroduction:
		// CreateSession already advances past this stage; recover anyway.
		dialogue.Advance(st)
		if q := dialogue.NextQuestion(st); q != nil {
			return q.Prompt
		}
		return constant.WizardUnexpectedStateNotice

	case store.StageContextQuestions, store.StageTemplateQuestions:
		q := dialogue.NextQuestion(st)
		if q == nil {
			return constant.WizardUnexpectedStateNotice
		}
		dialogue.RecordAnswer(st, q.ID, message)
		dialogue.Advance(st)

		if next := dialogue.NextQuestion(st); next != nil {
			return next.Prompt
		}
		if st.Stage == store.StageSummary {
			return renderSummary(st)
		}
		return constant.WizardUnexpectedStateNotice

	case store.StageSummary:
		if confirmationRe.MatchString(strings.ToLower(message)) {
			return s.generate(ctx, session)
		}
		// Anything else is an amendment. It lands with the free-form
		// scenario notes and the summary is shown again for confirmation.
		amended := message
		if prev := st.Answers[dialogue.QuestionScenarios]; strings.TrimSpace(prev) != "" {
			amended = prev + "\n" + message
		}
		dialogue.RecordAnswer(st, dialogue.QuestionScenarios, amended)
		return renderSummary(st)

	case store.StageComplete:
		if session.Script == nil {
			if confirmationRe.MatchString(strings.ToLower(message)) {
				return s.generate(ctx, session)
			}
			return constant.WizardNoScriptNotice
		}
		if showScriptRe.MatchString(strings.ToLower(message)) {
			return constant.WizardShowScriptPrefix + session.Script.Render()
		}
		return constant.WizardGenerationSucceededNotice

	default:
		s.logger.Warn("wizard", "session in unknown stage", map[string]interface{}{
			"session_id": session.ID,
			"stage":      st.Stage,
		})
		return constant.WizardUnexpectedStateNotice
	}
}

// generate runs the full pipeline and persists the attempt either way. The
// orchestrator rolls the dialogue back to the summary stage on failure, so
// an affirmative follow-up message retries with the answers intact.
func (s *wizardService) generate(ctx context.Context, session *store.Session) string {
	err := s.generator.Generate(ctx, session)
	s.recordAttempt(ctx, session, err)

	if err != nil {
		return constant.WizardGenerationFailedNotice
	}
	return constant.WizardGenerationSucceededNotice
}

func (s *wizardService) recordAttempt(ctx context.Context, session *store.Session, genErr error) {
	attempt := &entity.GenerationAttempt{
		Id:        uuid.New(),
		SessionId: session.ID,
		Success:   genErr == nil,
		CreatedAt: time.Now(),
	}

	if genErr == nil && session.Generation != nil {
		attempt.Snapshot, _ = json.Marshal(map[string]interface{}{
			"answers":           session.Generation.Answers,
			"retrieved_context": session.Generation.RetrievedContext,
			"prompt":            session.Generation.Prompt,
		})
		attempt.Output = session.Script.Render()
	} else {
		attempt.Snapshot, _ = json.Marshal(map[string]interface{}{
			"answers": session.Dialogue.Answers,
		})
	}

	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		s.logger.Error("wizard", "failed to persist generation attempt", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
	}
}

func renderSummary(st *store.DialogueState) string {
	summary := dialogue.Summarize(st)

	var b strings.Builder
	b.WriteString(constant.WizardSummaryHeader)
	b.WriteString("\n\n")
	for _, e := range summary.Entries {
		b.WriteString("- ")
		b.WriteString(e.Question)
		b.WriteString("\n  ")
		b.WriteString(e.Answer)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(constant.WizardSummaryConfirmQuestion)
	return b.String()
}

func (s *wizardService) GetHistory(ctx context.Context, sessionId string) (*dto.GetHistoryResponse, error) {
	defer s.sessions.Lock(sessionId)()

	session, ok := s.sessions.Get(sessionId)
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "session not found")
	}

	messages := make([]dto.ChatMessageResponse, 0, len(session.Messages))
	for _, m := range session.Messages {
		messages = append(messages, dto.ChatMessageResponse{
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}

	return &dto.GetHistoryResponse{
		SessionId: session.ID,
		Stage:     session.Dialogue.Stage,
		Messages:  messages,
	}, nil
}

func (s *wizardService) GetSummary(ctx context.Context, sessionId string) (*dto.GetSummaryResponse, error) {
	defer s.sessions.Lock(sessionId)()

	session, ok := s.sessions.Get(sessionId)
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "session not found")
	}

	summary := dialogue.Summarize(&session.Dialogue)
	entries := make([]dto.SummaryEntryResponse, 0, len(summary.Entries))
	for _, e := range summary.Entries {
		entries = append(entries, dto.SummaryEntryResponse{
			QuestionId: e.QuestionID,
			Question:   e.Question,
			Answer:     e.Answer,
		})
	}

	return &dto.GetSummaryResponse{
		SessionId: session.ID,
		Stage:     summary.Stage,
		Answered:  summary.Answered,
		Entries:   entries,
	}, nil
}

func (s *wizardService) GetScript(ctx context.Context, sessionId string) (*dto.GetScriptResponse, error) {
	defer s.sessions.Lock(sessionId)()

	session, ok := s.sessions.Get(sessionId)
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	if session.Script == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "no script generated yet")
	}

	return &dto.GetScriptResponse{
		SessionId: session.ID,
		Text:      session.Script.Render(),
	}, nil
}

func (s *wizardService) ExportScript(ctx context.Context, sessionId string) (*dto.ExportScriptResponse, error) {
	defer s.sessions.Lock(sessionId)()

	session, ok := s.sessions.Get(sessionId)
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	if session.Script == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "no script generated yet")
	}

	res := &dto.ExportScriptResponse{
		SessionId: session.ID,
		Script:    session.Script.Export(),
	}
	if session.Generation != nil {
		res.Sources = session.Generation.Sources
	}
	return res, nil
}

func (s *wizardService) CustomizeSection(ctx context.Context, req *dto.CustomizeSectionRequest) (*dto.CustomizeSectionResponse, error) {
	defer s.sessions.Lock(req.SessionId)()

	session, ok := s.sessions.Get(req.SessionId)
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	if session.Script == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "no script generated yet")
	}
	section, ok := session.Script.Section(req.SectionKey)
	if !ok {
		return nil, fiber.NewError(fiber.StatusBadRequest, "unknown section key")
	}

	s.appendMessage(ctx, session, constant.MessageRoleUser, req.Request)

	if err := s.generator.CustomizeSection(ctx, session, req.SectionKey, req.Request); err != nil {
		reply := constant.WizardGenerationFailedNotice
		s.appendMessage(ctx, session, constant.MessageRoleAssistant, reply)
		s.sessions.Save(session)
		return nil, fiber.NewError(fiber.StatusBadGateway, "section customization failed")
	}

	reply := fmt.Sprintf(constant.WizardCustomizedNoticeFormat, section.Title)
	s.appendMessage(ctx, session, constant.MessageRoleAssistant, reply)
	s.sessions.Save(session)

	return &dto.CustomizeSectionResponse{
		SessionId:  session.ID,
		SectionKey: req.SectionKey,
		Reply:      reply,
	}, nil
}

func (s *wizardService) DeleteSession(ctx context.Context, sessionId string) error {
	defer s.sessions.Lock(sessionId)()

	if _, ok := s.sessions.Get(sessionId); !ok {
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	s.sessions.Delete(sessionId)
	return nil
}

// ExpireSessions sweeps idle sessions and reports how many were removed.
func (s *wizardService) ExpireSessions(maxAge time.Duration) int {
	removed := s.sessions.ExpireOlderThan(maxAge)
	if removed > 0 {
		s.logger.Info("wizard", "expired idle sessions", map[string]interface{}{
			"removed": removed,
		})
	}
	return removed
}

// appendMessage keeps the three transcript targets in step: the in-memory
// session, the durable transcript table and the isolated chat log. The
// durable writes are best effort; a database hiccup never breaks the
// conversation.
func (s *wizardService) appendMessage(ctx context.Context, session *store.Session, role, content string) {
	session.Messages = append(session.Messages, store.Message{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})

	s.chatLogger.Info("chat", content, map[string]interface{}{
		"session_id": session.ID,
		"role":       role,
	})

	entry := &entity.TranscriptEntry{
		Id:        uuid.New(),
		SessionId: session.ID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.transcriptRepo.Append(ctx, entry); err != nil {
		s.logger.Warn("wizard", "failed to persist transcript entry", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
	}
}
