package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"security-training-be/internal/constant"
	"security-training-be/internal/dto"
	"security-training-be/internal/entity"
	"security-training-be/internal/repository/memory"
	"security-training-be/pkg/dialogue"
	"security-training-be/pkg/script"
	"security-training-be/pkg/store"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeGenerator struct {
	fail           bool
	generateCalls  int
	customizeCalls int
}

func (g *fakeGenerator) Generate(ctx context.Context, session *store.Session) error {
	g.generateCalls++
	if g.fail {
		dialogue.Rollback(&session.Dialogue)
		return fmt.Errorf("llm unavailable")
	}

	raw := "Einleitung.\n"
	for _, s := range script.Sections() {
		raw += fmt.Sprintf("## %s\nInhalt zu %s.\n", s.Title, s.Key)
	}
	session.Script = script.New("Schulungsskript", raw, script.Metadata{GeneratedAt: time.Now()})
	for session.Dialogue.Stage != store.StageComplete {
		dialogue.Advance(&session.Dialogue)
	}
	session.Generation = &store.GenerationRecord{
		Answers:          session.Dialogue.Answers,
		RetrievedContext: "CTX",
		Prompt:           "PROMPT",
		GeneratedAt:      time.Now(),
	}
	return nil
}

func (g *fakeGenerator) CustomizeSection(ctx context.Context, session *store.Session, sectionKey, request string) error {
	g.customizeCalls++
	return session.Script.ReplaceSection(sectionKey, "Angepasster Inhalt: "+request)
}

type memTranscriptRepo struct {
	entries []*entity.TranscriptEntry
}

func (r *memTranscriptRepo) Append(ctx context.Context, e *entity.TranscriptEntry) error {
	r.entries = append(r.entries, e)
	return nil
}

func (r *memTranscriptRepo) FindBySession(ctx context.Context, sessionId string) ([]*entity.TranscriptEntry, error) {
	var out []*entity.TranscriptEntry
	for _, e := range r.entries {
		if e.SessionId == sessionId {
			out = append(out, e)
		}
	}
	return out, nil
}

type memAttemptRepo struct {
	attempts []*entity.GenerationAttempt
}

func (r *memAttemptRepo) Create(ctx context.Context, a *entity.GenerationAttempt) error {
	r.attempts = append(r.attempts, a)
	return nil
}

func (r *memAttemptRepo) FindBySession(ctx context.Context, sessionId string) ([]*entity.GenerationAttempt, error) {
	return r.attempts, nil
}

type wizardFixture struct {
	svc         IWizardService
	sessions    *memory.SessionRepository
	generator   *fakeGenerator
	transcripts *memTranscriptRepo
	attempts    *memAttemptRepo
}

func newWizardFixture() *wizardFixture {
	f := &wizardFixture{
		sessions:    memory.NewSessionRepository(),
		generator:   &fakeGenerator{},
		transcripts: &memTranscriptRepo{},
		attempts:    &memAttemptRepo{},
	}
	f.svc = NewWizardService(f.sessions, f.generator, f.transcripts, f.attempts, nopLogger{}, nopLogger{})
	return f
}

func (f *wizardFixture) send(t *testing.T, sessionId, message string) *dto.SendMessageResponse {
	t.Helper()
	res, err := f.svc.SendMessage(context.Background(), &dto.SendMessageRequest{
		SessionId: sessionId,
		Message:   message,
	})
	require.NoError(t, err)
	return res
}

var contextAnswers = []string{
	"Krankenhaus",
	"Pflegepersonal, Ärzte",
	"45",
	"Phishing, Malware",
	"Mittel",
	"DSGVO",
	"Keine besonderen Szenarien",
}

// answerUpToSummary walks a fresh session through all questions.
func (f *wizardFixture) answerUpToSummary(t *testing.T) string {
	t.Helper()
	created, err := f.svc.CreateSession(context.Background())
	require.NoError(t, err)

	var last *dto.SendMessageResponse
	for _, a := range contextAnswers {
		last = f.send(t, created.SessionId, a)
	}
	require.Equal(t, store.StageTemplateQuestions, last.Stage)

	for i := 0; i < len(script.SectionKeys()); i++ {
		last = f.send(t, created.SessionId, fmt.Sprintf("Antwort zu Abschnitt %d", i+1))
	}
	require.Equal(t, store.StageSummary, last.Stage)
	return created.SessionId
}

func TestCreateSessionGreetsAndAsksFirstQuestion(t *testing.T) {
	f := newWizardFixture()

	res, err := f.svc.CreateSession(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, res.SessionId)
	assert.Equal(t, store.StageContextQuestions, res.Stage)
	assert.Contains(t, res.Reply, "Willkommen!")
	assert.Contains(t, res.Reply, "In welcher medizinischen Einrichtung sollen die Schulungen umgesetzt werden?")
}

func TestFullWizardWalkthrough(t *testing.T) {
	f := newWizardFixture()

	created, err := f.svc.CreateSession(context.Background())
	require.NoError(t, err)
	id := created.SessionId

	// The seven context questions in catalog order.
	res := f.send(t, id, contextAnswers[0])
	assert.Equal(t, store.StageContextQuestions, res.Stage)
	assert.Contains(t, res.Reply, "Welche Personengruppen sollen geschult werden?")

	for _, a := range contextAnswers[1:] {
		res = f.send(t, id, a)
	}

	// First section question, parametrized from the recorded answers.
	assert.Equal(t, store.StageTemplateQuestions, res.Stage)
	assert.Contains(t, res.Reply, "Krankenhaus")
	assert.Contains(t, res.Reply, "Phishing")

	for i := 0; i < len(script.SectionKeys()); i++ {
		res = f.send(t, id, fmt.Sprintf("Abschnittsantwort %d", i+1))
	}

	// Summary with the recorded answers, asking for confirmation.
	assert.Equal(t, store.StageSummary, res.Stage)
	assert.Contains(t, res.Reply, constant.WizardSummaryHeader)
	assert.Contains(t, res.Reply, "Krankenhaus")
	assert.Contains(t, res.Reply, constant.WizardSummaryConfirmQuestion)
	assert.False(t, res.ScriptReady)

	// Confirmation triggers generation.
	res = f.send(t, id, "Ja, bitte erstellen")
	assert.Equal(t, store.StageComplete, res.Stage)
	assert.True(t, res.ScriptReady)
	assert.Equal(t, constant.WizardGenerationSucceededNotice, res.Reply)
	assert.Equal(t, 1, f.generator.generateCalls)

	// Attempt persisted with the full snapshot.
	require.Len(t, f.attempts.attempts, 1)
	attempt := f.attempts.attempts[0]
	assert.True(t, attempt.Success)
	assert.Contains(t, string(attempt.Snapshot), "retrieved_context")
	assert.NotEmpty(t, attempt.Output)

	// Follow-up: show the script.
	res = f.send(t, id, "Bitte zeigen")
	assert.Contains(t, res.Reply, constant.WizardShowScriptPrefix)
	assert.Contains(t, res.Reply, "# Schulungsskript")
}

func TestSummaryAmendmentKeepsSummaryStage(t *testing.T) {
	f := newWizardFixture()
	id := f.answerUpToSummary(t)

	res := f.send(t, id, "Bitte mehr Praxisbeispiele zur Stationsarbeit")
	assert.Equal(t, store.StageSummary, res.Stage)
	assert.Contains(t, res.Reply, constant.WizardSummaryHeader)
	assert.Equal(t, 0, f.generator.generateCalls)

	session, ok := f.sessions.Get(id)
	require.True(t, ok)
	assert.Contains(t, session.Dialogue.Answers[dialogue.QuestionScenarios],
		"Bitte mehr Praxisbeispiele zur Stationsarbeit")
}

func TestGenerationFailureRollsBackAndRetries(t *testing.T) {
	f := newWizardFixture()
	f.generator.fail = true
	id := f.answerUpToSummary(t)

	res := f.send(t, id, "ok, generieren")
	assert.Equal(t, store.StageSummary, res.Stage)
	assert.False(t, res.ScriptReady)
	assert.Equal(t, constant.WizardGenerationFailedNotice, res.Reply)

	require.Len(t, f.attempts.attempts, 1)
	assert.False(t, f.attempts.attempts[0].Success)

	// Answers survive; an affirmative follow-up retries.
	f.generator.fail = false
	res = f.send(t, id, "ja")
	assert.Equal(t, store.StageComplete, res.Stage)
	assert.True(t, res.ScriptReady)
	assert.Equal(t, 2, f.generator.generateCalls)
}

func TestUnknownSessionGetsNotice(t *testing.T) {
	f := newWizardFixture()

	res := f.send(t, "does-not-exist", "Hallo")
	assert.Equal(t, constant.WizardInvalidSessionNotice, res.Reply)
	assert.False(t, res.ScriptReady)
}

func TestScriptEndpointsAfterGeneration(t *testing.T) {
	f := newWizardFixture()
	id := f.answerUpToSummary(t)
	f.send(t, id, "ja")

	scriptRes, err := f.svc.GetScript(context.Background(), id)
	require.NoError(t, err)
	assert.Contains(t, scriptRes.Text, "# Schulungsskript")

	export, err := f.svc.ExportScript(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, export.Script.Sections, len(script.SectionKeys()))

	summary, err := f.svc.GetSummary(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, store.StageComplete, summary.Stage)
	assert.NotEmpty(t, summary.Entries)

	history, err := f.svc.GetHistory(context.Background(), id)
	require.NoError(t, err)
	assert.NotEmpty(t, history.Messages)
	assert.Equal(t, len(history.Messages), len(f.transcripts.entries))
}

func TestScriptEndpointsBeforeGeneration(t *testing.T) {
	f := newWizardFixture()
	created, err := f.svc.CreateSession(context.Background())
	require.NoError(t, err)

	_, err = f.svc.GetScript(context.Background(), created.SessionId)
	assert.Error(t, err)

	_, err = f.svc.ExportScript(context.Background(), created.SessionId)
	assert.Error(t, err)
}

func TestCustomizeSection(t *testing.T) {
	f := newWizardFixture()
	id := f.answerUpToSummary(t)
	f.send(t, id, "ja")

	res, err := f.svc.CustomizeSection(context.Background(), &dto.CustomizeSectionRequest{
		SessionId:  id,
		SectionKey: script.SectionThreatAwareness,
		Request:    "Bitte ein Beispiel aus der Notaufnahme ergänzen",
	})
	require.NoError(t, err)
	assert.Contains(t, res.Reply, "Threat Awareness / Bedrohungsbewusstsein")
	assert.Equal(t, 1, f.generator.customizeCalls)

	session, _ := f.sessions.Get(id)
	section, ok := session.Script.Section(script.SectionThreatAwareness)
	require.True(t, ok)
	assert.Contains(t, section.Body, "Notaufnahme")

	_, err = f.svc.CustomizeSection(context.Background(), &dto.CustomizeSectionRequest{
		SessionId:  id,
		SectionKey: "bogus",
		Request:    "x",
	})
	assert.Error(t, err)
}

func TestDeleteSession(t *testing.T) {
	f := newWizardFixture()
	created, err := f.svc.CreateSession(context.Background())
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteSession(context.Background(), created.SessionId))
	assert.Error(t, f.svc.DeleteSession(context.Background(), created.SessionId))

	res := f.send(t, created.SessionId, "Hallo")
	assert.Equal(t, constant.WizardInvalidSessionNotice, res.Reply)
}

func TestExpireSessions(t *testing.T) {
	f := newWizardFixture()
	created, err := f.svc.CreateSession(context.Background())
	require.NoError(t, err)

	session, ok := f.sessions.Get(created.SessionId)
	require.True(t, ok)
	session.Dialogue.LastUpdated = time.Now().Add(-3 * time.Hour)

	assert.Equal(t, 1, f.svc.ExpireSessions(2*time.Hour))
	_, ok = f.sessions.Get(created.SessionId)
	assert.False(t, ok)
}
