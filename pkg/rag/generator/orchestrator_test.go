package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"security-training-be/pkg/dialogue"
	"security-training-be/pkg/llm"
	"security-training-be/pkg/rag/search"
	"security-training-be/pkg/script"
	"security-training-be/pkg/store"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakeSearcher struct {
	searchCalls    []string
	searchAllQuery string
	failAll        bool
}

func (f *fakeSearcher) Search(_ context.Context, collection, query string, filter search.Filter, limit int) ([]store.Document, error) {
	f.searchCalls = append(f.searchCalls, fmt.Sprintf("%s|%s|%s|%s|%d", collection, query, filter.DocType, filter.ThreatType, limit))
	return []store.Document{{ID: collection + "-1", Title: collection + " doc", Content: "body", Source: "BSI", Similarity: 0.8}}, nil
}

func (f *fakeSearcher) SearchAll(_ context.Context, query string, limit int) (map[string][]store.Document, error) {
	if f.failAll {
		return nil, errors.New("store down")
	}
	f.searchAllQuery = query
	return map[string][]store.Document{
		"papers":    {{ID: "p1", Title: "Paper", Content: "paper body", Source: "BSI", Similarity: 0.9}},
		"templates": {{ID: "t1", Title: "Template", Content: "template body", Source: "intern", Similarity: 0.8}},
		"threats":   {{ID: "th1", Title: "Threat", Content: "threat body", Source: "BSI", Similarity: 0.7}},
	}, nil
}

type fakeLLM struct {
	prompts     []string
	systemSeen  []string
	temps       []float64
	responses   []string
	failEvery   bool
}

func (f *fakeLLM) Chat(_ context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{}
	for _, opt := range opts {
		opt(options)
	}
	if f.failEvery {
		return "", errors.New("model offline")
	}
	if len(history) > 0 {
		f.prompts = append(f.prompts, history[len(history)-1].Content)
	}
	f.systemSeen = append(f.systemSeen, options.SystemPrompt)
	f.temps = append(f.temps, options.Temperature)

	resp := "ok"
	if len(f.responses) > 0 {
		resp = f.responses[0]
		f.responses = f.responses[1:]
	}
	return resp, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func summarySession() *store.Session {
	st := dialogue.Start()
	st.Stage = store.StageSummary
	st.Answers = map[string]string{
		dialogue.QuestionFacilityType: "Krankenhaus",
		dialogue.QuestionAudience:     "Pflegepersonal",
		dialogue.QuestionFocusThreats: "Phishing",
		dialogue.QuestionDuration:     "60",
	}
	return &store.Session{ID: "s1", Dialogue: st}
}

const generatedScript = "Einleitung.\n## Threat Awareness\nKontext.\n## Threat Identification\nMerkmale.\n## Threat Impact\nFolgen.\n## Tactic Choice\nOptionen.\n## Tactic Justification\nGründe.\n## Tactic Mastery\nSchritte.\n## Tactic Check & Follow-Up\nNachkontrolle.\n"

func TestEnrichmentQuery(t *testing.T) {
	answers := map[string]string{
		dialogue.QuestionFacilityType: "Krankenhaus",
		dialogue.QuestionAudience:     "Pflegepersonal",
		dialogue.QuestionFocusThreats: "Phishing",
		dialogue.QuestionDuration:     "60",
	}
	q := EnrichmentQuery(answers)
	assert.Contains(t, q, "Krankenhaus")
	assert.Contains(t, q, "Pflegepersonal")
	assert.Contains(t, q, "Phishing")

	// Deterministic for fixed answers.
	assert.Equal(t, q, EnrichmentQuery(answers))

	empty := EnrichmentQuery(map[string]string{})
	assert.Contains(t, empty, "medical facility")
	assert.Contains(t, empty, "security threats")
	assert.Contains(t, empty, "healthcare staff")
}

func TestGenerateSuccess(t *testing.T) {
	searcher := &fakeSearcher{}
	model := &fakeLLM{responses: []string{generatedScript}}
	o := NewOrchestrator(searcher, model, nopLogger{}, false)

	session := summarySession()
	err := o.Generate(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, store.StageComplete, session.Dialogue.Stage)
	require.NotNil(t, session.Script)
	require.NotNil(t, session.Generation)

	// Enrichment query carried the recorded answers.
	assert.Contains(t, searcher.searchAllQuery, "Krankenhaus")
	assert.Contains(t, searcher.searchAllQuery, "Pflegepersonal")
	assert.Contains(t, searcher.searchAllQuery, "Phishing")

	// Template examples capped at 2, threat detail capped at 2.
	require.Len(t, searcher.searchCalls, 2)
	assert.Contains(t, searcher.searchCalls[0], "templates|")
	assert.Contains(t, searcher.searchCalls[0], "seven_step")
	assert.Contains(t, searcher.searchCalls[0], "|2")
	assert.Contains(t, searcher.searchCalls[1], "threats|Phishing||Phishing|2")

	// One generation call at 0.7 with the fixed persona.
	require.Len(t, model.temps, 1)
	assert.InDelta(t, 0.7, model.temps[0], 1e-9)
	assert.Contains(t, model.systemSeen[0], "Instructional Designer")
	assert.Contains(t, model.prompts[0], "# RETRIEVED CONTENT")
	assert.Contains(t, model.prompts[0], "# SKRIPT ANFANG")

	// All seven sections populated from the sliced output.
	for _, key := range script.SectionKeys() {
		s, ok := session.Script.Section(key)
		require.True(t, ok, key)
		assert.NotEmpty(t, s.Body, key)
	}

	assert.Equal(t, "Phishing", session.Generation.Answers[dialogue.QuestionFocusThreats])
	assert.NotEmpty(t, session.Generation.Sources)
	assert.Contains(t, session.Generation.RetrievedContext, "# SOURCE ATTRIBUTION")
}

func TestGenerateFailureRollsBack(t *testing.T) {
	searcher := &fakeSearcher{}
	model := &fakeLLM{failEvery: true}
	o := NewOrchestrator(searcher, model, nopLogger{}, false)

	session := summarySession()
	err := o.Generate(context.Background(), session)
	require.Error(t, err)

	assert.Equal(t, store.StageSummary, session.Dialogue.Stage)
	assert.Nil(t, session.Script)
	assert.Nil(t, session.Generation)

	// Answers survive for a retry.
	assert.Equal(t, "Krankenhaus", session.Dialogue.Answers[dialogue.QuestionFacilityType])
}

func TestGenerateRetrievalFailureRollsBack(t *testing.T) {
	searcher := &fakeSearcher{failAll: true}
	model := &fakeLLM{}
	o := NewOrchestrator(searcher, model, nopLogger{}, false)

	session := summarySession()
	err := o.Generate(context.Background(), session)
	require.Error(t, err)
	assert.Equal(t, store.StageSummary, session.Dialogue.Stage)
	assert.Nil(t, session.Script)
	assert.Empty(t, model.prompts)
}

func TestGenerateWithHallucinationCheck(t *testing.T) {
	searcher := &fakeSearcher{}
	model := &fakeLLM{responses: []string{
		generatedScript,
		"```json\n{\"has_hallucinations\": true, \"hallucinations\": [{\"text\": \"90% aller Angriffe\", \"reason\": \"nicht belegt\", \"correction\": \"Anteil unbekannt\"}]}\n```",
	}}
	o := NewOrchestrator(searcher, model, nopLogger{}, true)

	session := summarySession()
	require.NoError(t, o.Generate(context.Background(), session))

	require.Len(t, model.temps, 2)
	assert.InDelta(t, 0.2, model.temps[1], 1e-9)

	require.NotNil(t, session.Script)
	assert.Contains(t, session.Script.Caveats, "Hinweis zu möglichen Halluzinationen")
	assert.Contains(t, session.Script.Caveats, "90% aller Angriffe")
	assert.Contains(t, session.Script.Render(), "Hinweis zu möglichen Halluzinationen")
}

func TestHallucinationCheckDegradesOnGarbage(t *testing.T) {
	searcher := &fakeSearcher{}
	model := &fakeLLM{responses: []string{generatedScript, "Ich kann das nicht beurteilen."}}
	o := NewOrchestrator(searcher, model, nopLogger{}, true)

	session := summarySession()
	require.NoError(t, o.Generate(context.Background(), session))
	assert.Empty(t, session.Script.Caveats)
}

func TestParseHallucinationReport(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    bool
		entries int
	}{
		{"fenced block", "Analyse:\n```json\n{\"has_hallucinations\": true, \"hallucinations\": [{\"text\": \"x\", \"reason\": \"y\", \"correction\": \"z\"}]}\n```", true, 1},
		{"bare braces", "Hier: {\"has_hallucinations\": false, \"hallucinations\": []} fertig", false, 0},
		{"surrounding prose", "blah {\"has_hallucinations\": true, \"hallucinations\": []} blah", true, 0},
		{"no json at all", "keine Auffälligkeiten", false, 0},
		{"broken json", "{\"has_hallucinations\": tru", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ParseHallucinationReport(tt.raw)
			assert.Equal(t, tt.want, report.HasHallucinations)
			assert.Len(t, report.Hallucinations, tt.entries)
		})
	}
}

func TestCustomizeSection(t *testing.T) {
	searcher := &fakeSearcher{}
	model := &fakeLLM{responses: []string{generatedScript, "## Threat Awareness / Bedrohungsbewusstsein\nNeuer Kontext mit Fallbeispiel."}}
	o := NewOrchestrator(searcher, model, nopLogger{}, false)

	session := summarySession()
	require.NoError(t, o.Generate(context.Background(), session))

	before, _ := session.Script.Section(script.SectionThreatIdentification)

	err := o.CustomizeSection(context.Background(), session, script.SectionThreatAwareness, "Bitte ein Fallbeispiel ergänzen")
	require.NoError(t, err)

	got, _ := session.Script.Section(script.SectionThreatAwareness)
	assert.Equal(t, "Neuer Kontext mit Fallbeispiel.", got.Body)

	// Only the named section changed.
	after, _ := session.Script.Section(script.SectionThreatIdentification)
	assert.Equal(t, before.Body, after.Body)

	// Customization prompt carried original content and request.
	last := model.prompts[len(model.prompts)-1]
	assert.Contains(t, last, "# CONTENT CUSTOMIZATION TASK")
	assert.Contains(t, last, "Fallbeispiel ergänzen")
	assert.Contains(t, last, "# RELEVANT CONTEXT")
}

func TestCustomizeSectionWithoutScript(t *testing.T) {
	o := NewOrchestrator(&fakeSearcher{}, &fakeLLM{}, nopLogger{}, false)
	session := summarySession()
	err := o.CustomizeSection(context.Background(), session, script.SectionThreatAwareness, "x")
	assert.Error(t, err)
}

func TestDocumentTitle(t *testing.T) {
	sctx := scriptContext(map[string]string{
		dialogue.QuestionFacilityType: "Arztpraxis",
		dialogue.QuestionAudience:     "Verwaltungsmitarbeiter",
		dialogue.QuestionFocusThreats: "Phishing, Malware",
	})
	title := documentTitle(sctx)
	assert.True(t, strings.HasPrefix(title, "Schulungsskript: "))
	assert.Contains(t, title, "Phishing, Malware")
	assert.Contains(t, title, "Verwaltungsmitarbeiter")
	assert.Contains(t, title, "Arztpraxis")
}
