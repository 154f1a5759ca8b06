package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"security-training-be/internal/pkg/logger"
	"security-training-be/pkg/dialogue"
	"security-training-be/pkg/llm"
	"security-training-be/pkg/rag/combine"
	"security-training-be/pkg/rag/prompt"
	"security-training-be/pkg/rag/search"
	"security-training-be/pkg/script"
	"security-training-be/pkg/store"
)

// Retrieval caps per generation.
const (
	limitPerCollection = 3
	limitExamples      = 2
	limitThreatDetail  = 2
)

const (
	generationTemperature = 0.7
	checkTemperature      = 0.2
)

// HallucinationFinding is one flagged passage of the generated script.
type HallucinationFinding struct {
	Text       string `json:"text"`
	Reason     string `json:"reason"`
	Correction string `json:"correction"`
}

// HallucinationReport is the verification verdict for one generation.
type HallucinationReport struct {
	HasHallucinations bool                   `json:"has_hallucinations"`
	Hallucinations    []HallucinationFinding `json:"hallucinations"`
}

// Orchestrator runs the full retrieval-and-generation pipeline for one
// confirmed session.
type Orchestrator struct {
	searcher        search.Searcher
	llmProvider     llm.LLMProvider
	logger          logger.ILogger
	factualityCheck bool
}

func NewOrchestrator(searcher search.Searcher, llmProvider llm.LLMProvider, log logger.ILogger, factualityCheck bool) *Orchestrator {
	return &Orchestrator{
		searcher:        searcher,
		llmProvider:     llmProvider,
		logger:          log,
		factualityCheck: factualityCheck,
	}
}

// EnrichmentQuery builds the retrieval query from the recorded answers.
// Absent answers fall back to stable generic terms.
func EnrichmentQuery(answers map[string]string) string {
	facility := strings.TrimSpace(answers[dialogue.QuestionFacilityType])
	if facility == "" {
		facility = "medical facility"
	}

	threats := dialogue.ParseMulti(answers[dialogue.QuestionFocusThreats])
	threatsStr := "security threats"
	if len(threats) > 0 {
		threatsStr = strings.Join(threats, ", ")
	}

	audience := dialogue.ParseMulti(answers[dialogue.QuestionAudience])
	audienceStr := "healthcare staff"
	if len(audience) > 0 {
		audienceStr = strings.Join(audience, ", ")
	}

	return fmt.Sprintf("security training for %s focused on %s for %s", facility, threatsStr, audienceStr)
}

func scriptContext(answers map[string]string) prompt.ScriptContext {
	return prompt.ScriptContext{
		FacilityType:    strings.TrimSpace(answers[dialogue.QuestionFacilityType]),
		Audience:        dialogue.ParseMulti(answers[dialogue.QuestionAudience]),
		Duration:        dialogue.ParseNumber(answers[dialogue.QuestionDuration], 60),
		Threats:         dialogue.ParseMulti(answers[dialogue.QuestionFocusThreats]),
		SkillLevel:      strings.TrimSpace(answers[dialogue.QuestionSkillLevel]),
		CustomScenarios: strings.TrimSpace(answers[dialogue.QuestionScenarios]),
		Regulatory:      strings.TrimSpace(answers[dialogue.QuestionRegulatory]),
	}
}

func documentTitle(ctx prompt.ScriptContext) string {
	threats := "Informationssicherheit"
	if len(ctx.Threats) > 0 {
		threats = strings.Join(ctx.Threats, ", ")
	}
	facility := "medizinische Einrichtung"
	if ctx.FacilityType != "" {
		facility = ctx.FacilityType
	}
	audience := "Mitarbeitende"
	if len(ctx.Audience) > 0 {
		audience = strings.Join(ctx.Audience, ", ")
	}
	return fmt.Sprintf("Schulungsskript: %s für %s in %s", threats, audience, facility)
}

// Generate runs the whole pipeline against the session. On success the
// session holds the sliced document and the generation record and its
// dialogue is terminal. On failure nothing is attached, the dialogue is
// back at the summary stage, and the root cause is returned for logging.
func (o *Orchestrator) Generate(ctx context.Context, session *store.Session) error {
	answers := make(map[string]string, len(session.Dialogue.Answers))
	for k, v := range session.Dialogue.Answers {
		answers[k] = v
	}

	fail := func(step string, err error) error {
		dialogue.Rollback(&session.Dialogue)
		o.logger.Error("generator", "script generation failed", map[string]interface{}{
			"session_id": session.ID,
			"step":       step,
			"error":      err.Error(),
		})
		return fmt.Errorf("%s: %w", step, err)
	}

	query := EnrichmentQuery(answers)
	o.logger.Info("generator", "starting script generation", map[string]interface{}{
		"session_id": session.ID,
		"query":      query,
	})

	strategic, err := o.searcher.SearchAll(ctx, query, limitPerCollection)
	if err != nil {
		return fail("strategic retrieval", err)
	}

	mainThreat := dialogue.PrimaryThreat(answers)
	examples, err := o.searcher.Search(ctx, search.CollectionTemplates,
		fmt.Sprintf("%s template example for %s", script.TemplateID, mainThreat),
		search.Filter{DocType: script.TemplateID}, limitExamples)
	if err != nil {
		return fail("template example retrieval", err)
	}

	threats := dialogue.ParseMulti(answers[dialogue.QuestionFocusThreats])
	if len(threats) == 0 {
		threats = []string{mainThreat}
	}
	threatInfo := make(map[string][]store.Document, len(threats))
	for _, threat := range threats {
		docs, err := o.searcher.Search(ctx, search.CollectionThreats, threat,
			search.Filter{ThreatType: threat}, limitThreatDetail)
		if err != nil {
			return fail("threat detail retrieval", err)
		}
		threatInfo[threat] = docs
	}

	combined := &combine.Combined{
		Strategic:        strategic,
		TemplateExamples: examples,
		ThreatInfo:       threatInfo,
	}
	formatted := combined.Format()

	sctx := scriptContext(answers)
	scriptPrompt := prompt.ScriptGenerationPrompt(sctx, formatted)

	raw, err := o.llmProvider.Generate(ctx, scriptPrompt,
		llm.WithSystemPrompt(prompt.SystemPrompt()),
		llm.WithTemperature(generationTemperature),
	)
	if err != nil {
		return fail("llm generation", err)
	}
	if strings.TrimSpace(raw) == "" {
		return fail("llm generation", fmt.Errorf("empty completion"))
	}

	doc := script.New(documentTitle(sctx), raw, script.Metadata{
		FacilityType: sctx.FacilityType,
		Audience:     strings.Join(sctx.Audience, ", "),
		Duration:     fmt.Sprintf("%d", sctx.Duration),
		GeneratedAt:  time.Now(),
	})

	// The document exists now; the dialogue reaches its terminal stage.
	for session.Dialogue.Stage != store.StageComplete {
		dialogue.Advance(&session.Dialogue)
	}

	if o.factualityCheck {
		report := o.checkHallucinations(ctx, raw, formatted)
		if report.HasHallucinations {
			doc.Caveats = formatCaveats(report)
		}
	}

	session.Script = doc
	session.Generation = &store.GenerationRecord{
		Answers:          answers,
		RetrievedContext: formatted,
		Prompt:           scriptPrompt,
		Sources:          combined.Attributions(),
		GeneratedAt:      time.Now(),
	}

	o.logger.Info("generator", "script generation complete", map[string]interface{}{
		"session_id": session.ID,
		"documents":  combined.TotalDocuments(),
		"length":     len(raw),
	})
	return nil
}

// checkHallucinations verifies the generated text against the retrieved
// context. Every failure mode degrades to "no hallucinations": the check is
// an additive safeguard and never blocks a finished script.
func (o *Orchestrator) checkHallucinations(ctx context.Context, generated, retrieved string) HallucinationReport {
	checkPrompt := prompt.HallucinationCheckPrompt(generated, retrieved)

	out, err := o.llmProvider.Generate(ctx, checkPrompt, llm.WithTemperature(checkTemperature))
	if err != nil {
		o.logger.Warn("generator", "hallucination check skipped", map[string]interface{}{
			"error": err.Error(),
		})
		return HallucinationReport{}
	}
	return ParseHallucinationReport(out)
}

// ParseHallucinationReport extracts the JSON verdict from a model reply.
// A fenced json block is preferred; otherwise the text between the first
// "{" and the last "}" is tried. Anything unparseable counts as clean.
func ParseHallucinationReport(raw string) HallucinationReport {
	var report HallucinationReport

	if block, ok := fencedJSON(raw); ok {
		if json.Unmarshal([]byte(block), &report) == nil {
			return report
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return HallucinationReport{}
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &report); err != nil {
		return HallucinationReport{}
	}
	return report
}

func fencedJSON(raw string) (string, bool) {
	start := strings.Index(raw, "```json")
	if start < 0 {
		return "", false
	}
	rest := raw[start+len("```json"):]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

func formatCaveats(report HallucinationReport) string {
	var b strings.Builder
	b.WriteString("## Hinweis zu möglichen Halluzinationen\n")
	b.WriteString("Das generierte Skript könnte folgende unbestätigte Informationen enthalten:\n")
	for _, h := range report.Hallucinations {
		b.WriteString("- \"")
		b.WriteString(h.Text)
		b.WriteString("\": ")
		b.WriteString(h.Reason)
		b.WriteString("\n")
	}
	return b.String()
}

// CustomizeSection regenerates one section with targeted edits and swaps it
// into the stored document in place.
func (o *Orchestrator) CustomizeSection(ctx context.Context, session *store.Session, sectionKey, request string) error {
	if session.Script == nil {
		return fmt.Errorf("no generated script")
	}
	section, ok := session.Script.Section(sectionKey)
	if !ok {
		return fmt.Errorf("unknown section %q", sectionKey)
	}

	answers := session.Dialogue.Answers
	facility := strings.TrimSpace(answers[dialogue.QuestionFacilityType])
	if facility == "" {
		facility = "medical facility"
	}

	strategic, err := o.searcher.SearchAll(ctx,
		fmt.Sprintf("%s for %s", section.Title, facility), limitPerCollection)
	if err != nil {
		return fmt.Errorf("section retrieval: %w", err)
	}
	combined := &combine.Combined{Strategic: strategic}

	current := fmt.Sprintf("## %s\n\n%s", section.Title, section.Body)
	customPrompt := prompt.CustomizationPrompt(current, request) +
		"\n\n# RELEVANT CONTEXT\n" + combined.Format()

	out, err := o.llmProvider.Generate(ctx, customPrompt,
		llm.WithSystemPrompt(prompt.SystemPrompt()),
		llm.WithTemperature(generationTemperature),
	)
	if err != nil {
		o.logger.Error("generator", "section customization failed", map[string]interface{}{
			"session_id": session.ID,
			"section":    sectionKey,
			"error":      err.Error(),
		})
		return fmt.Errorf("customize section: %w", err)
	}

	// Strip a leading heading if the model repeated it.
	body := strings.TrimSpace(out)
	if strings.HasPrefix(body, "#") {
		if _, rest, found := strings.Cut(body, "\n"); found {
			body = strings.TrimSpace(rest)
		}
	}

	return session.Script.ReplaceSection(sectionKey, body)
}
