package dialogue

import (
	"strings"

	"security-training-be/pkg/script"
)

// AnswerType declares how a recorded answer string is interpreted.
type AnswerType string

const (
	TypeText         AnswerType = "text"
	TypeNumber       AnswerType = "number"
	TypeSingleSelect AnswerType = "single-select"
	TypeMultiSelect  AnswerType = "multi-select"
)

// Question is one entry of a question catalog.
type Question struct {
	ID          string     `json:"id"`
	Prompt      string     `json:"prompt"`
	Description string     `json:"description"`
	Type        AnswerType `json:"type"`
	Options     []string   `json:"options,omitempty"`
	Min         int        `json:"min,omitempty"`
	Max         int        `json:"max,omitempty"`
	Default     int        `json:"default,omitempty"`
}

// Context question ids.
const (
	QuestionFacilityType = "facility_type"
	QuestionAudience     = "target_audience"
	QuestionDuration     = "duration"
	QuestionFocusThreats = "focus_threats"
	QuestionSkillLevel   = "skill_level"
	QuestionRegulatory   = "regulatory_requirements"
	QuestionScenarios    = "custom_scenarios"
)

var contextQuestions = []Question{
	{
		ID:          QuestionFacilityType,
		Prompt:      "In welcher medizinischen Einrichtung sollen die Schulungen umgesetzt werden?",
		Description: "Dies hilft uns, den spezifischen Kontext zu verstehen (z.B. Krankenhaus, Forschungseinrichtung, Arztpraxis)",
		Type:        TypeText,
	},
	{
		ID:          QuestionAudience,
		Prompt:      "Welche Personengruppen sollen geschult werden?",
		Description: "Z.B. Pflegepersonal, Ärzte, Verwaltungsmitarbeiter, IT-Personal, Forschende",
		Type:        TypeMultiSelect,
		Options:     []string{"Pflegepersonal", "Ärzte", "Verwaltungsmitarbeiter", "IT-Personal", "Forschende", "Sonstige"},
	},
	{
		ID:          QuestionDuration,
		Prompt:      "Wie lang darf die Schulung maximal sein (in Minuten)?",
		Description: "Kurze Schulungen fokussieren auf Kernpunkte, längere können detaillierter sein",
		Type:        TypeNumber,
		Min:         15,
		Max:         180,
		Default:     60,
	},
	{
		ID:          QuestionFocusThreats,
		Prompt:      "Auf welche Bedrohungen soll besonders eingegangen werden?",
		Description: "Wählen Sie die Bedrohungsszenarien, die für Ihre Einrichtung besonders relevant sind",
		Type:        TypeMultiSelect,
		Options:     []string{"Phishing", "Malware", "Social Engineering", "Passwort-Sicherheit", "Datendiebstahl", "Mobile Geräte", "Sonstige"},
	},
	{
		ID:          QuestionSkillLevel,
		Prompt:      "Wie schätzen Sie das durchschnittliche IT-Sicherheitswissen der Zielgruppe ein?",
		Description: "Dies hilft uns, den Detailgrad und die Komplexität der Schulung anzupassen",
		Type:        TypeSingleSelect,
		Options:     []string{"Grundlegend", "Mittel", "Fortgeschritten"},
	},
	{
		ID:          QuestionRegulatory,
		Prompt:      "Welche regulatorischen Anforderungen sind zu berücksichtigen?",
		Description: "Z.B. DSGVO, spezifische Branchenrichtlinien, interne Compliance-Regeln",
		Type:        TypeText,
	},
	{
		ID:          QuestionScenarios,
		Prompt:      "Gibt es spezifische Szenarien oder Fallbeispiele, die eingebaut werden sollen?",
		Description: "Beschreiben Sie relevante Situationen aus dem Arbeitsalltag Ihrer Einrichtung",
		Type:        TypeText,
	},
}

// ContextQuestions returns the ordered intake question catalog. Callers must
// not mutate the returned slice.
func ContextQuestions() []Question {
	return contextQuestions
}

// ContextQuestionByID looks a context question up by id.
func ContextQuestionByID(id string) (Question, bool) {
	for _, q := range contextQuestions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Fallback terms for unresolved section-question placeholders.
const (
	fallbackFacility = "Ihrer Einrichtung"
	fallbackThreat   = "Phishing"
)

// sectionPrompts carry {facility} and {threat} placeholders resolved from
// recorded context answers.
var sectionPrompts = map[string]string{
	script.SectionThreatAwareness:      "In welchem typischen Arbeitskontext in {facility} soll das Bewusstsein für {threat} geweckt werden?",
	script.SectionThreatIdentification: "Welche Erkennungsmerkmale von {threat} sind für die Mitarbeitenden in {facility} besonders wichtig?",
	script.SectionThreatImpact:         "Welche Folgen hätte ein erfolgreicher Angriff durch {threat} für {facility}?",
	script.SectionTacticChoice:         "Welche Handlungsoptionen sollen den Mitarbeitenden in {facility} bei einem Verdacht auf {threat} vermittelt werden?",
	script.SectionTacticJustification:  "Warum ist die empfohlene Reaktion auf {threat} für {facility} besonders wirksam?",
	script.SectionTacticMastery:        "Welche konkreten Schritte sollen die Mitarbeitenden in {facility} im Umgang mit {threat} einüben?",
	script.SectionTacticFollowup:       "Welche Nachkontrollen und Meldewege nach einem Vorfall mit {threat} gibt es in {facility}?",
}

// SectionQuestion returns the parametrized question for one template section.
// Placeholders are resolved in a single pass over the prompt text; the
// substituted values are never re-scanned, so placeholder-shaped answer text
// survives literally. Missing context answers degrade to fixed fallback
// terms.
func SectionQuestion(sectionKey string, answers map[string]string) (Question, bool) {
	prompt, ok := sectionPrompts[sectionKey]
	if !ok {
		return Question{}, false
	}
	section, ok := script.SectionByKey(sectionKey)
	if !ok {
		return Question{}, false
	}

	facility := strings.TrimSpace(answers[QuestionFacilityType])
	if facility == "" {
		facility = fallbackFacility
	}
	threat := PrimaryThreat(answers)

	r := strings.NewReplacer("{facility}", facility, "{threat}", threat)
	return Question{
		ID:          sectionKey,
		Prompt:      r.Replace(prompt),
		Description: section.Description,
		Type:        TypeText,
	}, true
}

// PrimaryThreat picks the first recorded focus threat, defaulting to
// Phishing when none is usable.
func PrimaryThreat(answers map[string]string) string {
	threats := ParseMulti(answers[QuestionFocusThreats])
	if len(threats) > 0 {
		return threats[0]
	}
	return fallbackThreat
}
