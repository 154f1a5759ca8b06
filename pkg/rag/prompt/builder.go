package prompt

import (
	"encoding/json"
	"strconv"
	"strings"

	"security-training-be/pkg/script"
)

// ScriptContext carries the collected requirements feeding a generation
// prompt. Empty fields fall back to generic defaults.
type ScriptContext struct {
	FacilityType    string
	Audience        []string
	Duration        int
	Threats         []string
	SkillLevel      string
	CustomScenarios string
	Regulatory      string
}

func (c ScriptContext) facility() string {
	if c.FacilityType == "" {
		return "medical facility"
	}
	return c.FacilityType
}

func (c ScriptContext) audience() string {
	if len(c.Audience) == 0 {
		return "healthcare staff"
	}
	return strings.Join(c.Audience, ", ")
}

func (c ScriptContext) threats() string {
	if len(c.Threats) == 0 {
		return "general security threats"
	}
	return strings.Join(c.Threats, ", ")
}

func (c ScriptContext) duration() string {
	if c.Duration <= 0 {
		return "60"
	}
	return strconv.Itoa(c.Duration)
}

func (c ScriptContext) skill() string {
	if c.SkillLevel == "" {
		return "Mittel"
	}
	return c.SkillLevel
}

// SystemPrompt is the fixed persona for script generation.
func SystemPrompt() string {
	return `Du bist ein erfahrener Instructional Designer, spezialisiert auf Schulungen zur Informationssicherheit im medizinischen Kontext.
Deine Aufgabe ist es, hochwertige, kompetenzbasierte Schulungsskripte zu erstellen, die einem spezifischen 7-Stufen-Template folgen.

Du integrierst Elemente der Sozialen Lerntheorie (SLT) und der Schutzmotivationstheorie (PMT) in deine Skripte:
- SLT: Einbeziehung von Szenarien, in denen Menschen durch Beobachtung des Verhaltens anderer und dessen Konsequenzen lernen
- PMT: Einbeziehung realistischer Bedrohungsbeurteilungen und Wirksamkeitsinformationen zur Motivation von Schutzmaßnahmen

Befolge diese Prinzipien:
1. Verwende klare, präzise Sprache, die für medizinisches Fachpersonal geeignet ist
2. Beziehe realistische Beispiele ein, die für medizinische Umgebungen relevant sind
3. Sei spezifisch bei der Beschreibung von Bedrohungen, ihren Auswirkungen und Gegenmaßnahmen
4. Vermeide Fachjargon, es sei denn, er ist notwendig, und erkläre ihn, wenn er verwendet wird
5. Konzentriere dich auf praktische, umsetzbare Ratschläge
6. Füge Schritt-für-Schritt-Anleitungen für komplexe Aufgaben ein
7. Präsentiere den Inhalt in einer logischen Abfolge
8. Achte darauf, dass das gesamte Skript zwischen 1500 und 2000 Wörtern umfasst

Deine Skripte sollten ausschließlich auf Deutsch sein und reinen Text enthalten, ohne Bilder oder Multimediaelemente.`
}

// templateStructureJSON renders the seven-section schema as an indented
// JSON block for embedding in prompts.
func templateStructureJSON() string {
	type sectionSchema struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	structure := make(map[string]sectionSchema, 7)
	for _, s := range script.Sections() {
		structure[s.Key] = sectionSchema{Title: s.Title, Description: s.Description}
	}
	raw, err := json.MarshalIndent(structure, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// ScriptGenerationPrompt builds the full-script prompt. All substituted
// values are concatenated exactly once; nothing is re-scanned afterwards, so
// literal %, { or } in answers or retrieved text survive unchanged.
func ScriptGenerationPrompt(ctx ScriptContext, retrievedContext string) string {
	var b strings.Builder

	b.WriteString("# TASK\n")
	b.WriteString("Erstelle ein umfassendes Schulungsskript zum Thema Informationssicherheit für ")
	b.WriteString(ctx.audience())
	b.WriteString(" in einer ")
	b.WriteString(ctx.facility())
	b.WriteString(". Das Skript soll dem 7-Stufen-Template folgen und sich auf ")
	b.WriteString(ctx.threats())
	b.WriteString(" konzentrieren.\n\n")

	b.WriteString("# ANFORDERUNGEN\n")
	b.WriteString("- Das Schulungsskript muss auf Deutsch verfasst sein\n")
	b.WriteString("- Der Gesamtumfang soll zwischen 1500 und 2000 Wörtern liegen (wichtig!)\n")
	b.WriteString("- Verteile den Inhalt gleichmäßig auf alle sieben Abschnitte\n")
	b.WriteString("- Jeder Abschnitt sollte etwa 200-250 Wörter umfassen\n\n")

	b.WriteString("# KONTEXT\n")
	b.WriteString("- Einrichtungstyp: ")
	b.WriteString(ctx.facility())
	b.WriteString("\n- Zielgruppe: ")
	b.WriteString(ctx.audience())
	b.WriteString("\n- Schulungsdauer: ")
	b.WriteString(ctx.duration())
	b.WriteString(" Minuten\n- Schwerpunkt-Bedrohungen: ")
	b.WriteString(ctx.threats())
	b.WriteString("\n- Technisches Niveau: ")
	b.WriteString(ctx.skill())
	b.WriteString("\n- Zusätzlicher Kontext: ")
	b.WriteString(ctx.CustomScenarios)
	b.WriteString("\n- Regulatorische Anforderungen: ")
	b.WriteString(ctx.Regulatory)
	b.WriteString("\n\n")

	b.WriteString("# TEMPLATE-STRUKTUR\n")
	b.WriteString("Das Skript muss dieser 7-stufigen kompetenzbasierten Vorlage folgen:\n```json\n")
	b.WriteString(templateStructureJSON())
	b.WriteString("\n```\n\n")

	b.WriteString("# ANWEISUNGEN\n")
	b.WriteString("1. Erstelle ein vollständiges Schulungsskript nach der oben genannten 7-Stufen-Vorlage\n")
	b.WriteString("2. Passe den Inhalt speziell für ")
	b.WriteString(ctx.audience())
	b.WriteString(" in einer ")
	b.WriteString(ctx.facility())
	b.WriteString(" an\n")
	b.WriteString("3. Konzentriere dich auf ")
	b.WriteString(ctx.threats())
	b.WriteString(" als primäre Sicherheitsbedrohungen\n")
	b.WriteString("4. Gestalte das Skript für eine ")
	b.WriteString(ctx.duration())
	b.WriteString("-minütige Schulung\n")
	b.WriteString("5. Passe die technische Tiefe an das Niveau ")
	b.WriteString(ctx.skill())
	b.WriteString(" an\n")
	b.WriteString("6. Integriere realistische Beispiele und Szenarien aus dem medizinischen Kontext\n")
	b.WriteString("7. Baue Elemente der Sozialen Lerntheorie (Lernen durch Beobachtung) und der Schutzmotivationstheorie (realistische Bedrohungseinschätzung und Bewältigungsmaßnahmen) ein\n")
	b.WriteString("8. Verwende klare, präzise Sprache, die für medizinisches Fachpersonal geeignet ist\n")
	b.WriteString("9. Füge Schritt-für-Schritt-Anleitungen für Sicherheitsmaßnahmen ein\n")
	b.WriteString("10. Gestalte den Inhalt ansprechend und einprägsam\n")
	b.WriteString("11. Halte dich unbedingt an die Wortanzahl von 1500-2000 Wörtern insgesamt\n\n")

	b.WriteString("# AUSGABEFORMAT\n")
	b.WriteString("Liefere das vollständige Skript mit klaren Abschnittsüberschriften gemäß der 7-Stufen-Vorlage. Jeder Abschnitt sollte umfassend und detailliert sein, aber zusammen die Gesamtwortanzahl von 1500-2000 Wörtern nicht überschreiten oder unterschreiten.\n\n")

	b.WriteString(retrievedContext)
	b.WriteString("\n\n# SKRIPT ANFANG\n")

	return b.String()
}

// sectionInstructions are the per-section authoring blocks. {audience},
// {facility} and {threats} markers in these fixed texts are resolved with a
// single Replacer pass over the instruction text only.
var sectionInstructions = map[string]string{
	script.SectionThreatAwareness: `For this section, describe the specific context in which security threats might occur for {audience} in a {facility}. Include:
- Typical workplace scenarios where {threats} might be encountered
- Day-to-day activities that could expose staff to security risks
- Real-world examples relevant to healthcare environments
- Integration of Social Learning Theory by showing how experienced staff might identify suspicious situations`,
	script.SectionThreatIdentification: `For this section, clearly identify the specific indicators and characteristics of {threats}. Include:
- Specific warning signs that staff should look for
- Common patterns or techniques used in these attacks
- Visual and content-based clues that indicate potential threats
- Concrete examples tailored to the healthcare context
- How to distinguish between legitimate and suspicious communications`,
	script.SectionThreatImpact: `For this section, describe the potential consequences of {threats} in detail. Include:
- Direct impacts on patient care and safety
- Potential data breaches and confidentiality violations
- Regulatory and compliance implications specific to healthcare
- Financial and reputational damage to the organization
- Personal consequences for staff members
- Integration of Protection Motivation Theory by presenting realistic threat scenarios`,
	script.SectionTacticChoice: `For this section, outline the various options staff have when confronted with {threats}. Include:
- Clear decision frameworks for different threat scenarios
- Immediate actions that can be taken to minimize risk
- Options for reporting or escalating security concerns
- Guidance on when to contact IT security versus handling independently
- Recommendations for the safest course of action in different contexts`,
	script.SectionTacticJustification: `For this section, explain why the recommended actions are effective against {threats}. Include:
- Evidence-based reasoning for security recommendations
- How the recommended tactics mitigate specific risks
- Why certain responses are preferred over alternatives
- Integration of Protection Motivation Theory by emphasizing response efficacy
- Real-world examples where these tactics have prevented security incidents`,
	script.SectionTacticMastery: `For this section, provide detailed, step-by-step instructions for implementing security measures against {threats}. Include:
- Precise procedural steps with clear numbering
- Technical instructions written at an appropriate level for {audience}
- Common pitfalls or mistakes to avoid
- Descriptions of relevant user interfaces
- Integration of Social Learning Theory by describing model behavior`,
	script.SectionTacticFollowup: `For this section, describe follow-up actions and ongoing practices after a security event or implementation of security measures. Include:
- Reporting procedures specific to the {facility}
- Documentation requirements for security incidents
- Ongoing monitoring and verification steps
- How to share learnings with colleagues
- Integration with existing security protocols and practices`,
}

// SectionGenerationPrompt builds the prompt for generating a single section.
func SectionGenerationPrompt(sectionKey string, ctx ScriptContext, retrievedContext string) string {
	section, ok := script.SectionByKey(sectionKey)
	if !ok {
		return ""
	}

	instructions := sectionInstructions[sectionKey]
	r := strings.NewReplacer(
		"{audience}", ctx.audience(),
		"{facility}", ctx.facility(),
		"{threats}", ctx.threats(),
	)
	instructions = r.Replace(instructions)

	var b strings.Builder
	b.WriteString("# SECTION GENERATION TASK\n")
	b.WriteString("Create the \"")
	b.WriteString(section.Title)
	b.WriteString("\" section for an information security training script focused on ")
	b.WriteString(ctx.threats())
	b.WriteString(".\n\n")

	b.WriteString("# SECTION DESCRIPTION\n")
	b.WriteString(section.Description)
	b.WriteString("\n\n")

	b.WriteString("# KEY QUESTIONS TO ADDRESS\n")
	for _, q := range section.Questions {
		b.WriteString("- ")
		b.WriteString(q)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("# SECTION-SPECIFIC INSTRUCTIONS\n")
	b.WriteString(instructions)
	b.WriteString("\n\n")

	b.WriteString("# AUTHORING GUIDELINES\n")
	b.WriteString(section.Guidelines)
	b.WriteString("\n\n")

	b.WriteString("# CONTEXT\n")
	b.WriteString("- Target Audience: ")
	b.WriteString(ctx.audience())
	b.WriteString("\n- Facility Type: ")
	b.WriteString(ctx.facility())
	b.WriteString("\n- Focus Threats: ")
	b.WriteString(ctx.threats())
	b.WriteString("\n\n")

	b.WriteString(retrievedContext)

	b.WriteString("\n\n# WRITE THE COMPLETE SECTION CONTENT BELOW\n## ")
	b.WriteString(section.Title)
	b.WriteString("\n")

	return b.String()
}

// CustomizationPrompt builds the prompt for minimal, targeted edits to one
// section.
func CustomizationPrompt(baseContent, customizationRequest string) string {
	var b strings.Builder
	b.WriteString("# CONTENT CUSTOMIZATION TASK\n")
	b.WriteString("Modify the following training script content based on the customization request.\n\n")
	b.WriteString("# ORIGINAL CONTENT\n")
	b.WriteString(baseContent)
	b.WriteString("\n\n# CUSTOMIZATION REQUEST\n")
	b.WriteString(customizationRequest)
	b.WriteString("\n\n# INSTRUCTIONS\n")
	b.WriteString("1. Carefully review the original content and the customization request\n")
	b.WriteString("2. Make targeted changes to address the specific requests\n")
	b.WriteString("3. Maintain the overall structure, tone, and quality of the original content\n")
	b.WriteString("4. Focus only on modifying aspects mentioned in the customization request\n")
	b.WriteString("5. If the request is unclear, make minimal changes that best align with the apparent intent\n\n")
	b.WriteString("# MODIFIED CONTENT\n")
	return b.String()
}

// HallucinationCheckPrompt builds the verification prompt. The model is
// asked for a fenced JSON block; the extractor also tolerates bare JSON.
func HallucinationCheckPrompt(generatedContent, retrievedContext string) string {
	var b strings.Builder
	b.WriteString("# HALLUCINATION DETECTION TASK\n")
	b.WriteString("Carefully analyze the generated content and identify any statements that might be hallucinations (facts or claims that are not supported by the retrieved context).\n\n")
	b.WriteString("# GENERATED CONTENT\n")
	b.WriteString(generatedContent)
	b.WriteString("\n\n# RETRIEVED CONTEXT (GROUND TRUTH)\n")
	b.WriteString(retrievedContext)
	b.WriteString("\n\n# INSTRUCTIONS\n")
	b.WriteString("1. Compare the generated content against the retrieved context\n")
	b.WriteString("2. Identify any statements in the generated content that:\n")
	b.WriteString("   - Contradict information in the retrieved context\n")
	b.WriteString("   - Make specific factual claims not supported by the retrieved context\n")
	b.WriteString("   - Introduce terminology, procedures, or concepts not present in the retrieved context\n")
	b.WriteString("3. Ignore stylistic differences and focus only on factual accuracy\n")
	b.WriteString("4. For each potential hallucination, provide:\n")
	b.WriteString("   - The exact quote from the generated content\n")
	b.WriteString("   - Why it appears to be a hallucination\n")
	b.WriteString("   - A suggested correction (if possible)\n\n")
	b.WriteString("# OUTPUT FORMAT\n")
	b.WriteString("Respond with exactly one fenced ```json block in the following format:\n")
	b.WriteString("{\n")
	b.WriteString("  \"has_hallucinations\": true/false,\n")
	b.WriteString("  \"hallucinations\": [\n")
	b.WriteString("    {\n")
	b.WriteString("      \"text\": \"quoted text from generated content\",\n")
	b.WriteString("      \"reason\": \"explanation of why this is a hallucination\",\n")
	b.WriteString("      \"correction\": \"suggested correction\"\n")
	b.WriteString("    }\n")
	b.WriteString("  ]\n")
	b.WriteString("}\n\n")
	b.WriteString("If no hallucinations are found, return:\n")
	b.WriteString("{\n")
	b.WriteString("  \"has_hallucinations\": false,\n")
	b.WriteString("  \"hallucinations\": []\n")
	b.WriteString("}\n\n")
	b.WriteString("# ANALYSIS\n")
	return b.String()
}
