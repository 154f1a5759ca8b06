package script

// TemplateID is the identifier of the seven-step competency template used
// for every generated training script.
const TemplateID = "seven_step"

// Section describes one step of the template. Guidelines is the authoring
// instruction block fed to the LLM when a single section is generated or
// customized.
type Section struct {
	Key         string   `json:"key"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Questions   []string `json:"questions"`
	Guidelines  string   `json:"-"`
}

// Section keys in template order.
const (
	SectionThreatAwareness      = "threat_awareness"
	SectionThreatIdentification = "threat_identification"
	SectionThreatImpact         = "threat_impact"
	SectionTacticChoice         = "tactic_choice"
	SectionTacticJustification  = "tactic_justification"
	SectionTacticMastery        = "tactic_mastery"
	SectionTacticFollowup       = "tactic_followup"
)

var sections = []Section{
	{
		Key:         SectionThreatAwareness,
		Title:       "Threat Awareness / Bedrohungsbewusstsein",
		Description: "Beschreibung des Kontextes, in dem Bedrohungen auftreten",
		Questions: []string{
			"Was ist der Kontext?",
			"Was ist die Ausgangssituation?",
			"In welchen Szenarien tritt die Gefahr auf?",
		},
		Guidelines: `In diesem Abschnitt sollte:
- Ein realistisches Szenario aus dem medizinischen Arbeitsalltag beschrieben werden
- Der Kontext, in dem die Sicherheitsbedrohung auftreten kann, dargestellt werden
- Ein Beispiel für vorbildliches Verhalten integriert werden
- Die Relevanz des Themas für die spezifische Zielgruppe deutlich gemacht werden

Stil: Narrativ, persönlich ansprechend, mit konkretem Bezug zur Arbeitssituation
Länge: 150-250 Wörter`,
	},
	{
		Key:         SectionThreatIdentification,
		Title:       "Threat Identification / Bedrohungserkennung",
		Description: "Aufzeigen, welche Indikatoren auf eine Bedrohung hinweisen",
		Questions: []string{
			"Was ist oder worin besteht die Gefahr?",
			"Welche Merkmale gibt es?",
			"Wie erkenne ich diese?",
		},
		Guidelines: `In diesem Abschnitt sollte:
- Konkrete Erkennungsmerkmale der Bedrohung aufgelistet werden
- Visuelle und inhaltliche Warnsignale beschrieben werden
- Beispiele für typische Angriffsszenarien gegeben werden
- Beobachtungslernen durch Beispiele von erfahrenen Kollegen eingebaut werden

Stil: Klar strukturiert, mit nummerierter oder Aufzählungsliste für die Erkennungsmerkmale
Länge: 200-300 Wörter`,
	},
	{
		Key:         SectionThreatImpact,
		Title:       "Threat Impact Assessment / Bedrohungsausmaß",
		Description: "Konkrete Darstellung der möglichen Folgen eines Angriffs",
		Questions: []string{
			"Was sind die Konsequenzen, die aus der Bedrohung entstehen können?",
			"Welche persönlichen und organisatorischen Auswirkungen könnten eintreten?",
		},
		Guidelines: `In diesem Abschnitt sollte:
- Realistische Konsequenzen für Patienten, Mitarbeiter und die Einrichtung dargestellt werden
- Der potenzielle Schaden in verschiedenen Dimensionen (Sicherheit, Finanzen, Reputation) beschrieben werden
- Wenn möglich, ein reales Beispiel aus dem Gesundheitssektor integriert werden
- Die Bedrohung als schwerwiegend aber bewältigbar dargestellt werden

Stil: Sachlich aber eindringlich, Folgen nach Stakeholdern gegliedert
Länge: 200-300 Wörter`,
	},
	{
		Key:         SectionTacticChoice,
		Title:       "Tactic Choice / Taktische Maßnahmenauswahl",
		Description: "Übersicht möglicher Handlungsoptionen bei Erkennen einer Bedrohung",
		Questions: []string{
			"Was sind die Handlungsoptionen zwischen denen grundsätzlich gewählt werden kann?",
			"Welche sollte gewählt werden?",
		},
		Guidelines: `In diesem Abschnitt sollte:
- Verschiedene mögliche Reaktionen auf die Bedrohung präsentiert werden
- Eine klare Empfehlung für die beste Vorgehensweise gegeben werden
- Die unterschiedlichen Handlungsoptionen in einer logischen Reihenfolge dargestellt werden
- Der Entscheidungsprozess für die Auswahl der richtigen Taktik erläutert werden

Stil: Strukturierte Darstellung der Optionen, klare Handlungsanweisung
Länge: 150-250 Wörter`,
	},
	{
		Key:         SectionTacticJustification,
		Title:       "Tactic Justification / Maßnahmenrechtfertigung",
		Description: "Begründung, warum die gewählte Maßnahme besonders effektiv ist",
		Questions: []string{
			"Warum genau ist die Maßnahme/Handlungsoption besser als andere?",
		},
		Guidelines: `In diesem Abschnitt sollte:
- Begründet werden, warum die empfohlene Vorgehensweise die beste Option ist
- Die Wirksamkeit der Maßnahme mit Fakten oder Beispielen belegt werden
- Die Konsequenzen alternativer Handlungsweisen aufgezeigt werden
- Die Selbstwirksamkeit und Handlungsfähigkeit der Zielgruppe betont werden

Stil: Überzeugend, evidenzbasiert, mit konkreten Beispielen aus dem medizinischen Umfeld
Länge: 150-250 Wörter`,
	},
	{
		Key:         SectionTacticMastery,
		Title:       "Tactic Mastery / Maßnahmenbeherrschung",
		Description: "Detaillierte Schritt-für-Schritt-Anleitung zur Umsetzung der gewählten Maßnahme",
		Questions: []string{
			"Wie muss konkret vorgegangen werden, um die gewählte Handlung umzusetzen?",
			"Was sind die einzelnen Schritte, auf die geachtet werden muss?",
		},
		Guidelines: `In diesem Abschnitt sollte:
- Eine präzise, schrittweise Anleitung zur Durchführung der Sicherheitsmaßnahme gegeben werden
- Konkrete Handlungsschritte nummeriert und in chronologischer Reihenfolge dargestellt werden
- Potenzielle Herausforderungen bei der Umsetzung angesprochen werden
- Das gewünschte Verhalten klar demonstriert werden

Stil: Präzise, anleitend, mit klaren Schritt-für-Schritt-Anweisungen
Länge: 250-350 Wörter`,
	},
	{
		Key:         SectionTacticFollowup,
		Title:       "Tactic Check & Follow-Up / Anschlusshandlungen",
		Description: "Festlegung von Nachkontrollen und weiteren Maßnahmen",
		Questions: []string{
			"Was sind konkrete Anschlusshandlungen, die nach der Ausführung noch getätigt werden müssen?",
			"Wer bleibt über was auf dem Laufenden?",
		},
		Guidelines: `In diesem Abschnitt sollte:
- Notwendige Folgeaktionen nach der Hauptmaßnahme beschrieben werden
- Verfahren zur Verifizierung des Erfolgs der Maßnahme dargestellt werden
- Hinweise zur Dokumentation und zum Meldewesen gegeben werden
- Die kontinuierliche Verbesserung der Sicherheit als Prozess betont werden

Stil: Zukunftsorientiert, prozessbezogen, mit Betonung auf kontinuierliche Verbesserung
Länge: 150-250 Wörter`,
	},
}

// Sections returns the template sections in order. Callers must not mutate
// the returned slice.
func Sections() []Section {
	return sections
}

// SectionKeys returns the ordered section keys.
func SectionKeys() []string {
	keys := make([]string, len(sections))
	for i, s := range sections {
		keys[i] = s.Key
	}
	return keys
}

// SectionByKey looks a section up by its key.
func SectionByKey(key string) (Section, bool) {
	for _, s := range sections {
		if s.Key == key {
			return s, true
		}
	}
	return Section{}, false
}
