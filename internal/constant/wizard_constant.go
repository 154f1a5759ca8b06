package constant

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"

	// Ollama Configuration
	OllamaDefaultBaseURL        = "http://localhost:11434"
	OllamaDefaultChatModel      = "llama3.1:8b"
	OllamaDefaultEmbeddingModel = "nomic-embed-text"
	OllamaChatEndpoint          = "/api/chat"

	// Everything the wizard says to the user is German. The texts below are
	// the fixed conversational frame; the questions themselves live in the
	// dialogue catalog.

	WizardIntroduction = `Willkommen! Ich bin Ihr Assistent für die Erstellung von E-Learning-Inhalten zu Informationssicherheit.

Um ein maßgeschneidertes Schulungsskript zu erstellen, werde ich Ihnen einige Fragen stellen. Diese helfen mir, den Kontext, die Zielgruppe und die spezifischen Sicherheitsanforderungen Ihrer medizinischen Einrichtung zu verstehen.

Lassen Sie uns beginnen!`

	WizardInvalidSessionNotice = `Es scheint ein Problem mit Ihrer Sitzung zu geben. Bitte starten Sie eine neue Sitzung.`

	WizardUnexpectedStateNotice = `Es ist ein Fehler aufgetreten. Bitte starten Sie eine neue Sitzung.`

	WizardGenerationFailedNotice = `Bei der Erstellung des Skripts ist ein Fehler aufgetreten. Bitte versuchen Sie es erneut oder passen Sie Ihre Anforderungen an.`

	WizardSummaryHeader = `Vielen Dank für Ihre Antworten! Hier ist eine Zusammenfassung der Informationen, die ich gesammelt habe:`

	WizardSummaryConfirmQuestion = `Sind diese Informationen korrekt? Möchten Sie etwas ändern oder ergänzen, bevor ich das Skript erstelle?`

	WizardGenerationSucceededNotice = `Ich habe das Schulungsskript basierend auf Ihren Anforderungen erstellt! Sie können es sich jetzt ansehen, einzelne Abschnitte anpassen oder das Skript exportieren.`

	WizardNoScriptNotice = `Es wurde noch kein Skript generiert. Möchten Sie jetzt ein Skript erstellen?`

	WizardShowScriptPrefix = "Hier ist das generierte Schulungsskript:\n\n"

	// WizardCustomizedNoticeFormat takes the section title.
	WizardCustomizedNoticeFormat = `Der Abschnitt '%s' wurde erfolgreich angepasst. Möchten Sie das aktualisierte Skript sehen?`

	// WizardConfirmationPattern matches an affirmative answer to the summary
	// question. The input is lowercased before matching.
	WizardConfirmationPattern = `\b(ja|yes|ok|okay|generieren|erstellen|generiere|beginnen?)\b`

	// WizardShowScriptPattern matches a follow-up request to see the script.
	WizardShowScriptPattern = `\b(zeigen?|anzeigen|sehen|show|skript|script)\b`
)
