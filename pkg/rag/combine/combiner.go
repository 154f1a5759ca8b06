package combine

import (
	"sort"
	"strings"

	"security-training-be/pkg/store"
)

// Truncation limits for document bodies embedded in the prompt.
const (
	maxDocChars     = 2000
	maxExampleChars = 3000
)

// Combined holds every retrieval result feeding one generation: the
// per-collection strategic results, the template examples, and the detailed
// threat documents grouped by threat type.
type Combined struct {
	Strategic        map[string][]store.Document
	TemplateExamples []store.Document
	ThreatInfo       map[string][]store.Document
}

// TotalDocuments counts every contributing document.
func (c *Combined) TotalDocuments() int {
	n := len(c.TemplateExamples)
	for _, docs := range c.Strategic {
		n += len(docs)
	}
	for _, docs := range c.ThreatInfo {
		n += len(docs)
	}
	return n
}

// Format renders the combined context as prompt text: the strategic results
// grouped by collection, the template examples, the detailed threat
// information, and a closing source-attribution block. Long bodies are cut
// at a fixed character limit with a trailing "..." marker.
func (c *Combined) Format() string {
	var b strings.Builder

	b.WriteString("# RETRIEVED CONTENT")

	if papers := c.Strategic["papers"]; len(papers) > 0 {
		b.WriteString("\n\n## RESEARCH PAPERS")
		for _, doc := range papers {
			writeDoc(&b, doc.Title, truncate(doc.Content, maxDocChars))
		}
	}

	if templates := c.Strategic["templates"]; len(templates) > 0 {
		b.WriteString("\n\n## TEMPLATES")
		for _, doc := range templates {
			writeDoc(&b, doc.Title, truncate(doc.Content, maxDocChars))
		}
	}

	if threats := c.Strategic["threats"]; len(threats) > 0 {
		b.WriteString("\n\n## THREAT VECTORS")
		for _, doc := range threats {
			writeDoc(&b, doc.Title, truncate(doc.Content, maxDocChars))
		}
	}

	if len(c.TemplateExamples) > 0 {
		b.WriteString("\n\n## TEMPLATE EXAMPLES")
		for _, doc := range c.TemplateExamples {
			writeDoc(&b, doc.Title, truncate(doc.Content, maxExampleChars))
		}
	}

	if len(c.ThreatInfo) > 0 {
		b.WriteString("\n\n## DETAILED THREAT INFORMATION")
		for _, threatType := range c.threatTypes() {
			docs := c.ThreatInfo[threatType]
			if len(docs) == 0 {
				continue
			}
			b.WriteString("\n\n### ")
			b.WriteString(strings.ToUpper(threatType))
			for _, doc := range docs {
				b.WriteString("\n\n#### ")
				b.WriteString(doc.Title)
				b.WriteString("\n\n")
				b.WriteString(truncate(doc.Content, maxDocChars))
			}
		}
	}

	b.WriteString("\n\n# SOURCE ATTRIBUTION\n")
	b.WriteString("The information provided above comes from the following sources:\n")
	for _, ref := range c.Attributions() {
		b.WriteString("- ")
		b.WriteString(ref.Title)
		b.WriteString(" (")
		b.WriteString(ref.Source)
		b.WriteString(")\n")
	}

	return b.String()
}

// Attributions lists every contributing document as a source reference, in
// the same order Format prints them.
func (c *Combined) Attributions() []store.SourceRef {
	var refs []store.SourceRef

	for _, collection := range []string{"papers", "templates", "threats"} {
		for _, doc := range c.Strategic[collection] {
			refs = append(refs, store.SourceRef{
				ID:         doc.ID,
				Title:      orUntitled(doc.Title),
				Source:     orUnknown(doc.Source),
				Type:       collection,
				Similarity: doc.Similarity,
			})
		}
	}

	for _, doc := range c.TemplateExamples {
		refs = append(refs, store.SourceRef{
			ID:         doc.ID,
			Title:      orUntitled(doc.Title),
			Source:     orUnknown(doc.Source),
			Type:       "template_example",
			Similarity: doc.Similarity,
		})
	}

	for _, threatType := range c.threatTypes() {
		for _, doc := range c.ThreatInfo[threatType] {
			refs = append(refs, store.SourceRef{
				ID:         doc.ID,
				Title:      orUntitled(doc.Title),
				Source:     orUnknown(doc.Source),
				Type:       "threat_info",
				Subtype:    threatType,
				Similarity: doc.Similarity,
			})
		}
	}

	return refs
}

// threatTypes returns the threat-info keys sorted for deterministic output.
func (c *Combined) threatTypes() []string {
	types := make([]string, 0, len(c.ThreatInfo))
	for t := range c.ThreatInfo {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func writeDoc(b *strings.Builder, title, body string) {
	b.WriteString("\n\n### ")
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(body)
}

// truncate cuts text at limit characters, appending a marker. The cut is
// rune-aware so multi-byte characters are never split.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}

func orUntitled(title string) string {
	if title == "" {
		return "Untitled document"
	}
	return title
}

func orUnknown(source string) string {
	if source == "" {
		return "Unknown source"
	}
	return source
}
