package combine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"security-training-be/pkg/store"
)

func doc(id, title, content, source string, sim float64) store.Document {
	return store.Document{ID: id, Title: title, Content: content, Source: source, Similarity: sim}
}

func TestFormatGroupsByCollection(t *testing.T) {
	c := &Combined{
		Strategic: map[string][]store.Document{
			"papers":    {doc("p1", "Awareness Study", "Paper body", "BSI", 0.9)},
			"templates": {doc("t1", "Basic Template", "Template body", "intern", 0.8)},
			"threats":   {doc("th1", "Phishing Overview", "Threat body", "BSI", 0.7)},
		},
		TemplateExamples: []store.Document{doc("e1", "Hospital Example", "Example body", "intern", 0.85)},
		ThreatInfo: map[string][]store.Document{
			"phishing": {doc("d1", "Spear Phishing", "Detail body", "BSI", 0.75)},
		},
	}

	out := c.Format()

	assert.Contains(t, out, "# RETRIEVED CONTENT")
	assert.Contains(t, out, "## RESEARCH PAPERS")
	assert.Contains(t, out, "### Awareness Study")
	assert.Contains(t, out, "## TEMPLATES")
	assert.Contains(t, out, "## THREAT VECTORS")
	assert.Contains(t, out, "## TEMPLATE EXAMPLES")
	assert.Contains(t, out, "## DETAILED THREAT INFORMATION")
	assert.Contains(t, out, "### PHISHING")
	assert.Contains(t, out, "#### Spear Phishing")
	assert.Contains(t, out, "# SOURCE ATTRIBUTION")
	assert.Contains(t, out, "- Awareness Study (BSI)")
	assert.Contains(t, out, "- Hospital Example (intern)")

	// Grouping order: papers before templates before threats.
	assert.Less(t, strings.Index(out, "## RESEARCH PAPERS"), strings.Index(out, "## TEMPLATES"))
	assert.Less(t, strings.Index(out, "## TEMPLATES"), strings.Index(out, "## THREAT VECTORS"))
}

func TestFormatTruncatesLongBodies(t *testing.T) {
	long := strings.Repeat("a", 2500)
	c := &Combined{
		Strategic: map[string][]store.Document{
			"papers": {doc("p1", "Long Paper", long, "BSI", 0.9)},
		},
		TemplateExamples: []store.Document{doc("e1", "Long Example", strings.Repeat("b", 3500), "intern", 0.8)},
	}

	out := c.Format()

	assert.Contains(t, out, strings.Repeat("a", 2000)+"...")
	assert.NotContains(t, out, strings.Repeat("a", 2001))
	assert.Contains(t, out, strings.Repeat("b", 3000)+"...")
	assert.NotContains(t, out, strings.Repeat("b", 3001))
}

func TestTruncateIsRuneAware(t *testing.T) {
	text := strings.Repeat("ä", 2100)
	got := truncate(text, 2000)
	assert.Equal(t, strings.Repeat("ä", 2000)+"...", got)
}

func TestFormatShortBodiesKeepNoMarker(t *testing.T) {
	c := &Combined{
		Strategic: map[string][]store.Document{
			"papers": {doc("p1", "Short", "kurz", "BSI", 0.9)},
		},
	}
	out := c.Format()
	assert.Contains(t, out, "kurz")
	assert.NotContains(t, out, "kurz...")
}

func TestAttributions(t *testing.T) {
	c := &Combined{
		Strategic: map[string][]store.Document{
			"papers":  {doc("p1", "Paper", "x", "BSI", 0.9)},
			"threats": {doc("th1", "", "x", "", 0.7)},
		},
		TemplateExamples: []store.Document{doc("e1", "Example", "x", "intern", 0.8)},
		ThreatInfo: map[string][]store.Document{
			"malware":  {doc("d2", "Wurm", "x", "BSI", 0.6)},
			"phishing": {doc("d1", "Spear", "x", "BSI", 0.75)},
		},
	}

	refs := c.Attributions()
	require.Len(t, refs, 5)

	assert.Equal(t, "papers", refs[0].Type)
	assert.Equal(t, "threats", refs[1].Type)
	assert.Equal(t, "Untitled document", refs[1].Title)
	assert.Equal(t, "Unknown source", refs[1].Source)
	assert.Equal(t, "template_example", refs[2].Type)

	// Threat info last, subtypes sorted.
	assert.Equal(t, "threat_info", refs[3].Type)
	assert.Equal(t, "malware", refs[3].Subtype)
	assert.Equal(t, "phishing", refs[4].Subtype)

	assert.Equal(t, 5, c.TotalDocuments())
}

func TestEmptyCombined(t *testing.T) {
	c := &Combined{}
	out := c.Format()
	assert.Contains(t, out, "# RETRIEVED CONTENT")
	assert.Contains(t, out, "# SOURCE ATTRIBUTION")
	assert.Empty(t, c.Attributions())
	assert.Zero(t, c.TotalDocuments())
}
