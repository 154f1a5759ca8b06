package script

import (
	"fmt"
	"strings"
	"time"
)

// SectionContent is one rendered step of a generated script.
type SectionContent struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Metadata describes how a document was produced.
type Metadata struct {
	FacilityType string    `json:"facility_type"`
	Audience     string    `json:"audience"`
	Duration     string    `json:"duration"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// Document is a generated training script held in section-keyed form so
// individual sections can be replaced without re-generating the rest.
type Document struct {
	Title        string           `json:"title"`
	Introduction string           `json:"introduction"`
	Sections     []SectionContent `json:"sections"`
	Conclusion   string           `json:"conclusion"`
	Meta         Metadata         `json:"meta"`

	// Caveats is set when the hallucination check flagged passages.
	Caveats string `json:"caveats,omitempty"`
}

// New builds a Document from raw LLM output by slicing it into the template
// sections. Text before the first recognized heading becomes the
// introduction. If no heading is recognized the whole output lands in the
// first section so nothing is silently dropped.
func New(title string, raw string, meta Metadata) *Document {
	doc := &Document{Title: title, Meta: meta}

	intro, bodies := SliceSections(raw)
	doc.Introduction = intro
	for _, s := range sections {
		doc.Sections = append(doc.Sections, SectionContent{
			Key:   s.Key,
			Title: s.Title,
			Body:  bodies[s.Key],
		})
	}
	if len(bodies) == 0 {
		doc.Introduction = ""
		doc.Sections[0].Body = strings.TrimSpace(raw)
	}
	return doc
}

// SliceSections splits raw generated text along section headings. Matching
// is tolerant: a heading line counts for a section when it contains the
// English or German part of that section's title, case-insensitively, with
// leading numbering ignored. Returns the text before the first matched
// heading and a key→body map of everything that matched.
func SliceSections(raw string) (intro string, bodies map[string]string) {
	bodies = make(map[string]string)

	lines := strings.Split(raw, "\n")
	currentKey := ""
	var buf strings.Builder
	var introBuf strings.Builder

	flush := func() {
		if currentKey == "" {
			return
		}
		body := strings.TrimSpace(buf.String())
		if body != "" {
			bodies[currentKey] = body
		}
		buf.Reset()
	}

	for _, line := range lines {
		if key, ok := matchHeading(line); ok {
			flush()
			currentKey = key
			continue
		}
		if currentKey == "" {
			introBuf.WriteString(line)
			introBuf.WriteString("\n")
		} else {
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}
	flush()

	return strings.TrimSpace(introBuf.String()), bodies
}

// matchHeading reports whether a line is a heading for a known section.
func matchHeading(line string) (key string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	heading := strings.ToLower(strings.TrimLeft(trimmed, "# "))
	heading = strings.TrimLeft(heading, "0123456789.) ")

	for _, s := range sections {
		aliases := strings.Split(s.Title, " / ")
		aliases = append(aliases, strings.ReplaceAll(s.Key, "_", " "))
		for _, alias := range aliases {
			if strings.Contains(heading, strings.ToLower(alias)) {
				return s.Key, true
			}
		}
	}
	return "", false
}

// Section returns the content of one section by key.
func (d *Document) Section(key string) (SectionContent, bool) {
	for _, s := range d.Sections {
		if s.Key == key {
			return s, true
		}
	}
	return SectionContent{}, false
}

// ReplaceSection swaps the body of one section in place.
func (d *Document) ReplaceSection(key string, body string) error {
	for i := range d.Sections {
		if d.Sections[i].Key == key {
			d.Sections[i].Body = strings.TrimSpace(body)
			return nil
		}
	}
	return fmt.Errorf("unknown section %q", key)
}

// Render produces the flat text form of the document: title heading,
// introduction, one level-2 heading per section, conclusion and a metadata
// footer. The caveat block, when present, is appended last.
func (d *Document) Render() string {
	var b strings.Builder

	b.WriteString("# ")
	b.WriteString(d.Title)
	b.WriteString("\n\n")

	if d.Introduction != "" {
		b.WriteString(d.Introduction)
		b.WriteString("\n\n")
	}

	for _, s := range d.Sections {
		b.WriteString("## ")
		b.WriteString(s.Title)
		b.WriteString("\n\n")
		if s.Body != "" {
			b.WriteString(s.Body)
			b.WriteString("\n\n")
		}
	}

	if d.Conclusion != "" {
		b.WriteString("## Fazit\n\n")
		b.WriteString(d.Conclusion)
		b.WriteString("\n\n")
	}

	b.WriteString("---\n")
	b.WriteString("Einrichtung: ")
	b.WriteString(d.Meta.FacilityType)
	b.WriteString("\nZielgruppe: ")
	b.WriteString(d.Meta.Audience)
	b.WriteString("\nDauer: ")
	b.WriteString(d.Meta.Duration)
	b.WriteString(" Minuten\nErstellt: ")
	b.WriteString(d.Meta.GeneratedAt.Format("2006-01-02 15:04"))
	b.WriteString("\n")

	if d.Caveats != "" {
		b.WriteString("\n")
		b.WriteString(d.Caveats)
		b.WriteString("\n")
	}

	return b.String()
}

// Export is the structured section-keyed form of a document. It carries
// everything Render prints, so FromExport followed by Render reproduces the
// same text.
type Export struct {
	Title        string           `json:"title"`
	Introduction string           `json:"introduction"`
	Sections     []SectionContent `json:"sections"`
	Conclusion   string           `json:"conclusion"`
	Meta         Metadata         `json:"meta"`
	Caveats      string           `json:"caveats,omitempty"`
}

// Export returns the structured form of the document.
func (d *Document) Export() Export {
	secs := make([]SectionContent, len(d.Sections))
	copy(secs, d.Sections)
	return Export{
		Title:        d.Title,
		Introduction: d.Introduction,
		Sections:     secs,
		Conclusion:   d.Conclusion,
		Meta:         d.Meta,
		Caveats:      d.Caveats,
	}
}

// FromExport rebuilds a Document from its structured form.
func FromExport(e Export) *Document {
	secs := make([]SectionContent, len(e.Sections))
	copy(secs, e.Sections)
	return &Document{
		Title:        e.Title,
		Introduction: e.Introduction,
		Sections:     secs,
		Conclusion:   e.Conclusion,
		Meta:         e.Meta,
		Caveats:      e.Caveats,
	}
}
