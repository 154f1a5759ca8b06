package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"security-training-be/pkg/store"
)

func TestStartFreezesCatalogs(t *testing.T) {
	st := Start()

	assert.Equal(t, store.StageIntroduction, st.Stage)
	assert.Len(t, st.QuestionIDs, 7)
	assert.Len(t, st.SectionKeys, 7)
	assert.Equal(t, QuestionFacilityType, st.QuestionIDs[0])
	assert.NotNil(t, st.Answers)
	assert.False(t, st.LastUpdated.IsZero())
}

func TestFullStageWalk(t *testing.T) {
	st := Start()

	Advance(&st)
	require.Equal(t, store.StageContextQuestions, st.Stage)

	for i := 0; i < len(st.QuestionIDs); i++ {
		q := NextQuestion(&st)
		require.NotNil(t, q, "question %d", i)
		assert.Equal(t, st.QuestionIDs[i], q.ID)
		RecordAnswer(&st, q.ID, "Antwort")
		Advance(&st)
	}
	require.Equal(t, store.StageTemplateQuestions, st.Stage)
	assert.Zero(t, st.SectionIndex)

	for i := 0; i < len(st.SectionKeys); i++ {
		q := NextQuestion(&st)
		require.NotNil(t, q, "section %d", i)
		assert.Equal(t, st.SectionKeys[i], q.ID)
		RecordAnswer(&st, q.ID, "Abschnittsantwort")
		Advance(&st)
	}
	require.Equal(t, store.StageSummary, st.Stage)
	assert.Nil(t, NextQuestion(&st))
	assert.False(t, IsComplete(&st))

	Advance(&st)
	require.Equal(t, store.StageComplete, st.Stage)
	assert.True(t, IsComplete(&st))

	// Terminal is idempotent.
	Advance(&st)
	Advance(&st)
	assert.Equal(t, store.StageComplete, st.Stage)
	assert.Nil(t, NextQuestion(&st))
}

func TestRecordAnswerOverwritesSilently(t *testing.T) {
	st := Start()
	before := st.LastUpdated

	RecordAnswer(&st, QuestionFacilityType, "Klinik")
	RecordAnswer(&st, QuestionFacilityType, "Krankenhaus")

	assert.Equal(t, "Krankenhaus", st.Answers[QuestionFacilityType])
	assert.False(t, st.LastUpdated.Before(before))
}

func TestRollback(t *testing.T) {
	st := Start()
	st.Stage = store.StageComplete
	Rollback(&st)
	assert.Equal(t, store.StageSummary, st.Stage)

	// Only the terminal stage rolls back.
	st.Stage = store.StageContextQuestions
	Rollback(&st)
	assert.Equal(t, store.StageContextQuestions, st.Stage)
}

func TestSectionQuestionResolvesPlaceholders(t *testing.T) {
	st := Start()
	st.Stage = store.StageTemplateQuestions
	st.Answers[QuestionFacilityType] = "Universitätsklinikum"
	st.Answers[QuestionFocusThreats] = "Ransomware, Phishing"

	q := NextQuestion(&st)
	require.NotNil(t, q)
	assert.Contains(t, q.Prompt, "Universitätsklinikum")
	assert.Contains(t, q.Prompt, "Ransomware")
	assert.NotContains(t, q.Prompt, "{facility}")
	assert.NotContains(t, q.Prompt, "{threat}")
}

func TestSectionQuestionFallbacks(t *testing.T) {
	q, ok := SectionQuestion("threat_awareness", map[string]string{})
	require.True(t, ok)
	assert.Contains(t, q.Prompt, "Ihrer Einrichtung")
	assert.Contains(t, q.Prompt, "Phishing")
	assert.NotContains(t, q.Prompt, "{")

	_, ok = SectionQuestion("unknown_section", nil)
	assert.False(t, ok)
}

func TestSectionQuestionDoesNotRescanSubstitutions(t *testing.T) {
	// An answer that itself looks like a placeholder must survive literally.
	q, ok := SectionQuestion("threat_awareness", map[string]string{
		QuestionFacilityType: "Haus {threat}",
		QuestionFocusThreats: "Malware",
	})
	require.True(t, ok)
	assert.Contains(t, q.Prompt, "Haus {threat}")
	assert.Contains(t, q.Prompt, "Malware")
}

func TestSummarizeCatalogOrder(t *testing.T) {
	st := Start()
	st.Stage = store.StageSummary
	st.Answers[QuestionFocusThreats] = "Phishing,Malware"
	st.Answers[QuestionFacilityType] = "Arztpraxis"
	st.Answers[QuestionDuration] = "abc"
	st.Answers["threat_awareness"] = "Empfang"

	s := Summarize(&st)
	assert.Equal(t, store.StageSummary, s.Stage)
	assert.Equal(t, 4, s.Answered)
	require.Len(t, s.Entries, 4)

	// Catalog order, not answer-recording order.
	assert.Equal(t, QuestionFacilityType, s.Entries[0].QuestionID)
	assert.Equal(t, QuestionDuration, s.Entries[1].QuestionID)
	assert.Equal(t, QuestionFocusThreats, s.Entries[2].QuestionID)
	assert.Equal(t, "threat_awareness", s.Entries[3].QuestionID)

	// Answers are normalized per declared type.
	assert.Equal(t, "60", s.Entries[1].Answer)
	assert.Equal(t, "Phishing, Malware", s.Entries[2].Answer)
}
