package dialogue

import (
	"time"

	"security-training-be/pkg/script"
	"security-training-be/pkg/store"
)

// Start returns a fresh dialogue state. The question ids and section keys
// are frozen here so later catalog changes never shift an in-flight session.
func Start() store.DialogueState {
	ids := make([]string, len(contextQuestions))
	for i, q := range contextQuestions {
		ids[i] = q.ID
	}
	return store.DialogueState{
		Stage:       store.StageIntroduction,
		QuestionIDs: ids,
		SectionKeys: script.SectionKeys(),
		Answers:     make(map[string]string),
		LastUpdated: time.Now(),
	}
}

// RecordAnswer stores an answer under a question id. Existing answers are
// overwritten silently; no validation happens here.
func RecordAnswer(st *store.DialogueState, questionID, answer string) {
	if st.Answers == nil {
		st.Answers = make(map[string]string)
	}
	st.Answers[questionID] = answer
	st.LastUpdated = time.Now()
}

// Advance is the only stage transition. Within a question stage it moves the
// index forward; crossing the end of the frozen list transitions to the next
// stage exactly once. The complete stage is terminal and idempotent.
func Advance(st *store.DialogueState) {
	switch st.Stage {
	case store.StageIntroduction:
		st.Stage = store.StageContextQuestions
	case store.StageContextQuestions:
		st.StepIndex++
		if st.StepIndex >= len(st.QuestionIDs) {
			st.Stage = store.StageTemplateQuestions
		}
	case store.StageTemplateQuestions:
		st.SectionIndex++
		if st.SectionIndex >= len(st.SectionKeys) {
			st.Stage = store.StageSummary
		}
	case store.StageSummary:
		st.Stage = store.StageComplete
	case store.StageComplete:
		// terminal
	}
	st.LastUpdated = time.Now()
}

// Rollback returns a completed dialogue to the summary stage so a failed
// generation can be retried with the answers intact.
func Rollback(st *store.DialogueState) {
	if st.Stage == store.StageComplete {
		st.Stage = store.StageSummary
		st.LastUpdated = time.Now()
	}
}

// NextQuestion returns the pending question for the current stage: the
// context question at the step index, or the parametrized section question
// for the current section key. Outside the two question stages, and past the
// end of either list, there is no question.
func NextQuestion(st *store.DialogueState) *Question {
	switch st.Stage {
	case store.StageContextQuestions:
		if st.StepIndex >= len(st.QuestionIDs) {
			return nil
		}
		q, ok := ContextQuestionByID(st.QuestionIDs[st.StepIndex])
		if !ok {
			return nil
		}
		return &q
	case store.StageTemplateQuestions:
		if st.SectionIndex >= len(st.SectionKeys) {
			return nil
		}
		q, ok := SectionQuestion(st.SectionKeys[st.SectionIndex], st.Answers)
		if !ok {
			return nil
		}
		return &q
	default:
		return nil
	}
}

// IsComplete reports whether the dialogue reached its terminal stage.
func IsComplete(st *store.DialogueState) bool {
	return st.Stage == store.StageComplete
}

// SummaryEntry pairs a question prompt with its recorded answer.
type SummaryEntry struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
}

// Summary is the review view rendered before generation.
type Summary struct {
	Stage    string         `json:"stage"`
	Entries  []SummaryEntry `json:"entries"`
	Answered int            `json:"answered"`
}

// Summarize lists every answered question in catalog order: the context
// questions first, then the section questions.
func Summarize(st *store.DialogueState) Summary {
	s := Summary{Stage: st.Stage, Answered: len(st.Answers)}

	for _, id := range st.QuestionIDs {
		answer, ok := st.Answers[id]
		if !ok {
			continue
		}
		q, found := ContextQuestionByID(id)
		if !found {
			continue
		}
		s.Entries = append(s.Entries, SummaryEntry{
			QuestionID: id,
			Question:   q.Prompt,
			Answer:     ParseAnswer(q, answer),
		})
	}
	for _, key := range st.SectionKeys {
		answer, ok := st.Answers[key]
		if !ok {
			continue
		}
		q, found := SectionQuestion(key, st.Answers)
		if !found {
			continue
		}
		s.Entries = append(s.Entries, SummaryEntry{
			QuestionID: key,
			Question:   q.Prompt,
			Answer:     answer,
		})
	}
	return s
}
