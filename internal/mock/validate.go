package mock

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mind-engage/mindengage-mock/internal/grading"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
	maxTranscriptLen  = 2000
	minTimeLimit      = 1
	maxTimeLimit      = 300
)

func checkTitle(v *ValidationError, title string) {
	switch {
	case strings.TrimSpace(title) == "":
		v.Add("title", "Title is required")
	case utf8.RuneCountInString(title) > maxTitleLen:
		v.Add("title", fmt.Sprintf("Title must be at most %d characters", maxTitleLen))
	}
}

func (m *Mock) Validate() error {
	v := &ValidationError{}
	checkTitle(v, m.Title)
	if utf8.RuneCountInString(m.Description) > maxDescriptionLen {
		v.Add("description", fmt.Sprintf("Description must be at most %d characters", maxDescriptionLen))
	}
	if m.TimeLimit < minTimeLimit || m.TimeLimit > maxTimeLimit {
		v.Add("time_limit", fmt.Sprintf("Time limit must be between %d and %d minutes", minTimeLimit, maxTimeLimit))
	}
	return v.Err()
}

func (r *Reading) Validate() error {
	v := &ValidationError{}
	if r.MockID <= 0 {
		v.Add("mock_id", "Mock is required")
	}
	checkTitle(v, r.Title)
	if strings.TrimSpace(r.PassageText) == "" {
		v.Add("passage_text", "Passage text is required")
	}
	checkQuestions(v, r.Questions)
	return v.Err()
}

func (l *Listening) Validate() error {
	v := &ValidationError{}
	if l.MockID <= 0 {
		v.Add("mock_id", "Mock is required")
	}
	checkTitle(v, l.Title)
	if l.Transcript != nil && utf8.RuneCountInString(*l.Transcript) > maxTranscriptLen {
		v.Add("transcript", fmt.Sprintf("Transcript must be at most %d characters", maxTranscriptLen))
	}
	checkQuestions(v, l.Questions)
	return v.Err()
}

func (w *Writing) Validate() error {
	v := &ValidationError{}
	if w.MockID <= 0 {
		v.Add("mock_id", "Mock is required")
	}
	checkTitle(v, w.Title)
	if strings.TrimSpace(w.TaskDescription) == "" {
		v.Add("task_description", "Task description is required")
	}
	if w.MinWords < 0 {
		v.Add("min_words", "Minimum word count cannot be negative")
	}
	if w.Points < 0 {
		v.Add("points", "Points cannot be negative")
	}
	return v.Err()
}

func checkQuestions(v *ValidationError, qs []Question) {
	for i, q := range qs {
		p := fmt.Sprintf("questions[%d].", i)
		if strings.TrimSpace(q.QuestionText) == "" {
			v.Add(p+"question_text", "Question text is required")
		}
		if !grading.IsObjective(q.QuestionType) {
			v.Add(p+"question_type", "Unknown question type "+fmt.Sprintf("%q", q.QuestionType))
		}
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			v.Add(p+"correct_answer", "Correct answer is required")
		}
		if q.Points < 1 {
			v.Add(p+"points", "Points must be at least 1")
		}
	}
}

// applyDefaults fills zero values the way a blank admin form would.
func (q *Question) applyDefaults() {
	if q.Points == 0 {
		q.Points = 1
	}
}

func (w *Writing) applyDefaults() {
	if w.MinWords == 0 {
		w.MinWords = 150
	}
	if w.Points == 0 {
		w.Points = 9
	}
}
