package mock

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mind-engage/mindengage-mock/internal/grading"
)

// TestContent returns a mock's content for a test taker: answer keys are
// removed and media URLs filled in. Inactive mocks yield ErrInactive.
func (s *Service) TestContent(ctx context.Context, mockID int64) (Content, error) {
	c, err := s.store.GetContent(ctx, mockID)
	if err != nil {
		return Content{}, err
	}
	if !c.Mock.IsActive {
		return Content{}, ErrInactive
	}
	c.StripAnswers()
	for i := range c.Listenings {
		s.fillListening(&c.Listenings[i])
	}
	for i := range c.Writings {
		s.fillWriting(&c.Writings[i])
	}
	return c, nil
}

// Submit grades one submission of a mock. answers is the flat form keyed
// reading_<questionID>, listening_<questionID> and writing_<writingID>.
//
// The result row is created first and only marked completed once every
// answer is stored. A failure part way leaves it in the started state.
func (s *Service) Submit(ctx context.Context, mockID int64, userID string, answers map[string]string) (Result, error) {
	c, err := s.store.GetContent(ctx, mockID)
	if err != nil {
		return Result{}, err
	}
	if !c.Mock.IsActive {
		return Result{}, ErrInactive
	}

	r := Result{UserID: userID, MockID: mockID, StartedAt: s.now().Unix()}
	if err := s.store.CreateResult(ctx, &r); err != nil {
		return Result{}, err
	}

	for _, sec := range c.Readings {
		for _, q := range sec.Questions {
			pts, err := s.gradeQuestion(ctx, r.ID, q, answers["reading_"+itoa(q.ID)], s.store.AddReadingAnswer)
			if err != nil {
				return Result{}, fmt.Errorf("result %d: reading question %d: %w", r.ID, q.ID, err)
			}
			r.ReadingScore += pts
		}
	}
	for _, sec := range c.Listenings {
		for _, q := range sec.Questions {
			pts, err := s.gradeQuestion(ctx, r.ID, q, answers["listening_"+itoa(q.ID)], s.store.AddListeningAnswer)
			if err != nil {
				return Result{}, fmt.Errorf("result %d: listening question %d: %w", r.ID, q.ID, err)
			}
			r.ListeningScore += pts
		}
	}
	for _, w := range c.Writings {
		text := answers["writing_"+itoa(w.ID)]
		if strings.TrimSpace(text) == "" {
			continue
		}
		res, err := s.grader.Grade(ctx, grading.Q{Type: grading.TypeWriting, Points: w.Points}, text)
		if err != nil {
			return Result{}, fmt.Errorf("result %d: writing %d: %w", r.ID, w.ID, err)
		}
		wa := WritingAnswer{
			ResultID:   r.ID,
			WritingID:  w.ID,
			AnswerText: text,
			WordCount:  grading.WordCount(text),
			AnsweredAt: s.now().Unix(),
		}
		if !res.NeedsManual {
			pts := min(res.AutoPoints, w.Points)
			wa.Score = &pts
			r.WritingScore += pts
		}
		if err := s.store.AddWritingAnswer(ctx, &wa); err != nil {
			return Result{}, fmt.Errorf("result %d: writing %d: %w", r.ID, w.ID, err)
		}
	}

	done := s.now().Unix()
	r.CompletedAt = &done
	r.IsCompleted = true
	r.TotalScore = r.ReadingScore + r.ListeningScore
	if err := s.store.CompleteResult(ctx, r); err != nil {
		return Result{}, err
	}
	s.audit.Record(ctx, "result.completed", itoa(r.ID), map[string]any{
		"user_id": userID, "mock_id": mockID, "total_score": r.TotalScore,
	})
	return r, nil
}

// gradeQuestion grades and stores one answer, returning the points earned.
// Blank answers store nothing.
func (s *Service) gradeQuestion(ctx context.Context, resultID int64, q Question, submitted string,
	add func(context.Context, *Answer) error) (int, error) {
	if strings.TrimSpace(submitted) == "" {
		return 0, nil
	}
	res, err := s.grader.Grade(ctx, grading.Q{Type: q.QuestionType, Points: q.Points, AnswerKey: q.CorrectAnswer}, submitted)
	if err != nil {
		return 0, err
	}
	a := Answer{
		ResultID:   resultID,
		QuestionID: q.ID,
		UserAnswer: submitted,
		IsCorrect:  res.Correct,
		AnsweredAt: s.now().Unix(),
	}
	if err := add(ctx, &a); err != nil {
		return 0, err
	}
	return res.AutoPoints, nil
}

// GetResult loads a result for a viewer. Only the owner or an admin may see
// it; anyone else gets ErrForbidden.
func (s *Service) GetResult(ctx context.Context, id int64, viewerID string, admin bool) (ResultDetail, error) {
	d, err := s.store.GetResult(ctx, id)
	if err != nil {
		return ResultDetail{}, err
	}
	if !admin && d.UserID != viewerID {
		return ResultDetail{}, ErrForbidden
	}
	return d, nil
}

func (s *Service) ListResults(ctx context.Context, opts ResultListOpts) ([]ResultSummary, error) {
	return s.store.ListResults(ctx, opts)
}

// ScoreWriting records an administrator's score for one writing answer.
func (s *Service) ScoreWriting(ctx context.Context, resultID, answerID int64, score int, feedback string) (Result, error) {
	var fb *string
	if f := strings.TrimSpace(feedback); f != "" {
		fb = &f
	}
	r, err := s.store.ScoreWritingAnswer(ctx, resultID, answerID, score, fb)
	if err != nil {
		return Result{}, err
	}
	s.audit.Record(ctx, "writing.scored", itoa(answerID), map[string]any{
		"result_id": resultID, "score": score, "writing_score": r.WritingScore,
	})
	return r, nil
}

// StaleResults counts attempts started before cutoff (unix seconds) that
// never completed.
func (s *Service) StaleResults(ctx context.Context, cutoff int64) (int, error) {
	return s.store.CountStaleResults(ctx, cutoff)
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
