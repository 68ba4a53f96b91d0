package mock

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const resultCols = `id, user_id, mock_id, started_at, completed_at, is_completed,
	reading_score, listening_score, writing_score, total_score`

func (s *SQLStore) CreateResult(ctx context.Context, r *Result) error {
	if r.StartedAt == 0 {
		r.StartedAt = s.now().Unix()
	}
	id, err := s.insertID(ctx, s.db, `INSERT INTO results (user_id, mock_id, started_at, is_completed)
		VALUES (?,?,?,?) RETURNING id`, r.UserID, r.MockID, r.StartedAt, false)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	r.ID = id
	return nil
}

func (s *SQLStore) addAnswer(ctx context.Context, table string, a *Answer) error {
	if a.AnsweredAt == 0 {
		a.AnsweredAt = s.now().Unix()
	}
	id, err := s.insertID(ctx, s.db, `INSERT INTO `+table+` (result_id, question_id, user_answer, is_correct, answered_at)
		VALUES (?,?,?,?,?) RETURNING id`, a.ResultID, a.QuestionID, a.UserAnswer, a.IsCorrect, a.AnsweredAt)
	if err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	a.ID = id
	return nil
}

func (s *SQLStore) AddReadingAnswer(ctx context.Context, a *Answer) error {
	return s.addAnswer(ctx, "reading_answers", a)
}

func (s *SQLStore) AddListeningAnswer(ctx context.Context, a *Answer) error {
	return s.addAnswer(ctx, "listening_answers", a)
}

func (s *SQLStore) AddWritingAnswer(ctx context.Context, a *WritingAnswer) error {
	if a.AnsweredAt == 0 {
		a.AnsweredAt = s.now().Unix()
	}
	id, err := s.insertID(ctx, s.db, `INSERT INTO writing_answers (result_id, writing_id, answer_text, word_count, score, feedback, answered_at)
		VALUES (?,?,?,?,?,?,?) RETURNING id`,
		a.ResultID, a.WritingID, a.AnswerText, a.WordCount, a.Score, a.Feedback, a.AnsweredAt)
	if err != nil {
		return fmt.Errorf("insert writing answer: %w", err)
	}
	a.ID = id
	return nil
}

// CompleteResult stores the final scores and flips the result to completed.
func (s *SQLStore) CompleteResult(ctx context.Context, r Result) error {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE results SET completed_at=?, is_completed=?,
		reading_score=?, listening_score=?, writing_score=?, total_score=? WHERE id=?`),
		r.CompletedAt, true, r.ReadingScore, r.ListeningScore, r.WritingScore, r.TotalScore, r.ID)
	if err != nil {
		return fmt.Errorf("complete result: %w", err)
	}
	return s.checkAffected(ctx, s.db, res, "results", r.ID)
}

func (s *SQLStore) GetResult(ctx context.Context, id int64) (ResultDetail, error) {
	var d ResultDetail
	if err := s.db.GetContext(ctx, &d.Result, s.q(`SELECT `+resultCols+` FROM results WHERE id=?`), id); err != nil {
		return ResultDetail{}, notFound(err)
	}
	d.Status = d.Result.Status()
	if err := s.db.GetContext(ctx, &d.MockTitle, s.q(`SELECT title FROM mocks WHERE id=?`), d.MockID); err != nil {
		return ResultDetail{}, notFound(err)
	}

	d.ReadingAnswers = []Answer{}
	err := s.db.SelectContext(ctx, &d.ReadingAnswers, s.q(`SELECT a.id, a.result_id, a.question_id, a.user_answer,
		a.is_correct, a.answered_at, q.question_text, q.correct_answer, q.points
		FROM reading_answers a JOIN reading_questions q ON q.id = a.question_id
		WHERE a.result_id=? ORDER BY q.order_number, a.id`), id)
	if err != nil {
		return ResultDetail{}, fmt.Errorf("reading answers: %w", err)
	}

	d.ListeningAnswers = []Answer{}
	err = s.db.SelectContext(ctx, &d.ListeningAnswers, s.q(`SELECT a.id, a.result_id, a.question_id, a.user_answer,
		a.is_correct, a.answered_at, q.question_text, q.correct_answer, q.points
		FROM listening_answers a JOIN listening_questions q ON q.id = a.question_id
		WHERE a.result_id=? ORDER BY q.order_number, a.id`), id)
	if err != nil {
		return ResultDetail{}, fmt.Errorf("listening answers: %w", err)
	}

	d.WritingAnswers = []WritingAnswer{}
	err = s.db.SelectContext(ctx, &d.WritingAnswers, s.q(`SELECT a.id, a.result_id, a.writing_id, a.answer_text,
		a.word_count, a.score, a.feedback, a.answered_at, w.title AS writing_title, w.points AS max_points
		FROM writing_answers a JOIN writings w ON w.id = a.writing_id
		WHERE a.result_id=? ORDER BY w.order_number, a.id`), id)
	if err != nil {
		return ResultDetail{}, fmt.Errorf("writing answers: %w", err)
	}
	return d, nil
}

func (s *SQLStore) ListResults(ctx context.Context, opts ResultListOpts) ([]ResultSummary, error) {
	query := `SELECT r.id, r.user_id, r.mock_id, r.started_at, r.completed_at, r.is_completed,
		r.reading_score, r.listening_score, r.writing_score, r.total_score,
		COALESCE(u.username, r.user_id) AS username, m.title AS mock_title
		FROM results r
		JOIN mocks m ON m.id = r.mock_id
		LEFT JOIN users u ON u.id = r.user_id
		WHERE 1=1`
	var args []any
	if opts.MockID > 0 {
		query += ` AND r.mock_id=?`
		args = append(args, opts.MockID)
	}
	if opts.UserID != "" {
		query += ` AND r.user_id=?`
		args = append(args, opts.UserID)
	}
	if opts.ByScore {
		// NULL completed_at (still started) sorts last on both drivers
		query += ` ORDER BY r.total_score DESC, COALESCE(r.completed_at, 0) DESC, r.id DESC`
	} else {
		query += ` ORDER BY r.started_at DESC, r.id DESC`
	}
	query += pageClause(opts.Limit, opts.Offset)

	out := []ResultSummary{}
	if err := s.db.SelectContext(ctx, &out, s.q(query), args...); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return out, nil
}

func (s *SQLStore) ScoreWritingAnswer(ctx context.Context, resultID, answerID int64, score int, feedback *string) (Result, error) {
	var out Result
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var maxPoints int
		err := tx.QueryRowxContext(ctx, s.q(`SELECT w.points FROM writing_answers a
			JOIN writings w ON w.id = a.writing_id
			WHERE a.id=? AND a.result_id=?`), answerID, resultID).Scan(&maxPoints)
		if err != nil {
			return notFound(err)
		}
		if score < 0 || score > maxPoints {
			return fieldError("score", fmt.Sprintf("Score must be between 0 and %d", maxPoints))
		}
		if _, err := tx.ExecContext(ctx, s.q(`UPDATE writing_answers SET score=?, feedback=? WHERE id=?`),
			score, feedback, answerID); err != nil {
			return fmt.Errorf("score writing answer: %w", err)
		}
		if _, err := tx.ExecContext(ctx, s.q(`UPDATE results SET writing_score =
			(SELECT COALESCE(SUM(score), 0) FROM writing_answers WHERE result_id=? AND score IS NOT NULL)
			WHERE id=?`), resultID, resultID); err != nil {
			return fmt.Errorf("update writing score: %w", err)
		}
		return tx.GetContext(ctx, &out, s.q(`SELECT `+resultCols+` FROM results WHERE id=?`), resultID)
	})
	if err != nil {
		return Result{}, err
	}
	return out, nil
}

// CountStaleResults counts attempts started before the cutoff that never completed.
func (s *SQLStore) CountStaleResults(ctx context.Context, startedBefore int64) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.q(`SELECT COUNT(*) FROM results WHERE is_completed=? AND started_at < ?`),
		false, startedBefore)
	if err != nil {
		return 0, fmt.Errorf("count stale results: %w", err)
	}
	return n, nil
}
