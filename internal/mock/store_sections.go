package mock

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type questionTable struct {
	table     string
	parentCol string
}

var (
	readingQuestions   = questionTable{table: "reading_questions", parentCol: "reading_id"}
	listeningQuestions = questionTable{table: "listening_questions", parentCol: "listening_id"}
)

func (s *SQLStore) loadQuestions(ctx context.Context, qx sqlx.QueryerContext, t questionTable, parentIDs []int64) (map[int64][]Question, error) {
	out := map[int64][]Question{}
	if len(parentIDs) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT id, `+t.parentCol+` AS section_id, question_text, question_type, correct_answer,
		option_a, option_b, option_c, option_d, order_number, points
		FROM `+t.table+` WHERE `+t.parentCol+` IN (?) ORDER BY order_number, id`, parentIDs)
	if err != nil {
		return nil, err
	}
	var qs []Question
	if err := sqlx.SelectContext(ctx, qx, &qs, s.q(query), args...); err != nil {
		return nil, fmt.Errorf("load %s: %w", t.table, err)
	}
	for _, q := range qs {
		out[q.SectionID] = append(out[q.SectionID], q)
	}
	return out, nil
}

// saveQuestions reconciles the stored questions of one section with qs:
// rows with an id are updated, id 0 inserts, and stored rows missing from qs
// are deleted along with their answers.
func (s *SQLStore) saveQuestions(ctx context.Context, tx *sqlx.Tx, t questionTable, parentID int64, qs []Question) error {
	var existing []int64
	if err := tx.SelectContext(ctx, &existing, s.q(`SELECT id FROM `+t.table+` WHERE `+t.parentCol+`=?`), parentID); err != nil {
		return err
	}
	have := make(map[int64]bool, len(existing))
	for _, id := range existing {
		have[id] = true
	}
	keep := map[int64]bool{}
	for i := range qs {
		q := &qs[i]
		q.SectionID = parentID
		if q.ID == 0 {
			id, err := s.insertID(ctx, tx, `INSERT INTO `+t.table+` (`+t.parentCol+`, question_text, question_type, correct_answer,
				option_a, option_b, option_c, option_d, order_number, points)
				VALUES (?,?,?,?,?,?,?,?,?,?) RETURNING id`,
				parentID, q.QuestionText, q.QuestionType, q.CorrectAnswer,
				q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.OrderNumber, q.Points)
			if err != nil {
				return fmt.Errorf("insert question: %w", err)
			}
			q.ID = id
			continue
		}
		if !have[q.ID] {
			return fieldError(fmt.Sprintf("questions[%d].id", i), "Question does not belong to this section")
		}
		_, err := tx.ExecContext(ctx, s.q(`UPDATE `+t.table+` SET question_text=?, question_type=?, correct_answer=?,
			option_a=?, option_b=?, option_c=?, option_d=?, order_number=?, points=? WHERE id=?`),
			q.QuestionText, q.QuestionType, q.CorrectAnswer,
			q.OptionA, q.OptionB, q.OptionC, q.OptionD, q.OrderNumber, q.Points, q.ID)
		if err != nil {
			return fmt.Errorf("update question %d: %w", q.ID, err)
		}
		keep[q.ID] = true
	}
	for _, id := range existing {
		if keep[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM `+t.table+` WHERE id=?`), id); err != nil {
			return fmt.Errorf("delete question %d: %w", id, err)
		}
	}
	return nil
}

func (s *SQLStore) requireMock(ctx context.Context, qx sqlx.QueryerContext, mockID int64) error {
	ok, err := s.exists(ctx, qx, "mocks", mockID)
	if err != nil {
		return err
	}
	if !ok {
		return fieldError("mock_id", "Mock does not exist")
	}
	return nil
}

func mapFK(err error) error {
	if isFKViolation(err) {
		return fieldError("mock_id", "Mock does not exist")
	}
	return err
}

// ---- readings ----

const readingCols = `id, mock_id, title, passage_text, order_number`

func (s *SQLStore) ListReadings(ctx context.Context, mockID int64) ([]Reading, error) {
	query := `SELECT ` + readingCols + ` FROM readings`
	var args []any
	if mockID > 0 {
		query += ` WHERE mock_id=?`
		args = append(args, mockID)
	}
	query += ` ORDER BY mock_id, order_number, id`
	out := []Reading{}
	if err := s.db.SelectContext(ctx, &out, s.q(query), args...); err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	ids := make([]int64, len(out))
	for i := range out {
		ids[i] = out[i].ID
	}
	qs, err := s.loadQuestions(ctx, s.db, readingQuestions, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Questions = nonNil(qs[out[i].ID])
	}
	return out, nil
}

func (s *SQLStore) GetReading(ctx context.Context, id int64) (Reading, error) {
	var r Reading
	if err := s.db.GetContext(ctx, &r, s.q(`SELECT `+readingCols+` FROM readings WHERE id=?`), id); err != nil {
		return Reading{}, notFound(err)
	}
	qs, err := s.loadQuestions(ctx, s.db, readingQuestions, []int64{id})
	if err != nil {
		return Reading{}, err
	}
	r.Questions = nonNil(qs[id])
	return r, nil
}

func (s *SQLStore) CreateReading(ctx context.Context, r *Reading) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.requireMock(ctx, tx, r.MockID); err != nil {
			return err
		}
		id, err := s.insertID(ctx, tx, `INSERT INTO readings (mock_id, title, passage_text, order_number)
			VALUES (?,?,?,?) RETURNING id`, r.MockID, r.Title, r.PassageText, r.OrderNumber)
		if err != nil {
			return fmt.Errorf("insert reading: %w", err)
		}
		r.ID = id
		return s.saveQuestions(ctx, tx, readingQuestions, id, r.Questions)
	})
	return mapFK(err)
}

func (s *SQLStore) UpdateReading(ctx context.Context, r *Reading) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.requireMock(ctx, tx, r.MockID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, s.q(`UPDATE readings SET mock_id=?, title=?, passage_text=?, order_number=? WHERE id=?`),
			r.MockID, r.Title, r.PassageText, r.OrderNumber, r.ID)
		if err != nil {
			return fmt.Errorf("update reading: %w", err)
		}
		if err := s.checkAffected(ctx, tx, res, "readings", r.ID); err != nil {
			return err
		}
		return s.saveQuestions(ctx, tx, readingQuestions, r.ID, r.Questions)
	})
	return mapFK(err)
}

func (s *SQLStore) DeleteReading(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM readings WHERE id=?`), id)
	if err != nil {
		return fmt.Errorf("delete reading: %w", err)
	}
	return deleted(res)
}

// ---- listenings ----

const listeningCols = `id, mock_id, title, audio_path, audio_file_name, audio_size, order_number, transcript`

func (s *SQLStore) ListListenings(ctx context.Context, mockID int64) ([]Listening, error) {
	query := `SELECT ` + listeningCols + ` FROM listenings`
	var args []any
	if mockID > 0 {
		query += ` WHERE mock_id=?`
		args = append(args, mockID)
	}
	query += ` ORDER BY mock_id, order_number, id`
	out := []Listening{}
	if err := s.db.SelectContext(ctx, &out, s.q(query), args...); err != nil {
		return nil, fmt.Errorf("list listenings: %w", err)
	}
	ids := make([]int64, len(out))
	for i := range out {
		ids[i] = out[i].ID
	}
	qs, err := s.loadQuestions(ctx, s.db, listeningQuestions, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Questions = nonNil(qs[out[i].ID])
	}
	return out, nil
}

func (s *SQLStore) GetListening(ctx context.Context, id int64) (Listening, error) {
	var l Listening
	if err := s.db.GetContext(ctx, &l, s.q(`SELECT `+listeningCols+` FROM listenings WHERE id=?`), id); err != nil {
		return Listening{}, notFound(err)
	}
	qs, err := s.loadQuestions(ctx, s.db, listeningQuestions, []int64{id})
	if err != nil {
		return Listening{}, err
	}
	l.Questions = nonNil(qs[id])
	return l, nil
}

func (s *SQLStore) CreateListening(ctx context.Context, l *Listening) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.requireMock(ctx, tx, l.MockID); err != nil {
			return err
		}
		id, err := s.insertID(ctx, tx, `INSERT INTO listenings (mock_id, title, audio_path, audio_file_name, audio_size, order_number, transcript)
			VALUES (?,?,?,?,?,?,?) RETURNING id`,
			l.MockID, l.Title, l.AudioPath, l.AudioFileName, l.AudioSize, l.OrderNumber, l.Transcript)
		if err != nil {
			return fmt.Errorf("insert listening: %w", err)
		}
		l.ID = id
		return s.saveQuestions(ctx, tx, listeningQuestions, id, l.Questions)
	})
	return mapFK(err)
}

func (s *SQLStore) UpdateListening(ctx context.Context, l *Listening) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.requireMock(ctx, tx, l.MockID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, s.q(`UPDATE listenings SET mock_id=?, title=?, audio_path=?, audio_file_name=?, audio_size=?,
			order_number=?, transcript=? WHERE id=?`),
			l.MockID, l.Title, l.AudioPath, l.AudioFileName, l.AudioSize, l.OrderNumber, l.Transcript, l.ID)
		if err != nil {
			return fmt.Errorf("update listening: %w", err)
		}
		if err := s.checkAffected(ctx, tx, res, "listenings", l.ID); err != nil {
			return err
		}
		return s.saveQuestions(ctx, tx, listeningQuestions, l.ID, l.Questions)
	})
	return mapFK(err)
}

func (s *SQLStore) DeleteListening(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM listenings WHERE id=?`), id)
	if err != nil {
		return fmt.Errorf("delete listening: %w", err)
	}
	return deleted(res)
}

// ---- writings ----

const writingCols = `id, mock_id, title, task_description, task_type, min_words, order_number, points, image_path`

func (s *SQLStore) ListWritings(ctx context.Context, mockID int64) ([]Writing, error) {
	query := `SELECT ` + writingCols + ` FROM writings`
	var args []any
	if mockID > 0 {
		query += ` WHERE mock_id=?`
		args = append(args, mockID)
	}
	query += ` ORDER BY mock_id, order_number, id`
	out := []Writing{}
	if err := s.db.SelectContext(ctx, &out, s.q(query), args...); err != nil {
		return nil, fmt.Errorf("list writings: %w", err)
	}
	return out, nil
}

func (s *SQLStore) GetWriting(ctx context.Context, id int64) (Writing, error) {
	var w Writing
	if err := s.db.GetContext(ctx, &w, s.q(`SELECT `+writingCols+` FROM writings WHERE id=?`), id); err != nil {
		return Writing{}, notFound(err)
	}
	return w, nil
}

func (s *SQLStore) CreateWriting(ctx context.Context, w *Writing) error {
	if err := s.requireMock(ctx, s.db, w.MockID); err != nil {
		return err
	}
	id, err := s.insertID(ctx, s.db, `INSERT INTO writings (mock_id, title, task_description, task_type, min_words, order_number, points, image_path)
		VALUES (?,?,?,?,?,?,?,?) RETURNING id`,
		w.MockID, w.Title, w.TaskDescription, w.TaskType, w.MinWords, w.OrderNumber, w.Points, w.ImagePath)
	if err != nil {
		return mapFK(fmt.Errorf("insert writing: %w", err))
	}
	w.ID = id
	return nil
}

func (s *SQLStore) UpdateWriting(ctx context.Context, w Writing) error {
	if err := s.requireMock(ctx, s.db, w.MockID); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE writings SET mock_id=?, title=?, task_description=?, task_type=?, min_words=?,
		order_number=?, points=?, image_path=? WHERE id=?`),
		w.MockID, w.Title, w.TaskDescription, w.TaskType, w.MinWords, w.OrderNumber, w.Points, w.ImagePath, w.ID)
	if err != nil {
		return mapFK(fmt.Errorf("update writing: %w", err))
	}
	return s.checkAffected(ctx, s.db, res, "writings", w.ID)
}

func (s *SQLStore) DeleteWriting(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM writings WHERE id=?`), id)
	if err != nil {
		return fmt.Errorf("delete writing: %w", err)
	}
	return deleted(res)
}

func nonNil(qs []Question) []Question {
	if qs == nil {
		return []Question{}
	}
	return qs
}
