package mock

import (
	"context"
	"fmt"
)

const mockCols = `id, title, description, created_at, is_active, time_limit`

func (s *SQLStore) ListMocks(ctx context.Context, opts MockListOpts) ([]Mock, error) {
	query := `SELECT ` + mockCols + ` FROM mocks`
	var args []any
	if opts.ActiveOnly {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY created_at DESC, id DESC` + pageClause(opts.Limit, opts.Offset)

	out := []Mock{}
	if err := s.db.SelectContext(ctx, &out, s.q(query), args...); err != nil {
		return nil, fmt.Errorf("list mocks: %w", err)
	}
	return out, nil
}

func (s *SQLStore) GetMock(ctx context.Context, id int64) (Mock, error) {
	var m Mock
	if err := s.db.GetContext(ctx, &m, s.q(`SELECT `+mockCols+` FROM mocks WHERE id=?`), id); err != nil {
		return Mock{}, notFound(err)
	}
	var c SectionCounts
	err := s.db.QueryRowxContext(ctx, s.q(`SELECT
		(SELECT COUNT(*) FROM readings WHERE mock_id=?),
		(SELECT COUNT(*) FROM listenings WHERE mock_id=?),
		(SELECT COUNT(*) FROM writings WHERE mock_id=?),
		(SELECT COUNT(*) FROM results WHERE mock_id=?)`), id, id, id, id).
		Scan(&c.Readings, &c.Listenings, &c.Writings, &c.Results)
	if err != nil {
		return Mock{}, fmt.Errorf("count sections: %w", err)
	}
	m.Counts = &c
	return m, nil
}

func (s *SQLStore) CreateMock(ctx context.Context, m *Mock) error {
	if m.CreatedAt == 0 {
		m.CreatedAt = s.now().Unix()
	}
	id, err := s.insertID(ctx, s.db, `INSERT INTO mocks (title, description, created_at, is_active, time_limit)
		VALUES (?,?,?,?,?) RETURNING id`,
		m.Title, m.Description, m.CreatedAt, m.IsActive, m.TimeLimit)
	if err != nil {
		return fmt.Errorf("insert mock: %w", err)
	}
	m.ID = id
	return nil
}

// UpdateMock edits the mock's own fields; created_at is kept.
func (s *SQLStore) UpdateMock(ctx context.Context, m Mock) error {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE mocks SET title=?, description=?, is_active=?, time_limit=? WHERE id=?`),
		m.Title, m.Description, m.IsActive, m.TimeLimit, m.ID)
	if err != nil {
		return fmt.Errorf("update mock: %w", err)
	}
	return s.checkAffected(ctx, s.db, res, "mocks", m.ID)
}

// DeleteMock removes the mock; sections, questions, results and answers
// go with it through ON DELETE CASCADE.
func (s *SQLStore) DeleteMock(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM mocks WHERE id=?`), id)
	if err != nil {
		return fmt.Errorf("delete mock: %w", err)
	}
	return deleted(res)
}

func (s *SQLStore) MediaForMock(ctx context.Context, id int64) ([]string, error) {
	keys := []string{}
	err := s.db.SelectContext(ctx, &keys, s.q(`
		SELECT audio_path FROM listenings WHERE mock_id=? AND audio_path <> ''
		UNION ALL
		SELECT image_path FROM writings WHERE mock_id=? AND image_path <> ''`), id, id)
	if err != nil {
		return nil, fmt.Errorf("media for mock: %w", err)
	}
	return keys, nil
}

func (s *SQLStore) GetContent(ctx context.Context, mockID int64) (Content, error) {
	m, err := s.GetMock(ctx, mockID)
	if err != nil {
		return Content{}, err
	}
	c := Content{Mock: m}
	if c.Readings, err = s.ListReadings(ctx, mockID); err != nil {
		return Content{}, err
	}
	if c.Listenings, err = s.ListListenings(ctx, mockID); err != nil {
		return Content{}, err
	}
	if c.Writings, err = s.ListWritings(ctx, mockID); err != nil {
		return Content{}, err
	}
	return c, nil
}
