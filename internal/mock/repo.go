package mock

import "context"

type MockListOpts struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}

type ResultListOpts struct {
	MockID int64  // 0 = any mock
	UserID string // "" = any user
	// ByScore sorts by total score desc (admin view); otherwise newest first.
	ByScore bool
	Limit   int
	Offset  int
}

type Store interface {
	ListMocks(ctx context.Context, opts MockListOpts) ([]Mock, error)
	GetMock(ctx context.Context, id int64) (Mock, error)
	CreateMock(ctx context.Context, m *Mock) error
	UpdateMock(ctx context.Context, m Mock) error
	DeleteMock(ctx context.Context, id int64) error
	// MediaForMock lists stored file keys owned by the mock's sections.
	MediaForMock(ctx context.Context, id int64) ([]string, error)

	ListReadings(ctx context.Context, mockID int64) ([]Reading, error)
	GetReading(ctx context.Context, id int64) (Reading, error)
	CreateReading(ctx context.Context, r *Reading) error
	UpdateReading(ctx context.Context, r *Reading) error
	DeleteReading(ctx context.Context, id int64) error

	ListListenings(ctx context.Context, mockID int64) ([]Listening, error)
	GetListening(ctx context.Context, id int64) (Listening, error)
	CreateListening(ctx context.Context, l *Listening) error
	UpdateListening(ctx context.Context, l *Listening) error
	DeleteListening(ctx context.Context, id int64) error

	ListWritings(ctx context.Context, mockID int64) ([]Writing, error)
	GetWriting(ctx context.Context, id int64) (Writing, error)
	CreateWriting(ctx context.Context, w *Writing) error
	UpdateWriting(ctx context.Context, w Writing) error
	DeleteWriting(ctx context.Context, id int64) error

	// GetContent loads a mock with all sections and questions, answer keys included.
	GetContent(ctx context.Context, mockID int64) (Content, error)

	CreateResult(ctx context.Context, r *Result) error
	AddReadingAnswer(ctx context.Context, a *Answer) error
	AddListeningAnswer(ctx context.Context, a *Answer) error
	AddWritingAnswer(ctx context.Context, a *WritingAnswer) error
	CompleteResult(ctx context.Context, r Result) error
	GetResult(ctx context.Context, id int64) (ResultDetail, error)
	ListResults(ctx context.Context, opts ResultListOpts) ([]ResultSummary, error)
	// ScoreWritingAnswer stores an administrator's score and recomputes the
	// result's writing score.
	ScoreWritingAnswer(ctx context.Context, resultID, answerID int64, score int, feedback *string) (Result, error)
	CountStaleResults(ctx context.Context, startedBefore int64) (int, error)
}
