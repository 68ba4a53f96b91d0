package mock

import (
	"context"
	"strings"
	"testing"

	"github.com/mind-engage/mindengage-mock/internal/db"
	"github.com/mind-engage/mindengage-mock/internal/storage"
)

type fixture struct {
	svc   *Service
	store *SQLStore
	blobs *storage.FSStore
}

func newFixture(t *testing.T, opts ...Option) fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := "file:" + name + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	dbx, err := db.Open(context.Background(), db.DriverSQLite, dsn, db.Options{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbx.Close() })
	blobs, err := storage.NewFSStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}
	store := NewSQLStore(dbx)
	return fixture{svc: NewService(store, blobs, opts...), store: store, blobs: blobs}
}

func strp(s string) *string { return &s }

func upload(name, body string) *storage.Upload {
	return &storage.Upload{FileName: name, Size: int64(len(body)), Body: strings.NewReader(body)}
}

type seeded struct {
	mock      Mock
	reading   Reading
	listening Listening
	writing   Writing
}

// seed creates an active mock with one reading question ("Paris", 2 points),
// one listening question ("42", 1 point) and one writing task with an image.
func (f fixture) seed(t *testing.T) seeded {
	t.Helper()
	ctx := context.Background()
	var s seeded
	s.mock = Mock{Title: "Academic 1", TimeLimit: 60, IsActive: true}
	if err := f.svc.CreateMock(ctx, &s.mock); err != nil {
		t.Fatalf("create mock: %v", err)
	}
	s.reading = Reading{MockID: s.mock.ID, Title: "Capitals", PassageText: "France...", Questions: []Question{
		{QuestionText: "Capital of France?", QuestionType: "short_answer", CorrectAnswer: "Paris", Points: 2},
	}}
	if err := f.svc.CreateReading(ctx, &s.reading); err != nil {
		t.Fatalf("create reading: %v", err)
	}
	s.listening = Listening{MockID: s.mock.ID, Title: "Numbers", Transcript: strp("forty two"), Questions: []Question{
		{QuestionText: "Which number?", QuestionType: "fill_in_blank", CorrectAnswer: "42"},
	}}
	if err := f.svc.CreateListening(ctx, &s.listening, upload("track.mp3", "ID3")); err != nil {
		t.Fatalf("create listening: %v", err)
	}
	s.writing = Writing{MockID: s.mock.ID, Title: "Task 2", TaskDescription: "Discuss.", TaskType: "task2"}
	if err := f.svc.CreateWriting(ctx, &s.writing, upload("chart.png", "PNG")); err != nil {
		t.Fatalf("create writing: %v", err)
	}
	return s
}

func (f fixture) fileExists(key string) bool {
	rc, err := f.blobs.Get(key)
	if err != nil {
		return false
	}
	rc.Close()
	return true
}

func (f fixture) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := f.store.db.Get(&n, `SELECT COUNT(*) FROM `+table); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
