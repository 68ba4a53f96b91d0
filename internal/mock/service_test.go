package mock

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestDeleteMock_RemovesEverything(t *testing.T) {
	f := newFixture(t)
	s := f.seed(t)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, s.mock.ID, "u1", map[string]string{
		key("reading", s.reading.Questions[0].ID):     "Paris",
		key("listening", s.listening.Questions[0].ID): "41",
		key("writing", s.writing.ID):                  "essay text",
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !f.fileExists(s.listening.AudioPath) || !f.fileExists(s.writing.ImagePath) {
		t.Fatal("expected uploaded files before delete")
	}

	if err := f.svc.DeleteMock(ctx, s.mock.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, table := range []string{
		"mocks", "readings", "reading_questions", "listenings", "listening_questions", "writings",
		"results", "reading_answers", "listening_answers", "writing_answers",
	} {
		if n := f.count(t, table); n != 0 {
			t.Errorf("%s: %d rows left", table, n)
		}
	}
	if f.fileExists(s.listening.AudioPath) || f.fileExists(s.writing.ImagePath) {
		t.Fatal("uploaded files not removed")
	}
	if err := f.svc.DeleteMock(ctx, s.mock.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}

func TestCreateListening_Uploads(t *testing.T) {
	f := newFixture(t)
	s := f.seed(t)
	ctx := context.Background()

	bad := Listening{MockID: s.mock.ID, Title: "Bad"}
	err := f.svc.CreateListening(ctx, &bad, upload("track.exe", "MZ"))
	var v *ValidationError
	if !errors.As(err, &v) || v.Fields["audio"] == "" {
		t.Fatalf("want audio validation error, got %v", err)
	}
	if n := f.count(t, "listenings"); n != 1 {
		t.Fatalf("listenings = %d, want only the seeded one", n)
	}

	missing := Listening{MockID: s.mock.ID, Title: "No audio"}
	if err := f.svc.CreateListening(ctx, &missing, nil); !IsValidation(err) {
		t.Fatalf("want validation error without audio, got %v", err)
	}

	good := Listening{MockID: s.mock.ID, Title: "Good"}
	if err := f.svc.CreateListening(ctx, &good, upload("track.mp3", "ID3")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if good.AudioPath == "track.mp3" || !strings.HasPrefix(good.AudioPath, "listening/") || !strings.HasSuffix(good.AudioPath, "_track.mp3") {
		t.Fatalf("audio path = %q", good.AudioPath)
	}
	if good.AudioPath == s.listening.AudioPath {
		t.Fatal("two uploads of track.mp3 share a key")
	}
	if good.AudioFileName != "track.mp3" || good.AudioSize != 3 || good.AudioURL != "/uploads/"+good.AudioPath {
		t.Fatalf("listening = %+v", good)
	}
	if !f.fileExists(good.AudioPath) {
		t.Fatal("audio not stored")
	}
}

func TestCreateSection_UnknownMock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r := Reading{MockID: 77, Title: "T", PassageText: "P"}
	err := f.svc.CreateReading(ctx, &r)
	var v *ValidationError
	if !errors.As(err, &v) || v.Fields["mock_id"] == "" {
		t.Fatalf("want mock_id validation error, got %v", err)
	}

	l := Listening{MockID: 77, Title: "T"}
	if err := f.svc.CreateListening(ctx, &l, upload("a.mp3", "x")); !IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
	// the file stored before the insert failed is cleaned up again
	if f.fileExists(l.AudioPath) {
		t.Fatal("orphaned audio left behind")
	}
}

func TestUpdateListening_ReplacesAudio(t *testing.T) {
	f := newFixture(t)
	s := f.seed(t)
	ctx := context.Background()
	old := s.listening.AudioPath

	edit := s.listening
	edit.Title = "Numbers (edited)"
	if err := f.svc.UpdateListening(ctx, edit.ID, &edit, nil); err != nil {
		t.Fatalf("update without audio: %v", err)
	}
	if edit.AudioPath != old || !f.fileExists(old) {
		t.Fatal("audio must be kept when no new file is sent")
	}

	if err := f.svc.UpdateListening(ctx, edit.ID, &edit, upload("new.wav", "RIFF")); err != nil {
		t.Fatalf("update with audio: %v", err)
	}
	if edit.AudioPath == old || !f.fileExists(edit.AudioPath) {
		t.Fatalf("new audio not stored: %q", edit.AudioPath)
	}
	if f.fileExists(old) {
		t.Fatal("previous audio not removed")
	}
	got, _ := f.svc.GetListening(ctx, edit.ID)
	if got.Title != "Numbers (edited)" || got.AudioFileName != "new.wav" {
		t.Fatalf("stored listening = %+v", got)
	}
}

func TestUpdateReading_ReconcilesQuestions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := Mock{Title: "M", TimeLimit: 30, IsActive: true}
	if err := f.svc.CreateMock(ctx, &m); err != nil {
		t.Fatal(err)
	}
	r := Reading{MockID: m.ID, Title: "R", PassageText: "P", Questions: []Question{
		{QuestionText: "q1", QuestionType: "true_false", CorrectAnswer: "True", OrderNumber: 1},
		{QuestionText: "q2", QuestionType: "multiple_choice", CorrectAnswer: "B", OrderNumber: 2, OptionA: strp("a"), OptionB: strp("b")},
	}}
	if err := f.svc.CreateReading(ctx, &r); err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.Questions[0].Points != 1 {
		t.Fatalf("default points = %d", r.Questions[0].Points)
	}
	keep := r.Questions[0]
	keep.QuestionText = "q1 edited"
	edit := Reading{ID: r.ID, MockID: m.ID, Title: "R", PassageText: "P", Questions: []Question{
		keep,
		{QuestionText: "q3", QuestionType: "matching", CorrectAnswer: "iv", OrderNumber: 3},
	}}
	if err := f.svc.UpdateReading(ctx, r.ID, &edit); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := f.svc.GetReading(ctx, r.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Questions) != 2 {
		t.Fatalf("questions = %+v", got.Questions)
	}
	if got.Questions[0].ID != keep.ID || got.Questions[0].QuestionText != "q1 edited" {
		t.Fatalf("first question = %+v", got.Questions[0])
	}
	if got.Questions[1].QuestionText != "q3" || got.Questions[1].ID == r.Questions[1].ID {
		t.Fatalf("second question = %+v", got.Questions[1])
	}

	foreign := Reading{ID: r.ID, MockID: m.ID, Title: "R", PassageText: "P", Questions: []Question{
		{ID: 9999, QuestionText: "x", QuestionType: "matching", CorrectAnswer: "i"},
	}}
	if err := f.svc.UpdateReading(ctx, r.ID, &foreign); !IsValidation(err) {
		t.Fatalf("want validation error for a foreign question id, got %v", err)
	}
}

func TestValidation(t *testing.T) {
	f := newFixture(t)
	s := f.seed(t)
	ctx := context.Background()

	m := Mock{Title: "  ", TimeLimit: 301}
	err := f.svc.CreateMock(ctx, &m)
	var v *ValidationError
	if !errors.As(err, &v) || v.Fields["title"] == "" || v.Fields["time_limit"] == "" {
		t.Fatalf("mock errors = %v", err)
	}

	r := Reading{MockID: s.mock.ID, Title: "R", PassageText: "P", Questions: []Question{
		{QuestionText: "q", QuestionType: "essay", CorrectAnswer: "", Points: -1},
	}}
	err = f.svc.CreateReading(ctx, &r)
	if !errors.As(err, &v) {
		t.Fatalf("want validation error, got %v", err)
	}
	for _, field := range []string{"questions[0].question_type", "questions[0].correct_answer", "questions[0].points"} {
		if v.Fields[field] == "" {
			t.Errorf("missing error for %s in %v", field, v.Fields)
		}
	}

	mismatch := s.mock
	mismatch.ID = s.mock.ID + 1
	err = f.svc.UpdateMock(ctx, s.mock.ID, &mismatch)
	if !errors.As(err, &v) || v.Fields["id"] != "Identifier mismatch" {
		t.Fatalf("want id mismatch, got %v", err)
	}

	w := Writing{MockID: s.mock.ID, Title: "W", TaskDescription: "D"}
	err = f.svc.CreateWriting(ctx, &w, upload("chart.bmp", "BM"))
	if !errors.As(err, &v) || v.Fields["image"] == "" {
		t.Fatalf("want image error, got %v", err)
	}
}

func TestUpdate_RowDeletedMeanwhile(t *testing.T) {
	f := newFixture(t)
	s := f.seed(t)
	ctx := context.Background()

	stale := s.mock
	if err := f.svc.DeleteMock(ctx, s.mock.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	stale.Title = "edited after delete"
	if err := f.svc.UpdateMock(ctx, stale.ID, &stale); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := f.store.UpdateWriting(ctx, s.writing); !IsValidation(err) && !errors.Is(err, ErrNotFound) {
		t.Fatalf("writing update after delete: %v", err)
	}
	if err := f.svc.DeleteReading(ctx, s.reading.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestTestContent_HidesAnswers(t *testing.T) {
	f := newFixture(t)
	s := f.seed(t)

	c, err := f.svc.TestContent(context.Background(), s.mock.ID)
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if len(c.Readings) != 1 || len(c.Listenings) != 1 || len(c.Writings) != 1 {
		t.Fatalf("content = %+v", c)
	}
	if c.Readings[0].Questions[0].CorrectAnswer != "" || c.Listenings[0].Questions[0].CorrectAnswer != "" {
		t.Fatal("correct answers leaked")
	}
	if c.Listenings[0].AudioURL == "" || c.Writings[0].ImageURL == "" {
		t.Fatalf("media urls missing: %+v %+v", c.Listenings[0], c.Writings[0])
	}
	if c.Mock.Counts == nil || c.Mock.Counts.Readings != 1 {
		t.Fatalf("counts = %+v", c.Mock.Counts)
	}
}

func TestSectionsCanBeBuiltOnInactiveMock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	m := Mock{Title: "Draft", TimeLimit: 60, IsActive: false}
	if err := f.svc.CreateMock(ctx, &m); err != nil {
		t.Fatalf("create mock: %v", err)
	}
	rd := Reading{MockID: m.ID, Title: "R", PassageText: "P", Questions: []Question{
		{QuestionText: "Q?", QuestionType: "true_false", CorrectAnswer: "True"},
	}}
	if err := f.svc.CreateReading(ctx, &rd); err != nil {
		t.Fatalf("reading on inactive mock: %v", err)
	}
	w := Writing{MockID: m.ID, Title: "Task 1", TaskDescription: "Describe."}
	if err := f.svc.CreateWriting(ctx, &w, nil); err != nil {
		t.Fatalf("writing on inactive mock: %v", err)
	}
	if _, err := f.svc.TestContent(ctx, m.ID); !errors.Is(err, ErrInactive) {
		t.Fatalf("draft visible to test takers: %v", err)
	}
}
