package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mind-engage/mindengage-mock/internal/db"
	"github.com/mind-engage/mindengage-mock/internal/mock"
	"github.com/mind-engage/mindengage-mock/internal/storage"
)

const sample = `
mock:
  title: Academic Test 1
  time_limit: 165
readings:
  - title: Urban farming
    passage: Cities are turning rooftops into farms.
    questions:
      - {text: "Rooftop farms are new.", type: true_false, answer: "False"}
      - {text: "Pick one", type: multiple_choice, answer: B, options: [a, b, c], points: 2}
listenings:
  - title: Section 1
    audio: audio/s1.mp3
    transcript: Hello and welcome.
    questions:
      - {text: "Caller's name?", type: short_answer, answer: Smith}
writings:
  - {title: Task 2, task: "Discuss both views.", type: task2}
`

func newService(t *testing.T) (*mock.Service, *storage.FSStore) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dbx, err := db.Open(context.Background(), db.DriverSQLite,
		"file:"+name+"?mode=memory&cache=shared&_pragma=foreign_keys(1)", db.Options{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbx.Close() })
	blobs, err := storage.NewFSStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatal(err)
	}
	return mock.NewService(mock.NewSQLStore(dbx), blobs), blobs
}

func writeFixture(t *testing.T, doc string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "audio"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "audio", "s1.mp3"), []byte("ID3"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(dir, "mock.yaml")
	if err := os.WriteFile(p, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestImportFile(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	m, err := ImportFile(ctx, svc, writeFixture(t, sample))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if m.Title != "Academic Test 1" || !m.IsActive || m.Counts == nil {
		t.Fatalf("mock = %+v", m)
	}
	if m.Counts.Readings != 1 || m.Counts.Listenings != 1 || m.Counts.Writings != 1 {
		t.Fatalf("counts = %+v", *m.Counts)
	}

	rs, _ := svc.ListReadings(ctx, m.ID)
	qs := rs[0].Questions
	if len(qs) != 2 || qs[1].Points != 2 || qs[1].OptionC == nil || *qs[1].OptionC != "c" || qs[1].OptionD != nil {
		t.Fatalf("reading questions = %+v", qs)
	}
	ls, _ := svc.ListListenings(ctx, m.ID)
	if ls[0].AudioFileName != "s1.mp3" || ls[0].AudioSize != 3 || ls[0].Transcript == nil {
		t.Fatalf("listening = %+v", ls[0])
	}
	ws, _ := svc.ListWritings(ctx, m.ID)
	if ws[0].MinWords != 150 || ws[0].Points != 9 {
		t.Fatalf("writing defaults = %+v", ws[0])
	}
}

func TestImportRollsBackOnError(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	bad := strings.Replace(sample, "type: task2", "type: task2}\n  - {title: '', task: x", 1)

	if _, err := ImportFile(ctx, svc, writeFixture(t, bad)); !mock.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
	ms, err := svc.ListMocks(ctx, mock.MockListOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(ms) != 0 {
		t.Fatalf("mock left behind: %+v", ms)
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	if _, err := Decode(strings.NewReader("mock:\n  titel: x\n")); err == nil {
		t.Fatal("want error for unknown key")
	}
	tooMany := "readings:\n  - title: r\n    questions:\n      - {text: q, type: matching, answer: a, options: [1, 2, 3, 4, 5]}\n"
	if _, err := Decode(strings.NewReader(tooMany)); err == nil {
		t.Fatal("want error for five options")
	}
}
