// Package importer creates a complete mock from a YAML document.
//
//	mock:
//	  title: Academic Test 1
//	  time_limit: 165
//	readings:
//	  - title: Urban farming
//	    passage: ...
//	    questions:
//	      - {text: "...", type: true_false, answer: "True"}
//	listenings:
//	  - title: Section 1
//	    audio: audio/section1.mp3   # relative to the YAML file
//	    questions:
//	      - {text: "...", type: multiple_choice, answer: B, options: [a, b, c, d]}
//	writings:
//	  - {title: Task 1, task: "...", type: task1, min_words: 150, image: img/chart.png}
package importer

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mind-engage/mindengage-mock/internal/mock"
	"github.com/mind-engage/mindengage-mock/internal/storage"
)

type Document struct {
	Mock struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		TimeLimit   int    `yaml:"time_limit"`
		Active      *bool  `yaml:"active"`
	} `yaml:"mock"`
	Readings   []ReadingDoc   `yaml:"readings"`
	Listenings []ListeningDoc `yaml:"listenings"`
	Writings   []WritingDoc   `yaml:"writings"`
}

type QuestionDoc struct {
	Text    string   `yaml:"text"`
	Type    string   `yaml:"type"`
	Answer  string   `yaml:"answer"`
	Options []string `yaml:"options"`
	Points  int      `yaml:"points"`
}

type ReadingDoc struct {
	Title     string        `yaml:"title"`
	Passage   string        `yaml:"passage"`
	Questions []QuestionDoc `yaml:"questions"`
}

type ListeningDoc struct {
	Title      string        `yaml:"title"`
	Audio      string        `yaml:"audio"`
	Transcript string        `yaml:"transcript"`
	Questions  []QuestionDoc `yaml:"questions"`
}

type WritingDoc struct {
	Title    string `yaml:"title"`
	Task     string `yaml:"task"`
	Type     string `yaml:"type"`
	MinWords int    `yaml:"min_words"`
	Points   int    `yaml:"points"`
	Image    string `yaml:"image"`
}

// Decode parses a document. Unknown keys are rejected so typos surface.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var d Document
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := d.checkOptions(); err != nil {
		return nil, err
	}
	return &d, nil
}

// checkOptions rejects questions with more than the four option slots.
func (d *Document) checkOptions() error {
	check := func(section string, i int, qs []QuestionDoc) error {
		for j, q := range qs {
			if len(q.Options) > 4 {
				return fmt.Errorf("%s %d question %d: at most 4 options", section, i+1, j+1)
			}
		}
		return nil
	}
	for i, r := range d.Readings {
		if err := check("reading", i, r.Questions); err != nil {
			return err
		}
	}
	for i, l := range d.Listenings {
		if err := check("listening", i, l.Questions); err != nil {
			return err
		}
	}
	return nil
}

// Apply creates the mock and its sections through svc. Media paths are
// resolved against baseDir. If any part fails the mock is deleted again.
func (d *Document) Apply(ctx context.Context, svc *mock.Service, baseDir string) (mock.Mock, error) {
	m := mock.Mock{
		Title:       d.Mock.Title,
		Description: d.Mock.Description,
		TimeLimit:   d.Mock.TimeLimit,
		IsActive:    true,
	}
	if d.Mock.Active != nil {
		m.IsActive = *d.Mock.Active
	}
	if err := svc.CreateMock(ctx, &m); err != nil {
		return mock.Mock{}, fmt.Errorf("mock: %w", err)
	}
	if err := d.applySections(ctx, svc, m.ID, baseDir); err != nil {
		if derr := svc.DeleteMock(ctx, m.ID); derr != nil {
			log.Printf("importer: rollback mock %d: %v", m.ID, derr)
		}
		return mock.Mock{}, err
	}
	return svc.GetMock(ctx, m.ID)
}

func (d *Document) applySections(ctx context.Context, svc *mock.Service, mockID int64, baseDir string) error {
	for i, rd := range d.Readings {
		r := mock.Reading{MockID: mockID, Title: rd.Title, PassageText: rd.Passage, OrderNumber: i + 1,
			Questions: questions(rd.Questions)}
		if err := svc.CreateReading(ctx, &r); err != nil {
			return fmt.Errorf("reading %d (%s): %w", i+1, rd.Title, err)
		}
	}
	for i, ld := range d.Listenings {
		l := mock.Listening{MockID: mockID, Title: ld.Title, OrderNumber: i + 1, Questions: questions(ld.Questions)}
		if ld.Transcript != "" {
			t := ld.Transcript
			l.Transcript = &t
		}
		err := withFile(baseDir, ld.Audio, func(u *storage.Upload) error {
			return svc.CreateListening(ctx, &l, u)
		})
		if err != nil {
			return fmt.Errorf("listening %d (%s): %w", i+1, ld.Title, err)
		}
	}
	for i, wd := range d.Writings {
		w := mock.Writing{MockID: mockID, Title: wd.Title, TaskDescription: wd.Task, TaskType: wd.Type,
			MinWords: wd.MinWords, Points: wd.Points, OrderNumber: i + 1}
		err := withFile(baseDir, wd.Image, func(u *storage.Upload) error {
			return svc.CreateWriting(ctx, &w, u)
		})
		if err != nil {
			return fmt.Errorf("writing %d (%s): %w", i+1, wd.Title, err)
		}
	}
	return nil
}

// withFile opens name (if set) and passes it to fn as an upload.
func withFile(baseDir, name string, fn func(*storage.Upload) error) error {
	if name == "" {
		return fn(nil)
	}
	p := name
	if !filepath.IsAbs(p) {
		p = filepath.Join(baseDir, p)
	}
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return err
	}
	return fn(&storage.Upload{FileName: filepath.Base(p), Size: st.Size(), Body: f})
}

func questions(docs []QuestionDoc) []mock.Question {
	out := make([]mock.Question, 0, len(docs))
	for i, d := range docs {
		q := mock.Question{
			QuestionText:  d.Text,
			QuestionType:  d.Type,
			CorrectAnswer: d.Answer,
			OrderNumber:   i + 1,
			Points:        d.Points,
		}
		opts := []**string{&q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD}
		for j, o := range d.Options {
			o := o
			*opts[j] = &o
		}
		out = append(out, q)
	}
	return out
}

// ImportFile decodes path and applies it, resolving media next to the file.
func ImportFile(ctx context.Context, svc *mock.Service, path string) (mock.Mock, error) {
	f, err := os.Open(path)
	if err != nil {
		return mock.Mock{}, err
	}
	defer f.Close()
	d, err := Decode(f)
	if err != nil {
		return mock.Mock{}, err
	}
	return d.Apply(ctx, svc, filepath.Dir(path))
}
