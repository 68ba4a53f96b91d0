package mock

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/mind-engage/mindengage-mock/internal/grading"
	"github.com/mind-engage/mindengage-mock/internal/storage"
)

// Auditor records mutating operations. Implementations log their own
// failures; auditing never fails the operation it describes.
type Auditor interface {
	Record(ctx context.Context, typ, key string, data any)
}

type nopAuditor struct{}

func (nopAuditor) Record(context.Context, string, string, any) {}

// Service is the content administration, test-taking and grading layer on
// top of a Store and a BlobStore.
type Service struct {
	store  Store
	blobs  storage.BlobStore
	grader grading.Grader
	audit  Auditor
	now    func() time.Time
}

type Option func(*Service)

func WithGrader(g grading.Grader) Option    { return func(s *Service) { s.grader = g } }
func WithAuditor(a Auditor) Option          { return func(s *Service) { s.audit = a } }
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(store Store, blobs storage.BlobStore, opts ...Option) *Service {
	s := &Service{
		store:  store,
		blobs:  blobs,
		grader: grading.NewDefaultGrader(),
		audit:  nopAuditor{},
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ---- mocks ----

func (s *Service) ListMocks(ctx context.Context, opts MockListOpts) ([]Mock, error) {
	return s.store.ListMocks(ctx, opts)
}

func (s *Service) GetMock(ctx context.Context, id int64) (Mock, error) {
	return s.store.GetMock(ctx, id)
}

func (s *Service) CreateMock(ctx context.Context, m *Mock) error {
	if err := m.Validate(); err != nil {
		return err
	}
	m.CreatedAt = s.now().Unix()
	return s.store.CreateMock(ctx, m)
}

func (s *Service) UpdateMock(ctx context.Context, routeID int64, m *Mock) error {
	if err := matchID(routeID, &m.ID); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}
	return s.store.UpdateMock(ctx, *m)
}

// DeleteMock removes the mock with everything under it, then the media files
// its sections referenced.
func (s *Service) DeleteMock(ctx context.Context, id int64) error {
	media, err := s.store.MediaForMock(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteMock(ctx, id); err != nil {
		return err
	}
	for _, key := range media {
		s.removeFile(key)
	}
	s.audit.Record(ctx, "mock.deleted", itoa(id), map[string]any{"media": len(media)})
	return nil
}

// ---- readings ----

func (s *Service) ListReadings(ctx context.Context, mockID int64) ([]Reading, error) {
	return s.store.ListReadings(ctx, mockID)
}

func (s *Service) GetReading(ctx context.Context, id int64) (Reading, error) {
	return s.store.GetReading(ctx, id)
}

func (s *Service) CreateReading(ctx context.Context, r *Reading) error {
	r.ID = 0
	prepareQuestions(r.Questions)
	if err := r.Validate(); err != nil {
		return err
	}
	return s.store.CreateReading(ctx, r)
}

func (s *Service) UpdateReading(ctx context.Context, routeID int64, r *Reading) error {
	if err := matchID(routeID, &r.ID); err != nil {
		return err
	}
	prepareQuestions(r.Questions)
	if err := r.Validate(); err != nil {
		return err
	}
	return s.store.UpdateReading(ctx, r)
}

func (s *Service) DeleteReading(ctx context.Context, id int64) error {
	return s.store.DeleteReading(ctx, id)
}

// ---- listenings ----

func (s *Service) ListListenings(ctx context.Context, mockID int64) ([]Listening, error) {
	ls, err := s.store.ListListenings(ctx, mockID)
	if err != nil {
		return nil, err
	}
	for i := range ls {
		s.fillListening(&ls[i])
	}
	return ls, nil
}

func (s *Service) GetListening(ctx context.Context, id int64) (Listening, error) {
	l, err := s.store.GetListening(ctx, id)
	if err != nil {
		return Listening{}, err
	}
	s.fillListening(&l)
	return l, nil
}

// CreateListening stores the audio file and the listening. The audio is
// required; if the row cannot be written the stored file is removed again.
func (s *Service) CreateListening(ctx context.Context, l *Listening, audio *storage.Upload) error {
	l.ID = 0
	prepareQuestions(l.Questions)
	v := &ValidationError{}
	if err := l.Validate(); err != nil {
		errors.As(err, &v)
	}
	if audio == nil {
		v.Add("audio", "Audio file is required")
	} else if err := storage.Audio.Validate(audio.FileName); err != nil {
		v.Add("audio", err.Error())
	}
	if err := v.Err(); err != nil {
		return err
	}

	key, err := s.putFile(storage.Audio, "audio", *audio)
	if err != nil {
		return err
	}
	l.AudioPath, l.AudioFileName, l.AudioSize = key, audio.FileName, audio.Size
	if err := s.store.CreateListening(ctx, l); err != nil {
		s.removeFile(key)
		return err
	}
	s.fillListening(l)
	return nil
}

// UpdateListening edits a listening. When audio is given it replaces the
// stored file; the previous file is removed only after the row is updated.
func (s *Service) UpdateListening(ctx context.Context, routeID int64, l *Listening, audio *storage.Upload) error {
	if err := matchID(routeID, &l.ID); err != nil {
		return err
	}
	prepareQuestions(l.Questions)
	v := &ValidationError{}
	if err := l.Validate(); err != nil {
		errors.As(err, &v)
	}
	if audio != nil {
		if err := storage.Audio.Validate(audio.FileName); err != nil {
			v.Add("audio", err.Error())
		}
	}
	if err := v.Err(); err != nil {
		return err
	}

	prev, err := s.store.GetListening(ctx, routeID)
	if err != nil {
		return err
	}
	l.AudioPath, l.AudioFileName, l.AudioSize = prev.AudioPath, prev.AudioFileName, prev.AudioSize
	var newKey string
	if audio != nil {
		if newKey, err = s.putFile(storage.Audio, "audio", *audio); err != nil {
			return err
		}
		l.AudioPath, l.AudioFileName, l.AudioSize = newKey, audio.FileName, audio.Size
	}
	if err := s.store.UpdateListening(ctx, l); err != nil {
		if newKey != "" {
			s.removeFile(newKey)
		}
		return err
	}
	if newKey != "" && prev.AudioPath != "" && prev.AudioPath != newKey {
		s.removeFile(prev.AudioPath)
	}
	s.fillListening(l)
	return nil
}

func (s *Service) DeleteListening(ctx context.Context, id int64) error {
	l, err := s.store.GetListening(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteListening(ctx, id); err != nil {
		return err
	}
	s.removeFile(l.AudioPath)
	return nil
}

// ---- writings ----

func (s *Service) ListWritings(ctx context.Context, mockID int64) ([]Writing, error) {
	ws, err := s.store.ListWritings(ctx, mockID)
	if err != nil {
		return nil, err
	}
	for i := range ws {
		s.fillWriting(&ws[i])
	}
	return ws, nil
}

func (s *Service) GetWriting(ctx context.Context, id int64) (Writing, error) {
	w, err := s.store.GetWriting(ctx, id)
	if err != nil {
		return Writing{}, err
	}
	s.fillWriting(&w)
	return w, nil
}

func (s *Service) CreateWriting(ctx context.Context, w *Writing, image *storage.Upload) error {
	w.ID = 0
	w.applyDefaults()
	if err := s.validateWriting(w, image); err != nil {
		return err
	}
	w.ImagePath = ""
	if image != nil {
		key, err := s.putFile(storage.Image, "image", *image)
		if err != nil {
			return err
		}
		w.ImagePath = key
	}
	if err := s.store.CreateWriting(ctx, w); err != nil {
		s.removeFile(w.ImagePath)
		return err
	}
	s.fillWriting(w)
	return nil
}

func (s *Service) UpdateWriting(ctx context.Context, routeID int64, w *Writing, image *storage.Upload) error {
	if err := matchID(routeID, &w.ID); err != nil {
		return err
	}
	w.applyDefaults()
	if err := s.validateWriting(w, image); err != nil {
		return err
	}
	prev, err := s.store.GetWriting(ctx, routeID)
	if err != nil {
		return err
	}
	w.ImagePath = prev.ImagePath
	var newKey string
	if image != nil {
		if newKey, err = s.putFile(storage.Image, "image", *image); err != nil {
			return err
		}
		w.ImagePath = newKey
	}
	if err := s.store.UpdateWriting(ctx, *w); err != nil {
		s.removeFile(newKey)
		return err
	}
	if newKey != "" && prev.ImagePath != "" && prev.ImagePath != newKey {
		s.removeFile(prev.ImagePath)
	}
	s.fillWriting(w)
	return nil
}

func (s *Service) DeleteWriting(ctx context.Context, id int64) error {
	w, err := s.store.GetWriting(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteWriting(ctx, id); err != nil {
		return err
	}
	s.removeFile(w.ImagePath)
	return nil
}

func (s *Service) validateWriting(w *Writing, image *storage.Upload) error {
	v := &ValidationError{}
	if err := w.Validate(); err != nil {
		errors.As(err, &v)
	}
	if image != nil {
		if err := storage.Image.Validate(image.FileName); err != nil {
			v.Add("image", err.Error())
		}
	}
	return v.Err()
}

// ---- helpers ----

func (s *Service) putFile(k storage.Kind, field string, u storage.Upload) (string, error) {
	key, err := storage.Save(s.blobs, k, u)
	if errors.Is(err, storage.ErrExtensionNotAllowed) {
		return "", fieldError(field, err.Error())
	}
	return key, err
}

// removeFile deletes a stored file best-effort.
func (s *Service) removeFile(key string) {
	if key == "" {
		return
	}
	if err := s.blobs.Delete(key); err != nil {
		log.Printf("mock: remove %s: %v", key, err)
	}
}

func (s *Service) fillListening(l *Listening) {
	if l.AudioPath != "" {
		l.AudioURL = s.blobs.URL(l.AudioPath)
	}
}

func (s *Service) fillWriting(w *Writing) {
	if w.ImagePath != "" {
		w.ImageURL = s.blobs.URL(w.ImagePath)
	}
}

// matchID reconciles the id in the route with the one in the payload. A
// payload without an id takes the route's.
func matchID(routeID int64, payloadID *int64) error {
	if *payloadID == 0 {
		*payloadID = routeID
	}
	if *payloadID != routeID {
		return fieldError("id", "Identifier mismatch")
	}
	return nil
}

func prepareQuestions(qs []Question) {
	for i := range qs {
		qs[i].applyDefaults()
	}
}
