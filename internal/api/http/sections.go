package http

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/mind-engage/mindengage-mock/internal/mock"
	"github.com/mind-engage/mindengage-mock/internal/storage"
)

// multipart parts above this size spill to temp files
const formMemory = 8 << 20

// readPayload decodes a section payload. Multipart requests carry the JSON in
// a "data" part and an optional file under fileField; anything else is a
// plain JSON body. The returned cleanup must be called once the upload has
// been consumed.
func readPayload(r *http.Request, v any, fileField string) (*storage.Upload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, noop, json.NewDecoder(r.Body).Decode(v)
	}
	if err := r.ParseMultipartForm(formMemory); err != nil {
		return nil, noop, err
	}
	cleanup := func() { _ = r.MultipartForm.RemoveAll() }
	if err := json.Unmarshal([]byte(r.FormValue("data")), v); err != nil {
		return nil, cleanup, err
	}
	f, h, err := r.FormFile(fileField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, cleanup, nil
	}
	if err != nil {
		return nil, cleanup, err
	}
	return upload(f, h), func() { f.Close(); cleanup() }, nil
}

func upload(f multipart.File, h *multipart.FileHeader) *storage.Upload {
	return &storage.Upload{FileName: h.Filename, Size: h.Size, Body: f}
}

// payloadError answers a request whose body could not be read.
func payloadError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "upload too large"})
		return
	}
	badRequest(w, "bad request body")
}

// ---- readings ----

// GET /admin/readings?mock_id=
func ListReadingsHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs, err := svc.ListReadings(r.Context(), queryID(r, "mock_id"))
		writeList(w, r, rs, err)
	}
}

// GET /admin/readings/{readingID}
func GetReadingHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "readingID")
		if !ok {
			return
		}
		rd, err := svc.GetReading(r.Context(), id)
		if err != nil {
			fail(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, rd)
	}
}

// POST /admin/readings
func CreateReadingHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rd mock.Reading
		if err := json.NewDecoder(r.Body).Decode(&rd); err != nil {
			payloadError(w, err)
			return
		}
		if err := svc.CreateReading(r.Context(), &rd); err != nil {
			fail(w, r, err, rd)
			return
		}
		writeJSON(w, http.StatusCreated, rd)
	}
}

// PUT /admin/readings/{readingID}
func UpdateReadingHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "readingID")
		if !ok {
			return
		}
		var rd mock.Reading
		if err := json.NewDecoder(r.Body).Decode(&rd); err != nil {
			payloadError(w, err)
			return
		}
		if err := svc.UpdateReading(r.Context(), id, &rd); err != nil {
			fail(w, r, err, rd)
			return
		}
		writeJSON(w, http.StatusOK, rd)
	}
}

// DELETE /admin/readings/{readingID}
func DeleteReadingHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "readingID")
		if !ok {
			return
		}
		if err := svc.DeleteReading(r.Context(), id); err != nil {
			fail(w, r, err, nil)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ---- listenings ----

// GET /admin/listenings?mock_id=
func ListListeningsHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ls, err := svc.ListListenings(r.Context(), queryID(r, "mock_id"))
		writeList(w, r, ls, err)
	}
}

// GET /admin/listenings/{listeningID}
func GetListeningHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "listeningID")
		if !ok {
			return
		}
		l, err := svc.GetListening(r.Context(), id)
		if err != nil {
			fail(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, l)
	}
}

// POST /admin/listenings  (multipart: data=<json>, audio=<file>)
func CreateListeningHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var l mock.Listening
		audio, done, err := readPayload(r, &l, "audio")
		defer done()
		if err != nil {
			payloadError(w, err)
			return
		}
		if err := svc.CreateListening(r.Context(), &l, audio); err != nil {
			fail(w, r, err, l)
			return
		}
		writeJSON(w, http.StatusCreated, l)
	}
}

// PUT /admin/listenings/{listeningID}  (audio optional)
func UpdateListeningHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "listeningID")
		if !ok {
			return
		}
		var l mock.Listening
		audio, done, err := readPayload(r, &l, "audio")
		defer done()
		if err != nil {
			payloadError(w, err)
			return
		}
		if err := svc.UpdateListening(r.Context(), id, &l, audio); err != nil {
			fail(w, r, err, l)
			return
		}
		writeJSON(w, http.StatusOK, l)
	}
}

// DELETE /admin/listenings/{listeningID}
func DeleteListeningHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "listeningID")
		if !ok {
			return
		}
		if err := svc.DeleteListening(r.Context(), id); err != nil {
			fail(w, r, err, nil)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ---- writings ----

// GET /admin/writings?mock_id=
func ListWritingsHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := svc.ListWritings(r.Context(), queryID(r, "mock_id"))
		writeList(w, r, ws, err)
	}
}

// GET /admin/writings/{writingID}
func GetWritingHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "writingID")
		if !ok {
			return
		}
		wr, err := svc.GetWriting(r.Context(), id)
		if err != nil {
			fail(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, wr)
	}
}

// POST /admin/writings  (multipart: data=<json>, image=<file, optional>)
func CreateWritingHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var wr mock.Writing
		image, done, err := readPayload(r, &wr, "image")
		defer done()
		if err != nil {
			payloadError(w, err)
			return
		}
		if err := svc.CreateWriting(r.Context(), &wr, image); err != nil {
			fail(w, r, err, wr)
			return
		}
		writeJSON(w, http.StatusCreated, wr)
	}
}

// PUT /admin/writings/{writingID}
func UpdateWritingHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "writingID")
		if !ok {
			return
		}
		var wr mock.Writing
		image, done, err := readPayload(r, &wr, "image")
		defer done()
		if err != nil {
			payloadError(w, err)
			return
		}
		if err := svc.UpdateWriting(r.Context(), id, &wr, image); err != nil {
			fail(w, r, err, wr)
			return
		}
		writeJSON(w, http.StatusOK, wr)
	}
}

// DELETE /admin/writings/{writingID}
func DeleteWritingHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "writingID")
		if !ok {
			return
		}
		if err := svc.DeleteWriting(r.Context(), id); err != nil {
			fail(w, r, err, nil)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
