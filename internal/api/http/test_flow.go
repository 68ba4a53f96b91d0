package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/mind-engage/mindengage-mock/internal/api/notice"
	authmw "github.com/mind-engage/mindengage-mock/internal/auth/middleware"
	"github.com/mind-engage/mindengage-mock/internal/mock"
)

const (
	msgUnavailable = "This mock test is not available right now"
	msgSubmitted   = "Your test has been submitted"
	msgSubmitError = "An error occurred while submitting your test, please try again"
)

// GET /mocks/{mockID}/test
func TestContentHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "mockID")
		if !ok {
			return
		}
		c, err := svc.TestContent(r.Context(), id)
		if errors.Is(err, mock.ErrInactive) {
			notice.Redirect(w, "/mocks", msgUnavailable, notice.LevelError)
			return
		}
		if err != nil {
			fail(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// POST /mocks/{mockID}/submit
// Body: form fields reading_<id>, listening_<id>, writing_<id>
// (urlencoded or multipart), or the same keys as a JSON object.
func SubmitHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "mockID")
		if !ok {
			return
		}
		answers, err := readAnswers(r)
		if err != nil {
			payloadError(w, err)
			return
		}
		res, err := svc.Submit(r.Context(), id, authmw.SubjectFromContext(r.Context()), answers)
		switch {
		case errors.Is(err, mock.ErrInactive):
			notice.Redirect(w, "/mocks", msgUnavailable, notice.LevelError)
		case errors.Is(err, mock.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		case err != nil:
			log.Printf("[%s] submit mock %d: %v", middleware.GetReqID(r.Context()), id, err)
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: msgSubmitError})
		default:
			notice.Redirect(w, "/results/"+strconv.FormatInt(res.ID, 10), msgSubmitted, notice.LevelSuccess)
		}
	}
}

var answerPrefixes = []string{"reading_", "listening_", "writing_"}

func isAnswerKey(k string) bool {
	for _, p := range answerPrefixes {
		if strings.HasPrefix(k, p) {
			return true
		}
	}
	return false
}

func readAnswers(r *http.Request) (map[string]string, error) {
	out := map[string]string{}
	ct := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "application/json"):
		var raw map[string]any
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		for k, v := range raw {
			if !isAnswerKey(k) {
				continue
			}
			switch v := v.(type) {
			case nil:
			case string:
				out[k] = v
			case json.Number, bool:
				out[k] = fmt.Sprint(v)
			default:
				return nil, fmt.Errorf("answer %s: expected a string, number or boolean", k)
			}
		}
		return out, nil
	case strings.HasPrefix(ct, "multipart/form-data"):
		if err := r.ParseMultipartForm(formMemory); err != nil {
			return nil, err
		}
		defer r.MultipartForm.RemoveAll()
	default:
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
	}
	for k, vs := range r.PostForm {
		if isAnswerKey(k) && len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out, nil
}
