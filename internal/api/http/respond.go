package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mind-engage/mindengage-mock/internal/api/notice"
	"github.com/mind-engage/mindengage-mock/internal/mock"
)

const (
	msgTryAgain  = "something went wrong, please try again"
	msgListError = "Could not load the list, please try again"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

type validationBody struct {
	Errors map[string]string `json:"errors"`
	Input  any               `json:"input,omitempty"`
}

// listBody wraps every list response. Error is set when the list could not
// be read; Notice carries a pending flash message.
type listBody struct {
	Items  any            `json:"items"`
	Error  string         `json:"error,omitempty"`
	Notice *notice.Notice `json:"notice,omitempty"`
}

func serverError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("[%s] %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: msgTryAgain})
}

// fail maps a service error to a response. input is echoed back on
// validation failures so the client can redisplay the form.
func fail(w http.ResponseWriter, r *http.Request, err error, input any) {
	var v *mock.ValidationError
	switch {
	case errors.As(err, &v):
		writeJSON(w, http.StatusUnprocessableEntity, validationBody{Errors: v.Fields, Input: input})
	case errors.Is(err, mock.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	default:
		serverError(w, r, err)
	}
}

// writeList answers 200 even when err is set: the list degrades to empty
// with an error banner.
func writeList[T any](w http.ResponseWriter, r *http.Request, items []T, err error) {
	body := listBody{Items: items, Notice: notice.Pop(w, r)}
	if err != nil {
		log.Printf("[%s] %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
		body.Items = []T{}
		body.Error = msgListError
	}
	writeJSON(w, http.StatusOK, body)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

// idParam reads a positive integer URL parameter. It answers 404 itself when
// the value is malformed.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return 0, false
	}
	return id, true
}

// queryID reads an optional positive integer query parameter; 0 if absent.
func queryID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
