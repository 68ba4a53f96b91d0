package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mind-engage/mindengage-mock/internal/api/notice"
	authmw "github.com/mind-engage/mindengage-mock/internal/auth/middleware"
	"github.com/mind-engage/mindengage-mock/internal/mock"
	"github.com/mind-engage/mindengage-mock/internal/rbac"
	"github.com/mind-engage/mindengage-mock/internal/report"
)

const msgNotYourResult = "You are not allowed to view this result"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GET /results
func MyResultsHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs, err := svc.ListResults(r.Context(), mock.ResultListOpts{UserID: authmw.SubjectFromContext(r.Context())})
		writeList(w, r, rs, err)
	}
}

// GET /results/{resultID}
func ResultHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "resultID")
		if !ok {
			return
		}
		ctx := r.Context()
		d, err := svc.GetResult(ctx, id, authmw.SubjectFromContext(ctx), rbac.IsAdmin(ctx))
		if errors.Is(err, mock.ErrForbidden) {
			notice.Redirect(w, "/results", msgNotYourResult, notice.LevelError)
			return
		}
		if err != nil {
			fail(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			mock.ResultDetail
			Notice *notice.Notice `json:"notice,omitempty"`
		}{d, notice.Pop(w, r)})
	}
}

// GET /admin/results?mock_id=
func AdminResultsHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs, err := svc.ListResults(r.Context(), mock.ResultListOpts{MockID: queryID(r, "mock_id"), ByScore: true})
		writeList(w, r, rs, err)
	}
}

// GET /admin/results/export?mock_id=
func ExportResultsHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mockID := queryID(r, "mock_id")
		rs, err := svc.ListResults(r.Context(), mock.ResultListOpts{MockID: mockID, ByScore: true})
		if err != nil {
			serverError(w, r, err)
			return
		}
		var buf bytes.Buffer
		if err := report.WriteResults(&buf, rs); err != nil {
			serverError(w, r, err)
			return
		}
		name := "results.xlsx"
		if mockID > 0 {
			name = fmt.Sprintf("results-mock-%d.xlsx", mockID)
		}
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		_, _ = buf.WriteTo(w)
	}
}

type scoreWritingReq struct {
	Score    *int   `json:"score"`
	Feedback string `json:"feedback"`
}

// POST /admin/results/{resultID}/writing/{answerID}
func ScoreWritingHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resultID, ok := idParam(w, r, "resultID")
		if !ok {
			return
		}
		answerID, ok := idParam(w, r, "answerID")
		if !ok {
			return
		}
		var req scoreWritingReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "bad json")
			return
		}
		if req.Score == nil {
			writeJSON(w, http.StatusUnprocessableEntity, validationBody{
				Errors: map[string]string{"score": "Score is required"}, Input: req,
			})
			return
		}
		res, err := svc.ScoreWriting(r.Context(), resultID, answerID, *req.Score, req.Feedback)
		if err != nil {
			fail(w, r, err, req)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
