package http

import (
	"encoding/json"
	"net/http"

	"github.com/mind-engage/mindengage-mock/internal/mock"
)

type mockInput struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
	TimeLimit   int    `json:"time_limit"`
}

// toMock applies the input; active is used when is_active is absent.
func (in mockInput) toMock(active bool) mock.Mock {
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return mock.Mock{ID: in.ID, Title: in.Title, Description: in.Description, IsActive: active, TimeLimit: in.TimeLimit}
}

// GET /mocks
func ListActiveMocksHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ms, err := svc.ListMocks(r.Context(), mock.MockListOpts{ActiveOnly: true})
		writeList(w, r, ms, err)
	}
}

// GET /admin/mocks?limit=&offset=
func ListMocksHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ms, err := svc.ListMocks(r.Context(), mock.MockListOpts{
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 0),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		writeList(w, r, ms, err)
	}
}

// GET /admin/mocks/{mockID}
func GetMockHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "mockID")
		if !ok {
			return
		}
		m, err := svc.GetMock(r.Context(), id)
		if err != nil {
			fail(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

// POST /admin/mocks
func CreateMockHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in mockInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			badRequest(w, "bad json")
			return
		}
		m := in.toMock(true)
		if err := svc.CreateMock(r.Context(), &m); err != nil {
			fail(w, r, err, in)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

// PUT /admin/mocks/{mockID}
func UpdateMockHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "mockID")
		if !ok {
			return
		}
		var in mockInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			badRequest(w, "bad json")
			return
		}
		// an edit without is_active keeps the stored flag
		current, err := svc.GetMock(r.Context(), id)
		if err != nil {
			fail(w, r, err, in)
			return
		}
		m := in.toMock(current.IsActive)
		if err := svc.UpdateMock(r.Context(), id, &m); err != nil {
			fail(w, r, err, in)
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

// DELETE /admin/mocks/{mockID}
func DeleteMockHandler(svc *mock.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r, "mockID")
		if !ok {
			return
		}
		if err := svc.DeleteMock(r.Context(), id); err != nil {
			fail(w, r, err, nil)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
