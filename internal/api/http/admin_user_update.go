package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/mindengage-mock/internal/auth"
	authmw "github.com/mind-engage/mindengage-mock/internal/auth/middleware"
	"github.com/mind-engage/mindengage-mock/internal/rbac"
)

type updateUserRoleReq struct {
	Role string `json:"role"`
}

// POST /admin/users/{userID}/role  { "role": "Admin" | "User" }
func AdminUpdateUserRoleHandler(users *auth.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := chi.URLParam(r, "userID")
		var req updateUserRoleReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "bad json")
			return
		}
		role := strings.TrimSpace(req.Role)
		// an admin demoting themselves could leave nobody able to manage users
		if target == authmw.SubjectFromContext(r.Context()) && role != rbac.RoleAdmin {
			writeJSON(w, http.StatusUnprocessableEntity, validationBody{
				Errors: map[string]string{"role": "You cannot remove your own administrator role"}, Input: req,
			})
			return
		}
		err := users.SetRole(r.Context(), target, role)
		if errors.Is(err, auth.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
			return
		}
		if err != nil {
			fail(w, r, err, req)
			return
		}
		u, err := users.Get(r.Context(), target)
		if err != nil {
			serverError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}
