package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mind-engage/mindengage-mock/internal/auth"
	authmw "github.com/mind-engage/mindengage-mock/internal/auth/middleware"
)

type changePasswordReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// POST /account/password
func ChangePasswordHandler(users *auth.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var req changePasswordReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "bad json")
			return
		}
		err := users.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword)
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnprocessableEntity, validationBody{
				Errors: map[string]string{"old_password": "Current password is incorrect"},
			})
		case errors.Is(err, auth.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		case err != nil:
			fail(w, r, err, nil)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
}
