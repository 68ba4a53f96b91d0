package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	authmw "github.com/mind-engage/mindengage-mock/internal/auth/middleware"
	"github.com/mind-engage/mindengage-mock/internal/mock"
	"github.com/mind-engage/mindengage-mock/internal/rbac"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}

func issue(w http.ResponseWriter, a *authmw.AuthService, u User, status int) {
	tok, err := a.IssueJWT(u.ID, u.Role)
	if err != nil {
		http.Error(w, "issue token", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: tok, UserID: u.ID, Username: u.Username, Role: u.Role})
}

// POST /auth/login  { "username": "...", "password": "..." }
func LoginHandler(a *authmw.AuthService, users *UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		u, err := users.Authenticate(r.Context(), req.Username, req.Password)
		if errors.Is(err, ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if err != nil {
			log.Printf("auth: login %q: %v", req.Username, err)
			http.Error(w, "something went wrong, please try again", http.StatusInternalServerError)
			return
		}
		issue(w, a, u, http.StatusOK)
	}
}

// POST /auth/register  { "username": "...", "password": "..." }
// New accounts always get the User role.
func RegisterHandler(a *authmw.AuthService, users *UserStore, enabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !enabled {
			http.Error(w, "registration disabled", http.StatusForbidden)
			return
		}
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		u, err := users.Create(r.Context(), req.Username, req.Password, rbac.RoleUser)
		var v *mock.ValidationError
		if errors.As(err, &v) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"errors": v.Fields,
				"input":  map[string]string{"username": req.Username},
			})
			return
		}
		if err != nil {
			log.Printf("auth: register %q: %v", req.Username, err)
			http.Error(w, "something went wrong, please try again", http.StatusInternalServerError)
			return
		}
		issue(w, a, u, http.StatusCreated)
	}
}
