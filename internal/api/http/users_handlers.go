package http

import (
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/mind-engage/mindengage-mock/internal/api/notice"
	"github.com/mind-engage/mindengage-mock/internal/auth"
)

type userListBody struct {
	auth.UserPage
	Search string         `json:"search,omitempty"`
	Error  string         `json:"error,omitempty"`
	Notice *notice.Notice `json:"notice,omitempty"`
}

// GET /admin/users?q=&page=
func ListUsersHandler(users *auth.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search := strings.TrimSpace(r.URL.Query().Get("q"))
		page := parseIntDefault(r.URL.Query().Get("page"), 1)
		p, err := users.List(r.Context(), search, page)
		body := userListBody{UserPage: p, Search: search, Notice: notice.Pop(w, r)}
		if err != nil {
			log.Printf("[%s] list users: %v", middleware.GetReqID(r.Context()), err)
			body.UserPage = auth.UserPage{Items: []auth.User{}, Page: page, PerPage: auth.UsersPerPage}
			body.Error = msgListError
		}
		writeJSON(w, http.StatusOK, body)
	}
}
