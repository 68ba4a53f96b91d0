package http

import (
	"net/http"
	"strconv"

	syncx "github.com/mind-engage/mindengage-mock/internal/sync"
)

const maxEventPage = 500

// GET /admin/events?after=&limit=
// Oldest first. Clients page by passing the last offset they saw as after.
func ListEventsHandler(events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		after, err := strconv.ParseInt(r.URL.Query().Get("after"), 10, 64)
		if err != nil || after < 0 {
			after = 0
		}
		limit := parseIntDefault(r.URL.Query().Get("limit"), 100)
		if limit <= 0 || limit > maxEventPage {
			limit = maxEventPage
		}
		es, err := events.Since(r.Context(), after, limit)
		writeList(w, r, es, err)
	}
}
