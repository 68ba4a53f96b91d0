package http

import (
	"context"
	"net/http"
	"time"
)

type pinger interface {
	PingContext(ctx context.Context) error
}

func HealthzHandler(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

// ReadyzHandler reports 503 while the store cannot be reached.
func ReadyzHandler(db pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
