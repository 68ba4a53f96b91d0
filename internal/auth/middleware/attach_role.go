package auth

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/mind-engage/mindengage-mock/internal/rbac"
)

// AttachRoleFromDB replaces the role claimed by the token with the one
// stored for the user, so role changes apply before the token expires.
// Tokens for users that no longer exist are rejected.
func AttachRoleFromDB(db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sub := SubjectFromContext(ctx)

			var role string
			err := db.QueryRowxContext(ctx, db.Rebind(`SELECT role FROM users WHERE id=?`), sub).Scan(&role)
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(rbac.WithRole(ctx, role)))
			case errors.Is(err, sql.ErrNoRows):
				http.Error(w, "unknown user", http.StatusUnauthorized)
			default:
				log.Printf("auth: role lookup for %s: %v", sub, err)
				http.Error(w, "something went wrong, please try again", http.StatusInternalServerError)
			}
		})
	}
}
