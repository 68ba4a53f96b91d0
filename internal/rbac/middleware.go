package rbac

import (
	"net/http"

	"github.com/mind-engage/mindengage-mock/internal/api/notice"
)

var defaultChecker = NewChecker(nil)

const deniedNotice = "You are not allowed to access this page"

// Require enforces a single permission. Requests without a role are
// unauthenticated (401); a role lacking the permission is sent back to the
// mock list with a notice.
func Require(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !defaultChecker.Has(role, perm) {
				notice.Redirect(w, "/mocks", deniedNotice, notice.LevelError)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAny enforces that the role has at least one of the permissions.
func RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !defaultChecker.Any(role, perms...) {
				notice.Redirect(w, "/mocks", deniedNotice, notice.LevelError)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
