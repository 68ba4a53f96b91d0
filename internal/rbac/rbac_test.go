package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckerHas(t *testing.T) {
	c := NewChecker(nil)
	tests := []struct {
		role, perm string
		want       bool
	}{
		{RoleUser, PermMockTake, true},
		{RoleUser, PermResultViewOwn, true},
		{RoleUser, PermContentManage, false},
		{RoleUser, PermResultViewAll, false},
		{RoleAdmin, PermContentManage, true},
		{RoleAdmin, PermUsersManage, true},
		{"", PermMockTake, false},
		{"Guest", PermMockTake, false},
	}
	for _, tt := range tests {
		if got := c.Has(tt.role, tt.perm); got != tt.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tt.role, tt.perm, got, tt.want)
		}
	}
}

func TestMatchPermWildcard(t *testing.T) {
	c := NewChecker(map[string][]string{"Editor": {"content:*"}})
	if !c.Has("Editor", PermContentManage) {
		t.Fatal("prefix wildcard should match")
	}
	if c.Has("Editor", PermUsersManage) {
		t.Fatal("prefix wildcard matched a foreign permission")
	}
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := Require(PermContentManage)(ok)

	tests := []struct {
		name string
		role string
		want int
	}{
		{"no role", "", http.StatusUnauthorized},
		{"user", RoleUser, http.StatusSeeOther},
		{"admin", RoleAdmin, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/mocks", nil)
			if tt.role != "" {
				req = req.WithContext(WithRole(req.Context(), tt.role))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusSeeOther && rec.Header().Get("Location") != "/mocks" {
				t.Fatalf("location = %q", rec.Header().Get("Location"))
			}
		})
	}
}

func TestValidRole(t *testing.T) {
	if !ValidRole(RoleAdmin) || !ValidRole(RoleUser) || ValidRole("admin") {
		t.Fatal("role names are case-sensitive and limited to Admin/User")
	}
}
