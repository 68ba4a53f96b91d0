package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mind-engage/mindengage-mock/internal/rbac"
)

func TestIssueAndParse(t *testing.T) {
	a := NewAuthService("test-secret", time.Hour)
	tok, err := a.IssueJWT("u-1", rbac.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	c, err := a.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Sub != "u-1" || c.Role != rbac.RoleUser {
		t.Fatalf("claims = %+v", c)
	}

	other := NewAuthService("other-secret", time.Hour)
	if _, err := other.Parse(tok); err == nil {
		t.Fatal("token signed with another secret must not parse")
	}

	expired := &AuthService{hmac: []byte("test-secret"), ttl: -time.Minute}
	old, _ := expired.IssueJWT("u-1", rbac.RoleUser)
	if _, err := a.Parse(old); err == nil {
		t.Fatal("expired token must not parse")
	}
}

func TestJWTMiddleware(t *testing.T) {
	a := NewAuthService("test-secret", time.Hour)
	var gotSub, gotRole string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mocks", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/mocks", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d", rec.Code)
	}

	tok, _ := a.IssueJWT("admin-id", rbac.RoleAdmin)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/mocks", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || gotSub != "admin-id" || gotRole != rbac.RoleAdmin {
		t.Fatalf("status = %d sub = %q role = %q", rec.Code, gotSub, gotRole)
	}
}
