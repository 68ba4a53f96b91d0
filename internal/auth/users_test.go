package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/mindengage-mock/internal/db"
	"github.com/mind-engage/mindengage-mock/internal/mock"
	"github.com/mind-engage/mindengage-mock/internal/rbac"
)

func newUserStore(t *testing.T) *UserStore {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dbx, err := db.Open(context.Background(), db.DriverSQLite,
		"file:"+name+"?mode=memory&cache=shared&_pragma=foreign_keys(1)", db.Options{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbx.Close() })
	s := NewUserStore(dbx)
	s.cost = bcrypt.MinCost
	return s
}

func TestCreateAndAuthenticate(t *testing.T) {
	s := newUserStore(t)
	ctx := context.Background()

	u, err := s.Create(ctx, "alice", "secret1", rbac.RoleUser)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == "" || u.PasswordHash == "secret1" {
		t.Fatalf("user = %+v", u)
	}
	got, err := s.Authenticate(ctx, "alice", "secret1")
	if err != nil || got.ID != u.ID {
		t.Fatalf("authenticate: %+v %v", got, err)
	}
	if _, err := s.Authenticate(ctx, "alice", "wrong!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, err := s.Authenticate(ctx, "bob", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: %v", err)
	}

	_, err = s.Create(ctx, "alice", "another1", rbac.RoleUser)
	var v *mock.ValidationError
	if !errors.As(err, &v) || v.Fields["username"] == "" {
		t.Fatalf("duplicate username: %v", err)
	}
	_, err = s.Create(ctx, "x", "123", rbac.RoleUser)
	if !errors.As(err, &v) || v.Fields["username"] == "" || v.Fields["password"] == "" {
		t.Fatalf("short credentials: %v", err)
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	s := newUserStore(t)
	ctx := context.Background()

	created, err := s.EnsureAdmin(ctx, "admin1", "admin1")
	if err != nil || !created {
		t.Fatalf("first run: created=%v err=%v", created, err)
	}
	created, err = s.EnsureAdmin(ctx, "admin1", "admin1")
	if err != nil || created {
		t.Fatalf("second run: created=%v err=%v", created, err)
	}
	u, err := s.Authenticate(ctx, "admin1", "admin1")
	if err != nil || u.Role != rbac.RoleAdmin {
		t.Fatalf("admin = %+v err=%v", u, err)
	}
	page, _ := s.List(ctx, "", 1)
	if page.Total != 1 {
		t.Fatalf("users = %d, want 1", page.Total)
	}
}

func TestListSearchAndPaging(t *testing.T) {
	s := newUserStore(t)
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		if _, err := s.Create(ctx, fmt.Sprintf("student%02d", i), "secret1", rbac.RoleUser); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.Create(ctx, "Examiner", "secret1", rbac.RoleUser); err != nil {
		t.Fatal(err)
	}

	p1, err := s.List(ctx, "", 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if p1.Total != 26 || len(p1.Items) != UsersPerPage {
		t.Fatalf("page 1: total=%d items=%d", p1.Total, len(p1.Items))
	}
	p2, _ := s.List(ctx, "", 2)
	if len(p2.Items) != 6 {
		t.Fatalf("page 2 items = %d", len(p2.Items))
	}

	found, _ := s.List(ctx, "exam", 1)
	if found.Total != 1 || found.Items[0].Username != "Examiner" {
		t.Fatalf("search = %+v", found)
	}
}

func TestSetRole(t *testing.T) {
	s := newUserStore(t)
	ctx := context.Background()
	u, _ := s.Create(ctx, "carol", "secret1", rbac.RoleUser)

	if err := s.SetRole(ctx, u.ID, rbac.RoleAdmin); err != nil {
		t.Fatalf("set role: %v", err)
	}
	got, _ := s.Get(ctx, u.ID)
	if got.Role != rbac.RoleAdmin {
		t.Fatalf("role = %q", got.Role)
	}
	if err := s.SetRole(ctx, u.ID, "root"); !mock.IsValidation(err) {
		t.Fatalf("unknown role: %v", err)
	}
	if err := s.SetRole(ctx, "missing", rbac.RoleUser); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	s := newUserStore(t)
	ctx := context.Background()
	u, err := s.Create(ctx, "dana", "secret1", rbac.RoleUser)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.ChangePassword(ctx, u.ID, "not-it", "secret2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong old password: got %v", err)
	}
	var v *mock.ValidationError
	if err := s.ChangePassword(ctx, u.ID, "secret1", "abc"); !errors.As(err, &v) || v.Fields["new_password"] == "" {
		t.Fatalf("short new password: got %v", err)
	}
	if err := s.ChangePassword(ctx, "missing", "secret1", "secret2"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown user: got %v", err)
	}

	if err := s.ChangePassword(ctx, u.ID, "secret1", "secret2"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if _, err := s.Authenticate(ctx, "dana", "secret2"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
	if _, err := s.Authenticate(ctx, "dana", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
}
