package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/mindengage-mock/internal/mock"
	"github.com/mind-engage/mindengage-mock/internal/rbac"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

const (
	minPasswordLen = 6
	maxUsernameLen = 50
	UsersPerPage   = 20
)

type User struct {
	ID           string `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
	Role         string `json:"role" db:"role"`
	CreatedAt    int64  `json:"created_at" db:"created_at"`
}

type UserPage struct {
	Items   []User `json:"items"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
}

// UserStore keeps accounts in the users table.
type UserStore struct {
	db   *sqlx.DB
	cost int
	now  func() time.Time
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db, cost: 12, now: time.Now}
}

func (s *UserStore) q(query string) string { return s.db.Rebind(query) }

func validateCredentials(username, password string) error {
	v := &mock.ValidationError{}
	switch n := utf8.RuneCountInString(username); {
	case strings.TrimSpace(username) == "":
		v.Add("username", "Username is required")
	case n < 3 || n > maxUsernameLen:
		v.Add("username", fmt.Sprintf("Username must be between 3 and %d characters", maxUsernameLen))
	case strings.ContainsAny(username, " \t\r\n"):
		v.Add("username", "Username cannot contain spaces")
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		v.Add("password", fmt.Sprintf("Password must be at least %d characters", minPasswordLen))
	}
	return v.Err()
}

// Create registers a new account with a bcrypt-hashed password.
func (s *UserStore) Create(ctx context.Context, username, password, role string) (User, error) {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return User{}, err
	}
	if !rbac.ValidRole(role) {
		return User{}, fmt.Errorf("create user: unknown role %q", role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return User{}, err
	}
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    s.now().Unix(),
	}
	_, err = s.db.ExecContext(ctx, s.q(`INSERT INTO users (id, username, password_hash, role, created_at) VALUES (?,?,?,?,?)`),
		u.ID, u.Username, u.PasswordHash, u.Role, u.CreatedAt)
	if isUniqueViolation(err) {
		v := &mock.ValidationError{}
		v.Add("username", "Username is already taken")
		return User{}, v
	}
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Authenticate checks a username/password pair. Unknown users and wrong
// passwords both yield ErrInvalidCredentials.
func (s *UserStore) Authenticate(ctx context.Context, username, password string) (User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT id, username, password_hash, role, created_at FROM users WHERE username=?`),
		strings.TrimSpace(username))
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserStore) Get(ctx context.Context, id string) (User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT id, username, password_hash, role, created_at FROM users WHERE id=?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

// List returns one page of users ordered by username, optionally filtered by
// a case-insensitive username substring. Pages start at 1.
func (s *UserStore) List(ctx context.Context, search string, page int) (UserPage, error) {
	if page < 1 {
		page = 1
	}
	where := ""
	var args []any
	if search = strings.TrimSpace(search); search != "" {
		where = ` WHERE LOWER(username) LIKE ?`
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	out := UserPage{Items: []User{}, Page: page, PerPage: UsersPerPage}
	if err := s.db.GetContext(ctx, &out.Total, s.q(`SELECT COUNT(*) FROM users`+where), args...); err != nil {
		return UserPage{}, fmt.Errorf("count users: %w", err)
	}
	query := fmt.Sprintf(`SELECT id, username, password_hash, role, created_at FROM users%s ORDER BY username LIMIT %d OFFSET %d`,
		where, UsersPerPage, (page-1)*UsersPerPage)
	if err := s.db.SelectContext(ctx, &out.Items, s.q(query), args...); err != nil {
		return UserPage{}, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (s *UserStore) SetRole(ctx context.Context, id, role string) error {
	if !rbac.ValidRole(role) {
		v := &mock.ValidationError{}
		v.Add("role", "Role must be Admin or User")
		return v
	}
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE users SET role=? WHERE id=?`), role, id)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// EnsureAdmin creates the administrator account unless a user with that
// name already exists. It is safe to run on every start.
func (s *UserStore) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, s.q(`SELECT COUNT(*) FROM users WHERE username=?`), username); err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.Create(ctx, username, password, rbac.RoleAdmin); err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}
	log.Printf("auth: provisioned admin user %q", username)
	return true, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") // sqlite
}

// ChangePassword replaces a user's password after checking the current one.
func (s *UserStore) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}
	if utf8.RuneCountInString(newPassword) < minPasswordLen {
		v := &mock.ValidationError{}
		v.Add("new_password", fmt.Sprintf("Password must be at least %d characters", minPasswordLen))
		return v
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.q(`UPDATE users SET password_hash=? WHERE id=?`), string(hash), id); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}
