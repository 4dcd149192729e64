package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/config"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/model"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/repository"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/utils"
)

func testAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	cfg := config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     bcrypt.MinCost,
	}
	svc := NewAuthService(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db))
	return svc, mock, func() { db.Close() }
}

func TestRegisterDefaultsToStandardRole(t *testing.T) {
	svc, mock, done := testAuthService(t)
	defer done()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice", sqlmock.AnyArg(), model.RoleStandard).
		WillReturnResult(sqlmock.NewResult(1, 1))

	u, err := svc.Register(context.Background(), "alice", "s3cret", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID != 1 || u.Username != "alice" || u.Role != model.RoleStandard {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.PasswordHash != "" {
		t.Fatalf("password hash leaked out of the service")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, done := testAuthService(t)
	defer done()

	cases := []struct {
		name               string
		username, password string
		role               string
	}{
		{"empty username", "", "pw", ""},
		{"whitespace username", "   ", "pw", ""},
		{"empty password", "bob", "", ""},
		{"unknown role", "bob", "pw", "superuser"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.username, tc.password, tc.role)
			if !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, mock, done := testAuthService(t)
	defer done()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice' for key 'users.username'"})

	_, err := svc.Register(context.Background(), "alice", "s3cret", model.RoleAdmin)
	if !errors.Is(err, repository.ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestAuthenticateOpensSession(t *testing.T) {
	svc, mock, done := testAuthService(t)
	defer done()

	hash, err := utils.HashPassword("s3cret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	userRows := sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at"}).
		AddRow(7, "alice", hash, model.RoleAdmin, time.Now())
	mock.ExpectQuery("SELECT id, username, password_hash, role, created_at FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(userRows)
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(uint64(7), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	sess, err := svc.Authenticate(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if sess.UserID != 7 || sess.Role != model.RoleAdmin {
		t.Fatalf("unexpected session identity: %+v", sess)
	}
	if sess.Access.Token == "" || sess.Refresh.Raw == "" {
		t.Fatalf("expected both tokens to be issued")
	}
	if !sess.Access.Exp.After(time.Now()) {
		t.Fatalf("access token already expired: %v", sess.Access.Exp)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// Unknown usernames and wrong passwords must be indistinguishable to
// the caller.
func TestAuthenticateFailuresLookIdentical(t *testing.T) {
	svc, mock, done := testAuthService(t)
	defer done()

	mock.ExpectQuery("SELECT id, username, password_hash, role, created_at FROM users WHERE username").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)
	_, unknownErr := svc.Authenticate(context.Background(), "ghost", "whatever")

	hash, err := utils.HashPassword("right-password", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	mock.ExpectQuery("SELECT id, username, password_hash, role, created_at FROM users WHERE username").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at"}).
			AddRow(1, "alice", hash, model.RoleStandard, time.Now()))
	_, wrongErr := svc.Authenticate(context.Background(), "alice", "wrong-password")

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("failure modes are distinguishable: %q vs %q", unknownErr, wrongErr)
	}
}

// Usernames are exact-case: the lookup must carry the caller's casing
// untouched, so "Alice" never authenticates as "alice".
func TestAuthenticatePreservesUsernameCase(t *testing.T) {
	svc, mock, done := testAuthService(t)
	defer done()

	mock.ExpectQuery("SELECT id, username, password_hash, role, created_at FROM users WHERE username").
		WithArgs("Alice").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Authenticate(context.Background(), "Alice", "s3cret")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("username was rewritten before the lookup: %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, mock, done := testAuthService(t)
	defer done()

	raw := "raw-refresh-token"
	hash := utils.HashRefreshRaw(raw)

	mock.ExpectQuery("FROM refresh_tokens WHERE token_hash").
		WithArgs(hash).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "revoked_at", "created_at"}).
			AddRow(1, 3, hash, time.Now().Add(24*time.Hour), nil, time.Now()))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at").
		WithArgs(hash).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, username, password_hash, role, created_at FROM users WHERE id").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at"}).
			AddRow(3, "carol", "x", model.RoleStandard, time.Now()))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WithArgs(uint64(3), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))

	sess, err := svc.Refresh(context.Background(), raw)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if sess.UserID != 3 {
		t.Fatalf("unexpected user id: %d", sess.UserID)
	}
	if sess.Refresh.Raw == raw {
		t.Fatalf("refresh token was not rotated")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRefreshRejectsRevokedToken(t *testing.T) {
	svc, mock, done := testAuthService(t)
	defer done()

	revoked := time.Now().Add(-time.Hour)
	mock.ExpectQuery("FROM refresh_tokens WHERE token_hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token_hash", "expires_at", "revoked_at", "created_at"}).
			AddRow(1, 3, "h", time.Now().Add(24*time.Hour), revoked, time.Now()))

	_, err := svc.Refresh(context.Background(), "some-raw-token")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogoutWithEmptyTokenIsNoop(t *testing.T) {
	svc, mock, done := testAuthService(t)
	defer done()

	if err := svc.Logout(context.Background(), "   "); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no statements expected: %v", err)
	}
}
