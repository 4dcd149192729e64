package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/config"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/model"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/repository"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/utils"
)

// AuthService is the auth manager: credential verification and session
// lifecycle.  Sessions are a signed access JWT plus a rotating refresh
// token; protected routes re-validate the JWT on every request via the
// auth middleware.
type AuthService struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthService(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthService {
	return &AuthService{Cfg: cfg, Users: u, Tokens: t}
}

// Session is the proof of a successful authentication.  The refresh
// token is returned raw exactly once; only its hash is stored.
type Session struct {
	UserID   uint64
	Username string
	Role     string
	Access   utils.AccessToken
	Refresh  utils.RefreshToken
}

// Register creates a user with a bcrypt-hashed password.  The username
// is kept case-sensitive as supplied; an empty role defaults to
// standard.  Fails with repository.ErrUsernameExists on a duplicate.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return model.User{}, invalid("username", "required")
	}
	if password == "" {
		return model.User{}, invalid("password", "required")
	}
	if role == "" {
		role = model.RoleStandard
	}
	if !model.ValidRole(role) {
		return model.User{}, invalid("role", "must be admin or standard")
	}
	hash, err := utils.HashPassword(password, s.Cfg.BcryptCost)
	if err != nil {
		return model.User{}, err
	}
	id, err := s.Users.Create(ctx, username, hash, role)
	if err != nil {
		return model.User{}, err
	}
	// The hash stays in the gateway; callers never need it.
	return model.User{ID: id, Username: username, Role: role}, nil
}

// Authenticate verifies credentials and opens a session.  An unknown
// username and a wrong password both fail with ErrInvalidCredentials so
// a caller cannot probe which usernames exist.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (Session, error) {
	if username == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}
	return s.openSession(ctx, u)
}

// Refresh validates a raw refresh token, revokes it and opens a new
// session (token rotation).
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (Session, error) {
	rawRefresh = strings.TrimSpace(rawRefresh)
	if rawRefresh == "" {
		return Session{}, ErrInvalidCredentials
	}
	hash := utils.HashRefreshRaw(rawRefresh)
	userID, err := s.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	_ = s.Tokens.RevokeByHash(ctx, hash)
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	return s.openSession(ctx, u)
}

// Logout revokes the session behind a raw refresh token.  It is
// idempotent: revoking an unknown or already revoked token succeeds.
func (s *AuthService) Logout(ctx context.Context, rawRefresh string) error {
	rawRefresh = strings.TrimSpace(rawRefresh)
	if rawRefresh == "" {
		return nil
	}
	return s.Tokens.RevokeByHash(ctx, utils.HashRefreshRaw(rawRefresh))
}

// LogoutAll revokes every active session of a user.
func (s *AuthService) LogoutAll(ctx context.Context, userID uint64) error {
	return s.Tokens.RevokeAllForUser(ctx, userID)
}

// openSession issues an access/refresh pair and stores the refresh hash.
func (s *AuthService) openSession(ctx context.Context, u model.User) (Session, error) {
	access, err := utils.NewAccessToken(s.Cfg.JWTSecret, u.ID, u.Role, s.Cfg.AccessTTLMin)
	if err != nil {
		return Session{}, err
	}
	refresh, err := utils.NewRefreshToken(s.Cfg.RefreshTTLDays)
	if err != nil {
		return Session{}, err
	}
	if err := s.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return Session{}, err
	}
	return Session{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		Access:   access,
		Refresh:  refresh,
	}, nil
}
