package repository

import (
	"context"
	"database/sql"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/model"
)

// UserRepo persists users.  Password hashing happens in the auth
// service; this layer only ever sees the finished bcrypt digest.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID.  Usernames are unique and
// compared case-sensitively by the database collation on the column.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash, role string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, role) VALUES (?,?,?)",
		username, passwordHash, role)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrUsernameExists
		}
		return 0, wrapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapErr(err)
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, password_hash, role, created_at FROM users WHERE username=? LIMIT 1",
		username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		return model.User{}, wrapErr(err)
	}
	return u, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, password_hash, role, created_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		return model.User{}, wrapErr(err)
	}
	return u, nil
}
