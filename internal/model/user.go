package model

import "time"

// Roles assignable to a platform user.  The seeding script creates a
// single admin account; self-registered users default to standard.
const (
	RoleAdmin    = "admin"
	RoleStandard = "standard"
)

// ValidRole reports whether the given role is one of the declared values.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStandard
}

// User mirrors a row in the `users` table.  Usernames are unique and
// case-sensitive; the password hash is a bcrypt digest and is never
// exposed to handlers or logs.
//
// Fields:
//  ID           – primary key identifier.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  Role         – either admin or standard.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Username     string    // users.username
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  The raw
// token value is returned to the client once; only its SHA-256 hash is
// persisted so a leaked table cannot be replayed.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
