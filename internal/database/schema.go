package database

import (
	"context"
	"database/sql"
)

// Schema statements are idempotent (CREATE TABLE IF NOT EXISTS) and run
// once at startup by both the server and the seeding tool.
var schema = []string{
	// username carries a binary collation: the default utf8mb4 collation
	// folds case, which would make "Alice" and "alice" collide on the
	// unique index and match each other's logins.
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		username      VARCHAR(64) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		role          VARCHAR(16) NOT NULL DEFAULT 'standard',
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id         BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		user_id    BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		expires_at DATETIME NOT NULL,
		revoked_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_refresh_tokens_hash (token_hash),
		KEY idx_refresh_tokens_user (user_id),
		CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS incidents (
		id          BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		title       VARCHAR(255) NOT NULL,
		category    VARCHAR(64) NOT NULL,
		severity    VARCHAR(16) NOT NULL,
		status      VARCHAR(16) NOT NULL DEFAULT 'open',
		reported_at DATETIME NOT NULL,
		resolved_at DATETIME NULL,
		KEY idx_incidents_status (status),
		KEY idx_incidents_severity (severity)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS datasets (
		id           BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		name         VARCHAR(255) NOT NULL,
		row_count    BIGINT NOT NULL DEFAULT 0,
		column_count BIGINT NOT NULL DEFAULT 0,
		uploader     VARCHAR(64) NOT NULL,
		created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_datasets_uploader (uploader)
	) ENGINE=InnoDB`,

	`CREATE TABLE IF NOT EXISTS tickets (
		id          BIGINT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
		title       VARCHAR(255) NOT NULL,
		priority    VARCHAR(16) NOT NULL,
		status      VARCHAR(16) NOT NULL DEFAULT 'open',
		assignee    VARCHAR(64) NOT NULL,
		created_at  DATETIME NOT NULL,
		resolved_at DATETIME NULL,
		KEY idx_tickets_status (status),
		KEY idx_tickets_assignee (assignee)
	) ENGINE=InnoDB`,
}

// Migrate applies the schema.  Safe to call on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
