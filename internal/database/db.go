// Package database opens the MySQL pool and applies the schema.  The
// storage gateway above it (internal/repository) never builds DSNs or
// tunes the pool; that all happens here.
package database

import (
	"context"
	"database/sql"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Pool sizing for the dashboard workload: requests are short-lived
// aggregate reads plus occasional writes, so a modest pool with idle
// reuse beats opening a connection per request.
const (
	maxOpenConns    = 20
	maxIdleConns    = 10
	connMaxLifetime = 15 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Open connects to MySQL and verifies the server is reachable before
// returning.  Timestamps are stored and scanned as UTC so resolution
// arithmetic never crosses a zone boundary.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = pass
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(host, port)
	cfg.DBName = name
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
