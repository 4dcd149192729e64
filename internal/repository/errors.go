// Package repository implements the storage gateway: every database
// statement in the application lives here, fully parameterized, and
// results come back as typed model records.  Sentinel errors defined in
// this file let the service and handler layers distinguish failure
// scenarios without inspecting driver internals.
package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a row lookup, update or delete targets
// an id that does not exist.  Handlers translate this into HTTP 404.
var ErrNotFound = errors.New("record not found")

// ErrUsernameExists is returned when registering a username that is
// already taken.  Handlers translate this into HTTP 409.
var ErrUsernameExists = errors.New("username already exists")

// ErrConstraint is returned for any other unique/foreign-key violation.
var ErrConstraint = errors.New("constraint violation")

// ErrUnavailable wraps connectivity and driver failures.  It is fatal to
// the current request and never retried at this layer.
var ErrUnavailable = errors.New("storage unavailable")

const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// isDuplicate reports whether err is a MySQL duplicate-key violation.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// isConstraint reports whether err is a foreign-key violation.
func isConstraint(err error) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	return me.Number == mysqlRowIsReferenced || me.Number == mysqlNoReferencedRow
}

// requireRow converts a zero-rows-affected exec result into ErrNotFound.
// Update and delete statements use it after the service layer's existence
// check; the window between the two is the documented check-then-act race.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// wrapErr maps driver errors onto the repository taxonomy.  sql.ErrNoRows
// becomes ErrNotFound, duplicate keys become ErrConstraint and anything
// else is treated as the storage being unavailable.
func wrapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case isDuplicate(err), isConstraint(err):
		return ErrConstraint
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
