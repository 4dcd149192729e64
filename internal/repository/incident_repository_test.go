package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/model"
)

func testIncidentRepo(t *testing.T) (*IncidentRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return NewIncidentRepo(db), mock, func() { db.Close() }
}

func TestIncidentListFilters(t *testing.T) {
	repo, mock, done := testIncidentRepo(t)
	defer done()

	reported := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "title", "category", "severity", "status", "reported_at", "resolved_at"}).
		AddRow(1, "SQLi attempt", "intrusion", "high", "open", reported, nil)

	mock.ExpectQuery("FROM incidents WHERE 1=1 AND category=. AND status=. ORDER BY reported_at DESC").
		WithArgs("intrusion", "open").
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), IncidentFilter{Category: "intrusion", Status: "open"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Title != "SQLi attempt" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got[0].ResolvedAt != nil {
		t.Fatalf("open incident must have nil resolved_at")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIncidentGetByIDNotFound(t *testing.T) {
	repo, mock, done := testIncidentRepo(t)
	defer done()

	mock.ExpectQuery("FROM incidents WHERE id").
		WithArgs(uint64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIncidentUpdateZeroRows(t *testing.T) {
	repo, mock, done := testIncidentRepo(t)
	defer done()

	mock.ExpectExec("UPDATE incidents").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), model.SecurityIncident{
		ID: 77, Title: "t", Category: "c", Severity: "low", Status: "open",
		ReportedAt: time.Now(),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWrapErrTaxonomy(t *testing.T) {
	if wrapErr(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
	if !errors.Is(wrapErr(sql.ErrNoRows), ErrNotFound) {
		t.Fatalf("no rows must map to ErrNotFound")
	}
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	if !errors.Is(wrapErr(dup), ErrConstraint) {
		t.Fatalf("duplicate key must map to ErrConstraint")
	}
	other := errors.New("dial tcp: connection refused")
	if !errors.Is(wrapErr(other), ErrUnavailable) {
		t.Fatalf("driver failure must map to ErrUnavailable")
	}
	fk := &mysql.MySQLError{Number: 1452, Message: "foreign key constraint fails"}
	if !errors.Is(wrapErr(fk), ErrConstraint) {
		t.Fatalf("foreign key violation must map to ErrConstraint")
	}
}
