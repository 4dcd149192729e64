package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/model"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/repository"
)

func testIncidentService(t *testing.T) (*IncidentService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	svc := &IncidentService{Repo: repository.NewIncidentRepo(db)}
	return svc, mock, func() { db.Close() }
}

func TestIncidentValidate(t *testing.T) {
	svc, _, done := testIncidentService(t)
	defer done()

	reported := time.Date(2026, 7, 10, 8, 0, 0, 0, time.UTC)
	resolved := reported.Add(6 * time.Hour)
	before := reported.Add(-time.Minute)

	valid := IncidentInput{
		Title:      "Phishing campaign",
		Category:   "phishing",
		Severity:   model.SeverityCritical,
		ReportedAt: reported,
	}

	t.Run("status defaults to open", func(t *testing.T) {
		got, err := svc.validate(valid)
		if err != nil {
			t.Fatalf("validate: %v", err)
		}
		if got.Status != model.IncidentOpen {
			t.Fatalf("expected default status open, got %q", got.Status)
		}
	})

	t.Run("closed incident carries resolved_at", func(t *testing.T) {
		in := valid
		in.Status = model.IncidentClosed
		in.ResolvedAt = &resolved
		if _, err := svc.validate(in); err != nil {
			t.Fatalf("validate: %v", err)
		}
	})

	invalidCases := []struct {
		name   string
		mutate func(*IncidentInput)
	}{
		{"missing title", func(in *IncidentInput) { in.Title = "" }},
		{"missing category", func(in *IncidentInput) { in.Category = " " }},
		{"unknown severity", func(in *IncidentInput) { in.Severity = "catastrophic" }},
		{"unknown status", func(in *IncidentInput) { in.Status = "archived" }},
		{"zero reported_at", func(in *IncidentInput) { in.ReportedAt = time.Time{} }},
		{"resolved without timestamp", func(in *IncidentInput) { in.Status = model.IncidentResolved }},
		{"closed without timestamp", func(in *IncidentInput) { in.Status = model.IncidentClosed }},
		{"resolved before reported", func(in *IncidentInput) {
			in.Status = model.IncidentResolved
			in.ResolvedAt = &before
		}},
		{"timestamp on in_progress incident", func(in *IncidentInput) {
			in.Status = model.IncidentInProgress
			in.ResolvedAt = &resolved
		}},
	}
	for _, tc := range invalidCases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			if _, err := svc.validate(in); !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestIncidentSummary(t *testing.T) {
	svc, mock, done := testIncidentService(t)
	defer done()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery("status IN").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("GROUP BY category").
		WillReturnRows(sqlmock.NewRows([]string{"category", "count"}).
			AddRow("malware", 3).AddRow("phishing", 1))
	mock.ExpectQuery("GROUP BY severity").
		WillReturnRows(sqlmock.NewRows([]string{"severity", "count"}).
			AddRow("critical", 1).AddRow("high", 3))
	mock.ExpectQuery("GROUP BY status").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("in_progress", 1).AddRow("open", 1).AddRow("resolved", 2))

	sum, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Total != 4 || sum.Open != 2 {
		t.Fatalf("total/open = %d/%d, want 4/2", sum.Total, sum.Open)
	}
	var byStatus int64
	for _, row := range sum.ByStatus {
		byStatus += row.Count
	}
	if byStatus != sum.Total {
		t.Fatalf("status counts sum to %d, want %d", byStatus, sum.Total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestIncidentUpdateMissingRow(t *testing.T) {
	svc, mock, done := testIncidentService(t)
	defer done()

	mock.ExpectQuery("FROM incidents WHERE id").
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Update(context.Background(), 1, 99, IncidentInput{})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIncidentDeleteNotFound(t *testing.T) {
	svc, mock, done := testIncidentService(t)
	defer done()

	mock.ExpectExec("DELETE FROM incidents").
		WithArgs(uint64(123)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.Delete(context.Background(), 1, 123)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
