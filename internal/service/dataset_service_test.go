package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/repository"
)

func testDatasetService(t *testing.T) (*DatasetService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	svc := &DatasetService{Repo: repository.NewDatasetRepo(db)}
	return svc, mock, func() { db.Close() }
}

func TestDatasetValidate(t *testing.T) {
	svc, _, done := testDatasetService(t)
	defer done()

	cases := []struct {
		name string
		in   DatasetInput
	}{
		{"missing name", DatasetInput{Name: " ", RowCount: 10, ColumnCount: 2, Uploader: "alice"}},
		{"missing uploader", DatasetInput{Name: "sales", RowCount: 10, ColumnCount: 2}},
		{"negative rows", DatasetInput{Name: "sales", RowCount: -1, ColumnCount: 2, Uploader: "alice"}},
		{"negative columns", DatasetInput{Name: "sales", RowCount: 10, ColumnCount: -2, Uploader: "alice"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.validate(tc.in); !IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestDatasetCreateStampsCreatedAt(t *testing.T) {
	svc, mock, done := testDatasetService(t)
	defer done()

	mock.ExpectExec("INSERT INTO datasets").
		WithArgs("sales_2026", int64(120000), int64(14), "alice", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(5, 1))

	before := time.Now().UTC()
	got, err := svc.Create(context.Background(), 1, DatasetInput{
		Name:        "sales_2026",
		RowCount:    120000,
		ColumnCount: 14,
		Uploader:    "alice",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID != 5 {
		t.Fatalf("id = %d, want 5", got.ID)
	}
	if got.CreatedAt.Before(before) || got.CreatedAt.Location() != time.UTC {
		t.Fatalf("created_at not stamped in UTC: %v", got.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDatasetUpdateKeepsCreatedAt(t *testing.T) {
	svc, mock, done := testDatasetService(t)
	defer done()

	created := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM datasets WHERE id").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "row_count", "column_count", "uploader", "created_at"}).
			AddRow(5, "sales_2026", 120000, 14, "alice", created))
	mock.ExpectExec("UPDATE datasets").
		WithArgs("sales_2026_v2", int64(130000), int64(15), "alice", uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := svc.Update(context.Background(), 1, 5, DatasetInput{
		Name:        "sales_2026_v2",
		RowCount:    130000,
		ColumnCount: 15,
		Uploader:    "alice",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at changed on update: %v", got.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDatasetSummary(t *testing.T) {
	svc, mock, done := testDatasetService(t)
	defer done()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum", "avg"}).AddRow(3, 600, 200.0))
	mock.ExpectQuery("GROUP BY uploader").
		WillReturnRows(sqlmock.NewRows([]string{"uploader", "count", "rows"}).
			AddRow("alice", 2, 500).
			AddRow("bob", 1, 100))

	sum, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Total != 3 || sum.TotalRows != 600 || sum.AvgRows != 200 {
		t.Fatalf("unexpected totals: %+v", sum)
	}
	if len(sum.ByUploader) != 2 || sum.ByUploader[0].Uploader != "alice" {
		t.Fatalf("unexpected uploader rows: %+v", sum.ByUploader)
	}
}

func TestDatasetSummaryEmptyTable(t *testing.T) {
	svc, mock, done := testDatasetService(t)
	defer done()

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum", "avg"}).AddRow(0, nil, nil))
	mock.ExpectQuery("GROUP BY uploader").
		WillReturnRows(sqlmock.NewRows([]string{"uploader", "count", "rows"}))

	sum, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Total != 0 || sum.TotalRows != 0 || sum.AvgRows != 0 {
		t.Fatalf("empty table must aggregate to zeros: %+v", sum)
	}
}
