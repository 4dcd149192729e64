package repository

import (
	"context"
	"database/sql"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/model"
)

// DatasetRepo owns all SQL touching the `datasets` table.
type DatasetRepo struct{ DB *sql.DB }

func NewDatasetRepo(db *sql.DB) *DatasetRepo { return &DatasetRepo{DB: db} }

const datasetColumns = "id, name, row_count, column_count, uploader, created_at"

// Create inserts a dataset metadata record and returns it with its ID.
func (r *DatasetRepo) Create(ctx context.Context, d model.DatasetMetadata) (model.DatasetMetadata, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO datasets (name, row_count, column_count, uploader, created_at) VALUES (?,?,?,?,?)",
		d.Name, d.RowCount, d.ColumnCount, d.Uploader, d.CreatedAt)
	if err != nil {
		return model.DatasetMetadata{}, wrapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.DatasetMetadata{}, wrapErr(err)
	}
	d.ID = uint64(id)
	return d, nil
}

// GetByID fetches one dataset metadata record.
func (r *DatasetRepo) GetByID(ctx context.Context, id uint64) (model.DatasetMetadata, error) {
	var d model.DatasetMetadata
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+datasetColumns+" FROM datasets WHERE id=? LIMIT 1", id).
		Scan(&d.ID, &d.Name, &d.RowCount, &d.ColumnCount, &d.Uploader, &d.CreatedAt)
	if err != nil {
		return model.DatasetMetadata{}, wrapErr(err)
	}
	return d, nil
}

// List returns all dataset metadata, newest upload first.  An optional
// uploader narrows the result.
func (r *DatasetRepo) List(ctx context.Context, uploader string) ([]model.DatasetMetadata, error) {
	query := "SELECT " + datasetColumns + " FROM datasets"
	args := []any{}
	if uploader != "" {
		query += " WHERE uploader=?"
		args = append(args, uploader)
	}
	query += " ORDER BY created_at DESC"
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()
	var out []model.DatasetMetadata
	for rows.Next() {
		var d model.DatasetMetadata
		if err := rows.Scan(&d.ID, &d.Name, &d.RowCount, &d.ColumnCount, &d.Uploader, &d.CreatedAt); err != nil {
			return nil, wrapErr(err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}

// Update overwrites all mutable fields of a dataset record.
func (r *DatasetRepo) Update(ctx context.Context, d model.DatasetMetadata) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE datasets SET name=?, row_count=?, column_count=?, uploader=? WHERE id=?",
		d.Name, d.RowCount, d.ColumnCount, d.Uploader, d.ID)
	if err != nil {
		return wrapErr(err)
	}
	return requireRow(res)
}

// Delete removes a dataset record by id.
func (r *DatasetRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM datasets WHERE id=?", id)
	if err != nil {
		return wrapErr(err)
	}
	return requireRow(res)
}

// Totals returns the dataset count together with the summed and average
// row counts.  All three come from one scan so they are mutually
// consistent.  Averages over an empty table report zero.
func (r *DatasetRepo) Totals(ctx context.Context) (count, totalRows int64, avgRows float64, err error) {
	var (
		sum sql.NullInt64
		avg sql.NullFloat64
	)
	err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), SUM(row_count), AVG(row_count) FROM datasets").
		Scan(&count, &sum, &avg)
	if err != nil {
		return 0, 0, 0, wrapErr(err)
	}
	return count, sum.Int64, avg.Float64, nil
}

// UploaderRow aggregates dataset ownership per uploader.
type UploaderRow struct {
	Uploader     string `json:"uploader"`
	DatasetCount int64  `json:"dataset_count"`
	TotalRows    int64  `json:"total_rows"`
}

// UploaderSummary groups dataset counts and row totals by uploader.
func (r *DatasetRepo) UploaderSummary(ctx context.Context) ([]UploaderRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT uploader, COUNT(*), COALESCE(SUM(row_count),0) FROM datasets GROUP BY uploader ORDER BY uploader")
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()
	var out []UploaderRow
	for rows.Next() {
		var u UploaderRow
		if err := rows.Scan(&u.Uploader, &u.DatasetCount, &u.TotalRows); err != nil {
			return nil, wrapErr(err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}
