package model

import "time"

// DatasetMetadata mirrors a row in the `datasets` table.  It records
// governance metadata about an uploaded dataset, not the data itself.
// Row and column counts must be non-negative.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – human-readable dataset name.
//  RowCount    – number of records in the dataset.
//  ColumnCount – number of columns/features.
//  Uploader    – user who uploaded the dataset.
//  CreatedAt   – when the metadata entry was created.
type DatasetMetadata struct {
	ID          uint64    // datasets.id
	Name        string    // datasets.name
	RowCount    int64     // datasets.row_count
	ColumnCount int64     // datasets.column_count
	Uploader    string    // datasets.uploader
	CreatedAt   time.Time // datasets.created_at
}
