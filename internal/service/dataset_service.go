package service

import (
	"context"
	"strings"
	"time"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/model"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/queue"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/repository"
)

// DatasetInput carries the caller-supplied fields for creating or
// updating a dataset metadata record.
type DatasetInput struct {
	Name        string
	RowCount    int64
	ColumnCount int64
	Uploader    string
}

// DatasetService validates inputs and computes the data governance
// dashboard aggregates.
type DatasetService struct {
	Repo    *repository.DatasetRepo
	Publish PublishFunc
}

func NewDatasetService(repo *repository.DatasetRepo) *DatasetService {
	return &DatasetService{Repo: repo, Publish: queue.PublishEntityChanged}
}

func (s *DatasetService) validate(in DatasetInput) (model.DatasetMetadata, error) {
	d := model.DatasetMetadata{
		Name:        strings.TrimSpace(in.Name),
		RowCount:    in.RowCount,
		ColumnCount: in.ColumnCount,
		Uploader:    strings.TrimSpace(in.Uploader),
	}
	if d.Name == "" {
		return model.DatasetMetadata{}, invalid("name", "required")
	}
	if d.RowCount < 0 {
		return model.DatasetMetadata{}, invalid("row_count", "must be non-negative")
	}
	if d.ColumnCount < 0 {
		return model.DatasetMetadata{}, invalid("column_count", "must be non-negative")
	}
	if d.Uploader == "" {
		return model.DatasetMetadata{}, invalid("uploader", "required")
	}
	return d, nil
}

// Create validates and stores a new dataset metadata record.
func (s *DatasetService) Create(ctx context.Context, actorID uint64, in DatasetInput) (model.DatasetMetadata, error) {
	d, err := s.validate(in)
	if err != nil {
		return model.DatasetMetadata{}, err
	}
	d.CreatedAt = time.Now().UTC()
	created, err := s.Repo.Create(ctx, d)
	if err != nil {
		return model.DatasetMetadata{}, err
	}
	emit(ctx, s.Publish, "dataset", queue.ActionCreated, created.ID, actorID)
	return created, nil
}

// List returns dataset metadata, optionally narrowed to one uploader.
func (s *DatasetService) List(ctx context.Context, uploader string) ([]model.DatasetMetadata, error) {
	return s.Repo.List(ctx, uploader)
}

// Update validates the new field values and overwrites the record.
func (s *DatasetService) Update(ctx context.Context, actorID, id uint64, in DatasetInput) (model.DatasetMetadata, error) {
	existing, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return model.DatasetMetadata{}, err
	}
	d, err := s.validate(in)
	if err != nil {
		return model.DatasetMetadata{}, err
	}
	d.ID = id
	d.CreatedAt = existing.CreatedAt
	if err := s.Repo.Update(ctx, d); err != nil {
		return model.DatasetMetadata{}, err
	}
	emit(ctx, s.Publish, "dataset", queue.ActionUpdated, id, actorID)
	return d, nil
}

// Delete removes a dataset record, failing with ErrNotFound for a
// stale id.
func (s *DatasetService) Delete(ctx context.Context, actorID, id uint64) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	emit(ctx, s.Publish, "dataset", queue.ActionDeleted, id, actorID)
	return nil
}

// DatasetSummary is the read-only aggregate for the data dashboard.
type DatasetSummary struct {
	Total      int64                    `json:"total"`
	TotalRows  int64                    `json:"total_rows"`
	AvgRows    float64                  `json:"avg_rows"`
	ByUploader []repository.UploaderRow `json:"by_uploader"`
}

// Summary computes the current dataset aggregates.
func (s *DatasetService) Summary(ctx context.Context) (DatasetSummary, error) {
	count, totalRows, avgRows, err := s.Repo.Totals(ctx)
	if err != nil {
		return DatasetSummary{}, err
	}
	byUploader, err := s.Repo.UploaderSummary(ctx)
	if err != nil {
		return DatasetSummary{}, err
	}
	return DatasetSummary{
		Total:      count,
		TotalRows:  totalRows,
		AvgRows:    avgRows,
		ByUploader: byUploader,
	}, nil
}
