package service

import (
	"context"
	"strings"
	"time"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/model"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/queue"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/repository"
)

// IncidentInput carries the caller-supplied fields for creating or
// updating a security incident.
type IncidentInput struct {
	Title      string
	Category   string
	Severity   string
	Status     string
	ReportedAt time.Time
	ResolvedAt *time.Time
}

// IncidentService validates inputs and computes the cybersecurity
// dashboard aggregates.  It holds no entity state between calls.
type IncidentService struct {
	Repo    *repository.IncidentRepo
	Publish PublishFunc
}

func NewIncidentService(repo *repository.IncidentRepo) *IncidentService {
	return &IncidentService{Repo: repo, Publish: queue.PublishEntityChanged}
}

func (s *IncidentService) validate(in IncidentInput) (model.SecurityIncident, error) {
	inc := model.SecurityIncident{
		Title:      strings.TrimSpace(in.Title),
		Category:   strings.TrimSpace(in.Category),
		Severity:   in.Severity,
		Status:     in.Status,
		ReportedAt: in.ReportedAt,
		ResolvedAt: in.ResolvedAt,
	}
	if inc.Title == "" {
		return model.SecurityIncident{}, invalid("title", "required")
	}
	if inc.Category == "" {
		return model.SecurityIncident{}, invalid("category", "required")
	}
	if !model.ValidSeverity(inc.Severity) {
		return model.SecurityIncident{}, invalid("severity", "must be low, medium, high or critical")
	}
	if inc.Status == "" {
		inc.Status = model.IncidentOpen
	}
	if !model.ValidIncidentStatus(inc.Status) {
		return model.SecurityIncident{}, invalid("status", "must be open, in_progress, resolved or closed")
	}
	if inc.ReportedAt.IsZero() {
		return model.SecurityIncident{}, invalid("reported_at", "required")
	}
	// resolved_at is set exactly when the status is terminal.
	if model.TerminalIncidentStatus(inc.Status) {
		if inc.ResolvedAt == nil {
			return model.SecurityIncident{}, invalid("resolved_at", "required for a resolved or closed incident")
		}
		if inc.ResolvedAt.Before(inc.ReportedAt) {
			return model.SecurityIncident{}, invalid("resolved_at", "must not precede reported_at")
		}
	} else if inc.ResolvedAt != nil {
		return model.SecurityIncident{}, invalid("resolved_at", "only allowed for a resolved or closed incident")
	}
	return inc, nil
}

// Create validates and stores a new incident.
func (s *IncidentService) Create(ctx context.Context, actorID uint64, in IncidentInput) (model.SecurityIncident, error) {
	inc, err := s.validate(in)
	if err != nil {
		return model.SecurityIncident{}, err
	}
	created, err := s.Repo.Create(ctx, inc)
	if err != nil {
		return model.SecurityIncident{}, err
	}
	emit(ctx, s.Publish, "incident", queue.ActionCreated, created.ID, actorID)
	return created, nil
}

// List returns incidents matching the filter, newest first.
func (s *IncidentService) List(ctx context.Context, f repository.IncidentFilter) ([]model.SecurityIncident, error) {
	return s.Repo.List(ctx, f)
}

// Update validates the new field values and overwrites the incident.
// The existence check and the write are two statements; a concurrent
// delete between them surfaces as ErrNotFound from the write.
func (s *IncidentService) Update(ctx context.Context, actorID, id uint64, in IncidentInput) (model.SecurityIncident, error) {
	if _, err := s.Repo.GetByID(ctx, id); err != nil {
		return model.SecurityIncident{}, err
	}
	inc, err := s.validate(in)
	if err != nil {
		return model.SecurityIncident{}, err
	}
	inc.ID = id
	if err := s.Repo.Update(ctx, inc); err != nil {
		return model.SecurityIncident{}, err
	}
	emit(ctx, s.Publish, "incident", queue.ActionUpdated, id, actorID)
	return inc, nil
}

// Delete removes an incident, failing with ErrNotFound for a stale id.
func (s *IncidentService) Delete(ctx context.Context, actorID, id uint64) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	emit(ctx, s.Publish, "incident", queue.ActionDeleted, id, actorID)
	return nil
}

// IncidentSummary is the read-only aggregate consumed by the dashboard
// and by the AI recommendation collaborator.
type IncidentSummary struct {
	Total      int64                 `json:"total"`
	Open       int64                 `json:"open"`
	ByCategory []repository.CountRow `json:"by_category"`
	BySeverity []repository.CountRow `json:"by_severity"`
	ByStatus   []repository.CountRow `json:"by_status"`
}

// Summary computes the current incident aggregates.
func (s *IncidentService) Summary(ctx context.Context) (IncidentSummary, error) {
	var (
		sum IncidentSummary
		err error
	)
	if sum.Total, err = s.Repo.TotalCount(ctx); err != nil {
		return IncidentSummary{}, err
	}
	if sum.Open, err = s.Repo.OpenCount(ctx); err != nil {
		return IncidentSummary{}, err
	}
	if sum.ByCategory, err = s.Repo.CountsByCategory(ctx); err != nil {
		return IncidentSummary{}, err
	}
	if sum.BySeverity, err = s.Repo.CountsBySeverity(ctx); err != nil {
		return IncidentSummary{}, err
	}
	if sum.ByStatus, err = s.Repo.CountsByStatus(ctx); err != nil {
		return IncidentSummary{}, err
	}
	return sum, nil
}
