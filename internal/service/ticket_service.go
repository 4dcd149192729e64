package service

import (
	"context"
	"strings"
	"time"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/model"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/queue"
	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/repository"
)

// TicketInput carries the caller-supplied fields for creating or
// updating an IT support ticket.
type TicketInput struct {
	Title      string
	Priority   string
	Status     string
	Assignee   string
	CreatedAt  time.Time
	ResolvedAt *time.Time
}

// TicketService validates inputs and computes the IT operations
// dashboard aggregates, including resolution-time rankings.
type TicketService struct {
	Repo    *repository.TicketRepo
	Publish PublishFunc
}

func NewTicketService(repo *repository.TicketRepo) *TicketService {
	return &TicketService{Repo: repo, Publish: queue.PublishEntityChanged}
}

func (s *TicketService) validate(in TicketInput) (model.ITTicket, error) {
	t := model.ITTicket{
		Title:      strings.TrimSpace(in.Title),
		Priority:   in.Priority,
		Status:     in.Status,
		Assignee:   strings.TrimSpace(in.Assignee),
		CreatedAt:  in.CreatedAt,
		ResolvedAt: in.ResolvedAt,
	}
	if t.Title == "" {
		return model.ITTicket{}, invalid("title", "required")
	}
	if !model.ValidPriority(t.Priority) {
		return model.ITTicket{}, invalid("priority", "must be low, medium, high or critical")
	}
	if t.Status == "" {
		t.Status = model.TicketOpen
	}
	if !model.ValidTicketStatus(t.Status) {
		return model.ITTicket{}, invalid("status", "must be open, in_progress or resolved")
	}
	if t.Assignee == "" {
		return model.ITTicket{}, invalid("assignee", "required")
	}
	if t.CreatedAt.IsZero() {
		return model.ITTicket{}, invalid("created_at", "required")
	}
	// A resolution duration is derivable only when resolved_at exists
	// and does not precede created_at.
	if t.Status == model.TicketResolved {
		if t.ResolvedAt == nil {
			return model.ITTicket{}, invalid("resolved_at", "required for a resolved ticket")
		}
		if t.ResolvedAt.Before(t.CreatedAt) {
			return model.ITTicket{}, invalid("resolved_at", "must not precede created_at")
		}
	} else if t.ResolvedAt != nil {
		return model.ITTicket{}, invalid("resolved_at", "only allowed for a resolved ticket")
	}
	return t, nil
}

// Create validates and stores a new ticket.
func (s *TicketService) Create(ctx context.Context, actorID uint64, in TicketInput) (model.ITTicket, error) {
	t, err := s.validate(in)
	if err != nil {
		return model.ITTicket{}, err
	}
	created, err := s.Repo.Create(ctx, t)
	if err != nil {
		return model.ITTicket{}, err
	}
	emit(ctx, s.Publish, "ticket", queue.ActionCreated, created.ID, actorID)
	return created, nil
}

// List returns tickets matching the filter, newest first.
func (s *TicketService) List(ctx context.Context, f repository.TicketFilter) ([]model.ITTicket, error) {
	return s.Repo.List(ctx, f)
}

// Update validates the new field values and overwrites the ticket.
func (s *TicketService) Update(ctx context.Context, actorID, id uint64, in TicketInput) (model.ITTicket, error) {
	if _, err := s.Repo.GetByID(ctx, id); err != nil {
		return model.ITTicket{}, err
	}
	t, err := s.validate(in)
	if err != nil {
		return model.ITTicket{}, err
	}
	t.ID = id
	if err := s.Repo.Update(ctx, t); err != nil {
		return model.ITTicket{}, err
	}
	emit(ctx, s.Publish, "ticket", queue.ActionUpdated, id, actorID)
	return t, nil
}

// Delete removes a ticket, failing with ErrNotFound for a stale id.
func (s *TicketService) Delete(ctx context.Context, actorID, id uint64) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	emit(ctx, s.Publish, "ticket", queue.ActionDeleted, id, actorID)
	return nil
}

// AssigneePerformance names an assignee and their average resolution
// time over resolved tickets.
type AssigneePerformance struct {
	Assignee      string        `json:"assignee"`
	AvgResolution time.Duration `json:"avg_resolution_ns"`
}

// TicketSummary is the read-only aggregate for the operations
// dashboard.  AvgResolution covers resolved tickets only; HasResolved
// is false when no ticket has a resolved timestamp yet, in which case
// AvgResolution and the rankings carry zero values.
type TicketSummary struct {
	Total         int64                    `json:"total"`
	ByStatus      []repository.CountRow    `json:"by_status"`
	ByPriority    []repository.CountRow    `json:"by_priority"`
	HasResolved   bool                     `json:"has_resolved"`
	AvgResolution time.Duration            `json:"avg_resolution_ns"`
	ByAssignee    []repository.AssigneeRow `json:"by_assignee"`
	Fastest       *AssigneePerformance     `json:"fastest,omitempty"`
	Slowest       *AssigneePerformance     `json:"slowest,omitempty"`
}

// Summary computes the current ticket aggregates.  Fastest is the
// assignee with the minimum average resolution time and Slowest the
// maximum; assignees with no resolved tickets are excluded from the
// ranking and ties keep the alphabetically first name.
func (s *TicketService) Summary(ctx context.Context) (TicketSummary, error) {
	var (
		sum TicketSummary
		err error
	)
	if sum.Total, err = s.Repo.TotalCount(ctx); err != nil {
		return TicketSummary{}, err
	}
	if sum.ByStatus, err = s.Repo.CountsByStatus(ctx); err != nil {
		return TicketSummary{}, err
	}
	if sum.ByPriority, err = s.Repo.CountsByPriority(ctx); err != nil {
		return TicketSummary{}, err
	}
	avgSeconds, ok, err := s.Repo.AvgResolutionSeconds(ctx)
	if err != nil {
		return TicketSummary{}, err
	}
	sum.HasResolved = ok
	if ok {
		sum.AvgResolution = secondsToDuration(avgSeconds)
	}
	if sum.ByAssignee, err = s.Repo.AssigneeStats(ctx); err != nil {
		return TicketSummary{}, err
	}
	sum.Fastest, sum.Slowest = rankAssignees(sum.ByAssignee)
	return sum, nil
}

// rankAssignees scans rows (already ordered by assignee name ascending)
// for the minimum and maximum average resolution.  Strict comparisons
// keep the first name seen on a tie.
func rankAssignees(rows []repository.AssigneeRow) (fastest, slowest *AssigneePerformance) {
	for _, row := range rows {
		if row.Resolved == 0 {
			continue
		}
		perf := AssigneePerformance{
			Assignee:      row.Assignee,
			AvgResolution: secondsToDuration(row.AvgSeconds),
		}
		if fastest == nil || perf.AvgResolution < fastest.AvgResolution {
			p := perf
			fastest = &p
		}
		if slowest == nil || perf.AvgResolution > slowest.AvgResolution {
			p := perf
			slowest = &p
		}
	}
	return fastest, slowest
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
