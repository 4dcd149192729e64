package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/model"
)

// TicketRepo owns all SQL touching the `tickets` table.  Resolution
// durations are computed in SQL from resolved_at - created_at; only
// tickets with a resolved timestamp contribute to averages.
type TicketRepo struct{ DB *sql.DB }

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

const ticketColumns = "id, title, priority, status, assignee, created_at, resolved_at"

func scanTicket(row interface{ Scan(...any) error }) (model.ITTicket, error) {
	var (
		t        model.ITTicket
		resolved sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Priority, &t.Status, &t.Assignee,
		&t.CreatedAt, &resolved); err != nil {
		return model.ITTicket{}, err
	}
	if resolved.Valid {
		ts := resolved.Time
		t.ResolvedAt = &ts
	}
	return t, nil
}

// Create inserts a ticket and returns the stored record.
func (r *TicketRepo) Create(ctx context.Context, t model.ITTicket) (model.ITTicket, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tickets (title, priority, status, assignee, created_at, resolved_at) VALUES (?,?,?,?,?,?)",
		t.Title, t.Priority, t.Status, t.Assignee, t.CreatedAt, t.ResolvedAt)
	if err != nil {
		return model.ITTicket{}, wrapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ITTicket{}, wrapErr(err)
	}
	t.ID = uint64(id)
	return t, nil
}

// GetByID fetches one ticket.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (model.ITTicket, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE id=? LIMIT 1", id)
	t, err := scanTicket(row)
	if err != nil {
		return model.ITTicket{}, wrapErr(err)
	}
	return t, nil
}

// TicketFilter narrows List results.  Empty fields are ignored.
type TicketFilter struct {
	Status   string
	Priority string
	Assignee string
}

// List returns tickets newest first, optionally filtered.
func (r *TicketRepo) List(ctx context.Context, f TicketFilter) ([]model.ITTicket, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if f.Status != "" {
		clauses = append(clauses, "status=?")
		args = append(args, f.Status)
	}
	if f.Priority != "" {
		clauses = append(clauses, "priority=?")
		args = append(args, f.Priority)
	}
	if f.Assignee != "" {
		clauses = append(clauses, "assignee=?")
		args = append(args, f.Assignee)
	}
	query := "SELECT " + ticketColumns + " FROM tickets WHERE " +
		strings.Join(clauses, " AND ") + " ORDER BY created_at DESC"
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()
	var out []model.ITTicket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, wrapErr(err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}

// Update overwrites all mutable fields of a ticket.
func (r *TicketRepo) Update(ctx context.Context, t model.ITTicket) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE tickets SET title=?, priority=?, status=?, assignee=?, created_at=?, resolved_at=? WHERE id=?",
		t.Title, t.Priority, t.Status, t.Assignee, t.CreatedAt, t.ResolvedAt, t.ID)
	if err != nil {
		return wrapErr(err)
	}
	return requireRow(res)
}

// Delete removes a ticket by id.
func (r *TicketRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM tickets WHERE id=?", id)
	if err != nil {
		return wrapErr(err)
	}
	return requireRow(res)
}

// TotalCount returns the number of tickets on record.
func (r *TicketRepo) TotalCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM tickets").Scan(&n)
	return n, wrapErr(err)
}

// CountsByStatus groups ticket counts by status.
func (r *TicketRepo) CountsByStatus(ctx context.Context) ([]CountRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM tickets GROUP BY status ORDER BY status")
	if err != nil {
		return nil, wrapErr(err)
	}
	return scanCounts(rows)
}

// CountsByPriority groups ticket counts by priority.
func (r *TicketRepo) CountsByPriority(ctx context.Context) ([]CountRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT priority, COUNT(*) FROM tickets GROUP BY priority ORDER BY priority")
	if err != nil {
		return nil, wrapErr(err)
	}
	return scanCounts(rows)
}

// AvgResolutionSeconds averages resolved_at - created_at over resolved
// tickets only.  ok is false when no ticket has been resolved yet.
func (r *TicketRepo) AvgResolutionSeconds(ctx context.Context) (avg float64, ok bool, err error) {
	var v sql.NullFloat64
	err = r.DB.QueryRowContext(ctx,
		"SELECT AVG(TIMESTAMPDIFF(SECOND, created_at, resolved_at)) FROM tickets WHERE resolved_at IS NOT NULL").
		Scan(&v)
	if err != nil {
		return 0, false, wrapErr(err)
	}
	return v.Float64, v.Valid, nil
}

// AssigneeRow aggregates per-assignee workload and performance.
// AvgSeconds is meaningful only when Resolved > 0.
type AssigneeRow struct {
	Assignee   string  `json:"assignee"`
	Tickets    int64   `json:"tickets"`
	Resolved   int64   `json:"resolved"`
	AvgSeconds float64 `json:"avg_resolution_seconds"`
}

// AssigneeStats returns one row per assignee ordered by name ascending.
// The deterministic order is what gives aggregate ranking its stable
// tie-break: callers scanning for min/max keep the first name seen.
func (r *TicketRepo) AssigneeStats(ctx context.Context) ([]AssigneeRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT assignee,
		        COUNT(*),
		        COUNT(resolved_at),
		        COALESCE(AVG(TIMESTAMPDIFF(SECOND, created_at, resolved_at)), 0)
		 FROM tickets GROUP BY assignee ORDER BY assignee ASC`)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()
	var out []AssigneeRow
	for rows.Next() {
		var a AssigneeRow
		if err := rows.Scan(&a.Assignee, &a.Tickets, &a.Resolved, &a.AvgSeconds); err != nil {
			return nil, wrapErr(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}
