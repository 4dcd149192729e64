package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ShrayOps/Multi-Domain-Intelligence-Platform/internal/model"
)

// IncidentRepo owns all SQL touching the `incidents` table.
type IncidentRepo struct{ DB *sql.DB }

func NewIncidentRepo(db *sql.DB) *IncidentRepo { return &IncidentRepo{DB: db} }

const incidentColumns = "id, title, category, severity, status, reported_at, resolved_at"

func scanIncident(row interface{ Scan(...any) error }) (model.SecurityIncident, error) {
	var (
		inc      model.SecurityIncident
		resolved sql.NullTime
	)
	if err := row.Scan(&inc.ID, &inc.Title, &inc.Category, &inc.Severity,
		&inc.Status, &inc.ReportedAt, &resolved); err != nil {
		return model.SecurityIncident{}, err
	}
	if resolved.Valid {
		t := resolved.Time
		inc.ResolvedAt = &t
	}
	return inc, nil
}

// Create inserts an incident and returns the stored record.
func (r *IncidentRepo) Create(ctx context.Context, inc model.SecurityIncident) (model.SecurityIncident, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO incidents (title, category, severity, status, reported_at, resolved_at) VALUES (?,?,?,?,?,?)",
		inc.Title, inc.Category, inc.Severity, inc.Status, inc.ReportedAt, inc.ResolvedAt)
	if err != nil {
		return model.SecurityIncident{}, wrapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.SecurityIncident{}, wrapErr(err)
	}
	inc.ID = uint64(id)
	return inc, nil
}

// GetByID fetches one incident.
func (r *IncidentRepo) GetByID(ctx context.Context, id uint64) (model.SecurityIncident, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+incidentColumns+" FROM incidents WHERE id=? LIMIT 1", id)
	inc, err := scanIncident(row)
	if err != nil {
		return model.SecurityIncident{}, wrapErr(err)
	}
	return inc, nil
}

// IncidentFilter narrows List results.  Empty fields are ignored.
type IncidentFilter struct {
	Category string
	Severity string
	Status   string
}

// List returns incidents newest first, optionally filtered.
func (r *IncidentRepo) List(ctx context.Context, f IncidentFilter) ([]model.SecurityIncident, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if f.Category != "" {
		clauses = append(clauses, "category=?")
		args = append(args, f.Category)
	}
	if f.Severity != "" {
		clauses = append(clauses, "severity=?")
		args = append(args, f.Severity)
	}
	if f.Status != "" {
		clauses = append(clauses, "status=?")
		args = append(args, f.Status)
	}
	query := "SELECT " + incidentColumns + " FROM incidents WHERE " +
		strings.Join(clauses, " AND ") + " ORDER BY reported_at DESC"
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(err)
	}
	defer rows.Close()
	var out []model.SecurityIncident
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, wrapErr(err)
		}
		out = append(out, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}

// Update overwrites all mutable fields of an incident.
func (r *IncidentRepo) Update(ctx context.Context, inc model.SecurityIncident) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE incidents SET title=?, category=?, severity=?, status=?, reported_at=?, resolved_at=? WHERE id=?",
		inc.Title, inc.Category, inc.Severity, inc.Status, inc.ReportedAt, inc.ResolvedAt, inc.ID)
	if err != nil {
		return wrapErr(err)
	}
	return requireRow(res)
}

// Delete removes an incident by id.
func (r *IncidentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM incidents WHERE id=?", id)
	if err != nil {
		return wrapErr(err)
	}
	return requireRow(res)
}

// TotalCount returns the number of incidents on record.
func (r *IncidentRepo) TotalCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM incidents").Scan(&n)
	return n, wrapErr(err)
}

// OpenCount returns the number of incidents in a non-terminal status.
func (r *IncidentRepo) OpenCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM incidents WHERE status IN ('open','in_progress')").Scan(&n)
	return n, wrapErr(err)
}

// CountsByCategory groups incident counts by category.
func (r *IncidentRepo) CountsByCategory(ctx context.Context) ([]CountRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT category, COUNT(*) FROM incidents GROUP BY category ORDER BY category")
	if err != nil {
		return nil, wrapErr(err)
	}
	return scanCounts(rows)
}

// CountsBySeverity groups incident counts by severity.
func (r *IncidentRepo) CountsBySeverity(ctx context.Context) ([]CountRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT severity, COUNT(*) FROM incidents GROUP BY severity ORDER BY severity")
	if err != nil {
		return nil, wrapErr(err)
	}
	return scanCounts(rows)
}

// CountsByStatus groups incident counts by status.
func (r *IncidentRepo) CountsByStatus(ctx context.Context) ([]CountRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM incidents GROUP BY status ORDER BY status")
	if err != nil {
		return nil, wrapErr(err)
	}
	return scanCounts(rows)
}
