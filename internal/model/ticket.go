package model

import "time"

// Ticket workflow states.  Unlike incidents there is no separate
// closed state; resolved is the only terminal status.
const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
)

// ValidTicketStatus reports whether s is a declared ticket status.
func ValidTicketStatus(s string) bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved:
		return true
	}
	return false
}

// ValidPriority reports whether p is a declared ticket priority.
// Priorities share the ordered severity scale.
func ValidPriority(p string) bool {
	return ValidSeverity(p)
}

// ITTicket mirrors a row in the `tickets` table.  Resolution duration is
// always derived as ResolvedAt - CreatedAt; it is never stored.
//
// Fields:
//  ID         – primary key identifier.
//  Title      – short description of the issue.
//  Priority   – one of low, medium, high, critical.
//  Status     – one of open, in_progress, resolved.
//  Assignee   – staff member responsible for the ticket.
//  CreatedAt  – when the ticket was opened.
//  ResolvedAt – when the ticket was resolved (nullable, >= CreatedAt).
type ITTicket struct {
	ID         uint64     // tickets.id
	Title      string     // tickets.title
	Priority   string     // tickets.priority
	Status     string     // tickets.status
	Assignee   string     // tickets.assignee
	CreatedAt  time.Time  // tickets.created_at
	ResolvedAt *time.Time // tickets.resolved_at (nullable)
}

// ResolutionDuration returns the ticket's resolution time when it is
// derivable, i.e. ResolvedAt is present and not before CreatedAt.
func (t ITTicket) ResolutionDuration() (time.Duration, bool) {
	if t.ResolvedAt == nil || t.ResolvedAt.Before(t.CreatedAt) {
		return 0, false
	}
	return t.ResolvedAt.Sub(t.CreatedAt), true
}
