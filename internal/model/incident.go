package model

import "time"

// Severity levels for security incidents, ordered from least to most
// impactful.  The same scale is reused for ticket priorities.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Incident workflow states.  resolved and closed are terminal.
const (
	IncidentOpen       = "open"
	IncidentInProgress = "in_progress"
	IncidentResolved   = "resolved"
	IncidentClosed     = "closed"
)

// ValidSeverity reports whether s belongs to the severity scale.
func ValidSeverity(s string) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// ValidIncidentStatus reports whether s is a declared incident status.
func ValidIncidentStatus(s string) bool {
	switch s {
	case IncidentOpen, IncidentInProgress, IncidentResolved, IncidentClosed:
		return true
	}
	return false
}

// TerminalIncidentStatus reports whether s ends the incident lifecycle.
// ResolvedAt must be set exactly when the status is terminal.
func TerminalIncidentStatus(s string) bool {
	return s == IncidentResolved || s == IncidentClosed
}

// SecurityIncident mirrors a row in the `incidents` table.  Category is
// an open set of strings (phishing, malware, ddos, ...); severity and
// status are restricted to the constants above.
//
// Fields:
//  ID         – primary key identifier.
//  Title      – short incident summary.
//  Category   – incident type, free-form but required.
//  Severity   – one of low, medium, high, critical.
//  Status     – one of open, in_progress, resolved, closed.
//  ReportedAt – when the incident occurred or was reported.
//  ResolvedAt – when the incident reached a terminal status (nullable).
type SecurityIncident struct {
	ID         uint64     // incidents.id
	Title      string     // incidents.title
	Category   string     // incidents.category
	Severity   string     // incidents.severity
	Status     string     // incidents.status
	ReportedAt time.Time  // incidents.reported_at
	ResolvedAt *time.Time // incidents.resolved_at (nullable)
}
