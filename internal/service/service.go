package service

import (
	"context"

	"github.com/upisafe/fraud-registry/internal/domain"
)

// ReportPayload is the submission input after the transport layer has
// decoded it. Category may still be a UI synonym; it is normalized here.
type ReportPayload struct {
	Description string
	Category    string
	Severity    int
	Amount      *float64
	ReportedBy  string
}

// ReportEntry is a report denormalized for listings: the stored report plus
// the identifier's kind and human-readable form.
type ReportEntry struct {
	domain.Report
	IdentifierKind    domain.IdentifierKind `json:"identifier_type"`
	DisplayIdentifier string                `json:"display_identifier"`
}

// CategoryStats accumulates per-category totals.
type CategoryStats struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// Statistics is the dashboard summary across the whole registry.
type Statistics struct {
	TotalIdentifiers  int                              `json:"total_identifiers"`
	TotalReports      int                              `json:"total_reports"`
	TotalAmount       float64                          `json:"total_amount"`
	HighRiskCount     int                              `json:"high_risk_count"`
	ModerateRiskCount int                              `json:"moderate_risk_count"`
	LowRiskCount      int                              `json:"low_risk_count"`
	Categories        map[domain.Category]CategoryStats `json:"categories"`
}

// Service is the fraud-report engine consumed by the HTTP layer and the
// worker. All identifier inputs are raw user strings; normalization happens
// once at this boundary.
type Service interface {
	// CheckSafety returns the aggregate for a raw identifier. Identifiers
	// nobody has reported, and store outages, both yield the default safe
	// aggregate: the check flow must never fail the caller.
	CheckSafety(ctx context.Context, rawIdentifier string) (domain.Aggregate, error)

	// SubmitReport validates and appends one report, returning the stored
	// form. Validation failures and store outages are surfaced as typed
	// errors before/instead of partial writes.
	SubmitReport(ctx context.Context, rawIdentifier string, payload ReportPayload) (*domain.Report, error)

	// ListRecentReports returns up to limit reports across all
	// identifiers, newest first.
	ListRecentReports(ctx context.Context, limit int) ([]ReportEntry, error)

	// SearchReports filters reports by substring query, category and
	// per-report severity bucket. All supplied filters are ANDed.
	SearchReports(ctx context.Context, query, category, severityBucket string) ([]ReportEntry, error)

	// GetStatistics summarizes the whole registry.
	GetStatistics(ctx context.Context) (Statistics, error)
}
