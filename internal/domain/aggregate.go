package domain

import (
	"math"
	"time"
)

// RiskLevel helps clients visualize the danger of an identifier.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"     // score > 70
	RiskModerate RiskLevel = "moderate" // 40 < score <= 70
	RiskDanger   RiskLevel = "danger"   // score <= 40
)

// DefaultSafetyScore is returned for identifiers nobody has reported.
// Deliberately below 100: absence of reports is not proof of safety.
const DefaultSafetyScore = 85

// Scoring constants. The decay is linear over 30 days with a floor at 0.5
// so old reports never become fully forgotten.
const (
	penaltyPerReport   = 15.0
	penaltyPerSeverity = 15.0
	decayWindowDays    = 30.0
	decayFloor         = 0.5
)

// Aggregate is the derived summary of an identifier's report list. It is
// always recomputed from the full list, never patched incrementally.
type Aggregate struct {
	ReportCount  int        `json:"report_count"`
	AvgSeverity  float64    `json:"avg_severity"`
	LastReported *time.Time `json:"last_reported,omitempty"`
	TotalAmount  float64    `json:"total_amount"`
	SafetyScore  int        `json:"safety_score"`
	RiskLevel    RiskLevel  `json:"risk_level"`
}

// DefaultAggregate is the zero-report aggregate.
func DefaultAggregate() Aggregate {
	return Aggregate{
		SafetyScore: DefaultSafetyScore,
		RiskLevel:   RiskSafe,
	}
}

// ComputeAggregate derives the aggregate metrics for a report list as of now.
// Pure function: no store access, no mutation of the input.
func ComputeAggregate(reports []*Report, now time.Time) Aggregate {
	if len(reports) == 0 {
		return DefaultAggregate()
	}

	var severitySum float64
	var totalAmount float64
	last := reports[0].CreatedAt
	for _, r := range reports {
		severitySum += float64(r.Severity)
		if r.Amount != nil {
			totalAmount += *r.Amount
		}
		if r.CreatedAt.After(last) {
			last = r.CreatedAt
		}
	}

	count := len(reports)
	avgSeverity := severitySum / float64(count)

	days := now.Sub(last).Hours() / 24
	recency := math.Max(decayFloor, 1-days/decayWindowDays)

	penalty := (float64(count)*penaltyPerReport + avgSeverity*penaltyPerSeverity) * recency
	score := clampScore(int(math.Round(100 - penalty)))

	return Aggregate{
		ReportCount:  count,
		AvgSeverity:  avgSeverity,
		LastReported: &last,
		TotalAmount:  totalAmount,
		SafetyScore:  score,
		RiskLevel:    RiskLevelForScore(score),
	}
}

// RiskLevelForScore maps a safety score to its risk bucket.
func RiskLevelForScore(score int) RiskLevel {
	switch {
	case score > 70:
		return RiskSafe
	case score > 40:
		return RiskModerate
	default:
		return RiskDanger
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// SeverityBucket classifies a single report by its own severity. This is a
// different axis than the aggregate RiskLevel: search filters use it.
type SeverityBucket string

const (
	BucketHigh   SeverityBucket = "high"   // severity 4-5
	BucketMedium SeverityBucket = "medium" // severity 3
	BucketLow    SeverityBucket = "low"    // severity 1-2
)

// ParseSeverityBucket validates a raw filter value.
func ParseSeverityBucket(raw string) (SeverityBucket, bool) {
	switch SeverityBucket(raw) {
	case BucketHigh, BucketMedium, BucketLow:
		return SeverityBucket(raw), true
	}
	return "", false
}

// BucketForSeverity maps a 1-5 severity to its bucket.
func BucketForSeverity(severity int) SeverityBucket {
	switch {
	case severity >= 4:
		return BucketHigh
	case severity == 3:
		return BucketMedium
	default:
		return BucketLow
	}
}
