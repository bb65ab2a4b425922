package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upisafe/fraud-registry/internal/domain"
)

func makeReport(t *testing.T, severity int, amount *float64, age time.Duration, now time.Time) *domain.Report {
	t.Helper()
	r := domain.NewReport("fraud@paytm", "", "Asked for OTP and drained the account", severity, domain.CategoryPaymentFraud, amount)
	r.CreatedAt = now.Add(-age)
	return r
}

func amt(v float64) *float64 { return &v }

func TestComputeAggregate(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		Name          string
		Reports       []*domain.Report
		ExpectedScore int
		ExpectedLevel domain.RiskLevel
		ExpectedTotal float64
	}{
		{
			Name:          "no reports yields the default safe aggregate",
			Reports:       nil,
			ExpectedScore: 85,
			ExpectedLevel: domain.RiskSafe,
		},
		{
			Name: "one severe recent report dominates the score",
			Reports: []*domain.Report{
				makeReport(t, 5, amt(15000), 24*time.Hour, now),
			},
			ExpectedScore: 13, // (15 + 75) * (1 - 1/30) = 87 penalty
			ExpectedLevel: domain.RiskDanger,
			ExpectedTotal: 15000,
		},
		{
			Name: "old reports keep half their weight",
			Reports: []*domain.Report{
				makeReport(t, 2, nil, 40*24*time.Hour, now),
				makeReport(t, 3, nil, 40*24*time.Hour, now),
			},
			ExpectedScore: 66, // (30 + 37.5) * 0.5 = 33.75 penalty
			ExpectedLevel: domain.RiskModerate,
		},
		{
			Name: "many reports clamp at zero",
			Reports: []*domain.Report{
				makeReport(t, 5, nil, 0, now),
				makeReport(t, 5, nil, 0, now),
				makeReport(t, 5, nil, 0, now),
				makeReport(t, 5, nil, 0, now),
				makeReport(t, 5, nil, 0, now),
			},
			ExpectedScore: 0,
			ExpectedLevel: domain.RiskDanger,
		},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			agg := domain.ComputeAggregate(tc.Reports, now)

			assert.Equal(t, tc.ExpectedScore, agg.SafetyScore)
			assert.Equal(t, tc.ExpectedLevel, agg.RiskLevel)
			assert.Equal(t, len(tc.Reports), agg.ReportCount)
			assert.InDelta(t, tc.ExpectedTotal, agg.TotalAmount, 0.001)

			if len(tc.Reports) == 0 {
				assert.Nil(t, agg.LastReported)
			} else {
				require.NotNil(t, agg.LastReported)
			}
		})
	}
}

func TestComputeAggregateTracksLatestReport(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	old := makeReport(t, 2, nil, 60*24*time.Hour, now)
	recent := makeReport(t, 3, nil, 2*time.Hour, now)

	agg := domain.ComputeAggregate([]*domain.Report{old, recent}, now)

	require.NotNil(t, agg.LastReported)
	assert.True(t, agg.LastReported.Equal(recent.CreatedAt))
	assert.InDelta(t, 2.5, agg.AvgSeverity, 0.001)
}

func TestScoreBoundsOverReportGrid(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	for count := 0; count <= 12; count++ {
		for severity := domain.MinSeverity; severity <= domain.MaxSeverity; severity++ {
			for _, age := range []time.Duration{0, 10 * 24 * time.Hour, 90 * 24 * time.Hour} {
				var reports []*domain.Report
				for i := 0; i < count; i++ {
					reports = append(reports, makeReport(t, severity, nil, age, now))
				}

				agg := domain.ComputeAggregate(reports, now)
				assert.GreaterOrEqual(t, agg.SafetyScore, 0)
				assert.LessOrEqual(t, agg.SafetyScore, 100)
				assert.Equal(t, domain.RiskLevelForScore(agg.SafetyScore), agg.RiskLevel)
			}
		}
	}
}

func TestRiskLevelForScore(t *testing.T) {
	assert.Equal(t, domain.RiskSafe, domain.RiskLevelForScore(100))
	assert.Equal(t, domain.RiskSafe, domain.RiskLevelForScore(71))
	assert.Equal(t, domain.RiskModerate, domain.RiskLevelForScore(70))
	assert.Equal(t, domain.RiskModerate, domain.RiskLevelForScore(41))
	assert.Equal(t, domain.RiskDanger, domain.RiskLevelForScore(40))
	assert.Equal(t, domain.RiskDanger, domain.RiskLevelForScore(0))
}

func TestBucketForSeverity(t *testing.T) {
	assert.Equal(t, domain.BucketLow, domain.BucketForSeverity(1))
	assert.Equal(t, domain.BucketLow, domain.BucketForSeverity(2))
	assert.Equal(t, domain.BucketMedium, domain.BucketForSeverity(3))
	assert.Equal(t, domain.BucketHigh, domain.BucketForSeverity(4))
	assert.Equal(t, domain.BucketHigh, domain.BucketForSeverity(5))
}
