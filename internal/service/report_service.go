package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/upisafe/fraud-registry/internal/domain"
	"github.com/upisafe/fraud-registry/pkg/logger"
)

const defaultRecentLimit = 20

// registryService is the concrete implementation of the Service interface.
// It is unexported to force usage of the interface.
type registryService struct {
	store Store
	log   *logger.Logger
	now   func() time.Time

	// keyLocks serializes the read-modify-write append per identifier.
	// Appends to different identifiers stay independent.
	mu       sync.Mutex
	keyLocks map[string]*sync.Mutex
}

// NewRegistryService is the constructor for the fraud-report engine.
func NewRegistryService(store Store, log *logger.Logger) Service {
	return &registryService{
		store:    store,
		log:      log.WithComponent("registry"),
		now:      time.Now,
		keyLocks: make(map[string]*sync.Mutex),
	}
}

func (s *registryService) lockKey(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.keyLocks[key]
	if !ok {
		l = &sync.Mutex{}
		s.keyLocks[key] = l
	}
	return l
}

func (s *registryService) CheckSafety(ctx context.Context, rawIdentifier string) (domain.Aggregate, error) {
	id, err := domain.NormalizeIdentifier(rawIdentifier)
	if err != nil {
		return domain.Aggregate{}, err
	}

	rec, err := s.store.Get(ctx, id.Key())
	if err != nil {
		// Reads degrade to the safe default: a transient outage must
		// not flag everything as dangerous or block the check flow.
		s.log.Warn().Err(err).Str("identifier", id.Key()).Msg("store read failed, serving default aggregate")
		return domain.DefaultAggregate(), nil
	}
	if rec == nil {
		return domain.DefaultAggregate(), nil
	}

	return domain.ComputeAggregate(rec.Reports, s.now()), nil
}

func (s *registryService) SubmitReport(ctx context.Context, rawIdentifier string, payload ReportPayload) (*domain.Report, error) {
	category, err := validatePayload(payload)
	if err != nil {
		return nil, err
	}

	id, normErr := domain.NormalizeIdentifier(rawIdentifier)
	if normErr != nil {
		return nil, normErr
	}
	key := id.Key()

	// Get-append-Put must not interleave for one identifier, or a
	// concurrent append overwrites the other's report.
	lock := s.lockKey(key)
	lock.Lock()
	defer lock.Unlock()

	rec, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if rec == nil {
		rec = &Record{}
	}

	report := domain.NewReport(key, payload.ReportedBy, payload.Description, payload.Severity, category, payload.Amount)
	rec.Reports = append(rec.Reports, report)
	rec.Aggregate = domain.ComputeAggregate(rec.Reports, s.now())
	rec.UpdatedAt = s.now()

	if err := s.store.Put(ctx, key, rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.log.Info().
		Str("identifier", key).
		Str("category", string(category)).
		Int("severity", report.Severity).
		Int("report_count", rec.Aggregate.ReportCount).
		Int("safety_score", rec.Aggregate.SafetyScore).
		Msg("report recorded")

	return report, nil
}

func (s *registryService) ListRecentReports(ctx context.Context, limit int) ([]ReportEntry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	entries, err := s.allEntries(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *registryService) SearchReports(ctx context.Context, query, category, severityBucket string) ([]ReportEntry, error) {
	var categoryFilter domain.Category
	if category != "" {
		c, ok := domain.NormalizeCategory(category)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidFilter, category)
		}
		categoryFilter = c
	}

	var bucketFilter domain.SeverityBucket
	if severityBucket != "" {
		b, ok := domain.ParseSeverityBucket(severityBucket)
		if !ok {
			return nil, fmt.Errorf("%w: unknown risk bucket %q", ErrInvalidFilter, severityBucket)
		}
		bucketFilter = b
	}

	entries, err := s.allEntries(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	matched := entries[:0]
	for _, e := range entries {
		if needle != "" &&
			!strings.Contains(strings.ToLower(e.Description), needle) &&
			!strings.Contains(strings.ToLower(e.DisplayIdentifier), needle) {
			continue
		}
		if categoryFilter != "" && e.Category != categoryFilter {
			continue
		}
		if bucketFilter != "" && domain.BucketForSeverity(e.Severity) != bucketFilter {
			continue
		}
		matched = append(matched, e)
	}
	return matched, nil
}

func (s *registryService) GetStatistics(ctx context.Context) (Statistics, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return Statistics{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	stats := Statistics{
		Categories: make(map[domain.Category]CategoryStats),
	}
	now := s.now()

	for _, kr := range records {
		if len(kr.Record.Reports) == 0 {
			continue
		}
		stats.TotalIdentifiers++

		// Risk buckets come from a fresh recompute, never from the
		// cached aggregate fields, so concurrent writers cannot leave
		// stale counts behind.
		agg := domain.ComputeAggregate(kr.Record.Reports, now)
		switch agg.RiskLevel {
		case domain.RiskDanger:
			stats.HighRiskCount++
		case domain.RiskModerate:
			stats.ModerateRiskCount++
		default:
			stats.LowRiskCount++
		}

		for _, r := range kr.Record.Reports {
			stats.TotalReports++
			cs := stats.Categories[r.Category]
			cs.Count++
			if r.Amount != nil {
				cs.Amount += *r.Amount
				stats.TotalAmount += *r.Amount
			}
			stats.Categories[r.Category] = cs
		}
	}

	return stats, nil
}

// allEntries flattens every stored report into display form, newest first.
func (s *registryService) allEntries(ctx context.Context) ([]ReportEntry, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var entries []ReportEntry
	for _, kr := range records {
		id := domain.ParseKey(kr.Key)
		display := id.Display()
		for _, r := range kr.Record.Reports {
			entries = append(entries, ReportEntry{
				Report:            *r,
				IdentifierKind:    id.Kind,
				DisplayIdentifier: display,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID.String() < entries[j].ID.String()
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// validatePayload enforces the engine-level invariants. Description length
// and other UX rules belong to the transport layer.
func validatePayload(p ReportPayload) (domain.Category, error) {
	if strings.TrimSpace(p.Description) == "" {
		return "", fmt.Errorf("%w: description is required", ErrMalformedReport)
	}
	if p.Severity < domain.MinSeverity || p.Severity > domain.MaxSeverity {
		return "", fmt.Errorf("%w: severity must be between %d and %d", ErrMalformedReport, domain.MinSeverity, domain.MaxSeverity)
	}
	if p.Amount != nil && *p.Amount < 0 {
		return "", fmt.Errorf("%w: amount cannot be negative", ErrMalformedReport)
	}
	category, ok := domain.NormalizeCategory(p.Category)
	if !ok {
		return "", fmt.Errorf("%w: unknown category %q", ErrMalformedReport, p.Category)
	}
	return category, nil
}
