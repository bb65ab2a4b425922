// Package scylla provides the ScyllaDB Store backend, the "remote"
// deployment variant shared by the API and the worker.
//
// Schema:
//
//	CREATE TABLE reports (
//	    identifier text, id uuid, reported_by text, description text,
//	    amount double, has_amount boolean, severity int, category text,
//	    created_at timestamp, verified boolean,
//	    PRIMARY KEY (identifier, created_at, id)
//	);
//	CREATE TABLE aggregates (
//	    identifier text PRIMARY KEY, report_count int, avg_severity double,
//	    last_reported timestamp, total_amount double, safety_score int,
//	    risk_level text, updated_at timestamp
//	);
package scylla

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"github.com/upisafe/fraud-registry/internal/domain"
	"github.com/upisafe/fraud-registry/internal/service"
)

type scyllaStore struct {
	session *gocql.Session
}

func NewStore(session *gocql.Session) service.Store {
	return &scyllaStore{
		session: session,
	}
}

func Connect(keyspace string, hosts ...string) (*gocql.Session, error) {
	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.Quorum
	cluster.ProtoVersion = 4
	cluster.Timeout = 5 * time.Second
	cluster.ConnectTimeout = 5 * time.Second

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to scylla: %w", err)
	}

	return session, nil
}

func (s *scyllaStore) Get(ctx context.Context, key string) (*service.Record, error) {
	reports, err := s.fetchReports(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return nil, nil
	}

	rec := &service.Record{Reports: reports}
	if err := s.fetchAggregate(ctx, key, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Put inserts every report in the record and refreshes the cached aggregate
// row. Report rows are keyed by (identifier, created_at, id), so re-inserting
// ones already present is an idempotent upsert.
func (s *scyllaStore) Put(ctx context.Context, key string, rec *service.Record) error {
	insert := `
        INSERT INTO reports (identifier, id, reported_by, description, amount, has_amount, severity, category, created_at, verified)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for _, r := range rec.Reports {
		var amount float64
		hasAmount := r.Amount != nil
		if hasAmount {
			amount = *r.Amount
		}

		err := s.session.Query(insert,
			key,
			r.ID.String(),
			r.ReportedBy,
			r.Description,
			amount,
			hasAmount,
			r.Severity,
			string(r.Category),
			r.CreatedAt,
			r.Verified,
		).WithContext(ctx).Exec()
		if err != nil {
			return fmt.Errorf("scylla: failed to save report: %w", err)
		}
	}

	var lastReported time.Time
	if rec.Aggregate.LastReported != nil {
		lastReported = *rec.Aggregate.LastReported
	}

	upsert := `
        UPDATE aggregates
        SET report_count = ?,
            avg_severity = ?,
            last_reported = ?,
            total_amount = ?,
            safety_score = ?,
            risk_level = ?,
            updated_at = ?
        WHERE identifier = ?`

	err := s.session.Query(upsert,
		rec.Aggregate.ReportCount,
		rec.Aggregate.AvgSeverity,
		lastReported,
		rec.Aggregate.TotalAmount,
		rec.Aggregate.SafetyScore,
		string(rec.Aggregate.RiskLevel),
		rec.UpdatedAt,
		key,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("scylla: failed to upsert aggregate: %w", err)
	}

	return nil
}

func (s *scyllaStore) ListAll(ctx context.Context) ([]service.KeyedRecord, error) {
	query := `SELECT identifier, id, reported_by, description, amount, has_amount, severity, category, created_at, verified
	          FROM reports`

	iter := s.session.Query(query).WithContext(ctx).Iter()

	byKey := make(map[string]*service.Record)
	var order []string

	var key string
	var id gocql.UUID
	var reportedBy, description, catStr string
	var amount float64
	var hasAmount, verified bool
	var severity int
	var createdAt time.Time

	for iter.Scan(&key, &id, &reportedBy, &description, &amount, &hasAmount, &severity, &catStr, &createdAt, &verified) {
		rec, ok := byKey[key]
		if !ok {
			rec = &service.Record{}
			byKey[key] = rec
			order = append(order, key)
		}
		rec.Reports = append(rec.Reports, buildReport(key, id, reportedBy, description, amount, hasAmount, severity, catStr, createdAt, verified))
	}

	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("scylla: failed to iterate reports: %w", err)
	}

	out := make([]service.KeyedRecord, 0, len(order))
	for _, k := range order {
		rec := byKey[k]
		if err := s.fetchAggregate(ctx, k, rec); err != nil {
			return nil, err
		}
		out = append(out, service.KeyedRecord{Key: k, Record: rec})
	}
	return out, nil
}

func (s *scyllaStore) fetchReports(ctx context.Context, key string) ([]*domain.Report, error) {
	query := `SELECT id, reported_by, description, amount, has_amount, severity, category, created_at, verified
	          FROM reports WHERE identifier = ?`

	iter := s.session.Query(query, key).WithContext(ctx).Iter()

	var reports []*domain.Report
	var id gocql.UUID
	var reportedBy, description, catStr string
	var amount float64
	var hasAmount, verified bool
	var severity int
	var createdAt time.Time

	for iter.Scan(&id, &reportedBy, &description, &amount, &hasAmount, &severity, &catStr, &createdAt, &verified) {
		reports = append(reports, buildReport(key, id, reportedBy, description, amount, hasAmount, severity, catStr, createdAt, verified))
	}

	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("scylla: failed to iterate reports: %w", err)
	}

	return reports, nil
}

// fetchAggregate fills the cached aggregate fields. A missing row is fine:
// readers recompute from the report list anyway.
func (s *scyllaStore) fetchAggregate(ctx context.Context, key string, rec *service.Record) error {
	query := `SELECT report_count, avg_severity, last_reported, total_amount, safety_score, risk_level, updated_at
	          FROM aggregates WHERE identifier = ?`

	var lastReported time.Time
	var riskLevelStr string

	err := s.session.Query(query, key).WithContext(ctx).Scan(
		&rec.Aggregate.ReportCount,
		&rec.Aggregate.AvgSeverity,
		&lastReported,
		&rec.Aggregate.TotalAmount,
		&rec.Aggregate.SafetyScore,
		&riskLevelStr,
		&rec.UpdatedAt,
	)

	if err == gocql.ErrNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("scylla: failed to get aggregate: %w", err)
	}

	if !lastReported.IsZero() {
		rec.Aggregate.LastReported = &lastReported
	}
	rec.Aggregate.RiskLevel = domain.RiskLevel(riskLevelStr)
	return nil
}

func buildReport(key string, id gocql.UUID, reportedBy, description string, amount float64, hasAmount bool, severity int, catStr string, createdAt time.Time, verified bool) *domain.Report {
	r := &domain.Report{
		ID:            uuid.UUID(id),
		IdentifierKey: key,
		ReportedBy:    reportedBy,
		Description:   description,
		Severity:      severity,
		Category:      domain.Category(catStr),
		CreatedAt:     createdAt,
		Verified:      verified,
	}
	if hasAmount {
		r.Amount = &amount
	}
	return r
}
