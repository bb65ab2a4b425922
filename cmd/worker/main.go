// Worker is a one-shot operational tool against the ScyllaDB backend:
// it re-derives and re-caches the aggregate for a single identifier, or
// prints the registry-wide statistics.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/upisafe/fraud-registry/internal/domain"
	"github.com/upisafe/fraud-registry/internal/platform/storage/scylla"
	"github.com/upisafe/fraud-registry/internal/service"
	"github.com/upisafe/fraud-registry/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log := logger.NewDefault()

	identifierPtr := flag.String("identifier", "", "raw identifier (UPI ID, phone or link) to recompute")
	statsPtr := flag.Bool("stats", false, "print registry-wide statistics")
	flag.Parse()

	if *identifierPtr == "" && !*statsPtr {
		log.Fatal().Msg("usage: worker -identifier=<upi|phone|link> | worker -stats")
	}

	host := os.Getenv("SCYLLA_HOST")
	keyspace := os.Getenv("SCYLLA_KEYSPACE")
	if host == "" {
		host = "localhost"
	}
	if keyspace == "" {
		keyspace = "fraud_registry"
	}

	session, err := scylla.Connect(keyspace, host)
	if err != nil {
		log.Fatal().Err(err).Msg("db connection failed")
	}
	defer session.Close()

	store := scylla.NewStore(session)
	ctx := context.Background()

	if *statsPtr {
		svc := service.NewRegistryService(store, log)
		stats, err := svc.GetStatistics(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("statistics failed")
		}
		printJSON(log, stats)
		return
	}

	id, err := domain.NormalizeIdentifier(*identifierPtr)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid identifier")
	}

	rec, err := store.Get(ctx, id.Key())
	if err != nil {
		log.Fatal().Err(err).Msg("store read failed")
	}
	if rec == nil {
		log.Info().Str("identifier", id.Key()).Msg("no reports on record, nothing to recompute")
		printJSON(log, domain.DefaultAggregate())
		return
	}

	rec.Aggregate = domain.ComputeAggregate(rec.Reports, time.Now().UTC())
	rec.UpdatedAt = time.Now().UTC()

	if err := store.Put(ctx, id.Key(), rec); err != nil {
		log.Fatal().Err(err).Msg("aggregate update failed")
	}

	log.Info().
		Str("identifier", id.Key()).
		Int("report_count", rec.Aggregate.ReportCount).
		Int("safety_score", rec.Aggregate.SafetyScore).
		Str("risk_level", string(rec.Aggregate.RiskLevel)).
		Msg("aggregate recomputed")
	printJSON(log, rec.Aggregate)
}

func printJSON(log *logger.Logger, v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatal().Err(err).Msg("failed to encode output")
	}
}
