package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upisafe/fraud-registry/internal/domain"
	"github.com/upisafe/fraud-registry/internal/platform/storage/memory"
	"github.com/upisafe/fraud-registry/internal/service"
)

func newRecord(key string, severities ...int) *service.Record {
	rec := &service.Record{}
	for _, s := range severities {
		rec.Reports = append(rec.Reports, domain.NewReport(key, "", "Recorded for the store test", s, domain.CategoryOther, nil))
	}
	rec.Aggregate = domain.ComputeAggregate(rec.Reports, time.Now().UTC())
	rec.UpdatedAt = time.Now().UTC()
	return rec
}

func TestGetAbsentKey(t *testing.T) {
	store := memory.New()

	rec, err := store.Get(context.Background(), "nobody@ybl")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestPutThenGet(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "fraud@paytm", newRecord("fraud@paytm", 4, 2)))

	rec, err := store.Get(ctx, "fraud@paytm")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Len(t, rec.Reports, 2)
	assert.Equal(t, 2, rec.Aggregate.ReportCount)
}

func TestGetReturnsIsolatedCopy(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "fraud@paytm", newRecord("fraud@paytm", 3)))

	first, err := store.Get(ctx, "fraud@paytm")
	require.NoError(t, err)

	// Appending to a fetched record must not leak into the store until Put.
	first.Reports = append(first.Reports, domain.NewReport("fraud@paytm", "", "Appended after the fetch", 5, domain.CategoryOther, nil))

	second, err := store.Get(ctx, "fraud@paytm")
	require.NoError(t, err)
	assert.Len(t, second.Reports, 1)
}

func TestListAll(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "fraud@paytm", newRecord("fraud@paytm", 5)))
	require.NoError(t, store.Put(ctx, "phone_9876543210", newRecord("phone_9876543210", 2, 3)))

	records, err := store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	total := 0
	for _, kr := range records {
		total += len(kr.Record.Reports)
	}
	assert.Equal(t, 3, total)
}
