package scylla

import (
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upisafe/fraud-registry/internal/domain"
)

func TestBuildReportPreservesRowIdentity(t *testing.T) {
	id := uuid.New()
	created := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	r := buildReport("fraud@paytm", gocql.UUID(id), "Anonymous", "Merchant vanished after payment", 1500, true, 4, "payment_fraud", created, true)

	assert.Equal(t, id, r.ID)
	assert.Equal(t, "fraud@paytm", r.IdentifierKey)
	assert.Equal(t, domain.CategoryPaymentFraud, r.Category)
	assert.Equal(t, 4, r.Severity)
	assert.True(t, r.Verified)
	assert.True(t, r.CreatedAt.Equal(created))
	require.NotNil(t, r.Amount)
	assert.InDelta(t, 1500, *r.Amount, 0.001)
}

func TestBuildReportKeepsAbsentAmountUnknown(t *testing.T) {
	r := buildReport("phone_9876543210", gocql.UUID(uuid.New()), "Anonymous", "Spam caller pushing a loan scam", 0, false, 2, "phone_fraud", time.Now().UTC(), false)

	// has_amount=false means unknown, which is not the same as zero.
	assert.Nil(t, r.Amount)
}
