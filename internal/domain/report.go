package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category represents the specific type of fraud reported.
type Category string

const (
	CategoryPhishing     Category = "phishing"
	CategoryPaymentFraud Category = "payment_fraud"
	CategoryPhoneFraud   Category = "phone_fraud"
	CategoryFakeMerchant Category = "fake_merchant"
	CategoryLinkFraud    Category = "link_fraud"
	CategoryOther        Category = "other"
)

// MinSeverity and MaxSeverity bound the reporter-assigned 1-5 rating.
const (
	MinSeverity = 1
	MaxSeverity = 5
)

// categorySynonyms collapses the labels older app versions submit onto the
// canonical enumeration.
var categorySynonyms = map[string]Category{
	"upi_fraud":    CategoryPaymentFraud,
	"call_fraud":   CategoryPhoneFraud,
	"fake_website": CategoryLinkFraud,
	"otp_fraud":    CategoryPhishing,
	"qr_fraud":     CategoryPaymentFraud,
}

// NormalizeCategory maps a raw category label to the canonical enumeration.
// The second return value is false for unknown labels.
func NormalizeCategory(raw string) (Category, bool) {
	c := Category(raw)
	switch c {
	case CategoryPhishing, CategoryPaymentFraud, CategoryPhoneFraud,
		CategoryFakeMerchant, CategoryLinkFraud, CategoryOther:
		return c, true
	}
	if canonical, ok := categorySynonyms[raw]; ok {
		return canonical, true
	}
	return "", false
}

// Report is the raw evidence input entity. Reports are append-only: once
// created no field changes except Verified, which moderation may flip true.
type Report struct {
	ID            uuid.UUID `json:"id"`
	IdentifierKey string    `json:"identifier"`
	ReportedBy    string    `json:"reported_by"`
	Description   string    `json:"description"`

	// Amount is the money lost, if known. A nil amount means unknown,
	// which is not the same as zero.
	Amount *float64 `json:"amount,omitempty"`

	Severity  int       `json:"severity"`
	Category  Category  `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	Verified  bool      `json:"verified"`
}

// NewReport is a factory to create a clean report instance.
// It expects an already-normalized storage key and a canonical category.
func NewReport(identifierKey, reportedBy, description string, severity int, category Category, amount *float64) *Report {
	if reportedBy == "" {
		reportedBy = "Anonymous"
	}
	return &Report{
		ID:            uuid.New(),
		IdentifierKey: identifierKey,
		ReportedBy:    reportedBy,
		Description:   description,
		Amount:        amount,
		Severity:      severity,
		Category:      category,
		CreatedAt:     time.Now().UTC(),
		Verified:      false,
	}
}
