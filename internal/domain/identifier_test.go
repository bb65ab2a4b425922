package domain_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upisafe/fraud-registry/internal/domain"
)

func TestNormalizeIdentifier(t *testing.T) {
	cases := []struct {
		Name         string
		Raw          string
		ExpectedKind domain.IdentifierKind
		ExpectedKey  string
	}{
		{"upi handle lower-cased", "  Fraud@Paytm ", domain.KindUPI, "fraud@paytm"},
		{"bare ten digit phone", "9876543210", domain.KindPhone, "phone_9876543210"},
		{"phone with country code", "+91 98765 43210", domain.KindPhone, "phone_9876543210"},
		{"phone with 91 prefix", "919876543210", domain.KindPhone, "phone_9876543210"},
		{"phone with leading zero", "09876543210", domain.KindPhone, "phone_9876543210"},
		{
			"url becomes an encoded link",
			"https://Fake-Paytm.example/pay",
			domain.KindLink,
			"link_" + base64.URLEncoding.EncodeToString([]byte("https://fake-paytm.example/pay")),
		},
		{
			"upi deep link is a link, not a handle",
			"upi://pay?pa=fraud@paytm",
			domain.KindLink,
			"link_" + base64.URLEncoding.EncodeToString([]byte("upi://pay?pa=fraud@paytm")),
		},
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			id, err := domain.NormalizeIdentifier(tc.Raw)
			require.NoError(t, err)
			assert.Equal(t, tc.ExpectedKind, id.Kind)
			assert.Equal(t, tc.ExpectedKey, id.Key())
		})
	}
}

func TestNormalizeIdentifierRejectsEmpty(t *testing.T) {
	_, err := domain.NormalizeIdentifier("   ")
	assert.ErrorIs(t, err, domain.ErrInvalidIdentifier)
}

func TestParseKeyRoundTrip(t *testing.T) {
	for _, raw := range []string{"fraud@paytm", "9876543210", "https://scam.example/x"} {
		id, err := domain.NormalizeIdentifier(raw)
		require.NoError(t, err)

		parsed := domain.ParseKey(id.Key())
		assert.Equal(t, id, parsed)
	}
}

func TestDisplay(t *testing.T) {
	phone, err := domain.NormalizeIdentifier("+919876543210")
	require.NoError(t, err)
	assert.Equal(t, "+91 9876543210", phone.Display())

	link, err := domain.NormalizeIdentifier("https://scam.example/pay")
	require.NoError(t, err)
	assert.Equal(t, "https://scam.example/pay", link.Display())

	upi, err := domain.NormalizeIdentifier("merchant@okicici")
	require.NoError(t, err)
	assert.Equal(t, "merchant@okicici", upi.Display())
}

func TestDisplayFallsBackOnBadLinkKey(t *testing.T) {
	id := domain.ParseKey("link_%%%not-base64%%%")
	assert.Equal(t, domain.LinkPlaceholder, id.Display())
}

func TestNormalizeCategory(t *testing.T) {
	c, ok := domain.NormalizeCategory("payment_fraud")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryPaymentFraud, c)

	// UI synonyms collapse to canonical labels.
	c, ok = domain.NormalizeCategory("otp_fraud")
	require.True(t, ok)
	assert.Equal(t, domain.CategoryPhishing, c)

	_, ok = domain.NormalizeCategory("banana")
	assert.False(t, ok)
}
