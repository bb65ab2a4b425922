package domain

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// IdentifierKind distinguishes the three reportable entity types.
// Using a custom type prevents string typos in the business logic.
type IdentifierKind string

const (
	KindUPI   IdentifierKind = "upi"
	KindPhone IdentifierKind = "phone"
	KindLink  IdentifierKind = "link"
)

// Storage-key prefixes. UPI handles are stored bare; the other two kinds
// carry a prefix so the kind can be re-derived from a stored key alone.
const (
	phoneKeyPrefix = "phone_"
	linkKeyPrefix  = "link_"
)

// LinkPlaceholder is shown when a stored link key cannot be decoded back
// to a readable URL. Listings must never fail over one bad key.
const LinkPlaceholder = "Payment Link"

var ErrInvalidIdentifier = errors.New("invalid identifier")

// Identifier is the normalized key a report is filed against.
// For KindLink, Value holds the base64url encoding of the normalized URL,
// exactly as it is stored.
type Identifier struct {
	Kind  IdentifierKind `json:"kind"`
	Value string         `json:"value"`
}

// NewUPI builds an identifier for an already-normalized UPI handle.
func NewUPI(handle string) Identifier {
	return Identifier{Kind: KindUPI, Value: handle}
}

// NewPhone builds an identifier for a bare 10-digit national number.
func NewPhone(digits string) Identifier {
	return Identifier{Kind: KindPhone, Value: digits}
}

// NewLink builds an identifier from a normalized URL or UPI deep-link.
func NewLink(normalized string) Identifier {
	return Identifier{
		Kind:  KindLink,
		Value: base64.URLEncoding.EncodeToString([]byte(normalized)),
	}
}

// NormalizeIdentifier turns raw user input into a tagged Identifier.
// Phone prefixes (+91, 91, 0) and separators are stripped, UPI handles are
// lower-cased and trimmed, everything else is treated as a link.
func NormalizeIdentifier(raw string) (Identifier, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return Identifier{}, ErrInvalidIdentifier
	}

	if digits, ok := normalizePhone(s); ok {
		return NewPhone(digits), nil
	}

	if strings.Contains(s, "@") && !strings.ContainsAny(s, "/:") {
		return NewUPI(s), nil
	}

	return NewLink(s), nil
}

// ParseKey re-derives an Identifier from a stored key by prefix inspection.
func ParseKey(key string) Identifier {
	switch {
	case strings.HasPrefix(key, phoneKeyPrefix):
		return Identifier{Kind: KindPhone, Value: strings.TrimPrefix(key, phoneKeyPrefix)}
	case strings.HasPrefix(key, linkKeyPrefix):
		return Identifier{Kind: KindLink, Value: strings.TrimPrefix(key, linkKeyPrefix)}
	default:
		return Identifier{Kind: KindUPI, Value: key}
	}
}

// Key returns the storage key for this identifier.
func (id Identifier) Key() string {
	switch id.Kind {
	case KindPhone:
		return phoneKeyPrefix + id.Value
	case KindLink:
		return linkKeyPrefix + id.Value
	default:
		return id.Value
	}
}

// Display renders the identifier for humans: phones get the country prefix
// restored, links are decoded best-effort, UPI handles pass through.
func (id Identifier) Display() string {
	switch id.Kind {
	case KindPhone:
		return "+91 " + id.Value
	case KindLink:
		decoded, err := base64.URLEncoding.DecodeString(id.Value)
		if err != nil || len(decoded) == 0 {
			return LinkPlaceholder
		}
		return string(decoded)
	default:
		return id.Value
	}
}

// normalizePhone reports whether s is a phone number and returns its bare
// 10-digit national form. Inputs that contain anything other than digits,
// separators and a leading + are not phones.
func normalizePhone(s string) (string, bool) {
	stripped := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, s)

	digits := strings.TrimPrefix(stripped, "+")
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	if digits == "" {
		return "", false
	}

	if num, err := phonenumbers.Parse(stripped, "IN"); err == nil && phonenumbers.IsValidNumber(num) {
		return phonenumbers.GetNationalSignificantNumber(num), true
	}

	// Fall back to manual prefix stripping for numbers the library rejects.
	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "91"):
		return digits[2:], true
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		return digits[1:], true
	case len(digits) == 10:
		return digits, true
	}

	return "", false
}
