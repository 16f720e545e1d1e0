package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Name length bounds for a policy's display label.
const (
	MinPolicyNameLen = 3
	MaxPolicyNameLen = 100
)

// ErrInvalidInput is the sentinel matched by errors.Is for every validation
// failure. Validation failures are local and never retried.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError describes a single malformed field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// PolicyForm carries raw, adapter-provided field values for a policy. Every
// field arrives as text, as the front ends submit it; ParsePolicyForm owns
// the conversion rules.
type PolicyForm struct {
	Name               string
	Type               string
	ExpiryDate         string // YYYY-MM-DD
	ReminderDaysBefore string
	CurrentPrice       string
	Currency           string
	CompanyName        string
	CompanyID          string
	CompanyLogoURL     string
	PolicyNumber       string
}

// ParsePolicyForm validates a form and produces the policy fields it
// describes. Rules:
//   - name: required, 3..100 characters
//   - type: must be a known PolicyType
//   - expiry date: required, YYYY-MM-DD
//   - reminder days: defaults to 30 when absent or unparseable
//   - price: optional; anything that does not parse as a non-negative
//     number is silently dropped, never rejected
//
// ID, owner, activity flag and timestamps are left for the use-case layer.
func ParsePolicyForm(f PolicyForm) (*Policy, error) {
	name := strings.TrimSpace(f.Name)
	switch {
	case name == "":
		return nil, invalid("name", "insurance name is required")
	case len(name) < MinPolicyNameLen:
		return nil, invalid("name", fmt.Sprintf("name must be at least %d characters", MinPolicyNameLen))
	case len(name) > MaxPolicyNameLen:
		return nil, invalid("name", fmt.Sprintf("name must be at most %d characters", MaxPolicyNameLen))
	}

	policyType, err := ParsePolicyType(f.Type)
	if err != nil {
		return nil, invalid("type", fmt.Sprintf("unknown insurance type %q", f.Type))
	}

	if strings.TrimSpace(f.ExpiryDate) == "" {
		return nil, invalid("expiry_date", "expiry date is required")
	}
	expiry, err := time.Parse(time.DateOnly, f.ExpiryDate)
	if err != nil {
		return nil, invalid("expiry_date", "invalid date format (YYYY-MM-DD)")
	}

	reminderDays := DefaultReminderDays
	if v, err := strconv.Atoi(strings.TrimSpace(f.ReminderDaysBefore)); err == nil && v >= 0 {
		reminderDays = v
	}

	p := &Policy{
		Type:               policyType,
		Name:               name,
		ExpiryDate:         expiry,
		ReminderDaysBefore: reminderDays,
		CurrentPrice:       ParsePrice(f.CurrentPrice),
		Currency:           strings.TrimSpace(f.Currency),
		CompanyName:        strings.TrimSpace(f.CompanyName),
		CompanyID:          strings.TrimSpace(f.CompanyID),
		CompanyLogoURL:     strings.TrimSpace(f.CompanyLogoURL),
		PolicyNumber:       strings.TrimSpace(f.PolicyNumber),
	}
	p.Normalize()
	return p, nil
}

// ParsePrice converts a raw price field, dropping anything that is not a
// non-negative number.
func ParsePrice(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return nil
	}
	return &v
}

// ValidateEmail applies the product's email rule: contains "@" and "." and
// is longer than 5 characters. Deliberately simplistic; kept as-is.
func ValidateEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".") && len(email) > 5
}

// ValidatePassword applies the product's password rule: at least 6 characters.
func ValidatePassword(password string) bool {
	return len(password) >= 6
}

var fileNameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFileName replaces every character outside [a-zA-Z0-9._-] with an
// underscore before a file reference is attached to a policy.
func SanitizeFileName(name string) string {
	return fileNameSanitizer.ReplaceAllString(name, "_")
}
