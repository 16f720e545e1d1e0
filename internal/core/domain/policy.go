package domain

import (
	"errors"
	"fmt"
	"time"
)

// PolicyType is the closed enumeration of tracked insurance types. Adapters
// convert their native string encoding to this type at the edge; unknown tags
// are rejected by ParsePolicyType rather than carried through the core.
type PolicyType string

const (
	TypeAuto       PolicyType = "AUTO"
	TypeMotorcycle PolicyType = "MOTORCYCLE"
	TypeHome       PolicyType = "HOME"
	TypeHealth     PolicyType = "HEALTH"
	TypeDental     PolicyType = "DENTAL"
	TypeLife       PolicyType = "LIFE"
	TypePet        PolicyType = "PET"
	TypeTravel     PolicyType = "TRAVEL"
	TypeOther      PolicyType = "OTHER"
)

// typeInfo maps each policy type to its display label and grouping category.
var typeInfo = map[PolicyType]struct {
	display  string
	category string
}{
	TypeAuto:       {"Auto Insurance", CategoryVehicle},
	TypeMotorcycle: {"Motorcycle Insurance", CategoryVehicle},
	TypeHome:       {"Home Insurance", CategoryProperty},
	TypeHealth:     {"Health Insurance", CategoryHealth},
	TypeDental:     {"Dental Insurance", CategoryHealth},
	TypeLife:       {"Life Insurance", CategoryLifeFamily},
	TypePet:        {"Pet Insurance", CategoryLifeFamily},
	TypeTravel:     {"Travel Insurance", CategoryTravel},
	TypeOther:      {"Other", CategoryOther},
}

// Grouping categories used by the list presentation.
const (
	CategoryVehicle    = "Vehicle"
	CategoryProperty   = "Property"
	CategoryHealth     = "Health"
	CategoryLifeFamily = "Life & Family"
	CategoryTravel     = "Travel"
	CategoryOther      = "Other"
)

// PolicyTypes returns all valid policy types in declaration order.
func PolicyTypes() []PolicyType {
	return []PolicyType{
		TypeAuto, TypeMotorcycle, TypeHome, TypeHealth, TypeDental,
		TypeLife, TypePet, TypeTravel, TypeOther,
	}
}

// ParsePolicyType converts a string tag into a PolicyType.
func ParsePolicyType(s string) (PolicyType, error) {
	t := PolicyType(s)
	if _, ok := typeInfo[t]; !ok {
		return "", fmt.Errorf("%w: unknown policy type %q", ErrInvalidInput, s)
	}
	return t, nil
}

// DisplayName returns the human-readable label for the type.
func (t PolicyType) DisplayName() string { return typeInfo[t].display }

// Category returns the grouping category for the type.
func (t PolicyType) Category() string { return typeInfo[t].category }

// PolicyStatus is the derived lifecycle state of a policy. It is computed
// from the expiry date, never stored.
type PolicyStatus string

const (
	StatusActive       PolicyStatus = "active"
	StatusExpiringSoon PolicyStatus = "expiring_soon"
	StatusExpired      PolicyStatus = "expired"
)

const (
	// DefaultReminderDays is the "expiring soon" threshold applied when the
	// caller provides none.
	DefaultReminderDays = 30

	// DefaultCurrency is assumed for prices without an explicit currency.
	DefaultCurrency = "EUR"

	// FreeTierMaxPolicies is the active-policy ceiling for the free tier.
	FreeTierMaxPolicies = 5

	// CompanyIDOther marks a user-entered free-text company; no logo or
	// catalog reference applies.
	CompanyIDOther = "other"

	// GuestUserID is the sentinel owner id used for every record written to
	// the local store. The real user id never reaches the local namespace.
	GuestUserID = "guest"
)

var (
	ErrPolicyNotFound     = errors.New("policy not found")
	ErrCapacityExceeded   = errors.New("free tier policy limit reached")
	ErrPremiumRequired    = errors.New("premium subscription required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrPartnerNotFound    = errors.New("partner not found")
)

// StorageError reports that an operation failed on the cloud store and the
// local fallback failed as well. A fallback that succeeds never produces one.
type StorageError struct {
	Op       string
	CloudErr error
	LocalErr error
}

func (e *StorageError) Error() string {
	if e.CloudErr != nil {
		return fmt.Sprintf("storage %s: cloud: %v; local: %v", e.Op, e.CloudErr, e.LocalErr)
	}
	return fmt.Sprintf("storage %s: local: %v", e.Op, e.LocalErr)
}

func (e *StorageError) Unwrap() error { return e.LocalErr }

// Policy is the core insurance record.
type Policy struct {
	ID                 string     `json:"id" bson:"_id,omitempty"`
	Type               PolicyType `json:"type" bson:"type"`
	Name               string     `json:"name" bson:"name"`
	ExpiryDate         time.Time  `json:"expiry_date" bson:"expiry_date"`
	ReminderDaysBefore int        `json:"reminder_days_before" bson:"reminder_days_before"`
	IsActive           bool       `json:"is_active" bson:"is_active"`
	CurrentPrice       *float64   `json:"current_price,omitempty" bson:"current_price,omitempty"`
	Currency           string     `json:"currency" bson:"currency"`
	CompanyName        string     `json:"company_name,omitempty" bson:"company_name,omitempty"`
	CompanyID          string     `json:"company_id,omitempty" bson:"company_id,omitempty"`
	CompanyLogoURL     string     `json:"company_logo_url,omitempty" bson:"company_logo_url,omitempty"`
	PolicyNumber       string     `json:"policy_number,omitempty" bson:"policy_number,omitempty"`
	PolicyFileURL      string     `json:"policy_file_url,omitempty" bson:"policy_file_url,omitempty"`
	PolicyFileName     string     `json:"policy_file_name,omitempty" bson:"policy_file_name,omitempty"`
	UserID             string     `json:"user_id,omitempty" bson:"user_id,omitempty"`
	SharedWithUserID   string     `json:"shared_with_user_id,omitempty" bson:"shared_with_user_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" bson:"updated_at"`
}

// Normalize enforces field invariants that hold regardless of input source:
// the "other" company sentinel carries no logo, and the currency falls back
// to the default code.
func (p *Policy) Normalize() {
	if p.CompanyID == CompanyIDOther {
		p.CompanyLogoURL = ""
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
}

// DaysUntilExpiry reports the signed day count from today to the expiry date.
func (p *Policy) DaysUntilExpiry(today time.Time) int {
	return DaysUntilExpiry(p.ExpiryDate, today)
}

// Status classifies the policy as of today.
func (p *Policy) Status(today time.Time) PolicyStatus {
	return Status(p.ExpiryDate, p.ReminderDaysBefore, today)
}
