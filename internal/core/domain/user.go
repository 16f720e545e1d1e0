package domain

import "time"

// User models an account holder. Guests never materialise a User record;
// they exist only as the local-store sentinel owner.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	DisplayName      string    `json:"display_name,omitempty"`
	PasswordHash     string    `json:"-"`
	SubscriptionTier Tier      `json:"subscription_tier"`
	PartnerID        string    `json:"partner_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsPremium reports whether the account has premium features.
func (u *User) IsPremium() bool { return u.SubscriptionTier.IsPremium() }
