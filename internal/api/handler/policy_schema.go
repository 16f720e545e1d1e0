package handler

// Request and response types for the policy routes. Form-ish fields travel
// as strings; the service layer owns parsing and validation so the JSON
// contract stays decoupled from the domain types.

type policyRequest struct {
	Name               string `json:"name"                 validate:"required"`
	Type               string `json:"type"                 validate:"required"`
	ExpiryDate         string `json:"expiry_date"          validate:"required"`
	ReminderDaysBefore string `json:"reminder_days_before"`
	CurrentPrice       string `json:"current_price"`
	Currency           string `json:"currency"`
	CompanyName        string `json:"company_name"`
	CompanyID          string `json:"company_id"`
	CompanyLogoURL     string `json:"company_logo_url"`
	PolicyNumber       string `json:"policy_number"`
}

type renewPolicyRequest struct {
	NewExpiryDate string `json:"new_expiry_date" validate:"required"`
	NewPrice      string `json:"new_price"`
}

type sharePolicyRequest struct {
	PartnerUserID string `json:"partner_user_id" validate:"required"`
}

type attachFileRequest struct {
	FileName string `json:"file_name" validate:"required"`
	FileURL  string `json:"file_url"  validate:"required"`
}

type createPolicyResponse struct {
	ID string `json:"id"`
}

type policyResponse struct {
	ID                 string   `json:"id"`
	Type               string   `json:"type"`
	TypeDisplayName    string   `json:"type_display_name"`
	Name               string   `json:"name"`
	ExpiryDate         string   `json:"expiry_date"`
	ReminderDaysBefore int      `json:"reminder_days_before"`
	Status             string   `json:"status"`
	DaysUntilExpiry    int      `json:"days_until_expiry"`
	CurrentPrice       *float64 `json:"current_price,omitempty"`
	Currency           string   `json:"currency"`
	CompanyName        string   `json:"company_name,omitempty"`
	CompanyID          string   `json:"company_id,omitempty"`
	CompanyLogoURL     string   `json:"company_logo_url,omitempty"`
	PolicyNumber       string   `json:"policy_number,omitempty"`
	PolicyFileURL      string   `json:"policy_file_url,omitempty"`
	PolicyFileName     string   `json:"policy_file_name,omitempty"`
	SharedWithUserID   string   `json:"shared_with_user_id,omitempty"`
}

type categoryGroupResponse struct {
	Category string           `json:"category"`
	Policies []policyResponse `json:"policies"`
}

type listPoliciesResponse struct {
	Groups []categoryGroupResponse `json:"groups"`
}

type companyResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	LogoURL     string `json:"logo_url,omitempty"`
	WebsiteURL  string `json:"website_url,omitempty"`
}

type comparisonProviderResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	URL         string `json:"url"`
}
