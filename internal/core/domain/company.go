package domain

// InsuranceCompany is a catalog entry for a known insurer.
type InsuranceCompany struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	DisplayName    string       `json:"display_name"`
	LogoURL        string       `json:"logo_url,omitempty"`
	Country        string       `json:"country"`
	SupportedTypes []PolicyType `json:"supported_types"`
	WebsiteURL     string       `json:"website_url,omitempty"`
	IsActive       bool         `json:"is_active"`
}

// Supports reports whether the company offers the given insurance type.
func (c InsuranceCompany) Supports(t PolicyType) bool {
	for _, s := range c.SupportedTypes {
		if s == t {
			return true
		}
	}
	return false
}

// companies is the built-in insurer catalog.
var companies = []InsuranceCompany{
	{
		ID:             "mapfre",
		Name:           "mapfre",
		DisplayName:    "MAPFRE",
		LogoURL:        "https://www.mapfre.es/favicon.ico",
		Country:        "ES",
		SupportedTypes: []PolicyType{TypeAuto, TypeHome, TypeHealth, TypeLife, TypeMotorcycle},
		WebsiteURL:     "https://www.mapfre.es",
		IsActive:       true,
	},
	{
		ID:             "axa",
		Name:           "axa",
		DisplayName:    "AXA España",
		LogoURL:        "https://www.axa.es/favicon.ico",
		Country:        "ES",
		SupportedTypes: []PolicyType{TypeAuto, TypeHome, TypeHealth, TypeLife},
		WebsiteURL:     "https://www.axa.es",
		IsActive:       true,
	},
	{
		ID:             "allianz",
		Name:           "allianz",
		DisplayName:    "Allianz Seguros",
		LogoURL:        "https://www.allianz.es/favicon.ico",
		Country:        "ES",
		SupportedTypes: []PolicyType{TypeAuto, TypeHome, TypeLife, TypeMotorcycle},
		WebsiteURL:     "https://www.allianz.es",
		IsActive:       true,
	},
	{
		ID:             "mutua_madrilena",
		Name:           "mutua_madrilena",
		DisplayName:    "Mutua Madrileña",
		LogoURL:        "https://www.mutua.es/favicon.ico",
		Country:        "ES",
		SupportedTypes: []PolicyType{TypeAuto, TypeHome, TypeHealth},
		WebsiteURL:     "https://www.mutua.es",
		IsActive:       true,
	},
	{
		ID:             "reale_seguros",
		Name:           "reale_seguros",
		DisplayName:    "Reale Seguros",
		LogoURL:        "https://www.reale.es/favicon.ico",
		Country:        "ES",
		SupportedTypes: []PolicyType{TypeAuto, TypeHome, TypeMotorcycle},
		WebsiteURL:     "https://www.reale.es",
		IsActive:       true,
	},
	{
		ID:             "sanitas",
		Name:           "sanitas",
		DisplayName:    "Sanitas",
		LogoURL:        "https://www.sanitas.es/favicon.ico",
		Country:        "ES",
		SupportedTypes: []PolicyType{TypeHealth, TypeDental},
		WebsiteURL:     "https://www.sanitas.es",
		IsActive:       true,
	},
	{
		ID:             "adeslas",
		Name:           "adeslas",
		DisplayName:    "SegurCaixa Adeslas",
		LogoURL:        "https://www.segurcaixaadeslas.es/favicon.ico",
		Country:        "ES",
		SupportedTypes: []PolicyType{TypeHealth, TypeDental},
		WebsiteURL:     "https://www.segurcaixaadeslas.es",
		IsActive:       true,
	},
	{
		ID:             "linea_directa",
		Name:           "linea_directa",
		DisplayName:    "Línea Directa",
		LogoURL:        "https://www.lineadirecta.com/favicon.ico",
		Country:        "ES",
		SupportedTypes: []PolicyType{TypeAuto, TypeMotorcycle, TypeHome},
		WebsiteURL:     "https://www.lineadirecta.com",
		IsActive:       true,
	},
}

// Companies returns the full built-in catalog.
func Companies() []InsuranceCompany {
	out := make([]InsuranceCompany, len(companies))
	copy(out, companies)
	return out
}

// OtherCompany is the free-text fallback entry offered alongside the catalog.
func OtherCompany() InsuranceCompany {
	return InsuranceCompany{
		ID:             CompanyIDOther,
		Name:           CompanyIDOther,
		DisplayName:    "Other",
		Country:        "GLOBAL",
		SupportedTypes: PolicyTypes(),
		IsActive:       true,
	}
}
