package domain

// ComparisonProvider is a third-party comparison site. The core only reports
// which providers cover a given insurance type; building deep links into the
// provider is the front end's job.
type ComparisonProvider struct {
	ID             string       `json:"id"`
	DisplayName    string       `json:"display_name"`
	BaseURL        string       `json:"url"`
	SupportedTypes []PolicyType `json:"supported_types"`
}

var comparisonProviders = []ComparisonProvider{
	{
		ID:             "comparator",
		DisplayName:    "Comparator.es",
		BaseURL:        "https://www.comparator.es",
		SupportedTypes: []PolicyType{TypeAuto, TypeHome, TypeHealth},
	},
	{
		ID:             "rastreator",
		DisplayName:    "Rastreator.com",
		BaseURL:        "https://www.rastreator.com",
		SupportedTypes: []PolicyType{TypeAuto, TypeHome, TypeHealth, TypeLife},
	},
	{
		ID:             "acierto",
		DisplayName:    "Acierto.com",
		BaseURL:        "https://www.acierto.com",
		SupportedTypes: []PolicyType{TypeAuto, TypeHome, TypeHealth, TypeLife},
	},
	{
		ID:             "kelisto",
		DisplayName:    "Kelisto.es",
		BaseURL:        "https://www.kelisto.es",
		SupportedTypes: []PolicyType{TypeAuto, TypeHome, TypeHealth},
	},
}

// ComparisonProviders returns every known provider.
func ComparisonProviders() []ComparisonProvider {
	out := make([]ComparisonProvider, len(comparisonProviders))
	copy(out, comparisonProviders)
	return out
}

// Supports reports whether the provider covers the given insurance type.
func (p ComparisonProvider) Supports(t PolicyType) bool {
	for _, s := range p.SupportedTypes {
		if s == t {
			return true
		}
	}
	return false
}
