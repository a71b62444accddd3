package catalog

// PricingModel is how a vendor charges for a tool
type PricingModel string

const (
	PricingSubscription PricingModel = "subscription"
	PricingCreditBased  PricingModel = "credit-based"
	PricingCloudHosting PricingModel = "cloud-hosting"
	PricingUsageBased   PricingModel = "usage-based"
	PricingOneTime      PricingModel = "one-time"
	PricingFree         PricingModel = "free"
)

// Valid reports whether m is one of the known pricing models
func (m PricingModel) Valid() bool {
	switch m {
	case PricingSubscription, PricingCreditBased, PricingCloudHosting,
		PricingUsageBased, PricingOneTime, PricingFree:
		return true
	}
	return false
}

// Pricing describes the entry price of a tool
type Pricing struct {
	HasFreeTier   bool         `json:"has_free_tier" yaml:"has_free_tier"`
	StartingPrice float64      `json:"starting_price" yaml:"starting_price"`
	PricingModel  PricingModel `json:"pricing_model" yaml:"pricing_model"`
}

// ToolRecord is a single catalog entry. Records are never modified once the
// catalog holding them has been built.
type ToolRecord struct {
	ID                  int      `json:"id" yaml:"id"`
	Name                string   `json:"name" yaml:"name"`
	Vendor              string   `json:"vendor" yaml:"vendor"`
	Description         string   `json:"description" yaml:"description"`
	Categories          []string `json:"categories" yaml:"categories"`
	UseCases            []string `json:"use_cases" yaml:"use_cases"`
	Pricing             Pricing  `json:"pricing" yaml:"pricing"`
	Features            []string `json:"features" yaml:"features"`
	Limitations         []string `json:"limitations" yaml:"limitations"`
	APIAvailable        bool     `json:"api_available" yaml:"api_available"`
	Rating              float64  `json:"rating" yaml:"rating"`
	ReviewsCount        int      `json:"reviews_count" yaml:"reviews_count"`
	AverageResponseTime string   `json:"average_response_time" yaml:"average_response_time"`
	TechLevel           string   `json:"techLevel" yaml:"techLevel"`
}

// ToolDetails is the subset of a record attached to a recommendation
type ToolDetails struct {
	Name                string   `json:"name"`
	Vendor              string   `json:"vendor"`
	Description         string   `json:"description"`
	Categories          []string `json:"categories"`
	UseCases            []string `json:"use_cases"`
	Pricing             Pricing  `json:"pricing"`
	Features            []string `json:"features"`
	Limitations         []string `json:"limitations"`
	APIAvailable        bool     `json:"api_available"`
	Rating              float64  `json:"rating"`
	ReviewsCount        int      `json:"reviews_count"`
	AverageResponseTime string   `json:"average_response_time"`
}

// Details copies the curated subset of the record.
func (t ToolRecord) Details() *ToolDetails {
	return &ToolDetails{
		Name:                t.Name,
		Vendor:              t.Vendor,
		Description:         t.Description,
		Categories:          cloneStrings(t.Categories),
		UseCases:            cloneStrings(t.UseCases),
		Pricing:             t.Pricing,
		Features:            cloneStrings(t.Features),
		Limitations:         cloneStrings(t.Limitations),
		APIAvailable:        t.APIAvailable,
		Rating:              t.Rating,
		ReviewsCount:        t.ReviewsCount,
		AverageResponseTime: t.AverageResponseTime,
	}
}

// clone returns a deep copy so callers cannot reach the catalog's slices
func (t ToolRecord) clone() ToolRecord {
	t.Categories = cloneStrings(t.Categories)
	t.UseCases = cloneStrings(t.UseCases)
	t.Features = cloneStrings(t.Features)
	t.Limitations = cloneStrings(t.Limitations)
	return t
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
