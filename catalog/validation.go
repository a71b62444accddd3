package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	maxTools      = 10000
	maxListValues = 50
	maxRating     = 5.0
)

// techLevelPattern matches a single level or a range such as "beginner-advanced"
var techLevelPattern = regexp.MustCompile(`^(beginner|intermediate|advanced)(-(beginner|intermediate|advanced))?$`)

// ValidateRecords validates every record and the uniqueness of IDs and names
func ValidateRecords(records []ToolRecord) error {
	if len(records) > maxTools {
		return fmt.Errorf("catalog contains %d tools, maximum allowed is %d", len(records), maxTools)
	}

	ids := make(map[int]bool, len(records))
	names := make(map[string]bool, len(records))
	for i := range records {
		r := &records[i]
		if err := ValidateRecord(r); err != nil {
			return fmt.Errorf("tool #%d: %w", i+1, err)
		}
		if ids[r.ID] {
			return fmt.Errorf("duplicate tool ID %d", r.ID)
		}
		if names[r.Name] {
			return fmt.Errorf("duplicate tool name %q", r.Name)
		}
		ids[r.ID] = true
		names[r.Name] = true
	}

	return nil
}

// ValidateRecord checks a single record in isolation
func ValidateRecord(r *ToolRecord) error {
	if r.ID <= 0 {
		return fmt.Errorf("id must be positive, got %d", r.ID)
	}

	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.TrimSpace(r.Name) != r.Name {
		return fmt.Errorf("name %q has leading/trailing whitespace", r.Name)
	}

	if len(r.Categories) == 0 {
		return fmt.Errorf("tool %q must have at least one category", r.Name)
	}

	lists := map[string][]string{
		"categories":  r.Categories,
		"use_cases":   r.UseCases,
		"features":    r.Features,
		"limitations": r.Limitations,
	}
	for field, values := range lists {
		if err := validateList(values); err != nil {
			return fmt.Errorf("tool %q has invalid %s: %w", r.Name, field, err)
		}
	}

	if r.Pricing.StartingPrice < 0 {
		return fmt.Errorf("tool %q has negative starting price %v", r.Name, r.Pricing.StartingPrice)
	}
	if !r.Pricing.PricingModel.Valid() {
		return fmt.Errorf("tool %q has invalid pricing model %q", r.Name, r.Pricing.PricingModel)
	}

	if r.Rating < 0 || r.Rating > maxRating {
		return fmt.Errorf("tool %q has rating %v outside 0-%v", r.Name, r.Rating, maxRating)
	}
	if r.ReviewsCount < 0 {
		return fmt.Errorf("tool %q has negative reviews count", r.Name)
	}

	if !techLevelPattern.MatchString(r.TechLevel) {
		return fmt.Errorf("tool %q has invalid techLevel %q (must look like beginner, intermediate-advanced, ...)", r.Name, r.TechLevel)
	}

	return nil
}

func validateList(values []string) error {
	if len(values) > maxListValues {
		return fmt.Errorf("%d values, maximum allowed is %d", len(values), maxListValues)
	}
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("values cannot be blank")
		}
	}
	return nil
}
