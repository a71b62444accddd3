package catalog

import (
	"fmt"

	"github.com/google/cel-go/cel"
)

// filterCostLimit bounds evaluation cost so a hostile expression cannot spin
const filterCostLimit = 1000000

// Filter evaluates CEL expressions over catalog records. Each record is bound
// to the variable `tool` with the same field names as its JSON form, e.g.
//
//	tool.pricing.has_free_tier && tool.rating >= 4.5
//	"Image Generation" in tool.categories
type Filter struct {
	env   *cel.Env
	cache ProgramCache
}

// NewFilter creates a filter with its own compiled-program cache
func NewFilter(cache ProgramCache) (*Filter, error) {
	env, err := cel.NewEnv(
		cel.Variable("tool", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	if cache == nil {
		cache = NewInMemoryProgramCache(DefaultCacheConfig())
	}

	return &Filter{env: env, cache: cache}, nil
}

// Compile compiles and type-checks an expression; results are cached
func (f *Filter) Compile(expression string) (cel.Program, error) {
	if prog, ok := f.cache.Get(expression); ok {
		return prog, nil
	}

	ast, issues := f.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}

	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("filter must evaluate to bool, got %s", out)
	}

	prog, err := f.env.Program(ast, cel.CostLimit(filterCostLimit))
	if err != nil {
		return nil, fmt.Errorf("program creation error: %w", err)
	}

	f.cache.Set(expression, prog)
	return prog, nil
}

// CachedPrograms reports how many compiled expressions are live in the cache
func (f *Filter) CachedPrograms() int {
	return f.cache.Len()
}

// Apply returns the catalog records matching expression, in catalog order.
// Non-boolean results count as no match.
func (f *Filter) Apply(c *Catalog, expression string) ([]ToolRecord, error) {
	prog, err := f.Compile(expression)
	if err != nil {
		return nil, err
	}

	matched := []ToolRecord{}
	for i := range c.tools {
		out, _, err := prog.Eval(map[string]any{"tool": activation(&c.tools[i])})
		if err != nil {
			return nil, fmt.Errorf("evaluating filter on %q: %w", c.tools[i].Name, err)
		}
		if ok, isBool := out.Value().(bool); isBool && ok {
			matched = append(matched, c.tools[i].clone())
		}
	}
	return matched, nil
}

// activation mirrors the record's JSON field names
func activation(t *ToolRecord) map[string]any {
	return map[string]any{
		"id":          int64(t.ID),
		"name":        t.Name,
		"vendor":      t.Vendor,
		"description": t.Description,
		"categories":  t.Categories,
		"use_cases":   t.UseCases,
		"pricing": map[string]any{
			"has_free_tier":  t.Pricing.HasFreeTier,
			"starting_price": t.Pricing.StartingPrice,
			"pricing_model":  string(t.Pricing.PricingModel),
		},
		"features":              t.Features,
		"limitations":           t.Limitations,
		"api_available":         t.APIAvailable,
		"rating":                t.Rating,
		"reviews_count":         int64(t.ReviewsCount),
		"average_response_time": t.AverageResponseTime,
		"techLevel":             t.TechLevel,
	}
}
