package catalog

import (
	"context"
	"fmt"
	"strings"
)

// Catalog is the ordered, immutable collection of tool records. It is built
// once at startup and shared by every request without locking; all accessors
// hand out copies.
type Catalog struct {
	tools  []ToolRecord
	byID   map[int]int
	byName map[string]int
}

// New validates the records and builds a catalog preserving their order
func New(records []ToolRecord) (*Catalog, error) {
	if err := ValidateRecords(records); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	c := &Catalog{
		tools:  make([]ToolRecord, len(records)),
		byID:   make(map[int]int, len(records)),
		byName: make(map[string]int, len(records)),
	}
	for i, r := range records {
		c.tools[i] = r.clone()
		c.byID[r.ID] = i
		c.byName[r.Name] = i
	}

	return c, nil
}

// Load builds a catalog from everything the store lists
func Load(ctx context.Context, store Store) (*Catalog, error) {
	records, err := store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	return New(records)
}

// Len returns the number of tools
func (c *Catalog) Len() int {
	return len(c.tools)
}

// All returns every tool in catalog order
func (c *Catalog) All() []ToolRecord {
	out := make([]ToolRecord, len(c.tools))
	for i, t := range c.tools {
		out[i] = t.clone()
	}
	return out
}

// Head returns up to n tools from the front of the catalog
func (c *Catalog) Head(n int) []ToolRecord {
	if n > len(c.tools) {
		n = len(c.tools)
	}
	if n < 0 {
		n = 0
	}
	out := make([]ToolRecord, n)
	for i := 0; i < n; i++ {
		out[i] = c.tools[i].clone()
	}
	return out
}

// Get looks a tool up by ID
func (c *Catalog) Get(id int) (ToolRecord, bool) {
	i, ok := c.byID[id]
	if !ok {
		return ToolRecord{}, false
	}
	return c.tools[i].clone(), true
}

// ByName looks a tool up by exact name
func (c *Catalog) ByName(name string) (ToolRecord, bool) {
	i, ok := c.byName[name]
	if !ok {
		return ToolRecord{}, false
	}
	return c.tools[i].clone(), true
}

// ByCategory returns tools with a category containing q (case-insensitive)
func (c *Catalog) ByCategory(q string) []ToolRecord {
	return c.where(func(t *ToolRecord) bool { return anyContains(t.Categories, q) })
}

// ByUseCase returns tools with a use case containing q (case-insensitive)
func (c *Catalog) ByUseCase(q string) []ToolRecord {
	return c.where(func(t *ToolRecord) bool { return anyContains(t.UseCases, q) })
}

// Categories returns the distinct categories in first-seen order
func (c *Catalog) Categories() []string {
	return c.distinct(func(t *ToolRecord) []string { return t.Categories })
}

// Vendors returns the distinct vendors in first-seen order
func (c *Catalog) Vendors() []string {
	return c.distinct(func(t *ToolRecord) []string { return []string{t.Vendor} })
}

func (c *Catalog) where(match func(*ToolRecord) bool) []ToolRecord {
	out := []ToolRecord{}
	for i := range c.tools {
		if match(&c.tools[i]) {
			out = append(out, c.tools[i].clone())
		}
	}
	return out
}

func (c *Catalog) distinct(values func(*ToolRecord) []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for i := range c.tools {
		for _, v := range values(&c.tools[i]) {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// anyContains reports whether any value contains q, ignoring case
func anyContains(values []string, q string) bool {
	q = strings.ToLower(q)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}
