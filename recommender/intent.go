package recommender

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prajjawal-kansara/AIdvisor/oracle"
)

// NotSpecified is the sentinel for string fields the user did not mention.
const NotSpecified = "not specified"

// Intent is the structured reading of a user's request.
type Intent struct {
	Intent      string   `json:"intent"`
	Categories  []string `json:"categories"`
	UseCases    []string `json:"useCases"`
	TechLevel   string   `json:"techLevel"`
	Budget      string   `json:"budget"`
	Features    []string `json:"features"`
	Industry    string   `json:"industry"`
	Urgency     string   `json:"urgency"`
	Preferences []string `json:"preferences"`
}

// DefaultIntent returns the neutral intent used when the oracle reply
// cannot be decoded.
func DefaultIntent() Intent {
	return Intent{
		Intent:      NotSpecified,
		Categories:  []string{},
		UseCases:    []string{},
		TechLevel:   NotSpecified,
		Budget:      NotSpecified,
		Features:    []string{},
		Industry:    NotSpecified,
		Urgency:     NotSpecified,
		Preferences: []string{},
	}
}

// UnmarshalJSON accepts budget as a string or a bare number.
func (i *Intent) UnmarshalJSON(data []byte) error {
	type plain Intent
	var raw struct {
		plain
		Budget json.RawMessage `json:"budget"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	budget, err := budgetText(raw.Budget)
	if err != nil {
		return err
	}
	*i = Intent(raw.plain)
	i.Budget = budget
	return nil
}

func budgetText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("budget: %w", err)
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("budget must be a string or a number: %w", err)
	}
	return n.String(), nil
}

// Normalize fills missing strings with NotSpecified and missing lists with
// empty slices. Values are trimmed; blank list entries are dropped.
func (i Intent) Normalize() Intent {
	return Intent{
		Intent:      orNotSpecified(i.Intent),
		Categories:  cleanList(i.Categories),
		UseCases:    cleanList(i.UseCases),
		TechLevel:   orNotSpecified(i.TechLevel),
		Budget:      orNotSpecified(i.Budget),
		Features:    cleanList(i.Features),
		Industry:    orNotSpecified(i.Industry),
		Urgency:     orNotSpecified(i.Urgency),
		Preferences: cleanList(i.Preferences),
	}
}

func orNotSpecified(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotSpecified
	}
	return s
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func isSpecified(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && !strings.EqualFold(s, NotSpecified)
}

// Nullable members are accepted so a model answering null instead of
// omitting a field still decodes.
const intentSchema = `{
	"type": "object",
	"properties": {
		"intent":      {"type": ["string", "null"]},
		"categories":  {"type": ["array", "null"], "items": {"type": "string"}},
		"useCases":    {"type": ["array", "null"], "items": {"type": "string"}},
		"techLevel":   {"type": ["string", "null"]},
		"budget":      {"type": ["string", "number", "null"]},
		"features":    {"type": ["array", "null"], "items": {"type": "string"}},
		"industry":    {"type": ["string", "null"]},
		"urgency":     {"type": ["string", "null"]},
		"preferences": {"type": ["array", "null"], "items": {"type": "string"}}
	}
}`

var intentDecoder = oracle.MustDecoder("intent", intentSchema)
