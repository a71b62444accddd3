package recommender

import (
	"sort"
	"strconv"
	"strings"

	"github.com/prajjawal-kansara/AIdvisor/catalog"
)

// Signal weights.
const (
	CategoryWeight  = 30
	UseCaseWeight   = 25
	TechLevelWeight = 15
	FeatureWeight   = 20
	FreeTierWeight  = 10
	PriceFitWeight  = 15
)

// FallbackSize is how many catalog entries are returned when nothing
// scores above zero.
const FallbackSize = 5

// Candidate is a catalog tool with its accumulated score.
type Candidate struct {
	Tool  catalog.ToolRecord
	Score int
}

// Score ranks the catalog against intent. The result is ordered by score,
// highest first, with ties kept in catalog order. Only positive scores are
// kept; if none are, the first FallbackSize tools are returned with score
// zero. The result is empty only for an empty catalog.
func Score(c *catalog.Catalog, intent Intent) []Candidate {
	tools := c.All()
	scored := make([]Candidate, 0, len(tools))
	for _, tool := range tools {
		scored = append(scored, Candidate{Tool: tool, Score: ScoreTool(tool, intent)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	ranked := make([]Candidate, 0, len(scored))
	for _, cand := range scored {
		if cand.Score > 0 {
			ranked = append(ranked, cand)
		}
	}
	if len(ranked) > 0 {
		return ranked
	}

	head := c.Head(FallbackSize)
	fallback := make([]Candidate, 0, len(head))
	for _, tool := range head {
		fallback = append(fallback, Candidate{Tool: tool})
	}
	return fallback
}

// ScoreTool sums every signal for a single tool.
func ScoreTool(tool catalog.ToolRecord, intent Intent) int {
	score := CategoryWeight * matchingPairs(intent.Categories, tool.Categories)
	score += UseCaseWeight * matchingPairs(intent.UseCases, tool.UseCases)
	score += FeatureWeight * matchingPairs(intent.Features, tool.Features)

	if isSpecified(intent.TechLevel) && containsFold(tool.TechLevel, intent.TechLevel) {
		score += TechLevelWeight
	}

	if budget, ok := ParseBudget(intent.Budget); ok {
		if tool.Pricing.HasFreeTier {
			score += FreeTierWeight
		}
		if float64(budget) >= tool.Pricing.StartingPrice {
			score += PriceFitWeight
		}
	}

	return score
}

// ParseBudget keeps only the digits of s and reads them as an integer.
// "$1,500/month" parses to 1500; text without digits does not parse.
func ParseBudget(s string) (int, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// matchingPairs counts (wanted, have) pairs where have contains wanted,
// ignoring case. Blank wanted values never match.
func matchingPairs(wanted, have []string) int {
	n := 0
	for _, w := range wanted {
		if strings.TrimSpace(w) == "" {
			continue
		}
		for _, h := range have {
			if containsFold(h, w) {
				n++
			}
		}
	}
	return n
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}
