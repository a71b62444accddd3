package recommender

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/prajjawal-kansara/AIdvisor/catalog"
)

func candidateNames(cands []Candidate) []string {
	names := make([]string, 0, len(cands))
	for _, c := range cands {
		names = append(names, c.Tool.Name)
	}
	return names
}

// TestScoreAutomationCategory verifies a category match puts the tool ahead
// of tools with no overlap by the category weight.
func TestScoreAutomationCategory(t *testing.T) {
	c := defaultCatalog(t)
	intent := intentWith(func(i *Intent) {
		i.Intent = "automate business workflows"
		i.Categories = []string{"Automation"}
	})

	ranked := Score(c, intent)
	if len(ranked) == 0 {
		t.Fatal("Score() returned no candidates")
	}

	zapier, _ := c.ByName("Zapier AI")
	chatgpt, _ := c.ByName("ChatGPT")
	zapScore := ScoreTool(zapier, intent)
	otherScore := ScoreTool(chatgpt, intent)
	if zapScore-otherScore < CategoryWeight {
		t.Errorf("Zapier score %d should be at least %d above ChatGPT score %d", zapScore, CategoryWeight, otherScore)
	}

	top := ranked
	if len(top) > 5 {
		top = top[:5]
	}
	found := false
	for _, cand := range top {
		if cand.Tool.Name == "Zapier AI" {
			found = true
		}
	}
	if !found {
		t.Errorf("Zapier AI not in top 5: %v", candidateNames(top))
	}
}

// TestScoreBudgetSignals verifies "$15" adds free tier and price fit to a
// cheap free-tier tool and nothing to an expensive paid one.
func TestScoreBudgetSignals(t *testing.T) {
	cheap := tool(1, "Cheap", "Writing")
	cheap.Pricing = catalog.Pricing{HasFreeTier: true, StartingPrice: 10, PricingModel: catalog.PricingSubscription}
	pricey := tool(2, "Pricey", "Writing")
	pricey.Pricing = catalog.Pricing{HasFreeTier: false, StartingPrice: 50, PricingModel: catalog.PricingSubscription}

	without := DefaultIntent()
	with := intentWith(func(i *Intent) { i.Budget = "$15" })

	if got := ScoreTool(cheap, with) - ScoreTool(cheap, without); got != FreeTierWeight+PriceFitWeight {
		t.Errorf("cheap tool budget contribution = %d, want %d", got, FreeTierWeight+PriceFitWeight)
	}
	if got := ScoreTool(pricey, with) - ScoreTool(pricey, without); got != 0 {
		t.Errorf("pricey tool budget contribution = %d, want 0", got)
	}
}

func TestScoreToolSignals(t *testing.T) {
	rec := catalog.ToolRecord{
		ID:         1,
		Name:       "Sample",
		Categories: []string{"Content Creation", "Writing Assistant"},
		UseCases:   []string{"Blog Writing", "Copywriting"},
		Features:   []string{"Brand Voice", "Templates"},
		Pricing:    catalog.Pricing{HasFreeTier: true, StartingPrice: 20},
		TechLevel:  "beginner-intermediate",
	}

	tests := []struct {
		name   string
		intent Intent
		want   int
	}{
		{"neutral intent", DefaultIntent(), 0},
		{"one category", intentWith(func(i *Intent) { i.Categories = []string{"content"} }), 30},
		{"category matching two tool values", intentWith(func(i *Intent) { i.Categories = []string{"i"} }), 60},
		{"use case pair", intentWith(func(i *Intent) { i.UseCases = []string{"WRITING"} }), 50},
		{"feature", intentWith(func(i *Intent) { i.Features = []string{"brand voice"} }), 20},
		{"tech level", intentWith(func(i *Intent) { i.TechLevel = "Beginner" }), 15},
		{"tech level not specified", intentWith(func(i *Intent) { i.TechLevel = "Not Specified" }), 0},
		{"blank values never match", intentWith(func(i *Intent) {
			i.Categories = []string{"", "  "}
			i.Features = []string{""}
			i.TechLevel = " "
		}), 0},
		{"budget below price keeps free tier", intentWith(func(i *Intent) { i.Budget = "10 dollars" }), 10},
		{"budget above price", intentWith(func(i *Intent) { i.Budget = "$1,000" }), 25},
		{"budget without digits", intentWith(func(i *Intent) { i.Budget = "cheap" }), 0},
		{"no overlap", intentWith(func(i *Intent) { i.Categories = []string{"Video"} }), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreTool(rec, tt.intent); got != tt.want {
				t.Errorf("ScoreTool() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseBudget(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"$15", 15, true},
		{"$1,500/month", 1500, true},
		{"under 20 per month", 20, true},
		{"10-50", 1050, true},
		{"not specified", 0, false},
		{"", 0, false},
		{"99999999999999999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseBudget(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseBudget(%q) = %d, %v, want %d, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// TestScoreFallback verifies the first five tools come back in catalog
// order when nothing scores.
func TestScoreFallback(t *testing.T) {
	c := defaultCatalog(t)

	ranked := Score(c, DefaultIntent())
	want := []string{"ChatGPT", "DALL-E", "Midjourney", "GitHub Copilot", "Jasper AI"}
	if diff := cmp.Diff(want, candidateNames(ranked)); diff != "" {
		t.Errorf("Score() fallback mismatch (-want +got):\n%s", diff)
	}
	for _, cand := range ranked {
		if cand.Score != 0 {
			t.Errorf("fallback candidate %s score = %d, want 0", cand.Tool.Name, cand.Score)
		}
	}
}

func TestScoreSmallCatalogFallback(t *testing.T) {
	c := testCatalog(t, tool(1, "One", "A"), tool(2, "Two", "B"))
	ranked := Score(c, DefaultIntent())
	if diff := cmp.Diff([]string{"One", "Two"}, candidateNames(ranked)); diff != "" {
		t.Errorf("Score() mismatch (-want +got):\n%s", diff)
	}
}

func TestScoreNeverEmpty(t *testing.T) {
	c := defaultCatalog(t)
	intents := []Intent{
		DefaultIntent(),
		{},
		intentWith(func(i *Intent) { i.Categories = []string{"nothing matches this"} }),
		intentWith(func(i *Intent) { i.Budget = "0" }),
	}
	for i, in := range intents {
		if got := Score(c, in); len(got) == 0 {
			t.Errorf("intent %d: Score() returned empty list", i)
		}
	}
}

// TestScoreFiltersAndKeepsTieOrder verifies zero scores are dropped and
// equal scores keep catalog order.
func TestScoreFiltersAndKeepsTieOrder(t *testing.T) {
	c := testCatalog(t,
		tool(1, "First", "Video"),
		tool(2, "Second", "Audio"),
		tool(3, "Third", "Video Editing"),
		tool(4, "Fourth", "Video", "Video Editing"),
	)
	intent := intentWith(func(i *Intent) { i.Categories = []string{"video"} })

	ranked := Score(c, intent)
	if diff := cmp.Diff([]string{"Fourth", "First", "Third"}, candidateNames(ranked)); diff != "" {
		t.Errorf("Score() order mismatch (-want +got):\n%s", diff)
	}
	if ranked[0].Score != 60 || ranked[1].Score != 30 {
		t.Errorf("scores = %d, %d, want 60, 30", ranked[0].Score, ranked[1].Score)
	}
}

func TestScoreDeterministic(t *testing.T) {
	c := defaultCatalog(t)
	intent := intentWith(func(i *Intent) {
		i.Categories = []string{"AI", "Generation"}
		i.Features = []string{"API"}
		i.Budget = "$20"
		i.TechLevel = "beginner"
	})

	first := Score(c, intent)
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, Score(c, intent)); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

// TestScoreMonotonicInCategories verifies adding a category raises exactly
// the tools that match it and lowers none.
func TestScoreMonotonicInCategories(t *testing.T) {
	c := defaultCatalog(t)
	base := intentWith(func(i *Intent) { i.Categories = []string{"Image"} })
	extended := intentWith(func(i *Intent) { i.Categories = []string{"Image", "Automation"} })

	for _, rec := range c.All() {
		before := ScoreTool(rec, base)
		after := ScoreTool(rec, extended)
		matches := matchingPairs([]string{"Automation"}, rec.Categories) > 0

		switch {
		case after < before:
			t.Errorf("%s: score decreased from %d to %d", rec.Name, before, after)
		case matches && after <= before:
			t.Errorf("%s: matching tool score did not increase (%d)", rec.Name, after)
		case !matches && after != before:
			t.Errorf("%s: non-matching tool score changed from %d to %d", rec.Name, before, after)
		}
	}
}
