package recommender

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestMergeKeepsUnknownTools verifies unmatched names stay in place with
// nil details.
func TestMergeKeepsUnknownTools(t *testing.T) {
	c := defaultCatalog(t)
	items := []RecommendationItem{
		{ToolName: "Claude", MatchScore: 90},
		{ToolName: "Notion AI", MatchScore: 80},
		{ToolName: "chatgpt", MatchScore: 70},
		{ToolName: "Zapier AI", MatchScore: 60},
	}

	merged, misses := Merge(c, items)

	names := make([]string, 0, len(merged))
	for _, item := range merged {
		names = append(names, item.ToolName)
	}
	if diff := cmp.Diff([]string{"Claude", "Notion AI", "chatgpt", "Zapier AI"}, names); diff != "" {
		t.Errorf("Merge() order mismatch (-want +got):\n%s", diff)
	}
	if misses != 2 {
		t.Errorf("misses = %d, want 2", misses)
	}

	if merged[0].ToolDetails == nil || merged[0].ToolDetails.Vendor != "Anthropic" {
		t.Errorf("Claude details = %+v, want vendor Anthropic", merged[0].ToolDetails)
	}
	if merged[1].ToolDetails != nil {
		t.Errorf("unknown tool details = %+v, want nil", merged[1].ToolDetails)
	}
	if merged[2].ToolDetails != nil {
		t.Error("name matching should be exact")
	}

	zapier, _ := c.ByName("Zapier AI")
	if diff := cmp.Diff(zapier.Details(), merged[3].ToolDetails); diff != "" {
		t.Errorf("Zapier details mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeEmpty(t *testing.T) {
	merged, misses := Merge(defaultCatalog(t), nil)
	if merged == nil || len(merged) != 0 || misses != 0 {
		t.Errorf("Merge(nil) = %#v, %d, want empty list and 0 misses", merged, misses)
	}
}
