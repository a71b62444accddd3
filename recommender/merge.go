package recommender

import "github.com/prajjawal-kansara/AIdvisor/catalog"

// Merge attaches catalog details to each item by exact tool name. Items
// without a match are kept with nil details and counted in misses. Order is
// preserved.
func Merge(c *catalog.Catalog, items []RecommendationItem) (merged []RecommendationItem, misses int) {
	merged = make([]RecommendationItem, 0, len(items))
	for _, item := range items {
		if tool, ok := c.ByName(item.ToolName); ok {
			item.ToolDetails = tool.Details()
		} else {
			item.ToolDetails = nil
			misses++
		}
		merged = append(merged, item)
	}
	return merged, misses
}
