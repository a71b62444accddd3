package recommender

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/prajjawal-kansara/AIdvisor/catalog"
)

const intentInstructions = `Analyze the following user request and extract key information. Return ONLY a valid JSON object with these exact fields:

{
  "intent": "primary goal/task they want to accomplish",
  "categories": ["array of AI tool categories needed"],
  "budget": "budget range mentioned or 'not specified'",
  "techLevel": "technical expertise level (beginner/intermediate/advanced) or 'not specified'",
  "useCases": ["array of specific use cases mentioned"],
  "features": ["array of specific features mentioned"],
  "industry": "industry/domain mentioned or 'not specified'",
  "urgency": "timeline mentioned or 'not specified'",
  "preferences": ["any specific preferences mentioned"]
}

Be specific and extract multiple categories/use cases if mentioned. If information isn't provided, use "not specified" or empty arrays.`

const assemblyInstructions = `Provide detailed recommendations in this JSON format:
{
  "recommendations": [
    {
      "toolName": "tool name, exactly as listed above",
      "matchScore": number (0-100),
      "reasoning": "detailed explanation why this tool fits their needs",
      "bestFor": "what this tool excels at for their specific use case",
      "considerations": "important things to keep in mind",
      "recommendedPlan": "which pricing tier to start with",
      "learningCurve": "time investment needed",
      "alternatives": "brief mention of similar tools"
    }
  ],
  "summary": "comprehensive summary of recommendations with key insights",
  "nextSteps": "specific actionable next steps for the user",
  "budgetConsiderations": "budget-related advice",
  "implementationOrder": "suggested order to try/implement these tools"
}

Provide exactly 3-5 tools ranked by relevance. Be detailed and practical.`

// toolSummary is the subset of a ToolRecord forwarded to the oracle.
type toolSummary struct {
	Name        string          `json:"name"`
	Vendor      string          `json:"vendor"`
	Description string          `json:"description"`
	Categories  []string        `json:"categories"`
	UseCases    []string        `json:"use_cases"`
	Pricing     catalog.Pricing `json:"pricing"`
	Features    []string        `json:"features"`
	Limitations []string        `json:"limitations"`
	Rating      float64         `json:"rating"`
	TechLevel   string          `json:"techLevel"`
}

func summarize(candidates []Candidate) []toolSummary {
	out := make([]toolSummary, 0, len(candidates))
	for _, c := range candidates {
		t := c.Tool
		out = append(out, toolSummary{
			Name:        t.Name,
			Vendor:      t.Vendor,
			Description: t.Description,
			Categories:  t.Categories,
			UseCases:    t.UseCases,
			Pricing:     t.Pricing,
			Features:    t.Features,
			Limitations: t.Limitations,
			Rating:      t.Rating,
			TechLevel:   t.TechLevel,
		})
	}
	return out
}

func buildIntentPrompt(userText string) string {
	var sb strings.Builder
	sb.WriteString("User Request: ")
	sb.WriteString(strconv.Quote(userText))
	sb.WriteString("\n\n")
	sb.WriteString(intentInstructions)
	return sb.String()
}

func buildAssemblyPrompt(userText string, intent Intent, tools []toolSummary) (string, error) {
	intentJSON, err := json.Marshal(intent)
	if err != nil {
		return "", err
	}
	toolsJSON, err := json.Marshal(tools)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("Based on the user request: ")
	sb.WriteString(strconv.Quote(userText))
	sb.WriteString("\n\nAnd extracted intent: ")
	sb.Write(intentJSON)
	sb.WriteString("\n\nFrom these AI tools: ")
	sb.Write(toolsJSON)
	sb.WriteString("\n\n")
	sb.WriteString(assemblyInstructions)
	return sb.String(), nil
}
