package recommender

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/prajjawal-kansara/AIdvisor/catalog"
	"github.com/prajjawal-kansara/AIdvisor/oracle"
)

const (
	assemblyTemperature = 0.3
	assemblyMaxTokens   = 1500
)

// Advisory text used when no recommendations could be assembled.
const (
	FallbackSummary              = "I couldn't generate specific recommendations, but the filtered tools should be helpful."
	FallbackNextSteps            = "Try refining your requirements or ask for more specific help."
	FallbackBudgetConsiderations = "Consider free tiers first to test functionality."
	FallbackImplementationOrder  = "Start with the highest-rated tools that match your use case."
)

// RecommendationItem is one ranked recommendation. ToolDetails is filled
// by Merge and stays nil when the name is not in the catalog.
type RecommendationItem struct {
	ToolName        string               `json:"toolName"`
	MatchScore      float64              `json:"matchScore"`
	Reasoning       string               `json:"reasoning"`
	BestFor         string               `json:"bestFor"`
	Considerations  string               `json:"considerations"`
	RecommendedPlan string               `json:"recommendedPlan,omitempty"`
	LearningCurve   string               `json:"learningCurve,omitempty"`
	Alternatives    string               `json:"alternatives,omitempty"`
	ToolDetails     *catalog.ToolDetails `json:"toolDetails"`
}

// Assembly is the narrative answer built from the top candidates.
type Assembly struct {
	Recommendations      []RecommendationItem `json:"recommendations"`
	Summary              string               `json:"summary"`
	NextSteps            string               `json:"nextSteps"`
	BudgetConsiderations string               `json:"budgetConsiderations"`
	ImplementationOrder  string               `json:"implementationOrder"`
}

// FallbackAssembly is the empty result returned whenever assembly fails.
func FallbackAssembly() Assembly {
	return Assembly{
		Recommendations:      []RecommendationItem{},
		Summary:              FallbackSummary,
		NextSteps:            FallbackNextSteps,
		BudgetConsiderations: FallbackBudgetConsiderations,
		ImplementationOrder:  FallbackImplementationOrder,
	}
}

const assemblySchema = `{
	"type": "object",
	"properties": {
		"recommendations": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"toolName":        {"type": "string", "minLength": 1},
					"matchScore":      {"type": ["number", "null"]},
					"reasoning":       {"type": ["string", "null"]},
					"bestFor":         {"type": ["string", "null"]},
					"considerations":  {"type": ["string", "null"]},
					"recommendedPlan": {"type": ["string", "null"]},
					"learningCurve":   {"type": ["string", "null"]},
					"alternatives":    {"type": ["string", "null"]}
				},
				"required": ["toolName"]
			}
		},
		"summary":              {"type": ["string", "null"]},
		"nextSteps":            {"type": ["string", "null"]},
		"budgetConsiderations": {"type": ["string", "null"]},
		"implementationOrder":  {"type": ["string", "null"]}
	},
	"required": ["recommendations"]
}`

var assemblyDecoder = oracle.MustDecoder("assembly", assemblySchema)

// Assembler asks the oracle to rank and explain the top candidates.
type Assembler struct {
	oracle        oracle.Oracle
	timeout       time.Duration
	topCandidates int
}

// NewAssembler creates an assembler forwarding at most topCandidates tools
// (5 when zero or negative).
func NewAssembler(o oracle.Oracle, timeout time.Duration, topCandidates int) *Assembler {
	if topCandidates <= 0 {
		topCandidates = FallbackSize
	}
	return &Assembler{oracle: o, timeout: timeout, topCandidates: topCandidates}
}

// Assemble never fails: on transport or decode failure it returns
// FallbackAssembly tagged with the matching outcome.
func (a *Assembler) Assemble(ctx context.Context, userText string, intent Intent, candidates []Candidate) Result[Assembly] {
	top := candidates
	if len(top) > a.topCandidates {
		top = top[:a.topCandidates]
	}

	prompt, err := buildAssemblyPrompt(userText, intent, summarize(top))
	if err != nil {
		return Fallback(FallbackAssembly(), fmt.Errorf("building assembly prompt: %w", err))
	}

	callCtx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.oracle.Complete(callCtx, oracle.Request{
		Prompt:      prompt,
		Temperature: assemblyTemperature,
		MaxTokens:   assemblyMaxTokens,
	})
	if err != nil {
		return Failed(FallbackAssembly(), err)
	}

	var assembly Assembly
	if err := assemblyDecoder.Decode(raw, &assembly); err != nil {
		return Fallback(FallbackAssembly(), err)
	}
	return Ok(assembly.normalize())
}

func (a Assembly) normalize() Assembly {
	items := make([]RecommendationItem, 0, len(a.Recommendations))
	for _, item := range a.Recommendations {
		item.MatchScore = clampScore(item.MatchScore)
		item.ToolDetails = nil
		items = append(items, item)
	}
	a.Recommendations = items

	a.Summary = orDefault(a.Summary, FallbackSummary)
	a.NextSteps = orDefault(a.NextSteps, FallbackNextSteps)
	a.BudgetConsiderations = orDefault(a.BudgetConsiderations, FallbackBudgetConsiderations)
	a.ImplementationOrder = orDefault(a.ImplementationOrder, FallbackImplementationOrder)
	return a
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}
