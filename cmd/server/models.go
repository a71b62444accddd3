package main

import (
	"time"

	"github.com/prajjawal-kansara/AIdvisor/catalog"
	"github.com/prajjawal-kansara/AIdvisor/recommender"
)

// API request and response models

// RecommendRequest is the body of POST /api/recommend
type RecommendRequest struct {
	UserPrompt string `json:"userPrompt"`
}

// RecommendResponse is a completed recommendation
type RecommendResponse struct {
	Success              bool                             `json:"success"`
	RequestID            string                           `json:"requestId"`
	UserIntent           recommender.Intent               `json:"userIntent"`
	Recommendations      []recommender.RecommendationItem `json:"recommendations"`
	Summary              string                           `json:"summary"`
	NextSteps            string                           `json:"nextSteps"`
	BudgetConsiderations string                           `json:"budgetConsiderations"`
	ImplementationOrder  string                           `json:"implementationOrder"`
	TotalToolsConsidered int                              `json:"totalToolsConsidered"`
	ProcessingTime       time.Time                        `json:"processingTime"`
}

func newRecommendResponse(resp *recommender.Response) RecommendResponse {
	return RecommendResponse{
		Success:              true,
		RequestID:            resp.RequestID,
		UserIntent:           resp.Intent,
		Recommendations:      resp.Recommendations,
		Summary:              resp.Summary,
		NextSteps:            resp.NextSteps,
		BudgetConsiderations: resp.BudgetConsiderations,
		ImplementationOrder:  resp.ImplementationOrder,
		TotalToolsConsidered: resp.TotalToolsConsidered,
		ProcessingTime:       resp.ProcessedAt,
	}
}

// ToolsListResponse is returned by GET /api/tools
type ToolsListResponse struct {
	Success    bool                 `json:"success"`
	Tools      []catalog.ToolRecord `json:"tools"`
	Total      int                  `json:"total"`
	Categories []string             `json:"categories"`
	Vendors    []string             `json:"vendors"`
	Filter     string               `json:"filter,omitempty"`
}

// ToolResponse wraps a single tool
type ToolResponse struct {
	Success bool               `json:"success"`
	Tool    catalog.ToolRecord `json:"tool"`
}

// ToolsByCategoryResponse is returned by GET /api/tools/category/{category}
type ToolsByCategoryResponse struct {
	Success  bool                 `json:"success"`
	Tools    []catalog.ToolRecord `json:"tools"`
	Total    int                  `json:"total"`
	Category string               `json:"category"`
}

// ToolsByUseCaseResponse is returned by GET /api/tools/usecase/{usecase}
type ToolsByUseCaseResponse struct {
	Success bool                 `json:"success"`
	Tools   []catalog.ToolRecord `json:"tools"`
	Total   int                  `json:"total"`
	UseCase string               `json:"usecase"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Success       bool             `json:"success"`
	Status        string           `json:"status"`
	Message       string           `json:"message"`
	Timestamp     time.Time        `json:"timestamp"`
	Version       string           `json:"version"`
	CatalogSize   int              `json:"catalogSize"`
	CachedFilters int              `json:"cachedFilters"`
	Counters      map[string]int64 `json:"counters"`
	Error         string           `json:"error,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool             `json:"success"`
	Error   string           `json:"error"`
	Code    recommender.Code `json:"code"`
	Details string           `json:"details,omitempty"`
}
