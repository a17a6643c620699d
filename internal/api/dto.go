package api

import (
	"github.com/velikov/donefold/internal/aggservice"
	"github.com/velikov/donefold/internal/history"
)

// AggregateRequest is the request body for POST /aggregate.
type AggregateRequest struct {
	ReportPath string `json:"report_path"`
}

// AggregateResult is the aggregation outcome (aliased from the domain layer).
type AggregateResult = aggservice.Result

// WeekListResponse wraps the week summaries.
type WeekListResponse struct {
	Weeks []history.WeekSummary `json:"weeks"`
}

// ActionListResponse wraps one week's stored actions.
type ActionListResponse struct {
	Actions []history.ActionRow `json:"actions"`
}

// RunListResponse wraps one week's aggregation runs.
type RunListResponse struct {
	Runs []history.RunRow `json:"runs"`
}

// SearchResponse wraps history search results.
type SearchResponse struct {
	Results []history.SearchResult `json:"results"`
}
