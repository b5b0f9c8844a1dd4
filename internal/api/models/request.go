package models

import "battery-budget/internal/snapshot"

// BudgetRequest is the body of POST /api/v1/budget and /budget/export.
type BudgetRequest struct {
	Plan    snapshot.Document `json:"plan"`
	Options BudgetOptions     `json:"options,omitempty"`
}

// NewBudgetRequest returns a request prefilled with plan defaults, ready
// for binding.
func NewBudgetRequest() BudgetRequest {
	return BudgetRequest{Plan: *snapshot.NewDocument()}
}

// BudgetOptions controls what a budget response carries.
type BudgetOptions struct {
	Unit             string   `json:"unit,omitempty"`      // "wh" (default) or "ah"
	Threshold        *float64 `json:"threshold,omitempty"` // breakdown fold-in share, default 0.10; 0 keeps every item
	IncludeBreakdown bool     `json:"include_breakdown,omitempty"`
	IncludeDays      bool     `json:"include_days,omitempty"`
}

// ExportQuery is the query string of POST /api/v1/budget/export.
type ExportQuery struct {
	Format string `form:"format"` // csv (default), xlsx, days
	Unit   string `form:"unit"`
}

// ImportQuery is the query string of POST /api/v1/plans/import.
type ImportQuery struct {
	Format string `form:"format"` // json (default) or hjson
	Name   string `form:"name"`
}
