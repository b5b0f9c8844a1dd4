package models

import (
	"time"

	"battery-budget/internal/snapshot"
)

// BudgetResponse is the result of one recompute.
type BudgetResponse struct {
	Unit        string             `json:"unit"`
	Warnings    []string           `json:"warnings,omitempty"`
	Summary     BudgetSummary      `json:"summary"`
	Display     map[string]string  `json:"display"` // summary figures formatted in Unit
	Loads       []LoadEnergyInfo   `json:"loads"`
	Sources     []SourceEnergyInfo `json:"sources"`
	Series      DaySeriesInfo      `json:"series"`
	Breakdown   *BreakdownInfo     `json:"breakdown,omitempty"`
	Days        []DayInfo          `json:"days,omitempty"`
	Unavailable []string           `json:"unavailable"`
}

// BudgetSummary holds the aggregate figures in Wh.
type BudgetSummary struct {
	AnchorWh           float64 `json:"anchor_wh"`
	UnderwayWh         float64 `json:"underway_wh"`
	StandbyWh          float64 `json:"standby_wh"`
	DailyConsumptionWh float64 `json:"daily_consumption_wh"`
	DailyGenerationWh  float64 `json:"daily_generation_wh"`
	NetWh              float64 `json:"net_wh"`
	Balance            string  `json:"balance"` // "SURPLUS", "NEUTRAL", "DEFICIT"

	Days              int     `json:"days"`
	TripConsumptionWh float64 `json:"trip_consumption_wh"`
	TripGenerationWh  float64 `json:"trip_generation_wh"`
	TripNetWh         float64 `json:"trip_net_wh"`

	WithReserveWh      float64  `json:"with_reserve_wh"`
	NameplateWh        float64  `json:"nameplate_wh"`
	NameplateAh        *float64 `json:"nameplate_ah"`
	ModuleCount        *int     `json:"module_count"`
	ModuleLayout       string   `json:"module_layout,omitempty"`
	ActualUsableBankWh float64  `json:"actual_usable_bank_wh"`
	FinalSOC           *float64 `json:"final_soc_pct"`
}

// LoadEnergyInfo is the per-row energy of one load.
type LoadEnergyInfo struct {
	Index      int     `json:"index"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	AnchorWh   float64 `json:"anchor_wh"`
	UnderwayWh float64 `json:"underway_wh"`
	DailyWh    float64 `json:"daily_wh"`
}

// SourceEnergyInfo is the daily output of one source, quantity included.
type SourceEnergyInfo struct {
	Index   int     `json:"index"`
	ID      string  `json:"id,omitempty"`
	Label   string  `json:"label"`
	Kind    string  `json:"kind"`
	DailyWh float64 `json:"daily_wh"`
}

// DaySeriesInfo is the day ledger in column form, in Wh and percent.
type DaySeriesInfo struct {
	Labels      []string  `json:"labels"`
	Generation  []float64 `json:"generation"`
	Consumption []float64 `json:"consumption"`
	Net         []float64 `json:"net"`
	CumNet      []float64 `json:"cum_net"`
	SOC         []float64 `json:"soc,omitempty"`
}

type BreakdownInfo struct {
	Categories []BreakdownEntryInfo `json:"categories"`
	Sources    []BreakdownEntryInfo `json:"sources"`
}

type BreakdownEntryInfo struct {
	Label   string    `json:"label"`
	Series  []float64 `json:"series"`
	DayPct  []float64 `json:"day_pct"`
	Share   float64   `json:"share"`
	IsOther bool      `json:"is_other,omitempty"`
}

type DayInfo struct {
	Day           int      `json:"day"`
	Label         string   `json:"label"`
	GenerationWh  float64  `json:"generation_wh"`
	ConsumptionWh float64  `json:"consumption_wh"`
	NetWh         float64  `json:"net_wh"`
	CumNetWh      float64  `json:"cum_net_wh"`
	SOCPercent    *float64 `json:"soc_pct"`
	Balance       string   `json:"balance"`
}

// PlanResponse is a stored plan with its computed budget.
type PlanResponse struct {
	Plan     *snapshot.Document `json:"plan"`
	Budget   *BudgetResponse    `json:"budget,omitempty"`
	Repaired bool               `json:"repaired,omitempty"`
}

type PlanListResponse struct {
	Plans []snapshot.Meta `json:"plans"`
}

// PresetInfo describes a plan preset file.
type PresetInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	File        string    `json:"file"`
	Voltage     float64   `json:"voltage"`
	Chemistry   string    `json:"chemistry"`
	LoadCount   int       `json:"load_count"`
	SourceCount int       `json:"source_count"`
	ModTime     time.Time `json:"mod_time"`
}

// ReferenceResponse lists the enumerations and clamp ranges of the model.
type ReferenceResponse struct {
	Chemistries []ChemistryInfo  `json:"chemistries"`
	Categories  []string         `json:"categories"`
	LoadTypes   []string         `json:"load_types"`
	EntryModes  []string         `json:"entry_modes"`
	SourceKinds []SourceKindInfo `json:"source_kinds"`
	Units       []string         `json:"units"`
	Ranges      map[string]Range `json:"ranges"`
	Defaults    map[string]any   `json:"defaults"`
}

type ChemistryInfo struct {
	Name       string  `json:"name"`
	DefaultDoD float64 `json:"default_dod"`
}

type SourceKindInfo struct {
	Kind        string          `json:"kind"`
	Description string          `json:"description"`
	Fields      []ParameterInfo `json:"fields"`
}

// ParameterInfo describes a source field.
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "int"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

type Range struct {
	Min float64  `json:"min"`
	Max *float64 `json:"max,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
