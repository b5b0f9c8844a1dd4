package budget

import "battery-budget/internal/model"

// DayRow is one day of the projection.
type DayRow struct {
	Index int
	Label string

	GenerationWh  float64
	ConsumptionWh float64
	NetWh         float64
	CumNetWh      float64

	// SOCPercent is nil when the installed bank is unknown.
	SOCPercent *float64
	Balance    model.Balance
}

// DaySeries is the ledger in column form for charting.
type DaySeries struct {
	Labels      []string
	Generation  []float64
	Consumption []float64
	Net         []float64
	CumNet      []float64
	SOC         []float64
}

// Keys reported in Result.Unavailable.
const (
	UnavailableNameplateAh  = "nameplate_ah"
	UnavailableModuleCount  = "module_count"
	UnavailableModuleLayout = "module_layout"
	UnavailableSOC          = "soc"
)

// Result is the output model of one recompute.
type Result struct {
	// Settings are the normalized settings the figures were computed with.
	Settings model.Settings

	Rows    []RowEnergy
	Sources []SourceEnergy
	Totals  Totals

	Days      []DayRow
	Series    DaySeries
	Breakdown Breakdown

	Unavailable []string
}

// IsAvailable reports whether key is absent from Unavailable.
func (r *Result) IsAvailable(key string) bool {
	for _, k := range r.Unavailable {
		if k == key {
			return false
		}
	}
	return true
}
