package budget

import (
	"fmt"

	"battery-budget/internal/model"
)

// Engine turns settings, loads and sources into a Result. It keeps no state
// between runs.
type Engine struct {
	// MajorThreshold is the breakdown share below which items fold into
	// "Other". New sets DefaultMajorThreshold; zero keeps every item.
	MajorThreshold float64
}

func New() *Engine { return &Engine{MajorThreshold: DefaultMajorThreshold} }

// Run executes one recompute over a private copy of in.
func (e *Engine) Run(in model.Inputs) *Result {
	in = in.Clone().Normalize()
	s := in.Settings

	rows := LoadEnergies(s, in.Loads)
	standby := StandbyWh(s, in.Loads)
	sources := SourceEnergies(s, in.Sources)
	totals := aggregate(s, rows, standby, sources)

	res := &Result{
		Settings: s,
		Rows:     rows,
		Sources:  sources,
		Totals:   totals,
	}
	if totals.Sizing.NameplateAh == nil {
		res.Unavailable = append(res.Unavailable,
			UnavailableNameplateAh, UnavailableModuleCount, UnavailableModuleLayout)
	}

	res.Series = daySeries(totals)
	soc, ok := ProjectSOC(model.BankFromSettings(s), res.Series.Net)
	if ok {
		res.Series.SOC = soc
	} else {
		res.Unavailable = append(res.Unavailable, UnavailableSOC)
	}
	res.Days = ledgerRows(res.Series)

	threshold := e.threshold()
	res.Breakdown = Breakdown{
		Categories: BuildBreakdown(categoryItems(rows, standby, s.Days), negate(res.Series.Consumption), threshold),
		Sources:    BuildBreakdown(sourceItems(sources, s.Days), res.Series.Generation, threshold),
	}
	return res
}

func (e *Engine) threshold() float64 {
	if e == nil {
		return DefaultMajorThreshold
	}
	return e.MajorThreshold
}

// daySeries spreads the daily figures over the trip. Inputs are daily, so
// every day carries the same generation and consumption.
func daySeries(t Totals) DaySeries {
	n := t.Days
	ds := DaySeries{
		Labels:      make([]string, n),
		Generation:  make([]float64, n),
		Consumption: make([]float64, n),
		Net:         make([]float64, n),
		CumNet:      make([]float64, n),
	}
	cum := 0.0
	for i := 0; i < n; i++ {
		ds.Labels[i] = fmt.Sprintf("Day %d", i+1)
		ds.Generation[i] = t.DailyGenerationWh
		ds.Consumption[i] = t.DailyConsumptionWh
		ds.Net[i] = t.NetWh
		cum += t.NetWh
		ds.CumNet[i] = cum
	}
	return ds
}

func ledgerRows(ds DaySeries) []DayRow {
	out := make([]DayRow, len(ds.Labels))
	for i := range ds.Labels {
		row := DayRow{
			Index:         i,
			Label:         ds.Labels[i],
			GenerationWh:  ds.Generation[i],
			ConsumptionWh: ds.Consumption[i],
			NetWh:         ds.Net[i],
			CumNetWh:      ds.CumNet[i],
			Balance:       model.BalanceFromNetWh(ds.Net[i]),
		}
		if i < len(ds.SOC) {
			v := ds.SOC[i]
			row.SOCPercent = &v
		}
		out[i] = row
	}
	return out
}

func negate(vals []float64) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = -v
	}
	return out
}
