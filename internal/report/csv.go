package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"battery-budget/internal/budget"
	"battery-budget/internal/model"
)

func loadHeader(unit model.Unit) []string {
	return []string{
		"index",
		"name",
		"category",
		"type",
		"entry",
		"value",
		"hours_anchor",
		"hours_underway",
		"duty_pct",
		"qty",
		column("anchor", unit),
		column("underway", unit),
		column("daily", unit),
	}
}

func loadRows(in model.Inputs, res *budget.Result, unit model.Unit) [][]string {
	v := res.Settings.Voltage
	out := make([][]string, 0, len(res.Rows))
	for _, r := range res.Rows {
		row := in.Loads[r.Index]
		out = append(out, []string{
			strconv.Itoa(r.Index + 1),
			row.Name,
			string(row.Category),
			string(row.Type),
			string(row.Entry),
			fmtFloat(row.Value),
			fmtFloat(row.HoursAnchor),
			fmtFloat(row.HoursUnderway),
			fmtFloat(row.Duty),
			strconv.Itoa(row.Quantity),
			energyCell(r.AnchorWh, v, unit),
			energyCell(r.UnderwayWh, v, unit),
			energyCell(r.DailyWh(), v, unit),
		})
	}
	return out
}

// summaryRows are metric/display pairs in the requested unit.
func summaryRows(res *budget.Result, unit model.Unit) [][]string {
	t := res.Totals
	v := res.Settings.Voltage
	e := func(wh float64) string { return FormatEnergy(wh, v, unit) }

	nameplateAh := NotAvailable
	if t.Sizing.NameplateAh != nil {
		nameplateAh = fmt.Sprintf("%.1f Ah", *t.Sizing.NameplateAh)
	}
	layout := t.Sizing.ModuleLayout
	if layout == "" {
		layout = NotAvailable
	}
	finalSOC := NotAvailable
	if n := len(res.Days); n > 0 && res.Days[n-1].SOCPercent != nil {
		finalSOC = fmt.Sprintf("%.0f%%", *res.Days[n-1].SOCPercent)
	}

	return [][]string{
		{"metric", "value"},
		{"daily_consumption", e(t.DailyConsumptionWh)},
		{"anchor", e(t.AnchorWh)},
		{"underway", e(t.UnderwayWh)},
		{"inverter_standby", e(t.StandbyWh)},
		{"daily_generation", e(t.DailyGenerationWh)},
		{"daily_net", e(t.NetWh)},
		{"balance", string(model.BalanceFromNetWh(t.NetWh))},
		{"days", strconv.Itoa(t.Days)},
		{"trip_consumption", e(t.TripConsumptionWh)},
		{"trip_generation", e(t.TripGenerationWh)},
		{"trip_net", e(t.TripNetWh)},
		{"with_reserve", e(t.Sizing.WithReserveWh)},
		{"nameplate", e(t.Sizing.NameplateWh)},
		{"nameplate_ah", nameplateAh},
		{"module_layout", layout},
		{"actual_usable_bank", e(t.Sizing.ActualUsableBankWh)},
		{"final_soc", finalSOC},
	}
}

// WriteBudgetCSV writes the loads table followed by a blank line and the
// summary block.
func WriteBudgetCSV(w io.Writer, in model.Inputs, res *budget.Result, unit model.Unit) error {
	in = in.Clone().Normalize()
	cw := csv.NewWriter(w)

	if err := cw.Write(loadHeader(unit)); err != nil {
		return err
	}
	if err := cw.WriteAll(loadRows(in, res, unit)); err != nil {
		return err
	}
	if err := cw.Write([]string{}); err != nil {
		return err
	}
	if err := cw.WriteAll(summaryRows(res, unit)); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func dayHeader(unit model.Unit) []string {
	return []string{
		"day",
		"label",
		column("generation", unit),
		column("consumption", unit),
		column("net", unit),
		column("cum_net", unit),
		"soc_pct",
		"balance",
	}
}

func dayRows(res *budget.Result, unit model.Unit) [][]string {
	v := res.Settings.Voltage
	out := make([][]string, 0, len(res.Days))
	for _, d := range res.Days {
		soc := ""
		if d.SOCPercent != nil {
			soc = fmtFloat(*d.SOCPercent)
		}
		out = append(out, []string{
			strconv.Itoa(d.Index + 1),
			d.Label,
			energyCell(d.GenerationWh, v, unit),
			energyCell(d.ConsumptionWh, v, unit),
			energyCell(d.NetWh, v, unit),
			energyCell(d.CumNetWh, v, unit),
			soc,
			string(d.Balance),
		})
	}
	return out
}

// WriteDaysCSV writes the per-day ledger.
func WriteDaysCSV(w io.Writer, res *budget.Result, unit model.Unit) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(dayHeader(unit)); err != nil {
		return err
	}
	if err := cw.WriteAll(dayRows(res, unit)); err != nil {
		return err
	}
	return cw.Error()
}
