package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"battery-budget/internal/budget"
	"battery-budget/internal/model"
)

// Workbook sheet names, in order.
const (
	SheetLoads   = "Loads"
	SheetSources = "Sources"
	SheetDays    = "Days"
	SheetSummary = "Summary"
)

// WriteXLSX writes a workbook with one sheet per table. Numeric cells are
// stored as numbers; unavailable figures are left blank.
func WriteXLSX(w io.Writer, in model.Inputs, res *budget.Result, unit model.Unit) error {
	in = in.Clone().Normalize()
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetLoads); err != nil {
		return err
	}
	for _, name := range []string{SheetSources, SheetDays, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	v := res.Settings.Voltage
	cell := func(wh float64) any {
		x, ok := model.ToDisplayUnit(wh, v, unit)
		if !ok {
			return ""
		}
		return x
	}

	loads := [][]any{toAny(loadHeader(unit))}
	for _, r := range res.Rows {
		row := in.Loads[r.Index]
		loads = append(loads, []any{
			r.Index + 1, row.Name, string(row.Category), string(row.Type), string(row.Entry),
			row.Value, row.HoursAnchor, row.HoursUnderway, row.Duty, row.Quantity,
			cell(r.AnchorWh), cell(r.UnderwayWh), cell(r.DailyWh()),
		})
	}

	sources := [][]any{{"index", "name", "kind", "qty", column("daily", unit)}}
	for _, s := range res.Sources {
		sources = append(sources, []any{
			s.Index + 1, s.Label(), string(s.Kind), in.Sources[s.Index].Quantity, cell(s.DailyWh),
		})
	}

	days := [][]any{toAny(dayHeader(unit))}
	for _, d := range res.Days {
		var soc any = ""
		if d.SOCPercent != nil {
			soc = *d.SOCPercent
		}
		days = append(days, []any{
			d.Index + 1, d.Label,
			cell(d.GenerationWh), cell(d.ConsumptionWh), cell(d.NetWh), cell(d.CumNetWh),
			soc, string(d.Balance),
		})
	}

	var summary [][]any
	for _, r := range summaryRows(res, unit) {
		summary = append(summary, toAny(r))
	}

	for sheet, rows := range map[string][][]any{
		SheetLoads:   loads,
		SheetSources: sources,
		SheetDays:    days,
		SheetSummary: summary,
	} {
		if err := writeRows(f, sheet, rows); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return err
		}
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
