package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"battery-budget/internal/api/models"
	"battery-budget/internal/budget"
	"battery-budget/internal/model"
	"battery-budget/internal/report"

	"github.com/gin-gonic/gin"
)

// BudgetHandler computes budgets for plans posted inline.
type BudgetHandler struct {
	engine *budget.Engine
}

func NewBudgetHandler(engine *budget.Engine) *BudgetHandler {
	if engine == nil {
		engine = budget.New()
	}
	return &BudgetHandler{engine: engine}
}

// Compute handles POST /api/v1/budget
func (h *BudgetHandler) Compute(c *gin.Context) {
	req := models.NewBudgetRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return
	}
	engine, err := h.engineFor(req.Options)
	if err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return
	}

	in := req.Plan.ToInputs()
	res := engine.Run(in)
	c.JSON(http.StatusOK, buildBudgetResponse(res, req.Options))
}

// Export handles POST /api/v1/budget/export?format=csv|xlsx|days&unit=wh|ah
func (h *BudgetHandler) Export(c *gin.Context) {
	var q models.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return
	}
	req := models.NewBudgetRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return
	}
	unitRaw := q.Unit
	if unitRaw == "" {
		unitRaw = req.Options.Unit
	}
	unit := model.ParseUnit(unitRaw)

	in := req.Plan.ToInputs()
	res := h.engine.Run(in)

	var (
		buf         bytes.Buffer
		err         error
		contentType string
		filename    string
	)
	switch strings.ToLower(q.Format) {
	case "", "csv":
		err = report.WriteBudgetCSV(&buf, in, res, unit)
		contentType, filename = "text/csv", "budget.csv"
	case "days":
		err = report.WriteDaysCSV(&buf, res, unit)
		contentType, filename = "text/csv", "budget-days.csv"
	case "xlsx":
		err = report.WriteXLSX(&buf, in, res, unit)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "budget.xlsx"
	default:
		writeError(c, http.StatusBadRequest, CodeInvalidRequest,
			fmt.Sprintf("unsupported export format %q", q.Format),
			map[string]interface{}{"supported": []string{"csv", "days", "xlsx"}})
		return
	}
	if err != nil {
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, CodeExportError, err.Error(), nil)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *BudgetHandler) engineFor(opts models.BudgetOptions) (*budget.Engine, error) {
	if opts.Threshold == nil {
		return h.engine, nil
	}
	th := *opts.Threshold
	if th < 0 || th > 1 {
		return nil, fmt.Errorf("threshold must be within [0, 1], got %g", th)
	}
	return &budget.Engine{MajorThreshold: th}, nil
}

func buildBudgetResponse(res *budget.Result, opts models.BudgetOptions) models.BudgetResponse {
	unit := model.ParseUnit(opts.Unit)
	t := res.Totals
	v := res.Settings.Voltage

	out := models.BudgetResponse{
		Unit: string(unit),
		Summary: models.BudgetSummary{
			AnchorWh:           t.AnchorWh,
			UnderwayWh:         t.UnderwayWh,
			StandbyWh:          t.StandbyWh,
			DailyConsumptionWh: t.DailyConsumptionWh,
			DailyGenerationWh:  t.DailyGenerationWh,
			NetWh:              t.NetWh,
			Balance:            string(model.BalanceFromNetWh(t.NetWh)),
			Days:               t.Days,
			TripConsumptionWh:  t.TripConsumptionWh,
			TripGenerationWh:   t.TripGenerationWh,
			TripNetWh:          t.TripNetWh,
			WithReserveWh:      t.Sizing.WithReserveWh,
			NameplateWh:        t.Sizing.NameplateWh,
			NameplateAh:        t.Sizing.NameplateAh,
			ModuleCount:        t.Sizing.ModuleCount,
			ModuleLayout:       t.Sizing.ModuleLayout,
			ActualUsableBankWh: t.Sizing.ActualUsableBankWh,
		},
		Display: map[string]string{
			"daily_consumption":  report.FormatEnergy(t.DailyConsumptionWh, v, unit),
			"daily_generation":   report.FormatEnergy(t.DailyGenerationWh, v, unit),
			"daily_net":          report.FormatEnergy(t.NetWh, v, unit),
			"trip_consumption":   report.FormatEnergy(t.TripConsumptionWh, v, unit),
			"trip_net":           report.FormatEnergy(t.TripNetWh, v, unit),
			"nameplate":          report.FormatEnergy(t.Sizing.NameplateWh, v, unit),
			"actual_usable_bank": report.FormatEnergy(t.Sizing.ActualUsableBankWh, v, unit),
		},
		Loads:   make([]models.LoadEnergyInfo, 0, len(res.Rows)),
		Sources: make([]models.SourceEnergyInfo, 0, len(res.Sources)),
		Series: models.DaySeriesInfo{
			Labels:      res.Series.Labels,
			Generation:  res.Series.Generation,
			Consumption: res.Series.Consumption,
			Net:         res.Series.Net,
			CumNet:      res.Series.CumNet,
			SOC:         res.Series.SOC,
		},
		Unavailable: append([]string{}, res.Unavailable...),
	}
	if err := res.Settings.Validate(); err != nil {
		out.Warnings = append(out.Warnings, err.Error())
	}
	if n := len(res.Days); n > 0 {
		out.Summary.FinalSOC = res.Days[n-1].SOCPercent
	}

	for _, r := range res.Rows {
		out.Loads = append(out.Loads, models.LoadEnergyInfo{
			Index:      r.Index,
			Name:       r.Name,
			Category:   string(r.Category),
			AnchorWh:   r.AnchorWh,
			UnderwayWh: r.UnderwayWh,
			DailyWh:    r.DailyWh(),
		})
	}
	for _, s := range res.Sources {
		out.Sources = append(out.Sources, models.SourceEnergyInfo{
			Index:   s.Index,
			ID:      s.ID,
			Label:   s.Label(),
			Kind:    string(s.Kind),
			DailyWh: s.DailyWh,
		})
	}

	if opts.IncludeBreakdown {
		out.Breakdown = &models.BreakdownInfo{
			Categories: breakdownInfo(res.Breakdown.Categories),
			Sources:    breakdownInfo(res.Breakdown.Sources),
		}
	}
	if opts.IncludeDays {
		out.Days = make([]models.DayInfo, 0, len(res.Days))
		for _, d := range res.Days {
			out.Days = append(out.Days, models.DayInfo{
				Day:           d.Index + 1,
				Label:         d.Label,
				GenerationWh:  d.GenerationWh,
				ConsumptionWh: d.ConsumptionWh,
				NetWh:         d.NetWh,
				CumNetWh:      d.CumNetWh,
				SOCPercent:    d.SOCPercent,
				Balance:       string(d.Balance),
			})
		}
	}
	return out
}

func breakdownInfo(entries []budget.BreakdownEntry) []models.BreakdownEntryInfo {
	out := make([]models.BreakdownEntryInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.BreakdownEntryInfo{
			Label:   e.Label,
			Series:  e.Series,
			DayPct:  e.DayPct,
			Share:   e.Share,
			IsOther: e.IsOther,
		})
	}
	return out
}
