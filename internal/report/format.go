package report

import (
	"fmt"
	"strconv"
	"strings"

	"battery-budget/internal/model"
)

// NotAvailable is shown for figures that cannot be expressed in the
// requested unit.
const NotAvailable = "n/a"

// FormatEnergy renders wh in the display unit: "123.4 Ah" or "1481 Wh".
func FormatEnergy(wh, voltage float64, unit model.Unit) string {
	v, ok := model.ToDisplayUnit(wh, voltage, unit)
	if !ok {
		return NotAvailable
	}
	if unit == model.UnitAh {
		return fmt.Sprintf("%.1f Ah", v)
	}
	return fmt.Sprintf("%.0f Wh", v)
}

// energyCell is a bare number for tables, or "" when unavailable.
func energyCell(wh, voltage float64, unit model.Unit) string {
	v, ok := model.ToDisplayUnit(wh, voltage, unit)
	if !ok {
		return ""
	}
	return fmtFloat(v)
}

func column(prefix string, unit model.Unit) string {
	return prefix + "_" + strings.ToLower(string(unit))
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 3, 64)
}
