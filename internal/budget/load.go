package budget

import (
	"math"

	"battery-budget/internal/model"
)

// RowEnergy is the daily consumption of one load row per regime.
type RowEnergy struct {
	Index      int
	Name       string
	Category   model.Category
	AnchorWh   float64
	UnderwayWh float64
}

// DailyWh is anchor plus underway consumption.
func (r RowEnergy) DailyWh() float64 { return r.AnchorWh + r.UnderwayWh }

// RowEnergyWh is the daily energy a row draws for one regime's hours.
// Settings must be normalized. Unknown type or entry mode yields 0.
func RowEnergyWh(row model.LoadRow, hours, dutyFraction float64, quantity int, s model.Settings) float64 {
	effHours := math.Max(0, hours) * math.Max(0, dutyFraction) * float64(quantity)
	if effHours <= 0 || math.IsNaN(effHours) {
		return 0
	}
	value := math.Max(0, row.Value)

	switch row.Type {
	case model.LoadAC:
		var watts float64
		switch row.Entry {
		case model.EntryWatts:
			watts = value
		case model.EntryAmps:
			watts = value * model.NominalACVoltage
		default:
			return 0
		}
		if s.InvEff <= 0 {
			return 0
		}
		return watts * effHours / (s.InvEff / 100)
	case model.LoadDC:
		switch row.Entry {
		case model.EntryWatts:
			return value * effHours
		case model.EntryAmps:
			return value * math.Max(0, s.Voltage) * effHours
		default:
			return 0
		}
	default:
		return 0
	}
}

// LoadEnergies computes both regimes for every row, in row order.
func LoadEnergies(s model.Settings, rows []model.LoadRow) []RowEnergy {
	out := make([]RowEnergy, len(rows))
	for i, r := range rows {
		out[i] = RowEnergy{
			Index:      i,
			Name:       r.Name,
			Category:   r.Category,
			AnchorWh:   RowEnergyWh(r, r.HoursAnchor, r.DutyFraction(), r.Quantity, s),
			UnderwayWh: RowEnergyWh(r, r.HoursUnderway, r.DutyFraction(), r.Quantity, s),
		}
	}
	return out
}

// StandbyWh charges the inverter's idle draw for the longest AC load in each
// regime, summed across regimes. Hours are taken as entered, before duty
// cycle and quantity.
func StandbyWh(s model.Settings, rows []model.LoadRow) float64 {
	if s.InvStandbyW <= 0 {
		return 0
	}
	var maxAnchor, maxUnderway float64
	for _, r := range rows {
		if r.Type != model.LoadAC {
			continue
		}
		maxAnchor = math.Max(maxAnchor, r.HoursAnchor)
		maxUnderway = math.Max(maxUnderway, r.HoursUnderway)
	}
	return s.InvStandbyW * (maxAnchor + maxUnderway)
}
