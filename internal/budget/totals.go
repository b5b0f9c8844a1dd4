package budget

import (
	"fmt"
	"math"

	"battery-budget/internal/model"
)

// ModuleAh is the unit battery size used for the suggested layout.
const ModuleAh = 100.0

// Totals are the aggregate daily and trip figures of one calculation.
// All figures are Wh and non-negative except NetWh and TripNetWh.
type Totals struct {
	AnchorWh           float64
	UnderwayWh         float64
	StandbyWh          float64
	DailyConsumptionWh float64
	DailyGenerationWh  float64
	NetWh              float64

	Days              int
	TripConsumptionWh float64
	TripGenerationWh  float64
	TripNetWh         float64

	Sizing Sizing
}

// Sizing is the recommended bank for the trip and the usable energy of the
// bank actually installed. Nil pointers mark figures that need a voltage.
type Sizing struct {
	WithReserveWh      float64
	NameplateWh        float64
	NameplateAh        *float64
	ModuleCount        *int
	ModuleLayout       string
	ActualUsableBankWh float64
}

// ComputeTotals normalizes its inputs and aggregates them.
func ComputeTotals(s model.Settings, rows []model.LoadRow, sources []model.Source) Totals {
	in := model.Inputs{Settings: s, Loads: rows, Sources: sources}.Normalize()
	return aggregate(in.Settings, LoadEnergies(in.Settings, in.Loads), StandbyWh(in.Settings, in.Loads),
		SourceEnergies(in.Settings, in.Sources))
}

// aggregate expects normalized settings.
func aggregate(s model.Settings, rows []RowEnergy, standbyWh float64, sources []SourceEnergy) Totals {
	t := Totals{Days: s.Days, StandbyWh: standbyWh}
	for _, r := range rows {
		t.AnchorWh += r.AnchorWh
		t.UnderwayWh += r.UnderwayWh
	}
	for _, src := range sources {
		t.DailyGenerationWh += src.DailyWh
	}
	t.DailyConsumptionWh = t.AnchorWh + t.UnderwayWh + t.StandbyWh
	t.NetWh = t.DailyGenerationWh - t.DailyConsumptionWh

	days := float64(s.Days)
	t.TripConsumptionWh = t.DailyConsumptionWh * days
	t.TripGenerationWh = t.DailyGenerationWh * days
	t.TripNetWh = t.NetWh * days

	t.Sizing = SizeBank(s, t.TripConsumptionWh)
	return t
}

// SizeBank derives the nameplate bank for tripConsumptionWh. Reserve is
// applied first, then DoD, then derate.
func SizeBank(s model.Settings, tripConsumptionWh float64) Sizing {
	var z Sizing
	z.WithReserveWh = tripConsumptionWh * (1 + s.Reserve/100)

	dod := s.DoDFraction()
	if dod > 0 {
		z.NameplateWh = z.WithReserveWh / dod
	}
	if s.Derate > 0 && s.DerateFactor() > 0 {
		z.NameplateWh /= s.DerateFactor()
	}

	if s.Voltage > 0 {
		ah := z.NameplateWh / s.Voltage
		count := int(math.Ceil(ah / ModuleAh))
		if count < 1 {
			count = 1
		}
		z.NameplateAh = &ah
		z.ModuleCount = &count
		z.ModuleLayout = fmt.Sprintf("%d x %.0f Ah @ %g V", count, ModuleAh, s.Voltage)
	}

	z.ActualUsableBankWh = model.BankFromSettings(s).UsableWh()
	return z
}
