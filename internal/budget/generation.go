package budget

import (
	"math"

	"battery-budget/internal/model"
)

// SourceEnergy is the daily yield of one source including its quantity.
type SourceEnergy struct {
	Index   int
	ID      string
	Name    string
	Kind    model.SourceKind
	DailyWh float64
}

// SourceEnergyWh is the daily yield of one unit of src, multiplied by its
// quantity. Unknown kinds yield 0.
func SourceEnergyWh(src model.Source, voltage float64) float64 {
	hours := math.Max(0, src.Hours)
	volts := math.Max(0, voltage)

	var perUnit float64
	switch spec := src.Spec.(type) {
	case model.SolarSpec:
		perUnit = spec.PanelWatts * spec.Panels * spec.SunHours *
			(1 - spec.Derate/100) * (spec.ControllerEff / 100)
	case model.WindSpec:
		perUnit = spec.RatedWatts * (spec.CapacityFactor / 100) * hours
	case model.AlternatorSpec:
		perUnit = spec.Amps * volts * hours
	case model.ChargerSpec:
		perUnit = spec.Amps * volts * hours * (spec.Efficiency / 100)
	default:
		return 0
	}
	qty := src.Quantity
	if qty < 1 {
		qty = 1
	}
	e := perUnit * float64(qty)
	if e < 0 || math.IsNaN(e) || math.IsInf(e, 0) {
		return 0
	}
	return e
}

// SourceEnergies computes every source, in catalog order.
func SourceEnergies(s model.Settings, sources []model.Source) []SourceEnergy {
	out := make([]SourceEnergy, len(sources))
	for i, src := range sources {
		out[i] = SourceEnergy{
			Index:   i,
			ID:      src.ID,
			Name:    src.Name,
			Kind:    src.Kind(),
			DailyWh: SourceEnergyWh(src, s.Voltage),
		}
	}
	return out
}

// Label is the display name of a source: name, then id, then kind.
func (e SourceEnergy) Label() string {
	switch {
	case e.Name != "":
		return e.Name
	case e.ID != "":
		return e.ID
	case e.Kind != model.KindUnknown:
		return string(e.Kind)
	default:
		return "source"
	}
}
