package model

import "strings"

// Unit is the display unit for energy figures.
type Unit string

const (
	UnitWh Unit = "Wh"
	UnitAh Unit = "Ah"
)

// ParseUnit accepts "wh"/"ah" in any case. Anything else is watt-hours.
func ParseUnit(s string) Unit {
	if strings.EqualFold(strings.TrimSpace(s), string(UnitAh)) {
		return UnitAh
	}
	return UnitWh
}

// ToDisplayUnit converts watt-hours into the requested unit.
// The second result is false when amp-hours are requested at a voltage <= 0.
func ToDisplayUnit(energyWh, voltage float64, unit Unit) (float64, bool) {
	if unit != UnitAh {
		return energyWh, true
	}
	if voltage <= 0 {
		return 0, false
	}
	return energyWh / voltage, true
}

// AhToWh is the inverse conversion for capacities entered in amp-hours.
func AhToWh(ah, voltage float64) float64 {
	return ah * voltage
}
