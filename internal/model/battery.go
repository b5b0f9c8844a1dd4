package model

import (
	"errors"
	"math"
)

// BatteryBank describes the installed house bank as entered by the user.
// Units:
// - CapacityAh: nameplate Ah at Voltage
// - DoD, Derate: percent
type BatteryBank struct {
	CapacityAh float64
	Voltage    float64
	DoD        float64
	Derate     float64
}

// BankFromSettings builds the installed bank from normalized settings.
func BankFromSettings(s Settings) BatteryBank {
	return BatteryBank{
		CapacityAh: s.ActualBankAh,
		Voltage:    s.Voltage,
		DoD:        s.DoD,
		Derate:     s.Derate,
	}
}

func (b BatteryBank) Validate() error {
	if b.CapacityAh <= 0 {
		return errors.New("CapacityAh must be > 0")
	}
	if b.Voltage <= 0 {
		return ErrInvalidVoltage
	}
	if b.DoD <= 0 || b.DoD > 100 {
		return errors.New("DoD must be in (0, 100]")
	}
	if b.Derate < 0 || b.Derate >= 100 {
		return errors.New("Derate must be in [0, 100)")
	}
	return nil
}

// NameplateWh is the rated energy before DoD and derate.
func (b BatteryBank) NameplateWh() float64 {
	return AhToWh(b.CapacityAh, b.Voltage)
}

// UsableWh is the energy available to loads: nameplate x DoD x (1 - derate).
func (b BatteryBank) UsableWh() float64 {
	return b.NameplateWh() * (b.DoD / 100) * (1 - b.Derate/100)
}

// ToPercentage expresses levelWh as a share of usable energy, clamped to
// [0, 100]. ok is false when the bank has no usable energy.
func (b BatteryBank) ToPercentage(levelWh float64) (pct float64, ok bool) {
	usable := b.UsableWh()
	if usable <= 0 || math.IsNaN(usable) || math.IsInf(usable, 0) {
		return 0, false
	}
	return clampPercent(levelWh / usable * 100), true
}

func clampPercent(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	if x > 100 {
		return 100
	}
	return x
}
