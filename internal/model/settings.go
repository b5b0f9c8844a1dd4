package model

import (
	"errors"
	"math"
	"strings"
)

// Chemistry selects the default depth of discharge for a bank.
type Chemistry string

const (
	ChemistryLFP Chemistry = "LFP"
	ChemistryAGM Chemistry = "AGM"
	ChemistryGEL Chemistry = "GEL"
)

// Chemistries lists the supported chemistries in display order.
var Chemistries = []Chemistry{ChemistryLFP, ChemistryAGM, ChemistryGEL}

// ParseChemistry is case-insensitive; unknown values map to LFP.
func ParseChemistry(s string) Chemistry {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AGM":
		return ChemistryAGM
	case "GEL":
		return ChemistryGEL
	default:
		return ChemistryLFP
	}
}

// DefaultDoD returns the depth-of-discharge percent used when none is given.
func (c Chemistry) DefaultDoD() float64 {
	switch c {
	case ChemistryAGM, ChemistryGEL:
		return 50
	default:
		return 80
	}
}

// Clamp ranges for settings, in percent unless noted.
const (
	MinDoD       = 10.0
	MaxDoD       = 99.0
	MaxReserve   = 100.0
	MinInvEff    = 50.0
	MaxInvEff    = 100.0
	MaxDerate    = 80.0
	MinTripDays  = 1
	MaxTripDays  = 3650
	DefaultDays  = 3
	DefaultVolts = 12.0
)

var ErrInvalidVoltage = errors.New("voltage must be > 0")

// Settings are the system-wide parameters of one calculation.
// Units:
// - Voltage: V
// - DoD, Reserve, InvEff, Derate: percent
// - InvStandbyW: W
// - ActualBankAh: Ah (installed bank, used for SOC only)
type Settings struct {
	Voltage      float64
	Chemistry    Chemistry
	DoD          float64
	Reserve      float64
	Days         int
	InvEff       float64
	InvStandbyW  float64
	Derate       float64
	ActualBankAh float64
}

func DefaultSettings() Settings {
	return Settings{
		Voltage:   DefaultVolts,
		Chemistry: ChemistryLFP,
		DoD:       ChemistryLFP.DefaultDoD(),
		Reserve:   20,
		Days:      DefaultDays,
		InvEff:    90,
	}
}

// Normalize returns a fully clamped copy. A zero DoD means "chemistry
// default". Voltage <= 0 is normalized to 0 and left for Validate to report.
// Normalize is idempotent.
func (s Settings) Normalize() Settings {
	out := s
	out.Chemistry = ParseChemistry(string(s.Chemistry))

	out.Voltage = finiteOr(s.Voltage, 0)
	if out.Voltage < 0 {
		out.Voltage = 0
	}

	dod := finiteOr(s.DoD, 0)
	if dod == 0 {
		dod = out.Chemistry.DefaultDoD()
	}
	out.DoD = clamp(dod, MinDoD, MaxDoD)

	out.Reserve = clamp(s.Reserve, 0, MaxReserve)
	switch {
	case out.Days < MinTripDays:
		out.Days = MinTripDays
	case out.Days > MaxTripDays:
		out.Days = MaxTripDays
	}
	out.InvEff = clamp(s.InvEff, MinInvEff, MaxInvEff)
	out.InvStandbyW = nonNegative(s.InvStandbyW)
	out.Derate = clamp(s.Derate, 0, MaxDerate)
	out.ActualBankAh = nonNegative(s.ActualBankAh)
	return out
}

// DaysFromFloat floors a parsed trip length, capped at MaxTripDays before
// conversion. NaN and Inf yield 0, which Normalize raises to MinTripDays.
func DaysFromFloat(v float64) int {
	v = finiteOr(v, 0)
	if v > MaxTripDays {
		return MaxTripDays
	}
	if v < 0 {
		return 0
	}
	return int(math.Floor(v))
}

func (s Settings) Validate() error {
	if math.IsNaN(s.Voltage) || s.Voltage <= 0 {
		return ErrInvalidVoltage
	}
	return nil
}

// DoDFraction is DoD/100.
func (s Settings) DoDFraction() float64 { return s.DoD / 100 }

// DerateFactor is the remaining capacity fraction, 1 - derate/100.
func (s Settings) DerateFactor() float64 { return 1 - s.Derate/100 }
