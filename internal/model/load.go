package model

import (
	"math"
	"strings"
)

// Category groups loads for breakdown charts only.
type Category string

const (
	CategoryLights        Category = "Lights"
	CategoryNavComms      Category = "Nav/Comms"
	CategoryInstruments   Category = "Instruments"
	CategoryPumps         Category = "Pumps"
	CategoryComfort       Category = "Comfort"
	CategoryGalley        Category = "Galley"
	CategoryEntertainment Category = "Entertainment"
	CategoryMisc          Category = "Misc"
)

// Categories is the fixed category order used for grouping.
var Categories = []Category{
	CategoryLights,
	CategoryNavComms,
	CategoryInstruments,
	CategoryPumps,
	CategoryComfort,
	CategoryGalley,
	CategoryEntertainment,
	CategoryMisc,
}

// ParseCategory matches case-insensitively; unknown labels fall into Misc.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return CategoryMisc
}

// LoadType says whether a load runs from the DC bus or through the inverter.
type LoadType string

const (
	LoadDC      LoadType = "DC"
	LoadAC      LoadType = "AC"
	LoadUnknown LoadType = ""
)

func ParseLoadType(s string) LoadType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DC":
		return LoadDC
	case "AC":
		return LoadAC
	default:
		return LoadUnknown
	}
}

// EntryMode says how LoadRow.Value is read.
type EntryMode string

const (
	EntryWatts   EntryMode = "W"
	EntryAmps    EntryMode = "A"
	EntryUnknown EntryMode = ""
)

func ParseEntryMode(s string) EntryMode {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "W", "WATTS", "WATT":
		return EntryWatts
	case "A", "AMPS", "AMP", "AMPERES":
		return EntryAmps
	default:
		return EntryUnknown
	}
}

// NominalACVoltage converts AC amp entries into watts. Fixed US mains value,
// independent of the configured system voltage.
const NominalACVoltage = 120.0

// LoadRow is one consumer in the load catalog.
type LoadRow struct {
	Name          string
	Category      Category
	Type          LoadType
	Entry         EntryMode
	Value         float64
	HoursAnchor   float64
	HoursUnderway float64
	Duty          float64 // percent of stated hours actually drawing
	Quantity      int
}

// Normalize clamps every user-editable field. Unknown Type/Entry survive so
// the row can contribute zero instead of being dropped.
func (r LoadRow) Normalize() LoadRow {
	out := r
	out.Category = ParseCategory(string(r.Category))
	out.Type = ParseLoadType(string(r.Type))
	out.Entry = ParseEntryMode(string(r.Entry))
	out.Value = nonNegative(r.Value)
	out.HoursAnchor = nonNegative(r.HoursAnchor)
	out.HoursUnderway = nonNegative(r.HoursUnderway)
	out.Duty = clamp(r.Duty, 0, 100)
	switch {
	case out.Quantity < 0:
		out.Quantity = 0
	case out.Quantity > MaxQuantity:
		out.Quantity = MaxQuantity
	}
	return out
}

// DutyFraction is Duty/100.
func (r LoadRow) DutyFraction() float64 { return r.Duty / 100 }

// MaxQuantity caps load and source counts.
const MaxQuantity = 1_000_000

// QuantityFromFloat floors a parsed count into [0, MaxQuantity].
func QuantityFromFloat(v float64) int {
	v = clamp(v, 0, MaxQuantity)
	return int(math.Floor(v))
}
