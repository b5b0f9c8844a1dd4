package model

import "strings"

// SourceKind identifies the generation formula of a source.
type SourceKind string

const (
	KindSolar      SourceKind = "solar"
	KindWind       SourceKind = "wind"
	KindAlternator SourceKind = "alternator"
	KindACCharger  SourceKind = "ac_charger"
	KindUnknown    SourceKind = ""
)

// SourceKinds lists the supported kinds in display order.
var SourceKinds = []SourceKind{KindSolar, KindWind, KindAlternator, KindACCharger}

func ParseSourceKind(s string) SourceKind {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.NewReplacer(" ", "_", "-", "_").Replace(k)
	switch k {
	case "solar":
		return KindSolar
	case "wind":
		return KindWind
	case "alternator":
		return KindAlternator
	case "ac_charger", "charger", "shore_charger":
		return KindACCharger
	default:
		return KindUnknown
	}
}

// SourceSpec is the kind-specific part of a source. Exactly one of
// SolarSpec, WindSpec, AlternatorSpec, ChargerSpec.
type SourceSpec interface {
	Kind() SourceKind
	normalize() SourceSpec
}

type SolarSpec struct {
	PanelWatts    float64
	Panels        float64
	SunHours      float64
	Derate        float64 // percent
	ControllerEff float64 // percent
}

type WindSpec struct {
	RatedWatts     float64
	CapacityFactor float64 // percent
}

type AlternatorSpec struct {
	Amps float64 // DC charge current
}

type ChargerSpec struct {
	Amps       float64 // DC charge current
	Efficiency float64 // percent
}

func (SolarSpec) Kind() SourceKind      { return KindSolar }
func (WindSpec) Kind() SourceKind       { return KindWind }
func (AlternatorSpec) Kind() SourceKind { return KindAlternator }
func (ChargerSpec) Kind() SourceKind    { return KindACCharger }

func (s SolarSpec) normalize() SourceSpec {
	return SolarSpec{
		PanelWatts:    nonNegative(s.PanelWatts),
		Panels:        nonNegative(s.Panels),
		SunHours:      nonNegative(s.SunHours),
		Derate:        clamp(s.Derate, 0, 100),
		ControllerEff: clamp(s.ControllerEff, 0, 100),
	}
}

func (s WindSpec) normalize() SourceSpec {
	return WindSpec{
		RatedWatts:     nonNegative(s.RatedWatts),
		CapacityFactor: clamp(s.CapacityFactor, 0, 100),
	}
}

func (s AlternatorSpec) normalize() SourceSpec {
	return AlternatorSpec{Amps: nonNegative(s.Amps)}
}

func (s ChargerSpec) normalize() SourceSpec {
	return ChargerSpec{
		Amps:       nonNegative(s.Amps),
		Efficiency: clamp(s.Efficiency, 0, 100),
	}
}

// Source is one charge source. A nil Spec is an unknown kind and yields
// no energy.
type Source struct {
	ID       string
	Name     string
	Quantity int
	Hours    float64
	Spec     SourceSpec
}

// Kind reports the spec kind, or KindUnknown for a nil spec.
func (s Source) Kind() SourceKind {
	if s.Spec == nil {
		return KindUnknown
	}
	return s.Spec.Kind()
}

func (s Source) Normalize() Source {
	out := s
	switch {
	case out.Quantity < 1:
		out.Quantity = 1
	case out.Quantity > MaxQuantity:
		out.Quantity = MaxQuantity
	}
	out.Hours = nonNegative(s.Hours)
	if s.Spec != nil {
		out.Spec = s.Spec.normalize()
	}
	return out
}
