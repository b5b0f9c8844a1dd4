package model

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// ParseNumberOrDefault converts a raw form/file value into a finite float64.
// Strings are trimmed first. Anything cast cannot read, and NaN/Inf results,
// yield fallback.
func ParseNumberOrDefault(raw any, fallback float64) float64 {
	if raw == nil {
		return fallback
	}
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return fallback
		}
		raw = s
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return fallback
	}
	return finiteOr(v, fallback)
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	v = finiteOr(v, 0)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func nonNegative(v float64) float64 {
	v = finiteOr(v, 0)
	if v < 0 {
		return 0
	}
	return v
}
