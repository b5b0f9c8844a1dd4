package budget

import (
	"math"
	"sort"

	"battery-budget/internal/model"
)

const (
	// DefaultMajorThreshold is the share of total magnitude an item needs to
	// be shown on its own.
	DefaultMajorThreshold = 0.10

	OtherLabel   = "Other"
	StandbyLabel = "Inverter standby"

	pctEpsilon = 1e-9
)

// Series is a labeled per-day value series.
type Series struct {
	Label  string
	Values []float64
}

// BreakdownEntry is one stacked-chart band. DayPct[i] is the entry's share
// of the total on day i, as a fraction.
type BreakdownEntry struct {
	Label   string
	Series  []float64
	DayPct  []float64
	Share   float64
	IsOther bool
}

// Breakdown holds the consumption-by-category and generation-by-source bands.
type Breakdown struct {
	Categories []BreakdownEntry
	Sources    []BreakdownEntry
}

// BuildBreakdown keeps items whose share of the summed |total| is at least
// threshold and folds the rest element-wise into a trailing "Other" entry.
// No "Other" entry is emitted when nothing falls below threshold.
func BuildBreakdown(items []Series, total []float64, threshold float64) []BreakdownEntry {
	n := len(total)
	totalMag := 0.0
	for _, v := range total {
		totalMag += math.Abs(v)
	}

	out := make([]BreakdownEntry, 0, len(items)+1)
	other := make([]float64, n)
	otherShare := 0.0
	hasOther := false

	for _, it := range items {
		vals := fitLength(it.Values, n)
		mag := 0.0
		for _, v := range vals {
			mag += math.Abs(v)
		}
		share := 0.0
		if totalMag > 0 {
			share = mag / totalMag
		}
		if share >= threshold {
			out = append(out, BreakdownEntry{
				Label:  it.Label,
				Series: vals,
				DayPct: dayPct(vals, total),
				Share:  share,
			})
			continue
		}
		hasOther = true
		otherShare += share
		for i, v := range vals {
			other[i] += v
		}
	}

	if hasOther {
		out = append(out, BreakdownEntry{
			Label:   OtherLabel,
			Series:  other,
			DayPct:  dayPct(other, total),
			Share:   otherShare,
			IsOther: true,
		})
	}
	return out
}

func fitLength(vals []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, vals)
	return out
}

func dayPct(series, total []float64) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = math.Abs(v) / math.Max(pctEpsilon, math.Abs(total[i]))
	}
	return out
}

// categoryItems groups row consumption by category in the fixed category
// order, rendered negative. Standby is its own item so bands sum to the
// daily consumption.
func categoryItems(rows []RowEnergy, standbyWh float64, days int) []Series {
	byCat := map[string]float64{}
	var order []string
	for _, r := range rows {
		key := string(r.Category)
		if _, seen := byCat[key]; !seen {
			order = append(order, key)
		}
		byCat[key] += r.DailyWh()
	}
	order = sortByCategoryOrder(order)

	items := make([]Series, 0, len(order)+1)
	for _, key := range order {
		items = append(items, Series{Label: key, Values: repeat(-byCat[key], days)})
	}
	if standbyWh > 0 {
		items = append(items, Series{Label: StandbyLabel, Values: repeat(-standbyWh, days)})
	}
	return items
}

func sourceItems(sources []SourceEnergy, days int) []Series {
	items := make([]Series, 0, len(sources))
	for _, s := range sources {
		items = append(items, Series{Label: s.Label(), Values: repeat(s.DailyWh, days)})
	}
	return items
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func sortByCategoryOrder(keys []string) []string {
	rank := make(map[string]int, len(model.Categories))
	for i, c := range model.Categories {
		rank[string(c)] = i
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return rank[keys[i]] < rank[keys[j]]
	})
	return keys
}
