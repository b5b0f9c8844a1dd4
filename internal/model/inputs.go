package model

// Inputs is the complete input of one recompute: settings plus the load and
// source catalogs, in display order.
type Inputs struct {
	Settings Settings
	Loads    []LoadRow
	Sources  []Source
}

// Clone returns a copy that shares no slices with in. Specs are value types,
// so copying the slice elements is enough.
func (in Inputs) Clone() Inputs {
	out := Inputs{Settings: in.Settings}
	if in.Loads != nil {
		out.Loads = append([]LoadRow(nil), in.Loads...)
	}
	if in.Sources != nil {
		out.Sources = append([]Source(nil), in.Sources...)
	}
	return out
}

// Normalize clamps settings, rows and sources in one pass.
func (in Inputs) Normalize() Inputs {
	out := Inputs{Settings: in.Settings.Normalize()}
	if in.Loads != nil {
		out.Loads = make([]LoadRow, len(in.Loads))
		for i, r := range in.Loads {
			out.Loads[i] = r.Normalize()
		}
	}
	if in.Sources != nil {
		out.Sources = make([]Source, len(in.Sources))
		for i, s := range in.Sources {
			out.Sources[i] = s.Normalize()
		}
	}
	return out
}
