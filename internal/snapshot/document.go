package snapshot

import (
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"

	"battery-budget/internal/model"
)

// CurrentVersion is written into every saved document.
const CurrentVersion = 1

// Document is the persisted shape of a plan: settings, loads and sources.
// It is the save/load/autosave contract and the body of YAML plan files.
type Document struct {
	Version  int            `json:"version" yaml:"version"`
	ID       string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string         `json:"name,omitempty" yaml:"name,omitempty"`
	SavedAt  time.Time      `json:"saved_at" yaml:"saved_at,omitempty"`
	Settings SettingsRecord `json:"settings" yaml:"settings"`
	Loads    []LoadRecord   `json:"loads" yaml:"loads"`
	Sources  []SourceRecord `json:"sources" yaml:"sources"`

	// Repaired is set by Decode when the raw JSON had to be repaired.
	Repaired bool `json:"-" yaml:"-"`
}

// NewDocument returns an empty document with default settings.
func NewDocument() *Document {
	return &Document{
		Version:  CurrentVersion,
		Settings: DefaultSettingsRecord(),
		Loads:    []LoadRecord{},
		Sources:  []SourceRecord{},
	}
}

// SettingsRecord mirrors model.Settings. A zero DoD means the chemistry
// default.
type SettingsRecord struct {
	Voltage      Number `json:"voltage" yaml:"voltage"`
	Chemistry    string `json:"chemistry" yaml:"chemistry"`
	DoD          Number `json:"dod" yaml:"dod"`
	Reserve      Number `json:"reserve" yaml:"reserve"`
	Days         Number `json:"days" yaml:"days"`
	InvEff       Number `json:"inv_eff" yaml:"inv_eff"`
	InvStandby   Number `json:"inv_standby" yaml:"inv_standby"`
	Derate       Number `json:"derate" yaml:"derate"`
	ActualBankAh Number `json:"actual_bank_ah" yaml:"actual_bank_ah"`
}

func DefaultSettingsRecord() SettingsRecord {
	d := model.DefaultSettings()
	return SettingsRecord{
		Voltage:      Number(d.Voltage),
		Chemistry:    string(d.Chemistry),
		Reserve:      Number(d.Reserve),
		Days:         Number(d.Days),
		InvEff:       Number(d.InvEff),
		InvStandby:   Number(d.InvStandbyW),
		Derate:       Number(d.Derate),
		ActualBankAh: Number(d.ActualBankAh),
	}
}

func (r *SettingsRecord) UnmarshalJSON(b []byte) error {
	type plain SettingsRecord
	p := plain(DefaultSettingsRecord())
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = SettingsRecord(p)
	return nil
}

func (r *SettingsRecord) UnmarshalYAML(node *yaml.Node) error {
	type plain SettingsRecord
	p := plain(DefaultSettingsRecord())
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = SettingsRecord(p)
	return nil
}

func (r SettingsRecord) ToSettings() model.Settings {
	return model.Settings{
		Voltage:      r.Voltage.Float(),
		Chemistry:    model.ParseChemistry(r.Chemistry),
		DoD:          r.DoD.Float(),
		Reserve:      r.Reserve.Float(),
		Days:         model.DaysFromFloat(r.Days.Float()),
		InvEff:       r.InvEff.Float(),
		InvStandbyW:  r.InvStandby.Float(),
		Derate:       r.Derate.Float(),
		ActualBankAh: r.ActualBankAh.Float(),
	}
}

func settingsRecordFrom(s model.Settings) SettingsRecord {
	return SettingsRecord{
		Voltage:      Number(s.Voltage),
		Chemistry:    string(s.Chemistry),
		DoD:          Number(s.DoD),
		Reserve:      Number(s.Reserve),
		Days:         Number(s.Days),
		InvEff:       Number(s.InvEff),
		InvStandby:   Number(s.InvStandbyW),
		Derate:       Number(s.Derate),
		ActualBankAh: Number(s.ActualBankAh),
	}
}

// LoadRecord mirrors model.LoadRow.
type LoadRecord struct {
	Name          string `json:"name" yaml:"name"`
	Category      string `json:"category" yaml:"category"`
	Type          string `json:"type" yaml:"type"`
	Entry         string `json:"entry" yaml:"entry"`
	Value         Number `json:"value" yaml:"value"`
	HoursAnchor   Number `json:"hours_anchor" yaml:"hours_anchor"`
	HoursUnderway Number `json:"hours_underway" yaml:"hours_underway"`
	Duty          Number `json:"duty" yaml:"duty"`
	Quantity      Number `json:"qty" yaml:"qty"`
}

func DefaultLoadRecord() LoadRecord {
	return LoadRecord{
		Category: string(model.CategoryMisc),
		Type:     string(model.LoadDC),
		Entry:    string(model.EntryWatts),
		Duty:     100,
		Quantity: 1,
	}
}

func (r *LoadRecord) UnmarshalJSON(b []byte) error {
	type plain LoadRecord
	p := plain(DefaultLoadRecord())
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = LoadRecord(p)
	return nil
}

func (r *LoadRecord) UnmarshalYAML(node *yaml.Node) error {
	type plain LoadRecord
	p := plain(DefaultLoadRecord())
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = LoadRecord(p)
	return nil
}

func (r LoadRecord) ToLoadRow() model.LoadRow {
	return model.LoadRow{
		Name:          r.Name,
		Category:      model.ParseCategory(r.Category),
		Type:          model.ParseLoadType(r.Type),
		Entry:         model.ParseEntryMode(r.Entry),
		Value:         r.Value.Float(),
		HoursAnchor:   r.HoursAnchor.Float(),
		HoursUnderway: r.HoursUnderway.Float(),
		Duty:          r.Duty.Float(),
		Quantity:      model.QuantityFromFloat(r.Quantity.Float()),
	}
}

func loadRecordFrom(r model.LoadRow) LoadRecord {
	return LoadRecord{
		Name:          r.Name,
		Category:      string(r.Category),
		Type:          string(r.Type),
		Entry:         string(r.Entry),
		Value:         Number(r.Value),
		HoursAnchor:   Number(r.HoursAnchor),
		HoursUnderway: Number(r.HoursUnderway),
		Duty:          Number(r.Duty),
		Quantity:      Number(r.Quantity),
	}
}

// SourceRecord is the flat wire form of model.Source. Only the fields of
// Kind are meaningful; absent ones take per-kind defaults.
type SourceRecord struct {
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string `json:"name" yaml:"name"`
	Kind     string `json:"kind" yaml:"kind"`
	Quantity Number `json:"quantity" yaml:"quantity"`
	Hours    Number `json:"hours" yaml:"hours"`

	// solar
	PanelWatts    *Number `json:"panel_watts,omitempty" yaml:"panel_watts,omitempty"`
	Panels        *Number `json:"panels,omitempty" yaml:"panels,omitempty"`
	SunHours      *Number `json:"sun_hours,omitempty" yaml:"sun_hours,omitempty"`
	Derate        *Number `json:"derate,omitempty" yaml:"derate,omitempty"`
	ControllerEff *Number `json:"controller_eff,omitempty" yaml:"controller_eff,omitempty"`

	// wind
	RatedWatts     *Number `json:"rated_watts,omitempty" yaml:"rated_watts,omitempty"`
	CapacityFactor *Number `json:"capacity_factor,omitempty" yaml:"capacity_factor,omitempty"`

	// alternator, charger
	Amps       *Number `json:"amps,omitempty" yaml:"amps,omitempty"`
	Efficiency *Number `json:"efficiency,omitempty" yaml:"efficiency,omitempty"`
}

// Per-kind defaults for absent source fields.
const (
	DefaultSolarPanels    = 1.0
	DefaultSunHours       = 4.0
	DefaultSolarDerate    = 15.0
	DefaultControllerEff  = 95.0
	DefaultCapacityFactor = 20.0
	DefaultChargerEffPct  = 85.0
	DefaultSourceQuantity = 1.0
)

func (r *SourceRecord) UnmarshalJSON(b []byte) error {
	type plain SourceRecord
	p := plain{Quantity: DefaultSourceQuantity}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = SourceRecord(p)
	return nil
}

func (r *SourceRecord) UnmarshalYAML(node *yaml.Node) error {
	type plain SourceRecord
	p := plain{Quantity: DefaultSourceQuantity}
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = SourceRecord(p)
	return nil
}

func (r SourceRecord) ToSource() model.Source {
	src := model.Source{
		ID:       r.ID,
		Name:     r.Name,
		Quantity: model.QuantityFromFloat(r.Quantity.Float()),
		Hours:    r.Hours.Float(),
	}
	switch model.ParseSourceKind(r.Kind) {
	case model.KindSolar:
		src.Spec = model.SolarSpec{
			PanelWatts:    deref(r.PanelWatts, 0),
			Panels:        deref(r.Panels, DefaultSolarPanels),
			SunHours:      deref(r.SunHours, DefaultSunHours),
			Derate:        deref(r.Derate, DefaultSolarDerate),
			ControllerEff: deref(r.ControllerEff, DefaultControllerEff),
		}
	case model.KindWind:
		src.Spec = model.WindSpec{
			RatedWatts:     deref(r.RatedWatts, 0),
			CapacityFactor: deref(r.CapacityFactor, DefaultCapacityFactor),
		}
	case model.KindAlternator:
		src.Spec = model.AlternatorSpec{Amps: deref(r.Amps, 0)}
	case model.KindACCharger:
		src.Spec = model.ChargerSpec{
			Amps:       deref(r.Amps, 0),
			Efficiency: deref(r.Efficiency, DefaultChargerEffPct),
		}
	}
	return src
}

func sourceRecordFrom(s model.Source) SourceRecord {
	r := SourceRecord{
		ID:       s.ID,
		Name:     s.Name,
		Kind:     string(s.Kind()),
		Quantity: Number(s.Quantity),
		Hours:    Number(s.Hours),
	}
	switch spec := s.Spec.(type) {
	case model.SolarSpec:
		r.PanelWatts = num(spec.PanelWatts)
		r.Panels = num(spec.Panels)
		r.SunHours = num(spec.SunHours)
		r.Derate = num(spec.Derate)
		r.ControllerEff = num(spec.ControllerEff)
	case model.WindSpec:
		r.RatedWatts = num(spec.RatedWatts)
		r.CapacityFactor = num(spec.CapacityFactor)
	case model.AlternatorSpec:
		r.Amps = num(spec.Amps)
	case model.ChargerSpec:
		r.Amps = num(spec.Amps)
		r.Efficiency = num(spec.Efficiency)
	}
	return r
}

// ToInputs converts the document into engine inputs. Values are not
// clamped here; the engine normalizes once per recompute.
func (d *Document) ToInputs() model.Inputs {
	in := model.Inputs{
		Settings: d.Settings.ToSettings(),
		Loads:    make([]model.LoadRow, len(d.Loads)),
		Sources:  make([]model.Source, len(d.Sources)),
	}
	for i, r := range d.Loads {
		in.Loads[i] = r.ToLoadRow()
	}
	for i, r := range d.Sources {
		in.Sources[i] = r.ToSource()
	}
	return in
}

// FromInputs builds a document holding in.
func FromInputs(in model.Inputs) *Document {
	d := NewDocument()
	d.Settings = settingsRecordFrom(in.Settings)
	d.Loads = make([]LoadRecord, len(in.Loads))
	for i, r := range in.Loads {
		d.Loads[i] = loadRecordFrom(r)
	}
	d.Sources = make([]SourceRecord, len(in.Sources))
	for i, s := range in.Sources {
		d.Sources[i] = sourceRecordFrom(s)
	}
	return d
}
