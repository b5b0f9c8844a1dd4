package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battery-budget/internal/budget"
	"battery-budget/internal/model"
)

func tripInputs() model.Inputs {
	s := model.DefaultSettings()
	s.Voltage = 24
	s.Days = 4
	s.InvStandbyW = 6
	s.ActualBankAh = 300
	s.Derate = 10
	return model.Inputs{
		Settings: s,
		Loads: []model.LoadRow{
			{Name: "Fridge", Category: model.CategoryGalley, Type: model.LoadDC, Entry: model.EntryAmps, Value: 4, HoursAnchor: 24, HoursUnderway: 24, Duty: 40, Quantity: 1},
			{Name: "Laptop", Category: model.CategoryEntertainment, Type: model.LoadAC, Entry: model.EntryWatts, Value: 65, HoursAnchor: 3, Duty: 100, Quantity: 2},
			{Name: "Radar", Category: model.CategoryNavComms, Type: model.LoadDC, Entry: model.EntryWatts, Value: 30, HoursUnderway: 6.5, Duty: 100, Quantity: 1},
		},
		Sources: []model.Source{
			{ID: "solar", Name: "Bimini", Quantity: 1, Spec: model.SolarSpec{PanelWatts: 175, Panels: 3, SunHours: 5, Derate: 12, ControllerEff: 97}},
			{ID: "wind", Name: "Turbine", Quantity: 1, Spec: model.WindSpec{RatedWatts: 400, CapacityFactor: 18}},
			{ID: "shore", Name: "Marina charger", Quantity: 1, Hours: 2, Spec: model.ChargerSpec{Amps: 30, Efficiency: 88}},
			{ID: "alt", Name: "Alternator", Quantity: 1, Hours: 1.5, Spec: model.AlternatorSpec{Amps: 90}},
		},
	}
}

func TestRoundTripReplaysIdenticalTotals(t *testing.T) {
	in := tripInputs()
	want := budget.New().Run(in).Totals

	for _, format := range []Format{FormatJSON, FormatYAML} {
		data, err := Encode(FromInputs(in), format)
		require.NoError(t, err)

		doc, err := Decode(data, format)
		require.NoError(t, err, string(format))
		assert.False(t, doc.Repaired)

		got := budget.New().Run(doc.ToInputs()).Totals
		assert.Equal(t, want, got, string(format))
	}
}

func TestDecodeFillsDefaults(t *testing.T) {
	raw := `{
		"loads": [{"name": "Lamp", "value": 10, "hours_anchor": 2}],
		"sources": [{"kind": "solar", "panel_watts": 100}, {"kind": "charger", "amps": 20}]
	}`
	doc, err := Decode([]byte(raw), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, doc.Version)

	in := doc.ToInputs()
	assert.Equal(t, model.DefaultSettings().Normalize(), in.Settings.Normalize())

	require.Len(t, in.Loads, 1)
	lamp := in.Loads[0]
	assert.Equal(t, model.CategoryMisc, lamp.Category)
	assert.Equal(t, model.LoadDC, lamp.Type)
	assert.Equal(t, model.EntryWatts, lamp.Entry)
	assert.Equal(t, 100.0, lamp.Duty)
	assert.Equal(t, 1, lamp.Quantity)

	require.Len(t, in.Sources, 2)
	assert.Equal(t, model.SolarSpec{
		PanelWatts:    100,
		Panels:        DefaultSolarPanels,
		SunHours:      DefaultSunHours,
		Derate:        DefaultSolarDerate,
		ControllerEff: DefaultControllerEff,
	}, in.Sources[0].Spec)
	assert.Equal(t, model.ChargerSpec{Amps: 20, Efficiency: DefaultChargerEffPct}, in.Sources[1].Spec)
	assert.Equal(t, 1, in.Sources[1].Quantity)
}

func TestDecodeLenientNumbers(t *testing.T) {
	raw := `{
		"settings": {"voltage": "24", "days": " 5 ", "reserve": null, "dod": {"x": 1}},
		"loads": [{"name": "Pump", "value": "abc", "qty": "2", "hours_anchor": "1.5"}]
	}`
	doc, err := Decode([]byte(raw), FormatJSON)
	require.NoError(t, err)

	in := doc.ToInputs()
	assert.Equal(t, 24.0, in.Settings.Voltage)
	assert.Equal(t, 5, in.Settings.Days)
	assert.Equal(t, 20.0, in.Settings.Reserve, "null keeps the default")
	assert.Equal(t, 0.0, in.Settings.DoD, "non-numeric becomes 0, which means chemistry default")
	assert.Equal(t, 80.0, in.Settings.Normalize().DoD)

	require.Len(t, in.Loads, 1)
	assert.Equal(t, 0.0, in.Loads[0].Value)
	assert.Equal(t, 2, in.Loads[0].Quantity)
	assert.Equal(t, 1.5, in.Loads[0].HoursAnchor)
}

func TestDecodeCapsHugeTripLength(t *testing.T) {
	doc, err := Decode([]byte(`{"settings": {"voltage": 12, "days": 1e12}, "loads": [{"name": "Lamp", "value": 5, "hours_anchor": 2, "qty": 1e300}]}`), FormatJSON)
	require.NoError(t, err)

	in := doc.ToInputs()
	assert.Equal(t, model.MaxTripDays, in.Settings.Days)
	require.Len(t, in.Loads, 1)
	assert.Equal(t, model.MaxQuantity, in.Loads[0].Quantity)

	res := budget.New().Run(in)
	assert.Len(t, res.Days, model.MaxTripDays)
}

func TestDecodeRepairsTruncatedJSON(t *testing.T) {
	raw := `{"name": "Weekend", "settings": {"voltage": 24}`
	doc, err := Decode([]byte(raw), FormatJSON)
	require.NoError(t, err)
	assert.True(t, doc.Repaired)
	assert.Equal(t, "Weekend", doc.Name)
	assert.Equal(t, 24.0, doc.Settings.Voltage.Float())
}

func TestDecodeRejects(t *testing.T) {
	_, err := Decode([]byte("   "), FormatJSON)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Decode([]byte(`[1, 2, 3]`), FormatJSON)
	assert.ErrorIs(t, err, ErrUnparsable)

	_, err = Decode([]byte(`not a plan at all`), FormatJSON)
	assert.ErrorIs(t, err, ErrUnparsable)

	_, err = Decode([]byte("[1, 2]"), FormatHJSON)
	assert.ErrorIs(t, err, ErrUnparsable)

	_, err = Decode([]byte("- a\n- b\n"), FormatYAML)
	assert.ErrorIs(t, err, ErrUnparsable)
}

func TestDecodeHJSON(t *testing.T) {
	raw := `
{
  # weekend cruise
  name: Weekend
  settings: {
    voltage: 24
    chemistry: AGM
  }
  loads: [
    {
      name: Fridge
      type: DC
      entry: A
      value: 3
      hours_anchor: 24
      duty: 50
    }
  ]
}
`
	doc, err := Decode([]byte(raw), FormatHJSON)
	require.NoError(t, err)
	assert.Equal(t, "Weekend", doc.Name)

	in := doc.ToInputs()
	assert.Equal(t, 24.0, in.Settings.Voltage)
	assert.Equal(t, model.ChemistryAGM, in.Settings.Chemistry)
	require.Len(t, in.Loads, 1)
	assert.Equal(t, model.EntryAmps, in.Loads[0].Entry)
	assert.Equal(t, 1, in.Loads[0].Quantity)
	assert.Empty(t, in.Sources)
}

func TestDecodeYAMLDefaults(t *testing.T) {
	raw := `
settings:
  voltage: 48
loads:
  - name: Watermaker
    type: ac
    value: "800"
    hours_anchor: 1
sources:
  - kind: wind
    rated_watts: 350
`
	doc, err := Decode([]byte(raw), FormatYAML)
	require.NoError(t, err)
	in := doc.ToInputs()
	assert.Equal(t, 48.0, in.Settings.Voltage)
	assert.Equal(t, 90.0, in.Settings.InvEff)
	assert.Equal(t, model.LoadAC, in.Loads[0].Type)
	assert.Equal(t, 800.0, in.Loads[0].Value)
	assert.Equal(t, 100.0, in.Loads[0].Duty)
	assert.Equal(t, model.WindSpec{RatedWatts: 350, CapacityFactor: DefaultCapacityFactor}, in.Sources[0].Spec)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("plan.JSON"))
	assert.Equal(t, FormatHJSON, FormatFromPath("/tmp/plan.hjson"))
	assert.Equal(t, FormatYAML, FormatFromPath("plan.yml"))

	f, err := ParseFormat("HJSON")
	require.NoError(t, err)
	assert.Equal(t, FormatHJSON, f)
	_, err = ParseFormat("toml")
	assert.Error(t, err)
}

func TestFileStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	doc := FromInputs(tripInputs())
	doc.Name = "Trip"
	first, err := store.Save(ctx, doc)
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Empty(t, doc.ID, "caller's document is not modified")

	second := FromInputs(tripInputs())
	second.ID = "harbour"
	second.Name = "Harbour"
	_, err = store.Save(ctx, second)
	require.NoError(t, err)

	got, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Trip", got.Name)
	assert.Equal(t, base.Add(time.Minute), got.SavedAt)
	assert.Equal(t,
		budget.New().Run(tripInputs()).Totals,
		budget.New().Run(got.ToInputs()).Totals)

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "harbour", list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	require.NoError(t, store.Delete(ctx, "harbour"))
	_, err = store.Get(ctx, "harbour")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "harbour"), ErrNotFound)
}

func TestFileStoreRejectsUnsafeIDs(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, id := range []string{"../escape", "a/b", "dot.json", " "} {
		_, err := store.Get(ctx, id)
		assert.ErrorIs(t, err, ErrInvalidID, id)

		doc := NewDocument()
		doc.ID = id
		_, err = store.Save(ctx, doc)
		assert.ErrorIs(t, err, ErrInvalidID, id)
	}
}

func TestFileStoreListSkipsCorruptFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	_, err = store.Save(ctx, NewDocument())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("[]"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAutosaveUsesReservedID(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	saved, err := Autosave(ctx, store, FromInputs(tripInputs()))
	require.NoError(t, err)
	assert.Equal(t, AutosaveID, saved.ID)
	assert.Equal(t, "Autosave", saved.Name)

	_, err = Autosave(ctx, store, FromInputs(tripInputs()))
	require.NoError(t, err)
	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
