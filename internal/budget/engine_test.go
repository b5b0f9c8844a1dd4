package budget

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battery-budget/internal/model"
)

func sampleInputs() model.Inputs {
	s := model.DefaultSettings()
	s.Days = 3
	s.InvStandbyW = 8
	s.ActualBankAh = 200
	return model.Inputs{
		Settings: s,
		Loads: []model.LoadRow{
			{Name: "Anchor light", Category: model.CategoryLights, Type: model.LoadDC, Entry: model.EntryWatts, Value: 2, HoursAnchor: 8, Duty: 100, Quantity: 1},
			{Name: "Fridge", Category: model.CategoryGalley, Type: model.LoadDC, Entry: model.EntryAmps, Value: 4, HoursAnchor: 24, HoursUnderway: 24, Duty: 40, Quantity: 1},
			{Name: "Chartplotter", Category: model.CategoryNavComms, Type: model.LoadDC, Entry: model.EntryWatts, Value: 25, HoursUnderway: 8, Duty: 100, Quantity: 1},
			{Name: "Kettle", Category: model.CategoryGalley, Type: model.LoadAC, Entry: model.EntryWatts, Value: 900, HoursAnchor: 0.17, Duty: 100, Quantity: 1},
			{Name: "USB fan", Category: model.CategoryComfort, Type: model.LoadDC, Entry: model.EntryWatts, Value: 1, HoursAnchor: 2, Duty: 100, Quantity: 1},
		},
		Sources: []model.Source{
			{ID: "solar-1", Name: "Arch solar", Quantity: 1, Spec: model.SolarSpec{PanelWatts: 200, Panels: 2, SunHours: 4.5, Derate: 15, ControllerEff: 96}},
			{ID: "alt-1", Name: "Engine alternator", Quantity: 1, Hours: 1, Spec: model.AlternatorSpec{Amps: 70}},
		},
	}
}

func TestEngineRunSeriesAndLedger(t *testing.T) {
	res := New().Run(sampleInputs())

	require.Len(t, res.Days, 3)
	require.Len(t, res.Series.Labels, 3)
	assert.Equal(t, "Day 1", res.Series.Labels[0])
	assert.Equal(t, "Day 3", res.Days[2].Label)

	tot := res.Totals
	assert.InDelta(t, tot.AnchorWh+tot.UnderwayWh+tot.StandbyWh, tot.DailyConsumptionWh, 1e-9)
	assert.InDelta(t, 8*0.17, tot.StandbyWh, 1e-9)
	assert.InDelta(t, 1468.8+70*12, tot.DailyGenerationWh, 1e-9)
	assert.InDelta(t, 3*tot.NetWh, res.Days[2].CumNetWh, 1e-9)
	assert.Equal(t, model.BalanceFromNetWh(tot.NetWh), res.Days[0].Balance)

	require.Len(t, res.Series.SOC, 3)
	require.NotNil(t, res.Days[0].SOCPercent)
	assert.Empty(t, res.Unavailable)
}

func TestEngineRunBreakdownsSumToTotals(t *testing.T) {
	res := New().Run(sampleInputs())

	sum := make([]float64, len(res.Series.Consumption))
	for _, e := range res.Breakdown.Categories {
		for i, v := range e.Series {
			sum[i] += v
		}
	}
	for i, c := range res.Series.Consumption {
		assert.InDelta(t, -c, sum[i], 1e-9)
	}

	labels := map[string]bool{}
	for _, e := range res.Breakdown.Categories {
		labels[e.Label] = true
	}
	assert.True(t, labels["Galley"])
	assert.True(t, labels[OtherLabel], "comfort and standby are minor contributors")

	gen := 0.0
	for _, e := range res.Breakdown.Sources {
		gen += e.Series[0]
	}
	assert.InDelta(t, res.Series.Generation[0], gen, 1e-9)
}

func TestEngineZeroThresholdKeepsEveryItem(t *testing.T) {
	res := (&Engine{MajorThreshold: 0}).Run(sampleInputs())

	labels := map[string]bool{}
	for _, e := range res.Breakdown.Categories {
		assert.False(t, e.IsOther, e.Label)
		labels[e.Label] = true
	}
	assert.True(t, labels["Comfort"])
	assert.True(t, labels[StandbyLabel])
	assert.False(t, labels[OtherLabel])
}

func TestEngineRunIdempotent(t *testing.T) {
	in := sampleInputs()
	e := New()
	assert.Equal(t, e.Run(in), e.Run(in))
}

func TestEngineRunDoesNotMutateInputs(t *testing.T) {
	in := sampleInputs()
	in.Loads[0].Duty = 250
	before := in.Clone()
	_ = New().Run(in)
	assert.Equal(t, before, in)
}

func TestEngineRunUnavailableFigures(t *testing.T) {
	in := sampleInputs()
	in.Settings.Voltage = 0
	in.Settings.ActualBankAh = 0
	res := New().Run(in)

	assert.False(t, res.IsAvailable(UnavailableNameplateAh))
	assert.False(t, res.IsAvailable(UnavailableModuleCount))
	assert.False(t, res.IsAvailable(UnavailableSOC))
	assert.Nil(t, res.Series.SOC)
	assert.Nil(t, res.Days[0].SOCPercent)
}

func TestEngineRunUnknownSourceContributesZero(t *testing.T) {
	in := sampleInputs()
	in.Sources = append(in.Sources, model.Source{Name: "fuel cell", Quantity: 1, Hours: 10})
	res := New().Run(in)
	require.Len(t, res.Sources, 3)
	assert.Equal(t, 0.0, res.Sources[2].DailyWh)
	assert.Equal(t, model.KindUnknown, res.Sources[2].Kind)
}

func TestWorkspaceReloadKeepsStateOnError(t *testing.T) {
	ws := NewWorkspace(nil, sampleInputs())
	before := ws.Compute()

	err := ws.Reload(func() (model.Inputs, error) {
		return model.Inputs{}, errors.New("bad edit")
	})
	require.Error(t, err)
	assert.Equal(t, before.Totals, ws.Compute().Totals)

	next := sampleInputs()
	next.Settings.Days = 7
	require.NoError(t, ws.Reload(func() (model.Inputs, error) { return next, nil }))
	assert.Equal(t, 7, ws.Compute().Totals.Days)
}

func TestWorkspaceConcurrentReplaceAndCompute(t *testing.T) {
	ws := NewWorkspace(New(), sampleInputs())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(days int) {
			defer wg.Done()
			in := sampleInputs()
			in.Settings.Days = days
			ws.Replace(in)
		}(i + 1)
		go func() {
			defer wg.Done()
			res := ws.Compute()
			assert.Len(t, res.Days, res.Totals.Days)
		}()
	}
	wg.Wait()
}
