package budget

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battery-budget/internal/model"
)

func settings12V() model.Settings {
	s := model.DefaultSettings()
	s.Voltage = 12
	s.InvEff = 90
	return s.Normalize()
}

func TestRowEnergyDCWatts(t *testing.T) {
	row := model.LoadRow{Type: model.LoadDC, Entry: model.EntryWatts, Value: 2, HoursAnchor: 8, Duty: 100, Quantity: 1}
	s := settings12V()

	assert.Equal(t, 16.0, RowEnergyWh(row, row.HoursAnchor, row.DutyFraction(), row.Quantity, s))
	assert.Equal(t, 0.0, RowEnergyWh(row, row.HoursUnderway, row.DutyFraction(), row.Quantity, s))
}

func TestRowEnergyACWattsThroughInverter(t *testing.T) {
	row := model.LoadRow{Type: model.LoadAC, Entry: model.EntryWatts, Value: 900, HoursAnchor: 0.17, Duty: 100, Quantity: 1}
	got := RowEnergyWh(row, row.HoursAnchor, row.DutyFraction(), row.Quantity, settings12V())
	assert.InDelta(t, 170.0, got, 1e-9)
}

func TestRowEnergyAmps(t *testing.T) {
	s := settings12V()
	dc := model.LoadRow{Type: model.LoadDC, Entry: model.EntryAmps, Value: 5, HoursAnchor: 2, Duty: 50, Quantity: 2}
	assert.InDelta(t, 5*12*2*0.5*2.0, RowEnergyWh(dc, dc.HoursAnchor, dc.DutyFraction(), dc.Quantity, s), 1e-9)

	ac := model.LoadRow{Type: model.LoadAC, Entry: model.EntryAmps, Value: 1, HoursAnchor: 1, Duty: 100, Quantity: 1}
	assert.InDelta(t, model.NominalACVoltage/0.9, RowEnergyWh(ac, ac.HoursAnchor, ac.DutyFraction(), ac.Quantity, s), 1e-9)
}

func TestRowEnergyZeroWhenNoEffectiveHours(t *testing.T) {
	s := settings12V()
	base := model.LoadRow{Type: model.LoadDC, Entry: model.EntryWatts, Value: 60, HoursAnchor: 4, Duty: 100, Quantity: 1}

	noQty := base
	noQty.Quantity = 0
	noDuty := base
	noDuty.Duty = 0
	noHours := base
	noHours.HoursAnchor = 0

	for _, r := range []model.LoadRow{noQty, noDuty, noHours} {
		assert.Equal(t, 0.0, RowEnergyWh(r, r.HoursAnchor, r.DutyFraction(), r.Quantity, s))
	}
	assert.Equal(t, 0.0, RowEnergyWh(base, -3, 1, 1, s))
}

func TestRowEnergyUnknownEnumsContributeZero(t *testing.T) {
	s := settings12V()
	badType := model.LoadRow{Type: model.LoadUnknown, Entry: model.EntryWatts, Value: 60, HoursAnchor: 4, Duty: 100, Quantity: 1}
	badEntry := model.LoadRow{Type: model.LoadDC, Entry: model.EntryUnknown, Value: 60, HoursAnchor: 4, Duty: 100, Quantity: 1}
	assert.Equal(t, 0.0, RowEnergyWh(badType, 4, 1, 1, s))
	assert.Equal(t, 0.0, RowEnergyWh(badEntry, 4, 1, 1, s))
}

func TestStandbyUsesLongestACLoadPerRegime(t *testing.T) {
	s := settings12V()
	s.InvStandbyW = 10
	rows := []model.LoadRow{
		{Type: model.LoadAC, HoursAnchor: 2, HoursUnderway: 1},
		{Type: model.LoadAC, HoursAnchor: 5, HoursUnderway: 0.5},
		{Type: model.LoadDC, HoursAnchor: 24, HoursUnderway: 24},
	}
	assert.Equal(t, 10.0*(5+1), StandbyWh(s, rows))

	s.InvStandbyW = 0
	assert.Equal(t, 0.0, StandbyWh(s, rows))
}

func TestSourceEnergySolar(t *testing.T) {
	src := model.Source{Quantity: 1, Spec: model.SolarSpec{PanelWatts: 200, Panels: 2, SunHours: 4.5, Derate: 15, ControllerEff: 96}}
	assert.InDelta(t, 1468.8, SourceEnergyWh(src, 12), 1e-9)
}

func TestSourceEnergyOtherKinds(t *testing.T) {
	wind := model.Source{Quantity: 2, Hours: 24, Spec: model.WindSpec{RatedWatts: 400, CapacityFactor: 25}}
	assert.InDelta(t, 400*0.25*24*2.0, SourceEnergyWh(wind, 12), 1e-9)

	alt := model.Source{Quantity: 1, Hours: 3, Spec: model.AlternatorSpec{Amps: 60}}
	assert.InDelta(t, 60*12*3.0, SourceEnergyWh(alt, 12), 1e-9)

	charger := model.Source{Quantity: 1, Hours: 4, Spec: model.ChargerSpec{Amps: 30, Efficiency: 85}}
	assert.InDelta(t, 30*24*4*0.85, SourceEnergyWh(charger, 24), 1e-9)

	assert.Equal(t, 0.0, SourceEnergyWh(model.Source{Quantity: 3, Hours: 5}, 12))
}

func TestSourceEnergyNeverNegative(t *testing.T) {
	src := model.Source{Quantity: 1, Hours: 5, Spec: model.AlternatorSpec{Amps: -40}}
	assert.Equal(t, 0.0, SourceEnergyWh(src, 12))
	assert.Equal(t, 0.0, SourceEnergyWh(model.Source{Quantity: 1, Hours: 5, Spec: model.AlternatorSpec{Amps: 40}}, -12))
}

func TestSizeBankReserveThenDoD(t *testing.T) {
	s := model.Settings{Voltage: 12, DoD: 88, Reserve: 20, Days: 2, InvEff: 90}.Normalize()
	z := SizeBank(s, 2000)

	assert.InDelta(t, 2400.0, z.WithReserveWh, 1e-9)
	assert.InDelta(t, 2727.2727, z.NameplateWh, 1e-3)
	require.NotNil(t, z.NameplateAh)
	assert.InDelta(t, 227.2727, *z.NameplateAh, 1e-3)
	require.NotNil(t, z.ModuleCount)
	assert.Equal(t, 3, *z.ModuleCount)
	assert.Equal(t, "3 x 100 Ah @ 12 V", z.ModuleLayout)
}

func TestSizeBankDerateCompounds(t *testing.T) {
	s := model.Settings{Voltage: 12, DoD: 50, Reserve: 0, Days: 1, InvEff: 90, Derate: 20}.Normalize()
	z := SizeBank(s, 1000)
	assert.InDelta(t, 1000/0.5/0.8, z.NameplateWh, 1e-9)
}

func TestSizeBankMinimumOneModule(t *testing.T) {
	z := SizeBank(settings12V(), 0)
	require.NotNil(t, z.ModuleCount)
	assert.Equal(t, 1, *z.ModuleCount)
}

func TestSizeBankNoVoltage(t *testing.T) {
	s := model.Settings{Voltage: 0, Days: 1}.Normalize()
	z := SizeBank(s, 1000)
	assert.Nil(t, z.NameplateAh)
	assert.Nil(t, z.ModuleCount)
	assert.Empty(t, z.ModuleLayout)
	assert.False(t, math.IsInf(z.NameplateWh, 0))
}

func TestComputeTotalsExample(t *testing.T) {
	s := model.Settings{Voltage: 12, DoD: 88, Reserve: 20, Days: 2, InvEff: 90}
	rows := []model.LoadRow{{Type: "DC", Entry: "W", Value: 1000, HoursAnchor: 1, Duty: 100, Quantity: 1}}

	tot := ComputeTotals(s, rows, nil)
	assert.InDelta(t, 1000.0, tot.DailyConsumptionWh, 1e-9)
	assert.InDelta(t, 2000.0, tot.TripConsumptionWh, 1e-9)
	assert.InDelta(t, -1000.0, tot.NetWh, 1e-9)
	require.NotNil(t, tot.Sizing.ModuleCount)
	assert.Equal(t, 3, *tot.Sizing.ModuleCount)
}

func TestComputeTotalsTripScalesWithDays(t *testing.T) {
	rows := []model.LoadRow{{Type: "DC", Entry: "W", Value: 50, HoursAnchor: 4, HoursUnderway: 2, Duty: 100, Quantity: 1}}
	for _, days := range []int{1, 2, 7, 30} {
		s := settings12V()
		s.Days = days
		tot := ComputeTotals(s, rows, nil)
		assert.InDelta(t, float64(days)*tot.DailyConsumptionWh, tot.TripConsumptionWh, 1e-9, "days=%d", days)
	}
}

func TestComputeTotalsNonNegativeTotals(t *testing.T) {
	s := settings12V()
	rows := []model.LoadRow{
		{Type: "DC", Entry: "W", Value: -50, HoursAnchor: 4, Duty: 100, Quantity: 1},
		{Type: "AC", Entry: "A", Value: 2, HoursAnchor: -4, HoursUnderway: 1, Duty: -10, Quantity: 1},
	}
	sources := []model.Source{{Quantity: -1, Hours: -2, Spec: model.WindSpec{RatedWatts: -300, CapacityFactor: 30}}}

	tot := ComputeTotals(s, rows, sources)
	assert.GreaterOrEqual(t, tot.DailyConsumptionWh, 0.0)
	assert.GreaterOrEqual(t, tot.DailyGenerationWh, 0.0)
	assert.GreaterOrEqual(t, tot.TripConsumptionWh, 0.0)
}

func TestBuildBreakdownFoldsMinorItems(t *testing.T) {
	items := []Series{
		{Label: "Galley", Values: []float64{-800, -800}},
		{Label: "Lights", Values: []float64{-150, -150}},
		{Label: "Instruments", Values: []float64{-30, -30}},
		{Label: "Pumps", Values: []float64{-20, -20}},
	}
	total := []float64{-1000, -1000}

	got := BuildBreakdown(items, total, DefaultMajorThreshold)
	require.Len(t, got, 3)
	assert.Equal(t, "Galley", got[0].Label)
	assert.Equal(t, "Lights", got[1].Label)
	assert.Equal(t, OtherLabel, got[2].Label)
	assert.True(t, got[2].IsOther)
	assert.Equal(t, []float64{-50, -50}, got[2].Series)
	assert.InDelta(t, 0.05, got[2].Share, 1e-9)
	assert.InDelta(t, 0.8, got[0].DayPct[0], 1e-9)
}

func TestBuildBreakdownNoOtherWhenAllMajor(t *testing.T) {
	items := []Series{
		{Label: "Solar", Values: []float64{600}},
		{Label: "Wind", Values: []float64{400}},
	}
	got := BuildBreakdown(items, []float64{1000}, DefaultMajorThreshold)
	require.Len(t, got, 2)
	for _, e := range got {
		assert.False(t, e.IsOther)
	}
}

func TestBuildBreakdownCompleteness(t *testing.T) {
	items := []Series{
		{Label: "a", Values: []float64{5, 7, 1}},
		{Label: "b", Values: []float64{50, 0, 20}},
		{Label: "c", Values: []float64{0.5, 0.25, 3}},
		{Label: "d", Values: []float64{12, 40, 2}},
	}
	total := make([]float64, 3)
	for _, it := range items {
		for i, v := range it.Values {
			total[i] += v
		}
	}

	for _, th := range []float64{0, 0.01, 0.1, 0.3, 0.5, 1} {
		got := BuildBreakdown(items, total, th)
		sum := make([]float64, 3)
		for _, e := range got {
			for i, v := range e.Series {
				sum[i] += v
			}
		}
		for i := range total {
			assert.InDelta(t, total[i], sum[i], 1e-9, "threshold=%v day=%d", th, i)
		}
	}
}

func TestBuildBreakdownDayPctZeroTotal(t *testing.T) {
	got := BuildBreakdown([]Series{{Label: "x", Values: []float64{0}}}, []float64{0}, 0)
	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].DayPct[0])
}

// usableBank returns a 1 V, 100% DoD bank whose usable energy equals wh.
func usableBank(wh float64) model.BatteryBank {
	return model.BatteryBank{CapacityAh: wh, Voltage: 1, DoD: 100}
}

func TestProjectSOCExample(t *testing.T) {
	soc, ok := ProjectSOC(usableBank(1000), []float64{-200, -200, 500})
	require.True(t, ok)
	assert.InDeltaSlice(t, []float64{80, 60, 100}, soc, 1e-9)
}

func TestProjectSOCBounds(t *testing.T) {
	soc, ok := ProjectSOC(usableBank(500), []float64{-400, -400, -400, 2000, -100})
	require.True(t, ok)
	for _, v := range soc {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 100.0)
	}
	assert.Equal(t, 0.0, soc[1])
}

func TestProjectSOCUnavailable(t *testing.T) {
	for _, bank := range []model.BatteryBank{
		usableBank(0),
		usableBank(-10),
		usableBank(math.NaN()),
		{CapacityAh: 200, Voltage: 0, DoD: 80},
	} {
		soc, ok := ProjectSOC(bank, []float64{-1})
		assert.False(t, ok)
		assert.Nil(t, soc)
	}
}
