package handlers

import (
	"net/http"

	"battery-budget/internal/api/models"
	"battery-budget/internal/model"
	"battery-budget/internal/snapshot"

	"github.com/gin-gonic/gin"
)

// ReferenceHandler exposes the model's enumerations, defaults and clamp
// ranges for form building.
type ReferenceHandler struct{}

func NewReferenceHandler() *ReferenceHandler {
	return &ReferenceHandler{}
}

// GetReference handles GET /api/v1/reference
func (h *ReferenceHandler) GetReference(c *gin.Context) {
	resp := models.ReferenceResponse{
		Units:      []string{string(model.UnitWh), string(model.UnitAh)},
		LoadTypes:  []string{string(model.LoadDC), string(model.LoadAC)},
		EntryModes: []string{string(model.EntryWatts), string(model.EntryAmps)},
	}
	for _, chem := range model.Chemistries {
		resp.Chemistries = append(resp.Chemistries, models.ChemistryInfo{
			Name:       string(chem),
			DefaultDoD: chem.DefaultDoD(),
		})
	}
	for _, cat := range model.Categories {
		resp.Categories = append(resp.Categories, string(cat))
	}
	resp.SourceKinds = sourceKindInfo()

	resp.Ranges = map[string]models.Range{
		"dod":            {Min: model.MinDoD, Max: ptr(model.MaxDoD)},
		"reserve":        {Min: 0, Max: ptr(model.MaxReserve)},
		"days":           {Min: model.MinTripDays, Max: ptr(model.MaxTripDays)},
		"inv_eff":        {Min: model.MinInvEff, Max: ptr(model.MaxInvEff)},
		"inv_standby":    {Min: 0},
		"derate":         {Min: 0, Max: ptr(model.MaxDerate)},
		"actual_bank_ah": {Min: 0},
		"duty":           {Min: 0, Max: ptr(100)},
		"hours":          {Min: 0},
		"qty":            {Min: 0, Max: ptr(model.MaxQuantity)},
	}

	d := model.DefaultSettings()
	resp.Defaults = map[string]any{
		"voltage":            d.Voltage,
		"chemistry":          string(d.Chemistry),
		"reserve":            d.Reserve,
		"days":               d.Days,
		"inv_eff":            d.InvEff,
		"inv_standby":        d.InvStandbyW,
		"derate":             d.Derate,
		"actual_bank_ah":     d.ActualBankAh,
		"nominal_ac_voltage": model.NominalACVoltage,
	}

	c.JSON(http.StatusOK, resp)
}

func sourceKindInfo() []models.SourceKindInfo {
	common := []models.ParameterInfo{
		{Name: "quantity", Type: "int", Description: "Number of identical units", Default: snapshot.DefaultSourceQuantity},
	}
	return []models.SourceKindInfo{
		{
			Kind:        string(model.KindSolar),
			Description: "Panel watts x panels x peak sun hours, after derate and controller efficiency.",
			Fields: append([]models.ParameterInfo{
				{Name: "panel_watts", Type: "float", Description: "Rated watts per panel"},
				{Name: "panels", Type: "float", Description: "Panels in the array", Default: snapshot.DefaultSolarPanels},
				{Name: "sun_hours", Type: "float", Description: "Peak sun hours per day", Default: snapshot.DefaultSunHours},
				{Name: "derate", Type: "float", Description: "Shading, heat and soiling loss (%)", Default: snapshot.DefaultSolarDerate},
				{Name: "controller_eff", Type: "float", Description: "Charge controller efficiency (%)", Default: snapshot.DefaultControllerEff},
			}, common...),
		},
		{
			Kind:        string(model.KindWind),
			Description: "Rated watts x capacity factor x hours.",
			Fields: append([]models.ParameterInfo{
				{Name: "rated_watts", Type: "float", Description: "Turbine rated output"},
				{Name: "capacity_factor", Type: "float", Description: "Average fraction of rated output (%)", Default: snapshot.DefaultCapacityFactor},
				{Name: "hours", Type: "float", Description: "Hours per day"},
			}, common...),
		},
		{
			Kind:        string(model.KindAlternator),
			Description: "Charge amps x system voltage x engine hours.",
			Fields: append([]models.ParameterInfo{
				{Name: "amps", Type: "float", Description: "DC charge current"},
				{Name: "hours", Type: "float", Description: "Engine hours per day"},
			}, common...),
		},
		{
			Kind:        string(model.KindACCharger),
			Description: "Charge amps x system voltage x hours x efficiency.",
			Fields: append([]models.ParameterInfo{
				{Name: "amps", Type: "float", Description: "DC charge current"},
				{Name: "efficiency", Type: "float", Description: "Charger efficiency (%)", Default: snapshot.DefaultChargerEffPct},
				{Name: "hours", Type: "float", Description: "Shore or generator hours per day"},
			}, common...),
		},
	}
}

func ptr(v float64) *float64 { return &v }
