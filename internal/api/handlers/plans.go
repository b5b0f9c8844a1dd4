package handlers

import (
	"net/http"

	"battery-budget/internal/api/models"
	"battery-budget/internal/budget"
	"battery-budget/internal/logger"
	"battery-budget/internal/snapshot"

	"github.com/gin-gonic/gin"
)

// PlanHandler serves saved plans from a snapshot.Store.
type PlanHandler struct {
	store  snapshot.Store
	engine *budget.Engine
}

func NewPlanHandler(store snapshot.Store, engine *budget.Engine) *PlanHandler {
	if engine == nil {
		engine = budget.New()
	}
	return &PlanHandler{store: store, engine: engine}
}

// ListPlans handles GET /api/v1/plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	metas, err := h.store.List(c.Request.Context())
	if err != nil {
		writeStoreError(c, "", err)
		return
	}
	c.JSON(http.StatusOK, models.PlanListResponse{Plans: metas})
}

// GetPlan handles GET /api/v1/plans/:id
func (h *PlanHandler) GetPlan(c *gin.Context) {
	id := c.Param("id")
	doc, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, id, err)
		return
	}
	c.JSON(http.StatusOK, models.PlanResponse{Plan: doc})
}

// SavePlan handles POST /api/v1/plans. An empty id creates a new plan.
func (h *PlanHandler) SavePlan(c *gin.Context) {
	doc := snapshot.NewDocument()
	if err := c.ShouldBindJSON(doc); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return
	}
	h.save(c, doc, http.StatusCreated)
}

// DeletePlan handles DELETE /api/v1/plans/:id
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		writeStoreError(c, id, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PlanBudget handles GET /api/v1/plans/:id/budget?unit=wh|ah
func (h *PlanHandler) PlanBudget(c *gin.Context) {
	id := c.Param("id")
	doc, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, id, err)
		return
	}
	opts := models.BudgetOptions{
		Unit:             c.Query("unit"),
		IncludeBreakdown: c.Query("breakdown") == "true",
		IncludeDays:      c.Query("days") == "true",
	}
	res := h.engine.Run(doc.ToInputs())
	c.JSON(http.StatusOK, buildBudgetResponse(res, opts))
}

// Autosave handles POST /api/v1/plans/autosave
func (h *PlanHandler) Autosave(c *gin.Context) {
	doc := snapshot.NewDocument()
	if err := c.ShouldBindJSON(doc); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return
	}
	saved, err := snapshot.Autosave(c.Request.Context(), h.store, doc)
	if err != nil {
		writeStoreError(c, snapshot.AutosaveID, err)
		return
	}
	c.JSON(http.StatusOK, models.PlanResponse{Plan: saved})
}

// ImportPlan handles POST /api/v1/plans/import?format=json|hjson with the
// raw snapshot as body. A body that cannot be decoded is rejected with 422
// and nothing is stored.
func (h *PlanHandler) ImportPlan(c *gin.Context) {
	var q models.ImportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return
	}
	format, err := snapshot.ParseFormat(q.Format)
	if err != nil || format == snapshot.FormatYAML {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, "format must be json or hjson",
			map[string]interface{}{"format": q.Format})
		return
	}
	raw, err := c.GetRawData()
	if err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), nil)
		return
	}

	doc, err := snapshot.Decode(raw, format)
	if err != nil {
		writeError(c, http.StatusUnprocessableEntity, CodeInvalidPlan, err.Error(), nil)
		return
	}
	if doc.Repaired {
		logger.Logger.Warnf("[Plans] imported snapshot %q needed repair", doc.Name)
	}
	if q.Name != "" {
		doc.Name = q.Name
	}
	if snapshot.ValidateID(doc.ID) != nil {
		doc.ID = ""
	}
	h.save(c, doc, http.StatusCreated)
}

func (h *PlanHandler) save(c *gin.Context, doc *snapshot.Document, status int) {
	repaired := doc.Repaired
	saved, err := h.store.Save(c.Request.Context(), doc)
	if err != nil {
		writeStoreError(c, doc.ID, err)
		return
	}
	logger.Logger.Infof("[Plans] saved %s (%q)", saved.ID, saved.Name)

	res := h.engine.Run(saved.ToInputs())
	b := buildBudgetResponse(res, models.BudgetOptions{})
	c.JSON(status, models.PlanResponse{Plan: saved, Budget: &b, Repaired: repaired})
}
