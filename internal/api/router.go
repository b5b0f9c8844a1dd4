package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"battery-budget/internal/api/handlers"
	"battery-budget/internal/api/middleware"
	"battery-budget/internal/budget"
	"battery-budget/internal/logger"
	"battery-budget/internal/snapshot"

	"github.com/gin-gonic/gin"
)

// Options wires the router's dependencies.
type Options struct {
	Store       snapshot.Store
	Engine      *budget.Engine
	PresetDir   string
	StaticDir   string
	CORSOrigins []string
}

// NewRouter builds the gin engine with every /api/v1 route.
func NewRouter(opts Options) *gin.Engine {
	engine := opts.Engine
	if engine == nil {
		engine = budget.New()
	}

	router := gin.New()
	router.Use(middleware.CORS(opts.CORSOrigins))
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	budgetHandler := handlers.NewBudgetHandler(engine)
	planHandler := handlers.NewPlanHandler(opts.Store, engine)
	presetHandler := handlers.NewPresetHandler(opts.PresetDir, engine)
	referenceHandler := handlers.NewReferenceHandler()

	health := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", health)

	api := router.Group("/api/v1")
	{
		api.GET("/health", health)

		api.POST("/budget", budgetHandler.Compute)
		api.POST("/budget/export", budgetHandler.Export)

		api.GET("/plans", planHandler.ListPlans)
		api.POST("/plans", planHandler.SavePlan)
		api.POST("/plans/autosave", planHandler.Autosave)
		api.POST("/plans/import", planHandler.ImportPlan)
		api.GET("/plans/:id", planHandler.GetPlan)
		api.DELETE("/plans/:id", planHandler.DeletePlan)
		api.GET("/plans/:id/budget", planHandler.PlanBudget)

		api.GET("/presets", presetHandler.ListPresets)
		api.GET("/presets/:id", presetHandler.GetPreset)

		api.GET("/reference", referenceHandler.GetReference)
	}

	serveStatic(router, opts.StaticDir)
	return router
}

// serveStatic serves a built SPA from dir, falling back to index.html for
// every non-API route.
func serveStatic(router *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); err != nil {
		logger.Logger.Infof("[API] static directory %s not found, skipping static file serving", dir)
		return
	}
	router.Static("/assets", filepath.Join(dir, "assets"))
	router.StaticFile("/favicon.ico", filepath.Join(dir, "favicon.ico"))
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	})
	logger.Logger.Infof("[API] serving static files from %s", dir)
}
