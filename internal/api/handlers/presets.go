package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"battery-budget/internal/api/models"
	"battery-budget/internal/budget"
	"battery-budget/internal/config"
	"battery-budget/internal/logger"
	"battery-budget/internal/snapshot"

	"github.com/gin-gonic/gin"
)

// PresetHandler serves YAML plan presets from a directory.
type PresetHandler struct {
	presetDir string
	engine    *budget.Engine
}

// NewPresetHandler creates a preset handler reading from dir
// (default ./examples/presets).
func NewPresetHandler(dir string, engine *budget.Engine) *PresetHandler {
	if dir == "" {
		dir = filepath.Join(".", "examples", "presets")
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if engine == nil {
		engine = budget.New()
	}
	logger.Logger.Infof("[Presets] using preset directory %s", dir)
	return &PresetHandler{presetDir: dir, engine: engine}
}

func (h *PresetHandler) Dir() string { return h.presetDir }

// ListPresets handles GET /api/v1/presets
func (h *PresetHandler) ListPresets(c *gin.Context) {
	presets := []models.PresetInfo{}

	entries, err := os.ReadDir(h.presetDir)
	if err != nil {
		logger.Logger.Warnf("[Presets] failed to read %s: %v", h.presetDir, err)
		c.JSON(http.StatusOK, gin.H{"presets": presets})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		path := filepath.Join(h.presetDir, entry.Name())
		info, _, err := h.loadPreset(path)
		if err != nil {
			logger.Logger.Warnf("[Presets] skipping %s: %v", path, err)
			continue
		}
		presets = append(presets, *info)
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].ID < presets[j].ID })

	c.JSON(http.StatusOK, gin.H{"presets": presets})
}

// GetPreset handles GET /api/v1/presets/:id and returns the merged plan with
// its budget.
func (h *PresetHandler) GetPreset(c *gin.Context) {
	id := c.Param("id")
	if snapshot.ValidateID(id) != nil {
		writeError(c, http.StatusNotFound, CodePresetNotFound, "preset not found", map[string]interface{}{"id": id})
		return
	}

	var path string
	for _, ext := range []string{".yaml", ".yml"} {
		cand := filepath.Join(h.presetDir, id+ext)
		if _, err := os.Stat(cand); err == nil {
			path = cand
			break
		}
	}
	if path == "" {
		writeError(c, http.StatusNotFound, CodePresetNotFound, "preset not found", map[string]interface{}{"id": id})
		return
	}

	info, doc, err := h.loadPreset(path)
	if err != nil {
		writeError(c, http.StatusInternalServerError, CodeInvalidPlan, err.Error(), map[string]interface{}{"id": id})
		return
	}
	res := h.engine.Run(doc.ToInputs())
	b := buildBudgetResponse(res, models.BudgetOptions{Unit: c.Query("unit")})
	c.JSON(http.StatusOK, gin.H{
		"preset": info,
		"plan":   doc,
		"budget": b,
	})
}

func (h *PresetHandler) loadPreset(path string) (*models.PresetInfo, *snapshot.Document, error) {
	cfg, err := config.LoadUnchecked(path)
	if err != nil {
		return nil, nil, err
	}
	doc := cfg.Document()

	// Keep the full filename without extension as the ID
	// (e.g. "weekend_cruiser.yaml" -> "weekend_cruiser").
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name := doc.Name
	if name == "" {
		name = id
	}
	doc.ID = id

	info := &models.PresetInfo{
		ID:          id,
		Name:        name,
		File:        path,
		Voltage:     doc.Settings.Voltage.Float(),
		Chemistry:   doc.Settings.Chemistry,
		LoadCount:   len(doc.Loads),
		SourceCount: len(doc.Sources),
	}
	if st, err := os.Stat(path); err == nil {
		info.ModTime = st.ModTime().UTC()
	}
	return info, doc, nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
