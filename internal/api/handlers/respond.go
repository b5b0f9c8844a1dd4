package handlers

import (
	"errors"
	"net/http"

	"battery-budget/internal/api/models"
	"battery-budget/internal/logger"
	"battery-budget/internal/snapshot"

	"github.com/gin-gonic/gin"
)

// Error codes carried in models.ErrorDetail.Code.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInvalidPlan    = "INVALID_PLAN"
	CodePlanNotFound   = "PLAN_NOT_FOUND"
	CodeStoreError     = "STORE_ERROR"
	CodeExportError    = "EXPORT_ERROR"
	CodePresetNotFound = "PRESET_NOT_FOUND"
)

func writeError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// writeStoreError maps store errors onto HTTP responses.
func writeStoreError(c *gin.Context, id string, err error) {
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		writeError(c, http.StatusNotFound, CodePlanNotFound, err.Error(), map[string]interface{}{"id": id})
	case errors.Is(err, snapshot.ErrInvalidID):
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error(), map[string]interface{}{"id": id})
	default:
		logger.Logger.Errorf("[Store] plan %q: %v", id, err)
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, CodeStoreError, err.Error(), nil)
	}
}
