package handlers

import (
	"errors"
	"net/http"

	"energy-multiplier/internal/api/models"
	"energy-multiplier/internal/logger"
	"energy-multiplier/internal/model"

	"github.com/gin-gonic/gin"
)

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// writeError maps domain errors to the error envelope.
func writeError(c *gin.Context, err error) {
	var (
		schemaErr *model.SchemaError
		curveErr  *model.CurveFormatError
	)
	status := http.StatusInternalServerError
	detail := models.ErrorDetail{Code: "INTERNAL_ERROR", Message: err.Error()}

	switch {
	case errors.As(err, &schemaErr):
		status = http.StatusUnprocessableEntity
		detail.Code = "SCHEMA_ERROR"
		detail.Details = map[string]interface{}{
			"source":  schemaErr.Source,
			"role":    schemaErr.Role,
			"headers": schemaErr.Headers,
		}
	case errors.As(err, &curveErr):
		status = http.StatusUnprocessableEntity
		detail.Code = "CURVE_FORMAT_ERROR"
		if curveErr.Row > 0 {
			detail.Details = map[string]interface{}{"row": curveErr.Row}
		}
	case errors.Is(err, model.ErrNoMatchingData):
		status = http.StatusUnprocessableEntity
		detail.Code = "NO_MATCHING_DATA"
	case errors.Is(err, model.ErrUnknownZone):
		status = http.StatusBadRequest
		detail.Code = "UNKNOWN_ZONE"
	case errors.Is(err, model.ErrNoPriceFile):
		status = http.StatusNotFound
		detail.Code = "NO_PRICE_FILE"
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, models.ErrorResponse{Error: detail})
}
